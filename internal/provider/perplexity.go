package provider

import (
	"context"
	"fmt"
	"net/http"

	"github.com/anindya384/Babil-ai-mobile/internal/config"
)

// Perplexity talks to the Perplexity chat completions API. It runs cooler
// than the other providers (temperature 0.2, top_p 0.9) to keep its
// answers factual.
type Perplexity struct {
	cfg    config.ProviderConfig
	client *http.Client
}

func NewPerplexity(cfg config.ProviderConfig, client *http.Client) *Perplexity {
	return &Perplexity{cfg: cfg, client: client}
}

func (a *Perplexity) Name() string { return "perplexity" }

func (a *Perplexity) Invoke(ctx context.Context, prompt string, uc UserContext) (string, error) {
	if a.cfg.APIKey == "" {
		return "", missingCredential(a.Name())
	}
	if a.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.Timeout)
		defer cancel()
	}

	topP := 0.9
	return doChatCompletions(ctx, a.client, a.Name(), a.cfg.BaseURL+"/chat/completions", a.cfg.APIKey, chatCompletionsRequest{
		Model: a.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: a.systemPrompt(uc)},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   maxResponseTokens,
		Temperature: 0.2,
		TopP:        &topP,
	})
}

func (a *Perplexity) systemPrompt(uc UserContext) string {
	if uc.FullName == "" {
		return "You are Perplexity, an AI assistant that provides accurate and up-to-date information."
	}
	return fmt.Sprintf(`You are Perplexity, an AI assistant that provides accurate and up-to-date information. You are talking to %[1]s.

IMPORTANT: If %[1]s asks "What is my name?" or similar questions about their identity, respond with their name and ask follow-up questions to learn more about them. Be friendly and personal while maintaining your informative nature.`, uc.FullName)
}
