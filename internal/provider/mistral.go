package provider

import (
	"context"
	"fmt"
	"net/http"

	"github.com/anindya384/Babil-ai-mobile/internal/config"
)

// Mistral talks to the Mistral chat completions API.
type Mistral struct {
	cfg    config.ProviderConfig
	client *http.Client
}

func NewMistral(cfg config.ProviderConfig, client *http.Client) *Mistral {
	return &Mistral{cfg: cfg, client: client}
}

func (a *Mistral) Name() string { return "mistral" }

func (a *Mistral) Invoke(ctx context.Context, prompt string, uc UserContext) (string, error) {
	if a.cfg.APIKey == "" {
		return "", missingCredential(a.Name())
	}
	if a.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.Timeout)
		defer cancel()
	}

	return doChatCompletions(ctx, a.client, a.Name(), a.cfg.BaseURL+"/chat/completions", a.cfg.APIKey, chatCompletionsRequest{
		Model: a.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: a.systemPrompt(uc)},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   maxResponseTokens,
		Temperature: 0.7,
	})
}

func (a *Mistral) systemPrompt(uc UserContext) string {
	if uc.FullName == "" {
		return "You are Mistral, a helpful AI assistant."
	}
	return fmt.Sprintf(`You are Mistral, a helpful AI assistant. You are talking to %[1]s.

IMPORTANT: If %[1]s asks "What is my name?" or similar questions about their identity, respond with their name and ask follow-up questions to learn more about them. Be friendly and personal.`, uc.FullName)
}
