package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/anindya384/Babil-ai-mobile/internal/config"
)

const anthropicVersion = "2023-06-01"

// Claude talks to the Anthropic Messages API. Unlike the OpenAI-style
// upstreams it authenticates with an x-api-key header and takes the system
// prompt as a top-level field.
type Claude struct {
	cfg    config.ProviderConfig
	client *http.Client
}

func NewClaude(cfg config.ProviderConfig, client *http.Client) *Claude {
	return &Claude{cfg: cfg, client: client}
}

func (a *Claude) Name() string { return "claude" }

type anthropicRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens"`
	Messages  []chatMessage `json:"messages"`
	System    string        `json:"system,omitempty"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

func (a *Claude) Invoke(ctx context.Context, prompt string, uc UserContext) (string, error) {
	if a.cfg.APIKey == "" {
		return "", missingCredential(a.Name())
	}
	if a.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.Timeout)
		defer cancel()
	}

	body := anthropicRequest{
		Model:     a.cfg.Model,
		MaxTokens: maxResponseTokens,
		Messages:  []chatMessage{{Role: "user", Content: prompt}},
		System:    a.systemPrompt(uc),
	}
	data, err := json.Marshal(body)
	if err != nil {
		return "", parseErr(a.Name(), "encode request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.BaseURL+"/messages", bytes.NewReader(data))
	if err != nil {
		return "", transportErr(a.Name(), err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", a.cfg.APIKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return "", transportErr(a.Name(), err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", transportErr(a.Name(), err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", statusErr(a.Name(), resp.StatusCode, string(raw))
	}

	var parsed anthropicResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", parseErr(a.Name(), "decode response", err)
	}
	for _, block := range parsed.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", parseErr(a.Name(), "no text block in response", nil)
}

func (a *Claude) systemPrompt(uc UserContext) string {
	if uc.FullName == "" {
		return "You are Claude, a helpful AI assistant."
	}
	return fmt.Sprintf(`You are Claude, a helpful AI assistant. You are talking to %[1]s.

IMPORTANT: If %[1]s asks "What is my name?" or similar questions about their identity, respond with their name and ask follow-up questions to learn more about them. Be friendly and personal.`, uc.FullName)
}
