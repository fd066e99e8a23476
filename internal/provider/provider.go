package provider

import (
	"context"
	"net/http"

	"github.com/anindya384/Babil-ai-mobile/internal/config"
)

// UserContext carries the optional identity the browser client attaches to
// a chat request. FullName drives the per-provider personalization prompt.
type UserContext struct {
	FullName string `json:"fullName,omitempty"`
	Email    string `json:"email,omitempty"`
	UserID   string `json:"userId,omitempty"`
}

// Adapter wraps one upstream AI text-generation service. Invoke blocks for
// at most the adapter's configured timeout (bounded by ctx) and fails only
// with a *Error.
type Adapter interface {
	Name() string
	Invoke(ctx context.Context, prompt string, uc UserContext) (string, error)
}

// BuildRegistry returns the fixed, ordered adapter list. The order here
// defines the position of each provider's entry in the aggregated chat
// response, independent of completion order.
func BuildRegistry(cfg config.ProvidersConfig, client *http.Client) []Adapter {
	if client == nil {
		client = http.DefaultClient
	}
	return []Adapter{
		NewChatGPT(cfg.ChatGPT, client),
		NewClaude(cfg.Claude, client),
		NewGemini(cfg.Gemini, client),
		NewGrok(cfg.Grok, client),
		NewPerplexity(cfg.Perplexity, client),
		NewMistral(cfg.Mistral, client),
	}
}

// Names returns the registry's provider names in order.
func Names(adapters []Adapter) []string {
	names := make([]string, len(adapters))
	for i, a := range adapters {
		names[i] = a.Name()
	}
	return names
}
