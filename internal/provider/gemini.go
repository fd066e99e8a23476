package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/anindya384/Babil-ai-mobile/internal/config"
)

// Gemini talks to the Google Generative Language API. Authentication is a
// key query parameter, and personalization is folded into the prompt text
// because the generateContent endpoint has no system role.
type Gemini struct {
	cfg    config.ProviderConfig
	client *http.Client
}

func NewGemini(cfg config.ProviderConfig, client *http.Client) *Gemini {
	return &Gemini{cfg: cfg, client: client}
}

func (a *Gemini) Name() string { return "gemini" }

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens"`
	Temperature     float64 `json:"temperature"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
}

func (a *Gemini) Invoke(ctx context.Context, prompt string, uc UserContext) (string, error) {
	if a.cfg.APIKey == "" {
		return "", missingCredential(a.Name())
	}
	if a.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.Timeout)
		defer cancel()
	}

	body := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: a.promptText(prompt, uc)}}}},
		GenerationConfig: geminiGenerationConfig{
			MaxOutputTokens: maxResponseTokens,
			Temperature:     0.7,
		},
	}
	data, err := json.Marshal(body)
	if err != nil {
		return "", parseErr(a.Name(), "encode request", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		a.cfg.BaseURL, a.cfg.Model, url.QueryEscape(a.cfg.APIKey))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return "", transportErr(a.Name(), err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

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

	var parsed geminiResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", parseErr(a.Name(), "decode response", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", parseErr(a.Name(), "empty candidates in response", nil)
	}
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}

func (a *Gemini) promptText(prompt string, uc UserContext) string {
	if uc.FullName == "" {
		return prompt
	}
	return fmt.Sprintf(`[Context: You are talking to %s. If they ask about their name or identity, respond with their name and ask follow-up questions to learn more about them. Be friendly and personal.]

User message: %s`, uc.FullName, prompt)
}
