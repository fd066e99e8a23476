package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
)

// OpenAI-style chat completions wire format, shared by the chatgpt, grok,
// perplexity, and mistral upstreams. Each adapter still owns its endpoint,
// model, generation parameters, and persona prompt.

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionsRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
	TopP        *float64      `json:"top_p,omitempty"`
	Stream      bool          `json:"stream,omitempty"`
}

type chatCompletionsResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
}

// maxResponseTokens caps every upstream completion.
const maxResponseTokens = 1000

func doChatCompletions(ctx context.Context, client *http.Client, name, url, apiKey string, body chatCompletionsRequest) (string, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return "", parseErr(name, "encode request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", transportErr(name, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := client.Do(httpReq)
	if err != nil {
		return "", transportErr(name, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", transportErr(name, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", statusErr(name, resp.StatusCode, string(raw))
	}

	var parsed chatCompletionsResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", parseErr(name, "decode response", err)
	}
	if len(parsed.Choices) == 0 {
		return "", parseErr(name, "empty choices in response", nil)
	}
	return parsed.Choices[0].Message.Content, nil
}
