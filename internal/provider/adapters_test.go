package provider

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anindya384/Babil-ai-mobile/internal/config"
)

func providerCfg(baseURL string) config.ProviderConfig {
	return config.ProviderConfig{
		APIKey:  "test-key",
		BaseURL: baseURL,
		Model:   "test-model",
		Timeout: 5 * time.Second,
	}
}

func TestChatGPT_Invoke(t *testing.T) {
	var captured struct {
		auth string
		body chatCompletionsRequest
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured.body))
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "hello from gpt"}},
			},
		})
	}))
	defer srv.Close()

	a := NewChatGPT(providerCfg(srv.URL), srv.Client())
	text, err := a.Invoke(context.Background(), "hi", UserContext{FullName: "Ada Lovelace"})
	require.NoError(t, err)
	assert.Equal(t, "hello from gpt", text)
	assert.Equal(t, "Bearer test-key", captured.auth)
	assert.Equal(t, "test-model", captured.body.Model)
	require.Len(t, captured.body.Messages, 2)
	assert.Equal(t, "system", captured.body.Messages[0].Role)
	assert.Contains(t, captured.body.Messages[0].Content, "Ada Lovelace")
	assert.Equal(t, "hi", captured.body.Messages[1].Content)
	assert.Equal(t, maxResponseTokens, captured.body.MaxTokens)
}

func TestClaude_Invoke(t *testing.T) {
	var captured struct {
		apiKey  string
		version string
		body    anthropicRequest
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.apiKey = r.Header.Get("x-api-key")
		captured.version = r.Header.Get("anthropic-version")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured.body))
		json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]string{
				{"type": "text", "text": "hello from claude"},
			},
		})
	}))
	defer srv.Close()

	a := NewClaude(providerCfg(srv.URL), srv.Client())
	text, err := a.Invoke(context.Background(), "hi", UserContext{FullName: "Ada Lovelace"})
	require.NoError(t, err)
	assert.Equal(t, "hello from claude", text)
	assert.Equal(t, "test-key", captured.apiKey)
	assert.Equal(t, anthropicVersion, captured.version)
	assert.Contains(t, captured.body.System, "Ada Lovelace")
	require.Len(t, captured.body.Messages, 1)
	assert.Equal(t, "user", captured.body.Messages[0].Role)
}

func TestGemini_Invoke(t *testing.T) {
	var captured struct {
		key  string
		body geminiRequest
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.key = r.URL.Query().Get("key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured.body))
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]string{{"text": "hello from gemini"}}}},
			},
		})
	}))
	defer srv.Close()

	a := NewGemini(providerCfg(srv.URL), srv.Client())
	text, err := a.Invoke(context.Background(), "hi", UserContext{FullName: "Ada Lovelace"})
	require.NoError(t, err)
	assert.Equal(t, "hello from gemini", text)
	assert.Equal(t, "test-key", captured.key)
	require.Len(t, captured.body.Contents, 1)
	// Personalization rides inside the prompt text, not a system role
	assert.Contains(t, captured.body.Contents[0].Parts[0].Text, "Ada Lovelace")
	assert.Contains(t, captured.body.Contents[0].Parts[0].Text, "User message: hi")
}

func TestGemini_NoContextWithoutFullName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body geminiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "hi", body.Contents[0].Parts[0].Text)
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]string{{"text": "ok"}}}},
			},
		})
	}))
	defer srv.Close()

	a := NewGemini(providerCfg(srv.URL), srv.Client())
	_, err := a.Invoke(context.Background(), "hi", UserContext{})
	require.NoError(t, err)
}

func TestPerplexity_GenerationParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body chatCompletionsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 0.2, body.Temperature)
		require.NotNil(t, body.TopP)
		assert.Equal(t, 0.9, *body.TopP)
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": "ok"}},
			},
		})
	}))
	defer srv.Close()

	a := NewPerplexity(providerCfg(srv.URL), srv.Client())
	_, err := a.Invoke(context.Background(), "hi", UserContext{})
	require.NoError(t, err)
}

func TestAdapter_MissingCredential(t *testing.T) {
	cfg := config.ProviderConfig{BaseURL: "http://unused", Model: "m", Timeout: time.Second}
	adapters := []Adapter{
		NewChatGPT(cfg, http.DefaultClient),
		NewClaude(cfg, http.DefaultClient),
		NewGemini(cfg, http.DefaultClient),
		NewGrok(cfg, http.DefaultClient),
		NewPerplexity(cfg, http.DefaultClient),
		NewMistral(cfg, http.DefaultClient),
	}
	for _, a := range adapters {
		_, err := a.Invoke(context.Background(), "hi", UserContext{})
		require.Error(t, err, a.Name())
		assert.ErrorIs(t, err, ErrMissingCredential, a.Name())

		var perr *Error
		require.ErrorAs(t, err, &perr, a.Name())
		assert.Equal(t, a.Name(), perr.Provider)
	}
}

func TestAdapter_UpstreamStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	a := NewGrok(providerCfg(srv.URL), srv.Client())
	_, err := a.Invoke(context.Background(), "hi", UserContext{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)

	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, http.StatusTooManyRequests, perr.StatusCode)
	assert.Contains(t, perr.Detail, "rate limited")
}

func TestAdapter_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	a := NewMistral(providerCfg(srv.URL), srv.Client())
	_, err := a.Invoke(context.Background(), "hi", UserContext{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParse)
}

func TestAdapter_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	a := NewChatGPT(providerCfg(srv.URL), srv.Client())
	_, err := a.Invoke(context.Background(), "hi", UserContext{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParse)
}

func TestAdapter_TimeoutSurfacesDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server can detect the client abort;
		// otherwise r.Context() never fires and srv.Close() deadlocks.
		io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer srv.Close()

	cfg := providerCfg(srv.URL)
	cfg.Timeout = 50 * time.Millisecond
	a := NewChatGPT(cfg, srv.Client())

	_, err := a.Invoke(context.Background(), "hi", UserContext{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestBuildRegistry_Order(t *testing.T) {
	adapters := BuildRegistry(config.ProvidersConfig{}, nil)
	assert.Equal(t,
		[]string{"chatgpt", "claude", "gemini", "grok", "perplexity", "mistral"},
		Names(adapters),
	)
}
