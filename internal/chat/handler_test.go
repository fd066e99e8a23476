package chat

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anindya384/Babil-ai-mobile/internal/provider"
)

func newTestHandler(adapters []provider.Adapter) *Handler {
	return NewHandler(NewDispatcher(adapters, time.Second))
}

func postChat(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/v1/chat", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Chat(rec, req)
	return rec
}

func TestChat_MissingMessage(t *testing.T) {
	h := newTestHandler(nil)

	rec := postChat(t, h, `{}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "message or prompt is required", resp["error"])
}

func TestChat_InvalidJSON(t *testing.T) {
	h := newTestHandler(nil)

	rec := postChat(t, h, `{"message":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid JSON")
}

func TestChat_PromptAlias(t *testing.T) {
	h := newTestHandler([]provider.Adapter{&fakeAdapter{name: "chatgpt", text: "hello"}})

	rec := postChat(t, h, `{"prompt":"hi there"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp chatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Responses, 1)
	assert.Equal(t, "hello", resp.Responses[0].Response)
}

func TestChat_ResponseShape(t *testing.T) {
	h := newTestHandler([]provider.Adapter{
		&fakeAdapter{name: "chatgpt", text: "answer"},
		&fakeAdapter{name: "claude", err: errors.New("claude API error: 429 - rate limited")},
	})

	rec := postChat(t, h, `{"message":"hi","userContext":{"fullName":"Ada","userId":"u1"}}`)

	assert.Equal(t, http.StatusOK, rec.Code)

	var raw struct {
		Responses []map[string]any `json:"responses"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	require.Len(t, raw.Responses, 2)

	ok := raw.Responses[0]
	assert.Equal(t, "chatgpt", ok["provider"])
	assert.Equal(t, "answer", ok["response"])
	assert.Equal(t, false, ok["loading"])
	_, hasErr := ok["error"]
	assert.False(t, hasErr, "error key must be omitted on success")

	failed := raw.Responses[1]
	assert.Equal(t, "claude", failed["provider"])
	assert.Equal(t, "", failed["response"])
	assert.Equal(t, "claude is currently unavailable: claude API error: 429 - rate limited", failed["error"])
	assert.Equal(t, false, failed["loading"])
}

func TestAssemble_TimedOutEntry(t *testing.T) {
	agg := AggregatedResponse{Results: []ProviderResult{
		{Provider: "gemini", Status: StatusTimedOut, ErrorMessage: "request timed out"},
	}}

	entries := Assemble(agg)

	require.Len(t, entries, 1)
	assert.Equal(t, "gemini is currently unavailable: request timed out", entries[0].Error)
	assert.Empty(t, entries[0].Response)
}
