package chat

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/anindya384/Babil-ai-mobile/internal/api"
	"github.com/anindya384/Babil-ai-mobile/internal/provider"
)

// Handler serves the multi-provider chat endpoint.
type Handler struct {
	dispatcher *Dispatcher
}

func NewHandler(dispatcher *Dispatcher) *Handler {
	return &Handler{dispatcher: dispatcher}
}

type chatRequest struct {
	Message string `json:"message"`
	// Prompt is an accepted alias for Message kept for older clients.
	Prompt      string                `json:"prompt"`
	UserContext *provider.UserContext `json:"userContext"`
}

// ResponseEntry is one provider's card in the chat response. Loading is
// always false server-side; the browser client flips it while waiting.
type ResponseEntry struct {
	Provider string `json:"provider"`
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
	Loading  bool   `json:"loading"`
}

type chatResponse struct {
	Responses []ResponseEntry `json:"responses"`
}

// Chat fans the prompt out to all providers and returns one entry per
// provider in fixed registry order.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.HandleError(w, api.NewBadRequestError("invalid JSON in request body"))
		return
	}

	message := req.Message
	if message == "" {
		message = req.Prompt
	}
	if message == "" {
		api.HandleError(w, api.NewBadRequestError("message or prompt is required"))
		return
	}

	var uc provider.UserContext
	if req.UserContext != nil {
		uc = *req.UserContext
	}

	result := h.dispatcher.Dispatch(r.Context(), Request{Prompt: message, UserContext: uc})
	api.JSON(w, http.StatusOK, chatResponse{Responses: Assemble(result)})
}

// Assemble maps settled outcomes onto the wire format, preserving registry
// order and yielding exactly one entry per configured provider.
func Assemble(agg AggregatedResponse) []ResponseEntry {
	entries := make([]ResponseEntry, len(agg.Results))
	for i, res := range agg.Results {
		entry := ResponseEntry{Provider: res.Provider}
		switch res.Status {
		case StatusSucceeded:
			entry.Response = res.Text
		default:
			entry.Error = fmt.Sprintf("%s is currently unavailable: %s", res.Provider, res.ErrorMessage)
		}
		entries[i] = entry
	}
	return entries
}
