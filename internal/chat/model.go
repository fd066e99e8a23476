package chat

import (
	"github.com/anindya384/Babil-ai-mobile/internal/provider"
)

// Status is the final state of one provider invocation.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusTimedOut  Status = "timed_out"
)

// Request is one accepted chat request. Immutable once built by the handler.
type Request struct {
	Prompt      string
	UserContext provider.UserContext
}

// ProviderResult is one settled outcome. Exactly one of Text/ErrorMessage is
// set depending on Status.
type ProviderResult struct {
	Provider     string
	Status       Status
	Text         string
	ErrorMessage string
}

// AggregatedResponse holds one result per configured provider, in registry
// order regardless of completion order.
type AggregatedResponse struct {
	Results []ProviderResult
}
