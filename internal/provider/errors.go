package provider

import (
	"errors"
	"fmt"
)

// Failure kinds every adapter normalizes into. The dispatcher never sees
// any other error class from an adapter.
var (
	ErrMissingCredential = errors.New("provider: missing credential")
	ErrTransport         = errors.New("provider: transport error")
	ErrParse             = errors.New("provider: unexpected response shape")
)

// Error is a normalized upstream failure carrying the provider name, the
// failure kind, and whatever detail the upstream gave us.
type Error struct {
	Provider   string
	Kind       error // one of the sentinel kinds above
	StatusCode int   // set for non-success HTTP responses
	Detail     string
	Err        error // underlying cause, if any
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s API error: %d - %s", e.Provider, e.StatusCode, e.Detail)
	}
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Provider, e.Detail)
	}
	return fmt.Sprintf("%s: %v", e.Provider, e.Kind)
}

// Unwrap exposes both the kind sentinel and the underlying cause so that
// errors.Is matches either (e.g. context.DeadlineExceeded through ErrTransport).
func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func missingCredential(name string) error {
	return &Error{Provider: name, Kind: ErrMissingCredential, Detail: "API key not configured"}
}

func transportErr(name string, err error) error {
	return &Error{Provider: name, Kind: ErrTransport, Detail: "request failed", Err: err}
}

func statusErr(name string, status int, body string) error {
	return &Error{Provider: name, Kind: ErrTransport, StatusCode: status, Detail: body}
}

func parseErr(name, detail string, err error) error {
	return &Error{Provider: name, Kind: ErrParse, Detail: detail, Err: err}
}
