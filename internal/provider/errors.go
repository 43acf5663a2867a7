package provider

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrCredentialsMissing: the provider's API key is not configured.
	// Returned before any network I/O.
	ErrCredentialsMissing = errors.New("credentials missing")
	// ErrUpstreamUnavailable: connection failure or timeout.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrUpstreamError: non-2xx status, or a body that is not a usable completion.
	ErrUpstreamError = errors.New("upstream error")
)

// Error carries the failing provider and cause. Kind is one of the
// sentinels above and is what errors.Is matches.
type Error struct {
	Provider ID
	Kind     error
	Status   int
	Msg      string
	Err      error
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %v", e.Provider, e.Kind)
	if e.Status != 0 {
		fmt.Fprintf(&b, " (%d %s)", e.Status, http.StatusText(e.Status))
	}
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Err
}

func credentialsMissing(id ID) error {
	return &Error{Provider: id, Kind: ErrCredentialsMissing, Msg: "api key is not configured"}
}

func unavailable(id ID, msg string, err error) error {
	return &Error{Provider: id, Kind: ErrUpstreamUnavailable, Msg: msg, Err: err}
}

func upstreamError(id ID, status int, msg string, err error) error {
	return &Error{Provider: id, Kind: ErrUpstreamError, Status: status, Msg: msg, Err: err}
}

// Outcome classifies err for metrics and logs.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrCredentialsMissing):
		return "credentials_missing"
	case errors.Is(err, ErrUpstreamUnavailable):
		return "unavailable"
	case errors.Is(err, ErrUpstreamError):
		return "upstream_error"
	default:
		return "error"
	}
}
