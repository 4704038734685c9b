package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks request payloads that are well formed but unusable
// (empty chat history, unknown role, empty cart on checkout).
var ErrInvalidInput = errors.New("invalid input")

// ParseError reports a malformed date, id or enum value.
type ParseError struct {
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("invalid %s %q", e.Field, e.Value)
	}
	return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// NotFoundError is returned when an id does not exist in the catalog or in
// the session ledger.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// UpstreamError wraps a failure of the chat provider or the pinning service.
// StatusCode is zero for transport errors.
type UpstreamError struct {
	Service    string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: upstream status %d: %v", e.Service, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Retryable reports whether the call may succeed if repeated.
func (e *UpstreamError) Retryable() bool {
	return e.StatusCode == 0 || e.StatusCode == 429 || e.StatusCode >= 500
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
