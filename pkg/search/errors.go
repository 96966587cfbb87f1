package search

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrCircuitOpen is returned while the circuit breaker rejects calls.
var ErrCircuitOpen = errors.New("circuit open")

// ProviderError represents a failed call to a search provider.
// StatusCode is 0 when no HTTP response was received.
type ProviderError struct {
	// Provider is the name of the provider that failed
	Provider string

	// StatusCode is the HTTP status code (0 if not applicable)
	StatusCode int

	// Message is the error message
	Message string

	// Cause is the underlying error (if any)
	Cause error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("provider %q error (status %d): %s", e.Provider, e.StatusCode, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("provider %q error: %s: %v", e.Provider, e.Message, e.Cause)
	}
	return fmt.Sprintf("provider %q error: %s", e.Provider, e.Message)
}

// Unwrap returns the underlying error for error chain support.
func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// Temporary reports whether retrying the call may succeed: transport
// failures, 429 and 5xx responses.
func (e *ProviderError) Temporary() bool {
	return e.StatusCode == 0 ||
		e.StatusCode == http.StatusTooManyRequests ||
		e.StatusCode >= http.StatusInternalServerError
}

// ParseError represents a response the provider could not decode.
type ParseError struct {
	// Provider is the name of the provider that returned the malformed response
	Provider string

	// Cause is the underlying parse error
	Cause error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("provider %q response parse error: %v", e.Provider, e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Retryable reports whether a failed search attempt should be retried.
// Parse errors and client errors other than 429 are permanent; everything
// else, including an open circuit and attempt timeouts, is retried.
func Retryable(err error) bool {
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return false
	}
	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		return providerErr.Temporary()
	}
	return true
}
