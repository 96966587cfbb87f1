package backend

import "fmt"

// UnavailableError is returned when the backend could not be reached or did
// not answer within the attempt timeout. It is the only retryable error.
type UnavailableError struct {
	// URL is the endpoint that was called.
	URL string

	// Attempt is the 1-based attempt number.
	Attempt int

	// Cause is the underlying transport error.
	Cause error
}

// Error implements the error interface.
func (e *UnavailableError) Error() string {
	return fmt.Sprintf("backend %s unavailable (attempt %d): %v", e.URL, e.Attempt, e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *UnavailableError) Unwrap() error {
	return e.Cause
}
