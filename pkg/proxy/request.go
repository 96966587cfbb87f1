package proxy

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"mercator-hq/lookout/pkg/proxy/types"
)

const (
	// MaxRequestBodySize is the default request body limit (10MB).
	MaxRequestBodySize = 10 * 1024 * 1024

	// RequestIDHeader is the HTTP header for request ID propagation.
	RequestIDHeader = "X-Request-ID"
)

// Request error kinds.
const (
	KindMalformedRequest = "malformed_request"
	KindMissingMessages  = "missing_messages"
	KindRequestTooLarge  = "request_too_large"
)

// RequestError represents a request parsing or validation error.
type RequestError struct {
	// Kind classifies the failure (KindMalformedRequest, ...).
	Kind string

	// Message is the human-readable description.
	Message string

	// Cause is the underlying decode error, if any.
	Cause error
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	return e.Message
}

// Unwrap returns the underlying error for error chain support.
func (e *RequestError) Unwrap() error {
	return e.Cause
}

// ParseChatRequest reads and decodes an inbound chat request. The body is
// limited to maxBytes (MaxRequestBodySize when maxBytes <= 0).
//
// Example usage:
//
//	req, err := ParseChatRequest(r, cfg.Proxy.MaxBodyBytes)
//	if err != nil {
//	    WriteError(w, err)
//	    return
//	}
func ParseChatRequest(r *http.Request, maxBytes int64) (*types.ChatRequest, error) {
	if maxBytes <= 0 {
		maxBytes = MaxRequestBodySize
	}
	if r.Body == nil {
		return nil, &RequestError{Kind: KindMalformedRequest, Message: "invalid JSON: empty body"}
	}

	// Read one byte past the limit to detect oversized bodies.
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	if int64(len(body)) > maxBytes {
		return nil, &RequestError{
			Kind:    KindRequestTooLarge,
			Message: fmt.Sprintf("request body exceeds maximum size of %d bytes", maxBytes),
		}
	}

	var req types.ChatRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, &RequestError{
			Kind:    KindMalformedRequest,
			Message: fmt.Sprintf("invalid JSON: %v", err),
			Cause:   err,
		}
	}

	if len(req.Messages) == 0 {
		return nil, &RequestError{
			Kind:    KindMissingMessages,
			Message: "missing messages in request",
		}
	}

	return &req, nil
}

// ExtractRequestID extracts the request ID from the X-Request-ID header.
// If the header is not present, it returns an empty string.
func ExtractRequestID(r *http.Request) string {
	return r.Header.Get(RequestIDHeader)
}
