package proxy

import (
	"net/http"
	"time"

	"mercator-hq/lookout/pkg/proxy/types"
)

// RequestMetadata contains extracted metadata from an HTTP request.
// This is used for logging and tracing.
type RequestMetadata struct {
	// RequestID is a unique identifier for the request.
	RequestID string

	// Model is the requested model name.
	Model string

	// Messages is the number of messages as received.
	Messages int

	// Stream indicates whether the caller asked for streaming. The
	// response is still fully buffered.
	Stream bool

	// Method is the HTTP method.
	Method string

	// Path is the HTTP request path.
	Path string

	// UserAgent is the client's user agent string.
	UserAgent string

	// RemoteAddr is the client's address.
	RemoteAddr string

	// Timestamp is when the request was received.
	Timestamp time.Time
}

// ExtractRequestMetadata extracts metadata from an HTTP request and the
// parsed chat request.
func ExtractRequestMetadata(r *http.Request, req *types.ChatRequest) *RequestMetadata {
	metadata := &RequestMetadata{
		RequestID:  ExtractRequestID(r),
		Method:     r.Method,
		Path:       r.URL.Path,
		UserAgent:  r.UserAgent(),
		RemoteAddr: r.RemoteAddr,
		Timestamp:  time.Now(),
	}

	if req != nil {
		metadata.Model = req.Model()
		metadata.Messages = len(req.Messages)
		_, _ = req.Field("stream", &metadata.Stream)
	}

	return metadata
}

// LogAttrs returns the metadata as slog key-value pairs.
func (m *RequestMetadata) LogAttrs() []any {
	return []any{
		"model", m.Model,
		"messages", m.Messages,
		"stream", m.Stream,
		"path", m.Path,
		"remote_addr", m.RemoteAddr,
	}
}
