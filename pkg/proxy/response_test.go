package proxy

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"mercator-hq/lookout/pkg/backend"
)

func TestRelayResponse(t *testing.T) {
	resp := &backend.Response{
		StatusCode: http.StatusCreated,
		Header: http.Header{
			"Content-Type":      []string{"application/json"},
			"Transfer-Encoding": []string{"chunked"},
			"Content-Length":    []string{"9999"},
			"X-Ollama":          []string{"a", "b"},
		},
		Body: []byte(`{"choices":[]}`),
	}

	w := httptest.NewRecorder()
	if err := RelayResponse(w, resp); err != nil {
		t.Fatalf("RelayResponse() error = %v", err)
	}

	if w.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", w.Code)
	}
	if got := w.Header().Get("Content-Length"); got != fmt.Sprint(len(resp.Body)) {
		t.Errorf("Content-Length = %q, want recomputed %d", got, len(resp.Body))
	}
	if w.Header().Get("Transfer-Encoding") != "" {
		t.Error("Transfer-Encoding should be dropped")
	}
	if got := w.Header().Values("X-Ollama"); len(got) != 2 {
		t.Errorf("X-Ollama = %v, want both values", got)
	}
	if w.Body.String() != `{"choices":[]}` {
		t.Errorf("body = %q", w.Body.String())
	}
}

func TestRelayResponse_ErrorStatusRelayed(t *testing.T) {
	w := httptest.NewRecorder()
	err := RelayResponse(w, &backend.Response{
		StatusCode: http.StatusNotFound,
		Header:     http.Header{},
		Body:       []byte(`{"error":"model not found"}`),
	})
	if err != nil {
		t.Fatal(err)
	}
	if w.Code != http.StatusNotFound || w.Body.String() != `{"error":"model not found"}` {
		t.Errorf("got %d %q", w.Code, w.Body.String())
	}
}

func TestRelayResponse_BackendHeadersReplace(t *testing.T) {
	w := httptest.NewRecorder()
	w.Header().Set(RequestIDHeader, "proxy-id")
	w.Header().Set("X-Proxy", "kept")

	resp := &backend.Response{
		StatusCode: http.StatusOK,
		Header: http.Header{
			"X-Request-Id": []string{"backend-id"},
			"Vary":         []string{"Origin", "Accept-Encoding"},
		},
		Body: []byte(`{}`),
	}
	if err := RelayResponse(w, resp); err != nil {
		t.Fatal(err)
	}

	if got := w.Header().Values(RequestIDHeader); len(got) != 1 || got[0] != "backend-id" {
		t.Errorf("X-Request-ID = %v, want [backend-id]", got)
	}
	if got := w.Header().Values("Vary"); len(got) != 2 {
		t.Errorf("Vary = %v, want both values", got)
	}
	if w.Header().Get("X-Proxy") != "kept" {
		t.Error("headers the backend did not send should be kept")
	}
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"request error", &RequestError{Kind: KindMissingMessages, Message: "missing messages in request"}, "missing messages in request"},
		{"backend unavailable", &backend.UnavailableError{URL: "http://127.0.0.1:11434/v1/chat/completions", Attempt: 3, Cause: errors.New("connection refused")}, "backend http://127.0.0.1:11434/v1/chat/completions unavailable (attempt 3): connection refused"},
		{"unknown", errors.New("boom"), "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			if err := WriteError(w, tt.err); err != nil {
				t.Fatal(err)
			}
			if w.Code != http.StatusInternalServerError {
				t.Errorf("status = %d, want 500", w.Code)
			}
			if ct := w.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q", ct)
			}

			var body map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("body %q is not JSON: %v", w.Body.String(), err)
			}
			if len(body) != 1 || body["error"] != tt.want {
				t.Errorf("body = %v, want {error: %q}", body, tt.want)
			}
		})
	}
}

func TestErrorKind(t *testing.T) {
	if got := ErrorKind(&backend.UnavailableError{Cause: errors.New("x")}); got != KindBackendUnavailable {
		t.Errorf("ErrorKind(unavailable) = %q", got)
	}
	if got := ErrorKind(fmt.Errorf("wrapped: %w", &RequestError{Kind: KindMalformedRequest})); got != KindMalformedRequest {
		t.Errorf("ErrorKind(wrapped request error) = %q", got)
	}
	if got := ErrorKind(errors.New("x")); got != KindUnknown {
		t.Errorf("ErrorKind(other) = %q", got)
	}
}
