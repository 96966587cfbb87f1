package search

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
)

// roundTripFunc adapts a function to http.RoundTripper.
type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// jsonResponse builds a canned HTTP response.
func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubProvider returns scripted responses, one per call. The last entry
// repeats once the script is exhausted.
type stubProvider struct {
	mu      sync.Mutex
	name    string
	script  []stubCall
	calls   int
	queries []string
}

type stubCall struct {
	results []Result
	err     error
}

func (p *stubProvider) Name() string {
	if p.name == "" {
		return "stub"
	}
	return p.name
}

func (p *stubProvider) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.queries = append(p.queries, query)
	call := p.script[min(p.calls, len(p.script)-1)]
	p.calls++
	return call.results, call.err
}

func (p *stubProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}
