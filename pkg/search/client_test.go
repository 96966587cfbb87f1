package search

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"mercator-hq/lookout/pkg/config"
	"mercator-hq/lookout/pkg/telemetry/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newTestClient(p Provider, opts ...func(*ClientConfig)) *Client {
	cfg := ClientConfig{
		MaxResults:  10,
		MaxAttempts: 3,
		Logger:      newTestLogger(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return NewClient(p, cfg)
}

func TestClientSearch_AlwaysFailingYieldsOneErrorSentinel(t *testing.T) {
	inner := &stubProvider{script: []stubCall{
		{err: &ProviderError{Provider: "stub", Message: "connection refused", Cause: errors.New("dial tcp")}},
	}}
	client := newTestClient(inner)

	results := client.Search(context.Background(), "example.com")
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Title != TitleError {
		t.Errorf("Title = %q, want %q", results[0].Title, TitleError)
	}
	if !strings.Contains(results[0].Snippet, "after 3 attempt(s)") {
		t.Errorf("Snippet = %q, want attempt count", results[0].Snippet)
	}
	if !strings.Contains(results[0].Snippet, "connection refused") {
		t.Errorf("Snippet = %q, want last error", results[0].Snippet)
	}
	if inner.Calls() != 3 {
		t.Errorf("provider calls = %d, want 3", inner.Calls())
	}
}

func TestClientSearch_SucceedsAfterFailures(t *testing.T) {
	inner := &stubProvider{script: []stubCall{
		{err: &ProviderError{Provider: "stub", StatusCode: 503, Message: "unavailable"}},
		{results: []Result{{Title: "Example", Link: "https://example.com", Snippet: "site"}}},
	}}
	client := newTestClient(inner)

	results := client.Search(context.Background(), "example.com")
	if len(results) != 1 || results[0].Title != "Example" {
		t.Fatalf("results = %+v", results)
	}
	if inner.Calls() != 2 {
		t.Errorf("provider calls = %d, want 2", inner.Calls())
	}
}

func TestClientSearch_NonRetryableStopsAfterOneAttempt(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"parse error", &ParseError{Provider: "stub", Cause: errors.New("unexpected token")}},
		{"forbidden", &ProviderError{Provider: "stub", StatusCode: http.StatusForbidden, Message: "forbidden"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inner := &stubProvider{script: []stubCall{{err: tt.err}}}
			client := newTestClient(inner)

			results := client.Search(context.Background(), "q")
			if len(results) != 1 || results[0].Title != TitleError {
				t.Fatalf("results = %+v, want one error sentinel", results)
			}
			if !strings.Contains(results[0].Snippet, "after 1 attempt(s)") {
				t.Errorf("Snippet = %q", results[0].Snippet)
			}
			if inner.Calls() != 1 {
				t.Errorf("provider calls = %d, want 1", inner.Calls())
			}
		})
	}
}

func TestClientSearch_EmptyYieldsNoResultsSentinel(t *testing.T) {
	inner := &stubProvider{script: []stubCall{{results: nil}}}
	client := newTestClient(inner)

	results := client.Search(context.Background(), "nothing.example")
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Title != TitleNoResults {
		t.Errorf("Title = %q, want %q", results[0].Title, TitleNoResults)
	}
	if !strings.Contains(results[0].Snippet, `"nothing.example"`) {
		t.Errorf("Snippet = %q, want quoted query", results[0].Snippet)
	}
	if inner.Calls() != 1 {
		t.Errorf("empty result set must not be retried, calls = %d", inner.Calls())
	}
}

func TestClientSearch_TruncatesToMaxResults(t *testing.T) {
	many := make([]Result, 5)
	for i := range many {
		many[i] = Result{Title: "r", Link: "https://example.com", Snippet: "s"}
	}
	inner := &stubProvider{script: []stubCall{{results: many}}}
	client := newTestClient(inner, func(c *ClientConfig) { c.MaxResults = 2 })

	if got := client.Search(context.Background(), "q"); len(got) != 2 {
		t.Errorf("len(results) = %d, want 2", len(got))
	}
}

// slowProvider blocks until its context is done.
type slowProvider struct{ calls int }

func (p *slowProvider) Name() string { return "slow" }

func (p *slowProvider) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	p.calls++
	<-ctx.Done()
	return nil, &ProviderError{Provider: "slow", Message: "request failed", Cause: ctx.Err()}
}

func TestClientSearch_PerAttemptTimeout(t *testing.T) {
	inner := &slowProvider{}
	client := newTestClient(inner, func(c *ClientConfig) {
		c.Timeout = 20 * time.Millisecond
		c.MaxAttempts = 2
	})

	start := time.Now()
	results := client.Search(context.Background(), "q")
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Search took %v, per-attempt timeout not applied", elapsed)
	}
	if len(results) != 1 || results[0].Title != TitleError {
		t.Fatalf("results = %+v, want error sentinel", results)
	}
	if inner.calls != 2 {
		t.Errorf("calls = %d, want 2", inner.calls)
	}
}

func TestClientSearch_RecordsMetrics(t *testing.T) {
	collector := metrics.NewCollector(&config.MetricsConfig{Enabled: true}, nil)
	inner := &stubProvider{script: []stubCall{
		{err: &ProviderError{Provider: "stub", StatusCode: 500, Message: "boom"}},
		{results: []Result{{Title: "ok"}}},
	}}
	client := newTestClient(inner, func(c *ClientConfig) { c.Metrics = collector })

	client.Search(context.Background(), "q")

	if got := testutil.CollectAndCount(collector.Registry(), "lookout_search_attempts_total"); got != 2 {
		t.Errorf("attempt series = %d, want 2 (success and error)", got)
	}
	if got := testutil.CollectAndCount(collector.Registry(), "lookout_search_queries_total"); got != 1 {
		t.Errorf("query series = %d, want 1", got)
	}
}

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.SearchConfig
		want    string
		wantErr bool
	}{
		{name: "leta default", cfg: config.SearchConfig{Provider: "leta"}, want: "leta"},
		{name: "empty means leta", cfg: config.SearchConfig{}, want: "leta"},
		{name: "searxng", cfg: config.SearchConfig{Provider: "searxng", BaseURL: "http://searx.local"}, want: "searxng"},
		{name: "searxng without url", cfg: config.SearchConfig{Provider: "searxng"}, wantErr: true},
		{name: "unknown", cfg: config.SearchConfig{Provider: "bing"}, wantErr: true},
		{
			name: "breaker and pacer keep the name",
			cfg: config.SearchConfig{
				Provider:          "leta",
				RequestsPerSecond: 2,
				Burst:             1,
				CircuitBreaker:    config.CircuitBreakerConfig{Enabled: true, MaxFailures: 3, Timeout: time.Second},
			},
			want: "leta",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProvider(tt.cfg, http.DefaultClient, newTestLogger())
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewProvider() error = %v", err)
			}
			if p.Name() != tt.want {
				t.Errorf("Name() = %q, want %q", p.Name(), tt.want)
			}
		})
	}
}

func TestNewProvider_WrapOrder(t *testing.T) {
	cfg := config.SearchConfig{
		Provider:          "leta",
		RequestsPerSecond: 1,
		CircuitBreaker:    config.CircuitBreakerConfig{Enabled: true, MaxFailures: 1},
	}
	p, err := NewProvider(cfg, http.DefaultClient, newTestLogger())
	if err != nil {
		t.Fatal(err)
	}
	paced, ok := p.(*PacedProvider)
	if !ok {
		t.Fatalf("outer provider = %T, want *PacedProvider", p)
	}
	if _, ok := paced.inner.(*BreakerProvider); !ok {
		t.Errorf("inner provider = %T, want *BreakerProvider", paced.inner)
	}
}
