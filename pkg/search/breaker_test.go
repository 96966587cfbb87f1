package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
)

func TestBreakerProvider_OpensAfterFailures(t *testing.T) {
	inner := &stubProvider{script: []stubCall{
		{err: &ProviderError{Provider: "stub", StatusCode: 503, Message: "down"}},
	}}
	p := NewBreaker(inner, BreakerSettings{MaxFailures: 2, Timeout: time.Minute}, newTestLogger())

	for i := 0; i < 2; i++ {
		if _, err := p.Search(context.Background(), "q", 1); err == nil {
			t.Fatal("expected error")
		}
	}
	if p.State() != gobreaker.StateOpen {
		t.Fatalf("state = %v, want open", p.State())
	}

	_, err := p.Search(context.Background(), "q", 1)
	if !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("error = %v, want ErrCircuitOpen", err)
	}
	if inner.Calls() != 2 {
		t.Errorf("inner calls = %d, want 2 (open circuit must not call through)", inner.Calls())
	}
	if !Retryable(err) {
		t.Error("open circuit should be retryable")
	}
}

func TestBreakerProvider_PermanentErrorsDoNotTrip(t *testing.T) {
	inner := &stubProvider{script: []stubCall{
		{err: &ParseError{Provider: "stub", Cause: errors.New("bad json")}},
	}}
	p := NewBreaker(inner, BreakerSettings{MaxFailures: 1, Timeout: time.Minute}, newTestLogger())

	for i := 0; i < 3; i++ {
		_, _ = p.Search(context.Background(), "q", 1)
	}
	if p.State() != gobreaker.StateClosed {
		t.Errorf("state = %v, want closed", p.State())
	}
	if p.Name() != "stub" {
		t.Errorf("Name() = %q, want stub", p.Name())
	}
}

func TestPacedProvider(t *testing.T) {
	inner := &stubProvider{script: []stubCall{{results: []Result{{Title: "ok"}}}}}
	p := NewPaced(inner, 1000, 1)

	for i := 0; i < 3; i++ {
		if _, err := p.Search(context.Background(), "q", 1); err != nil {
			t.Fatalf("Search() error = %v", err)
		}
	}
	if inner.Calls() != 3 {
		t.Errorf("inner calls = %d, want 3", inner.Calls())
	}
}

func TestPacedProvider_DeadlineTooShort(t *testing.T) {
	inner := &stubProvider{script: []stubCall{{results: []Result{{Title: "ok"}}}}}
	p := NewPaced(inner, 0.001, 1)

	// First call consumes the burst.
	if _, err := p.Search(context.Background(), "q", 1); err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := p.Search(ctx, "q", 1); err == nil {
		t.Error("expected error when the next slot is past the deadline")
	}
	if inner.Calls() != 1 {
		t.Errorf("inner calls = %d, want 1", inner.Calls())
	}
}

func TestClientCheck(t *testing.T) {
	inner := &stubProvider{script: []stubCall{
		{err: &ProviderError{Provider: "stub", StatusCode: 500, Message: "boom"}},
	}}
	breaker := NewBreaker(inner, BreakerSettings{MaxFailures: 1, Timeout: time.Minute}, newTestLogger())
	client := NewClient(NewPaced(breaker, 1000, 1), ClientConfig{MaxAttempts: 1, Logger: newTestLogger()})

	if err := client.Check(context.Background()); err != nil {
		t.Fatalf("Check() before failures = %v, want nil", err)
	}

	client.Search(context.Background(), "q")

	if err := client.Check(context.Background()); !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("Check() = %v, want ErrCircuitOpen", err)
	}
}
