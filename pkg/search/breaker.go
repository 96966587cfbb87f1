package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"
)

// BreakerSettings configures the circuit breaker.
type BreakerSettings struct {
	// MaxFailures is the number of consecutive failures before the circuit opens.
	MaxFailures uint32
	// Timeout is how long the circuit stays open before transitioning to half-open.
	Timeout time.Duration
	// Interval is the cyclic period of the closed state for clearing failure counts.
	Interval time.Duration
}

// BreakerProvider wraps a Provider with circuit breaker protection. When
// the search service keeps failing, calls fail fast with ErrCircuitOpen
// instead of waiting out the attempt timeout on every query.
type BreakerProvider struct {
	inner   Provider
	breaker *gobreaker.CircuitBreaker[[]Result]
}

// NewBreaker wraps inner with a circuit breaker. Only transient failures
// count against the circuit; a parse error or a 4xx still proves the
// service is reachable.
func NewBreaker(inner Provider, s BreakerSettings, logger *slog.Logger) *BreakerProvider {
	if logger == nil {
		logger = slog.Default()
	}
	maxFailures := s.MaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}

	cb := gobreaker.NewCircuitBreaker[[]Result](gobreaker.Settings{
		Name:        "search:" + inner.Name(),
		MaxRequests: 1, // one probe in half-open state
		Interval:    s.Interval,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled) || !Retryable(err)
		},
	})

	return &BreakerProvider{inner: inner, breaker: cb}
}

// Name implements Provider.
func (p *BreakerProvider) Name() string { return p.inner.Name() }

// Search implements Provider. Calls are routed through the circuit breaker.
func (p *BreakerProvider) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	results, err := p.breaker.Execute(func() ([]Result, error) {
		return p.inner.Search(ctx, query, limit)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("provider %q: %w: %v", p.inner.Name(), ErrCircuitOpen, err)
	}
	return results, err
}

// State returns the current circuit breaker state for monitoring.
func (p *BreakerProvider) State() gobreaker.State {
	return p.breaker.State()
}
