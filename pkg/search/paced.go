package search

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// PacedProvider spaces out calls to a public search service. The limiter is
// shared by every inbound request.
type PacedProvider struct {
	inner   Provider
	limiter *rate.Limiter
}

// NewPaced wraps inner so that at most rps calls per second are made, with
// bursts of up to burst calls.
func NewPaced(inner Provider, rps float64, burst int) *PacedProvider {
	if burst < 1 {
		burst = 1
	}
	return &PacedProvider{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Name implements Provider.
func (p *PacedProvider) Name() string { return p.inner.Name() }

// Search implements Provider. It waits for a token first; the wait counts
// against the attempt's deadline.
func (p *PacedProvider) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("wait for search slot: %w", err)
	}
	return p.inner.Search(ctx, query, limit)
}
