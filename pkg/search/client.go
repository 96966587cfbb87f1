package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"mercator-hq/lookout/pkg/config"
	"mercator-hq/lookout/pkg/retry"
	"mercator-hq/lookout/pkg/telemetry/metrics"
	"mercator-hq/lookout/pkg/telemetry/tracing"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel/attribute"
)

// Client runs queries against a Provider with retries and sentinel
// fallbacks. It is safe for concurrent use.
type Client struct {
	provider    Provider
	timeout     time.Duration
	maxResults  int
	maxAttempts int
	backoff     retry.BackoffFunc
	logger      *slog.Logger
	metrics     *metrics.Collector
}

// ClientConfig configures a Client.
type ClientConfig struct {
	// Timeout bounds a single attempt. Zero means no per-attempt timeout.
	Timeout time.Duration

	// MaxResults bounds the results returned per query.
	MaxResults int

	// MaxAttempts is the number of attempts per query.
	MaxAttempts int

	// Backoff computes the delay before each retry.
	Backoff retry.BackoffFunc

	// Logger receives one warning per failed attempt.
	Logger *slog.Logger

	// Metrics records attempts and queries. May be nil.
	Metrics *metrics.Collector
}

// NewClient creates a Client for provider.
func NewClient(provider Provider, cfg ClientConfig) *Client {
	if cfg.MaxResults < 1 {
		cfg.MaxResults = config.DefaultSearchMaxResults
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = config.DefaultSearchMaxAttempts
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Client{
		provider:    provider,
		timeout:     cfg.Timeout,
		maxResults:  cfg.MaxResults,
		maxAttempts: cfg.MaxAttempts,
		backoff:     cfg.Backoff,
		logger:      cfg.Logger,
		metrics:     cfg.Metrics,
	}
}

// NewFromConfig builds the configured provider chain and wraps it in a
// Client.
func NewFromConfig(cfg config.SearchConfig, httpClient *http.Client, logger *slog.Logger, collector *metrics.Collector) (*Client, error) {
	provider, err := NewProvider(cfg, httpClient, logger)
	if err != nil {
		return nil, err
	}
	return NewClient(provider, ClientConfig{
		Timeout:     cfg.Timeout,
		MaxResults:  cfg.MaxResults,
		MaxAttempts: cfg.MaxAttempts,
		Backoff:     retry.Linear(cfg.RetryBackoff),
		Logger:      logger,
		Metrics:     collector,
	}), nil
}

// NewProvider creates the configured provider, wrapped in the circuit
// breaker and the pacer when they are enabled.
func NewProvider(cfg config.SearchConfig, httpClient *http.Client, logger *slog.Logger) (Provider, error) {
	var provider Provider
	switch cfg.Provider {
	case "leta", "":
		provider = NewLetaProvider(httpClient, cfg.BaseURL, cfg.Engine, logger)
	case "searxng":
		if cfg.BaseURL == "" {
			return nil, errors.New("searxng provider requires search.base_url")
		}
		provider = NewSearXNGProvider(httpClient, cfg.BaseURL, logger)
	default:
		return nil, fmt.Errorf("unknown search provider %q", cfg.Provider)
	}

	if cb := cfg.CircuitBreaker; cb.Enabled {
		provider = NewBreaker(provider, BreakerSettings{
			MaxFailures: cb.MaxFailures,
			Timeout:     cb.Timeout,
			Interval:    cb.Interval,
		}, logger)
	}
	if cfg.RequestsPerSecond > 0 {
		provider = NewPaced(provider, cfg.RequestsPerSecond, cfg.Burst)
	}
	return provider, nil
}

// Check reports ErrCircuitOpen while the provider's circuit breaker is open.
// It is used as a readiness check.
func (c *Client) Check(ctx context.Context) error {
	p := c.provider
	for {
		switch v := p.(type) {
		case *PacedProvider:
			p = v.inner
		case *BreakerProvider:
			if v.State() == gobreaker.StateOpen {
				return fmt.Errorf("search provider %s: %w", v.Name(), ErrCircuitOpen)
			}
			return nil
		default:
			return nil
		}
	}
}

// Provider returns the provider name.
func (c *Client) Provider() string {
	return c.provider.Name()
}

// Search returns the results for query. It never returns an empty slice:
// failures yield a single ErrorResult and an empty result set a single
// NoResults sentinel.
func (c *Client) Search(ctx context.Context, query string) []Result {
	start := time.Now()
	name := c.provider.Name()

	ctx, span := tracing.Start(ctx, "search.query")
	defer span.End()
	span.SetAttributes(
		attribute.String("search.provider", name),
		attribute.String("search.query", query),
	)

	attempts := 0
	policy := retry.Policy{
		MaxAttempts: c.maxAttempts,
		Backoff:     c.backoff,
		Retryable:   Retryable,
		OnRetry: func(attempt int, err error, delay time.Duration) {
			c.logger.WarnContext(ctx, "search attempt failed, retrying",
				"provider", name,
				"query", query,
				"attempt", attempt,
				"max_attempts", c.maxAttempts,
				"retry_in", delay.String(),
				"error", err,
			)
		},
	}

	results, err := retry.Do(ctx, policy, func(ctx context.Context, attempt int) ([]Result, error) {
		attempts = attempt
		results, err := c.attempt(ctx, query)
		c.metrics.RecordSearchAttempt(name, attemptOutcome(err))
		return results, err
	})

	if err != nil {
		var exhausted *retry.ExhaustedError
		last := err
		if errors.As(err, &exhausted) {
			last = exhausted.Last
		}
		c.logger.WarnContext(ctx, "search failed",
			"provider", name,
			"query", query,
			"attempts", attempts,
			"error", last,
		)
		tracing.SetStatus(span, last)
		c.metrics.RecordSearchQuery(name, "error", time.Since(start))
		return []Result{ErrorResult(attempts, last)}
	}

	span.SetAttributes(attribute.Int("search.results", len(results)))
	tracing.SetStatus(span, nil)

	if len(results) == 0 {
		c.metrics.RecordSearchQuery(name, "empty", time.Since(start))
		return []Result{NoResults(query)}
	}

	if len(results) > c.maxResults {
		results = results[:c.maxResults]
	}
	c.metrics.RecordSearchQuery(name, "success", time.Since(start))
	return results
}

// attempt runs one provider call under the per-attempt timeout.
func (c *Client) attempt(ctx context.Context, query string) ([]Result, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	return c.provider.Search(ctx, query, c.maxResults)
}

// attemptOutcome labels an attempt for metrics.
func attemptOutcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrCircuitOpen):
		return "circuit_open"
	default:
		return "error"
	}
}
