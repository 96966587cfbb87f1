package backend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"mercator-hq/lookout/pkg/config"
	"mercator-hq/lookout/pkg/retry"
	"mercator-hq/lookout/pkg/telemetry/metrics"
	"mercator-hq/lookout/pkg/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

// CompletionsPath is the backend endpoint every request is forwarded to.
const CompletionsPath = "/v1/chat/completions"

// Response is a fully buffered backend response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Options configures a Client.
type Options struct {
	// Timeout bounds a single forwarding attempt, including reading the
	// response body and any retries Transport makes. Zero means no
	// per-attempt timeout. NewFromConfig leaves it zero and bounds each
	// round trip in RetryTransport instead.
	Timeout time.Duration

	// MaxAttempts is the number of attempts made while the backend is
	// unavailable.
	MaxAttempts int

	// Backoff computes the delay between attempts.
	Backoff retry.BackoffFunc

	// Transport performs the requests. Nil means a pooled http.Transport.
	// Ping bypasses a *RetryTransport and uses its Base.
	Transport http.RoundTripper

	// Logger receives one warning per failed attempt.
	Logger *slog.Logger

	// Metrics records attempts. May be nil.
	Metrics *metrics.Collector
}

// Client forwards chat requests to the backend. It is safe for concurrent
// use.
type Client struct {
	baseURL     string
	endpoint    string
	httpClient  *http.Client
	pingClient  *http.Client
	timeout     time.Duration
	maxAttempts int
	backoff     retry.BackoffFunc
	logger      *slog.Logger
	metrics     *metrics.Collector
}

// New creates a Client for the backend rooted at baseURL.
func New(baseURL string, opts Options) *Client {
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = config.DefaultBackendMaxAttempts
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Transport == nil {
		opts.Transport = newTransport()
	}

	ping := opts.Transport
	if rt, ok := ping.(*RetryTransport); ok {
		ping = rt.base()
	}

	baseURL = strings.TrimRight(baseURL, "/")
	return &Client{
		baseURL:     baseURL,
		endpoint:    baseURL + CompletionsPath,
		httpClient:  &http.Client{Transport: opts.Transport},
		pingClient:  &http.Client{Transport: ping},
		timeout:     opts.Timeout,
		maxAttempts: opts.MaxAttempts,
		backoff:     opts.Backoff,
		logger:      opts.Logger,
		metrics:     opts.Metrics,
	}
}

// NewFromConfig creates a Client whose transport retries 5xx responses as
// configured. backend.timeout bounds each round trip; the transport backoff
// runs outside it, so a backend that keeps failing with 5xx spends the whole
// transport budget and its last response is returned.
func NewFromConfig(cfg config.BackendConfig, logger *slog.Logger, collector *metrics.Collector) *Client {
	return New(cfg.BaseURL, Options{
		MaxAttempts: cfg.MaxAttempts,
		Backoff:     retry.Linear(cfg.RetryBackoff),
		Transport: &RetryTransport{
			Base:           newTransport(),
			MaxRetries:     cfg.TransportRetries,
			AttemptTimeout: cfg.Timeout,
			Backoff:        retry.Exponential(cfg.TransportBackoffFactor, cfg.TransportBackoffMax),
			Logger:         logger,
			Metrics:        collector,
		},
		Logger:  logger,
		Metrics: collector,
	})
}

// newTransport returns a pooled transport for the single backend host.
func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 100
	t.MaxIdleConnsPerHost = 100
	t.IdleConnTimeout = 90 * time.Second
	return t
}

// Endpoint returns the URL requests are forwarded to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Forward posts body to the completions endpoint with the inbound headers
// and returns the buffered response, whatever its status. Only
// *UnavailableError failures are retried.
func (c *Client) Forward(ctx context.Context, body []byte, inbound http.Header) (*Response, error) {
	ctx, span := tracing.Start(ctx, "backend.forward")
	defer span.End()
	span.SetAttributes(attribute.String("backend.url", c.endpoint))

	policy := retry.Policy{
		MaxAttempts: c.maxAttempts,
		Backoff:     c.backoff,
		Retryable: func(err error) bool {
			var unavailable *UnavailableError
			return errors.As(err, &unavailable)
		},
		OnRetry: func(attempt int, err error, delay time.Duration) {
			c.logger.WarnContext(ctx, "backend attempt failed, retrying",
				"attempt", attempt,
				"max_attempts", c.maxAttempts,
				"retry_in", delay.String(),
				"error", err,
			)
		},
	}

	headers := ForwardHeaders(inbound)
	resp, err := retry.Do(ctx, policy, func(ctx context.Context, attempt int) (*Response, error) {
		start := time.Now()
		resp, err := c.send(ctx, attempt, body, headers)
		c.metrics.RecordBackendAttempt(attemptOutcome(err), time.Since(start))
		return resp, err
	})
	if err != nil {
		var exhausted *retry.ExhaustedError
		if errors.As(err, &exhausted) {
			err = exhausted.Last
		}
		tracing.SetStatus(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	tracing.SetStatus(span, nil)
	return resp, nil
}

// send performs one attempt under the per-attempt timeout.
func (c *Client) send(ctx context.Context, attempt int, body []byte, headers http.Header) (*Response, error) {
	parent := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create backend request: %w", err)
	}
	req.Header = headers.Clone()
	tracing.Inject(ctx, req.Header)

	c.logger.DebugContext(ctx, "forwarding request to backend",
		"url", c.endpoint,
		"attempt", attempt,
		"bytes", len(body),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.classify(parent, attempt, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.classify(parent, attempt, fmt.Errorf("read backend response: %w", err))
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}

// classify wraps a transport error. Errors caused by the caller's own
// context are returned as is so they are not retried.
func (c *Client) classify(parent context.Context, attempt int, err error) error {
	if parent.Err() != nil {
		return fmt.Errorf("forward to backend: %w", parent.Err())
	}
	return &UnavailableError{URL: c.endpoint, Attempt: attempt, Cause: err}
}

// Ping reports whether the backend answers at its root URL.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return err
	}
	resp, err := c.pingClient.Do(req)
	if err != nil {
		return &UnavailableError{URL: c.baseURL, Attempt: 1, Cause: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 500 {
		return fmt.Errorf("backend %s returned status %d", c.baseURL, resp.StatusCode)
	}
	return nil
}

func attemptOutcome(err error) string {
	var unavailable *UnavailableError
	switch {
	case err == nil:
		return "success"
	case errors.As(err, &unavailable):
		return "unavailable"
	default:
		return "error"
	}
}
