package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"mercator-hq/lookout/pkg/retry"
	"mercator-hq/lookout/pkg/telemetry/metrics"
)

// retryStatuses are the responses RetryTransport retries.
var retryStatuses = map[int]bool{
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// RetryTransport is an http.RoundTripper that retries 500, 502, 503 and 504
// responses. When the budget is spent the last response is returned as is.
// Transport errors, including a round trip running past AttemptTimeout, are
// returned immediately.
type RetryTransport struct {
	// Base performs the requests. Nil means http.DefaultTransport.
	Base http.RoundTripper

	// MaxRetries is the number of retries after the first request.
	MaxRetries int

	// AttemptTimeout bounds each round trip, including reading the body of
	// the response that is returned. The backoff between retries is not
	// counted. Zero means no limit.
	AttemptTimeout time.Duration

	// Backoff computes the delay before each retry.
	Backoff retry.BackoffFunc

	// Logger receives one line per retried response.
	Logger *slog.Logger

	// Metrics counts retried responses. May be nil.
	Metrics *metrics.Collector
}

// RoundTrip implements http.RoundTripper. The returned response body is
// fully buffered whenever AttemptTimeout is set.
func (t *RetryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base()
	if t.MaxRetries <= 0 && t.AttemptTimeout <= 0 {
		return base.RoundTrip(req)
	}

	body, err := bufferBody(req)
	if err != nil {
		return nil, err
	}

	ctx := req.Context()
	for retryN := 0; ; retryN++ {
		resp, err := t.roundTrip(req, body)
		if err != nil {
			return nil, err
		}
		if !retryStatuses[resp.StatusCode] || retryN >= t.MaxRetries {
			return resp, nil
		}

		delay := t.backoff(retryN + 1)
		t.Metrics.RecordBackendRetry(resp.StatusCode)
		if t.Logger != nil {
			t.Logger.WarnContext(ctx, "backend returned retryable status",
				"status", resp.StatusCode,
				"retry", retryN+1,
				"max_retries", t.MaxRetries,
				"retry_in", delay.String(),
			)
		}

		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		resp.Body.Close()

		if err := retry.Sleep(ctx, delay); err != nil {
			return nil, err
		}
	}
}

// roundTrip sends one copy of req under AttemptTimeout. With a timeout the
// body is read before the timeout context is released.
func (t *RetryTransport) roundTrip(req *http.Request, body []byte) (*http.Response, error) {
	ctx := req.Context()
	cancel := context.CancelFunc(func() {})
	if t.AttemptTimeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, t.AttemptTimeout)
	}

	attempt := req.Clone(ctx)
	if body != nil {
		attempt.Body = io.NopCloser(bytes.NewReader(body))
		attempt.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(body)), nil
		}
	}

	resp, err := t.base().RoundTrip(attempt)
	if err != nil {
		cancel()
		return nil, err
	}
	if t.AttemptTimeout <= 0 {
		return resp, nil
	}

	defer cancel()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read backend response: %w", err)
	}
	resp.Body = io.NopCloser(bytes.NewReader(data))
	resp.ContentLength = int64(len(data))
	return resp, nil
}

func (t *RetryTransport) base() http.RoundTripper {
	if t.Base == nil {
		return http.DefaultTransport
	}
	return t.Base
}

func (t *RetryTransport) backoff(n int) time.Duration {
	if t.Backoff == nil {
		return 0
	}
	return t.Backoff(n)
}

// bufferBody reads the request body once so it can be replayed.
func bufferBody(req *http.Request) ([]byte, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return nil, nil
	}
	defer req.Body.Close()

	body, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, fmt.Errorf("buffer request body: %w", err)
	}
	return body, nil
}
