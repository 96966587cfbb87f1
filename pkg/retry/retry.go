// Package retry runs an operation under a bounded attempt budget with a
// pluggable backoff schedule.
//
// It is the single retry loop used by the search client and the backend
// forwarder:
//
//	policy := retry.Policy{
//	    MaxAttempts: 3,
//	    Backoff:     retry.Linear(time.Second),
//	    Retryable:   isTransient,
//	}
//	resp, err := retry.Do(ctx, policy, func(ctx context.Context, attempt int) (*Response, error) {
//	    return send(ctx)
//	})
package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
)

// BackoffFunc returns the delay to wait before the given retry.
// retry is 1 for the first retry (the second attempt).
type BackoffFunc func(retry int) time.Duration

// Policy describes how an operation is retried.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first.
	// Values below 1 are treated as 1.
	MaxAttempts int

	// Backoff computes the delay before each retry. Nil means no delay.
	Backoff BackoffFunc

	// Retryable reports whether an error warrants another attempt.
	// Nil retries every error.
	Retryable func(err error) bool

	// OnRetry is called after a failed attempt that will be retried.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// ExhaustedError is returned when every attempt failed with a retryable error.
type ExhaustedError struct {
	// Attempts is the number of attempts made.
	Attempts int

	// Last is the error returned by the final attempt.
	Last error
}

// Error implements the error interface.
func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("failed after %d attempt(s): %v", e.Attempts, e.Last)
}

// Unwrap returns the last attempt's error.
func (e *ExhaustedError) Unwrap() error {
	return e.Last
}

// Do calls op until it succeeds, returns a non-retryable error, the attempt
// budget is spent, or ctx is done. op receives the 1-based attempt number.
//
// A non-retryable error is returned as-is. When the budget is spent the last
// error is wrapped in an *ExhaustedError.
func Do[T any](ctx context.Context, p Policy, op func(ctx context.Context, attempt int) (T, error)) (T, error) {
	var zero T

	maxAttempts := p.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		result, err := op(ctx, attempt)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return zero, err
		}
		if p.Retryable != nil && !p.Retryable(err) {
			return zero, err
		}
		if attempt == maxAttempts {
			break
		}

		var delay time.Duration
		if p.Backoff != nil {
			delay = p.Backoff(attempt)
		}
		if p.OnRetry != nil {
			p.OnRetry(attempt, err, delay)
		}

		if err := Sleep(ctx, delay); err != nil {
			return zero, lastErr
		}
	}

	return zero, &ExhaustedError{Attempts: maxAttempts, Last: lastErr}
}

// Attempts returns the number of attempts recorded in err, or 1 when err did
// not come from an exhausted policy.
func Attempts(err error) int {
	var exhausted *ExhaustedError
	if errors.As(err, &exhausted) {
		return exhausted.Attempts
	}
	return 1
}

// Linear returns a backoff of retry * base: base, 2*base, 3*base, ...
func Linear(base time.Duration) BackoffFunc {
	return func(retry int) time.Duration {
		return time.Duration(retry) * base
	}
}

// Exponential returns the urllib3-style schedule factor * 2^(retry-1) with the
// first retry issued immediately, capped at max (no cap when max <= 0).
func Exponential(factor, max time.Duration) BackoffFunc {
	return func(retry int) time.Duration {
		if retry <= 1 {
			return 0
		}
		d := time.Duration(float64(factor) * math.Pow(2, float64(retry-1)))
		if max > 0 && d > max {
			return max
		}
		return d
	}
}

// Sleep waits for d or until ctx is done, whichever comes first.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
