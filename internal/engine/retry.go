package engine

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"time"
)

// RetryConfig is the backoff policy for completion attempts.
type RetryConfig struct {
	MaxRetries  int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64

	// Retryable overrides isRetryable when set.
	Retryable func(error) bool
}

// DefaultRetryConfig allows a single retry, which is all a user-facing
// completion call can afford.
var DefaultRetryConfig = RetryConfig{
	MaxRetries:  1,
	InitialWait: 500 * time.Millisecond,
	MaxWait:     5 * time.Second,
	Multiplier:  2.0,
}

// wait returns the pause before retry number n (0-based), capped at MaxWait.
func (rc RetryConfig) wait(n int) time.Duration {
	d := float64(rc.InitialWait)
	for range n {
		d *= rc.Multiplier
	}
	if w := time.Duration(d); w < rc.MaxWait {
		return w
	}
	return rc.MaxWait
}

func (rc RetryConfig) retryable(err error) bool {
	if rc.Retryable != nil {
		return rc.Retryable(err)
	}
	return isRetryable(err)
}

// RetryDo calls fn until it succeeds, fails permanently or MaxRetries
// retries are spent. The caller's context cancellation ends it early.
func RetryDo[T any](ctx context.Context, rc RetryConfig, fn func() (T, error)) (T, error) {
	var zero T
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		result, err := fn()
		switch {
		case err == nil:
			return result, nil
		case attempt >= rc.MaxRetries, !rc.retryable(err):
			return zero, err
		}

		wait := rc.wait(attempt)
		slog.Debug("retrying completion", slog.Int("attempt", attempt+1), slog.Duration("wait", wait), slog.Any("error", err))
		t := time.NewTimer(wait)
		select {
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
			return zero, ctx.Err()
		}
	}
}

// isRetryable reports transient failures: an expired per-attempt deadline
// or a network-level error. Provider errors (quota, bad request) are final.
func isRetryable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var opErr *net.OpError
	var dnsErr *net.DNSError
	if errors.As(err, &opErr) || errors.As(err, &dnsErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
