package engine

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"
)

var fastRetry = RetryConfig{MaxRetries: 1, InitialWait: time.Millisecond, MaxWait: time.Millisecond, Multiplier: 1}

func TestLLMCompleteStripsFences(t *testing.T) {
	l := NewLLM(CompleterFunc(func(_ context.Context, prompt string, maxTokens int) (string, error) {
		if maxTokens != 4000 {
			t.Errorf("maxTokens = %d, want 4000", maxTokens)
		}
		return "```json\n{\"ok\":true}\n```", nil
	}))

	got, err := l.Complete(context.Background(), "p", 4000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `{"ok":true}` {
		t.Errorf("got %q", got)
	}
}

func TestLLMCompleteTimeout(t *testing.T) {
	l := NewLLM(CompleterFunc(func(ctx context.Context, _ string, _ int) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}), WithTimeout(10*time.Millisecond), WithRetryConfig(RetryConfig{MaxRetries: 0}))

	_, err := l.Complete(context.Background(), "p", 10)
	var se *ServiceError
	if !errors.As(err, &se) {
		t.Fatalf("expected *ServiceError, got %T %v", err, err)
	}
	if !se.Timeout {
		t.Error("expected Timeout flag")
	}
}

func TestLLMCompleteRetriesTransient(t *testing.T) {
	var calls atomic.Int32
	l := NewLLM(CompleterFunc(func(context.Context, string, int) (string, error) {
		if calls.Add(1) == 1 {
			return "", &net.OpError{Op: "dial", Err: errors.New("connection refused")}
		}
		return "done", nil
	}), WithRetryConfig(fastRetry))

	got, err := l.Complete(context.Background(), "p", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "done" || calls.Load() != 2 {
		t.Errorf("got %q after %d calls", got, calls.Load())
	}
}

func TestLLMCompleteNoRetryOnQuota(t *testing.T) {
	var calls atomic.Int32
	quota := errors.New("429 quota exceeded")
	l := NewLLM(CompleterFunc(func(context.Context, string, int) (string, error) {
		calls.Add(1)
		return "", quota
	}), WithRetryConfig(fastRetry))

	_, err := l.Complete(context.Background(), "p", 10)
	var se *ServiceError
	if !errors.As(err, &se) {
		t.Fatalf("expected *ServiceError, got %v", err)
	}
	if se.Timeout {
		t.Error("quota failure is not a timeout")
	}
	if !errors.Is(err, quota) {
		t.Error("ServiceError must unwrap to the provider error")
	}
	if calls.Load() != 1 {
		t.Errorf("expected 1 call, got %d", calls.Load())
	}
}

func TestLLMCompleteCachedFallback(t *testing.T) {
	c := NewCache("", time.Minute, 100, 5*time.Minute)
	defer c.Close()

	var fail atomic.Bool
	l := NewLLM(CompleterFunc(func(context.Context, string, int) (string, error) {
		if fail.Load() {
			return "", errors.New("provider down")
		}
		return "fresh", nil
	}), WithCache(c), WithRetryConfig(RetryConfig{MaxRetries: 0}))

	ctx := context.Background()
	if _, err := l.Complete(ctx, "same prompt", 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fail.Store(true)
	got, err := l.Complete(ctx, "same prompt", 10)
	if err != nil {
		t.Fatalf("expected cached fallback, got %v", err)
	}
	if got != "fresh" {
		t.Errorf("got %q, want cached %q", got, "fresh")
	}

	if _, err := l.Complete(ctx, "other prompt", 10); err == nil {
		t.Error("uncached prompt must fail")
	}
}

func TestLLMRateLimitHonoursContext(t *testing.T) {
	l := NewLLM(CompleterFunc(func(context.Context, string, int) (string, error) {
		return "x", nil
	}), WithRateLimit(1), WithRetryConfig(RetryConfig{MaxRetries: 0}))

	ctx := context.Background()
	if _, err := l.Complete(ctx, "a", 10); err != nil {
		t.Fatalf("first call: %v", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	if _, err := l.Complete(ctx, "b", 10); err == nil {
		t.Error("second call within the same minute should wait past the deadline")
	}
}
