package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

// Completer is the external text-completion service: prompt in, text out.
type Completer interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// CompleterFunc adapts a plain function (e.g. a closure over a go-kit llm.Client) to Completer.
type CompleterFunc func(ctx context.Context, prompt string, maxTokens int) (string, error)

// Complete calls f.
func (f CompleterFunc) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	return f(ctx, prompt, maxTokens)
}

// ServiceError is returned for every completion failure: transport, quota, timeout.
// Callers surface it as retryable.
type ServiceError struct {
	Timeout bool
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("completion service timed out: %v", e.Err)
	}
	return fmt.Sprintf("completion service failed: %v", e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// LLM is the completion client used by every generator in the service.
// It bounds each attempt with a timeout, retries transient failures,
// rate-limits outgoing calls and falls back to a cached completion of the
// identical prompt when the provider is unavailable.
type LLM struct {
	completer Completer
	limiter   *rate.Limiter // nil = unlimited
	cache     *Cache        // nil = no fallback
	timeout   time.Duration
	retry     RetryConfig
}

// LLMOption configures an LLM.
type LLMOption func(*LLM)

// WithTimeout bounds each completion attempt.
func WithTimeout(d time.Duration) LLMOption {
	return func(l *LLM) {
		if d > 0 {
			l.timeout = d
		}
	}
}

// WithRetries sets how many extra attempts a transient failure gets.
func WithRetries(n int) LLMOption {
	return func(l *LLM) {
		if n >= 0 {
			l.retry.MaxRetries = n
		}
	}
}

// WithRetryConfig replaces the whole backoff policy.
func WithRetryConfig(rc RetryConfig) LLMOption {
	return func(l *LLM) { l.retry = rc }
}

// WithRateLimit caps outgoing calls per minute. Zero disables limiting.
func WithRateLimit(perMinute int) LLMOption {
	return func(l *LLM) {
		if perMinute > 0 {
			burst := perMinute / 10
			if burst < 1 {
				burst = 1
			}
			l.limiter = rate.NewLimiter(rate.Limit(float64(perMinute)/60), burst)
		}
	}
}

// WithCache enables cached fallback for failed completions.
func WithCache(c *Cache) LLMOption {
	return func(l *LLM) { l.cache = c }
}

// NewLLM wraps c with the default 30s timeout and a single retry.
func NewLLM(c Completer, opts ...LLMOption) *LLM {
	l := &LLM{
		completer: c,
		timeout:   30 * time.Second,
		retry:     DefaultRetryConfig,
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Complete sends prompt to the completion service and returns the response
// with markdown fences stripped. Failures are *ServiceError.
func (l *LLM) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	metrics.LLMCalls.Add(1)
	key := CacheKey("completion", strconv.Itoa(maxTokens), prompt)

	raw, err := RetryDo(ctx, l.retry, func() (string, error) {
		return l.attempt(ctx, prompt, maxTokens)
	})
	if err != nil {
		metrics.LLMErrors.Add(1)
		timeout := errors.Is(err, context.DeadlineExceeded)
		if timeout {
			metrics.LLMTimeouts.Add(1)
		}
		if cached, ok := l.cache.Get(ctx, key); ok {
			metrics.LLMCacheFallbacks.Add(1)
			slog.Warn("llm: serving cached completion after failure",
				slog.Bool("timeout", timeout), slog.Any("error", err))
			return string(cached), nil
		}
		return "", &ServiceError{Timeout: timeout, Err: err}
	}

	out := StripFences(raw)
	if out != "" {
		l.cache.Set(ctx, key, []byte(out))
	}
	return out, nil
}

// attempt runs one rate-limited, deadline-bounded call.
func (l *LLM) attempt(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if l.limiter != nil {
		if err := l.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter: %w", err)
		}
	}

	actx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	out, err := l.completer.Complete(actx, prompt, maxTokens)
	if err != nil {
		if actx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
			return "", fmt.Errorf("no response within %s: %w", l.timeout, context.DeadlineExceeded)
		}
		return "", err
	}
	return out, nil
}
