package translation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wirsuchen.de/backend/internal/metrics"
)

// RetryPolicy bounds retries against rate-limited or misbehaving backends.
type RetryPolicy struct {
	MaxAttempts int
	// DefaultWait applies when a rate limit carries no retry hint.
	DefaultWait time.Duration
	// Buffer is added on top of a provider supplied hint.
	Buffer  time.Duration
	MaxWait time.Duration
	Sleep   func(ctx context.Context, d time.Duration) error
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		DefaultWait: 30 * time.Second,
		Buffer:      2 * time.Second,
		MaxWait:     60 * time.Second,
		Sleep:       sleepContext,
	}
}

// Do runs fn until it succeeds, fails with a non-retryable error, or the
// attempt budget is spent. Rate limits wait before the next attempt; invalid
// structured responses are retried immediately.
func (p RetryPolicy) Do(ctx context.Context, backend string, m *metrics.Metrics, fn func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			m.ProviderCall(backend, "ok")
			return nil
		}

		var rateErr *RateLimitError
		switch {
		case errors.As(lastErr, &rateErr):
			m.ProviderCall(backend, "rate_limited")
		case errors.Is(lastErr, ErrStructuredResponse):
			m.ProviderCall(backend, "invalid_response")
		default:
			m.ProviderCall(backend, "error")
			return lastErr
		}

		if attempt == attempts {
			break
		}
		if rateErr != nil {
			m.RateLimitRetry(backend)
			if err := sleep(ctx, p.wait(rateErr)); err != nil {
				return fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
			}
		}
	}
	return fmt.Errorf("%w: %s gave up after %d attempts: %w", ErrProviderUnavailable, backend, attempts, lastErr)
}

func (p RetryPolicy) wait(err *RateLimitError) time.Duration {
	wait := p.DefaultWait
	if err.RetryAfter > 0 {
		wait = err.RetryAfter + p.Buffer
	}
	if p.MaxWait > 0 && wait > p.MaxWait {
		wait = p.MaxWait
	}
	return wait
}

func sleepContext(ctx context.Context, d time.Duration) error {
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
