package translation

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestRetryGivesUpOnPersistentRateLimit(t *testing.T) {
	t.Parallel()

	rec := &sleepRecorder{}
	attempts := 0
	err := testRetryPolicy(rec).Do(context.Background(), "stub", nil, func(context.Context) error {
		attempts++
		return &RateLimitError{Backend: "stub", Message: "slow down"}
	})

	if !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("Do() error = %v, want ErrProviderUnavailable", err)
	}
	var rateErr *RateLimitError
	if !errors.As(err, &rateErr) {
		t.Fatalf("Do() error = %v, want wrapped RateLimitError", err)
	}
	if attempts != 3 {
		t.Fatalf("attempts = %d, want 3", attempts)
	}
	if len(rec.sleeps) != 2 || rec.sleeps[0] != 30*time.Second {
		t.Fatalf("sleeps = %v, want two default waits of 30s", rec.sleeps)
	}
}

func TestRetryUsesHintPlusBufferCappedByMaxWait(t *testing.T) {
	t.Parallel()

	rec := &sleepRecorder{}
	hints := []time.Duration{10 * time.Second, 90 * time.Second}
	attempts := 0
	err := testRetryPolicy(rec).Do(context.Background(), "stub", nil, func(context.Context) error {
		attempts++
		if attempts <= len(hints) {
			return &RateLimitError{Backend: "stub", RetryAfter: hints[attempts-1]}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	want := []time.Duration{12 * time.Second, 60 * time.Second}
	if fmt.Sprint(rec.sleeps) != fmt.Sprint(want) {
		t.Fatalf("sleeps = %v, want %v", rec.sleeps, want)
	}
}

func TestRetryStructuredFailuresWithoutSleeping(t *testing.T) {
	t.Parallel()

	rec := &sleepRecorder{}
	attempts := 0
	err := testRetryPolicy(rec).Do(context.Background(), "stub", nil, func(context.Context) error {
		attempts++
		if attempts < 3 {
			return fmt.Errorf("%w: bad json", ErrStructuredResponse)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if attempts != 3 || len(rec.sleeps) != 0 {
		t.Fatalf("attempts/sleeps = %d/%v, want 3 attempts and no sleeps", attempts, rec.sleeps)
	}
}

func TestRetryReturnsOtherErrorsImmediately(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	attempts := 0
	err := testRetryPolicy(&sleepRecorder{}).Do(context.Background(), "stub", nil, func(context.Context) error {
		attempts++
		return boom
	})
	if !errors.Is(err, boom) || attempts != 1 {
		t.Fatalf("Do() = %v after %d attempts, want boom after 1", err, attempts)
	}
}

func TestRetryStopsWhenContextEndsDuringWait(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	policy := DefaultRetryPolicy()
	policy.DefaultWait = time.Hour

	err := policy.Do(ctx, "stub", nil, func(context.Context) error {
		return &RateLimitError{Backend: "stub"}
	})
	if !errors.Is(err, ErrProviderUnavailable) || !errors.Is(err, context.Canceled) {
		t.Fatalf("Do() error = %v, want unavailable wrapping context.Canceled", err)
	}
}
