package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestRunnerRunsSubmittedTasks(t *testing.T) {
	t.Parallel()

	r := NewRunner(Options{Workers: 2, QueueSize: 8}, zerolog.Nop(), nil)
	var ran atomic.Int32
	for i := 0; i < 5; i++ {
		if !r.Submit("count", func(context.Context) error {
			ran.Add(1)
			return nil
		}) {
			t.Fatalf("submit %d rejected", i)
		}
	}

	if err := r.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if got := ran.Load(); got != 5 {
		t.Fatalf("ran = %d, want 5", got)
	}
}

func TestRunnerRejectsWhenQueueFull(t *testing.T) {
	t.Parallel()

	r := NewRunner(Options{Workers: 1, QueueSize: 1}, zerolog.Nop(), nil)
	release := make(chan struct{})
	started := make(chan struct{})

	if !r.Submit("blocker", func(context.Context) error {
		close(started)
		<-release
		return nil
	}) {
		t.Fatalf("first submit rejected")
	}
	<-started

	if !r.Submit("queued", func(context.Context) error { return nil }) {
		t.Fatalf("second submit rejected, queue should hold one task")
	}
	if r.Submit("overflow", func(context.Context) error { return nil }) {
		t.Fatalf("third submit accepted, want backpressure")
	}

	close(release)
	if err := r.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
}

func TestRunnerRecoversPanics(t *testing.T) {
	t.Parallel()

	r := NewRunner(Options{Workers: 1, QueueSize: 4}, zerolog.Nop(), nil)
	var after atomic.Bool
	r.Submit("boom", func(context.Context) error { panic("boom") })
	r.Submit("after", func(context.Context) error {
		after.Store(true)
		return nil
	})

	if err := r.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if !after.Load() {
		t.Fatalf("task after panic did not run")
	}
}

func TestRunnerAppliesTaskTimeout(t *testing.T) {
	t.Parallel()

	r := NewRunner(Options{Workers: 1, QueueSize: 1, TaskTimeout: 20 * time.Millisecond}, zerolog.Nop(), nil)
	result := make(chan error, 1)
	r.Submit("slow", func(ctx context.Context) error {
		<-ctx.Done()
		result <- ctx.Err()
		return ctx.Err()
	})

	select {
	case err := <-result:
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("task ctx error = %v, want deadline exceeded", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("task was not cancelled by its timeout")
	}
	_ = r.Shutdown(context.Background())
}

func TestRunnerSubmitAfterShutdown(t *testing.T) {
	t.Parallel()

	r := NewRunner(Options{Workers: 1, QueueSize: 1}, zerolog.Nop(), nil)
	if err := r.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if r.Submit("late", func(context.Context) error { return nil }) {
		t.Fatalf("submit after shutdown accepted")
	}
}

func TestSafeRunConvertsPanic(t *testing.T) {
	t.Parallel()

	err := safeRun(context.Background(), func(context.Context) error { panic("bad") })
	if !errors.Is(err, ErrTaskPanicked) {
		t.Fatalf("safeRun() error = %v, want ErrTaskPanicked", err)
	}
}
