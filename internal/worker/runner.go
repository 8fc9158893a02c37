// Package worker runs detached background tasks on a fixed pool with a
// bounded queue. Tasks outlive the request that submitted them.
package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"wirsuchen.de/backend/internal/metrics"
)

var ErrTaskPanicked = errors.New("task panicked")

type Options struct {
	Workers   int
	QueueSize int
	// TaskTimeout bounds each task. Zero means no per-task deadline.
	TaskTimeout time.Duration
}

type task struct {
	id        string
	name      string
	fn        func(ctx context.Context) error
	submitted time.Time
}

type Runner struct {
	queue   chan task
	opts    Options
	logger  zerolog.Logger
	metrics *metrics.Metrics

	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewRunner starts the workers immediately.
func NewRunner(opts Options, logger zerolog.Logger, m *metrics.Metrics) *Runner {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.QueueSize < 0 {
		opts.QueueSize = 0
	}

	baseCtx, cancel := context.WithCancel(context.Background())
	r := &Runner{
		queue:   make(chan task, opts.QueueSize),
		opts:    opts,
		logger:  logger.With().Str("component", "backfill_runner").Logger(),
		metrics: m,
		baseCtx: baseCtx,
		cancel:  cancel,
	}
	for i := 0; i < opts.Workers; i++ {
		r.wg.Add(1)
		go r.work()
	}
	return r
}

// Submit enqueues fn without blocking. It returns false when the queue is
// full or the runner is shutting down.
func (r *Runner) Submit(name string, fn func(ctx context.Context) error) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return false
	}

	t := task{id: uuid.NewString(), name: name, fn: fn, submitted: time.Now()}
	select {
	case r.queue <- t:
		r.metrics.BackfillQueueDepth(len(r.queue))
		return true
	default:
		r.metrics.BackfillTask("rejected")
		return false
	}
}

// Pending is the number of queued tasks not yet picked up.
func (r *Runner) Pending() int {
	return len(r.queue)
}

// Shutdown stops accepting tasks and waits for queued ones to finish. When
// ctx ends first, running tasks are cancelled and ctx's error is returned.
func (r *Runner) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.queue)
	}
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.cancel()
		return nil
	case <-ctx.Done():
		r.cancel()
		<-done
		return ctx.Err()
	}
}

func (r *Runner) work() {
	defer r.wg.Done()
	for t := range r.queue {
		r.metrics.BackfillQueueDepth(len(r.queue))
		r.run(t)
	}
}

func (r *Runner) run(t task) {
	ctx := r.baseCtx
	if r.opts.TaskTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.opts.TaskTimeout)
		defer cancel()
	}

	started := time.Now()
	err := safeRun(ctx, t.fn)

	event := r.logger.Debug()
	outcome := "ok"
	switch {
	case errors.Is(err, ErrTaskPanicked):
		event, outcome = r.logger.Error(), "panicked"
	case err != nil:
		event, outcome = r.logger.Warn(), "failed"
	}
	r.metrics.BackfillTask(outcome)
	event.Err(err).
		Str("task_id", t.id).
		Str("task", t.name).
		Dur("queued", started.Sub(t.submitted)).
		Dur("duration", time.Since(started)).
		Msg("background task " + outcome)
}

func safeRun(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %v\n%s", ErrTaskPanicked, rec, debug.Stack())
		}
	}()
	return fn(ctx)
}
