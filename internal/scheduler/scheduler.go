// internal/scheduler/scheduler.go
package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Mode selects how a sequence advances between steps.
type Mode int

const (
	// Sync runs steps back to back on the caller's goroutine.
	Sync Mode = iota
	// Delayed waits a fixed delay between steps.
	Delayed
)

func (m Mode) String() string {
	if m == Delayed {
		return "delayed"
	}
	return "sync"
}

// ErrorHandler receives the errors of synchronous sequences.
type ErrorHandler func(error)

// Runner paces the steps of keyboard and pointer sequences. The mode is
// fixed at construction: a positive delay selects Delayed.
type Runner struct {
	mode    Mode
	delay   time.Duration
	limiter *rate.Limiter
	onError ErrorHandler
	logger  *zap.Logger
}

// New creates a runner. A nil onError logs errors at error level.
func New(delay time.Duration, onError ErrorHandler, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Runner{delay: delay, logger: logger.Named("scheduler")}
	if delay > 0 {
		r.mode = Delayed
		r.limiter = rate.NewLimiter(rate.Every(delay), 1)
	}
	if onError == nil {
		onError = func(err error) {
			r.logger.Error("User interaction failed.", zap.Error(err))
		}
	}
	r.onError = onError
	return r
}

// Mode returns the runner's mode.
func (r *Runner) Mode() Mode { return r.mode }

// Delay returns the delay between steps.
func (r *Runner) Delay() time.Duration { return r.delay }

// Wait blocks until the next step may run. In Sync mode it only reports a
// canceled context.
func (r *Runner) Wait(ctx context.Context) error {
	if r.mode == Sync {
		return ctx.Err()
	}
	if err := r.limiter.Wait(ctx); err != nil {
		r.logger.Debug("Step wait aborted.", zap.Error(err))
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return err
	}
	return nil
}

// Run performs one sequence. The first step runs immediately and every
// later Wait observes the full delay. In Sync mode a failure is also passed
// to the error handler.
func (r *Runner) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	if r.mode == Delayed {
		// Drop a token left over from an earlier sequence.
		r.limiter.Allow()
	}
	err := fn(ctx)
	if err != nil && r.mode == Sync {
		r.onError(err)
	}
	return err
}

// Future is the pending result of a sequence started with Async.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// Async runs fn through r on a new goroutine.
func Async[T any](ctx context.Context, r *Runner, fn func(ctx context.Context) (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.err = r.Run(ctx, func(ctx context.Context) error {
			var err error
			f.value, err = fn(ctx)
			return err
		})
	}()
	return f
}

// Done is closed once the sequence finished.
func (f *Future[T]) Done() <-chan struct{} { return f.done }

// Wait blocks until the sequence finished or ctx is done.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
