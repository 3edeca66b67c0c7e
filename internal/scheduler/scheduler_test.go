// internal/scheduler/scheduler_test.go
package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

func TestModeSelection(t *testing.T) {
	logger := zaptest.NewLogger(t)
	assert.Equal(t, Sync, New(0, nil, logger).Mode())
	assert.Equal(t, Sync, New(-time.Second, nil, logger).Mode())
	assert.Equal(t, Delayed, New(time.Millisecond, nil, logger).Mode())
	assert.Equal(t, "delayed", Delayed.String())
}

func TestSyncRoutesErrorsToHandler(t *testing.T) {
	var handled []error
	r := New(0, func(err error) { handled = append(handled, err) }, zaptest.NewLogger(t))
	boom := errors.New("boom")

	err := r.Run(context.Background(), func(context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []error{boom}, handled)

	require.NoError(t, r.Run(context.Background(), func(context.Context) error { return nil }))
	assert.Len(t, handled, 1)
}

func TestSyncWaitReportsCanceledContext(t *testing.T) {
	r := New(0, nil, zaptest.NewLogger(t))
	require.NoError(t, r.Wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, r.Wait(ctx), context.Canceled)
}

func TestDelayedWaitsBetweenSteps(t *testing.T) {
	const delay = 20 * time.Millisecond
	r := New(delay, nil, zaptest.NewLogger(t))

	start := time.Now()
	err := r.Run(context.Background(), func(ctx context.Context) error {
		for i := 0; i < 2; i++ {
			if err := r.Wait(ctx); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 2*delay-5*time.Millisecond)
}

func TestDelayedDoesNotReportToHandler(t *testing.T) {
	called := false
	r := New(time.Millisecond, func(error) { called = true }, zaptest.NewLogger(t))
	err := r.Run(context.Background(), func(context.Context) error { return errors.New("x") })
	assert.Error(t, err)
	assert.False(t, called)
}

func TestDelayedWaitHonorsContext(t *testing.T) {
	r := New(time.Hour, nil, zaptest.NewLogger(t))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := r.Run(ctx, func(ctx context.Context) error { return r.Wait(ctx) })
	assert.Error(t, err)
}

func TestAsyncFuture(t *testing.T) {
	defer goleak.VerifyNone(t)

	r := New(time.Millisecond, nil, zaptest.NewLogger(t))
	f := Async(context.Background(), r, func(ctx context.Context) (int, error) {
		if err := r.Wait(ctx); err != nil {
			return 0, err
		}
		return 42, nil
	})

	v, err := f.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	select {
	case <-f.Done():
	default:
		t.Fatal("future not done after Wait returned")
	}
}

func TestAsyncFutureWaitCanceled(t *testing.T) {
	defer goleak.VerifyNone(t)

	r := New(time.Millisecond, nil, zaptest.NewLogger(t))
	release := make(chan struct{})
	f := Async(context.Background(), r, func(context.Context) (string, error) {
		<-release
		return "done", nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	close(release)
	v, err := f.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "done", v)
}
