// internal/cdp/replayer.go
package cdp

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/userevent/api/schemas"
	"github.com/xkilldash9x/userevent/internal/config"
)

// Replayer reproduces recorded traces in a real browser. Exports are
// serialized since they share one tab.
type Replayer struct {
	exec    Executor
	timeout time.Duration
	logger  *zap.Logger
	mu      sync.Mutex
}

// NewReplayer creates a replayer that drives exec.
func NewReplayer(exec Executor, cfg config.CDPConfig, logger *zap.Logger) *Replayer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Replayer{exec: exec, timeout: cfg.Timeout, logger: logger.Named("cdp")}
}

// Export loads page and dispatches the input commands of trace in order.
// It stops at the first command the browser rejects.
func (r *Replayer) Export(ctx context.Context, page string, trace *schemas.Trace) error {
	cmds := Translate(trace.Events)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	if err := r.exec.Open(ctx, page); err != nil {
		return err
	}
	for _, c := range cmds {
		if err := r.exec.Dispatch(ctx, c.Action); err != nil {
			return fmt.Errorf("event %d (%s): %w", c.Seq, c.Event, err)
		}
	}
	r.logger.Debug("Trace replayed in browser.",
		zap.String("run_id", trace.RunID),
		zap.Int("events", len(trace.Events)),
		zap.Int("commands", len(cmds)),
	)
	return nil
}

// Close shuts the browser down.
func (r *Replayer) Close() {
	r.exec.Close()
}
