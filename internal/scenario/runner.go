// internal/scenario/runner.go
package scenario

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xkilldash9x/userevent/api/schemas"
	"github.com/xkilldash9x/userevent/internal/config"
	"github.com/xkilldash9x/userevent/internal/dom"
	"github.com/xkilldash9x/userevent/internal/jsbind"
	"github.com/xkilldash9x/userevent/internal/reporting"
	"github.com/xkilldash9x/userevent/pkg/userevent"
)

// ErrFailFast aborts the remaining runs after the first failing scenario.
var ErrFailFast = errors.New("scenario failed and fail_fast is set")

// Exporter replays a finished trace outside the engine, e.g. in a real
// browser.
type Exporter interface {
	Export(ctx context.Context, page string, trace *schemas.Trace) error
}

// Runner replays scenario files. Each scenario gets its own document,
// script runtime and session, so files run concurrently.
type Runner struct {
	replay config.ReplayConfig
	base   userevent.Options
	logger *zap.Logger
	now    func() time.Time

	exporter Exporter
}

// NewRunner prepares a runner from the configuration.
func NewRunner(cfg config.Interface, logger *zap.Logger) (*Runner, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	base, err := OptionsFromConfig(cfg.Engine())
	if err != nil {
		return nil, err
	}
	return &Runner{
		replay: cfg.Replay(),
		base:   base,
		logger: logger.Named("scenario"),
		now:    time.Now,
	}, nil
}

// WithExporter sets the exporter that receives the trace of every passed
// run. An export error fails the run.
func (r *Runner) WithExporter(e Exporter) *Runner {
	r.exporter = e
	return r
}

// RunFiles replays the files with bounded concurrency. Results keep the
// order of paths; report, when set, sees each result as it completes.
func (r *Runner) RunFiles(ctx context.Context, paths []string, report reporting.Reporter) ([]*schemas.ScenarioResult, error) {
	results := make([]*schemas.ScenarioResult, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(r.replay.Concurrency, 1))

	r.logger.Info("Replaying scenarios.", zap.Int("files", len(paths)), zap.Int("concurrency", r.replay.Concurrency))
	for i, path := range paths {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			res := r.RunFile(gctx, path)
			results[i] = res
			if report != nil {
				if err := report.Write(res); err != nil {
					return err
				}
			}
			if r.replay.FailFast && res.Status != schemas.StatusPassed {
				return fmt.Errorf("%s: %w", path, ErrFailFast)
			}
			return nil
		})
	}
	err := g.Wait()

	done := results[:0:0]
	for _, res := range results {
		if res != nil {
			done = append(done, res)
		}
	}
	return done, err
}

// RunFile loads and replays one file. Load errors become error results.
func (r *Runner) RunFile(ctx context.Context, path string) *schemas.ScenarioResult {
	loaded, err := LoadFile(path)
	if err != nil {
		return &schemas.ScenarioResult{
			RunID:    uuid.NewString(),
			Scenario: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
			File:     path,
			Status:   schemas.StatusError,
			Error:    err.Error(),
		}
	}
	res := r.Run(ctx, loaded)
	if r.exporter != nil && res.Status == schemas.StatusPassed {
		if err := r.exporter.Export(ctx, loaded.Page(), res.Trace); err != nil {
			res.Status = schemas.StatusFailed
			res.Failures = append(res.Failures, "cdp: "+err.Error())
		}
	}
	return res
}

// Run replays a loaded scenario.
func (r *Runner) Run(ctx context.Context, l *Loaded) *schemas.ScenarioResult {
	s := l.Scenario
	started := r.now()
	res := &schemas.ScenarioResult{
		RunID:    uuid.NewString(),
		Scenario: s.Name,
		File:     l.Path,
		Status:   schemas.StatusPassed,
	}
	logger := r.logger.With(zap.String("run_id", res.RunID), zap.String("scenario", s.Name))
	defer func() { res.Duration = r.now().Sub(started) }()

	doc, err := dom.ParseString(l.Markup, logger)
	if err != nil {
		return errored(res, fmt.Errorf("parsing html: %w", err))
	}
	for _, css := range s.Styles {
		doc.AddStyleSheet(css)
	}
	rec := Record(doc)
	defer func() {
		res.Trace = &schemas.Trace{RunID: res.RunID, Scenario: s.Name, StartedAt: started, Events: rec.Events()}
		if r.replay.OutputDir != "" {
			if err := r.saveTrace(res.Trace); err != nil {
				logger.Warn("Could not save trace.", zap.Error(err))
			}
		}
	}()

	bridge := jsbind.New(doc, logger, jsbind.WithTimeout(r.replay.ScriptTimeout))
	if err := bridge.CompileInlineHandlers(); err != nil {
		return errored(res, err)
	}
	for i, script := range s.Scripts {
		if _, err := bridge.Run(ctx, script); err != nil {
			return errored(res, fmt.Errorf("script %d: %w", i+1, err))
		}
	}

	opts := applyOverrides(r.base, s.Options)
	opts.Document = doc
	opts.Logger = logger
	opts.ErrorHandler = func(err error) {
		logger.Debug("Step failed.", zap.Error(err))
	}
	u := userevent.Setup(opts)

	for i, st := range s.Steps {
		res.Steps++
		err := perform(ctx, u, doc, st)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return errored(res, ctxErr)
		}
		if msg := stepFailure(st, err); msg != "" {
			res.Failures = append(res.Failures, fmt.Sprintf("step %d (%s): %s", i+1, st.Action, msg))
			break
		}
		logger.Debug("Step done.", zap.Int("step", i+1), zap.String("action", st.Action), zap.String("target", st.Target))
	}
	for _, err := range bridge.Errors() {
		res.Failures = append(res.Failures, "listener: "+err.Error())
	}
	if len(res.Failures) == 0 {
		res.Failures = check(doc, rec, u.Clipboard(), s.Expect)
	}
	if len(res.Failures) > 0 {
		res.Status = schemas.StatusFailed
	}
	logger.Info("Scenario finished.", zap.String("status", string(res.Status)), zap.Int("events", rec.Len()))
	return res
}

// stepFailure compares a step outcome with its expect_error.
func stepFailure(st schemas.Step, err error) string {
	switch {
	case st.ExpectError == "" && err != nil:
		return err.Error()
	case st.ExpectError != "" && err == nil:
		return fmt.Sprintf("expected error containing %q", st.ExpectError)
	case st.ExpectError != "" && !strings.Contains(err.Error(), st.ExpectError):
		return fmt.Sprintf("error %q does not contain %q", err.Error(), st.ExpectError)
	}
	return ""
}

func errored(res *schemas.ScenarioResult, err error) *schemas.ScenarioResult {
	res.Status = schemas.StatusError
	res.Error = err.Error()
	return res
}

func (r *Runner) saveTrace(trace *schemas.Trace) error {
	if err := os.MkdirAll(r.replay.OutputDir, 0o755); err != nil {
		return err
	}
	f, err := os.Create(filepath.Join(r.replay.OutputDir, trace.RunID+".json"))
	if err != nil {
		return err
	}
	defer f.Close()
	return reporting.WriteTrace(f, trace)
}
