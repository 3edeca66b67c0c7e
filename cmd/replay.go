// File: cmd/replay.go
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/userevent/api/schemas"
	"github.com/xkilldash9x/userevent/internal/cdp"
	"github.com/xkilldash9x/userevent/internal/config"
	"github.com/xkilldash9x/userevent/internal/observability"
	"github.com/xkilldash9x/userevent/internal/reporting"
	"github.com/xkilldash9x/userevent/internal/scenario"
)

// ErrScenariosFailed is returned when at least one scenario did not pass.
var ErrScenariosFailed = errors.New("scenarios did not pass")

func newReplayCmd() *cobra.Command {
	var (
		format      string
		output      string
		traceDir    string
		concurrency int
		delay       time.Duration
		useCDP      bool
		headful     bool
		skipCheck   bool
	)

	cmd := &cobra.Command{
		Use:   "replay [scenario files or directories...]",
		Short: "Replays scenario files and reports the outcome.",
		Long: `Replays YAML scenarios against an in-memory document. Each scenario
loads its markup, runs its setup scripts and steps, then checks its
expectations. Directories are searched for *.yaml and *.yml files.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFromContext(cmd.Context())
			if err != nil {
				return err
			}

			// Flags override the configuration only when set.
			flags := cmd.Flags()
			if flags.Changed("format") {
				cfg.SetReplayFormat(format)
			}
			if flags.Changed("concurrency") {
				cfg.SetReplayConcurrency(concurrency)
			}
			if flags.Changed("trace-dir") {
				cfg.SetReplayOutputDir(traceDir)
			}
			if flags.Changed("delay") {
				cfg.SetEngineDelay(delay)
			}
			if flags.Changed("skip-pointer-events-check") {
				cfg.SetEngineSkipPointerEventsCheck(skipCheck)
			}
			if flags.Changed("cdp") {
				cfg.SetCDPEnabled(useCDP)
			}
			if flags.Changed("headful") {
				cfg.SetCDPHeadless(!headful)
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			paths, err := collectScenarios(args)
			if err != nil {
				return err
			}
			return runReplay(cmd.Context(), cfg, paths, output, cmd.OutOrStdout(), observability.GetLogger())
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", config.FormatTable, "report format (table or json)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the report to a file instead of stdout")
	cmd.Flags().StringVar(&traceDir, "trace-dir", "", "directory for one JSON trace per run")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "j", 4, "number of scenarios replayed at once")
	cmd.Flags().DurationVar(&delay, "delay", 0, "pause between simulated actions")
	cmd.Flags().BoolVar(&skipCheck, "skip-pointer-events-check", false, "ignore pointer-events: none")
	cmd.Flags().BoolVar(&useCDP, "cdp", false, "also replay every passed trace in Chrome")
	cmd.Flags().BoolVar(&headful, "headful", false, "show the browser window when --cdp is set")
	return cmd
}

// runReplay contains the core logic for the replay command.
func runReplay(ctx context.Context, cfg config.Interface, paths []string, output string, out io.Writer, logger *zap.Logger) error {
	runner, err := scenario.NewRunner(cfg, logger)
	if err != nil {
		return err
	}
	if cfg.CDP().Enabled {
		replayer := cdp.NewReplayer(cdp.NewChromeExecutor(cfg.CDP(), logger), cfg.CDP(), logger)
		defer replayer.Close()
		runner.WithExporter(replayer)
	}

	report, err := reporting.New(cfg.Replay().Format, output, out, logger)
	if err != nil {
		return err
	}
	results, runErr := runner.RunFiles(ctx, paths, report)
	if err := report.Close(); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if runErr != nil {
		return runErr
	}

	var failed int
	for _, res := range results {
		if res.Status != schemas.StatusPassed {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d: %w", failed, len(results), ErrScenariosFailed)
	}
	return nil
}

// collectScenarios expands directories into the scenario files they hold.
func collectScenarios(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("scenario path: %w", err)
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		var found []string
		for _, pattern := range []string{"*.yaml", "*.yml"} {
			matches, err := filepath.Glob(filepath.Join(arg, pattern))
			if err != nil {
				return nil, err
			}
			found = append(found, matches...)
		}
		if len(found) == 0 {
			return nil, fmt.Errorf("no scenario files in %s", arg)
		}
		slices.Sort(found)
		paths = append(paths, found...)
	}
	return paths, nil
}
