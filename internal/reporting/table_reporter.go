// internal/reporting/table_reporter.go
package reporting

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/xkilldash9x/userevent/api/schemas"
)

// TableReporter prints one row per scenario followed by its failures.
type TableReporter struct {
	mu     sync.Mutex
	writer io.WriteCloser
	tw     *tabwriter.Writer
	header bool
	counts map[schemas.RunStatus]int
}

// NewTableReporter takes ownership of writer.
func NewTableReporter(writer io.WriteCloser) *TableReporter {
	return &TableReporter{
		writer: writer,
		tw:     tabwriter.NewWriter(writer, 0, 4, 2, ' ', 0),
		counts: make(map[schemas.RunStatus]int),
	}
}

func (r *TableReporter) Write(result *schemas.ScenarioResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.header {
		fmt.Fprintln(r.tw, "STATUS\tSCENARIO\tSTEPS\tEVENTS\tDURATION\tRUN")
		r.header = true
	}
	events := 0
	if result.Trace != nil {
		events = len(result.Trace.Events)
	}
	fmt.Fprintf(r.tw, "%s\t%s\t%d\t%d\t%s\t%s\n",
		strings.ToUpper(string(result.Status)), result.Scenario, result.Steps, events,
		result.Duration.Round(time.Microsecond), result.RunID)
	if result.Error != "" {
		fmt.Fprintf(r.tw, "\t  error: %s\t\t\t\t\n", result.Error)
	}
	for _, f := range result.Failures {
		fmt.Fprintf(r.tw, "\t  - %s\t\t\t\t\n", f)
	}
	r.counts[result.Status]++
	return nil
}

func (r *TableReporter) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.header {
		fmt.Fprintf(r.tw, "\n%d passed, %d failed, %d errors\n",
			r.counts[schemas.StatusPassed], r.counts[schemas.StatusFailed], r.counts[schemas.StatusError])
	}
	err := r.tw.Flush()
	closeErr := r.writer.Close()
	if err != nil {
		return fmt.Errorf("failed to flush table: %w", err)
	}
	return closeErr
}
