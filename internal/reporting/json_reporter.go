// internal/reporting/json_reporter.go
package reporting

import (
	"fmt"
	"io"
	"sync"

	json "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/xkilldash9x/userevent/api/schemas"
)

// JSONReporter buffers results and writes them as one indented JSON array
// on Close.
type JSONReporter struct {
	mu      sync.Mutex
	writer  io.WriteCloser
	logger  *zap.Logger
	results []*schemas.ScenarioResult
}

// NewJSONReporter takes ownership of writer.
func NewJSONReporter(writer io.WriteCloser, logger *zap.Logger) *JSONReporter {
	return &JSONReporter{
		writer:  writer,
		logger:  logger.Named("json_reporter"),
		results: []*schemas.ScenarioResult{},
	}
}

func (r *JSONReporter) Write(result *schemas.ScenarioResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, result)
	return nil
}

func (r *JSONReporter) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	out, err := json.ConfigCompatibleWithStandardLibrary.MarshalIndent(r.results, "", "  ")
	if err == nil {
		out = append(out, '\n')
		_, err = r.writer.Write(out)
	}
	// Always attempt to close the writer, regardless of encoding success.
	closeErr := r.writer.Close()

	if err != nil {
		r.logger.Error("Failed to write JSON report", zap.Error(err))
		return fmt.Errorf("failed to encode JSON output: %w", err)
	}
	if closeErr != nil {
		return fmt.Errorf("failed to close output writer: %w", closeErr)
	}
	r.logger.Debug("Wrote JSON report", zap.Int("results", len(r.results)))
	return nil
}

// WriteTrace stores a trace as an indented JSON document.
func WriteTrace(w io.Writer, trace *schemas.Trace) error {
	enc := json.ConfigCompatibleWithStandardLibrary.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(trace); err != nil {
		return fmt.Errorf("failed to encode trace: %w", err)
	}
	return nil
}
