package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"voiptest/internal/runner"
	"voiptest/pkg/logging"
)

const subsystem = "report"

// jsonTimestampFormat is used in detailed report file names.
const jsonTimestampFormat = "20060102-150405"

// JSONFileName returns the detailed report name for a batch finished at t.
func JSONFileName(t time.Time) string {
	return fmt.Sprintf("voiptest-report-%s.json", t.Format(jsonTimestampFormat))
}

// WriteJSON saves the full batch result into dir and returns the file path.
// Passwords never appear because accounts drop them on marshal.
func WriteJSON(dir string, batch runner.BatchResult) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	finished := batch.EndTime
	if finished.IsZero() {
		finished = time.Now()
	}
	path := filepath.Join(dir, JSONFileName(finished))

	data, err := json.MarshalIndent(batch, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report to JSON: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report file: %w", err)
	}
	logging.Debug(subsystem, "Wrote JSON report to %s", path)
	return path, nil
}
