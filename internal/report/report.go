// Package report renders batch results for people and for CI systems.
//
// Console reporters implement runner.Reporter and print while the batch
// runs. File reports are written once the batch completes:
//
//   - voiptest-results.xml, JUnit XML with one suite per scenario file
//   - voiptest-report-<timestamp>.json, the complete batch result
//   - voiptest.prom, Prometheus textfile metrics
package report

import (
	"errors"

	"voiptest/internal/runner"
	"voiptest/pkg/logging"
)

// Options selects the file reports written by WriteAll.
type Options struct {
	OutputDir string
	JUnit     bool
	JSON      bool
	Metrics   bool
}

// WriteAll writes every selected report and returns the paths written.
// A failing report does not prevent the others; the errors are joined.
func WriteAll(opts Options, batch runner.BatchResult) ([]string, error) {
	dir := opts.OutputDir
	if dir == "" {
		dir = "."
	}

	writers := []struct {
		enabled bool
		name    string
		write   func(string, runner.BatchResult) (string, error)
	}{
		{opts.JUnit, "JUnit", WriteJUnit},
		{opts.JSON, "JSON", WriteJSON},
		{opts.Metrics, "metrics", WriteMetrics},
	}

	var (
		paths []string
		errs  []error
	)
	for _, w := range writers {
		if !w.enabled {
			continue
		}
		path, err := w.write(dir, batch)
		if err != nil {
			logging.Error(subsystem, err, "Failed to write %s report", w.name)
			errs = append(errs, err)
			continue
		}
		paths = append(paths, path)
	}
	return paths, errors.Join(errs...)
}
