package runner

import (
	"time"

	"voiptest/internal/engine"
	"voiptest/internal/scenario"
)

// Status is the overall result of a run.
type Status string

const (
	// StatusPassed indicates the call met its expectation
	StatusPassed Status = "PASSED"
	// StatusFailed indicates the call was placed but did not meet its expectation
	StatusFailed Status = "FAILED"
	// StatusError indicates the call could not be placed or the file could not be loaded
	StatusError Status = "ERROR"
)

// Actual is what was observed for one call.
type Actual struct {
	Outcome  scenario.Outcome `json:"outcome"`
	SIPCode  *int             `json:"sip_code,omitempty"`
	ExitCode int              `json:"exit_code"`
	Reason   string           `json:"reason"`
	TimedOut bool             `json:"timed_out,omitempty"`
	Notes    []string         `json:"notes,omitempty"`
}

// RunResult is the result of one expanded scenario.
type RunResult struct {
	Name   string `json:"name"`
	Status Status `json:"status"`
	Passed bool   `json:"passed"`
	// Scenario is the expanded scenario that ran, passwords excluded from JSON
	Scenario scenario.Scenario `json:"scenario"`
	// Actual is nil when the call could not be placed
	Actual *Actual `json:"actual,omitempty"`
	// Reason explains why an evaluated call failed
	Reason string `json:"reason,omitempty"`
	// Error is set when the call could not be placed
	Error     string        `json:"error,omitempty"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
	Logs      *engine.Logs  `json:"logs,omitempty"`
}

// FileResult aggregates the runs of one scenario document.
type FileResult struct {
	// Name is the scenario name, or the file name when the document did not load
	Name   string      `json:"name"`
	Path   string      `json:"path"`
	Passed bool        `json:"passed"`
	Runs   []RunResult `json:"runs"`
	// Error is set when the document could not be loaded or validated
	Error     string        `json:"error,omitempty"`
	Warnings  []string      `json:"warnings,omitempty"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
}

// Counts returns passed, failed and errored runs of the file.
func (f FileResult) Counts() (passed, failed, errored int) {
	for _, r := range f.Runs {
		switch r.Status {
		case StatusPassed:
			passed++
		case StatusError:
			errored++
		default:
			failed++
		}
	}
	return passed, failed, errored
}

// BatchResult is the result of running every file under a path.
type BatchResult struct {
	RunID  string       `json:"run_id"`
	Path   string       `json:"path"`
	Engine string       `json:"engine"`
	Files  []FileResult `json:"files"`
	// TotalRuns counts runs across all files
	TotalRuns   int `json:"total_runs"`
	PassedRuns  int `json:"passed_runs"`
	FailedRuns  int `json:"failed_runs"`
	ErrorRuns   int `json:"error_runs"`
	FailedFiles int `json:"failed_files"`
	// FileErrors counts documents that could not be loaded
	FileErrors int           `json:"file_errors"`
	StartTime  time.Time     `json:"start_time"`
	EndTime    time.Time     `json:"end_time"`
	Duration   time.Duration `json:"duration"`
}

// Passed reports whether every run of every file passed and every file loaded.
func (b *BatchResult) Passed() bool {
	if b == nil || len(b.Files) == 0 {
		return false
	}
	for _, f := range b.Files {
		if !f.Passed {
			return false
		}
	}
	return true
}

// Reporter receives progress while a batch runs.
type Reporter interface {
	// ReportStart is called once before the first file
	ReportStart(path string, files []string)
	// ReportFileStart is called when a file begins
	ReportFileStart(path string)
	// ReportRunResult is called when a run completes
	ReportRunResult(result RunResult)
	// ReportFileResult is called when all runs of a file completed
	ReportFileResult(result FileResult)
	// ReportBatchResult is called when every file completed
	ReportBatchResult(result BatchResult)
}

// NopReporter ignores every event.
type NopReporter struct{}

func (NopReporter) ReportStart(string, []string)  {}
func (NopReporter) ReportFileStart(string)        {}
func (NopReporter) ReportRunResult(RunResult)     {}
func (NopReporter) ReportFileResult(FileResult)   {}
func (NopReporter) ReportBatchResult(BatchResult) {}
