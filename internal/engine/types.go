package engine

import (
	"context"
	"errors"
	"fmt"

	"voiptest/internal/scenario"
)

// Executor places one call for a fully expanded scenario.
type Executor interface {
	// Execute runs the call and returns what was observed. An error means the
	// call could not be placed at all; a failed call is a Result.
	Execute(ctx context.Context, sc scenario.Scenario) (*Result, error)
	// Name identifies the engine in logs and reports
	Name() string
}

// Result is the engine-neutral observation of one call.
type Result struct {
	// FinalCode is the last final SIP response code seen, nil when none was
	FinalCode *int `json:"final_code,omitempty"`
	// Reason is a short text describing how the call ended
	Reason string `json:"reason"`
	// ExitCode of the engine process, -1 when it had to be stopped
	ExitCode int `json:"exit_code"`
	// TimedOut is set when the process outlived its deadline
	TimedOut bool `json:"timed_out,omitempty"`
	// Logs captured while the call ran
	Logs Logs `json:"logs"`
}

// Code returns the final code or 0 when none was observed.
func (r *Result) Code() int {
	if r == nil || r.FinalCode == nil {
		return 0
	}
	return *r.FinalCode
}

// Logs holds the process output and the engine's trace files.
type Logs struct {
	Stdout     string `json:"stdout,omitempty"`
	Stderr     string `json:"stderr,omitempty"`
	MessageLog string `json:"message_log,omitempty"`
	ErrorLog   string `json:"error_log,omitempty"`
	// WorkDir is only set when artifacts were kept
	WorkDir string `json:"work_dir,omitempty"`
}

// Combined returns all captured output in one block, each part headed by
// its name. Empty parts are skipped.
func (l Logs) Combined() string {
	parts := []struct{ name, text string }{
		{"STDOUT", l.Stdout},
		{"STDERR", l.Stderr},
		{"MESSAGES", l.MessageLog},
		{"ERRORS", l.ErrorLog},
	}
	combined := ""
	for _, p := range parts {
		if p.text == "" {
			continue
		}
		if combined != "" {
			combined += "\n"
		}
		combined += "=== " + p.name + " ===\n" + p.text
	}
	return combined
}

// ToolUnavailableError is returned when the engine binary cannot be found.
type ToolUnavailableError struct {
	Tool string
	Err  error
}

func (e *ToolUnavailableError) Error() string {
	return fmt.Sprintf("%s not found in PATH", e.Tool)
}

func (e *ToolUnavailableError) Unwrap() error { return e.Err }

// ExecutionError is returned when the call could not be run: the work
// directory, input files or process could not be set up, or the run was
// cancelled.
type ExecutionError struct {
	Op  string
	Err error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// IsToolUnavailable reports whether err is or wraps a *ToolUnavailableError.
func IsToolUnavailable(err error) bool {
	var te *ToolUnavailableError
	return errors.As(err, &te)
}
