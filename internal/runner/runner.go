package runner

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"

	"voiptest/internal/engine"
	"voiptest/internal/outcome"
	"voiptest/internal/scenario"
	"voiptest/pkg/logging"
)

const subsystem = "runner"

// Runner executes scenario files one call at a time.
type Runner struct {
	executor engine.Executor
	reporter Reporter
	// Discover controls how directories are searched by RunPath
	Discover scenario.DiscoverOptions
}

// New creates a Runner. A nil reporter is replaced with NopReporter.
func New(executor engine.Executor, reporter Reporter) *Runner {
	if reporter == nil {
		reporter = NopReporter{}
	}
	return &Runner{
		executor: executor,
		reporter: reporter,
	}
}

// RunPath runs every scenario file found at path, a file or a directory.
// Discovery errors are returned; failures of individual files are recorded
// in the result and never stop the remaining files.
func (r *Runner) RunPath(ctx context.Context, path string) (*BatchResult, error) {
	files, err := scenario.Discover(path, r.Discover)
	if err != nil {
		return nil, err
	}

	result := &BatchResult{
		RunID:     uuid.NewString(),
		Path:      path,
		Engine:    r.executor.Name(),
		Files:     make([]FileResult, 0, len(files)),
		StartTime: time.Now(),
	}
	logging.Info(subsystem, "Starting run %s with %d file(s) from %s", result.RunID, len(files), path)
	r.reporter.ReportStart(path, files)

	for _, file := range files {
		fileResult := r.RunFile(ctx, file)
		result.Files = append(result.Files, fileResult)
		r.updateCounters(result, fileResult)
	}

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime)
	logging.Info(subsystem, "Run %s finished: %d run(s), %d passed, %d failed, %d error(s)",
		result.RunID, result.TotalRuns, result.PassedRuns, result.FailedRuns, result.ErrorRuns)

	r.reporter.ReportBatchResult(*result)
	return result, nil
}

func (r *Runner) updateCounters(result *BatchResult, file FileResult) {
	passed, failed, errored := file.Counts()
	result.TotalRuns += len(file.Runs)
	result.PassedRuns += passed
	result.FailedRuns += failed
	result.ErrorRuns += errored
	if file.Error != "" {
		result.FileErrors++
	}
	if !file.Passed {
		result.FailedFiles++
	}
}

// RunFile loads one document, expands it and runs each resulting scenario in
// order. A document that does not load produces a failed FileResult with
// Error set and no runs.
func (r *Runner) RunFile(ctx context.Context, path string) FileResult {
	result := FileResult{
		Name:      strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Path:      path,
		StartTime: time.Now(),
	}
	r.reporter.ReportFileStart(path)

	finish := func() FileResult {
		result.EndTime = time.Now()
		result.Duration = result.EndTime.Sub(result.StartTime)
		r.reporter.ReportFileResult(result)
		return result
	}

	sc, err := scenario.LoadFile(path)
	if err != nil {
		logging.Error(subsystem, err, "Failed to load %s", path)
		result.Error = err.Error()
		return finish()
	}
	result.Name = sc.Name
	result.Warnings = scenario.Lint(sc)
	for _, w := range result.Warnings {
		logging.Warn(subsystem, "%s: %s", path, w)
	}

	runs := scenario.Expand(sc)
	result.Runs = make([]RunResult, 0, len(runs))
	for _, run := range runs {
		runResult := r.RunScenario(ctx, run)
		result.Runs = append(result.Runs, runResult)
		r.reporter.ReportRunResult(runResult)
	}

	result.Passed = len(result.Runs) > 0
	for _, run := range result.Runs {
		if !run.Passed {
			result.Passed = false
			break
		}
	}
	return finish()
}

// RunScenario places the call for one expanded scenario and evaluates it.
// Executor errors and panics become a RunResult with Error set.
func (r *Runner) RunScenario(ctx context.Context, sc scenario.Scenario) (result RunResult) {
	result = RunResult{
		Name:      sc.Name,
		Scenario:  sc,
		StartTime: time.Now(),
	}

	toolMissing := false
	defer func() {
		if p := recover(); p != nil {
			logging.Error(subsystem, fmt.Errorf("%v", p), "Panic while running %q\n%s", sc.Name, debug.Stack())
			result.Status = StatusError
			result.Passed = false
			result.Error = fmt.Sprintf("panic during execution: %v", p)
		}
		result.EndTime = time.Now()
		result.Duration = result.EndTime.Sub(result.StartTime)
		if toolMissing {
			result.EndTime = result.StartTime
			result.Duration = 0
		}
	}()

	if err := ctx.Err(); err != nil {
		result.Status = StatusError
		result.Error = fmt.Sprintf("not run: %v", err)
		return result
	}

	logging.Debug(subsystem, "Running %q against %s:%d", sc.Name, sc.Target.Host, sc.Target.Port)
	raw, err := r.executor.Execute(ctx, sc)
	if err != nil {
		result.Status = StatusError
		result.Error = err.Error()
		toolMissing = engine.IsToolUnavailable(err)
		logging.Error(subsystem, err, "Could not run %q", sc.Name)
		return result
	}
	if raw == nil {
		result.Status = StatusError
		result.Error = fmt.Sprintf("%s returned no result", r.executor.Name())
		return result
	}

	verdict := outcome.Evaluate(sc.Expect, raw)
	result.Actual = &Actual{
		Outcome:  verdict.Outcome,
		SIPCode:  verdict.Code,
		ExitCode: raw.ExitCode,
		Reason:   raw.Reason,
		TimedOut: raw.TimedOut,
		Notes:    verdict.Notes,
	}
	logs := raw.Logs
	result.Logs = &logs
	result.Passed = verdict.Passed
	result.Reason = verdict.Reason
	if verdict.Passed {
		result.Status = StatusPassed
	} else {
		result.Status = StatusFailed
	}
	return result
}
