package sipp

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"voiptest/internal/config"
	"voiptest/internal/engine"
	"voiptest/internal/scenario"
	"voiptest/pkg/logging"
)

const subsystem = "sipp"

// ReasonProcessTimeout is reported when SIPp outlived its deadline and had
// to be stopped.
const ReasonProcessTimeout = "process timeout"

const defaultStopGrace = 5 * time.Second

// For mocking in tests
var lookPath = exec.LookPath

// Options configures an Executor.
type Options struct {
	// Binary is the SIPp executable name or path
	Binary string
	// LocalIP and LocalPort are the local SIP bind address
	LocalIP   string
	LocalPort int
	// ScenarioFile is a call-flow template; empty selects the built-in UAC flow
	ScenarioFile string
	// TimeoutBuffer is added to call.timeout_s to bound the process lifetime
	TimeoutBuffer time.Duration
	// HoldDuration is how long an answered call is held before BYE
	HoldDuration time.Duration
	// WorkDir is the parent of the per-call work directories, empty for the OS temp dir
	WorkDir string
	// KeepArtifacts leaves the work directory in place after the call
	KeepArtifacts bool
	// StopGrace is how long SIPp may take to exit after SIGTERM before it is killed
	StopGrace time.Duration
	// Version is the harness version rendered into the call flow
	Version string
}

// OptionsFromConfig maps the sipp section of the harness configuration.
func OptionsFromConfig(cfg config.SIPpConfig) Options {
	return Options{
		Binary:        cfg.Binary,
		LocalIP:       cfg.LocalIP,
		LocalPort:     cfg.LocalPort,
		ScenarioFile:  cfg.ScenarioFile,
		TimeoutBuffer: cfg.TimeoutBuffer,
		HoldDuration:  cfg.HoldDuration,
		WorkDir:       cfg.WorkDir,
		KeepArtifacts: cfg.KeepArtifacts,
	}
}

// Executor places calls by running SIPp as a child process, one process per call.
type Executor struct {
	opts Options
}

// New creates an Executor, filling unset options with the harness defaults.
func New(opts Options) *Executor {
	if opts.Binary == "" {
		opts.Binary = config.DefaultSIPpBinary
	}
	if opts.LocalIP == "" {
		opts.LocalIP = config.DefaultLocalIP
	}
	if opts.LocalPort == 0 {
		opts.LocalPort = config.DefaultLocalPort
	}
	if opts.TimeoutBuffer == 0 {
		opts.TimeoutBuffer = config.DefaultTimeoutBuffer
	}
	if opts.HoldDuration == 0 {
		opts.HoldDuration = config.DefaultHoldDuration
	}
	if opts.StopGrace == 0 {
		opts.StopGrace = defaultStopGrace
	}
	return &Executor{opts: opts}
}

// Name implements engine.Executor.
func (e *Executor) Name() string {
	return "sipp"
}

// Options returns the effective options.
func (e *Executor) Options() Options {
	return e.opts
}

// Execute places a single call for sc. Nothing is written to disk when the
// SIPp binary cannot be found.
func (e *Executor) Execute(ctx context.Context, sc scenario.Scenario) (*engine.Result, error) {
	binPath, err := lookPath(e.opts.Binary)
	if err != nil {
		return nil, &engine.ToolUnavailableError{Tool: e.opts.Binary, Err: err}
	}

	workDir, err := os.MkdirTemp(e.opts.WorkDir, "voiptest_sipp_")
	if err != nil {
		return nil, &engine.ExecutionError{Op: "create work directory", Err: err}
	}
	defer func() {
		if e.opts.KeepArtifacts {
			logging.Info(subsystem, "Kept artifacts of %q in %s", sc.Name, workDir)
			return
		}
		if err := os.RemoveAll(workDir); err != nil {
			logging.Warn(subsystem, "Failed to remove work directory %s: %v", workDir, err)
		}
	}()

	files := newWorkFiles(workDir)
	if err := writeInjectionFile(files.inject, sc); err != nil {
		return nil, &engine.ExecutionError{Op: "write injection file", Err: err}
	}
	if err := renderFlow(e.opts.ScenarioFile, files.flow, newFlowData(e.opts, sc)); err != nil {
		return nil, &engine.ExecutionError{Op: "render call flow", Err: err}
	}

	args := buildArgs(e.opts, sc, files)
	deadline := time.Duration(sc.Call.TimeoutS)*time.Second + e.opts.TimeoutBuffer
	logging.Debug(subsystem, "Running %s %s (deadline %s)", binPath, strings.Join(redactArgs(args), " "), deadline)

	out, runErr := runProcess(ctx, processSpec{
		path:    binPath,
		args:    args,
		dir:     workDir,
		timeout: deadline,
		grace:   e.opts.StopGrace,
	})

	logs := engine.Logs{
		Stdout:     out.stdout,
		Stderr:     out.stderr,
		MessageLog: readIfExists(files.messages),
		ErrorLog:   readIfExists(files.errors),
	}
	if e.opts.KeepArtifacts {
		logs.WorkDir = workDir
	}

	switch {
	case runErr != nil && ctx.Err() != nil:
		return nil, &engine.ExecutionError{Op: "run " + e.opts.Binary, Err: ctx.Err()}
	case runErr != nil:
		return nil, &engine.ExecutionError{Op: "run " + e.opts.Binary, Err: runErr}
	case out.timedOut:
		logging.Warn(subsystem, "%s exceeded %s for %q and was stopped", e.opts.Binary, deadline, sc.Name)
		return &engine.Result{
			Reason:   ReasonProcessTimeout,
			ExitCode: -1,
			TimedOut: true,
			Logs:     logs,
		}, nil
	}

	code := ExtractFinalCode(logs.MessageLog)
	result := &engine.Result{
		FinalCode: code,
		Reason:    ClassifyReason(e.opts.Binary, out.exitCode, logs.Stderr, logs.ErrorLog, code),
		ExitCode:  out.exitCode,
		Logs:      logs,
	}
	logging.Debug(subsystem, "%q finished: exit=%d code=%d reason=%q", sc.Name, result.ExitCode, result.Code(), result.Reason)
	return result, nil
}

// workFiles are the per-call paths inside the work directory.
type workFiles struct {
	dir      string
	inject   string
	flow     string
	messages string
	errors   string
}

func newWorkFiles(dir string) workFiles {
	return workFiles{
		dir:      dir,
		inject:   filepath.Join(dir, "inject.csv"),
		flow:     filepath.Join(dir, "scenario.xml"),
		messages: filepath.Join(dir, "messages.log"),
		errors:   filepath.Join(dir, "errors.log"),
	}
}

func readIfExists(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logging.Warn(subsystem, "Failed to read %s: %v", path, err)
		}
		return ""
	}
	return string(data)
}

// redactArgs hides the digest password in logged command lines.
func redactArgs(args []string) []string {
	out := append([]string(nil), args...)
	for i := 0; i < len(out)-1; i++ {
		if out[i] == "-ap" {
			out[i+1] = "****"
		}
	}
	return out
}
