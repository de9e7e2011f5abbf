package sipp

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"voiptest/pkg/logging"
)

const maxCapturedLine = 1024 * 1024

// logCapture captures stdout and stderr from a process and echoes every
// line to the debug log while the process runs.
type logCapture struct {
	stdoutBuf    *bytes.Buffer
	stderrBuf    *bytes.Buffer
	stdoutReader *io.PipeReader
	stderrReader *io.PipeReader
	stdoutWriter *io.PipeWriter
	stderrWriter *io.PipeWriter
	wg           sync.WaitGroup
	mu           sync.RWMutex
}

func newLogCapture() *logCapture {
	lc := &logCapture{
		stdoutBuf: &bytes.Buffer{},
		stderrBuf: &bytes.Buffer{},
	}

	lc.stdoutReader, lc.stdoutWriter = io.Pipe()
	lc.stderrReader, lc.stderrWriter = io.Pipe()

	lc.wg.Add(2)
	go lc.captureOutput("stdout", lc.stdoutReader, lc.stdoutBuf)
	go lc.captureOutput("stderr", lc.stderrReader, lc.stderrBuf)

	return lc
}

func (lc *logCapture) captureOutput(stream string, reader io.Reader, buffer *bytes.Buffer) {
	defer lc.wg.Done()

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), maxCapturedLine)
	for scanner.Scan() {
		line := scanner.Text()
		logging.Debug(subsystem, "[%s] %s", stream, line)
		lc.mu.Lock()
		buffer.WriteString(line + "\n")
		lc.mu.Unlock()
	}
	if err := scanner.Err(); err != nil {
		logging.Warn(subsystem, "Stopped capturing %s: %v", stream, err)
		// keep draining so the process never blocks on a full pipe
		_, _ = io.Copy(io.Discard, reader)
	}
}

// close closes the capture pipes and waits until everything was read.
func (lc *logCapture) close() {
	lc.stdoutWriter.Close()
	lc.stderrWriter.Close()
	lc.wg.Wait()
}

func (lc *logCapture) output() (stdout, stderr string) {
	lc.mu.RLock()
	defer lc.mu.RUnlock()
	return lc.stdoutBuf.String(), lc.stderrBuf.String()
}

type processSpec struct {
	path    string
	args    []string
	dir     string
	timeout time.Duration
	grace   time.Duration
}

type processOutput struct {
	stdout   string
	stderr   string
	exitCode int
	timedOut bool
}

// runProcess runs the command to completion. When spec.timeout elapses the
// process receives SIGTERM and is killed if it is still running after
// spec.grace; the output then has timedOut set. A non-zero exit is not an
// error. The error is non-nil when the process could not be started or the
// parent context was cancelled.
func runProcess(parent context.Context, spec processSpec) (processOutput, error) {
	ctx, cancel := context.WithTimeout(parent, spec.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, spec.path, spec.args...)
	cmd.Dir = spec.dir
	cmd.Cancel = func() error {
		return cmd.Process.Signal(syscall.SIGTERM)
	}
	cmd.WaitDelay = spec.grace

	capture := newLogCapture()
	cmd.Stdout = capture.stdoutWriter
	cmd.Stderr = capture.stderrWriter

	if err := cmd.Start(); err != nil {
		capture.close()
		return processOutput{exitCode: -1}, err
	}

	waitErr := cmd.Wait()
	capture.close()

	out := processOutput{exitCode: -1}
	out.stdout, out.stderr = capture.output()
	if cmd.ProcessState != nil {
		out.exitCode = cmd.ProcessState.ExitCode()
	}

	if waitErr == nil {
		return out, nil
	}
	if err := parent.Err(); err != nil {
		return out, err
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		out.timedOut = true
		out.exitCode = -1
		return out, nil
	}

	var exitErr *exec.ExitError
	if !errors.As(waitErr, &exitErr) {
		return out, waitErr
	}
	return out, nil
}
