package sipp

import (
	"context"
	"os/exec"
	"regexp"
	"time"

	"voiptest/pkg/logging"
)

const versionProbeTimeout = 5 * time.Second

// UnknownVersion is returned when the SIPp version cannot be determined.
const UnknownVersion = "unknown"

var versionPattern = regexp.MustCompile(`(?i)SIPp\s+v?([\d.]+)`)

// Version runs "<binary> -v" and returns the reported version number,
// UnknownVersion on any failure.
func (e *Executor) Version(ctx context.Context) string {
	binPath, err := lookPath(e.opts.Binary)
	if err != nil {
		logging.Debug(subsystem, "Version probe skipped: %v", err)
		return UnknownVersion
	}

	ctx, cancel := context.WithTimeout(ctx, versionProbeTimeout)
	defer cancel()

	// sipp -v exits non-zero on several releases, so the error is ignored
	// as long as something was printed.
	output, _ := exec.CommandContext(ctx, binPath, "-v").CombinedOutput()
	return ParseVersion(string(output))
}

// ParseVersion extracts the version number from "sipp -v" output.
func ParseVersion(output string) string {
	m := versionPattern.FindStringSubmatch(output)
	if m == nil {
		return UnknownVersion
	}
	return m[1]
}
