package sipp

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ReasonSuccess is reported when SIPp exited 0.
const ReasonSuccess = "success"

// ReasonTimeout is reported when SIPp itself gave up waiting.
const ReasonTimeout = "timeout"

// exitMeanings are SIPp's documented exit statuses. 255 and 254 are the
// unsigned forms of -1 and -2.
var exitMeanings = map[int]string{
	1:   "at least one call failed",
	97:  "exit on internal command",
	99:  "normal exit without calls processed",
	255: "fatal error",
	254: "fatal error binding a socket",
}

// ClassifyReason derives the textual reason of a finished SIPp run. The
// order matters: a timeout wins over a protocol error code.
func ClassifyReason(binary string, exitCode int, stderr, errorLog string, code *int) string {
	if exitCode == 0 {
		return ReasonSuccess
	}
	if mentionsTimeout(stderr) || mentionsTimeout(errorLog) {
		return ReasonTimeout
	}
	if code != nil && *code >= 400 {
		return fmt.Sprintf("protocol error %d", *code)
	}

	reason := fmt.Sprintf("%s exit code %d", filepath.Base(binary), exitCode)
	if meaning, ok := exitMeanings[exitCode]; ok {
		reason += " (" + meaning + ")"
	}
	return reason
}

func mentionsTimeout(s string) bool {
	return strings.Contains(strings.ToLower(s), "timeout")
}
