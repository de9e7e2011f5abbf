package sipp

import (
	"regexp"
	"strconv"
	"strings"
)

// statusLinePattern matches a SIP status line such as "SIP/2.0 486 Busy Here".
// "SIP/2.0/UDP" in Via headers and request lines ending in "SIP/2.0" do not match.
var statusLinePattern = regexp.MustCompile(`SIP/2\.0\s+(\d{3})(?:\s|$)`)

// ExtractFinalCode scans a SIPp message trace line by line and returns the
// last final response code (>= 200) it contains. Provisional responses are
// ignored. It returns nil when the trace holds no final response.
func ExtractFinalCode(trace string) *int {
	var final *int
	for _, line := range strings.Split(trace, "\n") {
		for _, m := range statusLinePattern.FindAllStringSubmatch(line, -1) {
			code, err := strconv.Atoi(m[1])
			if err != nil || code < 200 {
				continue
			}
			c := code
			final = &c
		}
	}
	return final
}
