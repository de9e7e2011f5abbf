package report

import (
	"fmt"
	"strings"
	"time"

	"voiptest/internal/runner"
	"voiptest/internal/scenario"
)

// describeExpect renders an expectation as key=value pairs.
func describeExpect(e scenario.Expect) string {
	parts := []string{"outcome=" + string(e.Outcome)}
	if e.FinalSIPCode != nil {
		parts = append(parts, fmt.Sprintf("final_sip_code=%d", *e.FinalSIPCode))
	}
	if e.AnswerWithinS != nil {
		parts = append(parts, fmt.Sprintf("answer_within_s=%d", *e.AnswerWithinS))
	}
	if e.MinDurationS != nil {
		parts = append(parts, fmt.Sprintf("min_duration_s=%d", *e.MinDurationS))
	}
	return strings.Join(parts, " ")
}

func describeActual(a *runner.Actual) string {
	if a == nil {
		return "none"
	}
	code := "none"
	if a.SIPCode != nil {
		code = fmt.Sprintf("%d", *a.SIPCode)
	}
	s := fmt.Sprintf("outcome=%s sip_code=%s exit_code=%d reason=%q", a.Outcome, code, a.ExitCode, a.Reason)
	if a.TimedOut {
		s += " timed_out=true"
	}
	return s
}

// describeCall summarizes where a scenario sends its call.
func describeCall(sc scenario.Scenario) string {
	return fmt.Sprintf("from=%s to=%s target=%s:%d/%s timeout_s=%d",
		sc.CallerUser(), sc.Destination(), sc.Target.Host, sc.Target.Port, sc.Target.Transport, sc.Call.TimeoutS)
}

// seconds formats a duration the way JUnit consumers expect.
func seconds(d time.Duration) string {
	return fmt.Sprintf("%.3f", d.Seconds())
}

// roundDuration keeps console output readable.
func roundDuration(d time.Duration) time.Duration {
	switch {
	case d >= time.Second:
		return d.Round(10 * time.Millisecond)
	case d >= time.Millisecond:
		return d.Round(time.Millisecond)
	default:
		return d
	}
}

func statusSymbol(status runner.Status) string {
	switch status {
	case runner.StatusPassed:
		return "✅"
	case runner.StatusFailed:
		return "❌"
	case runner.StatusError:
		return "💥"
	default:
		return "❓"
	}
}
