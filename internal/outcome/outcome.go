// Package outcome turns a raw engine result into an outcome category and
// checks it against a scenario's expectation.
package outcome

import (
	"fmt"
	"strings"

	"voiptest/internal/engine"
	"voiptest/internal/scenario"
)

const (
	codeOK   = 200
	codeBusy = 486
)

// Verdict is the evaluation of one call.
type Verdict struct {
	Passed bool `json:"passed"`
	// Outcome is the observed category
	Outcome scenario.Outcome `json:"outcome"`
	// Code is the observed final SIP code, nil when none was seen
	Code *int `json:"sip_code,omitempty"`
	// Reason explains a failed verdict, empty when passed
	Reason string `json:"reason,omitempty"`
	// Notes are advisory remarks that never affect Passed
	Notes []string `json:"notes,omitempty"`
}

// Classify maps a result to an outcome category. It only looks at the
// reason, the final code and the exit code, so equal inputs always give
// equal categories.
func Classify(r *engine.Result) scenario.Outcome {
	if r == nil {
		return scenario.OutcomeFailed
	}
	if strings.Contains(strings.ToLower(r.Reason), "timeout") {
		return scenario.OutcomeNoAnswer
	}
	if r.FinalCode != nil {
		code := *r.FinalCode
		switch {
		case code >= 200 && code <= 299:
			return scenario.OutcomeAnswered
		case code == codeBusy:
			return scenario.OutcomeBusy
		case code >= 400 && code <= 699:
			return scenario.OutcomeFailed
		}
	}
	if r.FinalCode == nil && r.ExitCode == 0 {
		return scenario.OutcomeAnswered
	}
	return scenario.OutcomeFailed
}

// Evaluate checks a result against an expectation.
//
//   - answered requires category answered and code 200
//   - busy requires category busy and code 486
//   - failed requires any category but answered
//   - no_answer accepts category no_answer or failed
//
// An explicit final_sip_code must then equal the observed code whatever the
// expected outcome. answer_within_s and min_duration_s only produce notes.
func Evaluate(expect scenario.Expect, r *engine.Result) Verdict {
	observed := Classify(r)
	v := Verdict{Outcome: observed}
	if r != nil && r.FinalCode != nil {
		code := *r.FinalCode
		v.Code = &code
	}

	if reason := checkOutcome(expect.Outcome, observed, v.Code); reason != "" {
		v.Reason = reason
	} else if expect.FinalSIPCode != nil && (v.Code == nil || *v.Code != *expect.FinalSIPCode) {
		v.Reason = fmt.Sprintf("expected final SIP code %d, got %s", *expect.FinalSIPCode, formatCode(v.Code))
	}
	v.Passed = v.Reason == ""

	if expect.AnswerWithinS != nil {
		v.Notes = append(v.Notes, fmt.Sprintf("answer_within_s=%d not checked", *expect.AnswerWithinS))
	}
	if expect.MinDurationS != nil {
		v.Notes = append(v.Notes, fmt.Sprintf("min_duration_s=%d not checked", *expect.MinDurationS))
	}
	return v
}

func checkOutcome(want, got scenario.Outcome, code *int) string {
	mismatch := func() string {
		return fmt.Sprintf("expected outcome %s, got %s (code %s)", want, got, formatCode(code))
	}

	switch want {
	case scenario.OutcomeAnswered:
		if got != scenario.OutcomeAnswered {
			return mismatch()
		}
		if code == nil || *code != codeOK {
			return fmt.Sprintf("expected answered with code %d, got %s", codeOK, formatCode(code))
		}
	case scenario.OutcomeBusy:
		if got != scenario.OutcomeBusy {
			return mismatch()
		}
		if code == nil || *code != codeBusy {
			return fmt.Sprintf("expected busy with code %d, got %s", codeBusy, formatCode(code))
		}
	case scenario.OutcomeFailed:
		if got == scenario.OutcomeAnswered {
			return mismatch()
		}
	case scenario.OutcomeNoAnswer:
		if got != scenario.OutcomeNoAnswer && got != scenario.OutcomeFailed {
			return mismatch()
		}
	default:
		return fmt.Sprintf("unknown expected outcome %q", want)
	}
	return ""
}

func formatCode(code *int) string {
	if code == nil {
		return "none"
	}
	return fmt.Sprintf("%d", *code)
}
