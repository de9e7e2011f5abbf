package scenario

import "fmt"

// Lint returns warnings for documents that validate but cannot behave the way
// their author probably intended. Warnings never fail a run.
func Lint(s Scenario) []string {
	var warnings []string

	if code := s.Expect.FinalSIPCode; code != nil {
		switch s.Expect.Outcome {
		case OutcomeAnswered:
			if *code != 200 {
				warnings = append(warnings, fmt.Sprintf("expect.final_sip_code %d can never match outcome answered (200)", *code))
			}
		case OutcomeBusy:
			if *code != 486 {
				warnings = append(warnings, fmt.Sprintf("expect.final_sip_code %d can never match outcome busy (486)", *code))
			}
		case OutcomeFailed:
			if *code >= 200 && *code <= 299 {
				warnings = append(warnings, fmt.Sprintf("expect.final_sip_code %d is a success code and can never match outcome failed", *code))
			}
		}
	}

	if s.Expect.AnswerWithinS != nil {
		warnings = append(warnings, "expect.answer_within_s is recorded but not enforced")
	}
	if s.Expect.MinDurationS != nil {
		warnings = append(warnings, "expect.min_duration_s is recorded but not enforced")
	}
	if s.Call.MaxDurationS < s.Call.TimeoutS {
		warnings = append(warnings, fmt.Sprintf("call.max_duration_s (%d) is shorter than call.timeout_s (%d)", s.Call.MaxDurationS, s.Call.TimeoutS))
	}
	if s.Call.From == s.Call.To {
		warnings = append(warnings, "call.from and call.to name the same account")
	}
	return warnings
}
