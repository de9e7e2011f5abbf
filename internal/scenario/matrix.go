package scenario

import "fmt"

// Expand turns a scenario with a matrix into one scenario per destination.
// Each copy is named "<name> (to=<destination>)", has call.to replaced and
// carries no matrix. Without a matrix the scenario is returned unchanged.
func Expand(s Scenario) []Scenario {
	if s.Matrix == nil || len(s.Matrix.To) == 0 {
		out := s.Clone()
		out.Matrix = nil
		return []Scenario{out}
	}

	runs := make([]Scenario, 0, len(s.Matrix.To))
	for _, to := range s.Matrix.To {
		run := s.Clone()
		run.Name = fmt.Sprintf("%s (to=%s)", s.Name, to)
		run.Call.To = to
		run.Matrix = nil
		runs = append(runs, run)
	}
	return runs
}
