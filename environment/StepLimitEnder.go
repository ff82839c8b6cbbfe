package environment

import "github.com/samuelfneumann/tabularq/timestep"

// StepLimit is an Ender which cuts episodes off after a fixed number
// of steps
type StepLimit struct {
	limit int
}

// NewStepLimit returns a StepLimit ending episodes at step limit. A
// non-positive limit never ends an episode.
func NewStepLimit(limit int) StepLimit {
	return StepLimit{limit: limit}
}

// End marks t as the last step of its episode once it reaches the
// limit and reports whether it did
func (s StepLimit) End(t *timestep.TimeStep) bool {
	if s.limit <= 0 || t.Number < s.limit {
		return false
	}
	t.StepType = timestep.Last
	return true
}
