package environment

import (
	"math"
	"testing"

	"github.com/samuelfneumann/tabularq/timestep"
)

func TestCategoricalStarter(t *testing.T) {
	s, err := NewCategoricalStarter([]float64{1, 0, 3}, 1)
	if err != nil {
		t.Fatal(err)
	}

	counts := make([]float64, 3)
	const n = 8000
	for i := 0; i < n; i++ {
		counts[s.Start()]++
	}
	if counts[1] != 0 {
		t.Errorf("start: zero-weight state sampled %v times", counts[1])
	}
	if got := counts[2] / n; math.Abs(got-0.75) > 0.03 {
		t.Errorf("start: state 2 frequency %v, want about 0.75", got)
	}

	if _, err := NewCategoricalStarter(nil, 1); err == nil {
		t.Error("newCategoricalStarter: expected error for no states")
	}
	if _, err := NewCategoricalStarter([]float64{0, 0}, 1); err == nil {
		t.Error("newCategoricalStarter: expected error for zero weights")
	}
	if _, err := NewCategoricalStarter([]float64{1, -1}, 1); err == nil {
		t.Error("newCategoricalStarter: expected error for negative weight")
	}
}

func TestUniformStarter(t *testing.T) {
	s, err := NewUniformStarter(10, []int{3, 7}, 2)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 100; i++ {
		if start := s.Start(); start != 3 && start != 7 {
			t.Fatalf("start: unexpected state %d", start)
		}
	}

	if _, err := NewUniformStarter(5, []int{5}, 2); err == nil {
		t.Error("newUniformStarter: expected error for out of range state")
	}
}

func TestStepLimit(t *testing.T) {
	limit := NewStepLimit(3)

	step := timestep.New(timestep.Mid, 0, 1, 2)
	if limit.End(&step) || step.Last() {
		t.Error("end: episode ended before the limit")
	}
	step.Number = 3
	if !limit.End(&step) || !step.Last() {
		t.Error("end: episode not ended at the limit")
	}

	step = timestep.New(timestep.Mid, 0, 1, 1000)
	if NewStepLimit(0).End(&step) {
		t.Error("end: non-positive limit should never end episodes")
	}
}
