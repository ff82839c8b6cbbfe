package policy

import (
	"math"
	"testing"

	"github.com/samuelfneumann/tabularq/table"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
)

func randomTable(states, actions int, seed uint64) *table.Table {
	rng := rand.New(rand.NewSource(seed))
	t := table.New(states, actions)
	for s := 0; s < states; s++ {
		for a := 0; a < actions; a++ {
			t.Set(s, a, rng.NormFloat64()*10)
		}
	}
	return t
}

func TestGreedyIsArgmax(t *testing.T) {
	tab := randomTable(50, 6, 1)
	p := NewSelector(tab, rand.NewSource(2))

	for s := 0; s < tab.StateCount(); s++ {
		a := p.Greedy(s)
		for other, v := range tab.Row(s) {
			if v > tab.At(s, a) {
				t.Errorf("greedy(%d): action %d has value %v > %v of %d", s,
					other, v, tab.At(s, a), a)
			}
		}
	}
}

func TestGreedyBreaksTiesRandomly(t *testing.T) {
	tab := table.New(1, 4)
	p := NewSelector(tab, rand.NewSource(3))

	counts := make([]int, 4)
	const n = 4000
	for i := 0; i < n; i++ {
		counts[p.Greedy(0)]++
	}
	for a, c := range counts {
		if c == 0 {
			t.Errorf("greedy: tied action %d never selected", a)
		}
		if got := float64(c) / n; math.Abs(got-0.25) > 0.05 {
			t.Errorf("greedy: action %d selected with frequency %v, want "+
				"about 0.25", a, got)
		}
	}
}

func TestGreedyCacheInvalidation(t *testing.T) {
	tab := table.New(2, 3)
	tab.Set(0, 2, 1)
	p := NewSelector(tab, rand.NewSource(4))
	p.EnableCache()

	if a := p.Greedy(0); a != 2 {
		t.Fatalf("greedy: want 2, have %d", a)
	}

	// Lowering a non-cached action must not leave a stale result once
	// the row is invalidated
	tab.Set(0, 2, -1)
	tab.Set(0, 1, 5)
	p.Invalidate(0)
	if a := p.Greedy(0); a != 1 {
		t.Errorf("greedy: want 1 after invalidation, have %d", a)
	}

	tab.AddState(3)
	tab.Set(2, 0, 9)
	if a := p.Greedy(2); a != 0 {
		t.Errorf("greedy: want 0 for added state, have %d", a)
	}
}

func TestEGreedy(t *testing.T) {
	tab := table.New(1, 5)
	tab.Set(0, 3, 1)
	p := NewSelector(tab, rand.NewSource(5))

	for i := 0; i < 100; i++ {
		if a := p.EGreedy(0, 0, -1); a != 3 {
			t.Fatalf("eGreedy: ε = 0 should be greedy, have %d", a)
		}
		if a := p.EGreedy(0, 0, 1); a != 1 {
			t.Fatalf("eGreedy: supplied greedy action ignored, have %d", a)
		}
	}

	counts := make([]int, 5)
	const n = 5000
	for i := 0; i < n; i++ {
		counts[p.EGreedy(0, 1, -1)]++
	}
	for a, c := range counts {
		if got := float64(c) / n; math.Abs(got-0.2) > 0.04 {
			t.Errorf("eGreedy: ε = 1 selected %d with frequency %v", a, got)
		}
	}
}

func TestDistributionSumsToOne(t *testing.T) {
	tab := randomTable(30, 7, 6)
	p := NewSelector(tab, rand.NewSource(7))

	for _, temperature := range []float64{1e-6, 0.1, 1, 100} {
		for s := 0; s < tab.StateCount(); s++ {
			bounds, total := p.Distribution(s, temperature)
			if !scalar.EqualWithinAbsOrRel(total, 1, 1e-9, 1e-9) {
				t.Errorf("distribution(%d, τ=%v): total %v", s, temperature,
					total)
			}
			for a := 1; a < len(bounds); a++ {
				if bounds[a] < bounds[a-1] {
					t.Errorf("distribution: bounds not monotone: %v", bounds)
				}
			}
		}
	}
}

func TestSoftmaxIsStable(t *testing.T) {
	tab := table.New(1, 3)
	tab.Set(0, 0, 1e300)
	tab.Set(0, 1, -1e300)
	tab.Set(0, 2, 1e300)
	p := NewSelector(tab, rand.NewSource(8))

	for _, temperature := range []float64{1e-300, 1e-3, 1} {
		bounds, total := p.Distribution(0, temperature)
		if math.IsNaN(total) || math.IsInf(total, 0) {
			t.Fatalf("distribution: non-finite total %v", total)
		}
		if !scalar.EqualWithinAbs(bounds[0], 0.5, 1e-12) {
			t.Errorf("distribution: want first bound 0.5, have %v", bounds[0])
		}
		if prob := p.Probability(0, 1, temperature); prob != MinProbability {
			t.Errorf("probability: underflowed action should be floored, "+
				"have %v", prob)
		}
	}
}

func TestSoftmaxSampling(t *testing.T) {
	tab := table.New(1, 3)
	tab.Set(0, 0, math.Log(1))
	tab.Set(0, 1, math.Log(2))
	tab.Set(0, 2, math.Log(7))
	p := NewSelector(tab, rand.NewSource(9))

	counts := make([]float64, 3)
	const n = 20000
	for i := 0; i < n; i++ {
		counts[p.Softmax(0, 1)]++
	}
	want := []float64{0.1, 0.2, 0.7}
	for a := range want {
		if got := counts[a] / n; math.Abs(got-want[a]) > 0.02 {
			t.Errorf("softmax: action %d frequency %v, want %v", a, got,
				want[a])
		}
		if prob := p.Probability(0, a, 1); !scalar.EqualWithinAbs(prob,
			want[a], 1e-12) {
			t.Errorf("probability: action %d want %v, have %v", a, want[a],
				prob)
		}
	}
}

func TestProbabilities(t *testing.T) {
	tab := table.NewJagged([]int{2, 4, 1})
	tab.Set(1, 2, 3)
	p := NewSelector(tab, rand.NewSource(10))

	probs := table.NewLike(tab)
	p.Probabilities(probs, 0.5)
	for s := 0; s < tab.StateCount(); s++ {
		if sum := floats.Sum(probs.Row(s)); !scalar.EqualWithinAbs(sum, 1,
			1e-12) {
			t.Errorf("probabilities: state %d sums to %v", s, sum)
		}
		for a := 0; a < tab.ActionCount(s); a++ {
			if probs.At(s, a) != p.Probability(s, a, 0.5) {
				t.Errorf("probabilities: (%d, %d) disagrees with "+
					"probability", s, a)
			}
		}
	}
}

func TestBehaviourProbability(t *testing.T) {
	tab := table.New(1, 4)
	tab.Set(0, 1, 2)
	tab.Set(0, 3, 2)
	p := NewSelector(tab, rand.NewSource(11))

	for _, pt := range []Type{EGreedy, Softmax} {
		sum := 0.0
		for a := 0; a < 4; a++ {
			sum += p.BehaviourProbability(pt, 0, a, 0.2, 1)
		}
		if !scalar.EqualWithinAbs(sum, 1, 1e-12) {
			t.Errorf("behaviourProbability: %v sums to %v", pt, sum)
		}
	}

	// With ties at actions 1 and 3, the greedy scan keeps a maximal
	// candidate and otherwise settles on action 1
	if prob := p.BehaviourProbability(EGreedy, 0, 1, 0, 1); prob != 0.75 {
		t.Errorf("behaviourProbability: want 0.75, have %v", prob)
	}
	if prob := p.BehaviourProbability(EGreedy, 0, 0, 0, 1); prob != 0 {
		t.Errorf("behaviourProbability: want 0, have %v", prob)
	}
}

func TestValidate(t *testing.T) {
	if err := Type("Boltzmann").Validate(); err == nil {
		t.Error("validate: expected error for unknown policy type")
	}
	if err := Softmax.Validate(); err != nil {
		t.Error(err)
	}
}
