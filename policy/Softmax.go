package policy

import (
	"math"

	"github.com/samuelfneumann/tabularq/table"
	"gonum.org/v1/gonum/floats"
)

// MinProbability is the smallest probability the softmax policy
// assigns to any action. It also bounds the normalizing constant from
// below, so extreme temperatures never divide by zero.
const MinProbability = math.SmallestNonzeroFloat64

// softmax fills dst with the Boltzmann probabilities of the action
// values in row at the given temperature. The row maximum is
// subtracted before exponentiating so that no term overflows.
func softmax(dst, row []float64, temperature float64) {
	max := floats.Max(row)

	sum := 0.0
	for a, q := range row {
		dst[a] = math.Exp((q - max) / temperature)
		sum += dst[a]
	}
	if sum < MinProbability {
		sum = MinProbability
	}

	for a := range dst {
		dst[a] /= sum
		if dst[a] < MinProbability {
			dst[a] = MinProbability
		}
	}
}

// Distribution returns the cumulative softmax probabilities of the
// actions in state. bounds[a] is the probability of selecting an
// action in [0, a], and total is bounds[len(bounds)-1].
func (p *Selector) Distribution(state int, temperature float64) (
	bounds []float64, total float64) {
	row := p.table.Row(state)

	bounds = make([]float64, len(row))
	softmax(bounds, row, temperature)
	floats.CumSum(bounds, bounds)

	return bounds, bounds[len(bounds)-1]
}

// Softmax samples an action in state from the softmax distribution
// with the given temperature
func (p *Selector) Softmax(state int, temperature float64) int {
	bounds, total := p.Distribution(state, temperature)

	r := p.rng.Float64() * total
	for a, bound := range bounds {
		if r <= bound {
			return a
		}
	}

	// Rounding can leave r just above the last bound
	return len(bounds) - 1
}

// Probability returns the softmax probability of action in state
func (p *Selector) Probability(state, action int, temperature float64) float64 {
	if err := p.table.Check(state, action); err != nil {
		panic(err)
	}

	row := p.table.Row(state)
	probs := make([]float64, len(row))
	softmax(probs, row, temperature)

	return probs[action]
}

// Probabilities fills dst with the softmax probability of every
// (state, action) pair. dst must have the same shape as the
// Selector's table. The cost is O(states × actions).
func (p *Selector) Probabilities(dst *table.Table, temperature float64) {
	for s := 0; s < p.table.StateCount(); s++ {
		softmax(dst.Row(s), p.table.Row(s), temperature)
	}
}
