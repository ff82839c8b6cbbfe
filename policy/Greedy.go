package policy

import (
	"github.com/samuelfneumann/tabularq/utils/floatutils"
)

// Greedy returns the action with the highest value in state.
//
// The search starts from a uniformly random candidate action. Any
// action with a strictly higher value, scanning from action 0, replaces
// the candidate. Ties are therefore not always resolved towards
// action 0.
func (p *Selector) Greedy(state int) int {
	if p.cache != nil && state >= 0 && state < len(p.cache) &&
		p.cache[state] >= 0 {
		return p.cache[state]
	}

	row := p.table.Row(state)
	best := p.rng.Intn(len(row))
	bestValue := row[best]
	for a, v := range row {
		if v > bestValue {
			best, bestValue = a, v
		}
	}

	if p.cache != nil {
		p.grow()
		p.cache[state] = best
	}
	return best
}

// greedyProbability returns the probability that Greedy selects action
// when its cache is disabled
func (p *Selector) greedyProbability(state, action int) float64 {
	row := p.table.Row(state)
	_, ties := floatutils.MaxSlice(row)

	isMax := false
	for _, a := range ties {
		if a == action {
			isMax = true
			break
		}
	}
	if !isMax {
		return 0
	}

	// The candidate is kept if it is a maximum. Otherwise the first
	// maximum from action 0 wins.
	n := float64(len(row))
	prob := 1 / n
	if action == ties[0] {
		prob += float64(len(row)-len(ties)) / n
	}
	return prob
}

// EnableCache enables memoization of greedy actions per state. While
// enabled, every write to a state's values must be followed by a call
// to Invalidate for that state, otherwise Greedy may return a stale
// action.
func (p *Selector) EnableCache() {
	p.cache = make([]int, p.table.StateCount())
	p.InvalidateAll()
}

// DisableCache disables memoization of greedy actions
func (p *Selector) DisableCache() {
	p.cache = nil
}

// Invalidate forgets the memoized greedy action of state
func (p *Selector) Invalidate(state int) {
	if p.cache != nil && state >= 0 && state < len(p.cache) {
		p.cache[state] = -1
	}
}

// InvalidateAll forgets all memoized greedy actions
func (p *Selector) InvalidateAll() {
	for s := range p.cache {
		p.cache[s] = -1
	}
}

// grow extends the cache to states added to the table since the cache
// was enabled
func (p *Selector) grow() {
	for len(p.cache) < p.table.StateCount() {
		p.cache = append(p.cache, -1)
	}
}
