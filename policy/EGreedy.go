package policy

// EGreedy returns a uniformly random action in state with probability
// epsilon, and the greedy action otherwise. If greedy is non-negative
// it is used as the greedy action instead of calling Greedy.
func (p *Selector) EGreedy(state int, epsilon float64, greedy int) int {
	if p.explore(epsilon) {
		return p.rng.Intn(p.table.ActionCount(state))
	}

	if greedy < 0 {
		return p.Greedy(state)
	}
	return greedy
}
