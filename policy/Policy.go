// Package policy implements action selection over a tabular value
// function.
//
// A Selector reads action values from a table.Table and selects
// actions greedily, ε-greedily, or by sampling a Boltzmann (softmax)
// distribution. All randomness is drawn from a single injected
// golang.org/x/exp/rand.Source so that action selection is
// reproducible given a seed.
package policy

import (
	"fmt"

	"github.com/samuelfneumann/tabularq/table"
	"github.com/samuelfneumann/tabularq/utils/floatutils"
	"golang.org/x/exp/rand"
)

// Type represents the type of behaviour policy
type Type string

const (
	EGreedy Type = "EGreedy"
	Softmax Type = "Softmax"
)

// Validate returns an error if t is not a known policy Type
func (t Type) Validate() error {
	switch t {
	case EGreedy, Softmax:
		return nil
	}
	return fmt.Errorf("validate: no such policy type %q", t)
}

// Selector selects actions from the values stored in a table.Table.
// The Selector does not copy the table, so changes to the table are
// reflected in subsequent action selections.
//
// Selector is not safe for concurrent use.
type Selector struct {
	table *table.Table
	rng   *rand.Rand

	// cache holds the memoized greedy action per state, or nil when
	// caching is disabled
	cache []int
}

// NewSelector returns a new Selector over t using randomness from src
func NewSelector(t *table.Table, src rand.Source) *Selector {
	if t == nil {
		panic("newSelector: table cannot be nil")
	}
	if src == nil {
		panic("newSelector: source cannot be nil")
	}
	return &Selector{table: t, rng: rand.New(src)}
}

// Table returns the table the Selector reads from
func (p *Selector) Table() *table.Table {
	return p.table
}

// Select returns an action in state from the behaviour policy of type
// t. With probability epsilon a uniformly random action is returned.
// Otherwise, EGreedy returns the greedy action, which is computed only
// if greedy < 0, and Softmax samples the Boltzmann distribution with
// the given temperature.
func (p *Selector) Select(t Type, state int, epsilon, temperature float64,
	greedy int) int {
	switch t {
	case EGreedy:
		return p.EGreedy(state, epsilon, greedy)

	case Softmax:
		if p.explore(epsilon) {
			return p.rng.Intn(p.table.ActionCount(state))
		}
		return p.Softmax(state, temperature)
	}

	panic(fmt.Sprintf("select: no such policy type %q", t))
}

// BehaviourProbability returns the probability that Select returns
// action in state.
//
// For EGreedy policies the probability accounts for the tie-breaking
// rule of Greedy, and assumes the greedy cache is disabled.
func (p *Selector) BehaviourProbability(t Type, state, action int, epsilon,
	temperature float64) float64 {
	if err := p.table.Check(state, action); err != nil {
		panic(err)
	}
	n := float64(p.table.ActionCount(state))
	epsilon = floatutils.Clip(epsilon, 0, 1)

	switch t {
	case EGreedy:
		return epsilon/n + (1-epsilon)*p.greedyProbability(state, action)

	case Softmax:
		return epsilon/n + (1-epsilon)*p.Probability(state, action,
			temperature)
	}

	panic(fmt.Sprintf("behaviourProbability: no such policy type %q", t))
}

// explore returns true with probability epsilon
func (p *Selector) explore(epsilon float64) bool {
	return epsilon > 0 && p.rng.Float64() < epsilon
}
