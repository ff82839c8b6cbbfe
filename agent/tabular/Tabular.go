// Package tabular implements tabular Sarsa(λ) and Q(λ).
//
// A Tabular learner updates a table.Table of action values in place
// from transitions (state, action, reward, nextState) supplied by the
// caller. Credit is propagated backwards along the trajectory with
// eligibility traces, which are reset whenever a transition does not
// start in the state the previous transition ended in.
package tabular

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/tabularq/agent"
	"github.com/samuelfneumann/tabularq/policy"
	"github.com/samuelfneumann/tabularq/table"
	"github.com/samuelfneumann/tabularq/trace"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/rand"
)

// Algorithm determines which next action bootstraps the TD target
type Algorithm string

const (
	// QLearning bootstraps off the greedy action
	QLearning Algorithm = "QLearning"

	// Sarsa bootstraps off the action taken by the behaviour policy
	Sarsa Algorithm = "Sarsa"
)

// Validate returns an error if a is not a known Algorithm
func (a Algorithm) Validate() error {
	switch a {
	case QLearning, Sarsa:
		return nil
	}
	return fmt.Errorf("no such algorithm %q", a)
}

// StepSize determines the step size applied to each eligible pair
type StepSize string

const (
	// FixedStepSize uses Alpha for every pair
	FixedStepSize StepSize = "Fixed"

	// AdaptiveStepSize uses (1 - Alpha)^(1 / π(s, a)) for pair (s, a),
	// where π is the softmax policy at the current temperature. The
	// policy is recomputed over the whole table on every update, which
	// costs O(states × actions) per step.
	AdaptiveStepSize StepSize = "Adaptive"
)

// Validate returns an error if s is not a known StepSize
func (s StepSize) Validate() error {
	switch s {
	case FixedStepSize, AdaptiveStepSize:
		return nil
	}
	return fmt.Errorf("no such step size %q", s)
}

// Tabular implements tabular Sarsa(λ) and Q(λ) with replacing or
// accumulating eligibility traces.
//
// The embedded Hyperparameters may be changed at any time between
// calls. Tabular performs no locking; calls must be serialized by the
// caller.
type Tabular struct {
	Hyperparameters

	// Workers is the number of concurrent tasks used to propagate
	// dense traces
	Workers int

	algorithm  Algorithm
	traceType  trace.Type
	policyType policy.Type
	stepSize   StepSize

	cacheGreedy bool

	table  *table.Table
	traces trace.Store // nil if traceType is trace.None
	policy *policy.Selector

	// probs caches the softmax policy for the adaptive step size
	probs *table.Table

	currentState  int
	updates       int
	pruneInterval int

	log logrus.FieldLogger
}

// New returns a new Tabular learner which updates the values in t.
// The learner does not copy t. All randomness is drawn from src.
//
// States added to t with AddState after New returns may be used in
// later calls with any trace storage.
func New(t *table.Table, c Config, src rand.Source) (*Tabular, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("new: invalid config: %v", err)
	}
	if t == nil || t.StateCount() == 0 {
		return nil, fmt.Errorf("new: table must have at least one state")
	}
	if src == nil {
		return nil, fmt.Errorf("new: source cannot be nil")
	}

	var traces trace.Store
	if c.Trace != trace.None {
		var err error
		traces, err = trace.New(c.Storage, t)
		if err != nil {
			return nil, fmt.Errorf("new: %v", err)
		}
	}

	selector := policy.NewSelector(t, src)
	if c.CacheGreedy {
		selector.EnableCache()
	}

	q := &Tabular{
		Hyperparameters: c.Hyperparameters,
		Workers:         c.Workers,
		algorithm:       c.Algorithm,
		traceType:       c.Trace,
		policyType:      c.Policy,
		stepSize:        c.StepSize,
		cacheGreedy:     c.CacheGreedy,
		table:           t,
		traces:          traces,
		policy:          selector,
		pruneInterval:   trace.DefaultPruneInterval,
		log: logrus.StandardLogger().WithField("agent",
			agent.TabularTD),
	}
	return q, nil
}

// SetLogger sets the logger used to report trace resets and prunes
func (q *Tabular) SetLogger(l logrus.FieldLogger) {
	q.log = l
}

// Reset starts a new trajectory in state and clears all traces
func (q *Tabular) Reset(state int) error {
	if err := q.table.CheckState(state); err != nil {
		return fmt.Errorf("reset: %w", err)
	}

	q.currentState = state
	if q.traces != nil {
		q.traces.Reset()
	}
	return nil
}

// Step updates the action values on the transition
// (state, action, reward, nextState) and returns the action the
// behaviour policy takes in nextState.
//
// If state is not the state the previous transition ended in, all
// traces are cleared before updating. Non-finite rewards and values
// are not checked and propagate into the table.
//
// Updates are not atomic. If the parallel dense sweep (Workers > 1)
// returns an error, the table and traces are left partly updated and
// the current state is not advanced.
func (q *Tabular) Step(state, action int, reward float64,
	nextState int) (int, error) {
	if err := q.table.Check(state, action); err != nil {
		return -1, fmt.Errorf("step: %w", err)
	}
	if err := q.table.CheckState(nextState); err != nil {
		return -1, fmt.Errorf("step: next state: %w", err)
	}

	if state != q.currentState && q.traces != nil {
		q.log.WithFields(logrus.Fields{
			"state":   state,
			"current": q.currentState,
		}).Debug("trajectory discontinuity, resetting traces")
		q.traces.Reset()
	}

	greedyAction := q.policy.Greedy(nextState)
	behaviourAction := q.policy.Select(q.policyType, nextState, q.Epsilon,
		q.Temperature, greedyAction)

	updateAction := behaviourAction
	if q.algorithm == QLearning {
		updateAction = greedyAction
	}

	target := reward + q.Gamma*q.table.At(nextState, updateAction)
	delta := target - q.table.At(state, action)

	// Traces are cut when the target policy departs from the behaviour
	// policy
	decay := 0.0
	if updateAction == behaviourAction {
		decay = q.Gamma * q.Lambda
	}

	if q.traces != nil {
		q.traceType.Visit(q.traces, state, action)
	}
	if err := q.update(state, action, delta, decay); err != nil {
		return -1, fmt.Errorf("step: %v", err)
	}

	q.currentState = nextState
	return behaviourAction, nil
}

// Reward adds reward to the value of (state, action) and, if traces
// are enabled, credits every eligible pair in proportion to its trace.
// Traces are neither decayed nor visited.
func (q *Tabular) Reward(state, action int, reward float64) error {
	if err := q.table.Check(state, action); err != nil {
		return fmt.Errorf("reward: %w", err)
	}
	if err := q.update(state, action, reward, 1.0); err != nil {
		return fmt.Errorf("reward: %v", err)
	}
	return nil
}

// update applies delta to the action values, weighted by the step size
// and the traces, then decays the traces
func (q *Tabular) update(state, action int, delta, decay float64) error {
	stepSize := q.stepSizes()

	if q.traces == nil {
		q.table.Add(state, action, stepSize(state, action)*delta)
		q.policy.Invalidate(state)
		return nil
	}

	if q.cacheGreedy {
		q.traces.ForEach(func(s, _ int, _ float64) {
			q.policy.Invalidate(s)
		})
	}

	propagate := func(s, a int, e float64) float64 {
		q.table.Row(s)[a] += stepSize(s, a) * delta * e
		return e * decay
	}
	if dense, ok := q.traces.(*trace.Dense); ok && q.Workers > 1 {
		if err := dense.UpdateParallel(q.Workers, propagate); err != nil {
			return err
		}
	} else {
		q.traces.Update(propagate)
	}

	q.updates++
	if q.updates%q.pruneInterval == 0 {
		if n := q.traces.Prune(q.TraceThreshold); n > 0 {
			q.log.WithFields(logrus.Fields{
				"pruned":    n,
				"remaining": q.traces.Len(),
			}).Debug("pruned traces")
		}
	}
	return nil
}

// stepSizes returns the step size of each (state, action) pair for the
// current update
func (q *Tabular) stepSizes() func(state, action int) float64 {
	alpha := q.Alpha
	if q.stepSize != AdaptiveStepSize {
		return func(int, int) float64 { return alpha }
	}

	if q.probs == nil || q.probs.StateCount() != q.table.StateCount() {
		q.probs = table.NewLike(q.table)
	}
	q.policy.Probabilities(q.probs, q.Temperature)

	probs := q.probs
	return func(s, a int) float64 {
		return math.Pow(1-alpha, 1/probs.Row(s)[a])
	}
}

// GreedyAction returns the action with the highest value in state
func (q *Tabular) GreedyAction(state int) (int, error) {
	if err := q.table.CheckState(state); err != nil {
		return -1, fmt.Errorf("greedyAction: %w", err)
	}
	return q.policy.Greedy(state), nil
}

// PolicyAction returns an action selected by the behaviour policy in
// state
func (q *Tabular) PolicyAction(state int) (int, error) {
	if err := q.table.CheckState(state); err != nil {
		return -1, fmt.Errorf("policyAction: %w", err)
	}
	return q.policy.Select(q.policyType, state, q.Epsilon, q.Temperature,
		-1), nil
}

// PolicyProbability returns the probability that the behaviour policy
// selects action in state
func (q *Tabular) PolicyProbability(state, action int) (float64, error) {
	if err := q.table.Check(state, action); err != nil {
		return 0, fmt.Errorf("policyProbability: %w", err)
	}
	return q.policy.BehaviourProbability(q.policyType, state, action,
		q.Epsilon, q.Temperature), nil
}

// CurrentState returns the state the next transition is expected to
// start from
func (q *Tabular) CurrentState() int {
	return q.currentState
}

// StateCount returns the number of states in the value table
func (q *Tabular) StateCount() int {
	return q.table.StateCount()
}

// ActionCount returns the number of actions in state
func (q *Tabular) ActionCount(state int) (int, error) {
	if err := q.table.CheckState(state); err != nil {
		return 0, fmt.Errorf("actionCount: %w", err)
	}
	return q.table.ActionCount(state), nil
}

// Table returns the value table. Writes made directly to the table
// while the greedy cache is enabled must be followed by Invalidate.
func (q *Tabular) Table() *table.Table {
	return q.table
}

// Set sets the value of (state, action)
func (q *Tabular) Set(state, action int, value float64) error {
	if err := q.table.Check(state, action); err != nil {
		return fmt.Errorf("set: %w", err)
	}
	q.table.Set(state, action, value)
	q.policy.Invalidate(state)
	return nil
}

// Invalidate forgets any memoized greedy actions. It must be called
// after writing to the table directly while the greedy cache is
// enabled.
func (q *Tabular) Invalidate() {
	q.policy.InvalidateAll()
}

// Traces returns the eligibility traces, or nil if traces are disabled
func (q *Tabular) Traces() trace.Store {
	return q.traces
}

// Algorithm returns the learning algorithm
func (q *Tabular) Algorithm() Algorithm {
	return q.algorithm
}
