// Package agent defines the interfaces of tabular agents and their
// configurations
package agent

// Agent determines the implementation details of an agent or algorithm
//
// An Agent is composed of a Learner, which learns action values, and a
// Policy which chooses actions in each state. The Policy chooses which
// actions are taken, and the Learner uses these actions to update the
// action values. The Learner and Policy of an Agent share the same
// value table so that any changes the Learner makes are reflected in
// the actions the Policy chooses.
type Agent interface {
	Learner
	Policy
}

// Learner implements a learning algorithm that defines how action
// values are updated.
//
// States and actions are integer indices into a value table. Index
// errors are returned, never clamped.
type Learner interface {
	// Step performs a single update on the transition
	// (state, action, reward, nextState) and returns the action the
	// behaviour policy takes in nextState
	Step(state, action int, reward float64, nextState int) (int, error)

	// Reward credits reward to (state, action) and every pair still
	// eligible for credit, without discounting or bootstrapping
	Reward(state, action int, reward float64) error

	// Reset starts a new trajectory in state
	Reset(state int) error

	// CurrentState returns the state the Learner expects the next
	// transition to start from
	CurrentState() int
}

// Policy represents a policy that an agent can have.
//
// Policies determine how agents select actions. Agents usually have a
// target and behaviour policy.
type Policy interface {
	GreedyAction(state int) (int, error)
	PolicyAction(state int) (int, error)
	PolicyProbability(state, action int) (float64, error)
}
