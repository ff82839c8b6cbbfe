// Package environment outlines the interfaces and structs needed to
// implement concrete environments with a finite number of integer
// states and actions
package environment

import (
	"github.com/samuelfneumann/tabularq/table"
	"github.com/samuelfneumann/tabularq/timestep"
)

// Starter implements a distribution of starting states and samples
// starting states for environments
type Starter interface {
	Start() int
}

// Ender determines when episodes end. If End returns true, it has
// set the StepType of the argument TimeStep to timestep.Last.
type Ender interface {
	End(*timestep.TimeStep) bool
}

// Task implements the reward scheme for taking actions in some
// environment
type Task interface {
	Starter
	Ender

	// GetReward returns the reward for taking action in state and
	// transitioning to next
	GetReward(state, action, next int) float64

	// AtGoal returns whether state is a goal state
	AtGoal(state int) bool
}

// Environment implements a simulated environment over states
// 0, 1, ..., StateCount()-1
type Environment interface {
	// Reset resets the environment between episodes
	Reset() (timestep.TimeStep, error)

	// Step takes action in the current state and returns the next
	// TimeStep, as well as whether the episode has ended
	Step(action int) (timestep.TimeStep, bool, error)

	// LastTimeStep returns the most recent TimeStep
	LastTimeStep() timestep.TimeStep

	StateCount() int
	ActionCount(state int) int
}

// NewTable returns a zeroed value table shaped for e
func NewTable(e Environment) *table.Table {
	actions := make([]int, e.StateCount())
	for s := range actions {
		actions[s] = e.ActionCount(s)
	}
	return table.NewJagged(actions)
}
