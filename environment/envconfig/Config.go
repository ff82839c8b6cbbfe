// Package envconfig provides configuration structs for configuring
// environments with default parameters and tasks. Environment
// configurations in this package are JSON serializable.
package envconfig

import (
	"fmt"

	env "github.com/samuelfneumann/tabularq/environment"
	"github.com/samuelfneumann/tabularq/environment/chain"
	"github.com/samuelfneumann/tabularq/environment/gridworld"
	ts "github.com/samuelfneumann/tabularq/timestep"
)

// EnvName stores the name of environments that can be configured with
// this package
type EnvName string

// Environments available for configuration
const (
	Chain     EnvName = "Chain"
	GridWorld EnvName = "GridWorld"
)

// Default rewards of the GridWorld goal task
const (
	TimeStepReward float64 = -1.0
	GoalReward     float64 = 0.0
)

// Config implements a specific configuration of a specific environment.
//
// For a Chain, Rows is the number of states and Cols the number of
// actions. For a GridWorld, the agent starts in the bottom left corner
// and the goal is the top right corner.
type Config struct {
	Environment   EnvName
	Rows          int
	Cols          int
	EpisodeCutoff int
}

// NewConfig returns a new environment Config
func NewConfig(envName EnvName, rows, cols, episodeCutoff int) Config {
	return Config{
		Environment:   envName,
		Rows:          rows,
		Cols:          cols,
		EpisodeCutoff: episodeCutoff,
	}
}

// DefaultChain returns the Config of the default Chain
func DefaultChain() Config {
	return NewConfig(Chain, chain.States, chain.Actions, 0)
}

// Create returns the environment described by the Config as well as
// the first timestep of the environment.
func (c Config) Create(seed uint64) (env.Environment, ts.TimeStep, error) {
	switch c.Environment {
	case Chain:
		return CreateChain(c.Rows, c.Cols, seed)

	case GridWorld:
		return CreateGridWorld(c.Rows, c.Cols, c.EpisodeCutoff)
	}

	return nil, ts.TimeStep{}, fmt.Errorf("create: cannot create "+
		"environment %v, no such environment", c.Environment)
}

// CreateChain is a factory for creating the Chain environment with the
// default number of rewarding actions
func CreateChain(states, actions int, seed uint64) (env.Environment,
	ts.TimeStep, error) {
	rewarding := chain.Rewarding
	if actions < rewarding {
		rewarding = actions
	}
	c, step, err := chain.New(states, actions, rewarding, seed)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("createChain: %v", err)
	}
	return c, step, nil
}

// CreateGridWorld is a factory for creating the GridWorld environment
// with the default goal task
func CreateGridWorld(rows, cols, cutoff int) (env.Environment,
	ts.TimeStep, error) {
	task, err := gridworld.NewGoal(env.SingleStart(0), []int{cols - 1},
		[]int{rows - 1}, rows, cols, cutoff, TimeStepReward, GoalReward)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("createGridWorld: %v", err)
	}
	g, step, err := gridworld.New(rows, cols, task)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("createGridWorld: %v", err)
	}
	return g, step, nil
}
