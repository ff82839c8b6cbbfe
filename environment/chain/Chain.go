// Package chain implements a deterministic chain environment.
//
// The agent starts in state 0 and every action moves it to the next
// state. Each state has a single rewarding action, drawn uniformly at
// random from its first Rewarding actions when the chain is created.
// Taking the rewarding action gives a reward of 1, any other action
// gives 0. The episode ends when the last state is reached.
package chain

import (
	"fmt"

	"github.com/samuelfneumann/tabularq/timestep"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Default chain dimensions
const (
	States    = 720
	Actions   = 3
	Rewarding = 2
)

// Chain is a chain environment
type Chain struct {
	rewards     *mat.Dense
	rewarding   []int
	position    int
	currentStep timestep.TimeStep
}

// New returns a new Chain with the given number of states and actions.
// The rewarding action of each state is sampled from the first
// rewarding actions using a source seeded with seed.
func New(states, actions, rewarding int, seed uint64) (*Chain,
	timestep.TimeStep, error) {
	if states < 2 {
		return nil, timestep.TimeStep{}, fmt.Errorf("new: chain needs at "+
			"least 2 states, have %d", states)
	}
	if rewarding < 1 || rewarding > actions {
		return nil, timestep.TimeStep{}, fmt.Errorf("new: rewarding actions "+
			"must be in [1, %d], have %d", actions, rewarding)
	}

	weights := make([]float64, actions)
	for a := 0; a < rewarding; a++ {
		weights[a] = 1
	}
	dist := distuv.NewCategorical(weights, rand.NewSource(seed))

	c := &Chain{
		rewards:   mat.NewDense(states, actions, nil),
		rewarding: make([]int, states),
	}
	for s := 0; s < states; s++ {
		a := int(dist.Rand())
		c.rewarding[s] = a
		c.rewards.Set(s, a, 1)
	}

	step, err := c.Reset()
	return c, step, err
}

// Reset moves the agent back to state 0
func (c *Chain) Reset() (timestep.TimeStep, error) {
	c.position = 0
	c.currentStep = timestep.New(timestep.First, 0, 0, 0)
	return c.currentStep, nil
}

// Step takes action in the current state and moves to the next state
func (c *Chain) Step(action int) (timestep.TimeStep, bool, error) {
	if c.currentStep.Last() {
		return timestep.TimeStep{}, true, fmt.Errorf("step: episode has " +
			"ended, call Reset")
	}
	if action < 0 || action >= c.ActionCount(c.position) {
		return timestep.TimeStep{}, false, fmt.Errorf("step: no such "+
			"action %d", action)
	}

	reward := c.rewards.At(c.position, action)
	c.position++

	stepType := timestep.Mid
	if c.position == c.StateCount()-1 {
		stepType = timestep.Last
	}
	c.currentStep = timestep.New(stepType, reward, c.position,
		c.currentStep.Number+1)

	return c.currentStep, c.currentStep.Last(), nil
}

// LastTimeStep returns the most recent TimeStep
func (c *Chain) LastTimeStep() timestep.TimeStep {
	return c.currentStep
}

// StateCount returns the number of states in the chain
func (c *Chain) StateCount() int {
	r, _ := c.rewards.Dims()
	return r
}

// ActionCount returns the number of actions in each state
func (c *Chain) ActionCount(int) int {
	_, a := c.rewards.Dims()
	return a
}

// RewardingAction returns the rewarding action of state
func (c *Chain) RewardingAction(state int) int {
	return c.rewarding[state]
}

func (c *Chain) String() string {
	return fmt.Sprintf("Chain | At: %d  |  States: %d  |  Actions: %d",
		c.position, c.StateCount(), c.ActionCount(0))
}
