// Package gridworld implements 2D gridworld environments
package gridworld

import (
	"fmt"

	"github.com/samuelfneumann/tabularq/environment"
	"github.com/samuelfneumann/tabularq/timestep"
	"github.com/samuelfneumann/tabularq/utils/matutils"
	"gonum.org/v1/gonum/mat"
)

// Actions available in a GridWorld
const (
	Left int = iota
	Right
	Up
	Down

	Actions = 4
)

// GridWorld represents a gridworld environment
//
// A gridworld is represented as a flattened matrix, but in this
// implementation only the matrix dimensions and current agent position
// are tracked. Position (x, y) is state y*cols + x.
type GridWorld struct {
	environment.Task
	r, c        int
	position    int
	currentStep timestep.TimeStep
}

// New creates a new gridworld with r rows and c columns and task t
func New(r, c int, t environment.Task) (*GridWorld, timestep.TimeStep,
	error) {
	if r < 1 || c < 1 {
		return nil, timestep.TimeStep{}, fmt.Errorf("new: gridworld must "+
			"have positive dimensions, have (%d, %d)", r, c)
	}

	g := &GridWorld{Task: t, r: r, c: c}
	step, err := g.Reset()
	if err != nil {
		return nil, timestep.TimeStep{}, fmt.Errorf("new: %v", err)
	}
	return g, step, nil
}

// Dims gets the rows and columns of the GridWorld
func (g *GridWorld) Dims() (r, c int) {
	return g.r, g.c
}

// At checks the value at position (i, j) in the gridworld. A value of
// 1.0 indicates that the agent is at position (i, j).
func (g *GridWorld) At(i, j int) float64 {
	if (i*g.c)+j == g.position {
		return 1.0
	}
	return 0.0
}

// T returns the transpose of the GridWorld viewed as a matrix
func (g *GridWorld) T() mat.Matrix {
	return mat.Transpose{Matrix: g}
}

// Render returns the GridWorld as a formatted one-hot matrix
func (g *GridWorld) Render() string {
	return matutils.Format(g)
}

// StateCount returns the number of cells in the GridWorld
func (g *GridWorld) StateCount() int {
	return g.r * g.c
}

// ActionCount returns the number of actions in each cell
func (g *GridWorld) ActionCount(int) int {
	return Actions
}

// Reset resets the GridWorld to a starting position
func (g *GridWorld) Reset() (timestep.TimeStep, error) {
	start := g.Start()
	if start < 0 || start >= g.StateCount() {
		return timestep.TimeStep{}, fmt.Errorf("reset: start state %d out "+
			"of range [0, %d)", start, g.StateCount())
	}
	g.position = start

	g.currentStep = timestep.New(timestep.First, 0, start, 0)
	return g.currentStep, nil
}

// Step takes one step in the GridWorld. Moving into a wall leaves the
// position unchanged.
func (g *GridWorld) Step(action int) (timestep.TimeStep, bool, error) {
	if action < 0 || action >= Actions {
		return timestep.TimeStep{}, false, fmt.Errorf("step: no such "+
			"action %d", action)
	}

	state := g.position
	g.position = g.move(state, action)

	reward := g.GetReward(state, action, g.position)
	step := timestep.New(timestep.Mid, reward, g.position,
		g.currentStep.Number+1)

	// Check if this transition ends the episode
	last := g.End(&step)

	g.currentStep = step
	return step, last, nil
}

// LastTimeStep returns the last TimeStep in the GridWorld
func (g *GridWorld) LastTimeStep() timestep.TimeStep {
	return g.currentStep
}

// move returns the state reached by taking action in state
func (g *GridWorld) move(state, action int) int {
	x, y := toCoordinates(state, g.c)

	switch action {
	case Left:
		if x > 0 {
			x--
		}

	case Right:
		if x < g.c-1 {
			x++
		}

	case Up:
		if y < g.r-1 {
			y++
		}

	case Down:
		if y > 0 {
			y--
		}
	}
	return toState(x, y, g.c)
}

// Coordinates returns the (x, y) coordinates of the current position
func (g *GridWorld) Coordinates() (int, int) {
	return toCoordinates(g.position, g.c)
}

func (g *GridWorld) String() string {
	str := "GridWorld | At: %v  |   Goal: %v  |  Bounds: (%d, %d)"
	x, y := g.Coordinates()
	position := fmt.Sprintf("(%d, %d)", x, y)

	return fmt.Sprintf(str, position, g.Task, g.r, g.c)
}

func toState(x, y, c int) int {
	return y*c + x
}

func toCoordinates(state, c int) (int, int) {
	y := state / c
	x := state - (y * c)
	return x, y
}
