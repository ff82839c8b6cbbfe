package gridworld

import (
	"fmt"

	"github.com/samuelfneumann/tabularq/environment"
	"github.com/samuelfneumann/tabularq/timestep"
	"github.com/samuelfneumann/tabularq/utils/matutils"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Goal represents the task of reaching goal states in a GridWorld
type Goal struct {
	environment.Starter
	stepLimit environment.StepLimit

	goals          map[int]bool
	coords         *mat.Dense // (x, y) of each goal, one per row
	c              int
	timeStepReward float64
	goalReward     float64
}

// NewGoal creates and returns a new task with goals at positions
// (x[i], y[i]), given that the gridworld has r rows and c columns.
// Episodes are cut off after cutoff steps if cutoff is positive.
func NewGoal(s environment.Starter, x, y []int, r, c, cutoff int, tr,
	gr float64) (*Goal, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("newGoal: x length (%d) != y length (%d)",
			len(x), len(y))
	}
	if len(x) == 0 {
		return nil, fmt.Errorf("newGoal: at least one goal required")
	}

	goals := make(map[int]bool, len(x))
	coords := mat.NewDense(len(x), 2, nil)
	for i := range x {
		// Ensure that the goal is within the proper bounds
		if x[i] < 0 || x[i] >= c {
			return nil, fmt.Errorf("newGoal: x[%d] = %d out of range [0, %d)",
				i, x[i], c)
		} else if y[i] < 0 || y[i] >= r {
			return nil, fmt.Errorf("newGoal: y[%d] = %d out of range [0, %d)",
				i, y[i], r)
		}

		goals[toState(x[i], y[i], c)] = true
		coords.Set(i, 0, float64(x[i]))
		coords.Set(i, 1, float64(y[i]))
	}

	return &Goal{
		Starter:        s,
		stepLimit:      environment.NewStepLimit(cutoff),
		goals:          goals,
		coords:         coords,
		c:              c,
		timeStepReward: tr,
		goalReward:     gr,
	}, nil
}

// GetReward returns the reward for moving from state to next
func (g *Goal) GetReward(_, _, next int) float64 {
	if g.AtGoal(next) {
		return g.goalReward
	}
	return g.timeStepReward
}

// AtGoal represents if the goal state has been reached or not
func (g *Goal) AtGoal(state int) bool {
	return g.goals[state]
}

// End ends the episode when a goal is reached or the step limit is
// exceeded
func (g *Goal) End(t *timestep.TimeStep) bool {
	if g.AtGoal(t.State) {
		t.StepType = timestep.Last
		return true
	}
	return g.stepLimit.End(t)
}

// String returns the Goal as a string
func (g *Goal) String() string {
	return matutils.Format(g.coords)
}

// Min returns the minimum reward attainable in the Task
func (g *Goal) Min() float64 {
	rewards := []float64{g.timeStepReward, g.goalReward}
	return floats.Min(rewards)
}

// Max returns the maximum reward attainable in the Task
func (g *Goal) Max() float64 {
	rewards := []float64{g.timeStepReward, g.goalReward}
	return floats.Max(rewards)
}
