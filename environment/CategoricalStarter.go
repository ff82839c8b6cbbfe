package environment

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// CategoricalStarter returns starting states sampled from a categorical
// distribution over the states (0, 1, 2, ... N-1)
type CategoricalStarter struct {
	rand distuv.Categorical
}

// NewCategoricalStarter returns a new CategoricalStarter sampling state
// i with probability proportional to weights[i]
func NewCategoricalStarter(weights []float64,
	seed uint64) (*CategoricalStarter, error) {
	if len(weights) == 0 {
		return nil, fmt.Errorf("newCategoricalStarter: no states to start in")
	}
	total := 0.0
	for i, w := range weights {
		if w < 0 {
			return nil, fmt.Errorf("newCategoricalStarter: weight %d is "+
				"negative: %v", i, w)
		}
		total += w
	}
	if total == 0 {
		return nil, fmt.Errorf("newCategoricalStarter: weights sum to 0")
	}

	source := rand.NewSource(seed)
	return &CategoricalStarter{distuv.NewCategorical(weights, source)}, nil
}

// NewUniformStarter returns a CategoricalStarter that samples each of
// the argument states uniformly out of a total of n states
func NewUniformStarter(n int, states []int,
	seed uint64) (*CategoricalStarter, error) {
	weights := make([]float64, n)
	for _, s := range states {
		if s < 0 || s >= n {
			return nil, fmt.Errorf("newUniformStarter: state %d out of "+
				"range [0, %d)", s, n)
		}
		weights[s] = 1
	}
	return NewCategoricalStarter(weights, seed)
}

// Start returns a starting state
func (c *CategoricalStarter) Start() int {
	return int(c.rand.Rand())
}

// SingleStart always starts in the same state
type SingleStart int

// Start returns the starting state
func (s SingleStart) Start() int {
	return int(s)
}
