package tabular

import (
	"fmt"
	"reflect"

	"github.com/samuelfneumann/tabularq/agent"
	"github.com/samuelfneumann/tabularq/policy"
	"github.com/samuelfneumann/tabularq/table"
	"github.com/samuelfneumann/tabularq/trace"
	"golang.org/x/exp/rand"
)

func init() {
	// Register ConfigList type so that it can be typed using
	// agent.TypedConfigList to help with serialization/deserialization.
	agent.Register(agent.TabularTD, ConfigList{})
}

// Hyperparameters are the scalar settings of a Tabular learner. They
// may be changed between calls, for example to anneal ε over an
// experiment, and are read at the start of every operation.
type Hyperparameters struct {
	Gamma       float64 // discount factor
	Lambda      float64 // trace decay
	Alpha       float64 // step size
	Epsilon     float64 // probability of a uniformly random action
	Temperature float64 // softmax temperature

	// TraceThreshold is the magnitude below which sparse traces are
	// pruned
	TraceThreshold float64
}

// DefaultHyperparameters returns the default hyperparameters
func DefaultHyperparameters() Hyperparameters {
	return Hyperparameters{
		Gamma:          0.99,
		Lambda:         0.99,
		Alpha:          0.01,
		Epsilon:        0.01,
		Temperature:    0.1,
		TraceThreshold: trace.DefaultThreshold,
	}
}

// Validate returns an error if any hyperparameter is out of range
func (h Hyperparameters) Validate() error {
	unit := []struct {
		name  string
		value float64
	}{
		{"gamma", h.Gamma},
		{"lambda", h.Lambda},
		{"alpha", h.Alpha},
		{"epsilon", h.Epsilon},
	}
	for _, u := range unit {
		if u.value < 0 || u.value > 1 {
			return fmt.Errorf("%v must be in [0, 1], have %v", u.name, u.value)
		}
	}
	if h.TraceThreshold < 0 {
		return fmt.Errorf("trace threshold cannot be negative, have %v",
			h.TraceThreshold)
	}
	return nil
}

// ConfigList implements functionality for storing a number of Config's
// in a simple manner. Instead of storing a slice of Configs, the
// ConfigList stores each field's values and constructs the list by
// every combination of field values.
type ConfigList struct {
	Algorithm []Algorithm
	Trace     []trace.Type
	Storage   []trace.Storage
	Policy    []policy.Type
	StepSize  []StepSize

	Gamma          []float64
	Lambda         []float64
	Alpha          []float64
	Epsilon        []float64
	Temperature    []float64
	TraceThreshold []float64

	Workers     []int
	CacheGreedy []bool
}

// NewConfigList returns a ConfigList holding the single Config c, as
// an agent.TypedConfigList so that it can easily be JSON
// serialized/deserialized without knowing the underlying concrete
// type. Fields of the returned list may then be extended to sweep
// over more values.
func NewConfigList(c Config) agent.TypedConfigList {
	list := ConfigList{
		Algorithm:      []Algorithm{c.Algorithm},
		Trace:          []trace.Type{c.Trace},
		Storage:        []trace.Storage{c.Storage},
		Policy:         []policy.Type{c.Policy},
		StepSize:       []StepSize{c.StepSize},
		Gamma:          []float64{c.Gamma},
		Lambda:         []float64{c.Lambda},
		Alpha:          []float64{c.Alpha},
		Epsilon:        []float64{c.Epsilon},
		Temperature:    []float64{c.Temperature},
		TraceThreshold: []float64{c.TraceThreshold},
		Workers:        []int{c.Workers},
		CacheGreedy:    []bool{c.CacheGreedy},
	}
	return agent.NewTypedConfigList(list)
}

// Config returns an empty Config that is of the type stored by
// ConfigList
func (c ConfigList) Config() agent.Config {
	return Config{}
}

// Type returns the type of agent that can be constructed by Config's
// stored by the list
func (c ConfigList) Type() agent.Type {
	return c.Config().Type()
}

// NumFields returns the number of settable fields for the ConfigList
func (c ConfigList) NumFields() int {
	rValue := reflect.ValueOf(c)
	return rValue.NumField()
}

// Len returns the number of Configs stored by the list
func (c ConfigList) Len() int {
	rValue := reflect.ValueOf(c)

	n := 1
	for i := 0; i < rValue.NumField(); i++ {
		n *= rValue.Field(i).Len()
	}
	return n
}

// Config represents a configuration for the Tabular agent
type Config struct {
	Algorithm Algorithm
	Trace     trace.Type
	Storage   trace.Storage // ignored if Trace is trace.None
	Policy    policy.Type
	StepSize  StepSize

	Hyperparameters

	// Workers is the number of concurrent tasks used to propagate
	// dense traces. Values below 2 propagate sequentially.
	Workers int

	// CacheGreedy enables memoization of the greedy action per state
	CacheGreedy bool
}

// DefaultConfig returns a Q(λ) configuration with replacing sparse
// traces, an ε-greedy behaviour policy, a fixed step size, and the
// default hyperparameters
func DefaultConfig() Config {
	return Config{
		Algorithm:       QLearning,
		Trace:           trace.Replacing,
		Storage:         trace.SparseStorage,
		Policy:          policy.EGreedy,
		StepSize:        FixedStepSize,
		Hyperparameters: DefaultHyperparameters(),
	}
}

// CreateAgent creates the agent from the Config, learning the values
// stored in t
func (c Config) CreateAgent(t *table.Table, src rand.Source) (agent.Agent,
	error) {
	return New(t, c, src)
}

// ValidAgent returns whether the argument agent is a valid agent for
// construction with the Config
func (c Config) ValidAgent(a agent.Agent) bool {
	_, ok := a.(*Tabular)
	return ok
}

// Validate ensures that the Config is valid
func (c Config) Validate() error {
	if err := c.Algorithm.Validate(); err != nil {
		return err
	}
	if err := c.Trace.Validate(); err != nil {
		return err
	}
	if c.Trace != trace.None {
		if c.Storage != trace.DenseStorage && c.Storage != trace.SparseStorage {
			return fmt.Errorf("no such trace storage %q", c.Storage)
		}
	}
	if err := c.Policy.Validate(); err != nil {
		return err
	}
	if err := c.StepSize.Validate(); err != nil {
		return err
	}

	if err := c.Hyperparameters.Validate(); err != nil {
		return err
	}
	needsTemperature := c.Policy == policy.Softmax ||
		c.StepSize == AdaptiveStepSize
	if needsTemperature && c.Temperature <= 0 {
		return fmt.Errorf("temperature must be positive, have %v",
			c.Temperature)
	}

	if c.Workers < 0 {
		return fmt.Errorf("workers cannot be negative, have %d", c.Workers)
	}
	return nil
}

// Type returns the type of the agent constructed by the Config
func (c Config) Type() agent.Type {
	return agent.TabularTD
}
