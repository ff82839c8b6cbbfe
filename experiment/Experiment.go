// Package experiment implements functionality for running an experiment
package experiment

import (
	"fmt"

	"github.com/samuelfneumann/tabularq/agent"
	"github.com/samuelfneumann/tabularq/environment"
	"github.com/samuelfneumann/tabularq/environment/envconfig"
	"github.com/samuelfneumann/tabularq/experiment/checkpointer"
	"github.com/samuelfneumann/tabularq/experiment/tracker"
	"github.com/samuelfneumann/tabularq/table"
	ts "github.com/samuelfneumann/tabularq/timestep"
	"golang.org/x/exp/rand"
)

// Interface Experiment outlines structs that can run experiments.
// Experiments will track environment TimeSteps, caching each TimeStep
// in RAM to be later saved to disk. The Save() function will then
// take all cached data and save it to disk. This is usually performed
// after an experiment has been run. The Run() method will run all
// episodes until the maximum timestep limit is reached, or some other
// ending condition is reached. The RunEpisode() function will run a
// single episode.
//
// In order to save data, Experiments use Trackers. Trackers determine
// which data generated during the experiment is saved. Experiments will
// send each TimeStep to Trackers using the Tracker's Track() method.
// New Trackers can be registered with an Experiment through the
// constructor or through an Experiment's Register() function.
type Experiment interface {
	Run() error
	RunEpisode() (bool, error) // Returns whether the step limit was reached

	// Save all tracked data to disk
	Save() error

	// Adds a new tracker.Tracker to the (possibly already running)
	// experiment. Useful if you want to track data only after a
	// specified event.
	Register(t tracker.Tracker)

	// Tracks current timestep by sending it to Trackers
	track(ts.TimeStep)

	// Saves the current state of all agents
	checkpoint(ts.TimeStep) error
}

// Type is the type of an Experiment
type Type string

const (
	OnlineExp Type = "OnlineExperiment"
)

// Config represents a configuration of an experiment.
type Config struct {
	Type
	MaxSteps  uint
	EnvConf   envconfig.Config
	AgentConf agent.TypedConfigList
}

// CreateExp creates the experiment running the i-th agent Config of
// c.AgentConf. The environment and agent are seeded with seed. The
// value table learned by the agent is returned so that it can be
// checkpointed or inspected.
func (c Config) CreateExp(i int, seed uint64, t []tracker.Tracker,
	check ...func(*table.Table) (checkpointer.Checkpointer,
		error)) (Experiment, *table.Table, error) {
	env, _, err := c.EnvConf.Create(seed)
	if err != nil {
		return nil, nil, fmt.Errorf("createExp: could not create "+
			"environment: %v", err)
	}

	values := environment.NewTable(env)
	agentConf := c.AgentConf.At(i)
	a, err := agentConf.CreateAgent(values, rand.NewSource(seed))
	if err != nil {
		return nil, nil, fmt.Errorf("createExp: could not create agent: %v",
			err)
	}

	checkpointers := make([]checkpointer.Checkpointer, 0, len(check))
	for _, newCheckpointer := range check {
		cp, err := newCheckpointer(values)
		if err != nil {
			return nil, nil, fmt.Errorf("createExp: could not create "+
				"checkpointer: %v", err)
		}
		checkpointers = append(checkpointers, cp)
	}

	switch c.Type {
	case OnlineExp:
		return NewOnline(env, a, c.MaxSteps, t, checkpointers), values, nil
	}

	return nil, nil, fmt.Errorf("createExp: no such experiment type %v",
		c.Type)
}
