package experiment

import (
	"fmt"

	"github.com/samuelfneumann/tabularq/agent"
	env "github.com/samuelfneumann/tabularq/environment"
	"github.com/samuelfneumann/tabularq/experiment/checkpointer"
	"github.com/samuelfneumann/tabularq/experiment/tracker"
	ts "github.com/samuelfneumann/tabularq/timestep"
)

// Online is an Experiment that runs an agent online only. No offline
// evaluation is performed.
type Online struct {
	env.Environment
	agent.Agent
	maxSteps      uint
	currentSteps  uint
	trackers      []tracker.Tracker
	checkpointers []checkpointer.Checkpointer
}

// NewOnline creates and returns a new online experiment on a given
// environment with a given agent. The steps parameter determines how
// many timesteps the experiment is run for, the t parameter is a slice
// of tracker.Tracker which determine what data is saved, and the c
// parameter determines when the agent's values are checkpointed.
func NewOnline(e env.Environment, a agent.Agent, steps uint,
	t []tracker.Tracker, c []checkpointer.Checkpointer) *Online {
	return &Online{
		Environment:   e,
		Agent:         a,
		maxSteps:      steps,
		trackers:      t,
		checkpointers: c,
	}
}

// Register registers a tracker.Tracker with an Experiment so that data
// generated during the experiment can be tracked and saved
func (o *Online) Register(t tracker.Tracker) {
	o.trackers = append(o.trackers, t)
}

// RunEpisode runs a single episode of the experiment and returns
// whether the maximum number of timesteps has been reached
func (o *Online) RunEpisode() (bool, error) {
	step, err := o.Environment.Reset()
	if err != nil {
		return false, fmt.Errorf("runEpisode: could not reset "+
			"environment: %v", err)
	}
	if err := o.Agent.Reset(step.State); err != nil {
		return false, fmt.Errorf("runEpisode: could not reset agent: %v", err)
	}
	o.track(step)

	action, err := o.Agent.PolicyAction(step.State)
	if err != nil {
		return false, fmt.Errorf("runEpisode: %v", err)
	}

	// Run the next timestep
	for !step.Last() && o.currentSteps < o.maxSteps {
		o.currentSteps++

		next, _, err := o.Environment.Step(action)
		if err != nil {
			return false, fmt.Errorf("runEpisode: %v", err)
		}

		// Cache the environment step in each Tracker
		o.track(next)

		// Learn from the transition, selecting the next action. The
		// target always bootstraps off next.State, including on the last
		// step. Episodes never leave a terminal state, so no transition
		// starts there and its row keeps its initial value of 0, making
		// the bootstrap term vanish. Steps cut off by a step limit
		// bootstrap as usual.
		action, err = o.Agent.Step(step.State, action, next.Reward,
			next.State)
		if err != nil {
			return false, fmt.Errorf("runEpisode: %v", err)
		}

		if err := o.checkpoint(next); err != nil {
			return false, fmt.Errorf("runEpisode: %v", err)
		}
		step = next
	}

	// Return whether or not the max timestep limit has been reached
	return o.currentSteps >= o.maxSteps, nil
}

// Run runs the entire experiment for all timesteps
func (o *Online) Run() error {
	for {
		ended, err := o.RunEpisode()
		if err != nil {
			return err
		}
		if ended {
			return nil
		}
	}
}

// Steps returns the number of timesteps run so far
func (o *Online) Steps() uint {
	return o.currentSteps
}

// Save saves all the data cached by the Trackers to disk
func (o *Online) Save() error {
	for _, t := range o.trackers {
		if err := t.Save(); err != nil {
			return fmt.Errorf("save: %v", err)
		}
	}
	return nil
}

// track tracks the current timestep by caching its data in each Tracker
func (o *Online) track(t ts.TimeStep) {
	for _, tr := range o.trackers {
		tr.Track(t)
	}
}

// checkpoint runs each Checkpointer on the current timestep
func (o *Online) checkpoint(t ts.TimeStep) error {
	for _, c := range o.checkpointers {
		if err := c.Checkpoint(t); err != nil {
			return err
		}
	}
	return nil
}
