// Package checkpointer implements functionality for saving objects,
// such as value tables, while an experiment runs
package checkpointer

import (
	"encoding/gob"

	ts "github.com/samuelfneumann/tabularq/timestep"
)

// Serializable is an object that can be saved/serialized
type Serializable interface {
	gob.GobEncoder
	gob.GobDecoder

	// Save saves the object to filename
	Save(filename string) error
}

// Checkpointer checkpoints/saves serializable objects based on
// timestep.TimeSteps
type Checkpointer interface {
	Checkpoint(ts.TimeStep) error
}
