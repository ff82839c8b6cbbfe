// Package trace implements eligibility traces for tabular learners.
//
// Eligibility traces record a decaying weight for each recently visited
// (state, action) pair so that a single TD error can be credited to
// every pair along the trajectory that led to it. Two storage
// strategies are provided with identical observable semantics: Dense
// stores a trace for every pair in the value table, and Sparse stores
// traces only for pairs that were written since the last Reset.
package trace

import (
	"fmt"

	"github.com/samuelfneumann/tabularq/table"
)

const (
	// DefaultThreshold is the magnitude below which sparse traces are
	// pruned
	DefaultThreshold float64 = 1e-4

	// DefaultPruneInterval is the number of updates between prunes
	DefaultPruneInterval int = 100
)

// Store stores eligibility traces for (state, action) pairs. Pairs
// that have never been written have a trace of 0.
type Store interface {
	At(state, action int) float64
	Set(state, action int, value float64)
	Add(state, action int, delta float64)
	Scale(state, action int, factor float64)

	// Reset sets all traces to 0
	Reset()

	// ForEach calls fn on every active trace. For a Dense store the
	// active traces are the non-zero traces, for a Sparse store they are
	// the traces present in the store.
	ForEach(fn func(state, action int, value float64))

	// Update calls fn on every active trace and replaces the trace
	// with the value fn returns
	Update(fn func(state, action int, value float64) float64)

	// Prune removes traces with magnitude below threshold and returns
	// the number of traces removed
	Prune(threshold float64) int

	// Len returns the number of active traces
	Len() int
}

// Storage determines how a Store holds its traces
type Storage string

const (
	DenseStorage  Storage = "Dense"
	SparseStorage Storage = "Sparse"
)

// New returns a new, empty Store with the same shape as t
func New(storage Storage, t *table.Table) (Store, error) {
	switch storage {
	case DenseStorage:
		return NewDense(t), nil

	case SparseStorage:
		return NewSparse(t), nil
	}

	return nil, fmt.Errorf("new: no such trace storage %q", storage)
}

// Type determines how visiting a (state, action) pair changes its
// trace
type Type string

const (
	// None disables eligibility traces
	None Type = "None"

	// Replacing traces are set to 1 on each visit
	Replacing Type = "Replacing"

	// Accumulating traces are incremented by 1 on each visit
	Accumulating Type = "Accumulating"
)

// Validate returns an error if t is not a known trace Type
func (t Type) Validate() error {
	switch t {
	case None, Replacing, Accumulating:
		return nil
	}
	return fmt.Errorf("validate: no such trace type %q", t)
}

// Visit marks (state, action) as visited in s
func (t Type) Visit(s Store, state, action int) {
	switch t {
	case Replacing:
		s.Set(state, action, 1.0)

	case Accumulating:
		s.Add(state, action, 1.0)
	}
}
