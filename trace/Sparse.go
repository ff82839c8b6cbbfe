package trace

import (
	"math"

	"github.com/samuelfneumann/tabularq/table"
)

// Key identifies a (state, action) pair
type Key struct {
	State, Action int
}

// Sparse stores traces only for pairs that have been written since
// the last Reset. Its memory grows with the number of distinct pairs
// visited, so it should be pruned periodically.
type Sparse struct {
	shape  *table.Table
	traces map[Key]float64
}

// NewSparse returns a Sparse store that accepts the pairs of t. The
// store only reads the shape of t for bounds checking.
func NewSparse(t *table.Table) *Sparse {
	return &Sparse{shape: t, traces: make(map[Key]float64)}
}

func (s *Sparse) check(state, action int) {
	if err := s.shape.Check(state, action); err != nil {
		panic(err)
	}
}

// At returns the trace of (state, action)
func (s *Sparse) At(state, action int) float64 {
	s.check(state, action)
	return s.traces[Key{state, action}]
}

// Set sets the trace of (state, action)
func (s *Sparse) Set(state, action int, value float64) {
	s.check(state, action)
	s.traces[Key{state, action}] = value
}

// Add adds delta to the trace of (state, action)
func (s *Sparse) Add(state, action int, delta float64) {
	s.check(state, action)
	s.traces[Key{state, action}] += delta
}

// Scale multiplies the trace of (state, action) by factor. Scaling an
// absent trace leaves it absent.
func (s *Sparse) Scale(state, action int, factor float64) {
	s.check(state, action)
	k := Key{state, action}
	if e, ok := s.traces[k]; ok {
		s.traces[k] = e * factor
	}
}

// Reset removes all traces
func (s *Sparse) Reset() {
	s.traces = make(map[Key]float64)
}

// ForEach calls fn on every stored trace in an unspecified order
func (s *Sparse) ForEach(fn func(state, action int, value float64)) {
	for k, e := range s.traces {
		fn(k.State, k.Action, e)
	}
}

// Update calls fn on every stored non-zero trace and stores the
// result. Stored traces that have decayed to exactly 0 are skipped, as
// Dense skips them, so a non-finite fn argument never reaches them.
func (s *Sparse) Update(fn func(state, action int, value float64) float64) {
	for k, e := range s.traces {
		if e != 0 {
			s.traces[k] = fn(k.State, k.Action, e)
		}
	}
}

// Prune removes traces with magnitude below threshold
func (s *Sparse) Prune(threshold float64) int {
	removed := 0
	for k, e := range s.traces {
		if math.Abs(e) < threshold {
			delete(s.traces, k)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored traces
func (s *Sparse) Len() int {
	return len(s.traces)
}
