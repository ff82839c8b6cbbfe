package trace

import (
	"fmt"

	"github.com/samuelfneumann/tabularq/table"
	"golang.org/x/sync/errgroup"
)

// Dense stores a trace for every (state, action) pair of a value
// table. Decaying a Dense store costs O(states × actions) per update,
// but its memory never grows beyond the shape of the table.
//
// States added to the value table after the store was created are
// added to the store, with zero traces, the next time they are
// accessed.
type Dense struct {
	shape  *table.Table
	traces *table.Table
}

// NewDense returns a Dense store shaped like t
func NewDense(t *table.Table) *Dense {
	return &Dense{shape: t, traces: table.NewLike(t)}
}

// fit adds the states appended to the value table since the last call
func (d *Dense) fit() {
	for s := d.traces.StateCount(); s < d.shape.StateCount(); s++ {
		d.traces.AddState(d.shape.ActionCount(s))
	}
}

// At returns the trace of (state, action)
func (d *Dense) At(state, action int) float64 {
	d.fit()
	return d.traces.At(state, action)
}

// Set sets the trace of (state, action)
func (d *Dense) Set(state, action int, value float64) {
	d.fit()
	d.traces.Set(state, action, value)
}

// Add adds delta to the trace of (state, action)
func (d *Dense) Add(state, action int, delta float64) {
	d.fit()
	d.traces.Add(state, action, delta)
}

// Scale multiplies the trace of (state, action) by factor
func (d *Dense) Scale(state, action int, factor float64) {
	d.fit()
	d.traces.Set(state, action, d.traces.At(state, action)*factor)
}

// Reset sets all traces to 0
func (d *Dense) Reset() {
	d.traces.Zero()
}

// ForEach calls fn on each non-zero trace
func (d *Dense) ForEach(fn func(state, action int, value float64)) {
	for s := 0; s < d.traces.StateCount(); s++ {
		for a, e := range d.traces.Row(s) {
			if e != 0 {
				fn(s, a, e)
			}
		}
	}
}

// Update calls fn on each non-zero trace and stores the result.
// Zero traces are skipped so that a non-finite fn argument never
// reaches pairs that were not visited.
func (d *Dense) Update(fn func(state, action int, value float64) float64) {
	d.updateStates(0, d.traces.StateCount(), fn)
}

func (d *Dense) updateStates(from, to int,
	fn func(state, action int, value float64) float64) {
	for s := from; s < to; s++ {
		row := d.traces.Row(s)
		for a, e := range row {
			if e != 0 {
				row[a] = fn(s, a, e)
			}
		}
	}
}

func (d *Dense) updateActions(from, to int,
	fn func(state, action int, value float64) float64) {
	for s := 0; s < d.traces.StateCount(); s++ {
		row := d.traces.Row(s)
		for a := from; a < to; a++ {
			if e := row[a]; e != 0 {
				row[a] = fn(s, a, e)
			}
		}
	}
}

// UpdateParallel performs the same sweep as Update, split into at
// most partitions concurrent tasks. Each task owns a disjoint range of
// states, or a disjoint range of actions if the store is rectangular
// and has more actions than states. fn must only write to the
// (state, action) pair it is called with.
//
// A panic inside fn is recovered and returned as an error. The sweep
// is not atomic: partitions that did not panic keep every write they
// made, and so does the panicking partition up to the panic.
func (d *Dense) UpdateParallel(partitions int,
	fn func(state, action int, value float64) float64) error {
	states := d.traces.StateCount()
	if partitions <= 1 || states == 0 {
		d.Update(fn)
		return nil
	}

	sweep := d.updateStates
	n := states
	if d.traces.Rectangular() {
		if actions := d.traces.ActionCount(0); actions > states {
			sweep = d.updateActions
			n = actions
		}
	}

	var g errgroup.Group
	for _, r := range split(n, partitions) {
		from, to := r[0], r[1]
		g.Go(func() (err error) {
			defer func() {
				if p := recover(); p != nil {
					err = fmt.Errorf("updateParallel: partition [%d, %d): %v",
						from, to, p)
				}
			}()
			sweep(from, to, fn)
			return nil
		})
	}
	return g.Wait()
}

// Prune is a no-op for Dense stores, which never shrink
func (d *Dense) Prune(float64) int {
	return 0
}

// Len returns the number of non-zero traces
func (d *Dense) Len() int {
	n := 0
	d.ForEach(func(int, int, float64) { n++ })
	return n
}

// split splits [0, n) into at most parts contiguous ranges of nearly
// equal length
func split(n, parts int) [][2]int {
	if parts > n {
		parts = n
	}
	ranges := make([][2]int, 0, parts)
	size, rem := n/parts, n%parts

	start := 0
	for i := 0; i < parts; i++ {
		end := start + size
		if i < rem {
			end++
		}
		ranges = append(ranges, [2]int{start, end})
		start = end
	}
	return ranges
}
