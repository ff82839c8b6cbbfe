// Package table implements tabular action-value storage.
//
// A Table maps (state, action) pairs to values. The number of actions
// may differ between states. When every state has the same number of
// actions, the Table is backed by a single contiguous gonum *mat.Dense;
// otherwise each state owns its own row. The storage layout is not
// visible through the Table's methods.
package table

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"os"

	pkgerrors "github.com/pkg/errors"
	"github.com/samuelfneumann/tabularq/utils/matutils"
	"gonum.org/v1/gonum/mat"
)

// ErrIndexOutOfRange is wrapped by every IndexError
var ErrIndexOutOfRange = errors.New("table: index out of range")

// IndexError describes a state or action outside of a Table's shape.
// Action is -1 when only the state was checked.
type IndexError struct {
	State, Action int
	States        int
	Actions       int // actions in State, or -1 if State was invalid
}

// Error implements the error interface
func (e *IndexError) Error() string {
	if e.Actions < 0 {
		return fmt.Sprintf("%v: state %d not in [0, %d)", ErrIndexOutOfRange,
			e.State, e.States)
	}
	return fmt.Sprintf("%v: action %d not in [0, %d) for state %d",
		ErrIndexOutOfRange, e.Action, e.Actions, e.State)
}

// Unwrap returns ErrIndexOutOfRange
func (e *IndexError) Unwrap() error {
	return ErrIndexOutOfRange
}

// Table is a jagged 2-D table of float64 values indexed by
// (state, action).
//
// The zero value is an empty Table with no states. Table is not safe
// for concurrent writes to the same row.
type Table struct {
	// data is non-nil only if every state has the same action count, in
	// which case each rows[s] aliases row s of data.
	data *mat.Dense
	rows [][]float64
}

// New returns a Table with states states, each having actions actions.
// All values are initialized to 0.
func New(states, actions int) *Table {
	if states < 0 {
		panic(fmt.Sprintf("new: states must be non-negative, have %d",
			states))
	}
	if actions < 1 {
		panic(fmt.Sprintf("new: actions must be positive, have %d", actions))
	}

	t := &Table{}
	if states == 0 {
		return t
	}
	t.data = mat.NewDense(states, actions, nil)
	t.alias()
	return t
}

// NewJagged returns a Table with len(actions) states, where state i
// has actions[i] actions. If all action counts are equal, the
// returned Table uses contiguous storage.
func NewJagged(actions []int) *Table {
	t := &Table{}
	for _, n := range actions {
		t.AddState(n)
	}
	return t
}

// NewLike returns a Table with the same shape as other. Values are
// not copied; the returned Table is filled with 0.
func NewLike(other *Table) *Table {
	if other.data != nil {
		r, c := other.data.Dims()
		return New(r, c)
	}

	t := &Table{rows: make([][]float64, len(other.rows))}
	for s := range other.rows {
		t.rows[s] = make([]float64, len(other.rows[s]))
	}
	return t
}

// alias points each row at the matching row of the backing matrix
func (t *Table) alias() {
	r, _ := t.data.Dims()
	t.rows = make([][]float64, r)
	for i := 0; i < r; i++ {
		t.rows[i] = t.data.RawRowView(i)
	}
}

// AddState appends a new state with the given number of actions and
// returns its index. Adding a state whose action count differs from
// the existing states converts the Table to jagged storage.
func (t *Table) AddState(actions int) int {
	if actions < 1 {
		panic(fmt.Sprintf("addState: actions must be positive, have %d",
			actions))
	}

	switch {
	case len(t.rows) == 0:
		t.data = mat.NewDense(1, actions, nil)
		t.alias()

	case t.data != nil && len(t.rows[0]) == actions:
		r, c := t.data.Dims()
		grown := mat.NewDense(r+1, c, nil)
		grown.Slice(0, r, 0, c).(*mat.Dense).Copy(t.data)
		t.data = grown
		t.alias()

	default:
		// Detach rows from the backing matrix so they remain valid after
		// the matrix is dropped
		if t.data != nil {
			for s := range t.rows {
				t.rows[s] = append([]float64(nil), t.rows[s]...)
			}
			t.data = nil
		}
		t.rows = append(t.rows, make([]float64, actions))
	}

	return len(t.rows) - 1
}

// StateCount returns the number of states in the Table
func (t *Table) StateCount() int {
	return len(t.rows)
}

// ActionCount returns the number of actions available in state
func (t *Table) ActionCount(state int) int {
	if err := t.CheckState(state); err != nil {
		panic(err)
	}
	return len(t.rows[state])
}

// Rectangular returns whether every state has the same number of
// actions
func (t *Table) Rectangular() bool {
	return t.data != nil || len(t.rows) == 0
}

// Size returns the total number of (state, action) pairs
func (t *Table) Size() int {
	n := 0
	for _, row := range t.rows {
		n += len(row)
	}
	return n
}

// CheckState returns an *IndexError if state is not in the Table
func (t *Table) CheckState(state int) error {
	if state < 0 || state >= len(t.rows) {
		return &IndexError{State: state, Action: -1, States: len(t.rows),
			Actions: -1}
	}
	return nil
}

// Check returns an *IndexError if (state, action) is not in the Table
func (t *Table) Check(state, action int) error {
	if err := t.CheckState(state); err != nil {
		return err
	}
	if n := len(t.rows[state]); action < 0 || action >= n {
		return &IndexError{State: state, Action: action,
			States: len(t.rows), Actions: n}
	}
	return nil
}

// At returns the value of (state, action). At panics with an
// *IndexError if the pair is out of range.
func (t *Table) At(state, action int) float64 {
	if err := t.Check(state, action); err != nil {
		panic(err)
	}
	return t.rows[state][action]
}

// Set sets the value of (state, action)
func (t *Table) Set(state, action int, value float64) {
	if err := t.Check(state, action); err != nil {
		panic(err)
	}
	t.rows[state][action] = value
}

// Add adds delta to the value of (state, action)
func (t *Table) Add(state, action int, delta float64) {
	if err := t.Check(state, action); err != nil {
		panic(err)
	}
	t.rows[state][action] += delta
}

// Row returns the values of state. The returned slice shares storage
// with the Table.
func (t *Table) Row(state int) []float64 {
	if err := t.CheckState(state); err != nil {
		panic(err)
	}
	return t.rows[state]
}

// Zero sets every value in the Table to 0
func (t *Table) Zero() {
	if t.data != nil {
		t.data.Zero()
		return
	}
	for _, row := range t.rows {
		for a := range row {
			row[a] = 0
		}
	}
}

// Matrix returns the backing matrix of a rectangular Table. The
// returned matrix shares storage with the Table. Matrix returns nil
// for jagged or empty Tables.
func (t *Table) Matrix() *mat.Dense {
	return t.data
}

// String implements the fmt.Stringer interface
func (t *Table) String() string {
	if t.data != nil {
		return matutils.Format(t.data)
	}
	var buf bytes.Buffer
	for s, row := range t.rows {
		fmt.Fprintf(&buf, "%d: %v\n", s, row)
	}
	return buf.String()
}

// GobEncode implements the gob.GobEncoder interface
func (t *Table) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(t.rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode implements the gob.GobDecoder interface. The Table's
// previous contents are discarded.
func (t *Table) GobDecode(data []byte) error {
	var rows [][]float64
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&rows); err != nil {
		return err
	}

	*t = Table{}
	for _, row := range rows {
		s := t.AddState(len(row))
		copy(t.rows[s], row)
	}
	return nil
}

// Save saves the Table to filename using gob encoding
func (t *Table) Save(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return pkgerrors.Wrap(err, "save: could not create file")
	}
	defer file.Close()

	if err := gob.NewEncoder(file).Encode(t); err != nil {
		return pkgerrors.Wrapf(err, "save: could not encode table to %v",
			filename)
	}
	return nil
}

// Load loads a Table previously written by Save
func Load(filename string) (*Table, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "load: could not open file")
	}
	defer file.Close()

	t := &Table{}
	if err := gob.NewDecoder(file).Decode(t); err != nil {
		return nil, pkgerrors.Wrapf(err, "load: could not decode table "+
			"from %v", filename)
	}
	return t, nil
}
