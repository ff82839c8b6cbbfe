package table

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestNewRectangular(t *testing.T) {
	tab := New(3, 4)

	if tab.StateCount() != 3 {
		t.Errorf("stateCount: want 3, have %d", tab.StateCount())
	}
	for s := 0; s < 3; s++ {
		if n := tab.ActionCount(s); n != 4 {
			t.Errorf("actionCount(%d): want 4, have %d", s, n)
		}
	}
	if !tab.Rectangular() || tab.Matrix() == nil {
		t.Error("new: table with uniform actions should be rectangular")
	}

	tab.Set(2, 3, 1.5)
	if v := tab.Matrix().At(2, 3); v != 1.5 {
		t.Errorf("set: backing matrix not updated, have %v", v)
	}
}

func TestJaggedShape(t *testing.T) {
	tab := NewJagged([]int{2, 5, 1})

	if tab.Rectangular() {
		t.Error("newJagged: table should not be rectangular")
	}
	if tab.Size() != 8 {
		t.Errorf("size: want 8, have %d", tab.Size())
	}

	like := NewLike(tab)
	for s := 0; s < tab.StateCount(); s++ {
		if like.ActionCount(s) != tab.ActionCount(s) {
			t.Errorf("newLike: state %d has %d actions, want %d", s,
				like.ActionCount(s), tab.ActionCount(s))
		}
	}
}

func TestNewLikeDoesNotCopyValues(t *testing.T) {
	tab := New(2, 2)
	tab.Set(1, 1, 3)

	like := NewLike(tab)
	if like.At(1, 1) != 0 {
		t.Errorf("newLike: values should start at 0, have %v", like.At(1, 1))
	}
	like.Set(0, 0, 1)
	if tab.At(0, 0) != 0 {
		t.Error("newLike: tables should not share storage")
	}
}

func TestAddStateKeepsValues(t *testing.T) {
	tab := New(2, 3)
	tab.Set(0, 1, 1)
	tab.Set(1, 2, 2)

	if s := tab.AddState(3); s != 2 {
		t.Errorf("addState: want index 2, have %d", s)
	}
	if !tab.Rectangular() {
		t.Error("addState: same action count should remain rectangular")
	}

	tab.AddState(5)
	if tab.Rectangular() {
		t.Error("addState: different action count should become jagged")
	}
	if tab.At(0, 1) != 1 || tab.At(1, 2) != 2 {
		t.Errorf("addState: values lost after growing\n%v", tab)
	}
	if tab.ActionCount(3) != 5 {
		t.Errorf("addState: want 5 actions, have %d", tab.ActionCount(3))
	}
}

func TestOutOfRange(t *testing.T) {
	tab := NewJagged([]int{2, 3})

	cases := []struct{ s, a int }{{-1, 0}, {2, 0}, {0, 2}, {1, -1}, {1, 3}}
	for _, c := range cases {
		err := tab.Check(c.s, c.a)
		if !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("check(%d, %d): want ErrIndexOutOfRange, have %v",
				c.s, c.a, err)
		}
	}

	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("at: want panic with ErrIndexOutOfRange, have %v", r)
		}
	}()
	tab.At(0, 2)
}

func TestSaveLoad(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "table.bin")

	tab := NewJagged([]int{2, 3})
	tab.Set(0, 1, -1.25)
	tab.Set(1, 2, 4)
	if err := tab.Save(filename); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(filename)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.StateCount() != 2 || loaded.ActionCount(1) != 3 {
		t.Fatalf("load: wrong shape\n%v", loaded)
	}
	if loaded.At(0, 1) != -1.25 || loaded.At(1, 2) != 4 {
		t.Errorf("load: wrong values\n%v", loaded)
	}
}
