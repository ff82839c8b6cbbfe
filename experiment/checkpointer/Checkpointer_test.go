package checkpointer

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/samuelfneumann/tabularq/table"
	ts "github.com/samuelfneumann/tabularq/timestep"
)

func TestFilenameEnumerator(t *testing.T) {
	next := FilenameEnumerator(0, "q", ".bin")
	for _, want := range []string{"q1.bin", "q2.bin", "q3.bin"} {
		if have := next(); have != want {
			t.Errorf("filename: want %v, have %v", want, have)
		}
	}
}

func TestFileTimer(t *testing.T) {
	name := FileTimer("q", ".bin")()
	if !strings.HasPrefix(name, "q-") || !strings.HasSuffix(name, ".bin") {
		t.Errorf("fileTimer: unexpected filename %v", name)
	}
}

func TestNStep(t *testing.T) {
	dir := t.TempDir()
	tab := table.New(2, 2)
	tab.Set(1, 1, 3)

	var saved []string
	enumerate := FilenameEnumerator(0, filepath.Join(dir, "q"), ".bin")
	filename := func() string {
		name := enumerate()
		saved = append(saved, name)
		return name
	}

	c, err := NewNStep(2, tab, filename)
	if err != nil {
		t.Fatal(err)
	}

	steps := []ts.TimeStep{
		ts.New(ts.First, 0, 0, 0),
		ts.New(ts.Mid, 0, 1, 1),
		ts.New(ts.Last, 0, 1, 2),
		ts.New(ts.First, 0, 0, 0),
		ts.New(ts.Mid, 0, 1, 1),
		ts.New(ts.Mid, 0, 1, 2),
	}
	for _, step := range steps {
		if err := c.Checkpoint(step); err != nil {
			t.Fatal(err)
		}
	}
	if len(saved) != 2 {
		t.Fatalf("checkpoint: want 2 checkpoints, have %d", len(saved))
	}

	loaded, err := table.Load(saved[1])
	if err != nil {
		t.Fatal(err)
	}
	if loaded.At(1, 1) != 3 {
		t.Errorf("checkpoint: want saved value 3, have %v", loaded.At(1, 1))
	}

	if _, err := NewNStep(0, tab, filename); err == nil {
		t.Error("newNStep: expected error for zero interval")
	}
}

func TestNEpisode(t *testing.T) {
	dir := t.TempDir()
	tab := table.New(1, 1)

	count := 0
	c, err := NewNEpisode(2, tab, func() string {
		count++
		return filepath.Join(dir, "q.bin")
	})
	if err != nil {
		t.Fatal(err)
	}

	for episode := 0; episode < 5; episode++ {
		c.Checkpoint(ts.New(ts.First, 0, 0, 0))
		c.Checkpoint(ts.New(ts.Mid, 0, 0, 1))
		if err := c.Checkpoint(ts.New(ts.Last, 0, 0, 2)); err != nil {
			t.Fatal(err)
		}
	}
	if count != 2 {
		t.Errorf("checkpoint: want 2 checkpoints, have %d", count)
	}

	bad, _ := NewNEpisode(1, tab, func() string {
		return filepath.Join(dir, "missing", "q.bin")
	})
	if err := bad.Checkpoint(ts.New(ts.Last, 0, 0, 1)); err == nil {
		t.Error("checkpoint: expected error for unwritable file")
	}
}
