package experiment

import (
	"path/filepath"
	"testing"

	"github.com/samuelfneumann/tabularq/agent/tabular"
	"github.com/samuelfneumann/tabularq/environment/envconfig"
	"github.com/samuelfneumann/tabularq/experiment/checkpointer"
	"github.com/samuelfneumann/tabularq/experiment/tracker"
	"github.com/samuelfneumann/tabularq/table"
	"gonum.org/v1/gonum/stat"
)

func gridConfig(steps uint) Config {
	c := tabular.DefaultConfig()
	c.Alpha, c.Gamma, c.Lambda, c.Epsilon = 0.5, 0.9, 0.5, 0.1

	return Config{
		Type:      OnlineExp,
		MaxSteps:  steps,
		EnvConf:   envconfig.NewConfig(envconfig.GridWorld, 3, 4, 0),
		AgentConf: tabular.NewConfigList(c),
	}
}

func TestOnlineLearnsGridWorld(t *testing.T) {
	lengths := tracker.NewEpisodeLength("")
	returns := tracker.NewReturn("")

	exp, values, err := gridConfig(20000).CreateExp(0, 1,
		[]tracker.Tracker{lengths, returns})
	if err != nil {
		t.Fatal(err)
	}
	if values.StateCount() != 12 || values.ActionCount(0) != 4 {
		t.Fatalf("createExp: table shape (%d, %d)", values.StateCount(),
			values.ActionCount(0))
	}

	if err := exp.Run(); err != nil {
		t.Fatal(err)
	}
	if steps := exp.(*Online).Steps(); steps != 20000 {
		t.Errorf("run: want 20000 steps, have %d", steps)
	}

	data := lengths.Data()
	if len(data) < 100 {
		t.Fatalf("run: only %d episodes finished", len(data))
	}
	if mean := stat.Mean(data[len(data)-20:], nil); mean > 10 {
		t.Errorf("run: mean length of the last episodes is %v, want "+
			"close to 5", mean)
	}
	// The goal is terminal and never updated, so bootstrapping off it
	// adds nothing
	goal := values.StateCount() - 1
	for a, v := range values.Row(goal) {
		if v != 0 {
			t.Errorf("run: goal (%d, %d) want 0, have %v", goal, a, v)
		}
	}

	for i, r := range returns.Data() {
		if r != -lengths.Data()[i]+1 {
			t.Errorf("run: episode %d return %v does not match length %v", i,
				r, lengths.Data()[i])
			break
		}
	}
}

func TestOnlineCheckpoints(t *testing.T) {
	dir := t.TempDir()
	returns := tracker.NewReturn(filepath.Join(dir, "returns.bin"))

	var last string
	filename := checkpointer.FilenameEnumerator(0, filepath.Join(dir, "q"),
		".bin")
	newCheckpointer := func(values *table.Table) (checkpointer.Checkpointer,
		error) {
		return checkpointer.NewNEpisode(1, values, func() string {
			last = filename()
			return last
		})
	}

	exp, values, err := gridConfig(500).CreateExp(0, 2,
		[]tracker.Tracker{returns}, newCheckpointer)
	if err != nil {
		t.Fatal(err)
	}
	if err := exp.Run(); err != nil {
		t.Fatal(err)
	}
	if err := exp.Save(); err != nil {
		t.Fatal(err)
	}

	if last == "" {
		t.Fatal("checkpoint: no checkpoints saved")
	}
	loaded, err := table.Load(last)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.StateCount() != values.StateCount() {
		t.Errorf("checkpoint: want %d states, have %d", values.StateCount(),
			loaded.StateCount())
	}

	data, err := tracker.LoadData(filepath.Join(dir, "returns.bin"))
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != len(returns.Data()) {
		t.Errorf("save: want %d returns, have %d", len(returns.Data()),
			len(data))
	}
}

func TestCreateExpErrors(t *testing.T) {
	c := gridConfig(10)
	c.Type = "Offline"
	if _, _, err := c.CreateExp(0, 1, nil); err == nil {
		t.Error("createExp: expected error for unknown experiment type")
	}

	c = gridConfig(10)
	c.EnvConf.Environment = "Maze"
	if _, _, err := c.CreateExp(0, 1, nil); err == nil {
		t.Error("createExp: expected error for unknown environment")
	}
}
