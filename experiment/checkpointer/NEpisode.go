package checkpointer

import (
	"fmt"

	"github.com/pkg/errors"
	ts "github.com/samuelfneumann/tabularq/timestep"
)

// nEpisode implements checkpointing at the end of every N episodes
type nEpisode struct {
	interval int
	episodes int
	object   Serializable
	filename func() string
}

// NewNEpisode returns a checkpointer that checkpoints after every n
// finished episodes
func NewNEpisode(n int, object Serializable,
	filename func() string) (Checkpointer, error) {
	if n < 1 {
		return nil, fmt.Errorf("newNEpisode: interval must be positive, "+
			"have %d", n)
	}
	return &nEpisode{
		interval: n,
		object:   object,
		filename: filename,
	}, nil
}

// Checkpoint saves the tracked object if t ends the n-th episode
func (n *nEpisode) Checkpoint(t ts.TimeStep) error {
	if !t.Last() {
		return nil
	}

	n.episodes++
	if n.episodes%n.interval == 0 {
		if err := n.object.Save(n.filename()); err != nil {
			return errors.Wrapf(err, "checkpoint: episode %d", n.episodes)
		}
	}
	return nil
}
