package chain

import (
	"testing"
)

func TestChainEpisode(t *testing.T) {
	c, step, err := New(10, 3, 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !step.First() || step.State != 0 {
		t.Fatalf("new: want first step in state 0, have %v", step)
	}

	total := 0.0
	for s := 0; s < 9; s++ {
		if a := c.RewardingAction(s); a > 1 {
			t.Errorf("rewardingAction(%d): %d not among first 2 actions", s, a)
		}

		step, last, err := c.Step(c.RewardingAction(s))
		if err != nil {
			t.Fatal(err)
		}
		if step.State != s+1 || step.Number != s+1 {
			t.Errorf("step: want state %d, have %v", s+1, step)
		}
		if last != (s == 8) {
			t.Errorf("step: state %d last = %v", step.State, last)
		}
		total += step.Reward
	}
	if total != 9 {
		t.Errorf("step: rewarding actions should return 9, have %v", total)
	}

	if _, _, err := c.Step(0); err == nil {
		t.Error("step: expected error after the episode ended")
	}
	if step, _ := c.Reset(); step.State != 0 || !step.First() {
		t.Errorf("reset: want first step in state 0, have %v", step)
	}
}

func TestChainWrongAction(t *testing.T) {
	c, _, err := New(States, Actions, Rewarding, 2)
	if err != nil {
		t.Fatal(err)
	}
	if c.StateCount() != States || c.ActionCount(0) != Actions {
		t.Fatalf("dims: want (%d, %d), have (%d, %d)", States, Actions,
			c.StateCount(), c.ActionCount(0))
	}

	// The last action is never rewarding
	step, _, err := c.Step(Actions - 1)
	if err != nil {
		t.Fatal(err)
	}
	if step.Reward != 0 {
		t.Errorf("step: want reward 0, have %v", step.Reward)
	}

	if _, _, err := c.Step(Actions); err == nil {
		t.Error("step: expected error for invalid action")
	}
}

func TestChainSeeded(t *testing.T) {
	a, _, _ := New(50, 3, 2, 7)
	b, _, _ := New(50, 3, 2, 7)
	for s := 0; s < 50; s++ {
		if a.RewardingAction(s) != b.RewardingAction(s) {
			t.Fatalf("new: chains with equal seeds differ at state %d", s)
		}
	}

	if _, _, err := New(1, 3, 2, 7); err == nil {
		t.Error("new: expected error for a single state")
	}
	if _, _, err := New(5, 2, 3, 7); err == nil {
		t.Error("new: expected error for too many rewarding actions")
	}
}
