package floatutils

import (
	"math"
	"testing"
)

func TestMaxSlice(t *testing.T) {
	max, indices := MaxSlice([]float64{2, 5, 1, 5, 5})
	if max != 5 {
		t.Errorf("maxSlice: want max 5, have %v", max)
	}
	want := []int{1, 3, 4}
	if len(indices) != len(want) {
		t.Fatalf("maxSlice: want indices %v, have %v", want, indices)
	}
	for i := range want {
		if indices[i] != want[i] {
			t.Errorf("maxSlice: want indices %v, have %v", want, indices)
		}
	}

	if _, indices := MaxSlice([]float64{7, 7}); len(indices) != 2 {
		t.Errorf("maxSlice: first element tie should be counted once, "+
			"have %v", indices)
	}
}

func TestMaxSliceNaN(t *testing.T) {
	if max, indices := MaxSlice([]float64{math.NaN(), 1, 3}); max != 3 ||
		len(indices) != 1 || indices[0] != 2 {
		t.Errorf("maxSlice: want 3 at [2], have %v at %v", max, indices)
	}
	if _, indices := MaxSlice([]float64{math.NaN(), math.NaN()}); len(indices) != 1 ||
		indices[0] != 0 {
		t.Errorf("maxSlice: want [0] for all NaN, have %v", indices)
	}
}

func TestClip(t *testing.T) {
	if v := Clip(1.5, 0, 1); v != 1 {
		t.Errorf("clip: want 1, have %v", v)
	}
	if v := Clip(-1, 0, 1); v != 0 {
		t.Errorf("clip: want 0, have %v", v)
	}
	if v := Clip(0.3, 0, 1); v != 0.3 {
		t.Errorf("clip: want 0.3, have %v", v)
	}
}
