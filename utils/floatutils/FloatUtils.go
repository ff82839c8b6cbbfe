// Package floatutils provides utilities for working with floats
package floatutils

import (
	"math"
)

// Clip returns value restricted to [min, max]
func Clip(value, min, max float64) float64 {
	return math.Max(math.Min(value, max), min)
}

// MaxSlice returns the largest value in values along with every index
// holding it, in increasing order. NaN entries are skipped unless every
// entry is NaN, in which case index 0 is returned. It panics if values
// is empty.
func MaxSlice(values []float64) (max float64, indices []int) {
	max = math.Inf(-1)
	for i, value := range values {
		switch {
		case value > max:
			max = value
			indices = append(indices[:0], i)
		case value == max:
			indices = append(indices, i)
		}
	}
	if len(indices) == 0 {
		return values[0], []int{0}
	}
	return max, indices
}
