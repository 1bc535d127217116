// Package mathutil provides generic math helper functions shared by the probes.
package mathutil

import (
	"math"
	"sort"
)

// Min calculates the minimum of two integers.
func Min(a, b int) int {
	if a < b {
		return a
	}

	return b
}

// ClampNonNegative returns v, or zero when v is negative.
// Probe deltas must never go below zero regardless of measurement noise.
func ClampNonNegative[T int | int64 | float64](v T) T {
	if v < 0 {
		return 0
	}

	return v
}

// Percentile returns the p-th percentile (0..100) of samples using linear
// interpolation between closest ranks. Returns 0 for an empty slice.
func Percentile(samples []float64, p float64) float64 {
	if len(samples) == 0 {
		return 0
	}

	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)

	if p <= 0 {
		return sorted[0]
	}

	if p >= 100 {
		return sorted[len(sorted)-1]
	}

	rank := p / 100 * float64(len(sorted)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))

	if lower == upper {
		return sorted[lower]
	}

	weight := rank - float64(lower)

	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Mean returns the arithmetic mean of samples, 0 for an empty slice.
func Mean(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}

	sum := 0.0
	for _, s := range samples {
		sum += s
	}

	return sum / float64(len(samples))
}

// Std returns the population standard deviation of samples, 0 for an empty slice.
func Std(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}

	mean := Mean(samples)

	variance := 0.0
	for _, s := range samples {
		diff := s - mean
		variance += diff * diff
	}

	return math.Sqrt(variance / float64(len(samples)))
}
