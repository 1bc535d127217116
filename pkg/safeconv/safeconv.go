// Package safeconv provides safe integer type conversion functions.
package safeconv

import "math"

// Uint64ToInt64 converts uint64 to int64, saturating at math.MaxInt64.
// Probe readings use this so counter wraparound can never panic a measurement.
func Uint64ToInt64(v uint64) int64 {
	if v > math.MaxInt64 {
		return math.MaxInt64
	}

	return int64(v)
}

// Uint32ToInt64 converts a uint32 counter to int64. Always lossless.
func Uint32ToInt64(v uint32) int64 {
	return int64(v)
}
