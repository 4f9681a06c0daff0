package mathutil

import "math"

// IntMax returns the larger of two ints.
func IntMax(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// RoundHalfUp rounds to the nearest integer with .5 going towards +Inf,
// so -0.5 rounds to 0 and 0.5 rounds to 1.
func RoundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
