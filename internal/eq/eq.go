// Package eq provides small slice-equality helpers for the test suites
// (lib/eclfile's tests use Strings and Float32s).
package eq

import "math"

// Strings returns true if two []string slices hold the same values in order.
func Strings(x, y []string) bool {
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}

// Ints returns true if two []int slices hold the same values in order.
func Ints(x, y []int) bool {
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}

// Float32s returns true if two []float32 slices are exactly equal.
func Float32s(x, y []float32) bool {
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}

// Float64sEps returns true if every element of x and y is within eps of each
// other, treating NaN as equal to NaN (summary vectors legitimately carry
// NaN for cross-run gaps, and tests need to compare those positions too).
func Float64sEps(x, y []float64, eps float64) bool {
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		if math.IsNaN(x[i]) && math.IsNaN(y[i]) {
			continue
		}
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			return false
		}
		if x[i]+eps < y[i] || x[i]-eps > y[i] {
			return false
		}
	}
	return true
}

// Float32sEps is the float32 counterpart of Float64sEps.
func Float32sEps(x, y []float32, eps float32) bool {
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		xn, yn := x[i] != x[i], y[i] != y[i] // NaN check without importing math/float32 helpers
		if xn && yn {
			continue
		}
		if xn || yn {
			return false
		}
		if x[i]+eps < y[i] || x[i]-eps > y[i] {
			return false
		}
	}
	return true
}
