package stats

import (
	"math"
	"testing"
)

func TestDescribeMasksNaN(t *testing.T) {
	vec := []float32{1, 2, float32(math.NaN()), 3}
	s, err := Describe(vec)
	if err != nil {
		t.Fatalf("Describe failed: %s", err.Error())
	}
	if s.Count != 3 {
		t.Errorf("Count = %d, want 3", s.Count)
	}
	if s.NaNCount != 1 {
		t.Errorf("NaNCount = %d, want 1", s.NaNCount)
	}
	if s.Mean != 2 {
		t.Errorf("Mean = %v, want 2", s.Mean)
	}
	if s.Min != 1 || s.Max != 3 {
		t.Errorf("Min/Max = %v/%v, want 1/3", s.Min, s.Max)
	}
}

func TestDescribeAllNaNFails(t *testing.T) {
	vec := []float32{float32(math.NaN()), float32(math.NaN())}
	if _, err := Describe(vec); err == nil {
		t.Fatalf("expected an error when every sample is NaN")
	}
}

func TestCorrelationMasksMismatchedNaN(t *testing.T) {
	a := []float32{1, 2, 3, 4}
	b := []float32{1, 2, float32(math.NaN()), 4}
	corr, err := Correlation(a, b)
	if err != nil {
		t.Fatalf("Correlation failed: %s", err.Error())
	}
	if corr < 0.99 {
		t.Errorf("Correlation = %v, want close to 1 (remaining samples are perfectly linear)", corr)
	}
}
