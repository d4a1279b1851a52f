// Package stats computes summary statistics over Eclipse summary vectors,
// masking the NaN values ESmry's restart-chain loader fills in for columns
// a given run doesn't define (spec.md §9: "downstream statistics must mask
// NaNs"). Grounded on gonum.org/v1/gonum/stat, the numeric library the
// teacher (phil-mansfield/guppy) already depends on for its own analysis
// code.
package stats

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/ecl-tools/eclio/lib/eclerr"
)

// Summary holds NaN-masked descriptive statistics over one vector.
type Summary struct {
	Count    int // number of non-NaN samples
	NaNCount int
	Mean     float64
	StdDev   float64
	Min      float64
	Max      float64
}

// Describe computes Summary over vec, skipping NaN entries. Returns
// InvalidArgument if every entry is NaN (no statistic is defined).
func Describe(vec []float32) (Summary, error) {
	clean := make([]float64, 0, len(vec))
	nanCount := 0
	for _, v := range vec {
		if math.IsNaN(float64(v)) {
			nanCount++
			continue
		}
		clean = append(clean, float64(v))
	}
	if len(clean) == 0 {
		return Summary{}, eclerr.New(eclerr.InvalidArgument, "no non-NaN samples to summarize")
	}

	mean, variance := stat.MeanVariance(clean, nil)
	return Summary{
		Count:    len(clean),
		NaNCount: nanCount,
		Mean:     mean,
		StdDev:   math.Sqrt(variance),
		Min:      floats.Min(clean),
		Max:      floats.Max(clean),
	}, nil
}

// Correlation computes the Pearson correlation coefficient between a and b,
// masking any index where either vector is NaN, per spec.md §9's NaN
// propagation rule. Returns InvalidArgument if fewer than two paired
// samples remain after masking.
func Correlation(a, b []float32) (float64, error) {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var cleanA, cleanB []float64
	for i := 0; i < n; i++ {
		if math.IsNaN(float64(a[i])) || math.IsNaN(float64(b[i])) {
			continue
		}
		cleanA = append(cleanA, float64(a[i]))
		cleanB = append(cleanB, float64(b[i]))
	}
	if len(cleanA) < 2 {
		return 0, eclerr.New(eclerr.InvalidArgument, "fewer than 2 paired non-NaN samples")
	}
	return stat.Correlation(cleanA, cleanB, nil), nil
}
