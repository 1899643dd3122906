// Package sensitivity approximates which uncertain parameters drive NPV
// variability. This is a correlation screen, not a variance decomposition:
// good enough to rank inputs for attention, not to attribute variance shares.
package sensitivity

import (
	"math"
	"sort"

	"teasim/domain/core"
	"teasim/domain/montecarlo"
)

// TotalOrderInflation scales the first-order index into a stand-in for a
// total-order index. The constant pads for interaction effects a pairwise
// correlation cannot see; it is a documented heuristic, not a Sobol
// estimator.
const TotalOrderInflation = 1.15

// ParameterSamples carries one parameter's per-iteration draws, aligned
// index-for-index with the NPV outcomes of the same run.
type ParameterSamples struct {
	Name   core.ParameterKey
	Values []float64
}

// Rank computes the influence ranking. Entries sort descending by
// total-order index; ties keep parameter declaration order so rankings are
// deterministic run to run.
func Rank(samples []ParameterSamples, npv []float64) []montecarlo.SensitivityEntry {
	entries := make([]montecarlo.SensitivityEntry, 0, len(samples))
	for _, s := range samples {
		r := pearson(s.Values, npv)
		first := r * r
		entries = append(entries, montecarlo.SensitivityEntry{
			Parameter:   s.Name,
			Correlation: r,
			FirstOrder:  first,
			TotalOrder:  first * TotalOrderInflation,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].TotalOrder > entries[j].TotalOrder
	})
	return entries
}

// pearson returns the correlation coefficient of two aligned series. A
// series with zero variance (degenerate distribution bounds) correlates
// with nothing: the zero denominator is answered with 0, never NaN.
func pearson(x, y []float64) float64 {
	n := len(x)
	if n != len(y) || n < 2 {
		return 0
	}

	var sumX, sumY, sumXY, sumX2, sumY2 float64
	for i := 0; i < n; i++ {
		sumX += x[i]
		sumY += y[i]
		sumXY += x[i] * y[i]
		sumX2 += x[i] * x[i]
		sumY2 += y[i] * y[i]
	}

	fn := float64(n)
	numerator := fn*sumXY - sumX*sumY
	denominator := math.Sqrt((fn*sumX2 - sumX*sumX) * (fn*sumY2 - sumY*sumY))
	if denominator == 0 || math.IsNaN(denominator) {
		return 0
	}
	return numerator / denominator
}
