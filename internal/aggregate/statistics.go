// Package aggregate converts raw metric distributions into the summary
// statistics carried by a simulation result.
package aggregate

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"teasim/domain/montecarlo"
	"teasim/internal/errors"
)

// Aggregator computes per-metric statistics for a fixed set of confidence
// levels. Levels keep their caller-supplied order in the output.
type Aggregator struct {
	confidenceLevels []float64
}

// New creates an aggregator. Empty levels fall back to the defaults.
func New(confidenceLevels []float64) *Aggregator {
	levels := confidenceLevels
	if len(levels) == 0 {
		levels = montecarlo.DefaultConfidenceLevels
	}
	return &Aggregator{confidenceLevels: levels}
}

// Aggregate summarizes one metric's raw distribution. The input slice is
// retained (unsorted, iteration order) on the returned statistics; all
// percentile work happens on a private sorted copy.
//
// An empty distribution is a hard error: it means every iteration failed
// for this metric, which the caller must surface rather than zero out.
func (a *Aggregator) Aggregate(metric string, values []float64) (montecarlo.MetricStatistics, error) {
	if len(values) == 0 {
		return montecarlo.MetricStatistics{}, errors.StatisticsEmpty(metric)
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mean, _ := stats.Mean(values)
	median, _ := stats.Median(values)
	variance, _ := stats.PopulationVariance(values)
	stdDev, _ := stats.StandardDeviationPopulation(values)

	percentiles := make(map[int]float64, len(montecarlo.StandardPercentiles))
	for _, p := range montecarlo.StandardPercentiles {
		percentiles[p] = Percentile(sorted, float64(p)/100)
	}

	intervals := make([]montecarlo.ConfidenceInterval, 0, len(a.confidenceLevels))
	for _, level := range a.confidenceLevels {
		alpha := 1 - level
		intervals = append(intervals, montecarlo.ConfidenceInterval{
			Level: level,
			Lower: Percentile(sorted, alpha/2),
			Upper: Percentile(sorted, 1-alpha/2),
		})
	}

	return montecarlo.MetricStatistics{
		Mean:                mean,
		Median:              median,
		StdDev:              stdDev,
		Variance:            variance,
		Min:                 sorted[0],
		Max:                 sorted[len(sorted)-1],
		Percentiles:         percentiles,
		ConfidenceIntervals: intervals,
		Diagnostics:         Describe(values, mean, stdDev),
		Distribution:        values,
	}, nil
}

// Percentile returns the p-quantile (p in [0,1]) of an ascending-sorted
// slice by linear interpolation at fractional rank (n-1)*p. p=0 yields the
// minimum and p=1 the maximum, exactly.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	rank := p * float64(n-1)
	lo := int(math.Floor(rank))
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}
