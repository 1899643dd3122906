// Package risk derives decision-relevant indicators from the NPV
// distribution of a simulation run. Domain convention: positive NPV means a
// viable project, so "loss" here is the left tail.
package risk

import (
	"math"
	"sort"

	"teasim/domain/montecarlo"
	"teasim/internal/aggregate"
)

// DefaultDownsideThreshold is the catastrophic-loss cutoff applied when no
// override is given: an NPV below -1,000,000 in the evaluator's currency
// units counts as a downside event. That line suits the utility-scale
// projects this engine was built for; smaller studies should override it
// with WithDownsideThreshold.
const DefaultDownsideThreshold = -1_000_000

// Analyzer computes risk metrics from an NPV distribution.
type Analyzer struct {
	downsideThreshold float64
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithDownsideThreshold overrides the catastrophic-loss cutoff.
func WithDownsideThreshold(threshold float64) Option {
	return func(a *Analyzer) {
		a.downsideThreshold = threshold
	}
}

// NewAnalyzer creates an Analyzer with the default downside threshold.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{downsideThreshold: DefaultDownsideThreshold}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze derives the full risk block. VaR at level L is the (1-L)-quantile
// of NPV; expected shortfall at L averages the worst (1-L) fraction of
// outcomes. An empty distribution returns a zero block (the aggregation
// stage has already surfaced that as a hard error).
func (a *Analyzer) Analyze(npv []float64) montecarlo.RiskMetrics {
	out := montecarlo.RiskMetrics{DownsideThreshold: a.downsideThreshold}
	n := len(npv)
	if n == 0 {
		return out
	}

	sorted := make([]float64, n)
	copy(sorted, npv)
	sort.Float64s(sorted)

	successes := 0
	downside := 0
	for _, v := range npv {
		if v > 0 {
			successes++
		}
		if v < a.downsideThreshold {
			downside++
		}
	}

	out.ProbabilityOfSuccess = float64(successes) / float64(n)
	out.DownsideRisk = float64(downside) / float64(n)
	out.ValueAtRisk95 = aggregate.Percentile(sorted, 0.05)
	out.ValueAtRisk99 = aggregate.Percentile(sorted, 0.01)
	out.ExpectedShortfall95 = expectedShortfall(sorted, 0.95)
	out.ExpectedShortfall99 = expectedShortfall(sorted, 0.99)
	return out
}

// expectedShortfall averages the worst (1-level) fraction of the sorted
// outcomes. When that slice rounds down to nothing (tiny n), the single
// worst observation stands in rather than dividing by zero.
func expectedShortfall(sorted []float64, level float64) float64 {
	tail := int(math.Floor((1 - level) * float64(len(sorted))))
	if tail < 1 {
		tail = 1
	}
	sum := 0.0
	for _, v := range sorted[:tail] {
		sum += v
	}
	return sum / float64(tail)
}
