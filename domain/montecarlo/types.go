package montecarlo

import (
	"time"

	"teasim/domain/core"
)

// DefaultIterations is the iteration count used when a caller leaves it
// unset at an application surface. The engine itself rejects zero.
const DefaultIterations = 10000

// DefaultConfidenceLevels are applied when a config carries none.
var DefaultConfidenceLevels = []float64{0.90, 0.95}

// StandardPercentiles are computed for every metric distribution.
var StandardPercentiles = []int{5, 10, 25, 50, 75, 90, 95}

// SimulationConfig controls one Monte Carlo run.
//
// ParallelBatches is an execution-granularity hint only: any value (including
// zero) must yield numerically identical results for the same seed.
// EnableCorrelations is advisory; sampling remains independent per parameter.
type SimulationConfig struct {
	Iterations         int       `json:"iterations"`
	Seed               int64     `json:"seed,omitempty"`
	ConfidenceLevels   []float64 `json:"confidence_levels,omitempty"`
	EnableCorrelations bool      `json:"enable_correlations,omitempty"`
	ParallelBatches    int       `json:"parallel_batches,omitempty"`
}

// ConfidenceInterval brackets the central mass at one confidence level:
// for level L, Lower is the (1-L)/2 quantile and Upper the 1-(1-L)/2 one.
type ConfidenceInterval struct {
	Level float64 `json:"level"`
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Diagnostics carries distribution-shape indicators computed alongside the
// base statistics. NormalityStat is a two-degree chi-squared omnibus
// statistic over standardized skewness and kurtosis; NormalityP its p-value.
type Diagnostics struct {
	Skewness      float64 `json:"skewness"`
	Kurtosis      float64 `json:"kurtosis"` // excess kurtosis, normal = 0
	NormalityStat float64 `json:"normality_stat,omitempty"`
	NormalityP    float64 `json:"normality_p,omitempty"`
}

// MetricStatistics summarizes one metric's sampled distribution.
//
// Distribution retains the raw per-iteration values (in iteration order) so
// downstream layers can rebuild histograms; it is never truncated here.
type MetricStatistics struct {
	Mean                float64              `json:"mean"`
	Median              float64              `json:"median"`
	StdDev              float64              `json:"std_dev"`
	Variance            float64              `json:"variance"`
	Min                 float64              `json:"min"`
	Max                 float64              `json:"max"`
	Percentiles         map[int]float64      `json:"percentiles"`
	ConfidenceIntervals []ConfidenceInterval `json:"confidence_intervals"`
	Diagnostics         Diagnostics          `json:"diagnostics"`
	Distribution        []float64            `json:"distribution"`
}

// RiskMetrics are derived from the NPV distribution specifically; positive
// NPV means a viable project.
type RiskMetrics struct {
	ProbabilityOfSuccess float64 `json:"probability_of_success"`
	ValueAtRisk95        float64 `json:"value_at_risk_95"`
	ValueAtRisk99        float64 `json:"value_at_risk_99"`
	ExpectedShortfall95  float64 `json:"expected_shortfall_95"`
	ExpectedShortfall99  float64 `json:"expected_shortfall_99"`
	DownsideRisk         float64 `json:"downside_risk"`
	DownsideThreshold    float64 `json:"downside_threshold"`
}

// SensitivityEntry ranks one uncertain parameter's influence on NPV.
// FirstOrder approximates a first-order effect as correlation squared;
// TotalOrder inflates it by a fixed heuristic factor and is NOT a rigorous
// Sobol total-order index.
type SensitivityEntry struct {
	Parameter   core.ParameterKey `json:"parameter"`
	FirstOrder  float64           `json:"first_order"`
	TotalOrder  float64           `json:"total_order"`
	Correlation float64           `json:"correlation"`
}

// RunMetadata reports how the run went. ConvergenceAchieved means at least
// 95% of requested iterations completed; callers should treat false as a
// warning, not a failure.
type RunMetadata struct {
	CompletedIterations int  `json:"completed_iterations"`
	FailedIterations    int  `json:"failed_iterations"`
	ConvergenceAchieved bool `json:"convergence_achieved"`
	ParametersUsed      int  `json:"parameters_used"`
	Cancelled           bool `json:"cancelled,omitempty"`
}

// MonteCarloResult is the complete outcome of one run: plain data, safe to
// serialize, created fresh per invocation.
type MonteCarloResult struct {
	Config        SimulationConfig                   `json:"config"`
	Iterations    int                                `json:"iterations"` // attempted = completed + failed
	ExecutionTime time.Duration                      `json:"execution_time"`
	Metrics       map[core.MetricKey]MetricStatistics `json:"metrics"`
	Risk          RiskMetrics                        `json:"risk"`
	Sensitivity   []SensitivityEntry                 `json:"sensitivity"`
	Metadata      RunMetadata                        `json:"metadata"`
}

// RunRecord wraps a result with application-level identity for persistence
// and display. The engine itself never constructs one.
//
// Fingerprint is the run's reproducibility identity: it hashes the echoed
// seed, iteration count, and full parameter set, so two records with equal
// fingerprints must hold identical distributions for the same evaluator.
type RunRecord struct {
	ID          core.RunID          `json:"id"`
	Label       string              `json:"label,omitempty"`
	Fingerprint core.RunFingerprint `json:"fingerprint"`
	CreatedAt   time.Time           `json:"created_at"`
	Result      MonteCarloResult    `json:"result"`
}
