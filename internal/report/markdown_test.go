package report

import (
	"strings"
	"testing"
	"time"

	"teasim/domain/core"
	"teasim/domain/montecarlo"
)

func sampleRecord() *montecarlo.RunRecord {
	dist := []float64{-200, 100, 300, 500, 700}
	return &montecarlo.RunRecord{
		ID:          core.RunID("run-1"),
		Label:       "Solar 100 MW",
		Fingerprint: core.RunFingerprint("deadbeef"),
		CreatedAt:   time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC),
		Result: montecarlo.MonteCarloResult{
			Config: montecarlo.SimulationConfig{Iterations: 5, Seed: 42},
			Metrics: map[core.MetricKey]montecarlo.MetricStatistics{
				"npv": {
					Mean: 280, Median: 300, StdDev: 310, Min: -200, Max: 700,
					Percentiles: map[int]float64{5: -140, 95: 660},
					ConfidenceIntervals: []montecarlo.ConfidenceInterval{
						{Level: 0.90, Lower: -140, Upper: 660},
					},
					Distribution: dist,
				},
				"lcoe": {
					Mean: 42, Median: 42, Min: 40, Max: 44,
					Percentiles:  map[int]float64{5: 40.2, 95: 43.8},
					Distribution: []float64{40, 41, 42, 43, 44},
				},
			},
			Risk: montecarlo.RiskMetrics{
				ProbabilityOfSuccess: 0.8,
				ValueAtRisk95:        -140,
				ValueAtRisk99:        -188,
				DownsideThreshold:    -1_000_000,
			},
			Sensitivity: []montecarlo.SensitivityEntry{
				{Parameter: "capex_per_kw", Correlation: -0.9, FirstOrder: 0.81, TotalOrder: 0.93},
			},
			Metadata: montecarlo.RunMetadata{
				CompletedIterations: 5,
				ConvergenceAchieved: true,
				ParametersUsed:      1,
			},
		},
	}
}

func TestMarkdownSections(t *testing.T) {
	md := Markdown(sampleRecord())

	for _, want := range []string{
		"# Solar 100 MW",
		"## Run summary",
		"## Outcome metrics",
		"## Risk",
		"## Sensitivity",
		"## NPV distribution",
		"| npv |",
		"capex_per_kw",
		"Probability of success (NPV > 0): 80.0%",
		"Fingerprint `deadbeef`",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("report missing %q", want)
		}
	}

	if strings.Contains(md, "may be unreliable") {
		t.Error("converged run must not carry the convergence warning")
	}
}

func TestMarkdownNPVBeforeLCOE(t *testing.T) {
	md := Markdown(sampleRecord())
	if strings.Index(md, "| npv |") > strings.Index(md, "| lcoe |") {
		t.Error("npv row must precede lcoe in the metrics table")
	}
}

func TestMarkdownWarnsOnNonConvergence(t *testing.T) {
	rec := sampleRecord()
	rec.Result.Metadata.ConvergenceAchieved = false
	rec.Result.Metadata.FailedIterations = 3

	md := Markdown(rec)
	if !strings.Contains(md, "may be unreliable") {
		t.Error("non-converged run must carry the warning line")
	}
}

func TestMarkdownUntitledRun(t *testing.T) {
	rec := sampleRecord()
	rec.Label = ""
	if md := Markdown(rec); !strings.Contains(md, "# Simulation run") {
		t.Errorf("untitled run should fall back to the generic title, got:\n%s", md[:80])
	}
}
