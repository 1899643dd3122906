package excel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teasim/domain/core"
	"teasim/domain/montecarlo"
)

func testRecord() *montecarlo.RunRecord {
	return &montecarlo.RunRecord{
		ID:          core.RunID("run-xlsx"),
		Label:       "export test",
		Fingerprint: core.RunFingerprint("abc123"),
		CreatedAt:   time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC),
		Result: montecarlo.MonteCarloResult{
			Config: montecarlo.SimulationConfig{Iterations: 3, Seed: 7},
			Metrics: map[core.MetricKey]montecarlo.MetricStatistics{
				"npv": {
					Mean: 200, Median: 200, Min: 100, Max: 300,
					Percentiles:  map[int]float64{5: 110, 25: 150, 50: 200, 75: 250, 95: 290},
					Distribution: []float64{100, 200, 300},
				},
				"lcoe": {
					Mean: 45, Median: 45, Min: 44, Max: 46,
					Percentiles:  map[int]float64{5: 44.1, 25: 44.5, 50: 45, 75: 45.5, 95: 45.9},
					Distribution: []float64{44, 45, 46},
				},
			},
			Risk: montecarlo.RiskMetrics{ProbabilityOfSuccess: 1, DownsideThreshold: -1_000_000},
			Sensitivity: []montecarlo.SensitivityEntry{
				{Parameter: "capex_per_kw", Correlation: -0.8, FirstOrder: 0.64, TotalOrder: 0.736},
			},
			Metadata: montecarlo.RunMetadata{CompletedIterations: 3, ConvergenceAchieved: true, ParametersUsed: 1},
		},
	}
}

func TestWorkbookSheets(t *testing.T) {
	f, err := Workbook(testRecord())
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	for _, want := range []string{SheetSummary, SheetMetrics, SheetRisk, SheetSensitivity, SheetDistribution} {
		assert.Contains(t, sheets, want)
	}
	assert.NotContains(t, sheets, "Sheet1", "default sheet should be removed")

	// Identity rows on the summary sheet.
	fp, err := f.GetCellValue(SheetSummary, "B3")
	require.NoError(t, err)
	assert.Equal(t, "abc123", fp)
}

func TestWorkbookMetricsLayout(t *testing.T) {
	f, err := Workbook(testRecord())
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue(SheetMetrics, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Metric", header)

	// npv leads the metric rows regardless of map order.
	first, err := f.GetCellValue(SheetMetrics, "A2")
	require.NoError(t, err)
	assert.Equal(t, "npv", first)

	// Distributions sheet: npv column header then raw values.
	head, err := f.GetCellValue(SheetDistribution, "A1")
	require.NoError(t, err)
	assert.Equal(t, "npv", head)
	v, err := f.GetCellValue(SheetDistribution, "A2")
	require.NoError(t, err)
	assert.Equal(t, "100", v)
}
