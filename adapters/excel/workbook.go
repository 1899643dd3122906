// Package excel exports a simulation run record as an Excel workbook for
// analysts who want the raw distributions next to the summary statistics.
package excel

import (
	"fmt"
	"io"
	"sort"

	"github.com/xuri/excelize/v2"

	"teasim/domain/core"
	"teasim/domain/montecarlo"
	"teasim/domain/scenario"
)

// Sheet names in workbook order.
const (
	SheetSummary      = "Summary"
	SheetMetrics      = "Metrics"
	SheetRisk         = "Risk"
	SheetSensitivity  = "Sensitivity"
	SheetDistribution = "Distributions"
)

// Workbook builds the export for one run record.
func Workbook(rec *montecarlo.RunRecord) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := writeSummarySheet(f, rec); err != nil {
		return nil, err
	}
	if err := writeMetricsSheet(f, &rec.Result); err != nil {
		return nil, err
	}
	if err := writeRiskSheet(f, rec.Result.Risk); err != nil {
		return nil, err
	}
	if err := writeSensitivitySheet(f, rec.Result.Sensitivity); err != nil {
		return nil, err
	}
	if err := writeDistributionSheet(f, &rec.Result); err != nil {
		return nil, err
	}

	// excelize seeds new files with "Sheet1"; drop it once the real sheets
	// exist.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}
	if idx, err := f.GetSheetIndex(SheetSummary); err == nil {
		f.SetActiveSheet(idx)
	}
	return f, nil
}

// Write renders the workbook to w (e.g. an HTTP response or a file).
func Write(rec *montecarlo.RunRecord, w io.Writer) error {
	f, err := Workbook(rec)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

// SaveAs renders the workbook to a file path.
func SaveAs(rec *montecarlo.RunRecord, path string) error {
	f, err := Workbook(rec)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(path)
}

func writeSummarySheet(f *excelize.File, rec *montecarlo.RunRecord) error {
	if _, err := f.NewSheet(SheetSummary); err != nil {
		return err
	}
	r := &rec.Result
	rows := [][]interface{}{
		{"Run ID", rec.ID.String()},
		{"Label", rec.Label},
		{"Fingerprint", rec.Fingerprint.String()},
		{"Created", rec.CreatedAt.Format("2006-01-02 15:04:05")},
		{"Iterations requested", r.Config.Iterations},
		{"Iterations completed", r.Metadata.CompletedIterations},
		{"Iterations failed", r.Metadata.FailedIterations},
		{"Seed", r.Config.Seed},
		{"Parameters", r.Metadata.ParametersUsed},
		{"Converged", r.Metadata.ConvergenceAchieved},
		{"Cancelled", r.Metadata.Cancelled},
		{"Execution time", r.ExecutionTime.String()},
	}
	return writeRows(f, SheetSummary, rows)
}

func writeMetricsSheet(f *excelize.File, r *montecarlo.MonteCarloResult) error {
	if _, err := f.NewSheet(SheetMetrics); err != nil {
		return err
	}
	rows := [][]interface{}{
		{"Metric", "Mean", "Median", "Std dev", "Variance", "Min", "Max", "P5", "P25", "P50", "P75", "P95"},
	}
	for _, key := range sortedMetricKeys(r.Metrics) {
		m := r.Metrics[key]
		rows = append(rows, []interface{}{
			key.String(), m.Mean, m.Median, m.StdDev, m.Variance, m.Min, m.Max,
			m.Percentiles[5], m.Percentiles[25], m.Percentiles[50], m.Percentiles[75], m.Percentiles[95],
		})
	}
	return writeRows(f, SheetMetrics, rows)
}

func writeRiskSheet(f *excelize.File, risk montecarlo.RiskMetrics) error {
	if _, err := f.NewSheet(SheetRisk); err != nil {
		return err
	}
	rows := [][]interface{}{
		{"Probability of success", risk.ProbabilityOfSuccess},
		{"VaR 95", risk.ValueAtRisk95},
		{"VaR 99", risk.ValueAtRisk99},
		{"Expected shortfall 95", risk.ExpectedShortfall95},
		{"Expected shortfall 99", risk.ExpectedShortfall99},
		{"Downside risk", risk.DownsideRisk},
		{"Downside threshold", risk.DownsideThreshold},
	}
	return writeRows(f, SheetRisk, rows)
}

func writeSensitivitySheet(f *excelize.File, entries []montecarlo.SensitivityEntry) error {
	if _, err := f.NewSheet(SheetSensitivity); err != nil {
		return err
	}
	rows := [][]interface{}{
		{"Rank", "Parameter", "Correlation", "First-order", "Total-order"},
	}
	for i, e := range entries {
		rows = append(rows, []interface{}{i + 1, e.Parameter.String(), e.Correlation, e.FirstOrder, e.TotalOrder})
	}
	return writeRows(f, SheetSensitivity, rows)
}

// writeDistributionSheet lays out raw distributions column per metric so a
// pivot table or chart can consume them directly.
func writeDistributionSheet(f *excelize.File, r *montecarlo.MonteCarloResult) error {
	if _, err := f.NewSheet(SheetDistribution); err != nil {
		return err
	}
	for col, key := range sortedMetricKeys(r.Metrics) {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(SheetDistribution, cell, key.String()); err != nil {
			return err
		}
		for row, v := range r.Metrics[key].Distribution {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(SheetDistribution, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		for j, v := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return fmt.Errorf("cell (%d,%d): %w", j+1, i+1, err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// sortedMetricKeys puts npv first, then the rest alphabetically, matching
// the markdown report's emphasis.
func sortedMetricKeys(metrics map[core.MetricKey]montecarlo.MetricStatistics) []core.MetricKey {
	keys := make([]core.MetricKey, 0, len(metrics))
	for key := range metrics {
		if key != scenario.MetricNPV {
			keys = append(keys, key)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	if _, ok := metrics[scenario.MetricNPV]; ok {
		keys = append([]core.MetricKey{scenario.MetricNPV}, keys...)
	}
	return keys
}
