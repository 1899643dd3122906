// Package report renders a simulation run record into a markdown summary.
// The dashboard converts this to HTML; the CLI prints it as-is.
package report

import (
	"fmt"
	"sort"
	"strings"

	"teasim/domain/core"
	"teasim/domain/montecarlo"
	"teasim/domain/scenario"
	"teasim/internal/aggregate"
)

// metricOrder fixes the row order of the metrics table; metrics outside the
// canonical set follow alphabetically.
var metricOrder = []core.MetricKey{
	scenario.MetricNPV,
	scenario.MetricLCOE,
	scenario.MetricIRR,
	scenario.MetricPayback,
	scenario.MetricROI,
}

// HistogramBuckets is the bin count used for the NPV sparkline section.
const HistogramBuckets = 20

// Markdown renders the full run report.
func Markdown(rec *montecarlo.RunRecord) string {
	var b strings.Builder

	title := rec.Label
	if title == "" {
		title = "Simulation run"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "Run `%s`, created %s.\n\n", rec.ID, rec.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	if !core.Hash(rec.Fingerprint).IsEmpty() {
		fmt.Fprintf(&b, "Fingerprint `%s`.\n\n", rec.Fingerprint)
	}

	writeSummary(&b, &rec.Result)
	writeMetrics(&b, &rec.Result)
	writeRisk(&b, rec.Result.Risk)
	writeSensitivity(&b, rec.Result.Sensitivity)
	writeHistogram(&b, &rec.Result)

	return b.String()
}

func writeSummary(b *strings.Builder, r *montecarlo.MonteCarloResult) {
	fmt.Fprintf(b, "## Run summary\n\n")
	fmt.Fprintf(b, "- Iterations: %d requested, %d completed, %d failed\n",
		r.Config.Iterations, r.Metadata.CompletedIterations, r.Metadata.FailedIterations)
	fmt.Fprintf(b, "- Seed: %d\n", r.Config.Seed)
	fmt.Fprintf(b, "- Uncertain parameters: %d\n", r.Metadata.ParametersUsed)
	fmt.Fprintf(b, "- Execution time: %v\n", r.ExecutionTime)
	if r.Metadata.Cancelled {
		fmt.Fprintf(b, "- **Cancelled early; statistics cover the completed portion only.**\n")
	}
	if !r.Metadata.ConvergenceAchieved {
		fmt.Fprintf(b, "- **Warning: fewer than 95%% of iterations completed; results may be unreliable.**\n")
	}
	b.WriteString("\n")
}

func writeMetrics(b *strings.Builder, r *montecarlo.MonteCarloResult) {
	fmt.Fprintf(b, "## Outcome metrics\n\n")
	fmt.Fprintf(b, "| Metric | Mean | Median | Std dev | Min | Max | P5 | P95 |\n")
	fmt.Fprintf(b, "|---|---|---|---|---|---|---|---|\n")
	for _, key := range orderedMetricKeys(r.Metrics) {
		m := r.Metrics[key]
		fmt.Fprintf(b, "| %s | %s | %s | %s | %s | %s | %s | %s |\n",
			key,
			num(m.Mean), num(m.Median), num(m.StdDev),
			num(m.Min), num(m.Max), num(m.Percentiles[5]), num(m.Percentiles[95]))
	}
	b.WriteString("\n")

	for _, ci := range r.Metrics[scenario.MetricNPV].ConfidenceIntervals {
		fmt.Fprintf(b, "- NPV %.0f%% confidence interval: [%s, %s]\n",
			ci.Level*100, num(ci.Lower), num(ci.Upper))
	}
	b.WriteString("\n")
}

func writeRisk(b *strings.Builder, risk montecarlo.RiskMetrics) {
	fmt.Fprintf(b, "## Risk\n\n")
	fmt.Fprintf(b, "- Probability of success (NPV > 0): %.1f%%\n", risk.ProbabilityOfSuccess*100)
	fmt.Fprintf(b, "- Value at Risk 95%% / 99%%: %s / %s\n", num(risk.ValueAtRisk95), num(risk.ValueAtRisk99))
	fmt.Fprintf(b, "- Expected shortfall 95%% / 99%%: %s / %s\n", num(risk.ExpectedShortfall95), num(risk.ExpectedShortfall99))
	fmt.Fprintf(b, "- Downside risk (NPV < %s): %.1f%%\n\n", num(risk.DownsideThreshold), risk.DownsideRisk*100)
}

func writeSensitivity(b *strings.Builder, entries []montecarlo.SensitivityEntry) {
	if len(entries) == 0 {
		return
	}
	fmt.Fprintf(b, "## Sensitivity (correlation screen)\n\n")
	fmt.Fprintf(b, "| Rank | Parameter | Correlation | First-order | Total-order |\n")
	fmt.Fprintf(b, "|---|---|---|---|---|\n")
	for i, e := range entries {
		fmt.Fprintf(b, "| %d | %s | %.3f | %.3f | %.3f |\n",
			i+1, e.Parameter, e.Correlation, e.FirstOrder, e.TotalOrder)
	}
	b.WriteString("\n")
}

// writeHistogram renders the NPV distribution as fixed-width bars. Bar
// length scales to the fullest bucket.
func writeHistogram(b *strings.Builder, r *montecarlo.MonteCarloResult) {
	npv, ok := r.Metrics[scenario.MetricNPV]
	if !ok || len(npv.Distribution) == 0 {
		return
	}
	buckets := aggregate.Histogram(npv.Distribution, HistogramBuckets)

	peak := 0
	for _, bk := range buckets {
		if bk.Count > peak {
			peak = bk.Count
		}
	}
	if peak == 0 {
		return
	}

	fmt.Fprintf(b, "## NPV distribution\n\n```\n")
	for _, bk := range buckets {
		width := bk.Count * 40 / peak
		fmt.Fprintf(b, "%14s  %s %d\n", num(bk.Lo), strings.Repeat("#", width), bk.Count)
	}
	fmt.Fprintf(b, "```\n")
}

func orderedMetricKeys(metrics map[core.MetricKey]montecarlo.MetricStatistics) []core.MetricKey {
	keys := make([]core.MetricKey, 0, len(metrics))
	seen := make(map[core.MetricKey]bool, len(metrics))
	for _, key := range metricOrder {
		if _, ok := metrics[key]; ok {
			keys = append(keys, key)
			seen[key] = true
		}
	}
	extras := make([]core.MetricKey, 0)
	for key := range metrics {
		if !seen[key] {
			extras = append(extras, key)
		}
	}
	sort.Slice(extras, func(i, j int) bool { return extras[i] < extras[j] })
	return append(keys, extras...)
}

// num formats a value for tables: two decimals, thousands left unseparated
// so the output stays grep-friendly.
func num(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
