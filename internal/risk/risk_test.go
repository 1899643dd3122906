package risk

import (
	"math"
	"testing"

	"teasim/internal/random"
)

// ascending 1..100
func rangeValues(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i + 1)
	}
	return out
}

func TestAnalyze_KnownQuantiles(t *testing.T) {
	a := NewAnalyzer()
	m := a.Analyze(rangeValues(100))

	// VaR95 = 5th percentile at fractional rank 0.05*99 = 4.95.
	if math.Abs(m.ValueAtRisk95-5.95) > 1e-9 {
		t.Errorf("VaR95 = %v, want 5.95", m.ValueAtRisk95)
	}
	// VaR99 at rank 0.01*99 = 0.99.
	if math.Abs(m.ValueAtRisk99-1.99) > 1e-9 {
		t.Errorf("VaR99 = %v, want 1.99", m.ValueAtRisk99)
	}
	// ES95 = mean of worst 5 values = 3; ES99 = worst single value = 1.
	if math.Abs(m.ExpectedShortfall95-3) > 1e-9 {
		t.Errorf("ES95 = %v, want 3", m.ExpectedShortfall95)
	}
	if math.Abs(m.ExpectedShortfall99-1) > 1e-9 {
		t.Errorf("ES99 = %v, want 1", m.ExpectedShortfall99)
	}
	// All values positive.
	if m.ProbabilityOfSuccess != 1 {
		t.Errorf("ProbabilityOfSuccess = %v, want 1", m.ProbabilityOfSuccess)
	}
}

func TestAnalyze_ProbabilityOfSuccessIsStrict(t *testing.T) {
	a := NewAnalyzer()
	// -50..49: exactly 49 strictly positive values, zero is not a success.
	values := make([]float64, 100)
	for i := range values {
		values[i] = float64(i - 50)
	}
	m := a.Analyze(values)
	if math.Abs(m.ProbabilityOfSuccess-0.49) > 1e-12 {
		t.Errorf("ProbabilityOfSuccess = %v, want 0.49", m.ProbabilityOfSuccess)
	}
}

func TestAnalyze_RiskConsistency(t *testing.T) {
	g := random.New(42)
	values := make([]float64, 5000)
	for i := range values {
		values[i] = g.Normal(100, 500)
	}

	m := NewAnalyzer().Analyze(values)
	if m.ValueAtRisk99 > m.ValueAtRisk95 {
		t.Errorf("VaR99 (%v) must not exceed VaR95 (%v)", m.ValueAtRisk99, m.ValueAtRisk95)
	}
	if m.ExpectedShortfall99 > m.ExpectedShortfall95 {
		t.Errorf("ES99 (%v) must not exceed ES95 (%v)", m.ExpectedShortfall99, m.ExpectedShortfall95)
	}
	if m.ExpectedShortfall95 > m.ValueAtRisk95 {
		t.Errorf("ES95 (%v) must not exceed VaR95 (%v)", m.ExpectedShortfall95, m.ValueAtRisk95)
	}
}

func TestAnalyze_ShortfallFallsBackToWorstValue(t *testing.T) {
	a := NewAnalyzer()
	m := a.Analyze([]float64{10, -30, 5, 2, 8})

	// floor(0.01*5) = 0, so the worst single value stands in.
	if m.ExpectedShortfall99 != -30 {
		t.Errorf("ES99 fallback = %v, want -30", m.ExpectedShortfall99)
	}
}

func TestAnalyze_DownsideThreshold(t *testing.T) {
	a := NewAnalyzer(WithDownsideThreshold(-10))
	m := a.Analyze([]float64{-50, -11, -10, 0, 20})

	// Strictly below -10: two values (-50 and -11).
	if math.Abs(m.DownsideRisk-0.4) > 1e-12 {
		t.Errorf("DownsideRisk = %v, want 0.4", m.DownsideRisk)
	}
	if m.DownsideThreshold != -10 {
		t.Errorf("Threshold not echoed: %v", m.DownsideThreshold)
	}
}

func TestAnalyze_DefaultThresholdEchoed(t *testing.T) {
	m := NewAnalyzer().Analyze([]float64{1, 2, 3})
	if m.DownsideThreshold != DefaultDownsideThreshold {
		t.Errorf("Default threshold = %v, want %v", m.DownsideThreshold, DefaultDownsideThreshold)
	}
	if m.DownsideRisk != 0 {
		t.Errorf("DownsideRisk = %v, want 0", m.DownsideRisk)
	}
}

func TestAnalyze_EmptyDistribution(t *testing.T) {
	m := NewAnalyzer().Analyze(nil)
	if m.ProbabilityOfSuccess != 0 || m.ValueAtRisk95 != 0 {
		t.Errorf("Empty distribution should yield a zero block, got %+v", m)
	}
}
