package core

import (
	"testing"
)

func fingerprintParams() map[string]map[string]float64 {
	return map[string]map[string]float64{
		"capex_per_kw/triangular": {"min": 80, "mode": 100, "max": 130, "base": 100},
		"capacity_factor/normal":  {"base": 0.24, "stdDev": 0.02},
	}
}

// TestComputeRunFingerprintDeterministic verifies the fingerprint is stable
// across invocations and independent of map construction order.
func TestComputeRunFingerprintDeterministic(t *testing.T) {
	a := ComputeRunFingerprint(42, 10000, fingerprintParams())

	// Rebuild with the entries inserted in the opposite order.
	reordered := map[string]map[string]float64{
		"capacity_factor/normal":  {"stdDev": 0.02, "base": 0.24},
		"capex_per_kw/triangular": {"base": 100, "max": 130, "mode": 100, "min": 80},
	}
	b := ComputeRunFingerprint(42, 10000, reordered)

	if a != b {
		t.Errorf("Fingerprint depends on map order: %s vs %s", a, b)
	}
	if Hash(a).IsEmpty() {
		t.Error("Fingerprint should never be empty")
	}
}

func TestComputeRunFingerprintSensitivity(t *testing.T) {
	base := ComputeRunFingerprint(42, 10000, fingerprintParams())

	if got := ComputeRunFingerprint(43, 10000, fingerprintParams()); got == base {
		t.Error("Different seeds must produce different fingerprints")
	}
	if got := ComputeRunFingerprint(42, 5000, fingerprintParams()); got == base {
		t.Error("Different iteration counts must produce different fingerprints")
	}

	widened := fingerprintParams()
	widened["capex_per_kw/triangular"]["max"] = 150
	if got := ComputeRunFingerprint(42, 10000, widened); got == base {
		t.Error("Different distribution parameters must produce different fingerprints")
	}
}
