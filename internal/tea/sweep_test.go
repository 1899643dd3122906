package tea

import (
	"math"
	"testing"

	"teasim/internal/errors"
)

func TestSweepCapex(t *testing.T) {
	res, err := Sweep(handInputs(), InputCapexPerKW, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.BaseValue != 1000 {
		t.Errorf("base value = %f, want 1000", res.BaseValue)
	}
	if len(res.Variations) != len(DefaultSweepVariations) {
		t.Fatalf("variation count = %d, want %d", len(res.Variations), len(DefaultSweepVariations))
	}

	// The zero-delta point must match a plain evaluation.
	base, err := Evaluate(handInputs())
	if err != nil {
		t.Fatalf("base evaluation: %v", err)
	}
	for i, pct := range res.Variations {
		if pct == 0 {
			if math.Abs(res.NPV[i]-base.NPV) > 1e-9 {
				t.Errorf("zero-delta npv %f != base %f", res.NPV[i], base.NPV)
			}
			if math.Abs(res.LCOE[i]-base.LCOE) > 1e-9 {
				t.Errorf("zero-delta lcoe %f != base %f", res.LCOE[i], base.LCOE)
			}
		}
	}

	// More capex means strictly worse NPV and strictly higher LCOE.
	for i := 1; i < len(res.NPV); i++ {
		if res.NPV[i] >= res.NPV[i-1] {
			t.Errorf("npv must fall as capex rises: npv[%d]=%f npv[%d]=%f", i-1, res.NPV[i-1], i, res.NPV[i])
		}
		if res.LCOE[i] <= res.LCOE[i-1] {
			t.Errorf("lcoe must rise with capex: lcoe[%d]=%f lcoe[%d]=%f", i-1, res.LCOE[i-1], i, res.LCOE[i])
		}
	}
}

func TestSweepDefaultedParameter(t *testing.T) {
	// discount_rate is absent from the base inputs of this case; the sweep
	// must resolve it through the model defaults.
	in := handInputs()
	delete(in, InputDiscountRate)

	res, err := Sweep(in, InputDiscountRate, []float64{-10, 0, 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.BaseValue != DefaultDiscountRate {
		t.Errorf("sweep base = %f, want model default %f", res.BaseValue, DefaultDiscountRate)
	}
}

func TestSweepUnknownParameter(t *testing.T) {
	_, err := Sweep(handInputs(), "flux_capacitance", nil)
	if err == nil {
		t.Fatal("expected an error for an unknown parameter")
	}
	if !errors.HasCode(err, errors.CodeInvalidInput) {
		t.Errorf("expected code %s, got %s", errors.CodeInvalidInput, errors.GetCode(err))
	}
}
