package sampling

import (
	"testing"

	"teasim/domain/params"
	"teasim/domain/scenario"
)

func TestScenarioBuilder_OverridesMatchedFields(t *testing.T) {
	base := scenario.Inputs{
		"capacity_mw":  50,
		"capex_per_kw": 1200,
		"opex_per_kw_year": 25,
	}
	builder := NewScenarioBuilder(base)

	list := []params.UncertainParameter{
		{Name: "capex_per_kw", BaseValue: 1200, Distribution: params.DistributionNormal},
	}
	out := builder.Build(list, []float64{1350})

	if out["capex_per_kw"] != 1350 {
		t.Errorf("capex_per_kw not overridden: got %v, want 1350", out["capex_per_kw"])
	}
	if out["capacity_mw"] != 50 || out["opex_per_kw_year"] != 25 {
		t.Error("Untouched fields were modified")
	}
}

func TestScenarioBuilder_UnknownNameIsNoOp(t *testing.T) {
	base := scenario.Inputs{"capacity_mw": 50}
	builder := NewScenarioBuilder(base)

	list := []params.UncertainParameter{
		{Name: "no_such_field", BaseValue: 1, Distribution: params.DistributionNormal},
	}
	out := builder.Build(list, []float64{123.4})

	if len(out) != 1 {
		t.Fatalf("Unknown name added a field: %v", out)
	}
	if out["capacity_mw"] != 50 {
		t.Errorf("Base field changed: %v", out["capacity_mw"])
	}
	if _, exists := out["no_such_field"]; exists {
		t.Error("Unmatched parameter name must not create a new input field")
	}
}

func TestScenarioBuilder_DoesNotMutateBase(t *testing.T) {
	base := scenario.Inputs{"capex_per_kw": 1200}
	builder := NewScenarioBuilder(base)

	list := []params.UncertainParameter{
		{Name: "capex_per_kw", BaseValue: 1200, Distribution: params.DistributionNormal},
	}
	_ = builder.Build(list, []float64{900})

	if base["capex_per_kw"] != 1200 {
		t.Errorf("Base inputs mutated: %v", base["capex_per_kw"])
	}
}
