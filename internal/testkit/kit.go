// Package testkit provides fixtures shared by tests and demo surfaces: a
// canned solar-project base input, a matching uncertain-parameter set, and
// synthetic evaluators with known closed-form behavior.
package testkit

import (
	"context"

	"teasim/domain/params"
	"teasim/domain/scenario"
	"teasim/internal/errors"
	"teasim/internal/tea"
	"teasim/ports"
)

// SolarBaseInputs returns the base input of the reference 100 MW solar
// study. Values track the original project assumptions; tests depend on
// them staying put.
func SolarBaseInputs() scenario.Inputs {
	return scenario.Inputs{
		tea.InputCapacityMW:       100,
		tea.InputCapexPerKW:       900,
		tea.InputOpexPerKWYear:    15,
		tea.InputCapacityFactor:   0.24,
		tea.InputDiscountRate:     0.08,
		tea.InputElectricityPrice: 55,
		tea.InputLifetimeYears:    25,
	}
}

// SolarParameters returns the uncertain-parameter set of the reference
// study: one parameter per supported distribution kind.
func SolarParameters() []params.UncertainParameter {
	return []params.UncertainParameter{
		{
			Name:         "capex_per_kw",
			BaseValue:    900,
			Unit:         "USD/kW",
			Distribution: params.DistributionTriangular,
			DistributionParams: map[string]float64{
				params.ParamMin:  750,
				params.ParamMode: 900,
				params.ParamMax:  1150,
			},
			Source:     "vendor quotes 2024",
			Confidence: 70,
		},
		{
			Name:         "capacity_factor",
			BaseValue:    0.24,
			Distribution: params.DistributionNormal,
			DistributionParams: map[string]float64{
				params.ParamMean:   0.24,
				params.ParamStdDev: 0.02,
			},
			Source:     "resource assessment",
			Confidence: 85,
		},
		{
			Name:         "electricity_price_per_mwh",
			BaseValue:    55,
			Unit:         "USD/MWh",
			Distribution: params.DistributionUniform,
			DistributionParams: map[string]float64{
				params.ParamMin: 45,
				params.ParamMax: 70,
			},
			Source: "market forecast band",
		},
		{
			Name:         "opex_per_kw_year",
			BaseValue:    15,
			Unit:         "USD/kW/yr",
			Distribution: params.DistributionBeta,
			DistributionParams: map[string]float64{
				params.ParamAlpha: 2,
				params.ParamBeta:  3,
				params.ParamMin:   12,
				params.ParamMax:   22,
			},
		},
		{
			Name:         "discount_rate",
			BaseValue:    0.08,
			Distribution: params.DistributionLogNormal,
			DistributionParams: map[string]float64{
				params.ParamMean:   -2.53, // ln(0.08)
				params.ParamStdDev: 0.10,
			},
		},
	}
}

// LinearEvaluator prices a scenario as npv = Intercept + Slope*inputs[Field]
// and echoes constant values for the remaining canonical metrics. The
// closed-form mean makes it the evaluator of choice for convergence
// assertions.
type LinearEvaluator struct {
	Field     string
	Intercept float64
	Slope     float64
}

// Evaluate implements ports.Evaluator.
func (e LinearEvaluator) Evaluate(_ context.Context, inputs scenario.Inputs) (scenario.Metrics, error) {
	v, ok := inputs.Get(e.Field)
	if !ok {
		v = 0
	}
	return scenario.Metrics{
		scenario.MetricNPV:     e.Intercept + e.Slope*v,
		scenario.MetricLCOE:    42,
		scenario.MetricIRR:     0.1,
		scenario.MetricPayback: 8,
		scenario.MetricROI:     0.5,
	}, nil
}

// FailingEvaluator fails every Nth call (1-based); other calls delegate to
// the wrapped evaluator. Call order is the instance's own state, so use a
// fresh instance per run and only with sequential execution.
type FailingEvaluator struct {
	Inner    ports.Evaluator
	EveryNth int
	calls    int
}

// Evaluate implements ports.Evaluator.
func (e *FailingEvaluator) Evaluate(ctx context.Context, inputs scenario.Inputs) (scenario.Metrics, error) {
	e.calls++
	if e.EveryNth > 0 && e.calls%e.EveryNth == 0 {
		return nil, errors.New(errors.CodeEvaluationFailed, "synthetic failure")
	}
	return e.Inner.Evaluate(ctx, inputs)
}
