package tea

import (
	"context"

	"teasim/domain/scenario"
)

// Evaluator adapts the model to the simulation engine's evaluation port. It
// is stateless; a single instance serves concurrent iterations.
type Evaluator struct{}

// NewEvaluator creates the adapter.
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Evaluate runs the model and reports the canonical metric set.
func (e *Evaluator) Evaluate(ctx context.Context, inputs scenario.Inputs) (scenario.Metrics, error) {
	ev, err := Evaluate(inputs)
	if err != nil {
		return nil, err
	}
	return scenario.Metrics{
		scenario.MetricLCOE:    ev.LCOE,
		scenario.MetricNPV:     ev.NPV,
		scenario.MetricIRR:     ev.IRR,
		scenario.MetricPayback: ev.PaybackYears,
		scenario.MetricROI:     ev.ROI,
	}, nil
}
