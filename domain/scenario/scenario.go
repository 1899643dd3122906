package scenario

import "teasim/domain/core"

// Canonical metric keys produced by every conforming evaluator. Evaluators
// may emit extras; these five are always tracked when present.
const (
	MetricLCOE    core.MetricKey = "lcoe"
	MetricNPV     core.MetricKey = "npv"
	MetricIRR     core.MetricKey = "irr"
	MetricPayback core.MetricKey = "paybackSimple"
	MetricROI     core.MetricKey = "roi"
)

// Inputs is one concrete set of evaluator inputs: named numeric fields.
// The base inputs act as the template for a run; each iteration works on
// its own perturbed clone.
type Inputs map[string]float64

// Clone returns an independent copy of the inputs.
func (in Inputs) Clone() Inputs {
	out := make(Inputs, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// Get returns the named field and whether it exists.
func (in Inputs) Get(name string) (float64, bool) {
	v, ok := in[name]
	return v, ok
}

// Metrics is one evaluation outcome: metric key to numeric value.
type Metrics map[core.MetricKey]float64

// Clone returns an independent copy of the metrics.
func (m Metrics) Clone() Metrics {
	out := make(Metrics, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
