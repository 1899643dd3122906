package sampling

import (
	"teasim/domain/params"
	"teasim/domain/scenario"
)

// ScenarioBuilder produces perturbed evaluator inputs from a read-only base.
// The base is cloned per build; iterations never share mutable state.
type ScenarioBuilder struct {
	base scenario.Inputs
}

// NewScenarioBuilder wraps the base inputs for a run.
func NewScenarioBuilder(base scenario.Inputs) *ScenarioBuilder {
	return &ScenarioBuilder{base: base}
}

// Base returns the unperturbed inputs.
func (b *ScenarioBuilder) Base() scenario.Inputs {
	return b.base
}

// Build clones the base inputs and overwrites each field named by a
// parameter with its drawn value. A name with no matching base field is
// skipped: the draw has no effect on the scenario. That is deliberate — a
// single mismatched key must not abort or distort a ten-thousand-iteration
// run, and the unmatched draws still feed the sensitivity ranking (where
// they show up as uncorrelated).
func (b *ScenarioBuilder) Build(list []params.UncertainParameter, draws []float64) scenario.Inputs {
	out := b.base.Clone()
	for i := range list {
		name := string(list[i].Name)
		if _, ok := out[name]; !ok {
			continue
		}
		out[name] = draws[i]
	}
	return out
}
