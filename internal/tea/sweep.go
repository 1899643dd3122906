package tea

import (
	"teasim/domain/scenario"
	"teasim/internal/errors"
)

// DefaultSweepVariations are the percent deltas swept when a caller supplies
// none.
var DefaultSweepVariations = []float64{-20, -10, 0, 10, 20}

// SweepResult tracks how LCOE and NPV respond to percentage variations of a
// single input, all other inputs held at their (defaulted) base values.
type SweepResult struct {
	Parameter  string    `json:"parameter"`
	BaseValue  float64   `json:"base_value"`
	Variations []float64 `json:"variations"` // percent deltas, e.g. -20 … +20
	LCOE       []float64 `json:"lcoe"`
	NPV        []float64 `json:"npv"`
}

// Sweep re-evaluates the model once per variation of the named input. The
// swept value is resolved against the merged inputs, so model defaults are
// sweepable without being spelled out in the base.
func Sweep(base scenario.Inputs, parameter string, variations []float64) (*SweepResult, error) {
	if len(variations) == 0 {
		variations = DefaultSweepVariations
	}

	merged := Merged(base)
	baseValue, ok := merged[parameter]
	if !ok {
		return nil, errors.InvalidInput("unknown sweep parameter " + parameter)
	}

	result := &SweepResult{
		Parameter:  parameter,
		BaseValue:  baseValue,
		Variations: variations,
		LCOE:       make([]float64, 0, len(variations)),
		NPV:        make([]float64, 0, len(variations)),
	}

	for _, pct := range variations {
		modified := merged.Clone()
		modified[parameter] = baseValue * (1 + pct/100)

		ev, err := Evaluate(modified)
		if err != nil {
			return nil, errors.Wrapf(err, "sweep %s at %+.0f%%", parameter, pct)
		}
		result.LCOE = append(result.LCOE, ev.LCOE)
		result.NPV = append(result.NPV, ev.NPV)
	}
	return result, nil
}
