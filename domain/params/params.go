package params

import (
	"fmt"

	"teasim/domain/core"
)

// DistributionKind tags the probability distribution assigned to an
// uncertain parameter.
type DistributionKind string

const (
	DistributionNormal     DistributionKind = "normal"
	DistributionLogNormal  DistributionKind = "lognormal"
	DistributionUniform    DistributionKind = "uniform"
	DistributionTriangular DistributionKind = "triangular"
	DistributionBeta       DistributionKind = "beta"
)

// Known reports whether the tag names a supported distribution.
func (k DistributionKind) Known() bool {
	switch k {
	case DistributionNormal, DistributionLogNormal, DistributionUniform,
		DistributionTriangular, DistributionBeta:
		return true
	}
	return false
}

// Distribution parameter map keys. Missing entries are defaulted from the
// parameter's base value at sampling time.
const (
	ParamMean   = "mean"
	ParamStdDev = "stdDev"
	ParamMin    = "min"
	ParamMax    = "max"
	ParamMode   = "mode"
	ParamAlpha  = "alpha"
	ParamBeta   = "beta"
)

// UncertainParameter identifies one base-input field being randomized for a
// simulation run. Immutable once constructed; the sampler never mutates it.
//
// INVARIANTS:
// - Name keys into the base scenario inputs; an unmatched name samples but
//   overrides nothing (documented no-op, never an error).
// - Distribution is one of the DistributionKind tags.
// - DistributionParams holds only the distribution-specific fields; absent
//   fields are derived from BaseValue when sampling.
type UncertainParameter struct {
	Name               core.ParameterKey  `json:"name"`
	BaseValue          float64            `json:"base_value"`
	Unit               string             `json:"unit,omitempty"`
	Distribution       DistributionKind   `json:"distribution"`
	DistributionParams map[string]float64 `json:"distribution_params,omitempty"`
	Source             string             `json:"source,omitempty"`
	Confidence         float64            `json:"confidence,omitempty"` // 0-100, informational only
}

// Param returns the named distribution parameter and whether it was
// explicitly provided.
func (p UncertainParameter) Param(key string) (float64, bool) {
	if p.DistributionParams == nil {
		return 0, false
	}
	v, ok := p.DistributionParams[key]
	return v, ok
}

// Validate checks the parts of a parameter that cannot be repaired by
// defaulting: the distribution tag must be known, and explicitly supplied
// distribution parameters must be coherent. Missing parameters are fine;
// the sampler derives them from the base value.
func (p UncertainParameter) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("parameter name cannot be empty")
	}
	if !p.Distribution.Known() {
		return fmt.Errorf("parameter %q: unsupported distribution %q", p.Name, p.Distribution)
	}

	switch p.Distribution {
	case DistributionNormal, DistributionLogNormal:
		if sd, ok := p.Param(ParamStdDev); ok && sd < 0 {
			return fmt.Errorf("parameter %q: stdDev must be >= 0, got %v", p.Name, sd)
		}
	case DistributionUniform:
		if err := p.validateBounds(); err != nil {
			return err
		}
	case DistributionTriangular:
		if err := p.validateBounds(); err != nil {
			return err
		}
		mode, hasMode := p.Param(ParamMode)
		min, hasMin := p.Param(ParamMin)
		max, hasMax := p.Param(ParamMax)
		if hasMode && hasMin && hasMax && (mode < min || mode > max) {
			return fmt.Errorf("parameter %q: mode %v outside [%v, %v]", p.Name, mode, min, max)
		}
	case DistributionBeta:
		if a, ok := p.Param(ParamAlpha); ok && a <= 0 {
			return fmt.Errorf("parameter %q: alpha must be > 0, got %v", p.Name, a)
		}
		if b, ok := p.Param(ParamBeta); ok && b <= 0 {
			return fmt.Errorf("parameter %q: beta must be > 0, got %v", p.Name, b)
		}
		if err := p.validateBounds(); err != nil {
			return err
		}
	}
	return nil
}

func (p UncertainParameter) validateBounds() error {
	min, hasMin := p.Param(ParamMin)
	max, hasMax := p.Param(ParamMax)
	if hasMin && hasMax && min > max {
		return fmt.Errorf("parameter %q: min %v exceeds max %v", p.Name, min, max)
	}
	return nil
}

// ValidateAll validates a parameter list; the first problem found is
// returned so configuration errors surface before any iteration runs.
func ValidateAll(list []UncertainParameter) error {
	for i := range list {
		if err := list[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}
