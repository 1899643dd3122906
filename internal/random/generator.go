// Package random provides the seeded pseudorandom core for simulation runs.
//
// Generation is a 32-bit linear congruential recurrence with the classic
// Numerical Recipes constants. The generator is deliberately simple: runs
// must be reproducible from a seed across repeated invocations, and every
// draw must be attributable to exactly one generator instance — no package
// or process-global state is involved.
package random

import "math"

// Numerical Recipes LCG constants: state' = (state*a + c) mod 2^32.
const (
	lcgMultiplier uint64 = 1664525
	lcgIncrement  uint64 = 1013904223
	lcgModulus    uint64 = 1 << 32
)

// goldenGamma spaces derived stream seeds; any odd constant with good bit
// dispersion works, this is the 32-bit golden ratio.
const goldenGamma int64 = 0x9E3779B9

// Generator produces uniform draws and derived distribution samples from a
// single integer state. Not safe for concurrent use; give each worker its
// own instance.
type Generator struct {
	state uint64
}

// New returns a generator with the given seed.
func New(seed int64) *Generator {
	g := &Generator{}
	g.Reseed(seed)
	return g
}

// Reseed fully resets the generator: the prior state is discarded and the
// sequence restarts exactly as a fresh New(seed) would.
func (g *Generator) Reseed(seed int64) {
	// Fold the 64-bit seed onto the 32-bit state space.
	g.state = uint64(uint32(seed ^ (seed >> 32)))
}

// DeriveSeed maps (baseSeed, stream) to a child seed so that independent
// blocks of a run draw from disjoint deterministic sequences.
func DeriveSeed(baseSeed int64, stream int) int64 {
	return baseSeed + int64(stream+1)*goldenGamma
}

// Uniform01 advances the state once and returns a float in [0,1).
func (g *Generator) Uniform01() float64 {
	g.state = (g.state*lcgMultiplier + lcgIncrement) % lcgModulus
	return float64(g.state) / float64(lcgModulus)
}

// Normal returns a draw from N(mean, stdDev²) via the Box-Muller transform.
func (g *Generator) Normal(mean, stdDev float64) float64 {
	u1 := g.Uniform01()
	for u1 == 0 {
		// ln(0) is -Inf; the state that produced 0 is skipped.
		u1 = g.Uniform01()
	}
	u2 := g.Uniform01()
	z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
	return mean + z*stdDev
}

// LogNormal returns exp of a Normal(mean, stdDev) draw. The arguments are
// the parameters of the underlying normal, not of the lognormal itself.
func (g *Generator) LogNormal(mean, stdDev float64) float64 {
	return math.Exp(g.Normal(mean, stdDev))
}

// Uniform returns a draw from [min, max).
func (g *Generator) Uniform(min, max float64) float64 {
	return min + g.Uniform01()*(max-min)
}

// Triangular returns an inverse-CDF draw from the triangular distribution
// over [min, max] with the given mode.
func (g *Generator) Triangular(min, mode, max float64) float64 {
	if max == min {
		return min
	}
	u := g.Uniform01()
	f := (mode - min) / (max - min)
	if u < f {
		return min + math.Sqrt(u*(max-min)*(mode-min))
	}
	return max - math.Sqrt((1-u)*(max-min)*(max-mode))
}

// Beta approximates a Beta(alpha, beta) draw mapped into [min, max] by
// averaging round(alpha+beta) uniform draws. This is NOT an exact Beta
// sampler: it preserves the bounds and a central tendency, which is all the
// coarse-bounded uncertainty inputs need, and existing outputs depend on
// this exact behavior.
func (g *Generator) Beta(alpha, beta, min, max float64) float64 {
	draws := int(math.Round(alpha + beta))
	if draws < 1 {
		draws = 1
	}
	sum := 0.0
	for i := 0; i < draws; i++ {
		sum += g.Uniform01()
	}
	return min + (sum/float64(draws))*(max-min)
}
