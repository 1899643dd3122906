package aggregate

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"teasim/domain/montecarlo"
)

// Describe computes distribution-shape diagnostics from the raw samples.
// Skewness and kurtosis use population moment estimators, consistent with
// the population variance convention of the summary statistics; run
// distributions carry thousands of samples, so small-sample bias is
// immaterial here. Kurtosis is reported as excess (normal = 0).
//
// The normality indicator is a Jarque-Bera omnibus statistic,
// n/6 * (S² + K²/4), referred to a two-degree chi-squared distribution.
func Describe(values []float64, mean, stdDev float64) montecarlo.Diagnostics {
	n := float64(len(values))
	if n < 3 || stdDev == 0 || math.IsNaN(stdDev) {
		return montecarlo.Diagnostics{NormalityP: 1}
	}

	sum3, sum4 := 0.0, 0.0
	for _, x := range values {
		d := (x - mean) / stdDev
		sum3 += d * d * d
		sum4 += d * d * d * d
	}
	skew := sum3 / n
	kurt := sum4/n - 3

	jb := n / 6 * (skew*skew + kurt*kurt/4)
	chi := distuv.ChiSquared{K: 2}
	p := 1 - chi.CDF(jb)

	return montecarlo.Diagnostics{
		Skewness:      skew,
		Kurtosis:      kurt,
		NormalityStat: jb,
		NormalityP:    p,
	}
}
