package aggregate

import (
	"math"
	"testing"
)

func TestHistogram_EvenSpread(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	buckets := Histogram(values, 5)

	if len(buckets) != 5 {
		t.Fatalf("Expected 5 buckets, got %d", len(buckets))
	}

	total := 0
	for i, b := range buckets {
		if b.Count != 2 {
			t.Errorf("Bucket %d count = %d, want 2", i, b.Count)
		}
		total += b.Count
	}
	if total != len(values) {
		t.Errorf("Histogram lost values: counted %d of %d", total, len(values))
	}

	// Max value lands in the final bucket, not past it.
	last := buckets[len(buckets)-1]
	if last.Hi != 10 {
		t.Errorf("Last bucket Hi = %v, want 10", last.Hi)
	}
}

func TestHistogram_SingleValue(t *testing.T) {
	buckets := Histogram([]float64{7, 7, 7}, 4)
	if len(buckets) != 1 {
		t.Fatalf("Expected 1 bucket for constant data, got %d", len(buckets))
	}
	if buckets[0].Count != 3 || buckets[0].Lo != 7 || buckets[0].Hi != 7 {
		t.Errorf("Constant-data bucket wrong: %+v", buckets[0])
	}
}

func TestHistogram_Degenerate(t *testing.T) {
	if Histogram(nil, 5) != nil {
		t.Error("Expected nil for empty input")
	}
	if Histogram([]float64{1, 2}, 0) != nil {
		t.Error("Expected nil for zero buckets")
	}
}

func TestDescribe_SymmetricData(t *testing.T) {
	values := []float64{-2, -1, 0, 1, 2}
	mean := 0.0
	std := math.Sqrt(2) // population std of the set

	d := Describe(values, mean, std)
	if math.Abs(d.Skewness) > 1e-12 {
		t.Errorf("Skewness of symmetric data = %v, want 0", d.Skewness)
	}
	if d.NormalityP < 0 || d.NormalityP > 1 {
		t.Errorf("Normality p-value out of range: %v", d.NormalityP)
	}
}

func TestDescribe_RejectsUniformAsNormal(t *testing.T) {
	// A large uniform sample has excess kurtosis near -1.2; the omnibus
	// statistic should firmly reject normality.
	values := make([]float64, 10000)
	for i := range values {
		values[i] = float64(i) / 10000
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	varSum := 0.0
	for _, v := range values {
		varSum += (v - mean) * (v - mean)
	}
	std := math.Sqrt(varSum / float64(len(values)))

	d := Describe(values, mean, std)
	if math.Abs(d.Kurtosis+1.2) > 0.05 {
		t.Errorf("Uniform excess kurtosis = %v, want about -1.2", d.Kurtosis)
	}
	if d.NormalityP > 0.05 {
		t.Errorf("Uniform data not rejected: p = %v", d.NormalityP)
	}
}

func TestDescribe_DegenerateInput(t *testing.T) {
	d := Describe([]float64{3, 3, 3}, 3, 0)
	if d.Skewness != 0 || d.Kurtosis != 0 {
		t.Errorf("Zero-variance diagnostics should be zero, got %+v", d)
	}
	if d.NormalityP != 1 {
		t.Errorf("Zero-variance normality p = %v, want 1", d.NormalityP)
	}
}
