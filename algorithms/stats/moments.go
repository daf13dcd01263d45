package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// MomentResult summarises the marginal distribution of a set of values
type MomentResult struct {
	Mean     float64 `json:"mean" yaml:"mean"`
	Variance float64 `json:"variance" yaml:"variance"` // population (divides by N)
	StdDev   float64 `json:"std_dev" yaml:"std_dev"`
	Skewness float64 `json:"skewness" yaml:"skewness"` // third standardized moment
	Kurtosis float64 `json:"kurtosis" yaml:"kurtosis"` // excess, 0 for a Gaussian

	NumSamples int `json:"num_samples" yaml:"num_samples"`
}

// Marginal computes the first four moments of the values pooled across rows.
// Skewness and kurtosis are 0 when the values have no spread.
func Marginal(rows [][]float64) (*MomentResult, error) {
	n := 0
	for _, r := range rows {
		n += len(r)
	}
	if n < 2 {
		return nil, fmt.Errorf("need at least 2 values, got %d", n)
	}

	pooled := make([]float64, 0, n)
	for _, r := range rows {
		pooled = append(pooled, r...)
	}
	if floats.HasNaN(pooled) {
		return nil, fmt.Errorf("values contain NaN")
	}

	mean, variance := stat.PopMeanVariance(pooled, nil)
	result := &MomentResult{
		Mean:       mean,
		Variance:   variance,
		StdDev:     math.Sqrt(variance),
		NumSamples: n,
	}

	if variance > 0 {
		result.Skewness = stat.Skew(pooled, nil)
		result.Kurtosis = stat.ExKurtosis(pooled, nil)
	}

	return result, nil
}
