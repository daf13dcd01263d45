package common

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Basic statistical and grid functions used across algorithms using gonum for robustness

// Mean calculates the arithmetic mean of a slice using gonum
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return stat.Mean(data, nil)
}

// Linspace returns n evenly spaced points over [lo, hi], endpoints included
func Linspace(lo, hi float64, n int) []float64 {
	switch {
	case n <= 0:
		return []float64{}
	case n == 1:
		return []float64{lo}
	}
	return floats.Span(make([]float64, n), lo, hi)
}

// Step returns the spacing of a uniform grid, (x[n-1]-x[0])/(n-1)
func Step(grid []float64) (float64, error) {
	if len(grid) < 2 {
		return 0, fmt.Errorf("grid needs at least 2 points, got %d", len(grid))
	}
	step := (grid[len(grid)-1] - grid[0]) / float64(len(grid)-1)
	if step <= 0 || math.IsNaN(step) {
		return 0, fmt.Errorf("grid must be strictly increasing")
	}
	return step, nil
}

// CheckUniform verifies that every spacing of grid lies within relTol of
// Step(grid), relative to the step
func CheckUniform(grid []float64, relTol float64) error {
	step, err := Step(grid)
	if err != nil {
		return err
	}
	for i := 1; i < len(grid); i++ {
		if math.Abs(grid[i]-grid[i-1]-step) > relTol*step {
			return fmt.Errorf("grid is not uniform: spacing %g at index %d, expected %g", grid[i]-grid[i-1], i, step)
		}
	}
	return nil
}

// ColumnMeanVariance computes, for every column of rows, the mean and
// population variance across rows. All rows must have the same length.
func ColumnMeanVariance(rows [][]float64) (mean, variance []float64) {
	if len(rows) == 0 {
		return []float64{}, []float64{}
	}

	n := len(rows[0])
	mean = make([]float64, n)
	variance = make([]float64, n)
	column := make([]float64, len(rows))

	for j := 0; j < n; j++ {
		for i, row := range rows {
			column[i] = row[j]
		}
		mean[j], variance[j] = stat.PopMeanVariance(column, nil)
	}

	return mean, variance
}

// MeanRows averages rows element-wise, summing in row order
func MeanRows(rows [][]float64) []float64 {
	if len(rows) == 0 {
		return []float64{}
	}

	avg := make([]float64, len(rows[0]))
	for _, row := range rows {
		floats.Add(avg, row)
	}
	floats.Scale(1/float64(len(rows)), avg)

	return avg
}

// Clamp restricts an integer to [min, max]
func Clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
