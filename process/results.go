package process

import (
	"slices"
)

// Curve is a set of values aligned to a grid (frequencies or lags)
type Curve struct {
	X []float64 `json:"x" yaml:"x"`
	Y []float64 `json:"y" yaml:"y"`
}

// Len returns the number of points
func (c Curve) Len() int {
	return len(c.X)
}

// Empty reports whether the curve has no points
func (c Curve) Empty() bool {
	return len(c.X) == 0
}

// Clone returns a deep copy
func (c Curve) Clone() Curve {
	return Curve{X: slices.Clone(c.X), Y: slices.Clone(c.Y)}
}

// Stat selects optional parts of the sample statistics
type Stat uint8

const (
	// StatCorrelation computes the averaged autocovariance, autocorrelation
	// coefficient and the spectrum derived from the autocovariance
	StatCorrelation Stat = 1 << iota

	// StatAveragedSpectrum averages per-sample periodograms
	StatAveragedSpectrum

	// StatAll is the default selection
	StatAll = StatCorrelation | StatAveragedSpectrum
)

// Has reports whether s includes x
func (s Stat) Has(x Stat) bool {
	return s&x != 0
}

// SampleStatistics is the result of one ComputeSampleStatistics call.
// Values are computed once and not modified afterwards.
type SampleStatistics struct {
	// Per time index, across realizations
	Mean     []float64 `json:"mean" yaml:"mean"`
	Variance []float64 `json:"variance" yaml:"variance"`

	// Aligned to Lags, averaged across realizations
	Lags       []float64 `json:"lags,omitempty" yaml:"lags,omitempty"`
	Covariance []float64 `json:"covariance,omitempty" yaml:"covariance,omitempty"`
	CorrCoeff  []float64 `json:"corr_coeff,omitempty" yaml:"corr_coeff,omitempty"`

	// FFT transform of Covariance, on its own FFT-determined frequency grid
	SpectrumFromCovariance Curve `json:"spectrum_from_covariance" yaml:"spectrum_from_covariance"`

	// Averaged one-sided periodogram, angular frequency convention
	AveragedSpectrum Curve `json:"averaged_spectrum" yaml:"averaged_spectrum"`

	// Selection that produced this result
	Computed Stat `json:"-" yaml:"-"`
}

// Capability describes which analytical references an analyzer holds
type Capability uint8

const (
	CapGenerator Capability = 1 << iota
	CapCovariance
	CapSpectrum
)

// Has reports whether c includes x
func (c Capability) Has(x Capability) bool {
	return c&x == x
}
