package stats

import (
	"fmt"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// CorrelationMethod represents different computational approaches
type CorrelationMethod int

const (
	// FFT-based frequency domain (default, O(N log N))
	FrequencyDomain CorrelationMethod = iota

	// Direct time-domain lagged products, O(N * nLags)
	TimeDomain
)

func (m CorrelationMethod) String() string {
	switch m {
	case FrequencyDomain:
		return "fft"
	case TimeDomain:
		return "direct"
	default:
		return "unknown"
	}
}

// AutocorrResult holds the autocorrelation coefficient estimate of one series
type AutocorrResult struct {
	// Coefficients rho[k] for lags k*dt, k = 0..nLags-1. rho[0] = 1.
	Coefficients []float64 `json:"coefficients"`
	Lags         []float64 `json:"lags"`

	// Mean and population variance of the series
	Mean     float64 `json:"mean"`
	Variance float64 `json:"variance"`
}

// Autocorrelation estimates the autocorrelation coefficient of a series
//
// The estimator is the biased one,
//
//	rho[k] = sum_{i=0}^{N-1-k} (x[i]-m)(x[i+k]-m) / (N * var)
//
// which keeps the implied covariance sequence positive semi-definite.
// A constant series has rho = [1, 0, 0, ...].
type Autocorrelation struct {
	method CorrelationMethod
}

// NewAutocorrelation creates an estimator using the given method
func NewAutocorrelation(method CorrelationMethod) *Autocorrelation {
	return &Autocorrelation{method: method}
}

// Compute estimates rho for nLags lags spaced dt apart. nLags is clamped to
// [1, len(x)].
func (a *Autocorrelation) Compute(x []float64, nLags int, dt float64) (*AutocorrResult, error) {
	n := len(x)
	if n == 0 {
		return nil, fmt.Errorf("empty series provided")
	}
	if dt <= 0 {
		return nil, fmt.Errorf("lag spacing must be positive, got %g", dt)
	}
	if nLags < 1 {
		nLags = 1
	}
	if nLags > n {
		nLags = n
	}

	mean, variance := stat.PopMeanVariance(x, nil)

	centered := make([]float64, n)
	copy(centered, x)
	floats.AddConst(-mean, centered)

	var sums []float64
	switch a.method {
	case FrequencyDomain:
		sums = laggedSumsFFT(centered, nLags)
	case TimeDomain:
		sums = laggedSumsDirect(centered, nLags)
	default:
		return nil, fmt.Errorf("unsupported correlation method %d", a.method)
	}

	rho := make([]float64, nLags)
	if variance > 0 {
		floats.ScaleTo(rho, 1/(float64(n)*variance), sums)
	}
	rho[0] = 1

	lags := make([]float64, nLags)
	for k := range lags {
		lags[k] = float64(k) * dt
	}

	return &AutocorrResult{
		Coefficients: rho,
		Lags:         lags,
		Mean:         mean,
		Variance:     variance,
	}, nil
}

// laggedSumsDirect returns sum_i c[i]*c[i+k] for k < nLags
func laggedSumsDirect(c []float64, nLags int) []float64 {
	sums := make([]float64, nLags)
	for k := range sums {
		sums[k] = floats.Dot(c[:len(c)-k], c[k:])
	}
	return sums
}

// laggedSumsFFT computes the same sums as laggedSumsDirect through
// |FFT|^2 of the zero-padded sequence. Padding to >= 2N avoids wrap-around.
func laggedSumsFFT(c []float64, nLags int) []float64 {
	size := nextPow2(2 * len(c))
	seq := make([]float64, size)
	copy(seq, c)

	fft := fourier.NewFFT(size)
	coeff := fft.Coefficients(nil, seq)
	for i, v := range coeff {
		re, im := real(v), imag(v)
		coeff[i] = complex(re*re+im*im, 0)
	}

	// Sequence(Coefficients(x)) scales by size
	ac := fft.Sequence(nil, coeff)

	sums := make([]float64, nLags)
	floats.ScaleTo(sums, 1/float64(size), ac[:nLags])
	return sums
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
