package spectral

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/stochan/algorithms/common"
)

// Conventions: one-sided spectra over angular frequency w >= 0 that
// integrate to the variance,
//
//	S(w)   = 2/pi * int_0^inf k(t) cos(w t) dt
//	k(t)   =        int_0^inf S(w) cos(w t) dw
//
// Both transforms below discretise these integrals with the trapezoidal
// rule through a real FFT of the even extension of the input. On grids of
// N points the output grid also has N points, with
//
//	dw = pi / ((N-1) dt)    and    dt = pi / ((N-1) dw)
//
// so the two are exact inverses of one another.

// AutocovarianceToSpectrum transforms an autocovariance sampled on a uniform
// lag grid starting at 0 into a one-sided angular-frequency spectrum. The
// returned frequency grid is set by the FFT resolution, not by the caller.
func AutocovarianceToSpectrum(tau, kappa []float64) (omega, spectrum []float64, err error) {
	dtau, err := checkHalfGrid(tau, kappa)
	if err != nil {
		return nil, nil, fmt.Errorf("autocovariance to spectrum: %w", err)
	}

	sums, err := NewFFT().EvenCosineSum(kappa)
	if err != nil {
		return nil, nil, fmt.Errorf("autocovariance to spectrum: %w", err)
	}

	n := len(tau)
	domega := math.Pi / (float64(n-1) * dtau)

	omega = make([]float64, n)
	spectrum = make([]float64, n)
	for j := range sums {
		omega[j] = float64(j) * domega
		spectrum[j] = dtau * sums[j] / math.Pi
	}

	return omega, spectrum, nil
}

// SpectrumToAutocovariance transforms a one-sided angular-frequency spectrum
// sampled on a uniform grid starting at 0 into an autocovariance on the lag
// grid set by the FFT resolution.
func SpectrumToAutocovariance(omega, spectrum []float64) (tau, kappa []float64, err error) {
	domega, err := checkHalfGrid(omega, spectrum)
	if err != nil {
		return nil, nil, fmt.Errorf("spectrum to autocovariance: %w", err)
	}

	sums, err := NewFFT().EvenCosineSum(spectrum)
	if err != nil {
		return nil, nil, fmt.Errorf("spectrum to autocovariance: %w", err)
	}

	n := len(omega)
	dtau := math.Pi / (float64(n-1) * domega)

	tau = make([]float64, n)
	kappa = make([]float64, n)
	for k := range sums {
		tau[k] = float64(k) * dtau
		kappa[k] = domega * sums[k] / 2
	}

	return tau, kappa, nil
}

// checkHalfGrid validates a uniform grid starting at zero and returns its step
func checkHalfGrid(grid, values []float64) (float64, error) {
	if len(grid) != len(values) {
		return 0, fmt.Errorf("grid length (%d) doesn't match values length (%d)", len(grid), len(values))
	}

	step, err := common.Step(grid)
	if err != nil {
		return 0, err
	}

	if math.Abs(grid[0]) > 1e-9*step {
		return 0, fmt.Errorf("grid must start at 0, starts at %g", grid[0])
	}

	return step, nil
}
