package process

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/RyanBlaney/stochan/algorithms/common"
	"github.com/RyanBlaney/stochan/algorithms/integrate"
	"github.com/RyanBlaney/stochan/algorithms/spectral"
	"github.com/RyanBlaney/stochan/logging"
)

// ComputeSpectrumFromCovariance evaluates the one-sided spectrum of the
// analytical autocovariance,
//
//	S(w) = 2/pi * int_0^tauMax k(t) cos(w t) dt
//
// MethodQuad integrates at every frequency of omega (nil uses the default
// frequency grid). MethodFFT samples k on nDiscr points over [0, tauMax] and
// returns the FFT-determined frequency axis, ignoring omega. Zero tauMax and
// nDiscr take the configured values.
//
// The result is cached under method. The covariance function is only
// queried at non-negative lags and may be called from several goroutines.
func (a *Analyzer) ComputeSpectrumFromCovariance(omega []float64, tauMax float64, method Method, nDiscr int) (Curve, error) {
	const op = "spectrum from covariance"

	if a.covarianceFn == nil {
		return Curve{}, &ConfigurationError{Op: op, Missing: "an autocovariance function"}
	}
	if !method.IsTransform() {
		return Curve{}, &UnsupportedMethodError{Op: op, Method: string(method)}
	}
	tauMax, nDiscr, err := a.resolveBounds(op, tauMax, a.cfg.TauMax, nDiscr)
	if err != nil {
		return Curve{}, err
	}

	start := time.Now()
	var result Curve
	switch method {
	case MethodQuad:
		if omega == nil {
			omega = a.cfg.DefaultFrequencyGrid()
		}
		if err := checkGrid(omega); err != nil {
			return Curve{}, fmt.Errorf("%s: %w", op, err)
		}
		values, err := a.cosineTransform(omega, a.covarianceFn, tauMax, 2/math.Pi)
		if err != nil {
			return Curve{}, fmt.Errorf("%s: %w", op, err)
		}
		result = Curve{X: slices.Clone(omega), Y: values}

	case MethodFFT:
		tau := common.Linspace(0, tauMax, nDiscr)
		kappa := sample(a.covarianceFn, tau)
		w, s, err := spectral.AutocovarianceToSpectrum(tau, kappa)
		if err != nil {
			return Curve{}, fmt.Errorf("%s: %w", op, err)
		}
		result = Curve{X: w, Y: s}
	}

	a.spectra[method] = result

	a.logger.Debug("Computed spectrum from covariance", logging.Fields{
		"method":      method.String(),
		"tau_max":     tauMax,
		"points":      result.Len(),
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return result.Clone(), nil
}

// ComputeCovarianceFromSpectrum evaluates the autocovariance of the
// analytical one-sided spectrum,
//
//	k(t) = int_0^omegaMax S(w) cos(w t) dw
//
// MethodQuad integrates at every lag of tau (nil uses the default lag grid).
// MethodFFT samples S on nDiscr points over [0, omegaMax] and returns the
// FFT-determined lag axis, ignoring tau. Zero omegaMax and nDiscr take the
// configured values.
//
// The result is cached under method. The spectrum function is only queried
// at non-negative frequencies and may be called from several goroutines.
func (a *Analyzer) ComputeCovarianceFromSpectrum(tau []float64, omegaMax float64, method Method, nDiscr int) (Curve, error) {
	const op = "covariance from spectrum"

	if a.spectrumFn == nil {
		return Curve{}, &ConfigurationError{Op: op, Missing: "an autospectrum function"}
	}
	if !method.IsTransform() {
		return Curve{}, &UnsupportedMethodError{Op: op, Method: string(method)}
	}
	omegaMax, nDiscr, err := a.resolveBounds(op, omegaMax, a.cfg.OmegaMax, nDiscr)
	if err != nil {
		return Curve{}, err
	}

	start := time.Now()
	var result Curve
	switch method {
	case MethodQuad:
		if tau == nil {
			tau = a.cfg.DefaultLagGrid()
		}
		if err := checkGrid(tau); err != nil {
			return Curve{}, fmt.Errorf("%s: %w", op, err)
		}
		values, err := a.cosineTransform(tau, a.spectrumFn, omegaMax, 1)
		if err != nil {
			return Curve{}, fmt.Errorf("%s: %w", op, err)
		}
		result = Curve{X: slices.Clone(tau), Y: values}

	case MethodFFT:
		omega := common.Linspace(0, omegaMax, nDiscr)
		s := sample(func(w float64) float64 { return a.spectrumFn(math.Abs(w)) }, omega)
		lags, kappa, err := spectral.SpectrumToAutocovariance(omega, s)
		if err != nil {
			return Curve{}, fmt.Errorf("%s: %w", op, err)
		}
		result = Curve{X: lags, Y: kappa}
	}

	a.covariances[method] = result

	a.logger.Debug("Computed covariance from spectrum", logging.Fields{
		"method":      method.String(),
		"omega_max":   omegaMax,
		"points":      result.Len(),
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return result.Clone(), nil
}

// ComputeSpectralMoments returns m_i = int_0^OmegaMax w^i S(w) dw for every
// order (nil means 0, 1, 2, 3). MethodQuad integrates the analytical
// spectrum; any other method applies the trapezoid rule on the default
// frequency grid.
func (a *Analyzer) ComputeSpectralMoments(orders []int, method Method) (map[int]float64, error) {
	const op = "spectral moments"

	if a.spectrumFn == nil {
		return nil, &ConfigurationError{Op: op, Missing: "an autospectrum function"}
	}
	if orders == nil {
		orders = []int{0, 1, 2, 3}
	}
	for _, order := range orders {
		if order < 0 {
			return nil, fmt.Errorf("%s: %w: negative order %d", op, ErrInvalidArgument, order)
		}
	}

	moments := make(map[int]float64, len(orders))

	if method == MethodQuad {
		q := a.cfg.Quadrature
		for _, order := range orders {
			integrand := func(w float64) float64 {
				return math.Pow(w, float64(order)) * a.spectrumFn(w)
			}
			value, _, err := q.Integrate(integrand, 0, a.cfg.OmegaMax)
			if err != nil {
				return nil, fmt.Errorf("%s: order %d: %w", op, order, err)
			}
			moments[order] = value
		}
		return moments, nil
	}

	omega := a.cfg.DefaultFrequencyGrid()
	s := sample(func(w float64) float64 { return a.spectrumFn(math.Abs(w)) }, omega)
	weighted := make([]float64, len(omega))
	for _, order := range orders {
		for j, w := range omega {
			weighted[j] = math.Pow(w, float64(order)) * s[j]
		}
		value, err := integrate.Trapezoid(omega, weighted)
		if err != nil {
			return nil, fmt.Errorf("%s: order %d: %w", op, order, err)
		}
		moments[order] = value
	}

	return moments, nil
}

// cosineTransform returns scale * int_0^upper f(u) cos(x u) du for every x
func (a *Analyzer) cosineTransform(xs []float64, f func(float64) float64, upper, scale float64) ([]float64, error) {
	q := a.cfg.Quadrature
	values := make([]float64, len(xs))
	err := a.forEachRow(len(xs), func(i int) error {
		x := xs[i]
		v, _, err := q.Integrate(func(u float64) float64 { return f(u) * math.Cos(x*u) }, 0, upper)
		if err != nil {
			return fmt.Errorf("at %g: %w", x, err)
		}
		values[i] = scale * v
		return nil
	})
	return values, err
}

func (a *Analyzer) resolveBounds(op string, upper, defUpper float64, nDiscr int) (float64, int, error) {
	if upper == 0 {
		upper = defUpper
	}
	if nDiscr == 0 {
		nDiscr = a.cfg.NDiscr
	}
	if upper < 0 || math.IsNaN(upper) || math.IsInf(upper, 0) {
		return 0, 0, fmt.Errorf("%s: %w: integration bound %g", op, ErrInvalidArgument, upper)
	}
	if nDiscr < 2 {
		return 0, 0, fmt.Errorf("%s: %w: need at least 2 points, got %d", op, ErrInvalidArgument, nDiscr)
	}
	return upper, nDiscr, nil
}

func sample(f func(float64) float64, grid []float64) []float64 {
	values := make([]float64, len(grid))
	for i, x := range grid {
		values[i] = f(x)
	}
	return values
}
