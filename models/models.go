// Package models provides closed-form stationary processes: autocovariance and
// one-sided angular autospectrum pairs following
//
//	S(w) = 2/pi * int_0^inf k(t) cos(w t) dt,    k(t) = int_0^inf S(w) cos(w t) dw
//
// plus simple sample-path generators.
package models

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Pair is an analytical autocovariance/autospectrum pair
type Pair interface {
	// Name identifies the model in reports
	Name() string

	// Covariance is even; it is only ever evaluated at tau >= 0
	Covariance(tau float64) float64

	// Spectrum is one-sided, evaluated at omega >= 0
	Spectrum(omega float64) float64

	// Variance equals Covariance(0) and the zeroth spectral moment
	Variance() float64
}

// Exponential has k(t) = s2 exp(-|t|/T) and a Lorentzian spectrum
type Exponential struct {
	Sigma2 float64
	T      float64
}

func (e Exponential) Name() string { return "exponential" }

func (e Exponential) Covariance(tau float64) float64 {
	return e.Sigma2 * math.Exp(-math.Abs(tau)/e.T)
}

func (e Exponential) Spectrum(omega float64) float64 {
	wt := omega * e.T
	return 2 / math.Pi * e.Sigma2 * e.T / (1 + wt*wt)
}

func (e Exponential) Variance() float64 { return e.Sigma2 }

// Gaussian has k(t) = s2 exp(-t^2 / 2L^2)
type Gaussian struct {
	Sigma2 float64
	L      float64
}

func (g Gaussian) Name() string { return "gaussian" }

func (g Gaussian) Covariance(tau float64) float64 {
	r := tau / g.L
	return g.Sigma2 * math.Exp(-r*r/2)
}

func (g Gaussian) Spectrum(omega float64) float64 {
	wl := omega * g.L
	return g.Sigma2 * g.L * math.Sqrt(2/math.Pi) * math.Exp(-wl*wl/2)
}

func (g Gaussian) Variance() float64 { return g.Sigma2 }

// BandLimited is white noise of variance s2 confined to [0, OmegaC]
type BandLimited struct {
	Sigma2 float64
	OmegaC float64
}

func (b BandLimited) Name() string { return "bandlimited" }

func (b BandLimited) Covariance(tau float64) float64 {
	x := b.OmegaC * math.Abs(tau)
	if x == 0 {
		return b.Sigma2
	}
	return b.Sigma2 * math.Sin(x) / x
}

func (b BandLimited) Spectrum(omega float64) float64 {
	if omega < 0 || omega > b.OmegaC {
		return 0
	}
	return b.Sigma2 / b.OmegaC
}

func (b BandLimited) Variance() float64 { return b.Sigma2 }

// Spec describes a model by name, as read from configuration
type Spec struct {
	Kind     string  `json:"kind" yaml:"kind" mapstructure:"kind" validate:"required,oneof=exponential gaussian bandlimited"`
	Variance float64 `json:"variance" yaml:"variance" mapstructure:"variance" validate:"gt=0"`

	// Scale is T for exponential, L for gaussian, OmegaC for bandlimited
	Scale float64 `json:"scale" yaml:"scale" mapstructure:"scale" validate:"gt=0"`
}

// New builds the Pair described by spec
func New(spec Spec) (Pair, error) {
	if spec.Variance <= 0 || spec.Scale <= 0 {
		return nil, fmt.Errorf("model %q needs positive variance and scale, got %g and %g", spec.Kind, spec.Variance, spec.Scale)
	}

	switch spec.Kind {
	case "exponential":
		return Exponential{Sigma2: spec.Variance, T: spec.Scale}, nil
	case "gaussian":
		return Gaussian{Sigma2: spec.Variance, L: spec.Scale}, nil
	case "bandlimited":
		return BandLimited{Sigma2: spec.Variance, OmegaC: spec.Scale}, nil
	default:
		return nil, fmt.Errorf("unknown model kind %q", spec.Kind)
	}
}

// WhiteNoise returns a generator of i.i.d. N(mu, sigma^2) values at every
// time point. The generator owns its random source and is not safe for
// concurrent use.
func WhiteNoise(mu, sigma float64, seed uint64) func(t []float64) []float64 {
	dist := distuv.Normal{
		Mu:    mu,
		Sigma: sigma,
		Src:   rand.NewPCG(seed, seed+1),
	}

	return func(t []float64) []float64 {
		x := make([]float64, len(t))
		for i := range x {
			x[i] = dist.Rand()
		}
		return x
	}
}

// Sine returns a deterministic generator x(t) = A sin(w t). Every call yields
// the same path, so ensemble variance is zero.
func Sine(amplitude, omega float64) func(t []float64) []float64 {
	return func(t []float64) []float64 {
		x := make([]float64, len(t))
		for i, tt := range t {
			x[i] = amplitude * math.Sin(omega*tt)
		}
		return x
	}
}

// RandomPhaseSine returns x(t) = A sin(w t + phi) with phi uniform on
// [0, 2pi) drawn per call. Its covariance is A^2/2 cos(w tau).
func RandomPhaseSine(amplitude, omega float64, seed uint64) func(t []float64) []float64 {
	phase := distuv.Uniform{
		Min: 0,
		Max: 2 * math.Pi,
		Src: rand.NewPCG(seed, seed+1),
	}

	return func(t []float64) []float64 {
		phi := phase.Rand()
		x := make([]float64, len(t))
		for i, tt := range t {
			x[i] = amplitude * math.Sin(omega*tt+phi)
		}
		return x
	}
}
