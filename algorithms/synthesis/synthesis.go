// Package synthesis draws sample paths of a stationary Gaussian-like process
// from a one-sided autospectrum by the random-phase harmonic superposition
//
//	x(t) = sum_k a_k cos(w_k t + phi_k),   a_k = sqrt(2 S(w_k) dw)
//
// with phases phi_k uniform on [0, 2pi). The variance of x is sum_k S(w_k) dw.
package synthesis

import (
	"fmt"
	"math"
	"math/cmplx"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/RyanBlaney/stochan/algorithms/spectral"
)

// Method selects how the harmonic sum is evaluated
type Method string

const (
	// IFFT evaluates the sum with one inverse FFT, O(N log N)
	IFFT Method = "ifft"

	// SumCos evaluates the sum term by term, O(N * K)
	SumCos Method = "sumcos"
)

// Options configures one synthesis call
type Options struct {
	Method Method `json:"method" yaml:"method" mapstructure:"method"`

	// Seed of the PCG source drawing the phases
	Seed uint64 `json:"seed" yaml:"seed" mapstructure:"seed"`

	// FrequencyCutoff drops harmonics above it (same unit as the spectrum
	// argument). 0 keeps everything up to Nyquist.
	FrequencyCutoff float64 `json:"frequency_cutoff" yaml:"frequency_cutoff" mapstructure:"frequency_cutoff"`
}

// Realization is one synthesised sample path with its harmonic content
type Realization struct {
	Time   []float64 `json:"time"`
	Values []float64 `json:"values"`

	// Frequencies are angular, w_k = 2 pi k / (N dt)
	Frequencies []float64 `json:"frequencies"`
	Amplitudes  []float64 `json:"amplitudes"`
	Phases      []float64 `json:"phases"`
}

// FromSpectrum synthesises a series of N = round(tMax/dt)+1 points spaced dt.
// When angular is false, spectrum takes ordinary frequency and returns a
// density per unit of ordinary frequency.
func FromSpectrum(tMax, dt float64, spectrum func(float64) float64, angular bool, opts Options) (*Realization, error) {
	if spectrum == nil {
		return nil, fmt.Errorf("synthesis: nil spectrum function")
	}
	if dt <= 0 || tMax <= 0 {
		return nil, fmt.Errorf("synthesis: duration and time step must be positive, got %g and %g", tMax, dt)
	}

	n := int(math.Round(tMax/dt)) + 1
	if n < 3 {
		return nil, fmt.Errorf("synthesis: %d time points are too few", n)
	}

	method := opts.Method
	if method == "" {
		method = IFFT
	}
	if method != IFFT && method != SumCos {
		return nil, fmt.Errorf("synthesis: unknown method %q", method)
	}

	// harmonics k = 1..kMax, Nyquist excluded so every term has variance a^2/2
	kMax := (n - 1) / 2
	domega := 2 * math.Pi / (float64(n) * dt)

	phaseDist := distuv.Uniform{
		Min: 0,
		Max: 2 * math.Pi,
		Src: rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15),
	}

	freqs := make([]float64, kMax+1)
	amps := make([]float64, kMax+1)
	phases := make([]float64, kMax+1)
	for k := 1; k <= kMax; k++ {
		omega := float64(k) * domega
		freqs[k] = omega
		phases[k] = phaseDist.Rand()

		arg, density := omega, 1.0
		if !angular {
			// S_w(w) = S_f(w / 2pi) / 2pi
			arg, density = omega/(2*math.Pi), 1/(2*math.Pi)
		}
		if opts.FrequencyCutoff > 0 && arg > opts.FrequencyCutoff {
			continue
		}

		s := spectrum(arg) * density
		if s < 0 || math.IsNaN(s) {
			return nil, fmt.Errorf("synthesis: spectrum must be non-negative, got %g at %g", s, arg)
		}
		amps[k] = math.Sqrt(2 * s * domega)
	}

	tgrid := make([]float64, n)
	for i := range tgrid {
		tgrid[i] = float64(i) * dt
	}

	var values []float64
	switch method {
	case IFFT:
		values = sumIFFT(n, amps, phases)
	case SumCos:
		values = sumCos(tgrid, freqs, amps, phases)
	}

	return &Realization{
		Time:        tgrid,
		Values:      values,
		Frequencies: freqs,
		Amplitudes:  amps,
		Phases:      phases,
	}, nil
}

func sumIFFT(n int, amps, phases []float64) []float64 {
	z := make([]complex128, n)
	for k := 1; k < len(amps); k++ {
		c := cmplx.Rect(amps[k]/2*float64(n), phases[k])
		z[k] = c
		z[n-k] = cmplx.Conj(c)
	}

	out := spectral.NewFFT().ComputeInverse(z)

	values := make([]float64, n)
	for i, v := range out {
		values[i] = real(v)
	}
	return values
}

func sumCos(tgrid, freqs, amps, phases []float64) []float64 {
	values := make([]float64, len(tgrid))
	for i, t := range tgrid {
		var s float64
		for k := 1; k < len(amps); k++ {
			if amps[k] == 0 {
				continue
			}
			s += amps[k] * math.Cos(freqs[k]*t+phases[k])
		}
		values[i] = s
	}
	return values
}

// Variance returns the variance implied by the realization's amplitudes
func (r *Realization) Variance() float64 {
	var v float64
	for _, a := range r.Amplitudes {
		v += a * a / 2
	}
	return v
}
