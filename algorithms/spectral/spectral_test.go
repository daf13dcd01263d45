package spectral

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/stochan/algorithms/common"
	"github.com/RyanBlaney/stochan/algorithms/windowing"
)

func lorentzian(sigma2, T float64) func(float64) float64 {
	return func(w float64) float64 {
		return 2 / math.Pi * sigma2 * T / (1 + w*w*T*T)
	}
}

func TestFFTRoundTrip(t *testing.T) {
	f := NewFFT()
	x := []float64{1, -2, 3.5, 0, 4}

	back := f.ComputeInverse(f.Compute(x))
	require.Len(t, back, len(x))
	for i := range x {
		assert.InDelta(t, x[i], real(back[i]), 1e-12)
		assert.InDelta(t, 0, imag(back[i]), 1e-12)
	}

	assert.Empty(t, f.Compute(nil))
	assert.Empty(t, f.ComputeInverse(nil))
}

func TestEvenCosineSumIsSelfInverse(t *testing.T) {
	f := NewFFT()
	x := []float64{3, 1, -1, 0.5, 2, 7}

	once, err := f.EvenCosineSum(x)
	require.NoError(t, err)
	twice, err := f.EvenCosineSum(once)
	require.NoError(t, err)

	m := float64(2*len(x) - 2)
	for i := range x {
		assert.InDelta(t, x[i], twice[i]/m, 1e-12)
	}

	_, err = f.EvenCosineSum([]float64{1})
	assert.Error(t, err)
}

func TestAutocovarianceToSpectrumExponential(t *testing.T) {
	const sigma2, T = 2.0, 1.0
	tau := common.Linspace(0, 30, 3001)
	kappa := make([]float64, len(tau))
	for i, tt := range tau {
		kappa[i] = sigma2 * math.Exp(-tt/T)
	}

	omega, S, err := AutocovarianceToSpectrum(tau, kappa)
	require.NoError(t, err)
	require.Len(t, omega, len(tau))
	assert.InDelta(t, math.Pi/30, omega[1], 1e-12)

	want := lorentzian(sigma2, T)
	for j, w := range omega {
		if w > 5 {
			break
		}
		assert.InDelta(t, want(w), S[j], 1e-3, "omega=%g", w)
	}
}

func TestSpectrumToAutocovarianceLorentzian(t *testing.T) {
	const sigma2, T = 1.0, 1.0
	S := lorentzian(sigma2, T)

	omega := common.Linspace(0, 200, 4001)
	values := make([]float64, len(omega))
	for i, w := range omega {
		values[i] = S(w)
	}

	tau, kappa, err := SpectrumToAutocovariance(omega, values)
	require.NoError(t, err)

	for k, tt := range tau {
		if tt > 3 {
			break
		}
		// truncating the 1/w^2 tail at 200 costs about 2/(pi*200)
		assert.InDelta(t, sigma2*math.Exp(-tt/T), kappa[k], 1e-2, "tau=%g", tt)
	}
}

func TestTransformsAreInverse(t *testing.T) {
	tau := common.Linspace(0, 5, 64)
	kappa := make([]float64, len(tau))
	for i, tt := range tau {
		kappa[i] = math.Cos(2*tt) * math.Exp(-tt*tt)
	}

	omega, S, err := AutocovarianceToSpectrum(tau, kappa)
	require.NoError(t, err)

	tau2, kappa2, err := SpectrumToAutocovariance(omega, S)
	require.NoError(t, err)

	assert.InDeltaSlice(t, tau, tau2, 1e-9)
	assert.InDeltaSlice(t, kappa, kappa2, 1e-9)
}

func TestTransformErrors(t *testing.T) {
	_, _, err := AutocovarianceToSpectrum([]float64{0, 1}, []float64{1})
	assert.Error(t, err)

	_, _, err = AutocovarianceToSpectrum([]float64{1, 2, 3}, []float64{1, 1, 1})
	assert.Error(t, err, "grid not starting at zero")

	_, _, err = SpectrumToAutocovariance([]float64{0}, []float64{1})
	assert.Error(t, err)
}

func TestPeriodogramParseval(t *testing.T) {
	const dt = 0.01

	noise := func(n int) []float64 {
		rng := rand.New(rand.NewPCG(1, 2))
		x := make([]float64, n)
		for i := range x {
			x[i] = rng.NormFloat64()
		}
		return x
	}
	// cosine on the highest bin of an odd-length series, (n-1)/2 cycles
	topBin := func(n int) []float64 {
		x := make([]float64, n)
		for i := range x {
			x[i] = math.Cos(2 * math.Pi * float64((n-1)/2) * float64(i) / float64(n))
		}
		return x
	}

	tests := []struct {
		name   string
		x      []float64
		window windowing.Type
	}{
		{"even noise", noise(512), windowing.Rectangular},
		{"odd noise", noise(511), windowing.Rectangular},
		{"short odd noise", noise(101), windowing.Rectangular},
		{"odd top bin cosine", topBin(101), windowing.Rectangular},
		{"hann even", noise(512), windowing.Hann},
		{"hann odd", noise(101), windowing.Hann},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := len(tt.x)
			tgrid := common.Linspace(0, dt*float64(n-1), n)

			w, err := windowing.New(tt.window, n)
			require.NoError(t, err)
			windowed, err := w.Apply(tt.x)
			require.NoError(t, err)
			// windowed mean square, the plain mean square for a rectangular window
			var want float64
			for _, v := range windowed {
				want += v * v
			}
			want /= w.Power()

			freqs, psd, err := Periodogram(tgrid, tt.x, PSDOptions{Window: tt.window})
			require.NoError(t, err)
			require.Len(t, psd, n/2+1)
			require.Len(t, freqs, n/2+1)

			df := freqs[1] - freqs[0]
			assert.InDelta(t, 1/(dt*float64(n)), df, 1e-9)

			var total float64
			for _, p := range psd {
				total += p * df
			}
			assert.InDelta(t, want, total, 1e-9*math.Max(1, want))
		})
	}

	// the top bin alone carries the whole cosine
	_, psd, err := Periodogram(common.Linspace(0, dt*100, 101), topBin(101), DefaultPSDOptions())
	require.NoError(t, err)
	assert.InDelta(t, 0.5, psd[len(psd)-1]/(101*dt), 1e-9)
}

func TestPeriodogramSinePeak(t *testing.T) {
	n := 256
	dt := 1.0 / 64
	f0 := 8.0
	tgrid := make([]float64, n)
	x := make([]float64, n)
	for i := range x {
		tgrid[i] = float64(i) * dt
		x[i] = math.Sin(2 * math.Pi * f0 * tgrid[i])
	}

	tests := []PSDOptions{
		DefaultPSDOptions(),
		{Window: windowing.Hann, Segments: 4, Detrend: true},
	}

	for _, opts := range tests {
		t.Run(string(opts.Window), func(t *testing.T) {
			freqs, psd, err := Periodogram(tgrid, x, opts)
			require.NoError(t, err)

			peak := 0
			for i := range psd {
				if psd[i] > psd[peak] {
					peak = i
				}
			}
			assert.InDelta(t, f0, freqs[peak], 1e-9)
		})
	}
}

func TestPeriodogramErrors(t *testing.T) {
	_, _, err := Periodogram([]float64{0, 1}, []float64{1}, DefaultPSDOptions())
	assert.Error(t, err)

	_, _, err = Periodogram([]float64{0, 1, 2}, []float64{1, 2, 3}, PSDOptions{Window: "kaiser"})
	assert.Error(t, err)

	_, _, err = Periodogram([]float64{0, 1, 2}, []float64{1, 2, 3}, PSDOptions{Segments: 3})
	assert.Error(t, err)
}
