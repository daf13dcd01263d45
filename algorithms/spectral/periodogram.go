package spectral

import (
	"fmt"

	dspspectral "github.com/mjibson/go-dsp/spectral"
	"gonum.org/v1/gonum/floats"

	"github.com/RyanBlaney/stochan/algorithms/common"
	"github.com/RyanBlaney/stochan/algorithms/windowing"
)

// PSDOptions configures the single-series power spectral density estimate
type PSDOptions struct {
	// Window applied to each segment; empty means rectangular (no window)
	Window windowing.Type `json:"window" yaml:"window" mapstructure:"window"`

	// Segments > 1 enables Welch averaging over that many non-overlapping
	// segments. 0 or 1 treats the whole series as a single segment.
	Segments int `json:"segments" yaml:"segments" mapstructure:"segments"`

	// Detrend removes the series mean before the transform
	Detrend bool `json:"detrend" yaml:"detrend" mapstructure:"detrend"`
}

// DefaultPSDOptions returns the raw periodogram settings: one segment, no
// window, no detrending
func DefaultPSDOptions() PSDOptions {
	return PSDOptions{
		Window:   windowing.Rectangular,
		Segments: 1,
		Detrend:  false,
	}
}

// Periodogram estimates the one-sided power spectral density of x sampled on
// the uniform time grid t. The density is per unit of ordinary frequency
// (Hz when t is in seconds), so that integrating psd over freqs gives the
// mean square of x (of the windowed segments, normalised by the window power,
// for non-rectangular windows).
func Periodogram(t, x []float64, opts PSDOptions) (freqs, psd []float64, err error) {
	if len(t) != len(x) {
		return nil, nil, fmt.Errorf("time length (%d) doesn't match series length (%d)", len(t), len(x))
	}

	dt, err := common.Step(t)
	if err != nil {
		return nil, nil, fmt.Errorf("periodogram: %w", err)
	}

	segments := opts.Segments
	if segments < 1 {
		segments = 1
	}
	nfft := len(x) / segments
	if nfft < 2 {
		return nil, nil, fmt.Errorf("periodogram: %d segments leave fewer than 2 points each", segments)
	}

	window, err := windowing.New(opts.Window, nfft)
	if err != nil {
		return nil, nil, fmt.Errorf("periodogram: %w", err)
	}

	series := make([]float64, segments*nfft)
	copy(series, x)
	if opts.Detrend {
		mean := common.Mean(x)
		for i := range series {
			series[i] = x[i] - mean
		}
	}
	for s := range segments {
		seg := series[s*nfft : (s+1)*nfft]
		windowed, err := window.Apply(seg)
		if err != nil {
			return nil, nil, fmt.Errorf("periodogram: %w", err)
		}
		copy(seg, windowed)
	}

	// segments are already windowed; go-dsp normalises by the rectangular
	// power (nfft), so rescale to the window power afterwards
	rect, err := windowing.Func(windowing.Rectangular)
	if err != nil {
		return nil, nil, fmt.Errorf("periodogram: %w", err)
	}
	psd, freqs = dspspectral.Pwelch(series, 1/dt, &dspspectral.PwelchOptions{
		NFFT:     nfft,
		Noverlap: 0,
		Window:   rect,
	})
	floats.Scale(float64(nfft)/window.Power(), psd)

	// go-dsp treats the last bin as Nyquist and leaves it single-sided, but
	// an odd-length segment has no Nyquist bin
	if nfft%2 == 1 {
		psd[len(psd)-1] *= 2
	}

	return freqs, psd, nil
}
