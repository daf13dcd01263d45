package spectral

import (
	"fmt"

	"github.com/mjibson/go-dsp/fft"
)

// FFT provides Fast Fourier Transform functionality on top of mjibson/go-dsp
type FFT struct {
	// No state needed for now
}

// NewFFT creates a new FFT calculator
func NewFFT() *FFT {
	return &FFT{}
}

// Compute computes the forward FFT of a real sequence
func (f *FFT) Compute(x []float64) []complex128 {
	if len(x) == 0 {
		return []complex128{}
	}

	// mjibson/go-dsp handles all sizes efficiently, including non-power-of-2
	return fft.FFTReal(x)
}

// ComputeInverse computes the inverse FFT (normalised by 1/N)
func (f *FFT) ComputeInverse(x []complex128) []complex128 {
	if len(x) == 0 {
		return []complex128{}
	}

	return fft.IFFT(x)
}

// EvenCosineSum computes, for j = 0..N-1,
//
//	C[j] = x[0] + 2*sum_{k=1}^{N-2} x[k]*cos(pi*j*k/(N-1)) + x[N-1]*cos(pi*j)
//
// i.e. the real DFT of the even extension [x0 .. x(N-1) .. x1] of length
// 2N-2. It is the trapezoidal cosine integral of x over [-L, L] divided by
// the grid step, and it is its own inverse up to a factor 2N-2.
func (f *FFT) EvenCosineSum(x []float64) ([]float64, error) {
	n := len(x)
	if n < 2 {
		return nil, fmt.Errorf("even cosine sum needs at least 2 points, got %d", n)
	}

	m := 2*n - 2
	ext := make([]float64, m)
	copy(ext, x)
	for k := 1; k < n-1; k++ {
		ext[m-k] = x[k]
	}

	spectrum := fft.FFTReal(ext)

	out := make([]float64, n)
	for j := range out {
		out[j] = real(spectrum[j])
	}

	return out, nil
}
