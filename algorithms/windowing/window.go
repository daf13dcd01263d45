package windowing

import (
	"fmt"
	"math"
)

// Type names a window shape
type Type string

const (
	Rectangular Type = "rectangular"
	Hann        Type = "hann"
	Hamming     Type = "hamming"
	Welch       Type = "welch"
)

// Window holds the coefficients of a window of a given size
type Window struct {
	size         int
	coefficients []float64
}

// New creates a periodic window of the given type and size
func New(kind Type, size int) (*Window, error) {
	if size <= 0 {
		return nil, fmt.Errorf("window size must be positive, got %d", size)
	}

	gen, err := generator(kind)
	if err != nil {
		return nil, err
	}

	return &Window{
		size:         size,
		coefficients: gen(size),
	}, nil
}

// Func returns the window as a size -> coefficients function, the shape
// expected by go-dsp's spectral estimators.
func Func(kind Type) (func(int) []float64, error) {
	return generator(kind)
}

func generator(kind Type) (func(int) []float64, error) {
	switch kind {
	case Rectangular, "":
		return rectangular, nil
	case Hann:
		return cosineSum(0.5, 0.5), nil
	case Hamming:
		return cosineSum(0.54, 0.46), nil
	case Welch:
		return welch, nil
	default:
		return nil, fmt.Errorf("unknown window type %q", kind)
	}
}

func rectangular(size int) []float64 {
	coeffs := make([]float64, size)
	for i := range coeffs {
		coeffs[i] = 1.0
	}
	return coeffs
}

// cosineSum builds a0 - a1*cos(2*pi*i/N) windows (Hann, Hamming)
func cosineSum(a0, a1 float64) func(int) []float64 {
	return func(size int) []float64 {
		coeffs := make([]float64, size)
		for i := range size {
			coeffs[i] = a0 - a1*math.Cos(2*math.Pi*float64(i)/float64(size))
		}
		return coeffs
	}
}

func welch(size int) []float64 {
	coeffs := make([]float64, size)
	if size == 1 {
		coeffs[0] = 1
		return coeffs
	}

	half := float64(size-1) / 2.0
	for i := range size {
		arg := (float64(i) - half) / half
		coeffs[i] = 1.0 - arg*arg
	}
	return coeffs
}

// Apply applies the window to a signal (creates new array)
func (w *Window) Apply(signal []float64) ([]float64, error) {
	if len(signal) != w.size {
		return nil, fmt.Errorf("signal length (%d) doesn't match window size (%d)", len(signal), w.size)
	}

	windowed := make([]float64, w.size)
	for i := 0; i < w.size; i++ {
		windowed[i] = signal[i] * w.coefficients[i]
	}

	return windowed, nil
}

// Power returns the sum of squared coefficients
func (w *Window) Power() float64 {
	var sum float64
	for _, c := range w.coefficients {
		sum += c * c
	}
	return sum
}
