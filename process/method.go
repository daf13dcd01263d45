package process

// Method selects how an analytical transform is evaluated
type Method string

const (
	// MethodQuad integrates the closed-form function with quadrature
	MethodQuad Method = "quad"

	// MethodFFT discretises the function and applies the FFT transform
	MethodFFT Method = "fft"

	// MethodTrapezoid integrates the function sampled on the default grid
	// (spectral moments only)
	MethodTrapezoid Method = "num"
)

// Methods lists the transform methods in a stable order
func Methods() []Method {
	return []Method{MethodQuad, MethodFFT}
}

func (m Method) String() string {
	return string(m)
}

// IsTransform reports whether m is a covariance/spectrum transform method
func (m Method) IsTransform() bool {
	return m == MethodQuad || m == MethodFFT
}

// ParseMethod maps a name to a transform method
func ParseMethod(name string) (Method, error) {
	m := Method(name)
	if !m.IsTransform() {
		return "", &UnsupportedMethodError{Op: "parse method", Method: name}
	}
	return m, nil
}
