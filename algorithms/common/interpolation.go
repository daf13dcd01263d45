package common

import (
	"fmt"
	"sort"
)

// InterpolationType defines interpolation method
type InterpolationType int

const (
	Linear InterpolationType = iota
	Nearest
)

// Interpolator evaluates tabulated data (x, y) at arbitrary abscissae.
// x must be strictly increasing. Outside [x0, xn] the edge value is held.
type Interpolator struct {
	method InterpolationType
	x      []float64
	y      []float64
}

// NewInterpolator creates a new interpolator over a copy of x and y
func NewInterpolator(method InterpolationType, x, y []float64) (*Interpolator, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("x length (%d) doesn't match y length (%d)", len(x), len(y))
	}
	if len(x) == 0 {
		return nil, fmt.Errorf("empty table")
	}
	for i := 1; i < len(x); i++ {
		if x[i] <= x[i-1] {
			return nil, fmt.Errorf("x must be strictly increasing (index %d)", i)
		}
	}

	xs := make([]float64, len(x))
	ys := make([]float64, len(y))
	copy(xs, x)
	copy(ys, y)

	return &Interpolator{method: method, x: xs, y: ys}, nil
}

// At evaluates the table at xi
func (interp *Interpolator) At(xi float64) float64 {
	n := len(interp.x)
	if xi <= interp.x[0] {
		return interp.y[0]
	}
	if xi >= interp.x[n-1] {
		return interp.y[n-1]
	}

	// first index with x[i] > xi; 1 <= i <= n-1 here
	i := sort.Search(n, func(k int) bool { return interp.x[k] > xi })

	switch interp.method {
	case Nearest:
		if xi-interp.x[i-1] <= interp.x[i]-xi {
			return interp.y[i-1]
		}
		return interp.y[i]
	default:
		frac := (xi - interp.x[i-1]) / (interp.x[i] - interp.x[i-1])
		return interp.y[i-1] + frac*(interp.y[i]-interp.y[i-1])
	}
}

// Func returns At as a plain function value
func (interp *Interpolator) Func() func(float64) float64 {
	return interp.At
}
