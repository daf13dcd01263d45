// Package integrate provides the numerical integration services used by the
// transform engine: an error-estimating composite Gauss-Legendre quadrature
// for closed-form integrands and the trapezoidal rule for tabulated data.
package integrate

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	gonumintegrate "gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/integrate/quad"
)

// Quadrature integrates a function over a finite interval with a composite
// Gauss-Legendre rule. The panel count doubles until two successive
// estimates agree within AbsTol + RelTol*|value| or MaxPanels is reached;
// the last difference is returned as the error estimate.
type Quadrature struct {
	Order     int     `json:"order" yaml:"order" mapstructure:"order"`
	Panels    int     `json:"panels" yaml:"panels" mapstructure:"panels"`
	MaxPanels int     `json:"max_panels" yaml:"max_panels" mapstructure:"max_panels"`
	AbsTol    float64 `json:"abs_tol" yaml:"abs_tol" mapstructure:"abs_tol"`
	RelTol    float64 `json:"rel_tol" yaml:"rel_tol" mapstructure:"rel_tol"`
}

// DefaultQuadrature returns settings that resolve integrands with a few
// hundred oscillations over the interval
func DefaultQuadrature() *Quadrature {
	return &Quadrature{
		Order:     16,
		Panels:    16,
		MaxPanels: 4096,
		AbsTol:    1.49e-8,
		RelTol:    1.49e-8,
	}
}

// rule holds Gauss-Legendre nodes and weights on [-1, 1]
type rule struct {
	nodes   []float64
	weights []float64
}

func newRule(order int) rule {
	r := rule{
		nodes:   make([]float64, order),
		weights: make([]float64, order),
	}
	quad.Legendre{}.FixedLocations(r.nodes, r.weights, -1, 1)
	return r
}

// panelSum applies the rule on `panels` equal sub-intervals of [lo, hi]
func (r rule) panelSum(f func(float64) float64, lo, hi float64, panels int) float64 {
	nodes, weights := r.nodes, r.weights
	width := (hi - lo) / float64(panels)
	half := width / 2

	var total float64
	for p := 0; p < panels; p++ {
		mid := lo + (float64(p)+0.5)*width
		var s float64
		for i, x := range nodes {
			s += weights[i] * f(mid+half*x)
		}
		total += s * half
	}
	return total
}

// Integrate returns the integral of f over [lo, hi] and an error estimate.
// lo > hi integrates in reverse; lo == hi gives 0.
func (q *Quadrature) Integrate(f func(float64) float64, lo, hi float64) (value, errEstimate float64, err error) {
	if q.Order < 1 || q.Panels < 1 {
		return 0, 0, fmt.Errorf("quadrature order and panels must be positive, got %d and %d", q.Order, q.Panels)
	}
	if math.IsInf(lo, 0) || math.IsInf(hi, 0) || math.IsNaN(lo) || math.IsNaN(hi) {
		return 0, 0, fmt.Errorf("quadrature bounds must be finite, got [%g, %g]", lo, hi)
	}
	if lo == hi {
		return 0, 0, nil
	}

	r := newRule(q.Order)
	panels := q.Panels
	prev := r.panelSum(f, lo, hi, panels)
	for {
		panels *= 2
		value = r.panelSum(f, lo, hi, panels)
		errEstimate = math.Abs(value - prev)

		if errEstimate <= q.AbsTol+q.RelTol*math.Abs(value) || panels >= q.MaxPanels {
			break
		}
		prev = value
	}

	if math.IsNaN(value) {
		return value, errEstimate, fmt.Errorf("quadrature produced NaN over [%g, %g]", lo, hi)
	}

	return value, errEstimate, nil
}

// Trapezoid integrates tabulated values f(x) with the trapezoidal rule.
// x must be sorted ascending.
func Trapezoid(x, f []float64) (float64, error) {
	if len(x) != len(f) {
		return 0, fmt.Errorf("x length (%d) doesn't match f length (%d)", len(x), len(f))
	}
	if len(x) < 2 {
		return 0, fmt.Errorf("trapezoid needs at least 2 points, got %d", len(x))
	}
	if floats.HasNaN(x) || !sort.Float64sAreSorted(x) {
		return 0, fmt.Errorf("x must be sorted ascending")
	}

	return gonumintegrate.Trapezoidal(x, f), nil
}
