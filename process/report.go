package process

import (
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/RyanBlaney/stochan/algorithms/common"
	"github.com/RyanBlaney/stochan/algorithms/integrate"
	"github.com/RyanBlaney/stochan/algorithms/stats"
)

// Integral sources in a Report
const (
	SourceEmpirical = "empirical"
	SourceAveraged  = "averaged"
	SourceTheory    = "theory"
)

// Comparison pairs an estimate with its analytical reference, when known
type Comparison struct {
	Empirical   float64  `json:"empirical" yaml:"empirical"`
	Theoretical *float64 `json:"theoretical,omitempty" yaml:"theoretical,omitempty"`
}

// Report summarises an analysis session. Correlation lengths and spectrum
// integrals are keyed by source: "empirical" (sample statistics),
// "averaged" (periodogram average), "theory" (analytical function on the
// working grid) and transform method names.
type Report struct {
	Name       string `json:"name" yaml:"name"`
	Samples    int    `json:"samples" yaml:"samples"`
	TimePoints int    `json:"time_points" yaml:"time_points"`

	// Time-averaged mean and variance across realizations
	Mean     *Comparison `json:"mean,omitempty" yaml:"mean,omitempty"`
	Variance *Comparison `json:"variance,omitempty" yaml:"variance,omitempty"`

	// Distribution of all sample values pooled together
	Marginal *stats.MomentResult `json:"marginal,omitempty" yaml:"marginal,omitempty"`

	// int k(t) dt over the lag axis of each source
	CorrelationLength map[string]float64 `json:"correlation_length,omitempty" yaml:"correlation_length,omitempty"`

	// int S(w) dw over the frequency axis of each source; approaches the
	// variance when the axis covers the spectrum's support
	SpectrumIntegral map[string]float64 `json:"spectrum_integral,omitempty" yaml:"spectrum_integral,omitempty"`

	// max |rho(t) - k(t)/s2| over the empirical lag axis, where s2 is the
	// theoretical variance and k the analytical or cached covariance
	CorrCoeffError map[string]float64 `json:"corr_coeff_error,omitempty" yaml:"corr_coeff_error,omitempty"`
}

// Integral integrates the curve with the trapezoid rule over the points with
// X <= upTo (upTo <= 0 keeps every point)
func (c Curve) Integral(upTo float64) (float64, error) {
	c = c.truncate(upTo)
	return integrate.Trapezoid(c.X, c.Y)
}

func (c Curve) truncate(upTo float64) Curve {
	if upTo <= 0 {
		return c
	}
	n := 0
	for n < len(c.X) && c.X[n] <= upTo*(1+1e-12) {
		n++
	}
	return Curve{X: c.X[:n], Y: c.Y[:n]}
}

// Report collects the diagnostics of everything computed so far. Cached
// transform results are integrated up to TauMax and OmegaMax.
func (a *Analyzer) Report() (*Report, error) {
	r := &Report{
		Name:              a.name,
		Samples:           len(a.samples),
		TimePoints:        len(a.timeGrid),
		CorrelationLength: make(map[string]float64),
		SpectrumIntegral:  make(map[string]float64),
		CorrCoeffError:    make(map[string]float64),
	}

	if len(a.samples) > 0 {
		m, err := stats.Marginal(a.samples)
		if err != nil {
			return nil, fmt.Errorf("report: %w", err)
		}
		r.Marginal = m
	}

	if st := a.stats; st != nil {
		r.Mean = &Comparison{Empirical: common.Mean(st.Mean), Theoretical: a.theoreticalMean}
		r.Variance = &Comparison{Empirical: common.Mean(st.Variance), Theoretical: a.theoreticalVariance}

		if err := r.addIntegral(r.CorrelationLength, SourceEmpirical, Curve{X: st.Lags, Y: st.Covariance}, 0); err != nil {
			return nil, err
		}
		if err := r.addIntegral(r.SpectrumIntegral, SourceEmpirical, st.SpectrumFromCovariance, 0); err != nil {
			return nil, err
		}
		if err := r.addIntegral(r.SpectrumIntegral, SourceAveraged, st.AveragedSpectrum, 0); err != nil {
			return nil, err
		}
	}

	if a.covarianceFn != nil {
		tau := a.LagGrid()
		if err := r.addIntegral(r.CorrelationLength, SourceTheory, Curve{X: tau, Y: sample(a.covarianceFn, tau)}, 0); err != nil {
			return nil, err
		}
	}
	if a.spectrumFn != nil {
		omega := a.FrequencyGrid()
		if err := r.addIntegral(r.SpectrumIntegral, SourceTheory, Curve{X: omega, Y: sample(a.spectrumFn, omega)}, 0); err != nil {
			return nil, err
		}
	}

	for _, m := range slices.Sorted(maps.Keys(a.covariances)) {
		if err := r.addIntegral(r.CorrelationLength, m.String(), a.covariances[m], a.cfg.TauMax); err != nil {
			return nil, err
		}
	}
	for _, m := range slices.Sorted(maps.Keys(a.spectra)) {
		if err := r.addIntegral(r.SpectrumIntegral, m.String(), a.spectra[m], a.cfg.OmegaMax); err != nil {
			return nil, err
		}
	}

	if err := a.addCorrCoeffErrors(r); err != nil {
		return nil, err
	}

	return r, nil
}

// addCorrCoeffErrors compares the empirical correlation coefficient with
// every covariance normalised by the theoretical variance. Cached curves are
// interpolated and only compared within their range.
func (a *Analyzer) addCorrCoeffErrors(r *Report) error {
	st := a.stats
	if st == nil || len(st.CorrCoeff) == 0 || a.theoreticalVariance == nil || *a.theoreticalVariance <= 0 {
		return nil
	}
	variance := *a.theoreticalVariance

	if a.covarianceFn != nil {
		r.CorrCoeffError[SourceTheory] = corrCoeffDeviation(st.Lags, st.CorrCoeff, a.covarianceFn, variance, math.Inf(1))
	}

	for _, m := range slices.Sorted(maps.Keys(a.covariances)) {
		c := a.covariances[m]
		if c.Len() < 2 {
			continue
		}
		interp, err := common.NewInterpolator(common.Linear, c.X, c.Y)
		if err != nil {
			return fmt.Errorf("report: %s covariance: %w", m, err)
		}
		r.CorrCoeffError[m.String()] = corrCoeffDeviation(st.Lags, st.CorrCoeff, interp.At, variance, c.X[c.Len()-1])
	}

	return nil
}

func corrCoeffDeviation(lags, rho []float64, k func(float64) float64, variance, upTo float64) float64 {
	var worst float64
	for i, tau := range lags {
		if tau > upTo*(1+1e-12) {
			break
		}
		worst = math.Max(worst, math.Abs(rho[i]-k(tau)/variance))
	}
	return worst
}

// addIntegral skips curves with fewer than two points below upTo
func (r *Report) addIntegral(dst map[string]float64, source string, c Curve, upTo float64) error {
	if c.truncate(upTo).Len() < 2 {
		return nil
	}
	v, err := c.Integral(upTo)
	if err != nil {
		return fmt.Errorf("report: %s integral: %w", source, err)
	}
	dst[source] = v
	return nil
}
