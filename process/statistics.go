package process

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/RyanBlaney/stochan/algorithms/common"
	"github.com/RyanBlaney/stochan/algorithms/spectral"
	"github.com/RyanBlaney/stochan/algorithms/stats"
	"github.com/RyanBlaney/stochan/logging"
)

// ComputeSampleStatistics estimates the statistics of the stored samples.
// Mean and variance per time index are always computed; sel chooses the
// optional parts (none means StatAll).
//
// nLags <= 0 takes Config.NLags, or int(TauMax/dt) when that is unset. The
// count is clamped to [2, nTime].
//
// On success the result replaces the previous statistics, and its lag axis
// and covariance-derived frequency axis become the working grids.
func (a *Analyzer) ComputeSampleStatistics(nLags int, sel ...Stat) (*SampleStatistics, error) {
	const op = "compute sample statistics"

	if len(a.samples) == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrNoSamples)
	}

	var want Stat
	for _, s := range sel {
		want |= s
	}
	if want == 0 {
		want = StatAll
	}

	dt, err := common.Step(a.timeGrid)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	start := time.Now()
	result := &SampleStatistics{Computed: want}
	result.Mean, result.Variance = common.ColumnMeanVariance(a.samples)

	if want.Has(StatAveragedSpectrum) {
		if err := a.averagedSpectrum(result); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	if want.Has(StatCorrelation) {
		if nLags <= 0 {
			nLags = a.cfg.NLags
		}
		if nLags <= 0 {
			nLags = int(a.cfg.TauMax/dt + 1e-9)
		}
		nLags = common.Clamp(nLags, 2, len(a.timeGrid))

		if err := a.correlation(result, nLags, dt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	a.stats = result
	a.lagGrid = nil
	a.frequencyGrid = nil

	a.logger.Debug("Computed sample statistics", logging.Fields{
		"samples":     len(a.samples),
		"lags":        len(result.Lags),
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return result, nil
}

// averagedSpectrum averages per-row periodograms and converts the result to
// the angular-frequency convention: S_w = S_f / 2pi on w = 2pi f
func (a *Analyzer) averagedSpectrum(result *SampleStatistics) error {
	opts := a.cfg.PSD
	opts.Segments = 1
	opts.Detrend = false

	psds := make([][]float64, len(a.samples))
	freqs := make([][]float64, len(a.samples))
	err := a.forEachRow(len(a.samples), func(i int) error {
		f, p, err := spectral.Periodogram(a.timeGrid, a.samples[i], opts)
		if err != nil {
			return fmt.Errorf("periodogram of row %d: %w", i, err)
		}
		freqs[i], psds[i] = f, p
		return nil
	})
	if err != nil {
		return err
	}

	avg := common.MeanRows(psds)
	floats.Scale(1/(2*math.Pi), avg)

	omega := append([]float64(nil), freqs[0]...)
	floats.Scale(2*math.Pi, omega)

	result.AveragedSpectrum = Curve{X: omega, Y: avg}
	return nil
}

// correlation averages per-row autocorrelation coefficients and
// autocovariances (coefficients times the row variance) across rows, then
// transforms the averaged autocovariance into a spectrum
func (a *Analyzer) correlation(result *SampleStatistics, nLags int, dt float64) error {
	estimator := stats.NewAutocorrelation(stats.FrequencyDomain)

	rhos := make([][]float64, len(a.samples))
	covs := make([][]float64, len(a.samples))
	lags := make([][]float64, len(a.samples))
	err := a.forEachRow(len(a.samples), func(i int) error {
		res, err := estimator.Compute(a.samples[i], nLags, dt)
		if err != nil {
			return fmt.Errorf("autocorrelation of row %d: %w", i, err)
		}
		cov := make([]float64, len(res.Coefficients))
		floats.ScaleTo(cov, res.Variance, res.Coefficients)

		rhos[i], covs[i], lags[i] = res.Coefficients, cov, res.Lags
		return nil
	})
	if err != nil {
		return err
	}

	result.Lags = lags[0]
	result.CorrCoeff = common.MeanRows(rhos)
	result.Covariance = common.MeanRows(covs)

	omega, s, err := spectral.AutocovarianceToSpectrum(result.Lags, result.Covariance)
	if err != nil {
		return fmt.Errorf("spectrum from empirical covariance: %w", err)
	}
	result.SpectrumFromCovariance = Curve{X: omega, Y: s}

	return nil
}
