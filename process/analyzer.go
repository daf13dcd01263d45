// Package process analyses stationary stochastic processes from sample paths
// and from closed-form autocovariance or autospectrum functions.
//
// An Analyzer holds one analysis session: the shared discretisation domains,
// the analytical references it was given, the latest samples and sample
// statistics, and the results of every analytical transform keyed by method
// so that methods can be compared without recomputation.
//
// Spectra are one-sided over angular frequency w >= 0 and integrate to the
// variance:
//
//	S(w) = 2/pi * int_0^inf k(t) cos(w t) dt,    k(t) = int_0^inf S(w) cos(w t) dw
//
// An Analyzer is not safe for concurrent use; independent analyses need
// independent analyzers.
package process

import (
	"fmt"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/RyanBlaney/stochan/logging"
	"github.com/RyanBlaney/stochan/models"
	"github.com/RyanBlaney/stochan/process/config"
)

// Generator produces one realization on the given time grid. It must return
// a series of the same length as t.
type Generator func(t []float64) []float64

// Analyzer is the stochastic-process analysis engine
type Analyzer struct {
	name   string
	cfg    config.Config
	logger logging.Logger

	// analytical references
	generator           Generator
	covarianceFn        func(tau float64) float64
	spectrumFn          func(omega float64) float64
	theoreticalMean     *float64
	theoreticalVariance *float64

	// samples, nSamples x nTime, aligned to timeGrid
	timeGrid []float64
	samples  [][]float64
	stats    *SampleStatistics

	// caller overrides of the working grids
	lagGrid       []float64
	frequencyGrid []float64

	spectra     map[Method]Curve
	covariances map[Method]Curve
}

// Option configures an Analyzer at construction
type Option func(*Analyzer)

// WithName labels the analyzer in logs and reports
func WithName(name string) Option {
	return func(a *Analyzer) { a.name = name }
}

// WithLogger replaces the global logger
func WithLogger(logger logging.Logger) Option {
	return func(a *Analyzer) { a.logger = logger }
}

// WithGenerator sets the sample generator
func WithGenerator(gen Generator) Option {
	return func(a *Analyzer) { a.generator = gen }
}

// WithCovariance sets the analytical autocovariance (queried at tau >= 0)
func WithCovariance(fn func(tau float64) float64) Option {
	return func(a *Analyzer) { a.covarianceFn = fn }
}

// WithSpectrum sets the analytical one-sided autospectrum (queried at w >= 0)
func WithSpectrum(fn func(omega float64) float64) Option {
	return func(a *Analyzer) { a.spectrumFn = fn }
}

// WithTheoreticalMean sets the reference mean
func WithTheoreticalMean(mu float64) Option {
	return func(a *Analyzer) { a.theoreticalMean = &mu }
}

// WithTheoreticalVariance sets the reference variance
func WithTheoreticalVariance(v float64) Option {
	return func(a *Analyzer) { a.theoreticalVariance = &v }
}

// WithModel sets covariance, spectrum, mean 0 and variance from a closed-form pair
func WithModel(pair models.Pair) Option {
	return func(a *Analyzer) {
		a.covarianceFn = pair.Covariance
		a.spectrumFn = pair.Spectrum
		mu, v := 0.0, pair.Variance()
		a.theoreticalMean = &mu
		a.theoreticalVariance = &v
		if a.name == "" {
			a.name = pair.Name()
		}
	}
}

// New creates an analyzer over the given domains. TimeMax is raised to at
// least TauMax.
func New(cfg config.Config, opts ...Option) (*Analyzer, error) {
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &Analyzer{
		cfg:         cfg,
		spectra:     make(map[Method]Curve),
		covariances: make(map[Method]Curve),
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.logger == nil {
		a.logger = logging.GetGlobalLogger()
	}
	a.logger = a.logger.WithFields(logging.Fields{"process": a.name})

	return a, nil
}

// Name returns the analyzer label
func (a *Analyzer) Name() string {
	return a.name
}

// Config returns the analyzer's domains and numeric settings
func (a *Analyzer) Config() config.Config {
	return a.cfg
}

// Capabilities reports which analytical references are present
func (a *Analyzer) Capabilities() Capability {
	var c Capability
	if a.generator != nil {
		c |= CapGenerator
	}
	if a.covarianceFn != nil {
		c |= CapCovariance
	}
	if a.spectrumFn != nil {
		c |= CapSpectrum
	}
	return c
}

// SetGenerator replaces the sample generator
func (a *Analyzer) SetGenerator(gen Generator) {
	a.generator = gen
}

// SetCovariance replaces the analytical autocovariance
func (a *Analyzer) SetCovariance(fn func(tau float64) float64) {
	a.covarianceFn = fn
}

// SetSpectrum replaces the analytical autospectrum
func (a *Analyzer) SetSpectrum(fn func(omega float64) float64) {
	a.spectrumFn = fn
}

// TheoreticalMean returns the reference mean, if set
func (a *Analyzer) TheoreticalMean() (float64, bool) {
	if a.theoreticalMean == nil {
		return 0, false
	}
	return *a.theoreticalMean, true
}

// TheoreticalVariance returns the reference variance, if set
func (a *Analyzer) TheoreticalVariance() (float64, bool) {
	if a.theoreticalVariance == nil {
		return 0, false
	}
	return *a.theoreticalVariance, true
}

// NumSamples returns the number of stored realizations
func (a *Analyzer) NumSamples() int {
	return len(a.samples)
}

// Samples returns a copy of the stored realizations
func (a *Analyzer) Samples() [][]float64 {
	return cloneRows(a.samples)
}

// TimeGrid returns the time grid of the stored samples, or the default grid
// before any generation
func (a *Analyzer) TimeGrid() []float64 {
	if a.timeGrid != nil {
		return slices.Clone(a.timeGrid)
	}
	return a.cfg.DefaultTimeGrid()
}

// Statistics returns the latest sample statistics, nil before the first
// successful ComputeSampleStatistics
func (a *Analyzer) Statistics() *SampleStatistics {
	return a.stats
}

// SetLagGrid overrides the working lag grid until the next statistics call
func (a *Analyzer) SetLagGrid(tau []float64) error {
	if err := checkGrid(tau); err != nil {
		return fmt.Errorf("set lag grid: %w", err)
	}
	a.lagGrid = slices.Clone(tau)
	return nil
}

// SetFrequencyGrid overrides the working frequency grid until the next
// statistics call
func (a *Analyzer) SetFrequencyGrid(omega []float64) error {
	if err := checkGrid(omega); err != nil {
		return fmt.Errorf("set frequency grid: %w", err)
	}
	a.frequencyGrid = slices.Clone(omega)
	return nil
}

// LagGrid returns the working lag grid: a caller override, else the lags of
// the latest empirical covariance, else linspace(0, TauMax, NDiscr)
func (a *Analyzer) LagGrid() []float64 {
	switch {
	case a.lagGrid != nil:
		return slices.Clone(a.lagGrid)
	case a.stats != nil && len(a.stats.Lags) > 0:
		return slices.Clone(a.stats.Lags)
	default:
		return a.cfg.DefaultLagGrid()
	}
}

// FrequencyGrid returns the working frequency grid: a caller override, else
// the FFT axis of the latest covariance-derived spectrum, else
// linspace(0, OmegaMax, NDiscr)
func (a *Analyzer) FrequencyGrid() []float64 {
	switch {
	case a.frequencyGrid != nil:
		return slices.Clone(a.frequencyGrid)
	case a.stats != nil && !a.stats.SpectrumFromCovariance.Empty():
		return slices.Clone(a.stats.SpectrumFromCovariance.X)
	default:
		return a.cfg.DefaultFrequencyGrid()
	}
}

// SpectrumByMethod returns the cached spectrum of a transform method
func (a *Analyzer) SpectrumByMethod(m Method) (Curve, bool) {
	c, ok := a.spectra[m]
	return c.Clone(), ok
}

// CovarianceByMethod returns the cached covariance of a transform method
func (a *Analyzer) CovarianceByMethod(m Method) (Curve, bool) {
	c, ok := a.covariances[m]
	return c.Clone(), ok
}

// forEachRow runs fn for rows 0..n-1 on at most cfg.Workers goroutines.
// fn must only write to its own row's slot.
func (a *Analyzer) forEachRow(n int, fn func(i int) error) error {
	workers := a.cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		g.Go(func() error { return fn(i) })
	}
	return g.Wait()
}

func checkGrid(grid []float64) error {
	if len(grid) == 0 {
		return fmt.Errorf("%w: empty grid", ErrInvalidArgument)
	}
	for i, v := range grid {
		if v < 0 {
			return fmt.Errorf("%w: grid value %g at %d is negative", ErrInvalidArgument, v, i)
		}
		if i > 0 && v <= grid[i-1] {
			return fmt.Errorf("%w: grid must be strictly increasing (index %d)", ErrInvalidArgument, i)
		}
	}
	return nil
}

func cloneRows(rows [][]float64) [][]float64 {
	if rows == nil {
		return nil
	}
	out := make([][]float64, len(rows))
	for i, r := range rows {
		out[i] = slices.Clone(r)
	}
	return out
}
