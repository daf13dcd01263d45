package main

import (
	"fmt"
	"math"
	"time"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/stochan/logging"
	"github.com/RyanBlaney/stochan/models"
	"github.com/RyanBlaney/stochan/process"
)

// analysisResult is the encoded output of the analyze command
type analysisResult struct {
	Model   string          `json:"model" yaml:"model"`
	Report  *process.Report `json:"report" yaml:"report"`
	Moments map[int]float64 `json:"moments,omitempty" yaml:"moments,omitempty"`

	// Largest absolute deviation of each transform from the closed form,
	// keyed by method, over [0, OmegaMax] and [0, TauMax]
	SpectrumError   map[string]float64 `json:"spectrum_error,omitempty" yaml:"spectrum_error,omitempty"`
	CovarianceError map[string]float64 `json:"covariance_error,omitempty" yaml:"covariance_error,omitempty"`
}

func newAnalyzeCmd(opts *rootOptions) *cobra.Command {
	var samples int

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run a full analysis session",
		Long: `Synthesise samples from the model spectrum, estimate their statistics,
run the configured covariance/spectrum transforms and spectral moments, and
print a report comparing every estimate with the closed form.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, logger, err := opts.loadSession(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("samples") {
				session.Samples = samples
			}

			a, pair, err := newAnalyzer(session, logger)
			if err != nil {
				return err
			}

			start := time.Now()
			result, err := runAnalysis(a, pair, session.Samples, session.Methods, session.Orders)
			if err != nil {
				logger.Error(err, "Analysis failed")
				return err
			}

			logger.Info("Analysis finished", logging.Fields{
				"model":       pair.Name(),
				"samples":     session.Samples,
				"duration_ms": time.Since(start).Milliseconds(),
			})

			return opts.encode(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().IntVarP(&samples, "samples", "n", 0, "Override the number of synthesised samples")

	return cmd
}

func runAnalysis(a *process.Analyzer, pair models.Pair, samples int, methodNames []string, orders []int) (*analysisResult, error) {
	cfg := a.Config()

	methods := make([]process.Method, 0, len(methodNames))
	for _, name := range methodNames {
		m, err := process.ParseMethod(name)
		if err != nil {
			return nil, err
		}
		methods = append(methods, m)
	}

	if samples > 0 {
		if _, err := a.GenerateSamplesFromSpectrum(samples, nil, cfg.Synthesis); err != nil {
			return nil, err
		}
		if _, err := a.ComputeSampleStatistics(0); err != nil {
			return nil, err
		}
	}

	result := &analysisResult{
		Model:           pair.Name(),
		SpectrumError:   make(map[string]float64),
		CovarianceError: make(map[string]float64),
	}

	for _, m := range methods {
		s, err := a.ComputeSpectrumFromCovariance(nil, 0, m, 0)
		if err != nil {
			return nil, err
		}
		result.SpectrumError[m.String()] = maxDeviation(s, pair.Spectrum, cfg.OmegaMax)

		k, err := a.ComputeCovarianceFromSpectrum(nil, 0, m, 0)
		if err != nil {
			return nil, err
		}
		result.CovarianceError[m.String()] = maxDeviation(k, pair.Covariance, cfg.TauMax)
	}

	if orders != nil {
		moments, err := a.ComputeSpectralMoments(orders, process.MethodQuad)
		if err != nil {
			return nil, err
		}
		result.Moments = moments
	}

	report, err := a.Report()
	if err != nil {
		return nil, fmt.Errorf("build report: %w", err)
	}
	result.Report = report

	return result, nil
}

// maxDeviation returns max |c.Y - f(c.X)| over the points with X <= upTo
func maxDeviation(c process.Curve, f func(float64) float64, upTo float64) float64 {
	var worst float64
	for i, x := range c.X {
		if x > upTo*(1+1e-12) {
			break
		}
		worst = math.Max(worst, math.Abs(c.Y[i]-f(x)))
	}
	return worst
}
