package process

import (
	"fmt"
	"time"

	"github.com/RyanBlaney/stochan/algorithms/common"
	"github.com/RyanBlaney/stochan/algorithms/synthesis"
	"github.com/RyanBlaney/stochan/logging"
)

// GenerateSamples draws nSamples realizations from the generator on
// timeGrid (nil uses the default time grid). The generator is called once
// per row, in row order, so it may carry its own random state.
//
// Samples and time grid are replaced only when every row succeeds. Previous
// sample statistics are discarded.
func (a *Analyzer) GenerateSamples(nSamples int, timeGrid []float64) ([][]float64, error) {
	const op = "generate samples"

	if a.generator == nil {
		return nil, &ConfigurationError{Op: op, Missing: "a generator"}
	}
	grid, err := a.resolveTimeGrid(op, nSamples, timeGrid)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	rows := make([][]float64, nSamples)
	for i := range rows {
		row := a.generator(grid)
		if len(row) != len(grid) {
			return nil, &DimensionMismatchError{Op: op, Row: i, Got: len(row), Want: len(grid)}
		}
		rows[i] = append([]float64(nil), row...)
	}

	a.commitSamples(grid, rows)

	a.logger.Debug("Generated samples", logging.Fields{
		"samples":     nSamples,
		"time_points": len(grid),
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return cloneRows(rows), nil
}

// GenerateSamplesFromSpectrum synthesises nSamples realizations from the
// analytical spectrum on timeGrid (nil uses the default time grid). Row i
// draws its phases from opts.Seed+i, so rows are independent and the result
// does not depend on scheduling.
func (a *Analyzer) GenerateSamplesFromSpectrum(nSamples int, timeGrid []float64, opts synthesis.Options) ([][]float64, error) {
	const op = "generate samples from spectrum"

	if a.spectrumFn == nil {
		return nil, &ConfigurationError{Op: op, Missing: "an autospectrum function"}
	}
	if opts.Method == "" {
		opts.Method = synthesis.IFFT
	}
	if opts.Method != synthesis.IFFT && opts.Method != synthesis.SumCos {
		return nil, &UnsupportedMethodError{Op: op, Method: string(opts.Method)}
	}
	grid, err := a.resolveTimeGrid(op, nSamples, timeGrid)
	if err != nil {
		return nil, err
	}

	dt, err := common.Step(grid)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	duration := grid[len(grid)-1] - grid[0]

	start := time.Now()
	rows := make([][]float64, nSamples)
	err = a.forEachRow(nSamples, func(i int) error {
		rowOpts := opts
		rowOpts.Seed = opts.Seed + uint64(i)

		r, err := synthesis.FromSpectrum(duration, dt, a.spectrumFn, true, rowOpts)
		if err != nil {
			return fmt.Errorf("%s: row %d: %w", op, i, err)
		}
		if len(r.Values) != len(grid) {
			return &DimensionMismatchError{Op: op, Row: i, Got: len(r.Values), Want: len(grid)}
		}
		rows[i] = r.Values
		return nil
	})
	if err != nil {
		return nil, err
	}

	a.commitSamples(grid, rows)

	a.logger.Debug("Synthesised samples from spectrum", logging.Fields{
		"samples":     nSamples,
		"time_points": len(grid),
		"method":      string(opts.Method),
		"seed":        opts.Seed,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return cloneRows(rows), nil
}

// relative spacing tolerance for caller time grids
const uniformTolerance = 1e-9

func (a *Analyzer) resolveTimeGrid(op string, nSamples int, timeGrid []float64) ([]float64, error) {
	if nSamples < 1 {
		return nil, fmt.Errorf("%s: %w: need at least one sample, got %d", op, ErrInvalidArgument, nSamples)
	}
	if timeGrid == nil {
		return a.cfg.DefaultTimeGrid(), nil
	}
	if len(timeGrid) < 2 {
		return nil, fmt.Errorf("%s: %w: time grid needs at least 2 points, got %d", op, ErrInvalidArgument, len(timeGrid))
	}
	for i := 1; i < len(timeGrid); i++ {
		if timeGrid[i] <= timeGrid[i-1] {
			return nil, fmt.Errorf("%s: %w: time grid must be strictly increasing (index %d)", op, ErrInvalidArgument, i)
		}
	}
	if err := common.CheckUniform(timeGrid, uniformTolerance); err != nil {
		return nil, fmt.Errorf("%s: %w: time %w", op, ErrInvalidArgument, err)
	}
	return append([]float64(nil), timeGrid...), nil
}

func (a *Analyzer) commitSamples(grid []float64, rows [][]float64) {
	a.timeGrid = grid
	a.samples = rows
	a.stats = nil
}
