package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinspace(t *testing.T) {
	assert.Equal(t, []float64{}, Linspace(0, 1, 0))
	assert.Equal(t, []float64{2}, Linspace(2, 5, 1))
	assert.InDeltaSlice(t, []float64{0, 2.5, 5, 7.5, 10}, Linspace(0, 10, 5), 1e-12)
}

func TestStep(t *testing.T) {
	dt, err := Step(Linspace(0, 10, 201))
	require.NoError(t, err)
	assert.InDelta(t, 0.05, dt, 1e-12)

	_, err = Step([]float64{1})
	assert.Error(t, err)

	_, err = Step([]float64{3, 1})
	assert.Error(t, err)
}

func TestColumnMeanVariance(t *testing.T) {
	rows := [][]float64{
		{1, 2, 5},
		{3, 2, -5},
	}

	mean, variance := ColumnMeanVariance(rows)
	assert.InDeltaSlice(t, []float64{2, 2, 0}, mean, 1e-12)
	assert.InDeltaSlice(t, []float64{1, 0, 25}, variance, 1e-12)
}

func TestMeanRows(t *testing.T) {
	avg := MeanRows([][]float64{{1, 2}, {3, 6}, {2, 1}})
	assert.InDeltaSlice(t, []float64{2, 3}, avg, 1e-12)
	assert.Empty(t, MeanRows(nil))
}

func TestCheckUniform(t *testing.T) {
	tests := []struct {
		name    string
		grid    []float64
		wantErr bool
	}{
		{"linspace", Linspace(0, 10, 101), false},
		{"multiples of a step", []float64{0, 0.1, 0.2, 0.30000000000000004, 0.4}, false},
		{"uneven", []float64{0, 0.1, 0.2, 5, 9.9, 10}, true},
		{"decreasing", []float64{2, 1, 0}, true},
		{"single point", []float64{1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckUniform(tt.grid, 1e-9)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestInterpolator(t *testing.T) {
	x := []float64{0, 1, 3}
	y := []float64{0, 10, 30}

	lin, err := NewInterpolator(Linear, x, y)
	require.NoError(t, err)

	tests := []struct {
		name string
		xi   float64
		want float64
	}{
		{"below range holds first", -1, 0},
		{"on knot", 1, 10},
		{"inside first interval", 0.25, 2.5},
		{"inside second interval", 2, 20},
		{"above range holds last", 4, 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, lin.At(tt.xi), 1e-12)
		})
	}

	near, err := NewInterpolator(Nearest, x, y)
	require.NoError(t, err)
	assert.Equal(t, 10.0, near.Func()(1.4))
	assert.Equal(t, 30.0, near.Func()(2.6))
}

func TestInterpolatorRejectsBadTables(t *testing.T) {
	_, err := NewInterpolator(Linear, []float64{0, 1}, []float64{1})
	assert.Error(t, err)

	_, err = NewInterpolator(Linear, nil, nil)
	assert.Error(t, err)

	_, err = NewInterpolator(Linear, []float64{0, 0}, []float64{1, 2})
	assert.Error(t, err)
}
