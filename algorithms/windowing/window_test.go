package windowing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowShapes(t *testing.T) {
	tests := []struct {
		kind  Type
		size  int
		first float64
		mid   float64
	}{
		{Rectangular, 8, 1, 1},
		{Hann, 8, 0, 1},
		{Hamming, 8, 0.08, 1},
		{Welch, 9, 0, 1},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			w, err := New(tt.kind, tt.size)
			require.NoError(t, err)

			ones := make([]float64, tt.size)
			for i := range ones {
				ones[i] = 1
			}
			coeffs, err := w.Apply(ones)
			require.NoError(t, err)
			require.Len(t, coeffs, tt.size)
			assert.InDelta(t, tt.first, coeffs[0], 1e-12)
			assert.InDelta(t, tt.mid, coeffs[tt.size/2], 1e-12)
		})
	}
}

func TestWindowApply(t *testing.T) {
	w, err := New(Hann, 4)
	require.NoError(t, err)

	out, err := w.Apply([]float64{2, 2, 2, 2})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, 1, 2, 1}, out, 1e-12)
	assert.InDelta(t, 1.5, w.Power(), 1e-12)

	_, err = w.Apply([]float64{1})
	assert.Error(t, err)
}

func TestFuncMatchesNew(t *testing.T) {
	fn, err := Func(Hamming)
	require.NoError(t, err)

	w, err := New(Hamming, 16)
	require.NoError(t, err)
	ones := []float64{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1}
	coeffs, err := w.Apply(ones)
	require.NoError(t, err)
	assert.Equal(t, coeffs, fn(16))

	def, err := Func("")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1, 1}, def(3))
}

func TestUnknownWindow(t *testing.T) {
	_, err := New("kaiser", 8)
	assert.Error(t, err)

	_, err = New(Hann, 0)
	assert.Error(t, err)
}
