package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/stochan/algorithms/synthesis"
	"github.com/RyanBlaney/stochan/algorithms/windowing"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Len(t, cfg.DefaultTimeGrid(), 100)
	assert.InDelta(t, 10.0, cfg.DefaultLagGrid()[99], 1e-12)
	assert.InDelta(t, 10.0/99, cfg.DefaultFrequencyGrid()[1], 1e-12)
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero omega max", func(c *Config) { c.OmegaMax = 0 }},
		{"negative tau max", func(c *Config) { c.TauMax = -1 }},
		{"single point grid", func(c *Config) { c.NDiscr = 1 }},
		{"negative workers", func(c *Config) { c.Workers = -2 }},
		{"bad log level", func(c *Config) { c.LogLevel = "chatty" }},
		{"no quadrature nodes", func(c *Config) { c.Quadrature.Order = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestNormalizeRaisesTimeMax(t *testing.T) {
	cfg := Default()
	cfg.TauMax = 25
	cfg.Normalize()
	assert.Equal(t, 25.0, cfg.TimeMax)

	cfg.TimeMax = 40
	cfg.Normalize()
	assert.Equal(t, 40.0, cfg.TimeMax)
}

func TestLoadSessionDefaults(t *testing.T) {
	s, err := LoadSession("")
	require.NoError(t, err)

	assert.Equal(t, 50, s.Samples)
	assert.Equal(t, []string{"quad", "fft"}, s.Methods)
	assert.Equal(t, "exponential", s.Model.Kind)
	assert.Equal(t, 100, s.Analysis.NDiscr)
	assert.Equal(t, synthesis.IFFT, s.Analysis.Synthesis.Method)
	assert.Equal(t, windowing.Rectangular, s.Analysis.PSD.Window)
}

func TestLoadSessionFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	body := `
name: lorentz
samples: 20
methods: [fft]
model:
  kind: gaussian
  variance: 2
  scale: 0.5
analysis:
  omega_max: 30
  tau_max: 15
  time_max: 5
  n_discr: 256
  psd:
    window: hann
  synthesis:
    seed: 7
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	s, err := LoadSession(path)
	require.NoError(t, err)

	assert.Equal(t, "lorentz", s.Name)
	assert.Equal(t, 20, s.Samples)
	assert.Equal(t, []string{"fft"}, s.Methods)
	assert.Equal(t, "gaussian", s.Model.Kind)
	assert.Equal(t, 30.0, s.Analysis.OmegaMax)
	assert.Equal(t, 15.0, s.Analysis.TimeMax, "time max raised to tau max")
	assert.Equal(t, windowing.Hann, s.Analysis.PSD.Window)
	assert.Equal(t, uint64(7), s.Analysis.Synthesis.Seed)
	assert.Equal(t, 16, s.Analysis.Quadrature.Order, "unset keys keep defaults")
}

func TestLoadSessionEnvOverride(t *testing.T) {
	t.Setenv("STOCHAN_ANALYSIS_N_DISCR", "512")

	s, err := LoadSession("")
	require.NoError(t, err)
	assert.Equal(t, 512, s.Analysis.NDiscr)
}

func TestLoadSessionErrors(t *testing.T) {
	_, err := LoadSession(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("model:\n  kind: pink\n"), 0o600))
	_, err = LoadSession(path)
	assert.Error(t, err)
}
