package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeSession(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer

	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestCommandStructure(t *testing.T) {
	cmd := NewRootCmd()

	names := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"analyze", "moments", "version"} {
		assert.True(t, names[want], "missing command %s", want)
	}

	for _, flag := range []string{"config", "output", "verbose"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "missing flag %s", flag)
	}
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "stochan dev\n", out)
}

func TestUnknownOutputFormat(t *testing.T) {
	_, _, err := run(t, "version", "--output", "xml")
	assert.Error(t, err)
}

func TestAnalyzeJSON(t *testing.T) {
	path := writeSession(t, `
name: ou
methods: [quad, fft]
orders: [0, 2]
model:
  kind: exponential
  variance: 1
  scale: 1
analysis:
  n_discr: 64
  synthesis:
    seed: 3
`)

	out, _, err := run(t, "analyze", "--config", path, "--output", "json", "--samples", "4")
	require.NoError(t, err)

	var result analysisResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))

	assert.Equal(t, "exponential", result.Model)
	require.NotNil(t, result.Report)
	assert.Equal(t, "ou", result.Report.Name)
	assert.Equal(t, 4, result.Report.Samples)
	assert.Equal(t, 64, result.Report.TimePoints)
	require.NotNil(t, result.Report.Variance)

	assert.Contains(t, result.SpectrumError, "quad")
	assert.Contains(t, result.SpectrumError, "fft")
	assert.Less(t, result.SpectrumError["quad"], 1e-3)
	assert.Contains(t, result.CovarianceError, "fft")

	assert.Len(t, result.Moments, 2)
	assert.Contains(t, result.Report.SpectrumIntegral, "averaged")
}

func TestAnalyzeRejectsUnknownMethod(t *testing.T) {
	path := writeSession(t, "methods: [bogus]\nsamples: 0\n")

	_, _, err := run(t, "analyze", "--config", path)
	assert.Error(t, err)
}

func TestMoments(t *testing.T) {
	path := writeSession(t, `
model:
  kind: bandlimited
  variance: 2
  scale: 5
`)

	out, _, err := run(t, "moments", "--config", path, "--orders", "0,1")
	require.NoError(t, err)

	var result momentsResult
	require.NoError(t, yaml.Unmarshal([]byte(out), &result))

	assert.Equal(t, "bandlimited", result.Model)
	assert.Equal(t, "quad", result.Method)
	require.Len(t, result.Moments, 2)
	assert.InDelta(t, 2.0, result.Moments[0], 1e-6)
	// int_0^5 w * 2/5 dw
	assert.InDelta(t, 5.0, result.Moments[1], 1e-6)
}

func TestVerboseLogsToStderr(t *testing.T) {
	path := writeSession(t, "samples: 2\nmethods: [fft]\n")

	out, errOut, err := run(t, "analyze", "--config", path, "--verbose")
	require.NoError(t, err)

	assert.Contains(t, errOut, "Synthesised samples from spectrum")
	assert.Contains(t, errOut, `"command"`)
	assert.Contains(t, errOut, `"analyze"`)
	assert.NotContains(t, out, "Synthesised samples")

	var result analysisResult
	require.NoError(t, yaml.Unmarshal([]byte(out), &result))
	assert.Equal(t, 2, result.Report.Samples)
}
