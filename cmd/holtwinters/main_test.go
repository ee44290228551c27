package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	holtwinters "github.com/aouyang1/go-holtwinters"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.Nil(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunUntimed(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTestFile(t, dir, "holtwinters.yaml", "model:\n  optimized: false\n  alpha: 0.5\n")
	input := writeTestFile(t, dir, "series.csv", "y\n1\n2\n3\n4\n")
	modelPath := filepath.Join(dir, "model.json")
	plotPath := filepath.Join(dir, "plot.html")

	var stdout, stderr bytes.Buffer
	err := run([]string{
		"-config", cfgPath,
		"-input", input,
		"-horizon", "2",
		"-model", modelPath,
		"-plot", plotPath,
	}, &stdout, &stderr)
	require.Nil(t, err)

	out := stdout.String()
	assert.Contains(t, out, "Holt-Winters:")
	assert.Contains(t, out, "Forecast:\n4,3.125000\n5,3.125000\n")
	assert.Contains(t, stderr.String(), "fit complete")

	file, err := os.Open(modelPath)
	require.Nil(t, err)
	defer file.Close()
	m, err := holtwinters.ReadModel(file)
	require.Nil(t, err)
	assert.Equal(t, 0.5, m.Params.Alpha)

	plot, err := os.ReadFile(plotPath)
	require.Nil(t, err)
	assert.NotEmpty(t, plot)
}

func TestRunTimed(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTestFile(t, dir, "holtwinters.yaml", `
model:
  optimized: false
  alpha: 0.5
  business_days: weekdays
logging:
  format: json
`)
	input := writeTestFile(t, dir, "series.csv", `ds,value
2024-07-10T00:00:00Z,1
2024-07-11T00:00:00Z,2
2024-07-12T00:00:00Z,3
`)

	var stdout, stderr bytes.Buffer
	err := run([]string{
		"-config", cfgPath,
		"-input", input,
		"-date-column", "ds",
		"-value-column", "value",
		"-horizon", "1",
	}, &stdout, &stderr)
	require.Nil(t, err)

	// 1, 1, 1.5 fitted leaves a level of 2.25 after the last point and friday rolls to monday
	assert.Contains(t, stdout.String(), "Forecast:\n2024-07-15T00:00:00Z,2.250000\n")
	assert.Contains(t, stderr.String(), `"msg":"fit complete"`)
}

func TestRunErrors(t *testing.T) {
	dir := t.TempDir()
	input := writeTestFile(t, dir, "series.csv", "y\n1\n2\nx\n")

	testData := map[string]struct {
		args []string
		err  error
	}{
		"no input": {
			args: []string{"-horizon", "2"},
			err:  ErrNoInput,
		},
		"unknown flag": {
			args: []string{"-bogus"},
		},
		"bad value": {
			args: []string{"-input", input},
		},
		"negative horizon": {
			args: []string{"-input", input, "-horizon", "-2"},
		},
		"missing config": {
			args: []string{"-config", filepath.Join(dir, "missing.yaml")},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			err := run(td.args, &stdout, &stderr)
			require.NotNil(t, err)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
			}
		})
	}
}
