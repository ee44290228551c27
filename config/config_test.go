package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/aouyang1/go-holtwinters/boxcox"
	"github.com/aouyang1/go-holtwinters/estimate"
	"github.com/aouyang1/go-holtwinters/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.Nil(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.Nil(t, cfg.Validate())

	opt, err := cfg.Options()
	require.Nil(t, err)
	assert.True(t, opt.Optimized)
	assert.Equal(t, state.TrendNone, opt.Trend)
	assert.Equal(t, estimate.MethodNelderMead, opt.EstimateOptions.Method)
	assert.False(t, opt.Transform.Enabled())
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "holtwinters.yaml", `
model:
  trend: add
  damped: true
  seasonal: mul
  seasonal_periods: 7
  alpha: 0.3
  transform: auto
  remove_bias: true
  business_days: weekdays
estimate:
  method: lbfgs
  use_basin_hopping: true
  hopping:
    seed: 42
input:
  path: series.csv
  date_column: ds
  value_column: value
  delimiter: ";"
output:
  horizon: 14
  profile: cpu
logging:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.Nil(t, err)

	opt, err := cfg.Options()
	require.Nil(t, err)
	assert.Equal(t, state.TrendAdditive, opt.Trend)
	assert.True(t, opt.Damped)
	assert.Equal(t, state.SeasonalMultiplicative, opt.Seasonal)
	assert.Equal(t, 7, opt.SeasonalPeriods)
	require.NotNil(t, opt.Alpha)
	assert.Equal(t, 0.3, *opt.Alpha)
	assert.Nil(t, opt.Beta)
	assert.Equal(t, boxcox.MethodAuto, opt.Transform.Method)
	assert.True(t, opt.RemoveBias)
	assert.Equal(t, "weekdays", opt.BusinessDays)

	assert.Equal(t, estimate.MethodLBFGS, opt.EstimateOptions.Method)
	assert.True(t, opt.EstimateOptions.UseBasinHopping)
	assert.Equal(t, uint64(42), opt.EstimateOptions.Hopping.Seed)
	assert.Equal(t, 20, opt.EstimateOptions.GridPoints)

	csvOpt, err := cfg.Input.CSVOptions()
	require.Nil(t, err)
	assert.Equal(t, "ds", csvOpt.DateColumn)
	assert.Equal(t, "value", csvOpt.ValueColumn)
	assert.Equal(t, ';', csvOpt.Delimiter)
	assert.True(t, csvOpt.HasHeader)

	assert.Equal(t, "series.csv", cfg.Input.Path)
	assert.Equal(t, 14, cfg.Output.Horizon)
	assert.Equal(t, ProfileCPU, cfg.Output.Profile)
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, "holtwinters.yaml", `
model:
  trend: add
`)
	t.Setenv("HW_MODEL_TREND", "mul")
	t.Setenv("HW_OUTPUT_HORIZON", "3")

	cfg, err := Load(path)
	require.Nil(t, err)
	assert.Equal(t, "mul", cfg.Model.Trend)
	assert.Equal(t, 3, cfg.Output.Horizon)
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.Nil(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadErrors(t *testing.T) {
	testData := map[string]struct {
		path    func(t *testing.T) string
		content string
	}{
		"missing file": {
			path: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "missing.yaml")
			},
		},
		"unknown trend": {
			path: func(t *testing.T) string {
				return writeConfig(t, "bad.yaml", "model:\n  trend: cubic\n")
			},
		},
		"fixed coefficients missing": {
			path: func(t *testing.T) string {
				return writeConfig(t, "bad.yaml", "model:\n  optimized: false\n")
			},
		},
		"negative horizon": {
			path: func(t *testing.T) string {
				return writeConfig(t, "bad.yaml", "output:\n  horizon: -1\n")
			},
		},
		"unknown log format": {
			path: func(t *testing.T) string {
				return writeConfig(t, "bad.yaml", "logging:\n  format: xml\n")
			},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			_, err := Load(td.path(t))
			assert.NotNil(t, err)
		})
	}
}

func TestValidate(t *testing.T) {
	testData := map[string]struct {
		modify func(c *Config)
		err    error
	}{
		"valid": {
			modify: func(c *Config) {},
		},
		"unknown profile": {
			modify: func(c *Config) { c.Output.Profile = "block" },
			err:    ErrUnknownProfile,
		},
		"long delimiter": {
			modify: func(c *Config) { c.Input.Delimiter = "||" },
			err:    ErrInvalidDelim,
		},
		"unknown format": {
			modify: func(c *Config) { c.Logging.Format = "xml" },
			err:    ErrUnknownFormat,
		},
		"unknown method": {
			modify: func(c *Config) { c.Estimate.Method = "simplex" },
			err:    estimate.ErrUnknownMethod,
		},
		"unknown transform": {
			modify: func(c *Config) { c.Model.Transform = "sqrt" },
			err:    boxcox.ErrUnknownMethod,
		},
		"damped without trend": {
			modify: func(c *Config) { c.Model.Damped = true },
			err:    state.ErrDampedWithoutTrend,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			td.modify(cfg)
			err := cfg.Validate()
			if td.err == nil {
				assert.Nil(t, err)
				return
			}
			assert.ErrorIs(t, err, td.err)
		})
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := LoggingConfig{Level: "warn", Format: FormatJSON}.Logger(&buf)
	require.Nil(t, err)

	logger.Info("dropped")
	logger.Warn("kept", "key", 1)
	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), `"msg":"kept"`)

	_, err = LoggingConfig{Level: "loud"}.Logger(&buf)
	assert.NotNil(t, err)
}
