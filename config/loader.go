package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, model.trend is read from HW_MODEL_TREND
const EnvPrefix = "HW"

// Load reads the configuration file at configPath layered over the defaults. Without a
// path, holtwinters.yaml is searched for in the working directory and ./configs and the
// defaults are used when none is found.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return nil, fmt.Errorf("unable to read config, %w", err)
		}
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("holtwinters")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("unable to read config, %w", err)
		}
	}
	return parseConfig(v)
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("model.trend", d.Model.Trend)
	v.SetDefault("model.damped", d.Model.Damped)
	v.SetDefault("model.seasonal", d.Model.Seasonal)
	v.SetDefault("model.seasonal_periods", d.Model.SeasonalPeriods)
	v.SetDefault("model.optimized", d.Model.Optimized)
	v.SetDefault("model.transform", d.Model.Transform)
	v.SetDefault("model.remove_bias", d.Model.RemoveBias)
	v.SetDefault("model.business_days", d.Model.BusinessDays)

	v.SetDefault("estimate.grid_points", d.Estimate.GridPoints)
	v.SetDefault("estimate.parallelization", d.Estimate.Parallelization)
	v.SetDefault("estimate.method", d.Estimate.Method)
	v.SetDefault("estimate.use_basin_hopping", d.Estimate.UseBasinHopping)
	v.SetDefault("estimate.max_evaluations", d.Estimate.MaxEvaluations)
	v.SetDefault("estimate.hopping.iterations", d.Estimate.Hopping.Iterations)
	v.SetDefault("estimate.hopping.step_size", d.Estimate.Hopping.StepSize)
	v.SetDefault("estimate.hopping.temperature", d.Estimate.Hopping.Temperature)
	v.SetDefault("estimate.hopping.seed", d.Estimate.Hopping.Seed)

	v.SetDefault("input.path", d.Input.Path)
	v.SetDefault("input.date_column", d.Input.DateColumn)
	v.SetDefault("input.value_column", d.Input.ValueColumn)
	v.SetDefault("input.date_format", d.Input.DateFormat)
	v.SetDefault("input.has_header", d.Input.HasHeader)
	v.SetDefault("input.delimiter", d.Input.Delimiter)

	v.SetDefault("output.horizon", d.Output.Horizon)
	v.SetDefault("output.model", d.Output.Model)
	v.SetDefault("output.plot", d.Output.Plot)
	v.SetDefault("output.profile", d.Output.Profile)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
}

func parseConfig(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config, %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config, %w", err)
	}
	return &cfg, nil
}
