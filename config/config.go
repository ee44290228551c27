// Package config loads the command line configuration of a Holt-Winters run from a file
// and the environment and converts it into library options.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	holtwinters "github.com/aouyang1/go-holtwinters"
	"github.com/aouyang1/go-holtwinters/boxcox"
	"github.com/aouyang1/go-holtwinters/estimate"
	"github.com/aouyang1/go-holtwinters/search"
	"github.com/aouyang1/go-holtwinters/state"
	"github.com/aouyang1/go-holtwinters/timedataset"
)

var (
	ErrNegativeHorizon = errors.New("negative forecast horizon")
	ErrUnknownProfile  = errors.New("unknown profile mode")
	ErrUnknownFormat   = errors.New("unknown log format")
	ErrInvalidDelim    = errors.New("delimiter must be a single character")
)

const (
	ProfileNone = ""
	ProfileCPU  = "cpu"
	ProfileMem  = "mem"

	FormatText = "text"
	FormatJSON = "json"
)

// Config is the complete configuration of a run
type Config struct {
	Model    ModelConfig    `mapstructure:"model"`
	Estimate EstimateConfig `mapstructure:"estimate"`
	Input    InputConfig    `mapstructure:"input"`
	Output   OutputConfig   `mapstructure:"output"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ModelConfig describes the model shape and its coefficients
type ModelConfig struct {
	Trend           string   `mapstructure:"trend"`
	Damped          bool     `mapstructure:"damped"`
	Seasonal        string   `mapstructure:"seasonal"`
	SeasonalPeriods int      `mapstructure:"seasonal_periods"`
	Alpha           *float64 `mapstructure:"alpha"`
	Beta            *float64 `mapstructure:"beta"`
	Gamma           *float64 `mapstructure:"gamma"`
	Phi             *float64 `mapstructure:"phi"`
	Optimized       bool     `mapstructure:"optimized"`
	Transform       string   `mapstructure:"transform"`
	RemoveBias      bool     `mapstructure:"remove_bias"`
	BusinessDays    string   `mapstructure:"business_days"`
}

// EstimateConfig tunes the coefficient search
type EstimateConfig struct {
	GridPoints      int           `mapstructure:"grid_points"`
	Parallelization int           `mapstructure:"parallelization"`
	Method          string        `mapstructure:"method"`
	UseBasinHopping bool          `mapstructure:"use_basin_hopping"`
	MaxEvaluations  int           `mapstructure:"max_evaluations"`
	Hopping         HoppingConfig `mapstructure:"hopping"`
}

type HoppingConfig struct {
	Iterations  int     `mapstructure:"iterations"`
	StepSize    float64 `mapstructure:"step_size"`
	Temperature float64 `mapstructure:"temperature"`
	Seed        uint64  `mapstructure:"seed"`
}

// InputConfig locates the series in a csv file
type InputConfig struct {
	Path        string `mapstructure:"path"`
	DateColumn  string `mapstructure:"date_column"`
	ValueColumn string `mapstructure:"value_column"`
	DateFormat  string `mapstructure:"date_format"`
	HasHeader   bool   `mapstructure:"has_header"`
	Delimiter   string `mapstructure:"delimiter"`
}

// OutputConfig selects what a run writes
type OutputConfig struct {
	Horizon int    `mapstructure:"horizon"`
	Model   string `mapstructure:"model"`
	Plot    string `mapstructure:"plot"`
	Profile string `mapstructure:"profile"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DefaultConfig returns an optimized level only model reading the y column of a csv
func DefaultConfig() *Config {
	estOpt := estimate.NewDefaultOptions()
	csvOpt := timedataset.DefaultCSVOptions()
	return &Config{
		Model: ModelConfig{
			Trend:     state.TrendNone.String(),
			Seasonal:  state.SeasonalNone.String(),
			Optimized: true,
			Transform: boxcox.Options{}.String(),
		},
		Estimate: EstimateConfig{
			GridPoints:     estOpt.GridPoints,
			Method:         string(estOpt.Method),
			MaxEvaluations: estOpt.MaxEvaluations,
			Hopping: HoppingConfig{
				Iterations:  search.DefaultHoppingIterations,
				StepSize:    search.DefaultHoppingStepSize,
				Temperature: search.DefaultHoppingTemp,
			},
		},
		Input: InputConfig{
			ValueColumn: csvOpt.ValueColumn,
			DateFormat:  csvOpt.DateFormat,
			HasHeader:   csvOpt.HasHeader,
			Delimiter:   string(csvOpt.Delimiter),
		},
		Output: OutputConfig{
			Horizon: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: FormatText,
		},
	}
}

// Validate checks every section
func (c *Config) Validate() error {
	if _, err := c.Options(); err != nil {
		return fmt.Errorf("model config: %w", err)
	}
	if _, err := c.Input.CSVOptions(); err != nil {
		return fmt.Errorf("input config: %w", err)
	}
	if err := c.Output.Validate(); err != nil {
		return fmt.Errorf("output config: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}
	return nil
}

// Options converts the model and estimate sections into validated library options
func (c *Config) Options() (*holtwinters.Options, error) {
	trend, err := state.ParseTrendType(c.Model.Trend)
	if err != nil {
		return nil, err
	}
	seasonal, err := state.ParseSeasonalType(c.Model.Seasonal)
	if err != nil {
		return nil, err
	}
	transform, err := boxcox.Parse(c.Model.Transform)
	if err != nil {
		return nil, err
	}
	method, err := estimate.ParseMethod(c.Estimate.Method)
	if err != nil {
		return nil, err
	}

	hopping := search.NewDefaultHoppingOptions()
	hopping.Iterations = c.Estimate.Hopping.Iterations
	hopping.StepSize = c.Estimate.Hopping.StepSize
	hopping.Temperature = c.Estimate.Hopping.Temperature
	hopping.Seed = c.Estimate.Hopping.Seed

	opt := &holtwinters.Options{
		Trend:           trend,
		Damped:          c.Model.Damped,
		Seasonal:        seasonal,
		SeasonalPeriods: c.Model.SeasonalPeriods,
		Alpha:           c.Model.Alpha,
		Beta:            c.Model.Beta,
		Gamma:           c.Model.Gamma,
		Phi:             c.Model.Phi,
		Optimized:       c.Model.Optimized,
		Transform:       transform,
		RemoveBias:      c.Model.RemoveBias,
		UseBasinHopping: c.Estimate.UseBasinHopping,
		EstimateOptions: &estimate.Options{
			GridPoints:      c.Estimate.GridPoints,
			Parallelization: c.Estimate.Parallelization,
			Method:          method,
			Hopping:         hopping,
			MaxEvaluations:  c.Estimate.MaxEvaluations,
		},
		BusinessDays: c.Model.BusinessDays,
	}
	return opt.Validate()
}

// CSVOptions converts the input section into csv loading options
func (c InputConfig) CSVOptions() (*timedataset.CSVOptions, error) {
	opt := &timedataset.CSVOptions{
		DateColumn:  c.DateColumn,
		ValueColumn: c.ValueColumn,
		DateFormat:  c.DateFormat,
		HasHeader:   c.HasHeader,
	}
	switch utf8.RuneCountInString(c.Delimiter) {
	case 0:
	case 1:
		opt.Delimiter, _ = utf8.DecodeRuneInString(c.Delimiter)
	default:
		return nil, fmt.Errorf("got %q, %w", c.Delimiter, ErrInvalidDelim)
	}
	return opt, nil
}

func (c OutputConfig) Validate() error {
	if c.Horizon < 0 {
		return fmt.Errorf("got %d, %w", c.Horizon, ErrNegativeHorizon)
	}
	switch strings.ToLower(c.Profile) {
	case ProfileNone, ProfileCPU, ProfileMem:
		return nil
	}
	return fmt.Errorf("got %q, %w", c.Profile, ErrUnknownProfile)
}

func (c LoggingConfig) Validate() error {
	if _, err := c.level(); err != nil {
		return err
	}
	switch strings.ToLower(c.Format) {
	case "", FormatText, FormatJSON:
		return nil
	}
	return fmt.Errorf("got %q, %w", c.Format, ErrUnknownFormat)
}

func (c LoggingConfig) level() (slog.Level, error) {
	var lvl slog.Level
	if c.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(c.Level)); err != nil {
		return lvl, fmt.Errorf("invalid log level %q, %w", c.Level, err)
	}
	return lvl, nil
}

// Logger builds a structured logger writing to w at the configured level and format
func (c LoggingConfig) Logger(w io.Writer) (*slog.Logger, error) {
	lvl, err := c.level()
	if err != nil {
		return nil, err
	}
	handlerOpt := &slog.HandlerOptions{Level: lvl}

	switch strings.ToLower(c.Format) {
	case "", FormatText:
		return slog.New(slog.NewTextHandler(w, handlerOpt)), nil
	case FormatJSON:
		return slog.New(slog.NewJSONHandler(w, handlerOpt)), nil
	}
	return nil, fmt.Errorf("got %q, %w", c.Format, ErrUnknownFormat)
}
