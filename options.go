package holtwinters

import (
	"errors"
	"fmt"
	"math"

	"github.com/aouyang1/go-holtwinters/boxcox"
	"github.com/aouyang1/go-holtwinters/estimate"
	"github.com/aouyang1/go-holtwinters/state"
	"github.com/aouyang1/go-holtwinters/timedataset"
)

var (
	ErrMissingCoefficient = errors.New("coefficient must be set when optimization is disabled")
	ErrInvalidCoefficient = errors.New("coefficient must be within [0, 1]")
)

// Options configures the model shape, which smoothing coefficients are fixed and how the
// remaining ones are estimated
type Options struct {
	Trend           state.TrendType    `json:"trend"`
	Damped          bool               `json:"damped"`
	Seasonal        state.SeasonalType `json:"seasonal"`
	SeasonalPeriods int                `json:"seasonal_periods"`

	// Alpha, Beta, Gamma and Phi fix the smoothing coefficients when set. Coefficients of
	// components the model does not carry are ignored.
	Alpha *float64 `json:"alpha,omitempty"`
	Beta  *float64 `json:"beta,omitempty"`
	Gamma *float64 `json:"gamma,omitempty"`
	Phi   *float64 `json:"phi,omitempty"`

	// Optimized estimates every unset coefficient. When false all applicable coefficients
	// must be set and the initial states come from the data heuristics.
	Optimized bool `json:"optimized"`

	Transform       boxcox.Options    `json:"transform"`
	RemoveBias      bool              `json:"remove_bias"`
	UseBasinHopping bool              `json:"use_basin_hopping"`
	EstimateOptions *estimate.Options `json:"estimate_options,omitempty"`

	// BusinessDays names the calendar used to step time based forecasts: empty for every
	// point, weekdays, or us
	BusinessDays string `json:"business_days,omitempty"`
}

// NewDefaultOptions returns a level only model with every coefficient estimated
func NewDefaultOptions() *Options {
	return &Options{
		Optimized:       true,
		EstimateOptions: estimate.NewDefaultOptions(),
	}
}

// NewSimpleOptions returns simple exponential smoothing: a level only model with alpha
// estimated
func NewSimpleOptions() *Options {
	return NewDefaultOptions()
}

// NewHoltOptions returns Holt's linear trend model, or the exponential trend variant, with
// every coefficient estimated. damped adds the damping coefficient phi.
func NewHoltOptions(exponential, damped bool) *Options {
	opt := NewDefaultOptions()
	opt.Trend = state.TrendAdditive
	if exponential {
		opt.Trend = state.TrendMultiplicative
	}
	opt.Damped = damped
	return opt
}

// Shape returns the validated model shape described by the options
func (o *Options) Shape() (state.Shape, error) {
	return state.NewShape(o.Trend, o.Damped, o.Seasonal, o.SeasonalPeriods)
}

// Fixed returns the coefficients that are not estimated for the shape
func (o *Options) Fixed(s state.Shape) state.Fixed {
	fixed := state.Fixed{Alpha: o.Alpha}
	if s.HasTrend() {
		fixed.Beta = o.Beta
	}
	if s.HasSeason() {
		fixed.Gamma = o.Gamma
	}
	if s.Damped {
		fixed.Phi = o.Phi
	}
	return fixed
}

// Validate returns a normalized copy of the options
func (o *Options) Validate() (*Options, error) {
	if o == nil {
		o = NewDefaultOptions()
	}
	opt := *o

	s, err := opt.Shape()
	if err != nil {
		return nil, fmt.Errorf("unable to build model shape, %w", err)
	}
	opt.SeasonalPeriods = s.Period

	coefs := []struct {
		name    string
		val     *float64
		applies bool
	}{
		{"alpha", opt.Alpha, true},
		{"beta", opt.Beta, s.HasTrend()},
		{"gamma", opt.Gamma, s.HasSeason()},
		{"phi", opt.Phi, s.Damped},
	}
	for _, c := range coefs {
		if !c.applies {
			continue
		}
		if c.val == nil {
			if !opt.Optimized {
				return nil, fmt.Errorf("%s, %w", c.name, ErrMissingCoefficient)
			}
			continue
		}
		if math.IsNaN(*c.val) || *c.val < 0 || *c.val > 1 {
			return nil, fmt.Errorf("%s is %g, %w", c.name, *c.val, ErrInvalidCoefficient)
		}
	}

	if err := opt.Transform.Validate(); err != nil {
		return nil, fmt.Errorf("unable to validate transform, %w", err)
	}

	estOpt, err := opt.EstimateOptions.Validate()
	if err != nil {
		return nil, fmt.Errorf("unable to validate estimate options, %w", err)
	}
	if opt.UseBasinHopping {
		estOpt.UseBasinHopping = true
	}
	opt.EstimateOptions = estOpt

	if _, err := timedataset.NewCalendar(opt.BusinessDays); err != nil {
		return nil, err
	}
	return &opt, nil
}
