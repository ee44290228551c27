// Package holtwinters fits and forecasts univariate time series with Holt-Winters
// exponential smoothing. A model carries a level, an optional additive or multiplicative
// trend that may be damped, and an optional additive or multiplicative season.
package holtwinters

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/aouyang1/go-holtwinters/boxcox"
	"github.com/aouyang1/go-holtwinters/estimate"
	"github.com/aouyang1/go-holtwinters/state"
	"github.com/aouyang1/go-holtwinters/timedataset"
	"github.com/rickar/cal/v2"
)

// Forecaster fits Holt-Winters models using a fixed configuration. It holds no fit state
// and is safe for concurrent use.
type Forecaster struct {
	opt      *Options
	shape    state.Shape
	calendar *cal.BusinessCalendar
}

// New creates a new instance of a Forecaster using the provided options. If no options are
// provided a default is used.
func New(opt *Options) (*Forecaster, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, fmt.Errorf("unable to validate options, %w", err)
	}
	s, err := opt.Shape()
	if err != nil {
		return nil, err
	}
	bc, err := timedataset.NewCalendar(opt.BusinessDays)
	if err != nil {
		return nil, err
	}
	return &Forecaster{
		opt:      opt,
		shape:    s,
		calendar: bc,
	}, nil
}

// Options returns a copy of the validated options
func (f *Forecaster) Options() Options {
	return *f.opt
}

// Fit estimates the model on y where each value is one period apart
func (f *Forecaster) Fit(y []float64) (*Results, error) {
	data := make([]float64, len(y))
	copy(data, y)
	return f.fit(data, nil, 0)
}

// FitTime estimates the model on a timed series. The spacing of the points is inferred so
// forecasts can be requested by time.
func (f *Forecaster) FitTime(t []time.Time, y []float64) (*Results, error) {
	td, err := timedataset.NewUnivariateDataset(t, y)
	if err != nil {
		return nil, fmt.Errorf("unable to create training dataset, %w", err)
	}
	freq, err := timedataset.TimeSlice(td.T).EstimateFreq()
	if err != nil {
		return nil, fmt.Errorf("unable to infer series frequency, %w", err)
	}
	return f.fit(td.Y, td.T, freq)
}

func (f *Forecaster) fit(y []float64, t []time.Time, freq time.Duration) (*Results, error) {
	if err := state.CheckData(y, f.shape); err != nil {
		return nil, fmt.Errorf("unable to validate series, %w", err)
	}

	data, lambda, err := transform(y, f.opt.Transform)
	if err != nil {
		return nil, err
	}

	fixed := f.opt.Fixed(f.shape)

	var (
		params state.Params
		diag   *estimate.Diagnostics
	)
	if f.opt.Optimized {
		p, d, err := estimate.Estimate(f.shape, data, fixed, f.opt.EstimateOptions)
		if err != nil {
			return nil, fmt.Errorf("unable to estimate parameters, %w", err)
		}
		params = p
		diag = &d
	} else {
		init, err := state.Initialize(data, f.shape)
		if err != nil {
			return nil, fmt.Errorf("unable to initialize states, %w", err)
		}
		params = estimate.Seeds(f.shape, init, fixed)
	}

	slog.Debug("fit holt-winters model",
		"shape", f.shape.String(),
		"alpha", params.Alpha,
		"beta", params.Beta,
		"gamma", params.Gamma,
		"phi", params.Phi,
	)

	return newResults(resultsInput{
		shape:        f.shape,
		params:       params,
		lambda:       lambda,
		removeBias:   f.opt.RemoveBias,
		y:            y,
		data:         data,
		t:            t,
		freq:         freq,
		calendar:     f.calendar,
		businessDays: f.opt.BusinessDays,
		optimization: diag,
	})
}

// transform applies the configured Box-Cox transform returning the transformed series and
// the lambda used, nil when the series is not transformed
func transform(y []float64, opt boxcox.Options) ([]float64, *float64, error) {
	if !opt.Enabled() {
		return y, nil, nil
	}
	if err := boxcox.CheckPositive(y); err != nil {
		return nil, nil, fmt.Errorf("unable to transform series, %w", err)
	}
	lambda, err := opt.Resolve(y)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to resolve box-cox lambda, %w", err)
	}
	data, err := boxcox.Transform(y, lambda)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to transform series, %w", err)
	}
	return data, &lambda, nil
}
