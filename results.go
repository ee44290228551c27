package holtwinters

import (
	"errors"
	"fmt"
	"time"

	"github.com/aouyang1/go-holtwinters/boxcox"
	"github.com/aouyang1/go-holtwinters/estimate"
	"github.com/aouyang1/go-holtwinters/state"
	"github.com/aouyang1/go-holtwinters/stats"
	"github.com/aouyang1/go-holtwinters/timedataset"
	"github.com/rickar/cal/v2"
	"gonum.org/v1/gonum/floats"
)

var (
	ErrInvalidRange = errors.New("invalid prediction range")
	ErrNoTimeIndex  = errors.New("model was fit without times")
)

type resultsInput struct {
	shape        state.Shape
	params       state.Params
	lambda       *float64
	removeBias   bool
	y            []float64
	data         []float64
	t            []time.Time
	freq         time.Duration
	calendar     *cal.BusinessCalendar
	businessDays string
	optimization *estimate.Diagnostics
}

// Results is a fitted Holt-Winters model. It is immutable, every accessor returns a copy.
type Results struct {
	in resultsInput

	bias      float64
	fitted    []float64
	residuals []float64
	level     []float64
	slope     []float64
	season    []float64
	criteria  stats.Criteria
	scores    *stats.Scores
}

func newResults(in resultsInput) (*Results, error) {
	r := &Results{in: in}
	n := len(in.y)

	traj := state.Run(in.shape, in.params, in.data, 1)
	fitted := r.recombine(traj.Fitted)[:n]

	sse := stats.SSE(fitted, in.y)
	criteria, err := stats.NewCriteria(sse, n, in.shape.DegreesOfFreedom())
	if err != nil {
		return nil, fmt.Errorf("unable to compute information criteria, %w", err)
	}
	r.criteria = criteria

	residuals, err := stats.Residuals(in.y, fitted)
	if err != nil {
		return nil, err
	}
	// residuals stay relative to the unshifted fit
	if in.removeBias {
		r.bias = stats.MeanResidual(residuals)
		floats.AddConst(r.bias, fitted)
	}
	r.fitted = fitted
	r.residuals = residuals

	scores, err := stats.NewScores(fitted, in.y)
	if err != nil {
		return nil, fmt.Errorf("unable to compute fit scores, %w", err)
	}
	r.scores = scores

	r.level = append([]float64(nil), traj.Level[:n]...)
	r.slope = traj.Slope
	r.season = traj.SmoothedSeason
	return r, nil
}

// recombine maps the recursion output back to the scale of the data, inverting the
// transform and removing the bias. The input is modified in place.
func (r *Results) recombine(fitted []float64) []float64 {
	if r.in.lambda != nil {
		fitted = boxcox.Inverse(fitted, *r.in.lambda)
	}
	if r.bias != 0 {
		floats.AddConst(r.bias, fitted)
	}
	return fitted
}

func clone(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	return out
}

// Shape returns the fitted model shape
func (r *Results) Shape() state.Shape {
	return r.in.shape
}

// Params returns the smoothing coefficients and initial states
func (r *Results) Params() state.Params {
	return r.in.params.Copy()
}

// Lambda returns the Box-Cox lambda or nil if the series was not transformed
func (r *Results) Lambda() *float64 {
	if r.in.lambda == nil {
		return nil
	}
	lambda := *r.in.lambda
	return &lambda
}

// Bias is the mean residual added to predictions when bias removal is enabled
func (r *Results) Bias() float64 {
	return r.bias
}

// NumObservations is the length of the training series
func (r *Results) NumObservations() int {
	return len(r.in.y)
}

// Data returns the training series
func (r *Results) Data() []float64 {
	return clone(r.in.y)
}

// T returns the training times or nil for an untimed fit
func (r *Results) T() []time.Time {
	if r.in.t == nil {
		return nil
	}
	out := make([]time.Time, len(r.in.t))
	copy(out, r.in.t)
	return out
}

// Freq is the inferred spacing of a timed fit
func (r *Results) Freq() time.Duration {
	return r.in.freq
}

// Fitted returns the one-step-ahead predictions of the training series
func (r *Results) Fitted() []float64 {
	return clone(r.fitted)
}

// Residuals returns the training series minus the fitted values
func (r *Results) Residuals() []float64 {
	return clone(r.residuals)
}

// Level returns the level states in the transformed space
func (r *Results) Level() []float64 {
	return clone(r.level)
}

// Slope returns the trend states in the transformed space
func (r *Results) Slope() []float64 {
	return clone(r.slope)
}

// Season returns the smoothed seasonal states in the transformed space
func (r *Results) Season() []float64 {
	return clone(r.season)
}

// Criteria returns the SSE and information criteria. AICc is +Inf when there are too few
// observations for the number of parameters.
func (r *Results) Criteria() stats.Criteria {
	return r.criteria
}

// Scores returns the fit scores of the fitted values
func (r *Results) Scores() stats.Scores {
	return *r.scores
}

// Optimization returns the estimation diagnostics or nil when coefficients were not
// estimated
func (r *Results) Optimization() *estimate.Diagnostics {
	if r.in.optimization == nil {
		return nil
	}
	d := *r.in.optimization
	return &d
}

// Forecast returns the next steps values after the training series
func (r *Results) Forecast(steps int) []float64 {
	if steps <= 0 {
		return []float64{}
	}
	n := len(r.in.y)
	traj := state.Run(r.in.shape, r.in.params, r.in.data, steps)
	return r.recombine(traj.Fitted[n : n+steps])
}

// Predict returns in-sample and out-of-sample predictions between the zero based start and
// end indices inclusive
func (r *Results) Predict(start, end int) ([]float64, error) {
	if start < 0 || end < start {
		return nil, fmt.Errorf("start %d, end %d, %w", start, end, ErrInvalidRange)
	}
	n := len(r.in.y)
	h := max(end-(n-1), 0)
	traj := state.Run(r.in.shape, r.in.params, r.in.data, h)
	full := r.recombine(traj.Fitted)
	return full[start : end+1], nil
}

// ForecastTimes returns the times and values of the next steps of a timed fit
func (r *Results) ForecastTimes(steps int) ([]time.Time, []float64, error) {
	if r.in.t == nil {
		return nil, nil, ErrNoTimeIndex
	}
	t, err := timedataset.TimeSlice(r.in.t).Horizon(steps, r.in.freq, r.in.calendar)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to generate forecast times, %w", err)
	}
	return t, r.Forecast(steps), nil
}

// PredictTime returns the predictions between start and end inclusive for a timed fit.
// Both times must fall on the series frequency.
func (r *Results) PredictTime(start, end time.Time) ([]float64, error) {
	if r.in.t == nil {
		return nil, ErrNoTimeIndex
	}
	ts := timedataset.TimeSlice(r.in.t)
	startIdx, err := ts.Index(start, r.in.freq, r.in.calendar)
	if err != nil {
		return nil, fmt.Errorf("unable to resolve start time, %w", err)
	}
	endIdx, err := ts.Index(end, r.in.freq, r.in.calendar)
	if err != nil {
		return nil, fmt.Errorf("unable to resolve end time, %w", err)
	}
	return r.Predict(startIdx, endIdx)
}

// ResidualOutliers returns the positions of the residuals that fall outside the Tukey fence
// built from the lowerPerc and upperPerc percentiles of the residuals
func (r *Results) ResidualOutliers(lowerPerc, upperPerc, tukeyFactor float64) []int {
	return stats.DetectOutliers(r.residuals, lowerPerc, upperPerc, tukeyFactor)
}
