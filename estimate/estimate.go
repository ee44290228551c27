// Package estimate fits the free Holt-Winters parameters by minimizing the penalized
// one-step-ahead SSE. A coarse grid over the smoothing coefficients picks a starting point
// which a local refiner then polishes over every free parameter.
package estimate

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/aouyang1/go-holtwinters/objective"
	"github.com/aouyang1/go-holtwinters/search"
	"github.com/aouyang1/go-holtwinters/state"
)

// Diagnostics reports how the estimation went. Non-convergence is not an error, the best
// point found is still used.
type Diagnostics struct {
	Method      string  `json:"method"`
	GridValue   float64 `json:"grid_value"`
	Value       float64 `json:"value"`
	Converged   bool    `json:"converged"`
	Status      string  `json:"status"`
	Evaluations int     `json:"evaluations"`
	Iterations  int     `json:"iterations"`
	Restarts    int     `json:"restarts"`
}

// Seeds returns the starting parameter values before any search. Fixed coefficients are
// taken as given and the initial states come from the heuristic initializer.
func Seeds(s state.Shape, init state.InitialState, fixed state.Fixed) state.Params {
	p := state.Params{
		Alpha: 0.5 / float64(max(s.Period, 1)),
		Phi:   1.0,
		L0:    init.Level,
	}
	if fixed.Alpha != nil {
		p.Alpha = *fixed.Alpha
	}
	if s.HasTrend() {
		p.Beta = 0.1 * p.Alpha
		if fixed.Beta != nil {
			p.Beta = *fixed.Beta
		}
		p.B0 = init.Slope
	}
	if s.HasSeason() {
		p.Gamma = 0.05 * (1 - p.Alpha)
		if fixed.Gamma != nil {
			p.Gamma = *fixed.Gamma
		}
		p.S0 = make([]float64, len(init.Season))
		copy(p.S0, init.Season)
	}
	if s.Damped {
		p.Phi = 0.99
		if fixed.Phi != nil {
			p.Phi = *fixed.Phi
		}
	}
	return p
}

// ParamBounds returns the box constraints of every entry of the parameter vector
func ParamBounds(s state.Shape) search.Bounds {
	b := make(search.Bounds, s.NumParams())
	unit := search.Bound{Lower: 0, Upper: 1}
	nonNegative := search.Bound{Lower: 0, Upper: math.Inf(1)}

	b[state.IdxAlpha] = unit
	b[state.IdxBeta] = unit
	b[state.IdxGamma] = unit
	b[state.IdxPhi] = unit
	b[state.IdxL0] = nonNegative
	b[state.IdxB0] = nonNegative
	for i := state.IdxS0; i < len(b); i++ {
		b[i] = search.Unbounded()
	}
	return b
}

func selectBounds(b search.Bounds, mask state.Mask) search.Bounds {
	out := make(search.Bounds, 0, mask.Count())
	for _, idx := range mask.Indices() {
		out = append(out, b[idx])
	}
	return out
}

// Estimate returns the fitted parameters of the shape on y. Only the coefficients that are
// nil in fixed are estimated along with the initial states. y may already be transformed so
// its sign is not checked.
func Estimate(s state.Shape, y []float64, fixed state.Fixed, opt *Options) (state.Params, Diagnostics, error) {
	opt, err := opt.Validate()
	if err != nil {
		return state.Params{}, Diagnostics{}, fmt.Errorf("unable to validate estimate options, %w", err)
	}
	if err := s.Validate(); err != nil {
		return state.Params{}, Diagnostics{}, err
	}
	if err := state.CheckSeries(y, s); err != nil {
		return state.Params{}, Diagnostics{}, err
	}

	init, err := state.Initialize(y, s)
	if err != nil {
		return state.Params{}, Diagnostics{}, fmt.Errorf("unable to initialize states, %w", err)
	}

	mask := state.NewMask(s, fixed)
	bounds := ParamBounds(s)
	if init.Level < 0 {
		// a transformed series can sit below zero, keep the level on its side
		bounds[state.IdxL0] = search.Bound{Lower: math.Inf(-1), Upper: 0}
	}
	template := Seeds(s, init, fixed).Vector()
	bounds.Clamp(template, template)

	diag := Diagnostics{
		Method:    opt.methodName(),
		GridValue: math.NaN(),
	}

	// stage 1: coarse scan over the free smoothing coefficients only
	coarse := mask.Coarse()
	if coarse.Count() > 0 {
		tmplParams, err := state.ParamsFromVector(template, s.Period)
		if err != nil {
			return state.Params{}, diag, err
		}
		eval, err := objective.New(s, tmplParams, coarse, y)
		if err != nil {
			return state.Params{}, diag, err
		}
		explorer, err := opt.explorer()
		if err != nil {
			return state.Params{}, diag, fmt.Errorf("unable to initialize explorer, %w", err)
		}

		res, err := explorer.Explore(eval.Evaluate, selectBounds(bounds, coarse))
		if err != nil {
			return state.Params{}, diag, fmt.Errorf("unable to run coarse search, %w", err)
		}
		if len(res.X) != coarse.Count() {
			return state.Params{}, diag, fmt.Errorf("coarse search returned %d values for %d coefficients, %w",
				len(res.X), coarse.Count(), search.ErrBoundsLenMismatch)
		}
		coarse.Merge(template, res.X)
		diag.GridValue = res.F
		diag.Evaluations += eval.Evaluations()

		slog.Debug("coarse search complete",
			"shape", s.String(),
			"value", res.F,
			"evaluations", eval.Evaluations(),
		)
	}

	// stage 2: refine every free parameter from the coarse point
	tmplParams, err := state.ParamsFromVector(template, s.Period)
	if err != nil {
		return state.Params{}, diag, err
	}
	eval, err := objective.New(s, tmplParams, mask, y)
	if err != nil {
		return state.Params{}, diag, err
	}
	refiner, err := opt.refiner()
	if err != nil {
		return state.Params{}, diag, fmt.Errorf("unable to initialize refiner, %w", err)
	}

	x0 := mask.Select(template)
	startValue := eval.Evaluate(x0)
	res, refineErr := refiner.Refine(eval.Evaluate, x0, selectBounds(bounds, mask))
	if len(res.X) != len(x0) || res.F > startValue {
		res.X = x0
		res.F = startValue
	}

	diag.Value = res.F
	diag.Converged = res.Converged
	diag.Status = res.Status
	diag.Evaluations += eval.Evaluations()
	diag.Iterations = res.Iterations
	diag.Restarts = res.Restarts

	if !res.Converged {
		attrs := []any{
			"shape", s.String(),
			"method", diag.Method,
			"status", res.Status,
			"value", res.F,
		}
		if refineErr != nil {
			attrs = append(attrs, "error", refineErr)
		}
		slog.Warn("parameter optimization did not converge, using best point found", attrs...)
	}

	return eval.Params(res.X), diag, nil
}
