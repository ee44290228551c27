package search

import (
	"errors"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/optimize"
)

const (
	DefaultMaxEvaluations    = 10000
	DefaultFunctionTolerance = 1e-10
	DefaultStallIterations   = 100
	DefaultGradientStep      = 1e-8

	// central differences at DefaultGradientStep are not accurate much below this
	lbfgsGradientThreshold = 1e-6
)

var (
	ErrNegativeMaxEvaluations = errors.New("negative max evaluations")
	ErrNegativeTolerance      = errors.New("negative function tolerance")
)

// LocalOptions configures a local refiner
type LocalOptions struct {
	// MaxEvaluations caps the number of objective evaluations. 0 is unlimited.
	MaxEvaluations int `json:"max_evaluations"`

	// FunctionTolerance and StallIterations declare convergence once the best value has not
	// improved by more than the tolerance for the given number of iterations
	FunctionTolerance float64 `json:"function_tolerance"`
	StallIterations   int     `json:"stall_iterations"`

	// InitialStep sizes the starting simplex for Nelder-Mead. 0 uses the library default.
	InitialStep float64 `json:"initial_step"`

	// GradientStep is the finite difference step for gradient based refiners
	GradientStep float64 `json:"gradient_step"`
}

// NewDefaultLocalOptions returns the default local refiner settings
func NewDefaultLocalOptions() *LocalOptions {
	return &LocalOptions{
		MaxEvaluations:    DefaultMaxEvaluations,
		FunctionTolerance: DefaultFunctionTolerance,
		StallIterations:   DefaultStallIterations,
		GradientStep:      DefaultGradientStep,
	}
}

// Validate runs basic validation on local refiner options
func (l *LocalOptions) Validate() (*LocalOptions, error) {
	if l == nil {
		l = NewDefaultLocalOptions()
	}
	if l.MaxEvaluations < 0 {
		return nil, ErrNegativeMaxEvaluations
	}
	if l.FunctionTolerance < 0 {
		return nil, ErrNegativeTolerance
	}
	if l.StallIterations <= 0 {
		l.StallIterations = DefaultStallIterations
	}
	if l.GradientStep <= 0 {
		l.GradientStep = DefaultGradientStep
	}
	return l, nil
}

func (l *LocalOptions) settings() *optimize.Settings {
	return &optimize.Settings{
		FuncEvaluations: l.MaxEvaluations,
		Converger: &optimize.FunctionConverge{
			Absolute:   l.FunctionTolerance,
			Relative:   l.FunctionTolerance,
			Iterations: l.StallIterations,
		},
	}
}

// NelderMead is a derivative free simplex refiner. Bounds are enforced by projecting every
// trial point into the box before it is evaluated.
type NelderMead struct {
	opt *LocalOptions
}

// NewNelderMead initializes a Nelder-Mead refiner
func NewNelderMead(opt *LocalOptions) (*NelderMead, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	return &NelderMead{opt: opt}, nil
}

// Refine minimizes f starting at x0
func (n *NelderMead) Refine(f Objective, x0 []float64, bounds Bounds) (Result, error) {
	method := &optimize.NelderMead{
		SimplexSize: n.opt.InitialStep,
	}
	return minimizeProjected(f, x0, bounds, n.opt.settings(), method)
}

// LBFGS is a quasi-Newton refiner using central finite difference gradients. It searches an
// unconstrained space that boxMap carries onto the bounds, so every trial point is feasible
// and the gradient never flattens at a clamped edge.
type LBFGS struct {
	opt *LocalOptions
}

// NewLBFGS initializes an L-BFGS refiner
func NewLBFGS(opt *LocalOptions) (*LBFGS, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	return &LBFGS{opt: opt}, nil
}

// Refine minimizes f starting at x0
func (l *LBFGS) Refine(f Objective, x0 []float64, bounds Bounds) (Result, error) {
	if err := bounds.Validate(len(x0)); err != nil {
		return Result{}, err
	}
	if len(x0) == 0 {
		return evaluateZeroDim(f), nil
	}

	bm := boxMap(bounds)
	mapped := func(z []float64) float64 {
		return f(bm.toBox(nil, z))
	}
	fdSettings := &fd.Settings{
		Formula: fd.Central,
		Step:    l.opt.GradientStep,
	}
	problem := optimize.Problem{
		Func: mapped,
		Grad: func(grad, z []float64) {
			fd.Gradient(grad, mapped, z, fdSettings)
		},
	}

	settings := l.opt.settings()
	settings.GradientThreshold = lbfgsGradientThreshold

	z0 := bm.fromBox(nil, x0)
	res, err := optimize.Minimize(problem, z0, settings, &optimize.LBFGS{})
	if res == nil {
		start := bm.toBox(nil, z0)
		return Result{
			X:      start,
			F:      f(start),
			Status: optimize.Failure.String(),
		}, err
	}

	return Result{
		X:           bounds.Clamp(nil, bm.toBox(nil, res.X)),
		F:           res.F,
		Converged:   err == nil && converged(res.Status),
		Status:      res.Status.String(),
		Evaluations: res.Stats.FuncEvaluations,
		Iterations:  res.Stats.MajorIterations,
	}, err
}

// minimizeProjected runs a derivative free gonum method on the box projected objective
func minimizeProjected(
	f Objective,
	x0 []float64,
	bounds Bounds,
	settings *optimize.Settings,
	method optimize.Method,
) (Result, error) {
	if err := bounds.Validate(len(x0)); err != nil {
		return Result{}, err
	}
	if len(x0) == 0 {
		return evaluateZeroDim(f), nil
	}

	projected := func(x []float64) float64 {
		return f(bounds.Clamp(nil, x))
	}
	problem := optimize.Problem{Func: projected}

	start := bounds.Clamp(nil, x0)
	res, err := optimize.Minimize(problem, start, settings, method)
	if res == nil {
		return Result{
			X:      start,
			F:      f(start),
			Status: optimize.Failure.String(),
		}, err
	}

	return Result{
		X:           bounds.Clamp(nil, res.X),
		F:           res.F,
		Converged:   err == nil && converged(res.Status),
		Status:      res.Status.String(),
		Evaluations: res.Stats.FuncEvaluations,
		Iterations:  res.Stats.MajorIterations,
	}, err
}

func converged(status optimize.Status) bool {
	switch status {
	case optimize.NotTerminated,
		optimize.Failure,
		optimize.IterationLimit,
		optimize.FunctionEvaluationLimit,
		optimize.GradientEvaluationLimit,
		optimize.RuntimeLimit:
		return false
	}
	return true
}
