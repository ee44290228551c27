// Package objective scores candidate Holt-Winters parameters by their in-sample sum of
// squared one-step-ahead errors. Candidates outside the stable region are not errors, they
// receive a large penalty so a minimizer routes around them.
package objective

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/aouyang1/go-holtwinters/state"
	"github.com/aouyang1/go-holtwinters/stats"
)

// LargeValue is returned for infeasible or numerically invalid candidates
const LargeValue = math.MaxFloat64

var (
	ErrTemplateLenMismatch = errors.New("template parameters do not match the model shape")
	ErrMaskLenMismatch     = errors.New("mask does not match the model shape")
)

// Evaluator computes the penalized SSE of the free parameters. It is safe for concurrent
// use, every evaluation works on its own copy of the parameter vector.
type Evaluator struct {
	shape    state.Shape
	template []float64
	mask     state.Mask
	y        []float64

	evaluations atomic.Int64
}

// New creates an evaluator. The template supplies the values of the fixed entries of the
// mask.
func New(s state.Shape, template state.Params, mask state.Mask, y []float64) (*Evaluator, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	tmpl := template.Vector()
	if len(tmpl) != s.NumParams() {
		return nil, fmt.Errorf("expected %d, but got %d, %w", s.NumParams(), len(tmpl), ErrTemplateLenMismatch)
	}
	if len(mask) != s.NumParams() {
		return nil, fmt.Errorf("expected %d, but got %d, %w", s.NumParams(), len(mask), ErrMaskLenMismatch)
	}
	return &Evaluator{
		shape:    s,
		template: tmpl,
		mask:     mask,
		y:        y,
	}, nil
}

// Dim is the number of free parameters the evaluator expects
func (e *Evaluator) Dim() int {
	return e.mask.Count()
}

// Evaluations returns the number of times Evaluate has been called
func (e *Evaluator) Evaluations() int {
	return int(e.evaluations.Load())
}

// Params merges the free values into a copy of the template
func (e *Evaluator) Params(free []float64) state.Params {
	v := make([]float64, len(e.template))
	copy(v, e.template)
	e.mask.Merge(v, free)

	// length always matches the shape since it was checked on construction
	p, _ := state.ParamsFromVector(v, e.shape.Period)
	return p
}

// Evaluate returns the SSE of the one-step-ahead predictions for the free parameter values,
// or LargeValue if the candidate is infeasible.
func (e *Evaluator) Evaluate(free []float64) float64 {
	e.evaluations.Add(1)

	p := e.Params(free)
	if Infeasible(e.shape, p) {
		return LargeValue
	}

	traj := state.Run(e.shape, p, e.y, 0)
	sse := stats.SSE(traj.InSample(), e.y)
	if math.IsNaN(sse) || math.IsInf(sse, 0) {
		return LargeValue
	}
	return sse
}

// Infeasible applies the stability conditions of each model variant. The trend learning rate
// may not exceed the level learning rate and the seasonal rate may not exceed 1-alpha.
// A model without trend and season has no constraint.
func Infeasible(s state.Shape, p state.Params) bool {
	switch {
	case s.HasTrend() && s.HasSeason():
		return p.Alpha*p.Beta == 0 || p.Beta > p.Alpha || p.Gamma > 1-p.Alpha
	case s.HasTrend():
		return p.Alpha == 0 || p.Beta > p.Alpha
	case s.HasSeason():
		return p.Alpha == 0 || p.Gamma > 1-p.Alpha
	}
	return false
}
