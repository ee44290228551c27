// Package search contains the minimization strategies used to estimate smoothing
// parameters. An Explorer scans a bounded region coarsely, a Refiner polishes a starting
// point locally. They are independent so either stage can be swapped or tested in
// isolation with synthetic objectives.
package search

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrBoundsLenMismatch = errors.New("bounds do not match the number of dimensions")
	ErrInvalidBound      = errors.New("lower bound is greater than upper bound")
	ErrUnboundedGrid     = errors.New("grid search requires finite bounds")
)

// Objective is a function to minimize. Implementations must not retain x.
type Objective func(x []float64) float64

// Bound is a closed interval. Infinite values leave a side unbounded.
type Bound struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Unbounded returns the interval (-inf, inf)
func Unbounded() Bound {
	return Bound{Lower: math.Inf(-1), Upper: math.Inf(1)}
}

// Bounds holds one interval per dimension
type Bounds []Bound

// Validate checks every interval is well formed and matches the dimension
func (b Bounds) Validate(dim int) error {
	if len(b) != dim {
		return fmt.Errorf("expected %d, but got %d, %w", dim, len(b), ErrBoundsLenMismatch)
	}
	for i, bnd := range b {
		if math.IsNaN(bnd.Lower) || math.IsNaN(bnd.Upper) || bnd.Lower > bnd.Upper {
			return fmt.Errorf("dimension %d [%g, %g], %w", i, bnd.Lower, bnd.Upper, ErrInvalidBound)
		}
	}
	return nil
}

// Clamp projects x into the bounds, writing into dst. A nil dst allocates.
func (b Bounds) Clamp(dst, x []float64) []float64 {
	if dst == nil {
		dst = make([]float64, len(x))
	}
	for i, val := range x {
		dst[i] = math.Min(math.Max(val, b[i].Lower), b[i].Upper)
	}
	return dst
}

// Result is the outcome of a search stage
type Result struct {
	X           []float64 `json:"x"`
	F           float64   `json:"f"`
	Converged   bool      `json:"converged"`
	Status      string    `json:"status"`
	Evaluations int       `json:"evaluations"`
	Iterations  int       `json:"iterations"`
	Restarts    int       `json:"restarts,omitempty"`
}

// Explorer searches the whole bounded region for a good starting point
type Explorer interface {
	Explore(f Objective, bounds Bounds) (Result, error)
}

// Refiner improves a starting point locally within the bounds
type Refiner interface {
	Refine(f Objective, x0 []float64, bounds Bounds) (Result, error)
}

// evaluateZeroDim handles the degenerate case of nothing to search
func evaluateZeroDim(f Objective) Result {
	return Result{
		X:           []float64{},
		F:           f([]float64{}),
		Converged:   true,
		Status:      "NoFreeParameters",
		Evaluations: 1,
	}
}
