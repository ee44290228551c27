package search

import (
	"errors"
	"math"
	"sync"
)

const DefaultGridPoints = 20

var (
	ErrInvalidGridPoints       = errors.New("grid requires at least one point per dimension")
	ErrNegativeParallelization = errors.New("negative parallelization")
)

// GridOptions configures a brute force grid scan
type GridOptions struct {
	// Points is the number of evenly spaced samples per dimension, both bounds included
	Points int `json:"points"`

	// Parallelization is the number of goroutines evaluating the grid. 0 or 1 scans
	// sequentially. The selected point does not depend on this setting.
	Parallelization int `json:"parallelization"`
}

// NewDefaultGridOptions returns a 20 point sequential grid
func NewDefaultGridOptions() *GridOptions {
	return &GridOptions{
		Points: DefaultGridPoints,
	}
}

// Validate runs basic validation on grid options
func (g *GridOptions) Validate() (*GridOptions, error) {
	if g == nil {
		g = NewDefaultGridOptions()
	}
	if g.Points < 1 {
		return nil, ErrInvalidGridPoints
	}
	if g.Parallelization < 0 {
		return nil, ErrNegativeParallelization
	}
	return g, nil
}

// Grid evaluates every point of a regular grid and keeps the lowest value. Ties resolve to
// the first point in scan order where the first dimension varies slowest.
type Grid struct {
	opt *GridOptions
}

// NewGrid initializes a grid explorer
func NewGrid(opt *GridOptions) (*Grid, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	return &Grid{opt: opt}, nil
}

// Explore scans the grid spanned by the bounds
func (g *Grid) Explore(f Objective, bounds Bounds) (Result, error) {
	dim := len(bounds)
	if err := bounds.Validate(dim); err != nil {
		return Result{}, err
	}
	if dim == 0 {
		return evaluateZeroDim(f), nil
	}
	for _, bnd := range bounds {
		if math.IsInf(bnd.Lower, 0) || math.IsInf(bnd.Upper, 0) {
			return Result{}, ErrUnboundedGrid
		}
	}

	axes := make([][]float64, dim)
	for i, bnd := range bounds {
		axes[i] = linspace(bnd.Lower, bnd.Upper, g.opt.Points)
	}

	total := 1
	for i := 0; i < dim; i++ {
		total *= g.opt.Points
	}

	workers := g.opt.Parallelization
	if workers < 1 {
		workers = 1
	}
	if workers > total {
		workers = total
	}

	// each worker owns a contiguous block of the scan so comparing the block winners in
	// order preserves the first minimum of the sequential scan
	blockSize := (total + workers - 1) / workers
	winners := make([]gridPoint, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * blockSize
		end := min(start+blockSize, total)
		wg.Add(1)
		go func(w, start, end int) {
			defer wg.Done()
			winners[w] = scanBlock(f, axes, start, end)
		}(w, start, end)
	}
	wg.Wait()

	best := gridPoint{idx: -1}
	for _, winner := range winners {
		if winner.idx < 0 {
			continue
		}
		if best.idx < 0 || winner.f < best.f {
			best = winner
		}
	}

	x := make([]float64, dim)
	gridCoord(axes, best.idx, x)
	return Result{
		X:           x,
		F:           f(x),
		Converged:   true,
		Status:      "GridComplete",
		Evaluations: total + 1,
		Iterations:  1,
	}, nil
}

type gridPoint struct {
	idx int
	f   float64
}

func scanBlock(f Objective, axes [][]float64, start, end int) gridPoint {
	best := gridPoint{idx: -1, f: math.Inf(1)}
	x := make([]float64, len(axes))
	for idx := start; idx < end; idx++ {
		gridCoord(axes, idx, x)
		val := f(x)
		if math.IsNaN(val) {
			val = math.Inf(1)
		}
		if best.idx < 0 || val < best.f {
			best = gridPoint{idx: idx, f: val}
		}
	}
	return best
}

// gridCoord decodes a flat scan index into coordinates with the last dimension varying
// fastest
func gridCoord(axes [][]float64, idx int, x []float64) {
	for d := len(axes) - 1; d >= 0; d-- {
		n := len(axes[d])
		x[d] = axes[d][idx%n]
		idx /= n
	}
}

func linspace(lower, upper float64, n int) []float64 {
	if n == 1 {
		return []float64{lower}
	}
	pts := make([]float64, n)
	step := (upper - lower) / float64(n-1)
	for i := 0; i < n; i++ {
		pts[i] = lower + float64(i)*step
	}
	pts[n-1] = upper
	return pts
}
