package estimate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aouyang1/go-holtwinters/search"
)

var (
	ErrNegativeGridPoints      = errors.New("negative grid points")
	ErrNegativeParallelization = errors.New("negative parallelization")
	ErrNegativeMaxEvaluations  = errors.New("negative max evaluations")
	ErrUnknownMethod           = errors.New("unknown refinement method")
)

// Method names the local refinement algorithm
type Method string

const (
	MethodNelderMead Method = "nelder-mead"
	MethodLBFGS      Method = "lbfgs"
)

// ParseMethod reads a refinement method name. An empty string selects Nelder-Mead.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "nelder-mead", "neldermead", "nm":
		return MethodNelderMead, nil
	case "lbfgs", "l-bfgs":
		return MethodLBFGS, nil
	}
	return "", fmt.Errorf("%q, %w", s, ErrUnknownMethod)
}

// Options configures the two stage parameter estimation
type Options struct {
	// GridPoints is the number of samples per smoothing coefficient in the coarse scan.
	// 0 uses the default of 20.
	GridPoints int `json:"grid_points"`

	// Parallelization is the number of goroutines used by the coarse scan
	Parallelization int `json:"parallelization"`

	Method          Method                 `json:"method"`
	UseBasinHopping bool                   `json:"use_basin_hopping"`
	Hopping         *search.HoppingOptions `json:"hopping,omitempty"`

	// MaxEvaluations caps the objective evaluations of each local refinement. 0 is
	// unlimited.
	MaxEvaluations int `json:"max_evaluations"`

	// Explorer replaces the coarse grid scan and Refiner replaces the Method refiner when
	// set. Basin hopping still wraps a custom Refiner.
	Explorer search.Explorer `json:"-"`
	Refiner  search.Refiner  `json:"-"`
}

// NewDefaultOptions returns a 20 point sequential grid followed by Nelder-Mead
func NewDefaultOptions() *Options {
	return &Options{
		GridPoints:     search.DefaultGridPoints,
		Method:         MethodNelderMead,
		Hopping:        search.NewDefaultHoppingOptions(),
		MaxEvaluations: search.DefaultMaxEvaluations,
	}
}

// Validate returns a normalized copy of the options with unset fields defaulted
func (o *Options) Validate() (*Options, error) {
	if o == nil {
		return NewDefaultOptions(), nil
	}
	opt := *o
	if opt.GridPoints < 0 {
		return nil, ErrNegativeGridPoints
	}
	if opt.GridPoints == 0 {
		opt.GridPoints = search.DefaultGridPoints
	}
	if opt.Parallelization < 0 {
		return nil, ErrNegativeParallelization
	}
	if opt.MaxEvaluations < 0 {
		return nil, ErrNegativeMaxEvaluations
	}

	method, err := ParseMethod(string(opt.Method))
	if err != nil {
		return nil, err
	}
	opt.Method = method

	var hopping search.HoppingOptions
	if opt.Hopping != nil {
		hopping = *opt.Hopping
	} else {
		hopping = *search.NewDefaultHoppingOptions()
	}
	validHopping, err := hopping.Validate()
	if err != nil {
		return nil, fmt.Errorf("unable to validate basin hopping options, %w", err)
	}
	opt.Hopping = validHopping
	return &opt, nil
}

// methodName labels the refinement stage in the diagnostics
func (o *Options) methodName() string {
	name := string(o.Method)
	if o.Refiner != nil {
		name = "custom"
	}
	if o.UseBasinHopping {
		name += "+basinhopping"
	}
	return name
}

func (o *Options) explorer() (search.Explorer, error) {
	if o.Explorer != nil {
		return o.Explorer, nil
	}
	return search.NewGrid(&search.GridOptions{
		Points:          o.GridPoints,
		Parallelization: o.Parallelization,
	})
}

func (o *Options) refiner() (search.Refiner, error) {
	refiner := o.Refiner
	if refiner == nil {
		local := search.NewDefaultLocalOptions()
		local.MaxEvaluations = o.MaxEvaluations

		var err error
		switch o.Method {
		case MethodLBFGS:
			refiner, err = search.NewLBFGS(local)
		default:
			refiner, err = search.NewNelderMead(local)
		}
		if err != nil {
			return nil, err
		}
	}
	if !o.UseBasinHopping {
		return refiner, nil
	}
	return search.NewBasinHopping(refiner, o.Hopping)
}
