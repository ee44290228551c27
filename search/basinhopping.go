package search

import (
	"errors"
	"math"
	"math/rand/v2"
)

const (
	DefaultHoppingIterations = 100
	DefaultHoppingStepSize   = 0.01
	DefaultHoppingTemp       = 1.0
	DefaultAdaptInterval     = 50
	DefaultTargetAcceptRate  = 0.5
	DefaultStepFactor        = 0.9
)

var (
	ErrNilRefiner           = errors.New("basin hopping requires a local refiner")
	ErrNegativeIterations   = errors.New("negative hopping iterations")
	ErrNonPositiveStepSize  = errors.New("hopping step size must be positive")
	ErrNegativeTemperature  = errors.New("negative hopping temperature")
	ErrInvalidStepFactor    = errors.New("step factor must be in (0, 1)")
	ErrInvalidAcceptRate    = errors.New("target accept rate must be in (0, 1)")
	ErrNonPositiveAdaptSpan = errors.New("adapt interval must be positive")
)

// HoppingOptions configures basin hopping
type HoppingOptions struct {
	Iterations  int     `json:"iterations"`
	StepSize    float64 `json:"step_size"`
	Temperature float64 `json:"temperature"`
	Seed        uint64  `json:"seed"`

	// every AdaptInterval hops the step size is scaled by StepFactor towards the target
	// acceptance rate
	AdaptInterval    int     `json:"adapt_interval"`
	TargetAcceptRate float64 `json:"target_accept_rate"`
	StepFactor       float64 `json:"step_factor"`
}

// NewDefaultHoppingOptions returns the default basin hopping settings
func NewDefaultHoppingOptions() *HoppingOptions {
	return &HoppingOptions{
		Iterations:       DefaultHoppingIterations,
		StepSize:         DefaultHoppingStepSize,
		Temperature:      DefaultHoppingTemp,
		AdaptInterval:    DefaultAdaptInterval,
		TargetAcceptRate: DefaultTargetAcceptRate,
		StepFactor:       DefaultStepFactor,
	}
}

// Validate runs basic validation on basin hopping options, filling unset adaptation fields
// with defaults
func (h *HoppingOptions) Validate() (*HoppingOptions, error) {
	if h == nil {
		h = NewDefaultHoppingOptions()
	}
	if h.Iterations < 0 {
		return nil, ErrNegativeIterations
	}
	if h.StepSize <= 0 {
		return nil, ErrNonPositiveStepSize
	}
	if h.Temperature < 0 {
		return nil, ErrNegativeTemperature
	}
	if h.AdaptInterval == 0 {
		h.AdaptInterval = DefaultAdaptInterval
	}
	if h.AdaptInterval < 0 {
		return nil, ErrNonPositiveAdaptSpan
	}
	if h.TargetAcceptRate == 0 {
		h.TargetAcceptRate = DefaultTargetAcceptRate
	}
	if h.TargetAcceptRate <= 0 || h.TargetAcceptRate >= 1 {
		return nil, ErrInvalidAcceptRate
	}
	if h.StepFactor == 0 {
		h.StepFactor = DefaultStepFactor
	}
	if h.StepFactor <= 0 || h.StepFactor >= 1 {
		return nil, ErrInvalidStepFactor
	}
	return h, nil
}

// BasinHopping wraps a local refiner with random restarts. Each hop perturbs the current
// minimum uniformly within the step size, refines it, and accepts the new minimum with the
// Metropolis criterion. The best minimum seen is returned.
type BasinHopping struct {
	refiner Refiner
	opt     *HoppingOptions
}

// NewBasinHopping initializes a basin hopping refiner around a local refiner
func NewBasinHopping(refiner Refiner, opt *HoppingOptions) (*BasinHopping, error) {
	if refiner == nil {
		return nil, ErrNilRefiner
	}
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	return &BasinHopping{refiner: refiner, opt: opt}, nil
}

// Refine runs the initial local refinement followed by the configured number of hops
func (b *BasinHopping) Refine(f Objective, x0 []float64, bounds Bounds) (Result, error) {
	current, err := b.refiner.Refine(f, x0, bounds)
	if len(current.X) == 0 {
		return current, err
	}
	best := current
	evaluations := current.Evaluations
	iterations := current.Iterations

	rng := rand.New(rand.NewPCG(b.opt.Seed, b.opt.Seed^0x9e3779b97f4a7c15))
	step := b.opt.StepSize
	accepted := 0

	trial := make([]float64, len(current.X))
	for hop := 1; hop <= b.opt.Iterations; hop++ {
		for i, x := range current.X {
			trial[i] = x + (2*rng.Float64()-1)*step
		}
		bounds.Clamp(trial, trial)

		candidate, _ := b.refiner.Refine(f, trial, bounds)
		evaluations += candidate.Evaluations
		iterations += candidate.Iterations

		if b.accept(rng, current.F, candidate.F) {
			current = candidate
			accepted++
		}
		if candidate.F < best.F {
			best = candidate
		}

		if hop%b.opt.AdaptInterval == 0 {
			rate := float64(accepted) / float64(b.opt.AdaptInterval)
			if rate > b.opt.TargetAcceptRate {
				step /= b.opt.StepFactor
			} else {
				step *= b.opt.StepFactor
			}
			accepted = 0
		}
	}

	best.Evaluations = evaluations
	best.Iterations = iterations
	best.Restarts = b.opt.Iterations
	if best.Converged {
		err = nil
	}
	return best, err
}

func (b *BasinHopping) accept(rng *rand.Rand, current, candidate float64) bool {
	if candidate < current {
		return true
	}
	if b.opt.Temperature == 0 {
		return false
	}
	w := math.Exp(math.Min(0, -(candidate-current)/b.opt.Temperature))
	return rng.Float64() <= w
}
