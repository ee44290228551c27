// Package boxcox implements the Box-Cox power transform used to stabilize the variance of a
// series before smoothing, along with maximum likelihood estimation of its lambda.
package boxcox

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/aouyang1/go-holtwinters/search"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrNonPositiveData = errors.New("box-cox transform requires strictly positive data")
	ErrInvalidLambda   = errors.New("invalid box-cox lambda")
	ErrUnknownMethod   = errors.New("unknown box-cox method")
	ErrConstantData    = errors.New("cannot estimate box-cox lambda of constant data")
	ErrNotEnoughData   = errors.New("not enough data to estimate box-cox lambda")
)

// LambdaBound limits the estimated lambda to [-LambdaBound, LambdaBound]
const LambdaBound = 5.0

// Method selects how lambda is chosen
type Method int

const (
	MethodNone Method = iota
	MethodLog
	MethodFixed
	MethodAuto
)

// Options configures the transform. Lambda is only read with MethodFixed.
type Options struct {
	Method Method
	Lambda float64
}

// Parse reads none, log, auto or a numeric lambda
func Parse(s string) (Options, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "false":
		return Options{Method: MethodNone}, nil
	case "log", "true":
		return Options{Method: MethodLog}, nil
	case "auto":
		return Options{Method: MethodAuto}, nil
	}
	lambda, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return Options{}, fmt.Errorf("%q, %w", s, ErrUnknownMethod)
	}
	opt := Options{Method: MethodFixed, Lambda: lambda}
	if err := opt.Validate(); err != nil {
		return Options{}, err
	}
	return opt, nil
}

// Validate checks a fixed lambda is finite
func (o Options) Validate() error {
	switch o.Method {
	case MethodNone, MethodLog, MethodAuto:
		return nil
	case MethodFixed:
		if math.IsNaN(o.Lambda) || math.IsInf(o.Lambda, 0) {
			return fmt.Errorf("got %g, %w", o.Lambda, ErrInvalidLambda)
		}
		return nil
	}
	return ErrUnknownMethod
}

// Enabled reports whether the data is transformed at all
func (o Options) Enabled() bool {
	return o.Method != MethodNone
}

func (o Options) String() string {
	switch o.Method {
	case MethodNone:
		return "none"
	case MethodLog:
		return "log"
	case MethodAuto:
		return "auto"
	case MethodFixed:
		return strconv.FormatFloat(o.Lambda, 'g', -1, 64)
	}
	return fmt.Sprintf("Method(%d)", int(o.Method))
}

func (o Options) MarshalText() ([]byte, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return []byte(o.String()), nil
}

func (o *Options) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// Resolve returns the lambda to use for x. Auto estimates it from the data.
func (o Options) Resolve(x []float64) (float64, error) {
	switch o.Method {
	case MethodLog:
		return 0, nil
	case MethodFixed:
		return o.Lambda, o.Validate()
	case MethodAuto:
		return EstimateLambda(x)
	}
	return 0, fmt.Errorf("transform is disabled, %w", ErrUnknownMethod)
}

// CheckPositive returns an error for the first non-positive value of x
func CheckPositive(x []float64) error {
	for i, val := range x {
		if val <= 0 || math.IsNaN(val) {
			return fmt.Errorf("got %.4g at index %d, %w", val, i, ErrNonPositiveData)
		}
	}
	return nil
}

// Transform applies (x^lambda - 1) / lambda, or ln(x) when lambda is 0
func Transform(x []float64, lambda float64) ([]float64, error) {
	if err := CheckPositive(x); err != nil {
		return nil, err
	}
	out := make([]float64, len(x))
	if lambda == 0 {
		for i, val := range x {
			out[i] = math.Log(val)
		}
		return out, nil
	}
	for i, val := range x {
		out[i] = (math.Pow(val, lambda) - 1) / lambda
	}
	return out, nil
}

// Inverse maps transformed values back with exp(log1p(lambda*y)/lambda), or exp(y) when
// lambda is 0. Values outside the range of the transform become NaN.
func Inverse(y []float64, lambda float64) []float64 {
	out := make([]float64, len(y))
	if lambda == 0 {
		for i, val := range y {
			out[i] = math.Exp(val)
		}
		return out
	}
	for i, val := range y {
		out[i] = math.Exp(math.Log1p(lambda*val) / lambda)
	}
	return out
}

// LogLikelihood is the Box-Cox profile log-likelihood of lambda for x
func LogLikelihood(x []float64, lambda float64) float64 {
	logs := make([]float64, len(x))
	for i, val := range x {
		logs[i] = math.Log(val)
	}
	return logLikelihood(x, logs, floats.Sum(logs), lambda)
}

func logLikelihood(x, logs []float64, logSum, lambda float64) float64 {
	n := float64(len(x))
	tx := make([]float64, len(x))
	if lambda == 0 {
		copy(tx, logs)
	} else {
		for i, val := range x {
			tx[i] = (math.Pow(val, lambda) - 1) / lambda
		}
	}
	return (lambda-1)*logSum - n/2*math.Log(stat.PopVariance(tx, nil))
}

// EstimateLambda maximizes the profile log-likelihood over [-LambdaBound, LambdaBound] with a
// coarse grid followed by Nelder-Mead
func EstimateLambda(x []float64) (float64, error) {
	if len(x) < 2 {
		return 0, ErrNotEnoughData
	}
	if err := CheckPositive(x); err != nil {
		return 0, err
	}

	logs := make([]float64, len(x))
	for i, val := range x {
		logs[i] = math.Log(val)
	}
	if floats.Max(logs) == floats.Min(logs) {
		return 0, ErrConstantData
	}
	logSum := floats.Sum(logs)

	negLLF := func(v []float64) float64 {
		llf := logLikelihood(x, logs, logSum, v[0])
		if math.IsNaN(llf) || math.IsInf(llf, 0) {
			return math.MaxFloat64
		}
		return -llf
	}
	bounds := search.Bounds{{Lower: -LambdaBound, Upper: LambdaBound}}

	grid, err := search.NewGrid(&search.GridOptions{Points: 41})
	if err != nil {
		return 0, err
	}
	coarse, err := grid.Explore(negLLF, bounds)
	if err != nil {
		return 0, fmt.Errorf("unable to scan box-cox lambda, %w", err)
	}

	nm, err := search.NewNelderMead(&search.LocalOptions{
		FunctionTolerance: 1e-12,
		InitialStep:       0.1,
	})
	if err != nil {
		return 0, err
	}
	res, _ := nm.Refine(negLLF, coarse.X, bounds)
	if len(res.X) != 1 || res.F > coarse.F {
		return coarse.X[0], nil
	}
	return res.X[0], nil
}
