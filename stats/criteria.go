package stats

import (
	"errors"
	"fmt"
	"math"

	"github.com/aouyang1/go-holtwinters/floatsunrolled"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrLenMismatch = errors.New("predicted and actual have different lengths")
	ErrNoSamples   = errors.New("no samples")
)

// SSE returns the sum of squared differences between a and b. Both slices must have the
// same length.
func SSE(a, b []float64) float64 {
	if len(a) != len(b) {
		panic(ErrLenMismatch)
	}
	return floatsunrolled.SquaredDistance(a, b)
}

// Residuals returns actual - predicted
func Residuals(actual, predicted []float64) ([]float64, error) {
	if len(actual) != len(predicted) {
		return nil, fmt.Errorf("expected %d, but got %d, %w", len(actual), len(predicted), ErrLenMismatch)
	}
	res := make([]float64, len(actual))
	floats.SubTo(res, actual, predicted)
	return res, nil
}

// MeanResidual is the arithmetic mean of the residuals
func MeanResidual(residuals []float64) float64 {
	if len(residuals) == 0 {
		return 0
	}
	return stat.Mean(residuals, nil)
}

// Criteria holds the information criteria of a least squares fit
type Criteria struct {
	N    int     `json:"n"`
	K    int     `json:"k"`
	SSE  float64 `json:"sse"`
	AIC  float64 `json:"aic"`
	AICc float64 `json:"aicc"`
	BIC  float64 `json:"bic"`
}

// NewCriteria computes AIC, AICc and BIC from the sum of squared errors of n samples and k
// estimated parameters. AICc is undefined when n <= k+3 and is reported as +Inf.
func NewCriteria(sse float64, n, k int) (Criteria, error) {
	if n <= 0 {
		return Criteria{}, ErrNoSamples
	}
	nf := float64(n)
	kf := float64(k)

	llf := nf * math.Log(sse/nf)
	aic := llf + 2*kf

	aicc := math.Inf(1)
	if denom := nf - kf - 3; denom > 0 {
		aicc = aic + 2*(kf+2)*(kf+3)/denom
	}

	return Criteria{
		N:    n,
		K:    k,
		SSE:  sse,
		AIC:  aic,
		AICc: aicc,
		BIC:  llf + kf*math.Log(nf),
	}, nil
}
