package stats

import (
	"fmt"
	"math"

	"github.com/aouyang1/go-holtwinters/floatsunrolled"
	"gonum.org/v1/gonum/stat"
)

// Scores summarizes how closely the fitted values track the data
type Scores struct {
	MSE  float64 `json:"mean_squared_error"`
	MAPE float64 `json:"mean_average_percent_error"`
	R2   float64 `json:"r_squared"`
}

// NewScores scores predicted against actual. Pairs where either side is NaN are left out of
// every score.
func NewScores(predicted, actual []float64) (*Scores, error) {
	p, a, err := observed(predicted, actual)
	if err != nil {
		return nil, err
	}
	return &Scores{
		MSE:  mse(p, a),
		MAPE: mape(p, a),
		R2:   rSquared(p, a),
	}, nil
}

// MSE is the mean squared error over the observed pairs. 0 is a perfect match.
func MSE(predicted, actual []float64) (float64, error) {
	p, a, err := observed(predicted, actual)
	if err != nil {
		return 0, err
	}
	return mse(p, a), nil
}

// MAPE is the mean absolute percent error over the observed pairs with a non zero actual.
// It is NaN when every actual is zero.
func MAPE(predicted, actual []float64) (float64, error) {
	p, a, err := observed(predicted, actual)
	if err != nil {
		return 0, err
	}
	return mape(p, a), nil
}

// RSquared is the coefficient of determination over the observed pairs. A constant actual
// series that is matched exactly scores 1.
func RSquared(predicted, actual []float64) (float64, error) {
	p, a, err := observed(predicted, actual)
	if err != nil {
		return 0, err
	}
	return rSquared(p, a), nil
}

// observed drops the pairs with a NaN on either side. The inputs are returned as is when
// nothing is missing.
func observed(predicted, actual []float64) ([]float64, []float64, error) {
	if len(predicted) != len(actual) {
		return nil, nil, fmt.Errorf("expected %d, but got %d, %w", len(actual), len(predicted), ErrLenMismatch)
	}

	missing := 0
	for i := range actual {
		if math.IsNaN(actual[i]) || math.IsNaN(predicted[i]) {
			missing++
		}
	}
	if missing == len(actual) {
		return nil, nil, ErrNoSamples
	}
	if missing == 0 {
		return predicted, actual, nil
	}

	p := make([]float64, 0, len(actual)-missing)
	a := make([]float64, 0, len(actual)-missing)
	for i := range actual {
		if math.IsNaN(actual[i]) || math.IsNaN(predicted[i]) {
			continue
		}
		p = append(p, predicted[i])
		a = append(a, actual[i])
	}
	return p, a, nil
}

func mse(p, a []float64) float64 {
	return floatsunrolled.SquaredDistance(p, a) / float64(len(a))
}

func mape(p, a []float64) float64 {
	var (
		sum float64
		cnt int
	)
	for i, act := range a {
		if act == 0 {
			continue
		}
		sum += math.Abs((act - p[i]) / act)
		cnt++
	}
	if cnt == 0 {
		return math.NaN()
	}
	return sum / float64(cnt)
}

func rSquared(p, a []float64) float64 {
	r2 := stat.RSquaredFrom(p, a, nil)
	if math.IsNaN(r2) {
		return 1
	}
	return r2
}
