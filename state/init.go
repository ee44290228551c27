package state

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

var (
	ErrInsufficientData = errors.New("insufficient data to initialize model")
	ErrNonFiniteData    = errors.New("data contains non-finite values")
	ErrNonPositiveData  = errors.New("multiplicative components require strictly positive data")
	ErrZeroDivisor      = errors.New("multiplicative component initialized at zero")
)

// InitialState is the seed level, slope and seasonal cycle derived from the data
type InitialState struct {
	Level  float64
	Slope  float64
	Season []float64
}

// Initialize computes heuristic initial states for the shape. Seasonal models need at least
// two full cycles, trending models at least two points. y may be on a transformed scale, so
// its sign is not checked, only that no multiplicative state starts at zero.
func Initialize(y []float64, s Shape) (InitialState, error) {
	if err := s.Validate(); err != nil {
		return InitialState{}, err
	}
	if err := CheckSeries(y, s); err != nil {
		return InitialState{}, err
	}

	n := len(y)
	m := s.Period

	var init InitialState
	switch {
	case s.HasSeason():
		cycleStarts := make([]float64, 0, n/m+1)
		for i := 0; i < n; i += m {
			cycleStarts = append(cycleStarts, y[i])
		}
		init.Level = stat.Mean(cycleStarts, nil)
		if init.Level == 0 && (s.Seasonal == SeasonalMultiplicative || s.Trend == TrendMultiplicative) {
			return InitialState{}, fmt.Errorf("level, %w", ErrZeroDivisor)
		}

		if s.HasTrend() {
			var slope float64
			for j := 0; j < m; j++ {
				slope += (y[m+j] - y[j]) / float64(m)
			}
			init.Slope = slope / float64(m)
		}

		init.Season = make([]float64, m)
		for j := 0; j < m; j++ {
			if s.Seasonal != SeasonalMultiplicative {
				init.Season[j] = y[j] - init.Level
				continue
			}
			if y[j] == 0 {
				return InitialState{}, fmt.Errorf("season %d, %w", j, ErrZeroDivisor)
			}
			init.Season[j] = y[j] / init.Level
		}
	case s.HasTrend():
		init.Level = y[0]
		if s.Trend == TrendMultiplicative {
			if y[0] == 0 {
				return InitialState{}, fmt.Errorf("level, %w", ErrZeroDivisor)
			}
			init.Slope = y[1] / y[0]
		} else {
			init.Slope = y[1] - y[0]
		}
	default:
		init.Level = y[0]
	}
	return init, nil
}

// MinObservations is the smallest series length the shape can be initialized from
func MinObservations(s Shape) int {
	switch {
	case s.HasSeason():
		return 2 * s.Period
	case s.HasTrend():
		return 2
	}
	return 1
}

// CheckSeries validates the length of the series and that every value is finite
func CheckSeries(y []float64, s Shape) error {
	if minObs := MinObservations(s); len(y) < minObs {
		return fmt.Errorf("need at least %d observations but got %d, %w", minObs, len(y), ErrInsufficientData)
	}
	for i, val := range y {
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return fmt.Errorf("at index %d, %w", i, ErrNonFiniteData)
		}
	}
	return nil
}

// CheckData validates a series on its original scale. On top of CheckSeries, multiplicative
// shapes need strictly positive data.
func CheckData(y []float64, s Shape) error {
	if err := CheckSeries(y, s); err != nil {
		return err
	}
	if s.Trend != TrendMultiplicative && s.Seasonal != SeasonalMultiplicative {
		return nil
	}
	for i, val := range y {
		if val <= 0 {
			return fmt.Errorf("got %.4g at index %d, %w", val, i, ErrNonPositiveData)
		}
	}
	return nil
}
