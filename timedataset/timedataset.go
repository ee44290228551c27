package timedataset

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

var (
	ErrNoTrainingData     = errors.New("no training data")
	ErrNotIncreasing      = errors.New("times are not strictly increasing")
	ErrDatasetLenMismatch = errors.New("time feature has a different length than observations")
	ErrCannotInferFreq    = errors.New("cannot infer frequency from time slice")
)

// TimeDataset is a timed univariate series. T is strictly increasing and as long as Y.
type TimeDataset struct {
	T []time.Time
	Y []float64
}

// NewUnivariateDataset validates t against y and returns a dataset that owns copies of both
func NewUnivariateDataset(t []time.Time, y []float64) (*TimeDataset, error) {
	switch {
	case len(y) == 0:
		return nil, ErrNoTrainingData
	case len(t) != len(y):
		return nil, fmt.Errorf("got %d times for %d values, %w", len(t), len(y), ErrDatasetLenMismatch)
	}
	if i := TimeSlice(t).firstNotAfter(); i >= 0 {
		return nil, fmt.Errorf("%s at index %d does not follow %s, %w",
			t[i].Format(time.RFC3339), i, t[i-1].Format(time.RFC3339), ErrNotIncreasing)
	}
	return &TimeDataset{T: slices.Clone(t), Y: slices.Clone(y)}, nil
}
