package state

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialize(t *testing.T) {
	testData := map[string]struct {
		y        []float64
		shape    Shape
		expected InitialState
	}{
		"level only": {
			y:        []float64{4, 5, 6},
			shape:    Shape{},
			expected: InitialState{Level: 4},
		},
		"additive trend": {
			y:        []float64{2, 3, 5},
			shape:    Shape{Trend: TrendAdditive},
			expected: InitialState{Level: 2, Slope: 1},
		},
		"multiplicative trend": {
			y:        []float64{2, 3, 5},
			shape:    Shape{Trend: TrendMultiplicative, Damped: true},
			expected: InitialState{Level: 2, Slope: 1.5},
		},
		"additive season with trend": {
			y:        []float64{1, 3, 2, 4, 3, 5},
			shape:    Shape{Trend: TrendAdditive, Seasonal: SeasonalAdditive, Period: 2},
			expected: InitialState{Level: 2, Slope: 0.5, Season: []float64{-1, 1}},
		},
		"multiplicative season": {
			y:        []float64{2, 4, 2, 4},
			shape:    Shape{Seasonal: SeasonalMultiplicative, Period: 2},
			expected: InitialState{Level: 2, Season: []float64{1, 2}},
		},
		"multiplicative season on negative data": {
			y:        []float64{-2, -1, -2, -1},
			shape:    Shape{Seasonal: SeasonalMultiplicative, Period: 2},
			expected: InitialState{Level: -2, Season: []float64{1, 0.5}},
		},
		"multiplicative trend on negative data": {
			y:        []float64{-2, -3},
			shape:    Shape{Trend: TrendMultiplicative},
			expected: InitialState{Level: -2, Slope: 1.5},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			init, err := Initialize(td.y, td.shape)
			require.Nil(t, err)
			assert.InDelta(t, td.expected.Level, init.Level, 1e-12)
			assert.InDelta(t, td.expected.Slope, init.Slope, 1e-12)
			if td.expected.Season == nil {
				assert.Nil(t, init.Season)
				return
			}
			assert.InDeltaSlice(t, td.expected.Season, init.Season, 1e-12)
		})
	}
}

func TestInitializeZeroDivisor(t *testing.T) {
	testData := map[string]struct {
		y     []float64
		shape Shape
	}{
		"zero level": {
			y:     []float64{-1, 2, 1, 3},
			shape: Shape{Seasonal: SeasonalMultiplicative, Period: 2},
		},
		"zero season": {
			y:     []float64{1, 0, 1, 2},
			shape: Shape{Seasonal: SeasonalMultiplicative, Period: 2},
		},
		"zero start of multiplicative trend": {
			y:     []float64{0, 2, 3},
			shape: Shape{Trend: TrendMultiplicative},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			_, err := Initialize(td.y, td.shape)
			assert.ErrorIs(t, err, ErrZeroDivisor)
		})
	}
}

func TestCheckSeries(t *testing.T) {
	testData := map[string]struct {
		y     []float64
		shape Shape
		err   error
	}{
		"negative multiplicative": {[]float64{-1, -2, -1, -2}, Shape{Seasonal: SeasonalMultiplicative, Period: 2}, nil},
		"zero multiplicative":     {[]float64{1, 0, 1, 1}, Shape{Seasonal: SeasonalMultiplicative, Period: 2}, nil},
		"too short":               {[]float64{1, 2, 3}, Shape{Seasonal: SeasonalMultiplicative, Period: 2}, ErrInsufficientData},
		"nan":                     {[]float64{1, math.NaN()}, Shape{Trend: TrendMultiplicative}, ErrNonFiniteData},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			err := CheckSeries(td.y, td.shape)
			if td.err == nil {
				assert.Nil(t, err)
				return
			}
			assert.ErrorIs(t, err, td.err)
		})
	}
}

func TestCheckData(t *testing.T) {
	testData := map[string]struct {
		y     []float64
		shape Shape
		err   error
	}{
		"ok":                  {[]float64{1}, Shape{}, nil},
		"empty":               {nil, Shape{}, ErrInsufficientData},
		"one point for trend": {[]float64{1}, Shape{Trend: TrendAdditive}, ErrInsufficientData},
		"under two cycles":    {[]float64{1, 2, 3, 4, 5}, Shape{Seasonal: SeasonalAdditive, Period: 3}, ErrInsufficientData},
		"inf":                 {[]float64{1, math.Inf(1)}, Shape{}, ErrNonFiniteData},
		"negative additive":   {[]float64{-1, -2}, Shape{Trend: TrendAdditive}, nil},
		"zero multiplicative": {[]float64{1, 0, 1, 1}, Shape{Seasonal: SeasonalMultiplicative, Period: 2}, ErrNonPositiveData},
		"negative mul trend":  {[]float64{-1, 2}, Shape{Trend: TrendMultiplicative}, ErrNonPositiveData},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			err := CheckData(td.y, td.shape)
			if td.err == nil {
				assert.Nil(t, err)
				return
			}
			assert.ErrorIs(t, err, td.err)
		})
	}
}

func TestMinObservations(t *testing.T) {
	assert.Equal(t, 1, MinObservations(Shape{}))
	assert.Equal(t, 2, MinObservations(Shape{Trend: TrendAdditive}))
	assert.Equal(t, 24, MinObservations(Shape{Seasonal: SeasonalAdditive, Period: 12}))
}
