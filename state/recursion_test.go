package state

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunLevelOnly(t *testing.T) {
	s := Shape{}
	p := Params{Alpha: 0.5, Phi: 1, L0: 1}
	y := []float64{2, 4}

	traj := Run(s, p, y, 2)
	assert.Equal(t, 2, traj.N)
	assert.Equal(t, 2, traj.H)
	assert.InDeltaSlice(t, []float64{1, 1.5, 2.75, 2.75}, traj.Fitted, 1e-12)
	assert.InDeltaSlice(t, []float64{1, 1.5}, traj.InSample(), 1e-12)
	assert.InDeltaSlice(t, []float64{2.75, 2.75}, traj.Forecast(), 1e-12)
	assert.InDelta(t, 2.75, traj.FinalLevel, 1e-12)
}

func TestRunZeroHorizon(t *testing.T) {
	s := Shape{Trend: TrendAdditive}
	p := Params{Alpha: 0.5, Beta: 0.1, Phi: 1, L0: 1, B0: 1}
	y := []float64{2, 3, 4, 5}

	traj := Run(s, p, y, 0)
	assert.Equal(t, 1, traj.H)
	assert.Len(t, traj.Fitted, len(y)+1)
	assert.Len(t, traj.Level, len(y)+1)
	assert.Len(t, traj.Slope, len(y))
	assert.Len(t, traj.Season, len(y)+1)
}

func TestRunExactLinearTrend(t *testing.T) {
	y := []float64{5, 7, 9, 11, 13}
	p := Params{Alpha: 0.4, Beta: 0.2, Phi: 1, L0: 3, B0: 2}

	traj := Run(Shape{Trend: TrendAdditive}, p, y, 3)
	assert.InDeltaSlice(t, y, traj.InSample(), 1e-9)
	assert.InDeltaSlice(t, []float64{15, 17, 19}, traj.Forecast(), 1e-9)
	assert.InDeltaSlice(t, []float64{2, 2, 2, 2, 2}, traj.Slope, 1e-9)
}

func TestRunExactGrowth(t *testing.T) {
	y := []float64{2, 4, 8, 16}
	p := Params{Alpha: 0.7, Beta: 0.3, Phi: 1, L0: 1, B0: 2}

	traj := Run(Shape{Trend: TrendMultiplicative}, p, y, 2)
	assert.InDeltaSlice(t, y, traj.InSample(), 1e-9)
	assert.InDeltaSlice(t, []float64{32, 64}, traj.Forecast(), 1e-9)
}

func TestRunDampedTrendClosedForm(t *testing.T) {
	s := Shape{Trend: TrendAdditive, Damped: true}
	p := Params{Alpha: 0.5, Beta: 0.3, Phi: 0.8, L0: 10, B0: 1}
	y := []float64{11, 12.5, 13, 14.2, 15}
	n := len(y)
	h := 6

	traj := Run(s, p, y, h)
	var phiH float64
	for k := 1; k <= h; k++ {
		phiH += math.Pow(0.8, float64(k))
		assert.InDelta(t, traj.FinalSlope*phiH, traj.Trend[n+k-1], 1e-12)
		assert.InDelta(t, traj.FinalLevel+traj.FinalSlope*phiH, traj.Fitted[n+k-1], 1e-12)
		assert.Equal(t, traj.FinalLevel, traj.Level[n+k-1])
	}
}

func TestRunForecastContinuity(t *testing.T) {
	testData := map[string]struct {
		shape Shape
		p     Params
	}{
		"mul trend mul season": {
			shape: Shape{Trend: TrendMultiplicative, Damped: true, Seasonal: SeasonalMultiplicative, Period: 3},
			p:     Params{Alpha: 0.3, Beta: 0.1, Gamma: 0.2, Phi: 0.9, L0: 10, B0: 1.01, S0: []float64{0.9, 1.0, 1.1}},
		},
		"add trend add season": {
			shape: Shape{Trend: TrendAdditive, Seasonal: SeasonalAdditive, Period: 3},
			p:     Params{Alpha: 0.3, Beta: 0.1, Gamma: 0.2, Phi: 1, L0: 10, B0: 0.5, S0: []float64{-1, 0, 1}},
		},
		"mul trend add season": {
			shape: Shape{Trend: TrendMultiplicative, Seasonal: SeasonalAdditive, Period: 3},
			p:     Params{Alpha: 0.3, Beta: 0.1, Gamma: 0.2, Phi: 1, L0: 10, B0: 1.02, S0: []float64{-1, 0, 1}},
		},
	}

	y := []float64{9, 10.5, 11.8, 9.6, 10.9, 12.4, 10.1, 11.5, 12.9}
	n := len(y)

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			traj := Run(td.shape, td.p, y, 5)
			c := newCombinators(td.shape)
			phi := td.p.Phi

			lt := c.trended(traj.FinalLevel, c.dampen(traj.FinalSlope, phi))
			var expected float64
			if td.shape.Seasonal == SeasonalMultiplicative {
				expected = lt * traj.Season[n]
			} else {
				expected = lt + traj.Season[n]
			}
			assert.InDelta(t, expected, traj.Fitted[n], 1e-9)

			m := td.shape.Period
			for j := 0; j <= traj.H; j++ {
				assert.Equal(t, traj.Season[n-1+j%m], traj.Season[n+m-1+j])
			}
			require.Len(t, traj.SmoothedSeason, n)
			require.Len(t, traj.Season, n+traj.H+m)
		})
	}
}

func TestRunPeriodicSeason(t *testing.T) {
	cycle := []float64{10, 12, 14}
	var y []float64
	for i := 0; i < 3; i++ {
		y = append(y, cycle...)
	}

	testData := map[string]struct {
		shape Shape
		p     Params
	}{
		"multiplicative": {
			shape: Shape{Seasonal: SeasonalMultiplicative, Period: 3},
			p:     Params{Alpha: 0.4, Gamma: 0.3, Phi: 1, L0: 10, S0: []float64{1, 1.2, 1.4}},
		},
		"additive": {
			shape: Shape{Seasonal: SeasonalAdditive, Period: 3},
			p:     Params{Alpha: 0.4, Gamma: 0.3, Phi: 1, L0: 10, S0: []float64{0, 2, 4}},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			traj := Run(td.shape, td.p, y, 6)
			assert.InDeltaSlice(t, y, traj.InSample(), 1e-9)
			assert.InDeltaSlice(t, []float64{10, 12, 14, 10, 12, 14}, traj.Forecast(), 1e-9)
		})
	}
}

func TestRunDoesNotMutateInputs(t *testing.T) {
	s := Shape{Trend: TrendAdditive, Seasonal: SeasonalAdditive, Period: 2}
	p := Params{Alpha: 0.3, Beta: 0.1, Gamma: 0.2, Phi: 1, L0: 1, B0: 0.1, S0: []float64{-1, 1}}
	y := []float64{0, 2, 1, 3, 2, 4}
	yCopy := append([]float64(nil), y...)

	Run(s, p, y, 4)
	assert.Equal(t, yCopy, y)
	assert.Equal(t, []float64{-1, 1}, p.S0)
}
