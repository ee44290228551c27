package timedataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateT(t *testing.T) {
	nowFunc := func() time.Time {
		return time.Date(1970, 1, 8, 0, 0, 0, 0, time.UTC)
	}

	numPnts := 7
	res := GenerateT(numPnts, 24*time.Hour, nowFunc)
	assert.Len(t, res, numPnts)

	assert.Equal(t, res[0], time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, res[numPnts-1], time.Date(1970, 1, 7, 0, 0, 0, 0, time.UTC))
}

func TestSeries(t *testing.T) {
	numPnts := 6
	s := GenerateConstY(numPnts, 1)

	res := s.Add(GenerateTrendY(numPnts, 0, 2))
	require.Equal(t, Series([]float64{1, 3, 5, 7, 9, 11}), res)

	res = s.Mul(GenerateCycleY(numPnts, []float64{1, 2}))
	assert.Equal(t, Series([]float64{1, 6, 5, 14, 9, 22}), res)

	assert.InDeltaSlice(t, []float64{2, 4, 8, 16}, GenerateGrowthY(4, 2, 2), 1e-12)
}

func TestGenerateNoise(t *testing.T) {
	a := GenerateNoise(50, 2, 11)
	b := GenerateNoise(50, 2, 11)
	c := GenerateNoise(50, 2, 12)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 50)
}
