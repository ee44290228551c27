package timedataset

import (
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/floats"
)

func GenerateT(n int, interval time.Duration, nowFunc func() time.Time) []time.Time {
	t := make([]time.Time, 0, n)
	ct := time.Unix(nowFunc().Unix()/60*60, 0).Add(-time.Duration(n) * interval).UTC()
	for i := 0; i < n; i++ {
		t = append(t, ct.Add(interval*time.Duration(i)))
	}
	return t
}

type Series []float64

func (s Series) Add(src Series) Series {
	floats.Add(s, src)
	return s
}

// Mul scales each point by the matching point of src
func (s Series) Mul(src Series) Series {
	floats.Mul(s, src)
	return s
}

func GenerateConstY(n int, val float64) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, val)
	}
	return Series(y)
}

// GenerateTrendY is a straight line starting at intercept and rising slope per point
func GenerateTrendY(n int, intercept, slope float64) Series {
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		y[i] = intercept + slope*float64(i)
	}
	return Series(y)
}

// GenerateGrowthY compounds start by rate per point
func GenerateGrowthY(n int, start, rate float64) Series {
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		y[i] = start * math.Pow(rate, float64(i))
	}
	return Series(y)
}

// GenerateCycleY repeats cycle until n points are filled
func GenerateCycleY(n int, cycle []float64) Series {
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		y[i] = cycle[i%len(cycle)]
	}
	return Series(y)
}

func GenerateWaveY(t []time.Time, amp, periodSec, order, timeOffset float64) Series {
	n := len(t)
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		val := amp * math.Sin(2.0*math.Pi*order/periodSec*(float64(t[i].Unix())+timeOffset))
		y = append(y, val)
	}
	return Series(y)
}

// GenerateNoise draws gaussian noise with the given scale from a seeded source
func GenerateNoise(n int, scale float64, seed uint64) Series {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		y[i] = rng.NormFloat64() * scale
	}
	return Series(y)
}
