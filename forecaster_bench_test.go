package holtwinters

import (
	"os"
	"testing"

	"github.com/aouyang1/go-holtwinters/state"
	"github.com/pkg/profile"
)

var benchForecast []float64

func benchOptions() *Options {
	opt := NewDefaultOptions()
	opt.Trend = state.TrendAdditive
	opt.Damped = true
	opt.Seasonal = state.SeasonalMultiplicative
	opt.SeasonalPeriods = 24
	return opt
}

func BenchmarkFit(b *testing.B) {
	t, y := generateExampleSeries()
	opt := benchOptions()

	f, err := New(opt)
	if err != nil {
		panic(err)
	}

	defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()

	var res *Results
	for b.Loop() {
		res, err = f.FitTime(t, y)
		if err != nil {
			panic(err)
		}
	}

	file, err := os.Create("benchmark_model.json")
	if err != nil {
		panic(err)
	}
	defer file.Close()
	if err := res.Model().Write(file); err != nil {
		panic(err)
	}
}

func BenchmarkForecastFromModel(b *testing.B) {
	t, y := generateExampleSeries()

	file, err := os.Open("benchmark_model.json")
	if err != nil {
		b.Skip("run BenchmarkFit first to write benchmark_model.json")
	}
	defer file.Close()

	m, err := ReadModel(file)
	if err != nil {
		panic(err)
	}

	for b.Loop() {
		res, err := NewFromModel(m, t, y)
		if err != nil {
			panic(err)
		}
		benchForecast = res.Forecast(48)
	}
}
