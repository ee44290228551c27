package state

import (
	"math"
)

// Trajectory is the output of a single recursion pass over n observations extended by H
// forecast steps. All slices are freshly allocated and owned by the caller.
type Trajectory struct {
	N int
	H int

	// Level holds l[0..n) followed by l[n] repeated over the horizon
	Level []float64

	// Trend holds the damped trend contribution that is combined with Level
	Trend []float64

	// Season holds the seasonal factors with the last cycle repeated over the horizon.
	// Only the first N+H entries line up with Fitted.
	Season []float64

	// Slope is the raw trend state b[0..n)
	Slope []float64

	// SmoothedSeason is s[m..n+m), the seasonal states produced from each observation
	SmoothedSeason []float64

	// Fitted recombines level, trend and season. Entry i < N is the one-step-ahead
	// prediction of y[i], the remaining H entries are the forecast.
	Fitted []float64

	// FinalLevel and FinalSlope are l[n] and b[n], the states after the last observation
	FinalLevel float64
	FinalSlope float64
}

// InSample returns the fitted values aligned with the observations
func (t *Trajectory) InSample() []float64 {
	return t.Fitted[:t.N]
}

// Forecast returns the fitted values beyond the observations
func (t *Trajectory) Forecast() []float64 {
	return t.Fitted[t.N:]
}

// combinators captures how one shape combines its components. They are selected once per
// shape so a single loop serves every trend and seasonal variant.
type combinators struct {
	trended func(l, b float64) float64
	detrend func(a, b float64) float64
	dampen  func(b, phi float64) float64
}

func newCombinators(s Shape) combinators {
	switch s.Trend {
	case TrendAdditive:
		return combinators{
			trended: func(l, b float64) float64 { return l + b },
			detrend: func(a, b float64) float64 { return a - b },
			dampen:  func(b, phi float64) float64 { return phi * b },
		}
	case TrendMultiplicative:
		return combinators{
			trended: func(l, b float64) float64 { return l * b },
			detrend: func(a, b float64) float64 { return a / b },
			dampen:  math.Pow,
		}
	}
	return combinators{
		trended: func(l, _ float64) float64 { return l },
		detrend: func(_, _ float64) float64 { return 0 },
		dampen:  func(_, _ float64) float64 { return 0 },
	}
}

// Run performs the exponential smoothing recursion over y and extends it h steps past the
// end of the data. A horizon of 0 is computed as a single step so the final states are
// always available.
func Run(s Shape, p Params, y []float64, h int) *Trajectory {
	if h < 1 {
		h = 1
	}
	n := len(y)
	m := s.Period

	c := newCombinators(s)

	alpha, beta, gamma := p.Alpha, p.Beta, p.Gamma
	phi := p.Phi
	if !s.Damped {
		phi = 1.0
	}

	l := make([]float64, n+h)
	b := make([]float64, n+h)
	season := make([]float64, n+h+m)
	l[0] = p.L0
	b[0] = p.B0
	copy(season[:m], p.S0)

	for i := 1; i <= n; i++ {
		obs := y[i-1]
		lt := c.trended(l[i-1], c.dampen(b[i-1], phi))

		switch s.Seasonal {
		case SeasonalMultiplicative:
			l[i] = alpha*obs/season[i-1] + (1-alpha)*lt
		case SeasonalAdditive:
			l[i] = alpha*obs - alpha*season[i-1] + (1-alpha)*lt
		default:
			l[i] = alpha*obs + (1-alpha)*lt
		}

		if s.HasTrend() {
			b[i] = beta*c.detrend(l[i], l[i-1]) + (1-beta)*c.dampen(b[i-1], phi)
		}

		switch s.Seasonal {
		case SeasonalMultiplicative:
			season[i+m-1] = gamma*obs/lt + (1-gamma)*season[i-1]
		case SeasonalAdditive:
			season[i+m-1] = gamma*obs - gamma*lt + (1-gamma)*season[i-1]
		}
	}

	traj := &Trajectory{
		N:          n,
		H:          h,
		FinalLevel: l[n],
		FinalSlope: b[n],
	}
	traj.Slope = make([]float64, n)
	copy(traj.Slope, b[:n])
	traj.SmoothedSeason = make([]float64, n)
	copy(traj.SmoothedSeason, season[m:n+m])

	// hold the level and project the damped trend over the horizon
	for i := n; i < n+h; i++ {
		l[i] = l[n]
	}
	trend := make([]float64, n+h)
	for i := 0; i < n; i++ {
		trend[i] = c.dampen(b[i], phi)
	}
	var phiH float64
	for k := 1; k <= h; k++ {
		if s.Damped {
			phiH += math.Pow(phi, float64(k))
		} else {
			phiH = float64(k)
		}
		trend[n+k-1] = c.dampen(b[n], phiH)
	}

	// repeat the last full seasonal cycle
	if s.HasSeason() {
		for j := 0; j <= h; j++ {
			season[n+m-1+j] = season[(n-1)+j%m]
		}
	}

	fitted := make([]float64, n+h)
	for i := range fitted {
		lt := c.trended(l[i], trend[i])
		switch s.Seasonal {
		case SeasonalMultiplicative:
			fitted[i] = lt * season[i]
		case SeasonalAdditive:
			fitted[i] = lt + season[i]
		default:
			fitted[i] = lt
		}
	}

	traj.Level = l
	traj.Trend = trend
	traj.Season = season
	traj.Fitted = fitted
	return traj
}
