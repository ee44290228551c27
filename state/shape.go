// Package state holds the Holt-Winters state-space model: the model shape, the parameter
// vector, the free parameter mask, the initial state heuristics and the recursion that
// produces level, trend and seasonal trajectories.
package state

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownTrend        = errors.New("unknown trend type")
	ErrUnknownSeasonal     = errors.New("unknown seasonal type")
	ErrDampedWithoutTrend  = errors.New("can only dampen the trend component")
	ErrInvalidPeriod       = errors.New("seasonal model requires a season period of at least 1")
	ErrPeriodWithoutSeason = errors.New("season period set without a seasonal component")
)

// TrendType describes how the slope combines with the level
type TrendType int

const (
	TrendNone TrendType = iota
	TrendAdditive
	TrendMultiplicative
)

// ParseTrendType parses none, add, additive, mul or multiplicative. An empty string is
// treated as none.
func ParseTrendType(s string) (TrendType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return TrendNone, nil
	case "add", "additive":
		return TrendAdditive, nil
	case "mul", "multiplicative":
		return TrendMultiplicative, nil
	}
	return TrendNone, fmt.Errorf("%q, %w", s, ErrUnknownTrend)
}

func (t TrendType) String() string {
	switch t {
	case TrendNone:
		return "none"
	case TrendAdditive:
		return "add"
	case TrendMultiplicative:
		return "mul"
	}
	return fmt.Sprintf("TrendType(%d)", int(t))
}

func (t TrendType) valid() bool {
	return t >= TrendNone && t <= TrendMultiplicative
}

func (t TrendType) MarshalText() ([]byte, error) {
	if !t.valid() {
		return nil, ErrUnknownTrend
	}
	return []byte(t.String()), nil
}

func (t *TrendType) UnmarshalText(text []byte) error {
	parsed, err := ParseTrendType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// SeasonalType describes how the seasonal factor combines with the trended level
type SeasonalType int

const (
	SeasonalNone SeasonalType = iota
	SeasonalAdditive
	SeasonalMultiplicative
)

// ParseSeasonalType parses none, add, additive, mul or multiplicative. An empty string is
// treated as none.
func ParseSeasonalType(s string) (SeasonalType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return SeasonalNone, nil
	case "add", "additive":
		return SeasonalAdditive, nil
	case "mul", "multiplicative":
		return SeasonalMultiplicative, nil
	}
	return SeasonalNone, fmt.Errorf("%q, %w", s, ErrUnknownSeasonal)
}

func (s SeasonalType) String() string {
	switch s {
	case SeasonalNone:
		return "none"
	case SeasonalAdditive:
		return "add"
	case SeasonalMultiplicative:
		return "mul"
	}
	return fmt.Sprintf("SeasonalType(%d)", int(s))
}

func (s SeasonalType) valid() bool {
	return s >= SeasonalNone && s <= SeasonalMultiplicative
}

func (s SeasonalType) MarshalText() ([]byte, error) {
	if !s.valid() {
		return nil, ErrUnknownSeasonal
	}
	return []byte(s.String()), nil
}

func (s *SeasonalType) UnmarshalText(text []byte) error {
	parsed, err := ParseSeasonalType(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Shape describes which components a model carries and how they combine. Period is the
// number of observations in one seasonal cycle and is 0 for non-seasonal models.
type Shape struct {
	Trend    TrendType    `json:"trend"`
	Damped   bool         `json:"damped"`
	Seasonal SeasonalType `json:"seasonal"`
	Period   int          `json:"period"`
}

// NewShape validates and returns a model shape. The period is dropped for non-seasonal
// models.
func NewShape(trend TrendType, damped bool, seasonal SeasonalType, period int) (Shape, error) {
	if seasonal == SeasonalNone {
		period = 0
	}
	s := Shape{
		Trend:    trend,
		Damped:   damped,
		Seasonal: seasonal,
		Period:   period,
	}
	if err := s.Validate(); err != nil {
		return Shape{}, err
	}
	return s, nil
}

// Validate checks the shape invariants
func (s Shape) Validate() error {
	if !s.Trend.valid() {
		return ErrUnknownTrend
	}
	if !s.Seasonal.valid() {
		return ErrUnknownSeasonal
	}
	if s.Damped && s.Trend == TrendNone {
		return ErrDampedWithoutTrend
	}
	if s.Seasonal != SeasonalNone && s.Period < 1 {
		return fmt.Errorf("got period %d, %w", s.Period, ErrInvalidPeriod)
	}
	if s.Seasonal == SeasonalNone && s.Period != 0 {
		return fmt.Errorf("got period %d, %w", s.Period, ErrPeriodWithoutSeason)
	}
	return nil
}

func (s Shape) HasTrend() bool {
	return s.Trend != TrendNone
}

func (s Shape) HasSeason() bool {
	return s.Seasonal != SeasonalNone
}

// NumParams is the length of the parameter vector for this shape
func (s Shape) NumParams() int {
	return NumCoefficients + s.Period
}

// DegreesOfFreedom counts the estimated structural parameters: the seasonal
// initial values and gamma, b0 and beta, l0 and alpha, and phi.
func (s Shape) DegreesOfFreedom() int {
	k := 2
	if s.HasSeason() {
		k += s.Period
	}
	if s.HasTrend() {
		k += 2
	}
	if s.Damped {
		k++
	}
	return k
}

func (s Shape) String() string {
	trend := s.Trend.String()
	if s.Damped {
		trend += "(damped)"
	}
	if !s.HasSeason() {
		return fmt.Sprintf("trend=%s seasonal=none", trend)
	}
	return fmt.Sprintf("trend=%s seasonal=%s period=%d", trend, s.Seasonal, s.Period)
}
