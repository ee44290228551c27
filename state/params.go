package state

import (
	"errors"
	"fmt"
)

// Positions of the coefficients within a parameter vector. Seasonal initial values
// follow from IdxS0 onwards.
const (
	IdxAlpha = iota
	IdxBeta
	IdxGamma
	IdxL0
	IdxB0
	IdxPhi
	IdxS0

	NumCoefficients = IdxS0
)

var ErrParamsLenMismatch = errors.New("parameter vector length does not match season period")

// Params is the full Holt-Winters parameter vector. Beta, Gamma and B0 are only meaningful
// when the model trends or is seasonal and Phi is 1 for undamped models.
type Params struct {
	Alpha float64   `json:"alpha"`
	Beta  float64   `json:"beta,omitempty"`
	Gamma float64   `json:"gamma,omitempty"`
	Phi   float64   `json:"phi"`
	L0    float64   `json:"l0"`
	B0    float64   `json:"b0,omitempty"`
	S0    []float64 `json:"s0,omitempty"`
}

// Vector flattens the parameters as [alpha, beta, gamma, l0, b0, phi, s0...]
func (p Params) Vector() []float64 {
	v := make([]float64, NumCoefficients+len(p.S0))
	v[IdxAlpha] = p.Alpha
	v[IdxBeta] = p.Beta
	v[IdxGamma] = p.Gamma
	v[IdxL0] = p.L0
	v[IdxB0] = p.B0
	v[IdxPhi] = p.Phi
	copy(v[IdxS0:], p.S0)
	return v
}

// ParamsFromVector is the inverse of Vector
func ParamsFromVector(v []float64, period int) (Params, error) {
	if len(v) != NumCoefficients+period {
		return Params{}, fmt.Errorf("expected %d, but got %d, %w", NumCoefficients+period, len(v), ErrParamsLenMismatch)
	}
	p := Params{
		Alpha: v[IdxAlpha],
		Beta:  v[IdxBeta],
		Gamma: v[IdxGamma],
		L0:    v[IdxL0],
		B0:    v[IdxB0],
		Phi:   v[IdxPhi],
	}
	if period > 0 {
		p.S0 = make([]float64, period)
		copy(p.S0, v[IdxS0:])
	}
	return p, nil
}

// Copy returns a deep copy
func (p Params) Copy() Params {
	c := p
	if p.S0 != nil {
		c.S0 = make([]float64, len(p.S0))
		copy(c.S0, p.S0)
	}
	return c
}

// Fixed holds user supplied coefficients that should not be estimated. A nil entry is free.
type Fixed struct {
	Alpha *float64 `json:"alpha,omitempty"`
	Beta  *float64 `json:"beta,omitempty"`
	Gamma *float64 `json:"gamma,omitempty"`
	Phi   *float64 `json:"phi,omitempty"`
}

// Mask marks the entries of a parameter vector that are estimated
type Mask []bool

// NewMask derives which parameters are free for the given shape and fixed coefficients.
// Initial states are always estimated for the components that are present.
func NewMask(s Shape, fixed Fixed) Mask {
	m := make(Mask, s.NumParams())
	m[IdxAlpha] = fixed.Alpha == nil
	m[IdxBeta] = s.HasTrend() && fixed.Beta == nil
	m[IdxGamma] = s.HasSeason() && fixed.Gamma == nil
	m[IdxL0] = true
	m[IdxB0] = s.HasTrend()
	m[IdxPhi] = s.Damped && fixed.Phi == nil
	for i := IdxS0; i < len(m); i++ {
		m[i] = s.HasSeason()
	}
	return m
}

// Count returns the number of free entries
func (m Mask) Count() int {
	var cnt int
	for _, free := range m {
		if free {
			cnt++
		}
	}
	return cnt
}

// Coarse restricts the mask to the smoothing coefficients alpha, beta, gamma and phi
func (m Mask) Coarse() Mask {
	c := make(Mask, len(m))
	c[IdxAlpha] = m[IdxAlpha]
	c[IdxBeta] = m[IdxBeta]
	c[IdxGamma] = m[IdxGamma]
	c[IdxPhi] = m[IdxPhi]
	return c
}

// Select extracts the free entries of v in vector order
func (m Mask) Select(v []float64) []float64 {
	out := make([]float64, 0, m.Count())
	for i, free := range m {
		if free {
			out = append(out, v[i])
		}
	}
	return out
}

// Merge writes the free values back into dst in vector order
func (m Mask) Merge(dst, free []float64) {
	var j int
	for i, isFree := range m {
		if !isFree {
			continue
		}
		dst[i] = free[j]
		j++
	}
}

// Indices returns the vector positions of the free entries
func (m Mask) Indices() []int {
	idx := make([]int, 0, m.Count())
	for i, free := range m {
		if free {
			idx = append(idx, i)
		}
	}
	return idx
}
