package search

import "math"

// boxInset keeps a starting point off the edges of the box so the mapped gradient does not
// start out vanishingly small
const boxInset = 1e-4

// boxMap carries an unconstrained vector onto the bounds and back. Closed intervals use a
// logistic curve, half open intervals an exponential offset from the finite side and
// unbounded dimensions pass through unchanged.
type boxMap Bounds

func (b boxMap) toBox(dst, z []float64) []float64 {
	if dst == nil {
		dst = make([]float64, len(z))
	}
	for i, v := range z {
		lo, hi := b[i].Lower, b[i].Upper
		loFinite, hiFinite := !math.IsInf(lo, 0), !math.IsInf(hi, 0)
		switch {
		case loFinite && hiFinite:
			dst[i] = lo + (hi-lo)/(1+math.Exp(-v))
		case loFinite:
			dst[i] = lo + math.Exp(v)
		case hiFinite:
			dst[i] = hi - math.Exp(v)
		default:
			dst[i] = v
		}
	}
	return dst
}

// fromBox is the inverse of toBox. x is projected into the box and pulled slightly inside
// any finite edge first.
func (b boxMap) fromBox(dst, x []float64) []float64 {
	if dst == nil {
		dst = make([]float64, len(x))
	}
	for i, v := range x {
		lo, hi := b[i].Lower, b[i].Upper
		loFinite, hiFinite := !math.IsInf(lo, 0), !math.IsInf(hi, 0)
		switch {
		case loFinite && hiFinite:
			if hi == lo {
				dst[i] = 0
				continue
			}
			p := (v - lo) / (hi - lo)
			p = math.Min(math.Max(p, boxInset), 1-boxInset)
			dst[i] = math.Log(p / (1 - p))
		case loFinite:
			dst[i] = math.Log(math.Max(v-lo, boxInset))
		case hiFinite:
			dst[i] = math.Log(math.Max(hi-v, boxInset))
		default:
			dst[i] = v
		}
	}
	return dst
}
