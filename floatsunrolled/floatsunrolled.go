// Package floatsunrolled holds loop unrolled kernels for the hot paths of the smoothing
// objective. Inspired by https://github.com/camdencheek/simd_blog/blob/main/main.go
package floatsunrolled

import (
	"errors"
)

const UnrollBatch = 4

var ErrSliceLengthMismatch = errors.New("slices must have equal lengths")

// SquaredDistance returns the sum of (a[i]-b[i])^2. Slices of any length are accepted, the
// tail that does not fill a batch is summed one element at a time.
func SquaredDistance(a, b []float64) float64 {
	if len(a) != len(b) {
		panic(ErrSliceLengthMismatch)
	}

	body := len(a) - len(a)%UnrollBatch
	var sum float64
	for i := 0; i < body; i += UnrollBatch {
		aTmp := a[i : i+UnrollBatch : i+UnrollBatch]
		bTmp := b[i : i+UnrollBatch : i+UnrollBatch]
		d0 := aTmp[0] - bTmp[0]
		d1 := aTmp[1] - bTmp[1]
		d2 := aTmp[2] - bTmp[2]
		d3 := aTmp[3] - bTmp[3]
		sum += d0*d0 + d1*d1 + d2*d2 + d3*d3
	}
	for i := body; i < len(a); i++ {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
