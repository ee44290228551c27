package stats

import (
	"math"
	"sort"
)

// DetectOutliers returns the indices of y outside the percentile range widened by
// tukeyFactor times its width. Percentiles are clamped to [0, 1].
func DetectOutliers(y []float64, lowerPerc, upperPerc, tukeyFactor float64) []int {
	if len(y) == 0 {
		return nil
	}
	lowerPerc = math.Max(lowerPerc, 0.0)
	upperPerc = math.Min(upperPerc, 1.0)
	tukeyFactor = math.Max(tukeyFactor, 0.0)

	yCopy := make([]float64, len(y))
	copy(yCopy, y)
	sort.Float64s(yCopy)
	last := len(yCopy) - 1
	lowerIdx := min(int(math.Floor(float64(last)*lowerPerc)), last)
	upperIdx := min(int(math.Ceil(float64(last)*upperPerc)), last)

	lower := yCopy[lowerIdx]
	upper := yCopy[upperIdx]
	innerRange := upper - lower
	lower -= innerRange * tukeyFactor
	upper += innerRange * tukeyFactor

	var outlierIdx []int
	for i := 0; i < len(y); i++ {
		if y[i] > upper || y[i] < lower {
			outlierIdx = append(outlierIdx, i)
		}
	}
	return outlierIdx
}
