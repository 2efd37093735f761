package analysis

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
)

// medianMAD returns the median and the median absolute deviation around it.
func medianMAD(vals []float64) (median, mad float64) {
	median, err := stats.Median(vals)
	if err != nil {
		return 0, 0
	}
	mad, err = stats.MedianAbsoluteDeviation(vals)
	if err != nil {
		return median, 0
	}
	return median, mad
}

// quantile interpolates linearly between the closest ranks of a sorted slice.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	rank := q * float64(len(sorted)-1)
	i := int(rank)
	frac := rank - float64(i)
	if frac == 0 || i+1 >= len(sorted) {
		return sorted[i]
	}
	return sorted[i] + frac*(sorted[i+1]-sorted[i])
}

func sortedCopy(vals []float64) []float64 {
	cp := make([]float64, len(vals))
	copy(cp, vals)
	sort.Float64s(cp)
	return cp
}

// robustOutliers counts values whose MAD-based z-score exceeds thr.
func robustOutliers(vals []float64, thr float64) (count int, maxAbsZ float64) {
	median, mad := medianMAD(vals)
	if mad == 0 {
		return 0, 0
	}
	for _, v := range vals {
		az := math.Abs(0.6745 * (v - median) / mad)
		if az > thr {
			count++
		}
		if az > maxAbsZ {
			maxAbsZ = az
		}
	}
	return count, maxAbsZ
}
