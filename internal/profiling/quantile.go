package profiling

import (
	"math"
	"sort"
)

// quantile returns the q-th quantile of sorted data using linear
// interpolation between the closest ranks, the convention describe() reports
func quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return sorted[0]
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[n-1]
	}
	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

func sortedCopy(data []float64) []float64 {
	s := append([]float64(nil), data...)
	sort.Float64s(s)
	return s
}
