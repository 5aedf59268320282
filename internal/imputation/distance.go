package imputation

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// nanEuclidean returns the NaN-aware Euclidean distance between rows a and b of x.
// Coordinates missing in either row are skipped and the sum is rescaled by
// nFeatures/nPresent. Rows with no common coordinate are not comparable and
// yield NaN.
func nanEuclidean(x mat.Matrix, a, b int) float64 {
	_, cols := x.Dims()
	var sum float64
	present := 0
	for j := 0; j < cols; j++ {
		va, vb := x.At(a, j), x.At(b, j)
		if math.IsNaN(va) || math.IsNaN(vb) {
			continue
		}
		d := va - vb
		sum += d * d
		present++
	}
	if present == 0 {
		return math.NaN()
	}
	return math.Sqrt(float64(cols) / float64(present) * sum)
}

// rowDistances fills dst with the distance from row to every row of x
func rowDistances(x mat.Matrix, row int, dst *mat.VecDense) {
	rows, _ := x.Dims()
	for i := 0; i < rows; i++ {
		if i == row {
			dst.SetVec(i, 0)
			continue
		}
		dst.SetVec(i, nanEuclidean(x, row, i))
	}
}
