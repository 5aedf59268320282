package profiling

import (
	"math"

	"csvlens/domain/core"
	"csvlens/domain/dataset"
	"csvlens/domain/stats"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Correlate computes the Pearson correlation matrix over the numeric columns of t.
// The diagonal is exactly 1 for non-constant columns. Constant columns, and
// every pair when fewer than two rows exist, are NaN.
func Correlate(t *dataset.Table) stats.CorrelationMatrix {
	cols := t.NumericColumns()
	p, n := len(cols), t.NumRows()

	m := stats.CorrelationMatrix{
		Columns: make([]string, p),
		Values:  make([][]core.Float, p),
	}
	for i, c := range cols {
		m.Columns[i] = c.Name
		m.Values[i] = make([]core.Float, p)
		for j := range m.Values[i] {
			m.Values[i][j] = core.Float(math.NaN())
		}
	}
	if p == 0 || n < 2 {
		return m
	}

	x := mat.NewDense(n, p, nil)
	constant := make([]bool, p)
	for j, c := range cols {
		x.SetCol(j, c.Numbers)
		constant[j] = floats.Max(c.Numbers) == floats.Min(c.Numbers)
	}

	corr := mat.NewSymDense(p, nil)
	stat.CorrelationMatrix(corr, x, nil)

	for i := 0; i < p; i++ {
		for j := i; j < p; j++ {
			v := math.NaN()
			switch {
			case constant[i] || constant[j]:
			case i == j:
				v = 1
			default:
				v = clamp(corr.At(i, j))
			}
			m.Values[i][j] = core.Float(v)
			m.Values[j][i] = core.Float(v)
		}
	}
	return m
}

// clamp keeps rounding noise inside [-1, 1]
func clamp(v float64) float64 {
	if math.IsNaN(v) {
		return v
	}
	return math.Max(-1, math.Min(1, v))
}
