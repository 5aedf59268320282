package profiling

import (
	"math"
	"testing"

	"csvlens/domain/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func table(t *testing.T, cols ...*dataset.Column) *dataset.Table {
	t.Helper()
	tbl, err := dataset.NewTable(cols)
	require.NoError(t, err)
	return tbl
}

func TestQuantileLinear(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}
	assert.Equal(t, 1.75, quantile(sorted, 0.25))
	assert.Equal(t, 2.5, quantile(sorted, 0.5))
	assert.Equal(t, 3.25, quantile(sorted, 0.75))
	assert.Equal(t, 1.0, quantile(sorted, 0))
	assert.Equal(t, 4.0, quantile(sorted, 1))
	assert.Equal(t, 7.0, quantile([]float64{7}, 0.25))
	assert.True(t, math.IsNaN(quantile(nil, 0.5)))
}

func TestDescribeNumeric(t *testing.T) {
	tbl := table(t,
		dataset.NewNumericColumn("a", []float64{1, 2, 3, 4, 5, 6}),
		dataset.NewNumericColumn("b", []float64{math.NaN(), 4, 6, 8, 10, 12}),
		dataset.NewCategoricalColumn("c", []string{"x", "y", "x", "z", "x", "y"}, make([]bool, 6)),
	)

	summaries := DescribeNumeric(tbl)
	require.Len(t, summaries, 2)

	a := summaries[0]
	assert.Equal(t, "a", a.Column)
	assert.Equal(t, 6, a.Count)
	assert.InDelta(t, 3.5, a.Mean.Value(), 1e-12)
	assert.InDelta(t, math.Sqrt(3.5), a.StdDev.Value(), 1e-12)
	assert.Equal(t, 1.0, a.Min.Value())
	assert.Equal(t, 2.25, a.Q25.Value())
	assert.Equal(t, 3.5, a.Median.Value())
	assert.Equal(t, 4.75, a.Q75.Value())
	assert.Equal(t, 6.0, a.Max.Value())

	b := summaries[1]
	assert.Equal(t, 5, b.Count)
	assert.InDelta(t, 8.0, b.Mean.Value(), 1e-12)
	assert.Equal(t, 8.0, b.Median.Value())
}

func TestDescribeNumericEdgeCases(t *testing.T) {
	assert.Empty(t, DescribeNumeric(table(t, dataset.NewCategoricalColumn("c", []string{"x"}, []bool{false}))))

	tbl := table(t,
		dataset.NewNumericColumn("one", []float64{5, math.NaN()}),
		dataset.NewNumericColumn("none", []float64{math.NaN(), math.NaN()}),
	)
	s := DescribeNumeric(tbl)
	require.Len(t, s, 2)
	assert.Equal(t, 1, s[0].Count)
	assert.Equal(t, 5.0, s[0].Mean.Value())
	assert.True(t, math.IsNaN(s[0].StdDev.Value()))
	assert.Equal(t, 5.0, s[0].Q75.Value())

	assert.Equal(t, 0, s[1].Count)
	assert.True(t, math.IsNaN(s[1].Mean.Value()))
	assert.True(t, math.IsNaN(s[1].Max.Value()))
}

func TestDescribeCategorical(t *testing.T) {
	tbl := table(t,
		dataset.NewNumericColumn("n", []float64{1, 2, 3, 4, 5}),
		dataset.NewCategoricalColumn("city", []string{"Lima", "Quito", "", "Quito", "Lima"}, []bool{false, false, true, false, false}),
		dataset.NewCategoricalColumn("empty", []string{"", "", "", "", ""}, []bool{true, true, true, true, true}),
	)
	s := DescribeCategorical(tbl)
	require.Len(t, s, 2)

	assert.Equal(t, "city", s[0].Column)
	assert.Equal(t, 4, s[0].Count)
	assert.Equal(t, 2, s[0].Unique)
	assert.Equal(t, "Lima", s[0].Top, "ties go to the first value seen")
	assert.Equal(t, 2, s[0].Freq)

	assert.Equal(t, 0, s[1].Count)
	assert.False(t, s[1].HasTop())
}

func TestCorrelate(t *testing.T) {
	tbl := table(t,
		dataset.NewNumericColumn("a", []float64{1, 2, 3, 4, 5, 6}),
		dataset.NewNumericColumn("b", []float64{8, 4, 6, 8, 10, 12}),
		dataset.NewNumericColumn("neg", []float64{6, 5, 4, 3, 2, 1}),
		dataset.NewNumericColumn("flat", []float64{3, 3, 3, 3, 3, 3}),
	)
	m := Correlate(tbl)
	require.Equal(t, 4, m.Size())
	assert.Equal(t, []string{"a", "b", "neg", "flat"}, m.Columns)

	for i := 0; i < 3; i++ {
		assert.Equal(t, 1.0, m.Values[i][i].Value())
	}
	for i := 0; i < m.Size(); i++ {
		for j := 0; j < m.Size(); j++ {
			vi, vj := m.Values[i][j].Value(), m.Values[j][i].Value()
			if math.IsNaN(vi) {
				assert.True(t, math.IsNaN(vj))
				continue
			}
			assert.Equal(t, vi, vj)
			assert.LessOrEqual(t, math.Abs(vi), 1.0)
		}
	}

	an, err := m.At("a", "neg")
	require.NoError(t, err)
	assert.InDelta(t, -1.0, an.Value(), 1e-12)

	for j := 0; j < 4; j++ {
		assert.True(t, math.IsNaN(m.Values[3][j].Value()), "constant column is NaN")
	}
}

func TestCorrelateTooFewRows(t *testing.T) {
	m := Correlate(table(t, dataset.NewNumericColumn("a", []float64{1})))
	require.Equal(t, 1, m.Size())
	assert.True(t, math.IsNaN(m.Values[0][0].Value()))
}

func TestStructure(t *testing.T) {
	tbl := table(t,
		dataset.NewNumericColumn("a", []float64{1, math.NaN(), 3}),
		dataset.NewCategoricalColumn("c", []string{"x", "y", ""}, []bool{false, false, true}),
	)
	s := Structure(tbl)
	assert.Equal(t, 3, s.Rows)
	require.Len(t, s.Columns, 2)
	assert.Equal(t, "float64", s.Columns[0].DType)
	assert.Equal(t, 2, s.Columns[0].NonNullCount)
	assert.Equal(t, "object", s.Columns[1].DType)
	assert.Contains(t, s.Text(), "RangeIndex: 3 entries, 0 to 2")
	assert.Contains(t, s.Text(), "dtypes: float64(1), object(1)")
}

func TestAnalyzeDistribution(t *testing.T) {
	da := NewDistributionAnalyzer()

	symmetric := da.AnalyzeDistribution("s", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9})
	assert.InDelta(t, 0.0, symmetric.Skewness.Value(), 1e-12)
	assert.InDelta(t, -1.2, symmetric.Kurtosis.Value(), 1e-9)
	assert.Equal(t, 0, symmetric.Outliers)

	skewed := da.AnalyzeDistribution("k", []float64{1, 1, 1, 1, 2, 2, 2, 3, 50})
	assert.Greater(t, skewed.Skewness.Value(), 2.0)
	assert.Equal(t, 1, skewed.Outliers)
	assert.False(t, skewed.LooksNormal)
	assert.Less(t, skewed.NormalityP.Value(), NormalityAlpha)

	flat := da.AnalyzeDistribution("f", []float64{2, 2, 2, 2})
	assert.True(t, math.IsNaN(flat.Skewness.Value()))
	assert.Equal(t, 0, flat.Outliers)
}

func TestSummarize(t *testing.T) {
	raw := table(t,
		dataset.NewNumericColumn("a", []float64{1, 2, 3}),
		dataset.NewCategoricalColumn("c", []string{"x", "y", "x"}, make([]bool, 3)),
	)
	imputed := table(t, dataset.NewNumericColumn("a", []float64{1, 2, 3}))

	s := NewDataProfiler().Summarize(raw, imputed)
	require.Len(t, s.Numeric, 1)
	require.Len(t, s.Categorical, 1)
	assert.Equal(t, "c", s.Categorical[0].Column)
	assert.Equal(t, []string{"a"}, s.Correlation.Columns)
	require.Len(t, s.Structure.Columns, 1)
	assert.Equal(t, "a", s.Structure.Columns[0].Name)
	assert.Len(t, s.Shapes, 1)
}
