package dataset

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTableRejectsDuplicatesAndRaggedColumns(t *testing.T) {
	a := NewNumericColumn("a", []float64{1, 2})
	dup := NewNumericColumn("a", []float64{3, 4})
	_, err := NewTable([]*Column{a, dup})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")

	short := NewNumericColumn("b", []float64{1})
	_, err = NewTable([]*Column{a, short})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 2")
}

func TestTableViews(t *testing.T) {
	a := NewNumericColumn("a", []float64{1, math.NaN(), 3})
	city := NewCategoricalColumn("city", []string{"Lima", "", "Quito"}, []bool{false, true, false})
	b := NewNumericColumn("b", []float64{4, 5, 6})

	tbl, err := NewTable([]*Column{a, city, b})
	require.NoError(t, err)

	assert.Equal(t, 3, tbl.NumRows())
	assert.Equal(t, []string{"a", "city", "b"}, tbl.Names())

	numeric := tbl.NumericColumns()
	require.Len(t, numeric, 2)
	assert.Equal(t, "a", numeric[0].Name)
	assert.Equal(t, "b", numeric[1].Name)

	cats := tbl.CategoricalColumns()
	require.Len(t, cats, 1)
	assert.Equal(t, "city", cats[0].Name)

	assert.Equal(t, 2, tbl.MissingCount())
	assert.Equal(t, []float64{1, 3}, a.Present())
	assert.Equal(t, []string{"Lima", "Quito"}, city.PresentStrings())

	_, ok := a.Float(1)
	assert.False(t, ok)
	v, ok := b.Float(2)
	assert.True(t, ok)
	assert.Equal(t, 6.0, v)
}

func TestTableHeadAndFields(t *testing.T) {
	a := NewNumericColumn("a", []float64{1.5, math.NaN()})
	s := NewCategoricalColumn("s", []string{"x", "y"}, nil)
	tbl, err := NewTable([]*Column{a, s})
	require.NoError(t, err)

	assert.Equal(t, [][]string{{"1.5", "x"}, {"NaN", "y"}}, tbl.Head(10))
	assert.Len(t, tbl.Head(1), 1)

	fields := tbl.Fields()
	require.Len(t, fields, 2)
	assert.Equal(t, "float64", fields[0].DataType)
	assert.Equal(t, 1, fields[0].NonNullCount)
	assert.Equal(t, "object", fields[1].DataType)
	assert.Equal(t, 2, fields[1].NonNullCount)
}
