package excel

import (
	"bytes"
	"context"
	"math"
	"testing"

	"csvlens/adapters/csvreader"
	"csvlens/domain/core"
	"csvlens/domain/dataset"
	"csvlens/internal/imputation"
	"csvlens/internal/profiling"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T) Workbook {
	t.Helper()
	raw, err := dataset.NewTable([]*dataset.Column{
		dataset.NewNumericColumn("a", []float64{1, 2, 3, 4, 5, 6}),
		dataset.NewNumericColumn("b", []float64{math.NaN(), 4, 6, 8, 10, 12}),
		dataset.NewCategoricalColumn("city", []string{"Lima", "Quito", "Lima", "", "Cusco", "Lima"}, []bool{false, false, false, true, false, false}),
	})
	require.NoError(t, err)
	res, err := imputation.NewKNNImputer(imputation.DefaultNeighbors).Impute(context.Background(), raw)
	require.NoError(t, err)
	return Workbook{
		Filename:   "sample.csv",
		Raw:        raw,
		Imputation: res,
		Summary:    profiling.NewDataProfiler().Summarize(raw, res.Table),
	}
}

func TestExporterWritesEverySheet(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewExporter(DefaultExportConfig()).Write(&buf, workbook(t)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, SheetOrder, f.GetSheetList())

	raw, err := f.GetRows(SheetRaw)
	require.NoError(t, err)
	require.Len(t, raw, 7)
	assert.Equal(t, []string{"a", "b", "city"}, raw[0])
	assert.Equal(t, "", raw[1][1])

	imputed, err := f.GetRows(SheetImputed)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, imputed[0])
	assert.Equal(t, "8", imputed[1][1])

	numeric, err := f.GetRows(SheetNumeric)
	require.NoError(t, err)
	assert.Equal(t, "column", numeric[0][0])
	assert.Equal(t, "count", numeric[0][1])
	assert.Len(t, numeric, 3)

	cat, err := f.GetRows(SheetCategorical)
	require.NoError(t, err)
	assert.Equal(t, []string{"city", "5", "3", "Lima", "3"}, cat[1])

	corr, err := f.GetRows(SheetCorrelation)
	require.NoError(t, err)
	assert.Equal(t, []string{"", "a", "b"}, corr[0])
	assert.Equal(t, "1", corr[1][1])
}

func TestExporterWithoutRaw(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewExporter(ExportConfig{}).Write(&buf, workbook(t)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	assert.NotContains(t, f.GetSheetList(), SheetRaw)
	assert.Equal(t, SheetImputed, f.GetSheetList()[0])
}

func TestExporterRequiresImputedTable(t *testing.T) {
	err := NewExporter(DefaultExportConfig()).Write(&bytes.Buffer{}, Workbook{})
	require.Error(t, err)
	assert.True(t, core.IsInvalidArgumentError(err))
}

func TestWorkbookReaderRoundTrip(t *testing.T) {
	f := excelize.NewFile()
	rows := [][]interface{}{
		{"a", "b", "label"},
		{1, nil, "x"},
		{2, 4, "y"},
		{3, 6},
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		row := r
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	records, err := NewWorkbookReader().ReadRecords(context.Background(), &buf)
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"3", "6", ""}, records[3])

	tbl, err := csvreader.NewLoader().FromRecords(records)
	require.NoError(t, err)
	assert.Equal(t, 3, tbl.NumRows())
	b, _ := tbl.Column("b")
	assert.True(t, b.IsNumeric())
	assert.True(t, b.IsMissing(0))
}

func TestWorkbookReaderRejectsGarbage(t *testing.T) {
	_, err := NewWorkbookReader().ReadRecords(context.Background(), bytes.NewBufferString("a,b\n1,2\n"))
	require.Error(t, err)
	assert.True(t, core.IsParseError(err))
}
