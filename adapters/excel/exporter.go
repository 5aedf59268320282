package excel

import (
	"fmt"
	"io"
	"log"
	"time"

	"csvlens/domain/core"
	"csvlens/domain/dataset"
	"csvlens/domain/stats"

	"github.com/xuri/excelize/v2"
)

// Exporter writes profiling results to an XLSX workbook
type Exporter struct {
	config ExportConfig
}

// NewExporter creates an exporter
func NewExporter(config ExportConfig) *Exporter {
	return &Exporter{config: config}
}

// Write renders wb as an XLSX document to w
func (e *Exporter) Write(w io.Writer, wb Workbook) error {
	if wb.Imputation == nil || wb.Imputation.Table == nil {
		return core.NewInvalidArgumentError("workbook", "no imputed table to export")
	}
	startTime := time.Now()

	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DCE6F1"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	sw := &sheetWriter{file: f, header: header, freeze: e.config.FreezeTitle}

	if e.config.IncludeRaw && wb.Raw != nil {
		sw.table(SheetRaw, wb.Raw)
	}
	sw.table(SheetImputed, wb.Imputation.Table)
	sw.numeric(wb.Summary.Numeric)
	sw.categorical(wb.Summary.Categorical)
	sw.correlation(wb.Summary.Correlation)
	sw.distribution(wb.Summary.Shapes)
	sw.structure(wb.Summary.Structure)
	if sw.err != nil {
		return sw.err
	}

	// excelize starts every file with Sheet1
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to drop default sheet: %w", err)
	}
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	log.Printf("[WorkbookExporter] %s exported in %.2fms (%d sheets)", wb.Filename, float64(time.Since(startTime).Nanoseconds())/1e6, len(f.GetSheetList()))
	return nil
}

// sheetWriter keeps the first error so each sheet can be written without
// checking every cell
type sheetWriter struct {
	file   *excelize.File
	header int
	freeze bool
	err    error
}

func (s *sheetWriter) sheet(name string, title []string, rows [][]interface{}) {
	if s.err != nil {
		return
	}
	if _, err := s.file.NewSheet(name); err != nil {
		s.err = fmt.Errorf("failed to create sheet %s: %w", name, err)
		return
	}
	s.row(name, 1, toCells(title))
	for i, r := range rows {
		s.row(name, i+2, r)
	}
	if s.err != nil {
		return
	}
	if len(title) > 0 {
		last, _ := excelize.ColumnNumberToName(len(title))
		if err := s.file.SetCellStyle(name, "A1", last+"1", s.header); err != nil {
			s.err = err
			return
		}
	}
	if s.freeze {
		s.err = s.file.SetPanes(name, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		})
	}
}

func (s *sheetWriter) row(name string, n int, cells []interface{}) {
	if s.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		s.err = err
		return
	}
	if err := s.file.SetSheetRow(name, cell, &cells); err != nil {
		s.err = fmt.Errorf("failed to write %s row %d: %w", name, n, err)
	}
}

func (s *sheetWriter) table(name string, t *dataset.Table) {
	cols := t.Columns()
	rows := make([][]interface{}, t.NumRows())
	for r := range rows {
		row := make([]interface{}, len(cols))
		for c, col := range cols {
			switch {
			case col.IsMissing(r):
				row[c] = nil
			case col.IsNumeric():
				row[c] = number(core.Float(col.Numbers[r]))
			default:
				row[c] = col.Raw[r]
			}
		}
		rows[r] = row
	}
	s.sheet(name, t.Names(), rows)
}

func (s *sheetWriter) numeric(summaries []stats.NumericSummary) {
	title := append([]string{"column"}, stats.NumericSummaryLabels...)
	rows := make([][]interface{}, len(summaries))
	for i, sum := range summaries {
		row := []interface{}{sum.Column}
		for _, v := range sum.Values() {
			row = append(row, number(v))
		}
		rows[i] = row
	}
	s.sheet(SheetNumeric, title, rows)
}

func (s *sheetWriter) categorical(summaries []stats.CategoricalSummary) {
	rows := make([][]interface{}, len(summaries))
	for i, sum := range summaries {
		var top interface{}
		if sum.HasTop() {
			top = sum.Top
		}
		rows[i] = []interface{}{sum.Column, sum.Count, sum.Unique, top, sum.Freq}
	}
	s.sheet(SheetCategorical, []string{"column", "count", "unique", "top", "freq"}, rows)
}

func (s *sheetWriter) correlation(m stats.CorrelationMatrix) {
	title := append([]string{""}, m.Columns...)
	rows := make([][]interface{}, m.Size())
	for i, name := range m.Columns {
		row := []interface{}{name}
		for _, v := range m.Values[i] {
			row = append(row, number(v))
		}
		rows[i] = row
	}
	s.sheet(SheetCorrelation, title, rows)
}

func (s *sheetWriter) distribution(shapes []stats.DistributionShape) {
	rows := make([][]interface{}, len(shapes))
	for i, sh := range shapes {
		rows[i] = []interface{}{sh.Column, sh.Count, number(sh.Skewness), number(sh.Kurtosis), sh.Outliers, number(sh.NormalityP), sh.LooksNormal}
	}
	s.sheet(SheetDistribution, []string{"column", "count", "skewness", "kurtosis", "outliers", "normality p", "looks normal"}, rows)
}

func (s *sheetWriter) structure(summary stats.StructureSummary) {
	rows := make([][]interface{}, len(summary.Columns))
	for i, c := range summary.Columns {
		rows[i] = []interface{}{i, c.Name, c.NonNullCount, c.DType}
	}
	s.sheet(SheetStructure, []string{"#", "column", "non-null count", "dtype"}, rows)
}

// number leaves non-finite values as empty cells
func number(v core.Float) interface{} {
	if !v.IsFinite() {
		return nil
	}
	return v.Value()
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}
