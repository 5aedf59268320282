// Package excel reads spreadsheet uploads and exports profiling results as XLSX workbooks.
package excel

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"csvlens/domain/core"

	"github.com/xuri/excelize/v2"
)

// WorkbookReader turns the first sheet of an XLSX upload into records
type WorkbookReader struct{}

// NewWorkbookReader creates a workbook reader
func NewWorkbookReader() *WorkbookReader {
	return &WorkbookReader{}
}

// ReadRecords returns the rows of the first sheet, header first. Rows are
// padded to the header width because trailing empty cells are not stored.
func (r *WorkbookReader) ReadRecords(ctx context.Context, src io.Reader) ([][]string, error) {
	startTime := time.Now()
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, core.NewParseError(0, fmt.Sprintf("failed to open workbook: %v", err))
	}
	defer f.Close()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, core.NewParseError(0, "workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, core.NewParseError(0, fmt.Sprintf("failed to read %s: %v", sheets[0], err))
	}
	log.Printf("[WorkbookReader] %s read in %.2fms (%d rows)", sheets[0], float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))

	if len(rows) == 0 {
		return nil, core.NewParseError(0, "sheet "+sheets[0]+" is empty; a header row is required")
	}

	width := len(rows[0])
	records := make([][]string, 0, len(rows))
	for i, row := range rows {
		if len(row) > width {
			return nil, core.NewParseError(i+1, fmt.Sprintf("expected %d fields, found %d", width, len(row)))
		}
		if len(row) == 0 && i > 0 {
			continue
		}
		record := make([]string, width)
		copy(record, row)
		records = append(records, record)
	}
	return records, nil
}
