package excel

import (
	"csvlens/domain/dataset"
	"csvlens/internal/imputation"
	"csvlens/internal/profiling"
)

// Workbook is everything one export writes: the tables and their summaries
type Workbook struct {
	Filename   string
	Raw        *dataset.Table
	Imputation *imputation.Result
	Summary    profiling.Summary
}
