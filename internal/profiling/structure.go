package profiling

import (
	"csvlens/domain/dataset"
	"csvlens/domain/stats"
)

// Structure reports row count plus name, dtype and non-null count per column
func Structure(t *dataset.Table) stats.StructureSummary {
	fields := t.Fields()
	summary := stats.StructureSummary{
		Rows:    t.NumRows(),
		Columns: make([]stats.ColumnStructure, len(fields)),
	}
	for i, f := range fields {
		summary.Columns[i] = stats.ColumnStructure{
			Name:         f.Name,
			NonNullCount: f.NonNullCount,
			DType:        f.DataType,
		}
	}
	return summary
}
