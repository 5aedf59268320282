package visualization

import (
	"csvlens/domain/dataset"
)

// LongRow is one (variable, value) pair of a long-format reshape
type LongRow struct {
	Variable string
	Value    float64
}

// Melt stacks the selected columns into long format, column by column, rows
// in table order. Missing cells are skipped.
func Melt(t *dataset.Table, columns []string) []LongRow {
	out := make([]LongRow, 0, len(columns)*t.NumRows())
	for _, name := range columns {
		c, ok := t.Column(name)
		if !ok || !c.IsNumeric() {
			continue
		}
		for i := 0; i < c.Len(); i++ {
			if v, ok := c.Float(i); ok {
				out = append(out, LongRow{Variable: name, Value: v})
			}
		}
	}
	return out
}

// groupByVariable splits long rows back into per-variable series, in the
// order variables first appear
func groupByVariable(rows []LongRow) ([]string, map[string][]float64) {
	var order []string
	groups := make(map[string][]float64)
	for _, r := range rows {
		if _, seen := groups[r.Variable]; !seen {
			order = append(order, r.Variable)
		}
		groups[r.Variable] = append(groups[r.Variable], r.Value)
	}
	return order, groups
}
