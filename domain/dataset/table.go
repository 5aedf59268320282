package dataset

import (
	"fmt"
	"math"
	"strconv"
)

// Column is a named sequence of cells with an explicit missing marker per cell.
// Numbers is populated only for numeric columns and holds NaN where a cell is missing.
type Column struct {
	Name    string
	Kind    Kind
	Raw     []string
	Numbers []float64
	Missing []bool
}

// NewNumericColumn builds a numeric column; NaN entries are treated as missing
func NewNumericColumn(name string, values []float64) *Column {
	col := &Column{
		Name:    name,
		Kind:    KindNumeric,
		Raw:     make([]string, len(values)),
		Numbers: make([]float64, len(values)),
		Missing: make([]bool, len(values)),
	}
	for i, v := range values {
		col.Numbers[i] = v
		if math.IsNaN(v) {
			col.Missing[i] = true
			continue
		}
		col.Raw[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return col
}

// NewCategoricalColumn builds a text column; missing[i] marks absent cells
func NewCategoricalColumn(name string, values []string, missing []bool) *Column {
	col := &Column{
		Name:    name,
		Kind:    KindCategorical,
		Raw:     append([]string(nil), values...),
		Missing: make([]bool, len(values)),
	}
	copy(col.Missing, missing)
	return col
}

// Len returns the number of cells
func (c *Column) Len() int {
	return len(c.Missing)
}

// IsNumeric reports whether the column holds numbers
func (c *Column) IsNumeric() bool {
	return c.Kind == KindNumeric
}

// IsMissing reports whether cell i is missing
func (c *Column) IsMissing(i int) bool {
	return c.Missing[i]
}

// Float returns the numeric value of cell i
func (c *Column) Float(i int) (float64, bool) {
	if !c.IsNumeric() || c.Missing[i] {
		return math.NaN(), false
	}
	return c.Numbers[i], true
}

// String returns the text of cell i
func (c *Column) String(i int) (string, bool) {
	if c.Missing[i] {
		return "", false
	}
	return c.Raw[i], true
}

// NonMissingCount counts present cells
func (c *Column) NonMissingCount() int {
	n := 0
	for _, m := range c.Missing {
		if !m {
			n++
		}
	}
	return n
}

// MissingCount counts missing cells
func (c *Column) MissingCount() int {
	return c.Len() - c.NonMissingCount()
}

// Present returns the non-missing numbers in row order
func (c *Column) Present() []float64 {
	out := make([]float64, 0, c.Len())
	for i, m := range c.Missing {
		if !m && c.IsNumeric() {
			out = append(out, c.Numbers[i])
		}
	}
	return out
}

// PresentStrings returns the non-missing cell texts in row order
func (c *Column) PresentStrings() []string {
	out := make([]string, 0, c.Len())
	for i, m := range c.Missing {
		if !m {
			out = append(out, c.Raw[i])
		}
	}
	return out
}

// Cell renders cell i for previews
func (c *Column) Cell(i int) string {
	if c.Missing[i] {
		return "NaN"
	}
	if c.IsNumeric() {
		return strconv.FormatFloat(c.Numbers[i], 'g', 6, 64)
	}
	return c.Raw[i]
}

// Table is an ordered collection of uniquely named, equal-length columns
type Table struct {
	columns []*Column
	index   map[string]int
	rows    int
}

// NewTable validates and assembles columns into a table
func NewTable(columns []*Column) (*Table, error) {
	t := &Table{
		columns: make([]*Column, 0, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for i, col := range columns {
		if col == nil {
			return nil, fmt.Errorf("column %d is nil", i)
		}
		if _, dup := t.index[col.Name]; dup {
			return nil, fmt.Errorf("duplicate column name %q", col.Name)
		}
		if i == 0 {
			t.rows = col.Len()
		} else if col.Len() != t.rows {
			return nil, fmt.Errorf("column %q has %d rows, expected %d", col.Name, col.Len(), t.rows)
		}
		if col.IsNumeric() && len(col.Numbers) != col.Len() {
			return nil, fmt.Errorf("numeric column %q has %d values for %d cells", col.Name, len(col.Numbers), col.Len())
		}
		t.index[col.Name] = len(t.columns)
		t.columns = append(t.columns, col)
	}
	return t, nil
}

// NumRows returns the row count
func (t *Table) NumRows() int { return t.rows }

// NumCols returns the column count
func (t *Table) NumCols() int { return len(t.columns) }

// Columns returns the columns in table order
func (t *Table) Columns() []*Column {
	return append([]*Column(nil), t.columns...)
}

// Names returns the column names in table order
func (t *Table) Names() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// Column looks up a column by name
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.columns[i], true
}

// Has reports whether a column exists
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// NumericColumns is the numeric subview, in table order
func (t *Table) NumericColumns() []*Column {
	return t.columnsOfKind(KindNumeric)
}

// CategoricalColumns returns the non-numeric columns, in table order
func (t *Table) CategoricalColumns() []*Column {
	return t.columnsOfKind(KindCategorical)
}

func (t *Table) columnsOfKind(kind Kind) []*Column {
	var out []*Column
	for _, c := range t.columns {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// MissingCount counts missing cells across the table
func (t *Table) MissingCount() int {
	n := 0
	for _, c := range t.columns {
		n += c.MissingCount()
	}
	return n
}

// Fields describes every column
func (t *Table) Fields() []FieldInfo {
	fields := make([]FieldInfo, len(t.columns))
	for i, c := range t.columns {
		fields[i] = FieldInfo{
			Name:         c.Name,
			DataType:     c.Kind.DType(),
			Kind:         c.Kind,
			NonNullCount: c.NonMissingCount(),
			MissingCount: c.MissingCount(),
		}
	}
	return fields
}

// Head returns up to n rows rendered as strings
func (t *Table) Head(n int) [][]string {
	if n > t.rows || n < 0 {
		n = t.rows
	}
	rows := make([][]string, n)
	for r := 0; r < n; r++ {
		row := make([]string, len(t.columns))
		for c, col := range t.columns {
			row[c] = col.Cell(r)
		}
		rows[r] = row
	}
	return rows
}
