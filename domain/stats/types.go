package stats

import (
	"fmt"
	"strings"

	"csvlens/domain/core"
)

// ============================================================================
// DESCRIPTIVE SUMMARIES
// ============================================================================

// NumericSummary is the count/mean/std/five-number summary of one numeric column
type NumericSummary struct {
	Column string     `json:"column"`
	Count  int        `json:"count"`
	Mean   core.Float `json:"mean"`
	StdDev core.Float `json:"std"` // Sample standard deviation (n-1)
	Min    core.Float `json:"min"`
	Q25    core.Float `json:"q25"`
	Median core.Float `json:"q50"`
	Q75    core.Float `json:"q75"`
	Max    core.Float `json:"max"`
}

// Values returns the statistics in describe() row order
func (s NumericSummary) Values() []core.Float {
	return []core.Float{core.Float(s.Count), s.Mean, s.StdDev, s.Min, s.Q25, s.Median, s.Q75, s.Max}
}

// NumericSummaryLabels are the row labels matching NumericSummary.Values
var NumericSummaryLabels = []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}

// CategoricalSummary is the count/unique/top/freq summary of one text column
type CategoricalSummary struct {
	Column string `json:"column"`
	Count  int    `json:"count"`
	Unique int    `json:"unique"`
	Top    string `json:"top,omitempty"`
	Freq   int    `json:"freq"`
}

// HasTop reports whether the column had any present value
func (s CategoricalSummary) HasTop() bool {
	return s.Count > 0
}

// ============================================================================
// CORRELATION
// ============================================================================

// CorrelationMatrix is a square, symmetric Pearson correlation matrix.
// Values[i][j] is the coefficient between Columns[i] and Columns[j].
type CorrelationMatrix struct {
	Columns []string       `json:"columns"`
	Values  [][]core.Float `json:"values"`
}

// Size returns the number of columns
func (m CorrelationMatrix) Size() int {
	return len(m.Columns)
}

// At returns the coefficient between two columns by name
func (m CorrelationMatrix) At(a, b string) (core.Float, error) {
	i, j := m.indexOf(a), m.indexOf(b)
	if i < 0 || j < 0 {
		return 0, fmt.Errorf("column pair (%s, %s) not in correlation matrix", a, b)
	}
	return m.Values[i][j], nil
}

func (m CorrelationMatrix) indexOf(name string) int {
	for i, c := range m.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// ============================================================================
// STRUCTURE
// ============================================================================

// ColumnStructure is one line of the structural summary
type ColumnStructure struct {
	Name         string `json:"name"`
	NonNullCount int    `json:"non_null_count"`
	DType        string `json:"dtype"`
}

// StructureSummary describes the shape of a table: rows, column types and non-null counts
type StructureSummary struct {
	Rows    int               `json:"rows"`
	Columns []ColumnStructure `json:"columns"`
}

// DTypeCounts returns "float64(3), object(1)" style counts in first-seen order
func (s StructureSummary) DTypeCounts() string {
	var order []string
	counts := make(map[string]int)
	for _, c := range s.Columns {
		if _, seen := counts[c.DType]; !seen {
			order = append(order, c.DType)
		}
		counts[c.DType]++
	}
	parts := make([]string, len(order))
	for i, d := range order {
		parts[i] = fmt.Sprintf("%s(%d)", d, counts[d])
	}
	return strings.Join(parts, ", ")
}

// Text renders the summary in the familiar DataFrame.info() layout
func (s StructureSummary) Text() string {
	var b strings.Builder
	b.WriteString("<class 'DataFrame'>\n")
	if s.Rows == 0 {
		b.WriteString("RangeIndex: 0 entries\n")
	} else {
		fmt.Fprintf(&b, "RangeIndex: %d entries, 0 to %d\n", s.Rows, s.Rows-1)
	}
	fmt.Fprintf(&b, "Data columns (total %d columns):\n", len(s.Columns))

	nameWidth := len("Column")
	for _, c := range s.Columns {
		if len(c.Name) > nameWidth {
			nameWidth = len(c.Name)
		}
	}
	fmt.Fprintf(&b, " #   %-*s  Non-Null Count  Dtype\n", nameWidth, "Column")
	fmt.Fprintf(&b, "---  %s  --------------  -----\n", strings.Repeat("-", nameWidth))
	for i, c := range s.Columns {
		fmt.Fprintf(&b, " %-3d %-*s  %-14s  %s\n", i, nameWidth, c.Name, fmt.Sprintf("%d non-null", c.NonNullCount), c.DType)
	}
	if len(s.Columns) > 0 {
		fmt.Fprintf(&b, "dtypes: %s\n", s.DTypeCounts())
	}
	return b.String()
}

// ============================================================================
// DISTRIBUTION SHAPE
// ============================================================================

// DistributionShape captures the asymmetry, tail weight and outliers of one numeric column
type DistributionShape struct {
	Column      string     `json:"column"`
	Count       int        `json:"count"`
	Skewness    core.Float `json:"skewness"` // Adjusted Fisher-Pearson
	Kurtosis    core.Float `json:"kurtosis"` // Excess kurtosis, 0 for a normal distribution
	Outliers    int        `json:"outliers"` // Outside 1.5 IQR of the quartiles
	JarqueBera  core.Float `json:"jarque_bera"`
	NormalityP  core.Float `json:"normality_p"`
	LooksNormal bool       `json:"looks_normal"`
}
