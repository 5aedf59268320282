// Package report renders a profiling run as tables, Markdown and HTML.
package report

import (
	"fmt"
	"strings"

	"csvlens/domain/core"
	"csvlens/domain/dataset"
	"csvlens/domain/stats"
	"csvlens/internal/imputation"
	"csvlens/internal/profiling"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Input is everything a report shows
type Input struct {
	RunID       string
	Filename    string
	GeneratedAt core.Timestamp
	Raw         *dataset.Table
	Imputation  *imputation.Result
	Summary     profiling.Summary
	PreviewRows int
	Neighbors   int
}

// Section is one titled block of a report. Exactly one of Table or Text is set.
type Section struct {
	Title string
	Table table.Writer
	Text  string
}

// Sections builds the report blocks in display order
func Sections(in Input) []Section {
	var out []Section
	if in.Raw != nil {
		out = append(out, Section{Title: "Raw preview", Table: preview(in.Raw, in.PreviewRows)})
	}
	if in.Imputation != nil && in.Imputation.Table != nil {
		out = append(out, Section{Title: "Imputed preview", Table: preview(in.Imputation.Table, in.PreviewRows)})
		out = append(out, Section{Title: "Imputation", Table: imputationTable(in.Imputation)})
	}
	out = append(out,
		Section{Title: "Dataset info", Text: in.Summary.Structure.Text()},
		Section{Title: "Numeric summary", Table: NumericTable(in.Summary.Numeric)},
		Section{Title: "Categorical summary", Table: CategoricalTable(in.Summary.Categorical)},
		Section{Title: "Correlation matrix", Table: CorrelationTable(in.Summary.Correlation)},
		Section{Title: "Distribution shape", Table: ShapeTable(in.Summary.Shapes)},
	)
	return out
}

// Markdown renders the whole report as a Markdown document
func Markdown(in Input) string {
	var b strings.Builder
	title := in.Filename
	if title == "" {
		title = "upload"
	}
	fmt.Fprintf(&b, "# Profile of %s\n\n", title)
	if in.RunID != "" {
		fmt.Fprintf(&b, "Run `%s`", in.RunID)
		if !in.GeneratedAt.IsZero() {
			fmt.Fprintf(&b, " generated %s", in.GeneratedAt.String())
		}
		b.WriteString("\n\n")
	}
	if in.Raw != nil {
		fmt.Fprintf(&b, "%d rows, %d columns (%d numeric, %d categorical), %d missing cells.\n\n",
			in.Raw.NumRows(), in.Raw.NumCols(), len(in.Raw.NumericColumns()), len(in.Raw.CategoricalColumns()), in.Raw.MissingCount())
	}

	for _, s := range Sections(in) {
		fmt.Fprintf(&b, "## %s\n\n", s.Title)
		switch {
		case s.Table != nil && s.Table.Length() == 0:
			b.WriteString("_None._\n\n")
		case s.Table != nil:
			b.WriteString(s.Table.RenderMarkdown())
			b.WriteString("\n\n")
		default:
			b.WriteString("```\n")
			b.WriteString(s.Text)
			b.WriteString("```\n\n")
		}
	}
	return b.String()
}

func preview(t *dataset.Table, n int) table.Writer {
	tw := table.NewWriter()
	tw.AppendHeader(header("", t.Names()...))
	for i, row := range t.Head(n) {
		r := table.Row{i}
		for _, cell := range row {
			r = append(r, cell)
		}
		tw.AppendRow(r)
	}
	return tw
}

func imputationTable(res *imputation.Result) table.Writer {
	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"column", "filled cells"})
	for _, c := range res.Columns {
		tw.AppendRow(table.Row{c.Column, c.Filled})
	}
	tw.AppendFooter(table.Row{"total", res.FilledCells})
	if len(res.EmptyColumns) > 0 {
		tw.SetCaption("no values to learn from, filled with 0: %s", strings.Join(res.EmptyColumns, ", "))
	}
	return tw
}

// NumericTable lays the numeric summary out like describe(): one row per
// statistic, one column per variable
func NumericTable(summaries []stats.NumericSummary) table.Writer {
	tw := table.NewWriter()
	names := make([]string, len(summaries))
	for i, s := range summaries {
		names[i] = s.Column
	}
	tw.AppendHeader(header("", names...))
	if len(summaries) == 0 {
		return tw
	}
	for i, label := range stats.NumericSummaryLabels {
		r := table.Row{label}
		for _, s := range summaries {
			r = append(r, format(s.Values()[i]))
		}
		tw.AppendRow(r)
	}
	return tw
}

// CategoricalTable has one column per categorical variable
func CategoricalTable(summaries []stats.CategoricalSummary) table.Writer {
	tw := table.NewWriter()
	names := make([]string, len(summaries))
	for i, s := range summaries {
		names[i] = s.Column
	}
	tw.AppendHeader(header("", names...))
	if len(summaries) == 0 {
		return tw
	}
	rows := []table.Row{{"count"}, {"unique"}, {"top"}, {"freq"}}
	for _, s := range summaries {
		top := "NaN"
		if s.HasTop() {
			top = s.Top
		}
		rows[0] = append(rows[0], s.Count)
		rows[1] = append(rows[1], s.Unique)
		rows[2] = append(rows[2], top)
		rows[3] = append(rows[3], s.Freq)
	}
	tw.AppendRows(rows)
	return tw
}

// CorrelationTable renders the square matrix with names on both axes
func CorrelationTable(m stats.CorrelationMatrix) table.Writer {
	tw := table.NewWriter()
	tw.AppendHeader(header("", m.Columns...))
	for i, name := range m.Columns {
		r := table.Row{name}
		for _, v := range m.Values[i] {
			r = append(r, format(v))
		}
		tw.AppendRow(r)
	}
	return tw
}

// ShapeTable has one row per numeric variable
func ShapeTable(shapes []stats.DistributionShape) table.Writer {
	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"column", "skewness", "kurtosis", "outliers", "normality p", "normal"})
	for _, s := range shapes {
		normal := "no"
		if s.LooksNormal {
			normal = "yes"
		}
		tw.AppendRow(table.Row{s.Column, format(s.Skewness), format(s.Kurtosis), s.Outliers, format(s.NormalityP), normal})
	}
	return tw
}

func header(first string, names ...string) table.Row {
	r := table.Row{first}
	for _, n := range names {
		r = append(r, n)
	}
	return r
}

func format(v core.Float) string {
	return v.Format(6)
}
