// Package visualization turns an imputed table and a chart selection into
// Plotly-compatible figures.
package visualization

import (
	"fmt"
	"strconv"

	"csvlens/domain/chart"
	"csvlens/domain/core"
	"csvlens/domain/dataset"
	"csvlens/domain/stats"
	"csvlens/internal"
)

// HistogramBins is the bin count requested for every histogram subplot
const HistogramBins = 30

// HistogramColumns is the number of subplot columns in the histogram grid
const HistogramColumns = 2

// Builder produces chart figures from an imputed table
type Builder struct {
	logger *internal.Logger
}

// NewBuilder creates a chart builder
func NewBuilder(logger *internal.Logger) *Builder {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Builder{logger: logger.With("Visualizer")}
}

// Build returns one chart per requested kind, in request order. The whole
// request is validated first, so a bad selection yields no charts at all.
func (b *Builder) Build(t *dataset.Table, req chart.Request) ([]chart.Chart, error) {
	if err := Validate(t, req); err != nil {
		return nil, err
	}
	charts := make([]chart.Chart, 0, len(req.Kinds))
	for _, kind := range req.Kinds {
		charts = append(charts, b.build(t, req.Columns, kind))
	}
	b.logger.Debug("built %d charts over %d columns", len(charts), len(req.Columns))
	return charts, nil
}

// BuildOne validates and builds a single chart
func (b *Builder) BuildOne(t *dataset.Table, columns []string, kind chart.Kind) (*chart.Chart, error) {
	charts, err := b.Build(t, chart.Request{Columns: columns, Kinds: []chart.Kind{kind}})
	if err != nil {
		return nil, err
	}
	return &charts[0], nil
}

// Validate checks a selection against the table
func Validate(t *dataset.Table, req chart.Request) error {
	if t == nil {
		return core.NewInvalidArgumentError("table", "no data to chart")
	}
	if len(req.Columns) == 0 {
		return core.NewInvalidArgumentError("columns", "select at least one column")
	}
	if len(req.Kinds) == 0 {
		return core.NewInvalidArgumentError("kinds", "select at least one chart kind")
	}
	seen := make(map[string]bool, len(req.Columns))
	for _, name := range req.Columns {
		c, ok := t.Column(name)
		if !ok {
			return core.NewInvalidArgumentError("columns", fmt.Sprintf("unknown column %q", name))
		}
		if !c.IsNumeric() {
			return core.NewInvalidArgumentError("columns", fmt.Sprintf("column %q is not numeric", name))
		}
		if seen[name] {
			return core.NewInvalidArgumentError("columns", fmt.Sprintf("column %q selected twice", name))
		}
		seen[name] = true
	}
	for _, k := range req.Kinds {
		if !k.Valid() {
			return core.NewInvalidArgumentError("kinds", "unknown chart kind "+strconv.Itoa(int(k)))
		}
	}
	return nil
}

func (b *Builder) build(t *dataset.Table, columns []string, kind chart.Kind) chart.Chart {
	c := chart.Chart{
		Kind:   kind,
		Label:  kind.String(),
		Layout: chart.Layout{Title: kind.Title()},
	}
	switch kind {
	case chart.Histogram:
		histogram(&c, columns, Melt(t, columns))
	case chart.BoxPlot:
		c.Data = perColumn(t, columns, func(name string, values []float64) chart.Trace {
			return chart.Trace{Type: "box", Name: name, Y: core.Floats(values)}
		})
	case chart.ViolinPlot:
		c.Data = perColumn(t, columns, func(name string, values []float64) chart.Trace {
			return chart.Trace{Type: "violin", Name: name, Y: core.Floats(values), Box: &chart.BoxStyle{Visible: true}}
		})
	case chart.ScatterMatrix:
		trace := chart.Trace{Type: "splom"}
		for _, name := range columns {
			col, _ := t.Column(name)
			trace.Dimensions = append(trace.Dimensions, chart.Dimension{Label: name, Values: core.Floats(col.Numbers)})
		}
		c.Data = []chart.Trace{trace}
		c.Layout.Height = 250 * max(len(columns), 2)
	case chart.BarChart:
		index := rowIndex(t.NumRows())
		c.Data = perColumn(t, columns, func(name string, values []float64) chart.Trace {
			return chart.Trace{Type: "bar", Name: name, X: index, Y: core.Floats(values)}
		})
		c.Layout.BarMode = "group"
		c.Layout.XAxis = &chart.Axis{Title: "index"}
	case chart.LineChart:
		index := rowIndex(t.NumRows())
		c.Data = perColumn(t, columns, func(name string, values []float64) chart.Trace {
			return chart.Trace{Type: "scatter", Mode: "lines", Name: name, X: index, Y: core.Floats(values)}
		})
		c.Layout.XAxis = &chart.Axis{Title: "index"}
	}
	return c
}

// histogram draws one subplot per selected column from the long-format
// rows. A column with no values still gets its (empty) subplot.
func histogram(c *chart.Chart, variables []string, long []LongRow) {
	_, groups := groupByVariable(long)
	n := len(variables)
	cols := min(n, HistogramColumns)
	rows := (n + HistogramColumns - 1) / HistogramColumns
	c.Layout.Grid = &chart.Grid{Rows: rows, Columns: max(cols, 1), Pattern: "independent"}
	c.Layout.Height = 300 * max(rows, 1)

	for i, name := range variables {
		xa, ya := axisNames(i)
		c.Data = append(c.Data, chart.Trace{
			Type:   "histogram",
			Name:   name,
			X:      core.Floats(groups[name]),
			NBinsX: HistogramBins,
			XAxis:  xa,
			YAxis:  ya,
		})
		c.Layout.Annotations = append(c.Layout.Annotations, chart.Annotation{
			Text: "variable=" + name,
			X:    0.5,
			Y:    1.08,
			XRef: xa + " domain",
			YRef: ya + " domain",
		})
	}
}

// Heatmap draws the correlation matrix with column names as tick labels.
// Rows run top to bottom in column order.
func (b *Builder) Heatmap(m stats.CorrelationMatrix) chart.Chart {
	index := make([]float64, m.Size())
	for i := range index {
		index[i] = float64(i)
	}
	lo, hi := -1.0, 1.0
	return chart.Chart{
		Label: chart.HeatmapLabel,
		Data: []chart.Trace{{
			Type:       "heatmap",
			X:          core.Floats(index),
			Y:          core.Floats(index),
			Z:          m.Values,
			ZMin:       &lo,
			ZMax:       &hi,
			ColorScale: "RdBu",
		}},
		Layout: chart.Layout{
			Title: "Correlation heatmap",
			XAxis: &chart.Axis{TickVals: index, TickText: m.Columns},
			YAxis: &chart.Axis{TickVals: index, TickText: m.Columns, AutoRange: "reversed"},
		},
	}
}

func perColumn(t *dataset.Table, columns []string, trace func(name string, values []float64) chart.Trace) []chart.Trace {
	traces := make([]chart.Trace, 0, len(columns))
	for _, name := range columns {
		col, _ := t.Column(name)
		traces = append(traces, trace(name, col.Numbers))
	}
	return traces
}

func rowIndex(n int) []core.Float {
	index := make([]core.Float, n)
	for i := range index {
		index[i] = core.Float(i)
	}
	return index
}

// axisNames returns the Plotly axis ids of subplot i: x/y, x2/y2, ...
func axisNames(i int) (string, string) {
	if i == 0 {
		return "x", "y"
	}
	suffix := strconv.Itoa(i + 1)
	return "x" + suffix, "y" + suffix
}
