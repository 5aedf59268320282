package chart

import (
	"csvlens/domain/core"
)

// Request is a transient (columns, kinds) selection made by the user
type Request struct {
	Columns []string `json:"columns"`
	Kinds   []Kind   `json:"kinds"`
}

// Empty reports whether there is nothing to draw
func (r Request) Empty() bool {
	return len(r.Columns) == 0 || len(r.Kinds) == 0
}

// HeatmapLabel identifies the correlation heatmap, which is drawn for every
// upload rather than requested
const HeatmapLabel = "Heatmap"

// Chart is a Plotly-compatible figure: a list of traces and a layout.
// Kind is zero for the correlation heatmap, which is not user-requestable.
type Chart struct {
	Kind   Kind    `json:"-"`
	Label  string  `json:"kind"`
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// SeriesNames returns the trace names in order
func (c *Chart) SeriesNames() []string {
	names := make([]string, len(c.Data))
	for i, tr := range c.Data {
		names[i] = tr.Name
	}
	return names
}

// Trace is one data series
type Trace struct {
	Type       string         `json:"type"`
	Name       string         `json:"name,omitempty"`
	X          []core.Float   `json:"x,omitempty"`
	Y          []core.Float   `json:"y,omitempty"`
	Z          [][]core.Float `json:"z,omitempty"`
	Mode       string         `json:"mode,omitempty"`
	NBinsX     int            `json:"nbinsx,omitempty"`
	XAxis      string         `json:"xaxis,omitempty"`
	YAxis      string         `json:"yaxis,omitempty"`
	Box        *BoxStyle      `json:"box,omitempty"`
	Dimensions []Dimension    `json:"dimensions,omitempty"`
	ZMin       *float64       `json:"zmin,omitempty"`
	ZMax       *float64       `json:"zmax,omitempty"`
	ColorScale string         `json:"colorscale,omitempty"`
	ShowLegend *bool          `json:"showlegend,omitempty"`
}

// BoxStyle toggles the box overlay drawn inside a violin
type BoxStyle struct {
	Visible bool `json:"visible"`
}

// Dimension is one axis of a scatter matrix
type Dimension struct {
	Label  string       `json:"label"`
	Values []core.Float `json:"values"`
}

// Layout controls titles, axes and subplot grids
type Layout struct {
	Title       string       `json:"title,omitempty"`
	Grid        *Grid        `json:"grid,omitempty"`
	XAxis       *Axis        `json:"xaxis,omitempty"`
	YAxis       *Axis        `json:"yaxis,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty"`
	BoxMode     string       `json:"boxmode,omitempty"`
	BarMode     string       `json:"barmode,omitempty"`
	Height      int          `json:"height,omitempty"`
}

// Grid lays out subplots
type Grid struct {
	Rows    int    `json:"rows"`
	Columns int    `json:"columns"`
	Pattern string `json:"pattern"`
}

// Axis configures one axis
type Axis struct {
	Title     string    `json:"title,omitempty"`
	TickVals  []float64 `json:"tickvals,omitempty"`
	TickText  []string  `json:"ticktext,omitempty"`
	AutoRange string    `json:"autorange,omitempty"`
}

// Annotation is a text label placed on the figure, used for subplot titles
type Annotation struct {
	Text      string  `json:"text"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	XRef      string  `json:"xref"`
	YRef      string  `json:"yref"`
	ShowArrow bool    `json:"showarrow"`
}
