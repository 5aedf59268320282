// Package svgplot renders chart figures to SVG on the server with gonum/plot,
// for downloads and for clients without JavaScript.
package svgplot

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"csvlens/domain/chart"
	"csvlens/domain/core"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgsvg"
)

// Renderer draws charts as SVG documents
type Renderer struct {
	Width      vg.Length // Width of the whole document
	TileHeight vg.Length // Height of one subplot row
}

// NewRenderer creates a renderer with dashboard-sized defaults
func NewRenderer() *Renderer {
	return &Renderer{Width: 8 * vg.Inch, TileHeight: 4 * vg.Inch}
}

// Render writes c as a standalone SVG document to w
func (r *Renderer) Render(w io.Writer, c *chart.Chart) error {
	if c == nil || len(c.Data) == 0 {
		return core.NewInvalidArgumentError("chart", "nothing to render")
	}
	grid, err := r.plots(c)
	if err != nil {
		return fmt.Errorf("render %s: %w", c.Label, err)
	}

	rows, cols := len(grid), len(grid[0])
	canvas := vgsvg.New(r.Width, r.TileHeight*vg.Length(rows))
	dc := draw.New(canvas)

	if rows == 1 && cols == 1 {
		grid[0][0].Draw(dc)
	} else {
		tiles := draw.Tiles{
			Rows: rows, Cols: cols,
			PadX: vg.Millimeter * 4, PadY: vg.Millimeter * 4,
			PadTop: vg.Millimeter * 2, PadBottom: vg.Millimeter * 2,
			PadLeft: vg.Millimeter * 2, PadRight: vg.Millimeter * 2,
		}
		canvases := plot.Align(grid, tiles, dc)
		for i := range grid {
			for j, p := range grid[i] {
				if p != nil {
					p.Draw(canvases[i][j])
				}
			}
		}
	}

	if _, err := canvas.WriteTo(w); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

// plots lays the figure out as a grid of gonum plots
func (r *Renderer) plots(c *chart.Chart) ([][]*plot.Plot, error) {
	if c.Label == chart.HeatmapLabel {
		p, err := heatmap(c)
		return single(p, err)
	}

	switch c.Kind {
	case chart.Histogram:
		return histograms(c)
	case chart.BoxPlot:
		return single(boxes(c))
	case chart.ViolinPlot:
		return single(violins(c))
	case chart.ScatterMatrix:
		return scatterMatrix(c)
	case chart.BarChart:
		return single(bars(c))
	case chart.LineChart:
		return single(lines(c))
	}
	return nil, core.NewInvalidArgumentError("kind", "cannot render chart kind "+c.Label)
}

func single(p *plot.Plot, err error) ([][]*plot.Plot, error) {
	if err != nil {
		return nil, err
	}
	return [][]*plot.Plot{{p}}, nil
}

func newPlot(title string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	return p
}

func histograms(c *chart.Chart) ([][]*plot.Plot, error) {
	cols := 1
	if c.Layout.Grid != nil && c.Layout.Grid.Columns > 0 {
		cols = c.Layout.Grid.Columns
	}
	rows := (len(c.Data) + cols - 1) / cols
	grid := make([][]*plot.Plot, rows)
	for i := range grid {
		grid[i] = make([]*plot.Plot, cols)
	}

	for i, tr := range c.Data {
		p := newPlot("variable=" + tr.Name)
		p.Y.Label.Text = "count"
		values := finite(tr.X)
		if len(values) > 0 {
			bins := tr.NBinsX
			if bins <= 0 {
				bins = 30
			}
			h, err := plotter.NewHist(values, bins)
			if err != nil {
				return nil, err
			}
			h.FillColor = plotutil.Color(i)
			p.Add(h)
		}
		grid[i/cols][i%cols] = p
	}
	return grid, nil
}

func boxes(c *chart.Chart) (*plot.Plot, error) {
	p := newPlot(c.Layout.Title)
	names := make([]string, len(c.Data))
	for i, tr := range c.Data {
		names[i] = tr.Name
		values := finite(tr.Y)
		if len(values) == 0 {
			continue
		}
		b, err := plotter.NewBoxPlot(vg.Points(24), float64(i), values)
		if err != nil {
			return nil, err
		}
		b.FillColor = plotutil.Color(i)
		p.Add(b)
	}
	p.NominalX(names...)
	return p, nil
}

func scatterMatrix(c *chart.Chart) ([][]*plot.Plot, error) {
	dims := c.Data[0].Dimensions
	n := len(dims)
	if n == 0 {
		return nil, core.NewInvalidArgumentError("dimensions", "scatter matrix has no dimensions")
	}
	grid := make([][]*plot.Plot, n)
	for i := range grid {
		grid[i] = make([]*plot.Plot, n)
		for j := range grid[i] {
			p := plot.New()
			if i == n-1 {
				p.X.Label.Text = dims[j].Label
			}
			if j == 0 {
				p.Y.Label.Text = dims[i].Label
			}
			if i == j {
				values := finite(dims[i].Values)
				if len(values) > 0 {
					h, err := plotter.NewHist(values, 10)
					if err != nil {
						return nil, err
					}
					p.Add(h)
				}
			} else {
				pts := pairs(dims[j].Values, dims[i].Values)
				if len(pts) > 0 {
					s, err := plotter.NewScatter(pts)
					if err != nil {
						return nil, err
					}
					s.GlyphStyle.Radius = vg.Points(1.5)
					s.GlyphStyle.Color = plotutil.Color(0)
					p.Add(s)
				}
			}
			grid[i][j] = p
		}
	}
	return grid, nil
}

func bars(c *chart.Chart) (*plot.Plot, error) {
	p := newPlot(c.Layout.Title)
	p.X.Label.Text = "index"
	k := len(c.Data)
	width := vg.Points(math.Max(1, 48/float64(k)))
	for i, tr := range c.Data {
		values := make(plotter.Values, len(tr.Y))
		for n, v := range tr.Y {
			if v.IsFinite() {
				values[n] = v.Value()
			}
		}
		if len(values) == 0 {
			continue
		}
		b, err := plotter.NewBarChart(values, width)
		if err != nil {
			return nil, err
		}
		b.Color = plotutil.Color(i)
		b.LineStyle.Width = 0
		b.Offset = vg.Length(float64(i)-float64(k-1)/2) * width
		p.Add(b)
		p.Legend.Add(tr.Name, b)
	}
	p.Legend.Top = true
	return p, nil
}

func lines(c *chart.Chart) (*plot.Plot, error) {
	p := newPlot(c.Layout.Title)
	p.X.Label.Text = "index"
	for i, tr := range c.Data {
		pts := pairs(tr.X, tr.Y)
		if len(pts) == 0 {
			continue
		}
		l, err := plotter.NewLine(pts)
		if err != nil {
			return nil, err
		}
		l.LineStyle.Color = plotutil.Color(i)
		l.LineStyle.Width = vg.Points(1.5)
		p.Add(l)
		p.Legend.Add(tr.Name, l)
	}
	p.Legend.Top = true
	return p, nil
}

// correlationGrid adapts a square matrix to plotter.GridXYZ. Rows are
// flipped so the first column name sits at the top.
type correlationGrid struct {
	z [][]core.Float
}

func (g correlationGrid) Dims() (int, int) { return len(g.z), len(g.z) }
func (g correlationGrid) Z(c, r int) float64 {
	return g.z[len(g.z)-1-r][c].Value()
}
func (g correlationGrid) X(c int) float64 { return float64(c) }
func (g correlationGrid) Y(r int) float64 { return float64(r) }

func heatmap(c *chart.Chart) (*plot.Plot, error) {
	tr := c.Data[0]
	if len(tr.Z) == 0 {
		return nil, core.NewInvalidArgumentError("z", "heatmap has no cells")
	}
	cmap := moreland.SmoothBlueRed()
	cmap.SetMin(-1)
	cmap.SetMax(1)

	hm := plotter.NewHeatMap(correlationGrid{z: tr.Z}, cmap.Palette(255))
	hm.Min, hm.Max = -1, 1
	hm.NaN = color.Gray{Y: 200}

	p := newPlot(c.Layout.Title)
	p.Add(hm)
	if c.Layout.XAxis != nil {
		names := c.Layout.XAxis.TickText
		reversed := make([]string, len(names))
		for i, name := range names {
			reversed[len(names)-1-i] = name
		}
		p.NominalX(names...)
		p.NominalY(reversed...)
	}
	return p, nil
}

// finite drops NaN and infinite values, which gonum plotters reject
func finite(values []core.Float) plotter.Values {
	out := make(plotter.Values, 0, len(values))
	for _, v := range values {
		if v.IsFinite() {
			out = append(out, v.Value())
		}
	}
	return out
}

func pairs(xs, ys []core.Float) plotter.XYs {
	n := min(len(xs), len(ys))
	out := make(plotter.XYs, 0, n)
	for i := 0; i < n; i++ {
		if xs[i].IsFinite() && ys[i].IsFinite() {
			out = append(out, plotter.XY{X: xs[i].Value(), Y: ys[i].Value()})
		}
	}
	return out
}
