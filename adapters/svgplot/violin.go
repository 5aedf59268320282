package svgplot

import (
	"math"

	"csvlens/domain/chart"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

const (
	kdePoints   = 100
	violinWidth = 0.4 // Half width of the widest violin, in category units
)

// violins draws one mirrored kernel density per trace with a narrow box inside
func violins(c *chart.Chart) (*plot.Plot, error) {
	p := newPlot(c.Layout.Title)
	names := make([]string, len(c.Data))
	for i, tr := range c.Data {
		names[i] = tr.Name
		values := finite(tr.Y)
		if len(values) == 0 {
			continue
		}

		if ys, density := kde(values); ys != nil {
			peak := floats.Max(density)
			outline := make(plotter.XYs, 0, 2*len(ys))
			for n, y := range ys {
				outline = append(outline, plotter.XY{X: float64(i) - violinWidth*density[n]/peak, Y: y})
			}
			for n := len(ys) - 1; n >= 0; n-- {
				outline = append(outline, plotter.XY{X: float64(i) + violinWidth*density[n]/peak, Y: ys[n]})
			}
			poly, err := plotter.NewPolygon(outline)
			if err != nil {
				return nil, err
			}
			poly.Color = plotutil.Color(i)
			p.Add(poly)
		}

		box, err := plotter.NewBoxPlot(vg.Points(6), float64(i), values)
		if err != nil {
			return nil, err
		}
		p.Add(box)
	}
	p.NominalX(names...)
	return p, nil
}

// kde evaluates a Gaussian kernel density estimate with Silverman's
// bandwidth on an evenly spaced grid. It returns nil for constant data.
func kde(values []float64) ([]float64, []float64) {
	if len(values) < 2 {
		return nil, nil
	}
	sd := stat.StdDev(values, nil)
	if sd == 0 || math.IsNaN(sd) {
		return nil, nil
	}
	bw := 1.06 * sd * math.Pow(float64(len(values)), -0.2)

	lo, hi := floats.Min(values)-3*bw, floats.Max(values)+3*bw
	ys := make([]float64, kdePoints)
	floats.Span(ys, lo, hi)

	density := make([]float64, kdePoints)
	for _, v := range values {
		kernel := distuv.Normal{Mu: v, Sigma: bw}
		for n, y := range ys {
			density[n] += kernel.Prob(y)
		}
	}
	floats.Scale(1/float64(len(values)), density)
	return ys, density
}
