package pubfig

import (
	"image/color"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// bars draws rectangles whose width is given in data units, so grouped
// and stacked layouts keep their spacing at any figure size.
type bars struct {
	centers []float64
	bottoms []float64 // nil means zero
	tops    []float64
	width   float64
	color   color.Color
	edge    draw.LineStyle
}

func (b *bars) bottom(i int) float64 {
	if b.bottoms == nil {
		return 0
	}
	return b.bottoms[i]
}

func (b *bars) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	for i, x := range b.centers {
		if math.IsNaN(b.tops[i]) {
			continue
		}
		x0, x1 := trX(x-b.width/2), trX(x+b.width/2)
		y0, y1 := trY(b.bottom(i)), trY(b.tops[i])
		rect := []vg.Point{{X: x0, Y: y0}, {X: x0, Y: y1}, {X: x1, Y: y1}, {X: x1, Y: y0}}
		c.FillPolygon(b.color, c.ClipPolygonXY(rect))
		if b.edge.Color != nil && b.edge.Width > 0 {
			c.StrokeLines(b.edge, c.ClipLinesXY(append(rect, rect[0]))...)
		}
	}
}

func (b *bars) DataRange() (xmin, xmax, ymin, ymax float64) {
	xmin, xmax = math.Inf(1), math.Inf(-1)
	ymin, ymax = 0, 0
	for i, x := range b.centers {
		xmin = math.Min(xmin, x-b.width/2)
		xmax = math.Max(xmax, x+b.width/2)
		if math.IsNaN(b.tops[i]) {
			continue
		}
		ymin = math.Min(ymin, math.Min(b.bottom(i), b.tops[i]))
		ymax = math.Max(ymax, math.Max(b.bottom(i), b.tops[i]))
	}
	return xmin, xmax, ymin, ymax
}

func (b *bars) Thumbnail(c *draw.Canvas) {
	rect := []vg.Point{{X: c.Min.X, Y: c.Min.Y}, {X: c.Min.X, Y: c.Max.Y}, {X: c.Max.X, Y: c.Max.Y}, {X: c.Max.X, Y: c.Min.Y}}
	c.FillPolygon(b.color, c.ClipPolygonY(rect))
}

// errorPoints pairs bar tops with symmetric error extents.
type errorPoints struct {
	plotter.XYs
	plotter.YErrors
}

func newErrorPoints(xs, ys, errs []float64) errorPoints {
	ep := errorPoints{XYs: make(plotter.XYs, len(xs)), YErrors: make(plotter.YErrors, len(xs))}
	for i := range xs {
		ep.XYs[i] = plotter.XY{X: xs[i], Y: ys[i]}
		ep.YErrors[i].Low = errs[i]
		ep.YErrors[i].High = errs[i]
	}
	return ep
}

// violin draws a mirrored density outline with an inner quartile box.
// A split violin draws only one side and marks the quartiles with lines
// across that half.
type violin struct {
	loc   float64
	half  float64   // widest extent from loc, in data units
	side  int       // 0 both sides, -1 left only, +1 right only
	grid  []float64 // y positions
	dens  []float64 // density at grid, scaled so the peak is 1
	q1    float64
	med   float64
	q3    float64
	color color.Color
	edge  draw.LineStyle
}

const violinHalfWidth = 0.4

func newViolin(loc float64, values []float64, clr color.Color, edge draw.LineStyle) *violin {
	grid, dens := kdeCurve(values, 100, 3)
	if peak := floats.Max(dens); peak > 0 {
		floats.Scale(1/peak, dens)
	}
	q1, med, q3 := quartiles(values)
	return &violin{
		loc: loc, half: violinHalfWidth,
		grid: grid, dens: dens,
		q1: q1, med: med, q3: q3,
		color: clr, edge: edge,
	}
}

// extent returns the data x range of the outline at density d.
func (v *violin) extent(d float64) (left, right float64) {
	left, right = v.loc, v.loc
	if v.side <= 0 {
		left -= v.half * d
	}
	if v.side >= 0 {
		right += v.half * d
	}
	return left, right
}

// densityAt interpolates the scaled density at y.
func (v *violin) densityAt(y float64) float64 {
	n := len(v.grid)
	if n == 0 || y < v.grid[0] || y > v.grid[n-1] {
		return 0
	}
	i := sort.SearchFloat64s(v.grid, y)
	if i == 0 {
		return v.dens[0]
	}
	t := (y - v.grid[i-1]) / (v.grid[i] - v.grid[i-1])
	return v.dens[i-1] + t*(v.dens[i]-v.dens[i-1])
}

func (v *violin) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	outline := make([]vg.Point, 0, 2*len(v.grid)+1)
	for i, y := range v.grid {
		_, right := v.extent(v.dens[i])
		outline = append(outline, vg.Point{X: trX(right), Y: trY(y)})
	}
	for i := len(v.grid) - 1; i >= 0; i-- {
		left, _ := v.extent(v.dens[i])
		outline = append(outline, vg.Point{X: trX(left), Y: trY(v.grid[i])})
	}
	c.FillPolygon(v.color, c.ClipPolygonXY(outline))
	c.StrokeLines(v.edge, c.ClipLinesXY(append(outline, outline[0]))...)

	if v.side != 0 {
		inner := draw.LineStyle{Color: color.Gray{Y: 0x30}, Width: v.edge.Width}
		dashed := inner
		dashed.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
		for _, q := range []struct {
			y   float64
			sty draw.LineStyle
		}{{v.q1, dashed}, {v.med, inner}, {v.q3, dashed}} {
			left, right := v.extent(v.densityAt(q.y))
			c.StrokeLines(q.sty, c.ClipLinesXY([]vg.Point{{X: trX(left), Y: trY(q.y)}, {X: trX(right), Y: trY(q.y)}})...)
		}
		return
	}

	x := trX(v.loc)
	box := draw.LineStyle{Color: color.Gray{Y: 0x30}, Width: 4 * v.edge.Width}
	c.StrokeLines(box, c.ClipLinesXY([]vg.Point{{X: x, Y: trY(v.q1)}, {X: x, Y: trY(v.q3)}})...)
	med := vg.Point{X: x, Y: trY(v.med)}
	if c.Contains(med) {
		draw.CircleGlyph{}.DrawGlyph(&c, draw.GlyphStyle{Color: color.White, Radius: 1.5 * v.edge.Width}, med)
	}
}

func (v *violin) DataRange() (xmin, xmax, ymin, ymax float64) {
	xmin, xmax = v.extent(1)
	return xmin, xmax, v.grid[0], v.grid[len(v.grid)-1]
}

// swatch is a legend entry for filled shapes.
type swatch struct {
	color color.Color
	edge  draw.LineStyle
}

func (s swatch) Thumbnail(c *draw.Canvas) {
	rect := []vg.Point{{X: c.Min.X, Y: c.Min.Y}, {X: c.Min.X, Y: c.Max.Y}, {X: c.Max.X, Y: c.Max.Y}, {X: c.Max.X, Y: c.Min.Y}}
	c.FillPolygon(s.color, c.ClipPolygonY(rect))
	c.StrokeLines(s.edge, c.ClipLinesY(append(rect, rect[0]))...)
}
