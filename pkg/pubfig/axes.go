package pubfig

import (
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Axes is one panel of a Figure. Templates draw on Plot and record what
// they drew so callers composing figures can inspect it.
type Axes struct {
	Plot *plot.Plot

	// Series lists the lines drawn, in order.
	Series []SeriesRecord
	// Stacks holds the segment heights of each stacked bar, after any
	// normalization.
	Stacks [][]float64
	// Secondary is the right-hand y axis, when one was added.
	Secondary *SecondaryAxis

	figure *Figure
	theme  Theme
	frame  bool

	// decorations draw into a margin reserved right of the data area.
	decorations []decoration
}

// SeriesRecord describes one drawn line.
type SeriesRecord struct {
	Label string
	Color color.Color
	Width vg.Length
}

// Figure returns the figure owning a.
func (a *Axes) Figure() *Figure { return a.figure }

// Theme returns the theme a was created with.
func (a *Axes) Theme() Theme { return a.theme }

// YScale returns "log" or "linear".
func (a *Axes) YScale() string {
	if _, ok := a.Plot.Y.Scale.(plot.LogScale); ok {
		return ScaleLog
	}
	return ScaleLinear
}

type decoration interface {
	// width is the margin the decoration needs right of the data area.
	width() vg.Length
	draw(dc draw.Canvas, a *Axes)
}

func (a *Axes) addDecoration(d decoration) {
	a.decorations = append(a.decorations, d)
}

func (a *Axes) draw(c draw.Canvas) {
	var reserve vg.Length
	for _, d := range a.decorations {
		reserve += d.width()
	}
	area := draw.Crop(c, 0, -reserve, 0, 0)
	a.Plot.Draw(area)

	dc := a.Plot.DataCanvas(area)
	if a.frame {
		a.drawFrame(dc)
	}
	for _, d := range a.decorations {
		d.draw(dc, a)
		dc.Max.X += d.width()
	}
}

// drawFrame strokes the box around the data area and the inward ticks on
// all four sides. The right side is left to a secondary axis when present.
func (a *Axes) drawFrame(c draw.Canvas) {
	p := a.Plot
	spine := draw.LineStyle{Color: color.Black, Width: a.theme.AxisLineWidth}
	c.StrokeLines(spine, []vg.Point{
		{X: c.Min.X, Y: c.Min.Y}, {X: c.Min.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Max.Y}, {X: c.Max.X, Y: c.Min.Y},
		{X: c.Min.X, Y: c.Min.Y},
	})

	trX, trY := p.Transforms(&c)
	tick := draw.LineStyle{Color: color.Black, Width: 0.8 * a.theme.AxisLineWidth}
	for _, tk := range p.X.Tick.Marker.Ticks(p.X.Min, p.X.Max) {
		if tk.Value < p.X.Min || tk.Value > p.X.Max {
			continue
		}
		x, l := trX(tk.Value), a.tickLength(tk)
		c.StrokeLine2(tick, x, c.Min.Y, x, c.Min.Y+l)
		c.StrokeLine2(tick, x, c.Max.Y, x, c.Max.Y-l)
	}
	for _, tk := range p.Y.Tick.Marker.Ticks(p.Y.Min, p.Y.Max) {
		if tk.Value < p.Y.Min || tk.Value > p.Y.Max {
			continue
		}
		y, l := trY(tk.Value), a.tickLength(tk)
		c.StrokeLine2(tick, c.Min.X, y, c.Min.X+l, y)
		if a.Secondary == nil {
			c.StrokeLine2(tick, c.Max.X, y, c.Max.X-l, y)
		}
	}
}

func (a *Axes) tickLength(tk plot.Tick) vg.Length {
	if tk.IsMinor() {
		return a.theme.MinorTickLength
	}
	return a.theme.MajorTickLength
}
