package pubfig

import (
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const decorationGap = 4 // points

// SecondaryAxis is a right-hand y axis sharing the x axis of its panel.
// It has no gridlines.
type SecondaryAxis struct {
	Label    string
	Color    color.Color
	Min, Max float64

	ticks     []plot.Tick
	tickStyle text.Style
	textStyle text.Style
}

func newSecondaryAxis(a *Axes, label string, clr color.Color, min, max float64) *SecondaryAxis {
	s := &SecondaryAxis{Label: label, Color: clr, Min: min, Max: max}
	s.ticks = plot.DefaultTicks{}.Ticks(min, max)
	s.tickStyle = a.Plot.Y.Tick.Label
	s.tickStyle.Color = clr
	s.tickStyle.XAlign = draw.XLeft
	s.tickStyle.YAlign = draw.YCenter
	s.textStyle = a.Plot.Y.Label.TextStyle
	s.textStyle.Color = clr
	s.textStyle.Rotation = math.Pi / 2
	s.textStyle.XAlign = draw.XCenter
	s.textStyle.YAlign = draw.YTop
	return s
}

// toPrimary maps a secondary value onto the primary y range of p.
func (s *SecondaryAxis) toPrimary(p *plot.Plot, v float64) float64 {
	return p.Y.Min + (v-s.Min)/(s.Max-s.Min)*(p.Y.Max-p.Y.Min)
}

func (s *SecondaryAxis) width() vg.Length {
	var widest vg.Length
	for _, tk := range s.ticks {
		if w := s.tickStyle.Width(tk.Label); w > widest {
			widest = w
		}
	}
	w := 2*vg.Points(decorationGap) + widest
	if s.Label != "" {
		w += s.textStyle.Height(s.Label) + vg.Points(decorationGap)
	}
	return w
}

func (s *SecondaryAxis) draw(c draw.Canvas, a *Axes) {
	y := func(v float64) vg.Length {
		return c.Min.Y + vg.Length((v-s.Min)/(s.Max-s.Min))*(c.Max.Y-c.Min.Y)
	}
	tick := draw.LineStyle{Color: color.Black, Width: 0.8 * a.theme.AxisLineWidth}
	var widest vg.Length
	for _, tk := range s.ticks {
		if tk.Value < s.Min || tk.Value > s.Max {
			continue
		}
		yy := y(tk.Value)
		c.StrokeLine2(tick, c.Max.X, yy, c.Max.X-a.tickLength(tk), yy)
		if tk.Label == "" {
			continue
		}
		c.FillText(s.tickStyle, vg.Point{X: c.Max.X + vg.Points(decorationGap), Y: yy}, tk.Label)
		if w := s.tickStyle.Width(tk.Label); w > widest {
			widest = w
		}
	}
	if s.Label != "" {
		x := c.Max.X + 2*vg.Points(decorationGap) + widest
		c.FillText(s.textStyle, vg.Point{X: x, Y: (c.Min.Y + c.Max.Y) / 2}, s.Label)
	}
}

// colorbar is a vertical gradient strip with its own tick labels.
type colorbar struct {
	cmap      palette.ColorMap
	label     string
	ticks     []plot.Tick
	tickStyle text.Style
	textStyle text.Style
}

const colorbarSteps = 128

func newColorbar(a *Axes, cmap palette.ColorMap, label string) *colorbar {
	cb := &colorbar{cmap: cmap, label: label}
	cb.ticks = plot.DefaultTicks{}.Ticks(cmap.Min(), cmap.Max())
	cb.tickStyle = a.Plot.Y.Tick.Label
	cb.tickStyle.XAlign = draw.XLeft
	cb.tickStyle.YAlign = draw.YCenter
	cb.textStyle = a.Plot.Y.Label.TextStyle
	cb.textStyle.Rotation = math.Pi / 2
	cb.textStyle.XAlign = draw.XCenter
	cb.textStyle.YAlign = draw.YTop
	return cb
}

func (cb *colorbar) stripWidth() vg.Length { return vg.Points(10) }

func (cb *colorbar) width() vg.Length {
	var widest vg.Length
	for _, tk := range cb.ticks {
		if w := cb.tickStyle.Width(tk.Label); w > widest {
			widest = w
		}
	}
	w := 3*vg.Points(decorationGap) + cb.stripWidth() + widest
	if cb.label != "" {
		w += cb.textStyle.Height(cb.label) + vg.Points(decorationGap)
	}
	return w
}

func (cb *colorbar) draw(c draw.Canvas, a *Axes) {
	x0 := c.Max.X + 2*vg.Points(decorationGap)
	x1 := x0 + cb.stripWidth()
	lo, hi := cb.cmap.Min(), cb.cmap.Max()
	h := c.Max.Y - c.Min.Y
	for i := 0; i < colorbarSteps; i++ {
		v := lo + (hi-lo)*(float64(i)+0.5)/colorbarSteps
		clr, err := cb.cmap.At(v)
		if err != nil {
			continue
		}
		y0 := c.Min.Y + h*vg.Length(i)/colorbarSteps
		y1 := c.Min.Y + h*vg.Length(i+1)/colorbarSteps
		c.FillPolygon(clr, []vg.Point{{X: x0, Y: y0}, {X: x0, Y: y1}, {X: x1, Y: y1}, {X: x1, Y: y0}})
	}

	spine := draw.LineStyle{Color: color.Black, Width: 0.8 * a.theme.AxisLineWidth}
	c.StrokeLines(spine, []vg.Point{{X: x0, Y: c.Min.Y}, {X: x0, Y: c.Max.Y}, {X: x1, Y: c.Max.Y}, {X: x1, Y: c.Min.Y}, {X: x0, Y: c.Min.Y}})

	var widest vg.Length
	for _, tk := range cb.ticks {
		if tk.Value < lo || tk.Value > hi || tk.Label == "" {
			continue
		}
		y := c.Min.Y + vg.Length((tk.Value-lo)/(hi-lo))*h
		c.StrokeLine2(spine, x1, y, x1-a.theme.MinorTickLength, y)
		c.FillText(cb.tickStyle, vg.Point{X: x1 + vg.Points(decorationGap), Y: y}, tk.Label)
		if w := cb.tickStyle.Width(tk.Label); w > widest {
			widest = w
		}
	}
	if cb.label != "" {
		x := x1 + 2*vg.Points(decorationGap) + widest
		c.FillText(cb.textStyle, vg.Point{X: x, Y: (c.Min.Y + c.Max.Y) / 2}, cb.label)
	}
}
