package pubfig

import (
	"fmt"
	"image/color"
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
)

// colormapStops holds sampled anchor colors of the sequential maps.
var colormapStops = map[string][]string{
	"viridis": {"#440154", "#482878", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"},
	"magma":   {"#000004", "#1c1044", "#4f127b", "#812581", "#b5367a", "#e55064", "#fb8761", "#fec287", "#fcfdbf"},
	"plasma":  {"#0d0887", "#4c02a1", "#7e03a8", "#a92395", "#cc4778", "#e56b5d", "#f89441", "#fdc328", "#f0f921"},
	"Blues":   {"#f7fbff", "#deebf7", "#c6dbef", "#9ecae1", "#6baed6", "#4292c6", "#2171b5", "#08519c", "#08306b"},
	"YlOrRd":  {"#ffffcc", "#ffeda0", "#fed976", "#feb24c", "#fd8d3c", "#fc4e2a", "#e31a1c", "#bd0026", "#800026"},
}

// Colormaps returns the names accepted by Colormap.
func Colormaps() []string {
	names := []string{"coolwarm"}
	for n := range colormapStops {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Colormap returns a continuous color map spanning [min, max].
func Colormap(name string, min, max float64) (palette.ColorMap, error) {
	var cm palette.ColorMap
	if name == "coolwarm" {
		cm = moreland.SmoothBlueRed()
	} else {
		hexes, ok := colormapStops[name]
		if !ok {
			return nil, fmt.Errorf("%w: colormap %q", ErrInvalidOption, name)
		}
		g := &gradient{alpha: 1}
		for _, h := range hexes {
			c, err := colorful.Hex(h)
			if err != nil {
				return nil, err
			}
			g.stops = append(g.stops, c)
		}
		cm = g
	}
	if min == max {
		min, max = min-0.5, max+0.5
	}
	cm.SetMax(max)
	cm.SetMin(min)
	return cm, nil
}

// gradient interpolates between evenly spaced stops in CIE L*a*b*.
type gradient struct {
	stops    []colorful.Color
	min, max float64
	alpha    float64
}

func (g *gradient) At(v float64) (color.Color, error) {
	switch {
	case math.IsNaN(v):
		return nil, palette.ErrNaN
	case v < g.min:
		return nil, palette.ErrUnderflow
	case v > g.max:
		return nil, palette.ErrOverflow
	}
	t := (v - g.min) / (g.max - g.min)
	pos := t * float64(len(g.stops)-1)
	i := int(pos)
	if i >= len(g.stops)-1 {
		i = len(g.stops) - 2
	}
	c := g.stops[i].BlendLab(g.stops[i+1], pos-float64(i)).Clamped()
	r, gr, b := c.RGB255()
	return color.NRGBA{R: r, G: gr, B: b, A: uint8(g.alpha*255 + 0.5)}, nil
}

func (g *gradient) Max() float64           { return g.max }
func (g *gradient) Min() float64           { return g.min }
func (g *gradient) SetMax(v float64)       { g.max = v }
func (g *gradient) SetMin(v float64)       { g.min = v }
func (g *gradient) Alpha() float64         { return g.alpha }
func (g *gradient) SetAlpha(alpha float64) { g.alpha = alpha }

func (g *gradient) Palette(n int) palette.Palette {
	return sample(g, n)
}

// colorList is a fixed palette.
type colorList []color.Color

func (c colorList) Colors() []color.Color { return c }

// sample draws n evenly spaced colors from cm.
func sample(cm palette.ColorMap, n int) colorList {
	out := make(colorList, n)
	for i := range out {
		v := cm.Min()
		switch {
		case n > 1 && i == n-1:
			v = cm.Max()
		case n > 1:
			v = math.Min(v+(cm.Max()-cm.Min())*float64(i)/float64(n-1), cm.Max())
		}
		c, err := cm.At(v)
		if err != nil {
			c = color.Transparent
		}
		out[i] = c
	}
	return out
}
