package pubfig

import (
	"fmt"
	"math"

	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// LineStyles lists the accepted line style names.
var LineStyles = []string{"-", "--", ":", "-."}

// Markers lists the accepted marker names. The empty string draws no marker.
var Markers = []string{"o", "s", "^", "v", "D", "x", "+", "*", ""}

// dashes converts a line style name into a dash pattern scaled by width.
func dashes(style string, width vg.Length) ([]vg.Length, error) {
	switch style {
	case "-", "solid", "":
		return nil, nil
	case "--", "dashed":
		return []vg.Length{3.7 * width, 1.6 * width}, nil
	case ":", "dotted":
		return []vg.Length{width, 1.65 * width}, nil
	case "-.", "dashdot":
		return []vg.Length{6.4 * width, 1.6 * width, width, 1.6 * width}, nil
	}
	return nil, fmt.Errorf("%w: line style %q", ErrInvalidOption, style)
}

// glyph converts a marker name into a glyph drawer. "" yields nil.
func glyph(marker string) (draw.GlyphDrawer, error) {
	switch marker {
	case "":
		return nil, nil
	case "o":
		return draw.CircleGlyph{}, nil
	case "s":
		return draw.BoxGlyph{}, nil
	case "^":
		return draw.PyramidGlyph{}, nil
	case "v":
		return downTriangle, nil
	case "D":
		return diamond, nil
	case "x":
		return draw.CrossGlyph{}, nil
	case "+":
		return draw.PlusGlyph{}, nil
	case "*":
		return star, nil
	}
	return nil, fmt.Errorf("%w: marker %q", ErrInvalidOption, marker)
}

// polygonGlyph fills a polygon given in units of the glyph radius.
type polygonGlyph []vg.Point

var (
	diamond      = polygonGlyph{{X: 0, Y: 1}, {X: 0.75, Y: 0}, {X: 0, Y: -1}, {X: -0.75, Y: 0}}
	downTriangle = polygonGlyph{{X: -0.87, Y: 0.5}, {X: 0.87, Y: 0.5}, {X: 0, Y: -1}}
	star         = starPolygon(5, 0.45)
)

func (g polygonGlyph) DrawGlyph(c *draw.Canvas, sty draw.GlyphStyle, pt vg.Point) {
	var p vg.Path
	for i, v := range g {
		q := vg.Point{X: pt.X + v.X*sty.Radius, Y: pt.Y + v.Y*sty.Radius}
		if i == 0 {
			p.Move(q)
		} else {
			p.Line(q)
		}
	}
	p.Close()
	c.SetColor(sty.Color)
	c.Fill(p)
}

func starPolygon(points int, inner float64) polygonGlyph {
	g := make(polygonGlyph, 0, 2*points)
	for i := 0; i < 2*points; i++ {
		r := 1.0
		if i%2 == 1 {
			r = inner
		}
		a := math.Pi/2 + float64(i)*math.Pi/float64(points)
		g = append(g, vg.Point{X: vg.Length(r * math.Cos(a)), Y: vg.Length(r * math.Sin(a))})
	}
	return g
}

// SeriesStyle is the per-series appearance used by the dual-axis template.
type SeriesStyle struct {
	LineStyle string `yaml:"line_style" toml:"line_style"`
	Marker    string `yaml:"marker" toml:"marker"`
	// Width and MarkerSize are in points; zero uses the theme value.
	Width      float64 `yaml:"width" toml:"width"`
	MarkerSize float64 `yaml:"marker_size" toml:"marker_size"`
}

func (s SeriesStyle) validate() error {
	if _, err := dashes(s.LineStyle, 1); err != nil {
		return err
	}
	if _, err := glyph(s.Marker); err != nil {
		return err
	}
	if s.Width < 0 || s.MarkerSize < 0 {
		return fmt.Errorf("%w: negative width in series style", ErrInvalidOption)
	}
	return nil
}
