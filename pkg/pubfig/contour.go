package pubfig

import (
	"fmt"
	"image/color"

	"github.com/ukaji3/pubfig-go/pkg/pubfig/grid"
	"github.com/ukaji3/pubfig-go/pkg/pubfig/models"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// gridXYZ adapts a grid.Grid to plotter.GridXYZ.
type gridXYZ struct{ *grid.Grid }

func (g gridXYZ) Z(c, r int) float64 { return g.Grid.Z[r][c] }
func (g gridXYZ) X(c int) float64    { return g.Grid.X[c] }
func (g gridXYZ) Y(r int) float64    { return g.Grid.Y[r] }

type contourInput struct {
	xs, ys, zs []float64
}

// Contour draws filled contour bands of z over (x, y). Scattered samples
// are interpolated onto a Resolution×Resolution grid first; grid nodes
// outside their convex hull stay empty.
func Contour(ds *models.Dataset, cfg ContourConfig) (*Axes, error) {
	const name = "contour"
	cfg = cfg.withDefaults()
	theme := cfg.theme()

	in, err := cfg.prepare(ds)
	if err != nil {
		return nil, NewTemplateError(name, StageValidate, err)
	}

	g, cmap, err := cfg.transform(in)
	if err != nil {
		return nil, NewTemplateError(name, StageTransform, err)
	}

	s := cfg.surface(Inches(6, 5), theme)
	if err := drawContour(s.Axes, g, cmap, in, cfg); err != nil {
		return nil, NewTemplateError(name, StageDraw, err)
	}
	cfg.label(s.Axes)

	ax, err := s.finish(cfg.OutputPath)
	if err != nil {
		return nil, NewTemplateError(name, StageSave, err)
	}
	return ax, nil
}

func (c ContourConfig) prepare(ds *models.Dataset) (*contourInput, error) {
	if err := c.Panel.validate(); err != nil {
		return nil, err
	}
	if c.Method != MethodCubic && c.Method != MethodLinear {
		return nil, fmt.Errorf("%w: interpolation method %q", ErrInvalidOption, c.Method)
	}
	if c.Resolution < 2 {
		return nil, fmt.Errorf("%w: resolution %d", ErrInvalidOption, c.Resolution)
	}
	if _, err := Colormap(c.Colormap, 0, 1); err != nil {
		return nil, err
	}
	if ds == nil || ds.Len() == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrEmptyInput)
	}
	in := &contourInput{}
	var err error
	if in.xs, err = ds.Floats(c.XCol); err != nil {
		return nil, err
	}
	if in.ys, err = ds.Floats(c.YCol); err != nil {
		return nil, err
	}
	if in.zs, err = ds.Floats(c.ZCol); err != nil {
		return nil, err
	}
	return in, nil
}

func (c ContourConfig) transform(in *contourInput) (*grid.Grid, palette.ColorMap, error) {
	var g *grid.Grid
	var err error
	if c.Gridded {
		g, err = grid.FromColumns(in.xs, in.ys, in.zs)
	} else {
		g, err = grid.Interpolate(in.xs, in.ys, in.zs, grid.Options{
			Nx:     c.Resolution,
			Ny:     c.Resolution,
			Method: grid.Method(c.Method),
		})
	}
	if err != nil {
		return nil, nil, err
	}
	lo, hi, ok := g.Bounds()
	if !ok {
		return nil, nil, fmt.Errorf("%w: grid has no finite values", ErrEmptyInput)
	}
	cmap, err := Colormap(c.Colormap, lo, hi)
	if err != nil {
		return nil, nil, err
	}
	return g, cmap, nil
}

func drawContour(a *Axes, g *grid.Grid, cmap palette.ColorMap, in *contourInput, cfg ContourConfig) error {
	p := a.Plot
	xyz := gridXYZ{g}

	bands := plotter.NewHeatMap(xyz, sample(cmap, cfg.Levels))
	bands.Min, bands.Max = cmap.Min(), cmap.Max()
	bands.NaN = color.Transparent
	p.Add(bands)

	// The line tracer cannot follow level sets across empty nodes.
	if !hasNaN(g) {
		levels := make([]float64, cfg.Levels-1)
		for i := range levels {
			levels[i] = cmap.Min() + (cmap.Max()-cmap.Min())*float64(i+1)/float64(cfg.Levels)
		}
		if len(levels) > 0 {
			lines := plotter.NewContour(xyz, levels, colorList{color.NRGBA{A: 0x66}})
			lines.LineStyles = []draw.LineStyle{{Color: color.Black, Width: vg.Points(0.5)}}
			p.Add(lines)
		}
	}

	if cfg.ShowPoints {
		var xys plotter.XYs
		for i := range in.xs {
			if floats.HasNaN([]float64{in.xs[i], in.ys[i], in.zs[i]}) {
				continue
			}
			xys = append(xys, plotter.XY{X: in.xs[i], Y: in.ys[i]})
		}
		pts, err := plotter.NewScatter(xys)
		if err != nil {
			return err
		}
		pts.GlyphStyle = draw.GlyphStyle{Color: color.Black, Radius: vg.Points(1.5), Shape: draw.CircleGlyph{}}
		p.Add(pts)
	}

	p.X.Min, p.X.Max = g.X[0], g.X[len(g.X)-1]
	p.Y.Min, p.Y.Max = g.Y[0], g.Y[len(g.Y)-1]
	a.addDecoration(newColorbar(a, cmap, cfg.ColorbarLabel))
	return nil
}

func hasNaN(g *grid.Grid) bool {
	for _, row := range g.Z {
		if floats.HasNaN(row) {
			return true
		}
	}
	return false
}
