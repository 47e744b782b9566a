package pubfig

import (
	"fmt"
	"image/color"
	"math"

	"github.com/ukaji3/pubfig-go/pkg/pubfig/models"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// rangePad is the fraction of the data span added above and below each
// y axis of a dual-axis plot.
const rangePad = 0.05

type styledSeries struct {
	label  string
	xys    plotter.XYs
	color  color.Color
	width  vg.Length
	radius vg.Length
	dashes []vg.Length
	glyph  draw.GlyphDrawer
}

// DualAxis draws Y1Col against the left axis and Y2Col against a right
// axis sharing the same x. Both lines appear in one legend.
func DualAxis(ds *models.Dataset, cfg DualAxisConfig) (*Axes, error) {
	const name = "dual-axis"
	cfg = cfg.withDefaults()
	theme := cfg.theme()

	y1, y2, err := cfg.prepare(ds, theme)
	if err != nil {
		return nil, NewTemplateError(name, StageValidate, err)
	}

	s := cfg.surface(Inches(6, 4), theme)
	if err := drawDualAxis(s.Axes, y1, y2); err != nil {
		return nil, NewTemplateError(name, StageDraw, err)
	}
	cfg.label(s.Axes)

	ax, err := s.finish(cfg.OutputPath)
	if err != nil {
		return nil, NewTemplateError(name, StageSave, err)
	}
	return ax, nil
}

func (c DualAxisConfig) prepare(ds *models.Dataset, theme Theme) (y1, y2 *styledSeries, err error) {
	if err := c.Panel.validate(); err != nil {
		return nil, nil, err
	}
	if err := c.Y1Style.validate(); err != nil {
		return nil, nil, err
	}
	if err := c.Y2Style.validate(); err != nil {
		return nil, nil, err
	}
	if ds == nil || ds.Len() == 0 {
		return nil, nil, fmt.Errorf("%w: no rows", ErrEmptyInput)
	}
	xs, err := ds.Floats(c.XCol)
	if err != nil {
		return nil, nil, err
	}
	if y1, err = styled(ds, xs, c.Y1Col, c.Y1Label, c.Y1Color, c.Y1Style, theme); err != nil {
		return nil, nil, err
	}
	if y2, err = styled(ds, xs, c.Y2Col, c.Y2Label, c.Y2Color, c.Y2Style, theme); err != nil {
		return nil, nil, err
	}
	return y1, y2, nil
}

func styled(ds *models.Dataset, xs []float64, col, label, clr string, style SeriesStyle, theme Theme) (*styledSeries, error) {
	ys, err := ds.Floats(col)
	if err != nil {
		return nil, err
	}
	s := &styledSeries{label: label, width: theme.LineWidth, radius: theme.MarkerSize / 2}
	if s.label == "" {
		s.label = col
	}
	if style.Width > 0 {
		s.width = vg.Points(style.Width)
	}
	if style.MarkerSize > 0 {
		s.radius = vg.Points(style.MarkerSize) / 2
	}
	if s.color, err = theme.resolve(clr); err != nil {
		return nil, err
	}
	if s.dashes, err = dashes(style.LineStyle, s.width); err != nil {
		return nil, err
	}
	if s.glyph, err = glyph(style.Marker); err != nil {
		return nil, err
	}
	for i, x := range xs {
		if math.IsNaN(x) || math.IsNaN(ys[i]) {
			continue
		}
		s.xys = append(s.xys, plotter.XY{X: x, Y: ys[i]})
	}
	if len(s.xys) == 0 {
		return nil, fmt.Errorf("%w: column %q has no finite points", ErrEmptyInput, col)
	}
	return s, nil
}

// paddedRange returns the y extent of xys widened by rangePad on each side.
func paddedRange(xys plotter.XYs) (lo, hi float64) {
	ys := make([]float64, len(xys))
	for i, p := range xys {
		ys[i] = p.Y
	}
	lo, hi = floats.Min(ys), floats.Max(ys)
	pad := rangePad * (hi - lo)
	if pad == 0 {
		pad = 0.5
	}
	return lo - pad, hi + pad
}

func drawDualAxis(a *Axes, y1, y2 *styledSeries) error {
	p := a.Plot
	p.Y.Min, p.Y.Max = paddedRange(y1.xys)
	min2, max2 := paddedRange(y2.xys)
	sec := newSecondaryAxis(a, y2.label, y2.color, min2, max2)

	onPrimary := *y2
	onPrimary.xys = make(plotter.XYs, len(y2.xys))
	for i, pt := range y2.xys {
		onPrimary.xys[i] = plotter.XY{X: pt.X, Y: sec.toPrimary(p, pt.Y)}
	}

	for _, s := range []*styledSeries{y1, &onPrimary} {
		thumbs, err := addStyled(p, s)
		if err != nil {
			return err
		}
		p.Legend.Add(s.label, thumbs...)
		a.Series = append(a.Series, SeriesRecord{Label: s.label, Color: s.color, Width: s.width})
	}

	p.Y.Label.Text = y1.label
	p.Y.Label.TextStyle.Color = y1.color
	p.Y.Tick.Label.Color = y1.color
	a.Secondary = sec
	a.addDecoration(sec)
	return nil
}

func addStyled(p *plot.Plot, s *styledSeries) ([]plot.Thumbnailer, error) {
	line, err := plotter.NewLine(s.xys)
	if err != nil {
		return nil, err
	}
	line.LineStyle = draw.LineStyle{Color: s.color, Width: s.width, Dashes: s.dashes}
	p.Add(line)
	thumbs := []plot.Thumbnailer{line}
	if s.glyph != nil {
		marks, err := plotter.NewScatter(s.xys)
		if err != nil {
			return nil, err
		}
		marks.GlyphStyle = draw.GlyphStyle{Color: s.color, Radius: s.radius, Shape: s.glyph}
		p.Add(marks)
		thumbs = append(thumbs, marks)
	}
	return thumbs, nil
}
