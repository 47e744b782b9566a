package pubfig

import (
	"fmt"
	"image/color"
	"math"
	"slices"

	"github.com/ukaji3/pubfig-go/pkg/pubfig/models"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

type lineSeries struct {
	label  string
	xys    plotter.XYs
	band   plotter.XYs
	color  color.Color
	width  vg.Length
	dashes []vg.Length
	glyph  draw.GlyphDrawer
}

// LineComparison draws each y column against the x column. The first
// series is drawn heavier to mark the proposed method.
func LineComparison(ds *models.Dataset, cfg LineConfig) (*Axes, error) {
	const name = "line-comparison"
	cfg = cfg.withDefaults()
	theme := cfg.theme()

	series, err := cfg.prepare(ds, theme)
	if err != nil {
		return nil, NewTemplateError(name, StageValidate, err)
	}

	s := cfg.surface(Inches(6, 4), theme)
	if err := drawLines(s.Axes, series, cfg); err != nil {
		return nil, NewTemplateError(name, StageDraw, err)
	}
	cfg.label(s.Axes)

	ax, err := s.finish(cfg.OutputPath)
	if err != nil {
		return nil, NewTemplateError(name, StageSave, err)
	}
	return ax, nil
}

func (c LineConfig) prepare(ds *models.Dataset, theme Theme) ([]lineSeries, error) {
	if err := c.Panel.validate(); err != nil {
		return nil, err
	}
	if ds == nil || len(c.YCols) == 0 {
		return nil, fmt.Errorf("%w: no y columns", ErrEmptyInput)
	}
	if len(c.YCols) != len(c.YLabels) {
		return nil, fmt.Errorf("%w: %d y columns, %d labels", ErrShapeMismatch, len(c.YCols), len(c.YLabels))
	}
	if c.YScale != ScaleLinear && c.YScale != ScaleLog {
		return nil, fmt.Errorf("%w: y scale %q", ErrInvalidOption, c.YScale)
	}
	if err := c.XLim.validate("x"); err != nil {
		return nil, err
	}
	if err := c.YLim.validate("y"); err != nil {
		return nil, err
	}
	for col := range c.YErrorCols {
		if !slices.Contains(c.YCols, col) {
			return nil, fmt.Errorf("%w: error column given for %q, which is not a y column", ErrInvalidOption, col)
		}
	}
	colors, err := theme.seriesColors(c.Colors, len(c.YCols))
	if err != nil {
		return nil, err
	}

	xs, err := ds.Floats(c.XCol)
	if err != nil {
		return nil, err
	}

	lowest := math.Inf(1)
	series := make([]lineSeries, len(c.YCols))
	for i, col := range c.YCols {
		ys, err := ds.Floats(col)
		if err != nil {
			return nil, err
		}
		var errs []float64
		if ecol, ok := c.YErrorCols[col]; ok {
			if errs, err = ds.Floats(ecol); err != nil {
				return nil, err
			}
		}

		s := lineSeries{label: c.YLabels[i], color: pick(colors, i), width: theme.LineWidth}
		if i == 0 {
			s.width = theme.PrimaryLineWidth
		}
		if s.dashes, err = dashes(c.LineStyles[i%len(c.LineStyles)], s.width); err != nil {
			return nil, err
		}
		if s.glyph, err = glyph(c.Markers[i%len(c.Markers)]); err != nil {
			return nil, err
		}

		var upper, lower plotter.XYs
		for j, x := range xs {
			y := ys[j]
			if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
				continue
			}
			s.xys = append(s.xys, plotter.XY{X: x, Y: y})
			lowest = math.Min(lowest, y)
			if errs != nil && !math.IsNaN(errs[j]) {
				e := math.Abs(errs[j])
				upper = append(upper, plotter.XY{X: x, Y: y + e})
				lower = append(lower, plotter.XY{X: x, Y: y - e})
				lowest = math.Min(lowest, y-e)
			}
		}
		if len(s.xys) == 0 {
			return nil, fmt.Errorf("%w: column %q has no finite points", ErrEmptyInput, col)
		}
		if len(upper) > 1 {
			s.band = append(upper, reversed(lower)...)
		}
		series[i] = s
	}

	if c.YScale == ScaleLog {
		if (c.YLim != nil && c.YLim.Min <= 0) || (c.YLim == nil && lowest <= 0) {
			return nil, fmt.Errorf("%w: log scale needs positive values", ErrInvalidOption)
		}
	}
	return series, nil
}

func drawLines(a *Axes, series []lineSeries, cfg LineConfig) error {
	p := a.Plot
	for _, s := range series {
		if s.band != nil {
			band, err := plotter.NewPolygon(s.band)
			if err != nil {
				return err
			}
			band.Color = withAlpha(s.color, 0.2)
			band.LineStyle = draw.LineStyle{Color: color.Transparent}
			p.Add(band)
		}

		line, err := plotter.NewLine(s.xys)
		if err != nil {
			return err
		}
		line.LineStyle = draw.LineStyle{Color: s.color, Width: s.width, Dashes: s.dashes}
		p.Add(line)
		thumbs := []plot.Thumbnailer{line}

		if s.glyph != nil {
			marks, err := plotter.NewScatter(every(s.xys, cfg.MarkEvery))
			if err != nil {
				return err
			}
			marks.GlyphStyle = draw.GlyphStyle{Color: s.color, Radius: a.theme.MarkerSize / 2, Shape: s.glyph}
			p.Add(marks)
			thumbs = append(thumbs, marks)
		}
		p.Legend.Add(s.label, thumbs...)
		a.Series = append(a.Series, SeriesRecord{Label: s.label, Color: s.color, Width: s.width})
	}

	if cfg.XLim != nil {
		p.X.Min, p.X.Max = cfg.XLim.Min, cfg.XLim.Max
	}
	if cfg.YLim != nil {
		p.Y.Min, p.Y.Max = cfg.YLim.Min, cfg.YLim.Max
	}
	if cfg.YScale == ScaleLog {
		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	}
	return nil
}

// every keeps every n-th point starting with the first.
func every(xys plotter.XYs, n int) plotter.XYs {
	out := make(plotter.XYs, 0, len(xys)/n+1)
	for i := 0; i < len(xys); i += n {
		out = append(out, xys[i])
	}
	return out
}

func reversed(xys plotter.XYs) plotter.XYs {
	out := make(plotter.XYs, len(xys))
	for i, p := range xys {
		out[len(xys)-1-i] = p
	}
	return out
}
