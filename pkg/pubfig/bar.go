package pubfig

import (
	"fmt"
	"image/color"
	"math"

	"github.com/ukaji3/pubfig-go/pkg/pubfig/models"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// topHeadroom is the auto y-limit factor over the tallest bar.
const topHeadroom = 1.15

type barGroups struct {
	categories []string
	values     [][]float64 // [metric][category]
	errs       [][]float64 // nil without error bars
	colors     []color.Color
}

// GroupedBar draws one bar per value column within each category, centered
// on the category tick.
func GroupedBar(ds *models.Dataset, cfg BarConfig) (*Axes, error) {
	const name = "grouped-bar"
	cfg = cfg.withDefaults()
	theme := cfg.theme()

	groups, err := cfg.prepare(ds, theme)
	if err != nil {
		return nil, NewTemplateError(name, StageValidate, err)
	}

	s := cfg.surface(Inches(6, 4), theme)
	if err := drawBars(s.Axes, groups, cfg); err != nil {
		return nil, NewTemplateError(name, StageDraw, err)
	}
	cfg.label(s.Axes)

	ax, err := s.finish(cfg.OutputPath)
	if err != nil {
		return nil, NewTemplateError(name, StageSave, err)
	}
	return ax, nil
}

func (c BarConfig) prepare(ds *models.Dataset, theme Theme) (*barGroups, error) {
	if err := c.Panel.validate(); err != nil {
		return nil, err
	}
	if ds == nil || len(c.ValueCols) == 0 {
		return nil, fmt.Errorf("%w: no value columns", ErrEmptyInput)
	}
	if len(c.ValueCols) != len(c.ValueLabels) {
		return nil, fmt.Errorf("%w: %d value columns, %d labels", ErrShapeMismatch, len(c.ValueCols), len(c.ValueLabels))
	}
	if len(c.ErrorCols) > 0 && len(c.ErrorCols) != len(c.ValueCols) {
		return nil, fmt.Errorf("%w: %d value columns, %d error columns", ErrShapeMismatch, len(c.ValueCols), len(c.ErrorCols))
	}
	if err := c.YLim.validate("y"); err != nil {
		return nil, err
	}

	g := &barGroups{}
	var err error
	if g.colors, err = theme.seriesColors(c.Colors, len(c.ValueCols)); err != nil {
		return nil, err
	}
	if g.categories, err = ds.Strings(c.CategoryCol); err != nil {
		return nil, err
	}
	for i, col := range c.ValueCols {
		vs, err := ds.Floats(col)
		if err != nil {
			return nil, err
		}
		g.values = append(g.values, vs)
		if len(c.ErrorCols) == 0 {
			continue
		}
		es, err := ds.Floats(c.ErrorCols[i])
		if err != nil {
			return nil, err
		}
		g.errs = append(g.errs, es)
	}
	if !anyFinite(g.values) {
		return nil, fmt.Errorf("%w: no finite bar values", ErrEmptyInput)
	}
	return g, nil
}

func anyFinite(values [][]float64) bool {
	for _, vs := range values {
		for _, v := range vs {
			if !math.IsNaN(v) && !math.IsInf(v, 0) {
				return true
			}
		}
	}
	return false
}

// barOffsets returns the center offset of each of n bars in a group of
// the given total width.
func barOffsets(n int, groupWidth float64) (offsets []float64, width float64) {
	width = groupWidth / float64(n)
	offsets = make([]float64, n)
	for i := range offsets {
		offsets[i] = (float64(i) - float64(n-1)/2) * width
	}
	return offsets, width
}

// autoTop returns the headroom factor times the tallest bar, counting its
// error bar when errs is not nil.
func autoTop(values, errs [][]float64) float64 {
	top := math.Inf(-1)
	for i, vs := range values {
		for j, v := range vs {
			if errs != nil && !math.IsNaN(errs[i][j]) {
				v += math.Abs(errs[i][j])
			}
			if !math.IsNaN(v) && !math.IsInf(v, 0) {
				top = math.Max(top, v)
			}
		}
	}
	return topHeadroom * top
}

func drawBars(a *Axes, g *barGroups, cfg BarConfig) error {
	p := a.Plot
	offsets, width := barOffsets(len(g.values), cfg.GroupWidth)
	for i, vs := range g.values {
		centers := make([]float64, len(vs))
		for j := range vs {
			centers[j] = float64(j) + offsets[i]
		}
		b := &bars{centers: centers, tops: vs, width: width, color: pick(g.colors, i)}
		p.Add(b)
		p.Legend.Add(cfg.ValueLabels[i], b)

		if g.errs == nil {
			continue
		}
		var xs, ys, es []float64
		for j, v := range vs {
			if math.IsNaN(v) || math.IsNaN(g.errs[i][j]) {
				continue
			}
			xs, ys, es = append(xs, centers[j]), append(ys, v), append(es, g.errs[i][j])
		}
		if len(xs) == 0 {
			continue
		}
		eb, err := plotter.NewYErrorBars(newErrorPoints(xs, ys, es))
		if err != nil {
			return err
		}
		eb.LineStyle = draw.LineStyle{Color: color.Black, Width: a.theme.AxisLineWidth}
		eb.CapWidth = vg.Points(4)
		p.Add(eb)
	}

	p.X.Tick.Marker = categoryTicks(g.categories)
	p.X.Min, p.X.Max = -0.5, float64(len(g.categories))-0.5
	if cfg.YLim != nil {
		p.Y.Min, p.Y.Max = cfg.YLim.Min, cfg.YLim.Max
	} else {
		p.Y.Min = math.Min(0, p.Y.Min)
		p.Y.Max = autoTop(g.values, g.errs)
	}
	return nil
}

func categoryTicks(names []string) plot.ConstantTicks {
	ticks := make(plot.ConstantTicks, len(names))
	for i, n := range names {
		ticks[i] = plot.Tick{Value: float64(i), Label: n}
	}
	return ticks
}
