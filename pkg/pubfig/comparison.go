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

// rotateAbove is the category count past which x labels are slanted.
const rotateAbove = 4

type categoryGroups struct {
	names  []string
	values [][]float64
	// colors is per category, or per hue level when hues is set.
	colors []color.Color
	hues   []string
	// cells holds the values of each (category, hue) pair.
	cells [][][]float64
}

// DistributionComparison draws one violin or box per category of XCol,
// in order of first appearance. With HueCol set each category holds one
// shape per hue level and the legend names the levels.
func DistributionComparison(ds *models.Dataset, cfg ComparisonConfig) (*Axes, error) {
	const name = "distribution-comparison"
	cfg = cfg.withDefaults()
	theme := cfg.theme()

	groups, err := cfg.prepare(ds, theme)
	if err != nil {
		return nil, NewTemplateError(name, StageValidate, err)
	}

	s := cfg.surface(Inches(8, 5), theme)
	if err := drawComparison(s.Axes, groups, cfg.Kind); err != nil {
		return nil, NewTemplateError(name, StageDraw, err)
	}
	cfg.label(s.Axes)

	ax, err := s.finish(cfg.OutputPath)
	if err != nil {
		return nil, NewTemplateError(name, StageSave, err)
	}
	return ax, nil
}

func (c ComparisonConfig) prepare(ds *models.Dataset, theme Theme) (*categoryGroups, error) {
	if err := c.Panel.validate(); err != nil {
		return nil, err
	}
	if c.Kind != KindViolin && c.Kind != KindBox {
		return nil, fmt.Errorf("%w: comparison kind %q", ErrInvalidOption, c.Kind)
	}
	if ds == nil || ds.Len() == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrEmptyInput)
	}
	cats, err := ds.Strings(c.XCol)
	if err != nil {
		return nil, err
	}
	ys, err := ds.Floats(c.YCol)
	if err != nil {
		return nil, err
	}

	if c.HueCol != "" {
		hues, err := ds.Strings(c.HueCol)
		if err != nil {
			return nil, err
		}
		return c.groupByHue(cats, hues, ys, theme)
	}

	g := &categoryGroups{}
	index := make(map[string]int)
	for i, cat := range cats {
		if math.IsNaN(ys[i]) || math.IsInf(ys[i], 0) {
			continue
		}
		j, ok := index[cat]
		if !ok {
			j = len(g.names)
			index[cat] = j
			g.names = append(g.names, cat)
			g.values = append(g.values, nil)
		}
		g.values[j] = append(g.values[j], ys[i])
	}
	if len(g.names) == 0 {
		return nil, fmt.Errorf("%w: column %q has no finite values", ErrEmptyInput, c.YCol)
	}
	if g.colors, err = theme.keyedColors(g.names, c.Palette); err != nil {
		return nil, err
	}
	return g, nil
}

func (c ComparisonConfig) groupByHue(cats, hues []string, ys []float64, theme Theme) (*categoryGroups, error) {
	g := &categoryGroups{}
	catIndex := make(map[string]int)
	hueIndex := make(map[string]int)
	var rows []int
	for i := range cats {
		if math.IsNaN(ys[i]) || math.IsInf(ys[i], 0) {
			continue
		}
		rows = append(rows, i)
		if _, ok := catIndex[cats[i]]; !ok {
			catIndex[cats[i]] = len(g.names)
			g.names = append(g.names, cats[i])
		}
		if _, ok := hueIndex[hues[i]]; !ok {
			hueIndex[hues[i]] = len(g.hues)
			g.hues = append(g.hues, hues[i])
		}
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: column %q has no finite values", ErrEmptyInput, c.YCol)
	}

	g.cells = make([][][]float64, len(g.names))
	for j := range g.cells {
		g.cells[j] = make([][]float64, len(g.hues))
	}
	for _, i := range rows {
		j, h := catIndex[cats[i]], hueIndex[hues[i]]
		g.cells[j][h] = append(g.cells[j][h], ys[i])
	}

	var err error
	if g.colors, err = theme.keyedColors(g.hues, c.Palette); err != nil {
		return nil, err
	}
	return g, nil
}

func drawComparison(a *Axes, g *categoryGroups, kind string) error {
	p := a.Plot
	edge := draw.LineStyle{Color: color.Black, Width: 0.8 * a.theme.AxisLineWidth}
	if g.hues != nil {
		if err := drawHues(a, g, kind, edge); err != nil {
			return err
		}
	}
	for i, values := range g.values {
		loc := float64(i)
		switch kind {
		case KindViolin:
			p.Add(newViolin(loc, values, withAlpha(g.colors[i], 0.7), edge))
		case KindBox:
			box, err := plotter.NewBoxPlot(vg.Points(28), loc, plotter.Values(values))
			if err != nil {
				return err
			}
			box.FillColor = withAlpha(g.colors[i], 0.7)
			box.BoxStyle = edge
			box.WhiskerStyle = edge
			box.MedianStyle = draw.LineStyle{Color: color.Black, Width: 1.5 * edge.Width}
			p.Add(box)
		}
	}

	categoryAxis(p, g.names)
	return nil
}

// drawHues draws the (category, hue) cells. Two hue levels share each
// category as the halves of a split violin.
func drawHues(a *Axes, g *categoryGroups, kind string, edge draw.LineStyle) error {
	p := a.Plot
	n := len(g.hues)
	offsets, width := barOffsets(n, 2*violinHalfWidth)
	split := kind == KindViolin && n == 2
	boxWidth := vg.Points(28) * 2 / vg.Length(n+1)

	for i, row := range g.cells {
		for h, values := range row {
			if len(values) == 0 {
				continue
			}
			fill := withAlpha(g.colors[h], 0.7)
			switch {
			case split:
				v := newViolin(float64(i), values, fill, edge)
				v.side = 2*h - 1
				p.Add(v)
			case kind == KindViolin:
				v := newViolin(float64(i)+offsets[h], values, fill, edge)
				v.half = width / 2
				p.Add(v)
			default:
				box, err := plotter.NewBoxPlot(boxWidth, float64(i)+offsets[h], plotter.Values(values))
				if err != nil {
					return err
				}
				box.FillColor = fill
				box.BoxStyle = edge
				box.WhiskerStyle = edge
				box.MedianStyle = draw.LineStyle{Color: color.Black, Width: 1.5 * edge.Width}
				p.Add(box)
			}
		}
	}
	for h, hue := range g.hues {
		p.Legend.Add(hue, swatch{color: withAlpha(g.colors[h], 0.7), edge: edge})
	}
	return nil
}

func categoryAxis(p *plot.Plot, names []string) {
	p.X.Tick.Marker = categoryTicks(names)
	p.X.Min, p.X.Max = -0.5, float64(len(names))-0.5
	if len(names) > rotateAbove {
		p.X.Tick.Label.Rotation = math.Pi / 4
		p.X.Tick.Label.XAlign = draw.XRight
		p.X.Tick.Label.YAlign = draw.YTop
	}
}
