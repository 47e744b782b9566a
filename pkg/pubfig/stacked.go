package pubfig

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/ukaji3/pubfig-go/pkg/pubfig/models"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

type stackedRows struct {
	categories []string
	rows       [][]float64 // [category][component]
	colors     []color.Color
}

// StackedBar draws one bar per category with one segment per component,
// stacked bottom-up in component order.
func StackedBar(ds *models.Dataset, cfg StackedConfig) (*Axes, error) {
	const name = "stacked-bar"
	cfg = cfg.withDefaults()
	theme := cfg.theme()

	st, err := cfg.prepare(ds, theme)
	if err != nil {
		return nil, NewTemplateError(name, StageValidate, err)
	}
	if cfg.Percent {
		st.rows = percentRows(st.rows)
	}

	s := cfg.surface(Inches(7, 5), theme)
	drawStacked(s.Axes, st, cfg)
	cfg.label(s.Axes)
	if cfg.Percent {
		s.Axes.Plot.Y.Label.Text = strings.TrimSpace(cfg.YLabel + " (%)")
	}

	ax, err := s.finish(cfg.OutputPath)
	if err != nil {
		return nil, NewTemplateError(name, StageSave, err)
	}
	return ax, nil
}

func (c StackedConfig) prepare(ds *models.Dataset, theme Theme) (*stackedRows, error) {
	if err := c.Panel.validate(); err != nil {
		return nil, err
	}
	if ds == nil || len(c.ComponentCols) == 0 {
		return nil, fmt.Errorf("%w: no component columns", ErrEmptyInput)
	}

	st := &stackedRows{}
	var err error
	if st.categories, err = ds.Strings(c.CategoryCol); err != nil {
		return nil, err
	}
	if st.colors, err = theme.keyedColors(c.ComponentCols, c.Palette); err != nil {
		return nil, err
	}
	st.rows = make([][]float64, len(st.categories))
	for i := range st.rows {
		st.rows[i] = make([]float64, len(c.ComponentCols))
	}
	for j, col := range c.ComponentCols {
		vs, err := ds.Floats(col)
		if err != nil {
			return nil, err
		}
		for i, v := range vs {
			if math.IsNaN(v) {
				v = 0
			}
			st.rows[i][j] = v
		}
	}
	return st, nil
}

// percentRows rescales each row to sum to 100. Rows summing to zero are
// left as zeros.
func percentRows(rows [][]float64) [][]float64 {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		var sum float64
		for _, v := range row {
			sum += v
		}
		out[i] = make([]float64, len(row))
		if sum == 0 {
			continue
		}
		for j, v := range row {
			out[i][j] = v / sum * 100
		}
	}
	return out
}

func drawStacked(a *Axes, st *stackedRows, cfg StackedConfig) {
	p := a.Plot
	n := len(st.categories)
	centers := make([]float64, n)
	bottoms := make([]float64, n)
	for i := range centers {
		centers[i] = float64(i)
	}
	edge := draw.LineStyle{Color: color.White, Width: vg.Points(0.5)}

	for j, comp := range cfg.ComponentCols {
		tops := make([]float64, n)
		for i, row := range st.rows {
			tops[i] = bottoms[i] + row[j]
		}
		b := &bars{
			centers: centers,
			bottoms: append([]float64(nil), bottoms...),
			tops:    tops,
			width:   cfg.BarWidth,
			color:   st.colors[j],
			edge:    edge,
		}
		p.Add(b)
		p.Legend.Add(comp, b)
		copy(bottoms, tops)
	}
	a.Stacks = st.rows

	p.X.Tick.Marker = categoryTicks(st.categories)
	p.X.Min, p.X.Max = -0.5, float64(n)-0.5
	if cfg.Percent {
		p.Y.Min, p.Y.Max = 0, 100
	}
}
