package pubfig

import (
	"fmt"
	"image/color"
	"math"
	"strconv"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg/draw"
)

// matrixGrid presents a matrix with row 0 at the top.
type matrixGrid struct {
	m    mat.Matrix
	rows int
	cols int
}

func (g matrixGrid) Dims() (c, r int)   { return g.cols, g.rows }
func (g matrixGrid) Z(c, r int) float64 { return g.m.At(g.rows-1-r, c) }
func (g matrixGrid) X(c int) float64    { return float64(c) }
func (g matrixGrid) Y(r int) float64    { return float64(r) }

// Heatmap draws a matrix as colored cells with a colorbar. Tick label counts
// must match the matrix dimensions.
func Heatmap(m mat.Matrix, cfg HeatmapConfig) (*Axes, error) {
	const name = "heatmap"
	cfg = cfg.withDefaults()
	theme := cfg.theme()

	cmap, err := cfg.prepare(m)
	if err != nil {
		return nil, NewTemplateError(name, StageValidate, err)
	}

	s := cfg.surface(Inches(6, 5), theme)
	if err := drawHeatmap(s.Axes, m, cmap, cfg); err != nil {
		return nil, NewTemplateError(name, StageDraw, err)
	}
	cfg.label(s.Axes)

	ax, err := s.finish(cfg.OutputPath)
	if err != nil {
		return nil, NewTemplateError(name, StageSave, err)
	}
	return ax, nil
}

func (c HeatmapConfig) prepare(m mat.Matrix) (palette.ColorMap, error) {
	if err := c.Panel.validate(); err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("%w: nil matrix", ErrEmptyInput)
	}
	r, cols := m.Dims()
	if r == 0 || cols == 0 {
		return nil, fmt.Errorf("%w: %dx%d matrix", ErrEmptyInput, r, cols)
	}
	if len(c.XTickLabels) > 0 && len(c.XTickLabels) != cols {
		return nil, fmt.Errorf("%w: %d x tick labels for %d columns", ErrShapeMismatch, len(c.XTickLabels), cols)
	}
	if len(c.YTickLabels) > 0 && len(c.YTickLabels) != r {
		return nil, fmt.Errorf("%w: %d y tick labels for %d rows", ErrShapeMismatch, len(c.YTickLabels), r)
	}
	if _, _, err := valueVerb(c.ValueFormat); err != nil {
		return nil, err
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for i := 0; i < r; i++ {
		for j := 0; j < cols; j++ {
			if v := m.At(i, j); !math.IsNaN(v) {
				lo, hi = math.Min(lo, v), math.Max(hi, v)
			}
		}
	}
	if math.IsInf(lo, 1) {
		return nil, fmt.Errorf("%w: matrix has no finite values", ErrEmptyInput)
	}
	return Colormap(c.Colormap, lo, hi)
}

func drawHeatmap(a *Axes, m mat.Matrix, cmap palette.ColorMap, cfg HeatmapConfig) error {
	p := a.Plot
	rows, cols := m.Dims()
	g := matrixGrid{m: m, rows: rows, cols: cols}

	hm := plotter.NewHeatMap(g, cmap.Palette(256))
	hm.Min, hm.Max = cmap.Min(), cmap.Max()
	hm.NaN = color.Transparent
	p.Add(hm)

	if cfg.ShouldAnnotate() {
		labels, err := cellLabels(g, cmap, cfg.ValueFormat, a.theme)
		if err != nil {
			return err
		}
		p.Add(labels)
	}

	xt := cfg.XTickLabels
	if len(xt) == 0 {
		xt = indexLabels(cols)
	}
	yt := cfg.YTickLabels
	if len(yt) == 0 {
		yt = indexLabels(rows)
	}
	yticks := make([]string, rows)
	for r := range yticks {
		yticks[r] = yt[rows-1-r]
	}
	p.X.Tick.Marker = categoryTicks(xt)
	p.Y.Tick.Marker = categoryTicks(yticks)
	p.X.Tick.Label.Rotation = math.Pi / 6
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YTop
	p.Y.Tick.Label.Rotation = 0
	p.X.Min, p.X.Max = -0.5, float64(cols)-0.5
	p.Y.Min, p.Y.Max = -0.5, float64(rows)-0.5

	a.addDecoration(newColorbar(a, cmap, cfg.ColorbarLabel))
	return nil
}

// cellLabels writes each finite cell value centered on its cell, in a
// color that contrasts with the cell.
func cellLabels(g matrixGrid, cmap palette.ColorMap, format string, theme Theme) (*plotter.Labels, error) {
	verb, integer, err := valueVerb(format)
	if err != nil {
		return nil, err
	}
	var data plotter.XYLabels
	var bg []color.Color
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			v := g.Z(c, r)
			if math.IsNaN(v) {
				continue
			}
			var s string
			if integer {
				s = fmt.Sprintf(verb, int(math.Round(v)))
			} else {
				s = fmt.Sprintf(verb, v)
			}
			clr, err := cmap.At(v)
			if err != nil {
				clr = color.White
			}
			data.XYs = append(data.XYs, plotter.XY{X: g.X(c), Y: g.Y(r)})
			data.Labels = append(data.Labels, s)
			bg = append(bg, clr)
		}
	}

	labels, err := plotter.NewLabels(data)
	if err != nil {
		return nil, err
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].Font = theme.font(theme.TickSize)
		labels.TextStyle[i].Color = contrastText(bg[i])
		labels.TextStyle[i].XAlign = draw.XCenter
		labels.TextStyle[i].YAlign = draw.YCenter
	}
	return labels, nil
}

func indexLabels(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = strconv.Itoa(i)
	}
	return out
}
