package pubfig

import (
	"fmt"
	"image/color"
	"log/slog"

	"github.com/ukaji3/pubfig-go/pkg/pubfig/models"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Distribution draws a density-normalized histogram of s and its kernel
// density estimate. With both parts disabled it logs a warning and returns
// without drawing or saving anything.
func Distribution(s models.Series, cfg DistributionConfig) (*Axes, error) {
	const name = "distribution"
	cfg = cfg.withDefaults()
	if !cfg.ShouldShowHist() && !cfg.ShouldShowKDE() {
		slog.Warn("distribution has nothing to draw; histogram and density are both disabled", "series", s.Name)
		return nil, nil
	}
	theme := cfg.theme()

	values, clr, err := cfg.prepare(s, theme)
	if err != nil {
		return nil, NewTemplateError(name, StageValidate, err)
	}

	sf := cfg.surface(Inches(6, 4), theme)
	if err := drawDistribution(sf.Axes, s.Name, values, clr, cfg); err != nil {
		return nil, NewTemplateError(name, StageDraw, err)
	}
	if cfg.YLabel == "" {
		sf.Axes.Plot.Y.Label.Text = "Density"
	}
	cfg.label(sf.Axes)

	ax, err := sf.finish(cfg.OutputPath)
	if err != nil {
		return nil, NewTemplateError(name, StageSave, err)
	}
	return ax, nil
}

func (c DistributionConfig) prepare(s models.Series, theme Theme) ([]float64, color.Color, error) {
	if err := c.Panel.validate(); err != nil {
		return nil, nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, nil, err
	}
	values := finite(s.Values)
	if len(values) == 0 {
		return nil, nil, fmt.Errorf("%w: series %q has no finite values", ErrEmptyInput, s.Name)
	}
	clr, err := theme.resolve(c.Color)
	if err != nil {
		return nil, nil, err
	}
	return values, clr, nil
}

func drawDistribution(a *Axes, label string, values []float64, clr color.Color, cfg DistributionConfig) error {
	p := a.Plot
	var thumbs []plot.Thumbnailer

	if cfg.ShouldShowHist() {
		h, err := plotter.NewHist(plotter.Values(values), cfg.Bins)
		if err != nil {
			return err
		}
		h.Normalize(1)
		h.FillColor = withAlpha(clr, 0.6)
		h.LineStyle = draw.LineStyle{Color: color.White, Width: vg.Points(0.5)}
		p.Add(h)
		thumbs = append(thumbs, h)
	}

	if cfg.ShouldShowKDE() {
		grid, dens := kdeCurve(values, 200, 3)
		xys := make(plotter.XYs, len(grid))
		for i := range grid {
			xys[i] = plotter.XY{X: grid[i], Y: dens[i]}
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return err
		}
		line.LineStyle = draw.LineStyle{Color: clr, Width: a.theme.LineWidth}
		if !cfg.ShouldShowHist() {
			line.FillColor = withAlpha(clr, 0.3)
		}
		p.Add(line)
		thumbs = append(thumbs, line)
	}

	if label != "" {
		p.Legend.Add(label, thumbs...)
	}
	a.Series = append(a.Series, SeriesRecord{Label: label, Color: clr, Width: a.theme.LineWidth})
	return nil
}
