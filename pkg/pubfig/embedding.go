package pubfig

import (
	"fmt"
	"image/color"
	"sort"

	"github.com/ukaji3/pubfig-go/pkg/pubfig/embed"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Embedding projects the rows of features to 2-D with t-SNE and draws one
// scatter per label. Labels appear in the legend in sorted order.
func Embedding(features mat.Matrix, labels []string, cfg EmbeddingConfig) (*Axes, error) {
	const name = "embedding"
	cfg = cfg.withDefaults()
	theme := cfg.theme()

	classes, colors, err := cfg.prepare(features, labels, theme)
	if err != nil {
		return nil, NewTemplateError(name, StageValidate, err)
	}

	y, err := embed.TSNE(features, embed.Options{
		Perplexity:   cfg.Perplexity,
		Iterations:   cfg.Iterations,
		Seed:         cfg.Seed,
		LearningRate: cfg.LearningRate,
	})
	if err != nil {
		return nil, NewTemplateError(name, StageTransform, err)
	}

	s := cfg.surface(Inches(6, 5), theme)
	if err := drawEmbedding(s.Axes, y, labels, classes, colors); err != nil {
		return nil, NewTemplateError(name, StageDraw, err)
	}
	s.Axes.Plot.X.Label.Text = "t-SNE 1"
	s.Axes.Plot.Y.Label.Text = "t-SNE 2"
	cfg.label(s.Axes)

	ax, err := s.finish(cfg.OutputPath)
	if err != nil {
		return nil, NewTemplateError(name, StageSave, err)
	}
	return ax, nil
}

func (c EmbeddingConfig) prepare(features mat.Matrix, labels []string, theme Theme) ([]string, []color.Color, error) {
	if err := c.Panel.validate(); err != nil {
		return nil, nil, err
	}
	if features == nil {
		return nil, nil, fmt.Errorf("%w: nil feature matrix", ErrEmptyInput)
	}
	if n, _ := features.Dims(); n != len(labels) {
		return nil, nil, fmt.Errorf("%w: %d feature rows, %d labels", ErrShapeMismatch, n, len(labels))
	}
	seen := make(map[string]bool)
	var classes []string
	for _, l := range labels {
		if !seen[l] {
			seen[l] = true
			classes = append(classes, l)
		}
	}
	sort.Strings(classes)
	colors, err := theme.keyedColors(classes, c.Palette)
	if err != nil {
		return nil, nil, err
	}
	return classes, colors, nil
}

func drawEmbedding(a *Axes, y *mat.Dense, labels, classes []string, colors []color.Color) error {
	p := a.Plot
	points := make(map[string]plotter.XYs, len(classes))
	for i, l := range labels {
		points[l] = append(points[l], plotter.XY{X: y.At(i, 0), Y: y.At(i, 1)})
	}
	for i, class := range classes {
		sc, err := plotter.NewScatter(points[class])
		if err != nil {
			return err
		}
		sc.GlyphStyle = draw.GlyphStyle{Color: withAlpha(colors[i], 0.7), Radius: vg.Points(2), Shape: draw.CircleGlyph{}}
		p.Add(sc)
		p.Legend.Add(class, sc)
	}
	p.X.Tick.Marker = plot.ConstantTicks{}
	p.Y.Tick.Marker = plot.ConstantTicks{}
	return nil
}
