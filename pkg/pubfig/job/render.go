package job

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ukaji3/pubfig-go/pkg/pubfig"
	"github.com/ukaji3/pubfig-go/pkg/pubfig/models"
	"github.com/ukaji3/pubfig-go/pkg/pubfig/parser"
	"gonum.org/v1/gonum/mat"
)

// Result records the outcome of one figure.
type Result struct {
	Name string
	// Path is the rendered file, empty when nothing was written.
	Path string
	// Data is the dataset the figure was drawn from.
	Data *models.Dataset
	Err  error
}

// Theme builds the theme of a job, applying overrides from opts.
func Theme(f *File, opts Options) (pubfig.Theme, error) {
	family := pubfig.SansSerif
	if f.Style.Font != "" {
		family = pubfig.FontFamily(f.Style.Font)
	}
	if opts.Font != "" {
		family = opts.Font
	}
	theme, err := pubfig.NewTheme(family)
	if err != nil {
		return pubfig.Theme{}, err
	}
	if f.Style.Format != "" {
		theme.Format = f.Style.Format
	}
	if opts.Format != "" {
		theme.Format = opts.Format
	}
	if f.Style.DPI > 0 {
		theme.DPI = f.Style.DPI
	}
	if f.Style.Grid != nil {
		theme.Grid = *f.Style.Grid
	}
	return theme, nil
}

// Render draws every figure of f. Data files are loaded once each. The
// returned error joins the failures of all figures.
func Render(f *File, opts Options) ([]Result, error) {
	theme, err := Theme(f, opts)
	if err != nil {
		return nil, err
	}
	outDir := f.dir
	if f.OutDir != "" {
		outDir = f.resolve(f.OutDir)
	}
	if opts.OutDir != "" {
		outDir = opts.OutDir
	}

	cache := make(map[Data]*models.Dataset)
	results := make([]Result, 0, len(f.Figures))
	var errs []error
	for _, fig := range f.Figures {
		res := Result{Name: fig.Name}

		data := fig.Data
		data.Path = f.resolve(data.Path)
		ds, ok := cache[data]
		if !ok {
			if ds, err = parser.Load(data.Path, data.LoadOptions); err != nil {
				res.Err = NewFigureError(fig.Name, "data", err)
			} else {
				cache[data] = ds
			}
		}
		res.Data = ds

		if res.Err == nil {
			out := filepath.Join(outDir, fig.Name+"."+theme.Format)
			if err := renderFigure(fig, ds, theme, out); err != nil {
				res.Err = NewFigureError(fig.Name, "render", err)
			} else if exists(out) {
				res.Path = out
				slog.Info("rendered figure", "name", fig.Name, "path", out)
			}
		}

		results = append(results, res)
		if res.Err != nil {
			errs = append(errs, res.Err)
			if !opts.ShouldKeepGoing() {
				break
			}
		}
	}
	return results, errors.Join(errs...)
}

// panel fills in the fields a job controls.
func panel(p pubfig.Panel, fig Figure, theme *pubfig.Theme, out string) (pubfig.Panel, error) {
	p.OutputPath = out
	p.Theme = theme
	if fig.Size != nil {
		w, err := parser.ParseLength(fig.Size.Width)
		if err != nil {
			return p, err
		}
		h, err := parser.ParseLength(fig.Size.Height)
		if err != nil {
			return p, err
		}
		p.Size = pubfig.Inches(w, h)
	}
	return p, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func or[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

func renderFigure(fig Figure, ds *models.Dataset, theme pubfig.Theme, out string) error {
	var err error
	switch fig.Template {
	case TemplateLine:
		cfg := or(fig.Line)
		if cfg.Panel, err = panel(cfg.Panel, fig, &theme, out); err != nil {
			return err
		}
		_, err = pubfig.LineComparison(ds, cfg)
	case TemplateBar:
		cfg := or(fig.Bar)
		if cfg.Panel, err = panel(cfg.Panel, fig, &theme, out); err != nil {
			return err
		}
		_, err = pubfig.GroupedBar(ds, cfg)
	case TemplateHeatmap:
		cfg := or(fig.Heatmap)
		if cfg.Panel, err = panel(cfg.Panel, fig, &theme, out); err != nil {
			return err
		}
		m, err := heatmapMatrix(ds, fig.Matrix, &cfg)
		if err != nil {
			return err
		}
		_, err = pubfig.Heatmap(m, cfg)
		return err
	case TemplateDistribution:
		cfg := or(fig.Distribution)
		if cfg.Panel, err = panel(cfg.Panel, fig, &theme, out); err != nil {
			return err
		}
		s, err := models.SeriesFrom(ds, fig.Column)
		if err != nil {
			return err
		}
		_, err = pubfig.Distribution(s, cfg)
		return err
	case TemplateComparison:
		cfg := or(fig.Comparison)
		if cfg.Panel, err = panel(cfg.Panel, fig, &theme, out); err != nil {
			return err
		}
		_, err = pubfig.DistributionComparison(ds, cfg)
	case TemplateStacked:
		cfg := or(fig.Stacked)
		if cfg.Panel, err = panel(cfg.Panel, fig, &theme, out); err != nil {
			return err
		}
		_, err = pubfig.StackedBar(ds, cfg)
	case TemplateContour:
		cfg := or(fig.Contour)
		if cfg.Panel, err = panel(cfg.Panel, fig, &theme, out); err != nil {
			return err
		}
		_, err = pubfig.Contour(ds, cfg)
	case TemplateDualAxis:
		cfg := or(fig.DualAxis)
		if cfg.Panel, err = panel(cfg.Panel, fig, &theme, out); err != nil {
			return err
		}
		_, err = pubfig.DualAxis(ds, cfg)
	case TemplateEmbedding:
		cfg := or(fig.Embedding)
		if cfg.Panel, err = panel(cfg.Panel, fig, &theme, out); err != nil {
			return err
		}
		features, err := models.MatrixFromColumns(ds, fig.Matrix.Columns)
		if err != nil {
			return err
		}
		labels, err := ds.Strings(fig.Matrix.LabelCol)
		if err != nil {
			return err
		}
		_, err = pubfig.Embedding(features, labels, cfg)
		return err
	default:
		return fmt.Errorf("%w: unknown template %q", ErrInvalidJob, fig.Template)
	}
	return err
}

// heatmapMatrix builds the heatmap input and fills in tick labels the
// config leaves empty.
func heatmapMatrix(ds *models.Dataset, spec *MatrixSpec, cfg *pubfig.HeatmapConfig) (mat.Matrix, error) {
	if spec.Correlation {
		m, err := models.Correlation(ds, spec.Columns)
		if err != nil {
			return nil, err
		}
		if len(cfg.XTickLabels) == 0 {
			cfg.XTickLabels = spec.Columns
		}
		if len(cfg.YTickLabels) == 0 {
			cfg.YTickLabels = spec.Columns
		}
		return m, nil
	}

	m, err := models.MatrixFromColumns(ds, spec.Columns)
	if err != nil {
		return nil, err
	}
	if len(cfg.XTickLabels) == 0 {
		cfg.XTickLabels = spec.Columns
	}
	if len(cfg.YTickLabels) == 0 && spec.LabelCol != "" {
		if cfg.YTickLabels, err = ds.Strings(spec.LabelCol); err != nil {
			return nil, err
		}
	}
	return m, nil
}
