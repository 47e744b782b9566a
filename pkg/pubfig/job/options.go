// Package job renders batches of figures described in YAML or TOML files.
package job

import (
	"fmt"
	"strings"

	"github.com/ukaji3/pubfig-go/pkg/pubfig"
	"github.com/ukaji3/pubfig-go/pkg/pubfig/parser"
)

// Template names the chart template of a figure.
type Template string

const (
	TemplateLine         Template = "line"
	TemplateBar          Template = "bar"
	TemplateHeatmap      Template = "heatmap"
	TemplateDistribution Template = "distribution"
	TemplateComparison   Template = "comparison"
	TemplateStacked      Template = "stacked"
	TemplateContour      Template = "contour"
	TemplateDualAxis     Template = "dual_axis"
	TemplateEmbedding    Template = "embedding"
)

// File is a parsed job file.
type File struct {
	Style   Style    `yaml:"style" toml:"style"`
	OutDir  string   `yaml:"out_dir" toml:"out_dir"`
	Figures []Figure `yaml:"figures" toml:"figures"`

	// dir is the job file's directory. Relative paths resolve against it.
	dir string
}

// Style selects the theme shared by every figure of a job.
type Style struct {
	Font   string `yaml:"font" toml:"font"`
	Format string `yaml:"format" toml:"format"`
	DPI    int    `yaml:"dpi" toml:"dpi"`
	// Grid draws dotted gridlines. If nil, defaults to true.
	Grid *bool `yaml:"grid" toml:"grid"`
}

// Data locates the dataset of a figure.
type Data struct {
	Path               string `yaml:"path" toml:"path"`
	parser.LoadOptions `yaml:",inline"`
}

// Dimensions is a figure size with unit suffixes, such as "3.5in" or "8.9cm".
type Dimensions struct {
	Width  string `yaml:"width" toml:"width"`
	Height string `yaml:"height" toml:"height"`
}

// MatrixSpec builds a matrix from dataset columns for the heatmap and
// embedding templates.
type MatrixSpec struct {
	Columns []string `yaml:"columns" toml:"columns"`
	// LabelCol names the column holding row labels.
	LabelCol string `yaml:"label_col" toml:"label_col"`
	// Correlation replaces the columns by their correlation matrix.
	Correlation bool `yaml:"correlation" toml:"correlation"`
}

// Figure is one figure of a job. Only the block matching Template may be set.
type Figure struct {
	Name     string      `yaml:"name" toml:"name"`
	Template Template    `yaml:"template" toml:"template"`
	Data     Data        `yaml:"data" toml:"data"`
	Size     *Dimensions `yaml:"size" toml:"size"`
	// Column is the series drawn by the distribution template.
	Column string      `yaml:"column" toml:"column"`
	Matrix *MatrixSpec `yaml:"matrix" toml:"matrix"`

	Line         *pubfig.LineConfig         `yaml:"line" toml:"line"`
	Bar          *pubfig.BarConfig          `yaml:"bar" toml:"bar"`
	Heatmap      *pubfig.HeatmapConfig      `yaml:"heatmap" toml:"heatmap"`
	Distribution *pubfig.DistributionConfig `yaml:"distribution" toml:"distribution"`
	Comparison   *pubfig.ComparisonConfig   `yaml:"comparison" toml:"comparison"`
	Stacked      *pubfig.StackedConfig      `yaml:"stacked" toml:"stacked"`
	Contour      *pubfig.ContourConfig      `yaml:"contour" toml:"contour"`
	DualAxis     *pubfig.DualAxisConfig     `yaml:"dual_axis" toml:"dual_axis"`
	Embedding    *pubfig.EmbeddingConfig    `yaml:"embedding" toml:"embedding"`
}

// blocks returns the set config blocks by template.
func (f Figure) blocks() map[Template]bool {
	return map[Template]bool{
		TemplateLine:         f.Line != nil,
		TemplateBar:          f.Bar != nil,
		TemplateHeatmap:      f.Heatmap != nil,
		TemplateDistribution: f.Distribution != nil,
		TemplateComparison:   f.Comparison != nil,
		TemplateStacked:      f.Stacked != nil,
		TemplateContour:      f.Contour != nil,
		TemplateDualAxis:     f.DualAxis != nil,
		TemplateEmbedding:    f.Embedding != nil,
	}
}

func (f Figure) validate() error {
	if f.Name == "" {
		return fmt.Errorf("%w: figure without a name", ErrInvalidJob)
	}
	if strings.ContainsAny(f.Name, `/\`) {
		return fmt.Errorf("%w: figure name %q contains a path separator", ErrInvalidJob, f.Name)
	}
	blocks := f.blocks()
	if _, ok := blocks[f.Template]; !ok {
		return fmt.Errorf("%w: figure %q: unknown template %q", ErrInvalidJob, f.Name, f.Template)
	}
	for t, set := range blocks {
		if set && t != f.Template {
			return fmt.Errorf("%w: figure %q uses template %q but sets a %q block", ErrInvalidJob, f.Name, f.Template, t)
		}
	}
	if f.Data.Path == "" {
		return fmt.Errorf("%w: figure %q has no data path", ErrInvalidJob, f.Name)
	}
	switch f.Template {
	case TemplateDistribution:
		if f.Column == "" {
			return fmt.Errorf("%w: figure %q needs a column", ErrInvalidJob, f.Name)
		}
	case TemplateHeatmap, TemplateEmbedding:
		if f.Matrix == nil || len(f.Matrix.Columns) == 0 {
			return fmt.Errorf("%w: figure %q needs matrix columns", ErrInvalidJob, f.Name)
		}
		if f.Template == TemplateEmbedding && f.Matrix.LabelCol == "" {
			return fmt.Errorf("%w: figure %q needs a matrix label column", ErrInvalidJob, f.Name)
		}
	}
	return nil
}

// Options configures Render.
type Options struct {
	// OutDir overrides the job file's output directory.
	OutDir string
	// Font and Format override the job file's style when set.
	Font   pubfig.FontFamily
	Format string
	// KeepGoing renders the remaining figures after one fails.
	// If nil, defaults to true.
	KeepGoing *bool
}

// DefaultOptions returns default render options.
func DefaultOptions() Options {
	return Options{}
}

// ShouldKeepGoing returns whether rendering continues past a failed figure.
func (o Options) ShouldKeepGoing() bool {
	if o.KeepGoing != nil {
		return *o.KeepGoing
	}
	return true
}
