// Package pubfig renders consistently styled figures for academic papers.
//
// Each chart template takes its data and a typed config. Without an Axes in
// the config the template creates its own figure, saves it to OutputPath and
// returns nil. With an Axes it draws onto that panel and returns it, leaving
// the save to the caller that composes the figure.
package pubfig

import (
	"fmt"
	"regexp"
)

// Y-axis scales.
const (
	ScaleLinear = "linear"
	ScaleLog    = "log"
)

// Distribution comparison kinds.
const (
	KindViolin = "violin"
	KindBox    = "box"
)

// Contour interpolation methods.
const (
	MethodCubic  = "cubic"
	MethodLinear = "linear"
)

// Range is a closed axis interval.
type Range struct {
	Min float64 `yaml:"min" toml:"min"`
	Max float64 `yaml:"max" toml:"max"`
}

func (r *Range) validate(name string) error {
	if r != nil && !(r.Min < r.Max) {
		return fmt.Errorf("%w: %s range [%g, %g]", ErrInvalidOption, name, r.Min, r.Max)
	}
	return nil
}

// Panel holds the options shared by every template.
type Panel struct {
	Title  string `yaml:"title" toml:"title"`
	XLabel string `yaml:"x_label" toml:"x_label"`
	YLabel string `yaml:"y_label" toml:"y_label"`

	// OutputPath is required when Axes is nil.
	OutputPath string `yaml:"-" toml:"-"`
	// Size of a standalone figure. Zero uses the template default.
	Size Size `yaml:"-" toml:"-"`
	// Axes, when set, is borrowed instead of creating a figure.
	Axes *Axes `yaml:"-" toml:"-"`
	// Theme overrides the default theme.
	Theme *Theme `yaml:"-" toml:"-"`
}

func (p Panel) validate() error {
	if p.Axes == nil && p.OutputPath == "" {
		return fmt.Errorf("%w: output path is required for a standalone figure", ErrInvalidOption)
	}
	if !p.Size.IsZero() && (p.Size.Width <= 0 || p.Size.Height <= 0) {
		return fmt.Errorf("%w: figure size %vx%v", ErrInvalidOption, p.Size.Width, p.Size.Height)
	}
	return nil
}

// theme resolves the explicit theme, then the borrowed panel's theme, then
// the process default.
func (p Panel) theme() Theme {
	switch {
	case p.Theme != nil:
		return *p.Theme
	case p.Axes != nil:
		return p.Axes.theme
	}
	return DefaultTheme()
}

func (p Panel) surface(def Size, theme Theme) Surface {
	return provision(p.Axes, p.Size.or(def), theme)
}

// label sets the non-empty titles on a.
func (p Panel) label(a *Axes) {
	if p.Title != "" {
		a.Plot.Title.Text = p.Title
	}
	if p.XLabel != "" {
		a.Plot.X.Label.Text = p.XLabel
	}
	if p.YLabel != "" {
		a.Plot.Y.Label.Text = p.YLabel
	}
}

// LineConfig configures LineComparison.
type LineConfig struct {
	Panel `yaml:",inline"`

	XCol    string   `yaml:"x_col" toml:"x_col"`
	YCols   []string `yaml:"y_cols" toml:"y_cols"`
	YLabels []string `yaml:"y_labels" toml:"y_labels"`

	// Colors, LineStyles and Markers wrap around when shorter than YCols.
	Colors     []string `yaml:"colors" toml:"colors"`
	LineStyles []string `yaml:"line_styles" toml:"line_styles"`
	Markers    []string `yaml:"markers" toml:"markers"`
	// MarkEvery draws a marker on every n-th point.
	MarkEvery int `yaml:"mark_every" toml:"mark_every"`

	XLim   *Range `yaml:"x_lim" toml:"x_lim"`
	YLim   *Range `yaml:"y_lim" toml:"y_lim"`
	YScale string `yaml:"y_scale" toml:"y_scale"`

	// YErrorCols maps a y column to the column holding its error; the error
	// is drawn as a band of ±error around the line.
	YErrorCols map[string]string `yaml:"y_error_cols" toml:"y_error_cols"`
}

// LineRoles is the default color order of LineComparison.
var LineRoles = []string{"proposed", "sota", "baseline", "method_A", "method_B"}

// DefaultLineConfig returns the default line comparison options.
func DefaultLineConfig() LineConfig {
	return LineConfig{}.withDefaults()
}

func (c LineConfig) withDefaults() LineConfig {
	if len(c.Colors) == 0 {
		c.Colors = LineRoles
	}
	if len(c.LineStyles) == 0 {
		c.LineStyles = []string{"-", "--", ":", "-."}
	}
	if len(c.Markers) == 0 {
		c.Markers = []string{"o", "s", "^", "D"}
	}
	if c.MarkEvery <= 0 {
		c.MarkEvery = 10
	}
	if c.YScale == "" {
		c.YScale = ScaleLinear
	}
	return c
}

// BarConfig configures GroupedBar.
type BarConfig struct {
	Panel `yaml:",inline"`

	CategoryCol string   `yaml:"category_col" toml:"category_col"`
	ValueCols   []string `yaml:"value_cols" toml:"value_cols"`
	ValueLabels []string `yaml:"value_labels" toml:"value_labels"`
	// ErrorCols, when set, holds one error column per value column.
	ErrorCols []string `yaml:"error_cols" toml:"error_cols"`
	Colors    []string `yaml:"colors" toml:"colors"`
	// GroupWidth is the width of all bars of one category, in category units.
	GroupWidth float64 `yaml:"group_width" toml:"group_width"`
	YLim       *Range  `yaml:"y_lim" toml:"y_lim"`
}

// DefaultBarConfig returns the default grouped bar options.
func DefaultBarConfig() BarConfig {
	return BarConfig{}.withDefaults()
}

func (c BarConfig) withDefaults() BarConfig {
	if c.GroupWidth <= 0 {
		c.GroupWidth = 0.8
	}
	return c
}

// HeatmapConfig configures Heatmap.
type HeatmapConfig struct {
	Panel `yaml:",inline"`

	XTickLabels []string `yaml:"x_tick_labels" toml:"x_tick_labels"`
	YTickLabels []string `yaml:"y_tick_labels" toml:"y_tick_labels"`
	Colormap    string   `yaml:"colormap" toml:"colormap"`
	// Annotate writes each cell value. If nil, defaults to true.
	Annotate *bool `yaml:"annotate" toml:"annotate"`
	// ValueFormat is "d" for integers or ".Nf", ".Ne", ".Ng".
	ValueFormat   string `yaml:"value_format" toml:"value_format"`
	ColorbarLabel string `yaml:"colorbar_label" toml:"colorbar_label"`
}

// DefaultHeatmapConfig returns the default heatmap options.
func DefaultHeatmapConfig() HeatmapConfig {
	return HeatmapConfig{}.withDefaults()
}

func (c HeatmapConfig) withDefaults() HeatmapConfig {
	if c.Colormap == "" {
		c.Colormap = "viridis"
	}
	if c.ValueFormat == "" {
		c.ValueFormat = ".2f"
	}
	return c
}

// ShouldAnnotate returns whether cell values are written.
func (c HeatmapConfig) ShouldAnnotate() bool {
	if c.Annotate != nil {
		return *c.Annotate
	}
	return true
}

var valueFormatRe = regexp.MustCompile(`^\.(\d)([fegFEG])$`)

// valueVerb converts a ValueFormat into a fmt verb and whether values are
// rounded to integers first.
func valueVerb(format string) (verb string, integer bool, err error) {
	if format == "d" {
		return "%d", true, nil
	}
	m := valueFormatRe.FindStringSubmatch(format)
	if m == nil {
		return "", false, fmt.Errorf("%w: value format %q", ErrInvalidOption, format)
	}
	return "%." + m[1] + m[2], false, nil
}

// DistributionConfig configures Distribution.
type DistributionConfig struct {
	Panel `yaml:",inline"`

	Bins int `yaml:"bins" toml:"bins"`
	// ShowHist and ShowKDE default to true when nil.
	ShowHist *bool  `yaml:"show_hist" toml:"show_hist"`
	ShowKDE  *bool  `yaml:"show_kde" toml:"show_kde"`
	Color    string `yaml:"color" toml:"color"`
}

// DefaultDistributionConfig returns the default distribution options.
func DefaultDistributionConfig() DistributionConfig {
	return DistributionConfig{}.withDefaults()
}

func (c DistributionConfig) withDefaults() DistributionConfig {
	if c.Bins <= 0 {
		c.Bins = 30
	}
	if c.Color == "" {
		c.Color = "sota"
	}
	return c
}

// ShouldShowHist returns whether the histogram is drawn.
func (c DistributionConfig) ShouldShowHist() bool {
	if c.ShowHist != nil {
		return *c.ShowHist
	}
	return true
}

// ShouldShowKDE returns whether the density curve is drawn.
func (c DistributionConfig) ShouldShowKDE() bool {
	if c.ShowKDE != nil {
		return *c.ShowKDE
	}
	return true
}

// ComparisonConfig configures DistributionComparison.
type ComparisonConfig struct {
	Panel `yaml:",inline"`

	// XCol holds the category of each row, YCol its value.
	XCol string `yaml:"x_col" toml:"x_col"`
	YCol string `yaml:"y_col" toml:"y_col"`
	Kind string `yaml:"kind" toml:"kind"`
	// HueCol optionally splits each category by a second column. Two hue
	// levels draw split violins; otherwise the shapes are dodged side by
	// side.
	HueCol string `yaml:"hue_col" toml:"hue_col"`
	// Palette maps a category, or a hue level when HueCol is set, to a
	// color. Unmapped keys cycle the palette slots.
	Palette map[string]string `yaml:"palette" toml:"palette"`
}

// DefaultComparisonConfig returns the default comparison options.
func DefaultComparisonConfig() ComparisonConfig {
	return ComparisonConfig{}.withDefaults()
}

func (c ComparisonConfig) withDefaults() ComparisonConfig {
	if c.Kind == "" {
		c.Kind = KindViolin
	}
	return c
}

// StackedConfig configures StackedBar.
type StackedConfig struct {
	Panel `yaml:",inline"`

	CategoryCol   string   `yaml:"category_col" toml:"category_col"`
	ComponentCols []string `yaml:"component_cols" toml:"component_cols"`
	// Percent rescales each row to sum to 100.
	Percent bool `yaml:"percent" toml:"percent"`
	// Palette maps a component to a color. Unmapped components cycle the
	// palette slots.
	Palette  map[string]string `yaml:"palette" toml:"palette"`
	BarWidth float64           `yaml:"bar_width" toml:"bar_width"`
}

// DefaultStackedConfig returns the default stacked bar options.
func DefaultStackedConfig() StackedConfig {
	return StackedConfig{}.withDefaults()
}

func (c StackedConfig) withDefaults() StackedConfig {
	if c.BarWidth <= 0 {
		c.BarWidth = 0.6
	}
	return c
}

// ContourConfig configures Contour.
type ContourConfig struct {
	Panel `yaml:",inline"`

	XCol string `yaml:"x_col" toml:"x_col"`
	YCol string `yaml:"y_col" toml:"y_col"`
	ZCol string `yaml:"z_col" toml:"z_col"`
	// Gridded marks samples that already lie on a full rectangular grid.
	Gridded bool `yaml:"gridded" toml:"gridded"`
	// Resolution is the number of grid nodes per side for scattered input.
	Resolution int    `yaml:"resolution" toml:"resolution"`
	Levels     int    `yaml:"levels" toml:"levels"`
	Method     string `yaml:"method" toml:"method"`
	ShowPoints bool   `yaml:"show_points" toml:"show_points"`

	Colormap      string `yaml:"colormap" toml:"colormap"`
	ColorbarLabel string `yaml:"colorbar_label" toml:"colorbar_label"`
}

// DefaultContourConfig returns the default contour options.
func DefaultContourConfig() ContourConfig {
	return ContourConfig{}.withDefaults()
}

func (c ContourConfig) withDefaults() ContourConfig {
	if c.Resolution <= 0 {
		c.Resolution = 100
	}
	if c.Levels <= 0 {
		c.Levels = 15
	}
	if c.Method == "" {
		c.Method = MethodCubic
	}
	if c.Colormap == "" {
		c.Colormap = "viridis"
	}
	return c
}

// DualAxisConfig configures DualAxis.
type DualAxisConfig struct {
	Panel `yaml:",inline"`

	XCol    string      `yaml:"x_col" toml:"x_col"`
	Y1Col   string      `yaml:"y1_col" toml:"y1_col"`
	Y2Col   string      `yaml:"y2_col" toml:"y2_col"`
	Y1Label string      `yaml:"y1_label" toml:"y1_label"`
	Y2Label string      `yaml:"y2_label" toml:"y2_label"`
	Y1Color string      `yaml:"y1_color" toml:"y1_color"`
	Y2Color string      `yaml:"y2_color" toml:"y2_color"`
	Y1Style SeriesStyle `yaml:"y1_style" toml:"y1_style"`
	Y2Style SeriesStyle `yaml:"y2_style" toml:"y2_style"`
}

// DefaultDualAxisConfig returns the default dual-axis options.
func DefaultDualAxisConfig() DualAxisConfig {
	return DualAxisConfig{}.withDefaults()
}

func (c DualAxisConfig) withDefaults() DualAxisConfig {
	if c.Y1Color == "" {
		c.Y1Color = "blue"
	}
	if c.Y2Color == "" {
		c.Y2Color = "red"
	}
	if c.Y1Style == (SeriesStyle{}) {
		c.Y1Style = SeriesStyle{LineStyle: "-", Marker: "o"}
	}
	if c.Y2Style == (SeriesStyle{}) {
		c.Y2Style = SeriesStyle{LineStyle: "--", Marker: "s"}
	}
	return c
}

// EmbeddingConfig configures Embedding.
type EmbeddingConfig struct {
	Panel `yaml:",inline"`

	Perplexity   float64 `yaml:"perplexity" toml:"perplexity"`
	Iterations   int     `yaml:"iterations" toml:"iterations"`
	Seed         uint64  `yaml:"seed" toml:"seed"`
	LearningRate float64 `yaml:"learning_rate" toml:"learning_rate"`
	// Palette maps a label to a color. Unmapped labels cycle the palette
	// slots in sorted label order.
	Palette map[string]string `yaml:"palette" toml:"palette"`
}

// DefaultEmbeddingConfig returns the default embedding options.
func DefaultEmbeddingConfig() EmbeddingConfig {
	return EmbeddingConfig{}.withDefaults()
}

func (c EmbeddingConfig) withDefaults() EmbeddingConfig {
	if c.Perplexity <= 0 {
		c.Perplexity = 30
	}
	if c.Iterations <= 0 {
		c.Iterations = 1000
	}
	if c.Seed == 0 {
		c.Seed = 42
	}
	return c
}
