package pubfig

import (
	"fmt"
	"image/color"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/go-fonts/latin-modern/lmroman10regular"
	"golang.org/x/image/font/opentype"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// FontFamily selects the typeface used for every text element.
type FontFamily string

const (
	// Serif renders text in Liberation Serif, a Times New Roman metric clone.
	Serif FontFamily = "serif"
	// SansSerif renders text in Liberation Sans, an Arial metric clone.
	SansSerif FontFamily = "sans-serif"
	// LatinModern renders text in Latin Modern Roman to match LaTeX documents.
	LatinModern FontFamily = "latin-modern"
)

// Theme holds the rendering defaults applied to every new figure.
// A Theme is a value; changing a copy never affects figures already created.
type Theme struct {
	Family FontFamily

	FontSize        vg.Length
	LabelSize       vg.Length
	TitleSize       vg.Length
	TickSize        vg.Length
	LegendSize      vg.Length
	FigureTitleSize vg.Length

	LineWidth        vg.Length
	PrimaryLineWidth vg.Length
	MarkerSize       vg.Length
	AxisLineWidth    vg.Length

	// Ticks point into the data area on all four sides.
	MajorTickLength vg.Length
	MinorTickLength vg.Length

	Grid      bool
	GridColor color.Color
	GridWidth vg.Length

	DPI    int
	Format string

	Colors *ColorPolicy
}

// NewTheme returns the publication theme for the given font family.
func NewTheme(family FontFamily) (Theme, error) {
	switch family {
	case Serif, SansSerif:
	case LatinModern:
		if err := registerLatinModern(); err != nil {
			return Theme{}, fmt.Errorf("loading latin modern: %w", err)
		}
	default:
		return Theme{}, fmt.Errorf("%w: font family %q", ErrInvalidOption, family)
	}
	colors, err := DefaultColorPolicy()
	if err != nil {
		return Theme{}, err
	}
	return Theme{
		Family:           family,
		FontSize:         vg.Points(10),
		LabelSize:        vg.Points(10),
		TitleSize:        vg.Points(11),
		TickSize:         vg.Points(9),
		LegendSize:       vg.Points(9),
		FigureTitleSize:  vg.Points(12),
		LineWidth:        vg.Points(1.5),
		PrimaryLineWidth: vg.Points(2),
		MarkerSize:       vg.Points(5),
		AxisLineWidth:    vg.Points(1),
		MajorTickLength:  vg.Points(5),
		MinorTickLength:  vg.Points(3),
		Grid:             true,
		GridColor:        color.RGBA{R: 0xd3, G: 0xd3, B: 0xd3, A: 0xff},
		GridWidth:        vg.Points(0.6),
		DPI:              600,
		Format:           "pdf",
		Colors:           colors,
	}, nil
}

var defaultTheme atomic.Pointer[Theme]

func init() {
	t, err := NewTheme(SansSerif)
	if err != nil {
		panic(err)
	}
	defaultTheme.Store(&t)
}

// DefaultTheme returns a copy of the process-wide default theme.
func DefaultTheme() Theme {
	return *defaultTheme.Load()
}

// SetPublicationStyle replaces the process-wide default theme. An unknown
// family returns ErrInvalidOption and keeps the previous default.
func SetPublicationStyle(family FontFamily) error {
	t, err := NewTheme(family)
	if err != nil {
		return err
	}
	defaultTheme.Store(&t)
	slog.Debug("publication style set", "family", family)
	return nil
}

// WithColors returns a copy of t using the given color policy.
func (t Theme) WithColors(p *ColorPolicy) Theme {
	t.Colors = p
	return t
}

var latinModernFont = font.Font{Typeface: "LatinModern", Variant: "Roman"}

var (
	latinModernOnce sync.Once
	latinModernErr  error
)

func registerLatinModern() error {
	latinModernOnce.Do(func() {
		face, err := opentype.Parse(lmroman10regular.TTF)
		if err != nil {
			latinModernErr = err
			return
		}
		font.DefaultCache.Add(font.Collection{{Font: latinModernFont, Face: face}})
	})
	return latinModernErr
}

// font returns the theme's typeface at the given size.
func (t Theme) font(size vg.Length) font.Font {
	var f font.Font
	switch t.Family {
	case Serif:
		f = font.Font{Typeface: "Liberation", Variant: "Serif"}
	case LatinModern:
		f = latinModernFont
	default:
		f = font.Font{Typeface: "Liberation", Variant: "Sans"}
	}
	f.Size = size
	return f
}

// newPlot returns a plot styled by the theme.
func (t Theme) newPlot() *plot.Plot {
	p := plot.New()
	p.Title.TextStyle.Font = t.font(t.TitleSize)

	axisLine := draw.LineStyle{Color: color.Black, Width: t.AxisLineWidth}
	for _, ax := range []*plot.Axis{&p.X, &p.Y} {
		ax.Label.TextStyle.Font = t.font(t.LabelSize)
		ax.Tick.Label.Font = t.font(t.TickSize)
		ax.LineStyle = axisLine
		ax.Padding = 0
		// Inward ticks are drawn with the frame; the axis keeps only a gap
		// between the spine and its labels.
		ax.Tick.Length = vg.Points(3)
		ax.Tick.LineStyle.Color = color.Transparent
	}

	p.Legend.TextStyle.Font = t.font(t.LegendSize)
	p.Legend.Top = true
	p.Legend.Padding = vg.Points(2)
	p.Legend.ThumbnailWidth = vg.Points(18)
	p.Legend.XOffs = -vg.Points(4)
	p.Legend.YOffs = -vg.Points(4)

	if t.Grid {
		g := plotter.NewGrid()
		style := draw.LineStyle{
			Color:  t.GridColor,
			Width:  t.GridWidth,
			Dashes: []vg.Length{t.GridWidth, 1.65 * t.GridWidth},
		}
		g.Vertical = style
		g.Horizontal = style
		p.Add(g)
	}
	return p
}
