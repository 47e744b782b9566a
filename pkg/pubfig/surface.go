package pubfig

import (
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Size is a figure size.
type Size struct {
	Width, Height vg.Length
}

// Inches returns a Size of w by h inches.
func Inches(w, h float64) Size {
	return Size{Width: vg.Length(w) * vg.Inch, Height: vg.Length(h) * vg.Inch}
}

// IsZero reports whether s is unset.
func (s Size) IsZero() bool { return s.Width == 0 && s.Height == 0 }

func (s Size) or(def Size) Size {
	if s.IsZero() {
		return def
	}
	return s
}

// Figure is a grid of panels saved together.
type Figure struct {
	Rows, Cols int
	Size       Size
	Theme      Theme
	// Title is drawn centered above all panels.
	Title string

	axes []*Axes
}

// NewFigure creates a rows×cols figure. A nil theme uses DefaultTheme.
func NewFigure(rows, cols int, size Size, theme *Theme) (*Figure, error) {
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("%w: figure grid %dx%d", ErrInvalidOption, rows, cols)
	}
	if size.Width <= 0 || size.Height <= 0 {
		return nil, fmt.Errorf("%w: figure size %vx%v", ErrInvalidOption, size.Width, size.Height)
	}
	return newFigure(rows, cols, size, resolveTheme(theme)), nil
}

func newFigure(rows, cols int, size Size, theme Theme) *Figure {
	f := &Figure{Rows: rows, Cols: cols, Size: size, Theme: theme}
	f.axes = make([]*Axes, rows*cols)
	for i := range f.axes {
		f.axes[i] = &Axes{Plot: theme.newPlot(), figure: f, theme: theme, frame: true}
	}
	return f
}

func resolveTheme(t *Theme) Theme {
	if t != nil {
		return *t
	}
	return DefaultTheme()
}

// Axes returns the panel at row r and column c, or nil when out of range.
func (f *Figure) Axes(r, c int) *Axes {
	if r < 0 || r >= f.Rows || c < 0 || c >= f.Cols {
		return nil
	}
	return f.axes[r*f.Cols+c]
}

// Save renders every panel to path. The format follows the file extension;
// a path without one gets the theme's default format appended.
func (f *Figure) Save(path string) error {
	format := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if format == "" {
		format = f.Theme.Format
		path += "." + format
	}
	cw, err := f.canvas(format)
	if err != nil {
		return err
	}
	f.Draw(draw.New(cw))

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := cw.WriteTo(out); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	slog.Debug("figure saved", "path", path, "format", format)
	return nil
}

func (f *Figure) canvas(format string) (vg.CanvasWriterTo, error) {
	raster := func() *vgimg.Canvas {
		return vgimg.NewWith(vgimg.UseWH(f.Size.Width, f.Size.Height), vgimg.UseDPI(f.Theme.DPI))
	}
	switch format {
	case "png":
		return vgimg.PngCanvas{Canvas: raster()}, nil
	case "jpg", "jpeg":
		return vgimg.JpegCanvas{Canvas: raster()}, nil
	case "tif", "tiff":
		return vgimg.TiffCanvas{Canvas: raster()}, nil
	case "pdf", "svg", "eps":
		return draw.NewFormattedCanvas(f.Size.Width, f.Size.Height, format)
	}
	return nil, fmt.Errorf("%w: output format %q", ErrInvalidOption, format)
}

// Draw renders the figure onto c.
func (f *Figure) Draw(c draw.Canvas) {
	c.SetColor(color.White)
	c.Fill(c.Rectangle.Path())

	if f.Title != "" {
		sty := text.Style{
			Color:   color.Black,
			Font:    f.Theme.font(f.Theme.FigureTitleSize),
			XAlign:  draw.XCenter,
			YAlign:  draw.YTop,
			Handler: plot.DefaultTextHandler,
		}
		c.FillText(sty, vg.Point{X: (c.Min.X + c.Max.X) / 2, Y: c.Max.Y - vg.Points(2)}, f.Title)
		c.Max.Y -= sty.Height(f.Title) + vg.Points(6)
	}

	pad := vg.Points(4)
	tiles := draw.Tiles{
		Rows: f.Rows, Cols: f.Cols,
		PadX: 4 * pad, PadY: 3 * pad,
		PadTop: pad, PadBottom: pad, PadLeft: pad, PadRight: 2 * pad,
	}
	for i, ax := range f.axes {
		ax.draw(tiles.At(c, i%f.Cols, i/f.Cols))
	}
}

// Lifecycle records who saves a drawing surface.
type Lifecycle int

const (
	// Owned surfaces are created, saved and released by the template call.
	Owned Lifecycle = iota
	// Borrowed surfaces belong to a caller composing a multi-panel figure.
	Borrowed
)

func (l Lifecycle) String() string {
	switch l {
	case Owned:
		return "owned"
	case Borrowed:
		return "borrowed"
	}
	return fmt.Sprintf("Lifecycle(%d)", int(l))
}

// Surface is the figure and axes a template draws on.
type Surface struct {
	Lifecycle Lifecycle
	Figure    *Figure
	Axes      *Axes
}

// provision reuses existing when given and otherwise creates a fresh 1×1
// figure of the given size.
func provision(existing *Axes, size Size, theme Theme) Surface {
	if existing != nil {
		return Surface{Lifecycle: Borrowed, Figure: existing.figure, Axes: existing}
	}
	f := newFigure(1, 1, size, theme)
	return Surface{Lifecycle: Owned, Figure: f, Axes: f.axes[0]}
}

// finish saves and releases an owned surface, returning nil axes. A borrowed
// surface is returned untouched for the caller to save.
func (s Surface) finish(path string) (*Axes, error) {
	switch s.Lifecycle {
	case Owned:
		if err := s.Figure.Save(path); err != nil {
			return nil, err
		}
		return nil, nil
	case Borrowed:
		return s.Axes, nil
	}
	return nil, fmt.Errorf("unknown surface lifecycle %v", s.Lifecycle)
}
