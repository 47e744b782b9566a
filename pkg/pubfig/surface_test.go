package pubfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testTheme renders quickly: low DPI raster output.
func testTheme() *Theme {
	t := DefaultTheme()
	t.DPI = 72
	t.Format = "png"
	return &t
}

// borrowedAxes returns the single panel of a fresh figure.
func borrowedAxes(t *testing.T) *Axes {
	t.Helper()
	fig, err := NewFigure(1, 1, Inches(4, 3), testTheme())
	require.NoError(t, err)
	return fig.Axes(0, 0)
}

func TestNewFigure(t *testing.T) {
	fig, err := NewFigure(2, 3, Inches(7, 4), nil)
	require.NoError(t, err)
	assert.NotNil(t, fig.Axes(1, 2))
	assert.Nil(t, fig.Axes(2, 0))
	assert.Nil(t, fig.Axes(0, -1))
	assert.Same(t, fig, fig.Axes(0, 1).Figure())
	assert.Equal(t, DefaultTheme().Family, fig.Theme.Family)

	_, err = NewFigure(0, 1, Inches(1, 1), nil)
	assert.ErrorIs(t, err, ErrInvalidOption)
	_, err = NewFigure(1, 1, Size{}, nil)
	assert.ErrorIs(t, err, ErrInvalidOption)
}

func TestFigureSave(t *testing.T) {
	dir := t.TempDir()
	fig, err := NewFigure(1, 2, Inches(4, 2), testTheme())
	require.NoError(t, err)
	fig.Title = "Two panels"

	t.Run("default format", func(t *testing.T) {
		base := filepath.Join(dir, "nested", "fig")
		require.NoError(t, fig.Save(base))
		assert.FileExists(t, base+".png")
	})

	for _, ext := range []string{"pdf", "svg", "eps", "jpg", "tiff"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(dir, "fig."+ext)
			require.NoError(t, fig.Save(path))
			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Positive(t, info.Size())
		})
	}

	t.Run("unknown format", func(t *testing.T) {
		err := fig.Save(filepath.Join(dir, "fig.bmp"))
		assert.ErrorIs(t, err, ErrInvalidOption)
	})
}

func TestSurfaceLifecycle(t *testing.T) {
	theme := *testTheme()

	owned := provision(nil, Inches(2, 2), theme)
	assert.Equal(t, Owned, owned.Lifecycle)
	assert.Equal(t, "owned", owned.Lifecycle.String())
	path := filepath.Join(t.TempDir(), "owned.png")
	ax, err := owned.finish(path)
	require.NoError(t, err)
	assert.Nil(t, ax)
	assert.FileExists(t, path)

	existing := borrowedAxes(t)
	borrowed := provision(existing, Inches(9, 9), theme)
	assert.Equal(t, Borrowed, borrowed.Lifecycle)
	assert.Equal(t, "borrowed", borrowed.Lifecycle.String())
	assert.Same(t, existing.Figure(), borrowed.Figure)
	ax, err = borrowed.finish("ignored.png")
	require.NoError(t, err)
	assert.Same(t, existing, ax)
	assert.NoFileExists(t, "ignored.png")
}
