package pubfig

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/vg"
)

func TestNewTheme(t *testing.T) {
	theme, err := NewTheme(Serif)
	require.NoError(t, err)
	assert.Equal(t, Serif, theme.Family)
	assert.Equal(t, vg.Points(10), theme.FontSize)
	assert.Equal(t, vg.Points(2), theme.PrimaryLineWidth)
	assert.Equal(t, vg.Points(1.5), theme.LineWidth)
	assert.Equal(t, 600, theme.DPI)
	assert.Equal(t, "pdf", theme.Format)
	assert.True(t, theme.Grid)
	require.NotNil(t, theme.Colors)

	_, err = NewTheme("comic-sans")
	assert.ErrorIs(t, err, ErrInvalidOption)
}

func TestSetPublicationStyle(t *testing.T) {
	defer func() { require.NoError(t, SetPublicationStyle(SansSerif)) }()

	require.NoError(t, SetPublicationStyle(Serif))
	assert.Equal(t, Serif, DefaultTheme().Family)

	err := SetPublicationStyle("comic-sans")
	assert.ErrorIs(t, err, ErrInvalidOption)
	assert.Equal(t, Serif, DefaultTheme().Family, "failed call must keep the previous default")
}

func TestDefaultThemeIsACopy(t *testing.T) {
	theme := DefaultTheme()
	theme.DPI = 1
	assert.Equal(t, 600, DefaultTheme().DPI)
}

func TestLatinModernRenders(t *testing.T) {
	theme, err := NewTheme(LatinModern)
	require.NoError(t, err)
	theme.DPI = 72
	assert.Equal(t, "LatinModern", string(theme.font(10).Typeface))

	fig, err := NewFigure(1, 1, Inches(3, 2), &theme)
	require.NoError(t, err)
	fig.Title = "Latin Modern"
	fig.Axes(0, 0).Plot.X.Label.Text = "epoch"

	path := filepath.Join(t.TempDir(), "lm.png")
	require.NoError(t, fig.Save(path))
	assert.FileExists(t, path)
}
