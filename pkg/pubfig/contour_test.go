package pubfig

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/pubfig-go/pkg/pubfig/grid"
	"github.com/ukaji3/pubfig-go/pkg/pubfig/models"
)

func surfaceSamples(t *testing.T, gridded bool) *models.Dataset {
	t.Helper()
	var xs, ys, zs []float64
	if gridded {
		for i := 0; i < 6; i++ {
			for j := 0; j < 5; j++ {
				x, y := float64(i), float64(j)
				xs, ys, zs = append(xs, x), append(ys, y), append(zs, x*x-y*y)
			}
		}
	} else {
		xs = normalSamples(40, 0, 1, 9)
		ys = normalSamples(40, 0, 1, 11)
		for i := range xs {
			zs = append(zs, xs[i]*xs[i]-ys[i]*ys[i])
		}
	}
	ds := models.NewDataset("surface")
	require.NoError(t, ds.AddFloats("lr", xs))
	require.NoError(t, ds.AddFloats("batch", ys))
	require.NoError(t, ds.AddFloats("loss", zs))
	return ds
}

func TestContour(t *testing.T) {
	base := ContourConfig{XCol: "lr", YCol: "batch", ZCol: "loss", Resolution: 25, ColorbarLabel: "Loss"}

	t.Run("scattered", func(t *testing.T) {
		cfg := base
		cfg.Panel = Panel{OutputPath: filepath.Join(t.TempDir(), "scattered.png"), Theme: testTheme()}
		cfg.ShowPoints = true
		_, err := Contour(surfaceSamples(t, false), cfg)
		require.NoError(t, err)
		assert.FileExists(t, cfg.OutputPath)
	})

	t.Run("gridded", func(t *testing.T) {
		cfg := base
		cfg.Panel = Panel{OutputPath: filepath.Join(t.TempDir(), "gridded.png"), Theme: testTheme()}
		cfg.Gridded = true
		cfg.Levels = 8
		cfg.Colormap = "magma"
		_, err := Contour(surfaceSamples(t, true), cfg)
		require.NoError(t, err)
		assert.FileExists(t, cfg.OutputPath)
	})

	t.Run("gridded with blank cell", func(t *testing.T) {
		xs := []float64{math.NaN(), 0, 1, 2, 0, 1, 2}
		ys := []float64{0, 0, 0, 0, 1, 1, 1}
		zs := []float64{9, 1, 2, 3, 4, 5, 6}
		ds := models.NewDataset("blank")
		require.NoError(t, ds.AddFloats("lr", xs))
		require.NoError(t, ds.AddFloats("batch", ys))
		require.NoError(t, ds.AddFloats("loss", zs))

		cfg := base
		cfg.Panel = Panel{Axes: borrowedAxes(t)}
		cfg.Gridded = true
		ax, err := Contour(ds, cfg)
		require.NoError(t, err)
		assert.Equal(t, 0.0, ax.Plot.X.Min)
		assert.Equal(t, 2.0, ax.Plot.X.Max)
		assert.Equal(t, 1.0, ax.Plot.Y.Max)
	})

	t.Run("borrowed extent", func(t *testing.T) {
		cfg := base
		cfg.Panel = Panel{Axes: borrowedAxes(t)}
		cfg.Gridded = true
		cfg.Method = MethodLinear
		ax, err := Contour(surfaceSamples(t, true), cfg)
		require.NoError(t, err)
		assert.Equal(t, 0.0, ax.Plot.X.Min)
		assert.Equal(t, 5.0, ax.Plot.X.Max)
		assert.Equal(t, 4.0, ax.Plot.Y.Max)
		assert.Len(t, ax.decorations, 1)
	})
}

func TestContourErrors(t *testing.T) {
	cfg := ContourConfig{Panel: Panel{Axes: borrowedAxes(t)}, XCol: "lr", YCol: "batch", ZCol: "loss", Method: "nearest"}
	_, err := Contour(surfaceSamples(t, true), cfg)
	assert.ErrorIs(t, err, ErrInvalidOption)

	line := models.NewDataset("line")
	require.NoError(t, line.AddFloats("lr", []float64{1, 2, 3, 4}))
	require.NoError(t, line.AddFloats("batch", []float64{1, 2, 3, 4}))
	require.NoError(t, line.AddFloats("loss", []float64{1, 2, 3, 4}))
	cfg.Method = MethodCubic
	_, err = Contour(line, cfg)
	require.ErrorIs(t, err, grid.ErrTooFewPoints)
	var te *TemplateError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, StageTransform, te.Stage)
}
