package pubfig

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/pubfig-go/pkg/pubfig/models"
)

func breakdown(t *testing.T) *models.Dataset {
	t.Helper()
	ds := models.NewDataset("breakdown")
	require.NoError(t, ds.AddStrings("algorithm", []string{"Baseline", "Ours", "Idle"}))
	require.NoError(t, ds.AddFloats("propagation", []float64{10, 10, 0}))
	require.NoError(t, ds.AddFloats("queuing", []float64{5, math.NaN(), 0}))
	require.NoError(t, ds.AddFloats("processing", []float64{5, 2, 0}))
	return ds
}

func TestPercentRows(t *testing.T) {
	got := percentRows([][]float64{{1, 3}, {0, 0}, {2, 2}})
	assert.Equal(t, [][]float64{{25, 75}, {0, 0}, {50, 50}}, got)
}

func TestStackedBar(t *testing.T) {
	components := []string{"propagation", "queuing", "processing"}

	t.Run("owned", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "breakdown.png")
		cfg := StackedConfig{
			Panel:         Panel{OutputPath: path, YLabel: "Latency (ms)", Theme: testTheme()},
			CategoryCol:   "algorithm",
			ComponentCols: components,
			Palette:       map[string]string{"queuing": "proposed"},
		}
		_, err := StackedBar(breakdown(t), cfg)
		require.NoError(t, err)
		assert.FileExists(t, path)
	})

	t.Run("absolute", func(t *testing.T) {
		ax, err := StackedBar(breakdown(t), StackedConfig{Panel: Panel{Axes: borrowedAxes(t)}, CategoryCol: "algorithm", ComponentCols: components})
		require.NoError(t, err)
		assert.Equal(t, [][]float64{{10, 5, 5}, {10, 0, 2}, {0, 0, 0}}, ax.Stacks, "missing values stack as zero")
		assert.InDelta(t, 20, ax.Plot.Y.Max, 1e-12)
	})

	t.Run("percent", func(t *testing.T) {
		cfg := StackedConfig{
			Panel:         Panel{Axes: borrowedAxes(t), YLabel: "Share"},
			CategoryCol:   "algorithm",
			ComponentCols: components,
			Percent:       true,
		}
		ax, err := StackedBar(breakdown(t), cfg)
		require.NoError(t, err)
		require.Len(t, ax.Stacks, 3)
		for _, row := range ax.Stacks[:2] {
			var sum float64
			for _, v := range row {
				sum += v
			}
			assert.InDelta(t, 100, sum, 1e-9)
		}
		assert.Equal(t, []float64{0, 0, 0}, ax.Stacks[2])
		assert.Equal(t, "Share (%)", ax.Plot.Y.Label.Text)
		assert.Equal(t, 100.0, ax.Plot.Y.Max)
	})

	t.Run("missing column", func(t *testing.T) {
		_, err := StackedBar(breakdown(t), StackedConfig{Panel: Panel{Axes: borrowedAxes(t)}, CategoryCol: "algorithm", ComponentCols: []string{"nope"}})
		assert.ErrorIs(t, err, models.ErrColumnNotFound)
	})
}
