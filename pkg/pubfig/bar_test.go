package pubfig

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/pubfig-go/pkg/pubfig/models"
	"gonum.org/v1/plot"
)

func perf(t *testing.T) *models.Dataset {
	t.Helper()
	ds := models.NewDataset("perf")
	require.NoError(t, ds.AddStrings("dataset", []string{"CIFAR-10", "ImageNet", "COCO"}))
	require.NoError(t, ds.AddFloats("ours", []float64{95, 80, 60}))
	require.NoError(t, ds.AddFloats("baseline", []float64{90, 76, 52}))
	require.NoError(t, ds.AddFloats("ours_sd", []float64{1, 2, 10}))
	require.NoError(t, ds.AddFloats("baseline_sd", []float64{1, 1, 1}))
	return ds
}

func TestBarOffsets(t *testing.T) {
	offsets, width := barOffsets(2, 0.8)
	assert.InDelta(t, 0.4, width, 1e-12)
	assert.InDeltaSlice(t, []float64{-0.2, 0.2}, offsets, 1e-12)

	offsets, width = barOffsets(4, 0.8)
	assert.InDelta(t, 0.2, width, 1e-12)
	assert.InDeltaSlice(t, []float64{-0.3, -0.1, 0.1, 0.3}, offsets, 1e-12)
}

func TestAutoTop(t *testing.T) {
	values := [][]float64{{1, 2}, {3, 4}}
	assert.InDelta(t, 4.6, autoTop(values, nil), 1e-12)
	errs := [][]float64{{0.1, 0.1}, {0.5, 1}}
	assert.InDelta(t, 5.75, autoTop(values, errs), 1e-12)
}

func TestGroupedBar(t *testing.T) {
	cfg := BarConfig{
		CategoryCol: "dataset",
		ValueCols:   []string{"ours", "baseline"},
		ValueLabels: []string{"Ours", "Baseline"},
		Colors:      []string{"proposed", "baseline"},
	}

	t.Run("owned", func(t *testing.T) {
		cfg := cfg
		cfg.Panel = Panel{OutputPath: filepath.Join(t.TempDir(), "bars.png"), Theme: testTheme(), YLabel: "Accuracy (%)"}
		_, err := GroupedBar(perf(t), cfg)
		require.NoError(t, err)
		assert.FileExists(t, cfg.OutputPath)
	})

	t.Run("auto top", func(t *testing.T) {
		cfg := cfg
		cfg.Panel = Panel{Axes: borrowedAxes(t)}
		ax, err := GroupedBar(perf(t), cfg)
		require.NoError(t, err)
		assert.InDelta(t, 1.15*95, ax.Plot.Y.Max, 1e-9)
		assert.Equal(t, 0.0, ax.Plot.Y.Min)
		assert.Equal(t, -0.5, ax.Plot.X.Min)
		assert.Equal(t, 2.5, ax.Plot.X.Max)

		ticks, ok := ax.Plot.X.Tick.Marker.(plot.ConstantTicks)
		require.True(t, ok)
		assert.Equal(t, "ImageNet", ticks[1].Label)
	})

	t.Run("auto top with errors", func(t *testing.T) {
		cfg := cfg
		cfg.Panel = Panel{Axes: borrowedAxes(t)}
		cfg.ErrorCols = []string{"ours_sd", "baseline_sd"}
		ax, err := GroupedBar(perf(t), cfg)
		require.NoError(t, err)
		assert.InDelta(t, 1.15*96, ax.Plot.Y.Max, 1e-9)
	})

	t.Run("explicit limits", func(t *testing.T) {
		cfg := cfg
		cfg.Panel = Panel{Axes: borrowedAxes(t)}
		cfg.YLim = &Range{Min: 40, Max: 100}
		ax, err := GroupedBar(perf(t), cfg)
		require.NoError(t, err)
		assert.Equal(t, 40.0, ax.Plot.Y.Min)
		assert.Equal(t, 100.0, ax.Plot.Y.Max)
	})
}

func TestGroupedBarShapeMismatch(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		cfg  BarConfig
	}{
		{"labels", BarConfig{CategoryCol: "dataset", ValueCols: []string{"ours", "baseline"}, ValueLabels: []string{"Ours"}}},
		{"errors", BarConfig{CategoryCol: "dataset", ValueCols: []string{"ours", "baseline"}, ValueLabels: []string{"Ours", "Baseline"}, ErrorCols: []string{"ours_sd"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			cfg.Panel = Panel{OutputPath: filepath.Join(dir, tt.name+".png"), Theme: testTheme()}
			_, err := GroupedBar(perf(t), cfg)
			assert.ErrorIs(t, err, ErrShapeMismatch)
			assert.NoFileExists(t, cfg.OutputPath)
		})
	}
}

func TestGroupedBarWithoutFiniteValues(t *testing.T) {
	ds := models.NewDataset("blank")
	require.NoError(t, ds.AddStrings("dataset", []string{"CIFAR-10", "COCO"}))
	require.NoError(t, ds.AddFloats("ours", []float64{math.NaN(), math.NaN()}))
	require.NoError(t, ds.AddFloats("baseline", []float64{math.NaN(), math.Inf(1)}))

	cfg := BarConfig{
		Panel:       Panel{OutputPath: filepath.Join(t.TempDir(), "blank.png"), Theme: testTheme()},
		CategoryCol: "dataset",
		ValueCols:   []string{"ours", "baseline"},
		ValueLabels: []string{"Ours", "Baseline"},
	}
	_, err := GroupedBar(ds, cfg)
	assert.ErrorIs(t, err, ErrEmptyInput)
	assert.NoFileExists(t, cfg.OutputPath)
}
