package pubfig

import (
	"math"
	"math/rand/v2"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/pubfig-go/pkg/pubfig/models"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg/draw"
)

func normalSamples(n int, mu, sigma float64, seed uint64) []float64 {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	out := make([]float64, n)
	for i := range out {
		out[i] = mu + sigma*rng.NormFloat64()
	}
	return out
}

func boolPtr(b bool) *bool { return &b }

func TestDistribution(t *testing.T) {
	s := models.Series{Name: "latency", Values: normalSamples(300, 20, 4, 1)}

	t.Run("owned", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "latency.png")
		_, err := Distribution(s, DistributionConfig{Panel: Panel{OutputPath: path, XLabel: "ms", Theme: testTheme()}})
		require.NoError(t, err)
		assert.FileExists(t, path)
	})

	t.Run("kde only", func(t *testing.T) {
		ax, err := Distribution(s, DistributionConfig{Panel: Panel{Axes: borrowedAxes(t)}, ShowHist: boolPtr(false), Color: "proposed"})
		require.NoError(t, err)
		assert.Equal(t, "Density", ax.Plot.Y.Label.Text)
		require.Len(t, ax.Series, 1)
		assert.Equal(t, "latency", ax.Series[0].Label)
	})

	t.Run("custom y label", func(t *testing.T) {
		ax, err := Distribution(s, DistributionConfig{Panel: Panel{Axes: borrowedAxes(t), YLabel: "Frequency"}, ShowKDE: boolPtr(false)})
		require.NoError(t, err)
		assert.Equal(t, "Frequency", ax.Plot.Y.Label.Text)
	})
}

func TestDistributionNothingToDraw(t *testing.T) {
	path := filepath.Join(t.TempDir(), "none.png")
	cfg := DistributionConfig{
		Panel:    Panel{OutputPath: path, Theme: testTheme()},
		ShowHist: boolPtr(false),
		ShowKDE:  boolPtr(false),
	}
	ax, err := Distribution(models.Series{Name: "x", Values: []float64{1, 2, 3}}, cfg)
	assert.NoError(t, err)
	assert.Nil(t, ax)
	assert.NoFileExists(t, path)

	cfg.Panel = Panel{}
	ax, err = Distribution(models.Series{}, cfg)
	assert.NoError(t, err)
	assert.Nil(t, ax)
}

func TestDistributionValidation(t *testing.T) {
	cfg := DistributionConfig{Panel: Panel{Axes: borrowedAxes(t)}}
	_, err := Distribution(models.Series{Name: "empty"}, cfg)
	assert.ErrorIs(t, err, models.ErrEmptySeries)

	_, err = Distribution(models.Series{Name: "nan", Values: []float64{math.NaN()}}, cfg)
	assert.ErrorIs(t, err, ErrEmptyInput)

	cfg.Color = "mauve"
	_, err = Distribution(models.Series{Name: "x", Values: []float64{1, 2}}, cfg)
	assert.ErrorIs(t, err, ErrUnknownColor)
}

func TestKDE(t *testing.T) {
	values := normalSamples(2000, 0, 1, 3)
	grid, dens := kdeCurve(values, 400, 3)
	require.Len(t, grid, 400)

	var area float64
	for i := 1; i < len(grid); i++ {
		area += (grid[i] - grid[i-1]) * (dens[i] + dens[i-1]) / 2
	}
	assert.InDelta(t, 1, area, 0.01)

	q1, med, q3 := quartiles([]float64{4, 1, 3, 2, 5})
	assert.True(t, q1 < med && med < q3)
	assert.InDelta(t, 3, med, 0.5)
	assert.Equal(t, 1.0, scottBandwidth([]float64{7}))
}

func comparisonData(t *testing.T, groups ...string) *models.Dataset {
	t.Helper()
	var cats []string
	var values []float64
	for i, g := range groups {
		for _, v := range normalSamples(40, float64(10*i), 2, uint64(i+1)) {
			cats = append(cats, g)
			values = append(values, v)
		}
	}
	ds := models.NewDataset("runs")
	require.NoError(t, ds.AddStrings("method", cats))
	require.NoError(t, ds.AddFloats("score", values))
	return ds
}

func TestDistributionComparison(t *testing.T) {
	ds := comparisonData(t, "Ours", "SOTA", "Baseline")
	for _, kind := range []string{KindViolin, KindBox} {
		t.Run(kind, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), kind+".png")
			cfg := ComparisonConfig{
				Panel:   Panel{OutputPath: path, Theme: testTheme()},
				XCol:    "method",
				YCol:    "score",
				Kind:    kind,
				Palette: map[string]string{"Ours": "proposed"},
			}
			_, err := DistributionComparison(ds, cfg)
			require.NoError(t, err)
			assert.FileExists(t, path)
		})
	}

	t.Run("category order", func(t *testing.T) {
		ax, err := DistributionComparison(ds, ComparisonConfig{Panel: Panel{Axes: borrowedAxes(t)}, XCol: "method", YCol: "score"})
		require.NoError(t, err)
		ticks, ok := ax.Plot.X.Tick.Marker.(plot.ConstantTicks)
		require.True(t, ok)
		require.Len(t, ticks, 3)
		assert.Equal(t, []string{"Ours", "SOTA", "Baseline"}, []string{ticks[0].Label, ticks[1].Label, ticks[2].Label})
		assert.Zero(t, ax.Plot.X.Tick.Label.Rotation)
	})

	t.Run("many categories rotate", func(t *testing.T) {
		many := comparisonData(t, "a", "b", "c", "d", "e")
		ax, err := DistributionComparison(many, ComparisonConfig{Panel: Panel{Axes: borrowedAxes(t)}, XCol: "method", YCol: "score", Kind: KindBox})
		require.NoError(t, err)
		assert.InDelta(t, math.Pi/4, ax.Plot.X.Tick.Label.Rotation, 1e-12)
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := DistributionComparison(ds, ComparisonConfig{Panel: Panel{Axes: borrowedAxes(t)}, XCol: "method", YCol: "score", Kind: "swarm"})
		assert.ErrorIs(t, err, ErrInvalidOption)
	})
}

func scenarioData(t *testing.T, algorithms ...string) *models.Dataset {
	t.Helper()
	var scenarios, algs []string
	var values []float64
	for i, sc := range []string{"Low", "Medium", "High"} {
		for j, alg := range algorithms {
			for _, v := range normalSamples(30, 100-float64(20*i)+float64(5*j), 8, uint64(10*i+j+1)) {
				scenarios = append(scenarios, sc)
				algs = append(algs, alg)
				values = append(values, v)
			}
		}
	}
	values[0] = math.NaN()
	ds := models.NewDataset("throughput")
	require.NoError(t, ds.AddStrings("scenario", scenarios))
	require.NoError(t, ds.AddStrings("algorithm", algs))
	require.NoError(t, ds.AddFloats("mbps", values))
	return ds
}

func TestDistributionComparisonHue(t *testing.T) {
	base := ComparisonConfig{
		XCol:    "scenario",
		YCol:    "mbps",
		HueCol:  "algorithm",
		Palette: map[string]string{"Baseline": "gray", "Ours": "proposed"},
	}

	t.Run("groups", func(t *testing.T) {
		cfg := base.withDefaults()
		g, err := cfg.prepare(scenarioData(t, "Baseline", "Ours"), *testTheme())
		require.NoError(t, err)
		assert.Equal(t, []string{"Low", "Medium", "High"}, g.names)
		assert.Equal(t, []string{"Baseline", "Ours"}, g.hues)
		require.Len(t, g.cells, 3)
		assert.Len(t, g.cells[0][0], 29, "the NaN sample is skipped")
		assert.Len(t, g.cells[0][1], 30)
		assert.Len(t, g.cells[2][1], 30)

		red, err := testTheme().resolve("proposed")
		require.NoError(t, err)
		assert.Equal(t, red, g.colors[1])
	})

	for _, kind := range []string{KindViolin, KindBox} {
		t.Run("owned "+kind, func(t *testing.T) {
			cfg := base
			cfg.Kind = kind
			cfg.Panel = Panel{OutputPath: filepath.Join(t.TempDir(), kind+".png"), Theme: testTheme()}
			_, err := DistributionComparison(scenarioData(t, "Baseline", "Ours"), cfg)
			require.NoError(t, err)
			assert.FileExists(t, cfg.OutputPath)
		})
	}

	t.Run("split halves share the category", func(t *testing.T) {
		a := borrowedAxes(t)
		cfg := base
		cfg.Panel = Panel{Axes: a}
		ax, err := DistributionComparison(scenarioData(t, "Baseline", "Ours"), cfg)
		require.NoError(t, err)
		assert.Equal(t, -0.5, ax.Plot.X.Min)
		assert.Equal(t, 2.5, ax.Plot.X.Max)

		v := newViolin(1, normalSamples(50, 0, 1, 3), testTheme().cycle(0), draw.LineStyle{})
		v.side = -1
		lo, hi, _, _ := v.DataRange()
		assert.InDelta(t, 1-violinHalfWidth, lo, 1e-12)
		assert.Equal(t, 1.0, hi)
	})

	t.Run("three levels dodge", func(t *testing.T) {
		cfg := base
		cfg.Panel = Panel{Axes: borrowedAxes(t)}
		ax, err := DistributionComparison(scenarioData(t, "Baseline", "Ours", "SOTA"), cfg)
		require.NoError(t, err)
		ticks, ok := ax.Plot.X.Tick.Marker.(plot.ConstantTicks)
		require.True(t, ok)
		assert.Len(t, ticks, 3)
	})

	t.Run("unknown hue column", func(t *testing.T) {
		cfg := base
		cfg.HueCol = "seed"
		cfg.Panel = Panel{Axes: borrowedAxes(t)}
		_, err := DistributionComparison(scenarioData(t, "Baseline", "Ours"), cfg)
		assert.ErrorIs(t, err, models.ErrColumnNotFound)
	})
}
