package pubfig

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultiPanelFigure(t *testing.T) {
	fig, err := NewFigure(1, 3, Inches(10, 3), testTheme())
	require.NoError(t, err)
	fig.Title = "Results overview"

	_, err = LineComparison(curves(t), LineConfig{
		Panel:   Panel{Axes: fig.Axes(0, 0), Title: "(a) Convergence"},
		XCol:    "epoch",
		YCols:   []string{"ours", "sota"},
		YLabels: []string{"Ours", "SOTA"},
	})
	require.NoError(t, err)

	_, err = Heatmap(confusion(), HeatmapConfig{Panel: Panel{Axes: fig.Axes(0, 1), Title: "(b) Confusion"}, ValueFormat: "d"})
	require.NoError(t, err)

	_, err = DualAxis(training(t), DualAxisConfig{Panel: Panel{Axes: fig.Axes(0, 2), Title: "(c) Schedule"}, XCol: "epoch", Y1Col: "loss", Y2Col: "lr"})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "overview.pdf")
	require.NoError(t, fig.Save(path))
	assert.FileExists(t, path)
}
