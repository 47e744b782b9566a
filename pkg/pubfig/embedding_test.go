package pubfig

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/pubfig-go/pkg/pubfig/embed"
	"gonum.org/v1/gonum/mat"
)

func features(n int) (*mat.Dense, []string) {
	noise := normalSamples(n*4, 0, 1, 5)
	m := mat.NewDense(n, 4, noise)
	labels := make([]string, n)
	for i := 0; i < n; i++ {
		labels[i] = "clean"
		if i%2 == 1 {
			labels[i] = "noisy"
			for j := 0; j < 4; j++ {
				m.Set(i, j, m.At(i, j)+8)
			}
		}
	}
	return m, labels
}

func TestEmbedding(t *testing.T) {
	x, labels := features(24)
	cfg := EmbeddingConfig{Perplexity: 5, Iterations: 150}

	t.Run("owned", func(t *testing.T) {
		cfg := cfg
		cfg.Panel = Panel{OutputPath: filepath.Join(t.TempDir(), "tsne.png"), Theme: testTheme()}
		_, err := Embedding(x, labels, cfg)
		require.NoError(t, err)
		assert.FileExists(t, cfg.OutputPath)
	})

	t.Run("borrowed", func(t *testing.T) {
		cfg := cfg
		cfg.Panel = Panel{Axes: borrowedAxes(t), Title: "Features"}
		ax, err := Embedding(x, labels, cfg)
		require.NoError(t, err)
		assert.Equal(t, "t-SNE 1", ax.Plot.X.Label.Text)
		assert.Equal(t, "t-SNE 2", ax.Plot.Y.Label.Text)
		assert.Empty(t, ax.Plot.X.Tick.Marker.Ticks(0, 1))
		assert.Equal(t, "Features", ax.Plot.Title.Text)
	})
}

func TestEmbeddingErrors(t *testing.T) {
	x, labels := features(10)

	_, err := Embedding(x, labels[:9], EmbeddingConfig{Panel: Panel{Axes: borrowedAxes(t)}})
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = Embedding(x, labels, EmbeddingConfig{Panel: Panel{Axes: borrowedAxes(t)}})
	require.ErrorIs(t, err, embed.ErrTooFewSamples)
	var te *TemplateError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, StageTransform, te.Stage)

	_, err = Embedding(x, labels, EmbeddingConfig{Panel: Panel{Axes: borrowedAxes(t)}, Perplexity: 3, Palette: map[string]string{"clean": "mauve"}})
	assert.ErrorIs(t, err, ErrUnknownColor)
}
