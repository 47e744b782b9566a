package pubfig

import (
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/palette"
)

func TestColorPolicyLookup(t *testing.T) {
	p, err := DefaultColorPolicy()
	require.NoError(t, err)

	proposed, err := p.Hex("proposed")
	require.NoError(t, err)
	assert.Equal(t, "#d62728", proposed)

	sota, err := p.Lookup("sota")
	require.NoError(t, err)
	blue, err := p.Lookup("blue")
	require.NoError(t, err)
	assert.Equal(t, blue, sota)

	c, err := p.Resolve("#102030")
	require.NoError(t, err)
	r, g, b, _ := c.RGBA()
	assert.Equal(t, []uint32{0x10, 0x20, 0x30}, []uint32{r >> 8, g >> 8, b >> 8})

	_, err = p.Resolve("chartreuse")
	assert.ErrorIs(t, err, ErrUnknownColor)
	_, err = p.Resolve("#zzz")
	assert.ErrorIs(t, err, ErrUnknownColor)

	assert.Equal(t, []string{"baseline", "method_A", "method_B", "proposed", "sota"}, p.Roles())
	assert.Equal(t, SlotOrder, p.Slots())
	assert.Equal(t, p.Cycle(0), p.Cycle(len(SlotOrder)))
}

func TestColorPolicyBindsAliasesAtConstruction(t *testing.T) {
	p, err := DefaultColorPolicy()
	require.NoError(t, err)

	old := BasePalette["red"]
	BasePalette["red"] = "#000000"
	defer func() { BasePalette["red"] = old }()

	hex, err := p.Hex("proposed")
	require.NoError(t, err)
	assert.Equal(t, "#d62728", hex, "existing policy must not see later palette edits")

	fresh, err := DefaultColorPolicy()
	require.NoError(t, err)
	hex, err = fresh.Hex("proposed")
	require.NoError(t, err)
	assert.Equal(t, "#000000", hex)
}

func TestInconsistentPaletteFailsTheme(t *testing.T) {
	old := BasePalette["gray"]
	delete(BasePalette, "gray")
	defer func() { BasePalette["gray"] = old }()

	_, err := DefaultColorPolicy()
	assert.ErrorIs(t, err, ErrUnknownColor)

	_, err = NewTheme(Serif)
	assert.ErrorIs(t, err, ErrUnknownColor)

	before := DefaultTheme()
	assert.ErrorIs(t, SetPublicationStyle(Serif), ErrUnknownColor)
	assert.Equal(t, before.Family, DefaultTheme().Family)
}

func TestNewColorPolicyErrors(t *testing.T) {
	_, err := NewColorPolicy(map[string]string{"blue": "#1f77b4"}, map[string]string{"proposed": "red"})
	assert.ErrorIs(t, err, ErrUnknownColor)

	_, err = NewColorPolicy(map[string]string{"blue": "not-a-color"}, nil)
	assert.ErrorIs(t, err, ErrUnknownColor)
}

func TestThemeColorsWithoutPolicy(t *testing.T) {
	theme := DefaultTheme().WithColors(nil)
	_, err := theme.resolve("proposed")
	assert.ErrorIs(t, err, ErrUnknownColor)
	c, err := theme.resolve("#ffffff")
	require.NoError(t, err)
	assert.NotNil(t, c)
	assert.NotNil(t, theme.cycle(3))
}

func TestContrastText(t *testing.T) {
	assert.Equal(t, color.White, contrastText(color.Black))
	assert.Equal(t, color.Black, contrastText(color.White))
}

func TestColormap(t *testing.T) {
	cm, err := Colormap("viridis", 0, 1)
	require.NoError(t, err)
	c, err := cm.At(0)
	require.NoError(t, err)
	r, g, b, _ := c.RGBA()
	assert.Equal(t, []uint32{0x44, 0x01, 0x54}, []uint32{r >> 8, g >> 8, b >> 8})

	_, err = cm.At(2)
	assert.ErrorIs(t, err, palette.ErrOverflow)
	_, err = cm.At(math.NaN())
	assert.ErrorIs(t, err, palette.ErrNaN)

	flat, err := Colormap("coolwarm", 3, 3)
	require.NoError(t, err)
	assert.Equal(t, 2.5, flat.Min())
	assert.Equal(t, 3.5, flat.Max())

	_, err = Colormap("jet", 0, 1)
	assert.ErrorIs(t, err, ErrInvalidOption)
	assert.Contains(t, Colormaps(), "coolwarm")
	assert.Len(t, sample(cm, 5).Colors(), 5)
}

func TestSampleKeepsTopColor(t *testing.T) {
	for _, name := range []string{"viridis", "coolwarm"} {
		cm, err := Colormap(name, -5, -1.8)
		require.NoError(t, err)
		top, err := cm.At(cm.Max())
		require.NoError(t, err)
		for _, n := range []int{2, 7, 15, 33} {
			colors := sample(cm, n)
			for i, c := range colors {
				_, _, _, a := c.RGBA()
				assert.NotZero(t, a, "%s n=%d entry %d is transparent", name, n, i)
			}
			assert.Equal(t, top, colors[n-1], "%s n=%d", name, n)
		}
	}
}
