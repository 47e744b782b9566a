package parser

import (
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/pubfig-go/pkg/pubfig/models"
	"github.com/xuri/excelize/v2"
)

// writeWorkbook saves a small results sheet with a title row above the table.
func writeWorkbook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Sheet1"
	require.NoError(t, f.SetCellValue(sheet, "A1", "Training curves"))
	require.NoError(t, f.SetCellValue(sheet, "B3", "epoch"))
	require.NoError(t, f.SetCellValue(sheet, "C3", "acc"))
	for i := 0; i < 4; i++ {
		row := i + 4
		require.NoError(t, f.SetCellValue(sheet, "B"+strconv.Itoa(row), i+1))
		require.NoError(t, f.SetCellValue(sheet, "C"+strconv.Itoa(row), 0.5+0.1*float64(i)))
	}
	require.NoError(t, f.SetDefinedName(&excelize.DefinedName{
		Name:     "curves",
		RefersTo: "Sheet1!$B$3:$C$7",
	}))

	path := filepath.Join(t.TempDir(), "results.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestExtractCells(t *testing.T) {
	path := writeWorkbook(t)
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := ExtractCells(f, "Sheet1", Area{R1: 3, C1: 2, R2: 5, C2: 3})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"epoch", "acc"}, rows[0])
	assert.Equal(t, "1", rows[1][0])
	assert.Equal(t, "0.6", rows[2][1])
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		input    string
		expected interface{}
	}{
		{"123", int64(123)},
		{"123.45", 123.45},
		{"-100", int64(-100)},
		{"hello", "hello"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, parseValue(tt.input), "parseValue(%q)", tt.input)
	}
}

func TestLoadXLSX(t *testing.T) {
	path := writeWorkbook(t)

	t.Run("defined name", func(t *testing.T) {
		ds, err := Load(path, LoadOptions{Range: "curves"})
		require.NoError(t, err)
		assert.Equal(t, []string{"epoch", "acc"}, ds.Names())
		acc, err := ds.Floats("acc")
		require.NoError(t, err)
		assert.InDeltaSlice(t, []float64{0.5, 0.6, 0.7, 0.8}, acc, 1e-9)
	})

	t.Run("explicit range", func(t *testing.T) {
		ds, err := Load(path, LoadOptions{Sheet: "Sheet1", Range: "B3:C5"})
		require.NoError(t, err)
		assert.Equal(t, 2, ds.Len())
	})

	t.Run("unknown name", func(t *testing.T) {
		_, err := Load(path, LoadOptions{Range: "nope"})
		assert.ErrorIs(t, err, ErrRangeNotFound)
	})
}

func TestWriteXLSX(t *testing.T) {
	ds := models.NewDataset("perf")
	require.NoError(t, ds.AddStrings("model", []string{"A", "B"}))
	require.NoError(t, ds.AddFloats("accuracy", []float64{91.5, 94}))

	path := filepath.Join(t.TempDir(), "source.xlsx")
	require.NoError(t, WriteXLSX(path, []string{"fig4_model_comparison"}, []*models.Dataset{ds}))

	got, err := Load(path, LoadOptions{Sheet: "fig4_model_comparison"})
	require.NoError(t, err)
	assert.Equal(t, []string{"model", "accuracy"}, got.Names())
	acc, err := got.Floats("accuracy")
	require.NoError(t, err)
	assert.Equal(t, []float64{91.5, 94}, acc)

	assert.Error(t, WriteXLSX(path, nil, []*models.Dataset{ds}))
}
