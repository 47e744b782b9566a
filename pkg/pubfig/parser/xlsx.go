package parser

import (
	"fmt"
	"path/filepath"

	"github.com/ukaji3/pubfig-go/pkg/pubfig/models"
	"github.com/xuri/excelize/v2"
)

// LoadXLSX reads one table from an xlsx workbook.
func LoadXLSX(path string, opts LoadOptions) (*models.Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidFormat, path, err)
	}
	defer f.Close()

	sheet := opts.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	var area Area
	if opts.Range != "" {
		sheet, area, err = ResolveRange(f, sheet, opts.Range)
		if err != nil {
			return nil, err
		}
	} else {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, err
		}
		var ok bool
		area, ok = DetectTable(rows, DefaultTableParams())
		if !ok {
			return nil, fmt.Errorf("%w: no table on sheet %q", ErrRangeNotFound, sheet)
		}
	}

	rows, err := ExtractCells(f, sheet, area)
	if err != nil {
		return nil, err
	}
	return datasetFromRows(filepath.Base(path)+"#"+sheet, rows)
}

// WriteXLSX writes each dataset to its own sheet of a new workbook.
// Sheet names are taken from names, in order.
func WriteXLSX(path string, names []string, datasets []*models.Dataset) error {
	if len(names) != len(datasets) {
		return fmt.Errorf("%d sheet names for %d datasets", len(names), len(datasets))
	}
	f := excelize.NewFile()
	defer f.Close()

	first := f.GetSheetName(0)
	for i, ds := range datasets {
		sheet := sheetName(names[i], i)
		if i == 0 {
			if err := f.SetSheetName(first, sheet); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return err
		}

		header := make([]interface{}, 0, len(ds.Names()))
		for _, n := range ds.Names() {
			header = append(header, n)
		}
		if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
			return err
		}
		for r, row := range ds.Rows() {
			cells := make([]interface{}, len(row))
			for c, v := range row {
				cells[c] = parseValue(v)
			}
			cell, _ := excelize.CoordinatesToCellName(1, r+2)
			if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
				return err
			}
		}
	}
	return f.SaveAs(path)
}

// sheetName trims a figure name to Excel's 31 character sheet limit.
func sheetName(name string, i int) string {
	if name == "" {
		name = fmt.Sprintf("figure_%d", i+1)
	}
	r := []rune(name)
	if len(r) > 31 {
		r = r[:31]
	}
	return string(r)
}
