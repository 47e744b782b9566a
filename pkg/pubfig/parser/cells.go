package parser

import (
	"strconv"

	"github.com/xuri/excelize/v2"
)

// ExtractCells reads the cells of a sheet restricted to area.
// Rows are returned as text, relative to the area's top-left corner.
func ExtractCells(f *excelize.File, sheetName string, area Area) ([][]string, error) {
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, err
	}

	var result [][]string
	for r := area.R1; r <= area.R2; r++ {
		rowIdx := r - 1 // 1-based area, 0-based rows
		out := make([]string, area.C2-area.C1+1)
		if rowIdx < len(rows) {
			row := rows[rowIdx]
			for c := area.C1; c <= area.C2; c++ {
				if c-1 < len(row) {
					out[c-area.C1] = row[c-1]
				}
			}
		}
		result = append(result, out)
	}

	return result, nil
}

// parseValue attempts to parse a string value as a number.
// Returns int64 for integers, float64 for decimals, or the original string.
func parseValue(s string) interface{} {
	// Try integer first
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	// Try float
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	// Return as string
	return s
}
