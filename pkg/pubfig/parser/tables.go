package parser

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Area is a 1-based, inclusive cell rectangle.
type Area struct {
	R1, C1, R2, C2 int
}

// String renders the area in A1 notation.
func (a Area) String() string {
	start, _ := excelize.CoordinatesToCellName(a.C1, a.R1)
	end, _ := excelize.CoordinatesToCellName(a.C2, a.R2)
	return fmt.Sprintf("%s:%s", start, end)
}

// TableDetectionParams holds parameters for table detection.
type TableDetectionParams struct {
	DensityMin       float64
	MinNonemptyCells int
}

// DefaultTableParams returns default table detection parameters.
func DefaultTableParams() TableDetectionParams {
	return TableDetectionParams{
		DensityMin:       0.04,
		MinNonemptyCells: 3,
	}
}

// DetectTable finds the block of non-empty cells in rows.
// It reports false when the block is too sparse to be a table.
func DetectTable(rows [][]string, params TableDetectionParams) (Area, bool) {
	minRow, maxRow, minCol, maxCol := findDataBounds(rows)
	if minRow < 0 {
		return Area{}, false
	}

	totalCells := (maxRow - minRow + 1) * (maxCol - minCol + 1)
	nonEmptyCells := countNonEmptyCells(rows, minRow, maxRow, minCol, maxCol)
	if nonEmptyCells < params.MinNonemptyCells {
		return Area{}, false
	}
	if float64(nonEmptyCells)/float64(totalCells) < params.DensityMin {
		return Area{}, false
	}

	return Area{R1: minRow + 1, C1: minCol + 1, R2: maxRow + 1, C2: maxCol + 1}, true
}

// findDataBounds finds the bounding box of non-empty cells.
func findDataBounds(rows [][]string) (minRow, maxRow, minCol, maxCol int) {
	minRow, maxRow = -1, -1
	minCol, maxCol = -1, -1

	for rowIdx, row := range rows {
		for colIdx, cell := range row {
			if cell == "" {
				continue
			}
			if minRow < 0 {
				minRow = rowIdx
			}
			maxRow = rowIdx
			if minCol < 0 || colIdx < minCol {
				minCol = colIdx
			}
			if colIdx > maxCol {
				maxCol = colIdx
			}
		}
	}

	return
}

// countNonEmptyCells counts non-empty cells within bounds.
func countNonEmptyCells(rows [][]string, minRow, maxRow, minCol, maxCol int) int {
	count := 0
	for rowIdx := minRow; rowIdx <= maxRow && rowIdx < len(rows); rowIdx++ {
		row := rows[rowIdx]
		for colIdx := minCol; colIdx <= maxCol && colIdx < len(row); colIdx++ {
			if row[colIdx] != "" {
				count++
			}
		}
	}
	return count
}
