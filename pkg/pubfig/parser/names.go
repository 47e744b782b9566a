package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrRangeNotFound indicates a range or defined name that cannot be resolved.
var ErrRangeNotFound = errors.New("range not found")

// ResolveRange resolves ref against the workbook.
// ref may be an A1 range ("B2:D10"), a sheet-qualified range
// ('Results'!$A$1:$D$10) or a workbook/sheet defined name.
// It returns the sheet the range lives on, defaulting to sheet.
func ResolveRange(f *excelize.File, sheet, ref string) (string, Area, error) {
	if s, area, ok := parseReference(ref); ok {
		if s == "" {
			s = sheet
		}
		return s, area, nil
	}

	for _, dn := range f.GetDefinedName() {
		if !strings.EqualFold(dn.Name, ref) {
			continue
		}
		if dn.Scope != "" && !strings.EqualFold(dn.Scope, "Workbook") && dn.Scope != sheet {
			continue
		}
		if s, area, ok := parseReference(dn.RefersTo); ok {
			if s == "" {
				s = sheet
			}
			return s, area, nil
		}
	}

	return "", Area{}, fmt.Errorf("%w: %q", ErrRangeNotFound, ref)
}

// parseReference parses a reference string.
// Format: 'SheetName'!$A$1:$D$10, SheetName!A1:D10 or A1:D10.
// Only the first comma-separated part is used.
func parseReference(ref string) (string, Area, bool) {
	part := strings.TrimSpace(strings.Split(ref, ",")[0])
	part = strings.TrimPrefix(part, "=")
	if part == "" {
		return "", Area{}, false
	}

	var sheetName string
	rangeStr := part
	if idx := strings.LastIndex(part, "!"); idx >= 0 {
		sheetName = strings.Trim(part[:idx], "'")
		rangeStr = part[idx+1:]
	}

	area, ok := parseRangeToArea(rangeStr)
	return sheetName, area, ok
}

// parseRangeToArea parses a range string like $A$1:$D$10.
func parseRangeToArea(rangeStr string) (Area, bool) {
	rangeStr = strings.ReplaceAll(rangeStr, "$", "")

	parts := strings.Split(rangeStr, ":")
	if len(parts) != 2 {
		return Area{}, false
	}

	startCol, startRow, err := excelize.CellNameToCoordinates(parts[0])
	if err != nil {
		return Area{}, false
	}
	endCol, endRow, err := excelize.CellNameToCoordinates(parts[1])
	if err != nil {
		return Area{}, false
	}

	return Area{R1: startRow, C1: startCol, R2: endRow, C2: endCol}, true
}
