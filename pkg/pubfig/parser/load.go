// Package parser loads tabular data files into datasets.
package parser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ukaji3/pubfig-go/pkg/pubfig/models"
)

// ErrFileNotFound indicates the input file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrInvalidFormat indicates the input file extension is not supported.
var ErrInvalidFormat = errors.New("unsupported data format")

// LoadOptions selects the region of a data file to read.
type LoadOptions struct {
	// Sheet is the worksheet to read from an xlsx file. Defaults to the first sheet.
	Sheet string `yaml:"sheet" toml:"sheet"`
	// Range is an A1 range ("B2:E20") or a defined name. Empty means
	// the detected table block of the sheet.
	Range string `yaml:"range" toml:"range"`
	// Comma overrides the field delimiter for delimited text.
	Comma string `yaml:"comma" toml:"comma"`
}

// Load reads path into a dataset, dispatching on the file extension.
// The first row of the selected region supplies the column names.
func Load(path string, opts LoadOptions) (*models.Dataset, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv", ".txt":
		return loadDelimitedFile(path, delimiter(opts.Comma, ','))
	case ".tsv":
		return loadDelimitedFile(path, delimiter(opts.Comma, '\t'))
	case ".xlsx", ".xlsm":
		return LoadXLSX(path, opts)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidFormat, ext)
	}
}

func delimiter(s string, def rune) rune {
	if s == "" {
		return def
	}
	if s == `\t` {
		return '\t'
	}
	return []rune(s)[0]
}

// datasetFromRows builds a dataset from a header row followed by data rows.
// Blank headers are named after their 1-based column position.
func datasetFromRows(name string, rows [][]string) (*models.Dataset, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s has no rows", ErrInvalidFormat, name)
	}
	header := rows[0]
	width := len(header)
	for _, row := range rows[1:] {
		if len(row) > width {
			width = len(row)
		}
	}

	ds := models.NewDataset(name)
	for c := 0; c < width; c++ {
		colName := ""
		if c < len(header) {
			colName = strings.TrimSpace(header[c])
		}
		if colName == "" {
			colName = fmt.Sprintf("column_%d", c+1)
		}
		cells := make([]interface{}, len(rows)-1)
		for r, row := range rows[1:] {
			if c < len(row) && row[c] != "" {
				cells[r] = parseValue(row[c])
			}
		}
		if err := ds.Add(models.Column{Name: colName, Cells: cells}); err != nil {
			return nil, err
		}
	}
	return ds, nil
}
