package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ukaji3/pubfig-go/pkg/pubfig/models"
)

func loadDelimitedFile(path string, comma rune) (*models.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadDelimited(f, filepath.Base(path), comma)
}

// LoadDelimited reads delimited text with a header row.
// Rows may be ragged; missing trailing cells are empty.
func LoadDelimited(r io.Reader, name string, comma rune) (*models.Dataset, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidFormat, name, err)
	}
	return datasetFromRows(name, rows)
}
