// Package models defines the tabular inputs consumed by the chart templates.
package models

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrColumnNotFound indicates a referenced column does not exist in the dataset.
var ErrColumnNotFound = errors.New("column not found")

// ErrLengthMismatch indicates a column whose length differs from the dataset's.
var ErrLengthMismatch = errors.New("column length mismatch")

// ErrDuplicateColumn indicates a column name that is already present.
var ErrDuplicateColumn = errors.New("duplicate column")

// ErrNotNumeric indicates a cell that cannot be read as a number.
var ErrNotNumeric = errors.New("value is not numeric")

// Column is a named, ordered sequence of cells.
type Column struct {
	// Name is the column header.
	Name string `json:"name"`
	// Cells holds float64, int64, string or nil (empty) values.
	Cells []interface{} `json:"cells"`
}

// Dataset is a table of named columns with equal length.
type Dataset struct {
	// Name is an optional label, usually the source file or sheet name.
	Name    string   `json:"name,omitempty"`
	columns []Column
	index   map[string]int
}

// NewDataset creates an empty dataset.
func NewDataset(name string) *Dataset {
	return &Dataset{Name: name, index: make(map[string]int)}
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	if len(d.columns) == 0 {
		return 0
	}
	return len(d.columns[0].Cells)
}

// Names returns the column names in insertion order.
func (d *Dataset) Names() []string {
	names := make([]string, len(d.columns))
	for i, c := range d.columns {
		names[i] = c.Name
	}
	return names
}

// Has reports whether the dataset contains the named column.
func (d *Dataset) Has(name string) bool {
	_, ok := d.index[name]
	return ok
}

// Add appends a column. The first column fixes the row count.
func (d *Dataset) Add(col Column) error {
	if d.index == nil {
		d.index = make(map[string]int)
	}
	if _, ok := d.index[col.Name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateColumn, col.Name)
	}
	if len(d.columns) > 0 && len(col.Cells) != d.Len() {
		return fmt.Errorf("%w: %q has %d rows, dataset has %d", ErrLengthMismatch, col.Name, len(col.Cells), d.Len())
	}
	d.index[col.Name] = len(d.columns)
	d.columns = append(d.columns, col)
	return nil
}

// AddFloats appends a numeric column.
func (d *Dataset) AddFloats(name string, values []float64) error {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return d.Add(Column{Name: name, Cells: cells})
}

// AddStrings appends a text column.
func (d *Dataset) AddStrings(name string, values []string) error {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return d.Add(Column{Name: name, Cells: cells})
}

// Column returns the named column.
func (d *Dataset) Column(name string) (Column, error) {
	i, ok := d.index[name]
	if !ok {
		return Column{}, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}
	return d.columns[i], nil
}

// Floats returns the named column as numbers.
// Empty cells become NaN; text that does not parse as a number is an error.
func (d *Dataset) Floats(name string) ([]float64, error) {
	col, err := d.Column(name)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(col.Cells))
	for i, c := range col.Cells {
		v, ok := toFloat(c)
		if !ok {
			return nil, fmt.Errorf("%w: column %q row %d (%v)", ErrNotNumeric, name, i, c)
		}
		out[i] = v
	}
	return out, nil
}

// Strings returns the named column formatted as text.
func (d *Dataset) Strings(name string) ([]string, error) {
	col, err := d.Column(name)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(col.Cells))
	for i, c := range col.Cells {
		out[i] = formatCell(c)
	}
	return out, nil
}

// Rows returns every row as formatted text, in column order.
func (d *Dataset) Rows() [][]string {
	rows := make([][]string, d.Len())
	for r := range rows {
		row := make([]string, len(d.columns))
		for c, col := range d.columns {
			row[c] = formatCell(col.Cells[r])
		}
		rows[r] = row
	}
	return rows
}

func toFloat(c interface{}) (float64, bool) {
	switch v := c.(type) {
	case nil:
		return math.NaN(), true
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int64:
		return float64(v), true
	case int:
		return float64(v), true
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return math.NaN(), true
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func formatCell(c interface{}) string {
	switch v := c.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case int64:
		return strconv.FormatInt(v, 10)
	}
	return fmt.Sprint(c)
}
