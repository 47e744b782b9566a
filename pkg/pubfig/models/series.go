package models

import (
	"errors"
	"fmt"
)

// ErrEmptySeries indicates a series without values.
var ErrEmptySeries = errors.New("series is empty")

// Series is a single named numeric sequence.
type Series struct {
	// Name is the series display name.
	Name string `json:"name"`
	// Values holds the samples.
	Values []float64 `json:"values"`
}

// Validate checks the series invariant.
func (s Series) Validate() error {
	if len(s.Values) == 0 {
		return fmt.Errorf("%w: %q", ErrEmptySeries, s.Name)
	}
	return nil
}

// SeriesFrom reads a dataset column as a series.
func SeriesFrom(d *Dataset, name string) (Series, error) {
	values, err := d.Floats(name)
	if err != nil {
		return Series{}, err
	}
	return Series{Name: name, Values: values}, nil
}
