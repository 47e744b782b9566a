package job

import (
	"errors"
	"fmt"
)

// ErrInvalidJob indicates a job file that is well-formed but inconsistent.
var ErrInvalidJob = errors.New("invalid job")

// ErrInvalidFormat indicates a job file extension that is not supported.
var ErrInvalidFormat = errors.New("unsupported job file format")

// FigureError represents a failure while producing one figure of a job.
type FigureError struct {
	Figure    string
	Component string // "data", "render"
	Err       error
}

func (e *FigureError) Error() string {
	return fmt.Sprintf("figure %q (%s): %v", e.Figure, e.Component, e.Err)
}

func (e *FigureError) Unwrap() error {
	return e.Err
}

// NewFigureError creates a new FigureError.
func NewFigureError(figure, component string, err error) *FigureError {
	return &FigureError{
		Figure:    figure,
		Component: component,
		Err:       err,
	}
}
