package pubfig

import (
	"errors"
	"fmt"
)

// ErrShapeMismatch indicates parallel option lists of unequal length, or
// tick labels that do not match the matrix they annotate.
var ErrShapeMismatch = errors.New("argument shape mismatch")

// ErrInvalidOption indicates a value outside a closed set of choices.
var ErrInvalidOption = errors.New("invalid option")

// ErrUnknownColor indicates a color role or slot missing from the policy.
var ErrUnknownColor = errors.New("unknown color")

// ErrEmptyInput indicates a template received no data to draw.
var ErrEmptyInput = errors.New("empty input")

// Stages at which a template can fail.
const (
	StageValidate  = "validate"
	StageTransform = "transform"
	StageDraw      = "draw"
	StageSave      = "save"
)

// TemplateError represents a failure inside a chart template.
type TemplateError struct {
	Template string
	Stage    string // "validate", "transform", "draw", "save"
	Err      error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("%s template failed (%s): %v", e.Template, e.Stage, e.Err)
}

func (e *TemplateError) Unwrap() error {
	return e.Err
}

// NewTemplateError creates a new TemplateError.
func NewTemplateError(template, stage string, err error) *TemplateError {
	return &TemplateError{
		Template: template,
		Stage:    stage,
		Err:      err,
	}
}
