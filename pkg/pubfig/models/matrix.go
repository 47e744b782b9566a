package models

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// MatrixFromColumns builds a rows×len(cols) matrix from numeric columns.
func MatrixFromColumns(d *Dataset, cols []string) (*mat.Dense, error) {
	if len(cols) == 0 || d.Len() == 0 {
		return nil, fmt.Errorf("%w: no columns or rows", ErrLengthMismatch)
	}
	m := mat.NewDense(d.Len(), len(cols), nil)
	for j, name := range cols {
		values, err := d.Floats(name)
		if err != nil {
			return nil, err
		}
		m.SetCol(j, values)
	}
	return m, nil
}

// Correlation returns the Pearson correlation matrix of the named columns.
func Correlation(d *Dataset, cols []string) (*mat.SymDense, error) {
	m, err := MatrixFromColumns(d, cols)
	if err != nil {
		return nil, err
	}
	corr := mat.NewSymDense(len(cols), nil)
	stat.CorrelationMatrix(corr, m, nil)
	return corr, nil
}

// ConfusionMatrix counts (truth, predicted) class pairs into an n×n matrix.
// Rows are true classes, columns predicted classes.
func ConfusionMatrix(truth, predicted []int, n int) (*mat.Dense, error) {
	if len(truth) != len(predicted) {
		return nil, fmt.Errorf("%w: %d labels vs %d predictions", ErrLengthMismatch, len(truth), len(predicted))
	}
	if n < 1 {
		return nil, fmt.Errorf("confusion matrix needs at least one class, got %d", n)
	}
	m := mat.NewDense(n, n, nil)
	for i, t := range truth {
		p := predicted[i]
		if t < 0 || t >= n || p < 0 || p >= n {
			return nil, fmt.Errorf("class index out of range at %d: (%d, %d) for %d classes", i, t, p, n)
		}
		m.Set(t, p, m.At(t, p)+1)
	}
	return m, nil
}
