// Package model provides the classifiers the workshop fits over the
// two-feature cohort: a CART decision tree, a gradient-boosted
// ensemble, and a random forest. All of them train and predict over
// gonum matrices with one sample per row.
//
// Every source of randomness (feature subsampling, bootstrap
// resampling, boosting subsampling) is driven by an explicit seed, so
// a fit is reproducible from its options and inputs alone.
package model

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

// Sentinel errors shared by the classifiers.
var (
	// ErrNoSamples indicates Fit was called with an empty matrix.
	ErrNoSamples = errors.New("model: no samples")

	// ErrDimMismatch indicates X and y disagree on the number of rows.
	ErrDimMismatch = errors.New("model: feature/label length mismatch")

	// ErrNotFitted indicates Predict was called before Fit.
	ErrNotFitted = errors.New("model: not fitted")

	// ErrNotBinary indicates a binary-only classifier saw labels with
	// other than two distinct values.
	ErrNotBinary = errors.New("model: labels are not binary")
)

// Classifier is the boundary the pipeline trains and queries through.
// Predict uses the same label domain the classifier was fitted on.
type Classifier interface {
	Fit(X mat.Matrix, y []int) error
	Predict(X mat.Matrix) ([]int, error)
}

// asRows copies a matrix into per-sample float slices. The tree
// builders index samples heavily, which is cheaper over slices than
// through the mat.Matrix interface.
func asRows(X mat.Matrix) [][]float64 {
	n, _ := X.Dims()
	out := make([][]float64, n)
	for i := range out {
		out[i] = mat.Row(nil, i, X)
	}
	return out
}

func checkFitInput(X mat.Matrix, y []int) ([][]float64, error) {
	n, _ := X.Dims()
	if n == 0 {
		return nil, ErrNoSamples
	}
	if len(y) != n {
		return nil, ErrDimMismatch
	}
	return asRows(X), nil
}
