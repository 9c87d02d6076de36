// Package boundary builds the dense prediction lattice over the
// two-feature space and renders a model's decision regions with the
// held-out test set overlaid.
package boundary

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// DefaultResolution is the number of lattice points per axis.
const DefaultResolution = 100

// ErrBadResolution indicates a lattice with fewer than 2 points per axis.
var ErrBadResolution = errors.New("boundary: resolution must be at least 2")

// Grid is a rectangular lattice over (x, y) feature space. X runs along
// the first training feature, Y along the second; both are linearly
// spaced between the observed training min and max.
type Grid struct {
	X []float64
	Y []float64
}

// New spaces res points per axis across the given ranges.
func New(xMin, xMax, yMin, yMax float64, res int) (Grid, error) {
	if res < 2 {
		return Grid{}, fmt.Errorf("%w: %d", ErrBadResolution, res)
	}
	return Grid{
		X: floats.Span(make([]float64, res), xMin, xMax),
		Y: floats.Span(make([]float64, res), yMin, yMax),
	}, nil
}

// FromTraining builds the lattice from the per-column min and max of a
// two-column training matrix, matching the workshop's visualization
// bounds.
func FromTraining(X mat.Matrix, res int) (Grid, error) {
	n, p := X.Dims()
	if p != 2 {
		return Grid{}, fmt.Errorf("boundary: want 2 feature columns, got %d", p)
	}
	if n == 0 {
		return Grid{}, errors.New("boundary: empty training matrix")
	}
	xs := mat.Col(nil, 0, X)
	ys := mat.Col(nil, 1, X)
	return New(floats.Min(xs), floats.Max(xs), floats.Min(ys), floats.Max(ys), res)
}

// Matrix flattens the lattice into a feature matrix with the same
// column order the model trained on: row r*len(X)+c holds (X[c], Y[r]).
func (g Grid) Matrix() *mat.Dense {
	nx, ny := len(g.X), len(g.Y)
	out := mat.NewDense(nx*ny, 2, nil)
	for r := 0; r < ny; r++ {
		for c := 0; c < nx; c++ {
			out.Set(r*nx+c, 0, g.X[c])
			out.Set(r*nx+c, 1, g.Y[r])
		}
	}
	return out
}

// surface adapts lattice predictions to plotter.GridXYZ.
type surface struct {
	g Grid
	z []int // len(X)*len(Y) predictions, row-major as Matrix lays them out
}

func (s surface) Dims() (int, int) { return len(s.g.X), len(s.g.Y) }
func (s surface) X(c int) float64 { return s.g.X[c] }
func (s surface) Y(r int) float64 { return s.g.Y[r] }
func (s surface) Z(c, r int) float64 { return float64(s.z[r*len(s.g.X)+c]) }
