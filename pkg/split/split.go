// Package split partitions a cleaned cohort into stratified train and
// test subsets. The partition is a pure function of (labels, proportion,
// seed): the same inputs always reproduce the same index sets.
package split

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/MIT-LCP/bst209/pkg/cohort"
)

// Sentinel errors for split configuration.
var (
	// ErrSingleClass indicates the outcome column has fewer than two
	// distinct values, leaving stratification undefined.
	ErrSingleClass = errors.New("split: outcome has fewer than two classes")

	// ErrBadProportion indicates a train proportion outside (0, 1).
	ErrBadProportion = errors.New("split: proportion must be in (0, 1)")

	// ErrEmptyPartition indicates a partition ended up with no rows,
	// e.g. a singleton class rounded entirely into the train set.
	ErrEmptyPartition = errors.New("split: empty partition")
)

// Split holds the two disjoint row-index sets of a partition. Indices
// refer to rows of the table the labels came from.
type Split struct {
	Train []int
	Test  []int
}

// Stratified assigns every row to exactly one of train/test so that the
// train share is p within rounding and each class keeps its proportion
// in both subsets. Classes are visited in ascending label order and
// shuffled with a single seeded source, so the partition is
// reproducible from (labels, p, seed) alone.
func Stratified(labels []int, p float64, seed int64) (Split, error) {
	if p <= 0 || p >= 1 {
		return Split{}, fmt.Errorf("%w: %v", ErrBadProportion, p)
	}

	byClass := map[int][]int{}
	for i, lab := range labels {
		byClass[lab] = append(byClass[lab], i)
	}
	if len(byClass) < 2 {
		return Split{}, ErrSingleClass
	}

	classes := make([]int, 0, len(byClass))
	for c := range byClass {
		classes = append(classes, c)
	}
	sort.Ints(classes)

	rnd := rand.New(rand.NewSource(seed))
	var out Split
	for _, c := range classes {
		idx := byClass[c]
		rnd.Shuffle(len(idx), func(a, b int) { idx[a], idx[b] = idx[b], idx[a] })
		nTrain := int(math.Round(p * float64(len(idx))))
		out.Train = append(out.Train, idx[:nTrain]...)
		out.Test = append(out.Test, idx[nTrain:]...)
	}
	if len(out.Train) == 0 || len(out.Test) == 0 {
		return Split{}, fmt.Errorf("%w: %d rows at proportion %v", ErrEmptyPartition, len(labels), p)
	}
	sort.Ints(out.Train)
	sort.Ints(out.Test)
	return out, nil
}

// StratifiedTable splits the table on its encoded-outcome column and
// returns the two row subsets as fresh tables.
func StratifiedTable(t *cohort.Table, outcomeCol string, p float64, seed int64) (train, test *cohort.Table, err error) {
	labels, err := Labels(t, outcomeCol)
	if err != nil {
		return nil, nil, err
	}
	s, err := Stratified(labels, p, seed)
	if err != nil {
		return nil, nil, err
	}
	return t.Select(s.Train), t.Select(s.Test), nil
}

// Labels reads an integer label column from the table.
func Labels(t *cohort.Table, col string) ([]int, error) {
	raw, err := t.Column(col)
	if err != nil {
		return nil, fmt.Errorf("split: %w", err)
	}
	out := make([]int, len(raw))
	for i, s := range raw {
		v, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("split: column %q row %d: parse %q: %w", col, i, s, err)
		}
		out[i] = v
	}
	return out, nil
}

// Project builds the feature matrix for the named columns, one column
// per feature in the given order. This is where the outcome column is
// separated from the features: callers project features here and read
// labels with Labels.
func Project(t *cohort.Table, features ...string) (*mat.Dense, error) {
	if len(features) == 0 {
		return nil, errors.New("split: no feature columns")
	}
	if t.NumRows() == 0 {
		return nil, fmt.Errorf("%w: nothing to project", ErrEmptyPartition)
	}
	cols := make([][]float64, len(features))
	for j, name := range features {
		v, err := t.Float(name)
		if err != nil {
			return nil, fmt.Errorf("split: project: %w", err)
		}
		cols[j] = v
	}
	X := mat.NewDense(t.NumRows(), len(features), nil)
	for j, col := range cols {
		for i, v := range col {
			X.Set(i, j, v)
		}
	}
	return X, nil
}
