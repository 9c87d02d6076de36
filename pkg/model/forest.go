package model

import (
	"fmt"
	"math/rand"
	"sync"

	"gonum.org/v1/gonum/mat"
)

// Forest is a bagged ensemble of Trees: each tree trains on a
// bootstrap resample and considers a random subset of features at
// every split. Tree i is seeded with seed+i, so the whole forest is
// reproducible from its options.
type Forest struct {
	nTrees      int
	maxDepth    int
	minSplit    int
	maxFeatures int // features sampled per split; 0 => all
	bootstrap   bool
	seed        int64

	trees []*Tree
}

// ForestOption configures a Forest.
type ForestOption func(*Forest)

func WithTrees(n int) ForestOption { return func(f *Forest) { f.nTrees = n } }
func WithForestMaxDepth(d int) ForestOption { return func(f *Forest) { f.maxDepth = d } }
func WithForestMinSplit(n int) ForestOption { return func(f *Forest) { f.minSplit = n } }
func WithFeaturesPerSplit(k int) ForestOption { return func(f *Forest) { f.maxFeatures = k } }
func WithBootstrap(b bool) ForestOption { return func(f *Forest) { f.bootstrap = b } }
func WithForestSeed(s int64) ForestOption { return func(f *Forest) { f.seed = s } }

// NewForest returns a forest with the workshop defaults: 100 trees,
// bootstrap on, every feature considered at each split.
func NewForest(opts ...ForestOption) *Forest {
	f := &Forest{
		nTrees:    100,
		minSplit:  2,
		bootstrap: true,
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Fit trains all trees concurrently, one bootstrap resample each.
func (f *Forest) Fit(X mat.Matrix, y []int) error {
	rows, err := checkFitInput(X, y)
	if err != nil {
		return err
	}
	n := len(rows)

	f.trees = make([]*Tree, f.nTrees)
	errs := make([]error, f.nTrees)
	var wg sync.WaitGroup
	for i := 0; i < f.nTrees; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			// Per-tree source: bootstrap draw and split-level feature
			// subsampling both depend only on seed+i.
			treeSeed := f.seed + int64(i)
			rnd := rand.New(rand.NewSource(treeSeed))

			idx := make([]int, n)
			for j := range idx {
				if f.bootstrap {
					idx[j] = rnd.Intn(n)
				} else {
					idx[j] = j
				}
			}

			tree := NewTree(
				WithMaxDepth(f.maxDepth),
				WithMinSamplesSplit(f.minSplit),
				WithMaxFeatures(f.maxFeatures),
				WithTreeSeed(treeSeed),
			)
			if err := tree.fit(rows, y, idx); err != nil {
				errs[i] = fmt.Errorf("model: tree %d: %w", i, err)
				return
			}
			f.trees[i] = tree
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			f.trees = nil
			return err
		}
	}
	return nil
}

// Predict returns the majority vote across trees for each row. Ties
// break toward the smaller label so repeated runs agree.
func (f *Forest) Predict(X mat.Matrix) ([]int, error) {
	if len(f.trees) == 0 {
		return nil, ErrNotFitted
	}
	n, _ := X.Dims()

	all := make([][]int, len(f.trees))
	errs := make([]error, len(f.trees))
	var wg sync.WaitGroup
	for i, tree := range f.trees {
		wg.Add(1)
		go func(i int, tree *Tree) {
			defer wg.Done()
			all[i], errs[i] = tree.Predict(X)
		}(i, tree)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	out := make([]int, n)
	for i := 0; i < n; i++ {
		votes := map[int]int{}
		for j := range all {
			votes[all[j][i]]++
		}
		best, bestCount := 0, -1
		for lab, c := range votes {
			if c > bestCount || (c == bestCount && lab < best) {
				best, bestCount = lab, c
			}
		}
		out[i] = best
	}
	return out, nil
}
