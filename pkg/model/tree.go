package model

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"gonum.org/v1/gonum/mat"
)

// Impurity criteria for tree splits.
const (
	Gini    = "gini"
	Entropy = "entropy"
)

// Tree is a CART-style classifier over numeric features.
type Tree struct {
	maxDepth    int // 0 => unlimited
	minSplit    int // minimum samples to attempt a split
	minLeaf     int // minimum samples per leaf
	criterion   string
	maxFeatures int // 0 => all features; >0 => features sampled per split
	seed        int64

	root    *treeNode
	classes []int // distinct labels in first-seen order
}

type treeNode struct {
	leaf      bool
	feature   int
	threshold float64 // x[feature] <= threshold goes left
	left      *treeNode
	right     *treeNode

	n      int
	probas []float64 // class distribution, aligned with Tree.classes
	pred   int       // index into Tree.classes
}

// TreeOption configures a Tree.
type TreeOption func(*Tree)

func WithMaxDepth(d int) TreeOption { return func(t *Tree) { t.maxDepth = d } }
func WithMinSamplesSplit(n int) TreeOption { return func(t *Tree) { t.minSplit = n } }
func WithMinSamplesLeaf(n int) TreeOption { return func(t *Tree) { t.minLeaf = n } }
func WithCriterion(c string) TreeOption { return func(t *Tree) { t.criterion = c } }
func WithMaxFeatures(k int) TreeOption { return func(t *Tree) { t.maxFeatures = k } }
func WithTreeSeed(s int64) TreeOption { return func(t *Tree) { t.seed = s } }

// NewTree returns a tree with the workshop defaults: unlimited depth,
// gini impurity, all features considered at every split.
func NewTree(opts ...TreeOption) *Tree {
	t := &Tree{
		minSplit:  2,
		minLeaf:   1,
		criterion: Gini,
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Fit grows the tree on X (n samples by p features) and labels y.
func (t *Tree) Fit(X mat.Matrix, y []int) error {
	rows, err := checkFitInput(X, y)
	if err != nil {
		return err
	}
	idx := make([]int, len(rows))
	for i := range idx {
		idx[i] = i
	}
	return t.fit(rows, y, idx)
}

// fit grows the tree over the given sample indices. The forest calls
// this directly with bootstrap index sets.
func (t *Tree) fit(rows [][]float64, y []int, idx []int) error {
	if len(idx) == 0 {
		return ErrNoSamples
	}
	p := len(rows[0])
	for _, r := range rows {
		if len(r) != p {
			return fmt.Errorf("model: ragged feature rows")
		}
	}

	t.classes = t.classes[:0]
	seen := map[int]int{}
	for _, i := range idx {
		if _, ok := seen[y[i]]; !ok {
			seen[y[i]] = len(t.classes)
			t.classes = append(t.classes, y[i])
		}
	}

	ci := make([]int, len(y))
	for i, lab := range y {
		if k, ok := seen[lab]; ok {
			ci[i] = k
		}
	}

	rnd := rand.New(rand.NewSource(t.seed))
	t.root = t.grow(rows, ci, idx, 0, p, rnd)
	return nil
}

// Predict returns one label per row of X, from the fitted label domain.
func (t *Tree) Predict(X mat.Matrix) ([]int, error) {
	if t.root == nil {
		return nil, ErrNotFitted
	}
	n, _ := X.Dims()
	out := make([]int, n)
	var x []float64
	for i := 0; i < n; i++ {
		x = mat.Row(x, i, X)
		out[i] = t.classes[t.leafFor(x).pred]
	}
	return out, nil
}

// PredictProba returns per-class probability vectors, columns aligned
// with Classes.
func (t *Tree) PredictProba(X mat.Matrix) ([][]float64, error) {
	if t.root == nil {
		return nil, ErrNotFitted
	}
	n, _ := X.Dims()
	out := make([][]float64, n)
	for i := 0; i < n; i++ {
		x := mat.Row(nil, i, X)
		out[i] = append([]float64(nil), t.leafFor(x).probas...)
	}
	return out, nil
}

// Classes returns the label domain in the order probability columns use.
func (t *Tree) Classes() []int { return append([]int(nil), t.classes...) }

func (t *Tree) leafFor(x []float64) *treeNode {
	node := t.root
	for !node.leaf {
		if x[node.feature] <= node.threshold {
			node = node.left
		} else {
			node = node.right
		}
	}
	return node
}

// splitResult holds the best split found for one candidate feature.
type splitResult struct {
	gain      float64
	feature   int
	threshold float64
	left      []int
	right     []int
}

func (t *Tree) grow(rows [][]float64, ci []int, idx []int, depth, p int, rnd *rand.Rand) *treeNode {
	counts := make([]int, len(t.classes))
	for _, i := range idx {
		counts[ci[i]]++
	}
	leaf := func() *treeNode {
		return &treeNode{
			leaf:   true,
			n:      len(idx),
			probas: countsToProbas(counts),
			pred:   argmax(counts),
		}
	}

	if isPure(counts) || len(idx) < t.minSplit {
		return leaf()
	}
	if t.maxDepth > 0 && depth >= t.maxDepth {
		return leaf()
	}

	feats := make([]int, p)
	for j := range feats {
		feats[j] = j
	}
	if t.maxFeatures > 0 && t.maxFeatures < p {
		rnd.Shuffle(p, func(a, b int) { feats[a], feats[b] = feats[b], feats[a] })
		feats = feats[:t.maxFeatures]
		sort.Ints(feats)
	}

	parent := t.impurity(counts)

	// Fan the per-feature split search out over goroutines; results land
	// in a position-indexed slice so the reduction order is fixed.
	results := make([]splitResult, len(feats))
	var wg sync.WaitGroup
	for k, f := range feats {
		wg.Add(1)
		go func(k, f int) {
			defer wg.Done()
			results[k] = t.bestSplit(rows, ci, idx, f, parent)
		}(k, f)
	}
	wg.Wait()

	best := splitResult{feature: -1}
	for _, r := range results {
		if r.feature >= 0 && r.gain > best.gain {
			best = r
		}
	}
	if best.feature < 0 || best.gain <= 0 {
		return leaf()
	}

	return &treeNode{
		feature:   best.feature,
		threshold: best.threshold,
		n:         len(idx),
		left:      t.grow(rows, ci, best.left, depth+1, p, rnd),
		right:     t.grow(rows, ci, best.right, depth+1, p, rnd),
	}
}

// bestSplit scans the midpoints between distinct sorted values of
// feature f, keeping class counts incrementally on both sides.
func (t *Tree) bestSplit(rows [][]float64, ci []int, idx []int, f int, parent float64) splitResult {
	type pair struct {
		v float64
		i int
	}
	pairs := make([]pair, len(idx))
	for k, i := range idx {
		pairs[k] = pair{v: rows[i][f], i: i}
	}
	sort.Slice(pairs, func(a, b int) bool {
		if pairs[a].v != pairs[b].v {
			return pairs[a].v < pairs[b].v
		}
		return pairs[a].i < pairs[b].i
	})

	total := float64(len(idx))
	leftCounts := make([]int, len(t.classes))
	rightCounts := make([]int, len(t.classes))
	for _, pr := range pairs {
		rightCounts[ci[pr.i]]++
	}

	best := splitResult{feature: -1}
	for s := 1; s < len(pairs); s++ {
		c := ci[pairs[s-1].i]
		leftCounts[c]++
		rightCounts[c]--
		if pairs[s].v == pairs[s-1].v {
			continue
		}
		if s < t.minLeaf || len(pairs)-s < t.minLeaf {
			continue
		}
		weighted := float64(s)/total*t.impurity(leftCounts) +
			float64(len(pairs)-s)/total*t.impurity(rightCounts)
		gain := parent - weighted
		if gain > best.gain {
			best = splitResult{
				gain:      gain,
				feature:   f,
				threshold: (pairs[s-1].v + pairs[s].v) / 2,
			}
			best.left = best.left[:0]
			best.right = best.right[:0]
			for k := 0; k < s; k++ {
				best.left = append(best.left, pairs[k].i)
			}
			for k := s; k < len(pairs); k++ {
				best.right = append(best.right, pairs[k].i)
			}
		}
	}
	return best
}

func (t *Tree) impurity(counts []int) float64 {
	if t.criterion == Entropy {
		return entropyFromCounts(counts)
	}
	return giniFromCounts(counts)
}
