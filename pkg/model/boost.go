package model

import (
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Boost is a two-class gradient-boosted ensemble with logistic loss.
// Each round fits a shallow regression tree to the current residuals
// on a fresh subsample, with Newton-step leaf values and shrinkage.
type Boost struct {
	iterations int     // boosting rounds
	depth      int     // interaction depth of each stage
	rate       float64 // shrinkage applied to every stage
	subsample  float64 // fraction of rows drawn per round, (0, 1]
	seed       int64

	f0     float64
	stages []*regNode
	neg    int // label scored toward 0
	pos    int // label scored toward 1
	fitted bool
}

type regNode struct {
	leaf      bool
	feature   int
	threshold float64
	value     float64
	left      *regNode
	right     *regNode
}

// BoostOption configures a Boost.
type BoostOption func(*Boost)

func WithIterations(n int) BoostOption { return func(b *Boost) { b.iterations = n } }
func WithInteractionDepth(d int) BoostOption { return func(b *Boost) { b.depth = d } }
func WithLearningRate(r float64) BoostOption { return func(b *Boost) { b.rate = r } }
func WithSubsample(f float64) BoostOption { return func(b *Boost) { b.subsample = f } }
func WithBoostSeed(s int64) BoostOption { return func(b *Boost) { b.seed = s } }

// NewBoost returns an ensemble with the usual gbm defaults: 100
// stumps, shrinkage 0.1, half the rows per round.
func NewBoost(opts ...BoostOption) *Boost {
	b := &Boost{
		iterations: 100,
		depth:      1,
		rate:       0.1,
		subsample:  0.5,
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Fit trains the ensemble. Labels must take exactly two distinct
// values; the smaller one plays the "0" role in the logistic loss.
func (b *Boost) Fit(X mat.Matrix, y []int) error {
	rows, err := checkFitInput(X, y)
	if err != nil {
		return err
	}

	distinct := map[int]struct{}{}
	for _, lab := range y {
		distinct[lab] = struct{}{}
	}
	if len(distinct) != 2 {
		return ErrNotBinary
	}
	labs := make([]int, 0, 2)
	for lab := range distinct {
		labs = append(labs, lab)
	}
	sort.Ints(labs)
	b.neg, b.pos = labs[0], labs[1]

	n := len(rows)
	y01 := make([]float64, n)
	mean := 0.0
	for i, lab := range y {
		if lab == b.pos {
			y01[i] = 1
		}
		mean += y01[i]
	}
	mean /= float64(n)
	b.f0 = math.Log(mean / (1 - mean))

	score := make([]float64, n)
	for i := range score {
		score[i] = b.f0
	}

	resid := make([]float64, n)
	hess := make([]float64, n)
	b.stages = make([]*regNode, 0, b.iterations)
	for m := 0; m < b.iterations; m++ {
		for i := range rows {
			p := sigmoid(score[i])
			resid[i] = y01[i] - p
			hess[i] = p * (1 - p)
		}

		// Fresh source per round: the subsample of round m depends only
		// on (seed, m), never on how earlier rounds consumed the stream.
		idx := b.sampleRows(n, m)

		stage := b.growReg(rows, resid, hess, idx, b.depth)
		b.stages = append(b.stages, stage)
		for i, r := range rows {
			score[i] += b.rate * regPredict(stage, r)
		}
	}
	b.fitted = true
	return nil
}

// Predict maps each row to pos when the boosted score clears the
// logistic midpoint, neg otherwise.
func (b *Boost) Predict(X mat.Matrix) ([]int, error) {
	if !b.fitted {
		return nil, ErrNotFitted
	}
	n, _ := X.Dims()
	out := make([]int, n)
	var x []float64
	for i := 0; i < n; i++ {
		x = mat.Row(x, i, X)
		score := b.f0
		for _, stage := range b.stages {
			score += b.rate * regPredict(stage, x)
		}
		if score >= 0 {
			out[i] = b.pos
		} else {
			out[i] = b.neg
		}
	}
	return out, nil
}

func (b *Boost) sampleRows(n, round int) []int {
	if b.subsample >= 1 {
		idx := make([]int, n)
		for i := range idx {
			idx[i] = i
		}
		return idx
	}
	rnd := rand.New(rand.NewSource(b.seed + int64(round)))
	perm := rnd.Perm(n)
	k := int(math.Round(b.subsample * float64(n)))
	if k < 1 {
		k = 1
	}
	idx := perm[:k]
	sort.Ints(idx)
	return idx
}

// growReg builds a least-squares regression tree on the residuals.
// Leaf values are the Newton step sum(resid)/sum(hess) for the
// logistic loss.
func (b *Boost) growReg(rows [][]float64, resid, hess []float64, idx []int, depth int) *regNode {
	sumR, sumH := 0.0, 0.0
	for _, i := range idx {
		sumR += resid[i]
		sumH += hess[i]
	}
	leaf := func() *regNode {
		v := 0.0
		if sumH > 0 {
			v = sumR / sumH
		}
		return &regNode{leaf: true, value: v}
	}
	if depth <= 0 || len(idx) < 2 {
		return leaf()
	}

	p := len(rows[0])
	type best struct {
		gain      float64
		feature   int
		threshold float64
		at        int
		order     []int
	}
	bst := best{feature: -1}

	total := sumR
	totalN := float64(len(idx))
	for f := 0; f < p; f++ {
		order := append([]int(nil), idx...)
		sort.Slice(order, func(a, c int) bool {
			if rows[order[a]][f] != rows[order[c]][f] {
				return rows[order[a]][f] < rows[order[c]][f]
			}
			return order[a] < order[c]
		})
		leftSum, leftN := 0.0, 0.0
		for s := 1; s < len(order); s++ {
			leftSum += resid[order[s-1]]
			leftN++
			if rows[order[s]][f] == rows[order[s-1]][f] {
				continue
			}
			rightSum := total - leftSum
			rightN := totalN - leftN
			// SSE reduction, dropping terms constant across splits.
			gain := leftSum*leftSum/leftN + rightSum*rightSum/rightN - total*total/totalN
			if gain > bst.gain {
				bst = best{
					gain:      gain,
					feature:   f,
					threshold: (rows[order[s-1]][f] + rows[order[s]][f]) / 2,
					at:        s,
					order:     order,
				}
			}
		}
	}
	if bst.feature < 0 {
		return leaf()
	}

	left := append([]int(nil), bst.order[:bst.at]...)
	right := append([]int(nil), bst.order[bst.at:]...)
	return &regNode{
		feature:   bst.feature,
		threshold: bst.threshold,
		left:      b.growReg(rows, resid, hess, left, depth-1),
		right:     b.growReg(rows, resid, hess, right, depth-1),
	}
}

func regPredict(n *regNode, x []float64) float64 {
	for !n.leaf {
		if x[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.value
}

func sigmoid(v float64) float64 { return 1 / (1 + math.Exp(-v)) }
