package split

import (
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MIT-LCP/bst209/pkg/cohort"
)

// labels6040 builds n labels with a 60/40 class balance.
func labels6040(n int) []int {
	out := make([]int, n)
	for i := range out {
		if i%5 < 3 {
			out[i] = 1
		}
	}
	return out
}

func TestStratifiedDeterminism(t *testing.T) {
	labels := labels6040(490)
	a, err := Stratified(labels, 0.7, 42)
	require.NoError(t, err)
	b, err := Stratified(labels, 0.7, 42)
	require.NoError(t, err)

	assert.Equal(t, a.Train, b.Train)
	assert.Equal(t, a.Test, b.Test)

	c, err := Stratified(labels, 0.7, 123)
	require.NoError(t, err)
	assert.NotEqual(t, a.Train, c.Train, "a different seed should move rows")
}

func TestStratifiedCoverage(t *testing.T) {
	labels := labels6040(201)
	s, err := Stratified(labels, 0.7, 321)
	require.NoError(t, err)

	all := append(append([]int(nil), s.Train...), s.Test...)
	sort.Ints(all)
	require.Len(t, all, len(labels))
	for i, v := range all {
		require.Equal(t, i, v, "every row appears exactly once")
	}
}

func TestStratifiedProportion(t *testing.T) {
	labels := labels6040(490)
	s, err := Stratified(labels, 0.7, 42)
	require.NoError(t, err)

	want := 0.7 * 490
	assert.InDelta(t, want, float64(len(s.Train)), 1, "train size within one row of p*n")
}

func TestStratifiedPreservesClassBalance(t *testing.T) {
	labels := labels6040(500) // 60% class 1, 40% class 0
	s, err := Stratified(labels, 0.7, 42)
	require.NoError(t, err)

	share := func(idx []int) float64 {
		ones := 0
		for _, i := range idx {
			ones += labels[i]
		}
		return float64(ones) / float64(len(idx))
	}
	assert.True(t, math.Abs(share(s.Train)-0.6) < 0.05, "train balance %v", share(s.Train))
	assert.True(t, math.Abs(share(s.Test)-0.6) < 0.05, "test balance %v", share(s.Test))
}

func TestStratifiedSingleClass(t *testing.T) {
	_, err := Stratified([]int{1, 1, 1, 1}, 0.7, 42)
	require.ErrorIs(t, err, ErrSingleClass)
}

func TestStratifiedSingletonClassesLeaveNoTestRows(t *testing.T) {
	// One row per class: round(0.7*1) sends both rows to train, leaving
	// the test partition empty. That is a configuration error, not a
	// silent empty set.
	_, err := Stratified([]int{0, 1}, 0.7, 42)
	require.ErrorIs(t, err, ErrEmptyPartition)
}

func TestProjectEmptyTable(t *testing.T) {
	tab, err := cohort.New([]string{"age", "acutephysiologyscore"}, nil)
	require.NoError(t, err)

	require.NotPanics(t, func() {
		_, err = Project(tab, "age", "acutephysiologyscore")
	})
	require.ErrorIs(t, err, ErrEmptyPartition)
}

func TestStratifiedBadProportion(t *testing.T) {
	labels := labels6040(10)
	for _, p := range []float64{0, 1, -0.2, 1.5} {
		_, err := Stratified(labels, p, 42)
		require.ErrorIs(t, err, ErrBadProportion, "p=%v", p)
	}
}

func testTable(t *testing.T) *cohort.Table {
	t.Helper()
	tab, err := cohort.New(
		[]string{"age", "acutephysiologyscore", "mortality"},
		[][]string{
			{"70", "40", "0"},
			{"61", "35", "1"},
			{"55", "20", "1"},
			{"83", "55", "0"},
		},
	)
	require.NoError(t, err)
	return tab
}

func TestProject(t *testing.T) {
	tab := testTable(t)
	X, err := Project(tab, "age", "acutephysiologyscore")
	require.NoError(t, err)

	r, c := X.Dims()
	require.Equal(t, 4, r)
	require.Equal(t, 2, c)
	assert.Equal(t, 70.0, X.At(0, 0))
	assert.Equal(t, 55.0, X.At(3, 1))
}

func TestProjectMissingColumn(t *testing.T) {
	tab := testTable(t)
	_, err := Project(tab, "age", "apache")
	require.ErrorIs(t, err, cohort.ErrMissingColumn)
}

func TestLabels(t *testing.T) {
	tab := testTable(t)
	labels, err := Labels(tab, "mortality")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 1, 0}, labels)

	_, err = Labels(tab, "age")
	require.NoError(t, err) // integers parse

	_, err = Labels(tab, "apache")
	require.ErrorIs(t, err, cohort.ErrMissingColumn)
}

func TestStratifiedTable(t *testing.T) {
	labels := labels6040(200)
	rows := make([][]string, len(labels))
	for i, l := range labels {
		rows[i] = []string{"70", "40", map[int]string{0: "0", 1: "1"}[l]}
	}
	tab, err := cohort.New([]string{"age", "acutephysiologyscore", "mortality"}, rows)
	require.NoError(t, err)

	train, test, err := StratifiedTable(tab, "mortality", 0.7, 42)
	require.NoError(t, err)
	assert.Equal(t, len(labels), train.NumRows()+test.NumRows())
	assert.InDelta(t, 140, train.NumRows(), 1)
}
