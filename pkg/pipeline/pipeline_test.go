package pipeline

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MIT-LCP/bst209/pkg/cohort"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Data.Path = "testdata/cohort.csv"
	cfg.Grid.Resolution = 20
	cfg.Output = t.TempDir()
	cfg.Split.Seeds = []int64{42}
	cfg.Models.Tree.MaxDepth = 4
	cfg.Models.GBM.Iterations = 20
	cfg.Models.Forest.Trees = 10
	cfg.Models.Forest.MaxDepth = 4
	return cfg
}

func TestExecuteTree(t *testing.T) {
	run := NewRun(testConfig(t), zap.NewNop())
	res, err := run.Execute(KindTree, 42)
	require.NoError(t, err)

	// 62 raw rows, 2 carry the score sentinel.
	assert.Equal(t, 60, res.TrainRows+res.TestRows)
	assert.InDelta(t, 42, res.TrainRows, 1)
	assert.GreaterOrEqual(t, res.Accuracy, 0.0)
	assert.LessOrEqual(t, res.Accuracy, 1.0)

	info, err := os.Stat(res.PlotPath)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestExecuteIsSeedDeterministic(t *testing.T) {
	cfg := testConfig(t)
	a, err := NewRun(cfg, zap.NewNop()).Execute(KindTree, 42)
	require.NoError(t, err)
	b, err := NewRun(cfg, zap.NewNop()).Execute(KindTree, 42)
	require.NoError(t, err)

	assert.Equal(t, a.TrainRows, b.TrainRows)
	assert.Equal(t, a.Accuracy, b.Accuracy)
}

func TestExecuteAllRunsEverySeed(t *testing.T) {
	cfg := testConfig(t)
	cfg.Split.Seeds = []int64{42, 123, 321}
	run := NewRun(cfg, zap.NewNop())

	results, err := run.ExecuteAll(KindGBM)
	require.NoError(t, err)
	require.Len(t, results, 3)

	paths := map[string]struct{}{}
	for i, res := range results {
		assert.Equal(t, cfg.Split.Seeds[i], res.Seed)
		paths[res.PlotPath] = struct{}{}
	}
	assert.Len(t, paths, 3, "each seed writes its own plot")
}

func TestExecuteForest(t *testing.T) {
	run := NewRun(testConfig(t), zap.NewNop())
	res, err := run.Execute(KindForest, 123)
	require.NoError(t, err)
	assert.Equal(t, 60, res.TrainRows+res.TestRows)
}

func TestExecuteUnknownKind(t *testing.T) {
	run := NewRun(testConfig(t), zap.NewNop())
	_, err := run.Execute(Kind("perceptron"), 42)
	require.Error(t, err)
}

func TestExecuteMissingColumnFailsFast(t *testing.T) {
	cfg := testConfig(t)
	cfg.Data.OutcomeColumn = "hospitaldischargestatus"
	run := NewRun(cfg, zap.NewNop())

	_, err := run.Execute(KindTree, 42)
	require.ErrorIs(t, err, cohort.ErrMissingColumn)
}

func TestExecuteMissingFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.Data.Path = "testdata/nope.csv"
	_, err := NewRun(cfg, zap.NewNop()).Execute(KindTree, 42)
	require.Error(t, err)
}
