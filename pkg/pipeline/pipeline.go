// Package pipeline wires the stages end to end: load, clean, split,
// fit, evaluate, render. Each stage returns a fresh snapshot; nothing
// is mutated in place or reused across seeds.
package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MIT-LCP/bst209/pkg/boundary"
	"github.com/MIT-LCP/bst209/pkg/cohort"
	"github.com/MIT-LCP/bst209/pkg/dataprep"
	"github.com/MIT-LCP/bst209/pkg/model"
	"github.com/MIT-LCP/bst209/pkg/split"
)

// EncodedOutcomeColumn is the name the cleaner appends the binary
// outcome under.
const EncodedOutcomeColumn = "mortality"

// Kind selects which classifier a pass fits.
type Kind string

const (
	KindTree   Kind = "tree"
	KindGBM    Kind = "gbm"
	KindForest Kind = "forest"
)

// Result summarises one seed's pass.
type Result struct {
	Seed      int64
	TrainRows int
	TestRows  int
	Accuracy  float64
	Precision float64
	Recall    float64
	F1        float64
	PlotPath  string
}

// Run executes passes under one identity. The run ID tags log lines
// and output files so repeated runs don't clobber each other.
type Run struct {
	ID  string
	cfg Config
	log *zap.Logger
}

// NewRun assigns a fresh run ID and scopes the logger to it.
func NewRun(cfg Config, log *zap.Logger) *Run {
	id := uuid.NewString()
	return &Run{
		ID:  id,
		cfg: cfg,
		log: log.With(zap.String("run", id[:8])),
	}
}

// ExecuteAll runs one pass per configured seed, in order, and stops on
// the first failure.
func (r *Run) ExecuteAll(kind Kind) ([]Result, error) {
	results := make([]Result, 0, len(r.cfg.Split.Seeds))
	for _, seed := range r.cfg.Split.Seeds {
		res, err := r.Execute(kind, seed)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// Execute runs one full pass: the split and the model are both seeded
// with the given seed, everything else is deterministic.
func (r *Run) Execute(kind Kind, seed int64) (Result, error) {
	log := r.log.With(zap.String("model", string(kind)), zap.Int64("seed", seed))

	raw, err := cohort.Load(r.cfg.Data.Path)
	if err != nil {
		return Result{}, err
	}
	log.Info("cohort loaded", zap.Int("rows", raw.NumRows()))

	cleaned, rep, err := dataprep.Clean(raw,
		r.cfg.Data.AgeColumn, r.cfg.Data.ScoreColumn, r.cfg.Data.OutcomeColumn,
		EncodedOutcomeColumn)
	if err != nil {
		return Result{}, err
	}
	log.Info("cohort cleaned",
		zap.Int("rows", cleaned.NumRows()),
		zap.Int("dropped", rep.Dropped),
		zap.Int("imputed_ages", rep.ImputedAges))

	labels, err := split.Labels(cleaned, EncodedOutcomeColumn)
	if err != nil {
		return Result{}, err
	}
	parts, err := split.Stratified(labels, r.cfg.Split.Proportion, seed)
	if err != nil {
		return Result{}, err
	}
	trainT := cleaned.Select(parts.Train)
	testT := cleaned.Select(parts.Test)
	log.Info("cohort split",
		zap.Int("train", trainT.NumRows()),
		zap.Int("test", testT.NumRows()))

	features := []string{r.cfg.Data.AgeColumn, r.cfg.Data.ScoreColumn}
	XTrain, err := split.Project(trainT, features...)
	if err != nil {
		return Result{}, err
	}
	XTest, err := split.Project(testT, features...)
	if err != nil {
		return Result{}, err
	}
	yTrain, err := split.Labels(trainT, EncodedOutcomeColumn)
	if err != nil {
		return Result{}, err
	}
	yTest, err := split.Labels(testT, EncodedOutcomeColumn)
	if err != nil {
		return Result{}, err
	}

	clf, err := r.classifier(kind, seed)
	if err != nil {
		return Result{}, err
	}
	if err := clf.Fit(XTrain, yTrain); err != nil {
		return Result{}, fmt.Errorf("pipeline: fit %s: %w", kind, err)
	}

	yPred, err := clf.Predict(XTest)
	if err != nil {
		return Result{}, fmt.Errorf("pipeline: predict %s: %w", kind, err)
	}
	res := Result{
		Seed:      seed,
		TrainRows: trainT.NumRows(),
		TestRows:  testT.NumRows(),
		Accuracy:  model.Accuracy(yTest, yPred),
	}
	res.Precision, res.Recall, res.F1 = model.PrecisionRecallF1(yTest, yPred)
	log.Info("model evaluated",
		zap.Float64("accuracy", res.Accuracy),
		zap.Float64("f1", res.F1))

	grid, err := boundary.FromTraining(XTrain, r.cfg.Grid.Resolution)
	if err != nil {
		return Result{}, err
	}
	gridPred, err := clf.Predict(grid.Matrix())
	if err != nil {
		return Result{}, fmt.Errorf("pipeline: predict lattice: %w", err)
	}

	if err := os.MkdirAll(r.cfg.Output, 0o755); err != nil {
		return Result{}, fmt.Errorf("pipeline: output dir: %w", err)
	}
	res.PlotPath = filepath.Join(r.cfg.Output,
		fmt.Sprintf("%s-seed%d-%s.png", kind, seed, r.ID[:8]))
	err = boundary.Render(grid, gridPred,
		boundary.Overlay{X: XTest, Labels: yTest},
		r.cfg.Data.AgeColumn, r.cfg.Data.ScoreColumn,
		fmt.Sprintf("%s decision boundary (seed %d)", kind, seed),
		res.PlotPath)
	if err != nil {
		return Result{}, err
	}
	log.Info("boundary rendered", zap.String("path", res.PlotPath))
	return res, nil
}

func (r *Run) classifier(kind Kind, seed int64) (model.Classifier, error) {
	switch kind {
	case KindTree:
		return model.NewTree(
			model.WithMaxDepth(r.cfg.Models.Tree.MaxDepth),
			model.WithTreeSeed(seed),
		), nil
	case KindGBM:
		return model.NewBoost(
			model.WithIterations(r.cfg.Models.GBM.Iterations),
			model.WithInteractionDepth(r.cfg.Models.GBM.InteractionDepth),
			model.WithLearningRate(r.cfg.Models.GBM.LearningRate),
			model.WithSubsample(r.cfg.Models.GBM.Subsample),
			model.WithBoostSeed(seed),
		), nil
	case KindForest:
		return model.NewForest(
			model.WithTrees(r.cfg.Models.Forest.Trees),
			model.WithForestMaxDepth(r.cfg.Models.Forest.MaxDepth),
			model.WithFeaturesPerSplit(r.cfg.Models.Forest.FeaturesPerSplit),
			model.WithForestSeed(seed),
		), nil
	default:
		return nil, fmt.Errorf("pipeline: unknown model kind %q", kind)
	}
}
