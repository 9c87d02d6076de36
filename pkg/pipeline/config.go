package pipeline

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config drives a full run: where the cohort lives, how it splits,
// how fine the boundary lattice is, and the hyperparameters handed
// through verbatim to each model.
type Config struct {
	Data struct {
		Path          string `yaml:"path"`
		AgeColumn     string `yaml:"age_column"`
		ScoreColumn   string `yaml:"score_column"`
		OutcomeColumn string `yaml:"outcome_column"`
	} `yaml:"data"`

	Split struct {
		Proportion float64 `yaml:"proportion"`
		// One full split->fit->render pass runs per seed, re-seeding
		// every randomized operation explicitly.
		Seeds []int64 `yaml:"seeds"`
	} `yaml:"split"`

	Grid struct {
		Resolution int `yaml:"resolution"`
	} `yaml:"grid"`

	Output string `yaml:"output"`

	Models struct {
		Tree struct {
			MaxDepth int `yaml:"max_depth"`
		} `yaml:"tree"`
		GBM struct {
			Iterations       int     `yaml:"iterations"`
			InteractionDepth int     `yaml:"interaction_depth"`
			LearningRate     float64 `yaml:"learning_rate"`
			Subsample        float64 `yaml:"subsample"`
		} `yaml:"gbm"`
		Forest struct {
			Trees            int `yaml:"trees"`
			MaxDepth         int `yaml:"max_depth"`
			FeaturesPerSplit int `yaml:"features_per_split"`
		} `yaml:"forest"`
	} `yaml:"models"`
}

// DefaultConfig mirrors the workshop setup: eICU columns, 70/30 split
// over seeds 42/123/321, a 100x100 lattice, and the usual model
// defaults.
func DefaultConfig() Config {
	var c Config
	c.Data.Path = "data/cohort.csv"
	c.Data.AgeColumn = "age"
	c.Data.ScoreColumn = "acutephysiologyscore"
	c.Data.OutcomeColumn = "actualhospitalmortality"
	c.Split.Proportion = 0.7
	c.Split.Seeds = []int64{42, 123, 321}
	c.Grid.Resolution = 100
	c.Output = "out"
	c.Models.Tree.MaxDepth = 10
	c.Models.GBM.Iterations = 100
	c.Models.GBM.InteractionDepth = 1
	c.Models.GBM.LearningRate = 0.1
	c.Models.GBM.Subsample = 0.5
	c.Models.Forest.Trees = 100
	c.Models.Forest.MaxDepth = 10
	c.Models.Forest.FeaturesPerSplit = 1
	return c
}

// LoadConfig reads a YAML config over the defaults, so a file only
// states what it changes.
func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()
	raw, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("pipeline: read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return c, fmt.Errorf("pipeline: parse config %s: %w", path, err)
	}
	return c, nil
}
