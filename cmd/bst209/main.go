// Command bst209 fits a classifier to the clinical cohort and renders
// its decision boundary over age and acute physiology score, once per
// configured seed.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/MIT-LCP/bst209/pkg/pipeline"
)

var (
	flagConfig  string
	flagData    string
	flagOut     string
	flagVerbose bool
)

func main() {
	root := &cobra.Command{
		Use:           "bst209",
		Short:         "Decision boundaries over a clinical cohort",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "YAML config file (defaults used when empty)")
	root.PersistentFlags().StringVar(&flagData, "data", "", "cohort CSV path (overrides config)")
	root.PersistentFlags().StringVar(&flagOut, "out", "", "output directory (overrides config)")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		modelCommand(pipeline.KindTree, "tree", "Fit a decision tree"),
		modelCommand(pipeline.KindGBM, "gbm", "Fit a gradient-boosted ensemble"),
		modelCommand(pipeline.KindForest, "forest", "Fit a random forest"),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "bst209:", err)
		os.Exit(1)
	}
}

func modelCommand(kind pipeline.Kind, use, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger()
			if err != nil {
				return err
			}
			defer logger.Sync()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			run := pipeline.NewRun(cfg, logger)
			results, err := run.ExecuteAll(kind)
			if err != nil {
				return err
			}
			for _, r := range results {
				fmt.Printf("seed %d: train=%d test=%d accuracy=%.3f f1=%.3f plot=%s\n",
					r.Seed, r.TrainRows, r.TestRows, r.Accuracy, r.F1, r.PlotPath)
			}
			return nil
		},
	}
}

func loadConfig() (pipeline.Config, error) {
	cfg := pipeline.DefaultConfig()
	if flagConfig != "" {
		var err error
		cfg, err = pipeline.LoadConfig(flagConfig)
		if err != nil {
			return cfg, err
		}
	}
	if flagData != "" {
		cfg.Data.Path = flagData
	}
	if flagOut != "" {
		cfg.Output = flagOut
	}
	return cfg, nil
}

func newLogger() (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if flagVerbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config.Build()
}
