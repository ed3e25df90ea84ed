package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"matchprep/internal/config"
	"matchprep/internal/infrastructure"
	"matchprep/internal/pipeline"
)

func main() {
	mode := flag.String("mode", "train", "preparation mode: train or test")
	configFile := flag.String("config", "", "path to YAML config file (defaults to config.yaml if present)")
	flag.Parse()

	var cfg *config.Config
	var err error
	if *configFile != "" {
		cfg, err = config.LoadFromFile(*configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	runMode := config.Mode(*mode)
	if !runMode.Valid() {
		logger.Error("Unknown mode", slog.String("mode", *mode))
		os.Exit(1)
	}

	runner := pipeline.NewPreparationRunner(logger, cfg)

	state, err := runner.Run(context.Background(), runMode)
	if err != nil {
		logger.Error("Preparation run failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	result := state.Result
	logger.Info("Dataset ready for training",
		slog.String("run_id", state.RunID),
		slog.String("mode", string(runMode)),
		slog.Int("rows", result.Table.NumRows()),
		slog.Int("feature_columns", len(result.FeatureColumns)),
		slog.String("target_column", result.TargetColumn))
}
