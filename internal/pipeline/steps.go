package pipeline

import (
	"context"
	"log/slog"

	"matchprep/internal/aggregate"
	"matchprep/internal/config"
	"matchprep/internal/dataset"
	"matchprep/internal/scale"
)

// Store is the persistence collaborator between the aggregate and scale
// steps. The round trip must be lossless: column names and numeric values
// survive unchanged.
type Store interface {
	scale.TableLoader
	SavePrepared(ctx context.Context, mode config.Mode, t *dataset.Table) error
}

// AggregateStep builds the flat match record table from the source tables
// and persists it for the scale step
type AggregateStep struct {
	logger     *slog.Logger
	cfg        *config.Config
	aggregator *aggregate.Aggregator
	store      Store
}

// NewAggregateStep creates the aggregation step
func NewAggregateStep(logger *slog.Logger, cfg *config.Config, store Store) *AggregateStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &AggregateStep{
		logger:     logger,
		cfg:        cfg,
		aggregator: aggregate.New(logger, cfg.Prepare),
		store:      store,
	}
}

// ID returns the step identifier
func (s *AggregateStep) ID() string { return "aggregate" }

// Name returns the human-readable step name
func (s *AggregateStep) Name() string { return "Aggregate source tables" }

// Execute loads the source tables, builds the match record table and
// persists it
func (s *AggregateStep) Execute(ctx context.Context, state *State) error {
	sources, err := s.aggregator.Load(ctx, s.cfg.InputPaths(state.Mode), state.Mode)
	if err != nil {
		return err
	}

	prepared, err := s.aggregator.Build(ctx, sources, state.Mode)
	if err != nil {
		return err
	}

	if err := s.store.SavePrepared(ctx, state.Mode, prepared); err != nil {
		return err
	}

	state.Prepared = prepared
	return nil
}

// ScaleStep cleans and standardizes the persisted flat table into the
// ready-to-train dataset
type ScaleStep struct {
	scaler *scale.Scaler
}

// NewScaleStep creates the scaling step
func NewScaleStep(logger *slog.Logger, cfg *config.Config, store Store) *ScaleStep {
	return &ScaleStep{
		scaler: scale.New(logger, cfg.Scale, cfg.Prepare.TargetColumn, store),
	}
}

// ID returns the step identifier
func (s *ScaleStep) ID() string { return "scale" }

// Name returns the human-readable step name
func (s *ScaleStep) Name() string { return "Clean and scale features" }

// Execute prepares the ready-to-train dataset for the run's mode
func (s *ScaleStep) Execute(ctx context.Context, state *State) error {
	result, err := s.scaler.Prepare(ctx, state.Mode)
	if err != nil {
		return err
	}
	state.Result = result
	return nil
}
