package scale

import (
	"context"
	"fmt"
	"log/slog"

	"matchprep/internal/config"
	"matchprep/internal/dataset"
	"matchprep/internal/errors"
)

// Prepare runs the full cleaning and scaling sequence for the given mode and
// returns the ready-to-train dataset together with the feature column list
// and the target column name.
func (s *Scaler) Prepare(ctx context.Context, mode config.Mode) (*Result, error) {
	switch mode {
	case config.ModeTrain:
		return s.PrepareTrain(ctx)
	case config.ModeTest:
		return s.PrepareTest(ctx)
	default:
		return nil, errors.NewValidationError(fmt.Sprintf("unknown mode %q", mode))
	}
}

// PrepareTrain loads the prepared training table, selects feature columns,
// prunes sparse and constant columns, drops incomplete rows and standardizes
// the surviving feature columns against the table's own statistics.
func (s *Scaler) PrepareTrain(ctx context.Context) (*Result, error) {
	result, _, err := s.prepareTraining(ctx)
	return result, err
}

// PrepareTest regenerates the training preparation from the persisted
// training table — reference statistics and the feature column set are
// derived from training data alone — then loads the raw test table and
// standardizes it against those statistics. The feature column set comes
// from the training pass and is never recomputed on test data; test rows
// keep their missing values.
func (s *Scaler) PrepareTest(ctx context.Context) (*Result, error) {
	training, reference, err := s.prepareTraining(ctx)
	if err != nil {
		return nil, err
	}

	test, err := s.loader.LoadPrepared(ctx, config.ModeTest)
	if err != nil {
		return nil, err
	}

	scaled, err := s.Scale(test, training.FeatureColumns, reference)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "prepared test dataset",
		slog.Int("rows", scaled.NumRows()),
		slog.Int("feature_columns", len(training.FeatureColumns)))

	return &Result{
		Table:          scaled,
		FeatureColumns: training.FeatureColumns,
		TargetColumn:   s.target,
	}, nil
}

// prepareTraining runs the training preparation and also returns the
// reference statistics, computed on the cleaned table before scaling so that
// the same reference serves both the self-fit and any later test transform.
func (s *Scaler) prepareTraining(ctx context.Context) (*Result, map[string]Stats, error) {
	data, err := s.loader.LoadPrepared(ctx, config.ModeTrain)
	if err != nil {
		return nil, nil, err
	}

	// Feature candidates are chosen against the original loaded table,
	// before any column is dropped for sparsity.
	features := s.SelectFeatureColumns(data)

	data = s.DropSparseColumns(ctx, data)
	data = s.DropConstantColumns(ctx, data)
	features = intersect(features, data)
	data = s.DropIncompleteRows(ctx, data)

	reference, err := s.FitReference(data, features)
	if err != nil {
		return nil, nil, err
	}

	scaled, err := s.Scale(data, features, reference)
	if err != nil {
		return nil, nil, err
	}

	s.logger.InfoContext(ctx, "prepared training dataset",
		slog.Int("rows", scaled.NumRows()),
		slog.Int("feature_columns", len(features)))

	return &Result{
		Table:          scaled,
		FeatureColumns: features,
		TargetColumn:   s.target,
	}, reference, nil
}

// intersect keeps the candidate columns that survived cleaning, in their
// original order
func intersect(candidates []string, t *dataset.Table) []string {
	var kept []string
	for _, name := range candidates {
		if t.HasColumn(name) {
			kept = append(kept, name)
		}
	}
	return kept
}
