package scale

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"matchprep/internal/config"
	"matchprep/internal/dataset"
	"matchprep/internal/errors"
)

// TableLoader loads a persisted prepared table for one mode. The pipeline
// backs it with the CSV store; tests substitute in-memory tables.
type TableLoader interface {
	LoadPrepared(ctx context.Context, mode config.Mode) (*dataset.Table, error)
}

// Stats holds the scaling reference for one feature column: mean and sample
// standard deviation over the observed cells of the reference table.
type Stats struct {
	Mean  float64
	Std   float64
	Count int
}

// Result is the ready-to-train output of a preparation run
type Result struct {
	Table          *dataset.Table
	FeatureColumns []string
	TargetColumn   string
}

// Scaler cleans a flat feature table and standardizes its feature columns
// against reference statistics taken from the training table. Reference
// statistics never come from test data.
type Scaler struct {
	logger *slog.Logger
	cfg    config.ScaleConfig
	target string
	loader TableLoader
}

// New creates a new scaler with the given configuration
func New(logger *slog.Logger, cfg config.ScaleConfig, targetColumn string, loader TableLoader) *Scaler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scaler{
		logger: logger,
		cfg:    cfg,
		target: targetColumn,
		loader: loader,
	}
}

// SelectFeatureColumns returns the model-input candidates: every column
// except the identifier and the target that carries more than one distinct
// observed value, with the missing marker counted as one value. It runs
// against the freshly loaded table, before any column is dropped for
// sparsity; that ordering is part of the contract.
func (s *Scaler) SelectFeatureColumns(t *dataset.Table) []string {
	var features []string
	for _, name := range t.Columns() {
		if name == s.target {
			continue
		}
		series, _ := t.Column(name)
		if series.DistinctObserved() > 1 {
			features = append(features, name)
		}
	}
	return features
}

// DropSparseColumns returns a new table without the columns whose fraction of
// missing values strictly exceeds the configured threshold. A column sitting
// exactly on the threshold survives.
func (s *Scaler) DropSparseColumns(ctx context.Context, t *dataset.Table) *dataset.Table {
	var drop []string
	for _, name := range t.Columns() {
		series, _ := t.Column(name)
		if series.MissingFraction() > s.cfg.SparsityThreshold {
			drop = append(drop, name)
		}
	}

	s.logger.InfoContext(ctx, "dropped sparse columns",
		slog.Int("column_count", len(drop)),
		slog.Float64("percent", percent(len(drop), t.NumColumns())),
		slog.Float64("threshold", s.cfg.SparsityThreshold))

	return t.DropColumns(drop...)
}

// DropConstantColumns returns a new table without the columns that carry
// exactly one distinct observed value
func (s *Scaler) DropConstantColumns(ctx context.Context, t *dataset.Table) *dataset.Table {
	var drop []string
	for _, name := range t.Columns() {
		series, _ := t.Column(name)
		if series.DistinctNonMissing() == 1 {
			drop = append(drop, name)
		}
	}

	s.logger.InfoContext(ctx, "dropped constant columns",
		slog.Int("column_count", len(drop)),
		slog.Float64("percent", percent(len(drop), t.NumColumns())))

	return t.DropColumns(drop...)
}

// DropIncompleteRows returns a new table without the rows that have at least
// one missing value in the surviving columns. No imputation: the row filter
// is all or nothing.
func (s *Scaler) DropIncompleteRows(ctx context.Context, t *dataset.Table) *dataset.Table {
	keep := make([]bool, t.NumRows())
	for i := range keep {
		keep[i] = true
	}
	for _, name := range t.Columns() {
		series, _ := t.Column(name)
		for i, valid := range series.Valid {
			if !valid {
				keep[i] = false
			}
		}
	}

	dropped := 0
	for _, k := range keep {
		if !k {
			dropped++
		}
	}

	s.logger.InfoContext(ctx, "dropped incomplete rows",
		slog.Int("row_count", dropped),
		slog.Float64("percent", percent(dropped, t.NumRows())))

	return t.FilterRows(keep)
}

// FitReference computes the scaling reference for each named column of the
// reference table
func (s *Scaler) FitReference(reference *dataset.Table, columns []string) (map[string]Stats, error) {
	stats := make(map[string]Stats, len(columns))
	for _, name := range columns {
		series, ok := reference.Column(name)
		if !ok {
			return nil, errors.NewSchemaError(
				fmt.Sprintf("reference table is missing feature column %q", name), nil).
				WithContext("column", name)
		}
		stats[name] = fit(series)
	}
	return stats, nil
}

// fit computes mean and sample standard deviation over the observed cells
func fit(s *dataset.Series) Stats {
	var sum float64
	var count int
	for i, v := range s.Values {
		if s.Valid[i] {
			sum += v
			count++
		}
	}
	if count == 0 {
		return Stats{}
	}

	mean := sum / float64(count)
	if count < 2 {
		return Stats{Mean: mean, Count: count}
	}

	var squares float64
	for i, v := range s.Values {
		if s.Valid[i] {
			d := v - mean
			squares += d * d
		}
	}
	return Stats{
		Mean:  mean,
		Std:   math.Sqrt(squares / float64(count-1)),
		Count: count,
	}
}

// Scale returns a new table with each named feature column standardized to
// (value - mean) / std using the given reference statistics. Missing cells
// stay missing. A zero-variance reference column is a degenerate feature and
// fails explicitly instead of producing a non-finite result.
func (s *Scaler) Scale(t *dataset.Table, columns []string, reference map[string]Stats) (*dataset.Table, error) {
	result := t.Clone()
	for _, name := range columns {
		series, ok := result.Column(name)
		if !ok {
			return nil, errors.NewSchemaError(
				fmt.Sprintf("table is missing feature column %q", name), nil).
				WithContext("column", name)
		}
		stats, ok := reference[name]
		if !ok {
			return nil, errors.NewSchemaError(
				fmt.Sprintf("no reference statistics for feature column %q", name), nil).
				WithContext("column", name)
		}
		if stats.Count < 2 || stats.Std == 0 {
			return nil, errors.NewDegenerateError(name)
		}

		for i, valid := range series.Valid {
			if valid {
				series.Values[i] = (series.Values[i] - stats.Mean) / stats.Std
			}
		}
	}
	return result, nil
}

// percent returns 100*part/total rounded to two decimals, 0 for an empty total
func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(10000*float64(part)/float64(total)) / 100
}
