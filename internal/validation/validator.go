// Package validation provides pre-flight checks for pipeline inputs: source
// files must exist and required columns must be present before any transform
// runs, so configuration and schema mistakes fail fast instead of surfacing
// as key errors mid-join.
package validation

import (
	"fmt"
	"log/slog"
	"os"

	"matchprep/internal/config"
	"matchprep/internal/dataset"
	"matchprep/internal/errors"
)

// Validator performs pre-flight validation of pipeline inputs
type Validator struct {
	logger *slog.Logger
}

// New creates a new validator
func New(logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{logger: logger}
}

// ValidateInputFiles checks that every source table for the given mode exists.
// A missing file is a fatal configuration error, reported before any load.
func (v *Validator) ValidateInputFiles(paths config.InputPaths, mode config.Mode) error {
	required := map[string]string{
		"home team stats":   paths.HomeTeam,
		"away team stats":   paths.AwayTeam,
		"home player stats": paths.HomePlayers,
		"away player stats": paths.AwayPlayers,
	}
	if mode == config.ModeTrain {
		required["match outcomes"] = paths.Outcomes
	}

	for name, path := range required {
		info, err := os.Stat(path)
		if os.IsNotExist(err) {
			v.logger.Error("input file does not exist",
				slog.String("table", name),
				slog.String("path", path))
			return errors.NewConfigError(fmt.Sprintf("%s file %s does not exist", name, path), err)
		}
		if err != nil {
			return errors.NewConfigError(fmt.Sprintf("failed to stat %s file %s", name, path), err)
		}
		if info.IsDir() {
			return errors.NewConfigError(fmt.Sprintf("%s path %s is a directory", name, path), nil)
		}
	}

	v.logger.Info("input files validated",
		slog.String("mode", string(mode)),
		slog.Int("file_count", len(required)))

	return nil
}

// ValidateIdentifier checks that the table is keyed by the expected
// identifier column
func (v *Validator) ValidateIdentifier(t *dataset.Table, tableName, idColumn string) error {
	if t.IDName() != idColumn {
		v.logger.Error("unexpected identifier column",
			slog.String("table", tableName),
			slog.String("want", idColumn),
			slog.String("got", t.IDName()))
		return errors.NewSchemaError(
			fmt.Sprintf("table %s is keyed by %q, expected %q", tableName, t.IDName(), idColumn), nil).
			WithContext("table", tableName)
	}
	return nil
}

// ValidateRequiredColumns checks that the table carries every named column
func (v *Validator) ValidateRequiredColumns(t *dataset.Table, tableName string, columns ...string) error {
	for _, name := range columns {
		if !t.HasColumn(name) {
			v.logger.Error("required column missing",
				slog.String("table", tableName),
				slog.String("column", name))
			return errors.NewSchemaError(
				fmt.Sprintf("table %s is missing required column %q", tableName, name), nil).
				WithContext("table", tableName).
				WithContext("column", name)
		}
	}
	return nil
}
