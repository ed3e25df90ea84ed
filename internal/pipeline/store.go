package pipeline

import (
	"context"

	"matchprep/internal/config"
	"matchprep/internal/dataset"
)

// CSVStore persists prepared tables at the locations the configuration
// assigns to each mode. It backs the scale package's TableLoader.
type CSVStore struct {
	cfg *config.Config
}

// NewCSVStore creates a store over the configured output locations
func NewCSVStore(cfg *config.Config) *CSVStore {
	return &CSVStore{cfg: cfg}
}

// LoadPrepared loads the persisted prepared table for the given mode
func (s *CSVStore) LoadPrepared(_ context.Context, mode config.Mode) (*dataset.Table, error) {
	return dataset.ReadCSV(s.cfg.PreparedTablePath(mode))
}

// SavePrepared persists the prepared table for the given mode, plus the
// optional Excel export when configured
func (s *CSVStore) SavePrepared(_ context.Context, mode config.Mode, t *dataset.Table) error {
	if err := dataset.WriteCSV(t, s.cfg.PreparedTablePath(mode)); err != nil {
		return err
	}
	if s.cfg.Prepare.SaveExcel {
		if err := dataset.WriteExcel(t, s.cfg.ExcelExportPath(mode)); err != nil {
			return err
		}
	}
	return nil
}
