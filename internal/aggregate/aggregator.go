package aggregate

import (
	"context"
	"log/slog"

	"matchprep/internal/config"
	"matchprep/internal/dataset"
	"matchprep/internal/validation"
)

// Column prefixes identifying the origin of each feature after merging.
const (
	PrefixHomeTeam    = "HOME_"
	PrefixAwayTeam    = "AWAY_"
	PrefixHomePlayers = "HOME_PLAYERS_"
	PrefixAwayPlayers = "AWAY_PLAYERS_"
)

// Outcome indicator columns of the match outcomes table.
const (
	ColumnHomeWins = "HOME_WINS"
	ColumnDraw     = "DRAW"
	ColumnAwayWins = "AWAY_WINS"
)

// Target label codes derived from the outcome indicators.
const (
	TargetHomeWin = 0
	TargetDraw    = 1
	TargetAwayWin = 2
)

// SourceTables holds the per-entity source tables of one pipeline run.
// Outcomes is nil in test mode.
type SourceTables struct {
	HomeTeam    *dataset.Table
	AwayTeam    *dataset.Table
	HomePlayers *dataset.Table
	AwayPlayers *dataset.Table
	Outcomes    *dataset.Table
}

// Aggregator merges the per-entity source tables into one flat feature table
// keyed by match identifier, one row per match.
type Aggregator struct {
	logger    *slog.Logger
	cfg       config.PrepareConfig
	validator *validation.Validator
}

// New creates a new aggregator with the given configuration
func New(logger *slog.Logger, cfg config.PrepareConfig) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{
		logger:    logger,
		cfg:       cfg,
		validator: validation.New(logger),
	}
}

// Load reads the source tables for the given mode and runs the pre-flight
// checks: files exist, every table is keyed by the configured identifier
// column, and the outcomes table carries the three indicator columns in
// training mode. Any failure here is fatal and reported before transforms run.
func (a *Aggregator) Load(ctx context.Context, paths config.InputPaths, mode config.Mode) (*SourceTables, error) {
	if err := a.validator.ValidateInputFiles(paths, mode); err != nil {
		return nil, err
	}

	sources := &SourceTables{}
	load := []struct {
		name string
		path string
		dst  **dataset.Table
	}{
		{"home_team", paths.HomeTeam, &sources.HomeTeam},
		{"away_team", paths.AwayTeam, &sources.AwayTeam},
		{"home_players", paths.HomePlayers, &sources.HomePlayers},
		{"away_players", paths.AwayPlayers, &sources.AwayPlayers},
	}
	if mode == config.ModeTrain {
		load = append(load, struct {
			name string
			path string
			dst  **dataset.Table
		}{"outcomes", paths.Outcomes, &sources.Outcomes})
	}

	for _, entry := range load {
		table, err := dataset.ReadCSV(entry.path)
		if err != nil {
			return nil, err
		}
		if err := a.validator.ValidateIdentifier(table, entry.name, a.cfg.IDColumn); err != nil {
			return nil, err
		}
		*entry.dst = table
	}

	if mode == config.ModeTrain {
		if err := a.validator.ValidateRequiredColumns(sources.Outcomes, "outcomes",
			ColumnHomeWins, ColumnDraw, ColumnAwayWins); err != nil {
			return nil, err
		}
	}

	a.logger.InfoContext(ctx, "loaded source tables",
		slog.String("mode", string(mode)),
		slog.Int("matches", sources.HomeTeam.NumRows()))

	return sources, nil
}

// RemoveExcluded drops the configured free-text columns from a table.
// Columns that are not present are ignored.
func (a *Aggregator) RemoveExcluded(t *dataset.Table) *dataset.Table {
	return t.DropColumns(a.cfg.ExcludedColumns...)
}

// DeriveTarget collapses the three outcome indicator columns into a single
// integer label: 0 for a home win, 1 for a draw, 2 otherwise. Evaluation
// order is home win first, then draw; a row where neither indicator is
// truthy resolves to away win, mirroring the exactly-one-hot encoding of the
// source data. The indicator columns are dropped from the result.
func (a *Aggregator) DeriveTarget(outcomes *dataset.Table) (*dataset.Table, error) {
	if err := a.validator.ValidateRequiredColumns(outcomes, "outcomes",
		ColumnHomeWins, ColumnDraw, ColumnAwayWins); err != nil {
		return nil, err
	}

	homeWins, _ := outcomes.Column(ColumnHomeWins)
	draw, _ := outcomes.Column(ColumnDraw)

	target := dataset.NewSeries(outcomes.NumRows())
	for i := 0; i < outcomes.NumRows(); i++ {
		switch {
		case homeWins.Valid[i] && homeWins.Values[i] > 0:
			target.Set(i, TargetHomeWin, true)
		case draw.Valid[i] && draw.Values[i] != 0:
			target.Set(i, TargetDraw, true)
		default:
			target.Set(i, TargetAwayWin, true)
		}
	}

	result := outcomes.DropColumns(ColumnHomeWins, ColumnDraw, ColumnAwayWins)
	if err := result.AddColumn(a.cfg.TargetColumn, target); err != nil {
		return nil, err
	}
	return result, nil
}

// Build produces the flat match record table. In training mode the derived
// target is the join root so every outcome row survives even when team stats
// are missing; in test mode the namespaced home team table is the root. The
// remaining tables are left-joined in a fixed order, so absent matches on the
// right side become missing values for the cleaner to handle downstream.
func (a *Aggregator) Build(ctx context.Context, sources *SourceTables, mode config.Mode) (*dataset.Table, error) {
	homeTeam := a.RemoveExcluded(sources.HomeTeam).WithPrefix(PrefixHomeTeam)
	awayTeam := a.RemoveExcluded(sources.AwayTeam).WithPrefix(PrefixAwayTeam)
	homeBlock := a.AggregatePlayers(a.RemoveExcluded(sources.HomePlayers), PrefixHomePlayers)
	awayBlock := a.AggregatePlayers(a.RemoveExcluded(sources.AwayPlayers), PrefixAwayPlayers)

	var data *dataset.Table
	if mode == config.ModeTrain {
		target, err := a.DeriveTarget(sources.Outcomes)
		if err != nil {
			return nil, err
		}
		data, err = LeftJoin(target, homeTeam)
		if err != nil {
			return nil, err
		}
	} else {
		data = homeTeam
	}

	var err error
	for _, right := range []*dataset.Table{awayTeam, homeBlock, awayBlock} {
		data, err = LeftJoin(data, right)
		if err != nil {
			return nil, err
		}
	}

	a.logger.InfoContext(ctx, "built match record table",
		slog.String("mode", string(mode)),
		slog.Int("rows", data.NumRows()),
		slog.Int("columns", data.NumColumns()))

	return data, nil
}
