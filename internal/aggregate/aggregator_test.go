package aggregate

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matchprep/internal/config"
	"matchprep/internal/dataset"
	apperrors "matchprep/internal/errors"
)

func newAggregator() *Aggregator {
	return New(nil, config.Default().Prepare)
}

func makeTable(t *testing.T, ids []string, columns map[string]*dataset.Series, order ...string) *dataset.Table {
	t.Helper()

	table := dataset.NewTable("ID")
	require.NoError(t, table.SetIDs(ids))
	for _, name := range order {
		require.NoError(t, table.AddColumn(name, columns[name]))
	}
	return table
}

func TestAggregator_DeriveTarget(t *testing.T) {
	a := newAggregator()

	tests := []struct {
		name     string
		homeWins float64
		draw     float64
		awayWins float64
		want     float64
	}{
		{"home win", 1, 0, 0, TargetHomeWin},
		{"draw", 0, 1, 0, TargetDraw},
		{"away win", 0, 0, 1, TargetAwayWin},
		{"no indicator set resolves to away win", 0, 0, 0, TargetAwayWin},
		{"home win takes priority over draw", 1, 1, 0, TargetHomeWin},
		{"draw takes priority over away win", 0, 1, 1, TargetDraw},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcomes := makeTable(t, []string{"1"}, map[string]*dataset.Series{
				ColumnHomeWins: dataset.SeriesOf(tt.homeWins),
				ColumnDraw:     dataset.SeriesOf(tt.draw),
				ColumnAwayWins: dataset.SeriesOf(tt.awayWins),
			}, ColumnHomeWins, ColumnDraw, ColumnAwayWins)

			derived, err := a.DeriveTarget(outcomes)
			require.NoError(t, err)

			target, ok := derived.Column("results")
			require.True(t, ok)
			assert.Equal(t, tt.want, target.Values[0])
			assert.True(t, target.Valid[0])

			// The indicator columns are gone
			assert.Equal(t, []string{"results"}, derived.Columns())
		})
	}
}

func TestAggregator_DeriveTarget_MissingIndicator(t *testing.T) {
	a := newAggregator()

	outcomes := makeTable(t, []string{"1"}, map[string]*dataset.Series{
		ColumnHomeWins: dataset.SeriesOf(1),
		ColumnDraw:     dataset.SeriesOf(0),
	}, ColumnHomeWins, ColumnDraw)

	_, err := a.DeriveTarget(outcomes)

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeSchema))
}

func TestAggregator_RemoveExcluded(t *testing.T) {
	a := newAggregator()

	table := makeTable(t, []string{"1"}, map[string]*dataset.Series{
		"TEAM_NAME": dataset.NewSeries(1),
		"LEAGUE":    dataset.NewSeries(1),
		"GOALS":     dataset.SeriesOf(2),
	}, "TEAM_NAME", "LEAGUE", "GOALS")

	cleaned := a.RemoveExcluded(table)

	assert.Equal(t, []string{"GOALS"}, cleaned.Columns())
}

func TestAggregator_Build_Train(t *testing.T) {
	a := newAggregator()

	sources := &SourceTables{
		HomeTeam: makeTable(t, []string{"1", "2"}, map[string]*dataset.Series{
			"GOALS_AVG": dataset.SeriesOf(1.5, 2.0),
		}, "GOALS_AVG"),
		AwayTeam: makeTable(t, []string{"1", "2"}, map[string]*dataset.Series{
			"GOALS_AVG": dataset.SeriesOf(0.5, 1.0),
		}, "GOALS_AVG"),
		HomePlayers: makeTable(t, []string{"1", "1", "2", "2"}, map[string]*dataset.Series{
			"RATING": dataset.SeriesOf(7, 8, 6, 9),
		}, "RATING"),
		AwayPlayers: makeTable(t, []string{"1", "1", "2", "2"}, map[string]*dataset.Series{
			"RATING": dataset.SeriesOf(5, 6, 7, 7),
		}, "RATING"),
		Outcomes: makeTable(t, []string{"1", "2"}, map[string]*dataset.Series{
			ColumnHomeWins: dataset.SeriesOf(1, 0),
			ColumnDraw:     dataset.SeriesOf(0, 0),
			ColumnAwayWins: dataset.SeriesOf(0, 1),
		}, ColumnHomeWins, ColumnDraw, ColumnAwayWins),
	}

	data, err := a.Build(context.Background(), sources, config.ModeTrain)
	require.NoError(t, err)

	assert.Equal(t, 2, data.NumRows())
	assert.Equal(t, []string{"1", "2"}, data.IDs())

	results, ok := data.Column("results")
	require.True(t, ok)
	assert.Equal(t, []float64{TargetHomeWin, TargetAwayWin}, results.Values)

	for _, name := range []string{
		"HOME_GOALS_AVG", "AWAY_GOALS_AVG",
		"HOME_PLAYERS_RATING_SUM", "HOME_PLAYERS_RATING_MEDIAN",
		"AWAY_PLAYERS_RATING_MEAN", "AWAY_PLAYERS_RATING_MIN",
	} {
		assert.True(t, data.HasColumn(name), "expected column %s", name)
	}

	homeSum, _ := data.Column("HOME_PLAYERS_RATING_SUM")
	assert.Equal(t, []float64{15, 15}, homeSum.Values)
	awayMean, _ := data.Column("AWAY_PLAYERS_RATING_MEAN")
	assert.Equal(t, []float64{5.5, 7}, awayMean.Values)
}

func TestAggregator_Build_Test(t *testing.T) {
	a := newAggregator()

	sources := &SourceTables{
		HomeTeam: makeTable(t, []string{"7"}, map[string]*dataset.Series{
			"GOALS_AVG": dataset.SeriesOf(1.1),
		}, "GOALS_AVG"),
		AwayTeam: makeTable(t, []string{"7"}, map[string]*dataset.Series{
			"GOALS_AVG": dataset.SeriesOf(0.9),
		}, "GOALS_AVG"),
		HomePlayers: makeTable(t, []string{"7"}, map[string]*dataset.Series{
			"RATING": dataset.SeriesOf(6.5),
		}, "RATING"),
		AwayPlayers: makeTable(t, []string{"7"}, map[string]*dataset.Series{
			"RATING": dataset.SeriesOf(7.5),
		}, "RATING"),
	}

	data, err := a.Build(context.Background(), sources, config.ModeTest)
	require.NoError(t, err)

	assert.Equal(t, 1, data.NumRows())
	assert.False(t, data.HasColumn("results"))
	assert.True(t, data.HasColumn("HOME_GOALS_AVG"))
	assert.True(t, data.HasColumn("AWAY_PLAYERS_RATING_MAX"))
}

func TestAggregator_Build_UnmatchedRightRowsBecomeMissing(t *testing.T) {
	a := newAggregator()

	sources := &SourceTables{
		HomeTeam: makeTable(t, []string{"1", "2"}, map[string]*dataset.Series{
			"GOALS_AVG": dataset.SeriesOf(1.5, 2.0),
		}, "GOALS_AVG"),
		// Away stats only cover match 1
		AwayTeam: makeTable(t, []string{"1"}, map[string]*dataset.Series{
			"GOALS_AVG": dataset.SeriesOf(0.5),
		}, "GOALS_AVG"),
		// No player rows at all for match 2
		HomePlayers: makeTable(t, []string{"1"}, map[string]*dataset.Series{
			"RATING": dataset.SeriesOf(7),
		}, "RATING"),
		AwayPlayers: makeTable(t, []string{"1"}, map[string]*dataset.Series{
			"RATING": dataset.SeriesOf(5),
		}, "RATING"),
	}

	data, err := a.Build(context.Background(), sources, config.ModeTest)
	require.NoError(t, err)

	require.Equal(t, 2, data.NumRows())

	away, _ := data.Column("AWAY_GOALS_AVG")
	assert.Equal(t, []bool{true, false}, away.Valid)
	sum, _ := data.Column("HOME_PLAYERS_RATING_SUM")
	assert.Equal(t, []bool{true, false}, sum.Valid)
}

func TestAggregator_Load(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		return path
	}

	paths := config.InputPaths{
		HomeTeam:    write("home_team.csv", "ID,GOALS_AVG\n1,1.5\n"),
		AwayTeam:    write("away_team.csv", "ID,GOALS_AVG\n1,0.5\n"),
		HomePlayers: write("home_players.csv", "ID,RATING\n1,7\n1,8\n"),
		AwayPlayers: write("away_players.csv", "ID,RATING\n1,6\n1,5\n"),
		Outcomes:    write("y_train.csv", "ID,HOME_WINS,DRAW,AWAY_WINS\n1,1,0,0\n"),
	}

	a := newAggregator()

	sources, err := a.Load(context.Background(), paths, config.ModeTrain)
	require.NoError(t, err)
	assert.Equal(t, 1, sources.HomeTeam.NumRows())
	assert.Equal(t, 2, sources.HomePlayers.NumRows())
	require.NotNil(t, sources.Outcomes)

	t.Run("missing file is fatal", func(t *testing.T) {
		broken := paths
		broken.AwayTeam = filepath.Join(dir, "absent.csv")

		_, err := a.Load(context.Background(), broken, config.ModeTrain)
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
	})

	t.Run("missing indicator column is a schema error", func(t *testing.T) {
		broken := paths
		broken.Outcomes = write("y_broken.csv", "ID,HOME_WINS,DRAW\n1,1,0\n")

		_, err := a.Load(context.Background(), broken, config.ModeTrain)
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeSchema))
	})

	t.Run("test mode skips outcomes", func(t *testing.T) {
		testPaths := paths
		testPaths.Outcomes = ""

		sources, err := a.Load(context.Background(), testPaths, config.ModeTest)
		require.NoError(t, err)
		assert.Nil(t, sources.Outcomes)
	})
}
