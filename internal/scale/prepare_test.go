package scale

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matchprep/internal/config"
	"matchprep/internal/dataset"
	apperrors "matchprep/internal/errors"
)

func trainingTable(t *testing.T) *dataset.Table {
	t.Helper()

	return makeTable(t, []string{"1", "2", "3", "4", "5"}, map[string]*dataset.Series{
		"results":    dataset.SeriesOf(0, 1, 2, 0, 1),
		"HOME_GOALS": dataset.SeriesOf(1, 2, 3, 4, 5),
		"AWAY_GOALS": dataset.SeriesOf(2, 2, 3, 4, 4),
		"HOME_SHOTS": seriesWithMissing(t, 10, nil, 8, 6, 7),
		"SPARSE":     seriesWithMissing(t, 1, nil, nil, nil, 5),
		"CONSTANT":   dataset.SeriesOf(7, 7, 7, 7, 7),
	}, "results", "HOME_GOALS", "AWAY_GOALS", "HOME_SHOTS", "SPARSE", "CONSTANT")
}

func TestScaler_PrepareTrain(t *testing.T) {
	loader := &fakeLoader{tables: map[config.Mode]*dataset.Table{
		config.ModeTrain: trainingTable(t),
	}}
	s := newScaler(loader)

	result, err := s.PrepareTrain(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "results", result.TargetColumn)
	assert.Equal(t, []string{"HOME_GOALS", "AWAY_GOALS", "HOME_SHOTS"}, result.FeatureColumns)
	assert.NotContains(t, result.FeatureColumns, "results")

	// The sparse and constant columns are gone, the row with a missing shot
	// count is gone
	assert.Equal(t, []string{"results", "HOME_GOALS", "AWAY_GOALS", "HOME_SHOTS"}, result.Table.Columns())
	assert.Equal(t, []string{"1", "3", "4", "5"}, result.Table.IDs())

	// The target is carried through unscaled
	results, _ := result.Table.Column("results")
	assert.Equal(t, []float64{0, 2, 0, 1}, results.Values)
	for _, code := range results.Values {
		assert.Contains(t, []float64{0, 1, 2}, code)
	}

	// Self-fit scaling: every feature column is centered on the surviving rows
	for _, name := range result.FeatureColumns {
		series, _ := result.Table.Column(name)
		sum := 0.0
		for _, v := range series.Values {
			sum += v
		}
		assert.InDelta(t, 0, sum, 1e-9, "column %s should be centered", name)
	}
}

func TestScaler_PrepareTest_LeakageFree(t *testing.T) {
	test := makeTable(t, []string{"10", "11"}, map[string]*dataset.Series{
		"HOME_GOALS": dataset.SeriesOf(3, 6),
		"AWAY_GOALS": dataset.SeriesOf(1, 5),
		"HOME_SHOTS": seriesWithMissing(t, 9, nil),
	}, "HOME_GOALS", "AWAY_GOALS", "HOME_SHOTS")

	// Same rows duplicated and permuted: any statistic of the test table
	// itself would change, the scaled output for each row must not
	permuted := makeTable(t, []string{"11", "10", "11"}, map[string]*dataset.Series{
		"HOME_GOALS": dataset.SeriesOf(6, 3, 6),
		"AWAY_GOALS": dataset.SeriesOf(5, 1, 5),
		"HOME_SHOTS": seriesWithMissing(t, nil, 9, nil),
	}, "HOME_GOALS", "AWAY_GOALS", "HOME_SHOTS")

	run := func(testTable *dataset.Table) *Result {
		loader := &fakeLoader{tables: map[config.Mode]*dataset.Table{
			config.ModeTrain: trainingTable(t),
			config.ModeTest:  testTable,
		}}
		result, err := newScaler(loader).PrepareTest(context.Background())
		require.NoError(t, err)
		return result
	}

	first := run(test)
	second := run(permuted)

	assert.Equal(t, first.FeatureColumns, second.FeatureColumns)

	// Index the permuted output by row identifier and compare cell by cell
	index := make(map[string]int)
	for i, id := range second.Table.IDs() {
		index[id] = i
	}
	for _, name := range first.FeatureColumns {
		got, _ := first.Table.Column(name)
		other, _ := second.Table.Column(name)
		for i, id := range first.Table.IDs() {
			j := index[id]
			assert.Equal(t, got.Valid[i], other.Valid[j], "column %s row %s", name, id)
			if got.Valid[i] {
				assert.InDelta(t, got.Values[i], other.Values[j], 1e-12, "column %s row %s", name, id)
			}
		}
	}
}

func TestScaler_PrepareTest_KeepsIncompleteRows(t *testing.T) {
	test := makeTable(t, []string{"10", "11"}, map[string]*dataset.Series{
		"HOME_GOALS": dataset.SeriesOf(3, 6),
		"AWAY_GOALS": dataset.SeriesOf(1, 5),
		"HOME_SHOTS": seriesWithMissing(t, nil, 4),
	}, "HOME_GOALS", "AWAY_GOALS", "HOME_SHOTS")

	loader := &fakeLoader{tables: map[config.Mode]*dataset.Table{
		config.ModeTrain: trainingTable(t),
		config.ModeTest:  test,
	}}

	result, err := newScaler(loader).PrepareTest(context.Background())
	require.NoError(t, err)

	// Row cleaning applies to training data only
	assert.Equal(t, []string{"10", "11"}, result.Table.IDs())
	shots, _ := result.Table.Column("HOME_SHOTS")
	assert.Equal(t, []bool{false, true}, shots.Valid)
}

func TestScaler_Prepare_Modes(t *testing.T) {
	loader := &fakeLoader{tables: map[config.Mode]*dataset.Table{
		config.ModeTrain: trainingTable(t),
	}}
	s := newScaler(loader)

	_, err := s.Prepare(context.Background(), config.ModeTrain)
	assert.NoError(t, err)

	_, err = s.Prepare(context.Background(), config.Mode("validate"))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
}

func TestScaler_Prepare_LoaderFailurePropagates(t *testing.T) {
	s := newScaler(&fakeLoader{tables: map[config.Mode]*dataset.Table{}})

	_, err := s.PrepareTrain(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeStorage))
}
