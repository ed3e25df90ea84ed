package aggregate

import (
	"fmt"

	"matchprep/internal/dataset"
	"matchprep/internal/errors"
)

// LeftJoin merges right into left on the identifier column. Every left row
// survives; left rows without a match on the right get missing values for the
// right-hand columns. The right table must be uniquely keyed — team tables
// and aggregated player blocks are one row per match by construction — and
// must not share attribute column names with the left table.
func LeftJoin(left, right *dataset.Table) (*dataset.Table, error) {
	if left.IDName() != right.IDName() {
		return nil, errors.NewSchemaError(
			fmt.Sprintf("join key mismatch: %q vs %q", left.IDName(), right.IDName()), nil)
	}

	index := make(map[string]int, right.NumRows())
	for i, id := range right.IDs() {
		if _, dup := index[id]; dup {
			return nil, errors.NewSchemaError(
				fmt.Sprintf("right table has duplicate identifier %q", id), nil).
				WithContext("id", id)
		}
		index[id] = i
	}

	result := left.Clone()
	for _, name := range right.Columns() {
		if result.HasColumn(name) {
			return nil, errors.NewSchemaError(
				fmt.Sprintf("column %q exists on both sides of the join", name), nil).
				WithContext("column", name)
		}

		source, _ := right.Column(name)
		series := dataset.NewSeries(left.NumRows())
		for i, id := range left.IDs() {
			if j, ok := index[id]; ok {
				series.Set(i, source.Values[j], source.Valid[j])
			}
		}
		if err := result.AddColumn(name, series); err != nil {
			return nil, err
		}
	}

	return result, nil
}
