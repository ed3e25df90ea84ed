package aggregate

import (
	"sort"

	"matchprep/internal/dataset"
)

// Summary statistic suffixes, in the column order of the aggregated block.
var statSuffixes = []string{"_SUM", "_MAX", "_MIN", "_MEAN", "_MEDIAN"}

// AggregatePlayers collapses a player table (many rows per match, one per
// player) into one row per match. Every retained attribute column yields five
// summary columns named <prefix><name>_<STATISTIC>, grouped as all sums, then
// all maxima, and so on. Matches with zero player rows are simply absent from
// the result; the left join in Build turns that absence into missing values.
//
// Within one match group, SUM skips missing cells and yields zero when all
// are missing, while MAX, MIN, MEAN and MEDIAN yield a missing value.
func (a *Aggregator) AggregatePlayers(players *dataset.Table, prefix string) *dataset.Table {
	prefixed := players.WithPrefix(prefix)

	groups := make(map[string][]int)
	var keys []string
	for i, id := range prefixed.IDs() {
		if _, seen := groups[id]; !seen {
			keys = append(keys, id)
		}
		groups[id] = append(groups[id], i)
	}
	sort.Strings(keys)

	block := dataset.NewTable(prefixed.IDName())
	block.SetIDs(keys)

	columns := prefixed.Columns()
	for _, suffix := range statSuffixes {
		for _, name := range columns {
			source, _ := prefixed.Column(name)
			series := dataset.NewSeries(len(keys))
			for g, key := range keys {
				values := groupValues(source, groups[key])
				value, valid := summarize(suffix, values)
				series.Set(g, value, valid)
			}
			block.AddColumn(name+suffix, series)
		}
	}

	return block
}

// groupValues collects the observed values of one column across a match group
func groupValues(s *dataset.Series, rows []int) []float64 {
	values := make([]float64, 0, len(rows))
	for _, i := range rows {
		if s.Valid[i] {
			values = append(values, s.Values[i])
		}
	}
	return values
}

// summarize computes one summary statistic over the observed group values
func summarize(suffix string, values []float64) (float64, bool) {
	if suffix == "_SUM" {
		total := 0.0
		for _, v := range values {
			total += v
		}
		return total, true
	}

	if len(values) == 0 {
		return 0, false
	}

	switch suffix {
	case "_MAX":
		max := values[0]
		for _, v := range values[1:] {
			if v > max {
				max = v
			}
		}
		return max, true
	case "_MIN":
		min := values[0]
		for _, v := range values[1:] {
			if v < min {
				min = v
			}
		}
		return min, true
	case "_MEAN":
		total := 0.0
		for _, v := range values {
			total += v
		}
		return total / float64(len(values)), true
	case "_MEDIAN":
		return median(values), true
	}

	return 0, false
}

// median returns the middle observed value, averaging the two central values
// for even-sized groups
func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
