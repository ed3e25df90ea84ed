package dataset

import (
	"fmt"
)

// Series is a single numeric column. A cell is missing when the
// corresponding Valid entry is false; Values holds zero for missing cells.
type Series struct {
	Values []float64
	Valid  []bool
}

// NewSeries creates a series of n missing cells
func NewSeries(n int) *Series {
	return &Series{
		Values: make([]float64, n),
		Valid:  make([]bool, n),
	}
}

// SeriesOf creates a fully observed series from the given values
func SeriesOf(values ...float64) *Series {
	s := &Series{
		Values: make([]float64, len(values)),
		Valid:  make([]bool, len(values)),
	}
	copy(s.Values, values)
	for i := range s.Valid {
		s.Valid[i] = true
	}
	return s
}

// Len returns the number of cells
func (s *Series) Len() int {
	return len(s.Values)
}

// Append adds one cell to the series
func (s *Series) Append(value float64, valid bool) {
	if !valid {
		value = 0
	}
	s.Values = append(s.Values, value)
	s.Valid = append(s.Valid, valid)
}

// Set assigns cell i
func (s *Series) Set(i int, value float64, valid bool) {
	if !valid {
		value = 0
	}
	s.Values[i] = value
	s.Valid[i] = valid
}

// Clone returns a deep copy of the series
func (s *Series) Clone() *Series {
	c := &Series{
		Values: make([]float64, len(s.Values)),
		Valid:  make([]bool, len(s.Valid)),
	}
	copy(c.Values, s.Values)
	copy(c.Valid, s.Valid)
	return c
}

// MissingCount returns the number of missing cells
func (s *Series) MissingCount() int {
	count := 0
	for _, v := range s.Valid {
		if !v {
			count++
		}
	}
	return count
}

// MissingFraction returns the fraction of missing cells, 0 for an empty series
func (s *Series) MissingFraction() float64 {
	if len(s.Valid) == 0 {
		return 0
	}
	return float64(s.MissingCount()) / float64(len(s.Valid))
}

// HasMissing reports whether any cell is missing
func (s *Series) HasMissing() bool {
	for _, v := range s.Valid {
		if !v {
			return true
		}
	}
	return false
}

// DistinctNonMissing returns the number of distinct observed values
func (s *Series) DistinctNonMissing() int {
	seen := make(map[float64]struct{})
	for i, v := range s.Values {
		if s.Valid[i] {
			seen[v] = struct{}{}
		}
	}
	return len(seen)
}

// DistinctObserved returns the number of distinct values with the missing
// marker counted as one value when present. This is the count feature
// selection uses: a column of one constant plus gaps still carries two
// observed states.
func (s *Series) DistinctObserved() int {
	n := s.DistinctNonMissing()
	if s.HasMissing() {
		n++
	}
	return n
}

// Table is a named collection of rows keyed by a string identifier column.
// The identifier is held apart from the numeric attribute columns; identifier
// values are not necessarily unique (player tables carry one row per player
// per match). All transforms return new tables.
type Table struct {
	idName string
	ids    []string
	order  []string
	cols   map[string]*Series
}

// NewTable creates an empty table whose identifier column has the given name
func NewTable(idName string) *Table {
	return &Table{
		idName: idName,
		cols:   make(map[string]*Series),
	}
}

// IDName returns the name of the identifier column
func (t *Table) IDName() string {
	return t.idName
}

// IDs returns the identifier value of every row
func (t *Table) IDs() []string {
	return t.ids
}

// SetIDs replaces the identifier values. It must be called before any
// attribute column is added, so lengths stay consistent.
func (t *Table) SetIDs(ids []string) error {
	if len(t.order) > 0 && len(ids) != t.NumRows() {
		return fmt.Errorf("id count %d does not match existing row count %d", len(ids), t.NumRows())
	}
	t.ids = ids
	return nil
}

// NumRows returns the number of rows
func (t *Table) NumRows() int {
	return len(t.ids)
}

// NumColumns returns the number of attribute columns
func (t *Table) NumColumns() int {
	return len(t.order)
}

// Columns returns the attribute column names in order
func (t *Table) Columns() []string {
	names := make([]string, len(t.order))
	copy(names, t.order)
	return names
}

// Column returns the series for the named column
func (t *Table) Column(name string) (*Series, bool) {
	s, ok := t.cols[name]
	return s, ok
}

// HasColumn reports whether the named attribute column exists
func (t *Table) HasColumn(name string) bool {
	_, ok := t.cols[name]
	return ok
}

// AddColumn appends an attribute column to the table
func (t *Table) AddColumn(name string, s *Series) error {
	if name == t.idName {
		return fmt.Errorf("column name %q collides with the identifier column", name)
	}
	if _, exists := t.cols[name]; exists {
		return fmt.Errorf("column %q already exists", name)
	}
	if s.Len() != t.NumRows() {
		return fmt.Errorf("column %q has %d cells for %d rows", name, s.Len(), t.NumRows())
	}
	t.order = append(t.order, name)
	t.cols[name] = s
	return nil
}

// Clone returns a deep copy of the table
func (t *Table) Clone() *Table {
	c := NewTable(t.idName)
	c.ids = make([]string, len(t.ids))
	copy(c.ids, t.ids)
	c.order = make([]string, len(t.order))
	copy(c.order, t.order)
	for name, s := range t.cols {
		c.cols[name] = s.Clone()
	}
	return c
}

// DropColumns returns a new table without the named columns.
// Names that are not present are ignored.
func (t *Table) DropColumns(names ...string) *Table {
	drop := make(map[string]struct{}, len(names))
	for _, name := range names {
		drop[name] = struct{}{}
	}

	c := NewTable(t.idName)
	c.ids = make([]string, len(t.ids))
	copy(c.ids, t.ids)
	for _, name := range t.order {
		if _, skip := drop[name]; skip {
			continue
		}
		c.order = append(c.order, name)
		c.cols[name] = t.cols[name].Clone()
	}
	return c
}

// WithPrefix returns a new table with every attribute column name prefixed.
// The identifier column keeps its name.
func (t *Table) WithPrefix(prefix string) *Table {
	return t.renamed(func(name string) string { return prefix + name })
}

// WithSuffix returns a new table with every attribute column name suffixed
func (t *Table) WithSuffix(suffix string) *Table {
	return t.renamed(func(name string) string { return name + suffix })
}

func (t *Table) renamed(rename func(string) string) *Table {
	c := NewTable(t.idName)
	c.ids = make([]string, len(t.ids))
	copy(c.ids, t.ids)
	for _, name := range t.order {
		next := rename(name)
		c.order = append(c.order, next)
		c.cols[next] = t.cols[name].Clone()
	}
	return c
}

// FilterRows returns a new table with only the rows where keep is true
func (t *Table) FilterRows(keep []bool) *Table {
	c := NewTable(t.idName)
	for i, id := range t.ids {
		if keep[i] {
			c.ids = append(c.ids, id)
		}
	}
	for _, name := range t.order {
		src := t.cols[name]
		dst := &Series{}
		for i := range t.ids {
			if keep[i] {
				dst.Append(src.Values[i], src.Valid[i])
			}
		}
		c.order = append(c.order, name)
		c.cols[name] = dst
	}
	return c
}
