// Package dataset provides the tabular value types the preparation pipeline
// operates on, plus their on-disk forms.
//
// A Table pairs a string identifier column with an ordered set of numeric
// attribute columns; a Series is one such column with an explicit validity
// mask for missing values. Identifier values are not required to be unique,
// which is what lets player tables carry one row per player per match.
//
// Tables are value types with single-owner semantics: every transform
// (DropColumns, WithPrefix, FilterRows) returns a new table and leaves the
// receiver untouched, so pipeline stages never share mutable state.
//
// CSV is the persisted interchange format. Floats round-trip losslessly via
// full-precision encoding; missing cells serialize to empty fields. WriteExcel
// provides a secondary workbook export for manual inspection.
package dataset
