// Package aggregate joins the per-entity source tables of one mode (home
// team, away team, home players, away players and, in training, match
// outcomes) into a single flat feature table keyed by match identifier.
//
// # Data Flow
//
//	source CSVs → Load → SourceTables → Build → flat match record table
//
// Build removes the configured free-text columns, derives the integer target
// from the outcome indicators, namespaces each table with a side prefix,
// collapses player rows into per-match summary blocks (SUM, MAX, MIN, MEAN,
// MEDIAN) and chains left joins on the match identifier. Joins never fail on
// unmatched keys; absence becomes missing values, which the scale package
// handles downstream.
package aggregate
