// Package pipeline orchestrates one preparation run: the aggregate step
// builds and persists the flat match record table, the scale step turns the
// persisted table into the ready-to-train dataset. Steps execute strictly in
// order within a single goroutine; each run carries a UUID identifier and
// per-step timing for the logs.
package pipeline
