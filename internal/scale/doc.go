// Package scale turns a flat match record table into a ready-to-train
// dataset: it selects feature columns, drops columns that are too sparse or
// carry no information, drops incomplete rows, and standardizes the surviving
// features to zero mean and unit variance.
//
// The scaling reference (per-column mean and sample standard deviation) is
// always computed from training data. In test mode the full training
// preparation runs again from the persisted training table to regenerate the
// exact reference statistics and feature column set used at training time;
// nothing derived from test data ever influences the transform.
package scale
