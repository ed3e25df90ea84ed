// Package config provides centralized configuration for the preparation
// pipeline. It replaces the implicit globals of earlier iterations (fixed
// file paths, hard-coded excluded columns, a literal sparsity threshold)
// with one explicit structure handed to the pipeline at construction time.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. Optional YAML file (config.yaml or configs/config.yaml)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern MATCHPREP_* for namespacing:
//
//	MATCHPREP_PATHS_DATA_DIR=data
//	MATCHPREP_SCALE_SPARSITY_THRESHOLD=0.2
//	MATCHPREP_LOGGING_LEVEL=info
package config
