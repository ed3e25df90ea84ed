package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Mode selects which dataset a pipeline run operates on.
type Mode string

const (
	ModeTrain Mode = "train"
	ModeTest  Mode = "test"
)

// Valid reports whether m is a known mode
func (m Mode) Valid() bool {
	return m == ModeTrain || m == ModeTest
}

// Config represents the complete application configuration
type Config struct {
	Paths   PathsConfig   `yaml:"paths" envconfig:"PATHS"`
	Prepare PrepareConfig `yaml:"prepare" envconfig:"PREPARE"`
	Scale   ScaleConfig   `yaml:"scale" envconfig:"SCALE"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	DataDir   string `yaml:"data_dir" envconfig:"DATA_DIR" validate:"required"`
	TrainDir  string `yaml:"train_dir" envconfig:"TRAIN_DIR" validate:"required"`
	TestDir   string `yaml:"test_dir" envconfig:"TEST_DIR" validate:"required"`
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR" validate:"required"`
	LogsDir   string `yaml:"logs_dir" envconfig:"LOGS_DIR"`
}

// PrepareConfig configures the aggregation stage
type PrepareConfig struct {
	IDColumn        string   `yaml:"id_column" envconfig:"ID_COLUMN" validate:"required"`
	TargetColumn    string   `yaml:"target_column" envconfig:"TARGET_COLUMN" validate:"required"`
	ExcludedColumns []string `yaml:"excluded_columns" envconfig:"EXCLUDED_COLUMNS"`
	SaveExcel       bool     `yaml:"save_excel" envconfig:"SAVE_EXCEL"`
}

// ScaleConfig configures the cleaning and scaling stage
type ScaleConfig struct {
	SparsityThreshold float64 `yaml:"sparsity_threshold" envconfig:"SPARSITY_THRESHOLD" validate:"gte=0,lt=1"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=stdout file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// InputPaths lists the source tables for one pipeline run.
// Outcomes is empty in test mode.
type InputPaths struct {
	HomeTeam    string
	AwayTeam    string
	HomePlayers string
	AwayPlayers string
	Outcomes    string
}

// Load loads configuration from defaults, an optional YAML file, and
// environment variables, in increasing order of precedence.
func Load() (*Config, error) {
	return LoadFromFile(findConfigFile())
}

// LoadFromFile loads configuration using the given YAML file.
// An empty path skips the file layer.
func LoadFromFile(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := envconfig.Process("MATCHPREP", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration for invalid or missing values
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if len(c.Prepare.ExcludedColumns) == 0 {
		return fmt.Errorf("at least one excluded column must be configured")
	}
	if c.Prepare.IDColumn == c.Prepare.TargetColumn {
		return fmt.Errorf("id column and target column must differ")
	}
	if c.Logging.Output != "stdout" && c.Logging.FilePath == "" {
		return fmt.Errorf("logging file path required for output %q", c.Logging.Output)
	}

	return nil
}

// InputPaths returns the source table locations for the given mode
func (c *Config) InputPaths(mode Mode) InputPaths {
	if mode == ModeTrain {
		dir := filepath.Join(c.Paths.DataDir, c.Paths.TrainDir)
		return InputPaths{
			HomeTeam:    filepath.Join(dir, "train_home_team_statistics_df.csv"),
			AwayTeam:    filepath.Join(dir, "train_away_team_statistics_df.csv"),
			HomePlayers: filepath.Join(dir, "train_home_player_statistics_df.csv"),
			AwayPlayers: filepath.Join(dir, "train_away_player_statistics_df.csv"),
			Outcomes:    filepath.Join(c.Paths.DataDir, "y_train.csv"),
		}
	}
	dir := filepath.Join(c.Paths.DataDir, c.Paths.TestDir)
	return InputPaths{
		HomeTeam:    filepath.Join(dir, "test_home_team_statistics_df.csv"),
		AwayTeam:    filepath.Join(dir, "test_away_team_statistics_df.csv"),
		HomePlayers: filepath.Join(dir, "test_home_player_statistics_df.csv"),
		AwayPlayers: filepath.Join(dir, "test_away_player_statistics_df.csv"),
	}
}

// PreparedTablePath returns the location of the persisted flat table
func (c *Config) PreparedTablePath(mode Mode) string {
	return filepath.Join(c.Paths.OutputDir, fmt.Sprintf("prepared_data_%s.csv", mode))
}

// ExcelExportPath returns the location of the optional Excel export
func (c *Config) ExcelExportPath(mode Mode) string {
	return filepath.Join(c.Paths.OutputDir, fmt.Sprintf("prepared_data_%s.xlsx", mode))
}

// findConfigFile returns the path to the config file
func findConfigFile() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use defaults and env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			DataDir:   "data",
			TrainDir:  "Train_Data",
			TestDir:   "Test_Data",
			OutputDir: "data",
			LogsDir:   "logs",
		},
		Prepare: PrepareConfig{
			IDColumn:        "ID",
			TargetColumn:    "results",
			ExcludedColumns: []string{"TEAM_NAME", "LEAGUE", "PLAYER_NAME", "POSITION"},
			SaveExcel:       true,
		},
		Scale: ScaleConfig{
			SparsityThreshold: 0.2,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "stdout",
			FilePath: "logs/matchprep.log",
		},
	}
}
