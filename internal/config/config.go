// =============================================================================
// Statement Text Extractor - Configuration Module
// =============================================================================
//
// This module loads and manages the application configuration. There is one
// YAML file for the whole application; per-bank behaviour lives in the rule
// tables, not in configuration, so adding a bank never touches this file.
//
// ARCHITECTURE:
//   The configuration system is designed to be:
//   - Small: one file, flat structure
//   - Defaulted: every field has a sensible default, an empty file works
//   - Validated: directories are created and values checked on load
//
// =============================================================================

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// InputDir is the directory where input text files are placed.
	// The application scans this directory for .txt files to process.
	// Default: "./input"
	InputDir string `yaml:"input_dir"`

	// OutputDir is the directory where generated ledger files are placed.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// InputArchiveDir is the directory where processed text files are moved.
	// Files are only moved here after successful processing.
	// Default: "./input_archive"
	InputArchiveDir string `yaml:"input_archive_dir"`

	// ErrorDir is the directory where files that failed processing are moved,
	// together with a .error.log describing the failure.
	// Default: "./error"
	ErrorDir string `yaml:"error_dir"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogFile is the path to the application log file. Empty logs to stderr
	// only.
	// Default: "./logs/extractor.log"
	LogFile string `yaml:"log_file"`

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// OutputFormats lists the ledger formats to write per processed file.
	// Valid values: "csv", "xlsx"
	// Default: ["csv"]
	OutputFormats []string `yaml:"output_formats"`

	// OutputNameFormat defines the format for output file names, without
	// extension. Placeholders:
	//   {uuid}      - A random UUID
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	//   {source}    - Source file name without extension
	// Default: "{source}_{timestamp}"
	OutputNameFormat string `yaml:"output_name_format"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	// MaxConcurrency is the maximum number of files to process concurrently.
	// Set to 1 for sequential processing.
	// Default: 4
	MaxConcurrency int `yaml:"max_concurrency"`

	// ContinueOnError determines whether to continue processing other files
	// if one file fails.
	// Default: true
	ContinueOnError bool `yaml:"continue_on_error"`

	// RecursiveInputScan scans the input directory tree recursively instead
	// of the top level only.
	// Default: false
	RecursiveInputScan bool `yaml:"recursive_input_scan"`

	// ArchiveRetentionDays removes archived input files older than this many
	// days after each run. Zero keeps archives forever.
	// Default: 0
	ArchiveRetentionDays int `yaml:"archive_retention_days"`

	// EnabledBanks restricts extraction to the named bank rule sets.
	// An empty list enables every supported bank.
	EnabledBanks []string `yaml:"enabled_banks"`

	// ReconciliationTolerance is the absolute tolerance, in local-currency
	// units, for cross-currency gross reconciliation. Stated and rate-derived
	// amounts differing by more than this produce a data-quality warning.
	// Default: "0.01"
	ReconciliationTolerance string `yaml:"reconciliation_tolerance"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// LoadMainConfig loads the main configuration from a YAML file.
//
// RETURNS:
//   - A pointer to the MainConfig struct with defaults applied.
//   - An error if the file cannot be read, parsed, or validated.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config MainConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	ApplyDefaults(&config)

	if err := Validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Default returns the built-in configuration used when no config file is
// given on the command line.
func Default() *MainConfig {
	config := &MainConfig{}
	ApplyDefaults(config)
	return config
}

// ApplyDefaults sets default values for any unset configuration options.
func ApplyDefaults(config *MainConfig) {
	if config.InputDir == "" {
		config.InputDir = "./input"
	}
	if config.OutputDir == "" {
		config.OutputDir = "./output"
	}
	if config.InputArchiveDir == "" {
		config.InputArchiveDir = "./input_archive"
	}
	if config.ErrorDir == "" {
		config.ErrorDir = "./error"
	}
	if config.LogFile == "" {
		config.LogFile = "./logs/extractor.log"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if len(config.OutputFormats) == 0 {
		config.OutputFormats = []string{"csv"}
	}
	if config.OutputNameFormat == "" {
		config.OutputNameFormat = "{source}_{timestamp}"
	}
	if config.MaxConcurrency == 0 {
		config.MaxConcurrency = 4
	}
	if config.ReconciliationTolerance == "" {
		config.ReconciliationTolerance = "0.01"
	}
}

// Validate checks the configuration and creates missing directories.
func Validate(config *MainConfig) error {
	switch config.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", config.LogLevel)
	}

	for _, format := range config.OutputFormats {
		switch strings.ToLower(format) {
		case "csv", "xlsx":
		default:
			return fmt.Errorf("unknown output format %q", format)
		}
	}

	if config.MaxConcurrency < 1 {
		return fmt.Errorf("max_concurrency must be at least 1")
	}

	if config.ArchiveRetentionDays < 0 {
		return fmt.Errorf("archive_retention_days must not be negative")
	}

	if _, err := config.Tolerance(); err != nil {
		return err
	}

	dirs := []string{
		config.InputDir,
		config.OutputDir,
		config.InputArchiveDir,
		config.ErrorDir,
	}
	for _, dir := range dirs {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", dir, err)
			}
		}
	}

	return nil
}

// Tolerance parses the reconciliation tolerance into a decimal.
func (c *MainConfig) Tolerance() (decimal.Decimal, error) {
	tolerance, err := decimal.NewFromString(c.ReconciliationTolerance)
	if err != nil || !tolerance.IsPositive() {
		return decimal.Zero, fmt.Errorf("reconciliation_tolerance must be a positive decimal, got %q",
			c.ReconciliationTolerance)
	}
	return tolerance, nil
}

// WantsFormat reports whether the given output format is enabled.
func (c *MainConfig) WantsFormat(format string) bool {
	for _, f := range c.OutputFormats {
		if strings.EqualFold(f, format) {
			return true
		}
	}
	return false
}
