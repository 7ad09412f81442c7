// =============================================================================
// Statement Text Extractor - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands (like 'extract', 'banks') are
// attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (extractor)
//   ├── extractCmd (extractor extract)
//   ├── banksCmd   (extractor banks)
//   └── versionCmd (extractor version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --verbose)
//   2. Loading the configuration file
//   3. Setting up structured logging
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/statement-text-extraction/internal/config"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose enables debug logging regardless of the configured log level.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use: "extractor",

	Short: "Statement Text Extractor - Turn bank document text into ledger records",

	Long: `Statement Text Extractor is a CLI tool that parses the plain-text renderings
of bank documents (trade confirmations, dividend advices, account statements)
and extracts structured transaction records for import into accounting tools.

Key Features:
  - Declarative, per-bank rule tables for document recognition
  - Cross-currency reconciliation with data-quality warnings
  - Semantic validation (ISIN checksums, currencies, date ranges)
  - CSV and XLSX ledger output
  - Concurrent processing with automatic archival

Example Usage:
  extractor extract                    # Process all files in the input directory
  extractor extract --config ./my.yaml # Use a custom configuration file
  extractor banks                      # List supported banks and document types`,

	Run: func(cmd *cobra.Command, args []string) {
		// If no subcommand is provided, print the help message.
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	// Persistent flags are available to this command and all subcommands.

	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file (default is config.yaml)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// =============================================================================
// SHARED COMMAND HELPERS
// =============================================================================

// loadConfig loads the configuration file named by --config. A missing file
// at the default location falls back to built-in defaults; an explicitly
// named missing file is an error.
func loadConfig() (*config.MainConfig, error) {
	if _, err := os.Stat(cfgFile); os.IsNotExist(err) {
		if cfgFile == "config.yaml" {
			return config.Default(), nil
		}
		return nil, fmt.Errorf("config file %s does not exist", cfgFile)
	}
	return config.LoadMainConfig(cfgFile)
}

// setupLogger builds the application logger: text handler, level from the
// configuration (forced to debug by --verbose), writing to stderr and, when
// configured, the log file as well.
func setupLogger(cfg *config.MainConfig) (*slog.Logger, error) {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if verbose {
		level = slog.LevelDebug
	}

	var output io.Writer = os.Stderr
	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		output = io.MultiWriter(os.Stderr, file)
	}

	logger := slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger, nil
}
