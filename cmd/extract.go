// =============================================================================
// Statement Text Extractor - Extract Command
// =============================================================================
//
// This file defines the 'extract' command, which is the main command for
// turning bank document text files into ledger records.
//
// COMMAND USAGE:
//   extractor extract [flags]
//
// FLAGS:
//   --file    : Process only the named file instead of scanning the input dir
//   --bank    : Restrict extraction to one bank's rule set
//   --dry-run : Extract and validate only, without writing or moving files
//
// PROCESSING PIPELINE:
//   1. Load configuration and set up logging
//   2. Build the extraction engine from the enabled bank rule sets
//   3. Discover text files in the input directory
//   4. For each file (concurrently, bounded by max_concurrency):
//      a. Load the text
//      b. Extract transaction records
//      c. Validate the records
//      d. Write the output ledgers
//      e. Archive the file, or quarantine it on failure
//   5. Print a summary
//
// =============================================================================

package cmd

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/statement-text-extraction/internal/banks"
	"github.com/ginjaninja78/statement-text-extraction/internal/moneyparse"
	"github.com/ginjaninja78/statement-text-extraction/internal/pipeline"
	"github.com/ginjaninja78/statement-text-extraction/internal/securities"
	"github.com/ginjaninja78/statement-text-extraction/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// extractFile names a single file to process instead of scanning the input
// directory.
var extractFile string

// extractBank restricts extraction to one bank's rule set.
var extractBank string

// extractDryRun extracts and validates without writing ledgers or moving
// files.
var extractDryRun bool

// =============================================================================
// EXTRACT COMMAND DEFINITION
// =============================================================================

// extractCmd represents the 'extract' command.
var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract transaction records from bank document text files",
	Long: `The extract command scans the input directory for text files, runs every
enabled bank's document-type rules over each file, and writes the extracted
transaction records as CSV and/or XLSX ledgers.

Processing is done concurrently. Each file is processed independently, and
errors in one file do not affect the processing of others.

On successful processing:
  - The generated ledgers are placed in the output directory
  - The original text file is moved to the input archive

On error:
  - The file is moved to the error directory with a .error.log
  - Processing continues for other files`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runExtract()
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVar(
		&extractFile,
		"file",
		"",
		"Path to a specific file to process instead of scanning the input directory",
	)

	extractCmd.Flags().StringVar(
		&extractBank,
		"bank",
		"",
		"Restrict extraction to one bank's rule set (see 'extractor banks')",
	)

	extractCmd.Flags().BoolVar(
		&extractDryRun,
		"dry-run",
		false,
		"Extract and validate only; write no ledgers and move no files",
	)
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runExtract orchestrates the extraction pipeline over all input files.
func runExtract() error {
	startTime := time.Now()

	// =========================================================================
	// STEP 1: LOAD CONFIGURATION AND SET UP LOGGING
	// =========================================================================

	mainConfig, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := setupLogger(mainConfig)
	if err != nil {
		return err
	}

	tolerance, err := mainConfig.Tolerance()
	if err != nil {
		return err
	}
	moneyparse.SetGrossTolerance(tolerance)

	// =========================================================================
	// STEP 2: BUILD THE EXTRACTION ENGINE
	// =========================================================================
	// All enabled banks share one engine and one security resolver, so the
	// same instrument seen in two documents yields one reference.

	enabled := mainConfig.EnabledBanks
	if extractBank != "" {
		enabled = []string{extractBank}
	}

	selected := banks.Select(enabled)
	if len(selected) == 0 {
		return fmt.Errorf("no bank rule sets match %v (see 'extractor banks')", enabled)
	}

	resolver := securities.NewResolver()
	extractor := banks.NewExtractor(selected, resolver)
	logger.Debug("extraction engine ready",
		"banks", len(selected), "documentTypes", len(extractor.DocumentTypes()))

	// =========================================================================
	// STEP 3: DISCOVER INPUT FILES
	// =========================================================================

	var inputFiles []string
	if extractFile != "" {
		if !utils.FileExists(extractFile) {
			return fmt.Errorf("file %s does not exist", extractFile)
		}
		inputFiles = []string{extractFile}
	} else {
		manager := utils.NewFileManager(
			mainConfig.InputDir, mainConfig.OutputDir,
			mainConfig.InputArchiveDir, mainConfig.ErrorDir)
		if mainConfig.RecursiveInputScan {
			inputFiles, err = manager.DiscoverInputFilesRecursive(".txt")
		} else {
			inputFiles, err = manager.DiscoverInputFiles("*.txt")
		}
		if err != nil {
			return fmt.Errorf("failed to discover input files: %w", err)
		}
	}

	if len(inputFiles) == 0 {
		fmt.Println("No text files found in the input directory.")
		return nil
	}

	fmt.Printf("Found %d file(s) to process\n", len(inputFiles))

	// =========================================================================
	// STEP 4: PROCESS FILES CONCURRENTLY
	// =========================================================================
	// A buffered semaphore channel bounds the number of files in flight.

	proc := pipeline.New(extractor, mainConfig, logger)
	proc.DryRun = extractDryRun

	var wg sync.WaitGroup
	results := make(chan pipeline.Result, len(inputFiles))
	semaphore := make(chan struct{}, mainConfig.MaxConcurrency)

	for _, file := range inputFiles {
		wg.Add(1)

		go func(filePath string) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			results <- proc.Process(filePath)
		}(file)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	// =========================================================================
	// STEP 5: COLLECT RESULTS AND PRINT SUMMARY
	// =========================================================================

	var successCount, errorCount, recordCount int

	for result := range results {
		if result.Success {
			successCount++
			recordCount += result.Stats.RecordsExtracted
			fmt.Printf("  ✓ %s: %d record(s)\n",
				filepath.Base(result.FilePath), result.Stats.RecordsExtracted)
		} else {
			errorCount++
			fmt.Printf("  ✗ %s: %v\n", filepath.Base(result.FilePath), result.Error)
		}
	}

	if mainConfig.ArchiveRetentionDays > 0 && !extractDryRun {
		maxAge := time.Duration(mainConfig.ArchiveRetentionDays) * 24 * time.Hour
		removed, err := utils.CleanOldArchives(mainConfig.InputArchiveDir, maxAge)
		if err != nil {
			logger.Warn("failed to clean old archives", "error", err)
		} else if removed > 0 {
			logger.Info("cleaned old archives", "removed", removed)
		}
	}

	elapsed := time.Since(startTime)
	fmt.Println("\n=== Extraction Complete ===")
	fmt.Printf("Total files:     %d\n", len(inputFiles))
	fmt.Printf("Successful:      %d\n", successCount)
	fmt.Printf("Errors:          %d\n", errorCount)
	fmt.Printf("Records:         %d\n", recordCount)
	fmt.Printf("Securities:      %d\n", resolver.Count())
	fmt.Printf("Time elapsed:    %s\n", elapsed)

	if errorCount > 0 && !mainConfig.ContinueOnError {
		return fmt.Errorf("%d file(s) failed", errorCount)
	}

	return nil
}
