// =============================================================================
// Statement Text Extractor - Processing Pipeline
// =============================================================================
//
// This module contains the core processing logic. It orchestrates the whole
// extraction pipeline for a single file, from text loading to ledger output.
//
// PROCESSING PIPELINE:
//   1. Load the text file into a document
//   2. Run the extraction engine over the document
//   3. Validate the extracted records
//   4. Write the output ledger files (CSV and/or XLSX)
//   5. Archive the processed file, or quarantine it on failure
//
// CONCURRENCY:
//   Each file is processed in its own goroutine. The engine registry and the
//   security resolver are shared; both are safe for concurrent use.
//
// =============================================================================

package pipeline

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/ginjaninja78/statement-text-extraction/internal/config"
	"github.com/ginjaninja78/statement-text-extraction/internal/engine"
	"github.com/ginjaninja78/statement-text-extraction/internal/ledgerwriter"
	"github.com/ginjaninja78/statement-text-extraction/internal/textloader"
	"github.com/ginjaninja78/statement-text-extraction/internal/types"
	"github.com/ginjaninja78/statement-text-extraction/internal/validation"
	"github.com/ginjaninja78/statement-text-extraction/pkg/utils"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of processing a single file.
type Result struct {
	// FilePath is the path to the input file that was processed.
	FilePath string

	// OutputFiles are the paths of the generated ledger files. Empty if
	// processing failed.
	OutputFiles []string

	// Records are the extracted transaction records.
	Records []*types.Transaction

	// Success indicates whether the processing was successful.
	Success bool

	// Error contains the error if processing failed.
	Error error

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the processing of one file.
type ProcessingStats struct {
	// LinesProcessed is the number of document lines scanned.
	LinesProcessed int

	// RecordsExtracted is the number of transaction records emitted.
	RecordsExtracted int

	// Diagnostics is the number of abandoned window attempts.
	Diagnostics int

	// Warnings is the number of data-quality warnings.
	Warnings int

	// ValidationErrors is the number of error-severity validation findings.
	ValidationErrors int

	// ProcessingTime is the time taken to process the file.
	ProcessingTime time.Duration
}

// =============================================================================
// PIPELINE STRUCTURE
// =============================================================================

// Pipeline processes single files against a prebuilt extraction engine.
// One Pipeline serves a whole run; Process may be called concurrently.
type Pipeline struct {
	extractor  *engine.Extractor
	validator  *validation.Validator
	mainConfig *config.MainConfig
	files      *utils.FileManager
	logger     *slog.Logger

	// DryRun extracts and validates but writes no ledgers and moves no files.
	DryRun bool
}

// New creates a Pipeline over an extraction engine.
func New(extractor *engine.Extractor, mainConfig *config.MainConfig, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		extractor:  extractor,
		validator:  validation.NewValidator(),
		mainConfig: mainConfig,
		files: utils.NewFileManager(
			mainConfig.InputDir,
			mainConfig.OutputDir,
			mainConfig.InputArchiveDir,
			mainConfig.ErrorDir,
		),
		logger: logger,
	}
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Process executes the extraction pipeline for one file.
func (p *Pipeline) Process(filePath string) Result {
	startTime := time.Now()
	result := Result{
		FilePath: filePath,
		Success:  false,
	}
	logger := p.logger.With("file", filepath.Base(filePath))

	fail := func(err error) Result {
		result.Error = err
		result.Stats.ProcessingTime = time.Since(startTime)
		logger.Error("processing failed", "error", err)
		if !p.DryRun {
			if _, qerr := p.files.QuarantineFile(filePath, err.Error()); qerr != nil {
				logger.Warn("failed to quarantine file", "error", qerr)
			}
		}
		return result
	}

	// =========================================================================
	// STEP 1: LOAD TEXT
	// =========================================================================

	logger.Info("processing file")

	doc, err := textloader.Load(filePath)
	if err != nil {
		return fail(fmt.Errorf("failed to load text: %w", err))
	}

	result.Stats.LinesProcessed = len(doc.Lines)
	if size, serr := utils.GetFileSize(filePath); serr == nil {
		logger.Debug("loaded document", "lines", len(doc.Lines), "bytes", size)
	} else {
		logger.Debug("loaded document", "lines", len(doc.Lines))
	}

	// =========================================================================
	// STEP 2: EXTRACT RECORDS
	// =========================================================================
	// Every applicable document type runs; a document no type claims yields
	// an empty result, which is not an error.

	extraction := p.extractor.Extract(doc)
	result.Records = extraction.Items
	result.Stats.RecordsExtracted = len(extraction.Items)
	result.Stats.Diagnostics = len(extraction.Diagnostics)
	result.Stats.Warnings = len(extraction.Warnings)

	for _, diag := range extraction.Diagnostics {
		logger.Debug("window attempt abandoned", "diagnostic", diag.String())
	}
	for _, warning := range extraction.Warnings {
		logger.Warn("data-quality warning", "warning", warning)
	}

	logger.Debug("extraction complete",
		"records", len(extraction.Items),
		"diagnostics", len(extraction.Diagnostics))

	if len(extraction.Items) == 0 {
		// Distinguish a file no rule set claims from one that matched a
		// document type but whose windows all failed.
		if len(extraction.Diagnostics) == 0 {
			return fail(fmt.Errorf("no records extracted: no known document type matched"))
		}
		return fail(fmt.Errorf("no records extracted; %d window attempts abandoned",
			len(extraction.Diagnostics)))
	}

	// =========================================================================
	// STEP 3: VALIDATE RECORDS
	// =========================================================================

	vresult := p.validator.ValidateAll(extraction.Items)
	result.Stats.ValidationErrors = vresult.ErrorCount

	for _, finding := range vresult.Errors {
		logger.Warn("validation finding", "finding", finding.Error())
	}

	if !vresult.IsValid && !p.mainConfig.ContinueOnError {
		return fail(fmt.Errorf("validation failed with %d errors", vresult.ErrorCount))
	}

	logger.Debug("validation complete", "errors", vresult.ErrorCount, "warnings", vresult.WarningCount)

	// =========================================================================
	// STEP 4: WRITE OUTPUT LEDGERS
	// =========================================================================

	if p.DryRun {
		logger.Info("dry run, skipping ledger output and archival",
			"records", len(extraction.Items))
		result.Success = true
		result.Stats.ProcessingTime = time.Since(startTime)
		return result
	}

	outputs, err := p.writeOutputs(filePath, extraction.Items)
	if err != nil {
		return fail(err)
	}
	result.OutputFiles = outputs

	for _, output := range outputs {
		logger.Info("wrote ledger", "output", output)
	}

	// =========================================================================
	// STEP 5: ARCHIVE INPUT FILE
	// =========================================================================

	if _, err := p.files.ArchiveInputFile(filePath); err != nil {
		// Log but do not fail; the ledgers are already written.
		logger.Warn("failed to archive input file", "error", err)
	}

	result.Success = true
	result.Stats.ProcessingTime = time.Since(startTime)

	return result
}

// =============================================================================
// OUTPUT WRITING
// =============================================================================

// writeOutputs writes one ledger per enabled output format and returns their
// paths.
func (p *Pipeline) writeOutputs(filePath string, records []*types.Transaction) ([]string, error) {
	source := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	baseName := utils.GenerateOutputFileName(p.mainConfig.OutputNameFormat, map[string]string{
		"source": source,
	})

	var outputs []string
	for _, format := range p.mainConfig.OutputFormats {
		outputPath := filepath.Join(p.mainConfig.OutputDir, baseName+"."+strings.ToLower(format))

		var err error
		switch strings.ToLower(format) {
		case "csv":
			err = ledgerwriter.WriteCSV(records, outputPath)
		case "xlsx":
			err = ledgerwriter.WriteXLSX(records, outputPath)
		default:
			err = fmt.Errorf("unknown output format %q", format)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to write %s ledger: %w", format, err)
		}

		outputs = append(outputs, outputPath)
	}

	return outputs, nil
}
