// =============================================================================
// Statement Text Extractor - File Manager Utility
// =============================================================================
//
// This module provides file management utilities for the extractor, including:
//   - Input file discovery and scanning
//   - File archival (moving processed files)
//   - Quarantine of failed files with error logs
//   - Directory management
//   - Output file naming
//
// ARCHIVAL STRATEGY:
//   - Input files are moved to input_archive after successful processing
//   - Failed files are moved to the error directory together with a
//     .error.log describing the failure
//   - Output ledger files stay in the output directory
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles file operations for the extractor.
type FileManager struct {
	// InputDir is the directory where input text files are placed.
	InputDir string

	// OutputDir is the directory where output ledger files are placed.
	OutputDir string

	// InputArchiveDir is the directory for archived input files.
	InputArchiveDir string

	// ErrorDir is the directory for failed input files and their error logs.
	ErrorDir string

	// UseTimestampSubdirs creates date-based subdirectories in the archive.
	// Example: input_archive/2026/08/29/statement.txt
	UseTimestampSubdirs bool

	// ArchiveOnSuccess determines whether to archive files after successful
	// processing.
	ArchiveOnSuccess bool
}

// NewFileManager creates a new FileManager with the specified directories.
func NewFileManager(inputDir, outputDir, inputArchiveDir, errorDir string) *FileManager {
	return &FileManager{
		InputDir:            inputDir,
		OutputDir:           outputDir,
		InputArchiveDir:     inputArchiveDir,
		ErrorDir:            errorDir,
		UseTimestampSubdirs: false,
		ArchiveOnSuccess:    true,
	}
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDirectories creates all required directories if they don't exist.
func (fm *FileManager) EnsureDirectories() error {
	dirs := []string{
		fm.InputDir,
		fm.OutputDir,
		fm.InputArchiveDir,
		fm.ErrorDir,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// =============================================================================
// FILE DISCOVERY
// =============================================================================

// DiscoverInputFiles scans the input directory for files matching the
// pattern. An empty pattern defaults to "*.txt".
func (fm *FileManager) DiscoverInputFiles(pattern string) ([]string, error) {
	if pattern == "" {
		pattern = "*.txt"
	}

	fullPattern := filepath.Join(fm.InputDir, pattern)

	files, err := filepath.Glob(fullPattern)
	if err != nil {
		return nil, fmt.Errorf("failed to scan input directory: %w", err)
	}

	// Filter out directories.
	var result []string
	for _, file := range files {
		info, err := os.Stat(file)
		if err != nil {
			continue
		}
		if !info.IsDir() {
			result = append(result, file)
		}
	}

	return result, nil
}

// DiscoverInputFilesRecursive scans the input directory recursively for
// files with the given extension (e.g. ".txt").
func (fm *FileManager) DiscoverInputFilesRecursive(extension string) ([]string, error) {
	var files []string

	err := filepath.Walk(fm.InputDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			return nil
		}

		if extension == "" || strings.HasSuffix(strings.ToLower(path), strings.ToLower(extension)) {
			files = append(files, path)
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to walk input directory: %w", err)
	}

	return files, nil
}

// =============================================================================
// FILE ARCHIVAL
// =============================================================================

// ArchiveInputFile moves an input file to the archive directory and returns
// the new path.
func (fm *FileManager) ArchiveInputFile(filePath string) (string, error) {
	if !fm.ArchiveOnSuccess {
		return filePath, nil
	}

	archivePath := fm.getArchivePath(fm.InputArchiveDir, filePath)

	archiveDir := filepath.Dir(archivePath)
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	if err := moveFile(filePath, archivePath); err != nil {
		return "", err
	}

	return archivePath, nil
}

// QuarantineFile moves a failed input file to the error directory and writes
// a .error.log next to it with the failure description. It returns the new
// path of the file.
func (fm *FileManager) QuarantineFile(filePath string, reason string) (string, error) {
	errorPath := filepath.Join(fm.ErrorDir, filepath.Base(filePath))

	if err := os.MkdirAll(fm.ErrorDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create error directory: %w", err)
	}

	if err := moveFile(filePath, errorPath); err != nil {
		return "", err
	}

	logPath := errorPath + ".error.log"
	file, err := os.Create(logPath)
	if err != nil {
		return errorPath, fmt.Errorf("failed to create error log: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	fmt.Fprintf(writer, "File:      %s\n", filepath.Base(filePath))
	fmt.Fprintf(writer, "Failed at: %s\n\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintln(writer, reason)
	if err := writer.Flush(); err != nil {
		return errorPath, fmt.Errorf("failed to flush error log: %w", err)
	}

	return errorPath, nil
}

// getArchivePath constructs the archive path for a file.
func (fm *FileManager) getArchivePath(archiveDir, filePath string) string {
	fileName := filepath.Base(filePath)

	if fm.UseTimestampSubdirs {
		now := time.Now()
		subDir := filepath.Join(
			archiveDir,
			fmt.Sprintf("%d", now.Year()),
			fmt.Sprintf("%02d", now.Month()),
			fmt.Sprintf("%02d", now.Day()),
		)
		return filepath.Join(subDir, fileName)
	}

	return filepath.Join(archiveDir, fileName)
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// GenerateOutputFileName generates an output file name from a format string,
// without extension.
//
// PLACEHOLDERS:
//   {uuid}      - A random UUID
//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
//   {date}      - Current date (YYYYMMDD)
//   {time}      - Current time (HHMMSS)
//   {source}    - Source file name without extension (via params)
//
// EXAMPLE:
//   format: "{source}_{timestamp}"
//   params: {"source": "kontoauszug_2020"}
//   output: "kontoauszug_2020_20260829_143022"
func GenerateOutputFileName(format string, params map[string]string) string {
	now := time.Now()

	replacements := map[string]string{
		"{uuid}":      uuid.New().String(),
		"{timestamp}": now.Format("20060102_150405"),
		"{date}":      now.Format("20060102"),
		"{time}":      now.Format("150405"),
	}

	for key, value := range params {
		replacements["{"+key+"}"] = value
	}

	result := format
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	return result
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// moveFile renames src to dst, falling back to copy-and-delete across
// filesystems.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err != nil {
		if err := copyFile(src, dst); err != nil {
			return fmt.Errorf("failed to copy file: %w", err)
		}
		if err := os.Remove(src); err != nil {
			return fmt.Errorf("failed to remove original file: %w", err)
		}
	}
	return nil
}

// copyFile copies a file from src to dst.
func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	_, err = io.Copy(destFile, sourceFile)
	if err != nil {
		return err
	}

	return destFile.Sync()
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// GetFileSize returns the size of a file in bytes.
func GetFileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// CleanOldArchives removes archive files older than the specified duration
// and returns the number of files removed.
func CleanOldArchives(archiveDir string, maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)
	removed := 0

	err := filepath.Walk(archiveDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			return nil
		}

		if info.ModTime().Before(cutoff) {
			if err := os.Remove(path); err != nil {
				return err
			}
			removed++
		}

		return nil
	})

	if err != nil {
		return removed, fmt.Errorf("failed to clean archives: %w", err)
	}

	return removed, nil
}
