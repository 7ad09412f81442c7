// =============================================================================
// Statement Text Extractor - Text Loader Module
// =============================================================================
//
// This module is responsible for loading the plain-text renderings of bank
// documents from disk. It handles the quirks of text extracted from PDFs:
//   - UTF-8 byte order marks
//   - Windows and legacy Mac line endings
//   - Trailing whitespace that carries layout information
//
// The loader materializes the whole document before parsing begins. Bank
// documents are a few kilobytes; there is nothing to stream.
//
// =============================================================================

package textloader

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ginjaninja78/statement-text-extraction/internal/engine"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Load reads one text file and returns it as a document ready for
// extraction. The document name is the base file name, which later shows up
// in diagnostics and record provenance.
//
// RETURNS:
//   - The loaded document.
//   - An error if the file cannot be read, is empty, or is not valid UTF-8.
func Load(filePath string) (*engine.Document, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	data = bytes.TrimPrefix(data, utf8BOM)

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("file %s is empty", filePath)
	}

	if !utf8.Valid(data) {
		return nil, fmt.Errorf("file %s is not valid UTF-8 text", filePath)
	}

	return engine.NewDocument(filepath.Base(filePath), string(data)), nil
}

// LoadString wraps already-materialized text as a document. Used by tests and
// by callers that receive document text over other channels.
func LoadString(name, text string) *engine.Document {
	return engine.NewDocument(name, strings.TrimPrefix(text, string(utf8BOM)))
}
