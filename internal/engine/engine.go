// =============================================================================
// Statement Text Extractor - Extraction Engine
// =============================================================================
//
// This module ties the pieces together: a registry of document types, each
// owning blocks, each block owning a transaction builder. Extraction of one
// document is a synchronous, single-threaded pass:
//
//   1. Every registered document type whose marker occurs in the text is
//      applicable; types are independent and may coexist on one document.
//   2. For each applicable type a fresh shared context is created.
//   3. The type's blocks locate their windows and the builders run their
//      sections over each window, emitting zero or one record per window.
//
// The registry is built once at startup and treated as read-only thereafter,
// so any number of documents may be extracted in parallel by independent
// Extract calls.
//
// =============================================================================

package engine

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ginjaninja78/statement-text-extraction/internal/types"
)

// =============================================================================
// DOCUMENT
// =============================================================================

// Document is one plain-text rendering of a financial statement or
// confirmation, fully materialized before parsing begins.
type Document struct {
	// Name identifies the document in diagnostics, typically the file name.
	Name string

	// Lines is the line-split text.
	Lines []string
}

// NewDocument splits raw text into a Document. Line endings are normalized
// and trailing whitespace is kept — the rule patterns anchor on `$` and some
// layouts carry significant interior spacing, so only `\r` is stripped.
func NewDocument(name, text string) *Document {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return &Document{Name: name, Lines: strings.Split(text, "\n")}
}

// =============================================================================
// DOCUMENT TYPE
// =============================================================================

// DocumentType classifies whole documents by a characteristic marker pattern
// and owns the blocks that interpret them.
type DocumentType struct {
	// Name labels the type in diagnostics and rule introspection.
	Name string

	// Marker declares the type applicable when it matches any line of the
	// document.
	Marker *regexp.Regexp

	// Blocks run in declared order.
	Blocks []*Block
}

// Matches reports whether the marker occurs anywhere in the document.
func (dt *DocumentType) Matches(doc *Document) bool {
	for _, line := range doc.Lines {
		if dt.Marker.MatchString(line) {
			return true
		}
	}
	return false
}

// =============================================================================
// DIAGNOSTICS
// =============================================================================

// Diagnostic records one abandoned window attempt: a mandatory section that
// failed mid-block or a malformed captured field. Diagnostics are not errors;
// they exist so format drift in bank documents can be debugged.
type Diagnostic struct {
	File         string
	DocumentType string
	Block        string
	Section      string
	Line         int
	Reason       string
}

// String renders the diagnostic for logs.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d [%s/%s] section %q: %s",
		d.File, d.Line, d.DocumentType, d.Block, d.Section, d.Reason)
}

// =============================================================================
// RESULT
// =============================================================================

// Result is the caller-visible outcome for one document: the multiset of
// successfully emitted records plus the diagnostic trail. There is no single
// pass/fail verdict; a document without any marker simply yields an empty
// result.
type Result struct {
	Items       []*types.Transaction
	Diagnostics []Diagnostic
	Warnings    []string
}

// =============================================================================
// EXTRACTOR
// =============================================================================

// Extractor is the read-only registry of document types.
type Extractor struct {
	documentTypes []*DocumentType
}

// NewExtractor builds an extractor over the given document types.
func NewExtractor(documentTypes ...*DocumentType) *Extractor {
	return &Extractor{documentTypes: documentTypes}
}

// Register appends further document types. Registration must complete before
// the first Extract call; the registry is not synchronized.
func (e *Extractor) Register(documentTypes ...*DocumentType) {
	e.documentTypes = append(e.documentTypes, documentTypes...)
}

// DocumentTypes exposes the registry for rule introspection.
func (e *Extractor) DocumentTypes() []*DocumentType {
	return e.documentTypes
}

// Extract runs every applicable document type over the document and collects
// the emitted records. Failures are local to one block-window attempt and
// never abort the remaining document or other document types.
func (e *Extractor) Extract(doc *Document) *Result {
	result := &Result{}

	for _, dt := range e.documentTypes {
		if !dt.Matches(doc) {
			continue
		}

		// One fresh context per (document, document type) pair.
		ctx := NewContext()

		for _, block := range dt.Blocks {
			for _, w := range block.windows(doc.Lines) {
				at := attemptInfo{
					file:         doc.Name,
					documentType: dt.Name,
					block:        block.Label,
					line:         w.start + 1,
				}

				item, diags := block.Builder.run(doc.Lines[w.start:w.end], ctx, at)
				result.Diagnostics = append(result.Diagnostics, diags...)
				if item != nil {
					result.Items = append(result.Items, item)
				}
			}
		}

		result.Warnings = append(result.Warnings, ctx.Warnings()...)
	}

	return result
}
