// =============================================================================
// Statement Text Extractor - Transaction Builder
// =============================================================================
//
// The Builder orchestrates a block's sections in declared order against the
// lines of one window, accumulating values into a record-under-construction
// and finally wrapping or discarding it.
//
// FAILURE SEMANTICS:
//   - A mandatory section that does not match abandons the window attempt.
//     No partial record is ever emitted; a diagnostic is recorded instead.
//   - An optional section that does not match leaves the accumulator and the
//     context untouched.
//   - An assignment function returning an error (malformed captured text)
//     aborts the window attempt as a hard failure — never silently coerced.
//   - One-of groups commit to the first fully successful alternative.
//
// Every section scans the whole window from its start. This is deliberate:
// tax and fee lines can appear before the settlement amount line in real
// documents, and removing the lines of an optional section must never change
// whether the mandatory sections succeed.
//
// =============================================================================

package engine

import (
	"github.com/ginjaninja78/statement-text-extraction/internal/types"
)

// WrapFunc is the terminal guard applied to the accumulator after all
// sections ran. Returning nil discards the record silently; this is the
// documented way to express "the block matched text that turned out not to
// be a real transaction".
type WrapFunc func(t *types.Transaction) *types.Transaction

// Builder owns the ordered section list of one block.
type Builder struct {
	// Subject creates a fresh record-under-construction per window, preset
	// with the block's record kind.
	Subject func() *types.Transaction

	// Sections run in declared order.
	Sections []Section

	// Wrap decides emission. When nil the record is emitted as built.
	Wrap WrapFunc
}

// WrapIfComplete is the canonical terminal guard: emit only when the
// currency code is set and the amount is non-zero.
func WrapIfComplete(t *types.Transaction) *types.Transaction {
	if t.Currency != "" && !t.Amount.IsZero() {
		return t
	}
	return nil
}

// run executes the builder against one window. It returns the emitted record
// (nil when none) and any diagnostics describing why a started attempt was
// abandoned.
func (b *Builder) run(window []string, ctx *Context, at attemptInfo) (*types.Transaction, []Diagnostic) {
	t := b.Subject()
	t.SourceFile = at.file
	t.SourceLine = at.line

	for i := range b.Sections {
		section := &b.Sections[i]

		if section.isGroup() {
			abort, diag := b.runGroup(section, window, t, ctx, at)
			if abort {
				return nil, []Diagnostic{diag}
			}
			continue
		}

		m, ok := section.match(window, 0)
		if !ok {
			if section.Optional {
				continue
			}
			return nil, []Diagnostic{at.diagnostic(section.Label, "mandatory section did not match")}
		}

		if section.Assign != nil {
			if err := section.Assign(t, m.values, ctx); err != nil {
				return nil, []Diagnostic{at.diagnostic(section.Label, "malformed field: "+err.Error())}
			}
		}
	}

	if b.Wrap != nil {
		t = b.Wrap(t)
	}
	return t, nil
}

// runGroup tries the alternatives of a one-of section in declared order and
// commits to the first that fully matches. It reports whether the block
// attempt must be aborted.
func (b *Builder) runGroup(group *Section, window []string, t *types.Transaction, ctx *Context, at attemptInfo) (bool, Diagnostic) {
	for i := range group.Alternatives {
		alt := &group.Alternatives[i]

		m, ok := alt.match(window, 0)
		if !ok {
			continue
		}

		if alt.Assign != nil {
			if err := alt.Assign(t, m.values, ctx); err != nil {
				return true, at.diagnostic(group.Label, "malformed field: "+err.Error())
			}
		}
		return false, Diagnostic{}
	}

	if group.Optional {
		return false, Diagnostic{}
	}
	return true, at.diagnostic(group.Label, "no alternative of one-of group matched")
}

// attemptInfo carries the provenance of one window attempt into diagnostics.
type attemptInfo struct {
	file         string
	documentType string
	block        string
	line         int // 1-based document line of the window start
}

func (a attemptInfo) diagnostic(section, reason string) Diagnostic {
	return Diagnostic{
		File:         a.file,
		DocumentType: a.documentType,
		Block:        a.block,
		Section:      section,
		Line:         a.line,
		Reason:       reason,
	}
}
