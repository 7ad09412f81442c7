// =============================================================================
// Statement Text Extractor - Block Segmentation
// =============================================================================
//
// A Block delimits one logical record's extent inside a document. It is
// anchored by a start pattern and bounded by, in order of precedence:
//   1. the next occurrence of the start pattern (a new window begins there),
//   2. an optional end pattern (inclusive),
//   3. an optional maximum line span,
//   4. the end of the document.
//
// Windows never overlap: scanning resumes at the first line after the
// consumed window, and overlapping start matches are resolved in scan order
// (earliest start line wins).
//
// =============================================================================

package engine

import "regexp"

// Block binds a start anchor to the transaction builder that interprets the
// lines of each window it claims.
type Block struct {
	// Label names the block in diagnostics and rule introspection.
	Label string

	// Start anchors a window at every line it matches.
	Start *regexp.Regexp

	// LeadIn optionally extends a window one line upward when the line
	// immediately before the start match satisfies it. Layouts where a short
	// qualifier line (e.g. "Kauf" / "Verkauf") precedes the anchor line use
	// this so the qualifier stays inside the window.
	LeadIn *regexp.Regexp

	// End closes the window at the first matching line (inclusive), when set.
	End *regexp.Regexp

	// MaxLines bounds the window span counted from the start line. Zero
	// means unbounded. The bound keeps an unrelated later occurrence of a
	// similar line from being absorbed into the window.
	MaxLines int

	// Builder interprets the window's lines.
	Builder *Builder
}

// window is a half-open [start, end) line range in document coordinates.
type window struct {
	start, end int
}

// windows locates every non-overlapping window of the block within the
// document's lines.
func (b *Block) windows(lines []string) []window {
	var found []window

	i := 0
	consumed := 0 // first line not claimed by an earlier window
	for i < len(lines) {
		if !b.Start.MatchString(lines[i]) {
			i++
			continue
		}

		start := i
		end := len(lines)

		// A later start match begins the next window.
		for j := i + 1; j < end; j++ {
			if b.Start.MatchString(lines[j]) {
				end = j
				break
			}
		}

		if b.MaxLines > 0 && start+b.MaxLines < end {
			end = start + b.MaxLines
		}

		if b.End != nil {
			for j := start + 1; j < end; j++ {
				if b.End.MatchString(lines[j]) {
					end = j + 1
					break
				}
			}
		}

		// Pull a qualifier line on the previous line into the window, but
		// never steal a line an earlier window already consumed.
		if b.LeadIn != nil && start > consumed && b.LeadIn.MatchString(lines[start-1]) {
			start--
		}

		found = append(found, window{start: start, end: end})
		consumed = end
		i = end
	}

	return found
}
