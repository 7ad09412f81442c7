// =============================================================================
// Statement Text Extractor - Section Matching
// =============================================================================
//
// A Section is an ordered group of line matchers that must all match, in
// order, inside a block window to populate one or more fields of the
// record-under-construction.
//
// MATCHING SEMANTICS:
//   - The first pattern scans forward through the window until it matches.
//   - Each subsequent pattern scans forward from the line after the previous
//     match. Strict adjacency (next line must match) or a bounded gap can be
//     configured per section.
//   - If a later pattern cannot be satisfied, the scan retries the first
//     pattern further down the window before giving up, so an early false
//     anchor does not hide a real match.
//   - A section succeeds only when every pattern matched AND every attribute
//     listed in Required is bound. Only then is the assignment function
//     invoked, which keeps failed attempts side-effect free.
//
// SECTION KINDS (tagged by fields, not by subclassing):
//   - mandatory:   Optional == false, Alternatives == nil
//   - optional:    Optional == true,  Alternatives == nil
//   - one-of:      Alternatives != nil; tried in declared order, first fully
//     successful alternative wins; the group aborts the block unless the
//     group itself is marked Optional.
//
// =============================================================================

package engine

import (
	"github.com/ginjaninja78/statement-text-extraction/internal/types"
)

// AssignFunc mutates the record-under-construction and/or the shared context
// from the bound capture values of a fully matched section. Returning an
// error marks the captured text as malformed and aborts the whole block
// attempt; it must never be used for flow control.
type AssignFunc func(t *types.Transaction, v Values, ctx *Context) error

// Section describes one ordered group of line patterns. Rule tables build
// these as static data; the zero values give a mandatory section with
// unbounded forward scanning.
type Section struct {
	// Label names the section in diagnostics and rule introspection.
	Label string

	// Optional sections leave the accumulator and context untouched when
	// they fail to match; processing continues with the next section.
	Optional bool

	// Matchers are the ordered line patterns. Empty for one-of groups.
	Matchers []*LineMatcher

	// Required lists the attribute names that must all be bound for the
	// section to succeed. A matched pattern set with a missing required
	// attribute counts as a failed match.
	Required []string

	// Adjacent forces strict adjacency: pattern i+1 must match the line
	// immediately after the line matched by pattern i.
	Adjacent bool

	// MaxGap bounds the number of unmatched lines allowed between two
	// consecutive pattern matches. Zero means unbounded (within the window).
	// Ignored when Adjacent is set.
	MaxGap int

	// Assign is invoked exactly once when the section fully succeeds.
	Assign AssignFunc

	// Alternatives turns this section into a first-match-wins group. The
	// group's own Matchers/Assign are ignored; each alternative is attempted
	// in order at the window start and the first fully successful one is
	// committed. No alternative after the first success is attempted.
	Alternatives []Section
}

// sectionMatch records the outcome of a successful pattern scan.
type sectionMatch struct {
	values Values
	first  int // window-relative index of the first matched line
	last   int // window-relative index of the last matched line
}

// match attempts the section's patterns against the window starting at
// offset. It only reads; assignment is the caller's responsibility.
func (s *Section) match(window []string, offset int) (sectionMatch, bool) {
	if len(s.Matchers) == 0 {
		return sectionMatch{}, false
	}

	// Scan for a position of the first pattern from which the remaining
	// patterns can also be satisfied.
	for anchor := offset; anchor < len(window); anchor++ {
		values, ok := s.Matchers[0].Match(window[anchor])
		if !ok {
			continue
		}

		m, ok := s.matchRest(window, anchor, values)
		if !ok {
			continue
		}
		if !s.requiredBound(m.values) {
			continue
		}
		return m, true
	}

	return sectionMatch{}, false
}

// matchRest matches patterns 1..n-1 forward from the anchor line, honoring
// the adjacency configuration. Values bound by later patterns override
// earlier bindings of the same name, mirroring how multi-line sections
// accumulate their attributes.
func (s *Section) matchRest(window []string, anchor int, first Values) (sectionMatch, bool) {
	values := make(Values, len(first))
	for k, v := range first {
		values[k] = v
	}

	prev := anchor
	for _, matcher := range s.Matchers[1:] {
		limit := len(window)
		if s.Adjacent {
			limit = prev + 2
		} else if s.MaxGap > 0 && prev+1+s.MaxGap+1 < limit {
			limit = prev + 1 + s.MaxGap + 1
		}

		matched := -1
		for i := prev + 1; i < limit; i++ {
			v, ok := matcher.Match(window[i])
			if !ok {
				continue
			}
			for k, val := range v {
				values[k] = val
			}
			matched = i
			break
		}
		if matched < 0 {
			return sectionMatch{}, false
		}
		prev = matched
	}

	return sectionMatch{values: values, first: anchor, last: prev}, true
}

// requiredBound checks that every declared required attribute was captured.
func (s *Section) requiredBound(values Values) bool {
	for _, name := range s.Required {
		if _, ok := values[name]; !ok {
			return false
		}
	}
	return true
}

// isGroup reports whether the section is a first-match-wins alternative
// group.
func (s *Section) isGroup() bool {
	return len(s.Alternatives) > 0
}
