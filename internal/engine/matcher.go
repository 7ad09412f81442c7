// =============================================================================
// Statement Text Extractor - Line Matcher
// =============================================================================
//
// A LineMatcher matches exactly one line of text against a regular expression
// with named capture groups and returns the bound groups as a string map.
// The engine performs no type coercion: captured values stay strings until an
// assignment function converts them explicitly.
//
// =============================================================================

package engine

import "regexp"

// Values is the mapping of named capture groups to their captured text for a
// section match. Groups that did not participate in the match are absent from
// the map, which is what the required-attribute check keys on.
type Values map[string]string

// LineMatcher wraps one compiled pattern applied to single lines.
type LineMatcher struct {
	re *regexp.Regexp
}

// Line compiles a pattern into a LineMatcher. It panics on an invalid
// pattern; rule tables are static data, so a bad pattern is a programming
// error caught by the package tests, not a runtime condition.
func Line(pattern string) *LineMatcher {
	return &LineMatcher{re: regexp.MustCompile(pattern)}
}

// Pattern returns the source pattern, used in diagnostics and the rule
// introspection command.
func (m *LineMatcher) Pattern() string {
	return m.re.String()
}

// Match applies the pattern to one line. On success it returns the named
// capture groups that participated in the match; unnamed groups are ignored.
func (m *LineMatcher) Match(line string) (Values, bool) {
	idx := m.re.FindStringSubmatchIndex(line)
	if idx == nil {
		return nil, false
	}

	values := make(Values)
	for i, name := range m.re.SubexpNames() {
		if name == "" {
			continue
		}
		start, end := idx[2*i], idx[2*i+1]
		if start < 0 {
			// Group did not participate in the match (e.g. an unmatched
			// optional branch); leave the name unbound.
			continue
		}
		values[name] = line[start:end]
	}

	return values, true
}
