// =============================================================================
// Statement Text Extractor - Locale Parsing Helpers
// =============================================================================
//
// This module converts the raw string captures of the extraction engine into
// typed values: decimal amounts, share counts, timestamps and ISO 4217
// currency codes. German financial documents print amounts with a dot as the
// thousands separator and a comma as the decimal separator ("30.090,76");
// some layouts additionally use apostrophes ("1'234,56") or stray blanks
// inside numbers and dates.
//
// ERROR HANDLING:
//   Every parser rejects text that is not a valid instance of its grammar
//   with a *MalformedFieldError. The caller (a section assignment function)
//   propagates that as a hard failure for the block attempt — a malformed
//   amount is never silently coerced to zero.
//
// =============================================================================

package moneyparse

import (
	"fmt"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// =============================================================================
// ERROR TYPE
// =============================================================================

// MalformedFieldError reports a captured string that is not a valid instance
// of the expected grammar.
type MalformedFieldError struct {
	// Field is the logical field being parsed (amount, date, currency, ...).
	Field string

	// Value is the offending captured text.
	Value string

	// Reason describes what was wrong.
	Reason string
}

// Error implements the error interface.
func (e *MalformedFieldError) Error() string {
	return fmt.Sprintf("malformed %s %q: %s", e.Field, e.Value, e.Reason)
}

// =============================================================================
// TEXT HELPERS
// =============================================================================

// StripBlanks removes every blank from a string. Dates in account statements
// are occasionally ripped apart by the PDF text layer ("31.01.20 20").
func StripBlanks(s string) string {
	return strings.ReplaceAll(s, " ", "")
}

// Trim removes leading and trailing whitespace.
func Trim(s string) string {
	return strings.TrimSpace(s)
}

// =============================================================================
// NUMERIC PARSING
// =============================================================================

// ParseAmount parses a German-locale monetary amount ("30.090,76") into a
// decimal. Apostrophe group separators and interior blanks are tolerated; the
// sign, when present in the capture, is preserved.
func ParseAmount(s string) (decimal.Decimal, error) {
	return parseDecimal("amount", s)
}

// ParseShares parses a German-locale share count ("140,0000").
func ParseShares(s string) (decimal.Decimal, error) {
	return parseDecimal("share count", s)
}

// ParseRate parses an exchange rate ("1,309900").
func ParseRate(s string) (decimal.Decimal, error) {
	return parseDecimal("exchange rate", s)
}

func parseDecimal(field, s string) (decimal.Decimal, error) {
	cleaned := StripBlanks(s)
	cleaned = strings.ReplaceAll(cleaned, "'", "")
	cleaned = strings.ReplaceAll(cleaned, ".", "")
	cleaned = strings.Replace(cleaned, ",", ".", 1)

	if cleaned == "" {
		return decimal.Zero, &MalformedFieldError{Field: field, Value: s, Reason: "empty"}
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, &MalformedFieldError{Field: field, Value: s, Reason: "not a number"}
	}
	return d, nil
}

// =============================================================================
// DATE PARSING
// =============================================================================

const (
	dateLayout     = "02.01.2006"
	dateTimeLayout = "02.01.2006 15:04:05"
)

// ParseDate parses a German date ("30.12.2016"). Interior blanks are
// stripped first, so "31.01.20 20" parses as 31.01.2020.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, StripBlanks(s))
	if err != nil {
		return time.Time{}, &MalformedFieldError{Field: "date", Value: s, Reason: "expected DD.MM.YYYY"}
	}
	return t, nil
}

// ParseDateTime parses a date plus a clock time ("30.12.2016", "12:46:28").
func ParseDateTime(date, clock string) (time.Time, error) {
	t, err := time.Parse(dateTimeLayout, StripBlanks(date)+" "+StripBlanks(clock))
	if err != nil {
		return time.Time{}, &MalformedFieldError{Field: "date", Value: date + " " + clock, Reason: "expected DD.MM.YYYY HH:MM:SS"}
	}
	return t, nil
}

// =============================================================================
// CURRENCY CODES
// =============================================================================

// NormalizeCurrencyCode validates a captured currency code against the ISO
// 4217 registry and returns its canonical upper-case form.
func NormalizeCurrencyCode(s string) (string, error) {
	code := strings.ToUpper(Trim(s))
	if money.GetCurrency(code) == nil {
		return "", &MalformedFieldError{Field: "currency", Value: s, Reason: "unknown ISO 4217 code"}
	}
	return code, nil
}
