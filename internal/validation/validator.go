// =============================================================================
// Statement Text Extractor - Validation Engine
// =============================================================================
//
// This module validates extracted transaction records before they are written
// to the output ledger. The extraction engine guarantees structural
// completeness (a record without currency and amount is never emitted);
// validation covers semantic plausibility:
//   - ISIN format and checksum
//   - Known ISO 4217 currency codes on the record and its tax/fee units
//   - Positive amounts and non-negative share counts
//   - Booking dates inside a plausible range
//   - Security-carrying record kinds actually carrying a security
//
// ERROR HANDLING:
//   - Findings are collected, not thrown immediately
//   - Each finding includes detailed context (file, line, field, value)
//   - Findings are warnings (continue processing) or errors (record should
//     not be imported)
//
// =============================================================================

package validation

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Rhymond/go-money"

	"github.com/ginjaninja78/statement-text-extraction/internal/types"
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// Severity levels for validation findings.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// ValidationError represents a single validation finding.
type ValidationError struct {
	// Severity indicates the severity of the finding.
	// "error" = the record should not be imported
	// "warning" = non-fatal, processing can continue
	Severity string

	// Field is the name of the field that failed validation.
	Field string

	// Value is the actual value that failed validation.
	Value string

	// Rule is the validation rule that was violated.
	Rule string

	// Message is a human-readable error message.
	Message string

	// SourceFile and SourceLine locate the record in the input document.
	SourceFile string
	SourceLine int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s:%d field '%s': %s (value: '%s')",
		strings.ToUpper(e.Severity),
		e.SourceFile,
		e.SourceLine,
		e.Field,
		e.Message,
		e.Value,
	)
}

// =============================================================================
// VALIDATION RESULT
// =============================================================================

// ValidationResult contains the results of validation.
type ValidationResult struct {
	// IsValid is true if there are no errors.
	IsValid bool

	// Errors contains all findings, warnings included.
	Errors []*ValidationError

	// ErrorCount is the number of error-severity findings.
	ErrorCount int

	// WarningCount is the number of warnings.
	WarningCount int

	// RecordsValidated is the total number of records validated.
	RecordsValidated int
}

// =============================================================================
// VALIDATOR
// =============================================================================

// ValidationOptions contains options for validation.
type ValidationOptions struct {
	// StopOnFirstError stops validation after the first error finding.
	// Default: false
	StopOnFirstError bool

	// TreatWarningsAsErrors treats warnings as errors.
	// Default: false
	TreatWarningsAsErrors bool

	// EarliestDate rejects booking dates before this point. The zero value
	// defaults to 1990-01-01; the oldest supported layouts are from the
	// 2000s.
	EarliestDate time.Time

	// LatestDate rejects booking dates after this point. The zero value
	// defaults to one year from now.
	LatestDate time.Time
}

// DefaultValidationOptions returns the default validation options.
func DefaultValidationOptions() ValidationOptions {
	return ValidationOptions{
		EarliestDate: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		LatestDate:   time.Now().AddDate(1, 0, 0),
	}
}

// Validator performs validation on extracted records.
type Validator struct {
	options ValidationOptions
}

// NewValidator creates a Validator with default options.
func NewValidator() *Validator {
	return &Validator{options: DefaultValidationOptions()}
}

// NewValidatorWithOptions creates a Validator with custom options. Zero date
// bounds are replaced by the defaults.
func NewValidatorWithOptions(options ValidationOptions) *Validator {
	defaults := DefaultValidationOptions()
	if options.EarliestDate.IsZero() {
		options.EarliestDate = defaults.EarliestDate
	}
	if options.LatestDate.IsZero() {
		options.LatestDate = defaults.LatestDate
	}
	return &Validator{options: options}
}

// =============================================================================
// MAIN VALIDATION FUNCTION
// =============================================================================

// ValidateAll validates all records and returns a detailed result.
func (v *Validator) ValidateAll(records []*types.Transaction) *ValidationResult {
	result := &ValidationResult{
		IsValid:          true,
		Errors:           make([]*ValidationError, 0),
		RecordsValidated: len(records),
	}

	for _, record := range records {
		for _, finding := range v.ValidateRecord(record) {
			result.Errors = append(result.Errors, finding)

			if finding.Severity == SeverityError {
				result.ErrorCount++
				result.IsValid = false

				if v.options.StopOnFirstError {
					return result
				}
			} else {
				result.WarningCount++

				if v.options.TreatWarningsAsErrors {
					result.IsValid = false
				}
			}
		}
	}

	return result
}

// ValidateRecord validates a single record.
func (v *Validator) ValidateRecord(t *types.Transaction) []*ValidationError {
	var findings []*ValidationError

	fail := func(severity, field, value, rule, message string) {
		findings = append(findings, &ValidationError{
			Severity:   severity,
			Field:      field,
			Value:      value,
			Rule:       rule,
			Message:    message,
			SourceFile: t.SourceFile,
			SourceLine: t.SourceLine,
		})
	}

	// =========================================================================
	// AMOUNT AND CURRENCY
	// =========================================================================

	if !t.Amount.IsPositive() {
		fail(SeverityError, "amount", t.Amount.String(), "positive_amount",
			"settlement amount must be positive; direction is carried by the record kind")
	}

	if money.GetCurrency(t.Currency) == nil {
		fail(SeverityError, "currency", t.Currency, "known_currency",
			"currency is not a known ISO 4217 code")
	}

	for _, unit := range t.Taxes {
		if money.GetCurrency(unit.Currency) == nil {
			fail(SeverityError, "taxes", unit.Currency, "known_currency",
				"tax unit currency is not a known ISO 4217 code")
		}
		if unit.Amount.IsNegative() {
			fail(SeverityWarning, "taxes", unit.Amount.String(), "non_negative_unit",
				"tax unit amount is negative")
		}
	}
	for _, unit := range t.Fees {
		if money.GetCurrency(unit.Currency) == nil {
			fail(SeverityError, "fees", unit.Currency, "known_currency",
				"fee unit currency is not a known ISO 4217 code")
		}
		if unit.Amount.IsNegative() {
			fail(SeverityWarning, "fees", unit.Amount.String(), "non_negative_unit",
				"fee unit amount is negative")
		}
	}

	// =========================================================================
	// DATE RANGE
	// =========================================================================

	if t.Date.IsZero() {
		// Trade confirmations without a Handelstag line legitimately carry
		// no date; the importer fills it from the file context.
		fail(SeverityWarning, "date", "", "date_present", "record has no booking date")
	} else if t.Date.Before(v.options.EarliestDate) || t.Date.After(v.options.LatestDate) {
		fail(SeverityError, "date", t.Date.Format("2006-01-02"), "date_range",
			fmt.Sprintf("booking date outside plausible range %s..%s",
				v.options.EarliestDate.Format("2006-01-02"),
				v.options.LatestDate.Format("2006-01-02")))
	}

	// =========================================================================
	// SECURITY
	// =========================================================================

	switch t.Kind {
	case types.KindBuy, types.KindSell, types.KindDividend:
		if t.Security == nil {
			fail(SeverityWarning, "security", "", "security_present",
				"security-level record carries no instrument reference")
		}
		if t.Shares.IsNegative() {
			fail(SeverityError, "shares", t.Shares.String(), "non_negative_shares",
				"share count must not be negative")
		}
	}

	if t.Security != nil && t.Security.ISIN != "" {
		if msg := CheckISIN(t.Security.ISIN); msg != "" {
			fail(SeverityError, "isin", t.Security.ISIN, "isin_checksum", msg)
		}
	}

	// =========================================================================
	// CURRENCY CONVERSION
	// =========================================================================

	if t.Conversion != nil {
		if money.GetCurrency(t.Conversion.ForeignCurrency) == nil {
			fail(SeverityError, "conversion", t.Conversion.ForeignCurrency, "known_currency",
				"conversion currency is not a known ISO 4217 code")
		}
		if !t.Conversion.Rate.IsPositive() {
			fail(SeverityError, "conversion", t.Conversion.Rate.String(), "positive_rate",
				"exchange rate must be positive")
		}
	}

	return findings
}

// =============================================================================
// ISIN CHECKSUM
// =============================================================================

// CheckISIN validates an ISIN's structure and Luhn check digit. It returns an
// empty string when valid, an error message otherwise.
func CheckISIN(isin string) string {
	if len(isin) != 12 {
		return fmt.Sprintf("ISIN must be 12 characters, got %d", len(isin))
	}

	// Expand letters to two-digit values (A=10 .. Z=35), then run the Luhn
	// algorithm over the resulting digit string including the check digit.
	var digits []int
	for i, r := range isin {
		switch {
		case r >= '0' && r <= '9':
			digits = append(digits, int(r-'0'))
		case r >= 'A' && r <= 'Z':
			value := int(r-'A') + 10
			digits = append(digits, value/10, value%10)
		default:
			return fmt.Sprintf("ISIN contains invalid character %q at position %d", r, i)
		}
	}

	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := digits[i]
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}

	if sum%10 != 0 {
		return "ISIN check digit mismatch"
	}
	return ""
}

// =============================================================================
// ERROR FORMATTING
// =============================================================================

// FormatErrors formats validation findings for display or logging.
func FormatErrors(errors []*ValidationError) string {
	if len(errors) == 0 {
		return "No validation errors."
	}

	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("Validation completed with %d finding(s):\n\n", len(errors)))

	for i, err := range errors {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, err.Error()))
	}

	return builder.String()
}

// WriteErrorLog writes validation findings to a log file next to the failed
// input, so operators can inspect what went wrong without the application
// log.
func WriteErrorLog(errors []*ValidationError, filePath string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create error log: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	fmt.Fprintf(writer, "# Validation findings, written %s\n\n", time.Now().Format(time.RFC3339))
	if _, err := writer.WriteString(FormatErrors(errors)); err != nil {
		return err
	}
	return writer.Flush()
}
