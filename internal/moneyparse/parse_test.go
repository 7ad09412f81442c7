// =============================================================================
// Statement Text Extractor - Locale Parsing Tests
// =============================================================================

package moneyparse

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// AMOUNT PARSING
// =============================================================================

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "2,84", "2.84"},
		{"thousands separator", "30.090,76", "30090.76"},
		{"apostrophe separator", "1'234,56", "1234.56"},
		{"interior blank", "5.0 02,84", "5002.84"},
		{"no fraction", "700", "700"},
		{"zero", "0,00", "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"got %s, want %s", got, tt.want)
		})
	}
}

func TestParseAmountMalformed(t *testing.T) {
	for _, input := range []string{"", "   ", "abc", "12,34,56"} {
		_, err := ParseAmount(input)
		require.Error(t, err, "input %q", input)

		var malformed *MalformedFieldError
		require.True(t, errors.As(err, &malformed))
		assert.Equal(t, "amount", malformed.Field)
		assert.Equal(t, input, malformed.Value)
	}
}

func TestParseShares(t *testing.T) {
	got, err := ParseShares("140,0000")
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("140")))

	_, err = ParseShares("ST")
	require.Error(t, err)

	var malformed *MalformedFieldError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, "share count", malformed.Field)
}

func TestParseRate(t *testing.T) {
	got, err := ParseRate("1,267300")
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("1.2673")))
}

// =============================================================================
// DATE PARSING
// =============================================================================

func TestParseDate(t *testing.T) {
	got, err := ParseDate("30.12.2016")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2016, 12, 30, 0, 0, 0, 0, time.UTC), got)
}

func TestParseDateWithInteriorBlank(t *testing.T) {
	// The PDF text layer occasionally rips a date apart.
	got, err := ParseDate("31.01.20 20")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2020, 1, 31, 0, 0, 0, 0, time.UTC), got)
}

func TestParseDateMalformed(t *testing.T) {
	for _, input := range []string{"", "2016-12-30", "32.01.2020", "30.12.16"} {
		_, err := ParseDate(input)
		require.Error(t, err, "input %q", input)

		var malformed *MalformedFieldError
		require.True(t, errors.As(err, &malformed))
		assert.Equal(t, "date", malformed.Field)
	}
}

func TestParseDateTime(t *testing.T) {
	got, err := ParseDateTime("30.12.2016", "12:46:28")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2016, 12, 30, 12, 46, 28, 0, time.UTC), got)

	_, err = ParseDateTime("30.12.2016", "12:46")
	assert.Error(t, err)
}

// =============================================================================
// CURRENCY CODES
// =============================================================================

func TestNormalizeCurrencyCode(t *testing.T) {
	for input, want := range map[string]string{
		"EUR":   "EUR",
		"usd":   "USD",
		" CHF ": "CHF",
	} {
		got, err := NormalizeCurrencyCode(input)
		require.NoError(t, err, "input %q", input)
		assert.Equal(t, want, got)
	}
}

func TestNormalizeCurrencyCodeUnknown(t *testing.T) {
	for _, input := range []string{"", "E", "ZZZ", "EURO"} {
		_, err := NormalizeCurrencyCode(input)
		require.Error(t, err, "input %q", input)

		var malformed *MalformedFieldError
		require.True(t, errors.As(err, &malformed))
		assert.Equal(t, "currency", malformed.Field)
	}
}

// =============================================================================
// TEXT HELPERS
// =============================================================================

func TestStripBlanksAndTrim(t *testing.T) {
	assert.Equal(t, "31.01.2020", StripBlanks("31.01.20 20"))
	assert.Equal(t, "abc", Trim("  abc "))
}
