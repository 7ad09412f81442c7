// =============================================================================
// Statement Text Extractor - Ledger Writer Tests
// =============================================================================

package ledgerwriter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/statement-text-extraction/internal/types"
)

func sampleRecords() []*types.Transaction {
	return []*types.Transaction{
		{
			Kind:     types.KindDividend,
			Date:     time.Date(2019, 9, 16, 0, 0, 0, 0, time.UTC),
			Amount:   decimal.RequireFromString("124.5"),
			Currency: "EUR",
			Shares:   decimal.RequireFromString("700"),
			Security: &types.SecurityRef{
				ID:       "x",
				Name:     "HP Inc. Registered Shares DL -,01",
				ISIN:     "US4282361033",
				WKN:      "A140KD",
				Currency: "USD",
			},
			Conversion: &types.CurrencyConversion{
				ForeignAmount:   decimal.RequireFromString("163.08"),
				ForeignCurrency: "USD",
				Rate:            decimal.RequireFromString("1.3099"),
			},
			Taxes:      []types.MonetaryUnit{{Amount: decimal.RequireFromString("21.94"), Currency: "EUR"}},
			Fees:       []types.MonetaryUnit{{Amount: decimal.RequireFromString("4.9"), Currency: "EUR"}},
			Note:       "Referenz-Nr 12345678",
			SourceFile: "dividend.txt",
			SourceLine: 2,
		},
		{
			Kind:     types.KindDeposit,
			Date:     time.Date(2020, 1, 31, 0, 0, 0, 0, time.UTC),
			Amount:   decimal.RequireFromString("2.84"),
			Currency: "EUR",
			Note:     "Interne Buchung ABC123",
		},
	}
}

// =============================================================================
// ROW FLATTENING
// =============================================================================

func TestRowsFlattening(t *testing.T) {
	rows := Rows(sampleRecords())
	require.Len(t, rows, 2)

	dividend := rows[0]
	assert.Equal(t, "2019-09-16", dividend.Date)
	assert.Equal(t, "DIVIDEND", dividend.Kind)
	assert.Equal(t, "124.50", dividend.Amount, "amounts carry the currency's minor-unit precision")
	assert.Equal(t, "EUR", dividend.Currency)
	assert.Equal(t, "700", dividend.Shares)
	assert.Equal(t, "HP Inc. Registered Shares DL -,01", dividend.SecurityName)
	assert.Equal(t, "US4282361033", dividend.ISIN)
	assert.Equal(t, "A140KD", dividend.WKN)
	assert.Equal(t, "21.94", dividend.TaxTotal)
	assert.Equal(t, "4.90", dividend.FeeTotal)
	assert.Equal(t, "163.08", dividend.ForeignAmount)
	assert.Equal(t, "USD", dividend.ForeignCurrency)
	assert.Equal(t, "1.3099", dividend.ExchangeRate)
	assert.Equal(t, "dividend.txt", dividend.SourceFile)
	assert.Equal(t, "2", dividend.SourceLine)

	deposit := rows[1]
	assert.Equal(t, "DEPOSIT", deposit.Kind)
	assert.Empty(t, deposit.Shares, "zero share count renders empty, not 0")
	assert.Empty(t, deposit.SecurityName)
	assert.Empty(t, deposit.ForeignAmount)
	assert.Equal(t, "0.00", deposit.TaxTotal)
}

func TestRowsOmitDateWhenUnset(t *testing.T) {
	rows := Rows([]*types.Transaction{{
		Kind:     types.KindBuy,
		Amount:   decimal.RequireFromString("1"),
		Currency: "EUR",
	}})

	require.Len(t, rows, 1)
	assert.Empty(t, rows[0].Date)
}

func TestFormatAmountMinorUnits(t *testing.T) {
	assert.Equal(t, "124.50", formatAmount(decimal.RequireFromString("124.5"), "EUR"))
	assert.Equal(t, "163", formatAmount(decimal.RequireFromString("163.08").Round(0), "JPY"),
		"yen has no minor unit")
	assert.Equal(t, "1.23", formatAmount(decimal.RequireFromString("1.234"), "ZZZ"),
		"unknown currency falls back to two places")
}

// =============================================================================
// CSV OUTPUT
// =============================================================================

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.csv")

	require.NoError(t, WriteCSV(sampleRecords(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3, "header plus one line per record")
	assert.Equal(t, strings.Join(headers, ","), lines[0])
	assert.Contains(t, lines[1], "DIVIDEND")
	assert.Contains(t, lines[1], "US4282361033")
	assert.Contains(t, lines[2], "Interne Buchung ABC123")
}

func TestWriteCSVEmptyRecordSetStillWritesHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")

	require.NoError(t, WriteCSV(nil, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, strings.Join(headers, ","), strings.TrimSpace(string(data)))
}

// =============================================================================
// XLSX OUTPUT
// =============================================================================

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.xlsx")

	require.NoError(t, WriteXLSX(sampleRecords(), path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
