// =============================================================================
// Statement Text Extractor - Ledger Writer Module
// =============================================================================
//
// This module writes extracted transaction records to the output ledger
// formats consumed by downstream accounting tools:
//   - CSV: one row per record, taxes and fees summed per row
//   - XLSX: the same table as a styled workbook for manual review
//
// ROW SHAPE:
//   Every record flattens to one row. Cross-currency records carry the
//   foreign amount, currency and rate in dedicated columns; single-currency
//   records leave them empty. Monetary amounts are rendered with the minor
//   unit of their ISO 4217 currency.
//
// =============================================================================

package ledgerwriter

import (
	"fmt"
	"os"

	"github.com/Rhymond/go-money"
	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/statement-text-extraction/internal/types"
)

// =============================================================================
// LEDGER ROW
// =============================================================================

// Row is the flattened ledger representation of one record.
type Row struct {
	Date            string `csv:"date"`
	Kind            string `csv:"type"`
	Amount          string `csv:"amount"`
	Currency        string `csv:"currency"`
	Shares          string `csv:"shares"`
	SecurityName    string `csv:"security_name"`
	ISIN            string `csv:"isin"`
	WKN             string `csv:"wkn"`
	TaxTotal        string `csv:"tax_total"`
	FeeTotal        string `csv:"fee_total"`
	ForeignAmount   string `csv:"foreign_amount"`
	ForeignCurrency string `csv:"foreign_currency"`
	ExchangeRate    string `csv:"exchange_rate"`
	Note            string `csv:"note"`
	SourceFile      string `csv:"source_file"`
	SourceLine      string `csv:"source_line"`
}

var headers = []string{
	"date", "type", "amount", "currency", "shares",
	"security_name", "isin", "wkn", "tax_total", "fee_total",
	"foreign_amount", "foreign_currency", "exchange_rate",
	"note", "source_file", "source_line",
}

// formatAmount renders a decimal with the minor-unit precision of its
// currency. Unknown currencies fall back to two places.
func formatAmount(amount decimal.Decimal, currency string) string {
	places := int32(2)
	if c := money.GetCurrency(currency); c != nil {
		places = int32(c.Fraction)
	}
	return amount.StringFixed(places)
}

// Rows flattens records into ledger rows, preserving order.
func Rows(records []*types.Transaction) []*Row {
	rows := make([]*Row, 0, len(records))
	for _, t := range records {
		row := &Row{
			Kind:       string(t.Kind),
			Amount:     formatAmount(t.Amount, t.Currency),
			Currency:   t.Currency,
			TaxTotal:   formatAmount(t.TaxTotal(t.Currency), t.Currency),
			FeeTotal:   formatAmount(t.FeeTotal(t.Currency), t.Currency),
			Note:       t.Note,
			SourceFile: t.SourceFile,
			SourceLine: fmt.Sprintf("%d", t.SourceLine),
		}
		if !t.Date.IsZero() {
			row.Date = t.Date.Format("2006-01-02")
		}
		if !t.Shares.IsZero() {
			row.Shares = t.Shares.String()
		}
		if t.Security != nil {
			row.SecurityName = t.Security.Name
			row.ISIN = t.Security.ISIN
			row.WKN = t.Security.WKN
		}
		if t.Conversion != nil {
			row.ForeignAmount = formatAmount(t.Conversion.ForeignAmount, t.Conversion.ForeignCurrency)
			row.ForeignCurrency = t.Conversion.ForeignCurrency
			row.ExchangeRate = t.Conversion.Rate.String()
		}
		rows = append(rows, row)
	}
	return rows
}

// =============================================================================
// CSV OUTPUT
// =============================================================================

// WriteCSV writes the records as a CSV ledger.
func WriteCSV(records []*types.Transaction, filePath string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create CSV ledger: %w", err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(Rows(records), file); err != nil {
		return fmt.Errorf("failed to write CSV ledger: %w", err)
	}
	return nil
}

// =============================================================================
// XLSX OUTPUT
// =============================================================================

const sheetName = "Transactions"

// WriteXLSX writes the records as an XLSX workbook with a bold, frozen
// header row.
func WriteXLSX(records []*types.Transaction, filePath string) error {
	workbook := excelize.NewFile()
	defer workbook.Close()

	if err := workbook.SetSheetName(workbook.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("failed to set sheet name: %w", err)
	}

	headerStyle, err := workbook.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := workbook.SetCellValue(sheetName, cell, header); err != nil {
			return err
		}
		if err := workbook.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return err
		}
	}

	for i, row := range Rows(records) {
		values := []interface{}{
			row.Date, row.Kind, row.Amount, row.Currency, row.Shares,
			row.SecurityName, row.ISIN, row.WKN, row.TaxTotal, row.FeeTotal,
			row.ForeignAmount, row.ForeignCurrency, row.ExchangeRate,
			row.Note, row.SourceFile, row.SourceLine,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := workbook.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := workbook.SetPanes(sheetName, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header row: %w", err)
	}

	if err := workbook.SaveAs(filePath); err != nil {
		return fmt.Errorf("failed to save XLSX ledger: %w", err)
	}
	return nil
}
