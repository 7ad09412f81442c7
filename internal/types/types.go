// =============================================================================
// Statement Text Extractor - Shared Types
// =============================================================================
//
// This package contains the shared transaction model used across multiple
// modules to avoid import cycles. Types defined here are used by:
//   - engine
//   - banks
//   - validation
//   - ledgerwriter
//   - pipeline
//
// =============================================================================

package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// TRANSACTION KIND
// =============================================================================

// Kind identifies what sort of booking a transaction represents.
type Kind string

// The full set of record kinds the extractor can emit. Buy and sell records
// carry a security and a share count; the account-statement kinds usually
// carry only an amount, a date and a note.
const (
	KindBuy        Kind = "BUY"
	KindSell       Kind = "SELL"
	KindDividend   Kind = "DIVIDEND"
	KindDeposit    Kind = "DEPOSIT"
	KindWithdrawal Kind = "WITHDRAWAL"
	KindFee        Kind = "FEE"
	KindFeeRefund  Kind = "FEE_REFUND"
	KindTax        Kind = "TAX"
	KindTaxRefund  Kind = "TAX_REFUND"
	KindInterest   Kind = "INTEREST"
)

// =============================================================================
// SECURITY REFERENCE
// =============================================================================

// SecurityRef identifies the instrument a buy/sell/dividend record refers to.
// Instances are deduplicated and assigned a stable identifier by the
// securities resolver, so two records for the same ISIN share one reference.
type SecurityRef struct {
	// ID is a run-stable identifier assigned by the resolver.
	ID string

	// Name is the instrument name as printed on the document.
	Name string

	// ISIN is the international securities identification number, if present.
	ISIN string

	// WKN is the German Wertpapierkennnummer, if present.
	WKN string

	// Currency is the quotation currency of the instrument.
	Currency string
}

// =============================================================================
// CURRENCY CONVERSION ANNOTATION
// =============================================================================

// CurrencyConversion records the pairing of a transaction's local-currency
// amount with its foreign-currency equivalent and the exchange rate used.
type CurrencyConversion struct {
	// ForeignAmount is the gross amount stated in the foreign currency.
	ForeignAmount decimal.Decimal

	// ForeignCurrency is the ISO 4217 code of the foreign currency.
	ForeignCurrency string

	// Rate is the exchange rate between the local (base) and foreign (term)
	// currency as stated on the document.
	Rate decimal.Decimal
}

// =============================================================================
// MONETARY UNIT
// =============================================================================

// MonetaryUnit is a single tax or fee amount attached to a transaction.
type MonetaryUnit struct {
	Amount   decimal.Decimal
	Currency string
}

// =============================================================================
// TRANSACTION
// =============================================================================

// Transaction is both the record-under-construction inside the engine and the
// emitted item. Fields are filled incrementally by section assignments; the
// builder's wrap guard decides whether a filled instance becomes an item.
type Transaction struct {
	// Kind is the record kind. Builders preset it via their subject factory
	// and rules may flip it (e.g. Kauf -> Verkauf).
	Kind Kind

	// Date is the booking, trade or payment date. Trade confirmations with a
	// printed time carry it in this field as well.
	Date time.Time

	// Amount is the settlement amount in Currency. Always non-negative; the
	// Kind carries the direction.
	Amount decimal.Decimal

	// Currency is the ISO 4217 code of Amount. An empty currency marks an
	// incomplete record and is rejected by the wrap guard.
	Currency string

	// Shares is the traded or entitled share count, zero when not applicable.
	Shares decimal.Decimal

	// Security references the instrument, nil for cash-only records.
	Security *SecurityRef

	// Note is a free-text annotation composed from reference lines.
	Note string

	// Conversion is the currency-conversion annotation, nil for purely
	// domestic records.
	Conversion *CurrencyConversion

	// Taxes and Fees collect the per-record monetary units parsed from the
	// tax and fee sections.
	Taxes []MonetaryUnit
	Fees  []MonetaryUnit

	// SourceFile and SourceLine record where in the input the block that
	// produced this record started. Useful for troubleshooting rule drift.
	SourceFile string
	SourceLine int
}

// TaxTotal sums the tax units recorded in a single currency. Units in other
// currencies are skipped; mixed-currency totals are not meaningful.
func (t *Transaction) TaxTotal(currency string) decimal.Decimal {
	total := decimal.Zero
	for _, u := range t.Taxes {
		if u.Currency == currency {
			total = total.Add(u.Amount)
		}
	}
	return total
}

// FeeTotal sums the fee units recorded in a single currency.
func (t *Transaction) FeeTotal(currency string) decimal.Decimal {
	total := decimal.Zero
	for _, u := range t.Fees {
		if u.Currency == currency {
			total = total.Add(u.Amount)
		}
	}
	return total
}

// HasSecurity reports whether the record references an instrument.
func (t *Transaction) HasSecurity() bool {
	return t.Security != nil
}
