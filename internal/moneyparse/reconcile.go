// =============================================================================
// Statement Text Extractor - Cross-Currency Reconciliation
// =============================================================================
//
// Multi-currency documents state a gross amount twice: once in the foreign
// currency and once converted to the local currency, together with the
// exchange rate used. The reconciliation protocol has two steps:
//
//   1. The section that captures the three figures stores the
//      (base, term, rate) tuple into the shared context.
//   2. ReconcileGross compares the stated local gross against the
//      rate-derived local gross and attaches the conversion annotation to
//      the record.
//
// TOLERANCE:
//   Rate-derived and directly-stated amounts legitimately differ by rounding.
//   The delta is accepted up to an absolute tolerance in local-currency units
//   (default 0.01, i.e. one cent); a larger delta is surfaced as a
//   data-quality warning for manual review, never silently accepted and
//   never a reason to abort extraction.
//
// =============================================================================

package moneyparse

import (
	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/statement-text-extraction/internal/engine"
	"github.com/ginjaninja78/statement-text-extraction/internal/types"
)

// grossTolerance is the absolute reconciliation tolerance in local-currency
// units. Set once at startup from configuration, read-only afterwards.
var grossTolerance = decimal.New(1, -2)

// SetGrossTolerance overrides the reconciliation tolerance. Must be called
// before extraction starts; the value is not synchronized.
func SetGrossTolerance(tolerance decimal.Decimal) {
	if tolerance.IsPositive() {
		grossTolerance = tolerance
	}
}

// GrossTolerance returns the active reconciliation tolerance.
func GrossTolerance() decimal.Decimal {
	return grossTolerance
}

// ReconcileGross compares the stated local gross against the foreign gross
// divided by the pending exchange rate and attaches the conversion
// annotation to the record. The pending (base, term, rate) tuple must have
// been stored into the context by the capturing section beforehand.
//
// A delta beyond the tolerance adds a data-quality warning to the context;
// the annotation is still attached because the stated local amount remains
// the canonical figure.
func ReconcileGross(t *types.Transaction, gross, fxGross types.MonetaryUnit, ctx *engine.Context) {
	rate, ok := ctx.PendingExchangeRate()
	if !ok {
		ctx.AddWarning("gross reconciliation skipped: no pending exchange rate for %s/%s",
			gross.Currency, fxGross.Currency)
		return
	}

	t.Conversion = &types.CurrencyConversion{
		ForeignAmount:   fxGross.Amount,
		ForeignCurrency: fxGross.Currency,
		Rate:            rate.Rate,
	}

	if rate.Rate.IsZero() {
		ctx.AddWarning("gross reconciliation skipped: zero exchange rate %s/%s",
			rate.BaseCurrency, rate.TermCurrency)
		return
	}

	derived := fxGross.Amount.DivRound(rate.Rate, 8)
	delta := derived.Sub(gross.Amount).Abs()
	if delta.GreaterThan(grossTolerance) {
		ctx.AddWarning("gross mismatch: stated %s %s vs. %s %s / %s = %s %s (delta %s beyond tolerance %s)",
			gross.Amount, gross.Currency,
			fxGross.Amount, fxGross.Currency, rate.Rate,
			derived.Round(2), gross.Currency,
			delta, grossTolerance)
	}
}

// =============================================================================
// PER-RECORD MONETARY ACCUMULATION
// =============================================================================

// ApplyTax attaches a tax unit to the record. Bookkeeping of net vs. gross
// stays with the record kind's own rules; this function only records the
// well-typed (amount, currency) pair.
func ApplyTax(t *types.Transaction, amount decimal.Decimal, currency string) {
	t.Taxes = append(t.Taxes, types.MonetaryUnit{Amount: amount, Currency: currency})
}

// ApplyWithholdingTax attaches a foreign withholding-tax unit to the record.
func ApplyWithholdingTax(t *types.Transaction, amount decimal.Decimal, currency string) {
	t.Taxes = append(t.Taxes, types.MonetaryUnit{Amount: amount, Currency: currency})
}

// ApplyFee attaches a fee unit to the record.
func ApplyFee(t *types.Transaction, amount decimal.Decimal, currency string) {
	t.Fees = append(t.Fees, types.MonetaryUnit{Amount: amount, Currency: currency})
}
