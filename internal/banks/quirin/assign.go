// =============================================================================
// Statement Text Extractor - Quirin Privatbank Assignments
// =============================================================================
//
// Assignment functions and the shared tax/fee section lists for the Quirin
// rule tables. Assignments only run after a section fully matched with all
// required captures bound, so they either succeed completely or fail the
// window attempt with a malformed-field error.
//
// =============================================================================

package quirin

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/statement-text-extraction/internal/engine"
	"github.com/ginjaninja78/statement-text-extraction/internal/moneyparse"
	"github.com/ginjaninja78/statement-text-extraction/internal/securities"
	"github.com/ginjaninja78/statement-text-extraction/internal/types"
)

// =============================================================================
// TRADE / DIVIDEND ASSIGNMENTS
// =============================================================================

// assignType flips the preset BUY to SELL when the qualifier line says
// "Verkauf".
func assignType(t *types.Transaction, v engine.Values, _ *engine.Context) error {
	if v["type"] == "Verkauf" {
		t.Kind = types.KindSell
	}
	return nil
}

// assignSecurity resolves the instrument via the shared resolver. The WKN
// capture is absent in format-02 layouts.
func assignSecurity(resolver *securities.Resolver) engine.AssignFunc {
	return func(t *types.Transaction, v engine.Values, _ *engine.Context) error {
		currency, err := moneyparse.NormalizeCurrencyCode(v["currency"])
		if err != nil {
			return err
		}
		t.Security = resolver.ResolveOrCreate(moneyparse.Trim(v["name"]), v["isin"], v["wkn"], currency)
		return nil
	}
}

func assignShares(t *types.Transaction, v engine.Values, _ *engine.Context) error {
	shares, err := moneyparse.ParseShares(v["shares"])
	if err != nil {
		return err
	}
	t.Shares = shares
	return nil
}

func assignDate(t *types.Transaction, v engine.Values, _ *engine.Context) error {
	date, err := moneyparse.ParseDate(v["date"])
	if err != nil {
		return err
	}
	t.Date = date
	return nil
}

func assignDateTime(t *types.Transaction, v engine.Values, _ *engine.Context) error {
	date, err := moneyparse.ParseDateTime(v["date"], v["time"])
	if err != nil {
		return err
	}
	t.Date = date
	return nil
}

// assignAmount sets the settlement amount and currency.
func assignAmount(t *types.Transaction, v engine.Values, _ *engine.Context) error {
	currency, err := moneyparse.NormalizeCurrencyCode(v["currency"])
	if err != nil {
		return err
	}
	amount, err := moneyparse.ParseAmount(v["amount"])
	if err != nil {
		return err
	}
	t.Currency = currency
	t.Amount = amount
	return nil
}

func assignNote(t *types.Transaction, v engine.Values, _ *engine.Context) error {
	t.Note = moneyparse.Trim(v["note"])
	return nil
}

// assignTaxDeduction subtracts a stated tax from the running settlement
// amount. Dividend format 02 prints the gross amount; net is reached by
// subtracting the tax lines. The tax unit itself is recorded by the shared
// tax sections matching the same lines.
func assignTaxDeduction(t *types.Transaction, v engine.Values, ctx *engine.Context) error {
	currency, err := moneyparse.NormalizeCurrencyCode(v["currency"])
	if err != nil {
		return err
	}
	tax, err := moneyparse.ParseAmount(v["tax"])
	if err != nil {
		return err
	}
	if currency != t.Currency {
		ctx.AddWarning("tax deduction in %s skipped on %s record", currency, t.Currency)
		return nil
	}
	t.Amount = t.Amount.Sub(tax)
	return nil
}

// =============================================================================
// CROSS-CURRENCY ASSIGNMENTS
// =============================================================================

// assignForeignGross handles the Kurswert/Bruttobetrag + Devisenkurs pair
// where the rate is quoted as foreign units per one local unit.
func assignForeignGross(t *types.Transaction, v engine.Values, ctx *engine.Context) error {
	localCurrency, err := moneyparse.NormalizeCurrencyCode(v["currency"])
	if err != nil {
		return err
	}
	foreignCurrency, err := moneyparse.NormalizeCurrencyCode(v["fxCurrency"])
	if err != nil {
		return err
	}
	rate, err := moneyparse.ParseRate(v["exchangeRate"])
	if err != nil {
		return err
	}
	gross, err := moneyparse.ParseAmount(v["gross"])
	if err != nil {
		return err
	}
	fxGross, err := moneyparse.ParseAmount(v["fxGross"])
	if err != nil {
		return err
	}

	ctx.SetExchangeRate(engine.ExchangeRate{
		BaseCurrency: localCurrency,
		TermCurrency: foreignCurrency,
		Rate:         rate,
	})
	moneyparse.ReconcileGross(t,
		types.MonetaryUnit{Amount: gross, Currency: localCurrency},
		types.MonetaryUnit{Amount: fxGross, Currency: foreignCurrency},
		ctx)
	return nil
}

// assignForeignGrossExplicitRate handles the Umrechnungskurs layout where the
// base/term currency pair is printed next to the rate.
func assignForeignGrossExplicitRate(t *types.Transaction, v engine.Values, ctx *engine.Context) error {
	baseCurrency, err := moneyparse.NormalizeCurrencyCode(v["baseCurrency"])
	if err != nil {
		return err
	}
	termCurrency, err := moneyparse.NormalizeCurrencyCode(v["termCurrency"])
	if err != nil {
		return err
	}
	grossCurrency, err := moneyparse.NormalizeCurrencyCode(v["grossCurrency"])
	if err != nil {
		return err
	}
	foreignCurrency, err := moneyparse.NormalizeCurrencyCode(v["fxCurrency"])
	if err != nil {
		return err
	}
	rate, err := moneyparse.ParseRate(v["exchangeRate"])
	if err != nil {
		return err
	}
	gross, err := moneyparse.ParseAmount(v["gross"])
	if err != nil {
		return err
	}
	fxGross, err := moneyparse.ParseAmount(v["fxGross"])
	if err != nil {
		return err
	}

	ctx.SetExchangeRate(engine.ExchangeRate{
		BaseCurrency: baseCurrency,
		TermCurrency: termCurrency,
		Rate:         rate,
	})
	moneyparse.ReconcileGross(t,
		types.MonetaryUnit{Amount: gross, Currency: grossCurrency},
		types.MonetaryUnit{Amount: fxGross, Currency: foreignCurrency},
		ctx)
	return nil
}

// =============================================================================
// ACCOUNT STATEMENT ASSIGNMENTS
// =============================================================================

// noteFrom composes the record note from the named captures in order,
// separated by single blanks.
func noteFrom(keys ...string) func(engine.Values) string {
	return func(v engine.Values) string {
		parts := make([]string, 0, len(keys))
		for _, key := range keys {
			if part := moneyparse.Trim(v[key]); part != "" {
				parts = append(parts, part)
			}
		}
		return strings.Join(parts, " ")
	}
}

// assignStatementEntry is the single assignment of every account-statement
// block: booking date, amount, currency and the composed note.
func assignStatementEntry(note func(engine.Values) string) engine.AssignFunc {
	return func(t *types.Transaction, v engine.Values, _ *engine.Context) error {
		date, err := moneyparse.ParseDate(v["date"])
		if err != nil {
			return err
		}
		currency, err := moneyparse.NormalizeCurrencyCode(v["currency"])
		if err != nil {
			return err
		}
		amount, err := moneyparse.ParseAmount(v["amount"])
		if err != nil {
			return err
		}
		t.Date = date
		t.Currency = currency
		t.Amount = amount
		t.Note = note(v)
		return nil
	}
}

// =============================================================================
// SHARED TAX SECTIONS
// =============================================================================
//
// Ausl. Quellensteuer -32,62 USD -24,90 EUR
// Kapitalertragsteuer EUR - 752,05
// Solidaritätszuschlag EUR - 41,36
// Kirchensteuer EUR - 1,00
// Verrechnungstopf Sonstige  0,00 EUR Steuerbetrag -144,33 EUR

func taxSections() []engine.Section {
	return []engine.Section{
		taxSection("withholding-tax",
			`^Ausl\. Quellensteuer .*-([\s])?(?P<tax>[\.,\d]+) (?P<currency>[\w]{3}).*$`,
			moneyparse.ApplyWithholdingTax),
		taxSection("capital-gains-tax",
			`^Kapitalertragsteuer (?P<currency>[\w]{3}) -([\s])?(?P<tax>[\.,\d]+)$`,
			moneyparse.ApplyTax),
		taxSection("solidarity-surcharge",
			`^Solidarit.tszuschlag (?P<currency>[\w]{3}) -([\s])?(?P<tax>[\.,\d]+)$`,
			moneyparse.ApplyTax),
		taxSection("church-tax",
			`^Kirchensteuer (?P<currency>[\w]{3}) -([\s])?(?P<tax>[\.,\d]+)$`,
			moneyparse.ApplyTax),
		taxSection("tax-amount",
			`^.* Steuerbetrag .*-([\s])?(?P<tax>[\.,\d]+) (?P<currency>[\w]{3})$`,
			moneyparse.ApplyTax),
	}
}

func taxSection(label, pattern string, apply func(*types.Transaction, decimal.Decimal, string)) engine.Section {
	return engine.Section{
		Label:    label,
		Optional: true,
		Matchers: []*engine.LineMatcher{engine.Line(pattern)},
		Required: []string{"tax", "currency"},
		Assign: func(t *types.Transaction, v engine.Values, _ *engine.Context) error {
			currency, err := moneyparse.NormalizeCurrencyCode(v["currency"])
			if err != nil {
				return err
			}
			tax, err := moneyparse.ParseAmount(v["tax"])
			if err != nil {
				return err
			}
			apply(t, tax, currency)
			return nil
		},
	}
}

// =============================================================================
// SHARED FEE SECTIONS
// =============================================================================
//
// Abwicklungsgebühren * EUR - 4,90
// Courtage * EUR 0,00
// Spesen * EUR 0,00
// Bank-Provision EUR 0,00
// Verwahrart Girosammel-Verwahrung Spesen * -0,69 EUR
// Lagerland CBL-Deutschland Abwickl.Gebühr * -0,04 EUR
// Lagerland USA Aktien/Renten Spesen * -20,00 USD -15,78 EUR
// Ausführungsplatz Xetra Courtage * -0,08 EUR
// Handelstag/-zeit 10.02.2010   17:08:23 Bank-Provision -0,02 EUR

func feeSections() []engine.Section {
	return []engine.Section{
		feeSection("settlement-fee",
			`^Abwicklungsgeb.hren \* (?P<currency>[\w]{3}) -([\s])?(?P<fee>[\.,'\d]+)$`),
		feeSection("brokerage",
			`^Courtage \* (?P<currency>[\w]{3}) -([\s])?(?P<fee>[\.,'\d]+)$`),
		feeSection("expenses",
			`^Spesen \* (?P<currency>[\w]{3}) -([\s])?(?P<fee>[\.,'\d]+)$`),
		feeSection("bank-commission",
			`^Bank-Provision (?P<currency>[\w]{3}) -([\s])?(?P<fee>[\.,'\d]+)$`),
		feeSection("custody-expenses",
			`^Verwahrart .* Spesen \* .*-([\s])?(?P<fee>[\.,\d]+) (?P<currency>[\w]{3})$`),
		feeSection("depository-fee",
			`^Lagerland .* Abwickl\.Geb.hr \* .*-([\s])?(?P<fee>[\.,\d]+) (?P<currency>[\w]{3})$`),
		feeSection("depository-expenses",
			`^Lagerland .* Spesen \* .*-([\s])?(?P<fee>[\.,\d]+) (?P<currency>[\w]{3})$`),
		feeSection("venue-brokerage",
			`^.* .* Courtage \* .*-([\s])?(?P<fee>[\.,\d]+) (?P<currency>[\w]{3})$`),
		feeSection("inline-bank-commission",
			`^.* Bank-Provision .*-([\s])?(?P<fee>[\.,\d]+) (?P<currency>[\w]{3})$`),
	}
}

func feeSection(label, pattern string) engine.Section {
	return engine.Section{
		Label:    label,
		Optional: true,
		Matchers: []*engine.LineMatcher{engine.Line(pattern)},
		Required: []string{"fee", "currency"},
		Assign: func(t *types.Transaction, v engine.Values, _ *engine.Context) error {
			currency, err := moneyparse.NormalizeCurrencyCode(v["currency"])
			if err != nil {
				return err
			}
			fee, err := moneyparse.ParseAmount(v["fee"])
			if err != nil {
				return err
			}
			moneyparse.ApplyFee(t, fee, currency)
			return nil
		},
	}
}
