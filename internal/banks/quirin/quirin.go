// =============================================================================
// Statement Text Extractor - Quirin Privatbank Rules
// =============================================================================
//
// Rule tables for documents issued by quirin bank AG / Quirin Privatbank AG.
// Five document layouts are covered, two of them in two historical format
// revisions:
//
//   - Wertpapierabrechnung    (trade confirmation, format 01)
//   - Abrechnungskonditionen  (trade confirmation, format 02)
//   - Erträgnisabrechnung     (dividend advice, format 01)
//   - Dividendenabrechnung    (dividend advice, format 02)
//   - Kontoauszug             (account statement: deposits, withdrawals,
//                              fees, fee refunds, taxes, tax refunds,
//                              interest)
//
// Everything in this file is static data: document types own blocks, blocks
// own builders, builders own ordered sections. Adding another layout revision
// means appending sections or blocks here — the engine stays untouched.
//
// =============================================================================

package quirin

import (
	"regexp"

	"github.com/ginjaninja78/statement-text-extraction/internal/engine"
	"github.com/ginjaninja78/statement-text-extraction/internal/securities"
	"github.com/ginjaninja78/statement-text-extraction/internal/types"
)

// Name identifies the bank in the rule registry.
const Name = "Quirin Privatbank AG"

// DocumentTypes returns the full rule set. The resolver is shared by all
// closures so securities are deduplicated across document types.
func DocumentTypes(resolver *securities.Resolver) []*engine.DocumentType {
	return []*engine.DocumentType{
		buySellFormat01(resolver),
		buySellFormat02(resolver),
		dividendFormat01(resolver),
		dividendFormat02(resolver),
		accountStatement(),
	}
}

// =============================================================================
// TRADE CONFIRMATION - FORMAT 01
// =============================================================================
//
// Wertpapierbezeichnung db x-tr.II Gl Sovereign ETF Inhaber-Anteile 1D EUR o.N.
// ISIN LU0690964092
// WKN DBX0MF
// Kurs EUR 214,899
// Nominal / Stück 140,0000 ST
// Handelstag / Zeit 30.12.2016 12:46:28
// Ausmachender Betrag EUR - 30.090,76
// Referenz-Nr 28522373

func buySellFormat01(resolver *securities.Resolver) *engine.DocumentType {
	builder := &engine.Builder{
		Subject: func() *types.Transaction {
			return &types.Transaction{Kind: types.KindBuy}
		},
		Sections: []engine.Section{
			{
				// "Verkauf" flips the preset BUY to SELL.
				Label:    "type",
				Optional: true,
				Matchers: []*engine.LineMatcher{
					engine.Line(`^(?P<type>(Kauf|Verkauf))$`),
				},
				Required: []string{"type"},
				Assign:   assignType,
			},
			{
				Label: "security",
				Matchers: []*engine.LineMatcher{
					engine.Line(`^Wertpapierbezeichnung (?P<name>.*)$`),
					engine.Line(`^ISIN (?P<isin>[A-Z]{2}[A-Z0-9]{9}[0-9])$`),
					engine.Line(`^WKN (?P<wkn>[A-Z0-9]{6})$`),
					engine.Line(`^Kurs (?P<currency>[\w]{3}) [\.,\d]+$`),
				},
				Required: []string{"name", "isin", "wkn", "currency"},
				Assign:   assignSecurity(resolver),
			},
			{
				Label: "shares",
				Matchers: []*engine.LineMatcher{
					engine.Line(`^Nominal / St.ck (?P<shares>[\.,\d]+) ST$`),
				},
				Required: []string{"shares"},
				Assign:   assignShares,
			},
			{
				Label:    "date",
				Optional: true,
				Matchers: []*engine.LineMatcher{
					engine.Line(`^Handelstag / Zeit (?P<date>[\d]{2}\.[\d]{2}\.[\d]{4}) (?P<time>[\d]{2}:[\d]{2}:[\d]{2})$`),
				},
				Required: []string{"date", "time"},
				Assign:   assignDateTime,
			},
			{
				Label: "amount",
				Matchers: []*engine.LineMatcher{
					engine.Line(`^Ausmachender Betrag (?P<currency>[\w]{3}) (- )?(?P<amount>[\.,\d]+)$`),
				},
				Required: []string{"currency", "amount"},
				Assign:   assignAmount,
			},
			{
				Label:    "note",
				Optional: true,
				Matchers: []*engine.LineMatcher{
					engine.Line(`^(?P<note>Referenz-Nr .*)$`),
				},
				Required: []string{"note"},
				Assign:   assignNote,
			},
		},
		Wrap: engine.WrapIfComplete,
	}
	builder.Sections = append(builder.Sections, taxSections()...)
	builder.Sections = append(builder.Sections, feeSections()...)

	return &engine.DocumentType{
		Name:   "Wertpapierabrechnung",
		Marker: regexp.MustCompile(`Wertpapierabrechnung`),
		Blocks: []*engine.Block{{
			Label: "buysell",
			Start: regexp.MustCompile(`^Wertpapierbezeichnung .*$`),
			// A bare "Kauf"/"Verkauf" qualifier line directly above the
			// anchor belongs to the window.
			LeadIn:  regexp.MustCompile(`^(Kauf|Verkauf)$`),
			Builder: builder,
		}},
	}
}

// =============================================================================
// TRADE CONFIRMATION - FORMAT 02
// =============================================================================
//
// Kauf
// Nominal/Stück Hewlett-Packard Co. Registered Shares DL -,01
// ST 150 ISIN US4282361033
// Kurs 39,99667 USD Kurswert -5.999,50 USD -4.734,08 EUR
// Handelstag/-zeit 23.11.2009   11:00:15 Bank-Provision  0,00 EUR
// Devisenkurs  1,267300
// Keine Steuerbescheinigung! Ausmachender Betrag  vor Steuern  1.261,61 EUR
// Referenz O:000409887:1

func buySellFormat02(resolver *securities.Resolver) *engine.DocumentType {
	builder := &engine.Builder{
		Subject: func() *types.Transaction {
			return &types.Transaction{Kind: types.KindBuy}
		},
		Sections: []engine.Section{
			{
				Label:    "type",
				Optional: true,
				Matchers: []*engine.LineMatcher{
					engine.Line(`^(?P<type>(Kauf|Verkauf))$`),
				},
				Required: []string{"type"},
				Assign:   assignType,
			},
			{
				Label: "security",
				Matchers: []*engine.LineMatcher{
					engine.Line(`^Nominal/St.ck (?P<name>.*)$`),
					engine.Line(`^ST [\.,\d]+ ISIN (?P<isin>[A-Z]{2}[A-Z0-9]{9}[0-9])$`),
					engine.Line(`^Kurs ([\s])?[\.,\d]+ (?P<currency>[\w]{3}) .*$`),
				},
				Required: []string{"name", "isin", "currency"},
				Assign:   assignSecurity(resolver),
			},
			{
				Label: "shares",
				Matchers: []*engine.LineMatcher{
					engine.Line(`^ST (?P<shares>[\.,\d]+) ISIN [A-Z]{2}[A-Z0-9]{9}[0-9]$`),
				},
				Required: []string{"shares"},
				Assign:   assignShares,
			},
			{
				// Three historical renderings of the trade timestamp.
				Label: "date",
				Alternatives: []engine.Section{
					{
						Label: "date:original-trade-day",
						Matchers: []*engine.LineMatcher{
							engine.Line(`^Urspr.ngl\. Handelstag (?P<date>[\d]{2}\.[\d]{2}\.[\d]{4}) .*(?P<time>[\d]{2}:[\d]{2}:[\d]{2})$`),
						},
						Required: []string{"date", "time"},
						Assign:   assignDateTime,
					},
					{
						Label: "date:trade-day-time",
						Matchers: []*engine.LineMatcher{
							engine.Line(`^Handelstag/-zeit (?P<date>[\d]{2}\.[\d]{2}\.[\d]{4}) .*(?P<time>[\d]{2}:[\d]{2}:[\d]{2}) .*$`),
						},
						Required: []string{"date", "time"},
						Assign:   assignDateTime,
					},
					{
						Label: "date:trade-day",
						Matchers: []*engine.LineMatcher{
							engine.Line(`^Handelstag/-zeit (?P<date>[\d]{2}\.[\d]{2}\.[\d]{4}) .*$`),
						},
						Required: []string{"date"},
						Assign:   assignDate,
					},
				},
			},
			{
				// The settlement amount appears either unsigned behind
				// arbitrary text or signed behind the value date sentence.
				Label: "amount",
				Alternatives: []engine.Section{
					{
						Label: "amount:unsigned",
						Matchers: []*engine.LineMatcher{
							engine.Line(`^.* Ausmachender Betrag .* (?P<amount>[\.,\d]+) (?P<currency>[\w]{3})$`),
						},
						Required: []string{"amount", "currency"},
						Assign:   assignAmount,
					},
					{
						Label: "amount:signed",
						Matchers: []*engine.LineMatcher{
							engine.Line(`^.* Ausmachender Betrag -(?P<amount>[\.,\d]+) (?P<currency>[\w]{3})$`),
						},
						Required: []string{"amount", "currency"},
						Assign:   assignAmount,
					},
				},
			},
			{
				Label:    "foreign-gross",
				Optional: true,
				Matchers: []*engine.LineMatcher{
					engine.Line(`^.* Kurswert ([-\s])?(?P<fxGross>[\.,\d]+) (?P<fxCurrency>[\w]{3}) ([-\s])?(?P<gross>[\.,\d]+) (?P<currency>[\w]{3}).*$`),
					engine.Line(`^Devisenkurs ([\s])?(?P<exchangeRate>[\.,\d]+).*$`),
				},
				Required: []string{"fxGross", "fxCurrency", "gross", "currency", "exchangeRate"},
				Assign:   assignForeignGross,
			},
			{
				Label:    "note",
				Optional: true,
				Matchers: []*engine.LineMatcher{
					engine.Line(`^(?P<note>Referenz .*)$`),
				},
				Required: []string{"note"},
				Assign:   assignNote,
			},
		},
		Wrap: engine.WrapIfComplete,
	}
	builder.Sections = append(builder.Sections, taxSections()...)
	builder.Sections = append(builder.Sections, feeSections()...)

	return &engine.DocumentType{
		Name:   "Abrechnungskonditionen",
		Marker: regexp.MustCompile(`Abrechnungskonditionen`),
		Blocks: []*engine.Block{{
			Label:   "buysell",
			Start:   regexp.MustCompile(`^(Kauf|Verkauf)$`),
			Builder: builder,
		}},
	}
}

// =============================================================================
// DIVIDEND ADVICE - FORMAT 01
// =============================================================================
//
// Für aus Ihrem Depot fällig gewordene Erträgnisse ...
// Wertpapierbezeichnung iShare.EURO STOXX UCITS ETF DE Inhaber-Anteile
// ISIN DE000A0D8Q07
// WKN A0D8Q0
// Ausschüttung EUR 0,60174 pro Anteil
// Nominal/Stück 700 ST
// Zahlungstag 16.09.2019
// Ausmachender Betrag EUR 343,46
// Referenz-Nr 28522373

func dividendFormat01(resolver *securities.Resolver) *engine.DocumentType {
	builder := &engine.Builder{
		Subject: func() *types.Transaction {
			return &types.Transaction{Kind: types.KindDividend}
		},
		Sections: []engine.Section{
			{
				Label:    "security",
				Optional: true,
				Matchers: []*engine.LineMatcher{
					engine.Line(`^Wertpapierbezeichnung (?P<name>.*)$`),
					engine.Line(`^ISIN (?P<isin>[A-Z]{2}[A-Z0-9]{9}[0-9])$`),
					engine.Line(`^WKN (?P<wkn>[A-Z0-9]{6})$`),
					engine.Line(`^Aussch.ttung (?P<currency>[\w]{3}) [\.,\d]+ .*$`),
				},
				Required: []string{"name", "isin", "wkn", "currency"},
				Assign:   assignSecurity(resolver),
			},
			{
				Label:    "shares",
				Optional: true,
				Matchers: []*engine.LineMatcher{
					engine.Line(`^Nominal/St.ck (?P<shares>[\.,\d]+) ST$`),
				},
				Required: []string{"shares"},
				Assign:   assignShares,
			},
			{
				Label: "date",
				Matchers: []*engine.LineMatcher{
					engine.Line(`^Zahlungstag (?P<date>[\d]{2}\.[\d]{2}\.[\d]{4})$`),
				},
				Required: []string{"date"},
				Assign:   assignDate,
			},
			{
				Label: "amount",
				Matchers: []*engine.LineMatcher{
					engine.Line(`^Ausmachender Betrag (?P<currency>[\w]{3}) (?P<amount>[\.,\d]+)$`),
				},
				Required: []string{"currency", "amount"},
				Assign:   assignAmount,
			},
			{
				// Umrechnungskurs: EUR/USD 1,3099
				// Bruttobetrag USD 163,08
				// Bruttobetrag EUR 124,50
				Label:    "foreign-gross",
				Optional: true,
				Matchers: []*engine.LineMatcher{
					engine.Line(`^(Umrechnungskurs|Exchange Rate): (?P<baseCurrency>[\w]{3})/(?P<termCurrency>[\w]{3}) (?P<exchangeRate>[\.,\d]+)$`),
					engine.Line(`^(Bruttobetrag|Gross Amount) (?P<fxCurrency>[\w]{3}) (?P<fxGross>[\.,\d]+)$`),
					engine.Line(`^(Bruttobetrag|Gross Amount) (?P<grossCurrency>[\w]{3}) (?P<gross>[\.,\d]+)$`),
				},
				Required: []string{"baseCurrency", "termCurrency", "exchangeRate", "fxCurrency", "fxGross", "grossCurrency", "gross"},
				Assign:   assignForeignGrossExplicitRate,
			},
			{
				Label:    "note",
				Optional: true,
				Matchers: []*engine.LineMatcher{
					engine.Line(`^(?P<note>Referenz-Nr .*)$`),
				},
				Required: []string{"note"},
				Assign:   assignNote,
			},
		},
		Wrap: engine.WrapIfComplete,
	}
	builder.Sections = append(builder.Sections, taxSections()...)
	builder.Sections = append(builder.Sections, feeSections()...)

	return &engine.DocumentType{
		Name:   "Erträgnisabrechnung",
		Marker: regexp.MustCompile(`Ertr.gnisabrechnung`),
		Blocks: []*engine.Block{{
			Label:   "dividend",
			Start:   regexp.MustCompile(`^F.r aus Ihrem Depot f.llig gewordene Ertr.gnisse .*$`),
			Builder: builder,
		}},
	}
}

// =============================================================================
// DIVIDEND ADVICE - FORMAT 02
// =============================================================================
//
// Dividendenabrechnung
// Nominal/Stück Siemens AG Namens-Aktien o.N.
// ST 52 ISIN DE0007236101
// Dividenden pro Stück  1,60000 EUR
// Zahlungstag 27.01.2010
// Dividenden für 01.01.2009-31.12.2009 Bruttobetrag  163,08 USD  124,50 EUR
// Devisenkurs  1,267300
// Referenz DZ:255990
//
// The settlement amount starts as the gross amount; the stated tax and
// withholding-tax lines are subtracted to reach the net amount.

func dividendFormat02(resolver *securities.Resolver) *engine.DocumentType {
	builder := &engine.Builder{
		Subject: func() *types.Transaction {
			return &types.Transaction{Kind: types.KindDividend}
		},
		Sections: []engine.Section{
			{
				Label: "security",
				Matchers: []*engine.LineMatcher{
					engine.Line(`^Nominal/St.ck (?P<name>.*)$`),
					engine.Line(`^ST [\.,\d]+ ISIN (?P<isin>[A-Z]{2}[A-Z0-9]{9}[0-9])$`),
					engine.Line(`^Dividenden pro St.ck ([\s])?[\.,\d]+ (?P<currency>[\w]{3})$`),
				},
				Required: []string{"name", "isin", "currency"},
				Assign:   assignSecurity(resolver),
			},
			{
				Label: "shares",
				Matchers: []*engine.LineMatcher{
					engine.Line(`^ST (?P<shares>[\.,\d]+) ISIN [A-Z]{2}[A-Z0-9]{9}[0-9]$`),
				},
				Required: []string{"shares"},
				Assign:   assignShares,
			},
			{
				Label: "date",
				Matchers: []*engine.LineMatcher{
					engine.Line(`^Zahlungstag (?P<date>[\d]{2}\.[\d]{2}\.[\d]{4}).*$`),
				},
				Required: []string{"date"},
				Assign:   assignDate,
			},
			{
				Label: "amount",
				Matchers: []*engine.LineMatcher{
					engine.Line(`^.* Bruttobetrag .* (?P<amount>[\.,\d]+) (?P<currency>[\w]{3})$`),
				},
				Required: []string{"amount", "currency"},
				Assign:   assignAmount,
			},
			{
				Label:    "tax-deduction",
				Optional: true,
				Matchers: []*engine.LineMatcher{
					engine.Line(`^.* Steuerbetrag .*-([\s])?(?P<tax>[\.,\d]+) (?P<currency>[\w]{3})$`),
				},
				Required: []string{"tax", "currency"},
				Assign:   assignTaxDeduction,
			},
			{
				Label:    "withholding-tax-deduction",
				Optional: true,
				Matchers: []*engine.LineMatcher{
					engine.Line(`^Ausl\. Quellensteuer .*-([\s])?(?P<tax>[\.,\d]+) (?P<currency>[\w]{3}).*$`),
				},
				Required: []string{"tax", "currency"},
				Assign:   assignTaxDeduction,
			},
			{
				Label:    "foreign-gross",
				Optional: true,
				Matchers: []*engine.LineMatcher{
					engine.Line(`^.* Bruttobetrag ([\s])?(?P<fxGross>[\.,\d]+) (?P<fxCurrency>[\w]{3}) ([\s])?(?P<gross>[\.,\d]+) (?P<currency>[\w]{3}).*$`),
					engine.Line(`^Devisenkurs ([\s])?(?P<exchangeRate>[\.,\d]+).*$`),
				},
				Required: []string{"fxGross", "fxCurrency", "gross", "currency", "exchangeRate"},
				Assign:   assignForeignGross,
			},
			{
				Label:    "note",
				Optional: true,
				Matchers: []*engine.LineMatcher{
					engine.Line(`^(?P<note>Referenz .*)$`),
				},
				Required: []string{"note"},
				Assign:   assignNote,
			},
		},
		Wrap: engine.WrapIfComplete,
	}
	builder.Sections = append(builder.Sections, taxSections()...)
	builder.Sections = append(builder.Sections, feeSections()...)

	return &engine.DocumentType{
		Name:   "Dividendenabrechnung",
		Marker: regexp.MustCompile(`Dividendenabrechnung`),
		Blocks: []*engine.Block{{
			Label:   "dividend",
			Start:   regexp.MustCompile(`^Dividendenabrechnung$`),
			Builder: builder,
		}},
	}
}

// =============================================================================
// ACCOUNT STATEMENT
// =============================================================================
//
// Kontoübertrag 1197537 28.05.2019 28.05.2019 3.000,00 EUR
// Sammelgutschrift 19.12.2019 19.12.2019 5.000,00 EUR
// Überweisungsgutschrift Inland 27.12.2019 27.12.2019 2.000,00 EUR
// Interne Buchung 31.01.2020 31.01.2020 2,84 EUR
// Rücküberweisung Inland 23.12.2019 19.12.2019 -5.002,84 EUR
// Steueroptimierung 12.06.2020 12.06.2020 36,82 EUR
// Vermögensverwaltungshonorar 31.08.2019 31.08.2019 -5,75 EUR
// Flatrate, Ref: KA-0139816662 30.06.2010 30.06.2010 -75,00 EUR
// Volumen Fee, Ref: KA-0139816664 30.06.2010 30.06.2010 -29,55 EUR
// Haben-Zinsen Kontoabschluss, Ref: KA-0139907281 30.06.2010 30.06.2010 4,61EUR
// Steuerbuchung Abgeltungsteuer, Ref: H-0139925023 30.06.2010 30.06.2010 -1,28 EUR
// Rückvergütung Bestandsprovision, Ref: KA-0144683460 30.07.2010 30.07.2010 2,03EUR

func accountStatement() *engine.DocumentType {
	return &engine.DocumentType{
		Name:   "Kontoauszug",
		Marker: regexp.MustCompile(`Kontoauszug`),
		Blocks: []*engine.Block{
			depositBlock(),
			removalBlock(),
			taxRefundBlock(),
			managementFeeBlock(),
			flatrateFeeBlock(),
			volumeFeeBlock(),
			interestBlock(),
			accountTaxBlock(),
			feeRefundBlock(),
		},
	}
}

func depositBlock() *engine.Block {
	return &engine.Block{
		Label:    "deposit",
		Start:    regexp.MustCompile(`^(Konto.bertrag [\d]+|Sammelgutschrift|Interne Buchung|.berweisungsgutschrift Inland) .* [\.,\d]+([\s])?[\w]{3}.*$`),
		MaxLines: 5,
		Builder: &engine.Builder{
			Subject: func() *types.Transaction {
				return &types.Transaction{Kind: types.KindDeposit}
			},
			Sections: []engine.Section{
				{
					Label: "entry",
					Matchers: []*engine.LineMatcher{
						engine.Line(`^(?P<note1>(Konto.bertrag [\d]+|Sammelgutschrift|Interne Buchung|.berweisungsgutschrift Inland)) [\d]{2}\.[\d]{2}\.[\d]{4} (?P<date>[\d]{2}\.[\d]{2}\.[\d\s]+) (?P<amount>[\.,\d]+)([\s])?(?P<currency>[\w]{3}).*$`),
						engine.Line(`^Ref\.: (?P<note2>.*)$`),
					},
					Required: []string{"note1", "note2", "date", "amount", "currency"},
					Assign:   assignStatementEntry(noteFrom("note1", "note2")),
				},
			},
			Wrap: engine.WrapIfComplete,
		},
	}
}

func removalBlock() *engine.Block {
	return &engine.Block{
		Label:    "removal",
		Start:    regexp.MustCompile(`^R.ck.berweisung Inland .* -[\.,\d]+([\s])?[\w]{3}.*$`),
		MaxLines: 5,
		Builder: &engine.Builder{
			Subject: func() *types.Transaction {
				return &types.Transaction{Kind: types.KindWithdrawal}
			},
			Sections: []engine.Section{
				{
					Label: "entry",
					Matchers: []*engine.LineMatcher{
						engine.Line(`^(?P<note1>R.ck.berweisung Inland) [\d]{2}\.[\d]{2}\.[\d]{4} (?P<date>[\d]{2}\.[\d]{2}\.[\d\s]+) -(?P<amount>[\.,\d]+)([\s])?(?P<currency>[\w]{3}).*$`),
						engine.Line(`^Ref\.: (?P<note2>.*)$`),
					},
					Required: []string{"note1", "note2", "date", "amount", "currency"},
					Assign:   assignStatementEntry(noteFrom("note1", "note2")),
				},
			},
			Wrap: engine.WrapIfComplete,
		},
	}
}

func taxRefundBlock() *engine.Block {
	return &engine.Block{
		Label:    "tax-refund",
		Start:    regexp.MustCompile(`^Steueroptimierung .* [\.,\d]+([\s])?[\w]{3}.*$`),
		MaxLines: 5,
		Builder: &engine.Builder{
			Subject: func() *types.Transaction {
				return &types.Transaction{Kind: types.KindTaxRefund}
			},
			Sections: []engine.Section{
				{
					Label: "entry",
					Matchers: []*engine.LineMatcher{
						engine.Line(`^(?P<note1>Steueroptimierung) [\d]{2}\.[\d]{2}\.[\d]{4} (?P<date>[\d]{2}\.[\d]{2}\.[\d\s]+) (?P<amount>[\.,\d]+)([\s])?(?P<currency>[\w]{3}).*$`),
						engine.Line(`^Ref\.: (?P<note2>.*)$`),
					},
					Required: []string{"note1", "note2", "date", "amount", "currency"},
					Assign:   assignStatementEntry(noteFrom("note1", "note2")),
				},
			},
			Wrap: engine.WrapIfComplete,
		},
	}
}

func managementFeeBlock() *engine.Block {
	return &engine.Block{
		Label:    "management-fee",
		Start:    regexp.MustCompile(`^Verm.gensverwaltungshonorar.* -[\.,\d]+([\s])?[\w]{3}.*$`),
		MaxLines: 5,
		Builder: &engine.Builder{
			Subject: func() *types.Transaction {
				return &types.Transaction{Kind: types.KindFee}
			},
			Sections: []engine.Section{
				{
					Label: "entry",
					Matchers: []*engine.LineMatcher{
						engine.Line(`^(?P<note1>Verm.gensverwaltungshonorar).* [\d]{2}\.[\d]{2}\.[\d]{4} (- )?(?P<date>[\d]{2}\.[\d]{2}\.[\d\s]+) -(?P<amount>[\.,\d]+)([\s])?(?P<currency>[\w]{3}).*$`),
						engine.Line(`^Ref\.: (?P<note2>.*)$`),
					},
					Required: []string{"note1", "note2", "date", "amount", "currency"},
					Assign:   assignStatementEntry(noteFrom("note1", "note2")),
				},
			},
			Wrap: engine.WrapIfComplete,
		},
	}
}

func flatrateFeeBlock() *engine.Block {
	return &engine.Block{
		Label:    "flatrate-fee",
		Start:    regexp.MustCompile(`^Flatrate, .* -[\.,\d]+ [\w]{3}.*$`),
		MaxLines: 5,
		Builder: &engine.Builder{
			Subject: func() *types.Transaction {
				return &types.Transaction{Kind: types.KindFee}
			},
			Sections: []engine.Section{
				{
					Label: "entry",
					Matchers: []*engine.LineMatcher{
						engine.Line(`^(?P<note1>Flatrate),( .*)? [\d]{2}\.[\d]{2}\.[\d]{4} (- )?(?P<date>[\d]{2}\.[\d]{2}\.[\d\s]+) -(?P<amount>[\.,\d]+)([\s])?(?P<currency>[\w]{3})$`),
						engine.Line(`^(?P<note2>Geb.hren [\d]{2}\.[\d]{2}\.[\d]{4} - [\d]{2}\.[\d]{2}\.[\d]{4}).*$`),
					},
					Required: []string{"note1", "note2", "date", "amount", "currency"},
					Assign:   assignStatementEntry(noteFrom("note1", "note2")),
				},
			},
			Wrap: engine.WrapIfComplete,
		},
	}
}

func volumeFeeBlock() *engine.Block {
	return &engine.Block{
		Label: "volume-fee",
		Start: regexp.MustCompile(`^Volumen Fee, .* -[\.,\d]+([\s])?[\w]{3}.*$`),
		Builder: &engine.Builder{
			Subject: func() *types.Transaction {
				return &types.Transaction{Kind: types.KindFee}
			},
			Sections: []engine.Section{
				{
					Label: "entry",
					Matchers: []*engine.LineMatcher{
						engine.Line(`^(?P<note1>Volumen Fee),( .*)? [\d]{2}\.[\d]{2}\.[\d]{4} (- )?(?P<date>[\d]{2}\.[\d]{2}\.[\d\s]+) ([\s])?-(?P<amount>[\.,\d]+)([\s])?(?P<currency>[\w]{3}).*$`),
						engine.Line(`^(?P<note2>Geb.hren).* (?P<note3>[\d]{2}\.[\d]{2}\.[\d]{4} - [\d]{2}\.[\d]{2}\.[\d]{4}).*$`),
					},
					Required: []string{"note1", "note2", "note3", "date", "amount", "currency"},
					Assign:   assignStatementEntry(noteFrom("note1", "note2", "note3")),
				},
			},
			Wrap: engine.WrapIfComplete,
		},
	}
}

func interestBlock() *engine.Block {
	return &engine.Block{
		Label: "interest",
		Start: regexp.MustCompile(`^Haben-Zinsen Kontoabschluss, .* ([\s])?[\.,\d]+([\s])?[\w]{3}.*$`),
		Builder: &engine.Builder{
			Subject: func() *types.Transaction {
				return &types.Transaction{Kind: types.KindInterest}
			},
			Sections: []engine.Section{
				{
					Label: "entry",
					Matchers: []*engine.LineMatcher{
						engine.Line(`^(?P<note1>Haben-Zinsen Kontoabschluss), (?P<note2>.*) [\d]{2}\.[\d]{2}\.[\d]{4} (- )?(?P<date>[\d]{2}\.[\d]{2}\.[\d\s]+) ([\s])?(?P<amount>[\.,\d]+)([\s])?(?P<currency>[\w]{3}).*$`),
					},
					Required: []string{"note1", "note2", "date", "amount", "currency"},
					Assign:   assignStatementEntry(noteFrom("note1", "note2")),
				},
			},
			Wrap: engine.WrapIfComplete,
		},
	}
}

func accountTaxBlock() *engine.Block {
	return &engine.Block{
		Label:    "account-tax",
		Start:    regexp.MustCompile(`^Steuerbuchung Abgeltungsteuer, .* -[\.,\d]+([\s])?[\w]{3}.*$`),
		MaxLines: 5,
		Builder: &engine.Builder{
			Subject: func() *types.Transaction {
				return &types.Transaction{Kind: types.KindTax}
			},
			Sections: []engine.Section{
				{
					// Only closing-tax bookings carry the follow-up line;
					// other Abgeltungsteuer bookings are handled elsewhere.
					Label:    "entry",
					Optional: true,
					Matchers: []*engine.LineMatcher{
						engine.Line(`^(?P<note1>Steuerbuchung Abgeltungsteuer), (?P<note2>.*) [\d]{2}\.[\d]{2}\.[\d]{4} (?P<date>[\d]{2}\.[\d]{2}\.[\d\s]+) ([\s])?-(?P<amount>[\.,\d]+)([\s])?(?P<currency>[\w]{3}).*$`),
						engine.Line(`^Steuern auf Kontoabschluss.*$`),
					},
					Required: []string{"note1", "note2", "date", "amount", "currency"},
					Assign:   assignStatementEntry(noteFrom("note1", "note2")),
				},
			},
			Wrap: engine.WrapIfComplete,
		},
	}
}

func feeRefundBlock() *engine.Block {
	return &engine.Block{
		Label:    "fee-refund",
		Start:    regexp.MustCompile(`^R.ckverg.tung Bestand.*, .* [\.,\d]+([\s])?[\w]{3}.*$`),
		MaxLines: 5,
		Builder: &engine.Builder{
			Subject: func() *types.Transaction {
				return &types.Transaction{Kind: types.KindFeeRefund}
			},
			Sections: []engine.Section{
				{
					Label: "entry",
					Matchers: []*engine.LineMatcher{
						engine.Line(`^R.ckverg.tung (?P<note1>Bestand.*), (?P<note2>.*) [\d]{2}\.[\d]{2}\.[\d]{4} (?P<date>[\d]{2}\.[\d]{2}\.[\d\s]+) ([\s])?(?P<amount>[\.,\d]+)([\s])?(?P<currency>[\w]{3}).*$`),
						engine.Line(`^Bestand (?P<note3>[A-Z]{2}[A-Z0-9]{9}[0-9]).*$`),
					},
					Required: []string{"note1", "note2", "note3", "date", "amount", "currency"},
					Assign:   assignStatementEntry(noteFrom("note1", "note3", "note2")),
				},
			},
			Wrap: engine.WrapIfComplete,
		},
	}
}
