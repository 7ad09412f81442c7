// =============================================================================
// Statement Text Extractor - Quirin Privatbank Rule Tests
// =============================================================================
//
// End-to-end tests over the rule tables: each test feeds the text of one
// document through a fresh extractor and checks the emitted records. The
// document snippets follow the line layout of real Quirin documents.
//
// =============================================================================

package quirin

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/statement-text-extraction/internal/engine"
	"github.com/ginjaninja78/statement-text-extraction/internal/securities"
	"github.com/ginjaninja78/statement-text-extraction/internal/types"
)

func extract(t *testing.T, text string) *engine.Result {
	t.Helper()
	resolver := securities.NewResolver()
	extractor := engine.NewExtractor(DocumentTypes(resolver)...)
	return extractor.Extract(engine.NewDocument("test.txt", text))
}

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// =============================================================================
// TRADE CONFIRMATION - FORMAT 01
// =============================================================================

const tradeFormat01Buy = `Wertpapierabrechnung Nr. 28522373
Wertpapierbezeichnung db x-tr.II Gl Sovereign ETF Inhaber-Anteile 1D EUR o.N.
ISIN LU0690964092
WKN DBX0MF
Kurs EUR 214,899
Nominal / Stück 140,0000 ST
Handelstag / Zeit 30.12.2016 12:46:28
Ausmachender Betrag EUR - 30.090,76
Referenz-Nr 28522373
`

func TestTradeConfirmationFormat01Buy(t *testing.T) {
	result := extract(t, tradeFormat01Buy)

	require.Len(t, result.Items, 1)
	assert.Empty(t, result.Diagnostics)
	assert.Empty(t, result.Warnings)

	tr := result.Items[0]
	assert.Equal(t, types.KindBuy, tr.Kind)
	assert.True(t, tr.Amount.Equal(amount("30090.76")))
	assert.Equal(t, "EUR", tr.Currency)
	assert.True(t, tr.Shares.Equal(amount("140")))
	assert.Equal(t, time.Date(2016, 12, 30, 12, 46, 28, 0, time.UTC), tr.Date)
	assert.Equal(t, "Referenz-Nr 28522373", tr.Note)

	require.NotNil(t, tr.Security)
	assert.Equal(t, "db x-tr.II Gl Sovereign ETF Inhaber-Anteile 1D EUR o.N.", tr.Security.Name)
	assert.Equal(t, "LU0690964092", tr.Security.ISIN)
	assert.Equal(t, "DBX0MF", tr.Security.WKN)
	assert.Equal(t, "EUR", tr.Security.Currency)
	assert.NotEmpty(t, tr.Security.ID)
}

func TestTradeConfirmationFormat01SellViaLeadIn(t *testing.T) {
	// The bare qualifier line sits above the window anchor and is pulled in
	// by the lead-in rule.
	result := extract(t, `Wertpapierabrechnung Nr. 12345
Verkauf
Wertpapierbezeichnung iShares PLC-MSCI World UCITS ETF Registered Shares USD
ISIN IE00B0M62Q58
WKN A0HGV0
Kurs EUR 43,53
Nominal / Stück 1.000,0000 ST
Handelstag / Zeit 11.04.2017 12:46:28
Ausmachender Betrag EUR 42.736,08
Kapitalertragsteuer EUR - 752,05
Solidaritätszuschlag EUR - 41,36
Kirchensteuer EUR - 1,00
Abwicklungsgebühren * EUR - 4,90
Referenz-Nr 12345
`)

	require.Len(t, result.Items, 1)
	assert.Empty(t, result.Diagnostics)

	tr := result.Items[0]
	assert.Equal(t, types.KindSell, tr.Kind)
	assert.True(t, tr.Amount.Equal(amount("42736.08")))
	assert.True(t, tr.Shares.Equal(amount("1000")))
	assert.True(t, tr.TaxTotal("EUR").Equal(amount("794.41")),
		"capital gains tax, solidarity surcharge and church tax accumulate, got %s", tr.TaxTotal("EUR"))
	assert.True(t, tr.FeeTotal("EUR").Equal(amount("4.90")))
	require.NotNil(t, tr.Security)
	assert.Equal(t, "IE00B0M62Q58", tr.Security.ISIN)
}

func TestTradeConfirmationRecordsTaxAndFeeUnits(t *testing.T) {
	// Each matched deduction line records one (amount, currency) unit on the
	// record, in section order.
	result := extract(t, `Wertpapierabrechnung Nr. 555
Verkauf
Wertpapierbezeichnung iShares PLC-MSCI World UCITS ETF Registered Shares USD
ISIN IE00B0M62Q58
WKN A0HGV0
Kurs EUR 43,53
Nominal / Stück 100,0000 ST
Ausmachender Betrag EUR 4.353,00
Ausl. Quellensteuer -32,62 USD -24,90 EUR
Kapitalertragsteuer EUR - 752,05
Abwicklungsgebühren * EUR - 4,90
`)

	require.Len(t, result.Items, 1)
	tr := result.Items[0]

	require.Len(t, tr.Taxes, 2)
	assert.True(t, tr.Taxes[0].Amount.Equal(amount("24.90")))
	assert.Equal(t, "EUR", tr.Taxes[0].Currency)
	assert.True(t, tr.Taxes[1].Amount.Equal(amount("752.05")))
	assert.Equal(t, "EUR", tr.Taxes[1].Currency)

	require.Len(t, tr.Fees, 1)
	assert.True(t, tr.Fees[0].Amount.Equal(amount("4.90")))
	assert.Equal(t, "EUR", tr.Fees[0].Currency)
}

func TestTradeConfirmationFormat01WithoutDate(t *testing.T) {
	// The trade timestamp section is optional; a record without it is still
	// emitted and carries a zero date.
	result := extract(t, `Wertpapierabrechnung
Wertpapierbezeichnung db x-tr.II Gl Sovereign ETF Inhaber-Anteile 1D EUR o.N.
ISIN LU0690964092
WKN DBX0MF
Kurs EUR 214,899
Nominal / Stück 140,0000 ST
Ausmachender Betrag EUR - 30.090,76
`)

	require.Len(t, result.Items, 1)
	assert.True(t, result.Items[0].Date.IsZero())
}

// =============================================================================
// TRADE CONFIRMATION - FORMAT 02
// =============================================================================

func TestTradeConfirmationFormat02ForeignCurrency(t *testing.T) {
	result := extract(t, `Abrechnungskonditionen: Zeichnung
Kauf
Nominal/Stück Hewlett-Packard Co. Registered Shares DL -,01
ST 150 ISIN US4282361033
Kurs 39,99667 USD Kurswert -5.999,50 USD -4.734,08 EUR
Handelstag/-zeit 23.11.2009   11:00:15 Bank-Provision  0,00 EUR
Devisenkurs  1,267300
Keine Steuerbescheinigung! Ausmachender Betrag  vor Steuern  4.734,08 EUR
Referenz O:000409887:1
`)

	require.Len(t, result.Items, 1)
	assert.Empty(t, result.Diagnostics)
	assert.Empty(t, result.Warnings, "stated and rate-derived gross agree within tolerance")

	tr := result.Items[0]
	assert.Equal(t, types.KindBuy, tr.Kind)
	assert.True(t, tr.Amount.Equal(amount("4734.08")))
	assert.Equal(t, "EUR", tr.Currency)
	assert.True(t, tr.Shares.Equal(amount("150")))
	assert.Equal(t, time.Date(2009, 11, 23, 11, 0, 15, 0, time.UTC), tr.Date)
	assert.Equal(t, "Referenz O:000409887:1", tr.Note)

	require.NotNil(t, tr.Security)
	assert.Equal(t, "Hewlett-Packard Co. Registered Shares DL -,01", tr.Security.Name)
	assert.Equal(t, "US4282361033", tr.Security.ISIN)
	assert.Empty(t, tr.Security.WKN, "format 02 prints no WKN")
	assert.Equal(t, "USD", tr.Security.Currency)

	require.NotNil(t, tr.Conversion)
	assert.True(t, tr.Conversion.ForeignAmount.Equal(amount("5999.50")))
	assert.Equal(t, "USD", tr.Conversion.ForeignCurrency)
	assert.True(t, tr.Conversion.Rate.Equal(amount("1.2673")))
}

func TestTradeConfirmationFormat02SignedAmountAlternative(t *testing.T) {
	// Domestic sell variant: no Kurswert/Devisenkurs pair, the settlement
	// amount is printed with a sign behind the value date sentence.
	result := extract(t, `Abrechnungskonditionen
Verkauf
Nominal/Stück Siemens AG Namens-Aktien o.N.
ST 52 ISIN DE0007236101
Kurs 88,20000 EUR Bank-Provision  0,00 EUR
Handelstag/-zeit 10.02.2010   17:08:23 Courtage  0,00 EUR
Valuta 12.02.2010 Ausmachender Betrag -4.586,40 EUR
`)

	require.Len(t, result.Items, 1)
	assert.Empty(t, result.Diagnostics)

	tr := result.Items[0]
	assert.Equal(t, types.KindSell, tr.Kind)
	assert.True(t, tr.Amount.Equal(amount("4586.40")))
	assert.Equal(t, time.Date(2010, 2, 10, 17, 8, 23, 0, time.UTC), tr.Date)
	assert.Nil(t, tr.Conversion)
}

// =============================================================================
// DIVIDEND ADVICE - FORMAT 01
// =============================================================================

const dividendFormat01Foreign = `Erträgnisabrechnung Nr. 12345678
Für aus Ihrem Depot fällig gewordene Erträgnisse Gutschrift
Wertpapierbezeichnung HP Inc. Registered Shares DL -,01
ISIN US4282361033
WKN A140KD
Ausschüttung USD 0,23300 pro Anteil
Nominal/Stück 700 ST
Zahlungstag 16.09.2019
Ausmachender Betrag EUR 124,50
Umrechnungskurs: EUR/USD 1,3099
Bruttobetrag USD 163,08
Bruttobetrag EUR 124,50
Referenz-Nr 12345678
`

func TestDividendFormat01ForeignGross(t *testing.T) {
	result := extract(t, dividendFormat01Foreign)

	require.Len(t, result.Items, 1)
	assert.Empty(t, result.Diagnostics)
	assert.Empty(t, result.Warnings)

	tr := result.Items[0]
	assert.Equal(t, types.KindDividend, tr.Kind)
	assert.True(t, tr.Amount.Equal(amount("124.50")))
	assert.Equal(t, "EUR", tr.Currency)
	assert.True(t, tr.Shares.Equal(amount("700")))
	assert.Equal(t, time.Date(2019, 9, 16, 0, 0, 0, 0, time.UTC), tr.Date)

	require.NotNil(t, tr.Security)
	assert.Equal(t, "US4282361033", tr.Security.ISIN)
	assert.Equal(t, "A140KD", tr.Security.WKN)
	assert.Equal(t, "USD", tr.Security.Currency)

	require.NotNil(t, tr.Conversion)
	assert.True(t, tr.Conversion.ForeignAmount.Equal(amount("163.08")))
	assert.Equal(t, "USD", tr.Conversion.ForeignCurrency)
	assert.True(t, tr.Conversion.Rate.Equal(amount("1.3099")))
}

func TestDividendFormat01GrossMismatchWarns(t *testing.T) {
	// The stated local gross disagrees with foreign gross / rate by more
	// than a cent: a data-quality warning, not a failure.
	result := extract(t, `Erträgnisabrechnung
Für aus Ihrem Depot fällig gewordene Erträgnisse Gutschrift
Zahlungstag 16.09.2019
Ausmachender Betrag EUR 120,00
Umrechnungskurs: EUR/USD 1,3099
Bruttobetrag USD 163,08
Bruttobetrag EUR 120,00
`)

	require.Len(t, result.Items, 1)
	require.NotNil(t, result.Items[0].Conversion)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "gross mismatch")
}

// =============================================================================
// DIVIDEND ADVICE - FORMAT 02
// =============================================================================

func TestDividendFormat02TaxDeduction(t *testing.T) {
	result := extract(t, `Dividendenabrechnung
Nominal/Stück Siemens AG Namens-Aktien o.N.
ST 52 ISIN DE0007236101
Dividenden pro Stück  1,60000 EUR
Zahlungstag 27.01.2010
Dividenden für 01.01.2009-31.12.2009 Bruttobetrag  83,20 EUR
Verrechnungstopf Sonstige  0,00 EUR Steuerbetrag -21,94 EUR
Referenz DZ:255990
`)

	require.Len(t, result.Items, 1)
	assert.Empty(t, result.Diagnostics)

	tr := result.Items[0]
	assert.Equal(t, types.KindDividend, tr.Kind)
	// The printed gross minus the stated tax is the net settlement amount.
	assert.True(t, tr.Amount.Equal(amount("61.26")), "got %s", tr.Amount)
	assert.Equal(t, "EUR", tr.Currency)
	assert.True(t, tr.Shares.Equal(amount("52")))
	assert.Equal(t, time.Date(2010, 1, 27, 0, 0, 0, 0, time.UTC), tr.Date)
	assert.Equal(t, "Referenz DZ:255990", tr.Note)

	// The tax is recorded once as a unit, not double-counted.
	require.Len(t, tr.Taxes, 1)
	assert.True(t, tr.TaxTotal("EUR").Equal(amount("21.94")))

	require.NotNil(t, tr.Security)
	assert.Equal(t, "DE0007236101", tr.Security.ISIN)
}

func TestDividendFormat02ForeignGross(t *testing.T) {
	result := extract(t, `Dividendenabrechnung
Nominal/Stück Kellogg Co. Registered Shares DL -,25
ST 90 ISIN US4878361082
Dividenden pro Stück  0,52500 USD
Zahlungstag 15.06.2015
Dividenden für 01.03.2015-31.05.2015 Bruttobetrag  47,25 USD  42,24 EUR
Devisenkurs  1,118700
Referenz DZ:302235
`)

	require.Len(t, result.Items, 1)
	assert.Empty(t, result.Warnings)

	tr := result.Items[0]
	assert.True(t, tr.Amount.Equal(amount("42.24")))
	assert.Equal(t, "EUR", tr.Currency)

	require.NotNil(t, tr.Conversion)
	assert.True(t, tr.Conversion.ForeignAmount.Equal(amount("47.25")))
	assert.Equal(t, "USD", tr.Conversion.ForeignCurrency)
	assert.True(t, tr.Conversion.Rate.Equal(amount("1.1187")))
}

// =============================================================================
// ACCOUNT STATEMENT
// =============================================================================

func TestAccountStatementEntries(t *testing.T) {
	result := extract(t, `Kontoauszug Nr. 1 per 31.12.2020
Interne Buchung 31.01.2020 31.01.2020 2,84 EUR
Ref.: ABC123
Rücküberweisung Inland 23.12.2019 19.12.2019 -5.002,84 EUR
Ref.: Rücküberweisung freier Betrag
Steueroptimierung 12.06.2020 12.06.2020 36,82 EUR
Ref.: Steueroptimierung 2020
Vermögensverwaltungshonorar 31.08.2019 31.08.2019 -5,75 EUR
Ref.: 1497186
Haben-Zinsen Kontoabschluss, Ref: KA-0139907281 30.06.2010 30.06.2010 4,61EUR
Rückvergütung Bestandsprovision, Ref: KA-0144683460 30.07.2010 30.07.2010 2,03EUR
Bestand DE0008474503 Zeitraum 01.04.2010 - 30.06.2010
`)

	require.Len(t, result.Items, 6)
	assert.Empty(t, result.Diagnostics)

	deposit := result.Items[0]
	assert.Equal(t, types.KindDeposit, deposit.Kind)
	assert.True(t, deposit.Amount.Equal(amount("2.84")))
	assert.Equal(t, "EUR", deposit.Currency)
	assert.Equal(t, time.Date(2020, 1, 31, 0, 0, 0, 0, time.UTC), deposit.Date)
	assert.Equal(t, "Interne Buchung ABC123", deposit.Note)

	withdrawal := result.Items[1]
	assert.Equal(t, types.KindWithdrawal, withdrawal.Kind)
	assert.True(t, withdrawal.Amount.Equal(amount("5002.84")))
	assert.Equal(t, time.Date(2019, 12, 19, 0, 0, 0, 0, time.UTC), withdrawal.Date,
		"the second printed date is the value date")
	assert.Equal(t, "Rücküberweisung Inland Rücküberweisung freier Betrag", withdrawal.Note)

	taxRefund := result.Items[2]
	assert.Equal(t, types.KindTaxRefund, taxRefund.Kind)
	assert.True(t, taxRefund.Amount.Equal(amount("36.82")))
	assert.Equal(t, "Steueroptimierung Steueroptimierung 2020", taxRefund.Note)

	fee := result.Items[3]
	assert.Equal(t, types.KindFee, fee.Kind)
	assert.True(t, fee.Amount.Equal(amount("5.75")))
	assert.Equal(t, "Vermögensverwaltungshonorar 1497186", fee.Note)

	interest := result.Items[4]
	assert.Equal(t, types.KindInterest, interest.Kind)
	assert.True(t, interest.Amount.Equal(amount("4.61")), "amount glued to currency parses")
	assert.Equal(t, "Haben-Zinsen Kontoabschluss Ref: KA-0139907281", interest.Note)

	feeRefund := result.Items[5]
	assert.Equal(t, types.KindFeeRefund, feeRefund.Kind)
	assert.True(t, feeRefund.Amount.Equal(amount("2.03")))
	assert.Equal(t, time.Date(2010, 7, 30, 0, 0, 0, 0, time.UTC), feeRefund.Date)
	assert.Equal(t, "Bestandsprovision DE0008474503 Ref: KA-0144683460", feeRefund.Note)
}

func TestAccountStatementDepositVariants(t *testing.T) {
	result := extract(t, `Kontoauszug Nr. 2
Kontoübertrag 1197537 28.05.2019 28.05.2019 3.000,00 EUR
Ref.: 1234567
Sammelgutschrift 19.12.2019 19.12.2019 5.000,00 EUR
Ref.: 7654321
Überweisungsgutschrift Inland 27.12.2019 27.12.2019 2.000,00 EUR
Ref.: 1111111
`)

	require.Len(t, result.Items, 3)
	for _, tr := range result.Items {
		assert.Equal(t, types.KindDeposit, tr.Kind)
		assert.Equal(t, "EUR", tr.Currency)
	}
	assert.True(t, result.Items[0].Amount.Equal(amount("3000")))
	assert.Equal(t, "Kontoübertrag 1197537 1234567", result.Items[0].Note)
	assert.True(t, result.Items[1].Amount.Equal(amount("5000")))
	assert.True(t, result.Items[2].Amount.Equal(amount("2000")))
}

func TestAccountStatementSplitDateParses(t *testing.T) {
	// The PDF text layer sometimes rips the value date apart.
	result := extract(t, `Kontoauszug Nr. 3
Interne Buchung 31.01.2020 31.01.20 20 2,84 EUR
Ref.: ABC123
`)

	require.Len(t, result.Items, 1)
	assert.Equal(t, time.Date(2020, 1, 31, 0, 0, 0, 0, time.UTC), result.Items[0].Date)
}

func TestAccountStatementPeriodFees(t *testing.T) {
	result := extract(t, `Kontoauszug Nr. 4
Flatrate, Ref: KA-0139816662 30.06.2010 30.06.2010 -75,00 EUR
Gebühren 01.04.2010 - 30.06.2010
Volumen Fee, Ref: KA-0139816664 30.06.2010 30.06.2010 -29,55 EUR
Gebühren aus Vermögensverwaltung 01.04.2010 - 30.06.2010
`)

	require.Len(t, result.Items, 2)
	assert.Empty(t, result.Diagnostics)

	flatrate := result.Items[0]
	assert.Equal(t, types.KindFee, flatrate.Kind)
	assert.True(t, flatrate.Amount.Equal(amount("75.00")))
	assert.Equal(t, "Flatrate Gebühren 01.04.2010 - 30.06.2010", flatrate.Note)

	volume := result.Items[1]
	assert.Equal(t, types.KindFee, volume.Kind)
	assert.True(t, volume.Amount.Equal(amount("29.55")))
	assert.Equal(t, "Volumen Fee Gebühren 01.04.2010 - 30.06.2010", volume.Note)
}

func TestAccountStatementClosingTaxRequiresFollowUpLine(t *testing.T) {
	// With the follow-up line the booking is a closing tax record.
	result := extract(t, `Kontoauszug Nr. 5
Steuerbuchung Abgeltungsteuer, Ref: H-0139925023 30.06.2010 30.06.2010 -1,28 EUR
Steuern auf Kontoabschluss per 30.06.2010
`)

	require.Len(t, result.Items, 1)
	tr := result.Items[0]
	assert.Equal(t, types.KindTax, tr.Kind)
	assert.True(t, tr.Amount.Equal(amount("1.28")))
	assert.Equal(t, "Steuerbuchung Abgeltungsteuer Ref: H-0139925023", tr.Note)
}

func TestAccountStatementTaxBookingWithoutFollowUpIsDiscarded(t *testing.T) {
	// Without the follow-up line the window matches but the optional entry
	// section stays silent; the guard drops the empty record without noise.
	result := extract(t, `Kontoauszug Nr. 6
Steuerbuchung Abgeltungsteuer, Ref: H-0139925023 30.06.2010 30.06.2010 -1,28 EUR
Sonstige Buchung
`)

	assert.Empty(t, result.Items)
	assert.Empty(t, result.Diagnostics)
}

// =============================================================================
// DOCUMENT-LEVEL BEHAVIOUR
// =============================================================================

func TestUnrelatedDocumentYieldsNothing(t *testing.T) {
	result := extract(t, "Depotauszug per 31.12.2020\nBestand 100 ST\n")

	assert.Empty(t, result.Items)
	assert.Empty(t, result.Diagnostics)
}

func TestResolverDeduplicatesAcrossDocuments(t *testing.T) {
	resolver := securities.NewResolver()
	extractor := engine.NewExtractor(DocumentTypes(resolver)...)

	first := extractor.Extract(engine.NewDocument("a.txt", tradeFormat01Buy))
	second := extractor.Extract(engine.NewDocument("b.txt", tradeFormat01Buy))

	require.Len(t, first.Items, 1)
	require.Len(t, second.Items, 1)
	assert.Same(t, first.Items[0].Security, second.Items[0].Security)
	assert.Equal(t, 1, resolver.Count())
}

func TestDocumentTypesCoverAllLayouts(t *testing.T) {
	names := make([]string, 0, 5)
	for _, dt := range DocumentTypes(securities.NewResolver()) {
		names = append(names, dt.Name)
	}
	assert.Equal(t, []string{
		"Wertpapierabrechnung",
		"Abrechnungskonditionen",
		"Erträgnisabrechnung",
		"Dividendenabrechnung",
		"Kontoauszug",
	}, names)
}
