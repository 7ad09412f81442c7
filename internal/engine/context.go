// =============================================================================
// Statement Text Extractor - Shared Parse Context
// =============================================================================
//
// The Context carries mutable state across the sections and blocks of one
// document type while a single document is being parsed. The canonical use is
// the two-step cross-currency protocol: one section parses an exchange-rate
// line and stores the (base, term, rate) tuple here, and a later section (or
// the reconciliation helper) consumes it.
//
// LIFETIME:
//   One Context lives for exactly one (document, document type) pair. The
//   extractor creates a fresh Context per Extract call, so parallel
//   extractions never share state.
//
// =============================================================================

package engine

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// EXCHANGE RATE TUPLE
// =============================================================================

// ExchangeRate is the typed pending exchange-rate tuple stored in the Context.
// Rate is expressed as term-currency units per one base-currency unit.
type ExchangeRate struct {
	BaseCurrency string
	TermCurrency string
	Rate         decimal.Decimal
}

// =============================================================================
// CONTEXT
// =============================================================================

// Context is the per-document, per-document-type mutable key/value state.
// It is not safe for concurrent use; the engine only ever touches it from a
// single goroutine within one Extract call.
type Context struct {
	values   map[string]string
	rate     *ExchangeRate
	warnings []string
}

// NewContext creates an empty context.
func NewContext() *Context {
	return &Context{values: make(map[string]string)}
}

// Put stores a string value under a key. Later sections of the same document
// type can read it back with Get.
func (c *Context) Put(key, value string) {
	c.values[key] = value
}

// Get returns the value stored under key and whether it was present.
func (c *Context) Get(key string) (string, bool) {
	v, ok := c.values[key]
	return v, ok
}

// SetExchangeRate stores the pending exchange-rate tuple, replacing any
// previous one.
func (c *Context) SetExchangeRate(rate ExchangeRate) {
	r := rate
	c.rate = &r
}

// PendingExchangeRate returns the stored exchange-rate tuple, if any.
func (c *Context) PendingExchangeRate() (ExchangeRate, bool) {
	if c.rate == nil {
		return ExchangeRate{}, false
	}
	return *c.rate, true
}

// AddWarning records a recoverable data-quality finding. Warnings never abort
// extraction; the extractor surfaces them on the Result for logging.
func (c *Context) AddWarning(format string, args ...interface{}) {
	c.warnings = append(c.warnings, fmt.Sprintf(format, args...))
}

// Warnings returns the data-quality findings collected so far.
func (c *Context) Warnings() []string {
	return c.warnings
}

// Reset clears all state. The extractor calls this between documents when a
// context instance is reused.
func (c *Context) Reset() {
	c.values = make(map[string]string)
	c.rate = nil
	c.warnings = nil
}
