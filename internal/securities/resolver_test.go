// =============================================================================
// Statement Text Extractor - Security Resolver Tests
// =============================================================================

package securities

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveOrCreateDeduplicatesByISIN(t *testing.T) {
	r := NewResolver()

	first := r.ResolveOrCreate("Siemens AG Namens-Aktien o.N.", "DE0007236101", "723610", "EUR")
	second := r.ResolveOrCreate("Siemens AG", "DE0007236101", "", "EUR")

	assert.Same(t, first, second)
	assert.Equal(t, 1, r.Count())
	assert.NotEmpty(t, first.ID)
}

func TestResolveOrCreateISINBeatsWKNAndName(t *testing.T) {
	r := NewResolver()

	byISIN := r.ResolveOrCreate("Some Fund", "LU0690964092", "DBX0MF", "EUR")
	// Same WKN but no ISIN keys on the WKN, so this is a distinct entry.
	byWKN := r.ResolveOrCreate("Some Fund", "", "DBX0MF", "EUR")
	byName := r.ResolveOrCreate("Some Fund", "", "", "EUR")

	assert.NotSame(t, byISIN, byWKN)
	assert.NotSame(t, byWKN, byName)
	assert.Equal(t, 3, r.Count())
}

func TestResolveOrCreateBackfillsAttributes(t *testing.T) {
	r := NewResolver()

	sparse := r.ResolveOrCreate("", "DE0007236101", "", "")
	full := r.ResolveOrCreate("Siemens AG Namens-Aktien o.N.", "DE0007236101", "723610", "EUR")

	require.Same(t, sparse, full)
	assert.Equal(t, "Siemens AG Namens-Aktien o.N.", sparse.Name)
	assert.Equal(t, "723610", sparse.WKN)
	assert.Equal(t, "EUR", sparse.Currency)
}

func TestResolveOrCreateKeepsFirstSeenAttributes(t *testing.T) {
	r := NewResolver()

	first := r.ResolveOrCreate("Siemens AG Namens-Aktien o.N.", "DE0007236101", "723610", "EUR")
	r.ResolveOrCreate("Siemens Aktie", "DE0007236101", "999999", "USD")

	assert.Equal(t, "Siemens AG Namens-Aktien o.N.", first.Name)
	assert.Equal(t, "723610", first.WKN)
	assert.Equal(t, "EUR", first.Currency)
}

func TestResolverConcurrentUse(t *testing.T) {
	r := NewResolver()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.ResolveOrCreate("Siemens AG", "DE0007236101", "723610", "EUR")
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, r.Count())
}
