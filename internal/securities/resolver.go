// =============================================================================
// Statement Text Extractor - Security Resolver
// =============================================================================
//
// The resolver is the instrument-lookup boundary of the extractor. Rules hand
// it whatever identifying attributes a document printed (name, ISIN, WKN,
// quotation currency) and receive a stable reference back; two records for
// the same instrument within one run share one reference.
//
// The resolver deliberately knows nothing about persistence — a consumer that
// maintains a real security master can replace the identifiers during import.
//
// =============================================================================

package securities

import (
	"sync"

	"github.com/google/uuid"

	"github.com/ginjaninja78/statement-text-extraction/internal/types"
)

// Resolver deduplicates security references within one extraction run. It is
// safe for concurrent use; files processed in parallel share one instance.
type Resolver struct {
	mu    sync.Mutex
	byKey map[string]*types.SecurityRef
}

// NewResolver creates an empty resolver.
func NewResolver() *Resolver {
	return &Resolver{byKey: make(map[string]*types.SecurityRef)}
}

// ResolveOrCreate returns the reference for the given instrument attributes,
// creating and remembering a new one on first sight. The strongest available
// identifier wins: ISIN, then WKN, then the printed name.
func (r *Resolver) ResolveOrCreate(name, isin, wkn, currency string) *types.SecurityRef {
	key := isin
	if key == "" {
		key = wkn
	}
	if key == "" {
		key = name
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if ref, ok := r.byKey[key]; ok {
		// Backfill attributes a later document states more completely.
		if ref.Name == "" {
			ref.Name = name
		}
		if ref.ISIN == "" {
			ref.ISIN = isin
		}
		if ref.WKN == "" {
			ref.WKN = wkn
		}
		if ref.Currency == "" {
			ref.Currency = currency
		}
		return ref
	}

	ref := &types.SecurityRef{
		ID:       uuid.NewString(),
		Name:     name,
		ISIN:     isin,
		WKN:      wkn,
		Currency: currency,
	}
	r.byKey[key] = ref
	return ref
}

// Count returns the number of distinct instruments seen so far.
func (r *Resolver) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byKey)
}
