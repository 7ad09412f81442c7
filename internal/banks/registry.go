// =============================================================================
// Statement Text Extractor - Bank Rule Registry
// =============================================================================
//
// One entry point over all supported banks. The pipeline asks the registry for
// the rule sets of the enabled banks; the banks command lists them for
// operators.
//
// =============================================================================

package banks

import (
	"sort"

	"github.com/ginjaninja78/statement-text-extraction/internal/banks/quirin"
	"github.com/ginjaninja78/statement-text-extraction/internal/engine"
	"github.com/ginjaninja78/statement-text-extraction/internal/securities"
)

// Bank couples a display name with a factory for its document-type rules.
// The factory style keeps rule construction lazy and lets every bank share
// one security resolver per run.
type Bank struct {
	Name  string
	Rules func(resolver *securities.Resolver) []*engine.DocumentType
}

var registry = []Bank{
	{Name: quirin.Name, Rules: quirin.DocumentTypes},
}

// All returns every supported bank, sorted by name.
func All() []Bank {
	out := make([]Bank, len(registry))
	copy(out, registry)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Select returns the banks whose names occur in enabled. An empty or nil
// enabled list selects every bank.
func Select(enabled []string) []Bank {
	if len(enabled) == 0 {
		return All()
	}
	wanted := make(map[string]bool, len(enabled))
	for _, name := range enabled {
		wanted[name] = true
	}
	var out []Bank
	for _, bank := range All() {
		if wanted[bank.Name] {
			out = append(out, bank)
		}
	}
	return out
}

// NewExtractor builds one extraction engine over the rule sets of the given
// banks, sharing the resolver across all of them.
func NewExtractor(selected []Bank, resolver *securities.Resolver) *engine.Extractor {
	extractor := engine.NewExtractor()
	for _, bank := range selected {
		extractor.Register(bank.Rules(resolver)...)
	}
	return extractor
}
