package routine

import (
	"strings"

	"github.com/glowedge/skincare-backend/internal/domain/catalog"
)

// matchProduct resolves an AI-suggested product name against the candidate
// set that built the prompt. Three tiers, in priority order: exact name
// equality, candidate name contained in the suggestion, suggestion contained
// in a candidate name — all case-insensitive. Within a tier the first
// candidate in catalog order wins; no match means the step is dropped by the
// caller. Substring false positives are an accepted tradeoff for resilience
// against the model rephrasing product names.
func matchProduct(suggested string, candidates []catalog.Product) (catalog.Product, bool) {
	needle := strings.ToLower(strings.TrimSpace(suggested))
	if needle == "" {
		return catalog.Product{}, false
	}

	for _, candidate := range candidates {
		if strings.ToLower(candidate.Name) == needle {
			return candidate, true
		}
	}
	for _, candidate := range candidates {
		name := strings.ToLower(candidate.Name)
		if name != "" && strings.Contains(needle, name) {
			return candidate, true
		}
	}
	for _, candidate := range candidates {
		if strings.Contains(strings.ToLower(candidate.Name), needle) {
			return candidate, true
		}
	}
	return catalog.Product{}, false
}
