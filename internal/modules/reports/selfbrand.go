package reports

import (
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/meridianlabs/meridian/internal/modules/dataset"
)

// SelfBrandResolver decides which brand key in a record represents the
// viewer's own brand. Candidates come from configuration so name variants
// and translations are not baked into the engine.
type SelfBrandResolver struct {
	candidates []string
	log        zerolog.Logger
}

// NewSelfBrandResolver creates a resolver over the configured candidate
// name variants, tried in order.
func NewSelfBrandResolver(candidates []string, log zerolog.Logger) *SelfBrandResolver {
	return &SelfBrandResolver{
		candidates: candidates,
		log:        log.With().Str("component", "self-brand").Logger(),
	}
}

// Resolve picks the self-brand key from one record's metric maps. Candidate
// names win over fuzzy matching; fuzzy matching compares the entity key's
// leading segment against each present brand key in either direction. With
// no match at all, the first brand key in sorted order is used. The caller
// must reuse the result for every channel and day of one response.
func (r *SelfBrandResolver) Resolve(bucket *dataset.ModelMetrics, entityKey string) string {
	keys := brandKeys(bucket)
	if len(keys) == 0 {
		if len(r.candidates) > 0 {
			return r.candidates[0]
		}
		return ""
	}

	present := make(map[string]bool, len(keys))
	for _, k := range keys {
		present[k] = true
	}
	for _, candidate := range r.candidates {
		if present[candidate] {
			return candidate
		}
	}

	if lead := leadingSegment(entityKey); lead != "" {
		leadLower := strings.ToLower(lead)
		for _, key := range keys {
			keyLower := strings.ToLower(key)
			if strings.Contains(keyLower, leadLower) || strings.Contains(leadLower, keyLower) {
				return key
			}
		}
	}

	r.log.Warn().
		Str("entity", entityKey).
		Str("fallback", keys[0]).
		Msg("self brand not found among candidates, using first brand key")
	return keys[0]
}

// brandKeys returns the sorted union of keys in mention_rate and
// combined_score.
func brandKeys(bucket *dataset.ModelMetrics) []string {
	if bucket == nil {
		return nil
	}
	seen := make(map[string]bool, len(bucket.MentionRate))
	for k := range bucket.MentionRate {
		seen[k] = true
	}
	for k := range bucket.CombinedScore {
		seen[k] = true
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// leadingSegment extracts the brand fragment from a compound entity key
// such as "Brand (Latin) | Product" or "brand_product".
func leadingSegment(key string) string {
	if i := strings.IndexByte(key, '|'); i >= 0 {
		return strings.TrimSpace(key[:i])
	}
	if i := strings.IndexByte(key, '_'); i >= 0 {
		return strings.TrimSpace(key[:i])
	}
	return strings.TrimSpace(key)
}
