package dataset

import (
	"errors"
	"strings"

	"github.com/rs/zerolog"
)

// ErrProductNotFound is returned when the dataset holds no entities at all,
// leaving nothing to resolve against.
var ErrProductNotFound = errors.New("product not found in dataset")

// ResolveKey maps a loosely-specified product identifier to an exact dataset
// key. Resolution tries, in order: an exact key match, a fuzzy match where
// the key contains every "|"- and "_"-separated fragment of the identifier,
// and finally the first key in sorted order. An empty identifier skips
// straight to the fallback.
func ResolveKey(ds *Dataset, productID string, log zerolog.Logger) (string, error) {
	if ds == nil || ds.Len() == 0 {
		return "", ErrProductNotFound
	}

	if productID != "" {
		if _, ok := ds.Series[productID]; ok {
			return productID, nil
		}
		for _, key := range ds.Keys() {
			if fragmentsContain(key, productID) {
				log.Debug().
					Str("product_id", productID).
					Str("resolved", key).
					Msg("product resolved by fragment match")
				return key, nil
			}
		}
		log.Warn().
			Str("product_id", productID).
			Msg("unknown product, falling back to first dataset entity")
	}

	return ds.Keys()[0], nil
}

// fragmentsContain reports whether key contains every "|"- or "_"-separated
// fragment of needle. Compound identifiers like "Brand | Product" match a
// key carrying both the brand and the product, regardless of how the key
// spells the separator.
func fragmentsContain(key, needle string) bool {
	matched := false
	for _, part := range strings.Split(needle, "|") {
		for _, frag := range strings.Split(part, "_") {
			frag = strings.TrimSpace(frag)
			if frag == "" {
				continue
			}
			if !strings.Contains(key, frag) {
				return false
			}
			matched = true
		}
	}
	return matched
}
