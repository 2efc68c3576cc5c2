package reports

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/meridianlabs/meridian/internal/modules/dataset"
)

func TestSelfBrandCandidateWinsOverFuzzy(t *testing.T) {
	// The entity key's leading segment ("Acme") would fuzzy-match "Acme
	// Corp", but the configured candidate list must take precedence.
	bucket := &dataset.ModelMetrics{
		MentionRate: map[string]float64{
			"Acme Corp":  0.4,
			"Your Brand": 0.2,
		},
	}
	r := NewSelfBrandResolver([]string{"Your Brand"}, testLogger())
	assert.Equal(t, "Your Brand", r.Resolve(bucket, "Acme | Widget"))
}

func TestSelfBrandFuzzyFallback(t *testing.T) {
	bucket := &dataset.ModelMetrics{
		MentionRate: map[string]float64{
			"Zephyr":    0.4,
			"Acme Corp": 0.2,
		},
	}
	r := NewSelfBrandResolver([]string{"Your Brand"}, testLogger())

	// Leading segment of the pipe-delimited key matches a brand key.
	assert.Equal(t, "Acme Corp", r.Resolve(bucket, "Acme Corp | Widget"))
	// Underscore-delimited keys split the same way.
	assert.Equal(t, "Zephyr", r.Resolve(bucket, "zephyr_widget"))
}

func TestSelfBrandFirstKeyFallback(t *testing.T) {
	bucket := &dataset.ModelMetrics{
		MentionRate: map[string]float64{
			"Delta": 0.1,
			"Alpha": 0.2,
		},
		CombinedScore: map[string]float64{
			"Beta": 0.3,
		},
	}
	r := NewSelfBrandResolver([]string{"Nobody"}, testLogger())

	// No candidate and no fuzzy match: first key in sorted order of the
	// union of mention_rate and combined_score keys.
	assert.Equal(t, "Alpha", r.Resolve(bucket, "Unrelated | Product"))
}

func TestSelfBrandEmptyBucket(t *testing.T) {
	r := NewSelfBrandResolver([]string{"Your Brand"}, testLogger())
	assert.Equal(t, "Your Brand", r.Resolve(nil, "Acme | Widget"))
	assert.Equal(t, "Your Brand", r.Resolve(&dataset.ModelMetrics{}, "Acme | Widget"))
}
