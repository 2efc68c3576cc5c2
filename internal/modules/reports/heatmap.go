package reports

import (
	"math"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/meridianlabs/meridian/internal/modules/dataset"
	"github.com/meridianlabs/meridian/internal/modules/taxonomy"
)

const (
	maxHeatmapSources = 8
	maxHeatmapTopics  = 6
)

// Heatmap is the source-type × topic matrix of estimated co-mention
// strength.
type Heatmap struct {
	Sources []HeatmapLabel `json:"sources"`
	Topics  []HeatmapLabel `json:"topics"`
	Cells   []HeatmapCell  `json:"cells"`
}

// HeatmapLabel names one axis entry.
type HeatmapLabel struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// HeatmapCell is one (source, topic) estimate.
type HeatmapCell struct {
	Source      string  `json:"source"`
	Topic       string  `json:"topic"`
	MentionRate float64 `json:"mentionRate"`
	SampleCount int     `json:"sampleCount"`
	Example     string  `json:"example"`
}

type countedKey struct {
	key   string
	count int
}

// BuildHeatmap cross-tabulates source-type and topic distributions over the
// window's records. Source types come from classifying every brand domain;
// topic counts come from mapping every sentiment aspect of every brand into
// the fixed taxonomy. Cell strength is the product of each axis share. An
// empty counter on either axis returns ErrEmptyHeatmap so the caller can
// substitute the synthetic matrix.
func BuildHeatmap(records []dataset.DailyRecord, model string) (Heatmap, error) {
	sourceCounts := make(map[string]int)
	topicCounts := make(map[string]int)
	topicExamples := make(map[string]string)

	for i := range records {
		bucket := records[i].Bucket(model)
		if bucket == nil {
			continue
		}

		for _, brand := range sortedKeys(bucket.BrandDomains) {
			for _, domain := range bucket.BrandDomains[brand] {
				if strings.TrimSpace(domain) == "" {
					continue
				}
				sourceCounts[taxonomy.CanonicalCategory(taxonomy.DomainCategory(domain))]++
			}
		}

		for _, brand := range sortedKeys(bucket.SentimentDetail) {
			detail := bucket.SentimentDetail[brand]
			for _, aspects := range [][]string{detail.PositiveAspects, detail.NegativeAspects} {
				for _, aspect := range aspects {
					topic := taxonomy.MapTopic(aspect, "")
					if topic == "" {
						continue
					}
					topicCounts[topic]++
					if _, ok := topicExamples[topic]; !ok {
						topicExamples[topic] = aspect
					}
				}
			}
		}
	}

	if len(sourceCounts) == 0 || len(topicCounts) == 0 {
		return Heatmap{}, ErrEmptyHeatmap
	}

	sources := selectSources(sourceCounts)
	topics := selectTopics(topicCounts)
	return assembleHeatmap(sources, topics, topicExamples), nil
}

// selectSources orders observed source types: canonical categories first in
// their fixed order, then any non-canonical labels by descending count.
func selectSources(counts map[string]int) []countedKey {
	var selected []countedKey
	canonical := make(map[string]bool, len(taxonomy.CanonicalCategories))
	for _, c := range taxonomy.CanonicalCategories {
		canonical[c] = true
		if n, ok := counts[c]; ok {
			selected = append(selected, countedKey{key: c, count: n})
		}
	}

	var extra []countedKey
	for label, n := range counts {
		if !canonical[label] {
			extra = append(extra, countedKey{key: label, count: n})
		}
	}
	sort.Slice(extra, func(i, j int) bool {
		if extra[i].count != extra[j].count {
			return extra[i].count > extra[j].count
		}
		return extra[i].key < extra[j].key
	})

	selected = append(selected, extra...)
	if len(selected) > maxHeatmapSources {
		selected = selected[:maxHeatmapSources]
	}
	return selected
}

// selectTopics picks the top topics by count, canonical taxonomy order
// breaking ties.
func selectTopics(counts map[string]int) []countedKey {
	var selected []countedKey
	for _, topic := range taxonomy.Topics() {
		if n, ok := counts[topic]; ok {
			selected = append(selected, countedKey{key: topic, count: n})
		}
	}
	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].count > selected[j].count
	})
	if len(selected) > maxHeatmapTopics {
		selected = selected[:maxHeatmapTopics]
	}
	return selected
}

func assembleHeatmap(sources, topics []countedKey, examples map[string]string) Heatmap {
	hm := Heatmap{
		Sources: make([]HeatmapLabel, len(sources)),
		Topics:  make([]HeatmapLabel, len(topics)),
		Cells:   make([]HeatmapCell, 0, len(sources)*len(topics)),
	}

	sourceTotal := 0
	for i, s := range sources {
		sourceTotal += s.count
		hm.Sources[i] = HeatmapLabel{Name: s.key, Slug: slugify(s.key)}
	}
	topicTotal := 0
	for i, t := range topics {
		topicTotal += t.count
		hm.Topics[i] = HeatmapLabel{Name: t.key, Slug: slugify(t.key)}
	}
	if sourceTotal == 0 {
		sourceTotal = 1
	}
	if topicTotal == 0 {
		topicTotal = 1
	}

	for _, s := range sources {
		sourceShare := float64(s.count) / float64(sourceTotal)
		for _, t := range topics {
			topicShare := float64(t.count) / float64(topicTotal)
			example := examples[t.key]
			if example == "" {
				example = t.key
			}
			hm.Cells = append(hm.Cells, HeatmapCell{
				Source:      s.key,
				Topic:       t.key,
				MentionRate: roundTo(sourceShare*topicShare*100, 2),
				SampleCount: int(math.Max(1, math.Round(float64(s.count+t.count)/2))),
				Example:     example,
			})
		}
	}
	return hm
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// slugify builds a URL-safe identifier from a label, escaping the whole
// label when it has no ASCII content.
func slugify(value string) string {
	ascii := strings.Trim(nonSlugChars.ReplaceAllString(strings.ToLower(value), "-"), "-")
	if ascii != "" {
		return ascii
	}
	if encoded := url.QueryEscape(strings.ToLower(value)); encoded != "" {
		return encoded
	}
	return "item"
}

// sortedKeys returns map keys in sorted order for deterministic iteration.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
