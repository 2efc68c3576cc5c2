// Package dataset provides access to the daily brand-visibility snapshot
// feed: decoding the raw collection file, caching the decoded series, and
// resolving loosely-specified product identifiers to exact dataset keys.
package dataset

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Model bucket keys as they appear in the snapshot feed. Every day record
// carries an "overall" bucket plus zero or more per-assistant buckets.
const (
	ModelOverall = "overall"
	ModelGPT     = "chatgpt"
	ModelGemini  = "gemini"
	ModelClaude  = "claude"
)

// DateFormat is the calendar-day format used throughout the snapshot feed.
// Dates are compared lexically, which is safe for this format.
const DateFormat = "2006-01-02"

var leadingNumber = regexp.MustCompile(`^([\d.]+)`)

// RankEntry holds one absolute_rank value. The feed emits these either as a
// plain number or as an annotated string such as "2 (tie)".
type RankEntry struct {
	Number float64 `msgpack:"number"`
	Text   string  `msgpack:"text"`
	IsText bool    `msgpack:"is_text"`
}

// UnmarshalJSON accepts both numeric and string rank encodings.
func (r *RankEntry) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		r.Number = n
		r.IsText = false
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("absolute_rank entry is neither number nor string: %s", data)
	}
	r.Text = s
	r.IsText = true
	return nil
}

// MarshalJSON re-emits the entry in its original shape.
func (r RankEntry) MarshalJSON() ([]byte, error) {
	if r.IsText {
		return json.Marshal(r.Text)
	}
	return json.Marshal(r.Number)
}

// Value parses the rank as a number. String entries yield their leading
// numeric token; unparsable entries yield the supplied default.
func (r RankEntry) Value(def float64) float64 {
	if !r.IsText {
		return r.Number
	}
	match := leadingNumber.FindString(strings.TrimSpace(r.Text))
	if match == "" {
		return def
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return def
	}
	return v
}

// AspectDetail holds the aggregated sentiment aspects for one brand.
type AspectDetail struct {
	PositiveAspects []string `json:"positive_aspects" msgpack:"positive_aspects"`
	NegativeAspects []string `json:"negative_aspects" msgpack:"negative_aspects"`
}

// ModelMetrics is one model bucket of a day record: per-brand metric maps
// plus the optional raw query/response/topic lists.
type ModelMetrics struct {
	MentionRate     map[string]float64      `json:"mention_rate" msgpack:"mention_rate"`
	AbsoluteRank    map[string]RankEntry    `json:"absolute_rank" msgpack:"absolute_rank"`
	ContentShare    map[string]float64      `json:"content_share" msgpack:"content_share"`
	SentimentScore  map[string]float64      `json:"sentiment_score" msgpack:"sentiment_score"`
	CombinedScore   map[string]float64      `json:"combined_score" msgpack:"combined_score"`
	TotalScore      map[string]float64      `json:"total_score" msgpack:"total_score"`
	SentimentDetail map[string]AspectDetail `json:"aggregated_sentiment_detail" msgpack:"aggregated_sentiment_detail"`
	BrandDomains    map[string][]string     `json:"brand_domains" msgpack:"brand_domains"`
	Queries         []string                `json:"queries,omitempty" msgpack:"queries"`
	Responses       []string                `json:"response,omitempty" msgpack:"response"`
	Topics          []string                `json:"topics,omitempty" msgpack:"topics"`
}

// empty reports whether the bucket carries no metric data at all.
func (m *ModelMetrics) empty() bool {
	return m == nil ||
		(len(m.MentionRate) == 0 && len(m.AbsoluteRank) == 0 &&
			len(m.ContentShare) == 0 && len(m.SentimentScore) == 0 &&
			len(m.CombinedScore) == 0 && len(m.TotalScore) == 0 &&
			len(m.SentimentDetail) == 0 && len(m.BrandDomains) == 0)
}

// DailyRecord is one dated snapshot for one entity. The feed encodes records
// as [date, buckets] tuples; UnmarshalJSON handles that shape.
type DailyRecord struct {
	Date   string                   `msgpack:"date"`
	Models map[string]*ModelMetrics `msgpack:"models"`
}

// UnmarshalJSON decodes the feed's two-element tuple encoding.
func (d *DailyRecord) UnmarshalJSON(data []byte) error {
	var tuple []json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return fmt.Errorf("day record is not a tuple: %w", err)
	}
	if len(tuple) < 2 {
		return fmt.Errorf("day record tuple has %d elements, want 2", len(tuple))
	}
	if err := json.Unmarshal(tuple[0], &d.Date); err != nil {
		return fmt.Errorf("day record date: %w", err)
	}
	if err := json.Unmarshal(tuple[1], &d.Models); err != nil {
		return fmt.Errorf("day record buckets for %s: %w", d.Date, err)
	}
	return nil
}

// MarshalJSON re-emits the tuple shape so round-tripped files stay loadable.
func (d DailyRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{d.Date, d.Models})
}

// Bucket returns the named model bucket, falling back to the overall bucket
// when the requested one is missing or empty. Returns nil when the record has
// no usable bucket at all.
func (d *DailyRecord) Bucket(model string) *ModelMetrics {
	if d == nil {
		return nil
	}
	if m, ok := d.Models[model]; ok && !m.empty() {
		return m
	}
	if m, ok := d.Models[ModelOverall]; ok && !m.empty() {
		return m
	}
	return nil
}

// EntitySeries is the chronologically ordered list of day records for one
// resolved entity key. Dates are strictly increasing; duplicates are dropped
// at load time.
type EntitySeries []DailyRecord

// FindDate returns the record for an exact calendar day, or nil.
func (s EntitySeries) FindDate(date string) *DailyRecord {
	for i := range s {
		if s[i].Date == date {
			return &s[i]
		}
	}
	return nil
}

// Dataset maps compound entity keys ("Brand (Latin) | Product") to their
// series. The structure is immutable after load and safe for concurrent use.
type Dataset struct {
	Series map[string]EntitySeries `msgpack:"series"`
	keys   []string
}

// Keys returns the dataset keys in sorted order. Sorting gives deterministic
// fallback resolution; the feed's own key order is not preserved by JSON maps.
func (d *Dataset) Keys() []string {
	return d.keys
}

// Len returns the number of entities in the dataset.
func (d *Dataset) Len() int {
	return len(d.Series)
}
