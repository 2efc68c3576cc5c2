package reports

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/meridianlabs/meridian/internal/modules/dataset"
	"github.com/meridianlabs/meridian/internal/modules/taxonomy"
)

const (
	maxRiskTopics       = 10
	maxPositiveTopics   = 5
	maxTopicSummaries   = 5
	maxSourceCategories = 8
)

func buildSentiment(rc *reportContext) *SentimentResponse {
	win := rc.window

	current := AggregateChannel(win.Records, rc.model, ChannelSentiment, win.SinglePoint)
	previous := AggregateChannel(win.Comparison, rc.model, ChannelSentiment, win.SinglePoint)

	positives, negatives := collectAspects(win.Records, rc.model)

	return &SentimentResponse{
		KPIs:                buildSentimentKPIs(rc),
		Trends:              BuildTrends(win.Records, rc.model, ChannelSentiment, win.SinglePoint),
		Ranking:             BuildRanking(current, previous, ChannelSentiment, rc.selfBrand, win.SinglePoint),
		RiskTopics:          buildRiskTopics(positives, negatives),
		SourcesDistribution: buildSourceDistribution(win.Records, rc.model),
		PositiveTopics:      buildTopicSummaries(positives, true),
		NegativeTopics:      buildTopicSummaries(negatives, false),
		ActualDateRange:     win.ActualRange(),
	}
}

// sentimentBreakdown splits a [0,1] sentiment score into positive, neutral,
// and negative percentages summing to 100, piecewise around the 0.3 and 0.7
// thresholds.
func sentimentBreakdown(scoreRaw float64) (positive, neutral, negative float64) {
	score := math.Max(0, math.Min(1, scoreRaw))

	switch {
	case score >= 0.7:
		positive = math.Min(100, (score-0.7)/0.3*60+40)
		neutral = math.Max(0, (1-score)*40)
		negative = math.Max(0, 100-positive-neutral)
	case score >= 0.3:
		neutral = math.Min(100, (score-0.3)/0.4*40+60)
		positive = math.Max(0, (score-0.3)/0.4*30)
		negative = math.Max(0, (0.7-score)/0.4*30)
		if total := positive + neutral + negative; total > 0 {
			positive = positive / total * 100
			neutral = neutral / total * 100
			negative = 100 - positive - neutral
		}
	default:
		negative = math.Min(100, (0.3-score)/0.3*60+40)
		neutral = math.Max(0, score/0.3*40)
		positive = math.Max(0, 100-negative-neutral)
	}
	return roundTo(positive, 1), roundTo(neutral, 1), roundTo(negative, 1)
}

// buildSentimentKPIs computes share of voice and the sentiment index for
// the self brand: from the latest record in single-point mode, averaged per
// day otherwise.
func buildSentimentKPIs(rc *reportContext) SentimentKPIs {
	win := rc.window

	var sovSum, indexSum, posSum, neuSum, negSum float64
	days := 0

	records := win.Records
	if win.SinglePoint {
		records = records[len(records)-1:]
	}
	for i := range records {
		bucket := records[i].Bucket(rc.model)
		if bucket == nil {
			continue
		}

		selfScore := bucket.TotalScore[rc.selfBrand]
		var scoreSum float64
		for _, score := range bucket.TotalScore {
			scoreSum += score
		}
		if scoreSum > 0 {
			sovSum += selfScore / scoreSum * 100
		}

		index := math.Max(0, math.Min(1, bucket.SentimentScore[rc.selfBrand]))
		indexSum += index
		pos, neu, neg := sentimentBreakdown(index)
		posSum += pos
		neuSum += neu
		negSum += neg
		days++
	}
	if days == 0 {
		return SentimentKPIs{}
	}

	n := float64(days)
	return SentimentKPIs{
		SOV:            roundTo(sovSum/n, 1),
		SentimentIndex: roundTo(indexSum/n, 4),
		Positive:       roundTo(posSum/n, 1),
		Neutral:        roundTo(neuSum/n, 1),
		Negative:       roundTo(negSum/n, 1),
	}
}

// aspectStat tracks one aspect string across the window.
type aspectStat struct {
	aspect    string
	count     int
	domains   []string
	firstSeen int
}

type aspectSet struct {
	stats map[string]*aspectStat
	order int
}

func newAspectSet() *aspectSet {
	return &aspectSet{stats: make(map[string]*aspectStat)}
}

func (s *aspectSet) add(aspect string, domains []string) {
	trimmed := strings.TrimSpace(aspect)
	if trimmed == "" {
		return
	}
	stat, ok := s.stats[trimmed]
	if !ok {
		stat = &aspectStat{aspect: trimmed, firstSeen: s.order}
		s.stats[trimmed] = stat
		s.order++
	}
	stat.count++
	for _, d := range domains {
		if !containsString(stat.domains, d) {
			stat.domains = append(stat.domains, d)
		}
	}
}

// ranked returns the aspects by descending count, first-seen order breaking
// ties.
func (s *aspectSet) ranked() []*aspectStat {
	out := make([]*aspectStat, 0, len(s.stats))
	for _, stat := range s.stats {
		out = append(out, stat)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].firstSeen < out[j].firstSeen
	})
	return out
}

func (s *aspectSet) maxCount() int {
	max := 1
	for _, stat := range s.stats {
		if stat.count > max {
			max = stat.count
		}
	}
	return max
}

// collectAspects gathers every brand's positive and negative aspects with
// the domains that cite each brand.
func collectAspects(records []dataset.DailyRecord, model string) (positives, negatives *aspectSet) {
	positives = newAspectSet()
	negatives = newAspectSet()

	for i := range records {
		bucket := records[i].Bucket(model)
		if bucket == nil {
			continue
		}
		for _, brand := range sortedKeys(bucket.SentimentDetail) {
			detail := bucket.SentimentDetail[brand]
			domains := bucket.BrandDomains[brand]
			for _, aspect := range detail.PositiveAspects {
				positives.add(aspect, domains)
			}
			for _, aspect := range detail.NegativeAspects {
				negatives.add(aspect, domains)
			}
		}
	}
	return positives, negatives
}

// buildRiskTopics surfaces the most repeated negative aspects, then a few
// positives. Sentiment placement scales with repetition: negatives map to
// [-1.0,-0.3], positives to [0.3,1.0].
func buildRiskTopics(positives, negatives *aspectSet) []RiskTopic {
	var topics []RiskTopic

	negMax := float64(negatives.maxCount())
	for i, stat := range limitAspects(negatives.ranked(), maxRiskTopics) {
		topics = append(topics, RiskTopic{
			ID:        aspectID("risk", i, stat.aspect),
			Prompt:    stat.aspect,
			Answer:    stat.aspect,
			Sources:   stat.count,
			Sentiment: -1.0 + float64(stat.count)/negMax*0.7,
			SourceURL: firstDomainURL(stat.domains),
		})
	}

	posMax := float64(positives.maxCount())
	for i, stat := range limitAspects(positives.ranked(), maxPositiveTopics) {
		topics = append(topics, RiskTopic{
			ID:        aspectID("positive", i, stat.aspect),
			Prompt:    stat.aspect,
			Answer:    stat.aspect,
			Sources:   stat.count,
			Sentiment: 0.3 + float64(stat.count)/posMax*0.7,
			SourceURL: firstDomainURL(stat.domains),
		})
	}
	return topics
}

// buildTopicSummaries weights each aspect by repetition relative to the
// most repeated one and places it on the sentiment axis.
func buildTopicSummaries(set *aspectSet, positive bool) []TopicSummary {
	if len(set.stats) == 0 {
		return nil
	}
	max := float64(set.maxCount())

	summaries := make([]TopicSummary, 0, len(set.stats))
	for _, stat := range set.ranked() {
		weight := float64(stat.count) / max
		sentiment := 0.3 + weight*0.7
		if !positive {
			sentiment = -sentiment
		}
		summaries = append(summaries, TopicSummary{
			Topic:     stat.aspect,
			Sentiment: roundTo(sentiment, 3),
			Score:     roundTo(math.Min(1, math.Max(0, weight)), 3),
			Mentions:  stat.count,
		})
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		if positive {
			return summaries[i].Sentiment > summaries[j].Sentiment
		}
		return summaries[i].Sentiment < summaries[j].Sentiment
	})
	if len(summaries) > maxTopicSummaries {
		summaries = summaries[:maxTopicSummaries]
	}
	return summaries
}

// buildSourceDistribution averages each source category's tone, weighting
// every domain citation by its brand's daily sentiment breakdown.
func buildSourceDistribution(records []dataset.DailyRecord, model string) []SourceSentiment {
	type toneTotals struct {
		pos, neu, neg float64
		count         int
	}
	totals := make(map[string]*toneTotals)

	for i := range records {
		bucket := records[i].Bucket(model)
		if bucket == nil {
			continue
		}
		for _, brand := range sortedKeys(bucket.BrandDomains) {
			pos, neu, neg := sentimentBreakdown(bucket.SentimentScore[brand])
			for _, domain := range bucket.BrandDomains[brand] {
				category := taxonomy.CanonicalCategory(taxonomy.DomainCategory(domain))
				tt, ok := totals[category]
				if !ok {
					tt = &toneTotals{}
					totals[category] = tt
				}
				tt.pos += pos
				tt.neu += neu
				tt.neg += neg
				tt.count++
			}
		}
	}

	distribution := make([]SourceSentiment, 0, len(totals))
	for _, category := range sortedKeys(totals) {
		tt := totals[category]
		divisor := float64(tt.count)
		if divisor == 0 {
			divisor = 1
		}
		row := SourceSentiment{
			Type: category,
			Pos:  roundTo(tt.pos/divisor, 1),
			Neu:  roundTo(tt.neu/divisor, 1),
			Neg:  roundTo(tt.neg/divisor, 1),
		}
		if row.Pos == 0 && row.Neu == 0 && row.Neg == 0 {
			continue
		}
		distribution = append(distribution, row)
	}

	sort.SliceStable(distribution, func(i, j int) bool {
		return distribution[i].Pos > distribution[j].Pos
	})
	if len(distribution) > maxSourceCategories {
		distribution = distribution[:maxSourceCategories]
	}
	return distribution
}

func limitAspects(stats []*aspectStat, limit int) []*aspectStat {
	if len(stats) > limit {
		return stats[:limit]
	}
	return stats
}

// aspectID builds a stable identifier from an aspect's rank and a prefix of
// its text.
func aspectID(kind string, index int, aspect string) string {
	prefix := aspect
	if runes := []rune(prefix); len(runes) > 20 {
		prefix = string(runes[:20])
	}
	return fmt.Sprintf("%s_%d_%s", kind, index, strings.ReplaceAll(prefix, " ", "_"))
}

func firstDomainURL(domains []string) string {
	if len(domains) == 0 {
		return ""
	}
	return "https://" + domains[0]
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
