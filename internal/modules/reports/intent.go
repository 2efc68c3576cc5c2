package reports

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/meridianlabs/meridian/internal/modules/dataset"
	"github.com/meridianlabs/meridian/internal/modules/taxonomy"
)

const maxTopicPrompts = 5

// topicAccumulator collects one fixed topic's queries and per-query metric
// samples across the window.
type topicAccumulator struct {
	queries   []topicQuery
	reach     []float64
	rank      []float64
	focus     []float64
	sentiment []float64
	mentions  []float64
}

type topicQuery struct {
	prompt string
	answer string
	intent taxonomy.Intent
	date   string
}

func buildIntent(rc *reportContext) *IntentResponse {
	win := rc.window
	topics := taxonomy.Topics()

	acc := make(map[string]*topicAccumulator, len(topics))
	for _, topic := range topics {
		acc[topic] = &topicAccumulator{}
	}
	totalQueries := 0

	for i := range win.Records {
		rec := &win.Records[i]
		bucket := rec.Bucket(rc.model)
		if bucket == nil {
			continue
		}

		if len(bucket.Queries) > 0 && len(bucket.Responses) > 0 {
			totalQueries += collectQueryPairs(acc, bucket, rec.Date, rc.selfBrand, topics[0])
		} else {
			totalQueries += collectAspectQueries(acc, bucket, rec.Date)
		}
	}

	rows := make([]TopicRow, 0, len(topics))
	for _, topic := range topics {
		row, ok := buildTopicRow(topic, acc[topic], rc)
		if ok {
			rows = append(rows, row)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].PromptCount > rows[j].PromptCount
	})

	return &IntentResponse{
		KPIs:            buildIntentKPIs(rows, totalQueries),
		Topics:          rows,
		ActualDateRange: win.ActualRange(),
	}
}

// collectQueryPairs zips the raw query and response lists, classifying each
// query's topic and intent. Metric samples come from the self brand.
func collectQueryPairs(acc map[string]*topicAccumulator, bucket *dataset.ModelMetrics, date, selfBrand, defaultTopic string) int {
	n := len(bucket.Queries)
	if len(bucket.Responses) < n {
		n = len(bucket.Responses)
	}

	added := 0
	for i := 0; i < n; i++ {
		query := strings.TrimSpace(bucket.Queries[i])
		response := strings.TrimSpace(bucket.Responses[i])
		if query == "" || response == "" {
			continue
		}

		topic := taxonomy.MapTopic(query, "")
		if topic == "" {
			if i < len(bucket.Topics) && bucket.Topics[i] != "" {
				topic = taxonomy.MapTopic(bucket.Topics[i], defaultTopic)
			} else {
				topic = defaultTopic
			}
		}
		ta, ok := acc[topic]
		if !ok {
			continue
		}

		ta.queries = append(ta.queries, topicQuery{
			prompt: query,
			answer: response,
			intent: taxonomy.ClassifyIntent(query),
			date:   date,
		})
		appendBrandSamples(ta, bucket, selfBrand)
		added++
	}
	return added
}

// collectAspectQueries falls back to the sentiment aspects when no raw
// queries were captured, using each aspect's own brand for metric samples.
func collectAspectQueries(acc map[string]*topicAccumulator, bucket *dataset.ModelMetrics, date string) int {
	added := 0
	for _, brand := range sortedKeys(bucket.SentimentDetail) {
		detail := bucket.SentimentDetail[brand]
		for _, aspects := range [][]string{detail.PositiveAspects, detail.NegativeAspects} {
			for _, aspect := range aspects {
				trimmed := strings.TrimSpace(aspect)
				if trimmed == "" {
					continue
				}
				topic := taxonomy.MapTopic(trimmed, "")
				if topic == "" {
					continue
				}
				ta := acc[topic]
				ta.queries = append(ta.queries, topicQuery{
					prompt: trimmed,
					answer: trimmed,
					intent: taxonomy.ClassifyIntent(trimmed),
					date:   date,
				})
				appendBrandSamples(ta, bucket, brand)
				added++
			}
		}
	}
	return added
}

func appendBrandSamples(ta *topicAccumulator, bucket *dataset.ModelMetrics, brand string) {
	ta.reach = append(ta.reach, bucket.MentionRate[brand])
	if entry, ok := bucket.AbsoluteRank[brand]; ok {
		ta.rank = append(ta.rank, entry.Value(unparsableRank))
	} else {
		ta.rank = append(ta.rank, unparsableRank)
	}
	ta.focus = append(ta.focus, bucket.ContentShare[brand])
	if score, ok := bucket.SentimentScore[brand]; ok {
		ta.sentiment = append(ta.sentiment, score)
	} else {
		ta.sentiment = append(ta.sentiment, 0.5)
	}
	ta.mentions = append(ta.mentions, float64(len(bucket.MentionRate)))
}

func buildTopicRow(topic string, ta *topicAccumulator, rc *reportContext) (TopicRow, bool) {
	if len(ta.queries) == 0 {
		return TopicRow{}, false
	}

	avgReach := meanOr(ta.reach, 0)
	avgRank := meanOr(ta.rank, unparsableRank)
	avgFocus := meanOr(ta.focus, 0)
	avgSentiment := meanOr(ta.sentiment, 0.5)
	avgMentions := int(math.Round(meanOr(ta.mentions, 0)))

	prompts := make([]PromptItem, 0, maxTopicPrompts)
	for i, q := range ta.queries {
		if i >= maxTopicPrompts {
			break
		}
		prompts = append(prompts, PromptItem{
			ID:            fmt.Sprintf("%s_%d_%s", topic, i, q.date),
			Text:          q.prompt,
			Platform:      platformName(rc.model),
			Role:          "User",
			Rank:          avgRank,
			MentionsBrand: strings.Contains(q.answer, rc.selfBrand),
			Sentiment:     avgSentiment,
			AIResponse:    q.answer,
			Mentions:      avgMentions,
			Citation:      max(1, int(float64(avgMentions)*0.6)),
			Focus:         avgFocus * 100,
			Intent:        q.intent,
		})
	}

	return TopicRow{
		ID:          strings.ToLower(strings.ReplaceAll(topic, " ", "_")),
		Topic:       topic,
		Label:       taxonomy.Localize(topic, rc.req.Locale),
		Intent:      dominantIntent(ta.queries),
		PromptCount: len(ta.queries),
		Visibility:  avgReach * 100,
		MentionRate: avgReach * 100,
		Sentiment:   avgSentiment,
		Rank:        int(math.Round(avgRank)),
		Prompts:     prompts,
	}, true
}

// dominantIntent picks the most frequent intent among a topic's queries,
// canonical intent order breaking ties.
func dominantIntent(queries []topicQuery) taxonomy.Intent {
	counts := make(map[taxonomy.Intent]int)
	for _, q := range queries {
		counts[q.intent]++
	}
	best := taxonomy.IntentInformation
	bestCount := 0
	for _, intent := range taxonomy.Intents() {
		if counts[intent] > bestCount {
			best = intent
			bestCount = counts[intent]
		}
	}
	return best
}

func buildIntentKPIs(rows []TopicRow, totalQueries int) IntentKPIs {
	kpis := IntentKPIs{
		TopicCount:   len(rows),
		PromptCount:  totalQueries,
		AvgSentiment: 0.5,
	}
	if len(rows) == 0 {
		return kpis
	}

	var rankSum float64
	var visSum, mentionSum, sentimentSum float64
	for _, row := range rows {
		rankSum += float64(row.Rank)
		visSum += row.Visibility
		mentionSum += row.MentionRate
		sentimentSum += row.Sentiment
	}
	n := float64(len(rows))
	kpis.CompositeRank = int(math.Round(rankSum / n))
	kpis.AvgVisibility = visSum / n
	kpis.AvgMention = mentionSum / n
	kpis.AvgSentiment = sentimentSum / n
	return kpis
}

func platformName(model string) string {
	switch model {
	case dataset.ModelGPT:
		return "ChatGPT"
	case dataset.ModelGemini:
		return "Gemini"
	case dataset.ModelClaude:
		return "Claude"
	default:
		return "All Models"
	}
}

func meanOr(samples []float64, def float64) float64 {
	if len(samples) == 0 {
		return def
	}
	return stat.Mean(samples, nil)
}
