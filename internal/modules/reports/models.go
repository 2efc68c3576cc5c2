package reports

import "github.com/meridianlabs/meridian/internal/modules/taxonomy"

// KPI is one scalar indicator on the overview report.
type KPI struct {
	Name        string  `json:"name"`
	Value       float64 `json:"value"`
	Delta       float64 `json:"delta"`
	Unit        string  `json:"unit"`
	Description string  `json:"description"`
}

// InfluencePoint is one day of the brand influence trend.
type InfluencePoint struct {
	Date           string  `json:"date"`
	BrandInfluence float64 `json:"brandInfluence"`
}

// BrandInfluence summarizes the self brand's composite score over the
// window against the previous period.
type BrandInfluence struct {
	Current        float64          `json:"current"`
	PreviousPeriod float64          `json:"previousPeriod"`
	ChangeRate     float64          `json:"changeRate"`
	Trend          []InfluencePoint `json:"trend"`
}

// CompetitorRank is one row of the overview competitor table.
type CompetitorRank struct {
	Rank   int     `json:"rank"`
	Name   string  `json:"name"`
	Score  float64 `json:"score"`
	Delta  float64 `json:"delta"`
	IsSelf bool    `json:"isSelf"`
}

// OverviewSource is one of the most-cited domains across all brands.
type OverviewSource struct {
	Domain       string  `json:"domain"`
	MentionCount int     `json:"mentionCount"`
	MentionShare float64 `json:"mentionShare"`
	MentionsSelf bool    `json:"mentionsSelf"`
}

// OverviewTopic is one fixed-taxonomy topic with its mention share for the
// self brand.
type OverviewTopic struct {
	Topic        string  `json:"topic"`
	Label        string  `json:"label"`
	MentionCount int     `json:"mentionCount"`
	MentionShare float64 `json:"mentionShare"`
}

// OverviewResponse is the overview report payload.
type OverviewResponse struct {
	KPIs             []KPI                       `json:"kpis"`
	BrandInfluence   BrandInfluence              `json:"brandInfluence"`
	Ranking          []CompetitorRank            `json:"ranking"`
	Sources          []OverviewSource            `json:"sources"`
	Topics           []OverviewTopic             `json:"topics"`
	CompetitorTrends map[string][]InfluencePoint `json:"competitorTrends"`
	ActualDateRange  DateRange                   `json:"actualDateRange"`
}

// MetricBlock pairs one channel's ranking with its trend series.
type MetricBlock struct {
	Ranking []RankingItem `json:"ranking"`
	Trends  []TrendPoint  `json:"trends"`
}

// VisibilityResponse is the visibility report payload.
type VisibilityResponse struct {
	Visibility      MetricBlock `json:"visibility"`
	Reach           MetricBlock `json:"reach"`
	Rank            MetricBlock `json:"rank"`
	Focus           MetricBlock `json:"focus"`
	Heatmap         Heatmap     `json:"heatmap"`
	ActualDateRange DateRange   `json:"actualDateRange"`
}

// SentimentKPIs are the sentiment report's headline numbers. Positive,
// neutral, and negative are percentage points summing to 100.
type SentimentKPIs struct {
	SOV            float64 `json:"sov"`
	SentimentIndex float64 `json:"sentimentIndex"`
	Positive       float64 `json:"positive"`
	Neutral        float64 `json:"neutral"`
	Negative       float64 `json:"negative"`
}

// RiskTopic is one aspect surfaced on the sentiment report, negative
// aspects first.
type RiskTopic struct {
	ID        string  `json:"id"`
	Prompt    string  `json:"prompt"`
	Answer    string  `json:"answer"`
	Sources   int     `json:"sources"`
	Sentiment float64 `json:"sentiment"`
	SourceURL string  `json:"sourceUrl"`
}

// SourceSentiment is the average tone of one source-type category.
type SourceSentiment struct {
	Type string  `json:"type"`
	Pos  float64 `json:"pos"`
	Neu  float64 `json:"neu"`
	Neg  float64 `json:"neg"`
}

// TopicSummary is one aspect with its weighted sentiment placement.
type TopicSummary struct {
	Topic     string  `json:"topic"`
	Sentiment float64 `json:"sentiment"`
	Score     float64 `json:"score"`
	Mentions  int     `json:"mentions"`
}

// SentimentResponse is the sentiment report payload.
type SentimentResponse struct {
	KPIs                SentimentKPIs     `json:"kpis"`
	Trends              []TrendPoint      `json:"trends"`
	Ranking             []RankingItem     `json:"ranking"`
	RiskTopics          []RiskTopic       `json:"riskTopics"`
	SourcesDistribution []SourceSentiment `json:"sourcesDistribution"`
	PositiveTopics      []TopicSummary    `json:"positiveTopics"`
	NegativeTopics      []TopicSummary    `json:"negativeTopics"`
	ActualDateRange     DateRange         `json:"actualDateRange"`
}

// PromptItem is one representative query under an intent topic.
type PromptItem struct {
	ID            string          `json:"id"`
	Text          string          `json:"text"`
	Platform      string          `json:"platform"`
	Role          string          `json:"role"`
	Rank          float64         `json:"rank"`
	MentionsBrand bool            `json:"mentionsBrand"`
	Sentiment     float64         `json:"sentiment"`
	AIResponse    string          `json:"aiResponse"`
	Mentions      int             `json:"mentions"`
	Citation      int             `json:"citation"`
	Focus         float64         `json:"focus"`
	Intent        taxonomy.Intent `json:"intent"`
}

// TopicRow is one fixed topic on the intent report with its aggregated
// metrics and representative prompts.
type TopicRow struct {
	ID          string          `json:"id"`
	Topic       string          `json:"topic"`
	Label       string          `json:"label"`
	Intent      taxonomy.Intent `json:"intent"`
	PromptCount int             `json:"promptCount"`
	Visibility  float64         `json:"visibility"`
	MentionRate float64         `json:"mentionRate"`
	Sentiment   float64         `json:"sentiment"`
	Rank        int             `json:"rank"`
	Prompts     []PromptItem    `json:"prompts"`
}

// IntentKPIs are the intent report's headline numbers.
type IntentKPIs struct {
	TopicCount    int     `json:"topicCount"`
	PromptCount   int     `json:"promptCount"`
	CompositeRank int     `json:"compositeRank"`
	AvgVisibility float64 `json:"avgVisibility"`
	AvgMention    float64 `json:"avgMentionRate"`
	AvgSentiment  float64 `json:"avgSentiment"`
}

// IntentResponse is the intent report payload.
type IntentResponse struct {
	KPIs            IntentKPIs `json:"kpis"`
	Topics          []TopicRow `json:"topics"`
	ActualDateRange DateRange  `json:"actualDateRange"`
}
