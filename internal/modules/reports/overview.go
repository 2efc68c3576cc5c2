package reports

import (
	"sort"
	"strings"

	"github.com/meridianlabs/meridian/internal/modules/dataset"
	"github.com/meridianlabs/meridian/internal/modules/taxonomy"
)

const maxOverviewSources = 5

var kpiDescriptions = map[string]string{
	"Reach":      "Indicates how often the brand is mentioned in AI responses — higher reach means greater exposure.",
	"Rank":       "Shows how early the brand appears in AI answers — earlier mentions suggest higher relevance or priority.",
	"Focus":      "Measures how much of the AI's content focuses on the brand — representing its share of attention.",
	"Sentiment":  "Shows AI's emotional tone toward the brand, ranging from negative to positive.",
	"Visibility": "Measures the brand's overall visibility score based on combined metrics including reach, focus, and sentiment.",
}

func buildOverview(rc *reportContext) *OverviewResponse {
	win := rc.window

	kpis := []KPI{
		overviewKPI(rc, "Reach", ChannelReach, "%", 1),
		overviewRankKPI(rc),
		overviewKPI(rc, "Focus", ChannelFocus, "%", 1),
		overviewKPI(rc, "Sentiment", ChannelSentiment, "", 2),
		overviewKPI(rc, "Visibility", ChannelVisibility, "%", 2),
	}

	current := AggregateChannel(win.Records, rc.model, ChannelInfluence, win.SinglePoint)
	previous := AggregateChannel(win.Comparison, rc.model, ChannelInfluence, win.SinglePoint)
	ranking := buildCompetitorRanking(current, previous, rc.selfBrand, win.SinglePoint)

	influenceTrends := BuildTrends(win.Records, rc.model, ChannelInfluence, win.SinglePoint)
	selfTrend := influenceTrend(influenceTrends, rc.selfBrand)

	competitorTrends := make(map[string][]InfluencePoint)
	for _, brand := range Brands(influenceTrends) {
		if brand == rc.selfBrand {
			continue
		}
		competitorTrends[brand] = influenceTrend(influenceTrends, brand)
	}

	var currentInfluence float64
	if win.SinglePoint {
		if len(selfTrend) > 0 {
			currentInfluence = selfTrend[len(selfTrend)-1].BrandInfluence
		}
	} else {
		currentInfluence = roundTo(current.Value(rc.selfBrand, 0), 1)
	}
	previousInfluence := currentInfluence
	if v, ok := previous.Get(rc.selfBrand); ok {
		previousInfluence = roundTo(v, 1)
	} else if win.SinglePoint && len(selfTrend) > 1 {
		previousInfluence = selfTrend[len(selfTrend)-2].BrandInfluence
	}

	return &OverviewResponse{
		KPIs: kpis,
		BrandInfluence: BrandInfluence{
			Current:        currentInfluence,
			PreviousPeriod: previousInfluence,
			ChangeRate:     roundTo(currentInfluence-previousInfluence, 1),
			Trend:          selfTrend,
		},
		Ranking:          ranking,
		Sources:          buildTopSources(win.Records, rc.model, rc.selfBrand),
		Topics:           buildTopTopics(win.Records, rc.model, rc.selfBrand, rc.req.Locale),
		CompetitorTrends: competitorTrends,
		ActualDateRange:  win.ActualRange(),
	}
}

// overviewKPI aggregates one channel for the self brand with a value delta
// against the comparison window.
func overviewKPI(rc *reportContext, name string, ch Channel, unit string, precision int) KPI {
	win := rc.window
	current := AggregateChannel(win.Records, rc.model, ch, win.SinglePoint)
	previous := AggregateChannel(win.Comparison, rc.model, ch, win.SinglePoint)

	value := clampChannel(ch, current.Value(rc.selfBrand, ch.Default)) * ch.Scale
	delta := 0.0
	if prev, ok := previous.Get(rc.selfBrand); ok {
		delta = value - clampChannel(ch, prev)*ch.Scale
	}
	return KPI{
		Name:        name,
		Value:       roundTo(value, precision),
		Delta:       roundTo(delta, precision),
		Unit:        unit,
		Description: kpiDescriptions[name],
	}
}

// overviewRankKPI handles the rank channel's inverted single-point delta:
// previous minus current, so moving up reads as positive.
func overviewRankKPI(rc *reportContext) KPI {
	win := rc.window
	ch := ChannelRank
	current := AggregateChannel(win.Records, rc.model, ch, win.SinglePoint)
	previous := AggregateChannel(win.Comparison, rc.model, ch, win.SinglePoint)

	value := current.Value(rc.selfBrand, ch.Default)
	delta := 0.0
	precision := 1
	if prev, ok := previous.Get(rc.selfBrand); ok {
		if win.SinglePoint {
			delta = prev - value
			precision = 0
		} else {
			delta = value - prev
		}
	}
	return KPI{
		Name:        "Rank",
		Value:       roundTo(value, 1),
		Delta:       roundTo(delta, precision),
		Unit:        "",
		Description: kpiDescriptions["Rank"],
	}
}

// buildCompetitorRanking orders all brands by influence score. Single-point
// deltas are rank-position moves; windowed deltas are score changes.
func buildCompetitorRanking(current, previous Aggregate, selfBrand string, singlePoint bool) []CompetitorRank {
	ordered := sortBrands(current, false)
	var prevPositions map[string]int
	if singlePoint {
		prevPositions = rankPositions(previous, false)
	}

	ranking := make([]CompetitorRank, len(ordered))
	for i, brand := range ordered {
		row := CompetitorRank{
			Rank:   i + 1,
			Name:   brand,
			Score:  roundTo(current.Values[brand], 1),
			IsSelf: brand == selfBrand,
		}
		if singlePoint {
			if prevRank, ok := prevPositions[brand]; ok {
				row.Delta = float64(prevRank - row.Rank)
			}
		} else if prev, ok := previous.Get(brand); ok {
			row.Delta = roundTo(current.Values[brand]-prev, 1)
		}
		ranking[i] = row
	}
	return ranking
}

func influenceTrend(points []TrendPoint, brand string) []InfluencePoint {
	trend := make([]InfluencePoint, len(points))
	for i, p := range points {
		trend[i] = InfluencePoint{Date: p.Date, BrandInfluence: p.Values[brand]}
	}
	return trend
}

// buildTopSources counts every brand's domains across the window and
// returns the most cited ones with their share and whether they ever cite
// the self brand.
func buildTopSources(records []dataset.DailyRecord, model, selfBrand string) []OverviewSource {
	type domainStat struct {
		domain       string
		count        int
		mentionsSelf bool
		firstSeen    int
	}
	stats := make(map[string]*domainStat)
	var order int
	total := 0

	for i := range records {
		bucket := records[i].Bucket(model)
		if bucket == nil {
			continue
		}
		for _, brand := range sortedKeys(bucket.BrandDomains) {
			for _, raw := range bucket.BrandDomains[brand] {
				trimmed := strings.TrimSpace(raw)
				if trimmed == "" {
					continue
				}
				key := strings.ToLower(trimmed)
				stat, ok := stats[key]
				if !ok {
					stat = &domainStat{domain: trimmed, firstSeen: order}
					stats[key] = stat
					order++
				}
				stat.count++
				if brand == selfBrand {
					stat.mentionsSelf = true
				}
				total++
			}
		}
	}

	ranked := make([]*domainStat, 0, len(stats))
	for _, stat := range stats {
		ranked = append(ranked, stat)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].firstSeen < ranked[j].firstSeen
	})
	if len(ranked) > maxOverviewSources {
		ranked = ranked[:maxOverviewSources]
	}

	sources := make([]OverviewSource, len(ranked))
	for i, stat := range ranked {
		share := 0.0
		if total > 0 {
			share = float64(stat.count) / float64(total)
		}
		sources[i] = OverviewSource{
			Domain:       stat.domain,
			MentionCount: stat.count,
			MentionShare: share,
			MentionsSelf: stat.mentionsSelf,
		}
	}
	return sources
}

// buildTopTopics maps the self brand's sentiment aspects into the fixed
// taxonomy. A window with no matching aspects gets a descending synthetic
// seed so every topic still renders.
func buildTopTopics(records []dataset.DailyRecord, model, selfBrand, locale string) []OverviewTopic {
	topics := taxonomy.Topics()
	counts := make(map[string]int, len(topics))

	for i := range records {
		bucket := records[i].Bucket(model)
		if bucket == nil {
			continue
		}
		detail, ok := bucket.SentimentDetail[selfBrand]
		if !ok {
			continue
		}
		for _, aspects := range [][]string{detail.PositiveAspects, detail.NegativeAspects} {
			for _, aspect := range aspects {
				if topic := taxonomy.MapTopic(aspect, ""); topic != "" {
					counts[topic]++
				}
			}
		}
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	if total == 0 {
		for i, topic := range topics {
			counts[topic] = 10 - i
			total += counts[topic]
		}
	}

	rows := make([]OverviewTopic, len(topics))
	for i, topic := range topics {
		rows[i] = OverviewTopic{
			Topic:        topic,
			Label:        taxonomy.Localize(topic, locale),
			MentionCount: counts[topic],
			MentionShare: float64(counts[topic]) / float64(total),
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].MentionCount > rows[j].MentionCount
	})
	return rows
}
