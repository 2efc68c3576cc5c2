package reports

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianlabs/meridian/internal/modules/dataset"
	"github.com/meridianlabs/meridian/internal/modules/taxonomy"
)

func heatmapRecord(date string) dataset.DailyRecord {
	return day(date, &dataset.ModelMetrics{
		BrandDomains: map[string][]string{
			"Acme": {"zhihu.com", "weibo.com", "zhihu.com"},
		},
		SentimentDetail: map[string]dataset.AspectDetail{
			"Acme": {
				PositiveAspects: []string{"strong performance", "strong performance"},
				NegativeAspects: []string{"cooling issues"},
			},
		},
	})
}

func TestBuildHeatmapSharesAndOrdering(t *testing.T) {
	records := []dataset.DailyRecord{heatmapRecord("2025-03-01")}

	hm, err := BuildHeatmap(records, dataset.ModelOverall)
	require.NoError(t, err)

	// Sources follow the canonical category order, topics sort by count.
	require.Len(t, hm.Sources, 2)
	assert.Equal(t, "Forum", hm.Sources[0].Name)
	assert.Equal(t, "Social Media", hm.Sources[1].Name)
	assert.Equal(t, "social-media", hm.Sources[1].Slug)

	require.Len(t, hm.Topics, 2)
	assert.Equal(t, "Performance and Architecture", hm.Topics[0].Name)

	require.Len(t, hm.Cells, 4)
	top := hm.Cells[0]
	assert.Equal(t, "Forum", top.Source)
	assert.Equal(t, "Performance and Architecture", top.Topic)
	// 2/3 source share x 2/3 topic share.
	assert.InDelta(t, 44.44, top.MentionRate, 0.01)
	assert.Equal(t, 2, top.SampleCount)
	assert.Equal(t, "strong performance", top.Example)

	last := hm.Cells[3]
	assert.InDelta(t, 11.11, last.MentionRate, 0.01)
	assert.Equal(t, 1, last.SampleCount)
}

func TestBuildHeatmapFoldsNonCanonicalSources(t *testing.T) {
	record := day("2025-03-01", &dataset.ModelMetrics{
		BrandDomains: map[string][]string{
			"Acme": {"www.gov.cn", "en.wikipedia.org", "zhihu.com"},
		},
		SentimentDetail: map[string]dataset.AspectDetail{
			"Acme": {PositiveAspects: []string{"strong performance"}},
		},
	})

	hm, err := BuildHeatmap([]dataset.DailyRecord{record}, dataset.ModelOverall)
	require.NoError(t, err)

	canonical := make(map[string]bool)
	for _, c := range taxonomy.CanonicalCategories {
		canonical[c] = true
	}
	names := make([]string, 0, len(hm.Sources))
	for _, src := range hm.Sources {
		assert.True(t, canonical[src.Name], "non-canonical source %q", src.Name)
		names = append(names, src.Name)
	}
	// Government folds into News, the wiki into Knowledge Base.
	assert.Equal(t, []string{"News", "Forum", "Knowledge Base"}, names)
}

func TestBuildHeatmapDeterministic(t *testing.T) {
	records := []dataset.DailyRecord{heatmapRecord("2025-03-01"), heatmapRecord("2025-03-02")}

	first, err := BuildHeatmap(records, dataset.ModelOverall)
	require.NoError(t, err)
	second, err := BuildHeatmap(records, dataset.ModelOverall)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestBuildHeatmapEmptyAxes(t *testing.T) {
	noAspects := day("2025-03-01", &dataset.ModelMetrics{
		BrandDomains: map[string][]string{"Acme": {"zhihu.com"}},
	})
	_, err := BuildHeatmap([]dataset.DailyRecord{noAspects}, dataset.ModelOverall)
	assert.ErrorIs(t, err, ErrEmptyHeatmap)

	_, err = BuildHeatmap(nil, dataset.ModelOverall)
	assert.ErrorIs(t, err, ErrEmptyHeatmap)
}

func TestBuildHeatmapSkipsUnmatchedAspects(t *testing.T) {
	record := day("2025-03-01", &dataset.ModelMetrics{
		BrandDomains: map[string][]string{"Acme": {"zhihu.com"}},
		SentimentDetail: map[string]dataset.AspectDetail{
			"Acme": {PositiveAspects: []string{"lovely color"}},
		},
	})
	_, err := BuildHeatmap([]dataset.DailyRecord{record}, dataset.ModelOverall)
	assert.ErrorIs(t, err, ErrEmptyHeatmap)
}
