package reports

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func aggOf(order []string, values map[string]float64) Aggregate {
	return Aggregate{Values: values, Order: order}
}

func TestBuildRankingDescendingDenseRanks(t *testing.T) {
	current := aggOf(
		[]string{"Acme", "Bolt", "Core"},
		map[string]float64{"Acme": 0.3, "Bolt": 0.8, "Core": 0.5},
	)

	items := BuildRanking(current, Aggregate{}, ChannelReach, "Acme", false)

	require.Len(t, items, 3)
	assert.Equal(t, "Bolt", items[0].Brand)
	assert.Equal(t, "Core", items[1].Brand)
	assert.Equal(t, "Acme", items[2].Brand)
	for i, item := range items {
		assert.Equal(t, i+1, item.Rank)
	}
	assert.True(t, items[2].IsSelf)
	assert.Equal(t, 80.0, items[0].Value)
}

func TestBuildRankingAscendingForRank(t *testing.T) {
	current := aggOf(
		[]string{"Acme", "Bolt"},
		map[string]float64{"Acme": 4, "Bolt": 1.5},
	)

	items := BuildRanking(current, Aggregate{}, ChannelRank, "", false)
	assert.Equal(t, "Bolt", items[0].Brand)
	assert.Equal(t, "Acme", items[1].Brand)
}

func TestBuildRankingStableTies(t *testing.T) {
	current := aggOf(
		[]string{"Zeta", "Alpha", "Mid"},
		map[string]float64{"Zeta": 0.5, "Alpha": 0.5, "Mid": 0.5},
	)

	items := BuildRanking(current, Aggregate{}, ChannelReach, "", false)
	// Ties keep the encounter order, not the lexical order.
	assert.Equal(t, "Zeta", items[0].Brand)
	assert.Equal(t, "Alpha", items[1].Brand)
	assert.Equal(t, "Mid", items[2].Brand)
}

func TestBuildRankingValueDeltas(t *testing.T) {
	current := aggOf([]string{"Acme", "Bolt"}, map[string]float64{"Acme": 0.40, "Bolt": 0.20})
	previous := aggOf([]string{"Acme"}, map[string]float64{"Acme": 0.25})

	items := BuildRanking(current, previous, ChannelReach, "", false)

	assert.Equal(t, 15.0, items[0].Delta)
	// Bolt has no comparison data.
	assert.Equal(t, 0.0, items[1].Delta)
}

func TestBuildRankingSinglePointRankDelta(t *testing.T) {
	current := aggOf(
		[]string{"Acme", "Bolt", "Core"},
		map[string]float64{"Acme": 1, "Bolt": 2, "Core": 3},
	)
	previous := aggOf(
		[]string{"Acme", "Bolt", "Core"},
		map[string]float64{"Acme": 3, "Bolt": 1, "Core": 2},
	)

	items := BuildRanking(current, previous, ChannelRank, "", true)

	// Acme moved from position 3 to position 1.
	assert.Equal(t, "Acme", items[0].Brand)
	assert.Equal(t, 2.0, items[0].Delta)
	assert.Equal(t, "Bolt", items[1].Brand)
	assert.Equal(t, -1.0, items[1].Delta)
	assert.Equal(t, "Core", items[2].Brand)
	assert.Equal(t, -1.0, items[2].Delta)
}

func TestBuildRankingWindowedRankUsesValueDelta(t *testing.T) {
	current := aggOf([]string{"Acme"}, map[string]float64{"Acme": 2})
	previous := aggOf([]string{"Acme"}, map[string]float64{"Acme": 5})

	items := BuildRanking(current, previous, ChannelRank, "", false)
	assert.Equal(t, -3.0, items[0].Delta)
}
