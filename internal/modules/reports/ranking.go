package reports

import "sort"

// RankingItem is one brand's row in a metric ranking.
type RankingItem struct {
	Brand  string  `json:"brand"`
	Value  float64 `json:"value"`
	Delta  float64 `json:"delta"`
	Rank   int     `json:"rank"`
	IsSelf bool    `json:"isSelf"`
}

// BuildRanking orders one channel's aggregate into ranked rows with deltas
// against the comparison-window aggregate. Sorting is stable, so ties keep
// the aggregate's encounter order; ranks are dense 1..N.
//
// Delta semantics differ by mode. Windowed mode and single-point non-rank
// channels use a value delta. The rank channel in single-point mode uses a
// rank-position delta (previous position minus current, positive meaning
// the brand moved up), computed by independently ranking the comparison
// aggregate. Brands with no comparison data get delta 0. The asymmetry is
// inherited behavior and intentional.
func BuildRanking(current, previous Aggregate, ch Channel, selfBrand string, singlePoint bool) []RankingItem {
	ordered := sortBrands(current, ch.Ascending)

	items := make([]RankingItem, len(ordered))
	positionDelta := ch.Ascending && singlePoint
	var prevPositions map[string]int
	if positionDelta {
		prevPositions = rankPositions(previous, ch.Ascending)
	}

	for i, brand := range ordered {
		item := RankingItem{
			Brand:  brand,
			Value:  roundTo(current.Values[brand]*ch.Scale, ch.Precision),
			Rank:   i + 1,
			IsSelf: brand == selfBrand,
		}
		if positionDelta {
			if prevRank, ok := prevPositions[brand]; ok {
				item.Delta = float64(prevRank - item.Rank)
			}
		} else if prevValue, ok := previous.Get(brand); ok {
			item.Delta = roundTo((current.Values[brand]-prevValue)*ch.Scale, ch.Precision)
		}
		items[i] = item
	}
	return items
}

// sortBrands returns the aggregate's brands in ranking order.
func sortBrands(agg Aggregate, ascending bool) []string {
	ordered := make([]string, len(agg.Order))
	copy(ordered, agg.Order)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := agg.Values[ordered[i]], agg.Values[ordered[j]]
		if ascending {
			return a < b
		}
		return a > b
	})
	return ordered
}

// rankPositions ranks an aggregate and returns each brand's 1-based
// position.
func rankPositions(agg Aggregate, ascending bool) map[string]int {
	ordered := sortBrands(agg, ascending)
	positions := make(map[string]int, len(ordered))
	for i, brand := range ordered {
		positions[brand] = i + 1
	}
	return positions
}
