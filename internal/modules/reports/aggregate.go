package reports

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/meridianlabs/meridian/internal/modules/dataset"
)

// unparsableRank is the value assigned to rank entries with no leading
// numeric token.
const unparsableRank = 999

// Channel describes one metric family: how to read it from a record bucket
// and how to aggregate, sort, and display it.
type Channel struct {
	Name      string
	Ascending bool    // rank sorts ascending, everything else descending
	Default   float64 // value used when a day has no entry for a brand
	// KeepAbsent makes absent days contribute Default to the windowed mean
	// instead of being excluded. Only the rank and sentiment channels do
	// this; the policy difference is inherited behavior.
	KeepAbsent bool
	Clamp      bool    // clamp raw values to [0,1] before scaling
	Scale      float64 // output multiplier, 100 for fraction channels
	Precision  int     // display precision after scaling
	values     func(*dataset.ModelMetrics) map[string]float64
}

var (
	// ChannelVisibility is the precomputed composite score, shown as %.
	ChannelVisibility = Channel{
		Name: "visibility", Scale: 100, Precision: 2,
		values: func(m *dataset.ModelMetrics) map[string]float64 { return m.CombinedScore },
	}
	// ChannelReach is the mention rate, shown as %.
	ChannelReach = Channel{
		Name: "reach", Scale: 100, Precision: 2,
		values: func(m *dataset.ModelMetrics) map[string]float64 { return m.MentionRate },
	}
	// ChannelRank is the absolute answer position, lower is better.
	ChannelRank = Channel{
		Name: "rank", Ascending: true, Default: 1, KeepAbsent: true, Scale: 1, Precision: 1,
		values: rankValues,
	}
	// ChannelFocus is the content share, shown as %.
	ChannelFocus = Channel{
		Name: "focus", Scale: 100, Precision: 2,
		values: func(m *dataset.ModelMetrics) map[string]float64 { return m.ContentShare },
	}
	// ChannelSentiment stays in its native [0,1] range.
	ChannelSentiment = Channel{
		Name: "sentiment", KeepAbsent: true, Clamp: true, Scale: 1, Precision: 4,
		values: func(m *dataset.ModelMetrics) map[string]float64 { return m.SentimentScore },
	}
	// ChannelInfluence is the precomputed total score in its native unit.
	ChannelInfluence = Channel{
		Name: "influence", Scale: 1, Precision: 1,
		values: func(m *dataset.ModelMetrics) map[string]float64 { return m.TotalScore },
	}
)

func rankValues(m *dataset.ModelMetrics) map[string]float64 {
	if len(m.AbsoluteRank) == 0 {
		return nil
	}
	out := make(map[string]float64, len(m.AbsoluteRank))
	for brand, entry := range m.AbsoluteRank {
		out[brand] = entry.Value(unparsableRank)
	}
	return out
}

// Aggregate holds one channel's per-brand values for one window, plus the
// deterministic brand encounter order used for tie-breaking.
type Aggregate struct {
	Values map[string]float64
	Order  []string
}

// Get returns a brand's value and whether the brand was present.
func (a Aggregate) Get(brand string) (float64, bool) {
	v, ok := a.Values[brand]
	return v, ok
}

// Value returns a brand's value, or the channel default when absent.
func (a Aggregate) Value(brand string, def float64) float64 {
	if v, ok := a.Values[brand]; ok {
		return v
	}
	return def
}

// AggregateChannel computes one channel over a record list. Single-point
// mode takes each brand's entry from the last record (channel default when
// missing); windowed mode takes the arithmetic mean across days, excluding
// absent days unless the channel keeps them. Records missing the model
// bucket entirely are skipped. Values stay in the channel's native unit;
// scaling happens at the output boundary.
func AggregateChannel(records []dataset.DailyRecord, model string, ch Channel, singlePoint bool) Aggregate {
	order, perBrand := collectChannel(records, model, ch)
	values := make(map[string]float64, len(order))

	if singlePoint {
		var last map[string]float64
		for i := len(records) - 1; i >= 0 && last == nil; i-- {
			if bucket := records[i].Bucket(model); bucket != nil {
				last = ch.values(bucket)
			}
		}
		for _, brand := range order {
			v, ok := last[brand]
			if !ok {
				v = ch.Default
			}
			values[brand] = clampChannel(ch, v)
		}
		return Aggregate{Values: values, Order: order}
	}

	for _, brand := range order {
		samples := perBrand[brand]
		if len(samples) == 0 {
			values[brand] = ch.Default
			continue
		}
		values[brand] = clampChannel(ch, stat.Mean(samples, nil))
	}
	return Aggregate{Values: values, Order: order}
}

// collectChannel walks the records once, recording each brand's first-seen
// position and its per-day samples. Keys within a single record are visited
// in sorted order so the encounter order is deterministic.
func collectChannel(records []dataset.DailyRecord, model string, ch Channel) ([]string, map[string][]float64) {
	var order []string
	perBrand := make(map[string][]float64)
	days := 0

	for i := range records {
		bucket := records[i].Bucket(model)
		if bucket == nil {
			continue
		}
		days++
		dayValues := ch.values(bucket)

		dayBrands := make([]string, 0, len(dayValues))
		for brand := range dayValues {
			dayBrands = append(dayBrands, brand)
		}
		sort.Strings(dayBrands)

		for _, brand := range dayBrands {
			if _, seen := perBrand[brand]; !seen {
				order = append(order, brand)
				if ch.KeepAbsent && days > 1 {
					// Backfill the days before this brand first appeared.
					perBrand[brand] = repeatValue(ch.Default, days-1)
				} else {
					perBrand[brand] = nil
				}
			}
			perBrand[brand] = append(perBrand[brand], dayValues[brand])
		}

		if ch.KeepAbsent {
			for _, brand := range order {
				if len(perBrand[brand]) < days {
					perBrand[brand] = append(perBrand[brand], ch.Default)
				}
			}
		}
	}
	return order, perBrand
}

func repeatValue(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func clampChannel(ch Channel, v float64) float64 {
	if !ch.Clamp {
		return v
	}
	return math.Max(0, math.Min(1, v))
}

// roundTo rounds v to the given number of decimal places.
func roundTo(v float64, precision int) float64 {
	factor := math.Pow(10, float64(precision))
	return math.Round(v*factor) / factor
}
