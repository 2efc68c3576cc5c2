package reports

import (
	"encoding/json"
	"sort"

	"github.com/meridianlabs/meridian/internal/modules/dataset"
)

// collectionLagDays is the fixed offset between a record's file date and the
// day the data was actually collected. Display dates shift back by this.
const collectionLagDays = 1

// DateRange is an inclusive calendar-day range.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// TrendPoint is one day of a per-brand time series. It marshals flat, the
// brand values as siblings of the date.
type TrendPoint struct {
	Date   string
	Values map[string]float64
}

// MarshalJSON flattens the point into {"date": ..., "<brand>": value, ...}.
func (p TrendPoint) MarshalJSON() ([]byte, error) {
	flat := make(map[string]interface{}, len(p.Values)+1)
	flat["date"] = p.Date
	for brand, value := range p.Values {
		flat[brand] = value
	}
	return json.Marshal(flat)
}

// UnmarshalJSON restores a flattened point.
func (p *TrendPoint) UnmarshalJSON(data []byte) error {
	var flat map[string]json.RawMessage
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}
	p.Values = make(map[string]float64)
	for key, raw := range flat {
		if key == "date" {
			if err := json.Unmarshal(raw, &p.Date); err != nil {
				return err
			}
			continue
		}
		var v float64
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		p.Values[key] = v
	}
	return nil
}

// BuildTrends produces the per-day brand series for one channel, dates
// shifted back by the collection lag. Single-point mode keeps only the last
// two days so the chart still shows a direction.
func BuildTrends(records []dataset.DailyRecord, model string, ch Channel, singlePoint bool) []TrendPoint {
	source := records
	if singlePoint && len(source) > 2 {
		source = source[len(source)-2:]
	}

	points := make([]TrendPoint, 0, len(source))
	for i := range source {
		bucket := source[i].Bucket(model)
		if bucket == nil {
			continue
		}
		point := TrendPoint{
			Date:   shiftDate(source[i].Date, -collectionLagDays),
			Values: make(map[string]float64),
		}
		for brand, value := range ch.values(bucket) {
			point.Values[brand] = roundTo(clampChannel(ch, value)*ch.Scale, ch.Precision)
		}
		points = append(points, point)
	}
	return points
}

// Brands returns the sorted union of brand names across trend points.
func Brands(points []TrendPoint) []string {
	seen := make(map[string]bool)
	for _, p := range points {
		for brand := range p.Values {
			seen[brand] = true
		}
	}
	brands := make([]string, 0, len(seen))
	for brand := range seen {
		brands = append(brands, brand)
	}
	sort.Strings(brands)
	return brands
}
