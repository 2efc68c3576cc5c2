package reports

import (
	"fmt"
	"time"

	"github.com/meridianlabs/meridian/internal/modules/dataset"
)

// singlePointSpan is the widest request span still treated as a single
// snapshot rather than a multi-day average.
const singlePointSpan = 48 * time.Hour

// Window is the resolved view of one requested date range: the records that
// fall inside it, the aggregation mode, and the preceding comparison block.
type Window struct {
	Start       string
	End         string
	Records     []dataset.DailyRecord
	SinglePoint bool
	Comparison  []dataset.DailyRecord
}

// Latest returns the newest record in the window.
func (w *Window) Latest() *dataset.DailyRecord {
	if len(w.Records) == 0 {
		return nil
	}
	return &w.Records[len(w.Records)-1]
}

// ActualRange returns the display date range: the window's record dates
// shifted back by the collection lag.
func (w *Window) ActualRange() DateRange {
	return DateRange{
		Start: shiftDate(w.Records[0].Date, -collectionLagDays),
		End:   shiftDate(w.Records[len(w.Records)-1].Date, -collectionLagDays),
	}
}

// ResolveWindow filters the series to start ≤ date ≤ end, classifies the
// aggregation mode, and derives the comparison block:
//   - single-point mode compares against the one day before the earliest
//     filtered date, looked up in the full series;
//   - windowed mode compares against a block ending the day before the
//     filtered window starts, sized by the filtered record count; on a
//     series with gaps the block is shorter than the calendar span.
func ResolveWindow(series dataset.EntitySeries, start, end string) (*Window, error) {
	var filtered []dataset.DailyRecord
	for _, rec := range series {
		if rec.Date >= start && rec.Date <= end {
			filtered = append(filtered, rec)
		}
	}
	if len(filtered) == 0 {
		return nil, fmt.Errorf("%w: %s to %s", ErrEmptyWindow, start, end)
	}

	startDay, err := time.Parse(dataset.DateFormat, start)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", start, err)
	}
	endDay, err := time.Parse(dataset.DateFormat, end)
	if err != nil {
		return nil, fmt.Errorf("invalid end date %q: %w", end, err)
	}

	win := &Window{
		Start:       start,
		End:         end,
		Records:     filtered,
		SinglePoint: len(filtered) <= 2 && endDay.Sub(startDay) <= singlePointSpan,
	}

	if win.SinglePoint {
		prevDate := shiftDate(filtered[0].Date, -1)
		if prev := series.FindDate(prevDate); prev != nil {
			win.Comparison = []dataset.DailyRecord{*prev}
		}
	} else {
		span := len(filtered)
		prevEnd := shiftDate(filtered[0].Date, -1)
		prevStart := shiftDate(prevEnd, -(span - 1))
		for _, rec := range series {
			if rec.Date >= prevStart && rec.Date <= prevEnd {
				win.Comparison = append(win.Comparison, rec)
			}
		}
	}
	return win, nil
}

// shiftDate moves a calendar date by days, returning the input unchanged if
// it does not parse.
func shiftDate(date string, days int) string {
	t, err := time.Parse(dataset.DateFormat, date)
	if err != nil {
		return date
	}
	return t.AddDate(0, 0, days).Format(dataset.DateFormat)
}
