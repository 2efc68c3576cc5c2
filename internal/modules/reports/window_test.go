package reports

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianlabs/meridian/internal/modules/dataset"
)

func testLogger() zerolog.Logger {
	return zerolog.New(nil).Level(zerolog.Disabled)
}

// day builds one record with an overall bucket carrying the given metric
// maps. Extra model buckets can be layered on by the caller.
func day(date string, bucket *dataset.ModelMetrics) dataset.DailyRecord {
	return dataset.DailyRecord{
		Date:   date,
		Models: map[string]*dataset.ModelMetrics{dataset.ModelOverall: bucket},
	}
}

func metricsWith(mentionRate map[string]float64) *dataset.ModelMetrics {
	return &dataset.ModelMetrics{MentionRate: mentionRate}
}

func seriesOf(dates ...string) dataset.EntitySeries {
	series := make(dataset.EntitySeries, 0, len(dates))
	for _, d := range dates {
		series = append(series, day(d, metricsWith(map[string]float64{"Acme": 0.5})))
	}
	return series
}

func TestResolveWindowFiltersInclusive(t *testing.T) {
	series := seriesOf("2025-03-01", "2025-03-02", "2025-03-03", "2025-03-04", "2025-03-05")

	win, err := ResolveWindow(series, "2025-03-02", "2025-03-04")
	require.NoError(t, err)

	require.Len(t, win.Records, 3)
	assert.Equal(t, "2025-03-02", win.Records[0].Date)
	assert.Equal(t, "2025-03-04", win.Records[2].Date)
}

func TestResolveWindowEmpty(t *testing.T) {
	series := seriesOf("2025-03-01")
	_, err := ResolveWindow(series, "2025-04-01", "2025-04-07")
	assert.ErrorIs(t, err, ErrEmptyWindow)
}

func TestSinglePointClassification(t *testing.T) {
	series := seriesOf("2025-03-01", "2025-03-02", "2025-03-03", "2025-03-04")

	tests := []struct {
		name  string
		start string
		end   string
		want  bool
	}{
		{name: "one day", start: "2025-03-02", end: "2025-03-02", want: true},
		{name: "two days", start: "2025-03-01", end: "2025-03-02", want: true},
		{name: "two records over two day span", start: "2025-03-02", end: "2025-03-03", want: true},
		{name: "three day range", start: "2025-03-01", end: "2025-03-03", want: false},
		{name: "wide range few records", start: "2025-03-01", end: "2025-03-10", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			win, err := ResolveWindow(series, tt.start, tt.end)
			require.NoError(t, err)
			assert.Equal(t, tt.want, win.SinglePoint)
		})
	}
}

func TestComparisonWindowSinglePoint(t *testing.T) {
	series := seriesOf("2025-03-01", "2025-03-02", "2025-03-03")

	win, err := ResolveWindow(series, "2025-03-03", "2025-03-03")
	require.NoError(t, err)
	require.True(t, win.SinglePoint)

	// The day before the earliest filtered date, looked up in the full
	// series even though it is outside the request.
	require.Len(t, win.Comparison, 1)
	assert.Equal(t, "2025-03-02", win.Comparison[0].Date)
}

func TestComparisonWindowSinglePointNoPriorDay(t *testing.T) {
	series := seriesOf("2025-03-01")
	win, err := ResolveWindow(series, "2025-03-01", "2025-03-01")
	require.NoError(t, err)
	assert.Empty(t, win.Comparison)
}

func TestComparisonWindowMultiDay(t *testing.T) {
	series := seriesOf(
		"2025-03-01", "2025-03-02", "2025-03-03",
		"2025-03-04", "2025-03-05", "2025-03-06",
	)

	win, err := ResolveWindow(series, "2025-03-04", "2025-03-06")
	require.NoError(t, err)
	require.False(t, win.SinglePoint)

	// Same-length block ending the day before the window starts.
	require.Len(t, win.Comparison, 3)
	assert.Equal(t, "2025-03-01", win.Comparison[0].Date)
	assert.Equal(t, "2025-03-03", win.Comparison[2].Date)
}

func TestComparisonWindowGappySeries(t *testing.T) {
	series := seriesOf(
		"2025-03-02", "2025-03-03", "2025-03-04", "2025-03-05",
		"2025-03-06", "2025-03-07", "2025-03-08", "2025-03-09",
		"2025-03-10", "2025-03-12", "2025-03-14", "2025-03-15",
	)

	// Eight requested calendar days but only four records; the comparison
	// block is sized by the record count, not the calendar span.
	win, err := ResolveWindow(series, "2025-03-10", "2025-03-17")
	require.NoError(t, err)
	require.False(t, win.SinglePoint)
	require.Len(t, win.Records, 4)

	require.Len(t, win.Comparison, 4)
	assert.Equal(t, "2025-03-06", win.Comparison[0].Date)
	assert.Equal(t, "2025-03-09", win.Comparison[3].Date)
}

func TestActualRangeShiftsCollectionLag(t *testing.T) {
	series := seriesOf("2025-03-02", "2025-03-03", "2025-03-04")
	win, err := ResolveWindow(series, "2025-03-02", "2025-03-04")
	require.NoError(t, err)

	r := win.ActualRange()
	assert.Equal(t, "2025-03-01", r.Start)
	assert.Equal(t, "2025-03-03", r.End)
}
