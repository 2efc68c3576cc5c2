package reports

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianlabs/meridian/internal/modules/dataset"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	h := NewHandler(newTestService(t, reportSeries()), nil, testLogger())
	h.now = func() time.Time {
		return time.Date(2025, 3, 6, 12, 0, 0, 0, time.UTC)
	}
	return h
}

func TestHandleOverview(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest("GET", "/overview?startDate=2025-03-02&endDate=2025-03-05&productId=Acme%20%7C%20Server", nil)
	w := httptest.NewRecorder()
	h.HandleOverview(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp OverviewResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Len(t, resp.KPIs, 5)
	assert.Equal(t, "2025-03-01", resp.ActualDateRange.Start)
}

func TestHandleVisibilityDefaultsRange(t *testing.T) {
	h := newTestHandler(t)

	// No dates: trailing week ending "today" still covers the snapshot.
	req := httptest.NewRequest("GET", "/visibility?productId=Acme+%7C+Server", nil)
	w := httptest.NewRecorder()
	h.HandleVisibility(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp VisibilityResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.NotEmpty(t, resp.Visibility.Ranking)
}

func TestHandleSentimentUnavailableDataset(t *testing.T) {
	store := dataset.NewStore([]string{"/nonexistent/snapshot.json"}, testLogger())
	cache := dataset.NewCache(store, time.Minute)
	svc := NewService(cache, nil, NewSelfBrandResolver(nil, testLogger()), nil, testLogger())
	h := NewHandler(svc, nil, testLogger())

	req := httptest.NewRequest("GET", "/sentiment", nil)
	w := httptest.NewRecorder()
	h.HandleSentiment(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "dataset unavailable", body["error"])
}

func TestParseRequestLenientDates(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		name  string
		query string
		start string
		end   string
	}{
		{
			name:  "iso dates pass through",
			query: "startDate=2025-03-02&endDate=2025-03-05",
			start: "2025-03-02",
			end:   "2025-03-05",
		},
		{
			name:  "slash format normalized",
			query: "startDate=2025/03/02&endDate=2025/03/05",
			start: "2025-03-02",
			end:   "2025-03-05",
		},
		{
			name:  "omitted range defaults to trailing week",
			query: "",
			start: "2025-02-28",
			end:   "2025-03-06",
		},
		{
			name:  "unparsable start falls back relative to end",
			query: "startDate=not-a-date&endDate=2025-03-05",
			start: "2025-02-27",
			end:   "2025-03-05",
		},
		{
			name:  "inverted range is swapped",
			query: "startDate=2025-03-05&endDate=2025-03-02",
			start: "2025-03-02",
			end:   "2025-03-05",
		},
		{
			name:  "range preset sets the trailing window",
			query: "range=30d",
			start: "2025-02-05",
			end:   "2025-03-06",
		},
		{
			name:  "single day preset",
			query: "range=1d",
			start: "2025-03-06",
			end:   "2025-03-06",
		},
		{
			name:  "explicit dates win over preset",
			query: "range=30d&startDate=2025-03-02&endDate=2025-03-05",
			start: "2025-03-02",
			end:   "2025-03-05",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/overview?"+tt.query, nil)
			req := h.parseRequest(r)
			assert.Equal(t, tt.start, req.Start)
			assert.Equal(t, tt.end, req.End)
		})
	}
}

func TestParseRequestLocaleFromHeader(t *testing.T) {
	h := newTestHandler(t)
	r := httptest.NewRequest("GET", "/overview", nil)
	r.Header.Set("Accept-Language", "zh-CN,zh;q=0.9")

	req := h.parseRequest(r)
	assert.Equal(t, "zh-CN,zh;q=0.9", req.Locale)
}
