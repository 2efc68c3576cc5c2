package dataset

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankEntryUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		def     float64
		want    float64
		wantErr bool
	}{
		{name: "plain number", raw: `3`, def: 999, want: 3},
		{name: "float number", raw: `2.5`, def: 999, want: 2.5},
		{name: "annotated string", raw: `"2 (tie)"`, def: 999, want: 2},
		{name: "decimal string", raw: `"1.5 shared"`, def: 999, want: 1.5},
		{name: "non-numeric string", raw: `"unranked"`, def: 999, want: 999},
		{name: "empty string", raw: `""`, def: 999, want: 999},
		{name: "object rejected", raw: `{"rank":1}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r RankEntry
			err := json.Unmarshal([]byte(tt.raw), &r)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.Value(tt.def))
		})
	}
}

func TestDailyRecordTupleUnmarshal(t *testing.T) {
	raw := `["2025-03-01", {
		"overall": {
			"mention_rate": {"Acme | Widget": 0.42},
			"absolute_rank": {"Acme | Widget": "1 (tie)"},
			"content_share": {"Acme | Widget": 0.2}
		},
		"gemini": {
			"mention_rate": {"Acme | Widget": 0.5}
		}
	}]`

	var rec DailyRecord
	require.NoError(t, json.Unmarshal([]byte(raw), &rec))
	assert.Equal(t, "2025-03-01", rec.Date)
	require.Contains(t, rec.Models, ModelOverall)
	assert.Equal(t, 0.42, rec.Models[ModelOverall].MentionRate["Acme | Widget"])
	assert.Equal(t, 1.0, rec.Models[ModelOverall].AbsoluteRank["Acme | Widget"].Value(999))

	_, err := json.Marshal(rec)
	require.NoError(t, err)

	var bad DailyRecord
	assert.Error(t, json.Unmarshal([]byte(`{"date":"2025-03-01"}`), &bad))
	assert.Error(t, json.Unmarshal([]byte(`["2025-03-01"]`), &bad))
}

func TestBucketFallback(t *testing.T) {
	rec := &DailyRecord{
		Date: "2025-03-01",
		Models: map[string]*ModelMetrics{
			ModelOverall: {MentionRate: map[string]float64{"a": 0.1}},
			ModelGemini:  {MentionRate: map[string]float64{"a": 0.9}},
			ModelClaude:  {},
		},
	}

	assert.Equal(t, 0.9, rec.Bucket(ModelGemini).MentionRate["a"])
	// Missing bucket falls back to overall.
	assert.Equal(t, 0.1, rec.Bucket(ModelGPT).MentionRate["a"])
	// Present but empty bucket also falls back.
	assert.Equal(t, 0.1, rec.Bucket(ModelClaude).MentionRate["a"])

	empty := &DailyRecord{Date: "2025-03-01", Models: map[string]*ModelMetrics{}}
	assert.Nil(t, empty.Bucket(ModelOverall))
}

func TestEntitySeriesFindDate(t *testing.T) {
	series := EntitySeries{
		{Date: "2025-03-01"},
		{Date: "2025-03-02"},
	}
	require.NotNil(t, series.FindDate("2025-03-02"))
	assert.Nil(t, series.FindDate("2025-03-03"))
}
