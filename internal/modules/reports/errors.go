// Package reports implements the metrics aggregation and ranking engine
// behind the four report endpoints: overview, visibility, sentiment, and
// intent. Each report is a pure computation over a cached snapshot dataset;
// degraded conditions resolve to synthetic but schema-valid responses.
package reports

import "errors"

// ErrEmptyWindow is returned when no day records intersect the requested
// date range. It resolves through the fallback policy, never to the caller.
var ErrEmptyWindow = errors.New("no records in requested window")

// ErrEmptyHeatmap signals that the heatmap counters collected nothing and
// the synthetic heatmap should be used instead.
var ErrEmptyHeatmap = errors.New("heatmap counters are empty")
