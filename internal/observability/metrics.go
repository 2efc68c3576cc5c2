// Package observability exposes the service's Prometheus metrics.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the registered collectors. One instance is shared by the
// HTTP layer, the report engine, and the refresh scheduler.
type Metrics struct {
	ReportRequests       *prometheus.CounterVec
	ReportDuration       *prometheus.HistogramVec
	ReportFallbacks      *prometheus.CounterVec
	DatasetRefreshes     prometheus.Counter
	DatasetRefreshErrors prometheus.Counter
}

// New registers the collectors on the default registry.
func New() *Metrics {
	return &Metrics{
		ReportRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "meridian",
			Name:      "report_requests_total",
			Help:      "Report endpoint requests by report and status code.",
		}, []string{"report", "status"}),
		ReportDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "meridian",
			Name:      "report_duration_seconds",
			Help:      "Report computation latency by report.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"report"}),
		ReportFallbacks: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "meridian",
			Name:      "report_fallbacks_total",
			Help:      "Synthetic fallback responses served by report.",
		}, []string{"report"}),
		DatasetRefreshes: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "meridian",
			Name:      "dataset_refreshes_total",
			Help:      "Scheduled dataset reloads completed.",
		}),
		DatasetRefreshErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "meridian",
			Name:      "dataset_refresh_errors_total",
			Help:      "Scheduled dataset reloads that failed.",
		}),
	}
}
