// api/metrics/metrics.go
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cyclesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shopdeck",
		Name:      "monitoring_cycles_total",
		Help:      "Monitoring cycles run, by trigger source and outcome.",
	}, []string{"triggered_by", "status"})

	recordsFound = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "shopdeck",
		Name:      "purchase_records_found_total",
		Help:      "Raw purchase events returned by the extractor.",
	})

	recordsStored = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "shopdeck",
		Name:      "purchase_records_stored_total",
		Help:      "New purchase records written after filtering and dedup.",
	})

	cycleDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "shopdeck",
		Name:      "monitoring_cycle_duration_seconds",
		Help:      "Wall time of a full extract/filter/store cycle.",
		Buckets:   prometheus.DefBuckets,
	})
)

// ObserveCycle records the outcome of one monitoring cycle.
func ObserveCycle(triggeredBy, status string, found, stored int, duration time.Duration) {
	cyclesTotal.WithLabelValues(triggeredBy, status).Inc()
	recordsFound.Add(float64(found))
	recordsStored.Add(float64(stored))
	cycleDuration.Observe(duration.Seconds())
}
