package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Batch metrics
	BatchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orderflow_consumer_batches_total",
			Help: "Total number of inbound batches consumed",
		},
	)

	// Write metrics
	RecordsWrittenTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orderflow_consumer_records_written_total",
			Help: "Total number of canonical records upserted",
		},
	)

	RecordsFailedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orderflow_consumer_records_failed_total",
			Help: "Total number of records that failed to write, per reason",
		},
		[]string{"reason"},
	)

	UpsertDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "orderflow_consumer_upsert_duration_seconds",
			Help:    "Duration of canonical upserts in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)
