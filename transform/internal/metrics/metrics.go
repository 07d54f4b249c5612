package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Batch metrics
	BatchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orderflow_transform_batches_total",
			Help: "Total number of inbound batches processed",
		},
	)

	BatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "orderflow_transform_batch_duration_seconds",
			Help:    "Duration of batch processing in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Record metrics, labelled by projection
	RecordsInTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orderflow_transform_records_in_total",
			Help: "Total number of inbound records seen per projection",
		},
		[]string{"projection"},
	)

	RecordsOutTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orderflow_transform_records_out_total",
			Help: "Total number of outbound records emitted per projection",
		},
		[]string{"projection"},
	)

	RecordsFailedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orderflow_transform_records_failed_total",
			Help: "Total number of records that failed processing, per projection and reason",
		},
		[]string{"projection", "reason"},
	)

	// Publish metrics
	PublishErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orderflow_transform_publish_errors_total",
			Help: "Total number of curated publish failures",
		},
	)
)
