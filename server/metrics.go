package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "lakedeck"

var (
	httpRequestLatencySeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:      "http_request_latency_seconds",
			Namespace: namespace,
			Buckets:   prometheus.DefBuckets,
			Help:      "The latency of http operations in seconds.",
		},
		[]string{"verb", "route"},
	)

	validationFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name:      "validation_failures_total",
		Namespace: namespace,
		Help:      "The total number of form submissions rejected by validation.",
	})

	connectionsSavedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name:      "connections_saved_total",
		Namespace: namespace,
		Help:      "The total number of connection upserts persisted.",
	})

	catalogNoopWritesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name:      "catalog_noop_writes_total",
		Namespace: namespace,
		Help:      "The total number of saved forms whose catalog matched the stored one.",
	})
)
