package collector

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	collectionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ketchup_collection_duration_seconds",
			Help:    "Time taken to collect all resources from the cluster",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
		},
	)

	listDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ketchup_list_duration_seconds",
			Help:    "Time taken by individual paginated list calls",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30},
		},
		[]string{"scope"}, // cluster or namespaced
	)

	objectsCollected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ketchup_objects_collected_total",
			Help: "Total number of objects collected",
		},
	)

	listErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ketchup_list_errors_total",
			Help: "Total number of failed list calls",
		},
	)
)
