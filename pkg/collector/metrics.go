package collector

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	endpointCollectionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "portreport_endpoint_collection_duration_seconds",
			Help:    "Time taken to collect all resources of one endpoint",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60},
		},
	)

	resourceFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portreport_resource_fetch_total",
			Help: "Resource fetch attempts by resource kind and outcome",
		},
		[]string{"resource", "status"}, // services, secrets, nodes, containers, stats
	)
)

func observeFetch(resource string, ok bool) {
	status := "success"
	if !ok {
		status = "error"
	}
	resourceFetchTotal.WithLabelValues(resource, status).Inc()
}
