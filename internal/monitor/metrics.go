package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	refreshTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "arrmon",
			Subsystem: "monitor",
			Name:      "refresh_total",
			Help:      "Total source polls by outcome",
		},
		[]string{"source", "outcome"},
	)

	trackedDownloads = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "arrmon",
			Subsystem: "monitor",
			Name:      "tracked_downloads",
			Help:      "Downloads with recorded progress history",
		},
	)

	cachedItems = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "arrmon",
			Subsystem: "monitor",
			Name:      "cached_queue_items",
			Help:      "Queue items currently cached per source",
		},
		[]string{"source"},
	)
)

func init() {
	prometheus.MustRegister(refreshTotal, trackedDownloads, cachedItems)
}
