// Package metrics declares the Prometheus collectors of the photoalbum server.
// Path labels are normalized by the HTTP middleware so ids never become label
// values.
package metrics

import (
	"github.com/dmitrijs2005/photoalbum/internal/server/supervisor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photoalbum_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "photoalbum_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// StoreState is 1 for the current supervisor state and 0 for the others.
	StoreState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "photoalbum_store_state",
			Help: "Store connection state (1 = current).",
		},
		[]string{"state"},
	)

	StoreConnectAttempts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "photoalbum_store_connect_attempts_total",
			Help: "Store connection attempts, successful or not.",
		},
	)

	PartialWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photoalbum_partial_writes_total",
			Help: "Album/photo mutations whose album list update failed after the photo write.",
		},
		[]string{"op"},
	)

	ReconcileRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photoalbum_reconcile_runs_total",
			Help: "Reconciliation passes by result.",
		},
		[]string{"result"},
	)

	ReconcileRepairsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photoalbum_reconcile_repairs_total",
			Help: "Album list entries fixed by reconciliation, by kind.",
		},
		[]string{"kind"},
	)
)

// ObserveStoreState is a supervisor observer keeping StoreState and
// StoreConnectAttempts current.
func ObserveStoreState(current supervisor.State) {
	for _, s := range supervisor.States {
		v := 0.0
		if s == current {
			v = 1
		}
		StoreState.WithLabelValues(s.String()).Set(v)
	}
	if current == supervisor.Connecting {
		StoreConnectAttempts.Inc()
	}
}
