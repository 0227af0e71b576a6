package session

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Session metrics are exposed on the default Prometheus registry and served
// by observability.PrometheusHandler.
var (
	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "calculator",
		Name:      "sessions_active",
		Help:      "Number of calculator sessions currently held in memory.",
	})

	createdSessions = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "calculator",
		Name:      "sessions_created_total",
		Help:      "Total number of calculator sessions created.",
	})

	expiredSessions = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "calculator",
		Name:      "sessions_expired_total",
		Help:      "Total number of calculator sessions removed after sitting idle.",
	})
)
