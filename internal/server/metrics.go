package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// applyTotal counts filter applications by outcome
	applyTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "womenmatters_apply_total",
		Help: "Total filter applications by result",
	}, []string{"result"}) // "ok", "empty" or "invalid"

	// activeRecords is the record count of the most recent apply
	activeRecords = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "womenmatters_active_records",
		Help: "Records in the most recently applied snapshot",
	})

	// dashboardDuration tracks full dashboard aggregation latency
	dashboardDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "womenmatters_dashboard_build_duration_seconds",
		Help:    "Dashboard aggregation duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14), // 0.1ms to ~800ms
	})

	sessionsOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "womenmatters_sessions_open",
		Help: "Dashboard sessions currently held by the hub",
	})

	sessionsExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "womenmatters_sessions_expired_total",
		Help: "Sessions closed after sitting idle",
	})

	wsClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "womenmatters_ws_clients",
		Help: "Connected WebSocket clients",
	})

	// httpRequests counts API requests by route template and status
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "womenmatters_http_requests_total",
		Help: "HTTP requests by route, method and status code",
	}, []string{"route", "method", "code"})
)
