package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "overlay_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "overlay_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	// Business metrics
	TokensIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "overlay_tokens_issued_total",
			Help: "Total overlay tokens issued",
		},
	)

	TasksServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "overlay_tasks_served_total",
			Help: "Total task lines served",
		},
		[]string{"via"}, // "generated" or "fallback"
	)

	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "overlay_events_published_total",
			Help: "Total events published onto channels",
		},
		[]string{"type"},
	)

	ActiveSubscriptions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "overlay_active_subscriptions",
			Help: "Currently open event stream subscriptions",
		},
	)

	// Rate limit metrics
	RateLimitHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "overlay_rate_limit_hits_total",
			Help: "Total generation requests rejected by the rate limiter",
		},
	)

	// Provider metrics
	ProviderLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "overlay_provider_latency_seconds",
			Help:    "Text generation provider call latency",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10},
		},
	)

	ProviderErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "overlay_provider_errors_total",
			Help: "Total text generation provider failures",
		},
	)
)
