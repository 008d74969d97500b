// Package observability provides Prometheus metrics and HTTP middleware
// for monitoring the chat proxy.
package observability

import "github.com/prometheus/client_golang/prometheus"

// LLMBuckets defines histogram buckets suited for LLM streaming latencies,
// ranging from 100ms to 120s.
var LLMBuckets = []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120}

var (
	// RequestsTotal counts all HTTP requests by method, status class, and route.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatproxy_requests_total",
			Help: "Total requests",
		},
		[]string{"method", "status", "path"},
	)

	// RequestDuration records HTTP request duration in seconds, including
	// the time spent relaying a stream.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chatproxy_request_duration_seconds",
			Help:    "Request duration",
			Buckets: LLMBuckets,
		},
		[]string{"method", "path"},
	)

	// StreamingConnections tracks upstream streams currently being relayed.
	StreamingConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "chatproxy_streaming_connections_active",
			Help: "Active streaming connections",
		},
	)

	// ProviderRequestsTotal counts upstream requests by provider, model and
	// upstream status code ("error" when no response was received).
	ProviderRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatproxy_provider_requests_total",
			Help: "Provider requests",
		},
		[]string{"provider", "model", "status"},
	)

	// ProviderLatency records time to upstream response headers in seconds.
	ProviderLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chatproxy_provider_latency_seconds",
			Help:    "Provider latency",
			Buckets: LLMBuckets,
		},
		[]string{"provider", "model"},
	)

	// StreamedBytesTotal counts response bytes relayed to clients per model.
	StreamedBytesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatproxy_streamed_bytes_total",
			Help: "Bytes relayed from providers to clients",
		},
		[]string{"model"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		StreamingConnections,
		ProviderRequestsTotal,
		ProviderLatency,
		StreamedBytesTotal,
	)
}
