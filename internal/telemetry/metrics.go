package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the gateway.
type Metrics struct {
	RequestTotal      *prometheus.CounterVec
	RequestDurationMs *prometheus.HistogramVec
	StreamChunksTotal *prometheus.CounterVec
	RateLimitHitTotal *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		RequestTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "clawdgw_request_total",
			Help: "Total chat-completion requests processed by the gateway.",
		}, []string{"agent", "model", "mode", "status"}),

		RequestDurationMs: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "clawdgw_request_duration_ms",
			Help:    "Request duration in milliseconds, including the agent run.",
			Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000, 60000},
		}, []string{"agent", "mode"}),

		StreamChunksTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "clawdgw_stream_chunks_total",
			Help: "Total SSE content chunks forwarded to streaming clients.",
		}, []string{"agent"}),

		RateLimitHitTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "clawdgw_rate_limit_hit_total",
			Help: "Total requests rejected by the rate limiter.",
		}, []string{"caller"}),
	}
}

// RequestLabels holds the label values for recording a completed request.
type RequestLabels struct {
	Agent      string
	Model      string
	Mode       string
	Status     string
	DurationMs float64
}

// RecordRequest records metrics for a completed request.
func (m *Metrics) RecordRequest(labels RequestLabels) {
	m.RequestTotal.WithLabelValues(labels.Agent, labels.Model, labels.Mode, labels.Status).Inc()
	m.RequestDurationMs.WithLabelValues(labels.Agent, labels.Mode).Observe(labels.DurationMs)
}

// RecordStreamChunk counts one forwarded SSE content chunk.
func (m *Metrics) RecordStreamChunk(agent string) {
	m.StreamChunksTotal.WithLabelValues(agent).Inc()
}

// RecordRateLimitHit counts one rate-limited request.
func (m *Metrics) RecordRateLimitHit(caller string) {
	m.RateLimitHitTotal.WithLabelValues(caller).Inc()
}
