// Package metrics defines Prometheus instrumentation for the review service.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Embedding metrics.
var (
	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "echo",
			Name:      "embedding_requests_total",
			Help:      "Total number of embedding requests",
		},
		[]string{"provider", "model", "status"},
	)

	EmbeddingRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "echo",
			Name:      "embedding_request_duration_seconds",
			Help:      "Embedding request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider", "model"},
	)

	EmbeddingTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "echo",
			Name:      "embedding_tokens_total",
			Help:      "Total embedding tokens consumed",
		},
		[]string{"provider", "model", "type"},
	)

	EmbeddingCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "echo",
			Name:      "embedding_cache_total",
			Help:      "Embedding cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

// Model invocation metrics.
var (
	ModelRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "echo",
			Name:      "model_requests_total",
			Help:      "Total chat model invocation attempts",
		},
		[]string{"model", "status"},
	)

	ModelFallbackAdvanceTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "echo",
			Name:      "model_fallback_advance_total",
			Help:      "Times the fallback chain advanced past a failed candidate",
		},
		[]string{"model"},
	)

	ModelRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "echo",
			Name:      "model_request_duration_seconds",
			Help:      "Chat model invocation duration in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"model"},
	)
)

// Evaluation pipeline metrics.
var (
	PersonaEvaluationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "echo",
			Name:      "persona_evaluations_total",
			Help:      "Per-persona evaluation outcomes",
		},
		[]string{"kind", "status"}, // kind: editorial/audience, status: ok/failed
	)

	EvaluationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "echo",
			Name:      "evaluation_duration_seconds",
			Help:      "Full draft evaluation duration in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300},
		},
	)

	DraftCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "echo",
			Name:      "draft_cache_total",
			Help:      "Draft handoff cache hits, misses, and expiries",
		},
		[]string{"result"}, // "hit" / "miss" / "expired"
	)
)

// Register registers all pipeline metrics explicitly (no init()).
// Safe to call once per process; tests call it from TestMain.
func Register() {
	prometheus.MustRegister(
		EmbeddingRequestsTotal,
		EmbeddingRequestDuration,
		EmbeddingTokensTotal,
		EmbeddingCacheTotal,
		ModelRequestsTotal,
		ModelFallbackAdvanceTotal,
		ModelRequestDuration,
		PersonaEvaluationsTotal,
		EvaluationDuration,
		DraftCacheTotal,
	)
}
