package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yndnr/securetoken-go/pkg/securetoken"
)

// Set holds all application metrics, registered on a single registry.
type Set struct {
	registry *prometheus.Registry

	// Token metrics
	TokensGenerated    *prometheus.CounterVec
	GenerationAttempts *prometheus.CounterVec
	Regenerations      *prometheus.CounterVec

	// Record metrics
	RecordsCreated prometheus.Counter
	RecordsDeleted prometheus.Counter
}

var _ securetoken.Instrumentation = (*Set)(nil)

// NewSet creates the application metric set on its own registry.
func NewSet() *Set {
	registry := prometheus.NewRegistry()

	s := &Set{
		registry: registry,

		TokensGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "securetoken",
			Name:      "tokens_generated_total",
			Help:      "Tokens generated, by attribute",
		}, []string{"attribute"}),

		GenerationAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "securetoken",
			Name:      "generation_attempts_total",
			Help:      "Candidate tokens produced, including uniqueness retries",
		}, []string{"attribute"}),

		Regenerations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "securetoken",
			Name:      "regenerations_total",
			Help:      "Token regenerations, by attribute and result",
		}, []string{"attribute", "result"}),

		RecordsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "securetoken",
			Name:      "records_created_total",
			Help:      "Records created",
		}),

		RecordsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "securetoken",
			Name:      "records_deleted_total",
			Help:      "Records deleted",
		}),
	}

	registry.MustRegister(
		s.TokensGenerated,
		s.GenerationAttempts,
		s.Regenerations,
		s.RecordsCreated,
		s.RecordsDeleted,
	)

	return s
}

// Registry exposes the underlying registry so other components can
// register their own collectors.
func (s *Set) Registry() *prometheus.Registry {
	return s.registry
}

// Handler returns an HTTP handler serving the metric set in Prometheus
// exposition format.
func (s *Set) Handler() http.Handler {
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})
}

// TokenGenerated records a successful token generation and the number
// of candidates it took.
func (s *Set) TokenGenerated(attribute string, attempts int) {
	s.TokensGenerated.WithLabelValues(attribute).Inc()
	s.GenerationAttempts.WithLabelValues(attribute).Add(float64(attempts))
}

// TokenRegenerated records a regeneration attempt and its outcome.
func (s *Set) TokenRegenerated(attribute string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	s.Regenerations.WithLabelValues(attribute, result).Inc()
}
