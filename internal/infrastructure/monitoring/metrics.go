// Package monitoring provides Prometheus metrics for the generation
// pipeline. HTTP-level metrics live in the middleware package.
package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Generation outcome labels
const (
	OutcomeSuccess             = "success"
	OutcomeRateLimited         = "rate_limited"
	OutcomeInsufficientCredits = "insufficient_credits"
	OutcomeBackendUnavailable  = "backend_unavailable"
	OutcomeInvalidOutput       = "invalid_output"
	OutcomeError               = "error"
)

// Metrics tracks generation pipeline counters
type Metrics struct {
	generationTotal *prometheus.CounterVec
	planTotal       *prometheus.CounterVec
}

// NewMetrics creates and registers the pipeline metrics
func NewMetrics() *Metrics {
	generationTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_generations_total",
			Help: "Recipe generation requests by tier and outcome",
		},
		[]string{"tier", "outcome"},
	)

	planTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meal_plan_builds_total",
			Help: "Meal plan build requests by outcome",
		},
		[]string{"outcome"},
	)

	prometheus.MustRegister(generationTotal, planTotal)

	return &Metrics{
		generationTotal: generationTotal,
		planTotal:       planTotal,
	}
}

// RecordGeneration counts one generation attempt
func (m *Metrics) RecordGeneration(tier, outcome string) {
	m.generationTotal.WithLabelValues(tier, outcome).Inc()
}

// RecordPlanBuild counts one meal plan build
func (m *Metrics) RecordPlanBuild(outcome string) {
	m.planTotal.WithLabelValues(outcome).Inc()
}
