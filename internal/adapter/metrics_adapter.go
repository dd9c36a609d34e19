package adapter

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	m "mutate.dev/pkg/mutate/internal/model"
)

// MetricsAdapter records campaign progress.
type MetricsAdapter interface {
	ObserveResult(result m.MutantResult)
	ObserveSummary(summary m.Summary)
	// WriteTextfile dumps the metrics in the Prometheus text format, for the
	// node_exporter textfile collector or CI artifacts.
	WriteTextfile(path m.Path) error
}

// PrometheusMetricsAdapter keeps campaign metrics on a private registry.
type PrometheusMetricsAdapter struct {
	registry *prometheus.Registry
	mutants  *prometheus.CounterVec
	duration *prometheus.HistogramVec
	score    prometheus.Gauge
}

// NewPrometheusMetricsAdapter creates and registers the campaign metrics.
func NewPrometheusMetricsAdapter() *PrometheusMetricsAdapter {
	registry := prometheus.NewRegistry()

	a := &PrometheusMetricsAdapter{
		registry: registry,
		mutants: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mutate_mutants_total",
				Help: "Total number of tested mutants by operator and outcome",
			},
			[]string{"operator", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mutate_test_run_seconds",
				Help:    "Duration of one sandboxed test run by outcome",
				Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
			},
			[]string{"status"},
		),
		score: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mutate_mutation_score_percent",
			Help: "Mutation score of the last finished campaign",
		}),
	}

	registry.MustRegister(a.mutants, a.duration, a.score)

	return a
}

// Registry exposes the underlying registry.
func (a *PrometheusMetricsAdapter) Registry() *prometheus.Registry {
	return a.registry
}

// ObserveResult implements MetricsAdapter.
func (a *PrometheusMetricsAdapter) ObserveResult(result m.MutantResult) {
	status := result.Status().String()

	a.mutants.WithLabelValues(result.Operator, status).Inc()
	a.duration.WithLabelValues(status).Observe(result.Duration.Seconds())
}

// ObserveSummary implements MetricsAdapter.
func (a *PrometheusMetricsAdapter) ObserveSummary(summary m.Summary) {
	a.score.Set(summary.Score)
}

// WriteTextfile implements MetricsAdapter.
func (a *PrometheusMetricsAdapter) WriteTextfile(path m.Path) error {
	if err := prometheus.WriteToTextfile(string(path), a.registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}

	return nil
}
