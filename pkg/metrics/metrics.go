// Package metrics exposes pipeline counters on a private Prometheus registry.
// All methods are safe to call on a nil *Metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "seo_content"

type Metrics struct {
	registry *prometheus.Registry

	keywordRows       *prometheus.CounterVec
	generationCalls   *prometheus.CounterVec
	generationLatency *prometheus.HistogramVec
	stageDuration     *prometheus.HistogramVec
	stageRuns         *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		keywordRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "keyword_rows_total",
			Help:      "Keyword rows by processing phase (loaded, retained, selected).",
		}, []string{"phase"}),
		generationCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generation_calls_total",
			Help:      "Text generation calls by task and outcome.",
		}, []string{"task", "outcome"}),
		generationLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_seconds",
			Help:      "Latency of text generation calls.",
			Buckets:   []float64{1, 2, 5, 10, 20, 40, 80, 160},
		}, []string{"task"}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_seconds",
			Help:      "Duration of pipeline stages.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 3, 10),
		}, []string{"stage"}),
		stageRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_runs_total",
			Help:      "Pipeline stage runs by outcome.",
		}, []string{"stage", "outcome"}),
	}

	m.registry.MustRegister(
		m.keywordRows,
		m.generationCalls,
		m.generationLatency,
		m.stageDuration,
		m.stageRuns,
		collectors.NewGoCollector(),
	)
	return m
}

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveKeywords(loaded, retained, selected int) {
	if m == nil {
		return
	}
	m.keywordRows.WithLabelValues("loaded").Add(float64(loaded))
	m.keywordRows.WithLabelValues("retained").Add(float64(retained))
	m.keywordRows.WithLabelValues("selected").Add(float64(selected))
}

func (m *Metrics) ObserveGeneration(task string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.generationCalls.WithLabelValues(task, outcome(err)).Inc()
	m.generationLatency.WithLabelValues(task).Observe(d.Seconds())
}

func (m *Metrics) ObserveStage(stage string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.stageRuns.WithLabelValues(stage, outcome(err)).Inc()
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
