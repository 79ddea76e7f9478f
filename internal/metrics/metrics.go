// Package metrics exposes Prometheus metrics for pipeline runs.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PipelineMetrics is safe to use from a nil pointer, in which case nothing is recorded.
type PipelineMetrics struct {
	registry *prometheus.Registry

	RunsTotal     *prometheus.CounterVec
	RunDuration   *prometheus.HistogramVec
	SourceErrors  *prometheus.CounterVec
	StageItems    *prometheus.GaugeVec
	PicksSelected *prometheus.GaugeVec
	Fallbacks     prometheus.Counter
}

func NewPipelineMetrics() *PipelineMetrics {
	registry := prometheus.NewRegistry()

	m := &PipelineMetrics{
		registry: registry,
		RunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hapdaily_runs_total",
				Help: "Pipeline runs by engine and slate outcome",
			},
			[]string{"engine", "outcome"},
		),
		RunDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hapdaily_run_duration_seconds",
				Help:    "Wall time of a pipeline run",
				Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
			},
			[]string{"engine"},
		),
		SourceErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hapdaily_source_errors_total",
				Help: "Failed runs by engine",
			},
			[]string{"engine"},
		),
		StageItems: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "hapdaily_stage_items",
				Help: "Items surviving each stage of the latest run",
			},
			[]string{"engine", "stage"},
		),
		PicksSelected: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "hapdaily_picks_selected",
				Help: "Picks in the latest slate",
			},
			[]string{"engine"},
		),
		Fallbacks: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "hapdaily_fallbacks_total",
				Help: "Runs answered by the fallback engine",
			},
		),
	}

	registry.MustRegister(
		m.RunsTotal,
		m.RunDuration,
		m.SourceErrors,
		m.StageItems,
		m.PicksSelected,
		m.Fallbacks,
	)
	return m
}

func (m *PipelineMetrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *PipelineMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Stats is the per-stage counts of one run.
type Stats struct {
	Total      int
	WithOdds   int
	Qualifying int
	Selected   int
}

func (m *PipelineMetrics) ObserveRun(engine, outcome string, started time.Time, s Stats) {
	if m == nil {
		return
	}
	m.RunsTotal.WithLabelValues(engine, outcome).Inc()
	m.RunDuration.WithLabelValues(engine).Observe(time.Since(started).Seconds())
	m.StageItems.WithLabelValues(engine, "total").Set(float64(s.Total))
	m.StageItems.WithLabelValues(engine, "with_odds").Set(float64(s.WithOdds))
	m.StageItems.WithLabelValues(engine, "qualifying").Set(float64(s.Qualifying))
	m.PicksSelected.WithLabelValues(engine).Set(float64(s.Selected))
}

func (m *PipelineMetrics) ObserveFailure(engine string) {
	if m == nil {
		return
	}
	m.SourceErrors.WithLabelValues(engine).Inc()
}

func (m *PipelineMetrics) ObserveFallback() {
	if m == nil {
		return
	}
	m.Fallbacks.Inc()
}
