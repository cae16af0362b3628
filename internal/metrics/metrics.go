// Package metrics exposes Prometheus collectors for graph evaluation and
// rewriting. Collectors live on a dedicated registry so embedding programs
// keep control of the default one.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the engine's collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry *prometheus.Registry

	graphsEvaluated  prometheus.Counter
	nodesEvaluated   prometheus.Counter
	dedupMerged      prometheus.Counter
	dedagTemporaries prometheus.Counter
	evalDuration     prometheus.Histogram
}

// New registers the collectors on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		graphsEvaluated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "minibmg_graphs_evaluated_total",
			Help: "Total number of whole-graph evaluations",
		}),
		nodesEvaluated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "minibmg_nodes_evaluated_total",
			Help: "Total number of nodes visited by graph evaluations",
		}),
		dedupMerged: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "minibmg_dedup_merged_nodes_total",
			Help: "Total number of nodes folded into an equivalent node by dedup",
		}),
		dedagTemporaries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "minibmg_dedag_temporaries_total",
			Help: "Total number of temporaries introduced by dedag",
		}),
		evalDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "minibmg_eval_duration_seconds",
			Help:    "Duration of whole-graph evaluations",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
	}
	m.registry.MustRegister(
		m.graphsEvaluated,
		m.nodesEvaluated,
		m.dedupMerged,
		m.dedagTemporaries,
		m.evalDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveEval records one evaluation over nodes nodes.
func (m *Metrics) ObserveEval(nodes int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.graphsEvaluated.Inc()
	m.nodesEvaluated.Add(float64(nodes))
	m.evalDuration.Observe(elapsed.Seconds())
}

// ObserveDedup records the number of merged nodes of one dedup pass.
func (m *Metrics) ObserveDedup(merged int) {
	if m == nil {
		return
	}
	m.dedupMerged.Add(float64(merged))
}

// ObserveDedag records the prelude size of one dedag pass.
func (m *Metrics) ObserveDedag(temporaries int) {
	if m == nil {
		return
	}
	m.dedagTemporaries.Add(float64(temporaries))
}
