// Package metrics exposes Prometheus instrumentation for the prompt library.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "promptlib"

// Recorder is what the store and repository report to.
type Recorder interface {
	Mutation(op string)
	Imported(accepted, skipped int)
	StoreFailure(op string)
	CollectionSize(n int)
}

// Nop discards every observation.
type Nop struct{}

func (Nop) Mutation(string)     {}
func (Nop) Imported(int, int)   {}
func (Nop) StoreFailure(string) {}
func (Nop) CollectionSize(int)  {}

// Metrics holds the collectors, registered on a private registry so that
// several instances can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry

	Mutations     *prometheus.CounterVec
	ImportRecords *prometheus.CounterVec
	StoreFailures *prometheus.CounterVec
	Prompts       prometheus.Gauge
}

var _ Recorder = (*Metrics)(nil)

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Mutations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mutations_total",
			Help:      "Library mutations by operation",
		}, []string{"op"}),
		ImportRecords: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_records_total",
			Help:      "Import document elements by outcome",
		}, []string{"result"}),
		StoreFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_failures_total",
			Help:      "Store reads and writes that failed and were recovered",
		}, []string{"op"}),
		Prompts: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "prompts",
			Help:      "Prompts currently in the library",
		}),
	}
}

func (m *Metrics) Mutation(op string) { m.Mutations.WithLabelValues(op).Inc() }

func (m *Metrics) Imported(accepted, skipped int) {
	m.ImportRecords.WithLabelValues("accepted").Add(float64(accepted))
	m.ImportRecords.WithLabelValues("skipped").Add(float64(skipped))
}

func (m *Metrics) StoreFailure(op string) { m.StoreFailures.WithLabelValues(op).Inc() }

func (m *Metrics) CollectionSize(n int) { m.Prompts.Set(float64(n)) }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
