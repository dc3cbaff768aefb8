// Package metrics exposes the server's render counters in the Prometheus
// format. Each Metrics value owns an independent registry.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/obsidianstack/statcard/internal/card"
)

const namespace = "statcard"

// Metrics holds the server's collectors.
type Metrics struct {
	registry  *prometheus.Registry
	renders   *prometheus.CounterVec
	anomalies *prometheus.GaugeVec
	errors    prometheus.Counter
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renders_total",
			Help:      "Cards rendered, by status label.",
		}, []string{"status"}),
		anomalies: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "anomalies",
			Help:      "Anomaly count of the latest card per panel.",
		}, []string{"panel"}),
		errors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "render_errors_total",
			Help:      "Render requests rejected before reaching the card core.",
		}),
	}
	m.registry.MustRegister(m.renders, m.anomalies, m.errors)
	return m
}

// ObserveRender records one rendered card.
func (m *Metrics) ObserveRender(panelID string, vm card.ViewModel) {
	m.renders.WithLabelValues(string(vm.Analysis.StatusLabel)).Inc()
	m.anomalies.WithLabelValues(panelID).Set(float64(vm.Analysis.AnomalyCount))
}

// ObserveError records a rejected render request.
func (m *Metrics) ObserveError() {
	m.errors.Inc()
}

// Forget drops the per-panel series of an evicted panel.
func (m *Metrics) Forget(panelID string) {
	m.anomalies.DeleteLabelValues(panelID)
}

// Handler serves the /metrics scrape endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
