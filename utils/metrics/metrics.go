// Package metrics holds the Prometheus collectors of the bot. A nil *Metrics
// is valid and records nothing.
package metrics

import (
	"net/http"
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics encapsulates the bot's Prometheus instrumentation.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	panelPublishes  *prometheus.CounterVec
	flowOutcomes    *prometheus.CounterVec
	activeFlows     prometheus.Gauge
	absencesExpired prometheus.Counter
	interactions    *prometheus.CounterVec
}

// New registers the collectors on a private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	panelPublishes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "werkstatt_panel_publishes_total",
		Help: "Panel publish attempts by topic and result",
	}, []string{"topic", "result"})

	flowOutcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "werkstatt_submission_flows_total",
		Help: "Finished submission flows by topic and outcome",
	}, []string{"topic", "outcome"})

	activeFlows := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "werkstatt_submission_flows_active",
		Help: "Submission flows currently waiting for user input",
	})

	absencesExpired := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "werkstatt_absences_expired_total",
		Help: "Absences deactivated by the expiry sweep",
	})

	interactions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "werkstatt_interactions_total",
		Help: "Handled interactions by kind and error class",
	}, []string{"kind", "result"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(panelPublishes, flowOutcomes, activeFlows, absencesExpired, interactions, goroutines)

	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		panelPublishes:  panelPublishes,
		flowOutcomes:    flowOutcomes,
		activeFlows:     activeFlows,
		absencesExpired: absencesExpired,
		interactions:    interactions,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) PanelPublished(topic string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.panelPublishes.WithLabelValues(topic, result).Inc()
}

// FlowStarted and FlowFinished bracket one submission flow.
func (m *Metrics) FlowStarted() {
	if m == nil {
		return
	}
	m.activeFlows.Inc()
}

func (m *Metrics) FlowFinished(topic, outcome string) {
	if m == nil {
		return
	}
	m.activeFlows.Dec()
	m.flowOutcomes.WithLabelValues(topic, outcome).Inc()
}

func (m *Metrics) AbsencesExpired(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.absencesExpired.Add(float64(n))
}

func (m *Metrics) Interaction(kind, result string) {
	if m == nil {
		return
	}
	m.interactions.WithLabelValues(kind, result).Inc()
}
