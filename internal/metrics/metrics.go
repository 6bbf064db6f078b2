// Package metrics exposes Prometheus counters for the frontend.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry and the frontend's collectors.
type Metrics struct {
	registry *prometheus.Registry
	fetches  *prometheus.CounterVec
	signups  *prometheus.CounterVec
	cards    prometheus.Gauge
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "activities_fetch_total",
			Help: "Directory loads by result.",
		}, []string{"result"}),
		signups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "activities_signup_total",
			Help: "Participant actions by action and result.",
		}, []string{"action", "result"}),
		cards: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "activities_rendered_cards",
			Help: "Activity cards built by the last render.",
		}),
	}
	m.registry.MustRegister(m.fetches, m.signups, m.cards)
	return m
}

// ObserveFetch counts one directory load.
func (m *Metrics) ObserveFetch(result string) {
	m.fetches.WithLabelValues(result).Inc()
}

// ObserveSignup counts one finished participant action.
func (m *Metrics) ObserveSignup(action, result string) {
	m.signups.WithLabelValues(action, result).Inc()
}

// SetRenderedCards records the card count of the last render.
func (m *Metrics) SetRenderedCards(n int) {
	m.cards.Set(float64(n))
}

// Handler serves the registry in the exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
