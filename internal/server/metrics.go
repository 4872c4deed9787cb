package server

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics counts renders and submissions.
type Metrics struct {
	registry       *prom.Registry
	renders        *prom.CounterVec
	renderDuration *prom.HistogramVec
	submissions    *prom.CounterVec
	reloads        prom.Counter
}

// NewMetrics registers the server collectors on reg, or on a fresh registry
// when reg is nil.
func NewMetrics(reg *prom.Registry) *Metrics {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	m := &Metrics{
		registry: reg,
		renders: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "govuk_forms",
			Name:      "renders_total",
			Help:      "Form renders by renderer and result",
		}, []string{"renderer", "result"}),
		renderDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "govuk_forms",
			Name:      "render_duration_seconds",
			Help:      "Time spent rendering a form",
			Buckets:   prom.DefBuckets,
		}, []string{"renderer"}),
		submissions: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "govuk_forms",
			Name:      "submissions_total",
			Help:      "Form submissions by outcome",
		}, []string{"outcome"}),
		reloads: prom.NewCounter(prom.CounterOpts{
			Namespace: "govuk_forms",
			Name:      "template_reloads_total",
			Help:      "Template cache resets triggered by file changes",
		}),
	}
	reg.MustRegister(m.renders, m.renderDuration, m.submissions, m.reloads)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prom.Registry {
	return m.registry
}

func (m *Metrics) observeRender(renderer string, took time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.renders.WithLabelValues(renderer, result).Inc()
	m.renderDuration.WithLabelValues(renderer).Observe(took.Seconds())
}

func (m *Metrics) incSubmission(outcome string) {
	m.submissions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) incReload() {
	m.reloads.Inc()
}
