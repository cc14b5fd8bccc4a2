package metrics

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Metrics holds Prometheus counters for formatting runs.
type Metrics struct {
	registry     *prometheus.Registry
	formatted    *prometheus.CounterVec
	failures     *prometheus.CounterVec
	degradations *prometheus.CounterVec
}

// New builds counters on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		formatted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rpcformat_records_formatted_total",
			Help: "Total number of records normalized, by kind",
		}, []string{"kind"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rpcformat_format_failures_total",
			Help: "Total number of records rejected, by kind and error kind",
		}, []string{"kind", "error_kind"}),
		degradations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rpcformat_degradations_total",
			Help: "Total number of values replaced by null instead of failing, by coercer",
		}, []string{"coercer"}),
	}
	m.registry.MustRegister(m.formatted, m.failures, m.degradations)
	return m
}

// Formatted increments the formatted counter for kind.
func (m *Metrics) Formatted(kind string, n int) {
	if m != nil {
		m.formatted.WithLabelValues(kind).Add(float64(n))
	}
}

// Failed increments the failure counter.
func (m *Metrics) Failed(kind, errorKind string) {
	if m != nil {
		m.failures.WithLabelValues(kind, errorKind).Inc()
	}
}

// Degraded increments the degradation counter for a coercer.
func (m *Metrics) Degraded(coercer string) {
	if m != nil {
		m.degradations.WithLabelValues(coercer).Inc()
	}
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteText writes all metrics in the Prometheus text exposition format.
func (m *Metrics) WriteText(w io.Writer) error {
	families, err := m.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}
