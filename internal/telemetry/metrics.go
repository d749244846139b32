package telemetry

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"optbench/internal/harness"
)

// Metrics exports summarized benchmark rows as Prometheus series.
// It uses its own registry so repeated runs in one process stay isolated.
type Metrics struct {
	Registry *prometheus.Registry

	VariantSeconds    *prometheus.GaugeVec
	VariantMOPS       *prometheus.GaugeVec
	GroupSecondsTotal *prometheus.GaugeVec
	CheckFailures     *prometheus.CounterVec
}

// NewMetrics creates and registers the benchmark metrics.
func NewMetrics() *Metrics {
	m := &Metrics{Registry: prometheus.NewRegistry()}

	m.VariantSeconds = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "optbench_variant_seconds",
			Help: "Elapsed seconds of one variant",
		},
		[]string{"suite", "group", "variant"},
	)

	m.VariantMOPS = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "optbench_variant_mops",
			Help: "Millions of operations per second of one variant",
		},
		[]string{"suite", "group", "variant"},
	)

	m.GroupSecondsTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "optbench_group_seconds_total",
			Help: "Total elapsed seconds of one summarized group",
		},
		[]string{"suite", "group"},
	)

	m.CheckFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "optbench_check_failures_total",
			Help: "Number of failed result checks",
		},
		[]string{"suite"},
	)

	m.Registry.MustRegister(m.VariantSeconds, m.VariantMOPS, m.GroupSecondsTotal, m.CheckFailures)
	return m
}

func (m *Metrics) ObserveGroup(suite string, s harness.GroupSummary) {
	for _, r := range s.Rows {
		m.VariantSeconds.WithLabelValues(suite, s.Name, r.Label).Set(r.Seconds)
		m.VariantMOPS.WithLabelValues(suite, s.Name, r.Label).Set(r.MOPS)
	}
	m.GroupSecondsTotal.WithLabelValues(suite, s.Name).Set(s.TotalSeconds)
}

func (m *Metrics) ObserveFailure(suite, label string) {
	m.CheckFailures.WithLabelValues(suite).Inc()
}

// WriteTextfile writes the registry in the node_exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	LogDebug("wrote metrics textfile", "path", path)
	return nil
}
