package support

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds Prometheus metrics for the support service.
type Metrics struct {
	EscalationsTotal *prometheus.CounterVec
}

// NewMetrics registers and returns support metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		EscalationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "supportflow_escalations_total",
			Help: "Total High-priority escalation notifications by outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(m.EscalationsTotal)
	return m
}

// Hooks returns service Hooks that update the metrics.
func (m *Metrics) Hooks() Hooks {
	return Hooks{
		OnEscalate: func(outcome string) {
			m.EscalationsTotal.WithLabelValues(outcome).Inc()
		},
	}
}
