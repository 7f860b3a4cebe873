package resolution

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds Prometheus metrics for resolution drafting.
type Metrics struct {
	ResolutionsTotal   *prometheus.CounterVec
	ResolutionDuration *prometheus.HistogramVec
	DraftCallsTotal    *prometheus.CounterVec
	DraftDuration      *prometheus.HistogramVec
}

// NewMetrics registers and returns resolution metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ResolutionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "supportflow_resolutions_total",
			Help: "Total resolutions by source and priority.",
		}, []string{"source", "priority"}),
		ResolutionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "supportflow_resolution_duration_seconds",
			Help:    "Duration of resolutions in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 9), // 1ms .. ~65s
		}, []string{"source"}),
		DraftCallsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "supportflow_draft_calls_total",
			Help: "Total generative drafting calls by provider and outcome.",
		}, []string{"provider", "outcome"}),
		DraftDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "supportflow_draft_call_duration_seconds",
			Help:    "Duration of generative drafting calls in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 9), // 0.25s .. 64s
		}, []string{"provider"}),
	}

	reg.MustRegister(
		m.ResolutionsTotal,
		m.ResolutionDuration,
		m.DraftCallsTotal,
		m.DraftDuration,
	)

	return m
}

// Hooks returns resolver Hooks that update the metrics.
func (m *Metrics) Hooks() Hooks {
	return Hooks{
		OnResolve: func(e *ResolveEvent) {
			m.ResolutionsTotal.WithLabelValues(string(e.Source), e.Priority).Inc()
			m.ResolutionDuration.WithLabelValues(string(e.Source)).Observe(e.Duration)
		},
		OnDraft: func(e *DraftEvent) {
			outcome := "success"
			if e.Reason != "" {
				outcome = string(e.Reason)
			}
			m.DraftCallsTotal.WithLabelValues(e.Provider, outcome).Inc()
			m.DraftDuration.WithLabelValues(e.Provider).Observe(e.Duration)
		},
	}
}
