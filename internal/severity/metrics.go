package severity

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds Prometheus metrics for severity classification.
type Metrics struct {
	ClassificationsTotal *prometheus.CounterVec
	Scores               prometheus.Histogram
	Confidence           prometheus.Histogram
	TrainingsTotal       *prometheus.CounterVec
	TrainingDuration     prometheus.Histogram
	CorpusExamples       prometheus.Gauge
	VocabularySize       prometheus.Gauge
}

// NewMetrics registers and returns severity metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ClassificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "supportflow_severity_classifications_total",
			Help: "Total severity classifications by priority and deciding source.",
		}, []string{"priority", "source"}),
		Scores: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "supportflow_severity_score",
			Help:    "Distribution of fused severity scores.",
			Buckets: prometheus.LinearBuckets(1, 1, 10), // 1 .. 10
		}),
		Confidence: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "supportflow_severity_model_confidence",
			Help:    "Posterior probability of the statistical model's prediction.",
			Buckets: prometheus.LinearBuckets(0.1, 0.1, 10), // 0.1 .. 1.0
		}),
		TrainingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "supportflow_severity_trainings_total",
			Help: "Total model trainings by phase and outcome.",
		}, []string{"phase", "outcome"}),
		TrainingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "supportflow_severity_training_duration_seconds",
			Help:    "Duration of model training in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10), // 100us .. ~26s
		}),
		CorpusExamples: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "supportflow_severity_corpus_examples",
			Help: "Examples in the corpus behind the active model.",
		}),
		VocabularySize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "supportflow_severity_vocabulary_size",
			Help: "Distinct terms known to the active model.",
		}),
	}

	reg.MustRegister(
		m.ClassificationsTotal,
		m.Scores,
		m.Confidence,
		m.TrainingsTotal,
		m.TrainingDuration,
		m.CorpusExamples,
		m.VocabularySize,
	)

	return m
}

// Hooks returns classifier Hooks that update the metrics.
func (m *Metrics) Hooks() Hooks {
	return Hooks{
		OnClassify: func(e *ClassifyEvent) {
			source := "model"
			if e.Overridden {
				source = "keyword"
			}
			m.ClassificationsTotal.WithLabelValues(e.Result.Priority.String(), source).Inc()
			m.Scores.Observe(float64(e.Result.Score))
			m.Confidence.Observe(e.Confidence)
		},
		OnTrain: func(e *TrainEvent) {
			outcome := "success"
			if e.Err != nil {
				outcome = "error"
			}
			m.TrainingsTotal.WithLabelValues(e.Phase, outcome).Inc()
			m.TrainingDuration.Observe(e.Duration)
			if e.Err == nil {
				m.CorpusExamples.Set(float64(e.Examples))
				m.VocabularySize.Set(float64(e.Vocabulary))
			}
		},
	}
}
