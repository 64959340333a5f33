package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	statementsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sqlbridge_statements_total",
			Help: "Executed SQL statements by classification and outcome.",
		},
		[]string{"kind", "outcome"},
	)

	translationDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sqlbridge_translation_duration_seconds",
			Help:    "Natural-language to SQL translation latency.",
			Buckets: prometheus.DefBuckets,
		},
	)

	translationFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sqlbridge_translation_failures_total",
			Help: "Failed translation attempts against the model endpoint.",
		},
	)
)

func init() {
	prometheus.MustRegister(statementsTotal, translationDurationSeconds, translationFailuresTotal)
}

func ObserveStatement(kind string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	statementsTotal.WithLabelValues(kind, outcome).Inc()
}

func ObserveTranslation(duration time.Duration) {
	translationDurationSeconds.Observe(duration.Seconds())
}

func IncrementTranslationFailure() {
	translationFailuresTotal.Inc()
}
