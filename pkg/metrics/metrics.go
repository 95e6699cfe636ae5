// Package metrics exposes statement ingestion counters and timings to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "statement_ingest"

// Outcome labels for ingested statements.
const (
	OutcomeOK      = "ok"      // at least one transaction and no warnings
	OutcomePartial = "partial" // transactions with warnings
	OutcomeFailed  = "failed"  // no transactions
)

// Metrics holds the ingest collectors.
type Metrics struct {
	statements   *prometheus.CounterVec
	transactions *prometheus.CounterVec
	warnings     *prometheus.CounterVec
	strategies   *prometheus.CounterVec
	duration     *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		statements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "statements_total",
			Help:      "Statements ingested, by format and outcome.",
		}, []string{"format", "outcome"}),
		transactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_total",
			Help:      "Transactions emitted, by statement format.",
		}, []string{"format"}),
		warnings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "warnings_total",
			Help:      "Parse warnings emitted, by statement format.",
		}, []string{"format"}),
		strategies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pdf_strategy_total",
			Help:      "PDF segmentation strategy that produced the transactions.",
		}, []string{"strategy"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ingest_duration_seconds",
			Help:      "Time spent ingesting one statement.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"format"}),
	}

	for _, c := range []prometheus.Collector{m.statements, m.transactions, m.warnings, m.strategies, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Outcome classifies an ingest result.
func Outcome(transactions, warnings int) string {
	switch {
	case transactions == 0:
		return OutcomeFailed
	case warnings > 0:
		return OutcomePartial
	default:
		return OutcomeOK
	}
}

// ObserveIngest records one finished statement.
func (m *Metrics) ObserveIngest(format string, transactions, warnings int, elapsed time.Duration) {
	if format == "" {
		format = "unknown"
	}
	m.statements.WithLabelValues(format, Outcome(transactions, warnings)).Inc()
	m.transactions.WithLabelValues(format).Add(float64(transactions))
	m.warnings.WithLabelValues(format).Add(float64(warnings))
	m.duration.WithLabelValues(format).Observe(elapsed.Seconds())
}

// ObserveStrategy records which PDF segmentation strategy succeeded.
func (m *Metrics) ObserveStrategy(strategy string) {
	m.strategies.WithLabelValues(strategy).Inc()
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
