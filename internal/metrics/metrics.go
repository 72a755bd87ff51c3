// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the collectors used by the HTTP layer and the services.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	requests       *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	expenses       *prometheus.CounterVec
	joinCodeRetry  prometheus.Counter
	simplifiedTxns prometheus.Histogram
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "splitledger",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "splitledger",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		expenses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "splitledger",
			Name:      "expenses_created_total",
			Help:      "Expenses recorded, split by kind (expense or settlement).",
		}, []string{"kind"}),
		joinCodeRetry: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "splitledger",
			Name:      "join_code_collisions_total",
			Help:      "Join code collisions that forced a retry during group creation.",
		}),
		simplifiedTxns: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "splitledger",
			Name:      "simplified_transactions",
			Help:      "Number of transactions produced per debt simplification.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21, 34},
		}),
	}
	reg.MustRegister(m.requests, m.duration, m.expenses, m.joinCodeRetry, m.simplifiedTxns)
	return m
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, route, status).Inc()
	m.duration.WithLabelValues(method, route).Observe(seconds)
}

// ExpenseCreated counts a stored expense.
func (m *Metrics) ExpenseCreated(settlement bool) {
	if m == nil {
		return
	}
	kind := "expense"
	if settlement {
		kind = "settlement"
	}
	m.expenses.WithLabelValues(kind).Inc()
}

// JoinCodeCollision counts one retried join code.
func (m *Metrics) JoinCodeCollision() {
	if m == nil {
		return
	}
	m.joinCodeRetry.Inc()
}

// Simplified records the size of a simplification result.
func (m *Metrics) Simplified(transactions int) {
	if m == nil {
		return
	}
	m.simplifiedTxns.Observe(float64(transactions))
}
