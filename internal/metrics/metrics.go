// Package metrics defines the Prometheus collectors for generation runs and
// the dashboard server.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "coffeeshop"

// Generator collects counters for one generation process.
// A nil *Generator is valid and records nothing.
type Generator struct {
	transactions prometheus.Counter
	guests       prometheus.Counter
	items        prometheus.Counter
	revenue      prometheus.Counter
	duration     prometheus.Histogram
	lastSuccess  prometheus.Gauge
}

// NewGenerator registers the generation collectors with reg.
func NewGenerator(reg prometheus.Registerer) *Generator {
	f := promauto.With(reg)
	return &Generator{
		transactions: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "generator",
			Name:      "transactions_total",
			Help:      "Transactions written by the generator.",
		}),
		guests: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "generator",
			Name:      "guest_transactions_total",
			Help:      "Transactions written without a customer.",
		}),
		items: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "generator",
			Name:      "items_total",
			Help:      "Transaction items written by the generator.",
		}),
		revenue: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "generator",
			Name:      "revenue_total",
			Help:      "Sum of generated transaction totals.",
		}),
		duration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "generator",
			Name:      "run_duration_seconds",
			Help:      "Wall time of a complete generation run.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
		lastSuccess: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "generator",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful generation run.",
		}),
	}
}

// ObserveTransaction records one persisted transaction.
func (m *Generator) ObserveTransaction(items int, guest bool, total float64) {
	if m == nil {
		return
	}
	m.transactions.Inc()
	m.items.Add(float64(items))
	m.revenue.Add(total)
	if guest {
		m.guests.Inc()
	}
}

// ObserveRun records a completed run.
func (m *Generator) ObserveRun(d time.Duration, finished time.Time) {
	if m == nil {
		return
	}
	m.duration.Observe(d.Seconds())
	m.lastSuccess.Set(float64(finished.Unix()))
}

// HTTP collects request metrics for the dashboard.
type HTTP struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	dataset  prometheus.Gauge
}

// NewHTTP registers the dashboard collectors with reg.
func NewHTTP(reg prometheus.Registerer) *HTTP {
	f := promauto.With(reg)
	return &HTTP{
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		latency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		dataset: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_transactions",
			Help:      "Transactions in the dataset served by the dashboard.",
		}),
	}
}

// ObserveRequest records one served request.
func (m *HTTP) ObserveRequest(route, method string, code int, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, method, fmt.Sprint(code)).Inc()
	m.latency.WithLabelValues(route, method).Observe(d.Seconds())
}

// SetDatasetSize records how many transactions are being served.
func (m *HTTP) SetDatasetSize(n int) {
	if m == nil {
		return
	}
	m.dataset.Set(float64(n))
}
