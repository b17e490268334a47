// Package metrics các chỉ số Prometheus của dịch vụ phân giải địa chỉ
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Cache tier labels
const (
	TierL1 = "l1"
	TierL2 = "l2"
)

// Metrics tập chỉ số dùng chung, đăng ký trên registry riêng
type Metrics struct {
	registry *prometheus.Registry

	Resolutions  *prometheus.CounterVec
	ResolveTime  prometheus.Histogram
	CacheHits    *prometheus.CounterVec
	CacheErrors  prometheus.Counter
	BatchItems   prometheus.Counter
	IndexRecords prometheus.Gauge
}

// New tạo mới Metrics và đăng ký các collector
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "address_resolutions_total",
			Help: "Number of resolved addresses by status.",
		}, []string{"status"}),
		ResolveTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "address_resolve_duration_seconds",
			Help:    "Address resolution latency in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
		}),
		CacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "resolution_cache_hits_total",
			Help: "Result cache hits by tier.",
		}, []string{"tier"}),
		CacheErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "resolution_cache_errors_total",
			Help: "Result cache errors ignored during resolution.",
		}),
		BatchItems: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "address_batch_items_total",
			Help: "Addresses submitted through batch resolution.",
		}),
		IndexRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "reference_index_records",
			Help: "Reference records loaded in the index.",
		}),
	}

	m.registry.MustRegister(
		m.Resolutions,
		m.ResolveTime,
		m.CacheHits,
		m.CacheErrors,
		m.BatchItems,
		m.IndexRecords,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveResolve ghi nhận một lần phân giải
func (m *Metrics) ObserveResolve(status string, elapsed time.Duration) {
	m.Resolutions.WithLabelValues(status).Inc()
	m.ResolveTime.Observe(elapsed.Seconds())
}

// CacheHit ghi nhận cache hit theo tầng
func (m *Metrics) CacheHit(tier string) {
	m.CacheHits.WithLabelValues(tier).Inc()
}

// Registry registry chứa các collector
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler HTTP handler cho /metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
