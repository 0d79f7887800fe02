package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/zenops/zen-ops-console/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation and provides lightweight snapshots for API consumption.
type MetricsService struct {
	registry         *prometheus.Registry
	handler          http.Handler
	requestDuration  *prometheus.HistogramVec
	requestTotal     *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	upstreamTotal    *prometheus.CounterVec
	sessionLookups   *prometheus.CounterVec
	sessionHitRatio  prometheus.Gauge
	listModules      prometheus.Gauge
	exportsTotal     *prometheus.CounterVec

	sessionHitCount      uint64
	sessionMissCount     uint64
	requestCount         uint64
	requestDurationTotal uint64
	upstreamCount        uint64
	upstreamErrorCount   uint64
	upstreamDurationSum  uint64
	openLists            int64
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	upstreamDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "upstream_request_duration_seconds",
		Help:    "Duration of backend API calls in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	upstreamTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "upstream_requests_total",
		Help: "Total number of backend API calls",
	}, []string{"method", "path", "status"})

	sessionLookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "session_lookups_total",
		Help: "Session record lookups by result",
	}, []string{"result"})

	sessionHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "session_hit_ratio",
		Help: "Ratio of session lookups that found a stored record",
	})

	listModules := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "assignment_list_modules",
		Help: "Assignment list modules currently held in memory",
	})

	exportsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "assignment_exports_total",
		Help: "Assignment exports by format",
	}, []string{"format"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, upstreamDuration, upstreamTotal, sessionLookups, sessionHitRatio, listModules, exportsTotal, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:         registry,
		handler:          handler,
		requestDuration:  requestDuration,
		requestTotal:     requestTotal,
		upstreamDuration: upstreamDuration,
		upstreamTotal:    upstreamTotal,
		sessionLookups:   sessionLookups,
		sessionHitRatio:  sessionHitRatio,
		listModules:      listModules,
		exportsTotal:     exportsTotal,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics and aggregates simple stats for snapshots.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// ObserveUpstreamRequest records one backend call. Path is expected to be normalised.
func (m *MetricsService) ObserveUpstreamRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.upstreamDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.upstreamTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.upstreamCount, 1)
	atomic.AddUint64(&m.upstreamDurationSum, uint64(duration.Nanoseconds()))
	if status >= http.StatusInternalServerError {
		atomic.AddUint64(&m.upstreamErrorCount, 1)
	}
}

// RecordSessionLookup records whether a stored session record was found.
func (m *MetricsService) RecordSessionLookup(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.sessionLookups.WithLabelValues("hit").Inc()
		atomic.AddUint64(&m.sessionHitCount, 1)
	} else {
		m.sessionLookups.WithLabelValues("miss").Inc()
		atomic.AddUint64(&m.sessionMissCount, 1)
	}
	hits := atomic.LoadUint64(&m.sessionHitCount)
	misses := atomic.LoadUint64(&m.sessionMissCount)
	if total := hits + misses; total > 0 {
		m.sessionHitRatio.Set(float64(hits) / float64(total))
	}
}

// SetOpenLists reports how many list modules the registry holds.
func (m *MetricsService) SetOpenLists(n int) {
	if m == nil {
		return
	}
	atomic.StoreInt64(&m.openLists, int64(n))
	m.listModules.Set(float64(n))
}

// RecordExport counts a rendered export.
func (m *MetricsService) RecordExport(format string) {
	if m == nil {
		return
	}
	m.exportsTotal.WithLabelValues(format).Inc()
}

// Snapshot returns aggregated metrics suitable for the console status page.
func (m *MetricsService) Snapshot() models.SystemMetrics {
	if m == nil {
		return models.SystemMetrics{}
	}
	hits := atomic.LoadUint64(&m.sessionHitCount)
	misses := atomic.LoadUint64(&m.sessionMissCount)
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)
	upstream := atomic.LoadUint64(&m.upstreamCount)
	upstreamDuration := atomic.LoadUint64(&m.upstreamDurationSum)

	var sessionRatio float64
	if lookups := hits + misses; lookups > 0 {
		sessionRatio = float64(hits) / float64(lookups)
	}

	var avgRequestMs float64
	if requests > 0 {
		avgRequestMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}

	var avgUpstreamMs float64
	if upstream > 0 {
		avgUpstreamMs = float64(upstreamDuration) / float64(upstream) / float64(time.Millisecond)
	}

	return models.SystemMetrics{
		SessionHitRatio:           sessionRatio,
		RequestsTotal:             requests,
		AverageRequestDurationMs:  avgRequestMs,
		UpstreamRequests:          upstream,
		UpstreamErrors:            atomic.LoadUint64(&m.upstreamErrorCount),
		AverageUpstreamDurationMs: avgUpstreamMs,
		OpenLists:                 int(atomic.LoadInt64(&m.openLists)),
		Goroutines:                runtime.NumGoroutine(),
		GeneratedAt:               time.Now().UTC(),
	}
}
