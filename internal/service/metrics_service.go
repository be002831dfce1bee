package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/eduplatform-api/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation and provides lightweight snapshots for API consumption.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLatency    prometheus.Observer
	cacheWrite      prometheus.Observer
	cacheHitRatio   prometheus.Gauge
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	codeAttempts    *prometheus.HistogramVec
	codeCollisions  *prometheus.CounterVec
	codeExhausted   *prometheus.CounterVec
	inviteFailures  prometheus.Counter

	cacheHitCount   uint64
	cacheMissCount  uint64
	requestCount    uint64
	errorCount      uint64
	collisionCount  uint64
	exhaustionCount uint64
	deadLetterCount uint64
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

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for cache set operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cache_hit_ratio",
		Help: "Ratio of cache hits to total cache lookups",
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	codeAttempts := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "code_generation_attempts",
		Help:    "Candidates drawn per identifier generation",
		Buckets: []float64{1, 2, 3, 5, 10},
	}, []string{"kind"})

	codeCollisions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "code_generation_collisions_total",
		Help: "Generated candidates rejected because they already exist",
	}, []string{"kind"})

	codeExhausted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "code_generation_exhausted_total",
		Help: "Identifier generations that ran out of attempts",
	}, []string{"kind"})

	inviteFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "invite_mail_dead_letters_total",
		Help: "Invitation emails dropped after exhausting retries",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheWrite, cacheHitRatio, cacheHits, cacheMisses,
		codeAttempts, codeCollisions, codeExhausted, inviteFailures, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:        registry,
		handler:         handler,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		cacheLatency:    cacheLatency,
		cacheWrite:      cacheWrite,
		cacheHitRatio:   cacheHitRatio,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
		codeAttempts:    codeAttempts,
		codeCollisions:  codeCollisions,
		codeExhausted:   codeExhausted,
		inviteFailures:  inviteFailures,
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
	if status >= http.StatusInternalServerError {
		atomic.AddUint64(&m.errorCount, 1)
	}
}

// RecordCacheOperation records cache hit/miss metrics and updates hit ratio.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheHits.Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
	} else {
		m.cacheMisses.Inc()
		atomic.AddUint64(&m.cacheMissCount, 1)
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	total := hits + misses
	if total > 0 {
		m.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// ObserveCodeGeneration records how many candidates a generation consumed.
func (m *MetricsService) ObserveCodeGeneration(kind models.IDKind, attempts int, exhausted bool) {
	if m == nil {
		return
	}
	label := string(kind)
	m.codeAttempts.WithLabelValues(label).Observe(float64(attempts))
	collisions := attempts - 1
	if exhausted {
		collisions = attempts
		m.codeExhausted.WithLabelValues(label).Inc()
		atomic.AddUint64(&m.exhaustionCount, 1)
	}
	if collisions > 0 {
		m.codeCollisions.WithLabelValues(label).Add(float64(collisions))
		atomic.AddUint64(&m.collisionCount, uint64(collisions))
	}
}

// RecordInviteDeadLetter counts an invitation email that could not be delivered.
func (m *MetricsService) RecordInviteDeadLetter() {
	if m == nil {
		return
	}
	m.inviteFailures.Inc()
	atomic.AddUint64(&m.deadLetterCount, 1)
}

// Snapshot returns aggregated counters.
func (m *MetricsService) Snapshot() models.SystemMetrics {
	if m == nil {
		return models.SystemMetrics{}
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)

	var cacheRatio float64
	if total := hits + misses; total > 0 {
		cacheRatio = float64(hits) / float64(total)
	}

	return models.SystemMetrics{
		RequestCount:      float64(atomic.LoadUint64(&m.requestCount)),
		ErrorCount:        float64(atomic.LoadUint64(&m.errorCount)),
		CacheHits:         float64(hits),
		CacheMisses:       float64(misses),
		CacheHitRatio:     cacheRatio,
		CodeCollisions:    float64(atomic.LoadUint64(&m.collisionCount)),
		CodeExhaustions:   float64(atomic.LoadUint64(&m.exhaustionCount)),
		InviteDeadLetters: float64(atomic.LoadUint64(&m.deadLetterCount)),
	}
}
