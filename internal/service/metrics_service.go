package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Gustavo-rs/gerenciamento-alocacao/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLatency    prometheus.Observer
	cacheWrite      prometheus.Observer
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	runsTotal       *prometheus.CounterVec
	runDuration     prometheus.Observer
	slotDuration    *prometheus.HistogramVec
	unassignedTotal *prometheus.CounterVec
	runScore        prometheus.Observer
	jobsTotal       *prometheus.CounterVec
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
		Help:    "Latency for cache lookups",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for cache set operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	runsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "alocacao_runs_total",
		Help: "Allocation runs by outcome",
	}, []string{"status"})

	runDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "alocacao_run_duration_seconds",
		Help:    "Duration of whole allocation runs",
		Buckets: prometheus.DefBuckets,
	})

	slotDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "alocacao_slot_duration_seconds",
		Help:    "Duration of a single time-slot allocation",
		Buckets: prometheus.DefBuckets,
	}, []string{"status"})

	unassignedTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "alocacao_turmas_nao_alocadas_total",
		Help: "Classes left without a room, by reason",
	}, []string{"motivo"})

	runScore := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "alocacao_score_geral",
		Help:    "Overall score of allocation runs",
		Buckets: prometheus.LinearBuckets(0, 10, 11),
	})

	jobsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "alocacao_jobs_total",
		Help: "Asynchronous allocation jobs by final status",
	}, []string{"status"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheWrite, cacheHits, cacheMisses,
		runsTotal, runDuration, slotDuration, unassignedTotal, runScore, jobsTotal, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		cacheLatency:    cacheLatency,
		cacheWrite:      cacheWrite,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
		runsTotal:       runsTotal,
		runDuration:     runDuration,
		slotDuration:    slotDuration,
		unassignedTotal: unassignedTotal,
		runScore:        runScore,
		jobsTotal:       jobsTotal,
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

// Registry returns the underlying registry.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheOperation records cache hit/miss metrics.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheHits.Inc()
	} else {
		m.cacheMisses.Inc()
	}
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// ObserveRun records a finished allocation run.
func (m *MetricsService) ObserveRun(status string, duration time.Duration, scoreGeral float64) {
	if m == nil {
		return
	}
	m.runsTotal.WithLabelValues(status).Inc()
	m.runDuration.Observe(duration.Seconds())
	if status == runStatusSuccess || status == runStatusPartial {
		m.runScore.Observe(scoreGeral)
	}
}

// ObserveSlot records the processing of one time-slot.
func (m *MetricsService) ObserveSlot(failed bool, duration time.Duration) {
	if m == nil {
		return
	}
	status := "ok"
	if failed {
		status = "error"
	}
	m.slotDuration.WithLabelValues(status).Observe(duration.Seconds())
}

// RecordUnassigned counts a class left without a room.
func (m *MetricsService) RecordUnassigned(motivo models.MotivoNaoAlocacao) {
	if m == nil {
		return
	}
	m.unassignedTotal.WithLabelValues(string(motivo)).Inc()
}

// RecordJob counts an asynchronous job reaching a final status.
func (m *MetricsService) RecordJob(status models.ExecucaoStatus) {
	if m == nil {
		return
	}
	m.jobsTotal.WithLabelValues(string(status)).Inc()
}
