package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/xavierca1/ligue-guest-sync/internal/entity"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	syncRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guestsync_runs_total",
			Help: "Total number of sync runs by final status",
		},
		[]string{"status", "dry_run"},
	)

	syncRecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guestsync_records_total",
			Help: "Records processed by outcome",
		},
		[]string{"outcome"},
	)

	syncFilteredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guestsync_filtered_total",
			Help: "Records filtered as non-guest by category",
		},
		[]string{"category"},
	)

	syncRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "guestsync_run_duration_seconds",
			Help:    "Duration of sync runs in seconds",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		},
	)

	syncLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "guestsync_last_success_timestamp_seconds",
			Help: "Unix time of the last successful sync run",
		},
	)

	integrationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "integration_errors_total",
			Help: "Total number of integration errors",
		},
		[]string{"service"},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)
		path := routePattern(r)

		httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// routePattern usa o padrão da rota do chi para não explodir a cardinalidade.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

// SyncRecorder publica os contadores de cada execução encerrada.
type SyncRecorder struct{}

func (SyncRecorder) RecordRun(run *entity.SyncRun) {
	syncRunsTotal.WithLabelValues(run.Status, strconv.FormatBool(run.DryRun)).Inc()

	if run.FinishedAt != nil {
		syncRunDuration.Observe(run.FinishedAt.Sub(run.StartedAt).Seconds())
	}
	if run.Status == entity.SyncStatusSuccess && !run.DryRun {
		syncLastSuccess.Set(float64(run.StartedAt.Unix()))
	}
	if run.Summary == nil {
		return
	}

	s := run.Summary
	syncRecordsTotal.WithLabelValues("eligible").Add(float64(s.Eligible))
	syncRecordsTotal.WithLabelValues("invalid").Add(float64(s.Invalid))
	syncRecordsTotal.WithLabelValues("created").Add(float64(s.Created))
	syncRecordsTotal.WithLabelValues("updated").Add(float64(s.Updated))
	syncRecordsTotal.WithLabelValues("no_op").Add(float64(s.NoOp))
	syncRecordsTotal.WithLabelValues("needs_review").Add(float64(s.NeedsReview))
	for cat, n := range s.FilteredBy {
		syncFilteredTotal.WithLabelValues(string(cat)).Add(float64(n))
	}
}

func RecordIntegrationError(service string) {
	integrationErrors.WithLabelValues(service).Inc()
}
