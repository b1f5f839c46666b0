package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "rentals", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "rentals", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	StoreQueries = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "rentals", Name: "store_queries_total", Help: "Store operations."},
		[]string{"op", "result"},
	)
	StoreLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "rentals", Name: "store_query_duration_seconds",
			Help:    "Store operation duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)
	IntakeNights = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "rentals", Name: "intake_nights_total", Help: "Nights received through external intake."},
		[]string{"origin", "result"}, // result: inserted|skipped
	)
	ImportRows = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "rentals", Name: "import_rows_total", Help: "Spreadsheet rows processed by import."},
		[]string{"result"}, // result: imported|skipped|error
	)
	LimiterEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "rentals", Name: "limiter_events_total", Help: "Rate limiter decisions."},
		[]string{"backend", "decision"}, // decision: allow|deny|error
	)
)

// Serve exposes reg on a separate listener when addr is set.
func Serve(addr string, reg *prometheus.Registry) {
	if addr == "" {
		return // disabled
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", MetricsHandler(reg))

	go func() {
		srv := &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		log.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
}

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, StoreQueries, StoreLatency, IntakeNights, ImportRows, LimiterEvents)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveQuery(op string, dur time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	StoreQueries.WithLabelValues(op, result).Inc()
	StoreLatency.WithLabelValues(op).Observe(dur.Seconds())
}

func ObserveIntake(origin string, inserted, skipped int) {
	IntakeNights.WithLabelValues(origin, "inserted").Add(float64(inserted))
	IntakeNights.WithLabelValues(origin, "skipped").Add(float64(skipped))
}

func ObserveImport(imported, skipped, failed int) {
	ImportRows.WithLabelValues("imported").Add(float64(imported))
	ImportRows.WithLabelValues("skipped").Add(float64(skipped))
	ImportRows.WithLabelValues("error").Add(float64(failed))
}

func ObserveLimiter(backend, decision string) { // decision: allow|deny|error
	LimiterEvents.WithLabelValues(backend, decision).Inc()
}
