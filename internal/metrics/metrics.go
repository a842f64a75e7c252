// Package metrics holds the Prometheus collectors exported at /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PresetsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "partydeck_presets_created_total",
		Help: "Total number of presets created.",
	})

	ShareCodeCollisionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "partydeck_share_code_collisions_total",
		Help: "Generated share codes that were already taken and had to be redrawn.",
	})

	RoundsGeneratedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "partydeck_rounds_generated_total",
		Help: "Total number of random rounds generated.",
	})

	LoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "partydeck_logins_total",
			Help: "Admin login attempts by result.",
		},
		[]string{"result"},
	)

	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "partydeck_uploads_total",
			Help: "Image uploads by content type.",
		},
		[]string{"content_type"},
	)

	SessionsPurgedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "partydeck_sessions_purged_total",
		Help: "Expired admin sessions removed.",
	})

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "partydeck_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// Login results.
const (
	LoginSuccess   = "success"
	LoginFailure   = "failure"
	LoginThrottled = "throttled"
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records request latency labelled by the chi route pattern,
// so ids in paths do not explode label cardinality.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		httpRequestDuration.
			WithLabelValues(r.Method, route, strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())
	})
}
