package monitoring

import (
	"net/http"
	"strconv"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "safemed_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "safemed_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	accessDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "safemed_access_decisions_total",
			Help: "Access request decisions by outcome",
		},
		[]string{"decision"},
	)
)

// CountDecision registra una decisión approve/reject para el dashboard.
func CountDecision(decision string) {
	accessDecisionsTotal.WithLabelValues(decision).Inc()
}

// Handler expone /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// HTTPMiddleware mide requests. Las labels son deliberadamente de baja
// cardinalidad: nada de paths con ids adentro.
func HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		httpRequestsTotal.WithLabelValues(r.Method, strconv.Itoa(ww.Status())).Inc()
		httpRequestDuration.WithLabelValues(r.Method).Observe(time.Since(start).Seconds())
	})
}
