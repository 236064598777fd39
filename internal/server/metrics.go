package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// requestMetrics tracks request counts and latency. Labels stay low
// cardinality: method and status class only, never the raw path.
type requestMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newRequestMetrics(reg prometheus.Registerer) *requestMetrics {
	factory := promauto.With(reg)
	return &requestMetrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "shelfd_http_requests_total",
			Help: "HTTP requests processed, by method and status code.",
		}, []string{"method", "status"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "shelfd_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
	}
}

// withMetrics records every request into the counters.
func withMetrics(m *requestMetrics, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sr := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sr, r)

		m.requests.WithLabelValues(r.Method, strconv.Itoa(sr.status)).Inc()
		m.duration.WithLabelValues(r.Method).Observe(time.Since(start).Seconds())
	})
}
