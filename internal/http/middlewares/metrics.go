package middlewares

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	metricsOnce sync.Once
	metricsErr  error

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpInflight        *prometheus.GaugeVec
)

// RegisterMetrics initializes the HTTP metrics and returns the handler
// for /metrics. Idempotent.
func RegisterMetrics(reg prometheus.Registerer) (http.Handler, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	metricsOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests processed",
		}, []string{"method", "path", "status"})

		httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"})

		httpInflight = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "In-flight requests by method and path",
		}, []string{"method", "path"})

		for _, c := range []prometheus.Collector{httpRequestsTotal, httpRequestDuration, httpInflight} {
			if err := reg.Register(c); err != nil {
				if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
					metricsErr = err
					return
				}
			}
		}
	})
	if metricsErr != nil {
		return nil, metricsErr
	}
	return promhttp.Handler(), nil
}

// WithMetrics records request count, latency and in-flight gauge. The
// path label is the route pattern, passed by the router, so token values
// in URLs never become label cardinality.
func WithMetrics(pattern string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if httpRequestsTotal == nil {
				next.ServeHTTP(w, r)
				return
			}

			g := httpInflight.WithLabelValues(r.Method, pattern)
			g.Inc()
			defer g.Dec()

			timer := prometheus.NewTimer(httpRequestDuration.WithLabelValues(r.Method, pattern))
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			timer.ObserveDuration()

			httpRequestsTotal.WithLabelValues(r.Method, pattern, strconv.Itoa(rec.status)).Inc()
		})
	}
}
