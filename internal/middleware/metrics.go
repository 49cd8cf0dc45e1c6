package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rianperassoli/daily-diet-api/internal/metrics"
)

// Metrics returns an HTTP middleware that records Prometheus metrics for
// each request: a counter by (method, route, status), a duration
// histogram, and an in-flight gauge.
//
// The route label uses chi's matched pattern ("/meals/{id}"), resolved
// AFTER the handler runs — chi only knows the pattern once routing has
// happened, which is why the label is read at the end.
func Metrics() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			metrics.RequestsInFlight.Inc()
			defer metrics.RequestsInFlight.Dec()

			wrapped := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(wrapped, r)

			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = "unmatched"
			}

			metrics.RequestsTotal.WithLabelValues(
				r.Method, route, strconv.Itoa(wrapped.statusCode),
			).Inc()
			metrics.RequestDuration.WithLabelValues(
				r.Method, route,
			).Observe(time.Since(start).Seconds())
		})
	}
}
