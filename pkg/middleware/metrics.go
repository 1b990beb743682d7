package middleware

import (
	"net/http"
	"time"

	"github.com/sqlmind/sqlmind-engine/pkg/metrics"
)

// Metrics returns middleware that records request counts and latencies for
// every route. The API exposes a fixed set of paths, so the raw path is a
// bounded label.
func Metrics() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			metrics.ObserveHTTPRequest(r.Method, r.URL.Path, wrapped.statusCode, time.Since(start))
		})
	}
}
