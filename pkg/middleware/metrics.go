package middleware

import (
	"net/http"
	"strconv"
	"time"
)

// ObserveRequestFunc receives one call per finished request.
type ObserveRequestFunc func(method, status string, d time.Duration)

func RequestMetrics(observe ObserveRequestFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			observe(r.Method, strconv.Itoa(wrapped.statusCode), time.Since(start))
		})
	}
}
