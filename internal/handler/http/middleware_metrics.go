package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cryptguard/cryptguard/internal/metrics"
)

// withMetrics records a request counter and latency histogram per route.
// The chi route pattern is used instead of the raw path so path parameters
// do not explode label cardinality.
func (h *Handler) withMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		lw := &responseWriter{ResponseWriter: w}
		next.ServeHTTP(lw, r)

		path := r.URL.Path
		if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
			if pattern := routeCtx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}

		status := lw.status
		if status == 0 {
			status = http.StatusOK
		}
		metrics.ObserveHTTPRequest(r.Method, path, status, time.Since(start))
	})
}
