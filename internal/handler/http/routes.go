package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(h.withMetrics)
	router.Use(withGZip)
	router.Use(securityHeaders)

	router.Route("/api", func(r chi.Router) {
		// secure-channel checks guard the whole API surface; each is a
		// no-op when its feature flag is off
		r.Use(h.replayProtection)
		r.Use(h.contentIntegrity)
		r.Use(h.requestSignature)

		// routes without authorization
		r.Group(func(r chi.Router) {
			r.Post("/auth/register", h.register)
			r.Post("/auth/login", h.login)
			r.Post("/auth/wallet", h.walletLogin)
			r.Post("/auth/refresh", h.refresh)
		})

		// routes behind access-token authentication
		r.Group(func(r chi.Router) {
			r.Use(h.auth)
			r.Post("/auth/logout", h.logout)
			r.Get("/auth/me", h.me)
		})

		r.Get("/version", h.getServerVersion)
	})

	router.Handle("/metrics", promhttp.Handler())

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
