package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/partfit/compat-engine/internal/engine"
	"github.com/partfit/compat-engine/internal/observability"
)

// NewRouter builds the HTTP routing tree for the compatibility API.
func NewRouter(logger *observability.Logger, resolver *engine.Resolver, timeout time.Duration) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))
	r.Use(requestLogger(logger))

	h := newHandlers(logger, resolver)

	r.Get("/health", h.Health)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/resolve", h.Resolve)
	})

	return r
}

func requestLogger(logger *observability.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
			next.ServeHTTP(ww, req)
			logger.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}
