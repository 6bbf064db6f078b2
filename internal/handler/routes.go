package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// RouterConfig selects the optional parts of the router.
type RouterConfig struct {
	Metrics http.Handler // served at /metrics when set
	CSRFKey []byte       // enables CSRF protection when set
}

// NewRouter builds the chi router for page.
func NewRouter(page Page, logger *zap.Logger, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware stack
	r.Use(chimiddleware.Recoverer) // recover from panics, return 500
	r.Use(chimiddleware.RequestID) // attach request IDs
	r.Use(chimiddleware.RealIP)    // trust X-Forwarded-For
	r.Use(Logger(logger))          // structured access log

	r.Get("/health", HealthCheck)
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	pages := NewPageHandler(page, logger, len(cfg.CSRFKey) > 0)
	r.Group(func(r chi.Router) {
		if len(cfg.CSRFKey) > 0 {
			r.Use(CSRF(cfg.CSRFKey))
		}
		r.Get("/", pages.Index)
		r.Post("/signup", pages.Signup)
		r.Post("/unregister", pages.Unregister)
	})
	return r
}
