package api

import (
	"net/http"
	"transport-report-service/internal/api/handlers"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

type RouterConfig struct {
	Sites        *handlers.SiteHandler
	Reports      *handlers.ReportHandler
	Metrics      http.Handler
	AllowOrigins []string
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"X-Request-ID"},
	}))

	r.Get("/health", handlers.Health)
	r.Get("/sites", cfg.Sites.List)
	r.Get("/sites/{site}/report", cfg.Reports.Report)
	r.Get("/sites/{site}/summary", cfg.Reports.Summary)

	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	return r
}
