package routers

import (
	"net/http"

	"codeeditor/internal/handlers"

	"github.com/go-chi/chi/v5"
)

func HealthRoutes(r *chi.Mux, healthHandler *handlers.HealthHandler, metricsHandler http.Handler) {
	r.Get("/healthz", healthHandler.HealthzHandler)
	r.Get("/readyz", healthHandler.ReadyzHandler)
	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}
}
