package routers

import (
	"codeeditor/internal/handlers"
	"codeeditor/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func DashboardRoutes(r *chi.Mux, dashboardHandler *handlers.DashboardHandler, jwtSecret string) {
	r.With(middleware.Authenticate(jwtSecret)).Get("/api/user/{userId}/dashboard", dashboardHandler.UserDashboardHandler)

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.Authenticate(jwtSecret), middleware.AdminOnly)
		r.Get("/stats", dashboardHandler.AdminStatsHandler)
		r.Get("/dashboard", dashboardHandler.AdminDashboardHandler)
	})
}
