package routers

import (
	"codeeditor/internal/handlers"
	"codeeditor/internal/middleware"
	"codeeditor/internal/models"

	"github.com/go-chi/chi/v5"
)

func AuthRoutes(r *chi.Mux, authHandler *handlers.AuthHandler, jwtSecret string) {
	r.Route("/api/auth", func(r chi.Router) {
		r.With(middleware.ValidateRequest[*models.RegisterRequest]()).Post("/register", authHandler.RegisterHandler)
		r.With(middleware.ValidateRequest[*models.LoginRequest]()).Post("/login", authHandler.LoginHandler)
		r.With(middleware.Authenticate(jwtSecret)).Get("/me", authHandler.MeHandler)
	})
}
