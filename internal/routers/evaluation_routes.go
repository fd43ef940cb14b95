package routers

import (
	"codeeditor/internal/handlers"
	"codeeditor/internal/middleware"
	"codeeditor/internal/models"

	"github.com/go-chi/chi/v5"
)

func EvaluationRoutes(r *chi.Mux, evaluationHandler *handlers.EvaluationHandler, jwtSecret string) {
	run := r.With(
		middleware.OptionalAuth(jwtSecret),
		middleware.ValidateRequest[*models.EvaluateRequest](),
	)
	run.Post("/api/execute/run", evaluationHandler.RunHandler)
	run.Post("/api/run", evaluationHandler.RunHandler)

	r.Get("/api/execute/languages", evaluationHandler.LanguagesHandler)
}
