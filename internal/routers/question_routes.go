package routers

import (
	"codeeditor/internal/handlers"
	"codeeditor/internal/middleware"
	"codeeditor/internal/models"

	"github.com/go-chi/chi/v5"
)

func QuestionRoutes(r *chi.Mux, questionHandler *handlers.QuestionHandler, jwtSecret string) {
	r.Route("/api/questions", func(r chi.Router) {
		r.Use(middleware.OptionalAuth(jwtSecret))

		r.Get("/", questionHandler.GetQuestionsHandler)
		r.Get("/random", questionHandler.GetRandomQuestionHandler)
		r.Get("/{id}", questionHandler.GetQuestionByIDHandler)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(jwtSecret))
			r.With(middleware.ValidateRequest[*models.MarkDoneRequest]()).Put("/{id}/done", questionHandler.MarkDoneHandler)

			r.Group(func(r chi.Router) {
				r.Use(middleware.AdminOnly)
				validated := r.With(middleware.ValidateRequest[*models.Question]())
				validated.Post("/", questionHandler.CreateQuestionHandler)
				validated.Post("/create", questionHandler.CreateQuestionHandler)
				validated.Put("/{id}", questionHandler.UpdateQuestionHandler)
				r.Delete("/{id}", questionHandler.DeleteQuestionHandler)
			})
		})
	})
}
