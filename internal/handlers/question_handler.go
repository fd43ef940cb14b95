package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"codeeditor/internal/exec"
	"codeeditor/internal/middleware"
	"codeeditor/internal/models"
	"codeeditor/internal/repositories"
	"codeeditor/internal/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type QuestionRepo interface {
	List(ctx context.Context, filter repositories.QuestionFilter) ([]models.Question, int64, error)
	Create(ctx context.Context, q *models.Question) (*models.Question, error)
	GetByID(ctx context.Context, id string) (*models.Question, error)
	Update(ctx context.Context, id string, q *models.Question) (*models.Question, error)
	Delete(ctx context.Context, id string) error
	GetRandom(ctx context.Context, difficulty models.Difficulty) (*models.Question, error)
	MarkDone(ctx context.Context, id, language, code string) error
}

// maxPage keeps the repository's skip offset well inside int64.
const maxPage = 100000

type QuestionHandler struct {
	repo     QuestionRepo
	supports func(language string) bool
	logger   *zap.Logger
}

// NewQuestionHandler builds the question endpoints. supports decides which
// languages may be stored as solutions; nil falls back to the default
// execution language table.
func NewQuestionHandler(r QuestionRepo, supports func(language string) bool, logger *zap.Logger) *QuestionHandler {
	if supports == nil {
		table := exec.DefaultLanguageTable()
		supports = func(language string) bool {
			_, ok := table.Lookup(language)
			return ok
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuestionHandler{repo: r, supports: supports, logger: logger}
}

func isAdmin(r *http.Request) bool {
	role, _ := middleware.UserRoleFromContext(r.Context())
	return role == models.RoleAdmin
}

func publicView(r *http.Request, q models.Question) models.Question {
	if isAdmin(r) {
		return q
	}
	return q.Public()
}

func (handler *QuestionHandler) GetQuestionsHandler(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query()
	pageStr := query.Get("page")
	limitStr := query.Get("limit")

	filter := repositories.QuestionFilter{Search: query.Get("search")}
	if d := query.Get("difficulty"); d != "" {
		difficulty, ok := models.ParseDifficulty(d)
		if !ok {
			utils.JSON(writer, http.StatusBadRequest, models.ErrorResponse{
				Code:    "invalid_difficulty",
				Message: "difficulty must be one of: Easy, Medium, Hard",
			})
			return
		}
		filter.Difficulty = difficulty
	}

	// no pagination parameters means everything
	if pageStr != "" || limitStr != "" {
		filter.Page, filter.Limit = 1, 10
	}
	if pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 && p <= maxPage {
			filter.Page = p
		} else {
			utils.JSON(writer, http.StatusBadRequest, models.ErrorResponse{
				Code:    "invalid_page",
				Message: "page must be a positive integer no greater than " + strconv.Itoa(maxPage),
			})
			return
		}
	}
	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			filter.Limit = l
		} else {
			utils.JSON(writer, http.StatusBadRequest, models.ErrorResponse{
				Code:    "invalid_limit",
				Message: "limit must be a positive integer between 1 and 100",
			})
			return
		}
	}

	questions, total, err := handler.repo.List(request.Context(), filter)
	if err != nil {
		handler.logger.Error("failed to list questions", zap.Error(err))
		utils.JSON(writer, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "internal_error",
			Message: "Failed to fetch questions",
		})
		return
	}

	items := make([]models.Question, len(questions))
	for i, q := range questions {
		items[i] = publicView(request, q)
	}

	response := models.QuestionsResponse{
		Total:      int(total),
		Items:      items,
		Page:       1,
		Limit:      len(items),
		TotalPages: 1,
	}
	if filter.Limit > 0 {
		response.Page, response.Limit = filter.Page, filter.Limit
		response.TotalPages, response.HasNext, response.HasPrev = models.CalculatePaginationMeta(filter.Page, filter.Limit, int(total))
	}

	utils.JSON(writer, http.StatusOK, response)
}

func (handler *QuestionHandler) CreateQuestionHandler(writer http.ResponseWriter, request *http.Request) {
	question := middleware.GetValidatedRequest[*models.Question](request)

	created, err := handler.repo.Create(request.Context(), question)
	if err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			utils.JSON(writer, http.StatusConflict, models.ErrorResponse{
				Code:    "duplicate_question",
				Message: "A question with this title already exists",
			})
			return
		}
		handler.logger.Error("failed to create question", zap.Error(err))
		utils.JSON(writer, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "internal_error",
			Message: "Failed to create question",
		})
		return
	}

	handler.logger.Info("question created", zap.String("question_id", created.ID), zap.String("slug", created.Slug))
	writer.Header().Set("Location", "/api/questions/"+created.ID)
	utils.JSON(writer, http.StatusCreated, created)
}

func (handler *QuestionHandler) GetQuestionByIDHandler(writer http.ResponseWriter, request *http.Request) {
	id := chi.URLParam(request, "id")

	question, err := handler.repo.GetByID(request.Context(), id)
	if err != nil {
		handler.notFoundOrInternal(writer, err, "Failed to fetch question")
		return
	}

	utils.JSON(writer, http.StatusOK, publicView(request, *question))
}

func (handler *QuestionHandler) GetRandomQuestionHandler(writer http.ResponseWriter, request *http.Request) {
	var difficulty models.Difficulty
	if d := request.URL.Query().Get("difficulty"); d != "" {
		parsed, ok := models.ParseDifficulty(d)
		if !ok {
			utils.JSON(writer, http.StatusBadRequest, models.ErrorResponse{
				Code:    "invalid_difficulty",
				Message: "difficulty must be one of: Easy, Medium, Hard",
			})
			return
		}
		difficulty = parsed
	}

	question, err := handler.repo.GetRandom(request.Context(), difficulty)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.JSON(writer, http.StatusNotFound, models.ErrorResponse{
				Code:    "no_eligible_question",
				Message: "No eligible question found",
			})
			return
		}
		handler.logger.Error("failed to pick random question", zap.Error(err))
		utils.JSON(writer, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "internal_error",
			Message: "Failed to fetch question",
		})
		return
	}

	utils.JSON(writer, http.StatusOK, publicView(request, *question))
}

func (handler *QuestionHandler) UpdateQuestionHandler(writer http.ResponseWriter, request *http.Request) {
	id := chi.URLParam(request, "id")
	question := middleware.GetValidatedRequest[*models.Question](request)

	updated, err := handler.repo.Update(request.Context(), id, question)
	if err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			utils.JSON(writer, http.StatusConflict, models.ErrorResponse{
				Code:    "duplicate_question",
				Message: "A question with this title already exists",
			})
			return
		}
		handler.notFoundOrInternal(writer, err, "Failed to update question")
		return
	}

	utils.JSON(writer, http.StatusOK, updated)
}

func (handler *QuestionHandler) DeleteQuestionHandler(writer http.ResponseWriter, request *http.Request) {
	id := chi.URLParam(request, "id")

	if err := handler.repo.Delete(request.Context(), id); err != nil {
		handler.notFoundOrInternal(writer, err, "Failed to delete question")
		return
	}

	handler.logger.Info("question deleted", zap.String("question_id", id))
	writer.WriteHeader(http.StatusNoContent)
}

// MarkDoneHandler stores the caller's code as the question's solution for
// that language and flags the question as solved.
func (handler *QuestionHandler) MarkDoneHandler(writer http.ResponseWriter, request *http.Request) {
	id := chi.URLParam(request, "id")
	req := middleware.GetValidatedRequest[*models.MarkDoneRequest](request)
	if !handler.supports(req.Language) {
		utils.JSON(writer, http.StatusBadRequest, models.ErrorResponse{
			Code:    "unsupported_language",
			Message: "Unsupported language",
		})
		return
	}

	if err := handler.repo.MarkDone(request.Context(), id, req.Language, req.Code); err != nil {
		if errors.Is(err, repositories.ErrInvalid) {
			utils.JSON(writer, http.StatusBadRequest, models.ErrorResponse{
				Code:    "unsupported_language",
				Message: "Unsupported language",
			})
			return
		}
		handler.notFoundOrInternal(writer, err, "Failed to update question")
		return
	}

	utils.JSON(writer, http.StatusOK, map[string]any{"id": id, "solved": true})
}

func (handler *QuestionHandler) notFoundOrInternal(writer http.ResponseWriter, err error, message string) {
	if errors.Is(err, repositories.ErrNotFound) {
		utils.JSON(writer, http.StatusNotFound, models.ErrorResponse{
			Code:    "question_not_found",
			Message: "Question not found",
		})
		return
	}
	handler.logger.Error(message, zap.Error(err))
	utils.JSON(writer, http.StatusInternalServerError, models.ErrorResponse{
		Code:    "internal_error",
		Message: message,
	})
}
