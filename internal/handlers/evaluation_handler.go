package handlers

import (
	"context"
	"errors"
	"net"
	"net/http"

	"codeeditor/internal/evaluation"
	"codeeditor/internal/middleware"
	"codeeditor/internal/models"
	"codeeditor/internal/repositories"
	"codeeditor/internal/utils"

	"go.uber.org/zap"
)

type Evaluator interface {
	Evaluate(ctx context.Context, req models.EvaluateRequest, caller evaluation.Caller) (*models.EvaluateResponse, error)
}

type EvaluationHandler struct {
	svc       Evaluator
	languages func() []string
	logger    *zap.Logger
}

func NewEvaluationHandler(svc Evaluator, languages func() []string, logger *zap.Logger) *EvaluationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EvaluationHandler{svc: svc, languages: languages, logger: logger}
}

// RunHandler evaluates code against a question's test cases. The body is
// validated by middleware.ValidateRequest before this runs.
func (handler *EvaluationHandler) RunHandler(writer http.ResponseWriter, request *http.Request) {
	req := middleware.GetValidatedRequest[*models.EvaluateRequest](request)

	resp, err := handler.svc.Evaluate(request.Context(), *req, callerFrom(request))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.JSON(writer, http.StatusNotFound, models.ErrorResponse{
				Code:    "question_not_found",
				Message: "Question not found",
			})
			return
		}
		status, _ := statusFromError(err)
		if status >= http.StatusInternalServerError {
			handler.logger.Error("evaluation failed",
				zap.String("question_id", req.QuestionID),
				zap.String("language", req.Language),
				zap.Error(err))
		}
		writeError(writer, err)
		return
	}

	utils.JSON(writer, http.StatusOK, resp)
}

func (handler *EvaluationHandler) LanguagesHandler(writer http.ResponseWriter, request *http.Request) {
	var languages []string
	if handler.languages != nil {
		languages = handler.languages()
	}
	utils.JSON(writer, http.StatusOK, map[string][]string{"languages": languages})
}

// callerFrom keys the cooldown on the user id when the request is
// authenticated and on the client address otherwise.
func callerFrom(r *http.Request) evaluation.Caller {
	if id, ok := middleware.UserIDFromContext(r.Context()); ok {
		return evaluation.Caller{UserID: &id, ClientID: "user:" + id}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return evaluation.Caller{ClientID: "ip:" + host}
}
