package handlers

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"

	"codeeditor/internal/evaluation"
	"codeeditor/internal/exec"
	"codeeditor/internal/models"
	"codeeditor/internal/ratelimit"
	"codeeditor/internal/repositories"
	"codeeditor/internal/utils"
)

// statusFromError maps domain errors to an HTTP status and error payload.
func statusFromError(err error) (int, models.ErrorResponse) {
	switch {
	case errors.Is(err, exec.ErrUnsupportedLanguage):
		return http.StatusBadRequest, models.ErrorResponse{Code: "unsupported_language", Message: "Unsupported language"}
	case errors.Is(err, evaluation.ErrInvalidRunMode):
		return http.StatusBadRequest, models.ErrorResponse{Code: "invalid_run_type", Message: "runType must be run or submit"}
	case errors.Is(err, ratelimit.ErrCooldownActive):
		return http.StatusTooManyRequests, models.ErrorResponse{Code: "cooldown_active", Message: "Please wait before submitting again"}
	case errors.Is(err, repositories.ErrNotFound):
		return http.StatusNotFound, models.ErrorResponse{Code: "not_found", Message: "Resource not found"}
	case errors.Is(err, repositories.ErrConflict):
		return http.StatusConflict, models.ErrorResponse{Code: "conflict", Message: "Resource already exists"}
	case errors.Is(err, exec.ErrExecutionBackend),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		resp := models.ErrorResponse{Code: "execution_backend_error", Message: "Execution backend error", Details: err.Error()}
		var backendErr *exec.BackendError
		if errors.As(err, &backendErr) && backendErr.Details != nil {
			resp.Details = backendErr.Details
		}
		return http.StatusInternalServerError, resp
	default:
		return http.StatusInternalServerError, models.ErrorResponse{Code: "internal_error", Message: "Internal server error"}
	}
}

func writeError(w http.ResponseWriter, err error) {
	status, body := statusFromError(err)
	var cooldown *ratelimit.CooldownError
	if errors.As(err, &cooldown) {
		w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(cooldown.RetryAfter.Seconds()))))
	}
	utils.JSON(w, status, body)
}
