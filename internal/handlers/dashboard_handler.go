package handlers

import (
	"context"
	"errors"
	"net/http"

	"codeeditor/internal/middleware"
	"codeeditor/internal/models"
	"codeeditor/internal/repositories"
	"codeeditor/internal/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type SubmissionLister interface {
	ListByUser(ctx context.Context, userID string) ([]models.Submission, error)
}

type Counter interface {
	Count(ctx context.Context) (int64, error)
}

type UserCounter interface {
	CountUsers(ctx context.Context) (int64, error)
}

type UserLookup interface {
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
}

type SnapshotReader interface {
	GetAdminSnapshot(ctx context.Context) (*models.AdminDashboard, error)
}

type DashboardHandler struct {
	submissions     SubmissionLister
	users           UserLookup
	userCounter     UserCounter
	questionCount   Counter
	submissionCount Counter
	snapshots       SnapshotReader
	logger          *zap.Logger
}

type DashboardDeps struct {
	Submissions     SubmissionLister
	Users           UserLookup
	UserCounter     UserCounter
	QuestionCount   Counter
	SubmissionCount Counter
	Snapshots       SnapshotReader
}

func NewDashboardHandler(deps DashboardDeps, logger *zap.Logger) *DashboardHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardHandler{
		submissions:     deps.Submissions,
		users:           deps.Users,
		userCounter:     deps.UserCounter,
		questionCount:   deps.QuestionCount,
		submissionCount: deps.SubmissionCount,
		snapshots:       deps.Snapshots,
		logger:          logger,
	}
}

// UserDashboardHandler is available to the user themselves and to admins.
func (h *DashboardHandler) UserDashboardHandler(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	callerID, _ := middleware.UserIDFromContext(r.Context())
	if callerID != userID && !isAdmin(r) {
		utils.JSON(w, http.StatusForbidden, models.ErrorResponse{Code: "forbidden", Message: "cannot view another user's dashboard"})
		return
	}

	user, err := h.users.GetUserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.JSON(w, http.StatusNotFound, models.ErrorResponse{Code: "user_not_found", Message: "user not found"})
			return
		}
		h.logger.Error("failed to load user", zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{Code: "internal_error", Message: "failed to load dashboard"})
		return
	}

	submissions, err := h.submissions.ListByUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to list submissions", zap.String("user_id", userID), zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{Code: "internal_error", Message: "failed to load dashboard"})
		return
	}

	dash := models.BuildUserDashboard(userID, submissions)
	dash.LastLogin = user.LastLoginAt
	utils.JSON(w, http.StatusOK, dash)
}

// AdminStatsHandler reads live counts.
func (h *DashboardHandler) AdminStatsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var stats models.AdminStats
	var err error
	if stats.TotalQuestions, err = h.questionCount.Count(ctx); err == nil {
		if stats.TotalSubmissions, err = h.submissionCount.Count(ctx); err == nil {
			stats.TotalUsers, err = h.userCounter.CountUsers(ctx)
		}
	}
	if err != nil {
		h.logger.Error("failed to compute admin stats", zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{Code: "internal_error", Message: "failed to compute stats"})
		return
	}
	utils.JSON(w, http.StatusOK, stats)
}

// AdminDashboardHandler returns the last snapshot written by the refresh job.
func (h *DashboardHandler) AdminDashboardHandler(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.snapshots.GetAdminSnapshot(r.Context())
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.JSON(w, http.StatusNotFound, models.ErrorResponse{Code: "snapshot_not_ready", Message: "dashboard has not been computed yet"})
			return
		}
		h.logger.Error("failed to load admin dashboard", zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{Code: "internal_error", Message: "failed to load dashboard"})
		return
	}
	utils.JSON(w, http.StatusOK, snapshot)
}
