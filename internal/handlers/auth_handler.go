package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"codeeditor/internal/middleware"
	"codeeditor/internal/models"
	"codeeditor/internal/repositories"
	"codeeditor/internal/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository captures the persistence operations required by handlers.
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, userID uint, at time.Time) error
}

// AuthHandler manages authentication endpoints.
type AuthHandler struct {
	repo      UserRepository
	jwtSecret string
	now       func() time.Time
	logger    *zap.Logger
}

func NewAuthHandler(repo UserRepository, jwtSecret string, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{repo: repo, jwtSecret: jwtSecret, now: time.Now, logger: logger}
}

func (h *AuthHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.RegisterRequest](r)

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("failed to hash password", zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{Code: "internal_error", Message: "failed to hash password"})
		return
	}
	user := &models.User{Username: req.Username, Email: req.Email, PasswordHash: string(hash), Role: models.RoleUser}
	if err := h.repo.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			utils.JSON(w, http.StatusConflict, models.ErrorResponse{Code: "user_exists", Message: "username or email already taken"})
			return
		}
		h.logger.Error("failed to create user", zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{Code: "internal_error", Message: "failed to create user"})
		return
	}

	h.logger.Info("user registered", zap.Uint("user_id", user.ID))
	utils.JSON(w, http.StatusCreated, user)
}

func (h *AuthHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.LoginRequest](r)

	user, err := h.repo.GetUserByUsername(r.Context(), req.Username)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			h.logger.Error("failed to load user", zap.Error(err))
		}
		utils.JSON(w, http.StatusUnauthorized, models.ErrorResponse{Code: "invalid_credentials", Message: "invalid credentials"})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		utils.JSON(w, http.StatusUnauthorized, models.ErrorResponse{Code: "invalid_credentials", Message: "invalid credentials"})
		return
	}

	now := h.now().UTC()
	signed, err := utils.GenerateToken(h.jwtSecret, user.ID, user.Username, user.Role, now)
	if err != nil {
		h.logger.Error("failed to sign token", zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{Code: "internal_error", Message: "failed to sign token"})
		return
	}
	if err := h.repo.UpdateLastLogin(r.Context(), user.ID, now); err != nil {
		h.logger.Warn("failed to record login time", zap.Uint("user_id", user.ID), zap.Error(err))
	} else {
		user.LastLoginAt = &now
	}

	utils.JSON(w, http.StatusOK, models.AuthResponse{Token: signed, User: user})
}

func (h *AuthHandler) MeHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		utils.JSON(w, http.StatusUnauthorized, models.ErrorResponse{Code: "unauthorized", Message: "unauthorized"})
		return
	}
	user, err := h.repo.GetUserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.JSON(w, http.StatusNotFound, models.ErrorResponse{Code: "user_not_found", Message: "user not found"})
			return
		}
		h.logger.Error("failed to load user", zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{Code: "internal_error", Message: "failed to load user"})
		return
	}
	utils.JSON(w, http.StatusOK, user)
}
