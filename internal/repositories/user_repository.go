package repositories

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"codeeditor/internal/models"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

// CreateUser returns ErrConflict when the username or email is taken.
func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("LOWER(username) = LOWER(?) OR LOWER(email) = LOWER(?)", user.Username, user.Email).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("user %q: %w", user.Username, ErrConflict)
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	return r.DB.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	id, err := strconv.ParseUint(userID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", userID, err)
	}
	return r.first(ctx, "id = ?", id)
}

func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.first(ctx, "LOWER(username) = ?", strings.ToLower(username))
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.first(ctx, "LOWER(email) = ?", strings.ToLower(email))
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, userID uint, at time.Time) error {
	result := r.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Update("last_login_at", at)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepository) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.User{}).Count(&count).Error
	return count, err
}

// CountActiveSince counts users whose last login is at or after since.
func (r *UserRepository) CountActiveSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.User{}).Where("last_login_at >= ?", since).Count(&count).Error
	return count, err
}

func (r *UserRepository) first(ctx context.Context, query string, args ...any) (*models.User, error) {
	var user models.User
	err := r.DB.WithContext(ctx).Where(query, args...).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
