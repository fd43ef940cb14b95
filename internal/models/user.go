package models

import (
	"net/mail"
	"strings"
	"time"

	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered user in the system.
type User struct {
	gorm.Model
	Username     string     `gorm:"unique;not null" json:"username"`
	Email        string     `gorm:"unique;not null" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"`
	Role         string     `gorm:"not null;default:user" json:"role"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
}

const specialCharacters = "!@#$%^&*()-_=+[]{};:'\",.<>/?\\|`~"

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate enforces the password policy: at least 8 characters with one
// special character.
func (r *RegisterRequest) Validate() error {
	var details []ValidationErrorDetail
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(r.Email)
	if r.Username == "" {
		details = append(details, ValidationErrorDetail{Field: "username", Reason: "required"})
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		details = append(details, ValidationErrorDetail{Field: "email", Reason: "must be a valid email address"})
	}
	if len(r.Password) < 8 {
		details = append(details, ValidationErrorDetail{Field: "password", Reason: "must be at least 8 characters"})
	}
	if !strings.ContainsAny(r.Password, specialCharacters) {
		details = append(details, ValidationErrorDetail{Field: "password", Reason: "must contain a special character"})
	}
	if len(details) > 0 {
		return &ErrorResponse{Code: "validation_error", Message: "invalid registration", Details: details}
	}
	return nil
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	if strings.TrimSpace(r.Username) == "" || r.Password == "" {
		return &ErrorResponse{Code: "invalid_request", Message: "username and password are required"}
	}
	return nil
}

type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
