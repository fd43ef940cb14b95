package middleware

import (
	"context"
	"net/http"

	"codeeditor/internal/models"
	"codeeditor/internal/utils"
)

const (
	userIDKey   contextKey = "user_id"
	userRoleKey contextKey = "user_role"
)

// Authenticate rejects requests without a valid bearer token and stores the
// caller's id and role in the request context.
func Authenticate(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, err := authenticate(r, secret)
			if err != nil {
				utils.JSONErrorDetails(w, http.StatusUnauthorized, "unauthorized", "Authorization token required", err.Error())
				return
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth attaches the caller's identity when a valid token is sent and
// lets anonymous requests through unchanged.
func OptionalAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if ctx, err := authenticate(r, secret); err == nil {
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AdminOnly must run after Authenticate.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if role, _ := UserRoleFromContext(r.Context()); role != models.RoleAdmin {
			utils.JSONErrorDetails(w, http.StatusForbidden, "forbidden", "Admin access required", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func authenticate(r *http.Request, secret string) (context.Context, error) {
	claims, err := utils.VerifyToken(r, secret)
	if err != nil {
		return nil, err
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, err
	}
	return WithUser(r.Context(), userID, claims.Role), nil
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

func UserRoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(userRoleKey).(string)
	return role, ok
}

// WithUser returns ctx carrying an authenticated identity.
func WithUser(ctx context.Context, userID, role string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, userRoleKey, role)
}
