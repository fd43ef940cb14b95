package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"

	"codeeditor/internal/models"
	"codeeditor/internal/utils"
)

type contextKey string

const validatedRequestKey contextKey = "validated_request"

const maxBodyBytes = 1 << 20

// Validator is implemented by every request body model.
type Validator interface {
	Validate() error
}

// newRequest allocates the value behind T so pointer types decode in place.
func newRequest[T Validator]() T {
	var zero T
	t := reflect.TypeOf(zero)
	if t.Kind() == reflect.Ptr {
		return reflect.New(t.Elem()).Interface().(T)
	}
	return reflect.New(t).Interface().(T)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) (int, *models.ErrorResponse) {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst)
	if err == nil {
		return 0, nil
	}
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, &models.ErrorResponse{Code: "body_too_large", Message: "Request body too large"}
	case errors.Is(err, io.EOF):
		return http.StatusBadRequest, &models.ErrorResponse{Code: "invalid_json", Message: "Request body is required"}
	default:
		return http.StatusBadRequest, &models.ErrorResponse{Code: "invalid_json", Message: "Invalid JSON in request body"}
	}
}

// ValidateRequest decodes the JSON body into T, runs its Validate method and
// stores the result in the request context for GetValidatedRequest.
func ValidateRequest[T Validator]() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			req := newRequest[T]()
			if status, errResp := decodeBody(w, r, req); errResp != nil {
				utils.JSON(w, status, *errResp)
				return
			}

			if err := req.Validate(); err != nil {
				var errResp *models.ErrorResponse
				if !errors.As(err, &errResp) {
					errResp = &models.ErrorResponse{Code: "validation_error", Message: err.Error()}
				}
				utils.JSON(w, http.StatusBadRequest, *errResp)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), validatedRequestKey, req)))
		})
	}
}

// GetValidatedRequest returns the body stored by ValidateRequest. It panics
// when the route was not wrapped with ValidateRequest[T].
func GetValidatedRequest[T any](r *http.Request) T {
	return r.Context().Value(validatedRequestKey).(T)
}
