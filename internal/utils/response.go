package utils

import (
	"encoding/json"
	"net/http"

	"codeeditor/internal/models"
)

// JSON writes a JSON response with status code
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// JSONErrorDetails writes an error with a machine-readable code and optional details.
func JSONErrorDetails(w http.ResponseWriter, status int, code, message string, details any) {
	JSON(w, status, models.ErrorResponse{Code: code, Message: message, Details: details})
}
