package common

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	apperrors "github.com/sngm3741/reststop-ratings/api/pkg/errors"
)

// WriteJSON serializes payload to JSON with status and logs on failure.
func WriteJSON(logger zerolog.Logger, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error().Err(err).Msg("JSON エンコードに失敗")
	}
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// StatusFor maps an application error to its HTTP status.
func StatusFor(err error) int {
	switch apperrors.TypeOf(err) {
	case apperrors.ErrorTypeValidation:
		return http.StatusBadRequest
	case apperrors.ErrorTypeUnauthorized:
		return http.StatusForbidden
	case apperrors.ErrorTypeNotFound:
		return http.StatusNotFound
	case apperrors.ErrorTypeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// WriteError writes {"success":false,"error":...}. Store and unexpected errors are
// logged and reported with a generic message.
func WriteError(logger zerolog.Logger, w http.ResponseWriter, err error) {
	status := StatusFor(err)
	message := apperrors.MessageOf(err, "internal error")
	if status == http.StatusInternalServerError {
		logger.Error().Err(err).Msg("request failed")
		message = "internal error"
	}
	WriteJSON(logger, w, status, ErrorResponse{Success: false, Error: message})
}

// WriteBadRequest reports a malformed request body or parameter.
func WriteBadRequest(logger zerolog.Logger, w http.ResponseWriter, message string) {
	WriteJSON(logger, w, http.StatusBadRequest, ErrorResponse{Success: false, Error: message})
}
