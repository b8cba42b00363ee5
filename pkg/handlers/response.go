package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/ekaya-inc/chemmd-engine/pkg/apperrors"
	"github.com/ekaya-inc/chemmd-engine/pkg/logging"
)

// ErrorResponse writes a JSON error response and returns any encoding error.
func ErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

// WriteJSON writes a JSON response and returns any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}

// StatusForKind maps an export error kind to an HTTP status.
func StatusForKind(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindParse, apperrors.KindResolution:
		return http.StatusUnprocessableEntity
	case apperrors.KindCSVAccess, apperrors.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// WriteAppError classifies err and writes it as a JSON error response.
// Paths below basePath are made relative so the server layout never
// reaches the client. Internal errors are logged and reported generically.
func WriteAppError(w http.ResponseWriter, err error, basePath string, logger *zap.Logger) {
	appErr := apperrors.Classify(err)
	status := StatusForKind(appErr.Kind)

	message := logging.SanitizeError(basePath, appErr)
	if status == http.StatusInternalServerError {
		logger.Error("Request failed", zap.Error(err))
		message = "internal error"
	}

	if err := ErrorResponse(w, status, appErr.Kind.String(), message); err != nil {
		logger.Error("Failed to write error response", zap.Error(err))
	}
}
