package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/upravdom/resident-portal/internal/infrastructure/observability"
	apperrors "github.com/upravdom/resident-portal/pkg/errors"
)

func respondWithJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			observability.GetLogger().Error().Err(err).Msg("failed to encode response")
		}
	}
}

// respondWithError maps an application error onto an HTTP status. Internal
// detail is logged, never sent to the client.
func respondWithError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case apperrors.ErrorTypeNotFound:
			status = http.StatusNotFound
			message = appErr.Message
		case apperrors.ErrorTypeValidation:
			status = http.StatusBadRequest
			message = appErr.Message
		case apperrors.ErrorTypeUnauthorized:
			status = http.StatusUnauthorized
			message = appErr.Message
		case apperrors.ErrorTypeForbidden:
			status = http.StatusForbidden
			message = appErr.Message
		case apperrors.ErrorTypeExternal:
			status = http.StatusBadGateway
			message = appErr.Message
		}
	}

	if status == http.StatusInternalServerError || status == http.StatusBadGateway {
		observability.GetLogger().Error().Err(err).Msg("request failed")
	}

	respondWithJSON(w, status, map[string]string{"error": message})
}

func decodeJSON(r *http.Request, dest interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return apperrors.NewValidationError("invalid request body")
	}
	return nil
}
