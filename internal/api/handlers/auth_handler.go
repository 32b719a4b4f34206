package handlers

import (
	"net/http"

	"github.com/upravdom/resident-portal/internal/application/services"
)

// AuthHandler serves login requests
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// TelegramLogin handles POST /api/auth/telegram
func (h *AuthHandler) TelegramLogin(w http.ResponseWriter, r *http.Request) {
	var profile services.TelegramProfile
	if err := decodeJSON(r, &profile); err != nil {
		respondWithError(w, err)
		return
	}

	user, token, err := h.authService.TelegramLogin(r.Context(), profile)
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}
