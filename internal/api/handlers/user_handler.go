package handlers

import (
	"net/http"

	"github.com/upravdom/resident-portal/internal/api/middleware"
	"github.com/upravdom/resident-portal/internal/application/services"
)

// UserHandler serves profile and per-user dashboard requests
type UserHandler struct {
	userService   *services.UserService
	reportService *services.ReportService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService, reportService *services.ReportService) *UserHandler {
	return &UserHandler{userService: userService, reportService: reportService}
}

// GetProfile handles GET /api/users/profile
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())
	respondWithJSON(w, http.StatusOK, user)
}

// UpdateProfile handles PUT /api/users/profile
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	var input services.UpdateProfileInput
	if err := decodeJSON(r, &input); err != nil {
		respondWithError(w, err)
		return
	}

	updated, err := h.userService.UpdateProfile(r.Context(), user.ID, input)
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, updated)
}

// GetStats handles GET /api/users/stats
func (h *UserHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	stats, err := h.reportService.StatsForUser(r.Context(), user.ID)
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, stats)
}
