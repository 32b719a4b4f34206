package handlers

import (
	"net/http"

	"github.com/upravdom/resident-portal/internal/api/middleware"
	"github.com/upravdom/resident-portal/internal/application/services"
)

// NotificationHandler serves resident-facing notification requests
type NotificationHandler struct {
	broadcastService *services.BroadcastService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(broadcastService *services.BroadcastService) *NotificationHandler {
	return &NotificationHandler{broadcastService: broadcastService}
}

// List handles GET /api/notifications
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	notifications, err := h.broadcastService.ListForUser(r.Context(), user.ID)
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, notifications)
}

// MarkRead handles PUT /api/notifications/{id}/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	if err := h.broadcastService.MarkRead(r.Context(), r.PathValue("id"), user.ID); err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": "read"})
}
