package handlers

import (
	"net/http"

	"github.com/upravdom/resident-portal/internal/api/middleware"
	"github.com/upravdom/resident-portal/internal/application/services"
)

// ComplaintHandler serves resident-facing complaint requests
type ComplaintHandler struct {
	complaintService *services.ComplaintService
}

// NewComplaintHandler creates a new complaint handler
func NewComplaintHandler(complaintService *services.ComplaintService) *ComplaintHandler {
	return &ComplaintHandler{complaintService: complaintService}
}

// Create handles POST /api/complaints
func (h *ComplaintHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	var input services.CreateComplaintInput
	if err := decodeJSON(r, &input); err != nil {
		respondWithError(w, err)
		return
	}

	complaint, err := h.complaintService.Create(r.Context(), user.ID, input)
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, complaint)
}

// List handles GET /api/complaints
func (h *ComplaintHandler) List(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	complaints, err := h.complaintService.ListForUser(r.Context(), user.ID)
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, complaints)
}

// Get handles GET /api/complaints/{id}
func (h *ComplaintHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	complaint, err := h.complaintService.Get(r.Context(), r.PathValue("id"), user)
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, complaint)
}
