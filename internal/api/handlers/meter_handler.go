package handlers

import (
	"net/http"

	"github.com/upravdom/resident-portal/internal/api/middleware"
	"github.com/upravdom/resident-portal/internal/application/services"
)

// MeterHandler serves resident-facing meter reading requests
type MeterHandler struct {
	meterService *services.MeterService
}

// NewMeterHandler creates a new meter handler
func NewMeterHandler(meterService *services.MeterService) *MeterHandler {
	return &MeterHandler{meterService: meterService}
}

// SubmitReading handles POST /api/meters/readings/{kind}
func (h *MeterHandler) SubmitReading(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	var input services.SubmitReadingInput
	if err := decodeJSON(r, &input); err != nil {
		respondWithError(w, err)
		return
	}
	input.Kind = r.PathValue("kind")

	reading, err := h.meterService.SubmitReading(r.Context(), user.ID, input)
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, reading)
}

// ListReadings handles GET /api/meters/readings
func (h *MeterHandler) ListReadings(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	grouped, err := h.meterService.ListForUser(r.Context(), user.ID)
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, grouped)
}
