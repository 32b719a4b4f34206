package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/upravdom/resident-portal/internal/api/middleware"
	"github.com/upravdom/resident-portal/internal/application/services"
	"github.com/upravdom/resident-portal/internal/domain/entities"
	"github.com/upravdom/resident-portal/internal/domain/repositories"
	apperrors "github.com/upravdom/resident-portal/pkg/errors"
)

// AdminHandler serves the administrative surface
type AdminHandler struct {
	meterService     *services.MeterService
	complaintService *services.ComplaintService
	broadcastService *services.BroadcastService
	reportService    *services.ReportService
	userService      *services.UserService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(
	meterService *services.MeterService,
	complaintService *services.ComplaintService,
	broadcastService *services.BroadcastService,
	reportService *services.ReportService,
	userService *services.UserService,
) *AdminHandler {
	return &AdminHandler{
		meterService:     meterService,
		complaintService: complaintService,
		broadcastService: broadcastService,
		reportService:    reportService,
		userService:      userService,
	}
}

// Stats handles GET /api/admin/stats
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.reportService.Stats(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, stats)
}

// ListUsers handles GET /api/admin/users
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.reportService.UserReport(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, users)
}

// ListBuildings handles GET /api/admin/buildings
func (h *AdminHandler) ListBuildings(w http.ResponseWriter, r *http.Request) {
	buildings, err := h.reportService.Buildings(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, buildings)
}

// SetUserActive handles PUT /api/admin/users/{id}/active
func (h *AdminHandler) SetUserActive(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Active *bool `json:"active"`
	}
	if err := decodeJSON(r, &input); err != nil {
		respondWithError(w, err)
		return
	}
	if input.Active == nil {
		respondWithError(w, apperrors.NewValidationError("active is required"))
		return
	}

	user, err := h.userService.SetActive(r.Context(), r.PathValue("id"), *input.Active)
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, user)
}

// ListComplaints handles GET /api/admin/complaints
func (h *AdminHandler) ListComplaints(w http.ResponseWriter, r *http.Request) {
	complaints, err := h.reportService.ComplaintReport(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, complaints)
}

// UpdateComplaint handles PUT /api/admin/complaints/{id}
func (h *AdminHandler) UpdateComplaint(w http.ResponseWriter, r *http.Request) {
	var input services.UpdateComplaintInput
	if err := decodeJSON(r, &input); err != nil {
		respondWithError(w, err)
		return
	}

	complaint, err := h.complaintService.Update(r.Context(), r.PathValue("id"), input)
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, complaint)
}

// ListReadings handles GET /api/admin/meter-readings
func (h *AdminHandler) ListReadings(w http.ResponseWriter, r *http.Request) {
	filter := repositories.ReadingFilter{
		Kind:   entities.MeterKind(r.URL.Query().Get("meter_type")),
		UserID: r.URL.Query().Get("user_id"),
	}

	var err error
	if filter.From, err = parseDateParam(r, "from"); err != nil {
		respondWithError(w, err)
		return
	}
	if filter.To, err = parseDateParam(r, "to"); err != nil {
		respondWithError(w, err)
		return
	}

	readings, err := h.meterService.ListAll(r.Context(), filter)
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, readings)
}

// parseDateParam reads an optional YYYY-MM-DD query parameter as a
// start-of-day UTC bound
func parseDateParam(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
	if err != nil {
		return nil, apperrors.NewValidationError(name + " must be a YYYY-MM-DD date")
	}
	return &t, nil
}

// VerifyReading handles POST /api/admin/meter-readings/{id}/verify
func (h *AdminHandler) VerifyReading(w http.ResponseWriter, r *http.Request) {
	admin, _ := middleware.UserFromContext(r.Context())

	reading, err := h.meterService.VerifyReading(r.Context(), r.PathValue("id"), admin)
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, reading)
}

// Broadcast handles POST /api/admin/notifications
func (h *AdminHandler) Broadcast(w http.ResponseWriter, r *http.Request) {
	var input services.BroadcastInput
	if err := decodeJSON(r, &input); err != nil {
		respondWithError(w, err)
		return
	}

	result, err := h.broadcastService.Broadcast(r.Context(), input)
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": fmt.Sprintf("delivered %d of %d", result.SentCount, result.TotalCount),
		"result":  result,
	})
}

// TelegramTest handles POST /api/admin/telegram/test
func (h *AdminHandler) TelegramTest(w http.ResponseWriter, r *http.Request) {
	admin, _ := middleware.UserFromContext(r.Context())

	if err := h.broadcastService.SendTest(r.Context(), admin); err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// TelegramStats handles GET /api/admin/telegram/stats
func (h *AdminHandler) TelegramStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.reportService.MessagingStats(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, stats)
}

// Export handles GET /api/admin/export/{type}
func (h *AdminHandler) Export(w http.ResponseWriter, r *http.Request) {
	kind := r.PathValue("type")
	switch kind {
	case "complaints", "readings", "users", "all":
	default:
		respondWithError(w, apperrors.NewValidationError("unknown export type: "+kind))
		return
	}

	var buf bytes.Buffer
	if err := h.reportService.ExportCSV(r.Context(), kind, &buf); err != nil {
		respondWithError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", kind))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
