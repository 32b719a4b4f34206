package routes

import (
	"net/http"

	"github.com/upravdom/resident-portal/internal/api/handlers"
	"github.com/upravdom/resident-portal/internal/api/middleware"
)

// Handlers bundles everything the router mounts
type Handlers struct {
	Auth         *handlers.AuthHandler
	User         *handlers.UserHandler
	Meter        *handlers.MeterHandler
	Complaint    *handlers.ComplaintHandler
	Notification *handlers.NotificationHandler
	Catalog      *handlers.CatalogHandler
	Admin        *handlers.AdminHandler
}

// New builds the HTTP handler tree
func New(h Handlers, auth *middleware.AuthMiddleware) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Public
	mux.HandleFunc("POST /api/auth/telegram", h.Auth.TelegramLogin)
	mux.HandleFunc("GET /api/meter-types", h.Catalog.MeterTypes)
	mux.HandleFunc("GET /api/complaint-categories", h.Catalog.ComplaintCategories)

	// Authenticated residents
	user := func(fn http.HandlerFunc) http.Handler { return auth.RequireUser(fn) }
	mux.Handle("GET /api/users/profile", user(h.User.GetProfile))
	mux.Handle("PUT /api/users/profile", user(h.User.UpdateProfile))
	mux.Handle("GET /api/users/stats", user(h.User.GetStats))
	mux.Handle("GET /api/meters/readings", user(h.Meter.ListReadings))
	mux.Handle("POST /api/meters/readings/{kind}", user(h.Meter.SubmitReading))
	mux.Handle("GET /api/complaints", user(h.Complaint.List))
	mux.Handle("POST /api/complaints", user(h.Complaint.Create))
	mux.Handle("GET /api/complaints/{id}", user(h.Complaint.Get))
	mux.Handle("GET /api/notifications", user(h.Notification.List))
	mux.Handle("PUT /api/notifications/{id}/read", user(h.Notification.MarkRead))

	// Administrators
	admin := func(fn http.HandlerFunc) http.Handler { return auth.RequireAdmin(fn) }
	mux.Handle("GET /api/admin/stats", admin(h.Admin.Stats))
	mux.Handle("GET /api/admin/users", admin(h.Admin.ListUsers))
	mux.Handle("PUT /api/admin/users/{id}/active", admin(h.Admin.SetUserActive))
	mux.Handle("GET /api/admin/buildings", admin(h.Admin.ListBuildings))
	mux.Handle("GET /api/admin/complaints", admin(h.Admin.ListComplaints))
	mux.Handle("PUT /api/admin/complaints/{id}", admin(h.Admin.UpdateComplaint))
	mux.Handle("GET /api/admin/meter-readings", admin(h.Admin.ListReadings))
	mux.Handle("POST /api/admin/meter-readings/{id}/verify", admin(h.Admin.VerifyReading))
	mux.Handle("POST /api/admin/notifications", admin(h.Admin.Broadcast))
	mux.Handle("POST /api/admin/telegram/test", admin(h.Admin.TelegramTest))
	mux.Handle("GET /api/admin/telegram/stats", admin(h.Admin.TelegramStats))
	mux.Handle("GET /api/admin/export/{type}", admin(h.Admin.Export))

	return middleware.CORS(middleware.RequestLogging(mux))
}
