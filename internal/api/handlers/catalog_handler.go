package handlers

import (
	"net/http"

	"github.com/upravdom/resident-portal/internal/application/services"
)

// CatalogHandler serves the public catalogs
type CatalogHandler struct {
	catalogService *services.CatalogService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// MeterTypes handles GET /api/meter-types
func (h *CatalogHandler) MeterTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.catalogService.MeterTypes(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, types)
}

// ComplaintCategories handles GET /api/complaint-categories
func (h *CatalogHandler) ComplaintCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalogService.ComplaintCategories(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, categories)
}
