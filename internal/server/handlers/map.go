// internal/server/handlers/map.go

package handlers

import (
	"net/http"

	"denguecero/internal/domain/evaluation"
	"denguecero/internal/domain/zone"
)

// MapHandler serves zone statistics for the dashboard and the landing page
type MapHandler struct {
	service zone.Service
}

// NewMapHandler creates a new map handler
func NewMapHandler(service zone.Service) *MapHandler {
	return &MapHandler{
		service: service,
	}
}

type mapDataResponse struct {
	Success bool          `json:"success"`
	Data    *zone.MapData `json:"data"`
}

// GetMapData returns every zone matching the dateFilter and riskLevel query parameters
func (h *MapHandler) GetMapData(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter, err := evaluation.ParseFilter(query.Get("dateFilter"), query.Get("riskLevel"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	data, err := h.service.MapData(r.Context(), filter)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to get map data", err)
		return
	}

	respondWithJSON(w, http.StatusOK, mapDataResponse{Success: true, Data: data})
}

// GetPublicMapData returns the top zones of the public window.
// Failures are reported in the body; the status is always 200.
func (h *MapHandler) GetPublicMapData(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.service.PublicSummary(r.Context()))
}
