package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/jakeb7757/evolve/internal/repository"
)

// VehicleHandlers serves the public dependent-dropdown endpoints over
// the vehicle catalog.
type VehicleHandlers struct {
	vehicles *repository.VehicleRepository
	logger   *zap.Logger
}

// NewVehicleHandlers returns handler set.
func NewVehicleHandlers(vehicles *repository.VehicleRepository, logger *zap.Logger) *VehicleHandlers {
	return &VehicleHandlers{vehicles: vehicles, logger: logger}
}

// Years handles GET /api/vehicles/years.
func (h *VehicleHandlers) Years(w http.ResponseWriter, r *http.Request) {
	years, err := h.vehicles.Years(r.Context())
	if err != nil {
		h.logger.Error("list vehicle years failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list years")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"years": years})
}

// Manufacturers handles GET /api/vehicles/manufacturers?year=.
func (h *VehicleHandlers) Manufacturers(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(w, r)
	if !ok {
		return
	}
	manufacturers, err := h.vehicles.Manufacturers(r.Context(), year)
	if err != nil {
		h.logger.Error("list manufacturers failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list manufacturers")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"manufacturers": manufacturers})
}

// Models handles GET /api/vehicles/models?year=&manufacturer=.
func (h *VehicleHandlers) Models(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(w, r)
	if !ok {
		return
	}
	manufacturer := r.URL.Query().Get("manufacturer")
	if manufacturer == "" {
		writeError(w, http.StatusBadRequest, "manufacturer is required")
		return
	}
	vehicleModels, err := h.vehicles.Models(r.Context(), year, manufacturer)
	if err != nil {
		h.logger.Error("list models failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list models")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"models": vehicleModels})
}

func yearParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	yearStr := r.URL.Query().Get("year")
	year, err := strconv.Atoi(yearStr)
	if err != nil || year <= 0 {
		writeError(w, http.StatusBadRequest, "valid year is required")
		return 0, false
	}
	return year, true
}
