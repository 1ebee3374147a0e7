package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/jakeb7757/evolve/internal/admin"
	"github.com/jakeb7757/evolve/internal/models"
	"github.com/jakeb7757/evolve/internal/repository"
)

// AdminHandlers serves the staff-only surface: vehicle catalog CRUD,
// station management, the level-2 submissions report and entity schema
// descriptors.
type AdminHandlers struct {
	vehicles    *repository.VehicleRepository
	stations    *repository.StationRepository
	submissions *repository.SubmissionRepository
	logger      *zap.Logger
}

// NewAdminHandlers returns handler set.
func NewAdminHandlers(vehicles *repository.VehicleRepository, stations *repository.StationRepository, submissions *repository.SubmissionRepository, logger *zap.Logger) *AdminHandlers {
	return &AdminHandlers{vehicles: vehicles, stations: stations, submissions: submissions, logger: logger}
}

// Schema handles GET /api/admin/schema/{entity}. Without an entity it
// lists the available names.
func (h *AdminHandlers) Schema(w http.ResponseWriter, r *http.Request) {
	entity := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/admin/schema"), "/")
	if entity == "" {
		writeJSON(w, http.StatusOK, map[string]interface{}{"entities": admin.Names()})
		return
	}
	schema, ok := admin.Schema(entity)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown entity")
		return
	}
	writeJSON(w, http.StatusOK, schema)
}

// Submissions handles GET /api/admin/submissions, newest first.
func (h *AdminHandlers) Submissions(w http.ResponseWriter, r *http.Request) {
	subs, err := h.submissions.List(r.Context(), 100)
	if err != nil {
		h.logger.Error("list submissions failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list submissions")
		return
	}
	schema, _ := admin.Schema("submissions")
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"schema":      schema,
		"submissions": subs,
	})
}

// Vehicles dispatches /api/admin/vehicles and /api/admin/vehicles/{id}.
func (h *AdminHandlers) Vehicles(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/admin/vehicles"), "/")

	if rest == "" {
		switch r.Method {
		case http.MethodGet:
			h.listVehicles(w, r)
		case http.MethodPost:
			h.createVehicle(w, r)
		default:
			w.Header().Set("Allow", "GET, POST")
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid vehicle id")
		return
	}

	switch r.Method {
	case http.MethodPut:
		h.updateVehicle(w, r, id)
	case http.MethodDelete:
		h.deleteVehicle(w, r, id)
	default:
		w.Header().Set("Allow", "PUT, DELETE")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// Stations dispatches /api/admin/stations: GET lists local station
// records, POST adds one.
func (h *AdminHandlers) Stations(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listStations(w, r)
	case http.MethodPost:
		h.createStation(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *AdminHandlers) listStations(w http.ResponseWriter, r *http.Request) {
	stations, err := h.stations.List(r.Context())
	if err != nil {
		h.logger.Error("list stations failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list stations")
		return
	}
	schema, _ := admin.Schema("stations")
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"schema":   schema,
		"stations": stations,
	})
}

type stationRequest struct {
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Network   string  `json:"network"`
}

func (req stationRequest) validate() map[string]string {
	fields := map[string]string{}
	if strings.TrimSpace(req.Name) == "" {
		fields["name"] = "required"
	}
	if req.Latitude < -90 || req.Latitude > 90 {
		fields["latitude"] = "must be between -90 and 90"
	}
	if req.Longitude < -180 || req.Longitude > 180 {
		fields["longitude"] = "must be between -180 and 180"
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func (h *AdminHandlers) createStation(w http.ResponseWriter, r *http.Request) {
	var req stationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if fields := req.validate(); fields != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"error": "validation failed", "fields": fields})
		return
	}

	station := &models.ChargingStation{
		Name:      req.Name,
		Address:   req.Address,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Network:   req.Network,
	}
	if err := h.stations.Create(r.Context(), station); err != nil {
		h.logger.Error("create station failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to create station")
		return
	}
	writeJSON(w, http.StatusCreated, station)
}

func (h *AdminHandlers) listVehicles(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.vehicles.List(r.Context())
	if err != nil {
		h.logger.Error("list vehicles failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list vehicles")
		return
	}
	schema, _ := admin.Schema("vehicles")
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"schema":   schema,
		"vehicles": vehicles,
	})
}

type vehicleRequest struct {
	Manufacturer       string  `json:"manufacturer"`
	Model              string  `json:"model"`
	ModelYear          int     `json:"model_year"`
	BatteryCapacityKWh float64 `json:"battery_capacity_kwh"`
	ElectricRangeMiles int     `json:"electric_range_miles"`
}

func (req vehicleRequest) validate() map[string]string {
	fields := map[string]string{}
	if strings.TrimSpace(req.Manufacturer) == "" {
		fields["manufacturer"] = "required"
	}
	if strings.TrimSpace(req.Model) == "" {
		fields["model"] = "required"
	}
	if req.ModelYear <= 0 {
		fields["model_year"] = "must be a positive year"
	}
	if req.BatteryCapacityKWh <= 0 {
		fields["battery_capacity_kwh"] = "must be a positive number"
	}
	if req.ElectricRangeMiles <= 0 {
		fields["electric_range_miles"] = "must be a positive number"
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func (h *AdminHandlers) createVehicle(w http.ResponseWriter, r *http.Request) {
	var req vehicleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if fields := req.validate(); fields != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"error": "validation failed", "fields": fields})
		return
	}

	vehicle := &models.ElectricVehicle{
		Manufacturer:       req.Manufacturer,
		Model:              req.Model,
		ModelYear:          req.ModelYear,
		BatteryCapacityKWh: req.BatteryCapacityKWh,
		ElectricRangeMiles: req.ElectricRangeMiles,
	}
	if err := h.vehicles.Create(r.Context(), vehicle); err != nil {
		h.logger.Error("create vehicle failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to create vehicle")
		return
	}
	writeJSON(w, http.StatusCreated, vehicle)
}

func (h *AdminHandlers) updateVehicle(w http.ResponseWriter, r *http.Request, id int64) {
	var req vehicleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if fields := req.validate(); fields != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"error": "validation failed", "fields": fields})
		return
	}

	vehicle := &models.ElectricVehicle{
		ID:                 id,
		Manufacturer:       req.Manufacturer,
		Model:              req.Model,
		ModelYear:          req.ModelYear,
		BatteryCapacityKWh: req.BatteryCapacityKWh,
		ElectricRangeMiles: req.ElectricRangeMiles,
	}
	if err := h.vehicles.Update(r.Context(), vehicle); err != nil {
		if errors.Is(err, repository.ErrVehicleNotFound) {
			writeError(w, http.StatusNotFound, "vehicle not found")
			return
		}
		h.logger.Error("update vehicle failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to update vehicle")
		return
	}
	writeJSON(w, http.StatusOK, vehicle)
}

func (h *AdminHandlers) deleteVehicle(w http.ResponseWriter, r *http.Request, id int64) {
	if err := h.vehicles.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrVehicleNotFound) {
			writeError(w, http.StatusNotFound, "vehicle not found")
			return
		}
		h.logger.Error("delete vehicle failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to delete vehicle")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
