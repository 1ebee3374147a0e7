package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/jakeb7757/evolve/internal/clients"
	"github.com/jakeb7757/evolve/internal/http/middleware"
	"github.com/jakeb7757/evolve/internal/service"
)

const stationsPerPage = 10

// StationsHandlers serves the station directory endpoints.
type StationsHandlers struct {
	directory *service.DirectoryService
	geocoder  *clients.Geocoder
	logger    *zap.Logger
}

// NewStationsHandlers returns handler set. geocoder may be nil.
func NewStationsHandlers(directory *service.DirectoryService, geocoder *clients.Geocoder, logger *zap.Logger) *StationsHandlers {
	return &StationsHandlers{directory: directory, geocoder: geocoder, logger: logger}
}

// List handles GET /api/stations. Accepts either latitude/longitude or a
// location string (zip or "city, st") which is geocoded first. A failed
// lookup or geocode degrades to local records; it never fails the page.
func (h *StationsHandlers) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	q := service.ListQuery{
		Network:   query.Get("network"),
		MinStatus: query.Get("min_status"),
	}
	q.RadiusMiles = floatParam(query.Get("radius"))
	q.MaxDistance = floatParam(query.Get("max_distance"))

	var degraded bool
	latStr, lonStr := query.Get("latitude"), query.Get("longitude")
	if latStr != "" && lonStr != "" {
		lat, latErr := strconv.ParseFloat(latStr, 64)
		lon, lonErr := strconv.ParseFloat(lonStr, 64)
		if latErr != nil || lonErr != nil {
			writeError(w, http.StatusBadRequest, "invalid coordinates")
			return
		}
		q.Latitude, q.Longitude, q.HasCoords = lat, lon, true
	} else if location := query.Get("location"); location != "" && h.geocoder != nil {
		lat, lon, err := h.geocoder.Locate(r.Context(), location)
		if err != nil {
			h.logger.Warn("geocoding unavailable, listing local stations only", zap.Error(err))
			degraded = true
		} else {
			q.Latitude, q.Longitude, q.HasCoords = lat, lon, true
		}
	}

	stations, err := h.directory.ListStations(r.Context(), q)
	if err != nil {
		h.logger.Error("station listing failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list stations")
		return
	}

	page := pageParam(query.Get("page"))
	totalPages := (len(stations) + stationsPerPage - 1) / stationsPerPage
	if totalPages == 0 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}
	start := (page - 1) * stationsPerPage
	end := start + stationsPerPage
	if start > len(stations) {
		start = len(stations)
	}
	if end > len(stations) {
		end = len(stations)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"stations":    stations[start:end],
		"page":        page,
		"total_pages": totalPages,
		"total":       len(stations),
		"degraded":    degraded,
	})
}

// History handles GET /api/stations/history?station_id=&limit=. Returns
// the station record and its report history, newest first.
func (h *StationsHandlers) History(w http.ResponseWriter, r *http.Request) {
	stationID, err := strconv.ParseInt(r.URL.Query().Get("station_id"), 10, 64)
	if err != nil || stationID <= 0 {
		writeError(w, http.StatusBadRequest, "valid station_id is required")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	station, reports, err := h.directory.History(r.Context(), stationID, limit)
	if err != nil {
		if errors.Is(err, service.ErrStationNotFound) {
			writeError(w, http.StatusNotFound, "station not found")
			return
		}
		h.logger.Error("station history failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load history")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"station": station,
		"reports": reports,
	})
}

// SubmitStatus handles POST /api/stations/status. Requires auth.
func (h *StationsHandlers) SubmitStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StationID int64  `json:"station_id"`
		Status    string `json:"status"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	reporter := identity.UserID

	report, err := h.directory.SubmitStatus(r.Context(), req.StationID, req.Status, &reporter)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStationNotFound):
			writeError(w, http.StatusNotFound, "station not found")
		case writeValidationError(w, err):
		default:
			h.logger.Error("status submission failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to submit status")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"report":  report,
	})
}

func floatParam(raw string) float64 {
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return v
}

func pageParam(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}
