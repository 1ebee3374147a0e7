package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/jakeb7757/evolve/internal/http/middleware"
	"github.com/jakeb7757/evolve/internal/models"
	"github.com/jakeb7757/evolve/internal/repository"
	"github.com/jakeb7757/evolve/internal/service"
)

// vehicleSelection lets the caller pick a catalog vehicle instead of
// supplying an efficiency figure directly.
type vehicleSelection struct {
	ModelYear    int    `json:"model_year"`
	Manufacturer string `json:"manufacturer"`
	Model        string `json:"model"`
}

func (s vehicleSelection) set() bool {
	return s.ModelYear != 0 || s.Manufacturer != "" || s.Model != ""
}

// CalculatorHandlers serves both cost calculators.
type CalculatorHandlers struct {
	calc     *service.CalculatorService
	vehicles *repository.VehicleRepository
	logger   *zap.Logger
}

// NewCalculatorHandlers returns handler set.
func NewCalculatorHandlers(calc *service.CalculatorService, vehicles *repository.VehicleRepository, logger *zap.Logger) *CalculatorHandlers {
	return &CalculatorHandlers{calc: calc, vehicles: vehicles, logger: logger}
}

// FuelSavings handles POST /api/calculator/fuel-savings. Stateless.
func (h *CalculatorHandlers) FuelSavings(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AnnualMiles           float64          `json:"annual_miles"`
		GasPricePerGallon     float64          `json:"gas_price_per_gallon"`
		MPG                   float64          `json:"mpg"`
		ElectricityRatePerKWh float64          `json:"electricity_rate_per_kwh"`
		EfficiencyKWhPerMile  float64          `json:"efficiency_kwh_per_mile"`
		Vehicle               vehicleSelection `json:"vehicle"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	efficiency := req.EfficiencyKWhPerMile
	var selected *models.ElectricVehicle
	if req.Vehicle.set() {
		vehicle, ok := h.resolveVehicle(w, r, req.Vehicle)
		if !ok {
			return
		}
		selected = vehicle
		efficiency = vehicle.EfficiencyKWhPerMile()
	}

	result, err := service.CalculateFuelSavings(service.FuelSavingsInput{
		AnnualMiles:           req.AnnualMiles,
		GasPricePerGallon:     req.GasPricePerGallon,
		MPG:                   req.MPG,
		ElectricityRatePerKWh: req.ElectricityRatePerKWh,
		EfficiencyKWhPerMile:  efficiency,
	})
	if err != nil {
		if writeValidationError(w, err) {
			return
		}
		writeError(w, http.StatusInternalServerError, "calculation failed")
		return
	}

	payload := map[string]interface{}{"results": result}
	if selected != nil {
		payload["selected_vehicle"] = selected
	}
	writeJSON(w, http.StatusOK, payload)
}

// Level2 handles POST /api/calculator/level2. Authenticated callers get
// a submission record persisted; anonymous callers just get the result.
func (h *CalculatorHandlers) Level2(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DailyMiles           float64          `json:"daily_miles"`
		OvernightHours       float64          `json:"overnight_hours"`
		EfficiencyKWhPerMile float64          `json:"efficiency_kwh_per_mile"`
		Vehicle              vehicleSelection `json:"vehicle"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	efficiency := req.EfficiencyKWhPerMile
	var selected *models.ElectricVehicle
	if req.Vehicle.set() {
		vehicle, ok := h.resolveVehicle(w, r, req.Vehicle)
		if !ok {
			return
		}
		selected = vehicle
		efficiency = vehicle.EfficiencyKWhPerMile()
	}

	var userID *int64
	if identity, ok := middleware.IdentityFromContext(r.Context()); ok {
		userID = &identity.UserID
	}

	result, err := h.calc.Level2(r.Context(), service.Level2Input{
		DailyMiles:           req.DailyMiles,
		OvernightHours:       req.OvernightHours,
		EfficiencyKWhPerMile: efficiency,
	}, userID)
	if err != nil {
		if writeValidationError(w, err) {
			return
		}
		h.logger.Error("level2 calculation failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "calculation failed")
		return
	}

	payload := map[string]interface{}{"results": result}
	if selected != nil {
		payload["selected_vehicle"] = selected
	}
	writeJSON(w, http.StatusOK, payload)
}

func (h *CalculatorHandlers) resolveVehicle(w http.ResponseWriter, r *http.Request, sel vehicleSelection) (*models.ElectricVehicle, bool) {
	vehicle, err := h.vehicles.FindBySelection(r.Context(), sel.ModelYear, sel.Manufacturer, sel.Model)
	if err != nil {
		if errors.Is(err, repository.ErrVehicleNotFound) {
			writeJSON(w, http.StatusBadRequest, map[string]interface{}{
				"error":  "validation failed",
				"fields": map[string]string{"vehicle": "selected electric vehicle could not be found"},
			})
			return nil, false
		}
		h.logger.Error("vehicle lookup failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "vehicle lookup failed")
		return nil, false
	}
	return vehicle, true
}
