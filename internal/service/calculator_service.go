package service

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/jakeb7757/evolve/internal/models"
)

// Charging rate constants in kW. 1.4 kW is the usable throughput of a
// standard 120V/15A outlet; 7.2 kW is a typical 240V level-2 charger.
const (
	StandardOutletKW = 1.4
	Level2ChargerKW  = 7.2
)

// Level-2 recommendation values.
const (
	RecommendationLevel2Needed       = "LEVEL2_NEEDED"
	RecommendationStandardSufficient = "STANDARD_SUFFICIENT"
)

// FuelSavingsInput holds the fuel savings calculator parameters.
// All values must be strictly positive.
type FuelSavingsInput struct {
	AnnualMiles           float64
	GasPricePerGallon     float64
	MPG                   float64
	ElectricityRatePerKWh float64
	EfficiencyKWhPerMile  float64
}

// FuelSavingsResult holds dollar amounts at cent precision. AnnualSavings
// may be negative when the EV costs more; callers display it as-is.
type FuelSavingsResult struct {
	GasAnnualCost   float64 `json:"gas_annual_cost"`
	EVAnnualCost    float64 `json:"ev_annual_cost"`
	AnnualSavings   float64 `json:"annual_savings"`
	MonthlySavings  float64 `json:"monthly_savings"`
	FiveYearSavings float64 `json:"five_year_savings"`
}

// CalculateFuelSavings compares annual gasoline cost against annual EV
// charging cost. Pure; nothing is persisted.
func CalculateFuelSavings(in FuelSavingsInput) (*FuelSavingsResult, error) {
	errs := FieldErrors{}
	errs.requirePositive("annual_miles", in.AnnualMiles)
	errs.requirePositive("gas_price_per_gallon", in.GasPricePerGallon)
	errs.requirePositive("mpg", in.MPG)
	errs.requirePositive("electricity_rate_per_kwh", in.ElectricityRatePerKWh)
	errs.requirePositive("efficiency_kwh_per_mile", in.EfficiencyKWhPerMile)
	if err := errs.orNil(); err != nil {
		return nil, err
	}

	gas := round2(in.AnnualMiles / in.MPG * in.GasPricePerGallon)
	ev := round2(in.AnnualMiles * in.EfficiencyKWhPerMile * in.ElectricityRatePerKWh)
	savings := round2(gas - ev)

	return &FuelSavingsResult{
		GasAnnualCost:   gas,
		EVAnnualCost:    ev,
		AnnualSavings:   savings,
		MonthlySavings:  round2(savings / 12),
		FiveYearSavings: round2(savings * 5),
	}, nil
}

// Level2Input holds the level-2 charger calculator parameters.
type Level2Input struct {
	DailyMiles           float64
	OvernightHours       float64
	EfficiencyKWhPerMile float64
}

// Level2Result is the charger recommendation with supporting figures.
type Level2Result struct {
	RequiredKW     float64 `json:"required_kw"`
	Level2Needed   bool    `json:"level2_needed"`
	Recommendation string  `json:"recommendation"`
	Rationale      string  `json:"rationale"`
	ChargeHoursL1  float64 `json:"charge_hours_l1"`
	ChargeHoursL2  float64 `json:"charge_hours_l2"`
}

// CalculateLevel2 determines whether the daily range need exceeds what a
// standard outlet can replenish in the available overnight window.
func CalculateLevel2(in Level2Input) (*Level2Result, error) {
	errs := FieldErrors{}
	errs.requirePositive("daily_miles", in.DailyMiles)
	errs.requirePositive("overnight_hours", in.OvernightHours)
	errs.requirePositive("efficiency_kwh_per_mile", in.EfficiencyKWhPerMile)
	if len(errs) == 0 && in.OvernightHours > 24 {
		errs["overnight_hours"] = "must be at most 24"
	}
	if err := errs.orNil(); err != nil {
		return nil, err
	}

	dailyKWh := in.DailyMiles * in.EfficiencyKWhPerMile
	requiredKW := round2(dailyKWh / in.OvernightHours)

	result := &Level2Result{
		RequiredKW:    requiredKW,
		ChargeHoursL1: round2(dailyKWh / StandardOutletKW),
		ChargeHoursL2: round2(dailyKWh / Level2ChargerKW),
	}

	// Compare the rounded figure so the reported required_kw and the
	// recommendation never contradict each other; the raw quotient can
	// land a few ulps above the threshold for exact-boundary inputs.
	if requiredKW > StandardOutletKW {
		result.Level2Needed = true
		result.Recommendation = RecommendationLevel2Needed
		result.Rationale = fmt.Sprintf(
			"Replenishing %.1f kWh in %.0f hours requires %.2f kW, above the %.1f kW a standard outlet delivers.",
			dailyKWh, in.OvernightHours, requiredKW, StandardOutletKW,
		)
	} else {
		result.Recommendation = RecommendationStandardSufficient
		result.Rationale = fmt.Sprintf(
			"Replenishing %.1f kWh in %.0f hours requires %.2f kW, within the %.1f kW a standard outlet delivers.",
			dailyKWh, in.OvernightHours, requiredKW, StandardOutletKW,
		)
	}
	return result, nil
}

// SubmissionStore defines the persistence contract for level-2 runs.
type SubmissionStore interface {
	Create(ctx context.Context, sub *models.Level2Submission) error
}

// CalculatorService runs the level-2 calculator and records submissions
// for authenticated callers.
type CalculatorService struct {
	submissions SubmissionStore
	logger      *zap.Logger
}

// NewCalculatorService builds service.
func NewCalculatorService(submissions SubmissionStore, logger *zap.Logger) *CalculatorService {
	return &CalculatorService{submissions: submissions, logger: logger}
}

// Level2 computes the recommendation and, when userID is non-nil,
// persists a submission record. Anonymous callers get the result only.
func (s *CalculatorService) Level2(ctx context.Context, in Level2Input, userID *int64) (*Level2Result, error) {
	result, err := CalculateLevel2(in)
	if err != nil {
		return nil, err
	}

	if userID != nil {
		sub := &models.Level2Submission{
			UserID:               *userID,
			DailyMiles:           in.DailyMiles,
			OvernightHours:       in.OvernightHours,
			EfficiencyKWhPerMile: in.EfficiencyKWhPerMile,
			RequiredKW:           result.RequiredKW,
			Level2Needed:         result.Level2Needed,
			Recommendation:       result.Recommendation,
		}
		if err := s.submissions.Create(ctx, sub); err != nil {
			return nil, err
		}
		s.logger.Info("level2 submission recorded",
			zap.Int64("user_id", *userID),
			zap.Float64("required_kw", result.RequiredKW),
			zap.String("recommendation", result.Recommendation),
		)
	}
	return result, nil
}

// round2 rounds to two decimal places (cents for dollar amounts).
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
