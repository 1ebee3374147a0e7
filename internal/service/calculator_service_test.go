package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/jakeb7757/evolve/internal/models"
)

type fakeSubmissionStore struct {
	created []*models.Level2Submission
	err     error
}

func (f *fakeSubmissionStore) Create(_ context.Context, sub *models.Level2Submission) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, sub)
	return nil
}

func TestCalculateFuelSavings(t *testing.T) {
	result, err := CalculateFuelSavings(FuelSavingsInput{
		AnnualMiles:           12000,
		GasPricePerGallon:     3.50,
		MPG:                   25,
		ElectricityRatePerKWh: 0.14,
		EfficiencyKWhPerMile:  0.30,
	})
	if err != nil {
		t.Fatalf("calculate fuel savings: %v", err)
	}

	if result.GasAnnualCost != 1680.00 {
		t.Fatalf("expected gas annual cost 1680.00, got %.2f", result.GasAnnualCost)
	}
	if result.EVAnnualCost != 504.00 {
		t.Fatalf("expected ev annual cost 504.00, got %.2f", result.EVAnnualCost)
	}
	if result.AnnualSavings != 1176.00 {
		t.Fatalf("expected annual savings 1176.00, got %.2f", result.AnnualSavings)
	}
	if result.MonthlySavings != 98.00 {
		t.Fatalf("expected monthly savings 98.00, got %.2f", result.MonthlySavings)
	}
	if result.FiveYearSavings != 5880.00 {
		t.Fatalf("expected five year savings 5880.00, got %.2f", result.FiveYearSavings)
	}
}

func TestCalculateFuelSavingsNegativeSavings(t *testing.T) {
	// Cheap gas and an expensive grid: the EV costs more to run.
	result, err := CalculateFuelSavings(FuelSavingsInput{
		AnnualMiles:           10000,
		GasPricePerGallon:     2.00,
		MPG:                   50,
		ElectricityRatePerKWh: 0.45,
		EfficiencyKWhPerMile:  0.35,
	})
	if err != nil {
		t.Fatalf("calculate fuel savings: %v", err)
	}
	if result.AnnualSavings >= 0 {
		t.Fatalf("expected negative savings, got %.2f", result.AnnualSavings)
	}
	if result.GasAnnualCost != 400.00 {
		t.Fatalf("expected gas annual cost 400.00, got %.2f", result.GasAnnualCost)
	}
	if result.EVAnnualCost != 1575.00 {
		t.Fatalf("expected ev annual cost 1575.00, got %.2f", result.EVAnnualCost)
	}
	if result.AnnualSavings != -1175.00 {
		t.Fatalf("expected annual savings -1175.00, got %.2f", result.AnnualSavings)
	}
}

func TestCalculateFuelSavingsValidation(t *testing.T) {
	valid := FuelSavingsInput{
		AnnualMiles:           12000,
		GasPricePerGallon:     3.50,
		MPG:                   25,
		ElectricityRatePerKWh: 0.14,
		EfficiencyKWhPerMile:  0.30,
	}

	cases := []struct {
		name   string
		mutate func(in *FuelSavingsInput)
		field  string
	}{
		{"zero miles", func(in *FuelSavingsInput) { in.AnnualMiles = 0 }, "annual_miles"},
		{"negative gas price", func(in *FuelSavingsInput) { in.GasPricePerGallon = -1 }, "gas_price_per_gallon"},
		{"zero mpg", func(in *FuelSavingsInput) { in.MPG = 0 }, "mpg"},
		{"zero rate", func(in *FuelSavingsInput) { in.ElectricityRatePerKWh = 0 }, "electricity_rate_per_kwh"},
		{"zero efficiency", func(in *FuelSavingsInput) { in.EfficiencyKWhPerMile = 0 }, "efficiency_kwh_per_mile"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := valid
			tc.mutate(&in)
			_, err := CalculateFuelSavings(in)
			var fields FieldErrors
			if !errors.As(err, &fields) {
				t.Fatalf("expected field errors, got %v", err)
			}
			if _, ok := fields[tc.field]; !ok {
				t.Fatalf("expected error on field %s, got %v", tc.field, fields)
			}
		})
	}
}

func TestCalculateLevel2Needed(t *testing.T) {
	result, err := CalculateLevel2(Level2Input{
		DailyMiles:           40,
		OvernightHours:       8,
		EfficiencyKWhPerMile: 0.30,
	})
	if err != nil {
		t.Fatalf("calculate level2: %v", err)
	}

	if result.RequiredKW != 1.5 {
		t.Fatalf("expected required kw 1.5, got %.2f", result.RequiredKW)
	}
	if !result.Level2Needed {
		t.Fatalf("expected level2 to be needed")
	}
	if result.Recommendation != RecommendationLevel2Needed {
		t.Fatalf("expected recommendation %s, got %s", RecommendationLevel2Needed, result.Recommendation)
	}
	if result.Rationale == "" {
		t.Fatalf("expected a rationale")
	}
	// 12 kWh daily need: ~8.57h on a standard outlet, ~1.67h on level 2.
	if result.ChargeHoursL1 != 8.57 {
		t.Fatalf("expected l1 charge hours 8.57, got %.2f", result.ChargeHoursL1)
	}
	if result.ChargeHoursL2 != 1.67 {
		t.Fatalf("expected l2 charge hours 1.67, got %.2f", result.ChargeHoursL2)
	}
}

func TestCalculateLevel2StandardSufficient(t *testing.T) {
	// 11.2 kWh over 8 hours is exactly 1.4 kW; not strictly above the
	// outlet rate, so a standard outlet suffices.
	result, err := CalculateLevel2(Level2Input{
		DailyMiles:           40,
		OvernightHours:       8,
		EfficiencyKWhPerMile: 0.28,
	})
	if err != nil {
		t.Fatalf("calculate level2: %v", err)
	}
	if result.RequiredKW != 1.4 {
		t.Fatalf("expected required kw 1.4, got %v", result.RequiredKW)
	}
	if result.Level2Needed {
		t.Fatalf("expected standard outlet to suffice at the boundary")
	}
	if result.Recommendation != RecommendationStandardSufficient {
		t.Fatalf("expected recommendation %s, got %s", RecommendationStandardSufficient, result.Recommendation)
	}
}

func TestCalculateLevel2Validation(t *testing.T) {
	_, err := CalculateLevel2(Level2Input{DailyMiles: 0, OvernightHours: -2, EfficiencyKWhPerMile: 0})
	var fields FieldErrors
	if !errors.As(err, &fields) {
		t.Fatalf("expected field errors, got %v", err)
	}
	for _, field := range []string{"daily_miles", "overnight_hours", "efficiency_kwh_per_mile"} {
		if _, ok := fields[field]; !ok {
			t.Fatalf("expected error on field %s, got %v", field, fields)
		}
	}

	_, err = CalculateLevel2(Level2Input{DailyMiles: 40, OvernightHours: 30, EfficiencyKWhPerMile: 0.3})
	if !errors.As(err, &fields) {
		t.Fatalf("expected field errors for excessive hours, got %v", err)
	}
	if _, ok := fields["overnight_hours"]; !ok {
		t.Fatalf("expected error on overnight_hours, got %v", fields)
	}
}

func TestCalculatorServicePersistsForAuthenticatedUser(t *testing.T) {
	store := &fakeSubmissionStore{}
	svc := NewCalculatorService(store, zap.NewNop())

	userID := int64(42)
	result, err := svc.Level2(context.Background(), Level2Input{
		DailyMiles:           40,
		OvernightHours:       8,
		EfficiencyKWhPerMile: 0.30,
	}, &userID)
	if err != nil {
		t.Fatalf("level2: %v", err)
	}

	if len(store.created) != 1 {
		t.Fatalf("expected one submission, got %d", len(store.created))
	}
	sub := store.created[0]
	if sub.UserID != userID {
		t.Fatalf("expected user id %d, got %d", userID, sub.UserID)
	}
	if sub.RequiredKW != result.RequiredKW {
		t.Fatalf("expected stored required kw %.2f, got %.2f", result.RequiredKW, sub.RequiredKW)
	}
	if sub.Recommendation != result.Recommendation {
		t.Fatalf("expected stored recommendation %s, got %s", result.Recommendation, sub.Recommendation)
	}
}

func TestCalculatorServiceSkipsPersistenceForAnonymous(t *testing.T) {
	store := &fakeSubmissionStore{}
	svc := NewCalculatorService(store, zap.NewNop())

	if _, err := svc.Level2(context.Background(), Level2Input{
		DailyMiles:           40,
		OvernightHours:       8,
		EfficiencyKWhPerMile: 0.30,
	}, nil); err != nil {
		t.Fatalf("level2: %v", err)
	}

	if len(store.created) != 0 {
		t.Fatalf("expected no submissions for anonymous caller, got %d", len(store.created))
	}
}

func TestCalculatorServicePropagatesStoreError(t *testing.T) {
	storeErr := errors.New("insert failed")
	store := &fakeSubmissionStore{err: storeErr}
	svc := NewCalculatorService(store, zap.NewNop())

	userID := int64(7)
	if _, err := svc.Level2(context.Background(), Level2Input{
		DailyMiles:           40,
		OvernightHours:       8,
		EfficiencyKWhPerMile: 0.30,
	}, &userID); !errors.Is(err, storeErr) {
		t.Fatalf("expected store error, got %v", err)
	}
}
