package models

// ElectricVehicle is catalog reference data, administrator managed.
type ElectricVehicle struct {
	ID                 int64   `db:"id" json:"id"`
	Manufacturer       string  `db:"manufacturer" json:"manufacturer"`
	Model              string  `db:"model" json:"model"`
	ModelYear          int     `db:"model_year" json:"model_year"`
	BatteryCapacityKWh float64 `db:"battery_capacity_kwh" json:"battery_capacity_kwh"`
	ElectricRangeMiles int     `db:"electric_range_miles" json:"electric_range_miles"`
}

// EfficiencyKWhPerMile derives consumption from battery capacity and EPA range.
// Returns 0 when the range is unknown.
func (v ElectricVehicle) EfficiencyKWhPerMile() float64 {
	if v.ElectricRangeMiles <= 0 {
		return 0
	}
	return v.BatteryCapacityKWh / float64(v.ElectricRangeMiles)
}
