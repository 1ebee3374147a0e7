package models

import "time"

// Level2Submission records one authenticated run of the level-2 charger
// calculator. Created once, never mutated.
type Level2Submission struct {
	ID                   int64     `db:"id" json:"id"`
	UserID               int64     `db:"user_id" json:"user_id"`
	DailyMiles           float64   `db:"daily_miles" json:"daily_miles"`
	OvernightHours       float64   `db:"overnight_hours" json:"overnight_hours"`
	EfficiencyKWhPerMile float64   `db:"efficiency_kwh_per_mile" json:"efficiency_kwh_per_mile"`
	RequiredKW           float64   `db:"required_kw" json:"required_kw"`
	Level2Needed         bool      `db:"level2_needed" json:"level2_needed"`
	Recommendation       string    `db:"recommendation" json:"recommendation"`
	SubmittedAt          time.Time `db:"submitted_at" json:"submitted_at"`
}
