package models

import "time"

// Station status values. Reports carry one of the first three; "unknown"
// is the resolved default for stations with no history.
const (
	StatusWorking = "working"
	StatusBroken  = "broken"
	StatusBusy    = "busy"
	StatusUnknown = "unknown"
)

// StationStatus is a single timestamped report about a station's
// operability. Rows are append-only: a new report never overwrites a
// prior one, so status disputes stay auditable.
type StationStatus struct {
	ID         int64     `db:"id" json:"id"`
	StationID  int64     `db:"station_id" json:"station_id"`
	Status     string    `db:"status" json:"status"`
	UserID     *int64    `db:"user_id" json:"user_id,omitempty"`
	ReportedAt time.Time `db:"reported_at" json:"reported_at"`
}

// ValidStatus reports whether s is an accepted report value.
func ValidStatus(s string) bool {
	switch s {
	case StatusWorking, StatusBroken, StatusBusy:
		return true
	}
	return false
}

// StatusRank orders statuses for filtering: working > busy > broken > unknown.
func StatusRank(s string) int {
	switch s {
	case StatusWorking:
		return 3
	case StatusBusy:
		return 2
	case StatusBroken:
		return 1
	}
	return 0
}
