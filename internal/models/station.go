package models

import "time"

// ChargingStation is a locally stored station record.
type ChargingStation struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Address   string    `db:"address" json:"address"`
	Latitude  float64   `db:"latitude" json:"latitude"`
	Longitude float64   `db:"longitude" json:"longitude"`
	Network   string    `db:"network" json:"network"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ExternalStation is a station listing returned by the external lookup.
// Not persisted in the common path.
type ExternalStation struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Address       string  `json:"address"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	Network       string  `json:"network"`
	DistanceMiles float64 `json:"distance_miles"`
	MaxPowerKW    float64 `json:"max_power_kw"`
}
