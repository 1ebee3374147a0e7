package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jakeb7757/evolve/internal/models"
)

// ErrStationNotFound represents missing station rows.
var ErrStationNotFound = errors.New("station not found")

// StationRepository stores locally managed charging stations.
type StationRepository struct {
	db *sql.DB
}

// NewStationRepository returns repository instance.
func NewStationRepository(db *sql.DB) *StationRepository {
	return &StationRepository{db: db}
}

// List returns all local stations ordered by id.
func (r *StationRepository) List(ctx context.Context) ([]models.ChargingStation, error) {
	const query = `
		SELECT id, name, address, latitude, longitude, network, created_at, updated_at
		FROM stations
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stations []models.ChargingStation
	for rows.Next() {
		var s models.ChargingStation
		if err := rows.Scan(&s.ID, &s.Name, &s.Address, &s.Latitude, &s.Longitude, &s.Network, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		stations = append(stations, s)
	}
	return stations, rows.Err()
}

// GetByID fetches one station.
func (r *StationRepository) GetByID(ctx context.Context, id int64) (*models.ChargingStation, error) {
	const query = `
		SELECT id, name, address, latitude, longitude, network, created_at, updated_at
		FROM stations
		WHERE id = $1
	`
	var s models.ChargingStation
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&s.ID, &s.Name, &s.Address, &s.Latitude, &s.Longitude, &s.Network, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStationNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Exists reports whether a station row exists.
func (r *StationRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM stations WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// Create inserts a station record.
func (r *StationRepository) Create(ctx context.Context, s *models.ChargingStation) error {
	const query = `
		INSERT INTO stations (name, address, latitude, longitude, network, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query, s.Name, s.Address, s.Latitude, s.Longitude, s.Network).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}
