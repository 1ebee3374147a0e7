package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jakeb7757/evolve/internal/models"
)

// ErrVehicleNotFound represents missing vehicle rows.
var ErrVehicleNotFound = errors.New("vehicle not found")

// VehicleRepository handles CRUD for the vehicles catalog.
type VehicleRepository struct {
	db *sql.DB
}

// NewVehicleRepository returns repository instance.
func NewVehicleRepository(db *sql.DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

// Years returns distinct model years, newest first.
func (r *VehicleRepository) Years(ctx context.Context) ([]int, error) {
	const query = `
		SELECT DISTINCT model_year
		FROM vehicles
		ORDER BY model_year DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var years []int
	for rows.Next() {
		var y int
		if err := rows.Scan(&y); err != nil {
			return nil, err
		}
		years = append(years, y)
	}
	return years, rows.Err()
}

// Manufacturers returns distinct manufacturers for a model year.
func (r *VehicleRepository) Manufacturers(ctx context.Context, year int) ([]string, error) {
	const query = `
		SELECT DISTINCT manufacturer
		FROM vehicles
		WHERE model_year = $1
		ORDER BY manufacturer
	`
	return r.stringList(ctx, query, year)
}

// Models returns distinct models for a year and manufacturer.
func (r *VehicleRepository) Models(ctx context.Context, year int, manufacturer string) ([]string, error) {
	const query = `
		SELECT DISTINCT model
		FROM vehicles
		WHERE model_year = $1 AND manufacturer = $2
		ORDER BY model
	`
	return r.stringList(ctx, query, year, manufacturer)
}

func (r *VehicleRepository) stringList(ctx context.Context, query string, args ...interface{}) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// FindBySelection returns the first vehicle matching year/manufacturer/model.
func (r *VehicleRepository) FindBySelection(ctx context.Context, year int, manufacturer, model string) (*models.ElectricVehicle, error) {
	const query = `
		SELECT id, manufacturer, model, model_year, battery_capacity_kwh, electric_range_miles
		FROM vehicles
		WHERE model_year = $1 AND manufacturer = $2 AND model = $3
		ORDER BY id
		LIMIT 1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, year, manufacturer, model))
}

func (r *VehicleRepository) scanOne(row *sql.Row) (*models.ElectricVehicle, error) {
	var v models.ElectricVehicle
	err := row.Scan(&v.ID, &v.Manufacturer, &v.Model, &v.ModelYear, &v.BatteryCapacityKWh, &v.ElectricRangeMiles)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}
	return &v, nil
}

// List returns the whole catalog ordered by year desc, manufacturer, model.
func (r *VehicleRepository) List(ctx context.Context) ([]models.ElectricVehicle, error) {
	const query = `
		SELECT id, manufacturer, model, model_year, battery_capacity_kwh, electric_range_miles
		FROM vehicles
		ORDER BY model_year DESC, manufacturer, model
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vehicles []models.ElectricVehicle
	for rows.Next() {
		var v models.ElectricVehicle
		if err := rows.Scan(&v.ID, &v.Manufacturer, &v.Model, &v.ModelYear, &v.BatteryCapacityKWh, &v.ElectricRangeMiles); err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

// Create inserts a new catalog entry.
func (r *VehicleRepository) Create(ctx context.Context, v *models.ElectricVehicle) error {
	const query = `
		INSERT INTO vehicles (manufacturer, model, model_year, battery_capacity_kwh, electric_range_miles)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	return r.db.QueryRowContext(ctx, query,
		v.Manufacturer, v.Model, v.ModelYear, v.BatteryCapacityKWh, v.ElectricRangeMiles,
	).Scan(&v.ID)
}

// Update replaces a catalog entry.
func (r *VehicleRepository) Update(ctx context.Context, v *models.ElectricVehicle) error {
	const query = `
		UPDATE vehicles
		SET manufacturer = $2, model = $3, model_year = $4, battery_capacity_kwh = $5, electric_range_miles = $6
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		v.ID, v.Manufacturer, v.Model, v.ModelYear, v.BatteryCapacityKWh, v.ElectricRangeMiles,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrVehicleNotFound
	}
	return nil
}

// Delete removes a catalog entry.
func (r *VehicleRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM vehicles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrVehicleNotFound
	}
	return nil
}
