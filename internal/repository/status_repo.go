package repository

import (
	"context"
	"database/sql"

	"github.com/jakeb7757/evolve/internal/models"
)

// StatusRepository persists append-only station status reports.
type StatusRepository struct {
	db *sql.DB
}

// NewStatusRepository returns repository instance.
func NewStatusRepository(db *sql.DB) *StatusRepository {
	return &StatusRepository{db: db}
}

// Append inserts a new report with the database clock as timestamp.
// There is no update path: history is append-only.
func (r *StatusRepository) Append(ctx context.Context, status *models.StationStatus) error {
	const query = `
		INSERT INTO station_statuses (station_id, status, user_id, reported_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, reported_at
	`
	return r.db.QueryRowContext(ctx, query, status.StationID, status.Status, status.UserID).
		Scan(&status.ID, &status.ReportedAt)
}

// LatestStatuses resolves the current status for every station with at
// least one report: the row with the maximum reported_at, ties broken by
// the highest id (insertion order).
func (r *StatusRepository) LatestStatuses(ctx context.Context) (map[int64]string, error) {
	const query = `
		SELECT id, station_id, status, reported_at
		FROM station_statuses
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []models.StationStatus
	for rows.Next() {
		var s models.StationStatus
		if err := rows.Scan(&s.ID, &s.StationID, &s.Status, &s.ReportedAt); err != nil {
			return nil, err
		}
		reports = append(reports, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return resolveLatest(reports), nil
}

// resolveLatest folds reports into the current status per station,
// independent of row order: maximum reported_at wins, equal timestamps
// fall to the higher id.
func resolveLatest(reports []models.StationStatus) map[int64]string {
	winners := make(map[int64]models.StationStatus)
	for _, rep := range reports {
		cur, ok := winners[rep.StationID]
		if !ok || rep.ReportedAt.After(cur.ReportedAt) ||
			(rep.ReportedAt.Equal(cur.ReportedAt) && rep.ID > cur.ID) {
			winners[rep.StationID] = rep
		}
	}
	latest := make(map[int64]string, len(winners))
	for stationID, rep := range winners {
		latest[stationID] = rep.Status
	}
	return latest
}

// HistoryByStation returns all reports for a station, newest first.
func (r *StatusRepository) HistoryByStation(ctx context.Context, stationID int64, limit int) ([]models.StationStatus, error) {
	if limit <= 0 {
		limit = 50
	}
	const query = `
		SELECT id, station_id, status, user_id, reported_at
		FROM station_statuses
		WHERE station_id = $1
		ORDER BY reported_at DESC, id DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, stationID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []models.StationStatus
	for rows.Next() {
		var s models.StationStatus
		var userID sql.NullInt64
		if err := rows.Scan(&s.ID, &s.StationID, &s.Status, &userID, &s.ReportedAt); err != nil {
			return nil, err
		}
		if userID.Valid {
			s.UserID = &userID.Int64
		}
		reports = append(reports, s)
	}
	return reports, rows.Err()
}
