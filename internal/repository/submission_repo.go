package repository

import (
	"context"
	"database/sql"

	"github.com/jakeb7757/evolve/internal/models"
)

// SubmissionRepository persists level-2 calculator submissions.
type SubmissionRepository struct {
	db *sql.DB
}

// NewSubmissionRepository returns repository instance.
func NewSubmissionRepository(db *sql.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// Create inserts a submission row.
func (r *SubmissionRepository) Create(ctx context.Context, sub *models.Level2Submission) error {
	const query = `
		INSERT INTO level2_submissions (user_id, daily_miles, overnight_hours, efficiency_kwh_per_mile, required_kw, level2_needed, recommendation, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING id, submitted_at
	`
	return r.db.QueryRowContext(ctx, query,
		sub.UserID,
		sub.DailyMiles,
		sub.OvernightHours,
		sub.EfficiencyKWhPerMile,
		sub.RequiredKW,
		sub.Level2Needed,
		sub.Recommendation,
	).Scan(&sub.ID, &sub.SubmittedAt)
}

// List returns submissions newest first.
func (r *SubmissionRepository) List(ctx context.Context, limit int) ([]models.Level2Submission, error) {
	if limit <= 0 {
		limit = 100
	}
	const query = `
		SELECT id, user_id, daily_miles, overnight_hours, efficiency_kwh_per_mile, required_kw, level2_needed, recommendation, submitted_at
		FROM level2_submissions
		ORDER BY submitted_at DESC, id DESC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []models.Level2Submission
	for rows.Next() {
		var s models.Level2Submission
		if err := rows.Scan(
			&s.ID,
			&s.UserID,
			&s.DailyMiles,
			&s.OvernightHours,
			&s.EfficiencyKWhPerMile,
			&s.RequiredKW,
			&s.Level2Needed,
			&s.Recommendation,
			&s.SubmittedAt,
		); err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}
