package repository

import (
	"context"
	"database/sql"
	"fmt"

	"recruit-metrics/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HireRepository writes the append-only hire log. Rows are inserted or
// deleted, never updated.
type HireRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewHireRepository creates a new hire repository.
func NewHireRepository(db *sql.DB, logger *zap.Logger) *HireRepository {
	return &HireRepository{
		db:     db,
		logger: logger,
	}
}

// Insert appends one confirmed hire and returns its id.
func (r *HireRepository) Insert(ctx context.Context, hire models.Hire) (string, error) {
	if hire.HireID == "" {
		hire.HireID = uuid.NewString()
	}

	query := `
		INSERT INTO hires (hire_id, clinic_id, hire_date, job_type, source, channel, name, memo)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		hire.HireID, hire.ClinicID, hire.HireDate, hire.JobType,
		hire.Source, hire.Channel, hire.Name, hire.Memo,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert hire: %w", err)
	}

	return hire.HireID, nil
}

// List returns all hires for one clinic, newest hire date first.
func (r *HireRepository) List(ctx context.Context, clinicID string) ([]models.Hire, error) {
	query := `
		SELECT hire_id, clinic_id, hire_date::text, job_type, source, channel, name, memo, created_at
		FROM hires
		WHERE clinic_id = $1
		ORDER BY hire_date DESC, created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, clinicID)
	if err != nil {
		return nil, fmt.Errorf("failed to query hires: %w", err)
	}
	defer rows.Close()

	var hires []models.Hire
	for rows.Next() {
		var hire models.Hire
		var createdAt sql.NullTime
		if err := rows.Scan(
			&hire.HireID,
			&hire.ClinicID,
			&hire.HireDate,
			&hire.JobType,
			&hire.Source,
			&hire.Channel,
			&hire.Name,
			&hire.Memo,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan hire: %w", err)
		}
		if createdAt.Valid {
			hire.CreatedAt = createdAt.Time
		}
		hires = append(hires, hire)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate hires: %w", err)
	}

	return hires, nil
}

// Delete removes one hire by id. Returns ErrNotFound when the id does not
// exist.
func (r *HireRepository) Delete(ctx context.Context, hireID string) error {
	query := `DELETE FROM hires WHERE hire_id = $1`

	res, err := r.db.ExecContext(ctx, query, hireID)
	if err != nil {
		return fmt.Errorf("failed to delete hire: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("hire %s: %w", hireID, ErrNotFound)
	}

	return nil
}
