package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

// ClinicRepository resolves clinic references. Clinic records themselves are
// owned by the system that created them; this service only looks them up.
type ClinicRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewClinicRepository creates a new clinic repository.
func NewClinicRepository(db *sql.DB, logger *zap.Logger) *ClinicRepository {
	return &ClinicRepository{
		db:     db,
		logger: logger,
	}
}

// ClinicExists reports whether the clinic id resolves to a clinic record.
func (r *ClinicRepository) ClinicExists(ctx context.Context, clinicID string) (bool, error) {
	query := `SELECT 1 FROM clinics WHERE clinic_id = $1`

	var one int
	err := r.db.QueryRowContext(ctx, query, clinicID).Scan(&one)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("failed to query clinic: %w", err)
	}

	return true, nil
}

// ListClinicIDs returns every clinic id, for batch jobs that walk all
// clinics sequentially.
func (r *ClinicRepository) ListClinicIDs(ctx context.Context) ([]string, error) {
	query := `SELECT clinic_id FROM clinics ORDER BY clinic_id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query clinics: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan clinic id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate clinics: %w", err)
	}

	return ids, nil
}
