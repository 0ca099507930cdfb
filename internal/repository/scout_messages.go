package repository

import (
	"context"
	"database/sql"
	"fmt"

	"recruit-metrics/internal/models"

	"go.uber.org/zap"
)

// ScoutMessageRepository reads and writes per-day scout message counts.
// Keyed (clinic_id, date, source); written once per scrape and summed
// directly, independent of the metrics table lifecycle.
type ScoutMessageRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewScoutMessageRepository creates a new scout message repository.
func NewScoutMessageRepository(db *sql.DB, logger *zap.Logger) *ScoutMessageRepository {
	return &ScoutMessageRepository{
		db:     db,
		logger: logger,
	}
}

// Upsert writes one day's scout message counts, replacing any prior row.
func (r *ScoutMessageRepository) Upsert(ctx context.Context, row models.ScoutMessageRow) error {
	query := `
		INSERT INTO scout_messages (clinic_id, date, source, sent_count, reply_count)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (clinic_id, date, source)
		DO UPDATE SET
			sent_count = EXCLUDED.sent_count,
			reply_count = EXCLUDED.reply_count,
			updated_at = NOW()
	`

	_, err := r.db.ExecContext(ctx, query, row.ClinicID, row.Date, row.Source, row.SentCount, row.ReplyCount)
	if err != nil {
		return fmt.Errorf("failed to upsert scout messages: %w", err)
	}

	return nil
}

// GetByRange returns scout message rows for one clinic inside
// [startDate, endDate] (inclusive). source nil means all portals.
func (r *ScoutMessageRepository) GetByRange(ctx context.Context, clinicID, startDate, endDate string, source *string) ([]models.ScoutMessageRow, error) {
	query := `
		SELECT clinic_id, date::text, source, sent_count, reply_count
		FROM scout_messages
		WHERE clinic_id = $1
		  AND date >= $2
		  AND date <= $3
	`
	args := []any{clinicID, startDate, endDate}

	if source != nil {
		query += ` AND source = $4`
		args = append(args, *source)
	}
	query += ` ORDER BY date, source`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query scout messages: %w", err)
	}
	defer rows.Close()

	var result []models.ScoutMessageRow
	for rows.Next() {
		var row models.ScoutMessageRow
		if err := rows.Scan(&row.ClinicID, &row.Date, &row.Source, &row.SentCount, &row.ReplyCount); err != nil {
			return nil, fmt.Errorf("failed to scan scout message row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate scout message rows: %w", err)
	}

	return result, nil
}
