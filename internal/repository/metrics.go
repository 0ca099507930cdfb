package repository

import (
	"context"
	"database/sql"
	"fmt"

	"recruit-metrics/internal/models"

	"go.uber.org/zap"
)

// MetricsRepository reads and writes canonical metric rows.
//
// The recruitment_metrics table is keyed (clinic_id, date, source, job_type).
// The aggregate sentinel (JobType == nil in the model) is stored as an empty
// string so the composite unique index covers it; NULLs compare distinct in
// Postgres and would let ON CONFLICT insert duplicates for clinic-wide rows.
type MetricsRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewMetricsRepository creates a new metrics repository.
func NewMetricsRepository(db *sql.DB, logger *zap.Logger) *MetricsRepository {
	return &MetricsRepository{
		db:     db,
		logger: logger,
	}
}

func jobTypeColumn(jobType *string) string {
	if jobType == nil {
		return ""
	}
	return *jobType
}

// UpsertDailyMetrics writes one scraped day, fully replacing the four
// traffic counters and the search rank. Portal counts are absolute values
// for the day, so overwrite semantics are correct; manual fields
// (scout_reply_count, interview_count) are left untouched.
func (r *MetricsRepository) UpsertDailyMetrics(ctx context.Context, clinicID, source string, jobType *string, rec models.RawDailyRecord) error {
	query := `
		INSERT INTO recruitment_metrics (
			clinic_id, date, source, job_type,
			display_count, view_count, redirect_count, application_count,
			search_rank
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (clinic_id, date, source, job_type)
		DO UPDATE SET
			display_count = EXCLUDED.display_count,
			view_count = EXCLUDED.view_count,
			redirect_count = EXCLUDED.redirect_count,
			application_count = EXCLUDED.application_count,
			search_rank = EXCLUDED.search_rank,
			updated_at = NOW()
	`

	var rank sql.NullInt64
	if rec.SearchRank != nil {
		rank = sql.NullInt64{Int64: int64(*rec.SearchRank), Valid: true}
	}

	_, err := r.db.ExecContext(ctx, query,
		clinicID, rec.Date, source, jobTypeColumn(jobType),
		rec.DisplayCount, rec.ViewCount, rec.RedirectCount, rec.ApplicationCount,
		rank,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert daily metrics: %w", err)
	}

	return nil
}

// UpsertManualMetrics writes operator-entered counts for one day. Only
// scout_reply_count and interview_count are updated on conflict; a manual
// entry for a date that already has scraped traffic must never zero the
// traffic counters. Manual entries are always clinic-wide (job_type
// aggregate).
func (r *MetricsRepository) UpsertManualMetrics(ctx context.Context, clinicID, source, date string, scoutReplyCount, interviewCount int) error {
	query := `
		INSERT INTO recruitment_metrics (
			clinic_id, date, source, job_type,
			scout_reply_count, interview_count
		) VALUES ($1, $2, $3, '', $4, $5)
		ON CONFLICT (clinic_id, date, source, job_type)
		DO UPDATE SET
			scout_reply_count = EXCLUDED.scout_reply_count,
			interview_count = EXCLUDED.interview_count,
			updated_at = NOW()
	`

	_, err := r.db.ExecContext(ctx, query, clinicID, date, source, scoutReplyCount, interviewCount)
	if err != nil {
		return fmt.Errorf("failed to upsert manual metrics: %w", err)
	}

	return nil
}

// GetMetricsByRange returns rows for one clinic inside [startDate, endDate]
// (inclusive). jobType nil selects the clinic-wide aggregate rows only;
// a specific job type selects that breakdown only, never both. source nil
// means no source filter.
//
// The result may contain duplicate (date, jobType) keys when the table was
// populated without the composite key being enforced; callers dedupe via
// the normalizer.
func (r *MetricsRepository) GetMetricsByRange(ctx context.Context, clinicID, startDate, endDate string, source, jobType *string) ([]models.CanonicalMetricRow, error) {
	query := `
		SELECT
			clinic_id, date::text, source, job_type,
			display_count, view_count, redirect_count, application_count,
			search_rank, scout_reply_count, interview_count,
			created_at, updated_at
		FROM recruitment_metrics
		WHERE clinic_id = $1
		  AND date >= $2
		  AND date <= $3
		  AND job_type = $4
	`
	args := []any{clinicID, startDate, endDate, jobTypeColumn(jobType)}

	if source != nil {
		query += ` AND source = $5`
		args = append(args, *source)
	}
	query += ` ORDER BY date, job_type`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query metrics: %w", err)
	}
	defer rows.Close()

	var result []models.CanonicalMetricRow
	for rows.Next() {
		var row models.CanonicalMetricRow
		var jobTypeCol string
		var searchRank, scoutReply, interview sql.NullInt64
		var createdAt, updatedAt sql.NullTime

		if err := rows.Scan(
			&row.ClinicID,
			&row.Date,
			&row.Source,
			&jobTypeCol,
			&row.DisplayCount,
			&row.ViewCount,
			&row.RedirectCount,
			&row.ApplicationCount,
			&searchRank,
			&scoutReply,
			&interview,
			&createdAt,
			&updatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan metric row: %w", err)
		}

		if jobTypeCol != "" {
			jt := jobTypeCol
			row.JobType = &jt
		}
		if searchRank.Valid {
			v := int(searchRank.Int64)
			row.SearchRank = &v
		}
		if scoutReply.Valid {
			v := int(scoutReply.Int64)
			row.ScoutReplyCount = &v
		}
		if interview.Valid {
			v := int(interview.Int64)
			row.InterviewCount = &v
		}
		if createdAt.Valid {
			row.CreatedAt = createdAt.Time
		}
		if updatedAt.Valid {
			row.UpdatedAt = updatedAt.Time
		}

		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate metric rows: %w", err)
	}

	return result, nil
}
