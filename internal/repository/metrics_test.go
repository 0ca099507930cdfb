package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"recruit-metrics/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return db, mock
}

func TestUpsertDailyMetrics_ReplacesCounters(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	repo := NewMetricsRepository(db, zap.NewNop())

	rank := 3
	rec := models.RawDailyRecord{
		Date:             "2025-12-01",
		DisplayCount:     100,
		ViewCount:        20,
		RedirectCount:    5,
		ApplicationCount: 1,
		SearchRank:       &rank,
	}

	mock.ExpectExec(`INSERT INTO recruitment_metrics`).
		WithArgs("clinic-1", "2025-12-01", models.SourcePortalA, "", 100, 20, 5, 1, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpsertDailyMetrics(context.Background(), "clinic-1", models.SourcePortalA, nil, rec)
	require.NoError(t, err)

	// A second write for the same day carries the new absolute values, not a
	// sum against the first write.
	rec.DisplayCount = 150
	mock.ExpectExec(`INSERT INTO recruitment_metrics`).
		WithArgs("clinic-1", "2025-12-01", models.SourcePortalA, "", 150, 20, 5, 1, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.UpsertDailyMetrics(context.Background(), "clinic-1", models.SourcePortalA, nil, rec)
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertDailyMetrics_JobTypeBreakdown(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	repo := NewMetricsRepository(db, zap.NewNop())

	jobType := models.JobTypeDentalHygienist
	rec := models.RawDailyRecord{Date: "2025-12-01", DisplayCount: 40, ViewCount: 8}

	mock.ExpectExec(`INSERT INTO recruitment_metrics`).
		WithArgs("clinic-1", "2025-12-01", models.SourcePortalB, jobType, 40, 8, 0, 0, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpsertDailyMetrics(context.Background(), "clinic-1", models.SourcePortalB, &jobType, rec)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertManualMetrics_OnlyManualFields(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	repo := NewMetricsRepository(db, zap.NewNop())

	// The statement must not carry the traffic counters at all: on conflict
	// only scout_reply_count / interview_count are replaced.
	mock.ExpectExec(`INSERT INTO recruitment_metrics`).
		WithArgs("clinic-1", "2025-12-01", models.SourcePortalA, 2, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpsertManualMetrics(context.Background(), "clinic-1", models.SourcePortalA, "2025-12-01", 2, 1)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetMetricsByRange_ScansNullableFields(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	repo := NewMetricsRepository(db, zap.NewNop())

	created := time.Date(2025, 12, 1, 9, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"clinic_id", "date", "source", "job_type",
		"display_count", "view_count", "redirect_count", "application_count",
		"search_rank", "scout_reply_count", "interview_count",
		"created_at", "updated_at",
	}).
		AddRow("clinic-1", "2025-12-01", models.SourcePortalA, "", 100, 20, 5, 1, 3, nil, nil, created, created).
		AddRow("clinic-1", "2025-12-02", models.SourcePortalA, "", 200, 70, 10, 2, nil, 0, 1, created, created)

	mock.ExpectQuery(`SELECT`).
		WithArgs("clinic-1", "2025-12-01", "2025-12-31", "").
		WillReturnRows(rows)

	result, err := repo.GetMetricsByRange(context.Background(), "clinic-1", "2025-12-01", "2025-12-31", nil, nil)
	require.NoError(t, err)
	require.Len(t, result, 2)

	assert.Nil(t, result[0].JobType)
	require.NotNil(t, result[0].SearchRank)
	assert.Equal(t, 3, *result[0].SearchRank)
	assert.Nil(t, result[0].ScoutReplyCount)

	assert.Nil(t, result[1].SearchRank)
	require.NotNil(t, result[1].ScoutReplyCount)
	assert.Equal(t, 0, *result[1].ScoutReplyCount)
	require.NotNil(t, result[1].InterviewCount)
	assert.Equal(t, 1, *result[1].InterviewCount)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetMetricsByRange_SourceFilter(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	repo := NewMetricsRepository(db, zap.NewNop())

	source := models.SourcePortalC
	rows := sqlmock.NewRows([]string{
		"clinic_id", "date", "source", "job_type",
		"display_count", "view_count", "redirect_count", "application_count",
		"search_rank", "scout_reply_count", "interview_count",
		"created_at", "updated_at",
	})

	mock.ExpectQuery(`SELECT`).
		WithArgs("clinic-1", "2025-12-01", "2025-12-31", "", source).
		WillReturnRows(rows)

	result, err := repo.GetMetricsByRange(context.Background(), "clinic-1", "2025-12-01", "2025-12-31", &source, nil)
	require.NoError(t, err)
	assert.Len(t, result, 0)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScoutMessageRepository_Upsert(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	repo := NewScoutMessageRepository(db, zap.NewNop())

	mock.ExpectExec(`INSERT INTO scout_messages`).
		WithArgs("clinic-1", "2025-12-01", models.SourcePortalA, 10, 4).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Upsert(context.Background(), models.ScoutMessageRow{
		ClinicID:   "clinic-1",
		Date:       "2025-12-01",
		Source:     models.SourcePortalA,
		SentCount:  10,
		ReplyCount: 4,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScoutMessageRepository_GetByRange(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	repo := NewScoutMessageRepository(db, zap.NewNop())

	rows := sqlmock.NewRows([]string{"clinic_id", "date", "source", "sent_count", "reply_count"}).
		AddRow("clinic-1", "2025-12-01", models.SourcePortalA, 10, 4).
		AddRow("clinic-1", "2025-12-02", models.SourcePortalA, 5, 1)

	mock.ExpectQuery(`SELECT`).
		WithArgs("clinic-1", "2025-12-01", "2025-12-31").
		WillReturnRows(rows)

	result, err := repo.GetByRange(context.Background(), "clinic-1", "2025-12-01", "2025-12-31", nil)
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, 10, result[0].SentCount)
	assert.Equal(t, 1, result[1].ReplyCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}
