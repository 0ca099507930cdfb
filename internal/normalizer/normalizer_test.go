package normalizer_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"recruit-metrics/internal/models"
	"recruit-metrics/internal/normalizer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeWriter struct {
	upserts []models.RawDailyRecord
	failOn  map[string]error // date -> error
}

func (f *fakeWriter) UpsertDailyMetrics(ctx context.Context, clinicID, source string, jobType *string, rec models.RawDailyRecord) error {
	if err, ok := f.failOn[rec.Date]; ok {
		return err
	}
	f.upserts = append(f.upserts, rec)
	return nil
}

func TestNormalizeBatch_CollapsesAndSaves(t *testing.T) {
	writer := &fakeWriter{}
	n := normalizer.New(writer, zap.NewNop())

	records := []models.RawDailyRecord{
		{Date: "2025-12-01", DisplayCount: 100},
		{Date: "2025-12-02", DisplayCount: 200},
		{Date: "2025-12-01", DisplayCount: 100}, // overlapping re-scrape
	}

	result := n.NormalizeBatch(context.Background(), "clinic-1", models.SourcePortalA, nil, records)

	assert.Equal(t, 2, result.Attempted)
	assert.Equal(t, 2, result.Saved)
	require.Len(t, writer.upserts, 2)
	assert.Equal(t, "2025-12-01", writer.upserts[0].Date)
	assert.Equal(t, "2025-12-02", writer.upserts[1].Date)
}

func TestNormalizeBatch_SkipsFailedUpsert(t *testing.T) {
	writer := &fakeWriter{failOn: map[string]error{"2025-12-02": errors.New("boom")}}
	n := normalizer.New(writer, zap.NewNop())

	records := []models.RawDailyRecord{
		{Date: "2025-12-01"},
		{Date: "2025-12-02"},
		{Date: "2025-12-03"},
	}

	result := n.NormalizeBatch(context.Background(), "clinic-1", models.SourcePortalA, nil, records)

	assert.Equal(t, 3, result.Attempted)
	assert.Equal(t, 2, result.Saved)
}

func TestNormalizeBatch_EmptyBatchIsZeroNewData(t *testing.T) {
	writer := &fakeWriter{}
	n := normalizer.New(writer, zap.NewNop())

	result := n.NormalizeBatch(context.Background(), "clinic-1", models.SourcePortalA, nil, nil)

	assert.Equal(t, normalizer.BatchResult{}, result)
	assert.Empty(t, writer.upserts)
}

func TestCollapseByDate_LastWriteWins(t *testing.T) {
	records := []models.RawDailyRecord{
		{Date: "2025-12-01", DisplayCount: 100},
		{Date: "2025-12-01", DisplayCount: 150},
	}

	collapsed := normalizer.CollapseByDate(records)

	require.Len(t, collapsed, 1)
	assert.Equal(t, 150, collapsed[0].DisplayCount)
}

func metricRow(date string, jobType *string, updatedAt time.Time, viewCount int) models.CanonicalMetricRow {
	return models.CanonicalMetricRow{
		ClinicID:  "clinic-1",
		Date:      date,
		Source:    models.SourcePortalA,
		JobType:   jobType,
		ViewCount: viewCount,
		UpdatedAt: updatedAt,
	}
}

func TestDedupe_TieBreakLaterTimestampWins(t *testing.T) {
	earlier := time.Date(2025, 12, 1, 9, 0, 0, 0, time.UTC)
	later := time.Date(2025, 12, 1, 18, 0, 0, 0, time.UTC)

	a := metricRow("2025-12-01", nil, earlier, 10)
	b := metricRow("2025-12-01", nil, later, 20)

	for _, rows := range [][]models.CanonicalMetricRow{{a, b}, {b, a}} {
		deduped := normalizer.Dedupe(rows)
		require.Len(t, deduped, 1)
		assert.Equal(t, 20, deduped[0].ViewCount, "later updated_at must win regardless of input order")
	}
}

func TestDedupe_PrefersUpdatedAtOverCreatedAt(t *testing.T) {
	a := models.CanonicalMetricRow{
		Date:      "2025-12-01",
		ViewCount: 10,
		CreatedAt: time.Date(2025, 12, 1, 23, 0, 0, 0, time.UTC),
	}
	b := models.CanonicalMetricRow{
		Date:      "2025-12-01",
		ViewCount: 20,
		CreatedAt: time.Date(2025, 12, 1, 1, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2025, 12, 2, 1, 0, 0, 0, time.UTC),
	}

	deduped := normalizer.Dedupe([]models.CanonicalMetricRow{a, b})
	require.Len(t, deduped, 1)
	assert.Equal(t, 20, deduped[0].ViewCount)
}

func TestDedupe_NoTimestampKeepsFirstSeen(t *testing.T) {
	a := metricRow("2025-12-01", nil, time.Time{}, 10)
	b := metricRow("2025-12-01", nil, time.Time{}, 20)

	deduped := normalizer.Dedupe([]models.CanonicalMetricRow{a, b})
	require.Len(t, deduped, 1)
	assert.Equal(t, 10, deduped[0].ViewCount)
}

func TestDedupe_Idempotent(t *testing.T) {
	ts := time.Date(2025, 12, 1, 9, 0, 0, 0, time.UTC)
	jobType := models.JobTypeDentalHygienist

	rows := []models.CanonicalMetricRow{
		metricRow("2025-12-02", nil, ts.Add(time.Hour), 2),
		metricRow("2025-12-01", &jobType, ts, 3),
		metricRow("2025-12-01", nil, ts, 1),
		metricRow("2025-12-01", nil, ts.Add(2*time.Hour), 4),
	}

	once := normalizer.Dedupe(rows)
	twice := normalizer.Dedupe(once)

	assert.Equal(t, once, twice)
}

func TestDedupe_SortsByDateThenJobTypeAggregateFirst(t *testing.T) {
	ts := time.Date(2025, 12, 1, 9, 0, 0, 0, time.UTC)
	jobType := models.JobTypeDentalHygienist

	rows := []models.CanonicalMetricRow{
		metricRow("2025-12-02", nil, ts, 1),
		metricRow("2025-12-01", &jobType, ts, 2),
		metricRow("2025-12-01", nil, ts, 3),
	}

	deduped := normalizer.Dedupe(rows)

	require.Len(t, deduped, 3)
	assert.Equal(t, "2025-12-01", deduped[0].Date)
	assert.Nil(t, deduped[0].JobType)
	assert.Equal(t, "2025-12-01", deduped[1].Date)
	require.NotNil(t, deduped[1].JobType)
	assert.Equal(t, "2025-12-02", deduped[2].Date)
}

func TestDedupe_EmptyInput(t *testing.T) {
	assert.Nil(t, normalizer.Dedupe(nil))
}
