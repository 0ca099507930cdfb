// Package normalizer turns raw per-day portal records into canonical metric
// rows safe to persist, and reduces read results with duplicate keys down to
// one authoritative row per (date, jobType).
package normalizer

import (
	"context"
	"sort"
	"time"

	"recruit-metrics/internal/models"

	"go.uber.org/zap"
)

// MetricsWriter is the upsert side of the metrics repository.
type MetricsWriter interface {
	UpsertDailyMetrics(ctx context.Context, clinicID, source string, jobType *string, rec models.RawDailyRecord) error
}

// Normalizer applies the write-path contract for scraped batches.
type Normalizer struct {
	writer MetricsWriter
	logger *zap.Logger
}

// New creates a Normalizer.
func New(writer MetricsWriter, logger *zap.Logger) *Normalizer {
	return &Normalizer{
		writer: writer,
		logger: logger,
	}
}

// BatchResult reports how much of a batch was persisted.
type BatchResult struct {
	Attempted int `json:"attempted"`
	Saved     int `json:"saved"`
}

// NormalizeBatch collapses a raw batch and upserts each record for the given
// (clinic, source, jobType-or-nil). A failed upsert is logged and skipped;
// the batch continues and the tally tells the caller how many rows stuck.
// An empty or nil batch is "zero new data this run", not an error.
func (n *Normalizer) NormalizeBatch(ctx context.Context, clinicID, source string, jobType *string, records []models.RawDailyRecord) BatchResult {
	collapsed := CollapseByDate(records)

	result := BatchResult{Attempted: len(collapsed)}
	for _, rec := range collapsed {
		if err := n.writer.UpsertDailyMetrics(ctx, clinicID, source, jobType, rec); err != nil {
			n.logger.Error("Failed to upsert daily metrics",
				zap.String("clinic_id", clinicID),
				zap.String("source", source),
				zap.String("job_type", models.JobTypeOrAll(jobType)),
				zap.String("date", rec.Date),
				zap.Error(err),
			)
			continue
		}
		result.Saved++
	}

	if result.Saved < result.Attempted {
		n.logger.Warn("Batch saved partially",
			zap.String("clinic_id", clinicID),
			zap.String("source", source),
			zap.Int("attempted", result.Attempted),
			zap.Int("saved", result.Saved),
		)
	}

	return result
}

// CollapseByDate reduces same-date duplicates inside one batch to the last
// occurrence. Portal re-scrapes overlap month ranges and repeat dates;
// values for a repeated date are expected identical, so last-write-wins only
// avoids redundant upserts. Output is sorted by date.
func CollapseByDate(records []models.RawDailyRecord) []models.RawDailyRecord {
	if len(records) == 0 {
		return nil
	}

	byDate := make(map[string]models.RawDailyRecord, len(records))
	for _, rec := range records {
		byDate[rec.Date] = rec
	}

	collapsed := make([]models.RawDailyRecord, 0, len(byDate))
	for _, rec := range byDate {
		collapsed = append(collapsed, rec)
	}
	sort.Slice(collapsed, func(i, j int) bool {
		return collapsed[i].Date < collapsed[j].Date
	})

	return collapsed
}

func dedupeKey(row models.CanonicalMetricRow) string {
	return row.Date + ":" + models.JobTypeOrAll(row.JobType)
}

func sortJobType(jobType *string) string {
	if jobType == nil {
		return "" // aggregate rows sort first
	}
	return *jobType
}

// effectiveTimestamp picks the timestamp used for most-recent-write-wins,
// preferring updated_at over created_at. Zero means neither was usable.
func effectiveTimestamp(row models.CanonicalMetricRow) time.Time {
	if !row.UpdatedAt.IsZero() {
		return row.UpdatedAt
	}
	return row.CreatedAt
}

// Dedupe reduces an unordered read result with possible duplicate
// (date, jobType) keys to one row per key. The store's composite key cannot
// be fully trusted, so this runs defensively on every read path.
//
// Tie-break: the chronologically later effectiveTimestamp wins; when the
// candidate is not strictly later (including when neither row carries a
// usable timestamp), the first-seen row is kept. Output is sorted ascending
// by date, then jobType with the aggregate sentinel first.
func Dedupe(rows []models.CanonicalMetricRow) []models.CanonicalMetricRow {
	if len(rows) == 0 {
		return nil
	}

	kept := make(map[string]models.CanonicalMetricRow, len(rows))
	for _, row := range rows {
		key := dedupeKey(row)
		existing, ok := kept[key]
		if !ok {
			kept[key] = row
			continue
		}
		if effectiveTimestamp(row).After(effectiveTimestamp(existing)) {
			kept[key] = row
		}
	}

	result := make([]models.CanonicalMetricRow, 0, len(kept))
	for _, row := range kept {
		result = append(result, row)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Date != result[j].Date {
			return result[i].Date < result[j].Date
		}
		return sortJobType(result[i].JobType) < sortJobType(result[j].JobType)
	})

	return result
}
