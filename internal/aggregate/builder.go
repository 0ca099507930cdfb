package aggregate

import (
	"context"
	"fmt"
	"sync"

	"recruit-metrics/internal/models"
	"recruit-metrics/internal/normalizer"

	"go.uber.org/zap"
)

// MetricsReader is the query side of the metrics repository.
type MetricsReader interface {
	GetMetricsByRange(ctx context.Context, clinicID, startDate, endDate string, source, jobType *string) ([]models.CanonicalMetricRow, error)
}

// ScoutReader is the query side of the scout message repository.
type ScoutReader interface {
	GetByRange(ctx context.Context, clinicID, startDate, endDate string, source *string) ([]models.ScoutMessageRow, error)
}

// SummaryBuilder assembles the monthly KPI summary for one clinic from the
// store. Rows are deduped defensively on every read.
type SummaryBuilder struct {
	metrics MetricsReader
	scouts  ScoutReader
	logger  *zap.Logger
}

// NewSummaryBuilder creates a summary builder.
func NewSummaryBuilder(metrics MetricsReader, scouts ScoutReader, logger *zap.Logger) *SummaryBuilder {
	return &SummaryBuilder{
		metrics: metrics,
		scouts:  scouts,
		logger:  logger,
	}
}

type sourceResult struct {
	summary models.SourceSummary
	rows    []models.CanonicalMetricRow
	err     error
}

// BuildMonthlySummary computes the summary for (clinic, month) filtered by
// job type (nil = clinic-wide aggregate rows) and source (nil = all three
// portals combined). A clinic with no data gets a zero-valued summary, not
// an error.
//
// Per-source reads are independent read-only queries over disjoint
// partitions, so they run concurrently; no ordering between their
// completions is assumed.
func (b *SummaryBuilder) BuildMonthlySummary(ctx context.Context, clinicID, month string, jobType, source *string) (*models.MonthlySummary, error) {
	startDate, endDate, err := MonthRange(month)
	if err != nil {
		return nil, err
	}

	sources := models.Sources
	if source != nil {
		sources = []string{*source}
	}

	results := make([]sourceResult, len(sources))
	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		go func(i int, src string) {
			defer wg.Done()
			rows, err := b.metrics.GetMetricsByRange(ctx, clinicID, startDate, endDate, &src, jobType)
			if err != nil {
				results[i] = sourceResult{err: fmt.Errorf("source %s: %w", src, err)}
				return
			}
			rows = normalizer.Dedupe(rows)
			results[i] = sourceResult{
				summary: SummarizeSource(src, rows),
				rows:    rows,
			}
		}(i, src)
	}
	wg.Wait()

	perSource := make([]models.SourceSummary, 0, len(results))
	var allRows []models.CanonicalMetricRow
	for _, res := range results {
		if res.err != nil {
			return nil, fmt.Errorf("failed to read metrics: %w", res.err)
		}
		perSource = append(perSource, res.summary)
		allRows = append(allRows, res.rows...)
	}

	summary := Combine(clinicID, month, jobType, perSource)

	summary.ScoutReplyTotal, summary.InterviewTotal, summary.MissingManualMetrics = ManualTotals(allRows)

	scoutRows, err := b.scouts.GetByRange(ctx, clinicID, startDate, endDate, source)
	if err != nil {
		return nil, fmt.Errorf("failed to read scout messages: %w", err)
	}
	summary.ScoutSentTotal, summary.ScoutReplyMsgTotal = SumScoutMessages(scoutRows)
	summary.ScoutReplyRate = SafeRate(summary.ScoutReplyMsgTotal, summary.ScoutSentTotal)

	return &summary, nil
}
