// Package aggregate reduces canonical metric rows into monthly summary
// totals, derived rates and pacing snapshots. Everything here is pure:
// callers resolve "now" and the month window and pass them in.
package aggregate

import (
	"fmt"
	"time"

	"recruit-metrics/internal/models"
)

// AbnormalViewRateThreshold flags implausibly high view rates (bot traffic
// or corrupted scrape data).
const AbnormalViewRateThreshold = 0.30

// SafeRate divides numerator by denominator, returning 0 when the
// denominator is 0. Never NaN or Inf.
func SafeRate(numerator, denominator int) float64 {
	if denominator == 0 {
		return 0
	}
	return float64(numerator) / float64(denominator)
}

// IsAbnormalViewRate reports whether viewCount/displayCount exceeds the
// 30% threshold. A zero displayCount is never abnormal.
func IsAbnormalViewRate(displayCount, viewCount int) bool {
	if displayCount == 0 {
		return false
	}
	return float64(viewCount)/float64(displayCount) > AbnormalViewRateThreshold
}

// SummarizeSource sums one portal's rows and computes its rates. rows are
// expected deduped and filtered to a single (month, jobType, source).
func SummarizeSource(source string, rows []models.CanonicalMetricRow) models.SourceSummary {
	summary := models.SourceSummary{Source: source}
	for _, row := range rows {
		summary.TotalDisplayCount += row.DisplayCount
		summary.TotalViewCount += row.ViewCount
		summary.TotalRedirectCount += row.RedirectCount
		summary.TotalApplicationCount += row.ApplicationCount
	}

	summary.ViewRate = SafeRate(summary.TotalViewCount, summary.TotalDisplayCount)
	summary.ApplicationRate = SafeRate(summary.TotalApplicationCount, summary.TotalViewCount)
	summary.Abnormal = IsAbnormalViewRate(summary.TotalDisplayCount, summary.TotalViewCount)
	summary.SearchRank = LatestSearchRank(rows)

	return summary
}

// Combine adds per-portal sums into the clinic-wide KPI totals. Each
// portal's counters keep their own semantics (one portal reports page views
// where another reports view events), so the per-source summaries stay in
// the payload for drill-down; the combined rates are computed over the
// combined sums as the dashboard presents them.
func Combine(clinicID, month string, jobType *string, sources []models.SourceSummary) models.MonthlySummary {
	summary := models.MonthlySummary{
		ClinicID: clinicID,
		Month:    month,
		JobType:  jobType,
		Sources:  sources,
	}

	for _, src := range sources {
		summary.TotalDisplayCount += src.TotalDisplayCount
		summary.TotalViewCount += src.TotalViewCount
		summary.TotalRedirectCount += src.TotalRedirectCount
		summary.TotalApplicationCount += src.TotalApplicationCount
	}

	summary.ViewRate = SafeRate(summary.TotalViewCount, summary.TotalDisplayCount)
	summary.ApplicationRate = SafeRate(summary.TotalApplicationCount, summary.TotalViewCount)
	summary.Abnormal = IsAbnormalViewRate(summary.TotalDisplayCount, summary.TotalViewCount)

	return summary
}

// ManualTotals sums the operator-entered fields over a month of rows.
// missing is true only when every row has both fields null (including the
// empty set), meaning no data was entered this month. In that case both
// totals are nil. As soon as one row carries a non-null value for either field (an
// explicit 0 counts), missing is false and nulls are coalesced to 0 in the
// sums.
func ManualTotals(rows []models.CanonicalMetricRow) (scoutReplyTotal, interviewTotal *int, missing bool) {
	entered := false
	scout := 0
	interview := 0

	for _, row := range rows {
		if row.ScoutReplyCount != nil {
			entered = true
			scout += *row.ScoutReplyCount
		}
		if row.InterviewCount != nil {
			entered = true
			interview += *row.InterviewCount
		}
	}

	if !entered {
		return nil, nil, true
	}
	return &scout, &interview, false
}

// SumScoutMessages sums the per-day scout message rows.
func SumScoutMessages(rows []models.ScoutMessageRow) (sent, reply int) {
	for _, row := range rows {
		sent += row.SentCount
		reply += row.ReplyCount
	}
	return sent, reply
}

// CurrentMonth formats now as the YYYY-MM default used when a query omits
// the month parameter.
func CurrentMonth(now time.Time) string {
	return now.Format("2006-01")
}

// MonthRange expands a YYYY-MM month into its inclusive [startDate, endDate]
// day range.
func MonthRange(month string) (startDate, endDate string, err error) {
	first, err := time.Parse("2006-01", month)
	if err != nil {
		return "", "", fmt.Errorf("invalid month %q (expected YYYY-MM): %w", month, err)
	}
	last := first.AddDate(0, 1, -1)
	return first.Format("2006-01-02"), last.Format("2006-01-02"), nil
}
