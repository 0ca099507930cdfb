package aggregate

import "recruit-metrics/internal/models"

// LatestSearchRank returns the search rank recorded on the most recent date
// in rows, or nil when rows is empty. A nil rank on the latest-dated row is
// returned as nil even if an earlier row had one: most recent always wins.
// ISO date strings compare correctly lexicographically.
func LatestSearchRank(rows []models.CanonicalMetricRow) *int {
	var latest *models.CanonicalMetricRow
	for i := range rows {
		if latest == nil || rows[i].Date > latest.Date {
			latest = &rows[i]
		}
	}
	if latest == nil {
		return nil
	}
	return latest.SearchRank
}
