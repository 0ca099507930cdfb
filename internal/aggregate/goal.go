package aggregate

import (
	"fmt"
	"time"

	"recruit-metrics/internal/models"
)

// GoalProgressAt computes the pacing snapshot for a recruitment goal at a
// given point in time. Pure: identical inputs give identical output.
//
// The contract end date uses calendar month arithmetic, not fixed 30-day
// increments. expectedCompletionRate is the fraction of the contract window
// elapsed and serves as the pacing benchmark for isOnTrack.
func GoalProgressAt(goal models.RecruitmentGoal, now time.Time) (models.GoalProgress, error) {
	start, err := time.Parse("2006-01-02", goal.ContractStartDate)
	if err != nil {
		return models.GoalProgress{}, fmt.Errorf("invalid contract start date %q: %w", goal.ContractStartDate, err)
	}
	end := start.AddDate(0, goal.ContractDurationMonths, 0)

	totalDays := int(end.Sub(start).Hours() / 24)

	elapsedDays := int(now.Sub(start).Hours() / 24)
	if elapsedDays < 0 {
		elapsedDays = 0
	}
	if elapsedDays > totalDays {
		elapsedDays = totalDays
	}

	remainingDays := int(end.Sub(now).Hours() / 24)
	if remainingDays < 0 {
		remainingDays = 0
	}

	progressRate := 0.0
	if goal.TargetCount > 0 {
		progressRate = float64(goal.CurrentCount) / float64(goal.TargetCount)
	}

	expectedRate := 0.0
	if totalDays > 0 {
		expectedRate = float64(elapsedDays) / float64(totalDays)
	}

	remainingCount := goal.TargetCount - goal.CurrentCount
	if remainingCount < 0 {
		remainingCount = 0
	}

	return models.GoalProgress{
		TargetCount:            goal.TargetCount,
		CurrentCount:           goal.CurrentCount,
		RemainingCount:         remainingCount,
		EndDate:                end.Format("2006-01-02"),
		TotalDays:              totalDays,
		ElapsedDays:            elapsedDays,
		RemainingDays:          remainingDays,
		ProgressRate:           progressRate,
		ExpectedCompletionRate: expectedRate,
		IsOnTrack:              progressRate >= expectedRate,
	}, nil
}
