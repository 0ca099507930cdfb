package repository

import (
	"context"
	"database/sql"
	"fmt"

	"recruit-metrics/internal/models"

	"go.uber.org/zap"
)

// GoalRepository reads and writes recruitment goals, keyed
// (clinic_id, job_type).
type GoalRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewGoalRepository creates a new goal repository.
func NewGoalRepository(db *sql.DB, logger *zap.Logger) *GoalRepository {
	return &GoalRepository{
		db:     db,
		logger: logger,
	}
}

// Upsert creates or replaces the goal for (clinic, jobType).
func (r *GoalRepository) Upsert(ctx context.Context, goal models.RecruitmentGoal) error {
	query := `
		INSERT INTO recruitment_goals (
			clinic_id, job_type, target_count, current_count,
			contract_start_date, contract_duration_months
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (clinic_id, job_type)
		DO UPDATE SET
			target_count = EXCLUDED.target_count,
			current_count = EXCLUDED.current_count,
			contract_start_date = EXCLUDED.contract_start_date,
			contract_duration_months = EXCLUDED.contract_duration_months,
			updated_at = NOW()
	`

	_, err := r.db.ExecContext(ctx, query,
		goal.ClinicID, goal.JobType, goal.TargetCount, goal.CurrentCount,
		goal.ContractStartDate, goal.ContractDurationMonths,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert goal: %w", err)
	}

	return nil
}

// Get returns the goal for (clinic, jobType), or ErrNotFound.
func (r *GoalRepository) Get(ctx context.Context, clinicID, jobType string) (*models.RecruitmentGoal, error) {
	query := `
		SELECT clinic_id, job_type, target_count, current_count,
		       contract_start_date::text, contract_duration_months
		FROM recruitment_goals
		WHERE clinic_id = $1 AND job_type = $2
	`

	var goal models.RecruitmentGoal
	err := r.db.QueryRowContext(ctx, query, clinicID, jobType).Scan(
		&goal.ClinicID,
		&goal.JobType,
		&goal.TargetCount,
		&goal.CurrentCount,
		&goal.ContractStartDate,
		&goal.ContractDurationMonths,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("goal for clinic %s job type %s: %w", clinicID, jobType, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query goal: %w", err)
	}

	return &goal, nil
}

// List returns all goals for one clinic.
func (r *GoalRepository) List(ctx context.Context, clinicID string) ([]models.RecruitmentGoal, error) {
	query := `
		SELECT clinic_id, job_type, target_count, current_count,
		       contract_start_date::text, contract_duration_months
		FROM recruitment_goals
		WHERE clinic_id = $1
		ORDER BY job_type
	`

	rows, err := r.db.QueryContext(ctx, query, clinicID)
	if err != nil {
		return nil, fmt.Errorf("failed to query goals: %w", err)
	}
	defer rows.Close()

	var goals []models.RecruitmentGoal
	for rows.Next() {
		var goal models.RecruitmentGoal
		if err := rows.Scan(
			&goal.ClinicID,
			&goal.JobType,
			&goal.TargetCount,
			&goal.CurrentCount,
			&goal.ContractStartDate,
			&goal.ContractDurationMonths,
		); err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goals = append(goals, goal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate goals: %w", err)
	}

	return goals, nil
}

// Delete removes the goal for (clinic, jobType). Returns ErrNotFound when no
// goal existed.
func (r *GoalRepository) Delete(ctx context.Context, clinicID, jobType string) error {
	query := `DELETE FROM recruitment_goals WHERE clinic_id = $1 AND job_type = $2`

	res, err := r.db.ExecContext(ctx, query, clinicID, jobType)
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("goal for clinic %s job type %s: %w", clinicID, jobType, ErrNotFound)
	}

	return nil
}
