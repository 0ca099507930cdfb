package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"recruit-metrics/internal/aggregate"
	"recruit-metrics/internal/models"
	"recruit-metrics/internal/repository"

	"go.uber.org/zap"
)

// GoalStore is the goal repository surface the handler needs.
type GoalStore interface {
	Upsert(ctx context.Context, goal models.RecruitmentGoal) error
	Get(ctx context.Context, clinicID, jobType string) (*models.RecruitmentGoal, error)
	List(ctx context.Context, clinicID string) ([]models.RecruitmentGoal, error)
	Delete(ctx context.Context, clinicID, jobType string) error
}

// GoalWithProgress is one goal joined with its pacing snapshot.
type GoalWithProgress struct {
	models.RecruitmentGoal
	Progress models.GoalProgress `json:"progress"`
}

// GoalsHandler handles /goals.
//
//	PUT    upserts a goal for (clinic_id, job_type)
//	GET    lists a clinic's goals with progress; job_type narrows to one
//	DELETE removes the goal for (clinic_id, job_type)
type GoalsHandler struct {
	store  GoalStore
	logger *zap.Logger
	now    func() time.Time
}

// NewGoalsHandler creates a GoalsHandler.
func NewGoalsHandler(store GoalStore, logger *zap.Logger) *GoalsHandler {
	return &GoalsHandler{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

func (h *GoalsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPut:
		h.upsert(w, r)
	case http.MethodGet:
		h.get(w, r)
	case http.MethodDelete:
		h.delete(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *GoalsHandler) upsert(w http.ResponseWriter, r *http.Request) {
	var goal models.RecruitmentGoal
	if err := readBodyJSON(r, 1<<20, &goal); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}
	if goal.ClinicID == "" || goal.JobType == "" {
		writeJSON(w, http.StatusBadRequest, Fail("clinic_id and job_type are required"))
		return
	}
	if goal.TargetCount < 0 || goal.CurrentCount < 0 {
		writeJSON(w, http.StatusBadRequest, Fail("counts must not be negative"))
		return
	}
	if _, err := time.Parse("2006-01-02", goal.ContractStartDate); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid contract_start_date: expected YYYY-MM-DD"))
		return
	}
	if goal.ContractDurationMonths <= 0 {
		writeJSON(w, http.StatusBadRequest, Fail("contract_duration_months must be positive"))
		return
	}

	if err := h.store.Upsert(r.Context(), goal); err != nil {
		h.logger.Error("Failed to upsert goal",
			zap.String("clinic_id", goal.ClinicID),
			zap.String("job_type", goal.JobType),
			zap.Error(err),
		)
		writeJSON(w, http.StatusInternalServerError, Fail("failed to save goal"))
		return
	}

	writeJSON(w, http.StatusOK, Ok(goal))
}

func (h *GoalsHandler) get(w http.ResponseWriter, r *http.Request) {
	clinicID := r.URL.Query().Get("clinic_id")
	if clinicID == "" {
		writeJSON(w, http.StatusBadRequest, Fail("clinic_id is required"))
		return
	}

	var goals []models.RecruitmentGoal
	if jobType := r.URL.Query().Get("job_type"); jobType != "" {
		goal, err := h.store.Get(r.Context(), clinicID, jobType)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				writeJSON(w, http.StatusNotFound, Fail(err.Error()))
				return
			}
			h.logger.Error("Failed to load goal", zap.String("clinic_id", clinicID), zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, Fail("failed to load goal"))
			return
		}
		goals = []models.RecruitmentGoal{*goal}
	} else {
		var err error
		goals, err = h.store.List(r.Context(), clinicID)
		if err != nil {
			h.logger.Error("Failed to list goals", zap.String("clinic_id", clinicID), zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, Fail("failed to load goals"))
			return
		}
	}

	now := h.now()
	result := make([]GoalWithProgress, 0, len(goals))
	for _, goal := range goals {
		progress, err := aggregate.GoalProgressAt(goal, now)
		if err != nil {
			h.logger.Error("Failed to compute goal progress",
				zap.String("clinic_id", goal.ClinicID),
				zap.String("job_type", goal.JobType),
				zap.Error(err),
			)
			writeJSON(w, http.StatusInternalServerError, Fail("failed to compute goal progress"))
			return
		}
		result = append(result, GoalWithProgress{RecruitmentGoal: goal, Progress: progress})
	}

	writeJSON(w, http.StatusOK, Ok(result))
}

func (h *GoalsHandler) delete(w http.ResponseWriter, r *http.Request) {
	clinicID := r.URL.Query().Get("clinic_id")
	jobType := r.URL.Query().Get("job_type")
	if clinicID == "" || jobType == "" {
		writeJSON(w, http.StatusBadRequest, Fail("clinic_id and job_type are required"))
		return
	}

	if err := h.store.Delete(r.Context(), clinicID, jobType); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, Fail(err.Error()))
			return
		}
		h.logger.Error("Failed to delete goal", zap.String("clinic_id", clinicID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("failed to delete goal"))
		return
	}

	writeJSON(w, http.StatusOK, Ok(map[string]any{"deleted": true}))
}
