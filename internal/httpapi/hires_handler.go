package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"recruit-metrics/internal/models"
	"recruit-metrics/internal/repository"

	"go.uber.org/zap"
)

// HireStore is the hire repository surface the handler needs.
type HireStore interface {
	Insert(ctx context.Context, hire models.Hire) (string, error)
	List(ctx context.Context, clinicID string) ([]models.Hire, error)
	Delete(ctx context.Context, hireID string) error
}

// HiresHandler handles /hires and /hires/{id}.
//
//	POST   /hires      records a confirmed hire
//	GET    /hires      lists a clinic's hires, newest first
//	DELETE /hires/{id} removes one hire
type HiresHandler struct {
	store  HireStore
	logger *zap.Logger
}

// NewHiresHandler creates a HiresHandler.
func NewHiresHandler(store HireStore, logger *zap.Logger) *HiresHandler {
	return &HiresHandler{
		store:  store,
		logger: logger,
	}
}

func (h *HiresHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.insert(w, r)
	case http.MethodGet:
		h.list(w, r)
	case http.MethodDelete:
		h.delete(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *HiresHandler) insert(w http.ResponseWriter, r *http.Request) {
	var hire models.Hire
	if err := readBodyJSON(r, 1<<20, &hire); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}
	if hire.ClinicID == "" {
		writeJSON(w, http.StatusBadRequest, Fail("clinic_id is required"))
		return
	}
	if hire.JobType == "" {
		writeJSON(w, http.StatusBadRequest, Fail("job_type is required"))
		return
	}
	if _, err := time.Parse("2006-01-02", hire.HireDate); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid hire_date: expected YYYY-MM-DD"))
		return
	}

	id, err := h.store.Insert(r.Context(), hire)
	if err != nil {
		h.logger.Error("Failed to insert hire",
			zap.String("clinic_id", hire.ClinicID),
			zap.Error(err),
		)
		writeJSON(w, http.StatusInternalServerError, Fail("failed to save hire"))
		return
	}

	writeJSON(w, http.StatusOK, Ok(map[string]string{"hire_id": id}))
}

func (h *HiresHandler) list(w http.ResponseWriter, r *http.Request) {
	clinicID := r.URL.Query().Get("clinic_id")
	if clinicID == "" {
		writeJSON(w, http.StatusBadRequest, Fail("clinic_id is required"))
		return
	}

	hires, err := h.store.List(r.Context(), clinicID)
	if err != nil {
		h.logger.Error("Failed to list hires", zap.String("clinic_id", clinicID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("failed to load hires"))
		return
	}
	if hires == nil {
		hires = []models.Hire{}
	}

	writeJSON(w, http.StatusOK, Ok(hires))
}

func (h *HiresHandler) delete(w http.ResponseWriter, r *http.Request) {
	hireID := strings.TrimPrefix(r.URL.Path, "/hires/")
	if hireID == "" || strings.Contains(hireID, "/") {
		writeJSON(w, http.StatusBadRequest, Fail("hire id is required"))
		return
	}

	if err := h.store.Delete(r.Context(), hireID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, Fail(err.Error()))
			return
		}
		h.logger.Error("Failed to delete hire", zap.String("hire_id", hireID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("failed to delete hire"))
		return
	}

	writeJSON(w, http.StatusOK, Ok(map[string]any{"deleted": true}))
}
