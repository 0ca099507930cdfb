package httpapi

import (
	"context"
	"net/http"
	"time"

	"recruit-metrics/internal/aggregate"
	"recruit-metrics/internal/cache"
	"recruit-metrics/internal/models"

	"go.uber.org/zap"
)

// SummaryBuilder computes a monthly summary from the store.
type SummaryBuilder interface {
	BuildMonthlySummary(ctx context.Context, clinicID, month string, jobType, source *string) (*models.MonthlySummary, error)
}

// SummaryCache caches computed summaries.
type SummaryCache interface {
	Get(ctx context.Context, clinicID, month string, jobType, source *string) (*models.MonthlySummary, error)
	Set(ctx context.Context, summary *models.MonthlySummary, source *string) error
}

// SummaryHandler handles GET /metrics/summary.
//
// Query parameters: clinic_id (required), month (YYYY-MM, defaults to the
// current month resolved here at the edge), job_type (optional; absent
// means the clinic-wide aggregate rows), source (optional; absent means all
// portals combined).
type SummaryHandler struct {
	builder SummaryBuilder
	cache   SummaryCache
	logger  *zap.Logger
	now     func() time.Time
}

// NewSummaryHandler creates a SummaryHandler.
func NewSummaryHandler(builder SummaryBuilder, summaryCache SummaryCache, logger *zap.Logger) *SummaryHandler {
	return &SummaryHandler{
		builder: builder,
		cache:   summaryCache,
		logger:  logger,
		now:     time.Now,
	}
}

func (h *SummaryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()

	clinicID := r.URL.Query().Get("clinic_id")
	if clinicID == "" {
		writeJSON(w, http.StatusBadRequest, Fail("clinic_id is required"))
		return
	}

	month := r.URL.Query().Get("month")
	if month == "" {
		month = aggregate.CurrentMonth(h.now())
	}
	if _, _, err := aggregate.MonthRange(month); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail(err.Error()))
		return
	}

	jobType := optionalQuery(r, "job_type")
	source := optionalQuery(r, "source")
	if source != nil && !models.KnownSource(*source) {
		writeJSON(w, http.StatusBadRequest, Fail("invalid source: "+*source))
		return
	}

	if h.cache != nil {
		if cached, err := h.cache.Get(ctx, clinicID, month, jobType, source); err == nil {
			writeJSON(w, http.StatusOK, Ok(cached))
			return
		} else if err != cache.ErrCacheMiss {
			h.logger.Warn("Summary cache read failed", zap.String("clinic_id", clinicID), zap.Error(err))
		}
	}

	summary, err := h.builder.BuildMonthlySummary(ctx, clinicID, month, jobType, source)
	if err != nil {
		h.logger.Error("Failed to build monthly summary",
			zap.String("clinic_id", clinicID),
			zap.String("month", month),
			zap.Error(err),
		)
		writeJSON(w, http.StatusInternalServerError, Fail("failed to build summary"))
		return
	}

	if h.cache != nil {
		if err := h.cache.Set(ctx, summary, source); err != nil {
			h.logger.Warn("Summary cache write failed", zap.String("clinic_id", clinicID), zap.Error(err))
		}
	}

	writeJSON(w, http.StatusOK, Ok(summary))
}
