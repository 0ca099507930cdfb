package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"recruit-metrics/internal/aggregate"
	"recruit-metrics/internal/exporter"
	"recruit-metrics/internal/models"

	"go.uber.org/zap"
)

// ExportHandler handles GET /metrics/export, streaming the monthly summary
// as an xlsx download. Same query parameters as the summary endpoint.
type ExportHandler struct {
	builder SummaryBuilder
	logger  *zap.Logger
	now     func() time.Time
}

// NewExportHandler creates an ExportHandler.
func NewExportHandler(builder SummaryBuilder, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{
		builder: builder,
		logger:  logger,
		now:     time.Now,
	}
}

func (h *ExportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

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

	summary, err := h.builder.BuildMonthlySummary(r.Context(), clinicID, month, jobType, source)
	if err != nil {
		h.logger.Error("Failed to build summary for export",
			zap.String("clinic_id", clinicID),
			zap.String("month", month),
			zap.Error(err),
		)
		writeJSON(w, http.StatusInternalServerError, Fail("failed to build summary"))
		return
	}

	data, err := exporter.GenerateMonthlySummary(summary)
	if err != nil {
		h.logger.Error("Failed to generate workbook",
			zap.String("clinic_id", clinicID),
			zap.Error(err),
		)
		writeJSON(w, http.StatusInternalServerError, Fail("failed to generate workbook"))
		return
	}

	filename := fmt.Sprintf("recruitment-kpi_%s_%s.xlsx", clinicID, month)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
