package httpapi

import (
	"context"
	"net/http"

	"recruit-metrics/internal/models"
	"recruit-metrics/internal/normalizer"

	"go.uber.org/zap"
)

// BatchNormalizer persists a collector batch.
type BatchNormalizer interface {
	NormalizeBatch(ctx context.Context, clinicID, source string, jobType *string, records []models.RawDailyRecord) normalizer.BatchResult
}

// IngestRequest is the body for POST /metrics/ingest, one collector run for
// one (clinic, source, jobType-or-nil). Collectors that only know the raw
// posting title send job_title instead of job_type and the shared keyword
// taxonomy classifies it.
type IngestRequest struct {
	ClinicID string                  `json:"clinic_id"`
	Source   string                  `json:"source"`
	JobType  *string                 `json:"job_type,omitempty"`
	JobTitle string                  `json:"job_title,omitempty"`
	Records  []models.RawDailyRecord `json:"records"`
}

// IngestHandler handles POST /metrics/ingest.
type IngestHandler struct {
	normalizer BatchNormalizer
	classifier *normalizer.Classifier
	logger     *zap.Logger
}

// NewIngestHandler creates an IngestHandler.
func NewIngestHandler(n BatchNormalizer, classifier *normalizer.Classifier, logger *zap.Logger) *IngestHandler {
	return &IngestHandler{
		normalizer: n,
		classifier: classifier,
		logger:     logger,
	}
}

func (h *IngestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req IngestRequest
	if err := readBodyJSON(r, 4<<20, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}
	if req.ClinicID == "" {
		writeJSON(w, http.StatusBadRequest, Fail("clinic_id is required"))
		return
	}
	if !models.KnownSource(req.Source) {
		writeJSON(w, http.StatusBadRequest, Fail("invalid source: "+req.Source))
		return
	}

	jobType := req.JobType
	if jobType == nil && req.JobTitle != "" {
		jobType = h.classifier.Classify(req.JobTitle)
		if jobType == nil {
			h.logger.Warn("Unclassifiable job title, storing as clinic-wide",
				zap.String("clinic_id", req.ClinicID),
				zap.String("job_title", req.JobTitle),
			)
		}
	}

	result := h.normalizer.NormalizeBatch(r.Context(), req.ClinicID, req.Source, jobType, req.Records)

	h.logger.Info("Ingested batch",
		zap.String("clinic_id", req.ClinicID),
		zap.String("source", req.Source),
		zap.String("job_type", models.JobTypeOrAll(jobType)),
		zap.Int("attempted", result.Attempted),
		zap.Int("saved", result.Saved),
	)

	writeJSON(w, http.StatusOK, Ok(result))
}
