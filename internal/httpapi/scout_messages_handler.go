package httpapi

import (
	"context"
	"net/http"
	"time"

	"recruit-metrics/internal/models"

	"go.uber.org/zap"
)

// ScoutMessageWriter persists per-day scout message counts.
type ScoutMessageWriter interface {
	Upsert(ctx context.Context, row models.ScoutMessageRow) error
}

// ScoutMessagesRequest is the body for POST /metrics/scout-messages.
type ScoutMessagesRequest struct {
	ClinicID string `json:"clinic_id"`
	Source   string `json:"source"`
	Rows     []struct {
		Date       string `json:"date"`
		SentCount  int    `json:"sent_count"`
		ReplyCount int    `json:"reply_count"`
	} `json:"rows"`
}

// ScoutMessagesHandler handles POST /metrics/scout-messages, the collector
// boundary for the per-day scout message counters. No per-job-type breakdown
// exists for these.
type ScoutMessagesHandler struct {
	writer ScoutMessageWriter
	logger *zap.Logger
}

// NewScoutMessagesHandler creates a ScoutMessagesHandler.
func NewScoutMessagesHandler(writer ScoutMessageWriter, logger *zap.Logger) *ScoutMessagesHandler {
	return &ScoutMessagesHandler{
		writer: writer,
		logger: logger,
	}
}

func (h *ScoutMessagesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req ScoutMessagesRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
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
	for _, row := range req.Rows {
		if _, err := time.Parse("2006-01-02", row.Date); err != nil {
			writeJSON(w, http.StatusBadRequest, Fail("invalid date: "+row.Date))
			return
		}
		if row.SentCount < 0 || row.ReplyCount < 0 {
			writeJSON(w, http.StatusBadRequest, Fail("counts must not be negative"))
			return
		}
	}

	saved := 0
	for _, row := range req.Rows {
		err := h.writer.Upsert(r.Context(), models.ScoutMessageRow{
			ClinicID:   req.ClinicID,
			Date:       row.Date,
			Source:     req.Source,
			SentCount:  row.SentCount,
			ReplyCount: row.ReplyCount,
		})
		if err != nil {
			h.logger.Error("Failed to upsert scout messages",
				zap.String("clinic_id", req.ClinicID),
				zap.String("source", req.Source),
				zap.String("date", row.Date),
				zap.Error(err),
			)
			continue
		}
		saved++
	}

	writeJSON(w, http.StatusOK, Ok(map[string]int{"attempted": len(req.Rows), "saved": saved}))
}
