package httpapi

import (
	"context"
	"errors"
	"net/http"

	"recruit-metrics/internal/manualinput"

	"go.uber.org/zap"
)

// ManualInputApplier validates and applies a manual-input request.
type ManualInputApplier interface {
	Apply(ctx context.Context, req manualinput.Request) (int, error)
}

// ManualInputHandler handles POST /metrics/manual-input.
//
// Responses:
//   - 200 {"success": true, "count": N} when N entries were written
//   - 400 with a specific message per validation failure category
//   - 404 when clinic_id is unresolvable
//   - 500 on storage failure after validation passed
type ManualInputHandler struct {
	reconciler ManualInputApplier
	logger     *zap.Logger
}

// NewManualInputHandler creates a ManualInputHandler.
func NewManualInputHandler(reconciler ManualInputApplier, logger *zap.Logger) *ManualInputHandler {
	return &ManualInputHandler{
		reconciler: reconciler,
		logger:     logger,
	}
}

func (h *ManualInputHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req manualinput.Request
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		// Also covers entries sent as a non-array value.
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body: expected JSON with clinic_id, source and an entries array"))
		return
	}

	count, err := h.reconciler.Apply(r.Context(), req)
	if err != nil {
		var vErr *manualinput.ValidationError
		switch {
		case errors.As(err, &vErr):
			writeJSON(w, http.StatusBadRequest, Fail(vErr.Reason))
		case errors.Is(err, manualinput.ErrClinicNotFound):
			writeJSON(w, http.StatusNotFound, Fail(err.Error()))
		default:
			h.logger.Error("Manual input failed",
				zap.String("clinic_id", req.ClinicID),
				zap.String("source", req.Source),
				zap.Error(err),
			)
			writeJSON(w, http.StatusInternalServerError, Fail("failed to save manual metrics"))
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "count": count})
}
