package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"recruit-metrics/internal/manualinput"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeApplier struct {
	count int
	err   error
	got   manualinput.Request
}

func (f *fakeApplier) Apply(ctx context.Context, req manualinput.Request) (int, error) {
	f.got = req
	return f.count, f.err
}

func postManualInput(t *testing.T, applier ManualInputApplier, body string) *httptest.ResponseRecorder {
	t.Helper()
	h := NewManualInputHandler(applier, zap.NewNop())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/metrics/manual-input", strings.NewReader(body)))
	return rec
}

func TestManualInputHandler_Success(t *testing.T) {
	applier := &fakeApplier{count: 2}
	body := `{"clinic_id":"clinic-1","source":"portalA","entries":[{"date":"2025-06-01","scout_reply_count":2,"interview_count":1},{"date":"2025-06-02","scout_reply_count":0,"interview_count":0}]}`

	rec := postManualInput(t, applier, body)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, float64(2), resp["count"])
	assert.Equal(t, "clinic-1", applier.got.ClinicID)
	assert.Len(t, applier.got.Entries, 2)
}

func TestManualInputHandler_BadJSON(t *testing.T) {
	rec := postManualInput(t, &fakeApplier{}, `{"entries": "nope"`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestManualInputHandler_ValidationError(t *testing.T) {
	applier := &fakeApplier{err: &manualinput.ValidationError{Reason: "entry 1: invalid date format"}}

	rec := postManualInput(t, applier, `{"clinic_id":"c","source":"portalA","entries":[{"date":"bad"}]}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var res Result[any]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Contains(t, res.Message, "invalid date format")
}

func TestManualInputHandler_ClinicNotFound(t *testing.T) {
	applier := &fakeApplier{err: manualinput.ErrClinicNotFound}

	rec := postManualInput(t, applier, `{"clinic_id":"ghost","source":"portalA","entries":[{"date":"2025-06-01"}]}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestManualInputHandler_StorageError(t *testing.T) {
	applier := &fakeApplier{err: errors.New("db down")}

	rec := postManualInput(t, applier, `{"clinic_id":"c","source":"portalA","entries":[{"date":"2025-06-01"}]}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestManualInputHandler_MethodNotAllowed(t *testing.T) {
	h := NewManualInputHandler(&fakeApplier{}, zap.NewNop())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics/manual-input", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
