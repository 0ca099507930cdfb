package httpapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"recruit-metrics/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeScoutWriter struct {
	rows []models.ScoutMessageRow
	err  error
}

func (f *fakeScoutWriter) Upsert(ctx context.Context, row models.ScoutMessageRow) error {
	if f.err != nil {
		return f.err
	}
	f.rows = append(f.rows, row)
	return nil
}

func TestScoutMessagesHandler_Success(t *testing.T) {
	writer := &fakeScoutWriter{}
	h := NewScoutMessagesHandler(writer, zap.NewNop())

	body := `{"clinic_id":"clinic-1","source":"portalA","rows":[{"date":"2025-06-01","sent_count":10,"reply_count":3},{"date":"2025-06-02","sent_count":5,"reply_count":0}]}`
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/metrics/scout-messages", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	var result map[string]int
	decodeResult(t, rec, &result)
	assert.Equal(t, 2, result["saved"])
	require.Len(t, writer.rows, 2)
	assert.Equal(t, 10, writer.rows[0].SentCount)
}

func TestScoutMessagesHandler_Validation(t *testing.T) {
	h := NewScoutMessagesHandler(&fakeScoutWriter{}, zap.NewNop())

	cases := []string{
		`{"source":"portalA","rows":[]}`,
		`{"clinic_id":"c","source":"portalX","rows":[]}`,
		`{"clinic_id":"c","source":"portalA","rows":[{"date":"06/01/2025"}]}`,
		`{"clinic_id":"c","source":"portalA","rows":[{"date":"2025-06-01","sent_count":-1}]}`,
	}
	for _, body := range cases {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/metrics/scout-messages", strings.NewReader(body)))
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestScoutMessagesHandler_SkipsFailedRows(t *testing.T) {
	writer := &fakeScoutWriter{err: errors.New("db down")}
	h := NewScoutMessagesHandler(writer, zap.NewNop())

	body := `{"clinic_id":"clinic-1","source":"portalA","rows":[{"date":"2025-06-01","sent_count":1}]}`
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/metrics/scout-messages", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	var result map[string]int
	decodeResult(t, rec, &result)
	assert.Equal(t, 1, result["attempted"])
	assert.Equal(t, 0, result["saved"])
}
