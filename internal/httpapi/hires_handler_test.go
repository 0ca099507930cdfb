package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"recruit-metrics/internal/models"
	"recruit-metrics/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeHireStore struct {
	hires map[string]models.Hire
	next  int
}

func newFakeHireStore() *fakeHireStore {
	return &fakeHireStore{hires: make(map[string]models.Hire)}
}

func (f *fakeHireStore) Insert(ctx context.Context, hire models.Hire) (string, error) {
	if hire.HireID == "" {
		f.next++
		hire.HireID = fmt.Sprintf("hire-%d", f.next)
	}
	f.hires[hire.HireID] = hire
	return hire.HireID, nil
}

func (f *fakeHireStore) List(ctx context.Context, clinicID string) ([]models.Hire, error) {
	var hires []models.Hire
	for _, hire := range f.hires {
		if hire.ClinicID == clinicID {
			hires = append(hires, hire)
		}
	}
	return hires, nil
}

func (f *fakeHireStore) Delete(ctx context.Context, hireID string) error {
	if _, ok := f.hires[hireID]; !ok {
		return fmt.Errorf("hire %s: %w", hireID, repository.ErrNotFound)
	}
	delete(f.hires, hireID)
	return nil
}

func TestHiresHandler_InsertListDelete(t *testing.T) {
	store := newFakeHireStore()
	h := NewHiresHandler(store, zap.NewNop())

	body := `{"clinic_id":"clinic-1","hire_date":"2025-05-20","job_type":"dental-hygienist","source":"portalA","channel":"scout","name":"A. Tanaka"}`
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/hires", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	var created map[string]string
	decodeResult(t, rec, &created)
	require.NotEmpty(t, created["hire_id"])

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/hires?clinic_id=clinic-1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var hires []models.Hire
	decodeResult(t, rec, &hires)
	require.Len(t, hires, 1)
	assert.Equal(t, "dental-hygienist", hires[0].JobType)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/hires/"+created["hire_id"], nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, store.hires)
}

func TestHiresHandler_InsertValidation(t *testing.T) {
	h := NewHiresHandler(newFakeHireStore(), zap.NewNop())

	cases := []string{
		`{"hire_date":"2025-05-20","job_type":"dentist"}`,
		`{"clinic_id":"c","hire_date":"2025-05-20"}`,
		`{"clinic_id":"c","hire_date":"05/20/2025","job_type":"dentist"}`,
	}
	for _, body := range cases {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/hires", strings.NewReader(body)))
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestHiresHandler_ListEmptyIsArray(t *testing.T) {
	h := NewHiresHandler(newFakeHireStore(), zap.NewNop())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/hires?clinic_id=clinic-1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"result":[]`)
}

func TestHiresHandler_DeleteUnknown(t *testing.T) {
	h := NewHiresHandler(newFakeHireStore(), zap.NewNop())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/hires/ghost", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
