// Package manualinput merges operator-entered daily values (scout replies,
// interviews) into the canonical metric rows without disturbing scraped
// counters.
package manualinput

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"recruit-metrics/internal/models"

	"go.uber.org/zap"
)

// ErrClinicNotFound marks an unresolvable clinic reference. Distinct from
// validation failures.
var ErrClinicNotFound = errors.New("clinic not found")

// ValidationError is a rejected request with a human-readable reason. The
// whole request fails on the first violation; nothing is applied.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func validationErrorf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// Entry is one operator-entered day. Counts arrive as float64 so fractional
// JSON numbers can be rejected explicitly instead of being truncated by
// decoding.
type Entry struct {
	Date            string  `json:"date"`
	ScoutReplyCount float64 `json:"scout_reply_count"`
	InterviewCount  float64 `json:"interview_count"`
}

// Request is the manual-input payload for one (clinic, source).
type Request struct {
	ClinicID string  `json:"clinic_id"`
	Source   string  `json:"source"`
	Entries  []Entry `json:"entries"`
}

// ClinicChecker resolves clinic references.
type ClinicChecker interface {
	ClinicExists(ctx context.Context, clinicID string) (bool, error)
}

// ManualWriter is the partial-field upsert side of the metrics repository.
type ManualWriter interface {
	UpsertManualMetrics(ctx context.Context, clinicID, source, date string, scoutReplyCount, interviewCount int) error
}

// Reconciler validates and applies manual-input requests.
type Reconciler struct {
	clinics ClinicChecker
	writer  ManualWriter
	logger  *zap.Logger
	now     func() time.Time
}

// New creates a Reconciler using the wall clock.
func New(clinics ClinicChecker, writer ManualWriter, logger *zap.Logger) *Reconciler {
	return &Reconciler{
		clinics: clinics,
		writer:  writer,
		logger:  logger,
		now:     time.Now,
	}
}

// NewWithClock creates a Reconciler with a fixed clock for tests.
func NewWithClock(clinics ClinicChecker, writer ManualWriter, logger *zap.Logger, now func() time.Time) *Reconciler {
	r := New(clinics, writer, logger)
	r.now = now
	return r
}

// Apply validates the whole request, then upserts each entry. Validation is
// all-or-nothing and completes fully before any write begins. Entries are
// applied independently per date; a storage failure aborts and is reported
// as one aggregate failure with no partial-commit visibility to the caller.
// Returns the number of entries written.
func (r *Reconciler) Apply(ctx context.Context, req Request) (int, error) {
	if err := r.validate(ctx, req); err != nil {
		return 0, err
	}

	for _, entry := range req.Entries {
		err := r.writer.UpsertManualMetrics(ctx, req.ClinicID, req.Source, entry.Date,
			int(entry.ScoutReplyCount), int(entry.InterviewCount))
		if err != nil {
			r.logger.Error("Failed to save manual metrics",
				zap.String("clinic_id", req.ClinicID),
				zap.String("source", req.Source),
				zap.String("date", entry.Date),
				zap.Error(err),
			)
			return 0, fmt.Errorf("failed to save manual metrics: %w", err)
		}
	}

	return len(req.Entries), nil
}

func (r *Reconciler) validate(ctx context.Context, req Request) error {
	if req.ClinicID == "" {
		return validationErrorf("clinic_id is required")
	}
	if !models.KnownSource(req.Source) {
		return validationErrorf("invalid source: %q", req.Source)
	}
	if len(req.Entries) == 0 {
		return validationErrorf("entries must be a non-empty array")
	}

	today := r.now().Format("2006-01-02")
	for _, entry := range req.Entries {
		if err := validateEntry(entry, today); err != nil {
			return err
		}
	}

	exists, err := r.clinics.ClinicExists(ctx, req.ClinicID)
	if err != nil {
		return fmt.Errorf("failed to look up clinic %s: %w", req.ClinicID, err)
	}
	if !exists {
		return fmt.Errorf("clinic %s: %w", req.ClinicID, ErrClinicNotFound)
	}

	return nil
}

// validateEntry checks one entry's rules in order, short-circuiting on the
// first violation: date format, future date, then each count.
func validateEntry(entry Entry, today string) error {
	if _, err := time.Parse("2006-01-02", entry.Date); err != nil || len(entry.Date) != 10 {
		return validationErrorf("invalid date format: %q (expected YYYY-MM-DD)", entry.Date)
	}
	if entry.Date > today {
		return validationErrorf("date must not be in the future: %s", entry.Date)
	}
	if err := validateCount("scout_reply_count", entry.ScoutReplyCount); err != nil {
		return err
	}
	if err := validateCount("interview_count", entry.InterviewCount); err != nil {
		return err
	}
	return nil
}

func validateCount(field string, value float64) error {
	if value < 0 {
		return validationErrorf("%s must not be negative", field)
	}
	if value != math.Trunc(value) {
		return validationErrorf("%s must be an integer", field)
	}
	return nil
}
