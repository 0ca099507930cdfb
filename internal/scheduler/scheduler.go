// Package scheduler runs the daily cache-warm job so the first dashboard
// load of the day does not pay the aggregation cost.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"recruit-metrics/internal/models"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ClinicLister returns every clinic id known to the store.
type ClinicLister interface {
	ListClinicIDs(ctx context.Context) ([]string, error)
}

// SummaryBuilder computes a monthly summary from the store.
type SummaryBuilder interface {
	BuildMonthlySummary(ctx context.Context, clinicID, month string, jobType, source *string) (*models.MonthlySummary, error)
}

// SummaryCache stores computed summaries.
type SummaryCache interface {
	Set(ctx context.Context, summary *models.MonthlySummary, source *string) error
}

// Scheduler warms the current-month summary cache for every clinic on a cron
// schedule.
type Scheduler struct {
	clinics ClinicLister
	builder SummaryBuilder
	cache   SummaryCache
	logger  *zap.Logger
	cron    *cron.Cron
	now     func() time.Time
}

// New creates a Scheduler. schedule is a standard 5-field cron spec.
func New(clinics ClinicLister, builder SummaryBuilder, summaryCache SummaryCache, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		clinics: clinics,
		builder: builder,
		cache:   summaryCache,
		logger:  logger,
		cron:    cron.New(),
		now:     time.Now,
	}
}

// Start registers the warm job and starts the cron loop. The job runs with a
// background context derived per invocation; Stop waits for a running job.
func (s *Scheduler) Start(schedule string) error {
	_, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		s.WarmAll(ctx)
	})
	if err != nil {
		return fmt.Errorf("invalid warm schedule %q: %w", schedule, err)
	}

	s.cron.Start()
	s.logger.Info("Started cache-warm scheduler", zap.String("schedule", schedule))
	return nil
}

// Stop stops the cron loop and blocks until a running job finishes.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Stopped cache-warm scheduler")
}

// WarmAll rebuilds and caches the current-month clinic-wide summary for every
// clinic. Per-clinic failures are logged and skipped so one bad clinic does
// not starve the rest.
func (s *Scheduler) WarmAll(ctx context.Context) {
	month := s.now().Format("2006-01")

	clinicIDs, err := s.clinics.ListClinicIDs(ctx)
	if err != nil {
		s.logger.Error("Failed to list clinics for cache warm", zap.Error(err))
		return
	}

	successCount := 0
	errorCount := 0
	for _, clinicID := range clinicIDs {
		select {
		case <-ctx.Done():
			s.logger.Warn("Cache warm cancelled",
				zap.Int("success_count", successCount),
				zap.Int("error_count", errorCount),
			)
			return
		default:
		}

		if err := s.warmClinic(ctx, clinicID, month); err != nil {
			s.logger.Error("Failed to warm summary cache",
				zap.String("clinic_id", clinicID),
				zap.String("month", month),
				zap.Error(err),
			)
			errorCount++
			continue
		}
		successCount++
	}

	s.logger.Info("Completed cache warm",
		zap.String("month", month),
		zap.Int("success_count", successCount),
		zap.Int("error_count", errorCount),
	)
}

func (s *Scheduler) warmClinic(ctx context.Context, clinicID, month string) error {
	summary, err := s.builder.BuildMonthlySummary(ctx, clinicID, month, nil, nil)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, summary, nil)
}
