package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"recruit-metrics/internal/models"

	"go.uber.org/zap"
)

// SummaryCache caches computed monthly summaries in Redis so dashboard
// reads and the daily warm job share one copy.
type SummaryCache struct {
	kv     KVStore
	ttl    time.Duration
	logger *zap.Logger
}

// NewSummaryCache creates a summary cache with the given TTL.
func NewSummaryCache(kv KVStore, ttl time.Duration, logger *zap.Logger) *SummaryCache {
	return &SummaryCache{
		kv:     kv,
		ttl:    ttl,
		logger: logger,
	}
}

func summaryKey(clinicID, month string, jobType, source *string) string {
	src := "all"
	if source != nil {
		src = *source
	}
	return fmt.Sprintf("recruit:summary:%s:%s:%s:%s", clinicID, month, models.JobTypeOrAll(jobType), src)
}

// Get returns a cached summary, or ErrCacheMiss.
func (c *SummaryCache) Get(ctx context.Context, clinicID, month string, jobType, source *string) (*models.MonthlySummary, error) {
	val, err := c.kv.Get(ctx, summaryKey(clinicID, month, jobType, source))
	if err != nil {
		return nil, err
	}

	var summary models.MonthlySummary
	if err := json.Unmarshal([]byte(val), &summary); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached summary: %w", err)
	}
	return &summary, nil
}

// Set stores a summary under its (clinic, month, jobType, source) key.
func (c *SummaryCache) Set(ctx context.Context, summary *models.MonthlySummary, source *string) error {
	key := summaryKey(summary.ClinicID, summary.Month, summary.JobType, source)

	jsonData, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}

	if err := c.kv.Set(ctx, key, string(jsonData), c.ttl); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}

	c.logger.Debug("Updated summary cache",
		zap.String("clinic_id", summary.ClinicID),
		zap.String("key", key),
	)

	return nil
}
