// Package service wires the storage, cache, HTTP and scheduler layers into
// one startable unit.
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"recruit-metrics/internal/aggregate"
	"recruit-metrics/internal/cache"
	"recruit-metrics/internal/config"
	"recruit-metrics/internal/database"
	"recruit-metrics/internal/httpapi"
	"recruit-metrics/internal/manualinput"
	"recruit-metrics/internal/normalizer"
	"recruit-metrics/internal/repository"
	"recruit-metrics/internal/scheduler"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// MetricsService is the recruitment metrics backend.
type MetricsService struct {
	config      *config.Config
	logger      *zap.Logger
	db          *sql.DB
	redisClient *redis.Client
	httpServer  *http.Server
	scheduler   *scheduler.Scheduler
}

// NewMetricsService connects the backing stores and builds the full handler
// graph.
func NewMetricsService(cfg *config.Config, logger *zap.Logger) (*MetricsService, error) {
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	redisClient := cache.NewRedisClient(&cfg.Redis)
	if err := cache.Ping(context.Background(), redisClient); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	metricsRepo := repository.NewMetricsRepository(db, logger)
	scoutRepo := repository.NewScoutMessageRepository(db, logger)
	clinicRepo := repository.NewClinicRepository(db, logger)
	goalRepo := repository.NewGoalRepository(db, logger)
	hireRepo := repository.NewHireRepository(db, logger)

	norm := normalizer.New(metricsRepo, logger)
	builder := aggregate.NewSummaryBuilder(metricsRepo, scoutRepo, logger)
	reconciler := manualinput.New(clinicRepo, metricsRepo, logger)

	kv := cache.NewRedisKVStore(redisClient)
	summaryCache := cache.NewSummaryCache(kv, time.Duration(cfg.Summary.CacheTTL)*time.Second, logger)

	mux := httpapi.NewMux(httpapi.Handlers{
		Summary:       httpapi.NewSummaryHandler(builder, summaryCache, logger),
		Export:        httpapi.NewExportHandler(builder, logger),
		Ingest:        httpapi.NewIngestHandler(norm, normalizer.NewClassifier(), logger),
		ManualInput:   httpapi.NewManualInputHandler(reconciler, logger),
		ScoutMessages: httpapi.NewScoutMessagesHandler(scoutRepo, logger),
		Goals:         httpapi.NewGoalsHandler(goalRepo, logger),
		Hires:         httpapi.NewHiresHandler(hireRepo, logger),
	})

	svc := &MetricsService{
		config:      cfg,
		logger:      logger,
		db:          db,
		redisClient: redisClient,
		httpServer: &http.Server{
			Addr:              cfg.HTTP.Addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}

	if cfg.Summary.WarmEnabled {
		svc.scheduler = scheduler.New(clinicRepo, builder, summaryCache, logger)
	}

	return svc, nil
}

// Start runs the HTTP server and the cache-warm scheduler. Blocks until the
// server stops.
func (s *MetricsService) Start(ctx context.Context) error {
	s.logger.Info("Starting recruitment metrics service",
		zap.String("http_addr", s.config.HTTP.Addr),
		zap.Bool("warm_enabled", s.config.Summary.WarmEnabled),
	)

	if s.scheduler != nil {
		if err := s.scheduler.Start(s.config.Summary.WarmSchedule); err != nil {
			return err
		}
	}

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Stop shuts down in reverse order of Start: HTTP first so in-flight
// requests drain, then scheduler, then connections.
func (s *MetricsService) Stop(ctx context.Context) error {
	s.logger.Info("Stopping recruitment metrics service")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("Error shutting down http server", zap.Error(err))
	}

	if s.scheduler != nil {
		s.scheduler.Stop()
	}

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			s.logger.Error("Error closing redis connection", zap.Error(err))
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Error closing database connection", zap.Error(err))
		}
	}

	s.logger.Info("Recruitment metrics service stopped")
	return nil
}
