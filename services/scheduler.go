package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

const minExportTimeout = time.Minute

// ExportScheduler periodically exports the standings of every tournament.
type ExportScheduler struct {
	scheduler gocron.Scheduler
	logger    *slog.Logger
}

// StartExportScheduler registers the export job and starts the scheduler.
// Each run gets its own timeout derived from ctx, never shorter than a minute.
func StartExportScheduler(ctx context.Context, exports ExportService, interval time.Duration, logger *slog.Logger) (*ExportScheduler, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("%w: export interval must be positive", ErrValidationFailed)
	}
	logger = componentLogger(logger, "export_scheduler")

	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			runCtx, cancel := context.WithTimeout(ctx, max(interval, minExportTimeout))
			defer cancel()

			results, err := exports.ExportAll(runCtx)
			if err != nil {
				logger.ErrorContext(runCtx, "scheduled standings export failed", slog.Any("error", err))
				return
			}
			logger.InfoContext(runCtx, "scheduled standings export finished", slog.Int("tournaments", len(results)))
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, fmt.Errorf("failed to register export job: %w", err)
	}

	sched.Start()
	logger.Info("export scheduler started", slog.Duration("interval", interval))
	return &ExportScheduler{scheduler: sched, logger: logger}, nil
}

func (s *ExportScheduler) Shutdown() error {
	if err := s.scheduler.Shutdown(); err != nil {
		return fmt.Errorf("failed to stop export scheduler: %w", err)
	}
	s.logger.Info("export scheduler stopped")
	return nil
}
