package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/GregTMJ/Orders-API/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// PurgeProcessedJobsHandler is implemented by commands.PurgeProcessedJobsCommandHandler.
type PurgeProcessedJobsHandler interface {
	Handle(ctx context.Context, cmd commands.PurgeProcessedJobsCommand) (int64, error)
}

// ProcessedJobsCleanupJob periodically removes processed job records that are
// older than the retention window.
type ProcessedJobsCleanupJob struct {
	handler   PurgeProcessedJobsHandler
	schedule  string
	retention time.Duration
	cron      *cron.Cron
	now       func() time.Time
	logger    *slog.Logger
}

// NewProcessedJobsCleanupJob creates the job. schedule is a six field cron
// expression with seconds, e.g. "0 */10 * * * *".
func NewProcessedJobsCleanupJob(
	handler PurgeProcessedJobsHandler,
	schedule string,
	retention time.Duration,
	logger *slog.Logger,
) *ProcessedJobsCleanupJob {
	return &ProcessedJobsCleanupJob{
		handler:   handler,
		schedule:  schedule,
		retention: retention,
		cron:      cron.New(cron.WithSeconds()),
		now:       time.Now,
		logger:    logger.With("component", "processed_jobs_cleanup_job"),
	}
}

// Start schedules the cleanup. It fails on an invalid schedule.
func (j *ProcessedJobsCleanupJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, j.RunOnce); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Processed jobs cleanup job started",
		"schedule", j.schedule, "retention", j.retention)
	return nil
}

// RunOnce performs a single cleanup pass.
func (j *ProcessedJobsCleanupJob) RunOnce() {
	ctx := context.Background()

	cmd, err := commands.NewPurgeProcessedJobsCommand(j.now(), j.retention)
	if err != nil {
		j.logger.ErrorContext(ctx, "Processed jobs cleanup misconfigured", "error", err)
		return
	}

	if _, err = j.handler.Handle(ctx, cmd); err != nil {
		j.logger.ErrorContext(ctx, "Processed jobs cleanup failed", "error", err)
	}
}

// Stop stops scheduling and waits for a running pass to finish.
func (j *ProcessedJobsCleanupJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Processed jobs cleanup job stopped")
}
