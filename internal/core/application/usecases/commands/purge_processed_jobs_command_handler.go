package commands

import (
	"context"
	"log/slog"
)

type PurgeProcessedJobsCommandHandler struct {
	uowFactory ProcessedJobUoWFactory
	logger     *slog.Logger
}

func NewPurgeProcessedJobsCommandHandler(
	uowFactory ProcessedJobUoWFactory,
	logger *slog.Logger,
) PurgeProcessedJobsCommandHandler {
	return PurgeProcessedJobsCommandHandler{
		uowFactory: uowFactory,
		logger:     logger.With("component", "purge_processed_jobs_handler"),
	}
}

// Handle deletes the expired records and returns how many were removed.
func (h PurgeProcessedJobsCommandHandler) Handle(ctx context.Context, cmd PurgeProcessedJobsCommand) (int64, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	deleted, err := uow.ProcessedJobRepository().DeleteOlderThan(ctx, cmd.Cutoff())
	if err != nil {
		return 0, err
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	if deleted > 0 {
		h.logger.InfoContext(ctx, "processed jobs purged", "deleted", deleted, "cutoff", cmd.Cutoff())
	}
	return deleted, nil
}
