package commands_test

import (
	"errors"
	"testing"
	"time"

	"github.com/GregTMJ/Orders-API/internal/core/application/usecases/commands"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewPurgeProcessedJobsCommand(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	cmd, err := commands.NewPurgeProcessedJobsCommand(now, 24*time.Hour)

	require.NoError(t, err)
	require.NoError(t, cmd.Validate())
	assert.Equal(t, time.Date(2025, 2, 28, 12, 0, 0, 0, time.UTC), cmd.Cutoff())
}

func TestNewPurgeProcessedJobsCommand_InvalidRetention(t *testing.T) {
	for _, retention := range []time.Duration{0, -time.Hour} {
		_, err := commands.NewPurgeProcessedJobsCommand(time.Now(), retention)

		require.ErrorIs(t, err, commands.ErrRetentionIsInvalid)
	}
}

func TestPurgeProcessedJobsCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewPurgeProcessedJobsCommand(time.Now(), time.Hour)
	require.NoError(t, err)

	repo := new(MockProcessedJobRepository)
	uow := new(MockProcessedJobUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("ProcessedJobRepository").Return(repo).Once(),
		repo.On("DeleteOlderThan", ctx, cmd.Cutoff()).Return(int64(3), nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
	)
	uow.On("Rollback", ctx).Return(nil).Once()
	factory := new(MockProcessedJobUoWFactory)
	factory.On("Create").Return(uow).Once()

	deleted, err := commands.NewPurgeProcessedJobsCommandHandler(factory, discardLogger()).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestPurgeProcessedJobsCommandHandler_Handle_DeleteFails(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewPurgeProcessedJobsCommand(time.Now(), time.Hour)
	require.NoError(t, err)
	dbErr := errors.New("db down")

	repo := new(MockProcessedJobRepository)
	repo.On("DeleteOlderThan", ctx, cmd.Cutoff()).Return(int64(0), dbErr).Once()
	uow := new(MockProcessedJobUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("ProcessedJobRepository").Return(repo).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	factory := new(MockProcessedJobUoWFactory)
	factory.On("Create").Return(uow).Once()

	_, err = commands.NewPurgeProcessedJobsCommandHandler(factory, discardLogger()).Handle(ctx, cmd)

	require.ErrorIs(t, err, dbErr)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
	uow.AssertExpectations(t)
}

func TestPurgeProcessedJobsCommandHandler_Handle_NotConstructed(t *testing.T) {
	factory := new(MockProcessedJobUoWFactory)

	_, err := commands.NewPurgeProcessedJobsCommandHandler(factory, discardLogger()).
		Handle(t.Context(), commands.PurgeProcessedJobsCommand{})

	require.ErrorIs(t, err, commands.ErrPurgeProcessedJobsCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}
