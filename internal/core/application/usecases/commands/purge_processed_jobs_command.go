package commands

import (
	"errors"
	"time"

	"github.com/GregTMJ/Orders-API/internal/pkg/errs"
	"github.com/GregTMJ/Orders-API/internal/pkg/guard"
)

var (
	ErrPurgeProcessedJobsCommandIsNotConstructed = errors.New(
		"PurgeProcessedJobsCommand must be created via NewPurgeProcessedJobsCommand constructor",
	)
	ErrRetentionIsInvalid = errs.NewValueIsInvalidError("retention")
)

// PurgeProcessedJobsCommand removes processed job records older than the
// retention window. Jobs redelivered after their record is purged run again.
type PurgeProcessedJobsCommand struct {
	cutoff time.Time

	guard guard.ConstructorGuard
}

func NewPurgeProcessedJobsCommand(now time.Time, retention time.Duration) (PurgeProcessedJobsCommand, error) {
	if retention <= 0 {
		return PurgeProcessedJobsCommand{}, ErrRetentionIsInvalid
	}

	return PurgeProcessedJobsCommand{
		cutoff: now.UTC().Add(-retention),
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c PurgeProcessedJobsCommand) Validate() error {
	return c.guard.Validate(ErrPurgeProcessedJobsCommandIsNotConstructed)
}

func (c PurgeProcessedJobsCommand) Cutoff() time.Time {
	return c.cutoff
}
