// Package lifecycle runs process-wide resources (cache client, store pool,
// broker connection) as an ordered sequence of scoped acquisitions.
//
// Steps start in declaration order. If a step fails, every step already
// started is stopped in reverse order before Start returns. Stop releases
// started steps in reverse order and is safe to call more than once.
//
//	seq := lifecycle.NewSequence(logger,
//	    lifecycle.Step{Name: "cache", Start: cache.Connect, Stop: cache.Close},
//	    lifecycle.Step{Name: "store", Start: store.HealthCheck},
//	    lifecycle.Step{Name: "broker", Start: broker.Connect, Stop: broker.Close},
//	)
//	if err := seq.Start(ctx); err != nil {
//	    return err
//	}
//	defer seq.Stop(context.Background())
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Step is one resource acquisition. Start is required, Stop is optional.
type Step struct {
	Name  string
	Start func(ctx context.Context) error
	Stop  func(ctx context.Context) error
}

// Sequence owns the ordered steps and the set of steps that are running.
type Sequence struct {
	mu      sync.Mutex
	steps   []Step
	started []Step
	logger  *slog.Logger
}

// NewSequence creates a sequence of steps. A nil logger discards output.
func NewSequence(logger *slog.Logger, steps ...Step) *Sequence {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Sequence{
		steps:  steps,
		logger: logger.With("component", "lifecycle"),
	}
}

// Start acquires every step in order.
func (s *Sequence) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, step := range s.steps {
		if step.Start == nil {
			return fmt.Errorf("step %q has no start function", step.Name)
		}
		if err := step.Start(ctx); err != nil {
			s.logger.ErrorContext(ctx, "Step failed to start", "step", step.Name, "error", err)
			stopErr := s.stopLocked(ctx)
			return errors.Join(fmt.Errorf("start %s: %w", step.Name, err), stopErr)
		}
		s.started = append(s.started, step)
		s.logger.InfoContext(ctx, "Step started", "step", step.Name)
	}
	return nil
}

// Stop releases started steps in reverse order and joins their errors.
func (s *Sequence) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopLocked(ctx)
}

func (s *Sequence) stopLocked(ctx context.Context) error {
	var errs []error
	for i := len(s.started) - 1; i >= 0; i-- {
		step := s.started[i]
		if step.Stop == nil {
			continue
		}
		if err := step.Stop(ctx); err != nil {
			s.logger.ErrorContext(ctx, "Step failed to stop", "step", step.Name, "error", err)
			errs = append(errs, fmt.Errorf("stop %s: %w", step.Name, err))
			continue
		}
		s.logger.InfoContext(ctx, "Step stopped", "step", step.Name)
	}
	s.started = nil
	return errors.Join(errs...)
}
