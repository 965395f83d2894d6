package jobs

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/GregTMJ/Orders-API/internal/adapters/out/rabbitmq"
)

var ErrWorkerAlreadyStarted = errors.New("consumer already started")

// DeliverySource feeds deliveries to a handler until ctx is cancelled.
// *rabbitmq.Subscriber implements it.
type DeliverySource interface {
	Run(ctx context.Context, handle rabbitmq.DeliveryHandler) error
}

// consumerLoop runs a DeliverySource in the background between start and stop.
type consumerLoop struct {
	source       DeliverySource
	drainTimeout time.Duration
	logger       *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func newConsumerLoop(source DeliverySource, drainTimeout time.Duration, logger *slog.Logger) *consumerLoop {
	return &consumerLoop{
		source:       source,
		drainTimeout: drainTimeout,
		logger:       logger,
	}
}

func (l *consumerLoop) start(handle rabbitmq.DeliveryHandler) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cancel != nil {
		return ErrWorkerAlreadyStarted
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	l.cancel, l.done = cancel, done

	go func() {
		defer close(done)
		if err := l.source.Run(ctx, handle); err != nil {
			l.logger.ErrorContext(ctx, "Consumer stopped unexpectedly", "error", err)
		}
	}()

	l.logger.InfoContext(ctx, "Consumer started")
	return nil
}

// stop cancels consumption and waits for running handlers, at most drainTimeout.
// Calling stop on a stopped loop does nothing.
func (l *consumerLoop) stop() {
	l.mu.Lock()
	cancel, done := l.cancel, l.done
	l.cancel, l.done = nil, nil
	l.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()

	select {
	case <-done:
		l.logger.InfoContext(context.Background(), "Consumer stopped")
	case <-time.After(l.drainTimeout):
		l.logger.WarnContext(context.Background(), "Consumer drain timed out, abandoning running handlers",
			"drain_timeout", l.drainTimeout)
	}
}
