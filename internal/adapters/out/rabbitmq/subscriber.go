package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

var errDeliveriesClosed = errors.New("delivery channel closed")

// DeliveryHandler settles one delivery. It must Ack, Nack or Reject it.
type DeliveryHandler func(ctx context.Context, d amqp.Delivery)

type SubscriberConfig struct {
	// Exchange, when set, is declared and bound to Queue like Publisher does.
	Exchange string
	Queue    string
	// Concurrency is the number of deliveries handled at once. It is also the
	// prefetch count.
	Concurrency int
	RetryDelay  time.Duration
}

// Subscriber consumes one queue with manual acknowledgements and resubscribes
// whenever its channel is lost.
type Subscriber struct {
	channels ChannelOpener
	cfg      SubscriberConfig
	logger   *slog.Logger
}

func NewSubscriber(channels ChannelOpener, cfg SubscriberConfig, logger *slog.Logger) *Subscriber {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = defaultRetryDelay
	}
	return &Subscriber{
		channels: channels,
		cfg:      cfg,
		logger:   logger.With("component", "subscriber", "queue", cfg.Queue),
	}
}

// Run consumes until ctx is cancelled. Handlers already running when ctx is
// cancelled finish with a context that is no longer cancelled, and Run returns
// after they do. Unacknowledged prefetched deliveries go back to the queue.
func (s *Subscriber) Run(ctx context.Context, handle DeliveryHandler) error {
	for {
		err := s.consume(ctx, handle)
		if ctx.Err() != nil {
			return nil
		}
		if errors.Is(err, ErrConnectionClosed) {
			return err
		}

		s.logger.WarnContext(ctx, "Subscription lost, resubscribing", "error", err, "retry_in", s.cfg.RetryDelay)
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(s.cfg.RetryDelay):
		}
	}
}

func (s *Subscriber) consume(ctx context.Context, handle DeliveryHandler) error {
	ch, err := s.channels.Channel()
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	if err = declareRoute(ch, s.cfg.Exchange, s.cfg.Queue); err != nil {
		return err
	}
	if err = ch.Qos(s.cfg.Concurrency, 0, false); err != nil {
		return fmt.Errorf("set prefetch: %w", err)
	}

	deliveries, err := ch.Consume(s.cfg.Queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", s.cfg.Queue, err)
	}

	s.logger.InfoContext(ctx, "Subscribed", "concurrency", s.cfg.Concurrency)

	handlerCtx := context.WithoutCancel(ctx)
	var (
		wg   sync.WaitGroup
		lost atomic.Bool
	)
	for range s.cfg.Concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case d, ok := <-deliveries:
					if !ok {
						lost.Store(true)
						return
					}
					handle(handlerCtx, d)
				}
			}
		}()
	}
	wg.Wait()

	if lost.Load() {
		return errDeliveriesClosed
	}
	return ctx.Err()
}
