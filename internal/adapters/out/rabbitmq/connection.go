// Package rabbitmq carries order events and order processing tasks over AMQP
// 0.9.1.
//
// A single Connection is shared by the whole process. Publishers and
// subscribers open short lived channels from it; when the broker drops the
// connection it is redialled in the background and subscribers re-open their
// channels on their next attempt.
package rabbitmq

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/GregTMJ/Orders-API/internal/pkg/errs"

	amqp "github.com/rabbitmq/amqp091-go"
)

const resource = "rabbitmq"

var ErrConnectionClosed = errors.New("rabbitmq connection is closed")

const (
	defaultDialAttempts = 10
	defaultRetryDelay   = 2 * time.Second
)

// Channel is the subset of *amqp.Channel used by this package.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
	Qos(prefetchCount, prefetchSize int, global bool) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// ChannelOpener hands out channels on a live connection.
type ChannelOpener interface {
	Channel() (Channel, error)
}

type ConnectionOption func(*Connection)

// WithDialRetry sets how many times Connect dials before giving up and the
// pause between attempts. The same pause is used while redialling.
func WithDialRetry(attempts int, delay time.Duration) ConnectionOption {
	return func(c *Connection) {
		if attempts > 0 {
			c.attempts = attempts
		}
		if delay > 0 {
			c.retryDelay = delay
		}
	}
}

var _ ChannelOpener = (*Connection)(nil)

// Connection is a reconnecting AMQP connection.
type Connection struct {
	url        string
	attempts   int
	retryDelay time.Duration
	logger     *slog.Logger

	mu     sync.RWMutex
	conn   *amqp.Connection
	closed bool
	done   chan struct{}
}

func NewConnection(url string, logger *slog.Logger, opts ...ConnectionOption) *Connection {
	c := &Connection{
		url:        url,
		attempts:   defaultDialAttempts,
		retryDelay: defaultRetryDelay,
		logger:     logger.With("component", "rabbitmq_connection"),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Connect dials the broker, retrying while the broker is starting. The
// process must not serve traffic when Connect fails.
func (c *Connection) Connect(ctx context.Context) error {
	c.mu.RLock()
	closed := c.closed
	c.mu.RUnlock()
	if closed {
		return ErrConnectionClosed
	}

	var (
		conn *amqp.Connection
		err  error
	)
	for attempt := 1; attempt <= c.attempts; attempt++ {
		conn, err = amqp.Dial(c.url)
		if err == nil {
			break
		}
		c.logger.WarnContext(ctx, "Failed to connect to broker, retrying",
			"attempt", attempt, "max_attempts", c.attempts, "error", err)
		if attempt == c.attempts {
			break
		}
		select {
		case <-ctx.Done():
			return errs.NewInfrastructureError(resource, ctx.Err())
		case <-time.After(c.retryDelay):
		}
	}
	if err != nil {
		return errs.NewInfrastructureError(resource, err)
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	go c.watch(conn)

	c.logger.InfoContext(ctx, "Connected to broker")
	return nil
}

// watch redials after an unexpected close until Close is called.
func (c *Connection) watch(conn *amqp.Connection) {
	notify := conn.NotifyClose(make(chan *amqp.Error, 1))

	select {
	case <-c.done:
		return
	case amqpErr, ok := <-notify:
		if !ok || amqpErr == nil {
			return
		}
		c.logger.Warn("Broker connection lost", "error", amqpErr)
	}

	for {
		next, err := amqp.Dial(c.url)
		if err == nil {
			c.mu.Lock()
			if c.closed {
				c.mu.Unlock()
				_ = next.Close()
				return
			}
			c.conn = next
			c.mu.Unlock()

			c.logger.Info("Reconnected to broker")
			go c.watch(next)
			return
		}

		c.logger.Warn("Failed to reconnect to broker", "error", err)
		select {
		case <-c.done:
			return
		case <-time.After(c.retryDelay):
		}
	}
}

// Channel opens a new channel. Callers own it and must close it.
func (c *Connection) Channel() (Channel, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return nil, ErrConnectionClosed
	}
	if c.conn == nil || c.conn.IsClosed() {
		return nil, errs.NewInfrastructureError(resource, amqp.ErrClosed)
	}

	ch, err := c.conn.Channel()
	if err != nil {
		return nil, errs.NewInfrastructureError(resource, err)
	}
	return ch, nil
}

// Close stops reconnecting and closes the connection. It is safe to call more
// than once.
func (c *Connection) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	close(c.done)

	if c.conn == nil || c.conn.IsClosed() {
		return nil
	}
	if err := c.conn.Close(); err != nil {
		c.logger.ErrorContext(ctx, "Failed to close broker connection", "error", err)
		return errs.NewInfrastructureError(resource, err)
	}

	c.logger.InfoContext(ctx, "Disconnected from broker")
	return nil
}
