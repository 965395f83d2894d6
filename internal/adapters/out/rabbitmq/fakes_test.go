package rabbitmq_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/GregTMJ/Orders-API/internal/adapters/out/rabbitmq"

	amqp "github.com/rabbitmq/amqp091-go"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

type declaredExchange struct {
	Name    string
	Kind    string
	Durable bool
}

type declaredQueue struct {
	Name    string
	Durable bool
}

type binding struct {
	Queue    string
	Key      string
	Exchange string
}

type published struct {
	Exchange string
	Key      string
	Msg      amqp.Publishing
}

type fakeChannel struct {
	mu sync.Mutex

	exchanges []declaredExchange
	queues    []declaredQueue
	bindings  []binding
	messages  []published
	prefetch  int
	consumed  []string
	closed    bool

	declareErr error
	publishErr error
	consumeErr error

	deliveries chan amqp.Delivery
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{deliveries: make(chan amqp.Delivery, 16)}
}

func (c *fakeChannel) ExchangeDeclare(name, kind string, durable, _, _, _ bool, _ amqp.Table) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.declareErr != nil {
		return c.declareErr
	}
	c.exchanges = append(c.exchanges, declaredExchange{Name: name, Kind: kind, Durable: durable})
	return nil
}

func (c *fakeChannel) QueueDeclare(name string, durable, _, _, _ bool, _ amqp.Table) (amqp.Queue, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.declareErr != nil {
		return amqp.Queue{}, c.declareErr
	}
	c.queues = append(c.queues, declaredQueue{Name: name, Durable: durable})
	return amqp.Queue{Name: name}, nil
}

func (c *fakeChannel) QueueBind(name, key, exchange string, _ bool, _ amqp.Table) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bindings = append(c.bindings, binding{Queue: name, Key: key, Exchange: exchange})
	return nil
}

func (c *fakeChannel) Qos(prefetchCount, _ int, _ bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prefetch = prefetchCount
	return nil
}

func (c *fakeChannel) Consume(queue, _ string, _, _, _, _ bool, _ amqp.Table) (<-chan amqp.Delivery, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.consumeErr != nil {
		return nil, c.consumeErr
	}
	c.consumed = append(c.consumed, queue)
	return c.deliveries, nil
}

func (c *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.publishErr != nil {
		return c.publishErr
	}
	c.messages = append(c.messages, published{Exchange: exchange, Key: key, Msg: msg})
	return nil
}

func (c *fakeChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeChannel) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// fakeOpener hands out the queued channels in order, then fresh ones.
type fakeOpener struct {
	mu       sync.Mutex
	channels []*fakeChannel
	opened   []*fakeChannel
	err      error
}

func (o *fakeOpener) Channel() (rabbitmq.Channel, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.err != nil {
		return nil, o.err
	}

	ch := newFakeChannel()
	if len(o.channels) > 0 {
		ch, o.channels = o.channels[0], o.channels[1:]
	}
	o.opened = append(o.opened, ch)
	return ch, nil
}

func (o *fakeOpener) openedCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.opened)
}

type fakeAcknowledger struct {
	mu       sync.Mutex
	acked    []uint64
	nacked   []uint64
	rejected []uint64
	requeued []bool
}

func (a *fakeAcknowledger) Ack(tag uint64, _ bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.acked = append(a.acked, tag)
	return nil
}

func (a *fakeAcknowledger) Nack(tag uint64, _ bool, requeue bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nacked = append(a.nacked, tag)
	a.requeued = append(a.requeued, requeue)
	return nil
}

func (a *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.rejected = append(a.rejected, tag)
	a.requeued = append(a.requeued, requeue)
	return nil
}

func (a *fakeAcknowledger) ackedCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.acked)
}

var errBroker = errors.New("broker unavailable")
