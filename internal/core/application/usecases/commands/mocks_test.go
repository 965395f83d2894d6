package commands_test

import (
	"context"
	"log/slog"
	"time"

	"github.com/GregTMJ/Orders-API/internal/core/application/usecases/commands"
	"github.com/GregTMJ/Orders-API/internal/core/domain/model/kernel"
	"github.com/GregTMJ/Orders-API/internal/core/domain/model/order"
	"github.com/GregTMJ/Orders-API/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

// TrackedIDs also accepts a func so tests can report ids known only after Add.
func (m *MockOrderUoW) TrackedIDs() []kernel.UUID {
	args := m.Called()
	if ids, ok := args.Get(0).(func() []kernel.UUID); ok {
		return ids()
	}
	return args.Get(0).([]kernel.UUID)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) Publish(
	ctx context.Context, exchange, queue string, payload []byte, taskName string,
) error {
	args := m.Called(ctx, exchange, queue, payload, taskName)
	return args.Error(0)
}

type MockOrderCache struct{ mock.Mock }

func (m *MockOrderCache) Lookup(ctx context.Context, key string) (ports.CachedOrder, bool, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(ports.CachedOrder), args.Bool(1), args.Error(2)
}

func (m *MockOrderCache) Store(ctx context.Context, key string, snap order.Snapshot, ttl time.Duration) error {
	args := m.Called(ctx, key, snap, ttl)
	return args.Error(0)
}

func (m *MockOrderCache) RefreshIfPresent(
	ctx context.Context, key string, snap order.Snapshot, ttl time.Duration,
) (bool, error) {
	args := m.Called(ctx, key, snap, ttl)
	return args.Bool(0), args.Error(1)
}

type MockProcessedJobRepository struct{ mock.Mock }

func (m *MockProcessedJobRepository) Exists(ctx context.Context, orderID string) (bool, error) {
	args := m.Called(ctx, orderID)
	return args.Bool(0), args.Error(1)
}

func (m *MockProcessedJobRepository) Record(ctx context.Context, orderID string, processedAt time.Time) error {
	args := m.Called(ctx, orderID, processedAt)
	return args.Error(0)
}

func (m *MockProcessedJobRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

type MockProcessedJobUoW struct{ mock.Mock }

func (m *MockProcessedJobUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockProcessedJobUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockProcessedJobUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockProcessedJobUoW) ProcessedJobRepository() ports.ProcessedJobRepository {
	args := m.Called()
	return args.Get(0).(ports.ProcessedJobRepository)
}

type MockProcessedJobUoWFactory struct{ mock.Mock }

func (m *MockProcessedJobUoWFactory) Create() commands.ProcessedJobUoW {
	args := m.Called()
	return args.Get(0).(commands.ProcessedJobUoW)
}
