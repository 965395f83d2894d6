package cmd

import (
	"context"
	"log/slog"

	httpadapter "github.com/GregTMJ/Orders-API/internal/adapters/in/http"
	"github.com/GregTMJ/Orders-API/internal/adapters/in/relay"
	"github.com/GregTMJ/Orders-API/internal/adapters/out/postgres"
	"github.com/GregTMJ/Orders-API/internal/adapters/out/rabbitmq"
	"github.com/GregTMJ/Orders-API/internal/adapters/out/redis/ordercache"
	"github.com/GregTMJ/Orders-API/internal/core/application/usecases/commands"
	"github.com/GregTMJ/Orders-API/internal/core/application/usecases/queries"
	"github.com/GregTMJ/Orders-API/internal/core/domain/model/order"
	"github.com/GregTMJ/Orders-API/internal/jobs"
	"github.com/GregTMJ/Orders-API/internal/pkg/lifecycle"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CompositionRoot owns the process-wide resources and builds the handlers,
// adapters and jobs on top of them.
type CompositionRoot struct {
	cfg    Config
	logger *slog.Logger
	policy order.TransitionPolicy

	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	redis      *redis.Client
	cache      *ordercache.Cache
	broker     *rabbitmq.Connection
}

func NewCompositionRoot(cfg Config, logger *slog.Logger) (*CompositionRoot, error) {
	policy, err := order.ParseTransitionPolicy(cfg.OrderStatusTransitions)
	if err != nil {
		return nil, err
	}

	gormDB, err := postgres.Open(cfg.DSN())
	if err != nil {
		return nil, err
	}

	redisClient := ordercache.NewClient(ordercache.Options{
		Addr:     cfg.RedisAddr,
		Username: cfg.RedisUser,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	return &CompositionRoot{
		cfg:        cfg,
		logger:     logger,
		policy:     policy,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		redis:      redisClient,
		cache:      ordercache.NewCache(redisClient, logger),
		broker:     rabbitmq.NewConnection(cfg.AMQPURL(), logger),
	}, nil
}

// Lifecycle acquires the cache, the store and the broker in that order.
func (c *CompositionRoot) Lifecycle() *lifecycle.Sequence {
	return lifecycle.NewSequence(c.logger,
		lifecycle.Step{
			Name:  "redis",
			Start: func(ctx context.Context) error { return ordercache.Ping(ctx, c.redis) },
			Stop:  func(context.Context) error { return c.redis.Close() },
		},
		lifecycle.Step{
			Name:  "postgres",
			Start: func(ctx context.Context) error { return postgres.Ping(ctx, c.gormDB) },
			Stop:  func(context.Context) error { return postgres.Close(c.gormDB) },
		},
		lifecycle.Step{
			Name:  "rabbitmq",
			Start: c.broker.Connect,
			Stop:  c.broker.Close,
		},
	)
}

// Migrate brings the schema up to date.
func (c *CompositionRoot) Migrate() error {
	return postgres.Migrate(c.gormDB)
}

// Commands

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(
		f,
		rabbitmq.NewPublisher(c.broker, c.logger),
		commands.EventRoute{Exchange: c.cfg.RMQExchange, Queue: c.cfg.RMQQueue},
		c.logger,
	)
}

func (c *CompositionRoot) CreateUpdateOrderStatusCommandHandler() commands.UpdateOrderStatusCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewUpdateOrderStatusCommandHandler(f, c.cache, c.policy, c.cfg.CacheTTL, c.logger)
}

func (c *CompositionRoot) CreateProcessOrderCommandHandler() commands.ProcessOrderCommandHandler {
	var dedupe commands.ProcessedJobUoWFactory
	if c.cfg.WorkerDedupe {
		dedupe = c.processedJobUoWFactory()
	}
	return commands.NewProcessOrderCommandHandler(c.cfg.OrderProcessingDelay, dedupe, c.logger)
}

func (c *CompositionRoot) CreatePurgeProcessedJobsCommandHandler() commands.PurgeProcessedJobsCommandHandler {
	return commands.NewPurgeProcessedJobsCommandHandler(c.processedJobUoWFactory(), c.logger)
}

func (c *CompositionRoot) processedJobUoWFactory() commands.ProcessedJobUoWFactory {
	return FuncProcessedJobUoWFactory(func() commands.ProcessedJobUoW {
		return c.uowFactory.Create()
	})
}

// Queries

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	// outside a transaction the repository reads from the pool
	reader := c.uowFactory.Create().OrderRepository()
	return queries.NewGetOrderQueryHandler(reader, c.cache, c.cfg.CacheTTL, c.logger)
}

func (c *CompositionRoot) CreateListOrdersQueryHandler() queries.ListOrdersQueryHandler {
	return queries.NewListOrdersQueryHandler(c.gormDB)
}

// Adapters and jobs

func (c *CompositionRoot) CreateHTTPRouter() (*echo.Echo, error) {
	createOrder := c.CreateCreateOrderCommandHandler()
	updateOrderStatus := c.CreateUpdateOrderStatusCommandHandler()

	server := httpadapter.NewServer(
		&createOrder,
		&updateOrderStatus,
		c.CreateGetOrderQueryHandler(),
		c.CreateListOrdersQueryHandler(),
	)

	return httpadapter.NewRouter(server, httpadapter.RouterConfig{
		AllowedOrigins: c.cfg.AllowedOrigins,
		Auth:           httpadapter.NewAuthenticator(c.cfg.JWTSecretKey, c.cfg.JWTAlgorithm),
	}, c.logger)
}

func (c *CompositionRoot) CreateEventRelayJob() *jobs.EventRelayJob {
	subscriber := rabbitmq.NewSubscriber(c.broker, rabbitmq.SubscriberConfig{
		Exchange: c.cfg.RMQExchange,
		Queue:    c.cfg.RMQQueue,
	}, c.logger)
	tasks := rabbitmq.NewTaskQueue(c.broker, c.cfg.TaskQueue, c.logger)

	return jobs.NewEventRelayJob(
		subscriber,
		relay.NewRelay(tasks, c.cfg.RelayRequeueDelay, c.logger).HandleDelivery,
		c.cfg.WorkerDrainTimeout,
		c.logger,
	)
}

func (c *CompositionRoot) CreateOrderProcessingWorker() *jobs.OrderProcessingWorker {
	subscriber := rabbitmq.NewSubscriber(c.broker, rabbitmq.SubscriberConfig{
		Queue:       c.cfg.TaskQueue,
		Concurrency: c.cfg.WorkerConcurrency,
	}, c.logger)
	handler := c.CreateProcessOrderCommandHandler()

	return jobs.NewOrderProcessingWorker(subscriber, &handler, c.cfg.WorkerDrainTimeout, c.logger)
}

// CreateWorkerJobs returns the task worker and, with dedupe enabled, the
// cleanup of its processed job log.
func (c *CompositionRoot) CreateWorkerJobs() []jobs.Job {
	workerJobs := []jobs.Job{c.CreateOrderProcessingWorker()}
	if c.cfg.WorkerDedupe {
		workerJobs = append(workerJobs, jobs.NewProcessedJobsCleanupJob(
			c.CreatePurgeProcessedJobsCommandHandler(),
			c.cfg.ProcessedJobsCleanupSchedule,
			c.cfg.ProcessedJobsRetention,
			c.logger,
		))
	}
	return workerJobs
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncProcessedJobUoWFactory func() commands.ProcessedJobUoW

func (f FuncProcessedJobUoWFactory) Create() commands.ProcessedJobUoW {
	return f()
}
