// Package app wires configuration, storage, and handlers into runnable
// servers. The same container backs the API process, the scanner gateway,
// and the outbox worker.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/gymgate/gymgate/adapter/api"
	accessApplication "github.com/gymgate/gymgate/internal/access/application"
	accessDomain "github.com/gymgate/gymgate/internal/access/domain"
	"github.com/gymgate/gymgate/internal/access/infrastructure/debounce"
	accessPersistence "github.com/gymgate/gymgate/internal/access/infrastructure/persistence"
	"github.com/gymgate/gymgate/internal/gateway"
	ledgerCommands "github.com/gymgate/gymgate/internal/ledger/application/commands"
	ledgerQueries "github.com/gymgate/gymgate/internal/ledger/application/queries"
	ledgerDomain "github.com/gymgate/gymgate/internal/ledger/domain"
	ledgerPersistence "github.com/gymgate/gymgate/internal/ledger/infrastructure/persistence"
	"github.com/gymgate/gymgate/internal/membership/application/commands"
	"github.com/gymgate/gymgate/internal/membership/application/queries"
	membershipDomain "github.com/gymgate/gymgate/internal/membership/domain"
	membershipPersistence "github.com/gymgate/gymgate/internal/membership/infrastructure/persistence"
	sharedApplication "github.com/gymgate/gymgate/internal/shared/application"
	"github.com/gymgate/gymgate/internal/shared/infrastructure/database"
	postgresConn "github.com/gymgate/gymgate/internal/shared/infrastructure/database/postgres"
	sqliteConn "github.com/gymgate/gymgate/internal/shared/infrastructure/database/sqlite"
	"github.com/gymgate/gymgate/internal/shared/infrastructure/eventbus"
	"github.com/gymgate/gymgate/internal/shared/infrastructure/migrations"
	"github.com/gymgate/gymgate/internal/shared/infrastructure/outbox"
	sharedPersistence "github.com/gymgate/gymgate/internal/shared/infrastructure/persistence"
	"github.com/gymgate/gymgate/pkg/config"
	"github.com/gymgate/gymgate/pkg/observability"
)

// Container holds all application dependencies.
type Container struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics observability.Metrics

	// Database
	DBConn database.Connection
	Pool   *pgxpool.Pool // nil when running on sqlite

	// Redis
	RedisClient *redis.Client

	// Repositories
	MemberRepo      membershipDomain.MemberRepository
	PlanRepo        membershipDomain.PlanRepository
	CategoryRepo    ledgerDomain.CategoryRepository
	TransactionRepo ledgerDomain.TransactionRepository
	AttendanceRepo  accessDomain.AttendanceRepository
	MemberDirectory accessDomain.MemberDirectory
	OutboxRepo      outbox.Repository

	// Unit of Work
	UnitOfWork sharedApplication.UnitOfWork

	// Debounce
	Debouncer       accessDomain.Debouncer
	memoryDebouncer *debounce.Memory

	// Membership handlers
	RegisterMemberHandler  *commands.RegisterMemberHandler
	RenewMembershipHandler *commands.RenewMembershipHandler
	UpdateMemberHandler    *commands.UpdateMemberHandler
	DeleteMemberHandler    *commands.DeleteMemberHandler
	CreatePlanHandler      *commands.CreatePlanHandler
	UpdatePlanHandler      *commands.UpdatePlanHandler
	DeletePlanHandler      *commands.DeletePlanHandler
	GetMemberHandler       *queries.GetMemberHandler
	ListMembersHandler     *queries.ListMembersHandler
	GetPlanHandler         *queries.GetPlanHandler
	ListPlansHandler       *queries.ListPlansHandler

	// Ledger handlers
	CreateCategoryHandler    *ledgerCommands.CreateCategoryHandler
	RecordTransactionHandler *ledgerCommands.RecordTransactionHandler
	ListCategoriesHandler    *ledgerQueries.ListCategoriesHandler
	ListTransactionsHandler  *ledgerQueries.ListTransactionsHandler

	// Access handlers
	DecideAccessHandler      *accessApplication.DecideAccessHandler
	AttendanceHistoryHandler *accessApplication.AttendanceHistoryHandler

	// Servers
	APIServer     *api.Server
	GatewayServer *gateway.Server

	// Messaging
	EventPublisher  eventbus.Publisher
	OutboxProcessor *outbox.Processor
}

// NewContainer creates and wires all dependencies. The database driver
// decides which repository family backs the handlers; everything above the
// repositories is driver-agnostic.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}

	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Metrics: observability.NoopMetrics{},
	}

	conn, err := database.NewConnection(ctx, database.Config{
		Driver:     database.Driver(cfg.DatabaseDriver),
		URL:        cfg.DatabaseURL,
		SQLitePath: cfg.SQLitePath,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DBConn = conn

	switch conn.Driver() {
	case database.DriverPostgres:
		pg, ok := conn.(*postgresConn.Connection)
		if !ok {
			conn.Close()
			return nil, fmt.Errorf("unexpected postgres connection type %T", conn)
		}
		pool := pg.Pool()
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}

		c.Pool = pool
		c.MemberRepo = membershipPersistence.NewPostgresMemberRepository(pool)
		c.PlanRepo = membershipPersistence.NewPostgresPlanRepository(pool)
		c.CategoryRepo = ledgerPersistence.NewPostgresCategoryRepository(pool)
		c.TransactionRepo = ledgerPersistence.NewPostgresTransactionRepository(pool)
		c.AttendanceRepo = accessPersistence.NewPostgresAttendanceRepository(pool)
		c.MemberDirectory = accessPersistence.NewPostgresMemberDirectory(pool)
		c.OutboxRepo = outbox.NewPostgresRepository(pool)
		c.UnitOfWork = sharedPersistence.NewPostgresUnitOfWork(pool)

	case database.DriverSQLite:
		lite, ok := conn.(*sqliteConn.Connection)
		if !ok {
			conn.Close()
			return nil, fmt.Errorf("unexpected sqlite connection type %T", conn)
		}
		db := lite.DB()
		if err := migrations.RunSQLiteMigrations(ctx, db); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}

		c.MemberRepo = membershipPersistence.NewSQLiteMemberRepository(db)
		c.PlanRepo = membershipPersistence.NewSQLitePlanRepository(db)
		c.CategoryRepo = ledgerPersistence.NewSQLiteCategoryRepository(db)
		c.TransactionRepo = ledgerPersistence.NewSQLiteTransactionRepository(db)
		c.AttendanceRepo = accessPersistence.NewSQLiteAttendanceRepository(db)
		c.MemberDirectory = accessPersistence.NewSQLiteMemberDirectory(db)
		c.OutboxRepo = outbox.NewSQLiteRepository(db)
		c.UnitOfWork = sharedPersistence.NewSQLiteUnitOfWork(db)

	default:
		conn.Close()
		return nil, fmt.Errorf("unsupported database driver: %s", conn.Driver())
	}
	logger.Info("connected to database", "driver", conn.Driver())

	// Redis upgrades the debounce store from per-process to shared.
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		client := redis.NewClient(opt)
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			c.Close()
			return nil, fmt.Errorf("failed to ping Redis: %w", err)
		}
		c.RedisClient = client
		c.Debouncer = debounce.NewRedis(client, cfg.DebounceWindow)
		logger.Info("using Redis debounce store")
	} else {
		c.memoryDebouncer = debounce.NewMemory(cfg.DebounceWindow)
		c.Debouncer = c.memoryDebouncer
	}

	c.wireHandlers()
	c.wireServers()

	return c, nil
}

func (c *Container) wireHandlers() {
	c.RegisterMemberHandler = commands.NewRegisterMemberHandler(c.MemberRepo, c.PlanRepo, c.CategoryRepo, c.TransactionRepo, c.OutboxRepo, c.UnitOfWork)
	c.RenewMembershipHandler = commands.NewRenewMembershipHandler(c.MemberRepo, c.PlanRepo, c.CategoryRepo, c.TransactionRepo, c.OutboxRepo, c.UnitOfWork)
	c.UpdateMemberHandler = commands.NewUpdateMemberHandler(c.MemberRepo, c.PlanRepo, c.UnitOfWork)
	c.DeleteMemberHandler = commands.NewDeleteMemberHandler(c.MemberRepo)
	c.CreatePlanHandler = commands.NewCreatePlanHandler(c.PlanRepo)
	c.UpdatePlanHandler = commands.NewUpdatePlanHandler(c.PlanRepo, c.MemberRepo, c.OutboxRepo, c.UnitOfWork)
	c.DeletePlanHandler = commands.NewDeletePlanHandler(c.PlanRepo, c.MemberRepo, c.UnitOfWork)
	c.GetMemberHandler = queries.NewGetMemberHandler(c.MemberRepo)
	c.ListMembersHandler = queries.NewListMembersHandler(c.MemberRepo)
	c.GetPlanHandler = queries.NewGetPlanHandler(c.PlanRepo)
	c.ListPlansHandler = queries.NewListPlansHandler(c.PlanRepo)

	c.CreateCategoryHandler = ledgerCommands.NewCreateCategoryHandler(c.CategoryRepo)
	c.RecordTransactionHandler = ledgerCommands.NewRecordTransactionHandler(c.CategoryRepo, c.TransactionRepo)
	c.ListCategoriesHandler = ledgerQueries.NewListCategoriesHandler(c.CategoryRepo)
	c.ListTransactionsHandler = ledgerQueries.NewListTransactionsHandler(c.TransactionRepo)

	c.DecideAccessHandler = accessApplication.NewDecideAccessHandler(c.MemberDirectory, c.AttendanceRepo, c.Debouncer, c.Logger, c.Metrics)
	c.AttendanceHistoryHandler = accessApplication.NewAttendanceHistoryHandler(c.AttendanceRepo)
}

func (c *Container) wireServers() {
	apiCfg := api.DefaultServerConfig()
	apiCfg.Addr = c.Config.HTTPAddr

	c.APIServer = api.NewServer(
		apiCfg,
		api.NewMembershipHandler(
			c.RegisterMemberHandler,
			c.RenewMembershipHandler,
			c.UpdateMemberHandler,
			c.DeleteMemberHandler,
			c.CreatePlanHandler,
			c.UpdatePlanHandler,
			c.DeletePlanHandler,
			c.GetMemberHandler,
			c.ListMembersHandler,
			c.GetPlanHandler,
			c.ListPlansHandler,
			c.Logger,
		),
		api.NewLedgerHandler(
			c.CreateCategoryHandler,
			c.RecordTransactionHandler,
			c.ListCategoriesHandler,
			c.ListTransactionsHandler,
			c.Logger,
		),
		api.NewAttendanceHandler(c.AttendanceHistoryHandler),
		c.Logger,
	)

	gatewayCfg := gateway.DefaultConfig()
	gatewayCfg.StoreTimeout = c.Config.StoreTimeout
	c.GatewayServer = gateway.NewServer(c.DecideAccessHandler, c.Logger, c.Metrics, gatewayCfg)
}

// StartOutboxProcessor connects the event publisher and begins draining the
// outbox. Only the worker process calls this. In development a missing
// broker degrades to an in-process bus instead of failing startup.
func (c *Container) StartOutboxProcessor(ctx context.Context) error {
	publisher, err := eventbus.NewRabbitMQPublisher(c.Config.RabbitMQURL, c.Logger)
	if err != nil {
		if !c.Config.IsDevelopment() {
			return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
		c.Logger.Warn("RabbitMQ not available, using in-process bus", "error", err)
		c.EventPublisher = eventbus.NewInProcessBus(c.Logger)
	} else {
		c.EventPublisher = publisher
	}

	processorCfg := outbox.DefaultProcessorConfig()
	processorCfg.PollInterval = c.Config.OutboxPollInterval
	processorCfg.BatchSize = c.Config.OutboxBatchSize
	processorCfg.MaxRetries = c.Config.OutboxMaxRetries

	c.OutboxProcessor = outbox.NewProcessor(c.OutboxRepo, c.EventPublisher, processorCfg, c.Logger)
	return c.OutboxProcessor.Start(ctx)
}

// Close cleans up all resources.
func (c *Container) Close() {
	if c.OutboxProcessor != nil {
		c.OutboxProcessor.Stop()
	}

	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("error closing event publisher", "error", err)
		}
	}

	if c.memoryDebouncer != nil {
		c.memoryDebouncer.Close()
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("error closing Redis connection", "error", err)
		}
	}

	if c.DBConn != nil {
		if err := c.DBConn.Close(); err != nil {
			c.Logger.Warn("error closing database connection", "error", err)
		}
	}
}
