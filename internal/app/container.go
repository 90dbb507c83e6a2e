// Package app wires configuration, storage and handlers into a Container
// shared by the CLI, the MCP server and the worker.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/recruitkit/internal/recruiting/application/commands"
	"github.com/felixgeelhaar/recruitkit/internal/recruiting/application/queries"
	"github.com/felixgeelhaar/recruitkit/internal/recruiting/application/services"
	"github.com/felixgeelhaar/recruitkit/internal/recruiting/infrastructure/cache"
	"github.com/felixgeelhaar/recruitkit/internal/recruiting/infrastructure/catalog"
	"github.com/felixgeelhaar/recruitkit/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/recruitkit/internal/shared/infrastructure/database/postgres"
	"github.com/felixgeelhaar/recruitkit/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/recruitkit/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/recruitkit/pkg/config"
	"github.com/felixgeelhaar/recruitkit/pkg/observability"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	// Exactly one of SQLiteDB and PostgresPool is set.
	SQLiteDB     *sql.DB
	PostgresPool *pgxpool.Pool
	RedisClient  *redis.Client

	Repositories
	Evaluator *services.ProgressEvaluator
	Metrics   *observability.InMemoryMetrics

	// Command handlers
	UpdateTaskStatusHandler *commands.UpdateTaskStatusHandler
	RecordProgressHandler   *commands.RecordProgressHandler
	SeedCatalogHandler      *commands.SeedCatalogHandler

	// Query handlers
	ListTasksHandler      *queries.ListTasksHandler
	GetTaskWarningHandler *queries.GetTaskWarningHandler
	GetProgressHandler    *queries.GetProgressHandler
}

// NewContainer opens the database selected by cfg.DatabaseURL, applies
// migrations and builds every handler. SQLite needs no other services; the
// Redis status cache is optional in both modes.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Metrics: observability.NewInMemoryMetrics(),
	}

	switch database.DetectDriver(cfg.DatabaseURL) {
	case database.DriverSQLite:
		if err := c.openSQLite(ctx); err != nil {
			return nil, err
		}
	default:
		if err := c.openPostgres(ctx); err != nil {
			return nil, err
		}
	}

	if err := c.wireStatusCache(ctx); err != nil {
		c.Close()
		return nil, err
	}
	c.wireHandlers()
	return c, nil
}

func (c *Container) openSQLite(ctx context.Context) error {
	path := c.Config.SQLitePath
	if path == "" && c.Config.DatabaseURL != "" {
		path = database.SQLitePathFromURL(c.Config.DatabaseURL)
	}

	db, err := sqlite.Open(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to initialize SQLite: %w", err)
	}
	if err := migrations.RunSQLiteMigrations(ctx, db); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to run SQLite migrations: %w", err)
	}

	c.SQLiteDB = db
	c.Repositories = NewSQLiteRepositories(db)
	c.Logger.Debug("database ready", "driver", database.DriverSQLite)
	return nil
}

func (c *Container) openPostgres(ctx context.Context) error {
	pool, err := postgres.Open(ctx, c.Config.DatabaseURL, c.Config.DatabaseMaxConn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return fmt.Errorf("failed to run PostgreSQL migrations: %w", err)
	}

	c.PostgresPool = pool
	c.Repositories = NewPostgresRepositories(pool)
	c.Logger.Info("connected to database", "driver", database.DriverPostgres)
	return nil
}

// wireStatusCache puts Redis behind a circuit breaker in front of the
// database status store when REDIS_URL is set. An unreachable Redis is fatal in
// production and falls back to the database elsewhere.
func (c *Container) wireStatusCache(ctx context.Context) error {
	if c.Config.RedisURL == "" {
		return nil
	}

	client, err := cache.Connect(ctx, c.Config.RedisURL)
	if err != nil {
		if c.Config.IsProduction() {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		c.Logger.Warn("Redis not available, progress statuses stay in the database", "error", err)
		return nil
	}

	c.RedisClient = client
	c.StatusStore = cache.NewBreakerStatusStore(
		cache.NewRedisStatusStore(client, c.Config.StatusCacheTTL),
		cache.BreakerConfig{
			MaxRequests:      c.Config.BreakerMaxRequests,
			Interval:         c.Config.BreakerInterval,
			Timeout:          c.Config.BreakerTimeout,
			FailureThreshold: c.Config.BreakerFailureTrigger,
		},
		c.Logger,
	).WithFallback(c.StatusStore)
	c.Logger.Info("connected to Redis")
	return nil
}

func (c *Container) wireHandlers() {
	c.Evaluator = services.NewProgressEvaluator(nil)

	c.UpdateTaskStatusHandler = commands.NewUpdateTaskStatusHandler(c.Catalog, c.Ledger, c.Outbox, c.UnitOfWork, c.Logger)
	c.RecordProgressHandler = commands.NewRecordProgressHandler(c.Catalog, c.Ledger, c.StatusStore, c.Outbox, c.UnitOfWork, c.Evaluator, c.Logger)
	c.SeedCatalogHandler = commands.NewSeedCatalogHandler(c.Catalog, c.UnitOfWork, c.Logger)

	c.ListTasksHandler = queries.NewListTasksHandler(c.Catalog, c.Ledger)
	c.GetTaskWarningHandler = queries.NewGetTaskWarningHandler(c.Catalog, c.Ledger)
	c.GetProgressHandler = queries.NewGetProgressHandler(c.Catalog, c.Ledger, c.Evaluator)
}

// EnsureCatalog seeds the configured catalog when the store holds none, so
// a fresh database is usable straight away. It reports whether it seeded.
func (c *Container) EnsureCatalog(ctx context.Context) (bool, error) {
	current, err := c.Catalog.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("load catalog: %w", err)
	}
	if current.Len() > 0 {
		return false, nil
	}

	loaded, err := catalog.Load(c.Config.CatalogPath)
	if err != nil {
		return false, err
	}
	if _, err := c.SeedCatalogHandler.Handle(ctx, commands.SeedCatalogCommand{
		Catalog: loaded.Catalog,
		Source:  loaded.Source,
	}); err != nil {
		return false, err
	}
	return true, nil
}

// Ping checks the database and, when configured, Redis.
func (c *Container) Ping(ctx context.Context) error {
	return errors.Join(c.PingDatabase(ctx), c.PingRedis(ctx))
}

func (c *Container) PingDatabase(ctx context.Context) error {
	switch {
	case c.PostgresPool != nil:
		return c.PostgresPool.Ping(ctx)
	case c.SQLiteDB != nil:
		return c.SQLiteDB.PingContext(ctx)
	default:
		return errors.New("database not initialized")
	}
}

func (c *Container) PingRedis(ctx context.Context) error {
	if c.RedisClient == nil {
		return nil
	}
	return c.RedisClient.Ping(ctx).Err()
}

// StatusCacheState reports the breaker state, or "" when statuses live in
// the database.
func (c *Container) StatusCacheState() string {
	if b, ok := c.StatusStore.(*cache.BreakerStatusStore); ok {
		return b.State().String()
	}
	return ""
}

// Close releases every connection.
func (c *Container) Close() {
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("error closing Redis connection", "error", err)
		}
	}
	if c.PostgresPool != nil {
		c.PostgresPool.Close()
		c.Logger.Debug("PostgreSQL connection closed")
	}
	if c.SQLiteDB != nil {
		if err := c.SQLiteDB.Close(); err != nil {
			c.Logger.Warn("error closing SQLite connection", "error", err)
		}
	}
}
