package app

import (
	"database/sql"

	"github.com/felixgeelhaar/recruitkit/internal/recruiting/domain/ledger"
	"github.com/felixgeelhaar/recruitkit/internal/recruiting/domain/progress"
	"github.com/felixgeelhaar/recruitkit/internal/recruiting/domain/task"
	recruitingPersistence "github.com/felixgeelhaar/recruitkit/internal/recruiting/infrastructure/persistence"
	sharedApplication "github.com/felixgeelhaar/recruitkit/internal/shared/application"
	"github.com/felixgeelhaar/recruitkit/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/recruitkit/internal/shared/infrastructure/outbox"
	sharedPersistence "github.com/felixgeelhaar/recruitkit/internal/shared/infrastructure/persistence"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories is the storage set one driver provides.
type Repositories struct {
	Driver      database.Driver
	Catalog     task.CatalogRepository
	Ledger      ledger.Repository
	Outbox      outbox.Repository
	StatusStore progress.StatusStore
	UnitOfWork  sharedApplication.UnitOfWork
}

// NewSQLiteRepositories builds every repository over one SQLite handle.
func NewSQLiteRepositories(db *sql.DB) Repositories {
	return Repositories{
		Driver:      database.DriverSQLite,
		Catalog:     recruitingPersistence.NewSQLiteCatalogRepository(db),
		Ledger:      recruitingPersistence.NewSQLiteLedgerRepository(db),
		Outbox:      outbox.NewSQLiteRepository(db),
		StatusStore: recruitingPersistence.NewSQLiteStatusStore(db),
		UnitOfWork:  sharedPersistence.NewSQLiteUnitOfWork(db),
	}
}

// NewPostgresRepositories builds every repository over one pgx pool.
func NewPostgresRepositories(pool *pgxpool.Pool) Repositories {
	return Repositories{
		Driver:      database.DriverPostgres,
		Catalog:     recruitingPersistence.NewPostgresCatalogRepository(pool),
		Ledger:      recruitingPersistence.NewPostgresLedgerRepository(pool),
		Outbox:      outbox.NewPostgresRepository(pool),
		StatusStore: recruitingPersistence.NewPostgresStatusStore(pool),
		UnitOfWork:  sharedPersistence.NewPostgresUnitOfWork(pool),
	}
}
