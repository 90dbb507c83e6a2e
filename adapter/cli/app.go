package cli

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/recruitkit/internal/recruiting/application/commands"
	"github.com/felixgeelhaar/recruitkit/internal/recruiting/application/queries"
	"github.com/felixgeelhaar/recruitkit/internal/recruiting/application/services"
	"github.com/felixgeelhaar/recruitkit/internal/recruiting/domain/task"
	"github.com/felixgeelhaar/recruitkit/pkg/observability"
	"github.com/google/uuid"
)

// ErrNotInitialized is returned by commands that need storage when the
// application could not be wired.
var ErrNotInitialized = errors.New("application not initialized - database connection required")

// App holds the CLI application dependencies.
type App struct {
	// Athlete every command acts for.
	AthleteID uuid.UUID

	// Command handlers
	UpdateTaskStatusHandler *commands.UpdateTaskStatusHandler
	RecordProgressHandler   *commands.RecordProgressHandler
	SeedCatalogHandler      *commands.SeedCatalogHandler

	// Query handlers
	ListTasksHandler      *queries.ListTasksHandler
	GetTaskWarningHandler *queries.GetTaskWarningHandler
	GetProgressHandler    *queries.GetProgressHandler

	CatalogRepo task.CatalogRepository
	// CatalogPath is the configured catalog file; empty means the embedded one.
	CatalogPath string
	Advisory    *services.StatusAdvisory
	Metrics     observability.Metrics

	// Ping checks storage; nil means nothing to check.
	Ping func(ctx context.Context) error
}

// MetricsOrNoop never returns nil.
func (a *App) MetricsOrNoop() observability.Metrics {
	if a == nil || a.Metrics == nil {
		return observability.NoopMetrics{}
	}
	return a.Metrics
}

// app is the global CLI application instance
var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}

// RequireApp returns the app or ErrNotInitialized.
func RequireApp() (*App, error) {
	if app == nil {
		return nil, ErrNotInitialized
	}
	return app, nil
}
