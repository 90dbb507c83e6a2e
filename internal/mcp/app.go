package mcp

import (
	"github.com/felixgeelhaar/recruitkit/adapter/cli"
	"github.com/felixgeelhaar/recruitkit/internal/app"
	"github.com/google/uuid"
)

// NewCLIApp creates a CLI application instance backed by the provided
// container, acting for athleteID.
func NewCLIApp(container *app.Container, athleteID uuid.UUID) *cli.App {
	return &cli.App{
		AthleteID:               athleteID,
		UpdateTaskStatusHandler: container.UpdateTaskStatusHandler,
		RecordProgressHandler:   container.RecordProgressHandler,
		SeedCatalogHandler:      container.SeedCatalogHandler,
		ListTasksHandler:        container.ListTasksHandler,
		GetTaskWarningHandler:   container.GetTaskWarningHandler,
		GetProgressHandler:      container.GetProgressHandler,
		CatalogRepo:             container.Catalog,
		CatalogPath:             container.Config.CatalogPath,
		Advisory:                container.Evaluator.Advisory(),
		Metrics:                 container.Metrics,
		Ping:                    container.Ping,
	}
}
