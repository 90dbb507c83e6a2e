package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/recruitkit/internal/recruiting/domain/task"
	sharedApplication "github.com/felixgeelhaar/recruitkit/internal/shared/application"
)

// ErrEmptyCatalog is returned when seeding with no tasks.
var ErrEmptyCatalog = errors.New("catalog has no tasks")

// SeedCatalogCommand replaces the stored task catalog.
type SeedCatalogCommand struct {
	Catalog *task.Catalog
	Source  string // for logging only
}

// SeedCatalogResult summarises the seeded catalog.
type SeedCatalogResult struct {
	TaskCount     int `json:"task_count"`
	RequiredCount int `json:"required_count"`
}

// SeedCatalogHandler validates a catalog and stores it. Cycles and unknown
// prerequisites are rejected here so the resolver never sees them.
type SeedCatalogHandler struct {
	catalogRepo task.CatalogRepository
	uow         sharedApplication.UnitOfWork
	logger      *slog.Logger
}

// NewSeedCatalogHandler creates a new SeedCatalogHandler.
func NewSeedCatalogHandler(catalogRepo task.CatalogRepository, uow sharedApplication.UnitOfWork, logger *slog.Logger) *SeedCatalogHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SeedCatalogHandler{catalogRepo: catalogRepo, uow: uow, logger: logger}
}

// Handle executes the SeedCatalogCommand.
func (h *SeedCatalogHandler) Handle(ctx context.Context, cmd SeedCatalogCommand) (*SeedCatalogResult, error) {
	if cmd.Catalog.Len() == 0 {
		return nil, ErrEmptyCatalog
	}
	if err := cmd.Catalog.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		return h.catalogRepo.Replace(txCtx, cmd.Catalog)
	})
	if err != nil {
		return nil, fmt.Errorf("replace catalog: %w", err)
	}

	result := &SeedCatalogResult{
		TaskCount:     cmd.Catalog.Len(),
		RequiredCount: len(cmd.Catalog.RequiredTaskIDs()),
	}
	h.logger.InfoContext(ctx, "catalog seeded",
		"source", cmd.Source,
		"tasks", result.TaskCount,
		"required", result.RequiredCount,
	)
	return result, nil
}
