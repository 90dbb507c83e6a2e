package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/recruitkit/internal/recruiting/application/services"
	"github.com/felixgeelhaar/recruitkit/internal/recruiting/domain/ledger"
	"github.com/felixgeelhaar/recruitkit/internal/recruiting/domain/task"
	sharedApplication "github.com/felixgeelhaar/recruitkit/internal/shared/application"
	"github.com/felixgeelhaar/recruitkit/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// UpdateTaskStatusCommand moves one of an athlete's tasks to a new status.
type UpdateTaskStatusCommand struct {
	AthleteID      uuid.UUID
	TaskID         string
	Status         string
	IsRecoveryTask *bool // nil leaves the flag unchanged
	CorrelationID  uuid.UUID
}

// UpdateTaskStatusResult describes what the command changed.
type UpdateTaskStatusResult struct {
	TaskID         string        `json:"task_id"`
	From           ledger.Status `json:"from"`
	To             ledger.Status `json:"to"`
	IsRecoveryTask bool          `json:"is_recovery_task"`
	Changed        bool          `json:"changed"`
}

// UpdateTaskStatusHandler handles the UpdateTaskStatusCommand. The
// dependency gate and the write run in the same unit of work.
type UpdateTaskStatusHandler struct {
	catalogRepo task.CatalogRepository
	ledgerRepo  ledger.Repository
	outboxRepo  outbox.Repository
	uow         sharedApplication.UnitOfWork
	logger      *slog.Logger
}

// NewUpdateTaskStatusHandler creates a new UpdateTaskStatusHandler.
func NewUpdateTaskStatusHandler(
	catalogRepo task.CatalogRepository,
	ledgerRepo ledger.Repository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	logger *slog.Logger,
) *UpdateTaskStatusHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UpdateTaskStatusHandler{
		catalogRepo: catalogRepo,
		ledgerRepo:  ledgerRepo,
		outboxRepo:  outboxRepo,
		uow:         uow,
		logger:      logger,
	}
}

// Handle executes the UpdateTaskStatusCommand.
func (h *UpdateTaskStatusHandler) Handle(ctx context.Context, cmd UpdateTaskStatusCommand) (*UpdateTaskStatusResult, error) {
	target, err := ledger.ParseStatus(cmd.Status)
	if err != nil {
		return nil, err
	}

	var result *UpdateTaskStatusResult
	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		catalog, err := h.catalogRepo.Load(txCtx)
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
		if _, ok := catalog.Get(cmd.TaskID); !ok {
			return fmt.Errorf("%w: %s", task.ErrTaskNotFound, cmd.TaskID)
		}

		l, err := h.ledgerRepo.FindByAthlete(txCtx, cmd.AthleteID)
		if err != nil {
			return fmt.Errorf("load ledger: %w", err)
		}

		entry, err := l.EntryOrNew(cmd.TaskID)
		if err != nil {
			return err
		}
		from := entry.Status()

		// Re-sending the current status is a no-op even if a prerequisite
		// has since been reopened.
		if target != from {
			resolver := services.NewDependencyResolver(catalog)
			if err := resolver.AssertCanTransition(cmd.TaskID, target, l); err != nil {
				return err
			}
		}
		if err := entry.TransitionTo(target); err != nil {
			return err
		}
		if cmd.IsRecoveryTask != nil {
			entry.SetRecoveryTask(*cmd.IsRecoveryTask)
		}

		result = &UpdateTaskStatusResult{
			TaskID:         cmd.TaskID,
			From:           from,
			To:             entry.Status(),
			IsRecoveryTask: entry.IsRecoveryTask(),
		}

		events := entry.DomainEvents()
		if len(events) == 0 {
			return nil
		}
		result.Changed = true

		if err := h.ledgerRepo.Save(txCtx, entry); err != nil {
			return fmt.Errorf("save ledger entry: %w", err)
		}
		if err := saveEvents(txCtx, h.outboxRepo, events, sharedApplication.NewEventMetadata(cmd.AthleteID, cmd.CorrelationID)); err != nil {
			return fmt.Errorf("save events: %w", err)
		}
		entry.ClearDomainEvents()
		return nil
	})
	if err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "task status updated",
		"athlete_id", cmd.AthleteID,
		"task_id", result.TaskID,
		"from", result.From,
		"status", result.To,
		"changed", result.Changed,
	)
	return result, nil
}
