package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/recruitkit/internal/recruiting/application/services"
	"github.com/felixgeelhaar/recruitkit/internal/recruiting/domain/ledger"
	"github.com/felixgeelhaar/recruitkit/internal/recruiting/domain/progress"
	"github.com/felixgeelhaar/recruitkit/internal/recruiting/domain/task"
	sharedApplication "github.com/felixgeelhaar/recruitkit/internal/shared/application"
	"github.com/felixgeelhaar/recruitkit/internal/shared/domain"
	"github.com/felixgeelhaar/recruitkit/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// RecordProgressCommand evaluates an athlete's progress and records it.
type RecordProgressCommand struct {
	AthleteID     uuid.UUID
	Facts         services.ProgressFacts
	CorrelationID uuid.UUID
}

// RecordProgressResult is the evaluation plus whether the label moved.
type RecordProgressResult struct {
	Evaluation    services.Evaluation
	PreviousLabel progress.Label
	LabelChanged  bool
	// PreviousUnknown is set when the status store could not be read. No
	// event is raised and nothing is stored in that case.
	PreviousUnknown bool
}

// RecordProgressHandler evaluates progress and raises StatusChanged into the
// outbox when the label differs from the last recorded one. The first
// evaluation for an athlete always counts as a change; an unreadable status
// store counts as no change.
type RecordProgressHandler struct {
	catalogRepo task.CatalogRepository
	ledgerRepo  ledger.Repository
	statusStore progress.StatusStore
	outboxRepo  outbox.Repository
	uow         sharedApplication.UnitOfWork
	evaluator   *services.ProgressEvaluator
	logger      *slog.Logger
}

// NewRecordProgressHandler creates a new RecordProgressHandler.
func NewRecordProgressHandler(
	catalogRepo task.CatalogRepository,
	ledgerRepo ledger.Repository,
	statusStore progress.StatusStore,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	evaluator *services.ProgressEvaluator,
	logger *slog.Logger,
) *RecordProgressHandler {
	if evaluator == nil {
		evaluator = services.NewProgressEvaluator(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RecordProgressHandler{
		catalogRepo: catalogRepo,
		ledgerRepo:  ledgerRepo,
		statusStore: statusStore,
		outboxRepo:  outboxRepo,
		uow:         uow,
		evaluator:   evaluator,
		logger:      logger,
	}
}

// Handle executes the RecordProgressCommand.
func (h *RecordProgressHandler) Handle(ctx context.Context, cmd RecordProgressCommand) (*RecordProgressResult, error) {
	catalog, err := h.catalogRepo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	l, err := h.ledgerRepo.FindByAthlete(ctx, cmd.AthleteID)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}

	ev := h.evaluator.Evaluate(catalog, l, cmd.Facts)
	result := &RecordProgressResult{Evaluation: ev}

	last, found, err := h.statusStore.LastStatus(ctx, cmd.AthleteID)
	if err != nil {
		// Without the previous label a change cannot be told apart from a
		// repeat. Leave the stored label alone so the next successful
		// evaluation compares against it.
		h.logger.WarnContext(ctx, "last status unavailable, skipping status change check",
			"athlete_id", cmd.AthleteID, "error", err)
		result.PreviousUnknown = true
		return result, nil
	}
	if found {
		result.PreviousLabel = last.Label
	}
	result.LabelChanged = !found || last.Label != ev.Status.Label

	if result.LabelChanged {
		event := progress.NewStatusChanged(cmd.AthleteID, result.PreviousLabel, ev.Status)
		err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
			metadata := sharedApplication.NewEventMetadata(cmd.AthleteID, cmd.CorrelationID)
			return saveEvents(txCtx, h.outboxRepo, []domain.DomainEvent{event}, metadata)
		})
		if err != nil {
			return nil, fmt.Errorf("save status change: %w", err)
		}
	}

	if err := h.statusStore.SaveStatus(ctx, cmd.AthleteID, ev.Status); err != nil {
		h.logger.WarnContext(ctx, "status not saved", "athlete_id", cmd.AthleteID, "error", err)
	}

	h.logger.InfoContext(ctx, "progress recorded",
		"athlete_id", cmd.AthleteID,
		"score", ev.Status.Score,
		"label", ev.Status.Label,
		"label_changed", result.LabelChanged,
	)
	return result, nil
}
