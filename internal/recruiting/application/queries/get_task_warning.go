package queries

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/recruitkit/internal/recruiting/application/services"
	"github.com/felixgeelhaar/recruitkit/internal/recruiting/domain/ledger"
	"github.com/felixgeelhaar/recruitkit/internal/recruiting/domain/task"
	"github.com/google/uuid"
)

// GetTaskWarningQuery asks whether a task has open prerequisites.
type GetTaskWarningQuery struct {
	AthleteID uuid.UUID
	TaskID    string
}

// TaskWarningDTO is the soft advisory for a task.
type TaskWarningDTO struct {
	TaskID             string `json:"task_id"`
	Message            string `json:"message"`
	PrerequisiteTaskID string `json:"prerequisite_task_id"`
	PrerequisiteTitle  string `json:"prerequisite_title"`
	WhyItMatters       string `json:"why_it_matters"`
	CanProceed         bool   `json:"can_proceed"`
}

// GetTaskWarningHandler handles the GetTaskWarningQuery.
type GetTaskWarningHandler struct {
	catalogRepo task.CatalogRepository
	ledgerRepo  ledger.Repository
}

// NewGetTaskWarningHandler creates a new GetTaskWarningHandler.
func NewGetTaskWarningHandler(catalogRepo task.CatalogRepository, ledgerRepo ledger.Repository) *GetTaskWarningHandler {
	return &GetTaskWarningHandler{catalogRepo: catalogRepo, ledgerRepo: ledgerRepo}
}

// Handle executes the GetTaskWarningQuery. A nil result means the task is
// free to work on.
func (h *GetTaskWarningHandler) Handle(ctx context.Context, query GetTaskWarningQuery) (*TaskWarningDTO, error) {
	catalog, err := h.catalogRepo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	if _, ok := catalog.Get(query.TaskID); !ok {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, query.TaskID)
	}
	l, err := h.ledgerRepo.FindByAthlete(ctx, query.AthleteID)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}

	w := services.NewDependencyResolver(catalog).Warning(query.TaskID, l)
	if w == nil {
		return nil, nil
	}
	return &TaskWarningDTO{
		TaskID:             query.TaskID,
		Message:            w.Message,
		PrerequisiteTaskID: w.PrerequisiteTask.ID(),
		PrerequisiteTitle:  w.PrerequisiteTask.Title(),
		WhyItMatters:       w.WhyItMatters,
		CanProceed:         w.CanProceed,
	}, nil
}
