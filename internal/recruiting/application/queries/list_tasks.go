package queries

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/recruitkit/internal/recruiting/application/services"
	"github.com/felixgeelhaar/recruitkit/internal/recruiting/domain/ledger"
	"github.com/felixgeelhaar/recruitkit/internal/recruiting/domain/task"
	"github.com/google/uuid"
)

// ListTasksQuery contains the parameters for listing an athlete's tasks.
type ListTasksQuery struct {
	AthleteID    uuid.UUID
	GradeLevel   int    // 0 means every grade
	RequiredOnly bool
	LockedOnly   bool
	Status       string // empty means every status
}

// TaskSummary counts the athlete's tasks across the whole catalog.
type TaskSummary struct {
	Total      int `json:"total"`
	NotStarted int `json:"not_started"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
	Skipped    int `json:"skipped"`
	Locked     int `json:"locked"`
	Recovery   int `json:"recovery"`
}

// ListTasksResult is the filtered task list and the unfiltered summary.
type ListTasksResult struct {
	Tasks   []TaskWithStatusDTO `json:"tasks"`
	Summary TaskSummary         `json:"summary"`
}

// ListTasksHandler handles the ListTasksQuery.
type ListTasksHandler struct {
	catalogRepo task.CatalogRepository
	ledgerRepo  ledger.Repository
}

// NewListTasksHandler creates a new ListTasksHandler.
func NewListTasksHandler(catalogRepo task.CatalogRepository, ledgerRepo ledger.Repository) *ListTasksHandler {
	return &ListTasksHandler{catalogRepo: catalogRepo, ledgerRepo: ledgerRepo}
}

// Handle executes the ListTasksQuery.
func (h *ListTasksHandler) Handle(ctx context.Context, query ListTasksQuery) (*ListTasksResult, error) {
	var status ledger.Status
	if query.Status != "" {
		s, err := ledger.ParseStatus(query.Status)
		if err != nil {
			return nil, err
		}
		status = s
	}

	catalog, err := h.catalogRepo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	l, err := h.ledgerRepo.FindByAthlete(ctx, query.AthleteID)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}

	resolver := services.NewDependencyResolver(catalog)
	result := &ListTasksResult{Tasks: []TaskWithStatusDTO{}}
	for _, view := range resolver.ProjectCatalog(l) {
		result.Summary.add(view)
		if !matches(view, query, status) {
			continue
		}
		result.Tasks = append(result.Tasks, toTaskWithStatusDTO(view, l))
	}
	return result, nil
}

func matches(view services.TaskWithStatus, query ListTasksQuery, status ledger.Status) bool {
	if query.GradeLevel != 0 && view.Task.GradeLevel() != query.GradeLevel {
		return false
	}
	if query.RequiredOnly && !view.Task.Required() {
		return false
	}
	if query.LockedOnly && !view.HasIncompletePrerequisites {
		return false
	}
	if status != "" && view.Status != status {
		return false
	}
	return true
}

func (s *TaskSummary) add(view services.TaskWithStatus) {
	s.Total++
	switch view.Status {
	case ledger.StatusNotStarted:
		s.NotStarted++
	case ledger.StatusInProgress:
		s.InProgress++
	case ledger.StatusCompleted:
		s.Completed++
	case ledger.StatusSkipped:
		s.Skipped++
	}
	if view.HasIncompletePrerequisites {
		s.Locked++
	}
	if view.IsRecoveryTask {
		s.Recovery++
	}
}
