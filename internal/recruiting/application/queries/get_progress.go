package queries

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/recruitkit/internal/recruiting/application/services"
	"github.com/felixgeelhaar/recruitkit/internal/recruiting/domain/ledger"
	"github.com/felixgeelhaar/recruitkit/internal/recruiting/domain/progress"
	"github.com/felixgeelhaar/recruitkit/internal/recruiting/domain/task"
	"github.com/google/uuid"
)

// GetProgressQuery evaluates an athlete's progress without recording it.
type GetProgressQuery struct {
	AthleteID uuid.UUID
	Facts     services.ProgressFacts
}

// ProgressDTO is the composite status with its breakdown and advice.
type ProgressDTO struct {
	Score             int                  `json:"score"`
	Label             string               `json:"label"`
	Color             string               `json:"color"`
	Advice            string               `json:"advice"`
	Phase             string               `json:"phase,omitempty"`
	NextActions       []string             `json:"next_actions"`
	SubScores         progress.ScoreInputs `json:"sub_scores"`
	RequiredTotal     int                  `json:"required_total"`
	RequiredCompleted int                  `json:"required_completed"`
}

// ToProgressDTO flattens an evaluation.
func ToProgressDTO(ev services.Evaluation) ProgressDTO {
	return ProgressDTO{
		Score:             ev.Status.Score,
		Label:             ev.Status.Label.String(),
		Color:             ev.Advice.Color,
		Advice:            ev.Advice.Message,
		Phase:             string(ev.Phase),
		NextActions:       ev.NextActions,
		SubScores:         ev.Inputs,
		RequiredTotal:     ev.RequiredTotal,
		RequiredCompleted: ev.RequiredCompleted,
	}
}

// GetProgressHandler handles the GetProgressQuery.
type GetProgressHandler struct {
	catalogRepo task.CatalogRepository
	ledgerRepo  ledger.Repository
	evaluator   *services.ProgressEvaluator
}

// NewGetProgressHandler creates a new GetProgressHandler. A nil evaluator
// uses the default weights.
func NewGetProgressHandler(catalogRepo task.CatalogRepository, ledgerRepo ledger.Repository, evaluator *services.ProgressEvaluator) *GetProgressHandler {
	if evaluator == nil {
		evaluator = services.NewProgressEvaluator(nil)
	}
	return &GetProgressHandler{catalogRepo: catalogRepo, ledgerRepo: ledgerRepo, evaluator: evaluator}
}

// Handle executes the GetProgressQuery.
func (h *GetProgressHandler) Handle(ctx context.Context, query GetProgressQuery) (*ProgressDTO, error) {
	catalog, err := h.catalogRepo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	l, err := h.ledgerRepo.FindByAthlete(ctx, query.AthleteID)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}

	dto := ToProgressDTO(h.evaluator.Evaluate(catalog, l, query.Facts))
	return &dto, nil
}
