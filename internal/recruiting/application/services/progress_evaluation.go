package services

import (
	"github.com/felixgeelhaar/recruitkit/internal/recruiting/domain/ledger"
	"github.com/felixgeelhaar/recruitkit/internal/recruiting/domain/progress"
	"github.com/felixgeelhaar/recruitkit/internal/recruiting/domain/task"
)

// ProgressFacts are the externally sourced signals behind three of the four
// sub-scores. Task completion is derived from the catalog and ledger.
type ProgressFacts struct {
	Phase              progress.Phase
	Interaction        progress.InteractionSignal
	InterestLevels     []progress.InterestLevel
	PriorityCoachCount int
	Academic           progress.AcademicProfile
}

// Evaluation is a scored, labelled and advised snapshot of an athlete's
// progress.
type Evaluation struct {
	Inputs            progress.ScoreInputs
	Status            progress.CompositeStatus
	Advice            Advice
	Phase             progress.Phase
	NextActions       []string
	RequiredTotal     int
	RequiredCompleted int
}

// ProgressEvaluator runs the scorer and advisory over a catalog and ledger.
type ProgressEvaluator struct {
	scorer   *ProgressScorer
	advisory *StatusAdvisory
}

// NewProgressEvaluator creates an evaluator. A nil scorer uses the default
// weights.
func NewProgressEvaluator(scorer *ProgressScorer) *ProgressEvaluator {
	if scorer == nil {
		scorer = DefaultProgressScorer()
	}
	return &ProgressEvaluator{scorer: scorer, advisory: NewStatusAdvisory()}
}

// Scorer returns the scorer in use.
func (e *ProgressEvaluator) Scorer() *ProgressScorer { return e.scorer }

// Advisory returns the advisory in use.
func (e *ProgressEvaluator) Advisory() *StatusAdvisory { return e.advisory }

// Evaluate computes the composite status for the athlete owning l.
func (e *ProgressEvaluator) Evaluate(catalog *task.Catalog, l *ledger.Ledger, facts ProgressFacts) Evaluation {
	required := catalog.RequiredTaskIDs()
	completed := l.CompletedTaskIDs()

	inputs := progress.ScoreInputs{
		TaskCompletionRate:        float64(e.scorer.TaskCompletionRate(completed, required)),
		InteractionFrequencyScore: float64(e.scorer.InteractionFrequencyScore(facts.Interaction)),
		CoachInterestScore:        float64(e.scorer.CoachInterestScore(facts.InterestLevels, facts.PriorityCoachCount)),
		AcademicStandingScore:     float64(e.scorer.AcademicStandingScore(facts.Academic)),
	}
	status := e.scorer.Evaluate(inputs)

	return Evaluation{
		Inputs:            inputs,
		Status:            status,
		Advice:            e.advisory.Advice(status.Label),
		Phase:             facts.Phase,
		NextActions:       e.advisory.NextActions(status.Label, facts.Phase),
		RequiredTotal:     len(required),
		RequiredCompleted: countCompleted(required, l),
	}
}

func countCompleted(ids []string, l *ledger.Ledger) int {
	n := 0
	for _, id := range ids {
		if l.IsCompleted(id) {
			n++
		}
	}
	return n
}
