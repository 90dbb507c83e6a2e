package services

import (
	"errors"
	"fmt"
	"math"

	"github.com/felixgeelhaar/recruitkit/internal/recruiting/domain/progress"
)

// Composite score weights.
const (
	WeightTaskCompletion       = 0.35
	WeightInteractionFrequency = 0.25
	WeightCoachInterest        = 0.25
	WeightAcademicStanding     = 0.15
)

// Label cutoffs; each cutoff belongs to the higher tier.
const (
	OnTrackThreshold        = 75
	SlightlyBehindThreshold = 50
)

// Coach interest points and priority-coach bonus.
const (
	interestPointsHigh      = 100
	interestPointsMedium    = 60
	interestPointsLow       = 20
	priorityCoachBonus      = 5
	priorityCoachBonusLimit = 10
)

const weightTolerance = 1e-9

// ErrInvalidWeights is returned when weights are negative or do not sum to 1.
var ErrInvalidWeights = errors.New("score weights must be non-negative and sum to 1.0")

// ScoreWeights sets how much each sub-score contributes to the composite.
type ScoreWeights struct {
	TaskCompletion       float64
	InteractionFrequency float64
	CoachInterest        float64
	AcademicStanding     float64
}

// DefaultScoreWeights returns the production weight table.
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{
		TaskCompletion:       WeightTaskCompletion,
		InteractionFrequency: WeightInteractionFrequency,
		CoachInterest:        WeightCoachInterest,
		AcademicStanding:     WeightAcademicStanding,
	}
}

// Validate checks that the weights form a convex combination.
func (w ScoreWeights) Validate() error {
	for _, v := range []float64{w.TaskCompletion, w.InteractionFrequency, w.CoachInterest, w.AcademicStanding} {
		if v < 0 || math.IsNaN(v) {
			return fmt.Errorf("%w: negative weight %v", ErrInvalidWeights, v)
		}
	}
	sum := w.TaskCompletion + w.InteractionFrequency + w.CoachInterest + w.AcademicStanding
	if math.Abs(sum-1) > weightTolerance {
		return fmt.Errorf("%w: sum is %v", ErrInvalidWeights, sum)
	}
	return nil
}

// ProgressScorer turns four independently sourced signals into one 0..100
// score and a three-tier label.
type ProgressScorer struct {
	weights ScoreWeights
}

// NewProgressScorer validates the weights once at construction.
func NewProgressScorer(weights ScoreWeights) (*ProgressScorer, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	return &ProgressScorer{weights: weights}, nil
}

// DefaultProgressScorer returns a scorer using DefaultScoreWeights.
func DefaultProgressScorer() *ProgressScorer {
	return &ProgressScorer{weights: DefaultScoreWeights()}
}

// Weights returns the weight table in use.
func (s *ProgressScorer) Weights() ScoreWeights {
	return s.weights
}

// CompositeScore clamps each input to [0, 100], blends them by weight and
// rounds half up.
func (s *ProgressScorer) CompositeScore(in progress.ScoreInputs) int {
	sum := clampScore(in.TaskCompletionRate)*s.weights.TaskCompletion +
		clampScore(in.InteractionFrequencyScore)*s.weights.InteractionFrequency +
		clampScore(in.CoachInterestScore)*s.weights.CoachInterest +
		clampScore(in.AcademicStandingScore)*s.weights.AcademicStanding
	return clampInt(roundHalfUp(sum), 0, 100)
}

// Evaluate scores the inputs and labels the result.
func (s *ProgressScorer) Evaluate(in progress.ScoreInputs) progress.CompositeStatus {
	score := s.CompositeScore(in)
	return progress.CompositeStatus{Score: score, Label: s.StatusLabel(score)}
}

// TaskCompletionRate is the share of required tasks that are completed, as a
// percentage. With no required tasks defined the rate is 0: nothing defined
// yet counts as no progress.
func (s *ProgressScorer) TaskCompletionRate(completedIDs, requiredIDs []string) int {
	required := make(map[string]struct{}, len(requiredIDs))
	for _, id := range requiredIDs {
		required[id] = struct{}{}
	}
	if len(required) == 0 {
		return 0
	}

	done := make(map[string]struct{}, len(completedIDs))
	for _, id := range completedIDs {
		if _, ok := required[id]; ok {
			done[id] = struct{}{}
		}
	}
	return roundHalfUp(float64(len(done)) / float64(len(required)) * 100)
}

// InteractionFrequencyScore is a step function of days since the last coach
// interaction. No interaction on record, or no target schools, scores 0.
func (s *ProgressScorer) InteractionFrequencyScore(signal progress.InteractionSignal) int {
	if signal.LastInteractionAt == nil || signal.TargetSchoolCount <= 0 {
		return 0
	}
	days := max(signal.DaysSinceLastInteraction, 0)
	switch {
	case days <= 7:
		return 100
	case days <= 14:
		return 80
	case days <= 21:
		return 60
	case days <= 30:
		return 40
	default:
		return 0
	}
}

// CoachInterestScore averages interest points across coaches and adds up to
// 10 bonus points for priority coaches. Unrecognised levels count as zero.
func (s *ProgressScorer) CoachInterestScore(levels []progress.InterestLevel, priorityCoachCount int) int {
	if len(levels) == 0 {
		return 0
	}
	total := 0
	for _, level := range levels {
		total += interestPoints(level)
	}
	avg := float64(total) / float64(len(levels))
	bonus := min(priorityCoachBonus*max(priorityCoachCount, 0), priorityCoachBonusLimit)
	return min(roundHalfUp(avg+float64(bonus)), 100)
}

func interestPoints(level progress.InterestLevel) int {
	switch level {
	case progress.InterestHigh:
		return interestPointsHigh
	case progress.InterestMedium:
		return interestPointsMedium
	case progress.InterestLow:
		return interestPointsLow
	default:
		return 0
	}
}

// AcademicStandingScore sums the GPA, test score and eligibility bands,
// capped at 100. SAT is preferred over ACT when both are present.
func (s *ProgressScorer) AcademicStandingScore(p progress.AcademicProfile) int {
	return min(gpaPoints(p.GPA)+testPoints(p.SAT, p.ACT)+eligibilityPoints(p.Eligibility), 100)
}

func gpaPoints(gpa *float64) int {
	if gpa == nil {
		return 0
	}
	switch g := *gpa; {
	case g >= 3.5:
		return 40
	case g >= 3.0:
		return 30
	case g >= 2.5:
		return 20
	case g >= 2.0:
		return 10
	default:
		return 0
	}
}

func testPoints(sat, act *int) int {
	if sat != nil {
		switch v := *sat; {
		case v >= 1200:
			return 30
		case v >= 1000:
			return 20
		case v >= 900:
			return 10
		default:
			return 0
		}
	}
	if act != nil {
		switch v := *act; {
		case v >= 28:
			return 30
		case v >= 24:
			return 20
		case v >= 20:
			return 10
		default:
			return 0
		}
	}
	return 0
}

func eligibilityPoints(status progress.EligibilityStatus) int {
	switch status {
	case progress.EligibilityRegistered:
		return 30
	case progress.EligibilityPending:
		return 15
	default:
		return 0
	}
}

// StatusLabel classifies a score: 75 and above is on track, 50 to 74 is
// slightly behind, below 50 is at risk.
func (s *ProgressScorer) StatusLabel(score int) progress.Label {
	switch {
	case score >= OnTrackThreshold:
		return progress.LabelOnTrack
	case score >= SlightlyBehindThreshold:
		return progress.LabelSlightlyBehind
	default:
		return progress.LabelAtRisk
	}
}

func clampScore(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(100, v))
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(hi, v))
}

// roundHalfUp rounds to the nearest integer with .5 going up. The value is
// first snapped to 1e-6 so that float error in a weighted sum (74.49999999)
// does not flip a boundary.
func roundHalfUp(v float64) int {
	snapped := math.Round(v*1e6) / 1e6
	return int(math.Floor(snapped + 0.5))
}
