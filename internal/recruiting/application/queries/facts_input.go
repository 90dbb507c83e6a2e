package queries

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/recruitkit/internal/recruiting/application/services"
	"github.com/felixgeelhaar/recruitkit/internal/recruiting/domain/progress"
)

// ErrInvalidFacts wraps every FactsInput parse failure.
var ErrInvalidFacts = errors.New("invalid progress facts")

// FactsInput is the flat, user-supplied form of ProgressFacts shared by the
// CLI flags and the MCP tools. Nil pointers are absent facts.
type FactsInput struct {
	// Phase is a phase name or a grade number.
	Phase string `json:"phase,omitempty"`
	// LastInteraction is a YYYY-MM-DD date or an RFC 3339 timestamp.
	LastInteraction      string   `json:"last_interaction,omitempty"`
	DaysSinceInteraction *int     `json:"days_since_interaction,omitempty"`
	TargetSchools        int      `json:"target_schools,omitempty"`
	CoachInterest        []string `json:"coach_interest,omitempty"`
	PriorityCoaches      int      `json:"priority_coaches,omitempty"`
	GPA                  *float64 `json:"gpa,omitempty"`
	SAT                  *int     `json:"sat,omitempty"`
	ACT                  *int     `json:"act,omitempty"`
	Eligibility          string   `json:"eligibility,omitempty"`
}

// Facts converts the input relative to now. Unknown interest levels,
// eligibility values and phases pass through and score or advise nothing.
func (in FactsInput) Facts(now time.Time) (services.ProgressFacts, error) {
	facts := services.ProgressFacts{
		InterestLevels:     progress.ParseInterestLevels(in.CoachInterest),
		PriorityCoachCount: in.PriorityCoaches,
		Academic: progress.AcademicProfile{
			GPA:         in.GPA,
			SAT:         in.SAT,
			ACT:         in.ACT,
			Eligibility: progress.EligibilityStatus(strings.ToLower(strings.TrimSpace(in.Eligibility))),
		},
	}

	if in.Phase != "" {
		facts.Phase = progress.ParsePhase(in.Phase)
	}

	interaction, err := in.interaction(now)
	if err != nil {
		return services.ProgressFacts{}, err
	}
	facts.Interaction = interaction
	return facts, nil
}

func (in FactsInput) interaction(now time.Time) (progress.InteractionSignal, error) {
	switch {
	case in.LastInteraction != "" && in.DaysSinceInteraction != nil:
		return progress.InteractionSignal{}, fmt.Errorf("%w: give either a last interaction date or days since, not both", ErrInvalidFacts)
	case in.DaysSinceInteraction != nil:
		return progress.SignalFromDays(*in.DaysSinceInteraction, in.TargetSchools, now), nil
	case in.LastInteraction != "":
		last, err := parseInteractionDate(in.LastInteraction, now.Location())
		if err != nil {
			return progress.InteractionSignal{}, err
		}
		return progress.SignalFromLastInteraction(&last, in.TargetSchools, now), nil
	default:
		return progress.SignalFromLastInteraction(nil, in.TargetSchools, now), nil
	}
}

// parseInteractionDate reads a bare date as midnight in loc so it lands on
// the same calendar day as the clock it is compared against.
func parseInteractionDate(raw string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02", raw, loc); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: last interaction %q is not YYYY-MM-DD or RFC 3339", ErrInvalidFacts, raw)
}
