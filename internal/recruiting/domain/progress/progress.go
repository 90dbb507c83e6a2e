// Package progress holds the value types of the readiness score: the four
// sub-score inputs, the composite status and its three-tier label.
package progress

import (
	"strings"
	"time"
)

// Label classifies a composite score.
type Label string

const (
	LabelOnTrack        Label = "on_track"
	LabelSlightlyBehind Label = "slightly_behind"
	LabelAtRisk         Label = "at_risk"
)

// IsValid reports whether l is one of the three tiers.
func (l Label) IsValid() bool {
	switch l {
	case LabelOnTrack, LabelSlightlyBehind, LabelAtRisk:
		return true
	default:
		return false
	}
}

// ParseLabel converts input into a Label; unknown values yield "".
func ParseLabel(s string) Label {
	l := Label(strings.ToLower(strings.TrimSpace(s)))
	if !l.IsValid() {
		return ""
	}
	return l
}

func (l Label) String() string { return string(l) }

// ScoreInputs are the four sub-scores blended into the composite. Each is
// meant to be 0..100 but is clamped rather than trusted. The zero value
// means every signal is missing.
type ScoreInputs struct {
	TaskCompletionRate        float64 `json:"task_completion_rate"`
	InteractionFrequencyScore float64 `json:"interaction_frequency_score"`
	CoachInterestScore        float64 `json:"coach_interest_score"`
	AcademicStandingScore     float64 `json:"academic_standing_score"`
}

// CompositeStatus is the blended score and its label.
type CompositeStatus struct {
	Score int   `json:"score"`
	Label Label `json:"label"`
}

// InteractionSignal describes how recently the athlete was in touch with
// coaches at target schools.
type InteractionSignal struct {
	LastInteractionAt        *time.Time
	DaysSinceLastInteraction int
	TargetSchoolCount        int
}

// SignalFromLastInteraction derives the day count from a timestamp as
// calendar days in now's location.
func SignalFromLastInteraction(last *time.Time, targetSchools int, now time.Time) InteractionSignal {
	signal := InteractionSignal{LastInteractionAt: last, TargetSchoolCount: targetSchools}
	if last != nil {
		signal.DaysSinceLastInteraction = CalendarDaysBetween(*last, now)
	}
	return signal
}

// SignalFromDays keeps a caller-supplied day count as is. The timestamp is
// only there to mark the interaction as recorded.
func SignalFromDays(days, targetSchools int, now time.Time) InteractionSignal {
	last := now.AddDate(0, 0, -days)
	return InteractionSignal{
		LastInteractionAt:        &last,
		DaysSinceLastInteraction: days,
		TargetSchoolCount:        targetSchools,
	}
}

// CalendarDaysBetween counts date boundaries from from to to, both read in
// to's location. DST transitions do not shorten a day.
func CalendarDaysBetween(from, to time.Time) int {
	fy, fm, fd := from.In(to.Location()).Date()
	ty, tm, td := to.Date()
	start := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	end := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start) / (24 * time.Hour))
}

// InterestLevel is a coach's recorded interest in the athlete.
type InterestLevel string

const (
	InterestHigh   InterestLevel = "high"
	InterestMedium InterestLevel = "medium"
	InterestLow    InterestLevel = "low"
)

// ParseInterestLevels normalises raw interest strings. Unknown values are
// kept so that they count toward the average as zero-point entries.
func ParseInterestLevels(raw []string) []InterestLevel {
	out := make([]InterestLevel, 0, len(raw))
	for _, r := range raw {
		out = append(out, InterestLevel(strings.ToLower(strings.TrimSpace(r))))
	}
	return out
}

// EligibilityStatus is the athlete's NCAA Eligibility Center standing.
type EligibilityStatus string

const (
	EligibilityRegistered EligibilityStatus = "registered"
	EligibilityPending    EligibilityStatus = "pending"
	EligibilityNotStarted EligibilityStatus = "not_started"
)

// AcademicProfile carries the facts behind the academic standing score.
// Nil fields are absent.
type AcademicProfile struct {
	GPA         *float64
	SAT         *int
	ACT         *int
	Eligibility EligibilityStatus
}
