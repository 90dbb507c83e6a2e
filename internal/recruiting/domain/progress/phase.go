package progress

import (
	"strconv"
	"strings"
)

// Phase is the stage of the recruiting journey, tied to the athlete's grade.
type Phase string

const (
	PhaseFreshman  Phase = "freshman"
	PhaseSophomore Phase = "sophomore"
	PhaseJunior    Phase = "junior"
	PhaseSenior    Phase = "senior"
)

// Phases lists the known phases in journey order.
func Phases() []Phase {
	return []Phase{PhaseFreshman, PhaseSophomore, PhaseJunior, PhaseSenior}
}

// PhaseForGrade maps grades 9..12 to a phase; other grades yield "".
func PhaseForGrade(grade int) Phase {
	switch grade {
	case 9:
		return PhaseFreshman
	case 10:
		return PhaseSophomore
	case 11:
		return PhaseJunior
	case 12:
		return PhaseSenior
	default:
		return ""
	}
}

// ParsePhase accepts a phase name or a grade number ("11"). Unknown input
// yields "" rather than an error.
func ParsePhase(s string) Phase {
	s = strings.ToLower(strings.TrimSpace(s))
	if grade, err := strconv.Atoi(s); err == nil {
		return PhaseForGrade(grade)
	}
	for _, p := range Phases() {
		if string(p) == s {
			return p
		}
	}
	return ""
}
