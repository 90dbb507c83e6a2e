package services

import (
	"slices"

	"github.com/felixgeelhaar/recruitkit/internal/recruiting/domain/progress"
)

// Colour tokens the UI maps to its palette.
const (
	ColorGreen  = "green"
	ColorYellow = "yellow"
	ColorRed    = "red"
	ColorGray   = "gray"
)

// Advice is the sentence and colour shown next to a status label.
type Advice struct {
	Label   progress.Label `json:"label"`
	Message string         `json:"message"`
	Color   string         `json:"color"`
}

const neutralAdviceMessage = "We don't have enough information to assess your recruiting progress yet."

var adviceByLabel = map[progress.Label]Advice{
	progress.LabelOnTrack: {
		Label:   progress.LabelOnTrack,
		Message: "You're on track. Keep up your coach communication and stay ahead of upcoming deadlines.",
		Color:   ColorGreen,
	},
	progress.LabelSlightlyBehind: {
		Label:   progress.LabelSlightlyBehind,
		Message: "You're slightly behind. A few focused steps this week will get you back on pace.",
		Color:   ColorYellow,
	},
	progress.LabelAtRisk: {
		Label:   progress.LabelAtRisk,
		Message: "Your recruiting plan needs attention. Start with the recovery tasks below and reach out to coaches.",
		Color:   ColorRed,
	},
}

var nextActions = map[progress.Label]map[progress.Phase][]string{
	progress.LabelOnTrack: {
		progress.PhaseFreshman: {
			"Keep your grades strong in core courses",
			"Start a highlight log of games and stats",
			"Research college programs that fit your level",
		},
		progress.PhaseSophomore: {
			"Register with the NCAA Eligibility Center",
			"Attend a showcase or camp at a target school",
			"Send an introductory email to coaches",
		},
		progress.PhaseJunior: {
			"Schedule unofficial visits",
			"Update your highlight video with this season",
			"Follow up with coaches who replied",
		},
		progress.PhaseSenior: {
			"Compare offers and financial aid packages",
			"Plan official visits",
			"Confirm your final amateurism certification",
		},
	},
	progress.LabelSlightlyBehind: {
		progress.PhaseFreshman: {
			"Meet with your school counselor about core courses",
			"Build a list of ten programs to research",
		},
		progress.PhaseSophomore: {
			"Finish your athlete profile and upload transcripts",
			"Email three coaches this week",
			"Register for the SAT or ACT",
		},
		progress.PhaseJunior: {
			"Send your highlight video to every target school",
			"Log each coach interaction as it happens",
			"Ask your coach for a recommendation call",
		},
		progress.PhaseSenior: {
			"Follow up with every coach who showed interest",
			"Widen your list to include more realistic fits",
			"Complete the FAFSA",
		},
	},
	progress.LabelAtRisk: {
		progress.PhaseFreshman: {
			"Talk to your counselor about your academic plan",
			"Complete the getting-started tasks in your checklist",
		},
		progress.PhaseSophomore: {
			"Work through your recovery tasks first",
			"Register with the NCAA Eligibility Center now",
			"Contact at least five coaches this month",
		},
		progress.PhaseJunior: {
			"Work through your recovery tasks first",
			"Send your profile to at least ten programs this week",
			"Ask your high school coach to reach out on your behalf",
		},
		progress.PhaseSenior: {
			"Work through your recovery tasks first",
			"Target programs with open roster spots",
			"Explore junior college and walk-on options",
		},
	},
}

// StatusAdvisory maps a status label and recruiting phase to advice text and
// next actions. It holds no state.
type StatusAdvisory struct{}

// NewStatusAdvisory creates a status advisory.
func NewStatusAdvisory() *StatusAdvisory {
	return &StatusAdvisory{}
}

// Advice returns the advice for label. Unknown labels get a neutral message
// in gray.
func (a *StatusAdvisory) Advice(label progress.Label) Advice {
	if advice, ok := adviceByLabel[label]; ok {
		return advice
	}
	return Advice{Label: label, Message: neutralAdviceMessage, Color: ColorGray}
}

// NextActions returns a copy of the action list for the pair. Unknown labels
// or phases return an empty slice.
func (a *StatusAdvisory) NextActions(label progress.Label, phase progress.Phase) []string {
	actions, ok := nextActions[label][phase]
	if !ok {
		return []string{}
	}
	return slices.Clone(actions)
}
