package progress

import (
	"github.com/felixgeelhaar/recruitkit/internal/shared/domain"
	"github.com/google/uuid"
)

const (
	AggregateType = "AthleteProgress"

	RoutingKeyStatusChanged = "recruiting.progress.status_changed"
)

// StatusChanged is raised when an athlete's composite label moves between
// tiers. Notification generators subscribe to it.
type StatusChanged struct {
	domain.BaseEvent
	AthleteID string `json:"athlete_id"`
	From      Label  `json:"from,omitempty"`
	To        Label  `json:"to"`
	Score     int    `json:"score"`
}

// NewStatusChanged creates a StatusChanged event. The athlete id doubles as
// the aggregate id since progress has no identity of its own.
func NewStatusChanged(athleteID uuid.UUID, from Label, to CompositeStatus) *StatusChanged {
	return &StatusChanged{
		BaseEvent: domain.NewBaseEvent(athleteID, AggregateType, RoutingKeyStatusChanged),
		AthleteID: athleteID.String(),
		From:      from,
		To:        to.Label,
		Score:     to.Score,
	}
}
