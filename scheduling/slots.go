package scheduling

import (
	"fmt"
	"time"

	"github.com/pitchside/fixture-engine/brackets"
	"github.com/pitchside/fixture-engine/models"
)

// SlotPlan is the shared configuration for one scheduling pass.
type SlotPlan struct {
	StartAt      time.Time
	Duration     time.Duration
	BreakBetween time.Duration
	VenueIDs     []int
}

// ScheduleSlots assigns times and venues to pairings in generator output
// order: pairing i starts at StartAt + i*(Duration+BreakBetween). Venues
// rotate round-robin; with no venues the assignment is left to a human and
// VenueID stays nil. Deliberately non-optimizing: output order equals input
// order and no placement is ever revisited, so two runs over the same input
// produce the same schedule. Conflict resolution is a separate step.
func ScheduleSlots(fixtureID int, pairings []*brackets.Pairing, plan SlotPlan) ([]*models.Match, error) {
	if plan.Duration <= 0 {
		return nil, fmt.Errorf("ScheduleSlots: %w (got %s)", ErrNonPositiveDuration, plan.Duration)
	}
	if plan.BreakBetween < 0 {
		return nil, fmt.Errorf("ScheduleSlots: %w: negative break %s", ErrInvalidInterval, plan.BreakBetween)
	}
	if plan.StartAt.IsZero() {
		return nil, fmt.Errorf("ScheduleSlots: %w: zero start instant", ErrInvalidInterval)
	}

	step := plan.Duration + plan.BreakBetween
	matches := make([]*models.Match, 0, len(pairings))

	for i, p := range pairings {
		startsAt := plan.StartAt.Add(time.Duration(i) * step)

		var venueID *int
		if len(plan.VenueIDs) > 0 {
			v := plan.VenueIDs[i%len(plan.VenueIDs)]
			venueID = &v
		}

		matches = append(matches, &models.Match{
			FixtureID: fixtureID,
			UID:       p.UID,
			Round:     p.Round,
			Sequence:  p.Sequence,
			Home:      sideRef(p.Home),
			Away:      sideRef(p.Away),
			StartsAt:  startsAt,
			EndsAt:    startsAt.Add(plan.Duration),
			VenueID:   venueID,
			Status:    models.MatchStatusScheduled,
		})
	}

	return matches, nil
}

func sideRef(e brackets.Entry) models.SideRef {
	ref := models.SideRef{SourcePairingUID: e.SourceUID}
	if e.Participant != nil {
		id := e.Participant.ID
		ref.ParticipantID = &id
	}
	return ref
}
