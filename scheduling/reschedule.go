package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pitchside/fixture-engine/models"
)

var (
	ErrMatchCompleted  = errors.New("completed matches cannot be rescheduled")
	ErrUnresolvedEntry = errors.New("match side is not yet bound to a participant")
)

type Rescheduler struct {
	detector *Detector
}

func NewRescheduler(detector *Detector) *Rescheduler {
	return &Rescheduler{detector: detector}
}

// Reschedule validates a move of match to newStart (and optionally newVenue)
// and returns the updated copy. The input match is never mutated: on any
// conflict the caller gets a ConflictError with the full list and the stored
// match stays exactly as it was. The original start time is captured on the
// first move only; later moves keep the first value for audit.
func (r *Rescheduler) Reschedule(ctx context.Context, match *models.Match, newStart time.Time, newVenue *int) (*models.Match, error) {
	if match.Status == models.MatchStatusCompleted {
		return nil, fmt.Errorf("reschedule match %d: %w", match.ID, ErrMatchCompleted)
	}

	duration := match.Duration()
	newEnd := newStart.Add(duration)
	if err := ValidateInterval(newStart, newEnd); err != nil {
		return nil, fmt.Errorf("reschedule match %d: %w", match.ID, err)
	}

	venueID := match.VenueID
	if newVenue != nil {
		venueID = newVenue
	}

	excludeID := match.ID
	conflicts, err := r.detector.FindConflicts(ctx, newStart, newEnd, venueID, &excludeID)
	if err != nil {
		return nil, fmt.Errorf("reschedule match %d: %w", match.ID, err)
	}
	if len(conflicts) > 0 {
		return nil, &ConflictError{Conflicts: conflicts}
	}

	updated := *match
	if updated.OriginalStartsAt == nil {
		prev := match.StartsAt
		updated.OriginalStartsAt = &prev
	}
	updated.StartsAt = newStart
	updated.EndsAt = newEnd
	updated.VenueID = venueID

	return &updated, nil
}

// SwapEntries exchanges the home and away assignment. Both sides must be
// resolved participants; a knockout placeholder has no side to swap yet.
func SwapEntries(match *models.Match) (*models.Match, error) {
	if !match.Home.Resolved() || !match.Away.Resolved() {
		return nil, fmt.Errorf("swap entries for match %d: %w", match.ID, ErrUnresolvedEntry)
	}
	updated := *match
	updated.Home, updated.Away = match.Away, match.Home
	return &updated, nil
}
