package services

import (
	"errors"
	"fmt"

	"github.com/pitchside/fixture-engine/scheduling"
)

// Shared service-level errors, mapped to HTTP statuses in the handlers.
// None of these are retried internally: every failure is deterministic given
// the same input and store state.
var (
	// Not found
	ErrNotFound        = errors.New("requested resource not found")
	ErrFixtureNotFound = errors.New("fixture not found")
	ErrMatchNotFound   = errors.New("match not found")

	// Invalid input / business rules
	ErrFixtureNotEditable       = errors.New("fixture does not allow schedule generation in its current status")
	ErrFixtureInvalidTransition = errors.New("invalid fixture status transition")
	ErrUnsupportedFixtureType   = errors.New("unsupported fixture type")
	ErrFixtureHasNoStartTime    = errors.New("fixture has no earliest start time configured")
	ErrScheduleExceedsWindow    = errors.New("generated schedule runs past the fixture's latest end time")
	ErrResultScoresInvalid      = errors.New("scores must be non-negative")
	ErrKnockoutDraw             = errors.New("knockout match cannot end in a draw")
	ErrMatchAlreadyCompleted    = errors.New("match already has a finalized result")
	ErrMatchCancelled           = errors.New("cancelled match cannot receive a result")
)

// ScheduleConflictError is returned when batch validation finds overlaps.
// It keeps the per-candidate report so an operator can fix every conflict in
// a single correction round.
type ScheduleConflictError struct {
	Report *scheduling.BatchReport
}

func (e *ScheduleConflictError) Error() string {
	total := 0
	for _, cs := range e.Report.Conflicts {
		total += len(cs)
	}
	return fmt.Sprintf("schedule validation failed: %d conflicting candidates, %d conflicts total",
		len(e.Report.Conflicts), total)
}
