package models

import "time"

type FixtureType string

const (
	FixtureRoundRobin FixtureType = "round_robin"
	FixtureKnockout   FixtureType = "knockout"
)

// FixtureStatus values follow the lifecycle DRAFT -> PROPOSED -> PUBLISHED,
// with CANCELLED reachable from any non-terminal state.
type FixtureStatus string

const (
	FixtureStatusDraft     FixtureStatus = "draft"
	FixtureStatusProposed  FixtureStatus = "proposed"
	FixtureStatusPublished FixtureStatus = "published"
	FixtureStatusCancelled FixtureStatus = "cancelled"
)

// CanTransitionTo reports whether the lifecycle permits moving to next.
func (s FixtureStatus) CanTransitionTo(next FixtureStatus) bool {
	switch s {
	case FixtureStatusDraft:
		return next == FixtureStatusProposed || next == FixtureStatusCancelled
	case FixtureStatusProposed:
		return next == FixtureStatusPublished || next == FixtureStatusCancelled
	case FixtureStatusPublished:
		return next == FixtureStatusCancelled
	default:
		return false
	}
}

// GenerationAllowed reports whether matches may still be generated.
func (s FixtureStatus) GenerationAllowed() bool {
	return s == FixtureStatusDraft || s == FixtureStatusProposed
}

// Fixture groups the matches of one event/division together with the shared
// scheduling configuration used to generate them.
type Fixture struct {
	ID                 int           `json:"id" db:"id"`
	Name               string        `json:"name" db:"name"`
	Type               FixtureType   `json:"type" db:"type"`
	Status             FixtureStatus `json:"status" db:"status"`
	Rounds             int           `json:"rounds" db:"rounds"`
	MatchDuration      time.Duration `json:"match_duration" db:"match_duration"`
	BreakBetween       time.Duration `json:"break_between" db:"break_between"`
	VenueIDs           []int         `json:"venue_ids" db:"-"`
	EarliestStart      time.Time     `json:"earliest_start" db:"earliest_start"`
	LatestEnd          *time.Time    `json:"latest_end,omitempty" db:"latest_end"`
	MaxMatchesPerVenue int           `json:"max_matches_per_venue_per_day" db:"max_matches_per_venue_per_day"`
	CreatedAt          time.Time     `json:"created_at" db:"created_at"`

	// Optional linked data, populated by the service layer.
	Participants []Participant `json:"participants,omitempty" db:"-"`
	Matches      []Match       `json:"matches,omitempty" db:"-"`
}
