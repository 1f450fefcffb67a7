package models

import "time"

type MatchStatus string

const (
	MatchStatusScheduled MatchStatus = "scheduled"
	MatchStatusLive      MatchStatus = "live"
	MatchStatusCompleted MatchStatus = "completed"
	MatchStatusCancelled MatchStatus = "cancelled"
	MatchStatusPostponed MatchStatus = "postponed"
)

// SideRef identifies who occupies one side of a match: either a resolved
// participant or the winner of an earlier pairing (knockout progression).
// At most one of the two fields is set.
type SideRef struct {
	ParticipantID    *int    `json:"participant_id,omitempty" db:"participant_id"`
	SourcePairingUID *string `json:"source_pairing_uid,omitempty" db:"source_pairing_uid"`
}

// Resolved reports whether the side is bound to a real participant.
func (r SideRef) Resolved() bool {
	return r.ParticipantID != nil
}

// Match is a scheduled pairing: round/sequence position inside its fixture
// plus a concrete time window, an optional venue, and lifecycle status.
// OriginalStartsAt is set on the first reschedule and never overwritten.
type Match struct {
	ID               int         `json:"id" db:"id"`
	FixtureID        int         `json:"fixture_id" db:"fixture_id"`
	UID              string      `json:"uid" db:"uid"`
	Round            int         `json:"round" db:"round"`
	Sequence         int         `json:"sequence" db:"sequence"`
	Home             SideRef     `json:"home"`
	Away             SideRef     `json:"away"`
	StartsAt         time.Time   `json:"starts_at" db:"starts_at"`
	EndsAt           time.Time   `json:"ends_at" db:"ends_at"`
	VenueID          *int        `json:"venue_id,omitempty" db:"venue_id"`
	Status           MatchStatus `json:"status" db:"status"`
	OriginalStartsAt *time.Time  `json:"original_starts_at,omitempty" db:"original_starts_at"`
	WinnerID         *int        `json:"winner_id,omitempty" db:"winner_id"`
	CreatedAt        time.Time   `json:"created_at" db:"created_at"`
}

// Duration is the playing window length derived from the stored instants.
func (m *Match) Duration() time.Duration {
	return m.EndsAt.Sub(m.StartsAt)
}
