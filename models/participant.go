package models

import "time"

// ParticipantKind discriminates what the participant's external ID refers to.
type ParticipantKind string

const (
	ParticipantTeam       ParticipantKind = "team"
	ParticipantIndividual ParticipantKind = "individual"
)

type ParticipantStatus string

const (
	ParticipantStatusPending   ParticipantStatus = "pending"
	ParticipantStatusConfirmed ParticipantStatus = "confirmed"
	ParticipantStatusWithdrawn ParticipantStatus = "withdrawn"
)

// Participant is one confirmed entry in a fixture. The kind is resolved once,
// when the entry is loaded for generation, and never re-inferred downstream:
// every generator and scheduler works with the registration ID only.
type Participant struct {
	ID        int               `json:"id" db:"id"`
	FixtureID int               `json:"fixture_id" db:"fixture_id"`
	Kind      ParticipantKind   `json:"kind" db:"kind"`
	TeamID    *int              `json:"team_id,omitempty" db:"team_id"`
	UserID    *int              `json:"user_id,omitempty" db:"user_id"`
	Status    ParticipantStatus `json:"status" db:"status"`
	CreatedAt time.Time         `json:"created_at" db:"created_at"`
}
