package models

import "time"

type Venue struct {
	ID       int    `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	Location string `json:"location,omitempty" db:"location"`
}

// BlockedWindow is a time range during which a venue cannot host matches.
// Maintained externally; the conflict detector only reads these.
type BlockedWindow struct {
	ID       int       `json:"id" db:"id"`
	VenueID  int       `json:"venue_id" db:"venue_id"`
	StartsAt time.Time `json:"starts_at" db:"starts_at"`
	EndsAt   time.Time `json:"ends_at" db:"ends_at"`
	Reason   string    `json:"reason" db:"reason"`
}
