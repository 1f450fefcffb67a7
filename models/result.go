package models

import "time"

// Result is one finalized score for a completed match. Standings are always
// recomputed from the full finalized result set, never stored as ground truth.
type Result struct {
	ID                int       `json:"id" db:"id"`
	FixtureID         int       `json:"fixture_id" db:"fixture_id"`
	MatchID           int       `json:"match_id" db:"match_id"`
	HomeParticipantID int       `json:"home_participant_id" db:"home_participant_id"`
	AwayParticipantID int       `json:"away_participant_id" db:"away_participant_id"`
	HomeScore         int       `json:"home_score" db:"home_score"`
	AwayScore         int       `json:"away_score" db:"away_score"`
	Finalized         bool      `json:"finalized" db:"finalized"`
	RecordedAt        time.Time `json:"recorded_at" db:"recorded_at"`
}

// StandingsRow is the derived per-participant aggregate. It is a materialized
// view over results: rebuilt on every recomputation, no independent lifecycle.
type StandingsRow struct {
	ParticipantID  int `json:"participant_id"`
	Played         int `json:"played"`
	Wins           int `json:"wins"`
	Draws          int `json:"draws"`
	Losses         int `json:"losses"`
	GoalsFor       int `json:"goals_for"`
	GoalsAgainst   int `json:"goals_against"`
	GoalDifference int `json:"goal_difference"`
	Points         int `json:"points"`
}
