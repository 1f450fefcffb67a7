// Package standings turns finalized results into a sorted league table.
// It is a pure view over the result set: every call recomputes the full
// table, there is no incremental state to keep consistent.
package standings

import (
	"sort"

	"github.com/pitchside/fixture-engine/models"
)

// Scoring holds the points awarded per outcome. Constants are configuration,
// not part of the algorithm.
type Scoring struct {
	Win  int
	Draw int
	Loss int
}

var DefaultScoring = Scoring{Win: 3, Draw: 1, Loss: 0}

// Compute aggregates finalized results into standings rows, sorted by points,
// then goal difference, then goals for, all descending, with ascending
// participant ID as the final tie-break so equal records always rank in the
// same reproducible order. Callers filter out provisional results beforehand.
func Compute(results []*models.Result, scoring Scoring) []*models.StandingsRow {
	rows := make(map[int]*models.StandingsRow)

	row := func(participantID int) *models.StandingsRow {
		if r, ok := rows[participantID]; ok {
			return r
		}
		r := &models.StandingsRow{ParticipantID: participantID}
		rows[participantID] = r
		return r
	}

	for _, res := range results {
		home := row(res.HomeParticipantID)
		away := row(res.AwayParticipantID)

		home.Played++
		away.Played++
		home.GoalsFor += res.HomeScore
		home.GoalsAgainst += res.AwayScore
		away.GoalsFor += res.AwayScore
		away.GoalsAgainst += res.HomeScore

		switch {
		case res.HomeScore > res.AwayScore:
			home.Wins++
			home.Points += scoring.Win
			away.Losses++
			away.Points += scoring.Loss
		case res.HomeScore < res.AwayScore:
			away.Wins++
			away.Points += scoring.Win
			home.Losses++
			home.Points += scoring.Loss
		default:
			home.Draws++
			away.Draws++
			home.Points += scoring.Draw
			away.Points += scoring.Draw
		}
	}

	table := make([]*models.StandingsRow, 0, len(rows))
	for _, r := range rows {
		r.GoalDifference = r.GoalsFor - r.GoalsAgainst
		table = append(table, r)
	}

	sort.Slice(table, func(i, j int) bool {
		a, b := table[i], table[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDifference != b.GoalDifference {
			return a.GoalDifference > b.GoalDifference
		}
		if a.GoalsFor != b.GoalsFor {
			return a.GoalsFor > b.GoalsFor
		}
		return a.ParticipantID < b.ParticipantID
	})

	return table
}
