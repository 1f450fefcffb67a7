package brackets

import (
	"context"
	"fmt"

	"github.com/pitchside/fixture-engine/models"
)

type RoundRobinGenerator struct{}

func NewRoundRobinGenerator() Generator {
	return &RoundRobinGenerator{}
}

func (g *RoundRobinGenerator) Name() string {
	return "RoundRobin"
}

// Generate builds a round-robin schedule with the circle method: participant
// 0 stays fixed while the rest rotate one position after every round, so each
// pair meets exactly once per cycle. An odd participant count gets a synthetic
// bye appended; pairings against the bye keep the rotation regular but are
// never emitted as matches. Fixture.Rounds > 1 repeats the full cycle, with
// home and away swapped on even-numbered cycles to balance home advantage.
func (g *RoundRobinGenerator) Generate(ctx context.Context, params GenerateParams) ([]*Pairing, error) {
	participants := params.Participants
	if len(participants) < 2 {
		return nil, fmt.Errorf("RoundRobinGenerator: %w (found %d)", ErrNotEnoughParticipants, len(participants))
	}

	cycles := 1
	if params.Fixture != nil && params.Fixture.Rounds != 0 {
		cycles = params.Fixture.Rounds
	}
	if cycles < 1 {
		return nil, fmt.Errorf("RoundRobinGenerator: %w (got %d)", ErrInvalidRounds, cycles)
	}

	// nil marks the bye slot when the count is odd.
	ring := make([]*models.Participant, len(participants))
	copy(ring, participants)
	if len(ring)%2 != 0 {
		ring = append(ring, nil)
	}

	n := len(ring)
	roundsPerCycle := n - 1

	type basePair struct {
		round int
		home  *models.Participant
		away  *models.Participant
	}
	base := make([]basePair, 0, n/2*roundsPerCycle)

	for round := 1; round <= roundsPerCycle; round++ {
		for i := 0; i < n/2; i++ {
			home, away := ring[i], ring[n-1-i]
			if home == nil || away == nil {
				continue // bye pairing, not a match
			}
			base = append(base, basePair{round: round, home: home, away: away})
		}

		// Rotate every position except the fixed first one.
		last := ring[n-1]
		copy(ring[2:], ring[1:n-1])
		ring[1] = last
	}

	pairings := make([]*Pairing, 0, len(base)*cycles)
	for cycle := 1; cycle <= cycles; cycle++ {
		seq := 0
		prevRound := 0
		for _, bp := range base {
			if bp.round != prevRound {
				seq = 0
				prevRound = bp.round
			}
			seq++

			home, away := bp.home, bp.away
			if cycle%2 == 0 {
				home, away = away, home
			}
			round := (cycle-1)*roundsPerCycle + bp.round
			pairings = append(pairings, &Pairing{
				UID:      fmt.Sprintf("R%dM%d", round, seq),
				Round:    round,
				Sequence: seq,
				Home:     Entry{Participant: home},
				Away:     Entry{Participant: away},
			})
		}
	}

	return pairings, nil
}
