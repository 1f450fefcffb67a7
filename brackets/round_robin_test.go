package brackets

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitchside/fixture-engine/models"
)

func testParticipants(ids ...int) []*models.Participant {
	ps := make([]*models.Participant, 0, len(ids))
	for _, id := range ids {
		ps = append(ps, &models.Participant{ID: id, Kind: models.ParticipantTeam})
	}
	return ps
}

func rrFixture(rounds int) *models.Fixture {
	return &models.Fixture{Type: models.FixtureRoundRobin, Rounds: rounds}
}

func pairKey(a, b int) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d-%d", a, b)
}

func TestRoundRobinRejectsTooFewParticipants(t *testing.T) {
	g := NewRoundRobinGenerator()

	_, err := g.Generate(context.Background(), GenerateParams{
		Fixture:      rrFixture(1),
		Participants: testParticipants(1),
	})
	require.ErrorIs(t, err, ErrNotEnoughParticipants)
}

func TestRoundRobinRejectsInvalidRounds(t *testing.T) {
	g := NewRoundRobinGenerator()

	_, err := g.Generate(context.Background(), GenerateParams{
		Fixture:      rrFixture(-1),
		Participants: testParticipants(1, 2, 3, 4),
	})
	require.ErrorIs(t, err, ErrInvalidRounds)
}

func TestRoundRobinEvenCount(t *testing.T) {
	g := NewRoundRobinGenerator()

	pairings, err := g.Generate(context.Background(), GenerateParams{
		Fixture:      rrFixture(1),
		Participants: testParticipants(1, 2, 3, 4),
	})
	require.NoError(t, err)

	// 4 participants: 3 rounds, 2 matches each, every pair exactly once.
	require.Len(t, pairings, 6)

	seen := make(map[string]int)
	for _, p := range pairings {
		require.NotNil(t, p.Home.Participant)
		require.NotNil(t, p.Away.Participant)
		seen[pairKey(p.Home.Participant.ID, p.Away.Participant.ID)]++
	}
	assert.Len(t, seen, 6)
	for key, count := range seen {
		assert.Equal(t, 1, count, "pair %s repeated", key)
	}
	assert.Equal(t, 3, pairings[len(pairings)-1].Round)
}

func TestRoundRobinOddCountInjectsBye(t *testing.T) {
	g := NewRoundRobinGenerator()

	pairings, err := g.Generate(context.Background(), GenerateParams{
		Fixture:      rrFixture(1),
		Participants: testParticipants(1, 2, 3, 4, 5),
	})
	require.NoError(t, err)

	// 5 participants: bye injected, 5 rounds, 2 real matches per round,
	// 10 matches total. The bye round never materializes as a match.
	require.Len(t, pairings, 10)
	assert.Equal(t, 5, pairings[len(pairings)-1].Round)

	perRound := make(map[int]int)
	seen := make(map[string]int)
	for _, p := range pairings {
		perRound[p.Round]++
		seen[pairKey(p.Home.Participant.ID, p.Away.Participant.ID)]++
	}
	for round, count := range perRound {
		assert.Equal(t, 2, count, "round %d", round)
	}
	assert.Len(t, seen, 10)
	for key, count := range seen {
		assert.Equal(t, 1, count, "pair %s repeated", key)
	}
}

func TestRoundRobinOutputOrdering(t *testing.T) {
	g := NewRoundRobinGenerator()

	pairings, err := g.Generate(context.Background(), GenerateParams{
		Fixture:      rrFixture(1),
		Participants: testParticipants(1, 2, 3, 4, 5, 6),
	})
	require.NoError(t, err)

	prevRound, prevSeq := 0, 0
	for _, p := range pairings {
		if p.Round == prevRound {
			assert.Equal(t, prevSeq+1, p.Sequence)
		} else {
			assert.Equal(t, prevRound+1, p.Round, "rounds must be contiguous")
			assert.Equal(t, 1, p.Sequence, "sequence resets each round")
		}
		prevRound, prevSeq = p.Round, p.Sequence
	}
}

func TestRoundRobinDoubleCycleSwapsHomeAway(t *testing.T) {
	g := NewRoundRobinGenerator()

	pairings, err := g.Generate(context.Background(), GenerateParams{
		Fixture:      rrFixture(2),
		Participants: testParticipants(1, 2, 3, 4),
	})
	require.NoError(t, err)
	require.Len(t, pairings, 12)

	firstCycle := make(map[string]bool) // "home:away"
	for _, p := range pairings {
		if p.Round <= 3 {
			firstCycle[fmt.Sprintf("%d:%d", p.Home.Participant.ID, p.Away.Participant.ID)] = true
		}
	}
	for _, p := range pairings {
		if p.Round > 3 {
			swapped := fmt.Sprintf("%d:%d", p.Away.Participant.ID, p.Home.Participant.ID)
			assert.True(t, firstCycle[swapped],
				"second cycle pairing %d vs %d should mirror a first-cycle pairing with sides swapped",
				p.Home.Participant.ID, p.Away.Participant.ID)
		}
	}
}
