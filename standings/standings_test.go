package standings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitchside/fixture-engine/models"
)

func result(home, away, homeScore, awayScore int) *models.Result {
	return &models.Result{
		HomeParticipantID: home,
		AwayParticipantID: away,
		HomeScore:         homeScore,
		AwayScore:         awayScore,
		Finalized:         true,
	}
}

func TestComputeAggregates(t *testing.T) {
	results := []*models.Result{
		result(1, 2, 3, 1), // 1 beats 2
		result(3, 1, 0, 0), // draw
		result(2, 3, 2, 4), // 3 beats 2
	}

	table := Compute(results, DefaultScoring)
	require.Len(t, table, 3)

	byID := make(map[int]*models.StandingsRow)
	for _, row := range table {
		byID[row.ParticipantID] = row
	}

	one := byID[1]
	assert.Equal(t, 2, one.Played)
	assert.Equal(t, 1, one.Wins)
	assert.Equal(t, 1, one.Draws)
	assert.Equal(t, 0, one.Losses)
	assert.Equal(t, 3, one.GoalsFor)
	assert.Equal(t, 1, one.GoalsAgainst)
	assert.Equal(t, 2, one.GoalDifference)
	assert.Equal(t, 4, one.Points)

	two := byID[2]
	assert.Equal(t, 0, two.Points)
	assert.Equal(t, 2, two.Losses)

	three := byID[3]
	assert.Equal(t, 4, three.Points)
	assert.Equal(t, 1, three.Wins)
	assert.Equal(t, 1, three.Draws)
}

func TestComputeSortOrder(t *testing.T) {
	results := []*models.Result{
		result(1, 2, 1, 0), // 1: 3pts, gd +1
		result(3, 4, 3, 0), // 3: 3pts, gd +3
		result(2, 4, 2, 2), // 2 and 4: 1pt each
	}

	table := Compute(results, DefaultScoring)
	require.Len(t, table, 4)

	// 3 outranks 1 on goal difference (+3 vs +1); 2 outranks 4 on goal
	// difference (-1 vs -3) among the one-point sides.
	assert.Equal(t, 3, table[0].ParticipantID)
	assert.Equal(t, 1, table[1].ParticipantID)
	assert.Equal(t, 2, table[2].ParticipantID)
	assert.Equal(t, 4, table[3].ParticipantID)
}

func TestComputeTieBreakByParticipantID(t *testing.T) {
	// Two pairs with perfectly mirrored records.
	results := []*models.Result{
		result(7, 9, 1, 1),
		result(9, 7, 2, 2),
	}

	table := Compute(results, DefaultScoring)
	require.Len(t, table, 2)
	assert.Equal(t, 7, table[0].ParticipantID, "identical records rank by ascending ID")
	assert.Equal(t, 9, table[1].ParticipantID)
}

func TestComputeDeterministic(t *testing.T) {
	results := []*models.Result{
		result(5, 6, 2, 2),
		result(6, 7, 1, 1),
		result(7, 5, 0, 0),
	}

	first := Compute(results, DefaultScoring)
	second := Compute(results, DefaultScoring)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ParticipantID, second[i].ParticipantID)
		assert.Equal(t, *first[i], *second[i])
	}
}

func TestComputeCustomScoring(t *testing.T) {
	results := []*models.Result{result(1, 2, 1, 0)}

	table := Compute(results, Scoring{Win: 2, Draw: 1, Loss: 0})
	require.Len(t, table, 2)
	assert.Equal(t, 2, table[0].Points)
}

func TestComputeEmptyResults(t *testing.T) {
	table := Compute(nil, DefaultScoring)
	assert.Empty(t, table)
}
