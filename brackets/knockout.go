package brackets

import (
	"context"
	"fmt"
	"math/bits"

	"github.com/pitchside/fixture-engine/models"
)

type KnockoutGenerator struct{}

func NewKnockoutGenerator() Generator {
	return &KnockoutGenerator{}
}

func (g *KnockoutGenerator) Name() string {
	return "Knockout"
}

// node is one bracket position between rounds: a real participant, a
// placeholder for the winner of an earlier pairing, or a bye.
type node struct {
	participant *models.Participant
	sourceUID   *string
	bye         bool
}

func (n node) entry() Entry {
	return Entry{Participant: n.participant, SourceUID: n.sourceUID}
}

// Generate builds a single-elimination bracket. The participant list is taken
// in seeding order (seeding policy is the caller's problem); the bracket is
// padded with byes up to the next power of two. A pairing with exactly one
// bye is not emitted: the real side advances directly. Two byes collapse into
// a single bye that keeps propagating. Rounds past the first reference the
// source pairing UID instead of a participant, since winners are unknown
// until results arrive. Generation stops at the final.
func (g *KnockoutGenerator) Generate(ctx context.Context, params GenerateParams) ([]*Pairing, error) {
	participants := params.Participants
	n := len(participants)
	if n < 2 {
		return nil, fmt.Errorf("KnockoutGenerator: %w (found %d)", ErrNotEnoughParticipants, n)
	}

	bracketSize := nextPowerOfTwo(n)
	totalRounds := bits.TrailingZeros(uint(bracketSize))

	nodes := make([]node, bracketSize)
	for i := 0; i < n; i++ {
		nodes[i] = node{participant: participants[i]}
	}
	for i := n; i < bracketSize; i++ {
		nodes[i] = node{bye: true}
	}

	pairings := make([]*Pairing, 0, bracketSize-1)

	for round := 1; round <= totalRounds; round++ {
		next := make([]node, 0, len(nodes)/2)
		seq := 0

		for i := 0; i < len(nodes); i += 2 {
			a, b := nodes[i], nodes[i+1]

			switch {
			case a.bye && b.bye:
				next = append(next, node{bye: true})
			case b.bye:
				next = append(next, a) // auto-advance, no match emitted
			case a.bye:
				next = append(next, b)
			default:
				seq++
				uid := fmt.Sprintf("R%dM%d", round, seq)
				pairings = append(pairings, &Pairing{
					UID:      uid,
					Round:    round,
					Sequence: seq,
					Home:     a.entry(),
					Away:     b.entry(),
				})
				src := uid
				next = append(next, node{sourceUID: &src})
			}
		}
		nodes = next
	}

	if len(nodes) != 1 {
		return nil, fmt.Errorf("KnockoutGenerator: bracket did not reduce to a single winner slot (got %d)", len(nodes))
	}

	return pairings, nil
}

func nextPowerOfTwo(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}
	return size
}
