package brackets

import (
	"context"
	"errors"

	"github.com/pitchside/fixture-engine/models"
)

var (
	ErrNotEnoughParticipants = errors.New("not enough participants (minimum 2 required)")
	ErrInvalidRounds         = errors.New("number of rounds must be at least 1")
)

// Entry occupies one side of a pairing: a resolved participant, or a
// reference to the pairing whose winner will fill the slot. Both fields nil
// means a bye; byes are internal to generation and never emitted.
type Entry struct {
	Participant *models.Participant
	SourceUID   *string
}

func (e Entry) IsBye() bool {
	return e.Participant == nil && e.SourceUID == nil
}

// Pairing is an abstract match before any time or venue is attached.
// Round and Sequence are 1-indexed; Sequence resets each round. Output
// ordering (round ascending, then sequence) is what the slot scheduler
// walks, so generators must emit in exactly that order.
type Pairing struct {
	UID      string
	Round    int
	Sequence int
	Home     Entry
	Away     Entry
}

type GenerateParams struct {
	Fixture      *models.Fixture
	Participants []*models.Participant
}

type Generator interface {
	Generate(ctx context.Context, params GenerateParams) ([]*Pairing, error)
	Name() string
}

// ForType returns the generator matching the fixture type, or nil for an
// unknown type.
func ForType(t models.FixtureType) Generator {
	switch t {
	case models.FixtureRoundRobin:
		return NewRoundRobinGenerator()
	case models.FixtureKnockout:
		return NewKnockoutGenerator()
	default:
		return nil
	}
}
