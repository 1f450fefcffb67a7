package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitchside/fixture-engine/models"
)

// fakeMatchSource applies the same filtering the Postgres store does:
// half-open window intersection, optional venue, cancelled rows excluded.
type fakeMatchSource struct {
	matches []*models.Match
}

func (f *fakeMatchSource) ListOverlapping(_ context.Context, venueID *int, from, to time.Time) ([]*models.Match, error) {
	var out []*models.Match
	for _, m := range f.matches {
		if m.Status == models.MatchStatusCancelled {
			continue
		}
		if venueID != nil && (m.VenueID == nil || *m.VenueID != *venueID) {
			continue
		}
		if Overlaps(from, to, m.StartsAt, m.EndsAt) {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeWindowSource struct {
	windows []*models.BlockedWindow
}

func (f *fakeWindowSource) ListBlocked(_ context.Context, venueID int, from, to time.Time) ([]*models.BlockedWindow, error) {
	var out []*models.BlockedWindow
	for _, w := range f.windows {
		if w.VenueID == venueID && Overlaps(from, to, w.StartsAt, w.EndsAt) {
			out = append(out, w)
		}
	}
	return out, nil
}

func intPtr(v int) *int { return &v }

func storedMatch(id int, venueID *int, start, end time.Time) *models.Match {
	return &models.Match{
		ID:        id,
		UID:       "stored",
		StartsAt:  start,
		EndsAt:    end,
		VenueID:   venueID,
		Status:    models.MatchStatusScheduled,
		FixtureID: 1,
	}
}

func newTestDetector(matches []*models.Match, windows []*models.BlockedWindow) *Detector {
	return NewDetector(&fakeMatchSource{matches: matches}, &fakeWindowSource{windows: windows})
}

func TestFindConflictsReportsOverlapSpan(t *testing.T) {
	d := newTestDetector([]*models.Match{
		storedMatch(1, intPtr(5), at(0), at(60)),
	}, nil)

	conflicts, err := d.FindConflicts(context.Background(), at(30), at(90), intPtr(5), nil)
	require.NoError(t, err)
	require.Len(t, conflicts, 1)

	c := conflicts[0]
	assert.Equal(t, ConflictMatchOverlap, c.Kind)
	require.NotNil(t, c.MatchID)
	assert.Equal(t, 1, *c.MatchID)
	assert.Equal(t, at(30), c.OverlapStart)
	assert.Equal(t, at(60), c.OverlapEnd)
}

func TestFindConflictsIgnoresCancelledAndExcluded(t *testing.T) {
	cancelled := storedMatch(1, intPtr(5), at(0), at(60))
	cancelled.Status = models.MatchStatusCancelled
	d := newTestDetector([]*models.Match{
		cancelled,
		storedMatch(2, intPtr(5), at(0), at(60)),
	}, nil)

	conflicts, err := d.FindConflicts(context.Background(), at(0), at(60), intPtr(5), intPtr(2))
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}

func TestFindConflictsTouchingWindowsDoNotConflict(t *testing.T) {
	d := newTestDetector([]*models.Match{
		storedMatch(1, intPtr(5), at(0), at(60)),
	}, nil)

	conflicts, err := d.FindConflicts(context.Background(), at(60), at(120), intPtr(5), nil)
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}

func TestFindConflictsBlockedWindow(t *testing.T) {
	d := newTestDetector(nil, []*models.BlockedWindow{
		{ID: 9, VenueID: 5, StartsAt: at(45), EndsAt: at(120), Reason: "maintenance"},
	})

	conflicts, err := d.FindConflicts(context.Background(), at(0), at(60), intPtr(5), nil)
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, ConflictVenueBlocked, conflicts[0].Kind)
	assert.Equal(t, "maintenance", conflicts[0].BlockedReason)
	assert.Equal(t, at(45), conflicts[0].OverlapStart)
	assert.Equal(t, at(60), conflicts[0].OverlapEnd)

	// Blocked windows are only consulted when a venue is given.
	conflicts, err = d.FindConflicts(context.Background(), at(0), at(60), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}

func TestFindConflictsSymmetry(t *testing.T) {
	a := storedMatch(1, intPtr(5), at(0), at(60))
	b := storedMatch(2, intPtr(5), at(30), at(90))

	dA := newTestDetector([]*models.Match{b}, nil)
	dB := newTestDetector([]*models.Match{a}, nil)

	fromA, err := dA.FindConflicts(context.Background(), a.StartsAt, a.EndsAt, a.VenueID, nil)
	require.NoError(t, err)
	fromB, err := dB.FindConflicts(context.Background(), b.StartsAt, b.EndsAt, b.VenueID, nil)
	require.NoError(t, err)

	assert.Equal(t, len(fromA) > 0, len(fromB) > 0)
	require.Len(t, fromA, 1)
	require.Len(t, fromB, 1)
	assert.Equal(t, fromA[0].OverlapStart, fromB[0].OverlapStart)
	assert.Equal(t, fromA[0].OverlapEnd, fromB[0].OverlapEnd)
}

func TestFindConflictsRejectsInvalidInterval(t *testing.T) {
	d := newTestDetector(nil, nil)

	_, err := d.FindConflicts(context.Background(), at(60), at(0), nil, nil)
	assert.ErrorIs(t, err, ErrInvalidInterval)

	var zero time.Time
	_, err = d.FindConflicts(context.Background(), zero, at(60), nil, nil)
	assert.ErrorIs(t, err, ErrInvalidInterval)
}

func TestValidateBatchAgainstPersisted(t *testing.T) {
	d := newTestDetector([]*models.Match{
		storedMatch(1, intPtr(5), at(0), at(60)),
	}, nil)

	candidates := []*models.Match{
		{UID: "R1M1", StartsAt: at(30), EndsAt: at(90), VenueID: intPtr(5)},
		{UID: "R1M2", StartsAt: at(120), EndsAt: at(180), VenueID: intPtr(5)},
	}

	report, err := d.ValidateBatch(context.Background(), candidates)
	require.NoError(t, err)
	assert.False(t, report.Valid)
	assert.Contains(t, report.Conflicts, "R1M1")
	assert.NotContains(t, report.Conflicts, "R1M2")
}

func TestValidateBatchSiblingConflicts(t *testing.T) {
	d := newTestDetector(nil, nil)

	candidates := []*models.Match{
		{UID: "R1M1", StartsAt: at(0), EndsAt: at(60), VenueID: intPtr(5)},
		{UID: "R1M2", StartsAt: at(30), EndsAt: at(90), VenueID: intPtr(5)},
		{UID: "R1M3", StartsAt: at(30), EndsAt: at(90), VenueID: intPtr(6)},
	}

	report, err := d.ValidateBatch(context.Background(), candidates)
	require.NoError(t, err)
	assert.False(t, report.Valid)

	// Both overlapping siblings are reported, the different-venue one is not.
	assert.Contains(t, report.Conflicts, "R1M1")
	assert.Contains(t, report.Conflicts, "R1M2")
	assert.NotContains(t, report.Conflicts, "R1M3")
}

func TestValidateBatchCleanBatch(t *testing.T) {
	d := newTestDetector(nil, nil)

	candidates := []*models.Match{
		{UID: "R1M1", StartsAt: at(0), EndsAt: at(60), VenueID: intPtr(5)},
		{UID: "R1M2", StartsAt: at(60), EndsAt: at(120), VenueID: intPtr(5)},
	}

	report, err := d.ValidateBatch(context.Background(), candidates)
	require.NoError(t, err)
	assert.True(t, report.Valid)
	assert.Empty(t, report.Conflicts)
}

func TestSuggestAlternatives(t *testing.T) {
	// Venue 5 is solidly booked from the preferred start until two hours
	// after, so only the backward probes are free.
	d := newTestDetector([]*models.Match{
		storedMatch(1, intPtr(5), at(0), at(120)),
	}, nil)

	suggestions, err := d.SuggestAlternatives(context.Background(), 5, at(0), time.Hour, 3)
	require.NoError(t, err)

	// Ladder order: +30m, -30m, +1h, -1h, +2h, -2h. The +30m, -30m and +1h
	// probes collide; -1h ends exactly at the booked start and +2h starts
	// exactly at the booked end, and touching endpoints do not overlap.
	require.Len(t, suggestions, 3)
	assert.Equal(t, at(-60), suggestions[0].StartsAt)
	assert.Equal(t, at(120), suggestions[1].StartsAt)
	assert.Equal(t, at(-120), suggestions[2].StartsAt)
}

func TestSuggestAlternativesBounded(t *testing.T) {
	d := newTestDetector(nil, nil)

	suggestions, err := d.SuggestAlternatives(context.Background(), 5, at(0), time.Hour, 2)
	require.NoError(t, err)
	assert.Len(t, suggestions, 2, "stops at max even when more offsets are free")

	suggestions, err = d.SuggestAlternatives(context.Background(), 5, at(0), time.Hour, 0)
	require.NoError(t, err)
	assert.Empty(t, suggestions)

	_, err = d.SuggestAlternatives(context.Background(), 5, at(0), 0, 3)
	assert.ErrorIs(t, err, ErrNonPositiveDuration)
}
