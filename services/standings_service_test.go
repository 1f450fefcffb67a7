package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitchside/fixture-engine/models"
	"github.com/pitchside/fixture-engine/realtime"
	"github.com/pitchside/fixture-engine/repositories"
	"github.com/pitchside/fixture-engine/standings"
)

type fakeFixtureRepo struct {
	fixtures map[int]*models.Fixture
	statuses map[int]models.FixtureStatus
}

func newFakeFixtureRepo(fixtures ...*models.Fixture) *fakeFixtureRepo {
	repo := &fakeFixtureRepo{
		fixtures: make(map[int]*models.Fixture),
		statuses: make(map[int]models.FixtureStatus),
	}
	for _, f := range fixtures {
		repo.fixtures[f.ID] = f
	}
	return repo
}

func (r *fakeFixtureRepo) Create(_ context.Context, _ repositories.SQLExecutor, fixture *models.Fixture) error {
	fixture.ID = len(r.fixtures) + 1
	r.fixtures[fixture.ID] = fixture
	return nil
}

func (r *fakeFixtureRepo) GetByID(_ context.Context, id int) (*models.Fixture, error) {
	f, ok := r.fixtures[id]
	if !ok {
		return nil, repositories.ErrFixtureNotFound
	}
	copied := *f
	return &copied, nil
}

func (r *fakeFixtureRepo) UpdateStatus(_ context.Context, _ repositories.SQLExecutor, id int, status models.FixtureStatus) error {
	f, ok := r.fixtures[id]
	if !ok {
		return repositories.ErrFixtureNotFound
	}
	f.Status = status
	r.statuses[id] = status
	return nil
}

type fakeResultRepo struct {
	results []*models.Result
}

func (r *fakeResultRepo) Create(_ context.Context, _ repositories.SQLExecutor, result *models.Result) error {
	result.ID = len(r.results) + 1
	r.results = append(r.results, result)
	return nil
}

func (r *fakeResultRepo) ListFinalized(_ context.Context, fixtureID int) ([]*models.Result, error) {
	var out []*models.Result
	for _, res := range r.results {
		if res.FixtureID == fixtureID && res.Finalized {
			out = append(out, res)
		}
	}
	return out, nil
}

type fakeBroadcaster struct {
	events []realtime.Event
}

func (b *fakeBroadcaster) BroadcastToFixture(_ int, event realtime.Event) {
	b.events = append(b.events, event)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestStandingsRecompute(t *testing.T) {
	fixtureRepo := newFakeFixtureRepo(&models.Fixture{ID: 1, Type: models.FixtureRoundRobin, Status: models.FixtureStatusPublished})
	resultRepo := &fakeResultRepo{results: []*models.Result{
		{FixtureID: 1, HomeParticipantID: 10, AwayParticipantID: 20, HomeScore: 2, AwayScore: 0, Finalized: true},
		{FixtureID: 1, HomeParticipantID: 20, AwayParticipantID: 30, HomeScore: 1, AwayScore: 1, Finalized: true},
		{FixtureID: 2, HomeParticipantID: 99, AwayParticipantID: 98, HomeScore: 5, AwayScore: 0, Finalized: true},
	}}
	hub := &fakeBroadcaster{}

	svc := NewStandingsService(fixtureRepo, resultRepo, standings.DefaultScoring, hub, discardLogger())

	table, err := svc.Recompute(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, table, 3, "only fixture 1 results feed the table")
	assert.Equal(t, 10, table[0].ParticipantID)
	assert.Equal(t, 3, table[0].Points)

	require.Len(t, hub.events, 1)
	assert.Equal(t, realtime.EventStandingsRecomputed, hub.events[0].Type)
}

func TestStandingsRecomputeUnknownFixture(t *testing.T) {
	svc := NewStandingsService(newFakeFixtureRepo(), &fakeResultRepo{}, standings.DefaultScoring, nil, discardLogger())

	_, err := svc.Recompute(context.Background(), 42)
	assert.ErrorIs(t, err, ErrFixtureNotFound)
}

func TestFixtureStatusTransitions(t *testing.T) {
	fixtureRepo := newFakeFixtureRepo(&models.Fixture{ID: 1, Status: models.FixtureStatusDraft})
	svc := NewFixtureService(nil, fixtureRepo, nil, nil, nil, nil, discardLogger())

	fixture, err := svc.UpdateStatus(context.Background(), 1, models.FixtureStatusProposed)
	require.NoError(t, err)
	assert.Equal(t, models.FixtureStatusProposed, fixture.Status)

	_, err = svc.UpdateStatus(context.Background(), 1, models.FixtureStatusDraft)
	assert.ErrorIs(t, err, ErrFixtureInvalidTransition)

	fixture, err = svc.UpdateStatus(context.Background(), 1, models.FixtureStatusPublished)
	require.NoError(t, err)
	assert.Equal(t, models.FixtureStatusPublished, fixture.Status)

	_, err = svc.UpdateStatus(context.Background(), 1, models.FixtureStatusProposed)
	assert.ErrorIs(t, err, ErrFixtureInvalidTransition)

	_, err = svc.UpdateStatus(context.Background(), 99, models.FixtureStatusProposed)
	assert.ErrorIs(t, err, ErrFixtureNotFound)
}
