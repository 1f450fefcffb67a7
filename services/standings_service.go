package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/pitchside/fixture-engine/models"
	"github.com/pitchside/fixture-engine/realtime"
	"github.com/pitchside/fixture-engine/repositories"
	"github.com/pitchside/fixture-engine/standings"
)

type StandingsService interface {
	Recompute(ctx context.Context, fixtureID int) ([]*models.StandingsRow, error)
}

type standingsService struct {
	fixtureRepo repositories.FixtureRepository
	resultRepo  repositories.ResultRepository
	scoring     standings.Scoring
	hub         Broadcaster
	logger      *slog.Logger
}

func NewStandingsService(
	fixtureRepo repositories.FixtureRepository,
	resultRepo repositories.ResultRepository,
	scoring standings.Scoring,
	hub Broadcaster,
	logger *slog.Logger,
) StandingsService {
	return &standingsService{
		fixtureRepo: fixtureRepo,
		resultRepo:  resultRepo,
		scoring:     scoring,
		hub:         hub,
		logger:      logger,
	}
}

// Recompute rebuilds the full table from the full finalized result set.
// Total recomputation, not incremental: there is no cached delta state that
// can drift from the results.
func (s *standingsService) Recompute(ctx context.Context, fixtureID int) ([]*models.StandingsRow, error) {
	var results []*models.Result

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := s.fixtureRepo.GetByID(gctx, fixtureID)
		if errors.Is(err, repositories.ErrFixtureNotFound) {
			return ErrFixtureNotFound
		}
		return err
	})
	g.Go(func() error {
		var err error
		results, err = s.resultRepo.ListFinalized(gctx, fixtureID)
		if err != nil {
			return fmt.Errorf("list finalized results for fixture %d: %w", fixtureID, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	table := standings.Compute(results, s.scoring)

	s.logger.Debug("standings recomputed",
		slog.Int("fixture_id", fixtureID),
		slog.Int("rows", len(table)),
		slog.Int("results", len(results)))

	if s.hub != nil {
		s.hub.BroadcastToFixture(fixtureID, realtime.NewEvent(realtime.EventStandingsRecomputed, fixtureID, table))
	}

	return table, nil
}
