package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/pitchside/fixture-engine/brackets"
	"github.com/pitchside/fixture-engine/models"
	"github.com/pitchside/fixture-engine/realtime"
	"github.com/pitchside/fixture-engine/repositories"
	"github.com/pitchside/fixture-engine/scheduling"
)

type FixtureService interface {
	GetFixture(ctx context.Context, id int) (*models.Fixture, error)
	CreateFixture(ctx context.Context, fixture *models.Fixture) error
	UpdateStatus(ctx context.Context, id int, next models.FixtureStatus) (*models.Fixture, error)
	GenerateSchedule(ctx context.Context, fixtureID int) ([]*models.Match, error)
}

type fixtureService struct {
	db              *sql.DB
	fixtureRepo     repositories.FixtureRepository
	participantRepo repositories.ParticipantRepository
	matchRepo       repositories.MatchRepository
	detector        *scheduling.Detector
	hub             Broadcaster
	logger          *slog.Logger
}

func NewFixtureService(
	db *sql.DB,
	fixtureRepo repositories.FixtureRepository,
	participantRepo repositories.ParticipantRepository,
	matchRepo repositories.MatchRepository,
	detector *scheduling.Detector,
	hub Broadcaster,
	logger *slog.Logger,
) FixtureService {
	return &fixtureService{
		db:              db,
		fixtureRepo:     fixtureRepo,
		participantRepo: participantRepo,
		matchRepo:       matchRepo,
		detector:        detector,
		hub:             hub,
		logger:          logger,
	}
}

func (s *fixtureService) GetFixture(ctx context.Context, id int) (*models.Fixture, error) {
	fixture, err := s.fixtureRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrFixtureNotFound) {
			return nil, ErrFixtureNotFound
		}
		return nil, err
	}

	// Load registrations and matches side by side; both are read-only views.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		participants, err := s.participantRepo.ListByFixture(gctx, id, nil)
		if err != nil {
			return fmt.Errorf("load participants for fixture %d: %w", id, err)
		}
		fixture.Participants = make([]models.Participant, 0, len(participants))
		for _, p := range participants {
			fixture.Participants = append(fixture.Participants, *p)
		}
		return nil
	})
	g.Go(func() error {
		matches, err := s.matchRepo.ListByFixture(gctx, id, nil, nil)
		if err != nil {
			return fmt.Errorf("load matches for fixture %d: %w", id, err)
		}
		fixture.Matches = make([]models.Match, 0, len(matches))
		for _, m := range matches {
			fixture.Matches = append(fixture.Matches, *m)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return fixture, nil
}

func (s *fixtureService) CreateFixture(ctx context.Context, fixture *models.Fixture) error {
	if fixture.Type != models.FixtureRoundRobin && fixture.Type != models.FixtureKnockout {
		return fmt.Errorf("%w: %q", ErrUnsupportedFixtureType, fixture.Type)
	}
	if fixture.MatchDuration <= 0 {
		return fmt.Errorf("create fixture: %w", scheduling.ErrNonPositiveDuration)
	}
	if fixture.Rounds < 1 {
		fixture.Rounds = 1
	}
	fixture.Status = models.FixtureStatusDraft
	return s.fixtureRepo.Create(ctx, nil, fixture)
}

func (s *fixtureService) UpdateStatus(ctx context.Context, id int, next models.FixtureStatus) (*models.Fixture, error) {
	fixture, err := s.fixtureRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrFixtureNotFound) {
			return nil, ErrFixtureNotFound
		}
		return nil, err
	}

	if !fixture.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrFixtureInvalidTransition, fixture.Status, next)
	}

	if err := s.fixtureRepo.UpdateStatus(ctx, nil, id, next); err != nil {
		return nil, err
	}
	fixture.Status = next
	return fixture, nil
}

// GenerateSchedule runs the whole pipeline for one fixture: confirmed
// participants -> abstract pairings -> timed/venued matches -> batch conflict
// validation -> atomic persistence. Validation and insert share a transaction
// holding an advisory lock on the fixture, so two concurrent generation
// requests cannot both pass validation against a stale snapshot.
func (s *fixtureService) GenerateSchedule(ctx context.Context, fixtureID int) ([]*models.Match, error) {
	fixture, err := s.fixtureRepo.GetByID(ctx, fixtureID)
	if err != nil {
		if errors.Is(err, repositories.ErrFixtureNotFound) {
			return nil, ErrFixtureNotFound
		}
		return nil, err
	}

	if !fixture.Status.GenerationAllowed() {
		return nil, fmt.Errorf("%w: status %s", ErrFixtureNotEditable, fixture.Status)
	}
	if fixture.EarliestStart.IsZero() {
		return nil, ErrFixtureHasNoStartTime
	}

	confirmed := models.ParticipantStatusConfirmed
	participants, err := s.participantRepo.ListByFixture(ctx, fixtureID, &confirmed)
	if err != nil {
		return nil, fmt.Errorf("list confirmed participants for fixture %d: %w", fixtureID, err)
	}

	generator := brackets.ForType(fixture.Type)
	if generator == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFixtureType, fixture.Type)
	}

	pairings, err := generator.Generate(ctx, brackets.GenerateParams{
		Fixture:      fixture,
		Participants: participants,
	})
	if err != nil {
		return nil, err
	}

	matches, err := scheduling.ScheduleSlots(fixtureID, pairings, scheduling.SlotPlan{
		StartAt:      fixture.EarliestStart,
		Duration:     fixture.MatchDuration,
		BreakBetween: fixture.BreakBetween,
		VenueIDs:     fixture.VenueIDs,
	})
	if err != nil {
		return nil, err
	}

	if fixture.LatestEnd != nil && len(matches) > 0 {
		last := matches[len(matches)-1]
		if last.EndsAt.After(*fixture.LatestEnd) {
			return nil, fmt.Errorf("%w: last match ends %s, window closes %s",
				ErrScheduleExceedsWindow, last.EndsAt, *fixture.LatestEnd)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	var txErr error
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if txErr != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.logger.Error("rollback failed", slog.Any("error", rbErr))
			}
		}
	}()

	// Serializes validate-then-persist for this fixture (released on commit
	// or rollback).
	if _, txErr = tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(fixtureID)); txErr != nil {
		return nil, fmt.Errorf("acquire fixture lock: %w", txErr)
	}

	var report *scheduling.BatchReport
	report, txErr = s.detector.ValidateBatch(ctx, matches)
	if txErr != nil {
		return nil, fmt.Errorf("validate generated schedule: %w", txErr)
	}
	if !report.Valid {
		txErr = &ScheduleConflictError{Report: report}
		return nil, txErr
	}

	if txErr = s.matchRepo.CreateBatch(ctx, tx, matches); txErr != nil {
		return nil, fmt.Errorf("persist generated schedule: %w", txErr)
	}

	if txErr = tx.Commit(); txErr != nil {
		return nil, fmt.Errorf("commit generated schedule: %w", txErr)
	}

	s.logger.Info("fixture schedule generated",
		slog.Int("fixture_id", fixtureID),
		slog.String("generator", generator.Name()),
		slog.Int("matches", len(matches)))

	if s.hub != nil {
		s.hub.BroadcastToFixture(fixtureID, realtime.NewEvent(realtime.EventFixtureGenerated, fixtureID, map[string]interface{}{
			"match_count": len(matches),
			"generator":   generator.Name(),
		}))
	}

	return matches, nil
}
