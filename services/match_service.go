package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pitchside/fixture-engine/models"
	"github.com/pitchside/fixture-engine/realtime"
	"github.com/pitchside/fixture-engine/repositories"
	"github.com/pitchside/fixture-engine/scheduling"
)

type MatchService interface {
	GetMatch(ctx context.Context, id int) (*models.Match, error)
	ListByFixture(ctx context.Context, fixtureID int, round *int, status *models.MatchStatus) ([]*models.Match, error)
	Reschedule(ctx context.Context, matchID int, newStart time.Time, newVenueID *int) (*models.Match, error)
	SwapSides(ctx context.Context, matchID int) (*models.Match, error)
	RecordResult(ctx context.Context, matchID int, homeScore, awayScore int) (*models.Result, error)
	FindConflicts(ctx context.Context, startsAt, endsAt time.Time, venueID, excludeMatchID *int) ([]scheduling.Conflict, error)
	SuggestAlternatives(ctx context.Context, venueID int, preferredStart time.Time, duration time.Duration, max int) ([]scheduling.TimeRange, error)
}

type matchService struct {
	db          *sql.DB
	matchRepo   repositories.MatchRepository
	fixtureRepo repositories.FixtureRepository
	resultRepo  repositories.ResultRepository
	detector    *scheduling.Detector
	rescheduler *scheduling.Rescheduler
	standings   StandingsService
	hub         Broadcaster
	logger      *slog.Logger
}

func NewMatchService(
	db *sql.DB,
	matchRepo repositories.MatchRepository,
	fixtureRepo repositories.FixtureRepository,
	resultRepo repositories.ResultRepository,
	detector *scheduling.Detector,
	standings StandingsService,
	hub Broadcaster,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		db:          db,
		matchRepo:   matchRepo,
		fixtureRepo: fixtureRepo,
		resultRepo:  resultRepo,
		detector:    detector,
		rescheduler: scheduling.NewRescheduler(detector),
		standings:   standings,
		hub:         hub,
		logger:      logger,
	}
}

func (s *matchService) GetMatch(ctx context.Context, id int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return match, nil
}

func (s *matchService) ListByFixture(ctx context.Context, fixtureID int, round *int, status *models.MatchStatus) ([]*models.Match, error) {
	matches, err := s.matchRepo.ListByFixture(ctx, fixtureID, round, status)
	if err != nil {
		return nil, fmt.Errorf("list matches for fixture %d: %w", fixtureID, err)
	}
	return matches, nil
}

// Reschedule moves one match to a new start (and optionally venue) after
// re-running conflict detection with the match excluded from its own scan.
// Read, validate, and write share a transaction with an advisory lock on the
// match, so two concurrent moves of the same match cannot race each other.
// On conflict the stored match is untouched and the caller receives the full
// conflict list.
func (s *matchService) Reschedule(ctx context.Context, matchID int, newStart time.Time, newVenueID *int) (*models.Match, error) {
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

	if _, txErr = tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(matchID)); txErr != nil {
		return nil, fmt.Errorf("acquire match lock: %w", txErr)
	}

	var match *models.Match
	match, txErr = s.matchRepo.GetByID(ctx, matchID)
	if txErr != nil {
		if errors.Is(txErr, repositories.ErrMatchNotFound) {
			txErr = ErrMatchNotFound
		}
		return nil, txErr
	}

	var updated *models.Match
	updated, txErr = s.rescheduler.Reschedule(ctx, match, newStart, newVenueID)
	if txErr != nil {
		return nil, txErr
	}

	if txErr = s.matchRepo.UpdateSchedule(ctx, tx, updated); txErr != nil {
		return nil, fmt.Errorf("persist reschedule of match %d: %w", matchID, txErr)
	}

	if txErr = tx.Commit(); txErr != nil {
		return nil, fmt.Errorf("commit reschedule: %w", txErr)
	}

	s.logger.Info("match rescheduled",
		slog.Int("match_id", matchID),
		slog.Time("starts_at", updated.StartsAt))

	if s.hub != nil {
		s.hub.BroadcastToFixture(updated.FixtureID, realtime.NewEvent(realtime.EventMatchRescheduled, updated.FixtureID, updated))
	}

	return updated, nil
}

// SwapSides exchanges home and away. Both sides must already be resolved
// participants; unresolved knockout placeholders cannot be swapped.
func (s *matchService) SwapSides(ctx context.Context, matchID int) (*models.Match, error) {
	match, err := s.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}

	updated, err := scheduling.SwapEntries(match)
	if err != nil {
		return nil, err
	}

	if err := s.matchRepo.UpdateSides(ctx, nil, updated); err != nil {
		return nil, fmt.Errorf("persist side swap of match %d: %w", matchID, err)
	}

	return updated, nil
}

// RecordResult finalizes a score: the result row, the match status/winner,
// and any knockout placeholder bindings land in one transaction, then the
// standings are recomputed and broadcast. Order is deliberate: persist,
// recompute, notify.
func (s *matchService) RecordResult(ctx context.Context, matchID int, homeScore, awayScore int) (*models.Result, error) {
	if homeScore < 0 || awayScore < 0 {
		return nil, ErrResultScoresInvalid
	}

	match, err := s.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	switch match.Status {
	case models.MatchStatusCompleted:
		return nil, fmt.Errorf("match %d: %w", matchID, ErrMatchAlreadyCompleted)
	case models.MatchStatusCancelled:
		return nil, fmt.Errorf("match %d: %w", matchID, ErrMatchCancelled)
	}
	if !match.Home.Resolved() || !match.Away.Resolved() {
		return nil, fmt.Errorf("match %d: %w", matchID, scheduling.ErrUnresolvedEntry)
	}

	fixture, err := s.fixtureRepo.GetByID(ctx, match.FixtureID)
	if err != nil {
		if errors.Is(err, repositories.ErrFixtureNotFound) {
			return nil, ErrFixtureNotFound
		}
		return nil, err
	}

	var winnerID *int
	switch {
	case homeScore > awayScore:
		winnerID = match.Home.ParticipantID
	case awayScore > homeScore:
		winnerID = match.Away.ParticipantID
	default:
		if fixture.Type == models.FixtureKnockout {
			return nil, fmt.Errorf("match %d: %w", matchID, ErrKnockoutDraw)
		}
	}

	result := &models.Result{
		FixtureID:         match.FixtureID,
		MatchID:           match.ID,
		HomeParticipantID: *match.Home.ParticipantID,
		AwayParticipantID: *match.Away.ParticipantID,
		HomeScore:         homeScore,
		AwayScore:         awayScore,
		Finalized:         true,
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

	if txErr = s.resultRepo.Create(ctx, tx, result); txErr != nil {
		return nil, fmt.Errorf("persist result for match %d: %w", matchID, txErr)
	}
	if txErr = s.matchRepo.UpdateStatusWinner(ctx, tx, matchID, models.MatchStatusCompleted, winnerID); txErr != nil {
		return nil, fmt.Errorf("finalize match %d: %w", matchID, txErr)
	}
	if winnerID != nil {
		// Knockout progression: bind this winner into any match that was
		// waiting on it. No-op for round-robin fixtures.
		if txErr = s.matchRepo.BindSourceWinner(ctx, tx, match.FixtureID, match.UID, *winnerID); txErr != nil {
			return nil, fmt.Errorf("advance winner of match %d: %w", matchID, txErr)
		}
	}

	if txErr = tx.Commit(); txErr != nil {
		return nil, fmt.Errorf("commit result: %w", txErr)
	}

	if s.standings != nil {
		if _, err := s.standings.Recompute(ctx, match.FixtureID); err != nil {
			// Standings are a derived view; a failed recompute does not undo
			// the persisted result.
			s.logger.Error("standings recompute failed after result",
				slog.Int("fixture_id", match.FixtureID), slog.Any("error", err))
		}
	}

	return result, nil
}

func (s *matchService) FindConflicts(ctx context.Context, startsAt, endsAt time.Time, venueID, excludeMatchID *int) ([]scheduling.Conflict, error) {
	return s.detector.FindConflicts(ctx, startsAt, endsAt, venueID, excludeMatchID)
}

func (s *matchService) SuggestAlternatives(ctx context.Context, venueID int, preferredStart time.Time, duration time.Duration, max int) ([]scheduling.TimeRange, error) {
	return s.detector.SuggestAlternatives(ctx, venueID, preferredStart, duration, max)
}
