package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/pitchside/fixture-engine/models"
)

var (
	ErrMatchNotFound       = errors.New("match not found")
	ErrMatchFixtureInvalid = errors.New("match fixture conflict or invalid")
	ErrMatchVenueInvalid   = errors.New("match venue conflict or invalid")
	ErrMatchUIDConflict    = errors.New("match uid already exists in fixture")
)

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	CreateBatch(ctx context.Context, exec SQLExecutor, matches []*models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	ListByFixture(ctx context.Context, fixtureID int, round *int, status *models.MatchStatus) ([]*models.Match, error)
	ListOverlapping(ctx context.Context, venueID *int, from, to time.Time) ([]*models.Match, error)
	UpdateSchedule(ctx context.Context, exec SQLExecutor, match *models.Match) error
	UpdateSides(ctx context.Context, exec SQLExecutor, match *models.Match) error
	UpdateStatusWinner(ctx context.Context, exec SQLExecutor, id int, status models.MatchStatus, winnerID *int) error
	BindSourceWinner(ctx context.Context, exec SQLExecutor, fixtureID int, sourceUID string, participantID int) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const matchColumns = `
	id, fixture_id, uid, round, sequence,
	home_participant_id, home_source_uid, away_participant_id, away_source_uid,
	starts_at, ends_at, venue_id, status, original_starts_at, winner_id, created_at`

func scanMatch(scanner interface{ Scan(...interface{}) error }) (*models.Match, error) {
	m := &models.Match{}
	err := scanner.Scan(
		&m.ID, &m.FixtureID, &m.UID, &m.Round, &m.Sequence,
		&m.Home.ParticipantID, &m.Home.SourcePairingUID,
		&m.Away.ParticipantID, &m.Away.SourcePairingUID,
		&m.StartsAt, &m.EndsAt, &m.VenueID, &m.Status,
		&m.OriginalStartsAt, &m.WinnerID, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO matches
			(fixture_id, uid, round, sequence,
			 home_participant_id, home_source_uid, away_participant_id, away_source_uid,
			 starts_at, ends_at, venue_id, status, original_starts_at, winner_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		match.FixtureID, match.UID, match.Round, match.Sequence,
		match.Home.ParticipantID, match.Home.SourcePairingUID,
		match.Away.ParticipantID, match.Away.SourcePairingUID,
		match.StartsAt, match.EndsAt, match.VenueID, match.Status,
		match.OriginalStartsAt, match.WinnerID,
	).Scan(&match.ID, &match.CreatedAt)

	return r.handleMatchError(err)
}

// CreateBatch persists a whole generated batch. Callers are expected to pass
// a transaction executor so the batch lands atomically after validation.
func (r *postgresMatchRepository) CreateBatch(ctx context.Context, exec SQLExecutor, matches []*models.Match) error {
	for _, m := range matches {
		if err := r.Create(ctx, exec, m); err != nil {
			return err
		}
	}
	return nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `SELECT` + matchColumns + ` FROM matches WHERE id = $1`

	match, err := scanMatch(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return match, nil
}

func (r *postgresMatchRepository) ListByFixture(ctx context.Context, fixtureID int, roundFilter *int, statusFilter *models.MatchStatus) ([]*models.Match, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT` + matchColumns + ` FROM matches WHERE fixture_id = $1`)

	args := []interface{}{fixtureID}
	placeholderIndex := 2

	if roundFilter != nil {
		queryBuilder.WriteString(" AND round = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *roundFilter)
		placeholderIndex++
	}

	if statusFilter != nil {
		queryBuilder.WriteString(" AND status = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *statusFilter)
		placeholderIndex++
	}

	queryBuilder.WriteString(" ORDER BY round ASC, sequence ASC")

	return r.queryMatches(ctx, queryBuilder.String(), args...)
}

// ListOverlapping returns non-cancelled matches whose window intersects
// [from, to), half-open on both sides, optionally limited to one venue.
// This is the scan surface the conflict detector runs on.
func (r *postgresMatchRepository) ListOverlapping(ctx context.Context, venueID *int, from, to time.Time) ([]*models.Match, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT` + matchColumns + ` FROM matches
		WHERE starts_at < $1 AND ends_at > $2 AND status <> $3`)

	args := []interface{}{to, from, models.MatchStatusCancelled}

	if venueID != nil {
		queryBuilder.WriteString(" AND venue_id = $4")
		args = append(args, *venueID)
	}

	queryBuilder.WriteString(" ORDER BY starts_at ASC, id ASC")

	return r.queryMatches(ctx, queryBuilder.String(), args...)
}

func (r *postgresMatchRepository) queryMatches(ctx context.Context, query string, args ...interface{}) ([]*models.Match, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		match, scanErr := scanMatch(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		matches = append(matches, match)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return matches, nil
}

func (r *postgresMatchRepository) UpdateSchedule(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE matches
		SET starts_at = $1, ends_at = $2, venue_id = $3, original_starts_at = $4, status = $5
		WHERE id = $6`

	result, err := executor.ExecContext(ctx, query,
		match.StartsAt, match.EndsAt, match.VenueID, match.OriginalStartsAt, match.Status, match.ID)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateSides(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE matches
		SET home_participant_id = $1, home_source_uid = $2,
		    away_participant_id = $3, away_source_uid = $4
		WHERE id = $5`

	result, err := executor.ExecContext(ctx, query,
		match.Home.ParticipantID, match.Home.SourcePairingUID,
		match.Away.ParticipantID, match.Away.SourcePairingUID,
		match.ID)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateStatusWinner(ctx context.Context, exec SQLExecutor, id int, status models.MatchStatus, winnerID *int) error {
	executor := r.getExecutor(exec)
	query := `UPDATE matches SET status = $1, winner_id = $2 WHERE id = $3`

	result, err := executor.ExecContext(ctx, query, status, winnerID, id)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

// BindSourceWinner resolves knockout placeholder sides: every match in the
// fixture whose home or away side references sourceUID gets the winner's
// participant ID bound in, clearing the placeholder.
func (r *postgresMatchRepository) BindSourceWinner(ctx context.Context, exec SQLExecutor, fixtureID int, sourceUID string, participantID int) error {
	executor := r.getExecutor(exec)

	homeQuery := `
		UPDATE matches
		SET home_participant_id = $1, home_source_uid = NULL
		WHERE fixture_id = $2 AND home_source_uid = $3`
	if _, err := executor.ExecContext(ctx, homeQuery, participantID, fixtureID, sourceUID); err != nil {
		return r.handleMatchError(err)
	}

	awayQuery := `
		UPDATE matches
		SET away_participant_id = $1, away_source_uid = NULL
		WHERE fixture_id = $2 AND away_source_uid = $3`
	if _, err := executor.ExecContext(ctx, awayQuery, participantID, fixtureID, sourceUID); err != nil {
		return r.handleMatchError(err)
	}

	return nil
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Name() {
		case "unique_violation":
			if strings.Contains(pqErr.Constraint, "uid") {
				return ErrMatchUIDConflict
			}
		case "foreign_key_violation":
			if strings.Contains(pqErr.Constraint, "fixture") {
				return ErrMatchFixtureInvalid
			}
			if strings.Contains(pqErr.Constraint, "venue") {
				return ErrMatchVenueInvalid
			}
		}
	}

	return err
}
