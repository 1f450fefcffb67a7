package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"github.com/pitchside/fixture-engine/models"
)

var (
	ErrFixtureNotFound     = errors.New("fixture not found")
	ErrFixtureNameConflict = errors.New("fixture name already exists")
)

type FixtureRepository interface {
	Create(ctx context.Context, exec SQLExecutor, fixture *models.Fixture) error
	GetByID(ctx context.Context, id int) (*models.Fixture, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.FixtureStatus) error
}

type postgresFixtureRepository struct {
	db *sql.DB
}

func NewPostgresFixtureRepository(db *sql.DB) FixtureRepository {
	return &postgresFixtureRepository{db: db}
}

func (r *postgresFixtureRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

// Durations are stored as whole seconds; venue rotation order is the array
// order of venue_ids.
func (r *postgresFixtureRepository) Create(ctx context.Context, exec SQLExecutor, fixture *models.Fixture) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO fixtures
			(name, type, status, rounds, match_duration_seconds, break_between_seconds,
			 venue_ids, earliest_start, latest_end, max_matches_per_venue_per_day)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		fixture.Name, fixture.Type, fixture.Status, fixture.Rounds,
		int64(fixture.MatchDuration.Seconds()), int64(fixture.BreakBetween.Seconds()),
		pq.Array(fixture.VenueIDs), fixture.EarliestStart, fixture.LatestEnd,
		fixture.MaxMatchesPerVenue,
	).Scan(&fixture.ID, &fixture.CreatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
		return ErrFixtureNameConflict
	}
	return err
}

func (r *postgresFixtureRepository) GetByID(ctx context.Context, id int) (*models.Fixture, error) {
	query := `
		SELECT id, name, type, status, rounds, match_duration_seconds, break_between_seconds,
		       venue_ids, earliest_start, latest_end, max_matches_per_venue_per_day, created_at
		FROM fixtures
		WHERE id = $1`

	f := &models.Fixture{}
	var durationSeconds, breakSeconds int64
	var venueIDs pq.Int64Array

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&f.ID, &f.Name, &f.Type, &f.Status, &f.Rounds,
		&durationSeconds, &breakSeconds,
		&venueIDs, &f.EarliestStart, &f.LatestEnd, &f.MaxMatchesPerVenue, &f.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFixtureNotFound
		}
		return nil, err
	}

	f.MatchDuration = time.Duration(durationSeconds) * time.Second
	f.BreakBetween = time.Duration(breakSeconds) * time.Second
	f.VenueIDs = make([]int, 0, len(venueIDs))
	for _, v := range venueIDs {
		f.VenueIDs = append(f.VenueIDs, int(v))
	}

	return f, nil
}

func (r *postgresFixtureRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.FixtureStatus) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `UPDATE fixtures SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrFixtureNotFound)
}
