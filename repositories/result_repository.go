package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/pitchside/fixture-engine/models"
)

var (
	ErrResultNotFound     = errors.New("result not found")
	ErrResultMatchInvalid = errors.New("result match conflict or invalid")
)

type ResultRepository interface {
	Create(ctx context.Context, exec SQLExecutor, result *models.Result) error
	ListFinalized(ctx context.Context, fixtureID int) ([]*models.Result, error)
}

type postgresResultRepository struct {
	db *sql.DB
}

func NewPostgresResultRepository(db *sql.DB) ResultRepository {
	return &postgresResultRepository{db: db}
}

func (r *postgresResultRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresResultRepository) Create(ctx context.Context, exec SQLExecutor, result *models.Result) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO results
			(fixture_id, match_id, home_participant_id, away_participant_id,
			 home_score, away_score, finalized)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, recorded_at`

	err := executor.QueryRowContext(ctx, query,
		result.FixtureID, result.MatchID,
		result.HomeParticipantID, result.AwayParticipantID,
		result.HomeScore, result.AwayScore, result.Finalized,
	).Scan(&result.ID, &result.RecordedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
		return ErrResultMatchInvalid
	}
	return err
}

// ListFinalized returns only finalized results: the standings aggregator
// never sees provisional scores.
func (r *postgresResultRepository) ListFinalized(ctx context.Context, fixtureID int) ([]*models.Result, error) {
	query := `
		SELECT id, fixture_id, match_id, home_participant_id, away_participant_id,
		       home_score, away_score, finalized, recorded_at
		FROM results
		WHERE fixture_id = $1 AND finalized = TRUE
		ORDER BY recorded_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, fixtureID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]*models.Result, 0)
	for rows.Next() {
		res := &models.Result{}
		if scanErr := rows.Scan(
			&res.ID, &res.FixtureID, &res.MatchID,
			&res.HomeParticipantID, &res.AwayParticipantID,
			&res.HomeScore, &res.AwayScore, &res.Finalized, &res.RecordedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		results = append(results, res)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}
