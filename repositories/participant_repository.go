package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/pitchside/fixture-engine/models"
)

var ErrParticipantNotFound = errors.New("participant registration not found")

type ParticipantRepository interface {
	ListByFixture(ctx context.Context, fixtureID int, status *models.ParticipantStatus) ([]*models.Participant, error)
	GetByID(ctx context.Context, id int) (*models.Participant, error)
}

type postgresParticipantRepository struct {
	db *sql.DB
}

func NewPostgresParticipantRepository(db *sql.DB) ParticipantRepository {
	return &postgresParticipantRepository{db: db}
}

// ListByFixture returns registrations in seeding order (creation order, then
// ID). Generators rely on this ordering being stable.
func (r *postgresParticipantRepository) ListByFixture(ctx context.Context, fixtureID int, status *models.ParticipantStatus) ([]*models.Participant, error) {
	query := `
		SELECT id, fixture_id, kind, team_id, user_id, status, created_at
		FROM participants
		WHERE fixture_id = $1`
	args := []interface{}{fixtureID}

	if status != nil {
		query += ` AND status = $2`
		args = append(args, *status)
	}
	query += ` ORDER BY created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	participants := make([]*models.Participant, 0)
	for rows.Next() {
		p := &models.Participant{}
		if scanErr := rows.Scan(&p.ID, &p.FixtureID, &p.Kind, &p.TeamID, &p.UserID, &p.Status, &p.CreatedAt); scanErr != nil {
			return nil, scanErr
		}
		participants = append(participants, p)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return participants, nil
}

func (r *postgresParticipantRepository) GetByID(ctx context.Context, id int) (*models.Participant, error) {
	query := `
		SELECT id, fixture_id, kind, team_id, user_id, status, created_at
		FROM participants
		WHERE id = $1`

	p := &models.Participant{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.FixtureID, &p.Kind, &p.TeamID, &p.UserID, &p.Status, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrParticipantNotFound
		}
		return nil, err
	}
	return p, nil
}
