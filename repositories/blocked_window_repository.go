package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/pitchside/fixture-engine/models"
)

// BlockedWindowRepository reads venue blackout windows. The engine never
// writes these; they are maintained by whoever administers the venues.
type BlockedWindowRepository interface {
	ListBlocked(ctx context.Context, venueID int, from, to time.Time) ([]*models.BlockedWindow, error)
}

type postgresBlockedWindowRepository struct {
	db *sql.DB
}

func NewPostgresBlockedWindowRepository(db *sql.DB) BlockedWindowRepository {
	return &postgresBlockedWindowRepository{db: db}
}

func (r *postgresBlockedWindowRepository) ListBlocked(ctx context.Context, venueID int, from, to time.Time) ([]*models.BlockedWindow, error) {
	query := `
		SELECT id, venue_id, starts_at, ends_at, reason
		FROM venue_blocked_windows
		WHERE venue_id = $1 AND starts_at < $2 AND ends_at > $3
		ORDER BY starts_at ASC`

	rows, err := r.db.QueryContext(ctx, query, venueID, to, from)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	windows := make([]*models.BlockedWindow, 0)
	for rows.Next() {
		w := &models.BlockedWindow{}
		if scanErr := rows.Scan(&w.ID, &w.VenueID, &w.StartsAt, &w.EndsAt, &w.Reason); scanErr != nil {
			return nil, scanErr
		}
		windows = append(windows, w)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return windows, nil
}
