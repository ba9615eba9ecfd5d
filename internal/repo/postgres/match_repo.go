package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MatchRepo struct {
	pool *pgxpool.Pool
}

func NewMatchRepo(pool *pgxpool.Pool) *MatchRepo {
	return &MatchRepo{pool: pool}
}

type MatchRecord struct {
	ID         int64
	LowUserID  string
	HighUserID string
	Active     bool
	CreatedAt  time.Time
}

type ActiveMatchRecord struct {
	ID          int64
	Counterpart ProfileSummary
	CreatedAt   time.Time
}

// CreatePair inserts an active match for a canonically ordered pair.
// A pair-uniqueness conflict is absorbed: the second boolean is false and
// no error is returned, since a concurrent materialization already won.
func (r *MatchRepo) CreatePair(ctx context.Context, lowUserID, highUserID string, now time.Time) (MatchRecord, bool, error) {
	if strings.TrimSpace(lowUserID) == "" || strings.TrimSpace(highUserID) == "" {
		return MatchRecord{}, false, fmt.Errorf("invalid match payload")
	}
	if lowUserID >= highUserID {
		return MatchRecord{}, false, fmt.Errorf("match pair is not in canonical order")
	}
	if r.pool == nil {
		return MatchRecord{}, false, fmt.Errorf("postgres pool is nil")
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	var rec MatchRecord
	err := r.pool.QueryRow(ctx, `
INSERT INTO matches (
	low_user_id,
	high_user_id,
	active,
	created_at
) VALUES ($1, $2, TRUE, $3)
ON CONFLICT (low_user_id, high_user_id) DO NOTHING
RETURNING id, low_user_id, high_user_id, active, created_at
`, lowUserID, highUserID, now.UTC()).Scan(
		&rec.ID,
		&rec.LowUserID,
		&rec.HighUserID,
		&rec.Active,
		&rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return MatchRecord{}, false, nil
		}
		return MatchRecord{}, false, fmt.Errorf("create match: %w", err)
	}

	return rec, true, nil
}

// ListActiveForUser returns the user's active matches newest first.
// The counterpart is always the other party, whichever canonical slot
// the requesting user occupies.
func (r *MatchRepo) ListActiveForUser(ctx context.Context, userID string, limit int) ([]ActiveMatchRecord, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("invalid user id")
	}
	if limit <= 0 {
		limit = 100
	}
	if r.pool == nil {
		return []ActiveMatchRecord{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT
	m.id,
	CASE WHEN m.low_user_id = $1 THEN m.high_user_id ELSE m.low_user_id END AS counterpart_id,
	COALESCE(p.display_name, ''),
	COALESCE(DATE_PART('year', AGE(NOW(), p.birthdate::timestamp))::int, 0),
	COALESCE(p.bio, ''),
	COALESCE(p.city, ''),
	COALESCE(p.interests, '{}'),
	COALESCE(p.last_lat IS NOT NULL AND p.last_lon IS NOT NULL, FALSE),
	m.created_at
FROM matches m
LEFT JOIN profiles p ON p.user_id = CASE WHEN m.low_user_id = $1 THEN m.high_user_id ELSE m.low_user_id END
WHERE
	(m.low_user_id = $1 OR m.high_user_id = $1)
	AND m.active
ORDER BY m.created_at DESC, m.id DESC
LIMIT $2
`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list active matches: %w", err)
	}
	defer rows.Close()

	items := make([]ActiveMatchRecord, 0, limit)
	for rows.Next() {
		var item ActiveMatchRecord
		if err := rows.Scan(
			&item.ID,
			&item.Counterpart.UserID,
			&item.Counterpart.DisplayName,
			&item.Counterpart.Age,
			&item.Counterpart.Bio,
			&item.Counterpart.City,
			&item.Counterpart.Interests,
			&item.Counterpart.HasLocation,
			&item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan active match: %w", err)
		}
		items = append(items, item)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate active matches: %w", rows.Err())
	}

	return items, nil
}

// Deactivate marks the pair's match inactive. The row is kept: match
// history is never physically deleted.
func (r *MatchRepo) Deactivate(ctx context.Context, lowUserID, highUserID string) (bool, error) {
	if strings.TrimSpace(lowUserID) == "" || strings.TrimSpace(highUserID) == "" {
		return false, fmt.Errorf("invalid unmatch payload")
	}
	if r.pool == nil {
		return false, fmt.Errorf("postgres pool is nil")
	}

	result, err := r.pool.Exec(ctx, `
UPDATE matches
SET active = FALSE
WHERE low_user_id = $1 AND high_user_id = $2 AND active
`, lowUserID, highUserID)
	if err != nil {
		return false, fmt.Errorf("deactivate match: %w", err)
	}

	return result.RowsAffected() > 0, nil
}
