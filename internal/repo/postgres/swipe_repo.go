package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidurapriyadarshana/loca/internal/domain/enums"
)

var (
	// ErrDuplicateSwipe reports a violation of the one-decision-per-
	// ordered-pair unique index. Callers treat it as a conflict, not a
	// fault.
	ErrDuplicateSwipe = errors.New("swipe already recorded for this pair")
	// ErrTargetNotFound reports a target_id that does not reference an
	// existing user (foreign key violation).
	ErrTargetNotFound = errors.New("swipe target does not exist")
)

type SwipeRepo struct {
	pool *pgxpool.Pool
}

func NewSwipeRepo(pool *pgxpool.Pool) *SwipeRepo {
	return &SwipeRepo{pool: pool}
}

type SwipeRecord struct {
	ID        int64
	ActorID   string
	TargetID  string
	Direction enums.SwipeDirection
	CreatedAt time.Time
}

type SwipeHistoryRecord struct {
	SwipeRecord
	TargetSummary ProfileSummary
}

func (r *SwipeRepo) Create(ctx context.Context, actorID, targetID string, direction enums.SwipeDirection, now time.Time) (SwipeRecord, error) {
	if strings.TrimSpace(actorID) == "" || strings.TrimSpace(targetID) == "" || !direction.Valid() {
		return SwipeRecord{}, fmt.Errorf("invalid swipe payload")
	}
	if r.pool == nil {
		return SwipeRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	var rec SwipeRecord
	err := r.pool.QueryRow(ctx, `
INSERT INTO swipes (
	actor_id,
	target_id,
	direction,
	created_at
) VALUES ($1, $2, $3, $4)
RETURNING id, actor_id, target_id, direction, created_at
`, actorID, targetID, string(direction), now.UTC()).Scan(
		&rec.ID,
		&rec.ActorID,
		&rec.TargetID,
		&rec.Direction,
		&rec.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return SwipeRecord{}, ErrDuplicateSwipe
			case "23503":
				return SwipeRecord{}, ErrTargetNotFound
			}
		}
		return SwipeRecord{}, fmt.Errorf("create swipe: %w", err)
	}

	return rec, nil
}

// ReciprocalLikeExists reports whether targetID has already recorded a
// LIKE on actorID.
func (r *SwipeRepo) ReciprocalLikeExists(ctx context.Context, actorID, targetID string) (bool, error) {
	if strings.TrimSpace(actorID) == "" || strings.TrimSpace(targetID) == "" {
		return false, fmt.Errorf("invalid reciprocal lookup payload")
	}
	if r.pool == nil {
		return false, fmt.Errorf("postgres pool is nil")
	}

	var one int
	err := r.pool.QueryRow(ctx, `
SELECT 1
FROM swipes
WHERE actor_id = $1 AND target_id = $2 AND direction = 'LIKE'
LIMIT 1
`, targetID, actorID).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("lookup reciprocal like: %w", err)
	}

	return true, nil
}

// ListByActor returns the actor's swipes newest first, joined with the
// target's profile summary. An empty direction returns all swipes.
func (r *SwipeRepo) ListByActor(ctx context.Context, actorID string, direction enums.SwipeDirection, limit int) ([]SwipeHistoryRecord, error) {
	if strings.TrimSpace(actorID) == "" {
		return nil, fmt.Errorf("invalid actor id")
	}
	if direction != "" && !direction.Valid() {
		return nil, fmt.Errorf("invalid direction filter")
	}
	if limit <= 0 {
		limit = 100
	}
	if r.pool == nil {
		return []SwipeHistoryRecord{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT
	s.id,
	s.actor_id,
	s.target_id,
	s.direction,
	s.created_at,
	COALESCE(p.display_name, ''),
	COALESCE(DATE_PART('year', AGE(NOW(), p.birthdate::timestamp))::int, 0),
	COALESCE(p.bio, ''),
	COALESCE(p.city, ''),
	COALESCE(p.interests, '{}'),
	(p.last_lat IS NOT NULL AND p.last_lon IS NOT NULL)
FROM swipes s
LEFT JOIN profiles p ON p.user_id = s.target_id
WHERE
	s.actor_id = $1
	AND ($2 = '' OR s.direction = $2)
ORDER BY s.created_at DESC, s.id DESC
LIMIT $3
`, actorID, string(direction), limit)
	if err != nil {
		return nil, fmt.Errorf("list swipe history: %w", err)
	}
	defer rows.Close()

	items := make([]SwipeHistoryRecord, 0, limit)
	for rows.Next() {
		var (
			item        SwipeHistoryRecord
			hasLocation *bool
		)
		if err := rows.Scan(
			&item.ID,
			&item.ActorID,
			&item.TargetID,
			&item.Direction,
			&item.CreatedAt,
			&item.TargetSummary.DisplayName,
			&item.TargetSummary.Age,
			&item.TargetSummary.Bio,
			&item.TargetSummary.City,
			&item.TargetSummary.Interests,
			&hasLocation,
		); err != nil {
			return nil, fmt.Errorf("scan swipe history row: %w", err)
		}
		item.TargetSummary.UserID = item.TargetID
		if hasLocation != nil {
			item.TargetSummary.HasLocation = *hasLocation
		}
		items = append(items, item)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate swipe history: %w", rows.Err())
	}

	return items, nil
}
