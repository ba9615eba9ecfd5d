package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrViewerNotFound = errors.New("viewer profile not found")

type FeedRepo struct {
	pool *pgxpool.Pool
}

func NewFeedRepo(pool *pgxpool.Pool) *FeedRepo {
	return &FeedRepo{pool: pool}
}

type CandidateRecord struct {
	ProfileSummary
	DistanceKM *float64
}

type viewerPosition struct {
	Lat *float64
	Lon *float64
}

// ListCandidates returns profiles the viewer has not swiped on yet,
// closest first when the viewer has a stored position, most recently
// updated first otherwise. Distance ranking is delegated to the database.
func (r *FeedRepo) ListCandidates(ctx context.Context, viewerID string, limit int) ([]CandidateRecord, error) {
	if strings.TrimSpace(viewerID) == "" {
		return nil, fmt.Errorf("invalid viewer id")
	}
	if limit <= 0 {
		limit = 50
	}
	if r.pool == nil {
		return []CandidateRecord{}, nil
	}

	var pos viewerPosition
	err := r.pool.QueryRow(ctx, `
SELECT last_lat, last_lon
FROM profiles
WHERE user_id = $1
LIMIT 1
`, viewerID).Scan(&pos.Lat, &pos.Lon)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrViewerNotFound
		}
		return nil, fmt.Errorf("load viewer position: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
SELECT
	p.user_id,
	COALESCE(p.display_name, ''),
	COALESCE(DATE_PART('year', AGE(NOW(), p.birthdate::timestamp))::int, 0),
	COALESCE(p.bio, ''),
	COALESCE(p.city, ''),
	COALESCE(p.interests, '{}'),
	(p.last_lat IS NOT NULL AND p.last_lon IS NOT NULL),
	CASE
		WHEN $2::float8 IS NOT NULL AND $3::float8 IS NOT NULL
			AND p.last_lat IS NOT NULL AND p.last_lon IS NOT NULL
		THEN 6371 * acos(LEAST(1.0,
			cos(radians($2::float8)) * cos(radians(p.last_lat))
			* cos(radians(p.last_lon) - radians($3::float8))
			+ sin(radians($2::float8)) * sin(radians(p.last_lat))
		))
		ELSE NULL
	END AS distance_km
FROM profiles p
WHERE
	p.user_id <> $1
	AND p.display_name <> ''
	AND NOT EXISTS (
		SELECT 1
		FROM swipes s
		WHERE s.actor_id = $1 AND s.target_id = p.user_id
	)
ORDER BY distance_km ASC NULLS LAST, p.updated_at DESC
LIMIT $4
`, viewerID, pos.Lat, pos.Lon, limit)
	if err != nil {
		return nil, fmt.Errorf("list feed candidates: %w", err)
	}
	defer rows.Close()

	items := make([]CandidateRecord, 0, limit)
	for rows.Next() {
		var item CandidateRecord
		if err := rows.Scan(
			&item.UserID,
			&item.DisplayName,
			&item.Age,
			&item.Bio,
			&item.City,
			&item.Interests,
			&item.HasLocation,
			&item.DistanceKM,
		); err != nil {
			return nil, fmt.Errorf("scan feed candidate: %w", err)
		}
		items = append(items, item)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate feed candidates: %w", rows.Err())
	}

	return items, nil
}
