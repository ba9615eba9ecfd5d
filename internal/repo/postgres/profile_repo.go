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

var ErrProfileNotFound = errors.New("profile not found")

type ProfileRepo struct {
	pool *pgxpool.Pool
}

func NewProfileRepo(pool *pgxpool.Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

// ProfileSummary is the display projection embedded in history, match
// and feed results. It never carries credentials or coordinates, only a
// location-presence flag.
type ProfileSummary struct {
	UserID      string
	DisplayName string
	Age         int
	Bio         string
	City        string
	Interests   []string
	HasLocation bool
}

func (r *ProfileRepo) UpsertCore(ctx context.Context, userID, displayName string, birthdate time.Time, bio string, interests []string) error {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(displayName) == "" {
		return fmt.Errorf("invalid profile payload")
	}
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if interests == nil {
		interests = []string{}
	}

	if _, err := r.pool.Exec(ctx, `
INSERT INTO profiles (
	user_id,
	display_name,
	birthdate,
	bio,
	interests,
	updated_at
) VALUES ($1, $2, $3, $4, $5, NOW())
ON CONFLICT (user_id) DO UPDATE SET
	display_name = EXCLUDED.display_name,
	birthdate = EXCLUDED.birthdate,
	bio = EXCLUDED.bio,
	interests = EXCLUDED.interests,
	updated_at = NOW()
`, userID, displayName, birthdate, bio, interests); err != nil {
		return fmt.Errorf("upsert profile core: %w", err)
	}

	return nil
}

func (r *ProfileRepo) SaveLocation(ctx context.Context, userID, city string, lat, lon float64, at time.Time) error {
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("invalid location payload")
	}
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if at.IsZero() {
		at = time.Now().UTC()
	}

	if _, err := r.pool.Exec(ctx, `
INSERT INTO profiles (
	user_id,
	display_name,
	city,
	last_lat,
	last_lon,
	last_geo_at,
	updated_at
) VALUES ($1, '', $2, $3, $4, $5, NOW())
ON CONFLICT (user_id) DO UPDATE SET
	city = EXCLUDED.city,
	last_lat = EXCLUDED.last_lat,
	last_lon = EXCLUDED.last_lon,
	last_geo_at = EXCLUDED.last_geo_at,
	updated_at = NOW()
`, userID, city, lat, lon, at.UTC()); err != nil {
		return fmt.Errorf("save profile location: %w", err)
	}

	return nil
}

func (r *ProfileRepo) GetSummary(ctx context.Context, userID string) (ProfileSummary, error) {
	if strings.TrimSpace(userID) == "" {
		return ProfileSummary{}, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return ProfileSummary{}, ErrProfileNotFound
	}

	var summary ProfileSummary
	err := r.pool.QueryRow(ctx, `
SELECT
	user_id,
	COALESCE(display_name, ''),
	COALESCE(DATE_PART('year', AGE(NOW(), birthdate::timestamp))::int, 0),
	COALESCE(bio, ''),
	COALESCE(city, ''),
	COALESCE(interests, '{}'),
	(last_lat IS NOT NULL AND last_lon IS NOT NULL)
FROM profiles
WHERE user_id = $1
LIMIT 1
`, userID).Scan(
		&summary.UserID,
		&summary.DisplayName,
		&summary.Age,
		&summary.Bio,
		&summary.City,
		&summary.Interests,
		&summary.HasLocation,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ProfileSummary{}, ErrProfileNotFound
		}
		return ProfileSummary{}, fmt.Errorf("get profile summary: %w", err)
	}

	return summary, nil
}
