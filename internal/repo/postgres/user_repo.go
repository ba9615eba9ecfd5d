package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

type UserRecord struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

func (r *UserRepo) Create(ctx context.Context, email, passwordHash string) (UserRecord, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || passwordHash == "" {
		return UserRecord{}, fmt.Errorf("invalid user payload")
	}
	if r.pool == nil {
		return UserRecord{}, fmt.Errorf("postgres pool is nil")
	}

	var rec UserRecord
	err := r.pool.QueryRow(ctx, `
INSERT INTO users (
	id,
	email,
	password_hash,
	created_at
) VALUES ($1, $2, $3, NOW())
RETURNING id, email, password_hash, created_at
`, uuid.NewString(), email, passwordHash).Scan(
		&rec.ID,
		&rec.Email,
		&rec.PasswordHash,
		&rec.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return UserRecord{}, ErrEmailTaken
		}
		return UserRecord{}, fmt.Errorf("create user: %w", err)
	}

	return rec, nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (UserRecord, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return UserRecord{}, fmt.Errorf("invalid email")
	}
	if r.pool == nil {
		return UserRecord{}, ErrUserNotFound
	}

	var rec UserRecord
	err := r.pool.QueryRow(ctx, `
SELECT id, email, password_hash, created_at
FROM users
WHERE email = $1
`, email).Scan(&rec.ID, &rec.Email, &rec.PasswordHash, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return UserRecord{}, ErrUserNotFound
		}
		return UserRecord{}, fmt.Errorf("find user by email: %w", err)
	}

	return rec, nil
}
