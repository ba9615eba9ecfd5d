package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	pgrepo "github.com/vidurapriyadarshana/loca/internal/repo/postgres"
)

const minAgeYears = 18

var (
	ErrValidation  = errors.New("validation error")
	ErrAgeRejected = errors.New("age rejected")
	ErrNotFound    = errors.New("profile not found")
)

type ProfileStore interface {
	UpsertCore(ctx context.Context, userID, displayName string, birthdate time.Time, bio string, interests []string) error
	SaveLocation(ctx context.Context, userID, city string, lat, lon float64, at time.Time) error
	GetSummary(ctx context.Context, userID string) (pgrepo.ProfileSummary, error)
}

type CoreInput struct {
	DisplayName string
	Birthdate   time.Time
	Bio         string
	Interests   []string
}

type LocationInput struct {
	City string
	Lat  float64
	Lon  float64
}

type Service struct {
	store ProfileStore
	now   func() time.Time
}

func NewService(store ProfileStore) *Service {
	return &Service{
		store: store,
		now:   time.Now,
	}
}

func (s *Service) SaveCore(ctx context.Context, userID string, input CoreInput) error {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(input.DisplayName) == "" {
		return ErrValidation
	}
	if input.Birthdate.IsZero() {
		return ErrValidation
	}
	if s.store == nil {
		return fmt.Errorf("profile store is nil")
	}

	if ageAt(input.Birthdate, s.now().UTC()) < minAgeYears {
		return ErrAgeRejected
	}

	return s.store.UpsertCore(ctx, userID, strings.TrimSpace(input.DisplayName), input.Birthdate, strings.TrimSpace(input.Bio), input.Interests)
}

func (s *Service) SaveLocation(ctx context.Context, userID string, input LocationInput) error {
	if strings.TrimSpace(userID) == "" {
		return ErrValidation
	}
	if input.Lat < -90 || input.Lat > 90 || input.Lon < -180 || input.Lon > 180 {
		return ErrValidation
	}
	if s.store == nil {
		return fmt.Errorf("profile store is nil")
	}

	return s.store.SaveLocation(ctx, userID, strings.TrimSpace(input.City), input.Lat, input.Lon, s.now().UTC())
}

// Summary resolves the display projection other surfaces embed. It is a
// pure lookup with no side effects.
func (s *Service) Summary(ctx context.Context, userID string) (pgrepo.ProfileSummary, error) {
	if strings.TrimSpace(userID) == "" {
		return pgrepo.ProfileSummary{}, ErrValidation
	}
	if s.store == nil {
		return pgrepo.ProfileSummary{}, fmt.Errorf("profile store is nil")
	}

	summary, err := s.store.GetSummary(ctx, userID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrProfileNotFound) {
			return pgrepo.ProfileSummary{}, ErrNotFound
		}
		return pgrepo.ProfileSummary{}, err
	}
	return summary, nil
}

func ageAt(birthdate, now time.Time) int {
	years := now.Year() - birthdate.Year()
	anniversary := birthdate.AddDate(years, 0, 0)
	if anniversary.After(now) {
		years--
	}
	return years
}
