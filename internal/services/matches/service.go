package matches

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vidurapriyadarshana/loca/internal/domain/rules"
	pgrepo "github.com/vidurapriyadarshana/loca/internal/repo/postgres"
)

var ErrValidation = errors.New("validation error")

type MatchStore interface {
	ListActiveForUser(ctx context.Context, userID string, limit int) ([]pgrepo.ActiveMatchRecord, error)
	Deactivate(ctx context.Context, lowUserID, highUserID string) (bool, error)
}

type Service struct {
	matchStore MatchStore
}

type MatchItem struct {
	ID          int64
	MatchedAt   time.Time
	Counterpart pgrepo.ProfileSummary
}

func NewService(matchStore MatchStore) *Service {
	return &Service{matchStore: matchStore}
}

// List returns the user's active matches newest first. Each item carries
// the other party of the pair, never the requesting user.
func (s *Service) List(ctx context.Context, userID string, limit int) ([]MatchItem, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrValidation
	}
	if s.matchStore == nil {
		return nil, fmt.Errorf("match store is nil")
	}

	rows, err := s.matchStore.ListActiveForUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	items := make([]MatchItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, MatchItem{
			ID:          row.ID,
			MatchedAt:   row.CreatedAt,
			Counterpart: row.Counterpart,
		})
	}
	return items, nil
}

// Unmatch deactivates the match between the user and the target. The
// row survives with active=false; swipe history is untouched.
func (s *Service) Unmatch(ctx context.Context, userID, targetID string) (bool, error) {
	userID = strings.TrimSpace(userID)
	targetID = strings.TrimSpace(targetID)
	if userID == "" || targetID == "" || userID == targetID {
		return false, ErrValidation
	}
	if s.matchStore == nil {
		return false, fmt.Errorf("match store is nil")
	}

	low, high := rules.OrderPair(userID, targetID)
	return s.matchStore.Deactivate(ctx, low, high)
}
