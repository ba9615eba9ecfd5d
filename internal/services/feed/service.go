package feed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	pgrepo "github.com/vidurapriyadarshana/loca/internal/repo/postgres"
)

const maxFeedLimit = 100

var (
	ErrValidation     = errors.New("validation error")
	ErrViewerNotFound = errors.New("viewer profile not found")
)

type FeedStore interface {
	ListCandidates(ctx context.Context, viewerID string, limit int) ([]pgrepo.CandidateRecord, error)
}

type Service struct {
	store FeedStore
}

func NewService(store FeedStore) *Service {
	return &Service{store: store}
}

// Candidates returns profiles the viewer has not decided on yet, closest
// first when the viewer has shared a location.
func (s *Service) Candidates(ctx context.Context, viewerID string, limit int) ([]pgrepo.CandidateRecord, error) {
	if strings.TrimSpace(viewerID) == "" {
		return nil, ErrValidation
	}
	if limit <= 0 || limit > maxFeedLimit {
		limit = maxFeedLimit
	}
	if s.store == nil {
		return nil, fmt.Errorf("feed store is nil")
	}

	items, err := s.store.ListCandidates(ctx, viewerID, limit)
	if err != nil {
		if errors.Is(err, pgrepo.ErrViewerNotFound) {
			return nil, ErrViewerNotFound
		}
		return nil, err
	}
	return items, nil
}
