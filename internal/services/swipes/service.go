package swipes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vidurapriyadarshana/loca/internal/domain/enums"
	"github.com/vidurapriyadarshana/loca/internal/domain/rules"
	pgrepo "github.com/vidurapriyadarshana/loca/internal/repo/postgres"
)

var ErrValidation = errors.New("validation error")

// Per-item failure reasons surfaced in batch results.
const (
	ReasonInvalidTarget    = "INVALID_TARGET"
	ReasonInvalidDirection = "INVALID_DIRECTION"
	ReasonSelfSwipe        = "SELF_SWIPE"
	ReasonDuplicateSwipe   = "DUPLICATE_SWIPE"
	ReasonTargetNotFound   = "TARGET_NOT_FOUND"
	ReasonInternal         = "INTERNAL"
)

// BatchFailedError is returned when every item of a batch failed.
// Partial success never produces it: callers get the per-item errors in
// the result instead.
type BatchFailedError struct {
	Items []ItemError
}

func (e BatchFailedError) Error() string {
	return fmt.Sprintf("no swipes were created, %d item(s) failed", len(e.Items))
}

func IsBatchFailed(err error) (*BatchFailedError, bool) {
	var bf BatchFailedError
	if errors.As(err, &bf) {
		return &bf, true
	}
	return nil, false
}

// TooFastError reports that the actor is submitting batches faster than
// the rate limit allows.
type TooFastError struct {
	RetryAfterSec int64
}

func (e TooFastError) Error() string {
	return "too many swipe batches"
}

func (e TooFastError) RetryAfter() int64 {
	if e.RetryAfterSec <= 0 {
		return 1
	}
	return e.RetryAfterSec
}

func IsTooFast(err error) (*TooFastError, bool) {
	var tf TooFastError
	if errors.As(err, &tf) {
		return &tf, true
	}
	return nil, false
}

type SwipeStore interface {
	Create(ctx context.Context, actorID, targetID string, direction enums.SwipeDirection, now time.Time) (pgrepo.SwipeRecord, error)
	ReciprocalLikeExists(ctx context.Context, actorID, targetID string) (bool, error)
	ListByActor(ctx context.Context, actorID string, direction enums.SwipeDirection, limit int) ([]pgrepo.SwipeHistoryRecord, error)
}

type MatchStore interface {
	CreatePair(ctx context.Context, lowUserID, highUserID string, now time.Time) (pgrepo.MatchRecord, bool, error)
}

type RateLimiter interface {
	AllowBatch(ctx context.Context, userID string) (int64, bool, error)
}

type BatchItem struct {
	TargetID  string
	Direction string
}

type ItemError struct {
	TargetID string
	Reason   string
}

type BatchResult struct {
	Created []pgrepo.SwipeRecord
	Matches []pgrepo.MatchRecord
	Errors  []ItemError
}

type Config struct {
	MaxBatchSize int
}

type Service struct {
	swipeStore  SwipeStore
	matchStore  MatchStore
	rateLimiter RateLimiter
	cfg         Config
	now         func() time.Time
}

type Dependencies struct {
	SwipeStore  SwipeStore
	MatchStore  MatchStore
	RateLimiter RateLimiter
}

func NewService(deps Dependencies, cfg Config) *Service {
	if cfg.MaxBatchSize <= 0 {
		cfg.MaxBatchSize = 100
	}

	return &Service{
		swipeStore:  deps.SwipeStore,
		matchStore:  deps.MatchStore,
		rateLimiter: deps.RateLimiter,
		cfg:         cfg,
		now:         time.Now,
	}
}

// SubmitBatch records the actor's swipe decisions one at a time, in
// submission order. Items are independent: a failed item is captured in
// the result and never aborts its siblings. Every accepted LIKE is
// immediately checked for reciprocity, and any match born from it is
// appended to the result. A batch where nothing was created and at least
// one item failed returns a BatchFailedError carrying all item errors.
func (s *Service) SubmitBatch(ctx context.Context, actorID string, items []BatchItem) (BatchResult, error) {
	actorID = strings.TrimSpace(actorID)
	if uuid.Validate(actorID) != nil {
		return BatchResult{}, ErrValidation
	}
	if len(items) == 0 || len(items) > s.cfg.MaxBatchSize {
		return BatchResult{}, ErrValidation
	}
	if s.swipeStore == nil || s.matchStore == nil {
		return BatchResult{}, fmt.Errorf("swipe dependencies are not configured")
	}

	if s.rateLimiter != nil {
		retryAfter, allowed, err := s.rateLimiter.AllowBatch(ctx, actorID)
		if err != nil {
			return BatchResult{}, fmt.Errorf("apply batch rate limiter: %w", err)
		}
		if !allowed {
			return BatchResult{}, TooFastError{RetryAfterSec: retryAfter}
		}
	}

	result := BatchResult{
		Created: make([]pgrepo.SwipeRecord, 0, len(items)),
		Matches: []pgrepo.MatchRecord{},
		Errors:  []ItemError{},
	}

	for _, item := range items {
		targetID := strings.TrimSpace(item.TargetID)
		if uuid.Validate(targetID) != nil {
			result.Errors = append(result.Errors, ItemError{TargetID: item.TargetID, Reason: ReasonInvalidTarget})
			continue
		}

		direction, err := enums.ParseSwipeDirection(item.Direction)
		if err != nil {
			result.Errors = append(result.Errors, ItemError{TargetID: targetID, Reason: ReasonInvalidDirection})
			continue
		}

		if targetID == actorID {
			result.Errors = append(result.Errors, ItemError{TargetID: targetID, Reason: ReasonSelfSwipe})
			continue
		}

		rec, err := s.swipeStore.Create(ctx, actorID, targetID, direction, s.now().UTC())
		if err != nil {
			result.Errors = append(result.Errors, ItemError{TargetID: targetID, Reason: createFailureReason(err)})
			continue
		}
		result.Created = append(result.Created, rec)

		if direction != enums.DirectionLike {
			continue
		}

		match, created, err := s.tryMaterializeMatch(ctx, actorID, targetID)
		if err != nil {
			// The swipe itself is durable at this point; only the match
			// check failed.
			result.Errors = append(result.Errors, ItemError{TargetID: targetID, Reason: ReasonInternal})
			continue
		}
		if created {
			result.Matches = append(result.Matches, match)
		}
	}

	if len(result.Created) == 0 && len(result.Errors) > 0 {
		return BatchResult{}, BatchFailedError{Items: result.Errors}
	}

	return result, nil
}

// tryMaterializeMatch creates the match for {actorID, targetID} if the
// reverse LIKE already exists. When a concurrent submission created the
// pair first, the insert conflict is absorbed and no match is reported:
// both sides racing here is expected, not a caller mistake.
func (s *Service) tryMaterializeMatch(ctx context.Context, actorID, targetID string) (pgrepo.MatchRecord, bool, error) {
	reciprocal, err := s.swipeStore.ReciprocalLikeExists(ctx, actorID, targetID)
	if err != nil {
		return pgrepo.MatchRecord{}, false, fmt.Errorf("check reciprocal like: %w", err)
	}
	if !reciprocal {
		return pgrepo.MatchRecord{}, false, nil
	}

	low, high := rules.OrderPair(actorID, targetID)
	match, created, err := s.matchStore.CreatePair(ctx, low, high, s.now().UTC())
	if err != nil {
		return pgrepo.MatchRecord{}, false, fmt.Errorf("create match: %w", err)
	}

	return match, created, nil
}

// History returns the actor's swipes newest first. The filter accepts
// the same aliases as batch submission; an empty filter returns all
// directions.
func (s *Service) History(ctx context.Context, actorID, directionFilter string, limit int) ([]pgrepo.SwipeHistoryRecord, error) {
	actorID = strings.TrimSpace(actorID)
	if actorID == "" {
		return nil, ErrValidation
	}
	if s.swipeStore == nil {
		return nil, fmt.Errorf("swipe dependencies are not configured")
	}

	var direction enums.SwipeDirection
	if strings.TrimSpace(directionFilter) != "" {
		parsed, err := enums.ParseSwipeDirection(directionFilter)
		if err != nil {
			return nil, ErrValidation
		}
		direction = parsed
	}

	return s.swipeStore.ListByActor(ctx, actorID, direction, limit)
}

func createFailureReason(err error) string {
	switch {
	case errors.Is(err, pgrepo.ErrDuplicateSwipe):
		return ReasonDuplicateSwipe
	case errors.Is(err, pgrepo.ErrTargetNotFound):
		return ReasonTargetNotFound
	default:
		return ReasonInternal
	}
}
