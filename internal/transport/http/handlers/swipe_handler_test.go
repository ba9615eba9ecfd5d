package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/vidurapriyadarshana/loca/internal/domain/enums"
	"github.com/vidurapriyadarshana/loca/internal/domain/rules"
	pgrepo "github.com/vidurapriyadarshana/loca/internal/repo/postgres"
	authsvc "github.com/vidurapriyadarshana/loca/internal/services/auth"
	swipesvc "github.com/vidurapriyadarshana/loca/internal/services/swipes"
	"github.com/vidurapriyadarshana/loca/internal/transport/http/dto"
)

const (
	testActor  = "0a000000-0000-4000-8000-00000000000a"
	testTarget = "0b000000-0000-4000-8000-00000000000b"
	testThird  = "0c000000-0000-4000-8000-00000000000c"
)

type swipeStoreFake struct {
	nextID    int64
	seen      map[[2]string]pgrepo.SwipeRecord
	lastLimit int
}

func newSwipeStoreFake() *swipeStoreFake {
	return &swipeStoreFake{seen: map[[2]string]pgrepo.SwipeRecord{}}
}

func (f *swipeStoreFake) Create(_ context.Context, actorID, targetID string, direction enums.SwipeDirection, now time.Time) (pgrepo.SwipeRecord, error) {
	key := [2]string{actorID, targetID}
	if _, ok := f.seen[key]; ok {
		return pgrepo.SwipeRecord{}, pgrepo.ErrDuplicateSwipe
	}
	f.nextID++
	rec := pgrepo.SwipeRecord{
		ID:        f.nextID,
		ActorID:   actorID,
		TargetID:  targetID,
		Direction: direction,
		CreatedAt: now,
	}
	f.seen[key] = rec
	return rec, nil
}

func (f *swipeStoreFake) ReciprocalLikeExists(_ context.Context, actorID, targetID string) (bool, error) {
	rec, ok := f.seen[[2]string{targetID, actorID}]
	return ok && rec.Direction == enums.DirectionLike, nil
}

func (f *swipeStoreFake) ListByActor(_ context.Context, actorID string, direction enums.SwipeDirection, limit int) ([]pgrepo.SwipeHistoryRecord, error) {
	f.lastLimit = limit
	var out []pgrepo.SwipeHistoryRecord
	for _, rec := range f.seen {
		if rec.ActorID != actorID {
			continue
		}
		if direction != "" && rec.Direction != direction {
			continue
		}
		out = append(out, pgrepo.SwipeHistoryRecord{SwipeRecord: rec})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type matchStoreFake struct {
	nextID int64
	pairs  map[[2]string]pgrepo.MatchRecord
}

func newMatchStoreFake() *matchStoreFake {
	return &matchStoreFake{pairs: map[[2]string]pgrepo.MatchRecord{}}
}

func (f *matchStoreFake) CreatePair(_ context.Context, lowUserID, highUserID string, now time.Time) (pgrepo.MatchRecord, bool, error) {
	key := [2]string{lowUserID, highUserID}
	if _, ok := f.pairs[key]; ok {
		return pgrepo.MatchRecord{}, false, nil
	}
	f.nextID++
	rec := pgrepo.MatchRecord{
		ID:         f.nextID,
		LowUserID:  lowUserID,
		HighUserID: highUserID,
		Active:     true,
		CreatedAt:  now,
	}
	f.pairs[key] = rec
	return rec, true, nil
}

func (f *matchStoreFake) ListActiveForUser(_ context.Context, userID string, limit int) ([]pgrepo.ActiveMatchRecord, error) {
	var out []pgrepo.ActiveMatchRecord
	for _, rec := range f.pairs {
		if !rec.Active {
			continue
		}
		var counterpart string
		switch userID {
		case rec.LowUserID:
			counterpart = rec.HighUserID
		case rec.HighUserID:
			counterpart = rec.LowUserID
		default:
			continue
		}
		out = append(out, pgrepo.ActiveMatchRecord{
			ID:          rec.ID,
			Counterpart: pgrepo.ProfileSummary{UserID: counterpart},
			CreatedAt:   rec.CreatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *matchStoreFake) Deactivate(_ context.Context, lowUserID, highUserID string) (bool, error) {
	key := [2]string{lowUserID, highUserID}
	rec, ok := f.pairs[key]
	if !ok || !rec.Active {
		return false, nil
	}
	rec.Active = false
	f.pairs[key] = rec
	return true, nil
}

func (f *matchStoreFake) addMutual(a, b string) {
	low, high := rules.OrderPair(a, b)
	f.nextID++
	f.pairs[[2]string{low, high}] = pgrepo.MatchRecord{
		ID:         f.nextID,
		LowUserID:  low,
		HighUserID: high,
		Active:     true,
		CreatedAt:  time.Now(),
	}
}

func newSwipeHandlerForTest(swipeStore *swipeStoreFake, matchStore *matchStoreFake) *SwipeHandler {
	svc := swipesvc.NewService(swipesvc.Dependencies{
		SwipeStore: swipeStore,
		MatchStore: matchStore,
	}, swipesvc.Config{MaxBatchSize: 100})
	return NewSwipeHandler(svc, 50)
}

func authedRequest(t *testing.T, method, path string, body []byte) *http.Request {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	return req.WithContext(authsvc.WithIdentity(req.Context(), authsvc.Identity{
		UserID: testActor,
		SID:    "sid-test",
	}))
}

func TestSwipeBatchPartialSuccess(t *testing.T) {
	swipeStore := newSwipeStoreFake()
	handler := newSwipeHandlerForTest(swipeStore, newMatchStoreFake())

	// Pre-existing swipe makes the second item a duplicate.
	if _, err := swipeStore.Create(context.Background(), testActor, testThird, enums.DirectionPass, time.Now()); err != nil {
		t.Fatalf("seed swipe: %v", err)
	}

	body, _ := json.Marshal([]dto.SwipeBatchItem{
		{TargetID: testTarget, Direction: "LIKE"},
		{TargetID: testThird, Direction: "LIKE"},
	})
	rr := httptest.NewRecorder()
	handler.Batch(rr, authedRequest(t, http.MethodPost, "/swipes", body))

	if rr.Code != http.StatusCreated {
		t.Fatalf("unexpected status: got %d want %d, body=%s", rr.Code, http.StatusCreated, rr.Body.String())
	}

	var resp dto.SwipeBatchResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Created != 1 || len(resp.Swipes) != 1 {
		t.Fatalf("expected one created swipe, got %+v", resp)
	}
	if len(resp.Errors) != 1 || resp.Errors[0].Reason != "DUPLICATE_SWIPE" {
		t.Fatalf("expected one DUPLICATE_SWIPE error, got %+v", resp.Errors)
	}
}

func TestSwipeBatchAllFailed(t *testing.T) {
	swipeStore := newSwipeStoreFake()
	handler := newSwipeHandlerForTest(swipeStore, newMatchStoreFake())

	if _, err := swipeStore.Create(context.Background(), testActor, testTarget, enums.DirectionLike, time.Now()); err != nil {
		t.Fatalf("seed swipe: %v", err)
	}

	body, _ := json.Marshal([]dto.SwipeBatchItem{
		{TargetID: testTarget, Direction: "LIKE"},
		{TargetID: testActor, Direction: "LIKE"},
	})
	rr := httptest.NewRecorder()
	handler.Batch(rr, authedRequest(t, http.MethodPost, "/swipes", body))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got %d want %d, body=%s", rr.Code, http.StatusBadRequest, rr.Body.String())
	}

	var resp struct {
		Code   string               `json:"code"`
		Errors []dto.SwipeItemError `json:"errors"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Code != "BATCH_FAILED" {
		t.Fatalf("unexpected error code: %q", resp.Code)
	}
	if len(resp.Errors) != 2 {
		t.Fatalf("expected both item errors in payload, got %+v", resp.Errors)
	}
}

func TestSwipeBatchReportsBornMatch(t *testing.T) {
	swipeStore := newSwipeStoreFake()
	handler := newSwipeHandlerForTest(swipeStore, newMatchStoreFake())

	if _, err := swipeStore.Create(context.Background(), testTarget, testActor, enums.DirectionLike, time.Now()); err != nil {
		t.Fatalf("seed reciprocal like: %v", err)
	}

	body, _ := json.Marshal([]dto.SwipeBatchItem{
		{TargetID: testTarget, Direction: "RIGHT"},
	})
	rr := httptest.NewRecorder()
	handler.Batch(rr, authedRequest(t, http.MethodPost, "/swipes", body))

	if rr.Code != http.StatusCreated {
		t.Fatalf("unexpected status: got %d body=%s", rr.Code, rr.Body.String())
	}

	var resp dto.SwipeBatchResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Matches) != 1 {
		t.Fatalf("expected one born match, got %+v", resp)
	}
	if resp.Matches[0].CounterpartID != testTarget {
		t.Fatalf("counterpart must be the other party: %+v", resp.Matches[0])
	}
}

func TestSwipeBatchRequiresAuth(t *testing.T) {
	handler := newSwipeHandlerForTest(newSwipeStoreFake(), newMatchStoreFake())

	body, _ := json.Marshal([]dto.SwipeBatchItem{{TargetID: testTarget, Direction: "LIKE"}})
	req := httptest.NewRequest(http.MethodPost, "/swipes", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	handler.Batch(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestSwipeBatchRejectsMalformedBody(t *testing.T) {
	handler := newSwipeHandlerForTest(newSwipeStoreFake(), newMatchStoreFake())

	rr := httptest.NewRecorder()
	handler.Batch(rr, authedRequest(t, http.MethodPost, "/swipes", []byte(`{"target_id":"x"}`)))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("object body must be rejected, got %d", rr.Code)
	}
}

type blockedLimiter struct{}

func (blockedLimiter) AllowBatch(context.Context, string) (int64, bool, error) {
	return 30, false, nil
}

func TestSwipeBatchRateLimited(t *testing.T) {
	svc := swipesvc.NewService(swipesvc.Dependencies{
		SwipeStore:  newSwipeStoreFake(),
		MatchStore:  newMatchStoreFake(),
		RateLimiter: blockedLimiter{},
	}, swipesvc.Config{MaxBatchSize: 100})
	handler := NewSwipeHandler(svc, 50)

	body, _ := json.Marshal([]dto.SwipeBatchItem{{TargetID: testTarget, Direction: "LIKE"}})
	rr := httptest.NewRecorder()
	handler.Batch(rr, authedRequest(t, http.MethodPost, "/swipes", body))

	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusTooManyRequests)
	}

	var resp struct {
		Code          string `json:"code"`
		RetryAfterSec int64  `json:"retry_after_sec"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Code != "TOO_FAST" || resp.RetryAfterSec != 30 {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestSwipeHistoryFilter(t *testing.T) {
	swipeStore := newSwipeStoreFake()
	handler := newSwipeHandlerForTest(swipeStore, newMatchStoreFake())

	ctx := context.Background()
	if _, err := swipeStore.Create(ctx, testActor, testTarget, enums.DirectionLike, time.Now()); err != nil {
		t.Fatalf("seed like: %v", err)
	}
	if _, err := swipeStore.Create(ctx, testActor, testThird, enums.DirectionPass, time.Now()); err != nil {
		t.Fatalf("seed pass: %v", err)
	}

	rr := httptest.NewRecorder()
	handler.History(rr, authedRequest(t, http.MethodGet, "/swipes/history?direction=LIKE", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d body=%s", rr.Code, rr.Body.String())
	}

	var resp dto.SwipeHistoryResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Count != 1 || len(resp.Swipes) != 1 || resp.Swipes[0].Direction != "LIKE" {
		t.Fatalf("unexpected history payload: %+v", resp)
	}
}

func TestSwipeHistoryUsesConfiguredDefaultLimit(t *testing.T) {
	swipeStore := newSwipeStoreFake()
	svc := swipesvc.NewService(swipesvc.Dependencies{
		SwipeStore: swipeStore,
		MatchStore: newMatchStoreFake(),
	}, swipesvc.Config{MaxBatchSize: 100})
	handler := NewSwipeHandler(svc, 7)

	rr := httptest.NewRecorder()
	handler.History(rr, authedRequest(t, http.MethodGet, "/swipes/history", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d body=%s", rr.Code, rr.Body.String())
	}
	if swipeStore.lastLimit != 7 {
		t.Fatalf("configured default limit was not applied: got %d want 7", swipeStore.lastLimit)
	}

	rr = httptest.NewRecorder()
	handler.History(rr, authedRequest(t, http.MethodGet, "/swipes/history?limit=3", nil))
	if swipeStore.lastLimit != 3 {
		t.Fatalf("explicit limit must win over the default: got %d want 3", swipeStore.lastLimit)
	}
}

func TestSwipeHistoryRejectsUnknownDirection(t *testing.T) {
	handler := newSwipeHandlerForTest(newSwipeStoreFake(), newMatchStoreFake())

	rr := httptest.NewRecorder()
	handler.History(rr, authedRequest(t, http.MethodGet, "/swipes/history?direction=UP", nil))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusBadRequest)
	}
}
