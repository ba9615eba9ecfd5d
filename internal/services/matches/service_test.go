package matches

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	pgrepo "github.com/vidurapriyadarshana/loca/internal/repo/postgres"
)

type pairKey struct {
	low  string
	high string
}

type matchStoreFake struct {
	nextID int64
	pairs  map[pairKey]pgrepo.MatchRecord
}

func newMatchStoreFake() *matchStoreFake {
	return &matchStoreFake{pairs: map[pairKey]pgrepo.MatchRecord{}}
}

func (f *matchStoreFake) add(low, high string) pgrepo.MatchRecord {
	f.nextID++
	rec := pgrepo.MatchRecord{
		ID:         f.nextID,
		LowUserID:  low,
		HighUserID: high,
		Active:     true,
		CreatedAt:  time.Now(),
	}
	f.pairs[pairKey{low: low, high: high}] = rec
	return rec
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
	key := pairKey{low: lowUserID, high: highUserID}
	rec, ok := f.pairs[key]
	if !ok || !rec.Active {
		return false, nil
	}
	rec.Active = false
	f.pairs[key] = rec
	return true, nil
}

func TestListShowsCounterpartForBothSides(t *testing.T) {
	store := newMatchStoreFake()
	low := "0a000000-0000-4000-8000-00000000000a"
	high := "0b000000-0000-4000-8000-00000000000b"
	store.add(low, high)

	svc := NewService(store)
	ctx := context.Background()

	fromLow, err := svc.List(ctx, low, 50)
	if err != nil {
		t.Fatalf("list for low side: %v", err)
	}
	if len(fromLow) != 1 || fromLow[0].Counterpart.UserID != high {
		t.Fatalf("low side should see high as counterpart: %+v", fromLow)
	}

	fromHigh, err := svc.List(ctx, high, 50)
	if err != nil {
		t.Fatalf("list for high side: %v", err)
	}
	if len(fromHigh) != 1 || fromHigh[0].Counterpart.UserID != low {
		t.Fatalf("high side should see low as counterpart: %+v", fromHigh)
	}
}

func TestListReturnsNewestMatchFirst(t *testing.T) {
	store := newMatchStoreFake()
	viewer := "0a000000-0000-4000-8000-00000000000a"
	first := store.add(viewer, "0b000000-0000-4000-8000-00000000000b")
	second := store.add(viewer, "0c000000-0000-4000-8000-00000000000c")
	third := store.add(viewer, "0d000000-0000-4000-8000-00000000000d")

	svc := NewService(store)
	items, err := svc.List(context.Background(), viewer, 50)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(items))
	}
	wantOrder := []int64{third.ID, second.ID, first.ID}
	for i, want := range wantOrder {
		if items[i].ID != want {
			t.Fatalf("position %d: got match %d want %d (newest first)", i, items[i].ID, want)
		}
	}
}

func TestUnmatchDeactivatesRegardlessOfArgumentOrder(t *testing.T) {
	store := newMatchStoreFake()
	low := "0a000000-0000-4000-8000-00000000000a"
	high := "0b000000-0000-4000-8000-00000000000b"
	store.add(low, high)

	svc := NewService(store)
	ctx := context.Background()

	// The caller passes the counterpart first; pairing order is resolved
	// inside the service.
	deactivated, err := svc.Unmatch(ctx, high, low)
	if err != nil {
		t.Fatalf("unmatch: %v", err)
	}
	if !deactivated {
		t.Fatalf("expected the match to be deactivated")
	}

	items, err := svc.List(ctx, low, 50)
	if err != nil {
		t.Fatalf("list after unmatch: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("deactivated match still listed: %+v", items)
	}

	deactivated, err = svc.Unmatch(ctx, low, high)
	if err != nil {
		t.Fatalf("repeated unmatch: %v", err)
	}
	if deactivated {
		t.Fatalf("repeated unmatch must be a no-op")
	}
}

func TestUnmatchRejectsSelfPair(t *testing.T) {
	svc := NewService(newMatchStoreFake())

	if _, err := svc.Unmatch(context.Background(), "same-user", "same-user"); !errors.Is(err, ErrValidation) {
		t.Fatalf("self unmatch should fail validation, got %v", err)
	}
}
