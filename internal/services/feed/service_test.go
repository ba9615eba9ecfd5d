package feed

import (
	"context"
	"errors"
	"testing"

	pgrepo "github.com/vidurapriyadarshana/loca/internal/repo/postgres"
)

type feedStoreFake struct {
	candidates []pgrepo.CandidateRecord
	viewerGone bool
	lastLimit  int
}

func (f *feedStoreFake) ListCandidates(_ context.Context, _ string, limit int) ([]pgrepo.CandidateRecord, error) {
	if f.viewerGone {
		return nil, pgrepo.ErrViewerNotFound
	}
	f.lastLimit = limit
	if limit < len(f.candidates) {
		return f.candidates[:limit], nil
	}
	return f.candidates, nil
}

func TestCandidatesClampsLimit(t *testing.T) {
	store := &feedStoreFake{}
	svc := NewService(store)

	if _, err := svc.Candidates(context.Background(), "viewer-1", 0); err != nil {
		t.Fatalf("candidates with zero limit: %v", err)
	}
	if store.lastLimit != maxFeedLimit {
		t.Fatalf("zero limit should clamp to %d, got %d", maxFeedLimit, store.lastLimit)
	}

	if _, err := svc.Candidates(context.Background(), "viewer-1", 10_000); err != nil {
		t.Fatalf("candidates with huge limit: %v", err)
	}
	if store.lastLimit != maxFeedLimit {
		t.Fatalf("oversized limit should clamp to %d, got %d", maxFeedLimit, store.lastLimit)
	}
}

func TestCandidatesMapsViewerNotFound(t *testing.T) {
	svc := NewService(&feedStoreFake{viewerGone: true})

	if _, err := svc.Candidates(context.Background(), "viewer-1", 10); !errors.Is(err, ErrViewerNotFound) {
		t.Fatalf("expected ErrViewerNotFound, got %v", err)
	}
}

func TestCandidatesRejectsEmptyViewer(t *testing.T) {
	svc := NewService(&feedStoreFake{})

	if _, err := svc.Candidates(context.Background(), "  ", 10); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
