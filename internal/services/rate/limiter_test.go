package rate

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	redrepo "github.com/vidurapriyadarshana/loca/internal/repo/redis"
)

func TestLimiterBlocksOnMinuteWindow(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	repo := redrepo.NewRateRepo(client)
	limiter := NewLimiter(repo, 3)

	ctx := context.Background()
	userID := "9f4f6f0e-1111-4f2a-9a77-000000000042"

	for i := 0; i < 3; i++ {
		retryAfter, allowed, err := limiter.AllowBatch(ctx, userID)
		if err != nil {
			t.Fatalf("allow batch #%d: %v", i+1, err)
		}
		if !allowed || retryAfter != 0 {
			t.Fatalf("unexpected result on allow #%d: allowed=%v retry_after=%d", i+1, allowed, retryAfter)
		}
	}

	retryAfter, allowed, err := limiter.AllowBatch(ctx, userID)
	if err != nil {
		t.Fatalf("allow batch #4: %v", err)
	}
	if allowed {
		t.Fatalf("expected limiter block on fourth batch in minute window")
	}
	if retryAfter <= 0 {
		t.Fatalf("expected positive retry_after, got %d", retryAfter)
	}

	mr.FastForward(61 * time.Second)

	retryAfter, allowed, err = limiter.AllowBatch(ctx, userID)
	if err != nil {
		t.Fatalf("allow batch after window: %v", err)
	}
	if !allowed || retryAfter != 0 {
		t.Fatalf("unexpected result after fast forward: allowed=%v retry_after=%d", allowed, retryAfter)
	}
}

func TestLimiterZeroPerMinuteDisablesThrottle(t *testing.T) {
	limiter := NewLimiter(nil, 0)

	retryAfter, allowed, err := limiter.AllowBatch(context.Background(), "9f4f6f0e-1111-4f2a-9a77-000000000007")
	if err != nil {
		t.Fatalf("allow batch: %v", err)
	}
	if !allowed || retryAfter != 0 {
		t.Fatalf("expected unlimited batches when per-minute limit is zero")
	}
}

func TestLimiterIsolatesUsers(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	repo := redrepo.NewRateRepo(client)
	limiter := NewLimiter(repo, 1)

	ctx := context.Background()

	if _, allowed, err := limiter.AllowBatch(ctx, "9f4f6f0e-1111-4f2a-9a77-000000000001"); err != nil || !allowed {
		t.Fatalf("first user first batch: allowed=%v err=%v", allowed, err)
	}
	if _, allowed, err := limiter.AllowBatch(ctx, "9f4f6f0e-1111-4f2a-9a77-000000000001"); err != nil || allowed {
		t.Fatalf("first user second batch should be blocked: allowed=%v err=%v", allowed, err)
	}
	if _, allowed, err := limiter.AllowBatch(ctx, "9f4f6f0e-1111-4f2a-9a77-000000000002"); err != nil || !allowed {
		t.Fatalf("second user must not share the first user's window: allowed=%v err=%v", allowed, err)
	}
}

func newMiniRedisClient(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}

	client := goredis.NewClient(&goredis.Options{
		Addr: mr.Addr(),
	})

	return mr, client
}
