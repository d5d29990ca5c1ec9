package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"

	"github.com/alphamano814/exam-jyoti/internal/domain"
	"github.com/alphamano814/exam-jyoti/internal/infra/memory"
)

type countingReader struct {
	*memory.ResultStore
	calls int
}

func (r *countingReader) TopRows(ctx context.Context, limit int) ([]domain.LeaderboardRow, error) {
	r.calls++
	return r.ResultStore.TopRows(ctx, limit)
}

func TestLeaderboardCacheSnapshots(t *testing.T) {
	ctx := context.Background()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := memory.NewResultStore()
	if err := store.IncrementLeaderboard(ctx, "u1", domain.QuizTypeDaily, 10, 10); err != nil {
		t.Fatalf("increment failed: %v", err)
	}
	reader := &countingReader{ResultStore: store}
	cache := NewLeaderboardCache(newClient(mr), reader, 30*time.Second)

	rows, err := cache.TopRows(ctx, 5)
	if err != nil {
		t.Fatalf("top rows failed: %v", err)
	}
	if len(rows) != 1 || rows[0].TotalPoints != 5.0 {
		t.Fatalf("unexpected rows %+v", rows)
	}
	if reader.calls != 1 {
		t.Fatalf("expected reader called once, got %d", reader.calls)
	}

	// Served from the snapshot while the TTL holds, even after new writes.
	if err := store.IncrementLeaderboard(ctx, "u2", domain.QuizTypeDaily, 10, 10); err != nil {
		t.Fatalf("increment failed: %v", err)
	}
	rows, err = cache.TopRows(ctx, 5)
	if err != nil {
		t.Fatalf("top rows failed: %v", err)
	}
	if len(rows) != 1 || reader.calls != 1 {
		t.Fatalf("expected stale snapshot, rows=%d calls=%d", len(rows), reader.calls)
	}

	// A different page size is its own snapshot.
	if _, err := cache.TopRows(ctx, 10); err != nil {
		t.Fatalf("top rows failed: %v", err)
	}
	if reader.calls != 2 {
		t.Fatalf("expected separate snapshot per limit, calls=%d", reader.calls)
	}

	// Snapshot expiry falls back to the store.
	mr.FastForward(time.Minute)
	rows, err = cache.TopRows(ctx, 5)
	if err != nil {
		t.Fatalf("top rows failed: %v", err)
	}
	if len(rows) != 2 || reader.calls != 3 {
		t.Fatalf("expected refresh after expiry, rows=%d calls=%d", len(rows), reader.calls)
	}
}
