package memory

import (
	"context"
	"testing"
	"time"

	"github.com/alphamano814/exam-jyoti/internal/domain"
)

func TestIncrementLeaderboardWeights(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	store := NewResultStoreWithClock(func() time.Time { return now })

	if err := store.IncrementLeaderboard(ctx, "u1", domain.QuizTypeDaily, 7, 10); err != nil {
		t.Fatalf("increment failed: %v", err)
	}
	if err := store.IncrementLeaderboard(ctx, "u1", domain.QuizTypeRegular, 8, 12); err != nil {
		t.Fatalf("increment failed: %v", err)
	}

	rows, err := store.TopRows(ctx, 10)
	if err != nil {
		t.Fatalf("top rows failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected one row, got %d", len(rows))
	}
	row := rows[0]
	if row.DailyQuizPoints != 3.5 || row.QuizPoints != 2.0 || row.TotalPoints != 5.5 {
		t.Fatalf("unexpected points: %+v", row)
	}
	if row.TotalDailyQuizzesCompleted != 1 || row.TotalQuizzesCompleted != 1 {
		t.Fatalf("unexpected counters: %+v", row)
	}
	if !row.UpdatedAt.Equal(now) {
		t.Fatalf("updated at %v, want %v", row.UpdatedAt, now)
	}
}

func TestTopRowsOrderAndLimit(t *testing.T) {
	ctx := context.Background()
	store := NewResultStore()

	_ = store.IncrementLeaderboard(ctx, "low", domain.QuizTypeRegular, 4, 10)    // 1.0
	_ = store.IncrementLeaderboard(ctx, "high", domain.QuizTypeDaily, 10, 10)    // 5.0
	_ = store.IncrementLeaderboard(ctx, "middle", domain.QuizTypeDaily, 6, 10)   // 3.0
	_ = store.IncrementLeaderboard(ctx, "also-low", domain.QuizTypeRegular, 4, 10) // 1.0

	rows, err := store.TopRows(ctx, 3)
	if err != nil {
		t.Fatalf("top rows failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].UserID != "high" || rows[1].UserID != "middle" {
		t.Fatalf("unexpected order: %v, %v", rows[0].UserID, rows[1].UserID)
	}
	// Ties break by user id for a stable order.
	if rows[2].UserID != "also-low" {
		t.Fatalf("expected also-low third, got %v", rows[2].UserID)
	}
}

func TestAppendResultKeepsHistory(t *testing.T) {
	ctx := context.Background()
	store := NewResultStore()

	for i := 0; i < 3; i++ {
		err := store.AppendResult(ctx, domain.QuizResult{ID: string(rune('a' + i)), UserID: "u1"})
		if err != nil {
			t.Fatalf("append failed: %v", err)
		}
	}

	results := store.Results()
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].ID != "a" || results[2].ID != "c" {
		t.Fatalf("unexpected order: %+v", results)
	}
}
