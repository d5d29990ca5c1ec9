package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/alphamano814/exam-jyoti/internal/domain"
)

// ResultStore is an in-memory ResultSink and LeaderboardReader. The increment
// is atomic under the store's lock, matching the contract the Postgres sink
// provides with a single upsert statement.
type ResultStore struct {
	mu      sync.RWMutex
	clock   func() time.Time
	results []domain.QuizResult
	rows    map[string]*domain.LeaderboardRow
}

func NewResultStore() *ResultStore {
	return &ResultStore{
		clock: time.Now,
		rows:  make(map[string]*domain.LeaderboardRow),
	}
}

// NewResultStoreWithClock is test-only for deterministic timestamps.
func NewResultStoreWithClock(now func() time.Time) *ResultStore {
	s := NewResultStore()
	s.clock = now
	return s
}

func (s *ResultStore) AppendResult(_ context.Context, result domain.QuizResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, result)
	return nil
}

func (s *ResultStore) IncrementLeaderboard(_ context.Context, userID string, quizType domain.QuizType, correctAnswers, totalQuestions int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.rows[userID]
	if !ok {
		row = &domain.LeaderboardRow{UserID: userID}
		s.rows[userID] = row
	}

	points := float64(correctAnswers) * quizType.PointsPerCorrect()
	row.TotalPoints += points
	if quizType == domain.QuizTypeDaily {
		row.DailyQuizPoints += points
		row.TotalDailyQuizzesCompleted++
	} else {
		row.QuizPoints += points
		row.TotalQuizzesCompleted++
	}
	row.UpdatedAt = s.clock()
	return nil
}

func (s *ResultStore) TopRows(_ context.Context, limit int) ([]domain.LeaderboardRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]domain.LeaderboardRow, 0, len(s.rows))
	for _, row := range s.rows {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TotalPoints != rows[j].TotalPoints {
			return rows[i].TotalPoints > rows[j].TotalPoints
		}
		return rows[i].UserID < rows[j].UserID
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

// Results returns a copy of all appended results, oldest first.
func (s *ResultStore) Results() []domain.QuizResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.QuizResult, len(s.results))
	copy(out, s.results)
	return out
}
