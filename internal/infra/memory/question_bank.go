package memory

import (
	"context"
	"sync"

	"github.com/alphamano814/exam-jyoti/internal/domain"
)

// QuestionBank is an in-memory QuestionRepository backed by a per-category
// map (useful for tests and the demo mode of the server). Pool order is the
// insertion order, which keeps the daily selection reproducible across calls.
type QuestionBank struct {
	mu    sync.RWMutex
	pools map[domain.Category][]domain.Question
}

func NewQuestionBank(questions []domain.Question) *QuestionBank {
	b := &QuestionBank{pools: make(map[domain.Category][]domain.Question)}
	for _, q := range questions {
		b.pools[q.Category] = append(b.pools[q.Category], q)
	}
	return b
}

func (b *QuestionBank) FetchByCategory(_ context.Context, category domain.Category) ([]domain.Question, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	pool := b.pools[category]
	out := make([]domain.Question, len(pool))
	copy(out, pool)
	return out, nil
}

// Add appends questions to their category pools.
func (b *QuestionBank) Add(questions ...domain.Question) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, q := range questions {
		b.pools[q.Category] = append(b.pools[q.Category], q)
	}
}
