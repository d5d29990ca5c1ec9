package app

import (
	"fmt"

	"github.com/alphamano814/exam-jyoti/internal/domain"
)

// DailyQuizSize is the number of questions in a full daily quiz.
const DailyQuizSize = 10

// CategoryPlan maps each category to the number of questions it contributes
// to the daily set.
type CategoryPlan map[domain.Category]int

// DefaultCategoryPlan contributes one question per category and two from
// nepal-history: 8x1 + 1x2 = 10 slots before dedup.
func DefaultCategoryPlan() CategoryPlan {
	plan := make(CategoryPlan, len(domain.Categories))
	for _, c := range domain.Categories {
		plan[c] = 1
	}
	plan[domain.CategoryNepalHistory] = 2
	return plan
}

// Count returns the planned slot count for a category; categories absent from
// the plan contribute one question.
func (p CategoryPlan) Count(c domain.Category) int {
	if n, ok := p[c]; ok {
		return n
	}
	return 1
}

// SelectDaily picks the daily question set for dateKey from the per-category
// pools. Categories are visited in the canonical domain.Categories order; for
// each planned slot the seed "<key>-<category>-<i>" is hashed to an index
// into the pool. A slot whose index lands on an already-selected question is
// silently dropped, not retried, so the result may hold fewer than
// DailyQuizSize questions. Empty pools are skipped.
//
// The result is grouped by category in enumeration order; ShuffleDaily
// produces the final ordering.
func SelectDaily(dateKey string, plan CategoryPlan, pools map[domain.Category][]domain.Question) []domain.Question {
	selected := make([]domain.Question, 0, DailyQuizSize)
	seen := make(map[string]struct{}, DailyQuizSize)

	for _, category := range domain.Categories {
		pool := pools[category]
		if len(pool) == 0 {
			continue
		}
		for i := 0; i < plan.Count(category); i++ {
			seed := fmt.Sprintf("%s-%s-%d", dateKey, category, i)
			idx := int(DeterministicRandom(seed) * float64(len(pool)))
			if idx >= len(pool) {
				// DeterministicRandom can return exactly 1.0; the slot is
				// dropped the same way a dedup collision is.
				continue
			}
			q := pool[idx]
			if _, dup := seen[q.ID]; dup {
				continue
			}
			seen[q.ID] = struct{}{}
			selected = append(selected, q)
		}
	}
	return selected
}

// ShuffleDaily permutes questions with a Fisher-Yates walk driven entirely by
// DeterministicRandom over seeds "<key>-shuffle-<i>", then truncates to
// DailyQuizSize. Identical input order and dateKey always produce the
// identical permutation; the input slice is not mutated.
func ShuffleDaily(dateKey string, questions []domain.Question) []domain.Question {
	shuffled := make([]domain.Question, len(questions))
	copy(shuffled, questions)

	for i := len(shuffled) - 1; i > 0; i-- {
		seed := fmt.Sprintf("%s-shuffle-%d", dateKey, i)
		j := int(DeterministicRandom(seed) * float64(i+1))
		if j > i {
			j = i
		}
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	if len(shuffled) > DailyQuizSize {
		shuffled = shuffled[:DailyQuizSize]
	}
	return shuffled
}
