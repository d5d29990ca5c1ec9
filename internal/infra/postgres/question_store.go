package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/alphamano814/exam-jyoti/internal/domain"
)

// QuestionStore reads question pools from Postgres.
type QuestionStore struct {
	pool *pgxpool.Pool
}

func NewQuestionStore(pool *pgxpool.Pool) *QuestionStore {
	return &QuestionStore{pool: pool}
}

// FetchByCategory returns the category's full pool. The ORDER BY is not
// cosmetic: the daily selection maps hashes to pool indexes, so every replica
// must see the same pool order for the same snapshot.
func (s *QuestionStore) FetchByCategory(ctx context.Context, category domain.Category) ([]domain.Question, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, question, option_a, option_b, option_c, option_d,
		       correct_option, explanation, category, subject, difficulty, language
		FROM questions
		WHERE category = $1
		ORDER BY created_at, id`, string(category))
	if err != nil {
		return nil, fmt.Errorf("fetch questions %s: %w", category, err)
	}
	defer rows.Close()

	var pool []domain.Question
	for rows.Next() {
		var q domain.Question
		if err := rows.Scan(
			&q.ID, &q.Prompt, &q.OptionA, &q.OptionB, &q.OptionC, &q.OptionD,
			&q.CorrectOption, &q.Explanation, &q.Category, &q.Subject, &q.Difficulty, &q.Language,
		); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		pool = append(pool, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetch questions %s: %w", category, err)
	}
	return pool, nil
}
