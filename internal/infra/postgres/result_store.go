package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/alphamano814/exam-jyoti/internal/domain"
)

// ResultStore persists quiz results and leaderboard aggregates in Postgres.
type ResultStore struct {
	pool *pgxpool.Pool
}

func NewResultStore(pool *pgxpool.Pool) *ResultStore {
	return &ResultStore{pool: pool}
}

// AppendResult writes one append-only result row with the per-question
// breakdown as jsonb.
func (s *ResultStore) AppendResult(ctx context.Context, result domain.QuizResult) error {
	breakdown, err := json.Marshal(result.Breakdown)
	if err != nil {
		return fmt.Errorf("marshal breakdown: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO quiz_results (id, user_id, quiz_type, score, total_questions, questions_attempted, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		result.ID, result.UserID, string(result.QuizType), result.Score, result.TotalQuestions, breakdown, result.CompletedAt)
	if err != nil {
		return fmt.Errorf("insert quiz result: %w", err)
	}
	return nil
}

// IncrementLeaderboard applies the aggregate delta in a single upsert
// statement. The addition happens server-side, so concurrent completions by
// the same user never lose an update; the engine never reads the row first.
func (s *ResultStore) IncrementLeaderboard(ctx context.Context, userID string, quizType domain.QuizType, correctAnswers, totalQuestions int) error {
	points := float64(correctAnswers) * quizType.PointsPerCorrect()

	var quizPoints, dailyPoints float64
	var quizzes, dailyQuizzes int
	if quizType == domain.QuizTypeDaily {
		dailyPoints, dailyQuizzes = points, 1
	} else {
		quizPoints, quizzes = points, 1
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO leaderboard (user_id, total_points, quiz_points, daily_quiz_points,
		                         total_quizzes_completed, total_daily_quizzes_completed, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (user_id) DO UPDATE SET
			total_points = leaderboard.total_points + EXCLUDED.total_points,
			quiz_points = leaderboard.quiz_points + EXCLUDED.quiz_points,
			daily_quiz_points = leaderboard.daily_quiz_points + EXCLUDED.daily_quiz_points,
			total_quizzes_completed = leaderboard.total_quizzes_completed + EXCLUDED.total_quizzes_completed,
			total_daily_quizzes_completed = leaderboard.total_daily_quizzes_completed + EXCLUDED.total_daily_quizzes_completed,
			updated_at = now()`,
		userID, points, quizPoints, dailyPoints, quizzes, dailyQuizzes)
	if err != nil {
		return fmt.Errorf("increment leaderboard %s: %w", userID, err)
	}
	return nil
}

// TopRows returns the leaderboard ordered by total points.
func (s *ResultStore) TopRows(ctx context.Context, limit int) ([]domain.LeaderboardRow, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx, `
		SELECT user_id, total_points, quiz_points, daily_quiz_points,
		       total_quizzes_completed, total_daily_quizzes_completed, updated_at
		FROM leaderboard
		ORDER BY total_points DESC, user_id
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch leaderboard: %w", err)
	}
	defer rows.Close()

	var out []domain.LeaderboardRow
	for rows.Next() {
		var r domain.LeaderboardRow
		if err := rows.Scan(
			&r.UserID, &r.TotalPoints, &r.QuizPoints, &r.DailyQuizPoints,
			&r.TotalQuizzesCompleted, &r.TotalDailyQuizzesCompleted, &r.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan leaderboard row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetch leaderboard: %w", err)
	}
	return out, nil
}
