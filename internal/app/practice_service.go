package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alphamano814/exam-jyoti/internal/domain"
)

// PracticeService covers the regular category quizzes: the user picks one of
// the nine categories, works through its pool, and earns 0.25 points per
// correct answer. Unlike the daily quiz nothing here is date-seeded.
type PracticeService struct {
	questions QuestionRepository
	sink      ResultSink
	clock     func() time.Time
}

func NewPracticeService(questions QuestionRepository, sink ResultSink) *PracticeService {
	return &PracticeService{questions: questions, sink: sink, clock: time.Now}
}

// LoadCategory returns the full pool for one category. An empty pool is a
// valid result.
func (s *PracticeService) LoadCategory(ctx context.Context, category domain.Category) ([]domain.Question, error) {
	if !domain.ValidCategory(string(category)) {
		return nil, fmt.Errorf("practice: unknown category %q", category)
	}
	return s.questions.FetchByCategory(ctx, category)
}

// Grade scores a set of answers against the questions and builds the
// per-question breakdown. Unanswered questions count as not attempted.
func (s *PracticeService) Grade(questions []domain.Question, answers map[string]string) (int, []domain.AnswerRecord) {
	score := 0
	breakdown := make([]domain.AnswerRecord, 0, len(questions))
	for _, q := range questions {
		chosen, attempted := answers[q.ID]
		correct := attempted && chosen == q.CorrectOption
		if correct {
			score++
		}
		breakdown = append(breakdown, domain.AnswerRecord{
			QuestionID:   q.ID,
			ChosenOption: chosen,
			Attempted:    attempted,
			Correct:      correct,
		})
	}
	return score, breakdown
}

// RecordResult persists a finished practice quiz: the result row, then the
// atomic leaderboard increment at the regular weighting. The awarded points
// are returned even when persistence fails, mirroring the daily engine's
// show-what-we-have behavior.
func (s *PracticeService) RecordResult(ctx context.Context, userID string, score, total int, breakdown []domain.AnswerRecord) (float64, error) {
	points := float64(score) * domain.QuizTypeRegular.PointsPerCorrect()

	result := domain.QuizResult{
		ID:             uuid.NewString(),
		UserID:         userID,
		QuizType:       domain.QuizTypeRegular,
		Score:          score,
		TotalQuestions: total,
		Breakdown:      breakdown,
		CompletedAt:    s.clock(),
	}
	if err := s.sink.AppendResult(ctx, result); err != nil {
		return points, fmt.Errorf("append result: %w", err)
	}
	if err := s.sink.IncrementLeaderboard(ctx, userID, domain.QuizTypeRegular, score, total); err != nil {
		return points, fmt.Errorf("increment leaderboard: %w", err)
	}
	return points, nil
}
