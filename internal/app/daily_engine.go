package app

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/alphamano814/exam-jyoti/internal/domain"
)

// QuestionRepository abstracts read-only access to per-category question
// pools (Postgres behind a Redis cache in production, a static bank in tests).
// An empty pool is a valid result, distinct from a fetch error.
type QuestionRepository interface {
	FetchByCategory(ctx context.Context, category domain.Category) ([]domain.Question, error)
}

// ResultSink persists completed runs. AppendResult writes the append-only
// result row; IncrementLeaderboard applies the per-user aggregate delta and
// must be atomic on the store side, the engine never read-modify-writes
// aggregate points itself.
type ResultSink interface {
	AppendResult(ctx context.Context, result domain.QuizResult) error
	IncrementLeaderboard(ctx context.Context, userID string, quizType domain.QuizType, correctAnswers, totalQuestions int) error
}

// LeaderboardReader serves the ranked aggregate view.
type LeaderboardReader interface {
	TopRows(ctx context.Context, limit int) ([]domain.LeaderboardRow, error)
}

// ExamStore serves upcoming exam announcements.
type ExamStore interface {
	ListExams(ctx context.Context) ([]domain.UpcomingExam, error)
}

// DailyEngine implements the daily quiz use cases: derive today's key,
// assemble the deterministic question set, drive a run, and submit the scored
// result.
type DailyEngine struct {
	questions    QuestionRepository
	sink         ResultSink
	plan         CategoryPlan
	clock        func() time.Time
	advanceDelay time.Duration
}

// EngineOption customizes a DailyEngine.
type EngineOption func(*DailyEngine)

// WithClock pins the engine's notion of "now"; tests use it to select
// arbitrary dates without touching the system clock.
func WithClock(clock func() time.Time) EngineOption {
	return func(e *DailyEngine) { e.clock = clock }
}

// WithCategoryPlan overrides the default 9-category plan.
func WithCategoryPlan(plan CategoryPlan) EngineOption {
	return func(e *DailyEngine) { e.plan = plan }
}

// WithAdvanceDelay sets the pause between an accepted answer and the advance
// to the next question.
func WithAdvanceDelay(d time.Duration) EngineOption {
	return func(e *DailyEngine) { e.advanceDelay = d }
}

// DefaultAdvanceDelay matches the reading pause the UI gives users between
// questions.
const DefaultAdvanceDelay = 3 * time.Second

func NewDailyEngine(questions QuestionRepository, sink ResultSink, opts ...EngineOption) *DailyEngine {
	e := &DailyEngine{
		questions:    questions,
		sink:         sink,
		plan:         DefaultCategoryPlan(),
		clock:        time.Now,
		advanceDelay: DefaultAdvanceDelay,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// QuizKey returns today's daily key from the engine's clock.
func (e *DailyEngine) QuizKey() string {
	return DailyKey(e.clock())
}

// LoadDailyQuiz assembles today's ordered question list. Repeated calls
// within the same day and repository snapshot return the identical list.
func (e *DailyEngine) LoadDailyQuiz(ctx context.Context) ([]domain.Question, error) {
	return e.LoadQuizForKey(ctx, e.QuizKey())
}

// LoadQuizForKey assembles the quiz for an explicit daily key. A category
// whose fetch fails or whose pool is empty is skipped with a warning; the
// quiz simply comes up short and the caller refuses the start transition.
// An error is returned only when every pool was unavailable.
func (e *DailyEngine) LoadQuizForKey(ctx context.Context, key string) ([]domain.Question, error) {
	pools := make(map[domain.Category][]domain.Question, len(domain.Categories))
	var fetchErr error
	for _, category := range domain.Categories {
		pool, err := e.questions.FetchByCategory(ctx, category)
		if err != nil {
			log.Printf("daily quiz: fetch pool %s: %v", category, err)
			fetchErr = err
			continue
		}
		if len(pool) == 0 {
			log.Printf("daily quiz: no questions for category %s", category)
			continue
		}
		pools[category] = pool
	}
	if len(pools) == 0 && fetchErr != nil {
		return nil, fmt.Errorf("load daily quiz %s: %w", key, fetchErr)
	}

	selected := SelectDaily(key, e.plan, pools)
	return ShuffleDaily(key, selected), nil
}

// StartRun loads today's quiz and opens a run for the user. The start is
// refused with ErrNotEnoughQuestions when fewer than DailyQuizSize questions
// could be assembled.
func (e *DailyEngine) StartRun(ctx context.Context) (*DailyRun, error) {
	questions, err := e.LoadDailyQuiz(ctx)
	if err != nil {
		return nil, err
	}
	run := NewDailyRun(questions, e.advanceDelay)
	if err := run.Start(); err != nil {
		return nil, err
	}
	return run, nil
}

// StartRunForKey is StartRun with a caller-supplied daily key, letting a
// client keep its own local-day semantics.
func (e *DailyEngine) StartRunForKey(ctx context.Context, key string) (*DailyRun, error) {
	questions, err := e.LoadQuizForKey(ctx, key)
	if err != nil {
		return nil, err
	}
	run := NewDailyRun(questions, e.advanceDelay)
	if err := run.Start(); err != nil {
		return nil, err
	}
	return run, nil
}

// RunSummary is what the user sees at the end of a run. It is valid even
// when persisting the result failed.
type RunSummary struct {
	Score         int     `json:"score"`
	Total         int     `json:"total"`
	PointsAwarded float64 `json:"points_awarded"`
	Percentage    int     `json:"percentage"`
}

// CompleteRun computes the summary for a completed run and submits it: one
// appended result row, then one atomic leaderboard increment. A failure in
// either step is returned alongside the fully computed summary so the caller
// can still show the score; nothing is retried and nothing rolls back.
// Submission happens at most once per run.
func (e *DailyEngine) CompleteRun(ctx context.Context, userID string, run *DailyRun) (RunSummary, error) {
	switch run.State() {
	case RunNotStarted:
		return RunSummary{}, domain.ErrRunNotStarted
	case RunInProgress:
		return RunSummary{}, domain.ErrRunInProgress
	}

	summary := RunSummary{
		Score:         run.Score(),
		Total:         run.Total(),
		PointsAwarded: float64(run.Score()) * domain.QuizTypeDaily.PointsPerCorrect(),
	}
	if summary.Total > 0 {
		summary.Percentage = int(math.Round(float64(summary.Score) / float64(summary.Total) * 100))
	}

	if !run.markSubmitted() {
		return summary, nil
	}

	result := domain.QuizResult{
		ID:             uuid.NewString(),
		UserID:         userID,
		QuizType:       domain.QuizTypeDaily,
		Score:          summary.Score,
		TotalQuestions: summary.Total,
		Breakdown:      run.Answers(),
		CompletedAt:    e.clock(),
	}
	if err := e.sink.AppendResult(ctx, result); err != nil {
		return summary, fmt.Errorf("append result: %w", err)
	}
	if err := e.sink.IncrementLeaderboard(ctx, userID, domain.QuizTypeDaily, summary.Score, summary.Total); err != nil {
		return summary, fmt.Errorf("increment leaderboard: %w", err)
	}
	return summary, nil
}
