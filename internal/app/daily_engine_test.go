package app_test

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/alphamano814/exam-jyoti/internal/app"
	"github.com/alphamano814/exam-jyoti/internal/domain"
)

type fakeRepo struct {
	pools   map[domain.Category][]domain.Question
	failing map[domain.Category]bool
	calls   int
}

func (r *fakeRepo) FetchByCategory(_ context.Context, category domain.Category) ([]domain.Question, error) {
	r.calls++
	if r.failing[category] {
		return nil, errors.New("pool unavailable")
	}
	return r.pools[category], nil
}

type fakeSink struct {
	results    []domain.QuizResult
	increments int
	appendErr  error
}

func (s *fakeSink) AppendResult(_ context.Context, result domain.QuizResult) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	s.results = append(s.results, result)
	return nil
}

func (s *fakeSink) IncrementLeaderboard(_ context.Context, _ string, _ domain.QuizType, _, _ int) error {
	s.increments++
	return nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestQuizKeyFollowsClock(t *testing.T) {
	engine := app.NewDailyEngine(&fakeRepo{}, &fakeSink{},
		app.WithClock(fixedClock(time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC))))
	if got := engine.QuizKey(); got != "2026-03-15" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestLoadQuizIdempotent(t *testing.T) {
	repo := &fakeRepo{pools: poolFixture(3)}
	engine := app.NewDailyEngine(repo, &fakeSink{})

	first, err := engine.LoadQuizForKey(context.Background(), "2026-03-15")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	second, err := engine.LoadQuizForKey(context.Background(), "2026-03-15")
	if err != nil {
		t.Fatalf("second load failed: %v", err)
	}
	if !reflect.DeepEqual(ids(first), ids(second)) {
		t.Fatalf("same key, different quizzes:\n%v\n%v", ids(first), ids(second))
	}

	want := []string{
		"universe-0",
		"geography-1",
		"world-history-0",
		"nepal-history-2",
		"culture-society-1",
		"economy-1",
		"health-technology-0",
		"international-relations-1",
		"eco-system-1",
	}
	if !reflect.DeepEqual(ids(first), want) {
		t.Fatalf("quiz mismatch:\ngot  %v\nwant %v", ids(first), want)
	}
}

func TestLoadQuizSkipsFailingCategory(t *testing.T) {
	repo := &fakeRepo{
		pools:   poolFixture(3),
		failing: map[domain.Category]bool{domain.CategoryEconomy: true},
	}
	engine := app.NewDailyEngine(repo, &fakeSink{})

	questions, err := engine.LoadQuizForKey(context.Background(), "2026-03-15")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	for _, q := range questions {
		if q.Category == domain.CategoryEconomy {
			t.Fatalf("selected from failing category: %s", q.ID)
		}
	}
}

func TestLoadQuizFailsWhenEveryPoolUnavailable(t *testing.T) {
	failing := make(map[domain.Category]bool)
	for _, c := range domain.Categories {
		failing[c] = true
	}
	engine := app.NewDailyEngine(&fakeRepo{failing: failing}, &fakeSink{})

	if _, err := engine.LoadQuizForKey(context.Background(), "2026-03-15"); err == nil {
		t.Fatalf("expected error with no pools available")
	}
}

func TestStartRunRefusedWhenQuizShort(t *testing.T) {
	// Three-question pools assemble nine questions, one short of a start.
	engine := app.NewDailyEngine(&fakeRepo{pools: poolFixture(3)}, &fakeSink{})

	_, err := engine.StartRunForKey(context.Background(), "2026-03-15")
	if !errors.Is(err, domain.ErrNotEnoughQuestions) {
		t.Fatalf("expected ErrNotEnoughQuestions, got %v", err)
	}
}

func completedRun(t *testing.T, correct int) *app.DailyRun {
	t.Helper()
	questions := tenQuestions()
	run := app.NewDailyRun(questions, 0)
	if err := run.Start(); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	for i, q := range questions {
		option := domain.OptionA
		if i >= correct {
			option = domain.OptionB
		}
		if _, err := run.SubmitAnswer(q.ID, option); err != nil {
			t.Fatalf("answer %d failed: %v", i, err)
		}
	}
	return run
}

func TestCompleteRunSummaryAndSubmission(t *testing.T) {
	sink := &fakeSink{}
	now := time.Date(2026, 3, 15, 20, 0, 0, 0, time.UTC)
	engine := app.NewDailyEngine(&fakeRepo{}, sink, app.WithClock(fixedClock(now)))

	run := completedRun(t, 7)
	summary, err := engine.CompleteRun(context.Background(), "user-1", run)
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if summary.Score != 7 || summary.Total != 10 || summary.PointsAwarded != 3.5 || summary.Percentage != 70 {
		t.Fatalf("unexpected summary %+v", summary)
	}

	if len(sink.results) != 1 {
		t.Fatalf("expected one result, got %d", len(sink.results))
	}
	result := sink.results[0]
	if result.UserID != "user-1" || result.QuizType != domain.QuizTypeDaily {
		t.Fatalf("unexpected result %+v", result)
	}
	if result.Score != 7 || result.TotalQuestions != 10 || len(result.Breakdown) != 10 {
		t.Fatalf("unexpected result %+v", result)
	}
	if !result.CompletedAt.Equal(now) {
		t.Fatalf("completed at %v, want %v", result.CompletedAt, now)
	}
	if sink.increments != 1 {
		t.Fatalf("expected one leaderboard increment, got %d", sink.increments)
	}
}

func TestCompleteRunReturnsSummaryOnSinkFailure(t *testing.T) {
	sink := &fakeSink{appendErr: errors.New("database down")}
	engine := app.NewDailyEngine(&fakeRepo{}, sink)

	summary, err := engine.CompleteRun(context.Background(), "user-1", completedRun(t, 7))
	if err == nil {
		t.Fatalf("expected error from failing sink")
	}
	if summary.Score != 7 || summary.PointsAwarded != 3.5 {
		t.Fatalf("summary lost on sink failure: %+v", summary)
	}
	// The result row never landed, so the aggregate must not move either.
	if sink.increments != 0 {
		t.Fatalf("partial increment applied: %d", sink.increments)
	}
}

func TestCompleteRunSubmitsOnce(t *testing.T) {
	sink := &fakeSink{}
	engine := app.NewDailyEngine(&fakeRepo{}, sink)

	run := completedRun(t, 10)
	first, err := engine.CompleteRun(context.Background(), "user-1", run)
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	second, err := engine.CompleteRun(context.Background(), "user-1", run)
	if err != nil {
		t.Fatalf("repeat complete failed: %v", err)
	}
	if first != second {
		t.Fatalf("summaries differ: %+v vs %+v", first, second)
	}
	if len(sink.results) != 1 || sink.increments != 1 {
		t.Fatalf("repeat completion resubmitted: results=%d increments=%d", len(sink.results), sink.increments)
	}
}

func TestCompleteRunRequiresCompletedState(t *testing.T) {
	engine := app.NewDailyEngine(&fakeRepo{}, &fakeSink{})

	fresh := app.NewDailyRun(tenQuestions(), 0)
	if _, err := engine.CompleteRun(context.Background(), "user-1", fresh); !errors.Is(err, domain.ErrRunNotStarted) {
		t.Fatalf("expected ErrRunNotStarted, got %v", err)
	}

	if err := fresh.Start(); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if _, err := engine.CompleteRun(context.Background(), "user-1", fresh); !errors.Is(err, domain.ErrRunInProgress) {
		t.Fatalf("expected ErrRunInProgress, got %v", err)
	}
}
