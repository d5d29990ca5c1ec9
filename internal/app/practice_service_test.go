package app_test

import (
	"context"
	"errors"
	"testing"

	"github.com/alphamano814/exam-jyoti/internal/app"
	"github.com/alphamano814/exam-jyoti/internal/domain"
)

func TestPracticeLoadCategory(t *testing.T) {
	repo := &fakeRepo{pools: poolFixture(3)}
	service := app.NewPracticeService(repo, &fakeSink{})

	pool, err := service.LoadCategory(context.Background(), domain.CategoryGeography)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(pool) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(pool))
	}

	if _, err := service.LoadCategory(context.Background(), "astrology"); err == nil {
		t.Fatalf("expected error for unknown category")
	}
}

func TestPracticeGrade(t *testing.T) {
	service := app.NewPracticeService(&fakeRepo{}, &fakeSink{})
	questions := []domain.Question{
		{ID: "q1", CorrectOption: domain.OptionA},
		{ID: "q2", CorrectOption: domain.OptionB},
		{ID: "q3", CorrectOption: domain.OptionC},
	}
	answers := map[string]string{
		"q1": domain.OptionA,
		"q2": domain.OptionD,
		// q3 left unanswered
	}

	score, breakdown := service.Grade(questions, answers)
	if score != 1 {
		t.Fatalf("expected score 1, got %d", score)
	}
	if len(breakdown) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(breakdown))
	}
	if !breakdown[0].Correct || !breakdown[0].Attempted {
		t.Fatalf("q1 row wrong: %+v", breakdown[0])
	}
	if breakdown[1].Correct || !breakdown[1].Attempted {
		t.Fatalf("q2 row wrong: %+v", breakdown[1])
	}
	if breakdown[2].Attempted {
		t.Fatalf("q3 should be unattempted: %+v", breakdown[2])
	}
}

func TestPracticeRecordResult(t *testing.T) {
	sink := &fakeSink{}
	service := app.NewPracticeService(&fakeRepo{}, sink)

	points, err := service.RecordResult(context.Background(), "user-1", 8, 12, nil)
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if points != 2.0 {
		t.Fatalf("expected 2.0 points at the regular weighting, got %v", points)
	}
	if len(sink.results) != 1 || sink.results[0].QuizType != domain.QuizTypeRegular {
		t.Fatalf("unexpected sink state: %+v", sink.results)
	}
	if sink.increments != 1 {
		t.Fatalf("expected one increment, got %d", sink.increments)
	}
}

func TestPracticeRecordResultKeepsPointsOnFailure(t *testing.T) {
	sink := &fakeSink{appendErr: errors.New("database down")}
	service := app.NewPracticeService(&fakeRepo{}, sink)

	points, err := service.RecordResult(context.Background(), "user-1", 4, 10, nil)
	if err == nil {
		t.Fatalf("expected error from failing sink")
	}
	if points != 1.0 {
		t.Fatalf("expected points despite failure, got %v", points)
	}
}
