package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/alphamano814/exam-jyoti/internal/app"
	"github.com/alphamano814/exam-jyoti/internal/domain"
	"github.com/alphamano814/exam-jyoti/internal/infra/memory"
	transport "github.com/alphamano814/exam-jyoti/internal/transport/http"
)

// stubEngine serves a fixed ten-question quiz, sidestepping the category
// pools entirely.
type stubEngine struct {
	questions []domain.Question
	completed int
}

func (e *stubEngine) QuizKey() string { return "2026-03-15" }

func (e *stubEngine) LoadQuizForKey(context.Context, string) ([]domain.Question, error) {
	return e.questions, nil
}

func (e *stubEngine) StartRunForKey(context.Context, string) (*app.DailyRun, error) {
	run := app.NewDailyRun(e.questions, 0)
	if err := run.Start(); err != nil {
		return nil, err
	}
	return run, nil
}

func (e *stubEngine) CompleteRun(_ context.Context, _ string, run *app.DailyRun) (app.RunSummary, error) {
	e.completed++
	score := run.Score()
	return app.RunSummary{
		Score:         score,
		Total:         run.Total(),
		PointsAwarded: float64(score) * domain.QuizTypeDaily.PointsPerCorrect(),
		Percentage:    score * 100 / run.Total(),
	}, nil
}

func wsQuestions() []domain.Question {
	questions := make([]domain.Question, 10)
	for i := range questions {
		questions[i] = domain.Question{
			ID:            fmt.Sprintf("q%d", i),
			Prompt:        fmt.Sprintf("question %d", i),
			OptionA:       "right",
			OptionB:       "wrong",
			CorrectOption: domain.OptionA,
		}
	}
	return questions
}

type wsEnvelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func dialDaily(t *testing.T, engine transport.DailyQuizEngine) *websocket.Conn {
	t.Helper()
	ws := transport.NewWSHandler(engine)
	server := httptest.NewServer(transport.NewRouter(newBareAPI(), nil, ws))
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/daily?userId=u1"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func readEnvelope(t *testing.T, conn *websocket.Conn) wsEnvelope {
	t.Helper()
	var env wsEnvelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read: %v", err)
	}
	return env
}

func TestServeDailyFullRun(t *testing.T) {
	engine := &stubEngine{questions: wsQuestions()}
	conn := dialDaily(t, engine)

	// The quiz info message arrives right after the upgrade.
	info := readEnvelope(t, conn)
	if info.Type != "quiz" {
		t.Fatalf("expected quiz message, got %s", info.Type)
	}
	var quiz struct {
		Key   string `json:"key"`
		Count int    `json:"count"`
		Ready bool   `json:"ready"`
	}
	if err := json.Unmarshal(info.Payload, &quiz); err != nil {
		t.Fatalf("decode quiz: %v", err)
	}
	if quiz.Key != "2026-03-15" || quiz.Count != 10 || !quiz.Ready {
		t.Fatalf("unexpected quiz info %+v", quiz)
	}

	if err := conn.WriteJSON(map[string]any{"type": "start"}); err != nil {
		t.Fatalf("send start: %v", err)
	}
	for i := 0; i < 10; i++ {
		option := domain.OptionA
		if i >= 7 {
			option = domain.OptionB
		}
		err := conn.WriteJSON(map[string]any{
			"type":    "answer",
			"payload": map[string]string{"question_id": fmt.Sprintf("q%d", i), "option": option},
		})
		if err != nil {
			t.Fatalf("send answer %d: %v", i, err)
		}
	}

	// With a zero advance delay the next question is pushed inside the answer
	// submission, so questions and answer results interleave; collect until
	// the summary lands.
	questions := 0
	answers := 0
	var summary struct {
		app.RunSummary
		Saved bool `json:"saved"`
	}
	for {
		env := readEnvelope(t, conn)
		switch env.Type {
		case "question":
			questions++
		case "answerResult":
			answers++
		case "summary":
			if err := json.Unmarshal(env.Payload, &summary); err != nil {
				t.Fatalf("decode summary: %v", err)
			}
		case "error":
			t.Fatalf("unexpected error message: %s", env.Payload)
		}
		if summary.Total != 0 {
			break
		}
	}

	if questions != 10 || answers != 10 {
		t.Fatalf("expected 10 questions and 10 answer results, got %d/%d", questions, answers)
	}
	if summary.Score != 7 || summary.Total != 10 || summary.PointsAwarded != 3.5 || !summary.Saved {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if engine.completed != 1 {
		t.Fatalf("expected one completion, got %d", engine.completed)
	}
}

func TestServeDailyAnswerBeforeStart(t *testing.T) {
	engine := &stubEngine{questions: wsQuestions()}
	conn := dialDaily(t, engine)

	readEnvelope(t, conn) // quiz info

	err := conn.WriteJSON(map[string]any{
		"type":    "answer",
		"payload": map[string]string{"question_id": "q0", "option": domain.OptionA},
	})
	if err != nil {
		t.Fatalf("send answer: %v", err)
	}
	env := readEnvelope(t, conn)
	if env.Type != "error" {
		t.Fatalf("expected error before start, got %s", env.Type)
	}
}

func TestServeDailyRefusesShortQuiz(t *testing.T) {
	engine := &stubEngine{questions: wsQuestions()[:9]}
	conn := dialDaily(t, engine)

	readEnvelope(t, conn) // quiz info, ready=false

	if err := conn.WriteJSON(map[string]any{"type": "start"}); err != nil {
		t.Fatalf("send start: %v", err)
	}
	env := readEnvelope(t, conn)
	if env.Type != "error" {
		t.Fatalf("expected error for short quiz, got %s", env.Type)
	}
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(env.Payload, &payload); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if !strings.Contains(payload.Message, "not enough questions") {
		t.Fatalf("unexpected message %q", payload.Message)
	}
}

func TestServeDailyRequiresUserID(t *testing.T) {
	ws := transport.NewWSHandler(&stubEngine{questions: wsQuestions()})
	server := httptest.NewServer(transport.NewRouter(newBareAPI(), nil, ws))
	t.Cleanup(server.Close)

	resp, err := http.Get(server.URL + "/ws/daily")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 without userId, got %d", resp.StatusCode)
	}
}

// newBareAPI builds an APIHandler over empty in-memory stores; the websocket
// tests only need the router to accept it.
func newBareAPI() *transport.APIHandler {
	bank := memory.NewQuestionBank(nil)
	results := memory.NewResultStore()
	return transport.NewAPIHandler(
		app.NewDailyEngine(bank, results),
		app.NewPracticeService(bank, results),
		results, memory.NewExamStore())
}
