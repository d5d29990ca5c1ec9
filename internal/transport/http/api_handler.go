package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/alphamano814/exam-jyoti/internal/app"
	"github.com/alphamano814/exam-jyoti/internal/domain"
)

// DailyQuizEngine is what the transport layer needs from the daily quiz
// engine; *app.DailyEngine implements it.
type DailyQuizEngine interface {
	QuizKey() string
	LoadQuizForKey(ctx context.Context, key string) ([]domain.Question, error)
	StartRunForKey(ctx context.Context, key string) (*app.DailyRun, error)
	CompleteRun(ctx context.Context, userID string, run *app.DailyRun) (app.RunSummary, error)
}

// APIHandler serves the public quiz API.
type APIHandler struct {
	engine      DailyQuizEngine
	practice    *app.PracticeService
	leaderboard app.LeaderboardReader
	exams       app.ExamStore
}

func NewAPIHandler(engine DailyQuizEngine, practice *app.PracticeService, leaderboard app.LeaderboardReader, exams app.ExamStore) *APIHandler {
	return &APIHandler{engine: engine, practice: practice, leaderboard: leaderboard, exams: exams}
}

// questionView is a question as shown during the daily quiz: the correct
// option and explanation stay server-side until the answer is in.
type questionView struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	OptionA  string `json:"option_a"`
	OptionB  string `json:"option_b"`
	OptionC  string `json:"option_c"`
	OptionD  string `json:"option_d"`
	Category string `json:"category"`
}

func viewOf(q domain.Question) questionView {
	return questionView{
		ID:       q.ID,
		Question: q.Prompt,
		OptionA:  q.OptionA,
		OptionB:  q.OptionB,
		OptionC:  q.OptionC,
		OptionD:  q.OptionD,
		Category: string(q.Category),
	}
}

// ListCategories returns the fixed category enumeration with display names
// in the requested language.
func (h *APIHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	lang := r.URL.Query().Get("lang")
	if lang == "" {
		lang = "en"
	}
	type categoryView struct {
		Tag  string `json:"tag"`
		Name string `json:"name"`
	}
	out := make([]categoryView, 0, len(domain.Categories))
	for _, c := range domain.Categories {
		out = append(out, categoryView{Tag: string(c), Name: c.DisplayName(lang)})
	}
	writeJSON(w, http.StatusOK, out)
}

// DailyKey returns today's quiz key.
func (h *APIHandler) DailyKey(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"key": h.engine.QuizKey()})
}

// DailyQuiz returns today's question list. The caller checks ready before
// offering the start button; a short quiz is retried by fetching again.
func (h *APIHandler) DailyQuiz(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		key = h.engine.QuizKey()
	}
	questions, err := h.engine.LoadQuizForKey(r.Context(), key)
	if err != nil {
		writeError(w, http.StatusBadGateway, "failed to load daily quiz")
		return
	}
	views := make([]questionView, 0, len(questions))
	for _, q := range questions {
		views = append(views, viewOf(q))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"key":       key,
		"count":     len(views),
		"ready":     len(views) == app.DailyQuizSize,
		"questions": views,
	})
}

// PracticePool returns a category's full question pool, correct options and
// explanations included; practice quizzes are graded on the client.
func (h *APIHandler) PracticePool(w http.ResponseWriter, r *http.Request) {
	category := mux.Vars(r)["category"]
	pool, err := h.practice.LoadCategory(r.Context(), domain.Category(category))
	if err != nil {
		if !domain.ValidCategory(category) {
			writeError(w, http.StatusNotFound, "unknown category")
			return
		}
		writeError(w, http.StatusBadGateway, "failed to load questions")
		return
	}
	writeJSON(w, http.StatusOK, pool)
}

type practiceResultRequest struct {
	UserID         string                `json:"user_id"`
	Score          int                   `json:"score"`
	TotalQuestions int                   `json:"total_questions"`
	Breakdown      []domain.AnswerRecord `json:"questions_attempted"`
}

// PracticeResult records a finished practice quiz. A persistence failure
// still reports the earned points; the client shows the score either way.
func (h *APIHandler) PracticeResult(w http.ResponseWriter, r *http.Request) {
	var req practiceResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.UserID == "" || req.TotalQuestions <= 0 || req.Score < 0 || req.Score > req.TotalQuestions {
		writeError(w, http.StatusBadRequest, "invalid result")
		return
	}
	points, err := h.practice.RecordResult(r.Context(), req.UserID, req.Score, req.TotalQuestions, req.Breakdown)
	resp := map[string]any{"points_awarded": points, "saved": err == nil}
	if err != nil {
		log.Printf("practice result: %v", err)
		resp["error"] = "failed to save results"
	}
	writeJSON(w, http.StatusOK, resp)
}

// Leaderboard returns the ranked aggregate rows.
func (h *APIHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	rows, err := h.leaderboard.TopRows(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusBadGateway, "failed to load leaderboard")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// ListExams returns upcoming exam announcements ordered by date.
func (h *APIHandler) ListExams(w http.ResponseWriter, r *http.Request) {
	exams, err := h.exams.ListExams(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, "failed to load exams")
		return
	}
	writeJSON(w, http.StatusOK, exams)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
