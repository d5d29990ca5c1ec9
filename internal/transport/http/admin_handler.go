package http

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/alphamano814/exam-jyoti/internal/bulk"
	"github.com/alphamano814/exam-jyoti/internal/domain"
)

// QuestionAdminStore is the mutation surface of the question bank.
type QuestionAdminStore interface {
	ListQuestions(ctx context.Context, category string, limit, offset int) ([]domain.Question, error)
	CreateQuestion(ctx context.Context, q domain.Question) (domain.Question, error)
	UpdateQuestion(ctx context.Context, q domain.Question) error
	DeleteQuestion(ctx context.Context, id string) error
	ImportQuestions(ctx context.Context, questions []domain.Question) (int, error)
}

// ExamAdminStore manages upcoming-exam announcements.
type ExamAdminStore interface {
	ListExams(ctx context.Context) ([]domain.UpcomingExam, error)
	CreateExam(ctx context.Context, exam domain.UpcomingExam) (domain.UpcomingExam, error)
	UpdateExam(ctx context.Context, exam domain.UpcomingExam) error
	DeleteExam(ctx context.Context, id string) error
}

// ChangePublisher notifies caches that the question bank changed.
type ChangePublisher interface {
	PublishQuestionsChanged(ctx context.Context, category string) error
}

// AdminHandler serves the admin panel API. Every route is guarded by the
// shared-token middleware.
type AdminHandler struct {
	questions QuestionAdminStore
	exams     ExamAdminStore
	feed      ChangePublisher
	token     string
}

func NewAdminHandler(questions QuestionAdminStore, exams ExamAdminStore, feed ChangePublisher, token string) *AdminHandler {
	return &AdminHandler{questions: questions, exams: exams, feed: feed, token: token}
}

// RequireToken rejects requests without the configured X-Admin-Token header.
// With no token configured the admin API is disabled entirely.
func (h *AdminHandler) RequireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.token == "" {
			writeError(w, http.StatusServiceUnavailable, "admin API disabled")
			return
		}
		got := r.Header.Get("X-Admin-Token")
		if subtle.ConstantTimeCompare([]byte(got), []byte(h.token)) != 1 {
			writeError(w, http.StatusUnauthorized, "invalid admin token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *AdminHandler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category != "" && !domain.ValidCategory(category) {
		writeError(w, http.StatusBadRequest, "unknown category")
		return
	}
	questions, err := h.questions.ListQuestions(r.Context(), category, 0, 0)
	if err != nil {
		writeError(w, http.StatusBadGateway, "failed to list questions")
		return
	}
	writeJSON(w, http.StatusOK, questions)
}

func (h *AdminHandler) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	var q domain.Question
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if !domain.ValidCategory(string(q.Category)) {
		writeError(w, http.StatusBadRequest, "unknown category")
		return
	}
	created, err := h.questions.CreateQuestion(r.Context(), q)
	if err != nil {
		writeError(w, http.StatusBadGateway, "failed to create question")
		return
	}
	h.publishChange(r.Context(), string(created.Category))
	writeJSON(w, http.StatusCreated, created)
}

func (h *AdminHandler) UpdateQuestion(w http.ResponseWriter, r *http.Request) {
	var q domain.Question
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	q.ID = mux.Vars(r)["id"]
	if err := h.questions.UpdateQuestion(r.Context(), q); err != nil {
		if errors.Is(err, domain.ErrQuestionNotFound) {
			writeError(w, http.StatusNotFound, "question not found")
			return
		}
		writeError(w, http.StatusBadGateway, "failed to update question")
		return
	}
	h.publishChange(r.Context(), string(q.Category))
	writeJSON(w, http.StatusOK, q)
}

func (h *AdminHandler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.questions.DeleteQuestion(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrQuestionNotFound) {
			writeError(w, http.StatusNotFound, "question not found")
			return
		}
		writeError(w, http.StatusBadGateway, "failed to delete question")
		return
	}
	// The deleted row's category is gone with it; drop every pool.
	h.publishChange(r.Context(), "")
	w.WriteHeader(http.StatusNoContent)
}

// ImportQuestions accepts a CSV body (the bulk upload path of the admin
// panel) and inserts every row.
func (h *AdminHandler) ImportQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := bulk.ParseQuestionsCSV(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid CSV: "+err.Error())
		return
	}
	n, err := h.questions.ImportQuestions(r.Context(), questions)
	if err != nil {
		writeError(w, http.StatusBadGateway, "failed to import questions")
		return
	}
	h.publishChange(r.Context(), "")
	writeJSON(w, http.StatusOK, map[string]int{"imported": n})
}

func (h *AdminHandler) CreateExam(w http.ResponseWriter, r *http.Request) {
	var exam domain.UpcomingExam
	if err := json.NewDecoder(r.Body).Decode(&exam); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if exam.Title == "" || exam.ExamDate.IsZero() {
		writeError(w, http.StatusBadRequest, "title and exam_date are required")
		return
	}
	created, err := h.exams.CreateExam(r.Context(), exam)
	if err != nil {
		writeError(w, http.StatusBadGateway, "failed to create exam")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *AdminHandler) UpdateExam(w http.ResponseWriter, r *http.Request) {
	var exam domain.UpcomingExam
	if err := json.NewDecoder(r.Body).Decode(&exam); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	exam.ID = mux.Vars(r)["id"]
	if err := h.exams.UpdateExam(r.Context(), exam); err != nil {
		if errors.Is(err, domain.ErrExamNotFound) {
			writeError(w, http.StatusNotFound, "exam not found")
			return
		}
		writeError(w, http.StatusBadGateway, "failed to update exam")
		return
	}
	writeJSON(w, http.StatusOK, exam)
}

func (h *AdminHandler) DeleteExam(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.exams.DeleteExam(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrExamNotFound) {
			writeError(w, http.StatusNotFound, "exam not found")
			return
		}
		writeError(w, http.StatusBadGateway, "failed to delete exam")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) publishChange(ctx context.Context, category string) {
	if h.feed == nil {
		return
	}
	if err := h.feed.PublishQuestionsChanged(ctx, category); err != nil {
		log.Printf("admin: publish change: %v", err)
	}
}
