package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter wires the public API, the admin panel API, and the websocket
// quiz endpoint.
func NewRouter(api *APIHandler, admin *AdminHandler, ws *WSHandler) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})

	r.HandleFunc("/api/categories", api.ListCategories).Methods(http.MethodGet)
	r.HandleFunc("/api/daily/key", api.DailyKey).Methods(http.MethodGet)
	r.HandleFunc("/api/daily/quiz", api.DailyQuiz).Methods(http.MethodGet)
	r.HandleFunc("/api/practice/{category}", api.PracticePool).Methods(http.MethodGet)
	r.HandleFunc("/api/practice/results", api.PracticeResult).Methods(http.MethodPost)
	r.HandleFunc("/api/leaderboard", api.Leaderboard).Methods(http.MethodGet)
	r.HandleFunc("/api/exams", api.ListExams).Methods(http.MethodGet)

	if admin != nil {
		s := r.PathPrefix("/api/admin").Subrouter()
		s.Use(admin.RequireToken)
		s.HandleFunc("/questions", admin.ListQuestions).Methods(http.MethodGet)
		s.HandleFunc("/questions", admin.CreateQuestion).Methods(http.MethodPost)
		s.HandleFunc("/questions/import", admin.ImportQuestions).Methods(http.MethodPost)
		s.HandleFunc("/questions/{id}", admin.UpdateQuestion).Methods(http.MethodPut)
		s.HandleFunc("/questions/{id}", admin.DeleteQuestion).Methods(http.MethodDelete)
		s.HandleFunc("/exams", admin.CreateExam).Methods(http.MethodPost)
		s.HandleFunc("/exams/{id}", admin.UpdateExam).Methods(http.MethodPut)
		s.HandleFunc("/exams/{id}", admin.DeleteExam).Methods(http.MethodDelete)
	}

	if ws != nil {
		r.HandleFunc("/ws/daily", ws.ServeDaily)
	}

	return r
}
