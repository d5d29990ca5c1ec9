package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/alphamano814/exam-jyoti/internal/app"
	"github.com/alphamano814/exam-jyoti/internal/domain"
)

// WSHandler runs interactive daily quiz sessions over websockets.
type WSHandler struct {
	engine   DailyQuizEngine
	upgrader websocket.Upgrader
}

func NewWSHandler(engine DailyQuizEngine) *WSHandler {
	return &WSHandler{
		engine: engine,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type quizInfoPayload struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
	Ready bool   `json:"ready"`
}

type questionPayload struct {
	Index    int          `json:"index"`
	Total    int          `json:"total"`
	Question questionView `json:"question"`
}

type answerMessage struct {
	QuestionID string `json:"question_id"`
	Option     string `json:"option"`
}

type answerResultPayload struct {
	QuestionID    string `json:"question_id"`
	Correct       bool   `json:"correct"`
	CorrectOption string `json:"correct_option"`
	Explanation   string `json:"explanation,omitempty"`
	Score         int    `json:"score"`
}

type summaryPayload struct {
	app.RunSummary
	Saved bool   `json:"saved"`
	Error string `json:"error,omitempty"`
}

// ServeDaily drives one daily quiz session: the client connects with its
// userId (and optionally its local daily key), starts the run, answers
// question by question, and receives the summary after the last answer. The
// auto-advance between questions runs on the engine's cancellable timer;
// closing the socket tears the run down and the pending advance never fires.
func (h *WSHandler) ServeDaily(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, "missing userId", http.StatusBadRequest)
		return
	}
	key := r.URL.Query().Get("key")
	if key == "" {
		key = h.engine.QuizKey()
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	send := make(chan any, 16)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	// The advance timer enqueues from its own goroutine, so the channel close
	// has to be fenced against late callbacks.
	var sendMu sync.Mutex
	sendClosed := false
	enqueue := func(msg any) {
		sendMu.Lock()
		defer sendMu.Unlock()
		if sendClosed {
			return
		}
		select {
		case send <- msg:
		default:
			log.Printf("ws: dropping message for slow client %s", userID)
		}
	}
	closeSend := func() {
		sendMu.Lock()
		sendClosed = true
		close(send)
		sendMu.Unlock()
	}

	questions, err := h.engine.LoadQuizForKey(r.Context(), key)
	if err != nil {
		enqueue(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: "failed to load daily quiz"}})
		closeSend()
		<-writerDone
		return
	}
	enqueue(outboundMessage[quizInfoPayload]{Type: "quiz", Payload: quizInfoPayload{
		Key:   key,
		Count: len(questions),
		Ready: len(questions) == app.DailyQuizSize,
	}})

	var run *app.DailyRun
	defer func() {
		if run != nil {
			run.Close()
		}
	}()

	sendQuestion := func(index int) {
		q, ok := run.QuestionAt(index)
		if !ok {
			return
		}
		enqueue(outboundMessage[questionPayload]{Type: "question", Payload: questionPayload{
			Index:    index,
			Total:    run.Total(),
			Question: viewOf(q),
		}})
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}

		switch inbound.Type {
		case "start":
			if run != nil {
				enqueue(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: "quiz already started"}})
				continue
			}
			started, err := h.engine.StartRunForKey(r.Context(), key)
			if err != nil {
				if errors.Is(err, domain.ErrNotEnoughQuestions) {
					enqueue(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: "not enough questions available for today's quiz"}})
				} else {
					enqueue(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: "failed to start quiz"}})
				}
				continue
			}
			run = started
			run.SetAdvanceFunc(sendQuestion)
			sendQuestion(0)

		case "answer":
			if run == nil {
				enqueue(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: "quiz not started"}})
				continue
			}
			var payload answerMessage
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				enqueue(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: "invalid answer payload"}})
				continue
			}
			outcome, err := run.SubmitAnswer(payload.QuestionID, payload.Option)
			if err != nil {
				enqueue(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
				continue
			}
			enqueue(outboundMessage[answerResultPayload]{Type: "answerResult", Payload: answerResultPayload{
				QuestionID:    payload.QuestionID,
				Correct:       outcome.Correct,
				CorrectOption: outcome.CorrectOption,
				Explanation:   outcome.Explanation,
				Score:         run.Score(),
			}})

			if run.State() == app.RunCompleted {
				summary, err := h.engine.CompleteRun(r.Context(), userID, run)
				payload := summaryPayload{RunSummary: summary, Saved: err == nil}
				if err != nil {
					log.Printf("ws: complete run for %s: %v", userID, err)
					payload.Error = "failed to save results"
				}
				enqueue(outboundMessage[summaryPayload]{Type: "summary", Payload: payload})
			}

		default:
			enqueue(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}})
		}
	}

	if run != nil {
		run.Close()
	}
	closeSend()
	<-writerDone
}
