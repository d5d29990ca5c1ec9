package app

import (
	"sync"
	"time"

	"github.com/alphamano814/exam-jyoti/internal/domain"
)

// RunState is the lifecycle phase of a daily quiz run.
type RunState int

const (
	RunNotStarted RunState = iota
	RunInProgress
	RunCompleted
)

func (s RunState) String() string {
	switch s {
	case RunNotStarted:
		return "not_started"
	case RunInProgress:
		return "in_progress"
	case RunCompleted:
		return "completed"
	}
	return "unknown"
}

// AnswerOutcome tells the caller how a single submission fared.
type AnswerOutcome struct {
	Correct       bool   `json:"correct"`
	CorrectOption string `json:"correct_option"`
	Explanation   string `json:"explanation,omitempty"`
}

// DailyRun is the ephemeral state of one attempt at the daily quiz. It is
// created in NotStarted, accepts exactly one answer per question while
// InProgress (the first answer is final), and becomes Completed after the
// last answer. There are no skip or back transitions. Abandoning a run simply
// means calling Close and discarding it; nothing partial is persisted.
//
// After each accepted answer (except the last) the run advances to the next
// question once advanceDelay elapses, through a cancellable timer. Close
// invalidates any pending advance so it cannot fire against stale state.
type DailyRun struct {
	mu             sync.Mutex
	state          RunState
	questions      []domain.Question
	answers        []domain.AnswerRecord
	index          int
	correct        int
	pendingAdvance bool
	advanceDelay   time.Duration
	advanceTimer   *time.Timer
	onAdvance      func(nextIndex int)
	closed         bool
	submitted      bool
}

// NewDailyRun builds a run over an already-selected, already-shuffled
// question list. The run starts in NotStarted.
func NewDailyRun(questions []domain.Question, advanceDelay time.Duration) *DailyRun {
	answers := make([]domain.AnswerRecord, len(questions))
	for i, q := range questions {
		answers[i] = domain.AnswerRecord{QuestionID: q.ID}
	}
	return &DailyRun{
		questions:    questions,
		answers:      answers,
		advanceDelay: advanceDelay,
	}
}

// SetAdvanceFunc registers a callback invoked with the next question index
// each time the run auto-advances. Set it before Start; it is called without
// the run lock held.
func (r *DailyRun) SetAdvanceFunc(fn func(nextIndex int)) {
	r.mu.Lock()
	r.onAdvance = fn
	r.mu.Unlock()
}

// Start moves the run to InProgress. The transition is refused unless exactly
// DailyQuizSize questions are available; the caller should refetch and retry.
func (r *DailyRun) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch r.state {
	case RunInProgress:
		return nil
	case RunCompleted:
		return domain.ErrRunCompleted
	}
	if len(r.questions) != DailyQuizSize {
		return domain.ErrNotEnoughQuestions
	}
	r.state = RunInProgress
	return nil
}

// SubmitAnswer records the answer for the current question. Repeat
// submissions for an already-answered question return ErrAlreadyAnswered.
// Accepting the final answer completes the run immediately; otherwise the
// advance to the next question is scheduled after the configured delay (or
// happens synchronously with a zero delay).
func (r *DailyRun) SubmitAnswer(questionID, option string) (AnswerOutcome, error) {
	r.mu.Lock()

	switch r.state {
	case RunNotStarted:
		r.mu.Unlock()
		return AnswerOutcome{}, domain.ErrRunNotStarted
	case RunCompleted:
		r.mu.Unlock()
		return AnswerOutcome{}, domain.ErrRunCompleted
	}

	if !validOption(option) {
		r.mu.Unlock()
		return AnswerOutcome{}, domain.ErrInvalidOption
	}

	current := r.questions[r.index]
	if current.ID != questionID {
		for i := 0; i < r.index; i++ {
			if r.questions[i].ID == questionID {
				r.mu.Unlock()
				return AnswerOutcome{}, domain.ErrAlreadyAnswered
			}
		}
		r.mu.Unlock()
		return AnswerOutcome{}, domain.ErrQuestionNotFound
	}
	if r.pendingAdvance {
		// Current question answered already; waiting for the timer.
		r.mu.Unlock()
		return AnswerOutcome{}, domain.ErrAlreadyAnswered
	}

	correct := option == current.CorrectOption
	if correct {
		r.correct++
	}
	r.answers[r.index] = domain.AnswerRecord{
		QuestionID:   current.ID,
		ChosenOption: option,
		Attempted:    true,
		Correct:      correct,
	}
	outcome := AnswerOutcome{
		Correct:       correct,
		CorrectOption: current.CorrectOption,
		Explanation:   current.Explanation,
	}

	if r.index == len(r.questions)-1 {
		r.state = RunCompleted
		r.stopTimerLocked()
		r.mu.Unlock()
		return outcome, nil
	}

	if r.advanceDelay <= 0 {
		r.index++
		fn, next := r.onAdvance, r.index
		r.mu.Unlock()
		if fn != nil {
			fn(next)
		}
		return outcome, nil
	}

	r.pendingAdvance = true
	r.advanceTimer = time.AfterFunc(r.advanceDelay, r.advance)
	r.mu.Unlock()
	return outcome, nil
}

func (r *DailyRun) advance() {
	r.mu.Lock()
	if r.closed || r.state != RunInProgress || !r.pendingAdvance {
		r.mu.Unlock()
		return
	}
	r.pendingAdvance = false
	r.index++
	fn, next := r.onAdvance, r.index
	r.mu.Unlock()
	if fn != nil {
		fn(next)
	}
}

// Close discards the run. Any scheduled auto-advance is stopped so it cannot
// mutate state after the owner is gone.
func (r *DailyRun) Close() {
	r.mu.Lock()
	r.closed = true
	r.stopTimerLocked()
	r.mu.Unlock()
}

func (r *DailyRun) stopTimerLocked() {
	if r.advanceTimer != nil {
		r.advanceTimer.Stop()
		r.advanceTimer = nil
	}
	r.pendingAdvance = false
}

// State returns the run's current lifecycle phase.
func (r *DailyRun) State() RunState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// CurrentQuestion returns the question awaiting an answer, or false once the
// run is completed or before it started.
func (r *DailyRun) CurrentQuestion() (domain.Question, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != RunInProgress {
		return domain.Question{}, false
	}
	return r.questions[r.index], true
}

// QuestionAt returns the question at a given position, for callers rendering
// the full list.
func (r *DailyRun) QuestionAt(i int) (domain.Question, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i < 0 || i >= len(r.questions) {
		return domain.Question{}, false
	}
	return r.questions[i], true
}

// Index returns the position of the current question.
func (r *DailyRun) Index() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.index
}

// Score returns the running count of correct answers.
func (r *DailyRun) Score() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.correct
}

// Total returns the number of questions in the run.
func (r *DailyRun) Total() int {
	return len(r.questions)
}

// Answers returns a copy of the per-question breakdown.
func (r *DailyRun) Answers() []domain.AnswerRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.AnswerRecord, len(r.answers))
	copy(out, r.answers)
	return out
}

// markSubmitted flips the one-shot submission latch; it reports whether this
// call was the first.
func (r *DailyRun) markSubmitted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.submitted {
		return false
	}
	r.submitted = true
	return true
}

func validOption(tag string) bool {
	for _, t := range domain.OptionTags {
		if t == tag {
			return true
		}
	}
	return false
}
