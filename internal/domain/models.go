package domain

import "time"

// Option tags for the four answers of an MCQ question.
const (
	OptionA = "A"
	OptionB = "B"
	OptionC = "C"
	OptionD = "D"
)

// OptionTags lists the valid answer tags in display order.
var OptionTags = []string{OptionA, OptionB, OptionC, OptionD}

// Question models an MCQ question with exactly one correct option.
// The engine treats questions as immutable, read-only input; only the admin
// store mutates them.
type Question struct {
	ID            string   `json:"id"`
	Prompt        string   `json:"question"`
	OptionA       string   `json:"option_a"`
	OptionB       string   `json:"option_b"`
	OptionC       string   `json:"option_c"`
	OptionD       string   `json:"option_d"`
	CorrectOption string   `json:"correct_option"`
	Explanation   string   `json:"explanation,omitempty"`
	Category      Category `json:"category"`
	Subject       string   `json:"subject,omitempty"`
	Difficulty    string   `json:"difficulty,omitempty"`
	Language      string   `json:"language,omitempty"`
}

// Option returns the text of the option with the given tag.
func (q Question) Option(tag string) string {
	switch tag {
	case OptionA:
		return q.OptionA
	case OptionB:
		return q.OptionB
	case OptionC:
		return q.OptionC
	case OptionD:
		return q.OptionD
	}
	return ""
}

// QuizType distinguishes the daily quiz from regular practice quizzes; the two
// carry different point weightings.
type QuizType string

const (
	QuizTypeDaily   QuizType = "daily"
	QuizTypeRegular QuizType = "regular"
)

// PointsPerCorrect returns the leaderboard weight for one correct answer.
func (t QuizType) PointsPerCorrect() float64 {
	if t == QuizTypeDaily {
		return 0.5
	}
	return 0.25
}

// AnswerRecord is one entry of the per-question breakdown persisted with a
// result.
type AnswerRecord struct {
	QuestionID   string `json:"question_id"`
	ChosenOption string `json:"chosen_option,omitempty"`
	Attempted    bool   `json:"attempted"`
	Correct      bool   `json:"is_correct"`
}

// QuizResult is the append-only record of one completed run. It is written
// once and never updated.
type QuizResult struct {
	ID             string         `json:"id"`
	UserID         string         `json:"user_id"`
	QuizType       QuizType       `json:"quiz_type"`
	Score          int            `json:"score"`
	TotalQuestions int            `json:"total_questions"`
	Breakdown      []AnswerRecord `json:"questions_attempted"`
	CompletedAt    time.Time      `json:"completed_at"`
}

// LeaderboardRow is the per-user running aggregate. All fields are
// monotonically non-decreasing; mutation happens only through the sink's
// atomic increment.
type LeaderboardRow struct {
	UserID                     string    `json:"user_id"`
	DisplayName                string    `json:"display_name,omitempty"`
	TotalPoints                float64   `json:"total_points"`
	QuizPoints                 float64   `json:"quiz_points"`
	DailyQuizPoints            float64   `json:"daily_quiz_points"`
	TotalQuizzesCompleted      int       `json:"total_quizzes_completed"`
	TotalDailyQuizzesCompleted int       `json:"total_daily_quizzes_completed"`
	UpdatedAt                  time.Time `json:"updated_at"`
}

// UpcomingExam is an administrator-managed exam announcement.
type UpcomingExam struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	ExamDate    time.Time `json:"exam_date"`
	ExamTime    string    `json:"exam_time,omitempty"`
	Venue       string    `json:"venue,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
