package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/alphamano814/exam-jyoti/internal/domain"
)

type questionModel struct {
	bun.BaseModel `bun:"table:questions,alias:q"`

	ID            string    `bun:"id,pk"`
	Prompt        string    `bun:"question,notnull"`
	OptionA       string    `bun:"option_a,notnull"`
	OptionB       string    `bun:"option_b,notnull"`
	OptionC       string    `bun:"option_c,notnull"`
	OptionD       string    `bun:"option_d,notnull"`
	CorrectOption string    `bun:"correct_option,notnull"`
	Explanation   string    `bun:"explanation"`
	Category      string    `bun:"category,notnull"`
	Subject       string    `bun:"subject"`
	Difficulty    string    `bun:"difficulty"`
	Language      string    `bun:"language"`
	CreatedAt     time.Time `bun:"created_at,nullzero,default:now()"`
}

type examModel struct {
	bun.BaseModel `bun:"table:upcoming_exams,alias:e"`

	ID          string    `bun:"id,pk"`
	Title       string    `bun:"title,notnull"`
	Description string    `bun:"description"`
	ExamDate    time.Time `bun:"exam_date,notnull"`
	ExamTime    string    `bun:"exam_time"`
	Venue       string    `bun:"venue"`
	CreatedAt   time.Time `bun:"created_at,nullzero,default:now()"`
}

// NewBunDB opens a bun handle over the pgdriver connector for the given DSN.
func NewBunDB(dsn string) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New())
}

// AdminStore covers the administrator mutations: question CRUD, bulk import,
// and upcoming-exam management. Read traffic for quizzes goes through
// QuestionStore and the Redis cache, not here.
type AdminStore struct {
	db *bun.DB
}

func NewAdminStore(db *bun.DB) *AdminStore {
	return &AdminStore{db: db}
}

func (s *AdminStore) ListQuestions(ctx context.Context, category string, limit, offset int) ([]domain.Question, error) {
	if limit <= 0 {
		limit = 100
	}
	var models []questionModel
	q := s.db.NewSelect().Model(&models).Order("created_at", "id").Limit(limit).Offset(offset)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	out := make([]domain.Question, 0, len(models))
	for _, m := range models {
		out = append(out, m.toDomain())
	}
	return out, nil
}

func (s *AdminStore) CreateQuestion(ctx context.Context, q domain.Question) (domain.Question, error) {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	model := questionFromDomain(q)
	if _, err := s.db.NewInsert().Model(&model).Exec(ctx); err != nil {
		return domain.Question{}, fmt.Errorf("create question: %w", err)
	}
	return q, nil
}

func (s *AdminStore) UpdateQuestion(ctx context.Context, q domain.Question) error {
	model := questionFromDomain(q)
	res, err := s.db.NewUpdate().Model(&model).
		Column("question", "option_a", "option_b", "option_c", "option_d",
			"correct_option", "explanation", "category", "subject", "difficulty", "language").
		WherePK().Exec(ctx)
	if err != nil {
		return fmt.Errorf("update question: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrQuestionNotFound
	}
	return nil
}

func (s *AdminStore) DeleteQuestion(ctx context.Context, id string) error {
	res, err := s.db.NewDelete().Model((*questionModel)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrQuestionNotFound
	}
	return nil
}

// ImportQuestions bulk-inserts questions (the CSV upload path) and returns
// how many rows went in.
func (s *AdminStore) ImportQuestions(ctx context.Context, questions []domain.Question) (int, error) {
	if len(questions) == 0 {
		return 0, nil
	}
	models := make([]questionModel, 0, len(questions))
	for _, q := range questions {
		if q.ID == "" {
			q.ID = uuid.NewString()
		}
		models = append(models, questionFromDomain(q))
	}
	if _, err := s.db.NewInsert().Model(&models).Exec(ctx); err != nil {
		return 0, fmt.Errorf("import questions: %w", err)
	}
	return len(models), nil
}

func (s *AdminStore) ListExams(ctx context.Context) ([]domain.UpcomingExam, error) {
	var models []examModel
	if err := s.db.NewSelect().Model(&models).Order("exam_date").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list exams: %w", err)
	}
	out := make([]domain.UpcomingExam, 0, len(models))
	for _, m := range models {
		out = append(out, m.toDomain())
	}
	return out, nil
}

func (s *AdminStore) CreateExam(ctx context.Context, exam domain.UpcomingExam) (domain.UpcomingExam, error) {
	if exam.ID == "" {
		exam.ID = uuid.NewString()
	}
	model := examFromDomain(exam)
	if _, err := s.db.NewInsert().Model(&model).Exec(ctx); err != nil {
		return domain.UpcomingExam{}, fmt.Errorf("create exam: %w", err)
	}
	return exam, nil
}

func (s *AdminStore) UpdateExam(ctx context.Context, exam domain.UpcomingExam) error {
	model := examFromDomain(exam)
	res, err := s.db.NewUpdate().Model(&model).
		Column("title", "description", "exam_date", "exam_time", "venue").
		WherePK().Exec(ctx)
	if err != nil {
		return fmt.Errorf("update exam: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrExamNotFound
	}
	return nil
}

func (s *AdminStore) DeleteExam(ctx context.Context, id string) error {
	res, err := s.db.NewDelete().Model((*examModel)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete exam: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrExamNotFound
	}
	return nil
}

func (m questionModel) toDomain() domain.Question {
	return domain.Question{
		ID:            m.ID,
		Prompt:        m.Prompt,
		OptionA:       m.OptionA,
		OptionB:       m.OptionB,
		OptionC:       m.OptionC,
		OptionD:       m.OptionD,
		CorrectOption: m.CorrectOption,
		Explanation:   m.Explanation,
		Category:      domain.Category(m.Category),
		Subject:       m.Subject,
		Difficulty:    m.Difficulty,
		Language:      m.Language,
	}
}

func questionFromDomain(q domain.Question) questionModel {
	return questionModel{
		ID:            q.ID,
		Prompt:        q.Prompt,
		OptionA:       q.OptionA,
		OptionB:       q.OptionB,
		OptionC:       q.OptionC,
		OptionD:       q.OptionD,
		CorrectOption: q.CorrectOption,
		Explanation:   q.Explanation,
		Category:      string(q.Category),
		Subject:       q.Subject,
		Difficulty:    q.Difficulty,
		Language:      q.Language,
	}
}

func (m examModel) toDomain() domain.UpcomingExam {
	return domain.UpcomingExam{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		ExamDate:    m.ExamDate,
		ExamTime:    m.ExamTime,
		Venue:       m.Venue,
		CreatedAt:   m.CreatedAt,
	}
}

func examFromDomain(exam domain.UpcomingExam) examModel {
	return examModel{
		ID:          exam.ID,
		Title:       exam.Title,
		Description: exam.Description,
		ExamDate:    exam.ExamDate,
		ExamTime:    exam.ExamTime,
		Venue:       exam.Venue,
	}
}
