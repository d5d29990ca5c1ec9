package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/alphamano814/exam-jyoti/internal/domain"
)

// ExamStore keeps upcoming-exam announcements in memory.
type ExamStore struct {
	mu    sync.RWMutex
	exams map[string]domain.UpcomingExam
}

func NewExamStore() *ExamStore {
	return &ExamStore{exams: make(map[string]domain.UpcomingExam)}
}

func (s *ExamStore) ListExams(_ context.Context) ([]domain.UpcomingExam, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	exams := make([]domain.UpcomingExam, 0, len(s.exams))
	for _, exam := range s.exams {
		exams = append(exams, exam)
	}
	sort.Slice(exams, func(i, j int) bool {
		return exams[i].ExamDate.Before(exams[j].ExamDate)
	})
	return exams, nil
}

func (s *ExamStore) CreateExam(_ context.Context, exam domain.UpcomingExam) (domain.UpcomingExam, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if exam.ID == "" {
		exam.ID = uuid.NewString()
	}
	if exam.CreatedAt.IsZero() {
		exam.CreatedAt = time.Now()
	}
	s.exams[exam.ID] = exam
	return exam, nil
}

func (s *ExamStore) UpdateExam(_ context.Context, exam domain.UpcomingExam) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.exams[exam.ID]; !ok {
		return domain.ErrExamNotFound
	}
	s.exams[exam.ID] = exam
	return nil
}

func (s *ExamStore) DeleteExam(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.exams[id]; !ok {
		return domain.ErrExamNotFound
	}
	delete(s.exams, id)
	return nil
}
