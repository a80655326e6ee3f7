package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"queon/internal/models"
)

// MemoryStore keeps everything in process memory. Used by tests and as
// a zero-setup backend for local development.
type MemoryStore struct {
	mu        sync.RWMutex
	exams     map[string]models.ExamSession
	incidents map[string][]models.Incident // keyed by examId
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		exams:     make(map[string]models.ExamSession),
		incidents: make(map[string][]models.Incident),
	}
}

func (s *MemoryStore) CreateExam(_ context.Context, exam *models.ExamSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exams[exam.ID] = *exam
	return nil
}

func (s *MemoryStore) FindExamByID(_ context.Context, id string) (*models.ExamSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	exam, ok := s.exams[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &exam, nil
}

func (s *MemoryStore) ListExams(_ context.Context) ([]models.ExamSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ExamSession, 0, len(s.exams))
	for _, exam := range s.exams {
		out = append(out, exam)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStore) SaveIncident(_ context.Context, inc *models.Incident) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if inc.ID == "" {
		inc.ID = uuid.NewString()
	}
	if inc.ReceivedAt.IsZero() {
		inc.ReceivedAt = time.Now().UTC()
	}
	s.incidents[inc.ExamID] = append(s.incidents[inc.ExamID], *inc)
	return nil
}

func (s *MemoryStore) ListIncidents(_ context.Context, examID string) ([]models.Incident, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Incident, len(s.incidents[examID]))
	copy(out, s.incidents[examID])
	return out, nil
}
