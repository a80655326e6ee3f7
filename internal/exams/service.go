// Package exams holds the business rules for the proctoring workflow:
// issuing exam sessions with their entry/exit tokens and validating
// presented tokens. Everything here is stateless over an injected Store.
package exams

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"queon/internal/models"
	"queon/internal/store"
	"queon/internal/token"
	"queon/internal/utils"
)

// PlaceholderInvigilatorID is used as the owner of sessions created
// without an authenticated invigilator.
const PlaceholderInvigilatorID = "dummy-invigilator-id"

type Service struct {
	store store.Store
}

func NewService(st store.Store) *Service {
	return &Service{store: st}
}

// CreateSession issues a new exam session with freshly generated entry
// and exit tokens. The session is active immediately.
func (s *Service) CreateSession(ctx context.Context, examName string, room *string, durationMinutes int, createdByID string) (*models.ExamSession, error) {
	if examName == "" {
		return nil, utils.New(utils.KindInvalidInput, "examName is required")
	}
	if durationMinutes <= 0 {
		return nil, utils.New(utils.KindInvalidInput, "durationMinutes must be a positive number")
	}
	if createdByID == "" {
		createdByID = PlaceholderInvigilatorID
	}

	exam := &models.ExamSession{
		ID:              uuid.NewString(),
		ExamName:        examName,
		Room:            room,
		DurationMinutes: durationMinutes,
		EntryToken:      token.NewEntry(),
		ExitToken:       token.NewExit(),
		IsActive:        true,
		CreatedByID:     createdByID,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.store.CreateExam(ctx, exam); err != nil {
		return nil, fmt.Errorf("create exam session: %w", err)
	}
	return exam, nil
}

// Decision is the outcome of a token validation. ExamName and
// DurationMinutes are only populated for an allowed entry validation.
type Decision struct {
	Allowed         bool
	ExamID          string
	ExamName        string
	DurationMinutes int
	Message         string
	Reason          string
}

// Validate checks a presented token against the session's token for the
// requested purpose. Comparison is purpose-scoped: an entry token never
// validates an exit request, even for the same session. The check is
// read-only; calling it repeatedly with the same token has no effect on
// the session record.
func (s *Service) Validate(ctx context.Context, examID, presented string, purpose models.PayloadType) (*Decision, error) {
	if examID == "" || presented == "" {
		return nil, utils.New(utils.KindInvalidInput, "examId and token are required")
	}
	if !purpose.Valid() {
		return nil, utils.Newf(utils.KindInvalidInput, "unknown validation purpose %q", purpose)
	}

	exam, err := s.store.FindExamByID(ctx, examID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, utils.New(utils.KindNotFound, "Exam not found")
	}
	if err != nil {
		return nil, fmt.Errorf("look up exam session: %w", err)
	}

	switch purpose {
	case models.PayloadEntry:
		if exam.EntryToken != presented {
			return nil, utils.New(utils.KindUnauthorized, "Invalid entry token")
		}
		return &Decision{
			Allowed:         true,
			ExamID:          exam.ID,
			ExamName:        exam.ExamName,
			DurationMinutes: exam.DurationMinutes,
			Message:         "Entry token valid. Start exam mode.",
		}, nil
	case models.PayloadExit:
		if exam.ExitToken != presented {
			return nil, utils.New(utils.KindUnauthorized, "Invalid exit token")
		}
		return &Decision{
			Allowed: true,
			ExamID:  exam.ID,
			Message: "Exit token valid. End exam mode.",
		}, nil
	}
	// Unreachable: purpose was validated above.
	return nil, utils.Newf(utils.KindInvalidInput, "unknown validation purpose %q", purpose)
}

// GetExam fetches a session by id, mapping store misses to the NotFound
// error kind.
func (s *Service) GetExam(ctx context.Context, examID string) (*models.ExamSession, error) {
	exam, err := s.store.FindExamByID(ctx, examID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, utils.New(utils.KindNotFound, "Exam not found")
	}
	if err != nil {
		return nil, fmt.Errorf("look up exam session: %w", err)
	}
	return exam, nil
}

// ListExams returns all sessions ordered by creation time.
func (s *Service) ListExams(ctx context.Context) ([]models.ExamSession, error) {
	return s.store.ListExams(ctx)
}

// RecordIncident persists an incident report. Validation is minimal:
// the incident type set is open, and an unknown examId is still worth
// recording as evidence.
func (s *Service) RecordIncident(ctx context.Context, inc *models.Incident) error {
	if inc.ExamID == "" || inc.Type == "" {
		return utils.New(utils.KindInvalidInput, "examId and type are required")
	}
	if inc.TimestampMillis == 0 {
		inc.TimestampMillis = time.Now().UnixMilli()
	}
	if err := s.store.SaveIncident(ctx, inc); err != nil {
		return fmt.Errorf("record incident: %w", err)
	}
	return nil
}
