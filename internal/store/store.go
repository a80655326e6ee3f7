// Package store persists exam sessions and received incidents. The
// server is handed a Store at construction; nothing in the service or
// handler layers touches a concrete backend directly.
package store

import (
	"context"
	"errors"

	"queon/internal/models"
)

// ErrNotFound is returned when no exam session exists for an id.
var ErrNotFound = errors.New("exam session not found")

type Store interface {
	CreateExam(ctx context.Context, exam *models.ExamSession) error
	// FindExamByID returns ErrNotFound for unknown ids.
	FindExamByID(ctx context.Context, id string) (*models.ExamSession, error)
	ListExams(ctx context.Context) ([]models.ExamSession, error)
	SaveIncident(ctx context.Context, inc *models.Incident) error
	ListIncidents(ctx context.Context, examID string) ([]models.Incident, error)
}
