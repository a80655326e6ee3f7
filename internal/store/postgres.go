package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"queon/internal/models"
)

// PostgresStore backs the server with a Postgres database. The two
// tables it needs are created on open; there is no migration tooling
// for a schema this small.
type PostgresStore struct {
	db *sql.DB
}

// OpenPostgres connects with the given lib/pq connection string and
// verifies the connection before returning.
func OpenPostgres(connStr string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	s := &PostgresStore{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) ensureSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS exam_sessions (
			id               TEXT PRIMARY KEY,
			exam_name        TEXT NOT NULL,
			room             TEXT,
			duration_minutes INTEGER NOT NULL,
			entry_token      TEXT NOT NULL,
			exit_token       TEXT NOT NULL,
			is_active        BOOLEAN NOT NULL,
			created_by_id    TEXT NOT NULL,
			created_at       TIMESTAMPTZ NOT NULL
		);
		CREATE TABLE IF NOT EXISTS incidents (
			id          TEXT PRIMARY KEY,
			exam_id     TEXT NOT NULL,
			type        TEXT NOT NULL,
			details     TEXT NOT NULL,
			ts_millis   BIGINT NOT NULL,
			received_at TIMESTAMPTZ NOT NULL
		);`)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) CreateExam(ctx context.Context, exam *models.ExamSession) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO exam_sessions
			(id, exam_name, room, duration_minutes, entry_token, exit_token, is_active, created_by_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		exam.ID, exam.ExamName, exam.Room, exam.DurationMinutes,
		exam.EntryToken, exam.ExitToken, exam.IsActive, exam.CreatedByID, exam.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert exam session: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindExamByID(ctx context.Context, id string) (*models.ExamSession, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, exam_name, room, duration_minutes, entry_token, exit_token, is_active, created_by_id, created_at
		FROM exam_sessions WHERE id = $1`, id)

	var exam models.ExamSession
	err := row.Scan(&exam.ID, &exam.ExamName, &exam.Room, &exam.DurationMinutes,
		&exam.EntryToken, &exam.ExitToken, &exam.IsActive, &exam.CreatedByID, &exam.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find exam session: %w", err)
	}
	return &exam, nil
}

func (s *PostgresStore) ListExams(ctx context.Context) ([]models.ExamSession, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, exam_name, room, duration_minutes, entry_token, exit_token, is_active, created_by_id, created_at
		FROM exam_sessions ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list exam sessions: %w", err)
	}
	defer rows.Close()

	var out []models.ExamSession
	for rows.Next() {
		var exam models.ExamSession
		if err := rows.Scan(&exam.ID, &exam.ExamName, &exam.Room, &exam.DurationMinutes,
			&exam.EntryToken, &exam.ExitToken, &exam.IsActive, &exam.CreatedByID, &exam.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan exam session: %w", err)
		}
		out = append(out, exam)
	}
	return out, rows.Err()
}

func (s *PostgresStore) SaveIncident(ctx context.Context, inc *models.Incident) error {
	if inc.ID == "" {
		inc.ID = uuid.NewString()
	}
	if inc.ReceivedAt.IsZero() {
		inc.ReceivedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO incidents (id, exam_id, type, details, ts_millis, received_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		inc.ID, inc.ExamID, inc.Type, inc.Details, inc.TimestampMillis, inc.ReceivedAt)
	if err != nil {
		return fmt.Errorf("insert incident: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListIncidents(ctx context.Context, examID string) ([]models.Incident, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, exam_id, type, details, ts_millis, received_at
		FROM incidents WHERE exam_id = $1 ORDER BY received_at`, examID)
	if err != nil {
		return nil, fmt.Errorf("list incidents: %w", err)
	}
	defer rows.Close()

	var out []models.Incident
	for rows.Next() {
		var inc models.Incident
		if err := rows.Scan(&inc.ID, &inc.ExamID, &inc.Type, &inc.Details, &inc.TimestampMillis, &inc.ReceivedAt); err != nil {
			return nil, fmt.Errorf("scan incident: %w", err)
		}
		out = append(out, inc)
	}
	return out, rows.Err()
}
