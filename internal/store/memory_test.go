package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"queon/internal/models"
)

func TestMemoryStoreCreateAndFind(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	exam := &models.ExamSession{
		ID:              "exam-1",
		ExamName:        "Chemistry Final",
		DurationMinutes: 90,
		EntryToken:      "ent_a",
		ExitToken:       "ext_b",
		IsActive:        true,
		CreatedAt:       time.Now(),
	}
	if err := s.CreateExam(ctx, exam); err != nil {
		t.Fatalf("CreateExam() failed: %v", err)
	}

	got, err := s.FindExamByID(ctx, "exam-1")
	if err != nil {
		t.Fatalf("FindExamByID() failed: %v", err)
	}
	if got.ExamName != "Chemistry Final" {
		t.Fatalf("unexpected exam %+v", got)
	}

	// Returned value is a copy; mutating it must not touch the store.
	got.ExamName = "tampered"
	again, _ := s.FindExamByID(ctx, "exam-1")
	if again.ExamName != "Chemistry Final" {
		t.Fatal("store record mutated through returned pointer")
	}

	if _, err := s.FindExamByID(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("FindExamByID(missing) = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreListOrder(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	base := time.Now()

	for i, id := range []string{"c", "a", "b"} {
		err := s.CreateExam(ctx, &models.ExamSession{
			ID:        id,
			ExamName:  id,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("CreateExam(%s) failed: %v", id, err)
		}
	}

	all, err := s.ListExams(ctx)
	if err != nil {
		t.Fatalf("ListExams() failed: %v", err)
	}
	if len(all) != 3 || all[0].ID != "c" || all[2].ID != "b" {
		t.Fatalf("listing not in creation order: %+v", all)
	}
}

func TestMemoryStoreIncidents(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	inc := &models.Incident{ExamID: "exam-1", Type: models.IncidentFocusLost, Details: "x", TimestampMillis: 1}
	if err := s.SaveIncident(ctx, inc); err != nil {
		t.Fatalf("SaveIncident() failed: %v", err)
	}
	if inc.ID == "" || inc.ReceivedAt.IsZero() {
		t.Fatalf("incident not stamped on save: %+v", inc)
	}

	got, err := s.ListIncidents(ctx, "exam-1")
	if err != nil || len(got) != 1 {
		t.Fatalf("ListIncidents() = (%v, %v)", got, err)
	}
	if got, _ := s.ListIncidents(ctx, "other"); len(got) != 0 {
		t.Fatalf("unexpected incidents for other exam: %v", got)
	}
}
